package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ryansname/welldoublet/src/simulator"
)

// MQTTMessage represents an outgoing MQTT message
type MQTTMessage struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// MQTTSender wraps a channel for sending MQTT messages with helper methods
type MQTTSender struct {
	ch     chan<- MQTTMessage
	prefix string
}

// NewMQTTSender creates a new MQTTSender publishing below the topic prefix
func NewMQTTSender(ch chan<- MQTTMessage, prefix string) *MQTTSender {
	return &MQTTSender{ch: ch, prefix: prefix}
}

// Send sends a raw MQTTMessage
func (s *MQTTSender) Send(msg MQTTMessage) {
	s.ch <- msg
}

// TimestepTopic is where every timestep report is published
func (s *MQTTSender) TimestepTopic() string {
	return s.prefix + "/timestep"
}

// TimestepDone publishes the report as JSON, implementing simulator.Observer
func (s *MQTTSender) TimestepDone(report simulator.TimestepReport) {
	payload, err := json.Marshal(report)
	if err != nil {
		log.Printf("Failed to encode timestep %d: %v\n", report.Step, err)
		return
	}

	s.Send(MQTTMessage{
		Topic:   s.TimestepTopic(),
		Payload: payload,
		QoS:     1,
		Retain:  false,
	})
}

// CreateResultEntity announces one field of the timestep report as a Home
// Assistant sensor via MQTT discovery
func (s *MQTTSender) CreateResultEntity(
	entityName, entityClass, entityMeasure, jsonPath string,
	displayPrecision int,
) error {
	type haDeviceConfig struct {
		Identifiers  []string `json:"identifiers"`
		Name         string   `json:"name"`
		Manufacturer string   `json:"manufacturer,omitempty"`
	}

	type haEntityConfig struct {
		Name             string         `json:"name,omitempty"`
		DeviceClass      string         `json:"device_class,omitempty"`
		StateTopic       string         `json:"state_topic"`
		UnitOfMeasure    string         `json:"unit_of_measurement,omitempty"`
		ValueTemplate    string         `json:"value_template"`
		UniqueId         string         `json:"unique_id"`
		StateClass       string         `json:"state_class,omitempty"`
		DisplayPrecision int            `json:"suggested_display_precision,omitempty"`
		Device           haDeviceConfig `json:"device"`
	}

	uniqueID := s.prefix + "_" + sanitizeKey(jsonPath)

	config := haEntityConfig{
		Name:             entityName,
		DeviceClass:      entityClass,
		StateTopic:       s.TimestepTopic(),
		UnitOfMeasure:    entityMeasure,
		ValueTemplate:    "{{ value_json." + jsonPath + " }}",
		UniqueId:         uniqueID,
		StateClass:       "measurement",
		DisplayPrecision: displayPrecision,
		Device: haDeviceConfig{
			Identifiers:  []string{s.prefix},
			Name:         "Well Doublet",
			Manufacturer: "Custom",
		},
	}

	payload, err := json.Marshal(config)
	if err != nil {
		return err
	}

	s.Send(MQTTMessage{
		Topic:   fmt.Sprintf("homeassistant/sensor/%s/config", uniqueID),
		Payload: payload,
		QoS:     2,
		Retain:  true,
	})

	return nil
}

// createResultEntities announces the sensors a dashboard cares about
func (s *MQTTSender) createResultEntities() error {
	entities := []struct {
		name, class, measure, path string
		precision                  int
	}{
		{"Power Rate", "power", "W", "result.powerrate", 0},
		{"Flow Rate", "volume_flow_rate", "m³/s", "result.flowrate", 5},
		{"Heat Exchanger Temperature", "temperature", "°C", "result.T_HE", 2},
		{"Upwind Aquifer Temperature", "temperature", "°C", "result.T_UA", 2},
		{"Storage State", "", "", "result.storage_state", 0},
		{"Iterations", "", "", "iterations", 0},
	}

	for _, e := range entities {
		if err := s.CreateResultEntity(e.name, e.class, e.measure, e.path, e.precision); err != nil {
			return fmt.Errorf("create %s entity: %w", e.name, err)
		}
	}
	return nil
}

func sanitizeKey(path string) string {
	out := []byte(path)
	for i, c := range out {
		if c == '.' {
			out[i] = '_'
		}
	}
	return string(out)
}

// mqttSenderWorker publishes outgoing messages, queuing them until a client
// is connected. It returns once outgoingChan is closed and drained, or when
// the context is cancelled.
func mqttSenderWorker(
	ctx context.Context,
	outgoingChan <-chan MQTTMessage,
	clientChan <-chan mqtt.Client,
) {
	log.Println("MQTT sender worker started")

	var client mqtt.Client
	var messageQueue []MQTTMessage
	closed := false

	publish := func(msg MQTTMessage) {
		token := client.Publish(msg.Topic, msg.QoS, msg.Retain, msg.Payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("Failed to publish to %s: %v\n", msg.Topic, token.Error())
		}
	}

	for {
		if closed && len(messageQueue) == 0 {
			log.Println("MQTT sender worker drained")
			return
		}

		select {
		case newClient := <-clientChan:
			log.Println("MQTT sender worker received new client")
			client = newClient

			// Process any queued messages now that we have a client
			if client != nil && client.IsConnected() {
				queuedCount := len(messageQueue)
				for _, msg := range messageQueue {
					publish(msg)
				}
				messageQueue = nil
				if queuedCount > 0 {
					log.Printf("MQTT sender worker processed %d queued messages\n", queuedCount)
				}
			}

		case msg, ok := <-outgoingChan:
			if !ok {
				closed = true
				outgoingChan = nil
				continue
			}

			if client != nil && client.IsConnected() {
				publish(msg)
			} else {
				messageQueue = append(messageQueue, msg)
				log.Printf("MQTT sender worker queued message (total queued: %d)\n", len(messageQueue))
			}

		case <-ctx.Done():
			if len(messageQueue) > 0 {
				log.Printf("MQTT sender worker dropped %d queued messages\n", len(messageQueue))
			}
			log.Println("MQTT sender worker stopped")
			return
		}
	}
}
