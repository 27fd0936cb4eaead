package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/ryansname/welldoublet/src/simulator"
	"github.com/ryansname/welldoublet/src/wdc"
	"gopkg.in/yaml.v3"
)

// DefaultLogFile receives the human readable run log
const DefaultLogFile = "logging.txt"

// DefaultTopicPrefix is used when MQTT_TOPIC_PREFIX is unset
const DefaultTopicPrefix = "welldoublet"

// MQTTConfig holds the optional broker connection
type MQTTConfig struct {
	Broker      string `validate:"omitempty,hostname|hostname_port|url"`
	Username    string `validate:"required_with=Password"`
	Password    string
	TopicPrefix string `validate:"required"`
}

// Enabled reports whether results should be published
func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// HeatPumpConfig describes an optional Carnot heat pump on the extraction side
type HeatPumpConfig struct {
	Eta   float64 `validate:"gte=0,lte=1"`
	TSink float64
}

// Enabled reports whether a heat pump is attached
func (c HeatPumpConfig) Enabled() bool {
	return c.Eta > 0
}

// RunConfig is everything a single simulation run needs
type RunConfig struct {
	Scheme     wdc.Scheme `validate:"gte=0,lte=2"`
	Request    simulator.Request
	Tuning     wdc.Tuning
	Parameters simulator.Parameters

	LogFile     string
	MetricsFile string
	HeatPump    HeatPumpConfig
	MQTT        MQTTConfig
}

var configValidate = validator.New()

// Validate checks the whole run configuration, including tuning and simulator parameters
func (c RunConfig) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// settingsFile is the layout of the optional YAML settings file
type settingsFile struct {
	Tuning    wdc.Tuning           `yaml:"tuning"`
	Simulator simulator.Parameters `yaml:"simulator"`
}

// loadSettings reads the settings file over the built-in defaults.
// An empty path returns the defaults.
func loadSettings(path string) (wdc.Tuning, simulator.Parameters, error) {
	settings := settingsFile{
		Tuning:    wdc.DefaultTuning(),
		Simulator: simulator.DefaultParameters(),
	}
	if path == "" {
		return settings.Tuning, settings.Simulator, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings.Tuning, settings.Simulator, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings.Tuning, settings.Simulator, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return settings.Tuning, settings.Simulator, nil
}

// parseRequest converts the positional CLI arguments
func parseRequest(args []string) (wdc.Scheme, simulator.Request, error) {
	var req simulator.Request

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, req, fmt.Errorf("scheme: %w", err)
	}
	scheme, err := wdc.ParseScheme(id)
	if err != nil {
		return 0, req, err
	}

	values := make([]float64, 3)
	names := []string{"power rate", "target", "threshold"}
	for i, arg := range args[1:4] {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, req, fmt.Errorf("%s: %w", names[i], err)
		}
		values[i] = v
	}

	req = simulator.Request{PowerRate: values[0], Target: values[1], Threshold: values[2]}
	return scheme, req, nil
}

// envOr returns the environment variable or the fallback when unset
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// mqttConfigFromEnv reads the broker settings, as loaded from .env
func mqttConfigFromEnv() MQTTConfig {
	return MQTTConfig{
		Broker:      os.Getenv("MQTT_BROKER"),
		Username:    os.Getenv("MQTT_USERNAME"),
		Password:    os.Getenv("MQTT_PASSWORD"),
		TopicPrefix: envOr("MQTT_TOPIC_PREFIX", DefaultTopicPrefix),
	}
}
