package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	"github.com/rs/xid"
	"github.com/ryansname/welldoublet/src/simulator"
	"github.com/ryansname/welldoublet/src/wdc"
	"github.com/spf13/cobra"
)

// mqttDrainTimeout bounds how long a finished run waits for queued messages
const mqttDrainTimeout = 10 * time.Second

// safeGoBaseDelay is the wait before the first restart of a panicking worker
var safeGoBaseDelay = time.Second

// SafeGo runs fn in a goroutine and restarts it after a panic, doubling the
// wait each time up to 30s. A run is short lived, so panics are counted over
// the whole run: the fifth one cancels the run.
func SafeGo(
	ctx context.Context,
	cancel context.CancelFunc,
	name string,
	fn func(ctx context.Context),
) {
	const maxRetries = 5
	const maxDelay = 30 * time.Second

	go func() {
		retries := 0
		delay := safeGoBaseDelay

		for {
			var panicValue any

			func() {
				defer func() {
					panicValue = recover()
				}()
				fn(ctx)
			}()

			if panicValue == nil {
				return
			}

			retries++
			log.Printf("Panic in %s (attempt %d/%d): %v\n", name, retries, maxRetries, panicValue)

			if retries >= maxRetries {
				log.Printf("%s failed after %d retries, shutting down\n", name, maxRetries)
				cancel()
				return
			}

			log.Printf("%s will retry in %v\n", name, delay)
			select {
			case <-time.After(delay):
				delay = min(delay*2, maxDelay)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// runFlags are the command line overrides of the environment and settings file
type runFlags struct {
	settingsFile  string
	logFile       string
	metricsFile   string
	timesteps     int
	maxIterations int
	heatPumpEta   float64
	heatPumpSink  float64
}

func newRootCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "welldoublet <scheme> <power-rate> <target> <threshold>",
		Short: "Simulate a well doublet under one of the control schemes",
		Long: `Runs the well doublet control against a toy aquifer model.

Schemes:
  0  fixed flow rate (target), power rate lowered at the T_HE threshold
  1  flow rate then power rate adapted to reach the T_HE target, threshold caps the flow rate
  2  like 1, but targeting the capacity weighted temperature spread

A positive power rate stores heat, a negative one extracts it.`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(args, flags)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.settingsFile, "tuning", os.Getenv("WDC_TUNING_FILE"), "YAML settings file with tuning and simulator sections")
	f.StringVar(&flags.logFile, "log-file", envOr("WDC_LOG_FILE", DefaultLogFile), "run log file, empty disables the run log")
	f.StringVar(&flags.metricsFile, "metrics-file", os.Getenv("WDC_METRICS_FILE"), "Prometheus textfile written after the run")
	f.IntVar(&flags.timesteps, "timesteps", 0, "number of timesteps (overrides the settings file)")
	f.IntVar(&flags.maxIterations, "max-iterations", 0, "iteration cap per timestep (overrides the settings file)")
	f.Float64Var(&flags.heatPumpEta, "heat-pump-eta", 0, "Carnot quality grade of a heat pump on the extraction side, 0 for none")
	f.Float64Var(&flags.heatPumpSink, "heat-pump-sink", 60, "heat pump sink temperature")

	return cmd
}

// buildConfig merges arguments, flags, environment and settings file into a validated RunConfig
func buildConfig(args []string, flags runFlags) (RunConfig, error) {
	scheme, req, err := parseRequest(args)
	if err != nil {
		return RunConfig{}, err
	}

	tuning, params, err := loadSettings(flags.settingsFile)
	if err != nil {
		return RunConfig{}, err
	}
	if flags.timesteps > 0 {
		params.Timesteps = flags.timesteps
	}
	if flags.maxIterations > 0 {
		params.MaxIterations = flags.maxIterations
	}

	cfg := RunConfig{
		Scheme:      scheme,
		Request:     req,
		Tuning:      tuning,
		Parameters:  params,
		LogFile:     flags.logFile,
		MetricsFile: flags.metricsFile,
		HeatPump:    HeatPumpConfig{Eta: flags.heatPumpEta, TSink: flags.heatPumpSink},
		MQTT:        mqttConfigFromEnv(),
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// mqttPublisher owns the MQTT workers of one run
type mqttPublisher struct {
	sender     *MQTTSender
	outgoing   chan MQTTMessage
	senderDone chan struct{}
	stop       context.CancelFunc
}

func startMQTT(ctx context.Context, cancel context.CancelFunc, cfg MQTTConfig, runID string) *mqttPublisher {
	connCtx, stop := context.WithCancel(ctx)
	p := &mqttPublisher{
		outgoing:   make(chan MQTTMessage, 100),
		senderDone: make(chan struct{}),
		stop:       stop,
	}
	p.sender = NewMQTTSender(p.outgoing, cfg.TopicPrefix)
	clientChan := make(chan mqtt.Client, 1) // Buffered to prevent blocking onConnect

	SafeGo(ctx, cancel, "mqtt-sender-worker", func(ctx context.Context) {
		mqttSenderWorker(ctx, p.outgoing, clientChan)
		close(p.senderDone)
	})
	SafeGo(connCtx, cancel, "mqtt-worker", func(ctx context.Context) {
		mqttWorker(ctx, cfg.Broker, cfg.Username, cfg.Password, "welldoublet-"+runID, clientChan)
	})
	log.Println("MQTT workers started")

	return p
}

// Close waits for queued messages to be published and disconnects
func (p *mqttPublisher) Close(timeout time.Duration) {
	close(p.outgoing)
	select {
	case <-p.senderDone:
	case <-time.After(timeout):
		log.Printf("MQTT queue not drained after %v\n", timeout)
	}
	p.stop()
}

func run(ctx context.Context, cfg RunConfig, out io.Writer) error {
	runID := xid.New().String()
	log.Printf("Run %s: %s, Q_H=%g target=%g threshold=%g\n",
		runID, cfg.Scheme, cfg.Request.PowerRate, cfg.Request.Target, cfg.Request.Threshold)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	driver := simulator.NewDriver(
		cfg.Parameters,
		cfg.Tuning.Accuracies.Temperature,
		simulator.WellDoubletFactory(cfg.Scheme, cfg.Tuning),
	).WithRunID(runID)
	if cfg.HeatPump.Enabled() {
		driver.WithHeatPump(&wdc.CarnotHeatPump{Eta: cfg.HeatPump.Eta, TSink: cfg.HeatPump.TSink})
	}

	if cfg.LogFile != "" {
		f, err := openRunLog(cfg.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()

		rl := newRunLog(f, runID)
		rl.Start(cfg)
		driver.AddObserver(rl)
	}

	metrics := newRunMetrics(runID, cfg.Scheme)
	driver.AddObserver(metrics)

	var publisher *mqttPublisher
	if cfg.MQTT.Enabled() {
		publisher = startMQTT(ctx, cancel, cfg.MQTT, runID)
		if err := publisher.sender.createResultEntities(); err != nil {
			log.Printf("Failed to create Home Assistant entities: %v\n", err)
		}
		driver.AddObserver(publisher.sender)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Println("\nShutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	reports, runErr := driver.Run(ctx, cfg.Request)

	if publisher != nil {
		publisher.Close(mqttDrainTimeout)
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Printf("Warning: %v\n", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	return writeSummary(out, runID, reports)
}

// runSummary is printed to stdout once a run completes
type runSummary struct {
	RunID              string     `json:"run_id"`
	Timesteps          int        `json:"timesteps"`
	ConvergedTimesteps int        `json:"converged_timesteps"`
	Result             wdc.Result `json:"result"`
}

func writeSummary(w io.Writer, runID string, reports []simulator.TimestepReport) error {
	if len(reports) == 0 {
		return fmt.Errorf("run %s produced no timesteps", runID)
	}

	summary := runSummary{
		RunID:     runID,
		Timesteps: len(reports),
		Result:    reports[len(reports)-1].Result,
	}
	for _, r := range reports {
		if r.Converged {
			summary.ConvergedTimesteps++
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func main() {
	log.Println("Starting welldoublet...")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("welldoublet: %v", err)
	}
}
