package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ryansname/welldoublet/src/simulator"
)

// runLog appends one line per timestep to the run log file
type runLog struct {
	logger *log.Logger
	runID  string
}

func newRunLog(w io.Writer, runID string) *runLog {
	return &runLog{
		logger: log.New(w, "", log.Ldate|log.Ltime),
		runID:  runID,
	}
}

// openRunLog opens the log file for appending
func openRunLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	return f, nil
}

// Start records the configuration of the run
func (l *runLog) Start(cfg RunConfig) {
	l.logger.Printf("run=%s start %s Q_H=%g target=%g threshold=%g timesteps=%d\n",
		l.runID, cfg.Scheme, cfg.Request.PowerRate, cfg.Request.Target, cfg.Request.Threshold,
		cfg.Parameters.Timesteps)
}

// TimestepDone implements simulator.Observer
func (l *runLog) TimestepDone(r simulator.TimestepReport) {
	res := r.Result
	l.logger.Printf("run=%s timestep=%d iterations=%d converged=%t Q_H=%g Q_W=%g T_HE=%.4f T_UA=%.4f state=%s\n",
		l.runID, r.Step, r.Iterations, r.Converged, res.QH, res.QW, res.THE, res.TUA, res.StorageState)
	if r.COP != 0 {
		l.logger.Printf("run=%s timestep=%d COP=%.3f\n", l.runID, r.Step, r.COP)
	}
}
