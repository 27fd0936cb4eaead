// Package simulator couples the well doublet control to a toy aquifer model.
// The driver owns the timestep and iteration loops; the controller only
// reacts to the temperatures it is shown.
package simulator

import (
	"context"
	"fmt"
	"log"

	"github.com/ryansname/welldoublet/src/wdc"
)

// Request is the operator demand applied to every timestep of a run
type Request struct {
	PowerRate float64 `json:"powerrate"`
	Target    float64 `json:"value_target"`
	Threshold float64 `json:"value_threshold"`
}

// TimestepReport is emitted once per completed timestep
type TimestepReport struct {
	RunID      string     `json:"run_id,omitempty"`
	Step       int        `json:"timestep"`
	Iterations int        `json:"iterations"`
	Converged  bool       `json:"converged"`
	Request    Request    `json:"request"`
	Result     wdc.Result `json:"result"`
	// Temperatures is the accepted temperature field along the grid
	Temperatures []float64 `json:"temperatures"`
	// COP of the heat pump, zero when none is attached
	COP float64 `json:"cop,omitempty"`
}

// Observer is notified after every timestep
type Observer interface {
	TimestepDone(report TimestepReport)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(report TimestepReport)

// TimestepDone implements Observer
func (f ObserverFunc) TimestepDone(report TimestepReport) {
	f(report)
}

// Driver runs the timestep loop of the fake simulator against a controller
type Driver struct {
	params        Parameters
	accuracy      float64
	newController ControllerFactory
	heatPump      wdc.HeatPump
	observers     []Observer
	runID         string
}

// NewDriver creates a driver. accuracy is the temperature accuracy used for
// the iteration error as well as the controller convergence check.
func NewDriver(params Parameters, accuracy float64, factory ControllerFactory) *Driver {
	return &Driver{
		params:        params,
		accuracy:      accuracy,
		newController: factory,
	}
}

// WithHeatPump attaches a heat pump; extracting requests are then read as
// heat delivered at the pump's sink.
func (d *Driver) WithHeatPump(hp wdc.HeatPump) *Driver {
	d.heatPump = hp
	return d
}

// WithRunID stamps every report with the given id
func (d *Driver) WithRunID(id string) *Driver {
	d.runID = id
	return d
}

// AddObserver registers an observer for timestep reports
func (d *Driver) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// Run simulates all timesteps and returns their reports. A timestep that hits
// the iteration cap is reported with Converged false and the run goes on.
// ctx is checked between timesteps only.
func (d *Driver) Run(ctx context.Context, req Request) ([]TimestepReport, error) {
	p := d.params
	sim := NewFakeSimulator(p)
	tUA := p.UpwindTemperature(req.PowerRate)

	balancing := func(tHE float64) wdc.BalancingProperties {
		return wdc.BalancingProperties{
			THE:                      tHE,
			TUA:                      tUA,
			VolumetricHeatCapacityHE: p.HeatCapacity,
			VolumetricHeatCapacityUA: p.HeatCapacity,
		}
	}

	reports := make([]TimestepReport, 0, p.Timesteps)
	for step := range p.Timesteps {
		if err := ctx.Err(); err != nil {
			return reports, fmt.Errorf("run stopped before timestep %d: %w", step, err)
		}

		qH := req.PowerRate
		var cop float64
		if d.heatPump != nil && qH < 0 {
			qH = d.heatPump.HeatSource(qH, sim.THE(), tUA)
			cop = d.heatPump.COP()
		}

		c := d.newController()
		c.Configure(qH, req.Target, req.Threshold, balancing(sim.THE()))

		iterations, converged := 0, false
		for i := range p.MaxIterations {
			r := c.Result()
			delta := sim.Iterate(r.QH, r.QW)
			tHE := sim.THE()
			c.EvaluateSimulationResult(balancing(tHE))
			iterations = i + 1

			if i >= p.MinIterations-1 && delta < d.accuracy && c.Converged(tHE, d.accuracy) {
				converged = true
				break
			}
		}
		sim.Commit()

		if !converged {
			log.Printf("Timestep %d not converged after %d iterations\n", step, iterations)
		}

		report := TimestepReport{
			RunID:        d.runID,
			Step:         step,
			Iterations:   iterations,
			Converged:    converged,
			Request:      req,
			Result:       c.Result(),
			Temperatures: sim.Temperatures(),
			COP:          cop,
		}
		reports = append(reports, report)
		for _, o := range d.observers {
			o.TimestepDone(report)
		}
	}
	return reports, nil
}
