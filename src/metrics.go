package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ryansname/welldoublet/src/simulator"
	"github.com/ryansname/welldoublet/src/wdc"
)

var storageStates = []wdc.StorageState{
	wdc.OnDemand,
	wdc.PowerrateToAdapt,
	wdc.RatesReduced,
	wdc.TargetNotAchievable,
}

// runMetrics collects the metrics of a single run in its own registry, so the
// result can be written as a node exporter textfile once the run is over
type runMetrics struct {
	registry *prometheus.Registry

	timesteps    prometheus.Counter
	notConverged prometheus.Counter
	iterations   prometheus.Histogram
	powerrate    prometheus.Gauge
	flowrate     prometheus.Gauge
	tHE          prometheus.Gauge
	tUA          prometheus.Gauge
	cop          prometheus.Gauge
	state        *prometheus.GaugeVec
}

func newRunMetrics(runID string, scheme wdc.Scheme) *runMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"run_id": runID, "scheme": fmt.Sprint(int(scheme))}

	return &runMetrics{
		registry: reg,
		timesteps: factory.NewCounter(prometheus.CounterOpts{
			Name:        "welldoublet_timesteps_total",
			Help:        "Timesteps completed by the run",
			ConstLabels: labels,
		}),
		notConverged: factory.NewCounter(prometheus.CounterOpts{
			Name:        "welldoublet_timesteps_not_converged_total",
			Help:        "Timesteps that stopped at the iteration cap",
			ConstLabels: labels,
		}),
		iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "welldoublet_iterations",
			Help:        "Controller iterations per timestep",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 9), // 1 to 256
		}),
		powerrate: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "welldoublet_powerrate_watts",
			Help:        "Power rate of the last timestep",
			ConstLabels: labels,
		}),
		flowrate: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "welldoublet_flowrate_cubic_meters_per_second",
			Help:        "Flow rate of the last timestep",
			ConstLabels: labels,
		}),
		tHE: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "welldoublet_heat_exchanger_temperature_celsius",
			Help:        "Temperature at the heat exchanger well",
			ConstLabels: labels,
		}),
		tUA: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "welldoublet_upwind_aquifer_temperature_celsius",
			Help:        "Temperature at the upwind aquifer well",
			ConstLabels: labels,
		}),
		cop: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "welldoublet_heat_pump_cop",
			Help:        "Heat pump coefficient of performance, -1 when bypassed, 0 without heat pump",
			ConstLabels: labels,
		}),
		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "welldoublet_storage_state",
			Help:        "1 for the storage state of the last timestep",
			ConstLabels: labels,
		}, []string{"state"}),
	}
}

// TimestepDone implements simulator.Observer
func (m *runMetrics) TimestepDone(r simulator.TimestepReport) {
	m.timesteps.Inc()
	if !r.Converged {
		m.notConverged.Inc()
	}
	m.iterations.Observe(float64(r.Iterations))

	m.powerrate.Set(r.Result.QH)
	m.flowrate.Set(r.Result.QW)
	m.tHE.Set(r.Result.THE)
	m.tUA.Set(r.Result.TUA)
	m.cop.Set(r.COP)

	for _, s := range storageStates {
		v := 0.0
		if s == r.Result.StorageState {
			v = 1
		}
		m.state.WithLabelValues(s.String()).Set(v)
	}
}

// WriteTextfile writes all metrics in the text exposition format
func (m *runMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
