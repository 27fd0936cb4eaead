package simulator

import (
	"context"
	"math"
	"testing"

	"github.com/ryansname/welldoublet/src/wdc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSimulator_Advection(t *testing.T) {
	p := DefaultParameters()
	p.GridSize = 4
	p.HENode = 2
	s := NewFakeSimulator(p)

	delta := s.Iterate(0, 0)
	assert.Zero(t, delta)
	assert.Equal(t, []float64{50, 50, 50, 50}, s.Temperatures())

	// dt*Q_H/capacity = 100*1e5/5e6 = 2
	delta = s.Iterate(1e5, 0.01)
	assert.InDelta(t, 2, delta, 1e-12)
	assert.InDelta(t, 52, s.THE(), 1e-12)

	// the same rates give the same field
	assert.Zero(t, s.Iterate(1e5, 0.01))
	s.Commit()

	// the heat now moves downstream: 100*0.01*0.5*(52-50)
	s.Iterate(0, 0.01)
	temps := s.Temperatures()
	assert.InDelta(t, 50, temps[0], 1e-12)
	assert.InDelta(t, 50, temps[1], 1e-12)
	assert.InDelta(t, 52-1, temps[2], 1e-12)
	assert.InDelta(t, 50+1, temps[3], 1e-12)
}

func TestFakeSimulator_TemperaturesIsACopy(t *testing.T) {
	s := NewFakeSimulator(DefaultParameters())
	temps := s.Temperatures()
	temps[5] = -1
	assert.Equal(t, 50.0, s.THE())
}

func TestParameters_Validate(t *testing.T) {
	assert.NoError(t, DefaultParameters().Validate())

	tests := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"heat exchanger outside grid", func(p *Parameters) { p.HENode = 11 }},
		{"heat exchanger on inlet", func(p *Parameters) { p.HENode = 0 }},
		{"cap below minimum", func(p *Parameters) { p.MaxIterations = 2 }},
		{"no timesteps", func(p *Parameters) { p.Timesteps = 0 }},
		{"porosity above one", func(p *Parameters) { p.Porosity = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			assert.ErrorContains(t, p.Validate(), "invalid simulator parameters")
		})
	}
}

// Reference runs of the default setup, final timestep
func TestDriver_ReferenceRuns(t *testing.T) {
	tests := []struct {
		name         string
		scheme       wdc.Scheme
		req          Request
		qH, qW, tHE  float64
		state        wdc.StorageState
		allConverged bool
	}{
		{"scheme 1 storing low demand", wdc.Scheme1, Request{1e5, 100, 0.01},
			1e5, 1e-5, 69.955, wdc.TargetNotAchievable, true},
		{"scheme 1 storing on demand", wdc.Scheme1, Request{1e6, 100, 0.01},
			1e6, 0.0079985, 100.0094, wdc.OnDemand, true},
		{"scheme 1 storing flow exhausted", wdc.Scheme1, Request{2e6, 100, 0.01},
			1.25e6, 0.01, 100, wdc.PowerrateToAdapt, true},
		{"scheme 1 extracting low demand", wdc.Scheme1, Request{-1e5, 20, -0.01},
			-1e5, -1e-5, 30.045, wdc.TargetNotAchievable, true},
		{"scheme 1 extracting on demand", wdc.Scheme1, Request{-5e5, 20, -0.01},
			-5e5, -0.0066645, 19.990, wdc.OnDemand, false},
		{"scheme 1 extracting flow exhausted", wdc.Scheme1, Request{-1e6, 20, -0.01},
			-7.5e5, -0.01, 20, wdc.PowerrateToAdapt, true},
		{"scheme 0 storing below threshold", wdc.Scheme0, Request{1e6, 0.01, 100},
			1e6, 0.01, 89.9609, wdc.OnDemand, true},
		{"scheme 0 storing at threshold", wdc.Scheme0, Request{1e6, 0.01, 80},
			7.5e5, 0.01, 80, wdc.PowerrateToAdapt, true},
		{"scheme 0 extracting above threshold", wdc.Scheme0, Request{-1e5, -0.01, 30},
			-1e5, -0.01, 46.0039, wdc.OnDemand, true},
		{"scheme 0 extracting at threshold", wdc.Scheme0, Request{-1e6, -0.01, 30},
			-5e5, -0.01, 30, wdc.PowerrateToAdapt, true},
		{"scheme 2 storing low demand", wdc.Scheme2, Request{1e5, 4.5e8, 0.01},
			1e5, 1e-5, 69.955, wdc.TargetNotAchievable, true},
		{"scheme 2 storing on demand", wdc.Scheme2, Request{1e6, 4.5e8, 0.01},
			1e6, 0.0079986, 100.0086, wdc.OnDemand, false},
		{"scheme 2 storing flow exhausted", wdc.Scheme2, Request{2e6, 4.5e8, 0.01},
			1.25e6, 0.01, 100, wdc.PowerrateToAdapt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := wdc.DefaultTuning()
			d := NewDriver(DefaultParameters(), tuning.Accuracies.Temperature, WellDoubletFactory(tt.scheme, tuning))

			reports, err := d.Run(context.Background(), tt.req)
			require.NoError(t, err)
			require.Len(t, reports, 10)

			last := reports[len(reports)-1].Result
			assert.InEpsilon(t, tt.qH, last.QH, 1e-2)
			assert.InDelta(t, tt.qW, last.QW, 1e-6)
			assert.InDelta(t, tt.tHE, last.THE, 1e-2)
			assert.Equal(t, tt.state, last.StorageState)

			if tt.allConverged {
				for _, r := range reports {
					assert.True(t, r.Converged, "timestep %d", r.Step)
				}
			}
			for _, r := range reports {
				assert.GreaterOrEqual(t, r.Iterations, 3)
				assert.LessOrEqual(t, r.Iterations, 200)
				assert.GreaterOrEqual(t, r.Result.QH*r.Result.QW, 0.0)
				assert.LessOrEqual(t, math.Abs(r.Result.QH), math.Abs(tt.req.PowerRate))
			}
		})
	}
}

func TestDriver_SchemeZeroConvergesInMinimumIterations(t *testing.T) {
	tuning := wdc.DefaultTuning()
	d := NewDriver(DefaultParameters(), tuning.Accuracies.Temperature, WellDoubletFactory(wdc.Scheme0, tuning))

	reports, err := d.Run(context.Background(), Request{PowerRate: 1e6, Target: 0.01, Threshold: 100})
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, 3, r.Iterations)
	}
}

func TestDriver_SpreadSchemeRunsToCap(t *testing.T) {
	tuning := wdc.DefaultTuning()
	d := NewDriver(DefaultParameters(), tuning.Accuracies.Temperature, WellDoubletFactory(wdc.Scheme2, tuning))

	reports, err := d.Run(context.Background(), Request{PowerRate: -1e6, Target: 1.5e8, Threshold: -0.01})
	require.NoError(t, err)

	for _, r := range reports {
		assert.Equal(t, 200, r.Iterations)
		assert.False(t, r.Converged)
	}
	last := reports[len(reports)-1].Result
	assert.InEpsilon(t, -5e5, last.QH, 1e-2)
	assert.InDelta(t, 30, last.THE, 1e-2)
	assert.Equal(t, wdc.PowerrateToAdapt, last.StorageState)
}
