package simulator

import "math"

// FakeSimulator is a one dimensional explicit upwind advection model of the
// aquifer between the wells. Node 0 is the inlet and keeps its temperature.
type FakeSimulator struct {
	params Parameters

	previous []float64 // accepted temperatures of the last timestep
	current  []float64 // temperatures of the latest iteration
	iterate  []float64 // temperatures of the iteration before, for the error
}

// NewFakeSimulator creates a simulator at the initial storage temperature
func NewFakeSimulator(params Parameters) *FakeSimulator {
	s := &FakeSimulator{
		params:   params,
		previous: make([]float64, params.GridSize),
		current:  make([]float64, params.GridSize),
		iterate:  make([]float64, params.GridSize),
	}
	for i := range s.previous {
		s.previous[i] = params.InitialTemperature
	}
	copy(s.current, s.previous)
	copy(s.iterate, s.previous)
	return s
}

// Iterate recomputes the current timestep with the given rates and returns the
// largest temperature change against the previous iteration.
func (s *FakeSimulator) Iterate(qH, qW float64) float64 {
	p := s.params
	advection := p.TimestepSize * math.Abs(qW) * p.Porosity

	s.current[0] = s.previous[0]
	for i := 1; i < len(s.current); i++ {
		s.current[i] = s.previous[i] + advection*(s.previous[i-1]-s.previous[i])
	}
	s.current[p.HENode] += p.TimestepSize * qH / p.HeatCapacity

	var maxDelta float64
	for i, t := range s.current {
		maxDelta = max(maxDelta, math.Abs(t-s.iterate[i]))
	}
	copy(s.iterate, s.current)
	return maxDelta
}

// Commit accepts the current iteration as the result of the timestep
func (s *FakeSimulator) Commit() {
	copy(s.previous, s.current)
	copy(s.iterate, s.current)
}

// THE is the current temperature at the heat exchanger well
func (s *FakeSimulator) THE() float64 {
	return s.current[s.params.HENode]
}

// Temperatures returns a copy of the current temperature field
func (s *FakeSimulator) Temperatures() []float64 {
	out := make([]float64, len(s.current))
	copy(out, s.current)
	return out
}
