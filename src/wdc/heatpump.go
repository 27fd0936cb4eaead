package wdc

import "math"

// HeatPump converts the heat delivered at the sink into the heat drawn from the source
type HeatPump interface {
	// HeatSource returns the heat taken from the source side for the given sink heat
	HeatSource(heatSink, tSourceIn, tSourceOut float64) float64
	// COP of the last conversion, -1 when the pump was bypassed
	COP() float64
}

// CarnotHeatPump is an ideal heat pump scaled by a quality grade Eta
type CarnotHeatPump struct {
	Eta   float64 // fraction of the Carnot efficiency reached
	TSink float64 // sink temperature, Celsius if <= 200, Kelvin otherwise

	cop float64
}

// HeatSource applies COP = Eta*TSink/(TSink-tSourceIn) with TSink in Kelvin.
// When no positive finite COP exists the pump is bypassed and the sink heat
// passes through unchanged.
func (h *CarnotHeatPump) HeatSource(heatSink, tSourceIn, _ float64) float64 {
	conversion := 273.15
	if h.TSink > 200 {
		conversion = 0
	}

	lift := h.TSink - tSourceIn
	if lift <= 0 {
		h.cop = -1
		return heatSink
	}

	h.cop = h.Eta * (h.TSink + conversion) / lift
	if h.cop <= 0 || math.IsInf(h.cop, 0) {
		h.cop = -1
		return heatSink
	}
	return heatSink * (h.cop - 1) / h.cop
}

// COP implements HeatPump
func (h *CarnotHeatPump) COP() float64 {
	return h.cop
}

// NoHeatPump uses the well doublet heat directly
type NoHeatPump struct{}

// HeatSource returns heatSink unchanged
func (NoHeatPump) HeatSource(heatSink, _, _ float64) float64 {
	return heatSink
}

// COP implements HeatPump
func (NoHeatPump) COP() float64 {
	return -1
}
