package wdc

import "math"

// spreadFloor replaces a vanishing spread before it is used as a divisor
const spreadFloor = 1e-10

// scheme2 has the topology of scheme1 but targets the capacity weighted
// spread between both wells, i.e. the heat carried per unit of flow.
// value_target is given in the units of the spread, value_threshold caps the
// flow rate.
type scheme2 struct {
	flowrateAdaption
}

func (s *scheme2) configureScheme(c *Controller) {
	s.reset(c.tuning.FlowrateAdaptionFactor)
	c.target = targetSpread

	// the spread is sign normalised, so both operation types compare alike
	eps := c.tuning.Accuracies.Temperature * c.capacityHE
	c.beyond.Configure(Greater{Epsilon: eps})
	c.notReached.Configure(Smaller{Epsilon: eps})
}

// operability throttles the wells as the spread collapses towards zero.
// The band is scaled by the heat exchanger capacity; without a capacity the
// bare shutdown range is used.
func (s *scheme2) operability(c *Controller) float64 {
	band := c.tuning.WellShutdownTemperatureRange * c.capacityHE
	if math.Abs(band) < minNormal {
		band = c.tuning.WellShutdownTemperatureRange
	}
	return ThresholdFactor(c.spread(), 0, band, Lower)
}

func (s *scheme2) estimateFlowrate(c *Controller) {
	qW := c.tuning.Accuracies.Flowrate
	if math.Abs(c.valueTarget) >= minNormal {
		qW = c.result.QH / c.valueTarget
	}

	f := s.operability(c)
	c.reduceRates(f)
	lo, hi := c.flowrateBounds(c.valueThreshold)
	c.result.QW = Confined(f*qW, lo, hi)
}

func (s *scheme2) evaluate(c *Controller) {
	c.evaluateFlowrateFirst(s)
}

func (s *scheme2) adaptFlowrate(c *Controller) {
	target := c.valueTarget
	if math.Abs(target) < minNormal {
		target = math.Copysign(spreadFloor, target)
	}
	deltaQW := (c.spread() - c.valueTarget) / target
	s.dampOnFlip(deltaQW, c.tuning.FlowrateAdaptionFactor)

	f := s.operability(c)
	c.reduceRates(f)

	lo, hi := c.flowrateBounds(c.valueThreshold)
	c.result.QW = Confined(f*c.result.QW*(1+s.factor*deltaQW), lo, hi)
}

func (s *scheme2) adaptPowerrate(c *Controller) {
	spread := c.spread()
	if math.Abs(spread) < spreadFloor {
		spread = math.Copysign(spreadFloor, spread)
	}
	c.applyPowerrate(c.result.QH - c.tuning.PowerrateAdaptionFactor*
		c.result.QH*(spread-c.valueTarget)/spread)
}

// converged never claims convergence on its own; the simulator's
// temperature error and iteration cap decide.
func (s *scheme2) converged(*Controller, float64, float64) bool {
	return false
}
