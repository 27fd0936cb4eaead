package wdc

import "math"

// scheme1 drives T_HE to the target, first through the flow rate and, once
// that is exhausted, through the power rate. value_threshold caps the flow rate.
type scheme1 struct {
	flowrateAdaption
}

func (s *scheme1) configureScheme(c *Controller) {
	s.reset(c.tuning.FlowrateAdaptionFactor)
	c.target = targetHE

	eps := c.tuning.Accuracies.Temperature
	if c.operation == Storing {
		c.beyond.Configure(Greater{Epsilon: eps})
		c.notReached.Configure(Smaller{Epsilon: eps})
	} else {
		c.beyond.Configure(Smaller{Epsilon: eps})
		c.notReached.Configure(Greater{Epsilon: eps})
	}
}

// operability watches the upwind aquifer well approaching the T_HE target
func (s *scheme1) operability(c *Controller) float64 {
	dir := Upper
	if c.operation == Extracting {
		dir = Lower
	}
	return ThresholdFactor(c.result.TUA, c.valueTarget, c.tuning.WellShutdownTemperatureRange, dir)
}

func (s *scheme1) estimateFlowrate(c *Controller) {
	var denominator float64
	if c.operation == Storing {
		denominator = c.capacityHE*c.valueTarget - c.capacityUA*c.result.TUA
	} else {
		denominator = c.capacityUA*c.result.TUA - c.capacityHE*c.valueTarget
	}

	qW := c.tuning.Accuracies.Flowrate
	if math.Abs(denominator) >= minNormal {
		qW = c.result.QH / denominator
	}

	f := s.operability(c)
	c.reduceRates(f)
	lo, hi := c.flowrateBounds(c.valueThreshold)
	c.result.QW = Confined(f*qW, lo, hi)
}

func (s *scheme1) evaluate(c *Controller) {
	c.evaluateFlowrateFirst(s)
}

func (s *scheme1) adaptFlowrate(c *Controller) {
	deltaT := c.result.THE - c.valueTarget
	if c.operation == Storing {
		deltaT /= max(c.result.THE-c.result.TUA, 1)
	} else {
		deltaT /= max(c.result.TUA-c.result.THE, 1)
	}
	s.dampOnFlip(deltaT, c.tuning.FlowrateAdaptionFactor)

	f := s.operability(c)
	c.reduceRates(f)

	qW := f * c.result.QW * (1 + s.factor*deltaT)
	if c.operation == Extracting {
		qW = f * c.result.QW * (1 - s.factor*deltaT)
	}
	lo, hi := c.flowrateBounds(c.valueThreshold)
	c.result.QW = Confined(qW, lo, hi)
}

func (s *scheme1) adaptPowerrate(c *Controller) {
	c.applyPowerrate(c.result.QH - c.tuning.PowerrateAdaptionFactor*
		math.Abs(c.result.QW)*c.capacityHE*(c.result.THE-c.valueTarget))
}

func (s *scheme1) converged(c *Controller, currentTHE, accuracy float64) bool {
	return math.Abs(currentTHE-c.valueTarget) <= accuracy
}
