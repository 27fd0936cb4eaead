package wdc

import "math"

// scheme0 runs the wells at the target flow rate and lowers the power rate
// once T_HE passes the threshold.
type scheme0 struct{}

func (s *scheme0) configureScheme(c *Controller) {
	c.target = targetHE
	eps := c.tuning.Accuracies.Temperature
	if c.operation == Storing {
		c.beyond.Configure(Greater{Epsilon: eps})
	} else {
		c.beyond.Configure(Smaller{Epsilon: eps})
	}
}

// operability watches the upwind aquifer well approaching the T_HE threshold
func (s *scheme0) operability(c *Controller) float64 {
	dir := Upper
	if c.operation == Extracting {
		dir = Lower
	}
	return ThresholdFactor(c.result.TUA, c.valueThreshold, c.tuning.WellShutdownTemperatureRange, dir)
}

func (s *scheme0) estimateFlowrate(c *Controller) {
	f := s.operability(c)
	c.reduceRates(f)
	lo, hi := c.flowrateBounds(c.valueTarget)
	c.result.QW = Confined(f*c.valueTarget, lo, hi)
}

func (s *scheme0) evaluate(c *Controller) {
	if c.result.StorageState == OnDemand && c.beyond.Call(c.result.THE, c.valueThreshold) {
		c.result.StorageState = PowerrateToAdapt
	}
	if c.adaptingPowerrate() {
		s.adaptPowerrate(c)
	}
}

func (s *scheme0) adaptPowerrate(c *Controller) {
	c.applyPowerrate(c.result.QH - c.tuning.PowerrateAdaptionFactor*
		math.Abs(c.result.QW)*c.capacityHE*(c.result.THE-c.valueThreshold))
}

func (s *scheme0) converged(c *Controller, currentTHE, accuracy float64) bool {
	if c.result.StorageState == OnDemand {
		return true
	}
	return math.Abs(currentTHE-c.valueThreshold) <= accuracy
}
