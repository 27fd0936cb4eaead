// Package wdc implements the control law of a well doublet used for aquifer
// thermal energy storage. Each timestep it turns a requested heat power into
// a consistent power rate and flow rate, using temperatures fed back by a
// coupled transport simulation.
package wdc

import (
	"fmt"
	"math"
)

// Scheme selects the control law
type Scheme int

const (
	// Scheme0 fixes the flow rate and adapts the power rate to a T_HE threshold
	Scheme0 Scheme = iota
	// Scheme1 adapts the flow rate first, then the power rate, to reach a T_HE target
	Scheme1
	// Scheme2 drives the weighted temperature spread between both wells to a target
	Scheme2
)

func (s Scheme) String() string {
	return fmt.Sprintf("scheme %d", int(s))
}

// ParseScheme validates an operator supplied scheme id
func ParseScheme(id int) (Scheme, error) {
	if id < int(Scheme0) || id > int(Scheme2) {
		return 0, fmt.Errorf("unknown well scheme %d, want 0, 1 or 2", id)
	}
	return Scheme(id), nil
}

// minNormal is the smallest positive normal float64
const minNormal = 0x1p-1022

// targetQuantity names the simulation result a scheme drives to its target
type targetQuantity int

const (
	targetHE     targetQuantity = iota // temperature at the heat exchanger well
	targetSpread                       // capacity weighted temperature spread
)

// law is the scheme specific part of the controller
type law interface {
	configureScheme(c *Controller)
	estimateFlowrate(c *Controller)
	evaluate(c *Controller)
	adaptPowerrate(c *Controller)
	operability(c *Controller) float64
	converged(c *Controller, currentTHE, accuracy float64) bool
}

// flowrateLaw is a law that adapts the flow rate before touching the power rate
type flowrateLaw interface {
	law
	adaptFlowrate(c *Controller)
}

// Controller is the well doublet control for a single timestep
type Controller struct {
	scheme Scheme
	law    law
	tuning Tuning

	result     Result
	requested  float64 // power rate asked for in Configure
	capacityHE float64
	capacityUA float64

	valueTarget    float64
	valueThreshold float64
	operation      OperationType
	target         targetQuantity

	beyond, notReached Comparison
}

// New creates a controller for the given scheme. An unknown scheme or a zero
// shutdown range is a programming error and panics.
func New(scheme Scheme, tuning Tuning) *Controller {
	if tuning.WellShutdownTemperatureRange == 0 {
		panic("wdc: well shutdown temperature range must not be zero")
	}

	c := &Controller{scheme: scheme, tuning: tuning}
	switch scheme {
	case Scheme0:
		c.law = &scheme0{}
	case Scheme1:
		c.law = &scheme1{}
	case Scheme2:
		c.law = &scheme2{}
	default:
		panic(fmt.Sprintf("wdc: unknown well scheme %d", int(scheme)))
	}
	return c
}

// NewWellDoubletControl builds a controller from a raw scheme id on top of
// DefaultTuning, replacing its shutdown range and accuracies.
func NewWellDoubletControl(schemeID int, wellShutdownTemperatureRange float64, accuracies Accuracies) *Controller {
	scheme, err := ParseScheme(schemeID)
	if err != nil {
		panic(err)
	}
	tuning := DefaultTuning()
	tuning.WellShutdownTemperatureRange = wellShutdownTemperatureRange
	tuning.Accuracies = accuracies
	return New(scheme, tuning)
}

// Scheme returns the control law in use
func (c *Controller) Scheme() Scheme {
	return c.scheme
}

// Operation returns the operation type derived by the last Configure
func (c *Controller) Operation() OperationType {
	return c.operation
}

// Result returns a snapshot of the current control output
func (c *Controller) Result() Result {
	return c.result
}

// Configure sets the constraints for a new timestep and estimates a flow rate.
// The storage state always restarts at OnDemand.
func (c *Controller) Configure(qH, valueTarget, valueThreshold float64, bp BalancingProperties) {
	c.setBalancingProperties(bp)
	c.result.QH = qH
	c.result.QW = 0
	c.result.StorageState = OnDemand
	c.requested = qH

	c.valueTarget = valueTarget
	c.valueThreshold = valueThreshold

	if qH > 0 {
		c.operation = Storing
	} else {
		c.operation = Extracting
	}

	c.law.configureScheme(c)
	c.law.estimateFlowrate(c)
}

// EvaluateSimulationResult feeds back the temperatures computed with the
// current rates and adapts the rates. Once the target is found unachievable
// only the cached temperatures are refreshed.
func (c *Controller) EvaluateSimulationResult(bp BalancingProperties) {
	c.setBalancingProperties(bp)
	if c.result.StorageState == TargetNotAchievable {
		return
	}
	c.law.evaluate(c)
}

// Converged reports whether the controller has nothing left to adjust for the
// given heat exchanger temperature.
func (c *Controller) Converged(currentTHE, accuracy float64) bool {
	if c.result.StorageState == TargetNotAchievable {
		return true
	}
	return c.law.converged(c, currentTHE, accuracy)
}

func (c *Controller) setBalancingProperties(bp BalancingProperties) {
	c.result.THE = bp.THE
	c.result.TUA = bp.TUA
	c.capacityHE = bp.VolumetricHeatCapacityHE
	c.capacityUA = bp.VolumetricHeatCapacityUA
}

// spread is the capacity weighted temperature difference between the wells,
// signed so that it is positive in regular operation.
func (c *Controller) spread() float64 {
	v := c.capacityHE*c.result.THE - c.capacityUA*c.result.TUA
	if c.operation == Extracting {
		return -v
	}
	return v
}

func (c *Controller) controlledQuantity() float64 {
	if c.target == targetSpread {
		return c.spread()
	}
	return c.result.THE
}

// flowrateBounds returns the admissible flow rate interval up to limit.
// The order does not matter to Confined.
func (c *Controller) flowrateBounds(limit float64) (float64, float64) {
	floor := c.tuning.Accuracies.Flowrate
	if c.operation == Storing {
		return floor, limit
	}
	return limit, -floor
}

func (c *Controller) adaptingPowerrate() bool {
	return c.result.StorageState == PowerrateToAdapt || c.result.StorageState == RatesReduced
}

// reduceRates throttles the power rate by the operability factor
func (c *Controller) reduceRates(operability float64) {
	if operability < 1 {
		c.result.QH *= operability
		c.result.StorageState = RatesReduced
	}
}

// applyPowerrate stores an adapted power rate. It never exceeds the request
// and shuts the wells down once it falls below the power rate accuracy.
func (c *Controller) applyPowerrate(qH float64) {
	if c.operation == Storing {
		qH = min(qH, c.requested)
	} else {
		qH = max(qH, c.requested)
	}
	c.result.QH = qH
	c.reduceRates(c.law.operability(c))

	if c.operation.sign()*c.result.QH < c.tuning.Accuracies.Powerrate {
		c.shutDown()
	}
}

func (c *Controller) shutDown() {
	c.result.QH = 0
	c.result.QW = c.operation.sign() * c.tuning.Accuracies.Flowrate
	if c.result.StorageState != RatesReduced {
		c.result.StorageState = TargetNotAchievable
	}
}

// evaluateFlowrateFirst is the evaluation shared by schemes adapting the flow
// rate before the power rate.
func (c *Controller) evaluateFlowrateFirst(l flowrateLaw) {
	floor := c.tuning.Accuracies.Flowrate

	if c.result.StorageState == OnDemand {
		v := c.controlledQuantity()
		switch {
		case c.beyond.Call(v, c.valueTarget):
			if math.Abs(c.result.QW-c.valueThreshold) > floor {
				l.adaptFlowrate(c)
			} else {
				c.result.StorageState = PowerrateToAdapt
			}
		case c.notReached.Call(v, c.valueTarget):
			if math.Abs(c.result.QW) > floor {
				l.adaptFlowrate(c)
			} else {
				c.result.StorageState = TargetNotAchievable
			}
		}
	}

	// also right after the switch above, so this iteration already moves the power rate
	if c.adaptingPowerrate() {
		l.adaptPowerrate(c)
	}
}

// flowrateAdaption keeps the flow rate adaption factor across iterations
type flowrateAdaption struct {
	factor    float64
	deltaSign int
}

func (a *flowrateAdaption) reset(base float64) {
	a.factor = base
	a.deltaSign = 0
}

// dampOnFlip shrinks the factor whenever the relative error changes sign,
// which stops the controlled quantity from jumping around its target.
func (a *flowrateAdaption) dampOnFlip(delta, base float64) {
	s := Sign(delta)
	if a.deltaSign != 0 && a.deltaSign != s {
		if base == 1 {
			a.factor *= 0.9
		} else {
			a.factor *= base
		}
	}
	a.deltaSign = s
}
