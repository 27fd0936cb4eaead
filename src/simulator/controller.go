package simulator

import "github.com/ryansname/welldoublet/src/wdc"

// Controller is the part of the well doublet control the driver talks to
type Controller interface {
	Configure(qH, valueTarget, valueThreshold float64, bp wdc.BalancingProperties)
	EvaluateSimulationResult(bp wdc.BalancingProperties)
	Result() wdc.Result
	Converged(currentTHE, accuracy float64) bool
}

// ControllerFactory creates the controller for one timestep
type ControllerFactory func() Controller

// WellDoubletFactory builds wdc controllers sharing one tuning
func WellDoubletFactory(scheme wdc.Scheme, tuning wdc.Tuning) ControllerFactory {
	return func() Controller {
		return wdc.New(scheme, tuning)
	}
}
