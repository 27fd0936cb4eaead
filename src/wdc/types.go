package wdc

import "fmt"

// BalancingProperties carries the simulator's view of both wells for one iteration
type BalancingProperties struct {
	THE                      float64 // temperature at the heat exchanger well
	TUA                      float64 // temperature at the upwind aquifer well
	VolumetricHeatCapacityHE float64
	VolumetricHeatCapacityUA float64
}

// StorageState classifies what the controller is currently doing
type StorageState int

const (
	// OnDemand: flow rate is adjusted to reach the target
	OnDemand StorageState = iota
	// PowerrateToAdapt: flow rate is exhausted, power rate is adjusted instead
	PowerrateToAdapt
	// RatesReduced: operability dropped below one, both rates are throttled
	RatesReduced
	// TargetNotAchievable: flow rate is at its floor and the target is still out of reach
	TargetNotAchievable
)

// MarshalText encodes the state by name
func (s StorageState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state written by MarshalText
func (s *StorageState) UnmarshalText(text []byte) error {
	for _, candidate := range []StorageState{OnDemand, PowerrateToAdapt, RatesReduced, TargetNotAchievable} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown storage state %q", text)
}

func (s StorageState) String() string {
	switch s {
	case OnDemand:
		return "on_demand"
	case PowerrateToAdapt:
		return "powerrate_to_adapt"
	case RatesReduced:
		return "rates_reduced"
	case TargetNotAchievable:
		return "target_not_achievable"
	default:
		return "unknown"
	}
}

// OperationType is fixed per timestep by the sign of the requested power rate
type OperationType int

const (
	Storing OperationType = iota
	Extracting
)

func (o OperationType) String() string {
	if o == Storing {
		return "storing"
	}
	return "extracting"
}

// sign returns +1 for storing and -1 for extracting
func (o OperationType) sign() float64 {
	if o == Storing {
		return 1
	}
	return -1
}

// Result is the control output handed back to the simulator
type Result struct {
	QH           float64      `json:"powerrate"` // > 0 storing, < 0 extracting
	QW           float64      `json:"flowrate"`
	THE          float64      `json:"T_HE"`
	TUA          float64      `json:"T_UA"`
	StorageState StorageState `json:"storage_state"`
}
