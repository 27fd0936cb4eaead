package wdc

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Accuracies are the smallest resolvable deltas. They act as comparison
// tolerances and as floor magnitudes where a rate would otherwise vanish.
type Accuracies struct {
	Temperature float64 `yaml:"temperature" validate:"gt=0"`
	Powerrate   float64 `yaml:"powerrate" validate:"gt=0"`
	Flowrate    float64 `yaml:"flowrate" validate:"gt=0"`
}

// Tuning holds the run-wide constants shared read-only by all controllers
type Tuning struct {
	PowerrateAdaptionFactor      float64    `yaml:"powerrate_adaption_factor" validate:"gt=0"`
	FlowrateAdaptionFactor       float64    `yaml:"flowrate_adaption_factor" validate:"gt=0,lte=1"`
	WellShutdownTemperatureRange float64    `yaml:"well_shutdown_temperature_range" validate:"gt=0"`
	Accuracies                   Accuracies `yaml:"accuracies"`
}

// DefaultTuning returns the tuning the simulator reference cases were built with.
// A flowrate adaption factor of 1 makes flow corrections proportional to the
// relative temperature error; oscillation damping then shrinks it by 0.9 per flip.
func DefaultTuning() Tuning {
	return Tuning{
		PowerrateAdaptionFactor:      1,
		FlowrateAdaptionFactor:       1,
		WellShutdownTemperatureRange: 10,
		Accuracies: Accuracies{
			Temperature: 1e-2,
			Powerrate:   1,
			Flowrate:    1e-5,
		},
	}
}

var tuningValidate = validator.New()

// Validate checks that all constants are usable
func (t Tuning) Validate() error {
	if err := tuningValidate.Struct(t); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}
	return nil
}
