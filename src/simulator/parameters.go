package simulator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Parameters describe the toy aquifer and the iteration limits of a run
type Parameters struct {
	GridSize int `yaml:"grid_size" validate:"gte=2"`
	// HENode is the grid node holding the heat exchanger well
	HENode                      int     `yaml:"he_node" validate:"gte=1,ltfield=GridSize"`
	Porosity                    float64 `yaml:"porosity" validate:"gt=0,lte=1"`
	HeatCapacity                float64 `yaml:"heat_capacity" validate:"gt=0"`
	TimestepSize                float64 `yaml:"timestep_size" validate:"gt=0"`
	InitialTemperature          float64 `yaml:"initial_temperature"`
	UpwindTemperatureStoring    float64 `yaml:"upwind_temperature_storing"`
	UpwindTemperatureExtracting float64 `yaml:"upwind_temperature_extracting"`

	Timesteps     int `yaml:"timesteps" validate:"gte=1"`
	MaxIterations int `yaml:"max_iterations" validate:"gte=1,gtefield=MinIterations"`
	MinIterations int `yaml:"min_iterations" validate:"gte=1"`
}

// DefaultParameters returns the setup of the reference cases
func DefaultParameters() Parameters {
	return Parameters{
		GridSize:                    11,
		HENode:                      5,
		Porosity:                    0.5,
		HeatCapacity:                5e6,
		TimestepSize:                100,
		InitialTemperature:          50,
		UpwindTemperatureStoring:    10,
		UpwindTemperatureExtracting: 60,
		Timesteps:                   10,
		MaxIterations:               200,
		MinIterations:               3,
	}
}

var parametersValidate = validator.New()

// Validate checks the grid and the iteration limits
func (p Parameters) Validate() error {
	if err := parametersValidate.Struct(p); err != nil {
		return fmt.Errorf("invalid simulator parameters: %w", err)
	}
	return nil
}

// UpwindTemperature is the fixed upwind aquifer well temperature for a request
func (p Parameters) UpwindTemperature(powerRate float64) float64 {
	if powerRate > 0 {
		return p.UpwindTemperatureStoring
	}
	return p.UpwindTemperatureExtracting
}
