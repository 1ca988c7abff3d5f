package petrophysics

import (
	"fmt"
	"math"
)

// Default calibration constants.
const (
	DefaultGRClean   = 20.0
	DefaultGRShale   = 120.0
	DefaultRhoMatrix = 2.65
	DefaultRhoFluid  = 1.0
)

// Calibration holds the per-request constants of the calculation.
type Calibration struct {
	GRClean   float64 `json:"gr_clean" yaml:"gr_clean"`
	GRShale   float64 `json:"gr_shale" yaml:"gr_shale"`
	RhoMatrix float64 `json:"rho_matrix" yaml:"rho_matrix"`
	RhoFluid  float64 `json:"rho_fluid" yaml:"rho_fluid"`
}

// DefaultCalibration returns the default calibration.
func DefaultCalibration() Calibration {
	return Calibration{
		GRClean:   DefaultGRClean,
		GRShale:   DefaultGRShale,
		RhoMatrix: DefaultRhoMatrix,
		RhoFluid:  DefaultRhoFluid,
	}
}

// Validate rejects non-finite constants and degenerate denominators.
func (c Calibration) Validate() error {
	for name, v := range map[string]float64{
		"gr_clean":   c.GRClean,
		"gr_shale":   c.GRShale,
		"rho_matrix": c.RhoMatrix,
		"rho_fluid":  c.RhoFluid,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrConfiguration, name)
		}
	}
	if c.GRShale == c.GRClean {
		return fmt.Errorf("%w: gr_shale equals gr_clean", ErrConfiguration)
	}
	if c.RhoMatrix == c.RhoFluid {
		return fmt.Errorf("%w: rho_matrix equals rho_fluid", ErrConfiguration)
	}
	return nil
}

// CalibrationOverrides carries optional request values; nil keeps the base value.
type CalibrationOverrides struct {
	GRClean   *float64 `json:"gr_clean,omitempty"`
	GRShale   *float64 `json:"gr_shale,omitempty"`
	RhoMatrix *float64 `json:"rho_matrix,omitempty"`
	RhoFluid  *float64 `json:"rho_fluid,omitempty"`
}

// Apply returns base with every present override applied.
func (o CalibrationOverrides) Apply(base Calibration) Calibration {
	if o.GRClean != nil {
		base.GRClean = *o.GRClean
	}
	if o.GRShale != nil {
		base.GRShale = *o.GRShale
	}
	if o.RhoMatrix != nil {
		base.RhoMatrix = *o.RhoMatrix
	}
	if o.RhoFluid != nil {
		base.RhoFluid = *o.RhoFluid
	}
	return base
}
