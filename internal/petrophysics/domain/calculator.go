package petrophysics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Archie constants and formation-water resistivity used by Calculate.
const (
	ArchieTortuosity    = 1.0
	ArchieCementation   = 2.0
	ArchieSaturationExp = 2.0
	FormationWaterRw    = 0.1
)

const (
	larionovFactor = 0.33
	maxDensityPhi  = 0.5
	maxSaturation  = 1.0
	minFraction    = 0.0
	maxVshale      = 1.0
	maxGammaRayIdx = 1.0
)

// CurveInput carries the depth-ordered curve values of one interval.
type CurveInput struct {
	GammaRay    []float64
	Density     []float64
	Resistivity []float64
}

// Result is the interval estimate. Nil fields are absent, not zero.
type Result struct {
	Vshale            float64
	Porosity          *float64
	PorosityEffective *float64
	SaturationWater   *float64
	SaturationOil     *float64
}

// Calculate runs the interval pipeline: GR index, Larionov clay volume, density
// porosity, effective porosity and Archie water saturation.
func Calculate(in CurveInput, cal Calibration) (Result, error) {
	if err := cal.Validate(); err != nil {
		return Result{}, err
	}
	if len(in.GammaRay) == 0 {
		return Result{}, ErrInsufficientData
	}

	vsh := make([]float64, len(in.GammaRay))
	for i, g := range in.GammaRay {
		vsh[i] = LarionovVshale(GammaRayIndex(g, cal))
	}
	res := Result{Vshale: stat.Mean(vsh, nil)}

	if len(in.Density) > 0 {
		phi := make([]float64, len(in.Density))
		for i, rho := range in.Density {
			phi[i] = DensityPorosity(rho, cal)
		}
		res.Porosity = Value(stat.Mean(phi, nil))
	}

	if res.Porosity != nil {
		res.PorosityEffective = Value(*res.Porosity * (1 - res.Vshale))
	}

	if len(in.Resistivity) > 0 && res.PorosityEffective != nil {
		if sw, ok := WaterSaturation(*res.PorosityEffective, stat.Mean(in.Resistivity, nil)); ok {
			res.SaturationWater = Value(sw)
			res.SaturationOil = Value(1 - sw)
		}
	}
	return res, nil
}

// GammaRayIndex maps a GR reading onto [0,1] between the clean and shale baselines.
// The caller guarantees GRShale != GRClean.
func GammaRayIndex(g float64, cal Calibration) float64 {
	return clamp((g-cal.GRClean)/(cal.GRShale-cal.GRClean), minFraction, maxGammaRayIdx)
}

// LarionovVshale applies the older-rocks Larionov correction.
func LarionovVshale(igr float64) float64 {
	return clamp(larionovFactor*(math.Pow(2, 2*igr)-1), minFraction, maxVshale)
}

// DensityPorosity converts a bulk density reading, clamped to [0, 0.5].
// The caller guarantees RhoMatrix != RhoFluid.
func DensityPorosity(rho float64, cal Calibration) float64 {
	return clamp((cal.RhoMatrix-rho)/(cal.RhoMatrix-cal.RhoFluid), minFraction, maxDensityPhi)
}

// WaterSaturation solves the simplified Archie equation. It reports false when
// effective porosity or true resistivity is not positive.
func WaterSaturation(phiEffective, rt float64) (float64, bool) {
	if !(phiEffective > 0) || !(rt > 0) {
		return 0, false
	}
	swn := (ArchieTortuosity * FormationWaterRw) / (math.Pow(phiEffective, ArchieCementation) * rt)
	return math.Min(maxSaturation, math.Pow(swn, 1/ArchieSaturationExp)), true
}

// Value returns a pointer to v.
func Value(v float64) *float64 {
	return &v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
