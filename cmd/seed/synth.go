package main

import (
	"math"
	"math/rand/v2"

	logs "well-analysis/internal/logs/domain"
)

const (
	bedPoints    = 50
	smoothWindow = 10
)

// syntheticCurves holds generated readings sharing one depth axis.
type syntheticCurves struct {
	Depths []float64
	Values map[logs.CurveType][]float64
}

// generateCurves builds an alternating sand/shale sequence over [from, to)
// and derives GR, RESIS, DENS, NEUT and SP readings from it. Two beds out of
// three are sand.
func generateCurves(rng *rand.Rand, from, to, step float64) syntheticCurves {
	var depths []float64
	for d := from; d < to; d += step {
		depths = append(depths, math.Round(d*1000)/1000)
	}
	n := len(depths)

	shale := make([]float64, n)
	for i := range shale {
		if (i/bedPoints)%3 == 0 {
			shale[i] = 1
		}
	}
	shale = movingAverage(shale, smoothWindow)
	for i := range shale {
		shale[i] = clamp(shale[i]+rng.NormFloat64()*0.1, 0, 1)
	}

	out := syntheticCurves{
		Depths: depths,
		Values: map[logs.CurveType][]float64{},
	}
	gr := make([]float64, n)
	resis := make([]float64, n)
	dens := make([]float64, n)
	neut := make([]float64, n)
	sp := make([]float64, n)
	for i, v := range shale {
		sand := 1 - v
		gr[i] = clamp(v*(120+rng.NormFloat64()*10)+sand*(30+rng.NormFloat64()*5), 15, 150)
		resis[i] = clamp(sand*(50+rng.NormFloat64()*20)+v*(3+rng.NormFloat64()), 0.5, 200)
		phi := clamp(sand*(0.15+rng.NormFloat64()*0.03), 0, 0.35)
		dens[i] = clamp(2.65-phi*1.65, 2.0, 2.8)
		neut[i] = clamp(phi+v*0.15+rng.NormFloat64()*0.02, 0, 0.45)
		sp[i] = clamp(-60*sand+rng.NormFloat64()*5, -100, 20)
	}
	out.Values[logs.CurveGammaRay] = gr
	out.Values[logs.CurveResistivity] = resis
	out.Values[logs.CurveDensity] = dens
	out.Values[logs.CurveNeutron] = neut
	out.Values[logs.CurveSpontaneousPotential] = sp
	return out
}

// movingAverage is a centred box filter of the given width; edges are
// padded with zeros so the output keeps the input length.
func movingAverage(in []float64, width int) []float64 {
	out := make([]float64, len(in))
	half := width / 2
	for i := range in {
		var sum float64
		for k := i - half; k < i-half+width; k++ {
			if k >= 0 && k < len(in) {
				sum += in[k]
			}
		}
		out[i] = sum / float64(width)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
