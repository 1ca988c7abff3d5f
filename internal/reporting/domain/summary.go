package reporting

import (
	"fmt"
	"sort"

	petrophysics "well-analysis/internal/petrophysics/domain"
)

// ProximityThreshold is the distance in metres under which a water-bearing
// zone top is considered close to a reservoir base.
const ProximityThreshold = 20.0

// Summary aggregates the zones of one well.
type Summary struct {
	TotalZones            int                `json:"total_zones"`
	ReservoirZones        int                `json:"reservoir_zones"`
	TotalThickness        float64            `json:"total_thickness"`
	NetReservoirThickness float64            `json:"net_reservoir_thickness"`
	NetToGross            float64            `json:"net_to_gross"`
	AveragePorosity       *float64           `json:"average_porosity"`
	AverageWaterSat       *float64           `json:"average_water_saturation"`
	AverageHydrocarbonSat *float64           `json:"average_hydrocarbon_saturation"`
	BestZone              *petrophysics.Zone `json:"best_zone,omitempty"`
	Interpretation        []string           `json:"interpretation"`
	Warnings              []string           `json:"warnings"`
}

// Summarize computes net-to-gross, reservoir averages, the best zone,
// proximity warnings and interpretation. Zones are processed in depth order;
// the input slice is not modified.
func Summarize(zones []petrophysics.Zone) Summary {
	ordered := sortedByDepth(zones)
	reservoirs := filterType(ordered, petrophysics.ZoneReservoir)

	s := Summary{
		TotalZones:     len(ordered),
		ReservoirZones: len(reservoirs),
		Interpretation: []string{},
		Warnings:       []string{},
	}
	for _, z := range ordered {
		s.TotalThickness += z.Thickness()
	}
	for _, z := range reservoirs {
		s.NetReservoirThickness += z.Thickness()
	}
	if s.TotalThickness > 0 {
		s.NetToGross = s.NetReservoirThickness / s.TotalThickness
	}

	if len(reservoirs) > 0 {
		var phiSum, swSum float64
		for _, z := range reservoirs {
			phiSum += valueOr(z.PorosityEffective, 0)
			swSum += valueOr(z.SaturationWater, 0)
		}
		n := float64(len(reservoirs))
		s.AveragePorosity = petrophysics.Value(phiSum / n)
		s.AverageWaterSat = petrophysics.Value(swSum / n)
		s.AverageHydrocarbonSat = petrophysics.Value(1 - *s.AverageWaterSat)
		s.BestZone = BestZone(reservoirs)
	}

	s.Warnings = ProximityWarnings(ordered)
	s.Interpretation = Interpret(len(reservoirs), s.NetToGross, s.AveragePorosity, s.AverageWaterSat)
	return s
}

// ZoneScore ranks reservoir zones: effective porosity times hydrocarbon
// saturation. Absent porosity counts as 0 and absent water saturation as 1.
func ZoneScore(z petrophysics.Zone) float64 {
	return valueOr(z.PorosityEffective, 0) * (1 - valueOr(z.SaturationWater, 1))
}

// BestZone returns the highest scoring reservoir zone; ties keep the
// shallowest. Nil when there is no reservoir zone.
func BestZone(zones []petrophysics.Zone) *petrophysics.Zone {
	var best *petrophysics.Zone
	bestScore := 0.0
	for _, z := range sortedByDepth(zones) {
		if z.ZoneType != petrophysics.ZoneReservoir {
			continue
		}
		score := ZoneScore(z)
		if best == nil || score > bestScore {
			zone := z
			best = &zone
			bestScore = score
		}
	}
	return best
}

// ProximityWarnings emits at most one warning per water-bearing zone, for
// the first reservoir whose base lies within ProximityThreshold of its top.
func ProximityWarnings(zones []petrophysics.Zone) []string {
	ordered := sortedByDepth(zones)
	reservoirs := filterType(ordered, petrophysics.ZoneReservoir)
	out := []string{}
	for _, w := range filterType(ordered, petrophysics.ZoneWaterBearing) {
		for _, r := range reservoirs {
			if abs(w.DepthFrom-r.DepthTo) < ProximityThreshold {
				out = append(out, fmt.Sprintf(
					"Warning: water-bearing zone at %gm close to the reservoir (base %gm) - risk of water influx",
					w.DepthFrom, r.DepthTo))
				break
			}
		}
	}
	return out
}

// Interpret produces the interpretation sentences for a summary.
func Interpret(reservoirCount int, ntg float64, avgPorosity, avgSw *float64) []string {
	if reservoirCount == 0 {
		return []string{"No reservoir zone identified in the analysed interval."}
	}
	out := make([]string, 0, 3)
	switch {
	case ntg > 0.5:
		out = append(out, fmt.Sprintf("Excellent net-to-gross ratio (%s) indicating reservoir-dominated section.", percent(ntg)))
	case ntg > 0.3:
		out = append(out, fmt.Sprintf("Good net-to-gross ratio (%s) with a significant reservoir proportion.", percent(ntg)))
	default:
		out = append(out, fmt.Sprintf("Low net-to-gross ratio (%s) indicating a shale-dominated sequence.", percent(ntg)))
	}
	if avgPorosity != nil {
		phi := *avgPorosity
		switch {
		case phi > 0.15:
			out = append(out, fmt.Sprintf("High average porosity (%s) suggesting good storage potential.", percent(phi)))
		case phi > 0.10:
			out = append(out, fmt.Sprintf("Acceptable average porosity (%s).", percent(phi)))
		default:
			out = append(out, fmt.Sprintf("Low porosity (%s) which may limit productivity.", percent(phi)))
		}
	}
	if avgSw != nil {
		sw := *avgSw
		switch {
		case sw < 0.4:
			out = append(out, fmt.Sprintf("Low water saturation (%s) indicating good hydrocarbon saturation.", percent(sw)))
		case sw < 0.6:
			out = append(out, fmt.Sprintf("Moderate water saturation (%s).", percent(sw)))
		default:
			out = append(out, fmt.Sprintf("High water saturation (%s) - likely aquifer or low production.", percent(sw)))
		}
	}
	return out
}

// Recommend returns report recommendations for the zones of a well.
func Recommend(zones []petrophysics.Zone) []string {
	if len(zones) == 0 {
		return []string{"Run a petrophysical analysis over the intervals of interest."}
	}
	out := []string{}
	reservoirs := filterType(sortedByDepth(zones), petrophysics.ZoneReservoir)
	if best := BestZone(reservoirs); best != nil {
		out = append(out, fmt.Sprintf("Best zone identified: %g-%gm (φe=%s, Sw=%s)",
			best.DepthFrom, best.DepthTo, percentOrNA(best.PorosityEffective), percentOrNA(best.SaturationWater)))
		if len(reservoirs) > 1 {
			out = append(out, fmt.Sprintf("%d reservoir zones identified - consider a multi-zone completion.", len(reservoirs)))
		}
	}
	return append(out, ProximityWarnings(zones)...)
}

func sortedByDepth(zones []petrophysics.Zone) []petrophysics.Zone {
	out := make([]petrophysics.Zone, len(zones))
	copy(out, zones)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DepthFrom < out[j].DepthFrom
	})
	return out
}

func filterType(zones []petrophysics.Zone, t petrophysics.ZoneType) []petrophysics.Zone {
	out := make([]petrophysics.Zone, 0, len(zones))
	for _, z := range zones {
		if z.ZoneType == t {
			out = append(out, z)
		}
	}
	return out
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func percentOrNA(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return percent(*v)
}
