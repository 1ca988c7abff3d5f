package petrophysics

// ZoneRecommendations returns advisory sentences for one computed zone.
// Only present values are considered.
func ZoneRecommendations(z Zone) []string {
	var out []string
	if z.Vshale != nil {
		switch {
		case *z.Vshale > 0.5:
			out = append(out, "Clay-rich interval - low reservoir potential")
		case *z.Vshale < 0.2:
			out = append(out, "Clean interval - good reservoir potential")
		}
	}
	if z.PorosityEffective != nil {
		switch {
		case *z.PorosityEffective > 0.15:
			out = append(out, "Good effective porosity (>15%)")
		case *z.PorosityEffective < 0.08:
			out = append(out, "Low porosity - marginal reservoir")
		}
	}
	if z.SaturationWater != nil {
		switch {
		case *z.SaturationWater < 0.4:
			out = append(out, "Low water saturation - potential hydrocarbon interval")
		case *z.SaturationWater > 0.7:
			out = append(out, "High water saturation - likely aquifer")
		}
	}
	return out
}
