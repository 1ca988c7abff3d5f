package petrophysics

// Classification thresholds.
const (
	ShaleVshaleCutoff  = 0.3
	ReservoirSwCutoff  = 0.5
	QualityMinPorosity = 0.10
	QualityMaxVshale   = 0.40
	QualityMaxSw       = 0.60
)

// Classify maps an interval's mean clay volume and water saturation to a zone type.
// Clay content is checked first and the shale boundary is inclusive.
func Classify(vshale float64, sw *float64) ZoneType {
	if vshale >= ShaleVshaleCutoff {
		return ZoneShale
	}
	if sw != nil && *sw < ReservoirSwCutoff {
		return ZoneReservoir
	}
	return ZoneWaterBearing
}

// IsReservoirQuality reports whether porosity, clay volume and water saturation
// are all present and within reservoir limits. A present zero is a value.
func IsReservoirQuality(z Zone) bool {
	if z.Porosity == nil || z.Vshale == nil || z.SaturationWater == nil {
		return false
	}
	return *z.Porosity > QualityMinPorosity &&
		*z.Vshale < QualityMaxVshale &&
		*z.SaturationWater < QualityMaxSw
}

// NewAutoZone builds an auto-provenance zone from a calculation result.
func NewAutoZone(wellID string, depthFrom, depthTo float64, res Result) Zone {
	zone := Zone{
		WellID:            wellID,
		DepthFrom:         depthFrom,
		DepthTo:           depthTo,
		Porosity:          res.Porosity,
		PorosityEffective: res.PorosityEffective,
		SaturationWater:   res.SaturationWater,
		Vshale:            Value(res.Vshale),
		ZoneType:          Classify(res.Vshale, res.SaturationWater),
		Provenance:        ProvenanceAuto,
	}
	zone.Normalize()
	return zone
}
