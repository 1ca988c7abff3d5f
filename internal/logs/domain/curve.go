package logs

// CurveType is a log curve mnemonic.
type CurveType string

const (
	CurveGammaRay             CurveType = "GR"
	CurveResistivity          CurveType = "RESIS"
	CurveDensity              CurveType = "DENS"
	CurveNeutron              CurveType = "NEUT"
	CurveSpontaneousPotential CurveType = "SP"
	CurveCaliper              CurveType = "CALI"
)

// CurveInfo is display metadata for a curve type. Min and Max are a plausible
// physical range and are not enforced.
type CurveInfo struct {
	Type CurveType `json:"type"`
	Name string    `json:"name"`
	Unit string    `json:"unit"`
	Min  float64   `json:"min"`
	Max  float64   `json:"max"`
}

var catalog = []CurveInfo{
	{Type: CurveGammaRay, Name: "Gamma Ray", Unit: "API", Min: 0, Max: 200},
	{Type: CurveResistivity, Name: "Resistivity", Unit: "ohm.m", Min: 0.1, Max: 1000},
	{Type: CurveDensity, Name: "Bulk Density", Unit: "g/cm3", Min: 1.8, Max: 3.0},
	{Type: CurveNeutron, Name: "Neutron Porosity", Unit: "fraction", Min: 0, Max: 0.6},
	{Type: CurveSpontaneousPotential, Name: "Spontaneous Potential", Unit: "mV", Min: -200, Max: 100},
	{Type: CurveCaliper, Name: "Caliper", Unit: "inch", Min: 6, Max: 20},
}

// Catalog returns all supported curve types in canonical order.
func Catalog() []CurveInfo {
	out := make([]CurveInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Info returns catalog metadata for c.
func Info(c CurveType) (CurveInfo, bool) {
	for _, info := range catalog {
		if info.Type == c {
			return info, true
		}
	}
	return CurveInfo{}, false
}

// ParseCurveType validates a curve mnemonic.
func ParseCurveType(value string) (CurveType, error) {
	c := CurveType(value)
	if _, ok := Info(c); !ok {
		return "", ErrUnknownCurve
	}
	return c, nil
}
