package petrophysics

import (
	"context"
	"fmt"
	"time"
)

// ZoneType labels a classified depth interval.
type ZoneType string

const (
	ZoneReservoir    ZoneType = "reservoir"
	ZoneShale        ZoneType = "shale"
	ZoneWaterBearing ZoneType = "water_bearing"
	ZoneCapRock      ZoneType = "cap_rock"
	ZoneSourceRock   ZoneType = "source_rock"
	ZoneUnknown      ZoneType = "unknown"
)

// IsValid reports whether t is a known zone type.
func (t ZoneType) IsValid() bool {
	switch t {
	case ZoneReservoir, ZoneShale, ZoneWaterBearing, ZoneCapRock, ZoneSourceRock, ZoneUnknown:
		return true
	default:
		return false
	}
}

// Provenance records how a zone was produced.
type Provenance string

const (
	ProvenanceManual Provenance = "manual"
	ProvenanceAuto   Provenance = "auto"
	ProvenanceSeed   Provenance = "seed"
)

// IsValid reports whether p is a known provenance.
func (p Provenance) IsValid() bool {
	switch p {
	case ProvenanceManual, ProvenanceAuto, ProvenanceSeed:
		return true
	default:
		return false
	}
}

// Zone is the persisted petrophysical record of one depth interval of a well.
type Zone struct {
	ID                string     `json:"id"`
	WellID            string     `json:"well_id"`
	DepthFrom         float64    `json:"depth_from"`
	DepthTo           float64    `json:"depth_to"`
	Porosity          *float64   `json:"porosity"`
	PorosityEffective *float64   `json:"porosity_effective"`
	Permeability      *float64   `json:"permeability"`
	SaturationWater   *float64   `json:"saturation_water"`
	SaturationOil     *float64   `json:"saturation_oil"`
	SaturationGas     *float64   `json:"saturation_gas"`
	Vshale            *float64   `json:"vshale"`
	Lithology         string     `json:"lithology"`
	ZoneType          ZoneType   `json:"zone_type"`
	Notes             string     `json:"notes"`
	Provenance        Provenance `json:"calculated_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Thickness returns depth_to - depth_from.
func (z Zone) Thickness() float64 {
	return z.DepthTo - z.DepthFrom
}

// Normalize derives oil saturation from water saturation so the two never
// disagree, and defaults an empty zone type to unknown.
func (z *Zone) Normalize() {
	if z.ZoneType == "" {
		z.ZoneType = ZoneUnknown
	}
	if z.SaturationWater == nil {
		z.SaturationOil = nil
		return
	}
	z.SaturationOil = Value(1 - *z.SaturationWater)
}

// Validate checks zone invariants.
func (z Zone) Validate() error {
	if z.WellID == "" {
		return fmt.Errorf("%w: empty well id", ErrInvalidZone)
	}
	if z.DepthFrom < 0 || !(z.DepthFrom < z.DepthTo) {
		return fmt.Errorf("%w: depth_from must be >= 0 and < depth_to", ErrInvalidZone)
	}
	for name, v := range map[string]*float64{
		"porosity":           z.Porosity,
		"porosity_effective": z.PorosityEffective,
		"saturation_water":   z.SaturationWater,
		"saturation_oil":     z.SaturationOil,
		"saturation_gas":     z.SaturationGas,
		"vshale":             z.Vshale,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%w: %s must be within [0,1]", ErrInvalidZone, name)
		}
	}
	if z.Permeability != nil && *z.Permeability < 0 {
		return fmt.Errorf("%w: permeability must be >= 0", ErrInvalidZone)
	}
	if !z.ZoneType.IsValid() {
		return fmt.Errorf("%w: unknown zone type %q", ErrInvalidZone, z.ZoneType)
	}
	if !z.Provenance.IsValid() {
		return fmt.Errorf("%w: unknown provenance %q", ErrInvalidZone, z.Provenance)
	}
	return nil
}

// ZoneRepository persists zone records.
type ZoneRepository interface {
	Create(ctx context.Context, zone *Zone) error
	Update(ctx context.Context, zone *Zone) error
	Get(ctx context.Context, id string) (*Zone, error)
	ListByWell(ctx context.Context, wellID string) ([]Zone, error)
	CountByWell(ctx context.Context, wellID string) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteByWell(ctx context.Context, wellID string) error
}
