package application

import (
	"context"
	"fmt"

	petrophysics "well-analysis/internal/petrophysics/domain"
)

// ZoneInput carries manual zone fields; nil leaves a field unset on create
// and unchanged on update.
type ZoneInput struct {
	DepthFrom         *float64               `json:"depth_from"`
	DepthTo           *float64               `json:"depth_to"`
	Porosity          *float64               `json:"porosity"`
	PorosityEffective *float64               `json:"porosity_effective"`
	Permeability      *float64               `json:"permeability"`
	SaturationWater   *float64               `json:"saturation_water"`
	SaturationGas     *float64               `json:"saturation_gas"`
	Vshale            *float64               `json:"vshale"`
	Lithology         *string                `json:"lithology"`
	ZoneType          *petrophysics.ZoneType `json:"zone_type"`
	Notes             *string                `json:"notes"`
}

func (in ZoneInput) applyTo(z *petrophysics.Zone) {
	if in.DepthFrom != nil {
		z.DepthFrom = *in.DepthFrom
	}
	if in.DepthTo != nil {
		z.DepthTo = *in.DepthTo
	}
	if in.Porosity != nil {
		z.Porosity = petrophysics.Value(*in.Porosity)
	}
	if in.PorosityEffective != nil {
		z.PorosityEffective = petrophysics.Value(*in.PorosityEffective)
	}
	if in.Permeability != nil {
		z.Permeability = petrophysics.Value(*in.Permeability)
	}
	if in.SaturationWater != nil {
		z.SaturationWater = petrophysics.Value(*in.SaturationWater)
	}
	if in.SaturationGas != nil {
		z.SaturationGas = petrophysics.Value(*in.SaturationGas)
	}
	if in.Vshale != nil {
		z.Vshale = petrophysics.Value(*in.Vshale)
	}
	if in.Lithology != nil {
		z.Lithology = *in.Lithology
	}
	if in.ZoneType != nil {
		z.ZoneType = *in.ZoneType
	}
	if in.Notes != nil {
		z.Notes = *in.Notes
	}
}

// CreateZone stores a manually entered zone. Oil saturation is derived from
// water saturation.
func (s *Service) CreateZone(ctx context.Context, wellID string, in ZoneInput) (*petrophysics.Zone, error) {
	if in.DepthFrom == nil || in.DepthTo == nil {
		return nil, fmt.Errorf("%w: depth_from and depth_to are required", petrophysics.ErrInvalidZone)
	}
	if _, err := s.wells.Get(ctx, wellID); err != nil {
		return nil, err
	}
	zone := petrophysics.Zone{
		ID:         s.newID(),
		WellID:     wellID,
		Provenance: petrophysics.ProvenanceManual,
	}
	in.applyTo(&zone)
	zone.Normalize()
	zone.CreatedAt = s.now()
	zone.UpdatedAt = zone.CreatedAt
	if err := zone.Validate(); err != nil {
		return nil, err
	}
	if err := s.zones.Create(ctx, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

// UpdateZone applies present fields to an existing zone. The zone becomes
// manual and oil saturation is derived again.
func (s *Service) UpdateZone(ctx context.Context, id string, in ZoneInput) (*petrophysics.Zone, error) {
	zone, err := s.zones.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(zone)
	zone.Provenance = petrophysics.ProvenanceManual
	zone.Normalize()
	zone.UpdatedAt = s.now()
	if err := zone.Validate(); err != nil {
		return nil, err
	}
	if err := s.zones.Update(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

// DeleteZone removes one zone.
func (s *Service) DeleteZone(ctx context.Context, id string) error {
	return s.zones.Delete(ctx, id)
}
