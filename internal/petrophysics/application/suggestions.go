package application

import (
	"context"
	"fmt"

	logs "well-analysis/internal/logs/domain"
	petrophysics "well-analysis/internal/petrophysics/domain"
)

// CurveInventory lists the curve types recorded on a well.
type CurveInventory interface {
	PresentCurves(ctx context.Context, wellID string) ([]logs.CurveType, error)
}

// SuggestionKind tags a suggestion for display.
type SuggestionKind string

const (
	SuggestionWarning SuggestionKind = "warning"
	SuggestionAction  SuggestionKind = "action"
	SuggestionInfo    SuggestionKind = "info"
	SuggestionSuccess SuggestionKind = "success"
)

// Suggestion is one piece of analysis advice.
type Suggestion struct {
	Kind    SuggestionKind `json:"type"`
	Message string         `json:"message"`
}

// Suggestions lists the analyses the recorded data allows on a well.
type Suggestions struct {
	Curves         []logs.CurveType `json:"available_curves"`
	ZoneCount      int              `json:"zone_count"`
	ReservoirCount int              `json:"reservoir_count"`
	Suggestions    []Suggestion     `json:"suggestions"`
}

// Suggest inspects the recorded curves and stored zones of a well. A well
// without curves gets a single warning.
func (s *Service) Suggest(ctx context.Context, wellID string, inventory CurveInventory) (*Suggestions, error) {
	curves, err := inventory.PresentCurves(ctx, wellID)
	if err != nil {
		return nil, err
	}
	out := &Suggestions{Curves: curves, Suggestions: []Suggestion{}}
	if out.Curves == nil {
		out.Curves = []logs.CurveType{}
	}
	add := func(kind SuggestionKind, msg string) {
		out.Suggestions = append(out.Suggestions, Suggestion{Kind: kind, Message: msg})
	}
	if len(curves) == 0 {
		add(SuggestionWarning, "No logs available. Import data to start the analysis.")
		return out, nil
	}

	present := make(map[logs.CurveType]bool, len(curves))
	for _, c := range curves {
		present[c] = true
	}
	if present[logs.CurveGammaRay] {
		add(SuggestionAction, "GR log available: you can compute the shale volume (Vshale).")
	}
	if present[logs.CurveDensity] && present[logs.CurveNeutron] {
		add(SuggestionAction, "DENS and NEUT logs available: build a neutron-density crossplot to identify lithology.")
	}
	if present[logs.CurveResistivity] {
		add(SuggestionAction, "Resistivity log available: estimate water saturation (Sw) with Archie's equation.")
	}

	zones, err := s.zones.ListByWell(ctx, wellID)
	if err != nil {
		return nil, err
	}
	out.ZoneCount = len(zones)
	for _, z := range zones {
		if z.ZoneType == petrophysics.ZoneReservoir {
			out.ReservoirCount++
		}
	}
	switch {
	case out.ZoneCount == 0:
		add(SuggestionInfo, "No petrophysical analysis yet. Use calculate to analyse a zone.")
	case out.ReservoirCount > 0:
		add(SuggestionSuccess, fmt.Sprintf("%d reservoir zone(s) identified.", out.ReservoirCount))
	}
	return out, nil
}
