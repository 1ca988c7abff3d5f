package application

import (
	"context"
	"errors"
	"math"
	"time"

	logs "well-analysis/internal/logs/domain"
	petrophysics "well-analysis/internal/petrophysics/domain"
	reporting "well-analysis/internal/reporting/domain"
	wells "well-analysis/internal/wells/domain"
)

// ReportType names the generated report.
const ReportType = "Petrophysical Analysis Report"

// WellLookup loads wells by id.
type WellLookup interface {
	Get(ctx context.Context, id string) (*wells.Well, error)
}

// ZoneLister lists the zones of a well.
type ZoneLister interface {
	ListByWell(ctx context.Context, wellID string) ([]petrophysics.Zone, error)
}

// LogStatistics returns per-curve statistics of a well.
type LogStatistics interface {
	Statistics(ctx context.Context, wellID string) ([]logs.CurveStatistics, error)
}

// Service builds well summaries and reports.
type Service struct {
	wells WellLookup
	zones ZoneLister
	stats LogStatistics
	now   func() time.Time
}

// NewService constructs a reporting service.
func NewService(wellRepo WellLookup, zones ZoneLister, stats LogStatistics) (*Service, error) {
	if wellRepo == nil || zones == nil || stats == nil {
		return nil, errors.New("reporting service: nil dependency")
	}
	return &Service{
		wells: wellRepo,
		zones: zones,
		stats: stats,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// LogStatistic is the rounded statistics of one curve.
type LogStatistic struct {
	Type       logs.CurveType `json:"type"`
	Count      int            `json:"count"`
	DepthRange [2]float64     `json:"depth_range"`
	ValueRange [2]float64     `json:"value_range"`
	Average    float64        `json:"average"`
}

// AnalysisSummary is the rounded zone aggregate of a well.
type AnalysisSummary struct {
	TotalZones                   int      `json:"total_zones"`
	ReservoirZones               int      `json:"reservoir_zones"`
	TotalThickness               float64  `json:"total_thickness"`
	NetReservoirThickness        float64  `json:"net_reservoir_thickness"`
	NetToGross                   float64  `json:"net_to_gross"`
	AveragePorosity              *float64 `json:"average_porosity"`
	AverageWaterSaturation       *float64 `json:"average_water_saturation"`
	AverageHydrocarbonSaturation *float64 `json:"average_hydrocarbon_saturation"`
}

// WellSummary is the quick summary of one well.
type WellSummary struct {
	Well            wells.Well         `json:"well"`
	LogStatistics   []LogStatistic     `json:"log_statistics"`
	AnalysisSummary AnalysisSummary    `json:"analysis_summary"`
	BestZone        *petrophysics.Zone `json:"best_zone"`
	Interpretation  []string           `json:"interpretation"`
	Warnings        []string           `json:"warnings"`
}

// BuildWellSummary aggregates log statistics and zones of a well.
func (s *Service) BuildWellSummary(ctx context.Context, wellID string) (*WellSummary, error) {
	well, err := s.wells.Get(ctx, wellID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.Statistics(ctx, wellID)
	if err != nil {
		return nil, err
	}
	zones, err := s.zones.ListByWell(ctx, wellID)
	if err != nil {
		return nil, err
	}

	sum := reporting.Summarize(zones)
	out := &WellSummary{
		Well:          *well,
		LogStatistics: make([]LogStatistic, 0, len(stats)),
		AnalysisSummary: AnalysisSummary{
			TotalZones:                   sum.TotalZones,
			ReservoirZones:               sum.ReservoirZones,
			TotalThickness:               round(sum.TotalThickness, 1),
			NetReservoirThickness:        round(sum.NetReservoirThickness, 1),
			NetToGross:                   round(sum.NetToGross, 3),
			AveragePorosity:              roundPtr(sum.AveragePorosity, 3),
			AverageWaterSaturation:       roundPtr(sum.AverageWaterSat, 3),
			AverageHydrocarbonSaturation: roundPtr(sum.AverageHydrocarbonSat, 3),
		},
		BestZone:       sum.BestZone,
		Interpretation: sum.Interpretation,
		Warnings:       sum.Warnings,
	}
	for _, st := range stats {
		out.LogStatistics = append(out.LogStatistics, LogStatistic{
			Type:       st.Curve,
			Count:      st.Count,
			DepthRange: [2]float64{st.MinDepth, st.MaxDepth},
			ValueRange: [2]float64{round(st.MinValue, 2), round(st.MaxValue, 2)},
			Average:    round(st.MeanValue, 2),
		})
	}
	return out, nil
}

// Metadata describes a generated report.
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	ReportType  string    `json:"report_type"`
}

// WellInfo is the well section of a report.
type WellInfo struct {
	Name        string       `json:"name"`
	Field       string       `json:"field"`
	Location    string       `json:"location"`
	TotalDepth  *float64     `json:"total_depth"`
	Status      wells.Status `json:"status"`
	Description string       `json:"description"`
}

// DataSummary describes the recorded logs of a well.
type DataSummary struct {
	LogTypes      []logs.CurveType `json:"log_types"`
	DepthRange    [2]*float64      `json:"depth_range"`
	ZonesAnalyzed int              `json:"zones_analyzed"`
}

// Report is the full analysis report of a well.
type Report struct {
	Metadata        Metadata            `json:"metadata"`
	Well            WellInfo            `json:"well"`
	DataSummary     DataSummary         `json:"data_summary"`
	Zones           []petrophysics.Zone `json:"zones"`
	Summary         reporting.Summary   `json:"summary"`
	Recommendations []string            `json:"recommendations"`
}

// BuildReport assembles the full report of a well.
func (s *Service) BuildReport(ctx context.Context, wellID string) (*Report, error) {
	well, err := s.wells.Get(ctx, wellID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.Statistics(ctx, wellID)
	if err != nil {
		return nil, err
	}
	zones, err := s.zones.ListByWell(ctx, wellID)
	if err != nil {
		return nil, err
	}

	data := DataSummary{LogTypes: make([]logs.CurveType, 0, len(stats)), ZonesAnalyzed: len(zones)}
	for i, st := range stats {
		data.LogTypes = append(data.LogTypes, st.Curve)
		if i == 0 || st.MinDepth < *data.DepthRange[0] {
			data.DepthRange[0] = petrophysics.Value(st.MinDepth)
		}
		if i == 0 || st.MaxDepth > *data.DepthRange[1] {
			data.DepthRange[1] = petrophysics.Value(st.MaxDepth)
		}
	}

	return &Report{
		Metadata: Metadata{GeneratedAt: s.now(), ReportType: ReportType},
		Well: WellInfo{
			Name:        well.Name,
			Field:       well.FieldName,
			Location:    well.Location,
			TotalDepth:  well.DepthTotal,
			Status:      well.Status,
			Description: well.Description,
		},
		DataSummary:     data,
		Zones:           zones,
		Summary:         reporting.Summarize(zones),
		Recommendations: reporting.Recommend(zones),
	}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, places)
	return &r
}
