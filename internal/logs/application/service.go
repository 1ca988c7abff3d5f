package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	logs "well-analysis/internal/logs/domain"
)

// Service exposes log store use cases.
type Service struct {
	repo  logs.SampleRepository
	now   func() time.Time
	newID func() string
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides sample id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService constructs a log service.
func NewService(repo logs.SampleRepository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("logs service: nil repo")
	}
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Extract returns the samples of one curve whose depth lies in the closed
// interval [depthFrom, depthTo], ascending by depth. Either bound may be nil.
func (s *Service) Extract(ctx context.Context, wellID string, curve logs.CurveType, depthFrom, depthTo *float64) ([]logs.Sample, error) {
	if depthFrom != nil && depthTo != nil && *depthFrom > *depthTo {
		return nil, logs.ErrInvalidRange
	}
	if _, ok := logs.Info(curve); !ok {
		return nil, logs.ErrUnknownCurve
	}
	return s.repo.List(ctx, logs.SampleFilter{
		WellID:    wellID,
		Curve:     curve,
		DepthFrom: depthFrom,
		DepthTo:   depthTo,
	})
}

// List returns samples of a well matching the filter.
func (s *Service) List(ctx context.Context, filter logs.SampleFilter) ([]logs.Sample, error) {
	if filter.DepthFrom != nil && filter.DepthTo != nil && *filter.DepthFrom > *filter.DepthTo {
		return nil, logs.ErrInvalidRange
	}
	if filter.Curve != "" {
		if _, ok := logs.Info(filter.Curve); !ok {
			return nil, logs.ErrUnknownCurve
		}
	}
	return s.repo.List(ctx, filter)
}

// Get loads one sample.
func (s *Service) Get(ctx context.Context, id string) (*logs.Sample, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes one sample.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Statistics returns per-curve statistics of a well.
func (s *Service) Statistics(ctx context.Context, wellID string) ([]logs.CurveStatistics, error) {
	return s.repo.Statistics(ctx, wellID)
}

// CurveSummary describes a curve present on a well.
type CurveSummary struct {
	logs.CurveInfo
	Count int `json:"count"`
}

// CurveTypes lists the curves recorded on a well, in catalog order.
func (s *Service) CurveTypes(ctx context.Context, wellID string) ([]CurveSummary, error) {
	stats, err := s.repo.Statistics(ctx, wellID)
	if err != nil {
		return nil, err
	}
	counts := make(map[logs.CurveType]int, len(stats))
	for _, st := range stats {
		counts[st.Curve] = st.Count
	}
	out := make([]CurveSummary, 0, len(stats))
	for _, info := range logs.Catalog() {
		if n, ok := counts[info.Type]; ok && n > 0 {
			out = append(out, CurveSummary{CurveInfo: info, Count: n})
		}
	}
	return out, nil
}

// CurveExport is one curve as parallel depth and value arrays.
type CurveExport struct {
	Info   logs.CurveInfo `json:"info"`
	Depths []float64      `json:"depths"`
	Values []float64      `json:"values"`
}

// Export groups the samples of a well by curve. An empty curve exports all.
func (s *Service) Export(ctx context.Context, wellID string, curve logs.CurveType) (map[logs.CurveType]CurveExport, error) {
	if curve != "" {
		if _, ok := logs.Info(curve); !ok {
			return nil, logs.ErrUnknownCurve
		}
	}
	samples, err := s.repo.List(ctx, logs.SampleFilter{WellID: wellID, Curve: curve})
	if err != nil {
		return nil, fmt.Errorf("logs export: %w", err)
	}
	out := make(map[logs.CurveType]CurveExport)
	for _, sample := range samples {
		exp, ok := out[sample.Curve]
		if !ok {
			info, known := logs.Info(sample.Curve)
			if !known {
				info = logs.CurveInfo{Type: sample.Curve, Name: string(sample.Curve), Unit: sample.Unit}
			}
			exp = CurveExport{Info: info}
		}
		exp.Depths = append(exp.Depths, sample.Depth)
		exp.Values = append(exp.Values, sample.Value)
		out[sample.Curve] = exp
	}
	return out, nil
}

// PresentCurves returns the curve types recorded on a well, sorted.
func (s *Service) PresentCurves(ctx context.Context, wellID string) ([]logs.CurveType, error) {
	stats, err := s.repo.Statistics(ctx, wellID)
	if err != nil {
		return nil, err
	}
	out := make([]logs.CurveType, 0, len(stats))
	for _, st := range stats {
		if st.Count > 0 {
			out = append(out, st.Curve)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
