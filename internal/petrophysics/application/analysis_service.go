package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	logs "well-analysis/internal/logs/domain"
	"well-analysis/internal/observability/metrics"
	petrophysics "well-analysis/internal/petrophysics/domain"
	wells "well-analysis/internal/wells/domain"
)

// CurveSource extracts the samples of one curve over a depth interval.
type CurveSource interface {
	Extract(ctx context.Context, wellID string, curve logs.CurveType, depthFrom, depthTo *float64) ([]logs.Sample, error)
}

// WellLookup loads wells by id.
type WellLookup interface {
	Get(ctx context.Context, id string) (*wells.Well, error)
}

// ComputeRequest is one zone computation request. Calibration values left
// nil fall back to the service calibration.
type ComputeRequest struct {
	DepthFrom   *float64
	DepthTo     *float64
	Calibration petrophysics.CalibrationOverrides
}

// ZoneResult is a persisted zone plus its interpretation.
type ZoneResult struct {
	Zone            petrophysics.Zone `json:"zone"`
	IsReservoir     bool              `json:"is_reservoir"`
	Recommendations []string          `json:"recommendations"`
}

// Service runs zone computations and manages zone records.
type Service struct {
	curves      CurveSource
	zones       petrophysics.ZoneRepository
	wells       WellLookup
	calibration petrophysics.Calibration
	logger      logrus.FieldLogger
	now         func() time.Time
	newID       func() string
}

// Option configures the service.
type Option func(*Service)

// WithCalibration overrides the base calibration applied before request overrides.
func WithCalibration(cal petrophysics.Calibration) Option {
	return func(s *Service) {
		s.calibration = cal
	}
}

// WithLogger sets the service logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides zone id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService constructs an analysis service.
func NewService(curves CurveSource, zones petrophysics.ZoneRepository, wellRepo WellLookup, opts ...Option) (*Service, error) {
	if curves == nil {
		return nil, errors.New("analysis service: nil curve source")
	}
	if zones == nil {
		return nil, errors.New("analysis service: nil zone repo")
	}
	if wellRepo == nil {
		return nil, errors.New("analysis service: nil well repo")
	}
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	s := &Service{
		curves:      curves,
		zones:       zones,
		wells:       wellRepo,
		calibration: petrophysics.DefaultCalibration(),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ComputeZone extracts GR, DENS and RESIS over the interval, runs the
// calculator, classifies and stores the zone. Nothing is stored on error.
func (s *Service) ComputeZone(ctx context.Context, wellID string, req ComputeRequest) (*ZoneResult, error) {
	start := time.Now()
	result, err := s.computeZone(ctx, wellID, req)
	switch {
	case err == nil:
		metrics.ObserveZoneCompute(metrics.ResultSuccess, time.Since(start))
	case errors.Is(err, petrophysics.ErrInsufficientData):
		metrics.ObserveZoneCompute(metrics.ResultInsufficientData, time.Since(start))
	case errors.Is(err, petrophysics.ErrInvalidRange), errors.Is(err, petrophysics.ErrConfiguration):
		metrics.ObserveZoneCompute(metrics.ResultInvalid, time.Since(start))
	default:
		metrics.ObserveZoneCompute(metrics.ResultError, time.Since(start))
	}
	return result, err
}

func (s *Service) computeZone(ctx context.Context, wellID string, req ComputeRequest) (*ZoneResult, error) {
	if req.DepthFrom == nil || req.DepthTo == nil {
		return nil, fmt.Errorf("%w: depth_from and depth_to are required", petrophysics.ErrInvalidRange)
	}
	from, to := *req.DepthFrom, *req.DepthTo
	if from < 0 || from >= to {
		return nil, fmt.Errorf("%w: depth_from must be >= 0 and < depth_to", petrophysics.ErrInvalidRange)
	}
	cal := req.Calibration.Apply(s.calibration)
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.wells.Get(ctx, wellID); err != nil {
		return nil, err
	}

	var input petrophysics.CurveInput
	for curve, dst := range map[logs.CurveType]*[]float64{
		logs.CurveGammaRay:    &input.GammaRay,
		logs.CurveDensity:     &input.Density,
		logs.CurveResistivity: &input.Resistivity,
	} {
		samples, err := s.curves.Extract(ctx, wellID, curve, &from, &to)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", curve, err)
		}
		*dst = logs.Values(samples)
	}

	res, err := petrophysics.Calculate(input, cal)
	if err != nil {
		return nil, err
	}

	zone := petrophysics.NewAutoZone(wellID, from, to, res)
	zone.ID = s.newID()
	zone.CreatedAt = s.now()
	zone.UpdatedAt = zone.CreatedAt
	if err := zone.Validate(); err != nil {
		return nil, err
	}
	if err := s.zones.Create(ctx, &zone); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"well_id":   wellID,
		"zone_id":   zone.ID,
		"zone_type": zone.ZoneType,
		"gr":        len(input.GammaRay),
		"dens":      len(input.Density),
		"resis":     len(input.Resistivity),
	}).Debug("zone computed")

	return &ZoneResult{
		Zone:            zone,
		IsReservoir:     petrophysics.IsReservoirQuality(zone),
		Recommendations: nonNil(petrophysics.ZoneRecommendations(zone)),
	}, nil
}

// ListZones returns the zones of a well ordered by depth.
func (s *Service) ListZones(ctx context.Context, wellID string) ([]petrophysics.Zone, error) {
	return s.zones.ListByWell(ctx, wellID)
}

// GetZone loads one zone.
func (s *Service) GetZone(ctx context.Context, id string) (*petrophysics.Zone, error) {
	return s.zones.Get(ctx, id)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
