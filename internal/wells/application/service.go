package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	logs "well-analysis/internal/logs/domain"
	wells "well-analysis/internal/wells/domain"
)

// Paging defaults.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// SampleStatistics returns per-curve statistics of a well.
type SampleStatistics interface {
	Statistics(ctx context.Context, wellID string) ([]logs.CurveStatistics, error)
}

// ZoneCounter counts the zones of a well.
type ZoneCounter interface {
	CountByWell(ctx context.Context, wellID string) (int, error)
}

// Service manages owner-scoped wells.
type Service struct {
	repo    wells.Repository
	samples SampleStatistics
	zones   ZoneCounter
	now     func() time.Time
	newID   func() string
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

// WithIDGenerator overrides well id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService constructs a well service.
func NewService(repo wells.Repository, samples SampleStatistics, zones ZoneCounter, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("wells service: nil repo")
	}
	if samples == nil || zones == nil {
		return nil, errors.New("wells service: nil statistics source")
	}
	s := &Service{
		repo:    repo,
		samples: samples,
		zones:   zones,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// WellInput carries well fields; nil leaves a field unset on create and
// unchanged on update.
type WellInput struct {
	Name        *string  `json:"name"`
	FieldName   *string  `json:"field_name"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	DepthTotal  *float64 `json:"depth_total"`
	Status      *string  `json:"status"`
	Description *string  `json:"description"`
}

func (in WellInput) applyTo(w *wells.Well) error {
	if in.Name != nil {
		w.Name = strings.TrimSpace(*in.Name)
	}
	if in.FieldName != nil {
		w.FieldName = *in.FieldName
	}
	if in.Location != nil {
		w.Location = *in.Location
	}
	if in.Latitude != nil {
		w.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		w.Longitude = in.Longitude
	}
	if in.DepthTotal != nil {
		w.DepthTotal = in.DepthTotal
	}
	if in.Status != nil {
		status, err := wells.ParseStatus(*in.Status)
		if err != nil {
			return err
		}
		w.Status = status
	}
	if in.Description != nil {
		w.Description = *in.Description
	}
	return nil
}

// Create stores a new well owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in WellInput) (*wells.Well, error) {
	if in.Name == nil {
		return nil, fmt.Errorf("%w: name is required", wells.ErrInvalidWell)
	}
	now := s.now()
	well := wells.Well{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Status:    wells.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := in.applyTo(&well); err != nil {
		return nil, err
	}
	if err := well.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, well); err != nil {
		return nil, err
	}
	return &well, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, in WellInput) (*wells.Well, error) {
	well, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.applyTo(well); err != nil {
		return nil, err
	}
	well.UpdatedAt = s.now()
	if err := well.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, *well); err != nil {
		return nil, err
	}
	return well, nil
}

// Get loads a well.
func (s *Service) Get(ctx context.Context, id string) (*wells.Well, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes a well with its samples and zones.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListQuery is a page request.
type ListQuery struct {
	OwnerID string
	Status  string
	Search  string
	Page    int
	PerPage int
}

// Page is one page of wells.
type Page struct {
	Wells   []wells.Well `json:"wells"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
	Pages   int          `json:"pages"`
}

// List returns one page of the owner's wells, newest first.
func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	filter := wells.ListFilter{
		OwnerID: q.OwnerID,
		Search:  strings.TrimSpace(q.Search),
		Limit:   q.PerPage,
		Offset:  (q.Page - 1) * q.PerPage,
	}
	if q.Status != "" {
		status, err := wells.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []wells.Well{}
	}
	return &Page{
		Wells:   items,
		Total:   total,
		Page:    q.Page,
		PerPage: q.PerPage,
		Pages:   (total + q.PerPage - 1) / q.PerPage,
	}, nil
}

// Stats describes the recorded data of a well.
type Stats struct {
	WellID      string           `json:"well_id"`
	SampleCount int              `json:"total_log_points"`
	ZoneCount   int              `json:"total_zones"`
	LogTypes    []logs.CurveType `json:"log_types"`
	DepthMin    *float64         `json:"depth_min"`
	DepthMax    *float64         `json:"depth_max"`
}

// Stats aggregates sample and zone counts of a well.
func (s *Service) Stats(ctx context.Context, id string) (*Stats, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	curves, err := s.samples.Statistics(ctx, id)
	if err != nil {
		return nil, err
	}
	zoneCount, err := s.zones.CountByWell(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &Stats{WellID: id, ZoneCount: zoneCount, LogTypes: make([]logs.CurveType, 0, len(curves))}
	for _, c := range curves {
		out.SampleCount += c.Count
		out.LogTypes = append(out.LogTypes, c.Curve)
		if out.DepthMin == nil || c.MinDepth < *out.DepthMin {
			v := c.MinDepth
			out.DepthMin = &v
		}
		if out.DepthMax == nil || c.MaxDepth > *out.DepthMax {
			v := c.MaxDepth
			out.DepthMax = &v
		}
	}
	return out, nil
}
