package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	logs "well-analysis/internal/logs/domain"
)

// SampleRepository is an in-memory log store for local runs and tests.
type SampleRepository struct {
	mu      sync.RWMutex
	samples []logs.Sample
}

// NewSampleRepository constructs a repository.
func NewSampleRepository() *SampleRepository {
	return &SampleRepository{}
}

// InsertBatch appends samples. Validation happens before any write.
func (r *SampleRepository) InsertBatch(ctx context.Context, samples []logs.Sample) error {
	_ = ctx
	for _, s := range samples {
		if s.ID == "" || s.WellID == "" {
			return errors.New("sample repo: empty id")
		}
		if s.Depth < 0 {
			return logs.ErrNegativeDepth
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, samples...)
	return nil
}

// List returns matching samples ordered by depth.
func (r *SampleRepository) List(ctx context.Context, filter logs.SampleFilter) ([]logs.Sample, error) {
	_ = ctx
	r.mu.RLock()
	result := make([]logs.Sample, 0)
	for _, s := range r.samples {
		if filter.Matches(s) {
			result = append(result, s)
		}
	}
	r.mu.RUnlock()
	logs.SortByDepth(result)
	return result, nil
}

// Get loads a sample by id.
func (r *SampleRepository) Get(ctx context.Context, id string) (*logs.Sample, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.samples {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, logs.ErrSampleNotFound
}

// Delete removes one sample.
func (r *SampleRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.samples {
		if s.ID == id {
			r.samples = append(r.samples[:i], r.samples[i+1:]...)
			return nil
		}
	}
	return logs.ErrSampleNotFound
}

// DeleteByWell removes every sample of a well.
func (r *SampleRepository) DeleteByWell(ctx context.Context, wellID string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.samples[:0]
	for _, s := range r.samples {
		if s.WellID != wellID {
			kept = append(kept, s)
		}
	}
	r.samples = kept
	return nil
}

// Statistics computes per-curve statistics.
func (r *SampleRepository) Statistics(ctx context.Context, wellID string) ([]logs.CurveStatistics, error) {
	_ = ctx
	depths := make(map[logs.CurveType][]float64)
	values := make(map[logs.CurveType][]float64)
	r.mu.RLock()
	for _, s := range r.samples {
		if s.WellID != wellID {
			continue
		}
		depths[s.Curve] = append(depths[s.Curve], s.Depth)
		values[s.Curve] = append(values[s.Curve], s.Value)
	}
	r.mu.RUnlock()

	result := make([]logs.CurveStatistics, 0, len(values))
	for curve, vals := range values {
		result = append(result, logs.CurveStatistics{
			Curve:     curve,
			Count:     len(vals),
			MinDepth:  floats.Min(depths[curve]),
			MaxDepth:  floats.Max(depths[curve]),
			MinValue:  floats.Min(vals),
			MaxValue:  floats.Max(vals),
			MeanValue: stat.Mean(vals, nil),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Curve < result[j].Curve })
	return result, nil
}
