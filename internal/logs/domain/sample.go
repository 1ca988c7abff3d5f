package logs

import (
	"context"
	"sort"
	"time"
)

// Quality flags a recorded sample.
type Quality string

const (
	QualityGood    Quality = "good"
	QualitySuspect Quality = "suspect"
	QualityBad     Quality = "bad"
)

// ParseQuality validates a quality flag; empty means good.
func ParseQuality(value string) (Quality, bool) {
	switch Quality(value) {
	case "":
		return QualityGood, true
	case QualityGood, QualitySuspect, QualityBad:
		return Quality(value), true
	default:
		return "", false
	}
}

// Sample is one (depth, value) reading of a curve. Samples are immutable.
type Sample struct {
	ID        string    `json:"id"`
	WellID    string    `json:"well_id"`
	Curve     CurveType `json:"log_type"`
	Depth     float64   `json:"depth"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Quality   Quality   `json:"quality"`
	CreatedAt time.Time `json:"created_at"`
}

// SampleFilter selects samples of one well. Zero values disable a filter.
type SampleFilter struct {
	WellID    string
	Curve     CurveType
	DepthFrom *float64
	DepthTo   *float64
}

// Matches reports whether s passes the filter.
func (f SampleFilter) Matches(s Sample) bool {
	if f.WellID != "" && s.WellID != f.WellID {
		return false
	}
	if f.Curve != "" && s.Curve != f.Curve {
		return false
	}
	if f.DepthFrom != nil && s.Depth < *f.DepthFrom {
		return false
	}
	if f.DepthTo != nil && s.Depth > *f.DepthTo {
		return false
	}
	return true
}

// CurveStatistics summarises one curve of a well.
type CurveStatistics struct {
	Curve     CurveType `json:"type"`
	Count     int       `json:"count"`
	MinDepth  float64   `json:"min_depth"`
	MaxDepth  float64   `json:"max_depth"`
	MinValue  float64   `json:"min_value"`
	MaxValue  float64   `json:"max_value"`
	MeanValue float64   `json:"average"`
}

// SampleRepository is the log store.
type SampleRepository interface {
	// InsertBatch stores all samples or none.
	InsertBatch(ctx context.Context, samples []Sample) error
	// List returns matching samples ordered by depth ascending.
	List(ctx context.Context, filter SampleFilter) ([]Sample, error)
	Get(ctx context.Context, id string) (*Sample, error)
	Delete(ctx context.Context, id string) error
	DeleteByWell(ctx context.Context, wellID string) error
	// Statistics returns per-curve statistics ordered by curve type.
	Statistics(ctx context.Context, wellID string) ([]CurveStatistics, error)
}

// SortByDepth orders samples by depth ascending, keeping insertion order for ties.
func SortByDepth(samples []Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Depth < samples[j].Depth
	})
}

// Values extracts sample values in order.
func Values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}
