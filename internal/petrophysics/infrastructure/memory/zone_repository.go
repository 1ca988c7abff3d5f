package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	petrophysics "well-analysis/internal/petrophysics/domain"
)

// ZoneRepository is an in-memory zone store.
type ZoneRepository struct {
	mu    sync.RWMutex
	zones map[string]petrophysics.Zone
	order []string
}

// NewZoneRepository constructs a repository.
func NewZoneRepository() *ZoneRepository {
	return &ZoneRepository{zones: make(map[string]petrophysics.Zone)}
}

// Create stores a zone.
func (r *ZoneRepository) Create(ctx context.Context, zone *petrophysics.Zone) error {
	_ = ctx
	if zone == nil || zone.ID == "" {
		return errors.New("zone repo: empty zone")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.zones[zone.ID]; exists {
		return errors.New("zone repo: duplicate id")
	}
	r.zones[zone.ID] = *zone
	r.order = append(r.order, zone.ID)
	return nil
}

// Update overwrites a zone.
func (r *ZoneRepository) Update(ctx context.Context, zone *petrophysics.Zone) error {
	_ = ctx
	if zone == nil {
		return errors.New("zone repo: nil zone")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.zones[zone.ID]; !ok {
		return petrophysics.ErrZoneNotFound
	}
	r.zones[zone.ID] = *zone
	return nil
}

// Get loads a zone by id.
func (r *ZoneRepository) Get(ctx context.Context, id string) (*petrophysics.Zone, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	zone, ok := r.zones[id]
	if !ok {
		return nil, petrophysics.ErrZoneNotFound
	}
	return &zone, nil
}

// ListByWell returns the zones of a well ordered by depth, then creation.
func (r *ZoneRepository) ListByWell(ctx context.Context, wellID string) ([]petrophysics.Zone, error) {
	_ = ctx
	r.mu.RLock()
	result := make([]petrophysics.Zone, 0)
	for _, id := range r.order {
		if zone := r.zones[id]; zone.WellID == wellID {
			result = append(result, zone)
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DepthFrom < result[j].DepthFrom
	})
	return result, nil
}

// CountByWell counts the zones of a well.
func (r *ZoneRepository) CountByWell(ctx context.Context, wellID string) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, zone := range r.zones {
		if zone.WellID == wellID {
			count++
		}
	}
	return count, nil
}

// Delete removes one zone.
func (r *ZoneRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.zones[id]; !ok {
		return petrophysics.ErrZoneNotFound
	}
	delete(r.zones, id)
	r.order = removeID(r.order, func(candidate string) bool { return candidate == id })
	return nil
}

// DeleteByWell removes every zone of a well.
func (r *ZoneRepository) DeleteByWell(ctx context.Context, wellID string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = removeID(r.order, func(candidate string) bool {
		if r.zones[candidate].WellID == wellID {
			delete(r.zones, candidate)
			return true
		}
		return false
	})
	return nil
}

func removeID(ids []string, drop func(string) bool) []string {
	kept := ids[:0]
	for _, id := range ids {
		if !drop(id) {
			kept = append(kept, id)
		}
	}
	return kept
}
