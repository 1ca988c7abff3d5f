package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	wells "well-analysis/internal/wells/domain"
)

// Purger removes data that belongs to a well.
type Purger interface {
	DeleteByWell(ctx context.Context, wellID string) error
}

// WellRepository is an in-memory well store.
type WellRepository struct {
	mu      sync.RWMutex
	wells   map[string]wells.Well
	purgers []Purger
}

// NewWellRepository constructs a repository. Purgers run before a well is
// removed.
func NewWellRepository(purgers ...Purger) *WellRepository {
	return &WellRepository{wells: make(map[string]wells.Well), purgers: purgers}
}

// Create stores a well.
func (r *WellRepository) Create(ctx context.Context, well wells.Well) error {
	_ = ctx
	if well.ID == "" {
		return errors.New("well repo: empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.wells[well.ID]; exists {
		return errors.New("well repo: duplicate id")
	}
	r.wells[well.ID] = well
	return nil
}

// Update overwrites a well.
func (r *WellRepository) Update(ctx context.Context, well wells.Well) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wells[well.ID]; !ok {
		return wells.ErrNotFound
	}
	r.wells[well.ID] = well
	return nil
}

// Get loads a well by id.
func (r *WellRepository) Get(ctx context.Context, id string) (*wells.Well, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	well, ok := r.wells[id]
	if !ok {
		return nil, wells.ErrNotFound
	}
	return &well, nil
}

// List returns one page of an owner's wells, newest first.
func (r *WellRepository) List(ctx context.Context, filter wells.ListFilter) ([]wells.Well, int, error) {
	_ = ctx
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	r.mu.RLock()
	matched := make([]wells.Well, 0)
	for _, w := range r.wells {
		if w.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(w.Name), search) {
			continue
		}
		matched = append(matched, w)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	if filter.Offset >= total {
		return []wells.Well{}, total, nil
	}
	end := filter.Offset + limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

// Delete removes the well after purging its dependent data.
func (r *WellRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wells[id]; !ok {
		return wells.ErrNotFound
	}
	for _, p := range r.purgers {
		if err := p.DeleteByWell(ctx, id); err != nil {
			return err
		}
	}
	delete(r.wells, id)
	return nil
}
