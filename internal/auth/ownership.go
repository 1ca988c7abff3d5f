package auth

import (
	"context"
	"errors"

	wells "well-analysis/internal/wells/domain"
)

// WellOwnerChecker validates well ownership.
type WellOwnerChecker interface {
	EnsureWellOwner(ctx context.Context, userID, wellID string) (*wells.Well, error)
}

// WellLookup loads wells by id.
type WellLookup interface {
	Get(ctx context.Context, id string) (*wells.Well, error)
}

// WellChecker checks well ownership against the well store.
type WellChecker struct {
	repo WellLookup
}

// NewWellChecker constructs a WellChecker.
func NewWellChecker(repo WellLookup) (*WellChecker, error) {
	if repo == nil {
		return nil, errors.New("well checker: nil repo")
	}
	return &WellChecker{repo: repo}, nil
}

// EnsureWellOwner returns the well when userID owns it. Wells owned by
// someone else are reported as ErrWellNotFound.
func (c *WellChecker) EnsureWellOwner(ctx context.Context, userID, wellID string) (*wells.Well, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if wellID == "" {
		return nil, ErrWellNotFound
	}
	well, err := c.repo.Get(ctx, wellID)
	if err != nil {
		if errors.Is(err, wells.ErrNotFound) {
			return nil, ErrWellNotFound
		}
		return nil, err
	}
	if well == nil || well.OwnerID != userID {
		return nil, ErrWellNotFound
	}
	return well, nil
}
