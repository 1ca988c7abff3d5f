package wells

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a well.
type Status string

const (
	StatusActive    Status = "active"
	StatusDrilling  Status = "drilling"
	StatusAbandoned Status = "abandoned"
)

// ParseStatus validates a status; empty means active.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return StatusActive, nil
	case StatusActive:
		return StatusActive, nil
	case StatusDrilling:
		return StatusDrilling, nil
	case StatusAbandoned:
		return StatusAbandoned, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Well is a borehole owned by one user.
type Well struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	FieldName   string    `json:"field_name"`
	Location    string    `json:"location"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	DepthTotal  *float64  `json:"depth_total"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks well fields.
func (w Well) Validate() error {
	if w.ID == "" || w.OwnerID == "" {
		return fmt.Errorf("%w: missing id or owner", ErrInvalidWell)
	}
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidWell)
	}
	if len(w.Name) > 100 {
		return fmt.Errorf("%w: name too long", ErrInvalidWell)
	}
	if _, err := ParseStatus(string(w.Status)); err != nil {
		return err
	}
	if w.Latitude != nil && (*w.Latitude < -90 || *w.Latitude > 90) {
		return fmt.Errorf("%w: latitude out of range", ErrInvalidWell)
	}
	if w.Longitude != nil && (*w.Longitude < -180 || *w.Longitude > 180) {
		return fmt.Errorf("%w: longitude out of range", ErrInvalidWell)
	}
	if w.DepthTotal != nil && *w.DepthTotal < 0 {
		return fmt.Errorf("%w: negative total depth", ErrInvalidWell)
	}
	return nil
}

// ListFilter selects wells of one owner.
type ListFilter struct {
	OwnerID string
	Status  Status
	// Search matches the name case-insensitively.
	Search string
	Limit  int
	Offset int
}

// Repository persists wells.
type Repository interface {
	Create(ctx context.Context, well Well) error
	Update(ctx context.Context, well Well) error
	Get(ctx context.Context, id string) (*Well, error)
	// List returns one page, newest first, and the total match count.
	List(ctx context.Context, filter ListFilter) ([]Well, int, error)
	// Delete removes the well together with its samples and zones.
	Delete(ctx context.Context, id string) error
}
