package wells

import "errors"

var (
	// ErrNotFound is returned when a well cannot be found.
	ErrNotFound = errors.New("wells: not found")
	// ErrInvalidWell is returned when well fields fail validation.
	ErrInvalidWell = errors.New("wells: invalid well")
	// ErrInvalidStatus is returned for an unknown well status.
	ErrInvalidStatus = errors.New("wells: invalid status")
)
