package petrophysics

import "errors"

var (
	// ErrInsufficientData is returned when the gamma-ray curve has no samples in the interval.
	ErrInsufficientData = errors.New("petrophysics: insufficient data")
	// ErrInvalidRange is returned when depth_from/depth_to are missing or not increasing.
	ErrInvalidRange = errors.New("petrophysics: invalid depth range")
	// ErrConfiguration is returned when calibration constants would divide by zero.
	ErrConfiguration = errors.New("petrophysics: invalid calibration")
	// ErrInvalidZone is returned when a zone record fails validation.
	ErrInvalidZone = errors.New("petrophysics: invalid zone")
	// ErrZoneNotFound is returned when a zone cannot be found.
	ErrZoneNotFound = errors.New("petrophysics: zone not found")
)
