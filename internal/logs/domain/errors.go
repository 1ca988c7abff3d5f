package logs

import "errors"

var (
	// ErrUnknownCurve is returned for a curve mnemonic outside the catalog.
	ErrUnknownCurve = errors.New("logs: unknown curve type")
	// ErrNegativeDepth is returned when a sample depth is below zero.
	ErrNegativeDepth = errors.New("logs: negative depth")
	// ErrInvalidRange is returned when depth_from is greater than depth_to.
	ErrInvalidRange = errors.New("logs: invalid depth range")
	// ErrSampleNotFound is returned when a sample cannot be found.
	ErrSampleNotFound = errors.New("logs: sample not found")
	// ErrInvalidCSV is returned when an import file cannot be parsed.
	ErrInvalidCSV = errors.New("logs: invalid csv")
)
