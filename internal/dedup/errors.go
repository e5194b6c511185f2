package dedup

import "errors"

// Error classes returned by Checker. Callers classify with errors.Is.
var (
	// ErrConfiguration means the settings are unusable; nothing was queried.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrBackendQuery means fetching incidents failed.
	ErrBackendQuery = errors.New("incident query failed")
	// ErrBackendAction means the close-as-duplicate command failed.
	ErrBackendAction = errors.New("duplicate action failed")
	// ErrData means an incident record is malformed.
	ErrData = errors.New("malformed incident data")
)
