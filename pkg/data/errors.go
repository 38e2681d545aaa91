package data

import "errors"

var (
	// ErrPermissionDenied is returned when the album storage cannot be accessed.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrValidation is returned when input is rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrCopy is returned when an image cannot be copied into the album.
	ErrCopy = errors.New("copy failed")
	// ErrIO is returned when a storage read or write fails.
	ErrIO = errors.New("storage i/o failed")
	// ErrParse marks corrupt persisted data. Stores log it and never return it from Load.
	ErrParse = errors.New("corrupt persisted data")
	// ErrNetwork is returned when a remote provider request fails.
	ErrNetwork = errors.New("network request failed")
	ErrNotFound = errors.New("not found")
)
