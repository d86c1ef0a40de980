package domain

import "errors"

var (
	ErrNoImageSelected        = errors.New("no image selected")
	ErrOutOfRange             = errors.New("cell out of range")
	ErrDimensionMismatch      = errors.New("reveal matrix does not match grid size")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrInvalidImage           = errors.New("invalid image")
	ErrWrongPhase             = errors.New("action not valid in current phase")
	ErrStaleImage             = errors.New("image superseded by a newer choice")
	ErrNotFound               = errors.New("slot not found")
	ErrCorruptSnapshot        = errors.New("saved game is unreadable")
)
