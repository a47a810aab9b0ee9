package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotLoaded      = errors.New("no catalog loaded")
	ErrNotFound       = errors.New("entity not found")
	ErrIncompletePass = errors.New("scoring pass incomplete")
)
