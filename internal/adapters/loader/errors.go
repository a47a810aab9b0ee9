package loader

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidRecord   = errors.New("invalid record")
	ErrDuplicateEntity = errors.New("duplicate entity")
	ErrReadFile        = errors.New("read data file")
)
