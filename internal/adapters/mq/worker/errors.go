package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrNilEntity = errors.New("job has no entity")
)
