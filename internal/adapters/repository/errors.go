package repository

import "errors"

// Sentinel kinds for score index errors.
var (
	ErrNotFound     = errors.New("entity not indexed")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
