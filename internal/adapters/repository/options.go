package repository

// Option applies a configuration option to the ScoreIndex.
type Option func(*ScoreIndex)

// WithCapacity pre-sizes the index for n entities.
func WithCapacity(n int) Option {
	return func(s *ScoreIndex) {
		if n > 0 {
			s.capacity = n
		}
	}
}
