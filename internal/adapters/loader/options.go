package loader

import "github.com/okian/rigscore/pkg/logger"

// Option configures a Loader.
type Option func(*Loader)

// WithLogger overrides the loader's logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithReadFile replaces the function used to read data files.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(ld *Loader) {
		if fn != nil {
			ld.readFile = fn
		}
	}
}
