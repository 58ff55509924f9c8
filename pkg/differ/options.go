package differ

import "github.com/rs/zerolog"

// Option configures a Differ.
type Option func(*differ)

// WithLogger sets the logger used for discarded-row and duplicate-key
// diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(d *differ) {
		if logger != nil {
			d.logger = logger
		}
	}
}
