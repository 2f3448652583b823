package urlparse

import "log/slog"

// Option configures a single Parse call.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sends a debug record for every scanner phase transition to l.
// A nil logger disables tracing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
