package ncconv

import "log/slog"

// Option configures a conversion.
type Option func(*convOptions)

type convOptions struct {
	progress ProgressFunc
	logger   *slog.Logger
}

func applyOptions(opts []Option) *convOptions {
	o := &convOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithProgress installs a per-variable progress callback. In parallel mode
// only rank 0 reports.
func WithProgress(fn ProgressFunc) Option {
	return func(o *convOptions) {
		o.progress = fn
	}
}

// WithLogger sets the structured logger used by the conversion.
func WithLogger(logger *slog.Logger) Option {
	return func(o *convOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
