package hostfs

import (
	"fmt"

	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/log"
)

// DefaultMaxUniqueProbes bounds the candidates tried by GenerateUniqueName.
const DefaultMaxUniqueProbes = 10000

type SessionOptions struct {
	Logger          *log.Logger
	MaxUniqueProbes int
	Provider        *Provider
}

type SessionOption func(*SessionOptions) error

func newDefaultSessionOptions() *SessionOptions {
	return &SessionOptions{
		Logger:          log.Discard(),
		MaxUniqueProbes: DefaultMaxUniqueProbes,
	}
}

func WithLogger(logger *log.Logger) SessionOption {
	return func(opts *SessionOptions) error {
		if logger == nil {
			return fmt.Errorf("%w: logger must not be nil", data.ErrInvalid)
		}
		opts.Logger = logger
		return nil
	}
}

// WithMaxUniqueProbes changes how many " (n)" candidates are probed before
// GenerateUniqueName gives up.
func WithMaxUniqueProbes(max int) SessionOption {
	return func(opts *SessionOptions) error {
		if max < 1 {
			return fmt.Errorf("%w: max unique probes must be positive, got %d", data.ErrInvalid, max)
		}
		opts.MaxUniqueProbes = max
		return nil
	}
}

// WithProvider overrides the provider reported by the session.
func WithProvider(provider Provider) SessionOption {
	return func(opts *SessionOptions) error {
		opts.Provider = &provider
		return nil
	}
}
