package stream

import (
	"runtime"

	"github.com/mwantia/hostfs/log"
)

// Pinner keeps a buffer at a fixed address while the host writes into it.
// runtime.Pinner satisfies it.
type Pinner interface {
	Pin(pointer any)
	Unpin()
}

type Option func(*Reader)

// WithPinner replaces the runtime.Pinner created for every read.
func WithPinner(newPinner func() Pinner) Option {
	return func(r *Reader) {
		r.newPinner = newPinner
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Reader) {
		r.log = logger
	}
}

func defaultPinner() Pinner {
	return new(runtime.Pinner)
}
