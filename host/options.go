package host

import "github.com/mwantia/hostfs/log"

type LocalOption func(*Local)

// WithLogger sets the logger used for refused and failed host calls.
func WithLogger(logger *log.Logger) LocalOption {
	return func(l *Local) {
		l.log = logger
	}
}

// WithRootName sets the name reported for the private root folder.
func WithRootName(name string) LocalOption {
	return func(l *Local) {
		l.rootName = name
	}
}

// WithDisplayName sets the display name returned by Provider.
func WithDisplayName(name string) LocalOption {
	return func(l *Local) {
		l.displayName = name
	}
}
