package commands

import (
	"context"
	"fmt"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/host/remote"
	"github.com/mwantia/hostfs/log"
)

// openLocal creates and opens a Local host over the configured backend.
func (o *rootOptions) openLocal(ctx context.Context, logger *log.Logger) (*host.Local, error) {
	storage, err := o.config.NewBackend(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend '%s': %w", o.config.Backend.Type, err)
	}

	local := host.NewLocal(storage, host.WithLogger(logger.Named("host")))
	if err := local.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open backend '%s': %w", o.config.Backend.Type, err)
	}

	return local, nil
}

// openSession connects to remoteURL, or opens the configured backend when it is empty.
// The returned function releases the host.
func (o *rootOptions) openSession(ctx context.Context, remoteURL string, logger *log.Logger) (*hostfs.Session, func(), error) {
	var h host.Host
	var release func()

	if remoteURL != "" {
		client, err := remote.Dial(ctx, remoteURL, remote.WithClientLogger(logger.Named("remote")))
		if err != nil {
			return nil, nil, err
		}
		h = client
		release = func() {
			client.Close()
		}
	} else {
		local, err := o.openLocal(ctx, logger)
		if err != nil {
			return nil, nil, err
		}
		h = local
		release = func() {
			if err := local.Close(context.Background()); err != nil {
				logger.Warn("Failed to close backend: %v", err)
			}
		}
	}

	session, err := hostfs.NewSession(h, hostfs.WithLogger(logger.Named("session")))
	if err != nil {
		release()
		return nil, nil, err
	}

	return session, release, nil
}
