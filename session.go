// Package hostfs presents folders and files whose storage lives behind a
// host.Host. Every item is rebuilt from a snapshot returned by the host;
// nothing about the hierarchy is cached beyond the parent of each item.
package hostfs

import (
	"context"

	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/log"
)

// Provider describes the host behind a session.
type Provider = host.Provider

// Session binds items to one host. Items of different sessions never compare equal.
type Session struct {
	host     host.Host
	log      *log.Logger
	provider Provider

	maxUniqueProbes int
}

func NewSession(h host.Host, opts ...SessionOption) (*Session, error) {
	options := newDefaultSessionOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	provider := Provider{
		ID:          "host",
		DisplayName: "Host",
	}
	if describer, ok := h.(host.Describer); ok {
		provider = describer.Provider()
	}
	if options.Provider != nil {
		provider = *options.Provider
	}

	return &Session{
		host:     h,
		log:      options.Logger.Named("session"),
		provider: provider,

		maxUniqueProbes: options.MaxUniqueProbes,
	}, nil
}

// Host returns the host all items of this session talk to.
func (s *Session) Host() host.Host {
	return s.host
}

func (s *Session) Provider() Provider {
	return s.provider
}

// GetRoot asks the host for the private root folder.
func (s *Session) GetRoot(ctx context.Context) (*Folder, error) {
	raw, err := host.Await(ctx, s.host.OpenPrivateRoot)
	if err != nil {
		return nil, errs.IOFailure(err, "could not open the private root")
	}

	snapshot, err := data.DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errs.FolderNotFound("root")
	}
	if snapshot.IsFile {
		return nil, errs.ItemWrongKind(snapshot.Name, data.KindFolder)
	}

	s.log.Debug("Opened root '%s'", snapshot.ID)
	return s.newFolder(snapshot, nil), nil
}

// FromSnapshot builds the item described by snapshot below parent.
// A nil parent makes the item a root.
func (s *Session) FromSnapshot(snapshot *data.ItemSnapshot, parent *Folder) Item {
	if snapshot.IsFile {
		return s.newFile(snapshot, parent)
	}
	return s.newFolder(snapshot, parent)
}

func (s *Session) newFolder(snapshot *data.ItemSnapshot, parent *Folder) *Folder {
	return &Folder{
		item: item{
			id:      snapshot.ID,
			name:    snapshot.Name,
			parent:  parent,
			session: s,
		},
	}
}

func (s *Session) newFile(snapshot *data.ItemSnapshot, parent *Folder) *File {
	return &File{
		item: item{
			id:      snapshot.ID,
			name:    snapshot.Name,
			parent:  parent,
			session: s,
		},
	}
}
