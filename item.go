package hostfs

import (
	"context"
	"path"

	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
)

// Item is a folder or a file known by its host identifier.
type Item interface {
	ID() string
	Name() string
	// Path joins the names from the root down to this item with "/".
	Path() string
	Kind() data.ItemKind
	// Parent returns the containing folder, or nil for a root.
	Parent() *Folder
	Session() *Session
	Provider() Provider

	// Delete removes the item and, for folders, everything below it.
	Delete(ctx context.Context, option data.DeleteOption) error
}

type item struct {
	id      string
	name    string
	parent  *Folder
	session *Session
}

func (i *item) ID() string {
	return i.id
}

func (i *item) Name() string {
	return i.name
}

func (i *item) Path() string {
	if i.parent == nil {
		return i.name
	}
	return path.Join(i.parent.Path(), i.name)
}

func (i *item) Parent() *Folder {
	return i.parent
}

func (i *item) Session() *Session {
	return i.session
}

func (i *item) Provider() Provider {
	return i.session.provider
}

// Delete relays to the parent, since hosts remove items by parent and name.
func (i *item) Delete(ctx context.Context, option data.DeleteOption) error {
	if i.parent == nil {
		return errs.NotSupported("cannot delete root folder '%s'", i.name)
	}
	if !option.Valid() {
		return errs.InvalidArgument("delete option", option)
	}

	return i.parent.deleteItem(ctx, i.name)
}

// SameItem reports whether a and b refer to the same host item.
// Items of different sessions cannot be compared.
func SameItem(a, b Item) (bool, error) {
	if a == nil || b == nil {
		return false, errs.InvalidArgument("item", nil)
	}
	if a.Session() != b.Session() {
		return false, data.ErrCrossSession
	}

	return a.Kind() == b.Kind() && a.ID() == b.ID(), nil
}
