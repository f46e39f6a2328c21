package hostfs

import (
	"fmt"

	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
)

// Resolution is what a create operation does after probing the desired name.
type Resolution int

const (
	// ResolveCreate creates the item under the desired name.
	ResolveCreate Resolution = iota
	// ResolveReplace deletes the existing item, then creates.
	ResolveReplace
	// ResolveOpen returns the existing item without creating anything.
	ResolveOpen
	// ResolveRename creates the item under the first free " (n)" name.
	ResolveRename
)

func (r Resolution) String() string {
	switch r {
	case ResolveCreate:
		return "create"
	case ResolveReplace:
		return "replace"
	case ResolveOpen:
		return "open"
	case ResolveRename:
		return "rename"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// ResolveCollision decides how to create an item of kind when existing
// (which may be nil) already holds the desired name.
func ResolveCollision(kind data.ItemKind, existing Item, option data.CollisionOption) (Resolution, error) {
	switch option {
	case data.ReplaceExisting, data.FailIfExists, data.OpenIfExists, data.GenerateUniqueName:
	default:
		return 0, errs.InvalidArgument("collision option", option)
	}

	if existing == nil {
		return ResolveCreate, nil
	}

	sameKind := existing.Kind() == kind
	switch option {
	case data.ReplaceExisting:
		if !sameKind {
			return 0, errs.ItemWrongKind(existing.Name(), kind)
		}
		return ResolveReplace, nil
	case data.FailIfExists:
		return 0, errs.ItemAlreadyExists(existing.Name())
	case data.OpenIfExists:
		if !sameKind {
			return 0, errs.ItemWrongKind(existing.Name(), kind)
		}
		return ResolveOpen, nil
	default:
		return ResolveRename, nil
	}
}
