package hostfs

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
)

// uniqueName probes "<base> (1)", "<base> (2)", ... until a name is free.
// For files the counter goes before the extension.
func (f *Folder) uniqueName(ctx context.Context, kind data.ItemKind, name string) (string, error) {
	base, ext := splitExtension(kind, name)

	for n := 1; n <= f.session.maxUniqueProbes; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)

		existing, err := f.TryGetItem(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}

	f.session.log.Warn("No unique name left for '%s' after %d probes", name, f.session.maxUniqueProbes)
	return "", errs.ItemAlreadyExists(name)
}

func splitExtension(kind data.ItemKind, name string) (string, string) {
	if kind != data.KindFile {
		return name, ""
	}

	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" {
		// Dot files like ".env" have no extension
		return name, ""
	}
	return base, ext
}
