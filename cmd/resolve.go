package cmd

import (
	"context"
	"strings"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
)

// Resolve walks p starting at folder. A leading "/" starts at the root of
// folder's tree and ".." moves to the parent. Every element is looked up on the host.
func Resolve(ctx context.Context, folder *hostfs.Folder, p string) (hostfs.Item, error) {
	if strings.HasPrefix(p, "/") {
		for folder.Parent() != nil {
			folder = folder.Parent()
		}
	}

	var current hostfs.Item = folder
	for _, element := range strings.Split(p, "/") {
		switch element {
		case "", ".":
			continue
		case "..":
			if parent := current.Parent(); parent != nil {
				current = parent
			}
			continue
		}

		parent, ok := current.(*hostfs.Folder)
		if !ok {
			return nil, errs.ItemWrongKind(current.Name(), data.KindFolder)
		}

		item, err := parent.GetItem(ctx, element)
		if err != nil {
			return nil, err
		}
		current = item
	}

	return current, nil
}

// ResolveFolder resolves p and requires the result to be a folder.
func ResolveFolder(ctx context.Context, folder *hostfs.Folder, p string) (*hostfs.Folder, error) {
	item, err := Resolve(ctx, folder, p)
	if err != nil {
		return nil, err
	}

	target, ok := item.(*hostfs.Folder)
	if !ok {
		return nil, errs.ItemWrongKind(item.Name(), data.KindFolder)
	}
	return target, nil
}

// ResolveParent resolves everything but the last element of p and returns the
// containing folder together with that last element.
func ResolveParent(ctx context.Context, folder *hostfs.Folder, p string) (*hostfs.Folder, string, error) {
	trimmed := strings.TrimRight(p, "/")
	idx := strings.LastIndexByte(trimmed, '/')

	name := trimmed[idx+1:]
	if name == "" || name == "." || name == ".." {
		return nil, "", errs.InvalidArgument("path", p)
	}

	dir := trimmed[:idx+1]
	if dir == "" {
		return folder, name, nil
	}

	parent, err := ResolveFolder(ctx, folder, dir)
	if err != nil {
		return nil, "", err
	}
	return parent, name, nil
}
