package hostfs

import (
	"context"

	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
	"github.com/mwantia/hostfs/host"
)

// Folder is a host folder. Its children are never cached; every lookup and
// listing asks the host again.
type Folder struct {
	item
}

var _ Item = (*Folder)(nil)

func (f *Folder) Kind() data.ItemKind {
	return data.KindFolder
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.parent == nil
}

func (f *Folder) CreateFolder(ctx context.Context, name string, option data.CollisionOption) (*Folder, error) {
	created, err := f.create(ctx, data.KindFolder, name, option)
	if err != nil {
		return nil, err
	}
	return created.(*Folder), nil
}

func (f *Folder) CreateFile(ctx context.Context, name string, option data.CollisionOption) (*File, error) {
	created, err := f.create(ctx, data.KindFile, name, option)
	if err != nil {
		return nil, err
	}
	return created.(*File), nil
}

func (f *Folder) create(ctx context.Context, kind data.ItemKind, name string, option data.CollisionOption) (Item, error) {
	existing, err := f.TryGetItem(ctx, name)
	if err != nil {
		return nil, err
	}

	resolution, err := ResolveCollision(kind, existing, option)
	if err != nil {
		return nil, err
	}

	switch resolution {
	case ResolveOpen:
		return existing, nil
	case ResolveReplace:
		if err := existing.Delete(ctx, data.DeleteDefault); err != nil {
			return nil, err
		}
	case ResolveRename:
		if name, err = f.uniqueName(ctx, kind, name); err != nil {
			return nil, err
		}
	}

	raw, err := host.Await(ctx, func(ctx context.Context) (string, error) {
		if kind == data.KindFile {
			return f.session.host.CreateFile(ctx, f.id, name)
		}
		return f.session.host.CreateFolder(ctx, f.id, name)
	})
	if err != nil {
		return nil, errs.IOFailure(err, "could not create %s '%s'", kind, name)
	}

	snapshot, err := data.DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errs.OperationFailed("create "+kind.String(), name)
	}
	if snapshot.Kind() != kind {
		return nil, errs.IOFailure(nil, "host created a %s for '%s'", snapshot.Kind(), name)
	}

	f.session.log.Debug("Created %s '%s' in '%s' (%s)", kind, snapshot.Name, f.Path(), resolution)
	return f.session.FromSnapshot(snapshot, f), nil
}

// GetFolder returns the child folder name.
func (f *Folder) GetFolder(ctx context.Context, name string) (*Folder, error) {
	folder, err := f.tryGet(ctx, data.KindFolder, name)
	if err != nil {
		return nil, err
	}
	if folder != nil {
		return folder.(*Folder), nil
	}

	file, err := f.tryGet(ctx, data.KindFile, name)
	if err != nil {
		return nil, err
	}
	if file != nil {
		return nil, errs.ItemWrongKind(name, data.KindFolder)
	}

	return nil, errs.FolderNotFound(name)
}

// GetFile returns the child file name.
func (f *Folder) GetFile(ctx context.Context, name string) (*File, error) {
	file, err := f.tryGet(ctx, data.KindFile, name)
	if err != nil {
		return nil, err
	}
	if file != nil {
		return file.(*File), nil
	}

	folder, err := f.tryGet(ctx, data.KindFolder, name)
	if err != nil {
		return nil, err
	}
	if folder != nil {
		return nil, errs.ItemWrongKind(name, data.KindFile)
	}

	return nil, errs.FileNotFound(name)
}

// GetItem returns the child named name, whatever its kind.
func (f *Folder) GetItem(ctx context.Context, name string) (Item, error) {
	item, err := f.TryGetItem(ctx, name)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errs.ItemNotFound(name)
	}
	return item, nil
}

// TryGetItem returns the child named name or (nil, nil) if there is none.
// Files are probed before folders.
func (f *Folder) TryGetItem(ctx context.Context, name string) (Item, error) {
	file, err := f.tryGet(ctx, data.KindFile, name)
	if err != nil || file != nil {
		return file, err
	}

	return f.tryGet(ctx, data.KindFolder, name)
}

// tryGet returns a nil Item when the host reports nothing of that kind.
func (f *Folder) tryGet(ctx context.Context, kind data.ItemKind, name string) (Item, error) {
	raw, err := host.Await(ctx, func(ctx context.Context) (string, error) {
		if kind == data.KindFile {
			return f.session.host.TryGetFile(ctx, f.id, name)
		}
		return f.session.host.TryGetFolder(ctx, f.id, name)
	})
	if err != nil {
		return nil, errs.IOFailure(err, "could not look up %s '%s'", kind, name)
	}

	snapshot, err := data.DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	if snapshot == nil || snapshot.Kind() != kind {
		return nil, nil
	}

	return f.session.FromSnapshot(snapshot, f), nil
}

func (f *Folder) ListItems(ctx context.Context) ([]Item, error) {
	snapshots, err := f.list(ctx, f.session.host.ListItems)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(snapshots))
	for _, snapshot := range snapshots {
		items = append(items, f.session.FromSnapshot(snapshot, f))
	}
	return items, nil
}

func (f *Folder) ListFiles(ctx context.Context) ([]*File, error) {
	snapshots, err := f.list(ctx, f.session.host.ListFiles)
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if !snapshot.IsFile {
			return nil, errs.IOFailure(nil, "host listed folder '%s' as a file", snapshot.Name)
		}
		files = append(files, f.session.newFile(snapshot, f))
	}
	return files, nil
}

func (f *Folder) ListFolders(ctx context.Context) ([]*Folder, error) {
	snapshots, err := f.list(ctx, f.session.host.ListFolders)
	if err != nil {
		return nil, err
	}

	folders := make([]*Folder, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot.IsFile {
			return nil, errs.IOFailure(nil, "host listed file '%s' as a folder", snapshot.Name)
		}
		folders = append(folders, f.session.newFolder(snapshot, f))
	}
	return folders, nil
}

func (f *Folder) list(ctx context.Context, call func(ctx context.Context, parentID string) (string, error)) ([]*data.ItemSnapshot, error) {
	raw, err := host.Await(ctx, func(ctx context.Context) (string, error) {
		return call(ctx, f.id)
	})
	if err != nil {
		return nil, errs.IOFailure(err, "could not list '%s'", f.Path())
	}

	return data.DecodeSnapshots(raw)
}

func (f *Folder) deleteItem(ctx context.Context, name string) error {
	raw, err := host.Await(ctx, func(ctx context.Context) (string, error) {
		return f.session.host.DeleteItem(ctx, f.id, name)
	})
	if err != nil {
		return errs.IOFailure(err, "could not delete '%s'", name)
	}
	if raw == "" {
		return errs.OperationFailed("delete", name)
	}

	f.session.log.Debug("Deleted '%s' from '%s'", name, f.Path())
	return nil
}
