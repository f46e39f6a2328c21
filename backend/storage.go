package backend

import (
	"context"

	"github.com/mwantia/hostfs/data"
)

// ObjectStorageBackend stores folders and files under slash separated keys.
// The root folder has the key "" and always exists.
type ObjectStorageBackend interface {
	Backend

	// CreateObject creates an empty file or a folder at key.
	// Returns data.ErrExist if key is taken and data.ErrNotExist if the parent folder is missing.
	CreateObject(ctx context.Context, key string, fileType data.FileType) (*data.FileStat, error)

	// ReadObject reads into buffer starting at offset and returns io.EOF at or past the end.
	ReadObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error)

	// WriteObject writes buffer at offset, growing the file if needed.
	WriteObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error)

	// DeleteObject removes key. Folders with children require force.
	DeleteObject(ctx context.Context, key string, force bool) error

	// ListObjects returns the direct children of the folder at key.
	ListObjects(ctx context.Context, key string) ([]*data.FileStat, error)

	// HeadObject returns the stat of key or data.ErrNotExist.
	HeadObject(ctx context.Context, key string) (*data.FileStat, error)
}
