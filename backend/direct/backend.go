package direct

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
)

// DirectBackend maps keys onto a directory of the local filesystem.
type DirectBackend struct {
	mu   sync.RWMutex
	path string
}

func NewDirectBackend(path string) (*DirectBackend, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return &DirectBackend{
		path: abs,
	}, nil
}

// Returns the identifier name defined for this backend
func (*DirectBackend) Name() string {
	return "direct"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (db *DirectBackend) Open(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	// Verify the root directory exists
	info, err := os.Stat(db.path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return data.ErrPermission
		}
		return data.ErrMountFailed
	}

	// Ensure the root is a directory
	if !info.IsDir() {
		return data.ErrNotDirectory
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (db *DirectBackend) Close(ctx context.Context) error {
	// The underlying filesystem persists independently
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (db *DirectBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityObjectStorage,
			backend.CapabilityPersistent,
			backend.CapabilityRecursiveDelete,
		},
		MaxObjectSize: 10737418240, // 10 GB
	}
}

// resolvePath joins the backend path with the key. Keys can never escape the root.
func (db *DirectBackend) resolvePath(key string) string {
	return filepath.Join(db.path, filepath.FromSlash(data.NormalizeKey(key)))
}

func (db *DirectBackend) toFileStat(key string, info os.FileInfo) *data.FileStat {
	stat := &data.FileStat{
		Key:        key,
		Type:       data.FileTypeFile,
		Size:       info.Size(),
		ModifyTime: info.ModTime(),
		CreateTime: info.ModTime(),
	}
	if info.IsDir() {
		stat.Type = data.FileTypeDirectory
		stat.Size = 0
	} else {
		stat.ContentType = data.ContentTypeOf(info.Name())
	}
	return stat
}

func mapError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return data.ErrNotExist
	case errors.Is(err, fs.ErrExist):
		return data.ErrExist
	case errors.Is(err, fs.ErrPermission):
		return data.ErrPermission
	default:
		return err
	}
}
