package ephemeral

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
)

func (eb *EphemeralBackend) CreateObject(ctx context.Context, key string, fileType data.FileType) (*data.FileStat, error) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if key == "" {
		return nil, data.ErrExist
	}
	if _, exists := eb.keys.Get(key); exists {
		return nil, data.ErrExist
	}

	// Verify parent directory exists
	if parent := data.ParentKey(key); parent != "" {
		parentStat, err := eb.headUnsafe(parent)
		if err != nil {
			return nil, data.ErrNotExist
		}
		if !parentStat.IsDir() {
			return nil, data.ErrNotDirectory
		}
	}

	now := time.Now()
	stat := &data.FileStat{
		Key:        key,
		Type:       fileType,
		CreateTime: now,
		ModifyTime: now,
	}
	if fileType == data.FileTypeFile {
		stat.ContentType = data.ContentTypeOf(key)
	}

	id := uuid.Must(uuid.NewV7()).String()
	eb.keys.Set(key, id)
	eb.stats[id] = stat

	copied := *stat
	return &copied, nil
}

func (eb *EphemeralBackend) ReadObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	id, exists := eb.keys.Get(key)
	if !exists {
		return 0, data.ErrNotExist
	}
	if eb.stats[id].IsDir() {
		return 0, data.ErrIsDirectory
	}

	return backend.ReadWindow(eb.datas[id], offset, buffer)
}

func (eb *EphemeralBackend) WriteObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id, exists := eb.keys.Get(key)
	if !exists {
		return 0, data.ErrNotExist
	}

	stat := eb.stats[id]
	if stat.IsDir() {
		return 0, data.ErrIsDirectory
	}

	eb.datas[id] = backend.WriteWindow(eb.datas[id], offset, buffer)
	stat.Size = int64(len(eb.datas[id]))
	stat.ModifyTime = time.Now()

	return len(buffer), nil
}

func (eb *EphemeralBackend) DeleteObject(ctx context.Context, key string, force bool) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id, exists := eb.keys.Get(key)
	if !exists {
		return data.ErrNotExist
	}

	// Collect the key itself and, for folders, all descendants
	keysToDelete := []string{key}
	if eb.stats[id].IsDir() {
		prefix := key + "/"
		eb.keys.Ascend(prefix, func(childKey string, _ string) bool {
			if !strings.HasPrefix(childKey, prefix) {
				return false
			}
			keysToDelete = append(keysToDelete, childKey)
			return true
		})

		if len(keysToDelete) > 1 && !force {
			return data.ErrIsDirectory
		}
	}

	for _, delKey := range keysToDelete {
		if delID, ok := eb.keys.Delete(delKey); ok {
			delete(eb.stats, delID)
			delete(eb.datas, delID)
		}
	}

	return nil
}

func (eb *EphemeralBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	prefix := ""
	if key != "" {
		stat, err := eb.headUnsafe(key)
		if err != nil {
			return nil, err
		}
		if !stat.IsDir() {
			return nil, data.ErrNotDirectory
		}
		prefix = key + "/"
	}

	result := make([]*data.FileStat, 0)
	eb.keys.Ascend(prefix, func(childKey string, childID string) bool {
		if !strings.HasPrefix(childKey, prefix) {
			return false
		}
		// Only direct children
		if strings.Contains(childKey[len(prefix):], "/") {
			return true
		}

		copied := *eb.stats[childID]
		result = append(result, &copied)
		return true
	})

	return result, nil
}

func (eb *EphemeralBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	stat, err := eb.headUnsafe(key)
	if err != nil {
		return nil, err
	}

	copied := *stat
	return &copied, nil
}

// headUnsafe MUST be called while holding at least a read lock.
func (eb *EphemeralBackend) headUnsafe(key string) (*data.FileStat, error) {
	if key == "" {
		return &data.FileStat{Type: data.FileTypeDirectory}, nil
	}

	id, exists := eb.keys.Get(key)
	if !exists {
		return nil, data.ErrNotExist
	}

	return eb.stats[id], nil
}
