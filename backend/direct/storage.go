package direct

import (
	"context"
	"io"
	"os"

	"github.com/mwantia/hostfs/data"
)

func (db *DirectBackend) CreateObject(ctx context.Context, key string, fileType data.FileType) (*data.FileStat, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if key == "" {
		return nil, data.ErrExist
	}

	fullPath := db.resolvePath(key)
	if _, err := os.Lstat(fullPath); err == nil {
		return nil, data.ErrExist
	}

	parentInfo, err := os.Stat(db.resolvePath(data.ParentKey(key)))
	if err != nil {
		return nil, mapError(err)
	}
	if !parentInfo.IsDir() {
		return nil, data.ErrNotDirectory
	}

	if fileType == data.FileTypeDirectory {
		if err := os.Mkdir(fullPath, 0755); err != nil {
			return nil, mapError(err)
		}
	} else {
		file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil {
			return nil, mapError(err)
		}
		if err := file.Close(); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, mapError(err)
	}
	return db.toFileStat(key, info), nil
}

func (db *DirectBackend) ReadObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	file, err := os.Open(db.resolvePath(key))
	if err != nil {
		return 0, mapError(err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, data.ErrIsDirectory
	}
	if offset >= info.Size() {
		return 0, io.EOF
	}

	n, err := file.ReadAt(buffer, offset)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (db *DirectBackend) WriteObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	fullPath := db.resolvePath(key)
	info, err := os.Stat(fullPath)
	if err != nil {
		return 0, mapError(err)
	}
	if info.IsDir() {
		return 0, data.ErrIsDirectory
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY, 0)
	if err != nil {
		return 0, mapError(err)
	}
	defer file.Close()

	return file.WriteAt(buffer, offset)
}

func (db *DirectBackend) DeleteObject(ctx context.Context, key string, force bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if key == "" {
		return data.ErrPermission
	}

	fullPath := db.resolvePath(key)
	info, err := os.Stat(fullPath)
	if err != nil {
		return mapError(err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(fullPath)
		if err != nil {
			return mapError(err)
		}
		if len(entries) > 0 && !force {
			return data.ErrIsDirectory
		}
		return mapError(os.RemoveAll(fullPath))
	}

	return mapError(os.Remove(fullPath))
}

func (db *DirectBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	fullPath := db.resolvePath(key)
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, mapError(err)
	}
	if !info.IsDir() {
		return nil, data.ErrNotDirectory
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, mapError(err)
	}

	result := make([]*data.FileStat, 0, len(entries))
	for _, entry := range entries {
		entryInfo, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info
			continue
		}
		result = append(result, db.toFileStat(data.JoinKey(key, entry.Name()), entryInfo))
	}

	return result, nil
}

func (db *DirectBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	info, err := os.Stat(db.resolvePath(key))
	if err != nil {
		return nil, mapError(err)
	}
	return db.toFileStat(key, info), nil
}
