package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
)

const statColumns = "key, type, size, create_time, modify_time, content_type"

func (sb *SQLiteBackend) CreateObject(ctx context.Context, key string, fileType data.FileType) (*data.FileStat, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if key == "" {
		return nil, data.ErrExist
	}
	// Check if path exists in B-tree
	if _, exists := sb.keys.Get(key); exists {
		return nil, data.ErrExist
	}

	// Verify parent directory exists
	parent := data.ParentKey(key)
	if parent != "" {
		parentType, exists := sb.keys.Get(parent)
		if !exists {
			return nil, data.ErrNotExist
		}
		if parentType != data.FileTypeDirectory {
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

	_, err := sb.db.ExecContext(ctx,
		"INSERT INTO hostfs_objects (key, parent, type, size, create_time, modify_time, content_type) VALUES (?, ?, ?, 0, ?, ?, ?)",
		key, parent, stat.Type, now.UnixNano(), now.UnixNano(), string(stat.ContentType))
	if err != nil {
		return nil, err
	}

	sb.keys.Set(key, fileType)
	return stat, nil
}

func (sb *SQLiteBackend) ReadObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	fileType, exists := sb.keys.Get(key)
	if !exists {
		return 0, data.ErrNotExist
	}
	if fileType == data.FileTypeDirectory {
		return 0, data.ErrIsDirectory
	}

	var content []byte
	if err := sb.db.QueryRowContext(ctx, "SELECT content FROM hostfs_objects WHERE key = ?", key).Scan(&content); err != nil {
		return 0, err
	}

	return backend.ReadWindow(content, offset, buffer)
}

func (sb *SQLiteBackend) WriteObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	fileType, exists := sb.keys.Get(key)
	if !exists {
		return 0, data.ErrNotExist
	}
	if fileType == data.FileTypeDirectory {
		return 0, data.ErrIsDirectory
	}

	tx, err := sb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var content []byte
	if err := tx.QueryRowContext(ctx, "SELECT content FROM hostfs_objects WHERE key = ?", key).Scan(&content); err != nil {
		return 0, err
	}

	content = backend.WriteWindow(content, offset, buffer)
	if _, err := tx.ExecContext(ctx,
		"UPDATE hostfs_objects SET content = ?, size = ?, modify_time = ? WHERE key = ?",
		content, len(content), time.Now().UnixNano(), key); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(buffer), nil
}

func (sb *SQLiteBackend) DeleteObject(ctx context.Context, key string, force bool) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	fileType, exists := sb.keys.Get(key)
	if !exists {
		return data.ErrNotExist
	}

	var descendants []string
	if fileType == data.FileTypeDirectory {
		prefix := key + "/"
		sb.keys.Ascend(prefix, func(childKey string, _ data.FileType) bool {
			if !strings.HasPrefix(childKey, prefix) {
				return false
			}
			descendants = append(descendants, childKey)
			return true
		})

		if len(descendants) > 0 && !force {
			return data.ErrIsDirectory
		}
	}

	tx, err := sb.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, delKey := range append(descendants, key) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM hostfs_objects WHERE key = ?", delKey); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, delKey := range append(descendants, key) {
		sb.keys.Delete(delKey)
	}

	return nil
}

func (sb *SQLiteBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if key != "" {
		fileType, exists := sb.keys.Get(key)
		if !exists {
			return nil, data.ErrNotExist
		}
		if fileType != data.FileTypeDirectory {
			return nil, data.ErrNotDirectory
		}
	}

	rows, err := sb.db.QueryContext(ctx,
		"SELECT "+statColumns+" FROM hostfs_objects WHERE parent = ? ORDER BY key", key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*data.FileStat, 0)
	for rows.Next() {
		stat, err := scanStat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, stat)
	}

	return result, rows.Err()
}

func (sb *SQLiteBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if key == "" {
		return &data.FileStat{Type: data.FileTypeDirectory}, nil
	}
	if _, exists := sb.keys.Get(key); !exists {
		return nil, data.ErrNotExist
	}

	stat, err := scanStat(sb.db.QueryRowContext(ctx,
		"SELECT "+statColumns+" FROM hostfs_objects WHERE key = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, data.ErrNotExist
	}
	return stat, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStat(row scanner) (*data.FileStat, error) {
	var stat data.FileStat
	var createTime, modifyTime int64
	var contentType sql.NullString

	if err := row.Scan(&stat.Key, &stat.Type, &stat.Size, &createTime, &modifyTime, &contentType); err != nil {
		return nil, err
	}

	stat.CreateTime = time.Unix(0, createTime)
	stat.ModifyTime = time.Unix(0, modifyTime)
	stat.ContentType = data.ContentType(contentType.String)
	return &stat, nil
}
