package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
)

const statColumns = "key, type, size, create_time, modify_time, content_type"

func (pb *PostgresBackend) CreateObject(ctx context.Context, key string, fileType data.FileType) (*data.FileStat, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if key == "" {
		return nil, data.ErrExist
	}
	if _, exists := pb.keys.Get(key); exists {
		return nil, data.ErrExist
	}

	parent := data.ParentKey(key)
	if parent != "" {
		parentType, exists := pb.keys.Get(parent)
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

	_, err := pb.pool.Exec(ctx,
		"INSERT INTO hostfs_objects (key, parent, type, size, create_time, modify_time, content_type) VALUES ($1, $2, $3, 0, $4, $5, $6)",
		key, parent, int(fileType), now.UnixNano(), now.UnixNano(), string(stat.ContentType))
	if err != nil {
		return nil, fmt.Errorf("failed to insert object: %w", err)
	}

	pb.keys.Set(key, fileType)
	return stat, nil
}

func (pb *PostgresBackend) ReadObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	fileType, exists := pb.keys.Get(key)
	if !exists {
		return 0, data.ErrNotExist
	}
	if fileType == data.FileTypeDirectory {
		return 0, data.ErrIsDirectory
	}

	var content []byte
	err := pb.pool.QueryRow(ctx, "SELECT content FROM hostfs_objects WHERE key = $1", key).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, data.ErrNotExist
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query content: %w", err)
	}

	return backend.ReadWindow(content, offset, buffer)
}

func (pb *PostgresBackend) WriteObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	fileType, exists := pb.keys.Get(key)
	if !exists {
		return 0, data.ErrNotExist
	}
	if fileType == data.FileTypeDirectory {
		return 0, data.ErrIsDirectory
	}

	tx, err := pb.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var content []byte
	if err := tx.QueryRow(ctx, "SELECT content FROM hostfs_objects WHERE key = $1 FOR UPDATE", key).Scan(&content); err != nil {
		return 0, fmt.Errorf("failed to query content: %w", err)
	}

	content = backend.WriteWindow(content, offset, buffer)
	if _, err := tx.Exec(ctx,
		"UPDATE hostfs_objects SET content = $1, size = $2, modify_time = $3 WHERE key = $4",
		content, int64(len(content)), time.Now().UnixNano(), key); err != nil {
		return 0, fmt.Errorf("failed to update content: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(buffer), nil
}

func (pb *PostgresBackend) DeleteObject(ctx context.Context, key string, force bool) error {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	fileType, exists := pb.keys.Get(key)
	if !exists {
		return data.ErrNotExist
	}

	keysToDelete := []string{key}
	if fileType == data.FileTypeDirectory {
		prefix := key + "/"
		pb.keys.Ascend(prefix, func(childKey string, _ data.FileType) bool {
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

	if _, err := pb.pool.Exec(ctx, "DELETE FROM hostfs_objects WHERE key = ANY($1)", keysToDelete); err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}

	for _, delKey := range keysToDelete {
		pb.keys.Delete(delKey)
	}

	return nil
}

func (pb *PostgresBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	if key != "" {
		fileType, exists := pb.keys.Get(key)
		if !exists {
			return nil, data.ErrNotExist
		}
		if fileType != data.FileTypeDirectory {
			return nil, data.ErrNotDirectory
		}
	}

	rows, err := pb.pool.Query(ctx,
		"SELECT "+statColumns+" FROM hostfs_objects WHERE parent = $1 ORDER BY key", key)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
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

func (pb *PostgresBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	if key == "" {
		return &data.FileStat{Type: data.FileTypeDirectory}, nil
	}
	if _, exists := pb.keys.Get(key); !exists {
		return nil, data.ErrNotExist
	}

	stat, err := scanStat(pb.pool.QueryRow(ctx,
		"SELECT "+statColumns+" FROM hostfs_objects WHERE key = $1", key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, data.ErrNotExist
	}
	return stat, err
}

func scanStat(row pgx.Row) (*data.FileStat, error) {
	var stat data.FileStat
	var fileType int
	var createTime, modifyTime int64
	var contentType *string

	if err := row.Scan(&stat.Key, &fileType, &stat.Size, &createTime, &modifyTime, &contentType); err != nil {
		return nil, err
	}

	stat.Type = data.FileType(fileType)
	stat.CreateTime = time.Unix(0, createTime)
	stat.ModifyTime = time.Unix(0, modifyTime)
	if contentType != nil {
		stat.ContentType = data.ContentType(*contentType)
	}
	return &stat, nil
}
