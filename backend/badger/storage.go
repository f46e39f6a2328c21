package badger

import (
	"context"
	"errors"
	"strings"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
)

func (bb *BadgerBackend) CreateObject(ctx context.Context, key string, fileType data.FileType) (*data.FileStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bb.mu.Lock()
	defer bb.mu.Unlock()

	if key == "" {
		return nil, data.ErrExist
	}

	meta := metaFile
	if fileType == data.FileTypeDirectory {
		meta = metaFolder
	}

	err := bb.db.Update(func(txn *badgerdb.Txn) error {
		if _, err := txn.Get(buildKey(key)); err == nil {
			return data.ErrExist
		} else if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}

		if parent := data.ParentKey(key); parent != "" {
			item, err := txn.Get(buildKey(parent))
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return data.ErrNotExist
			}
			if err != nil {
				return err
			}
			if item.UserMeta() != metaFolder {
				return data.ErrNotDirectory
			}
		}

		return txn.SetEntry(badgerdb.NewEntry(buildKey(key), []byte{}).WithMeta(meta))
	})
	if err != nil {
		return nil, err
	}

	return toFileStat(key, meta, 0), nil
}

func (bb *BadgerBackend) ReadObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	bb.mu.RLock()
	defer bb.mu.RUnlock()

	var n int
	err := bb.db.View(func(txn *badgerdb.Txn) error {
		content, meta, err := get(txn, key)
		if err != nil {
			return err
		}
		if meta == metaFolder {
			return data.ErrIsDirectory
		}

		n, err = backend.ReadWindow(content, offset, buffer)
		return err
	})

	return n, err
}

func (bb *BadgerBackend) WriteObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	bb.mu.Lock()
	defer bb.mu.Unlock()

	err := bb.db.Update(func(txn *badgerdb.Txn) error {
		content, meta, err := get(txn, key)
		if err != nil {
			return err
		}
		if meta == metaFolder {
			return data.ErrIsDirectory
		}

		content = backend.WriteWindow(content, offset, buffer)
		return txn.SetEntry(badgerdb.NewEntry(buildKey(key), content).WithMeta(metaFile))
	})
	if err != nil {
		return 0, err
	}

	return len(buffer), nil
}

func (bb *BadgerBackend) DeleteObject(ctx context.Context, key string, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bb.mu.Lock()
	defer bb.mu.Unlock()

	return bb.db.Update(func(txn *badgerdb.Txn) error {
		_, meta, err := get(txn, key)
		if err != nil {
			return err
		}

		if meta == metaFolder {
			children := descendants(txn, key)
			if len(children) > 0 && !force {
				return data.ErrIsDirectory
			}
			for _, child := range children {
				if err := txn.Delete(child); err != nil {
					return err
				}
			}
		}

		return txn.Delete(buildKey(key))
	})
}

func (bb *BadgerBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bb.mu.RLock()
	defer bb.mu.RUnlock()

	result := make([]*data.FileStat, 0)
	err := bb.db.View(func(txn *badgerdb.Txn) error {
		if key != "" {
			_, meta, err := get(txn, key)
			if err != nil {
				return err
			}
			if meta != metaFolder {
				return data.ErrNotDirectory
			}
		}

		prefix := childPrefix(key)
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			rel := strings.TrimPrefix(string(item.Key()), string(prefix))
			// Only direct children
			if rel == "" || strings.Contains(rel, "/") {
				continue
			}

			var size int
			if err := item.Value(func(value []byte) error {
				size = len(value)
				return nil
			}); err != nil {
				return err
			}

			result = append(result, toFileStat(data.JoinKey(key, rel), item.UserMeta(), size))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (bb *BadgerBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if key == "" {
		return &data.FileStat{Type: data.FileTypeDirectory}, nil
	}

	bb.mu.RLock()
	defer bb.mu.RUnlock()

	var stat *data.FileStat
	err := bb.db.View(func(txn *badgerdb.Txn) error {
		content, meta, err := get(txn, key)
		if err != nil {
			return err
		}

		stat = toFileStat(key, meta, len(content))
		return nil
	})

	return stat, err
}

// get returns a copy of the value and the meta byte of key.
func get(txn *badgerdb.Txn, key string) ([]byte, byte, error) {
	item, err := txn.Get(buildKey(key))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, 0, data.ErrNotExist
	}
	if err != nil {
		return nil, 0, err
	}

	content, err := item.ValueCopy(nil)
	if err != nil {
		return nil, 0, err
	}

	return content, item.UserMeta(), nil
}

// descendants returns the raw keys of everything below the folder key.
func descendants(txn *badgerdb.Txn, key string) [][]byte {
	prefix := childPrefix(key)
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

func toFileStat(key string, meta byte, size int) *data.FileStat {
	if meta == metaFolder {
		return &data.FileStat{
			Key:  key,
			Type: data.FileTypeDirectory,
		}
	}

	return &data.FileStat{
		Key:         key,
		Type:        data.FileTypeFile,
		Size:        int64(size),
		ContentType: data.ContentTypeOf(key),
	}
}
