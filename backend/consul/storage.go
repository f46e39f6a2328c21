package consul

import (
	"context"
	"strings"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
)

func (cb *ConsulBackend) CreateObject(ctx context.Context, key string, fileType data.FileType) (*data.FileStat, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if key == "" {
		return nil, data.ErrExist
	}

	existing, err := cb.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, data.ErrExist
	}

	if parent := data.ParentKey(key); parent != "" {
		parentPair, err := cb.get(ctx, parent)
		if err != nil {
			return nil, err
		}
		if parentPair == nil {
			return nil, data.ErrNotExist
		}
		if parentPair.Flags != flagFolder {
			return nil, data.ErrNotDirectory
		}
	}

	pair := &api.KVPair{
		Key:   cb.buildKey(key),
		Flags: flagFile,
		Value: []byte{},
	}
	if fileType == data.FileTypeDirectory {
		pair.Flags = flagFolder
	}

	// Check-and-set with index 0 only succeeds if the key does not exist yet
	ok, _, err := cb.kv.CAS(pair, (&api.WriteOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, data.ErrExist
	}

	return cb.toFileStat(key, pair), nil
}

func (cb *ConsulBackend) ReadObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	pair, err := cb.get(ctx, key)
	if err != nil {
		return 0, err
	}
	if pair == nil {
		return 0, data.ErrNotExist
	}
	if pair.Flags == flagFolder {
		return 0, data.ErrIsDirectory
	}

	return backend.ReadWindow(pair.Value, offset, buffer)
}

func (cb *ConsulBackend) WriteObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	pair, err := cb.get(ctx, key)
	if err != nil {
		return 0, err
	}
	if pair == nil {
		return 0, data.ErrNotExist
	}
	if pair.Flags == flagFolder {
		return 0, data.ErrIsDirectory
	}

	pair.Value = backend.WriteWindow(pair.Value, offset, buffer)
	if _, err := cb.kv.Put(pair, (&api.WriteOptions{}).WithContext(ctx)); err != nil {
		return 0, err
	}

	return len(buffer), nil
}

func (cb *ConsulBackend) DeleteObject(ctx context.Context, key string, force bool) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	pair, err := cb.get(ctx, key)
	if err != nil {
		return err
	}
	if pair == nil {
		return data.ErrNotExist
	}

	opts := (&api.WriteOptions{}).WithContext(ctx)
	if pair.Flags == flagFolder {
		prefix := cb.buildKey(key) + "/"
		children, _, err := cb.kv.Keys(prefix, "", (&api.QueryOptions{}).WithContext(ctx))
		if err != nil {
			return err
		}
		if len(children) > 0 {
			if !force {
				return data.ErrIsDirectory
			}
			if _, err := cb.kv.DeleteTree(prefix, opts); err != nil {
				return err
			}
		}
	}

	_, err = cb.kv.Delete(cb.buildKey(key), opts)
	return err
}

func (cb *ConsulBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if key != "" {
		pair, err := cb.get(ctx, key)
		if err != nil {
			return nil, err
		}
		if pair == nil {
			return nil, data.ErrNotExist
		}
		if pair.Flags != flagFolder {
			return nil, data.ErrNotDirectory
		}
	}

	prefix := cb.buildKey(key) + "/"
	pairs, _, err := cb.kv.List(prefix, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}

	result := make([]*data.FileStat, 0)
	for _, pair := range pairs {
		rel := strings.TrimPrefix(pair.Key, prefix)
		// Only direct children
		if rel == "" || strings.Contains(rel, "/") {
			continue
		}
		result = append(result, cb.toFileStat(cb.objectKey(pair.Key), pair))
	}

	return result, nil
}

func (cb *ConsulBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if key == "" {
		return &data.FileStat{Type: data.FileTypeDirectory}, nil
	}

	pair, err := cb.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, data.ErrNotExist
	}

	return cb.toFileStat(key, pair), nil
}

func (cb *ConsulBackend) get(ctx context.Context, key string) (*api.KVPair, error) {
	pair, _, err := cb.kv.Get(cb.buildKey(key), (&api.QueryOptions{}).WithContext(ctx))
	return pair, err
}

func (cb *ConsulBackend) toFileStat(key string, pair *api.KVPair) *data.FileStat {
	stat := &data.FileStat{
		Key:  key,
		Type: data.FileTypeFile,
		Size: int64(len(pair.Value)),
	}
	if pair.Flags == flagFolder {
		stat.Type = data.FileTypeDirectory
		stat.Size = 0
	} else {
		stat.ContentType = data.ContentTypeOf(key)
	}
	return stat
}
