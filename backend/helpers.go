package backend

import (
	"context"
	"io"

	"github.com/mwantia/hostfs/data"
)

// ReadAll reads the complete content of key. It is used by host-side tooling
// and tests, never by the bridge itself.
func ReadAll(ctx context.Context, b ObjectStorageBackend, key string) ([]byte, error) {
	stat, err := b.HeadObject(ctx, key)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, data.ErrIsDirectory
	}

	buffer := make([]byte, stat.Size)
	var offset int64
	for offset < stat.Size {
		n, err := b.ReadObject(ctx, key, offset, buffer[offset:])
		offset += int64(n)
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return buffer[:offset], nil
}

// EnsureParent verifies that the parent folder of key exists.
func EnsureParent(ctx context.Context, b ObjectStorageBackend, key string) error {
	parent := data.ParentKey(key)
	if parent == "" {
		return nil
	}

	stat, err := b.HeadObject(ctx, parent)
	if err != nil {
		return data.ErrNotExist
	}
	if !stat.IsDir() {
		return data.ErrNotDirectory
	}
	return nil
}

// ReadWindow copies the part of content that starts at offset into buffer,
// following the ReadObject contract.
func ReadWindow(content []byte, offset int64, buffer []byte) (int, error) {
	if offset >= int64(len(content)) {
		return 0, io.EOF
	}
	return copy(buffer, content[offset:]), nil
}

// WriteWindow returns content with buffer written at offset, growing it if needed.
func WriteWindow(content []byte, offset int64, buffer []byte) []byte {
	end := offset + int64(len(buffer))
	if int64(len(content)) < end {
		grown := make([]byte, end)
		copy(grown, content)
		content = grown
	}
	copy(content[offset:], buffer)
	return content
}
