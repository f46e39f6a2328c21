package s3

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
)

func (sb *S3Backend) CreateObject(ctx context.Context, key string, fileType data.FileType) (*data.FileStat, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if key == "" {
		return nil, data.ErrExist
	}
	if _, err := sb.headUnsafe(ctx, key); err == nil {
		return nil, data.ErrExist
	}
	if parent := data.ParentKey(key); parent != "" {
		parentStat, err := sb.headUnsafe(ctx, parent)
		if err != nil {
			return nil, data.ErrNotExist
		}
		if !parentStat.IsDir() {
			return nil, data.ErrNotDirectory
		}
	}

	objectName := key
	contentType := string(data.ContentTypeOf(key))
	if fileType == data.FileTypeDirectory {
		objectName = key + "/"
		contentType = ""
	}

	_, err := sb.client.PutObject(ctx, sb.bucketName, objectName, bytes.NewReader(nil), 0, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	return sb.headUnsafe(ctx, key)
}

func (sb *S3Backend) ReadObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	stat, err := sb.headUnsafe(ctx, key)
	if err != nil {
		return 0, err
	}
	if stat.IsDir() {
		return 0, data.ErrIsDirectory
	}
	if offset >= stat.Size {
		return 0, io.EOF
	}
	if len(buffer) == 0 {
		return 0, nil
	}

	end := min(offset+int64(len(buffer)), stat.Size) - 1
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(offset, end); err != nil {
		return 0, err
	}

	object, err := sb.client.GetObject(ctx, sb.bucketName, key, opts)
	if err != nil {
		return 0, err
	}
	defer object.Close()

	n, err := io.ReadFull(object, buffer[:end-offset+1])
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	return n, err
}

func (sb *S3Backend) WriteObject(ctx context.Context, key string, offset int64, buffer []byte) (int, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	stat, err := sb.headUnsafe(ctx, key)
	if err != nil {
		return 0, err
	}
	if stat.IsDir() {
		return 0, data.ErrIsDirectory
	}

	// S3 objects are immutable, so the whole object gets rewritten
	object, err := sb.client.GetObject(ctx, sb.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return 0, err
	}
	content, err := io.ReadAll(object)
	object.Close()
	if err != nil {
		return 0, err
	}

	content = backend.WriteWindow(content, offset, buffer)
	_, err = sb.client.PutObject(ctx, sb.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: string(stat.ContentType),
	})
	if err != nil {
		return 0, err
	}

	return len(buffer), nil
}

func (sb *S3Backend) DeleteObject(ctx context.Context, key string, force bool) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	stat, err := sb.headUnsafe(ctx, key)
	if err != nil {
		return err
	}

	if !stat.IsDir() {
		return sb.client.RemoveObject(ctx, sb.bucketName, key, minio.RemoveObjectOptions{})
	}

	prefix := key + "/"
	var children []string
	for object := range sb.client.ListObjects(ctx, sb.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return object.Err
		}
		if object.Key != prefix {
			children = append(children, object.Key)
		}
	}

	if len(children) > 0 && !force {
		return data.ErrIsDirectory
	}

	errs := data.Errors{}
	for _, child := range children {
		errs.Add(sb.client.RemoveObject(ctx, sb.bucketName, child, minio.RemoveObjectOptions{}))
	}
	errs.Add(sb.client.RemoveObject(ctx, sb.bucketName, prefix, minio.RemoveObjectOptions{}))

	return errs.Errors()
}

func (sb *S3Backend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	prefix := ""
	if key != "" {
		stat, err := sb.headUnsafe(ctx, key)
		if err != nil {
			return nil, err
		}
		if !stat.IsDir() {
			return nil, data.ErrNotDirectory
		}
		prefix = key + "/"
	}

	result := make([]*data.FileStat, 0)
	for object := range sb.client.ListObjects(ctx, sb.bucketName, minio.ListObjectsOptions{Prefix: prefix}) {
		if object.Err != nil {
			return nil, object.Err
		}
		if object.Key == prefix {
			continue
		}

		if strings.HasSuffix(object.Key, "/") {
			result = append(result, &data.FileStat{
				Key:  strings.TrimSuffix(object.Key, "/"),
				Type: data.FileTypeDirectory,
			})
			continue
		}
		result = append(result, toFileStat(object.Key, object))
	}

	return result, nil
}

func (sb *S3Backend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	return sb.headUnsafe(ctx, key)
}

// headUnsafe MUST be called while holding at least a read lock.
func (sb *S3Backend) headUnsafe(ctx context.Context, key string) (*data.FileStat, error) {
	if key == "" {
		return &data.FileStat{Type: data.FileTypeDirectory}, nil
	}

	info, err := sb.client.StatObject(ctx, sb.bucketName, key, minio.StatObjectOptions{})
	if err == nil {
		return toFileStat(key, info), nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	info, err = sb.client.StatObject(ctx, sb.bucketName, key+"/", minio.StatObjectOptions{})
	if err == nil {
		return &data.FileStat{
			Key:        key,
			Type:       data.FileTypeDirectory,
			ModifyTime: info.LastModified,
			CreateTime: info.LastModified,
		}, nil
	}
	if isNotFound(err) {
		return nil, data.ErrNotExist
	}
	return nil, err
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

func toFileStat(key string, info minio.ObjectInfo) *data.FileStat {
	return &data.FileStat{
		Key:         key,
		Type:        data.FileTypeFile,
		Size:        info.Size,
		ModifyTime:  info.LastModified,
		CreateTime:  info.LastModified,
		ContentType: data.ContentType(info.ContentType),
	}
}
