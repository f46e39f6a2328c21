package host

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
	"github.com/mwantia/hostfs/log"
	"github.com/tidwall/btree"
)

// Local implements Host in-process on top of an object storage backend.
//
// Layer 1: B-trees mapping identifiers to keys and keys to identifiers
// Layer 2: the backend holding the actual folders and files
//
// Identifiers are UUIDv7 values minted the first time a key is reported and
// forgotten when the key is deleted, so handles to deleted items dangle.
type Local struct {
	mu      sync.RWMutex
	storage backend.ObjectStorageBackend
	log     *log.Logger

	rootName    string
	displayName string

	ids     *btree.Map[string, string] // id → key
	keys    *btree.Map[string, string] // key → id
	streams map[string]*localStream
}

type localStream struct {
	fileID string
	key    string
}

func NewLocal(storage backend.ObjectStorageBackend, opts ...LocalOption) *Local {
	l := &Local{
		storage: storage,
		log:     log.Discard(),

		ids:     btree.NewMap[string, string](0),
		keys:    btree.NewMap[string, string](0),
		streams: make(map[string]*localStream),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.idForUnsafe("")
	return l
}

// Open opens the underlying backend.
func (l *Local) Open(ctx context.Context) error {
	l.log.Debug("Opening backend '%s'", l.storage.Name())
	return l.storage.Open(ctx)
}

// Close releases all open streams and closes the underlying backend.
func (l *Local) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.streams) > 0 {
		l.log.Warn("Closing with %d open streams", len(l.streams))
	}
	clear(l.streams)

	return l.storage.Close(ctx)
}

func (l *Local) Provider() Provider {
	name := l.displayName
	if name == "" {
		name = l.storage.Name()
	}

	return Provider{
		ID:          l.storage.Name(),
		DisplayName: name,
	}
}

func (l *Local) OpenPrivateRoot(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := &data.ItemSnapshot{
		ID:   l.idForUnsafe(""),
		Name: l.rootName,
	}
	return snapshot.Marshal()
}

func (l *Local) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	return l.create(ctx, parentID, name, data.FileTypeDirectory)
}

func (l *Local) CreateFile(ctx context.Context, parentID, name string) (string, error) {
	return l.create(ctx, parentID, name, data.FileTypeFile)
}

func (l *Local) create(ctx context.Context, parentID, name string, fileType data.FileType) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	parent, err := l.resolveFolderUnsafe(ctx, parentID)
	if err != nil {
		return "", err
	}

	if !data.ValidName(name) {
		l.log.Debug("Refused to create invalid name '%s'", name)
		return "", nil
	}

	key := data.JoinKey(parent, name)
	stat, err := l.storage.CreateObject(ctx, key, fileType)
	if err != nil {
		return l.refuseUnsafe("create", key, err)
	}

	// A recreated key is a new item
	l.forgetUnsafe(key)
	return l.snapshotUnsafe(stat).Marshal()
}

func (l *Local) TryGetFolder(ctx context.Context, parentID, name string) (string, error) {
	return l.tryGet(ctx, parentID, name, data.FileTypeDirectory)
}

func (l *Local) TryGetFile(ctx context.Context, parentID, name string) (string, error) {
	return l.tryGet(ctx, parentID, name, data.FileTypeFile)
}

func (l *Local) tryGet(ctx context.Context, parentID, name string, fileType data.FileType) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	parent, err := l.resolveFolderUnsafe(ctx, parentID)
	if err != nil {
		return "", err
	}
	if !data.ValidName(name) {
		return "", nil
	}

	stat, err := l.storage.HeadObject(ctx, data.JoinKey(parent, name))
	if err != nil {
		if errors.Is(err, data.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	if stat.Type != fileType {
		return "", nil
	}

	return l.snapshotUnsafe(stat).Marshal()
}

func (l *Local) ListItems(ctx context.Context, parentID string) (string, error) {
	return l.list(ctx, parentID, func(*data.FileStat) bool { return true })
}

func (l *Local) ListFiles(ctx context.Context, parentID string) (string, error) {
	return l.list(ctx, parentID, func(s *data.FileStat) bool { return !s.IsDir() })
}

func (l *Local) ListFolders(ctx context.Context, parentID string) (string, error) {
	return l.list(ctx, parentID, (*data.FileStat).IsDir)
}

func (l *Local) list(ctx context.Context, parentID string, filter func(*data.FileStat) bool) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	parent, err := l.resolveFolderUnsafe(ctx, parentID)
	if err != nil {
		return "", err
	}

	stats, err := l.storage.ListObjects(ctx, parent)
	if err != nil {
		return "", err
	}

	snapshots := make([]*data.ItemSnapshot, 0, len(stats))
	for _, stat := range stats {
		if filter(stat) {
			snapshots = append(snapshots, l.snapshotUnsafe(stat))
		}
	}

	return data.MarshalSnapshots(snapshots)
}

func (l *Local) DeleteItem(ctx context.Context, parentID, name string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	parent, err := l.resolveFolderUnsafe(ctx, parentID)
	if err != nil {
		return "", err
	}
	if !data.ValidName(name) {
		return "", errs.ItemNotFound(name)
	}

	key := data.JoinKey(parent, name)
	if _, err := l.storage.HeadObject(ctx, key); err != nil {
		if errors.Is(err, data.ErrNotExist) {
			return "", errs.ItemNotFound(name)
		}
		return "", err
	}

	if err := l.storage.DeleteObject(ctx, key, true); err != nil {
		return l.refuseUnsafe("delete", key, err)
	}

	l.forgetTreeUnsafe(key)
	return "true", nil
}

func (l *Local) OpenStream(ctx context.Context, streamID, fileID string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key, ok := l.ids.Get(fileID)
	if !ok {
		return "", errs.UnknownIdentifier(fileID)
	}

	stat, err := l.storage.HeadObject(ctx, key)
	if err != nil {
		if errors.Is(err, data.ErrNotExist) {
			l.forgetUnsafe(key)
			return "", errs.UnknownIdentifier(fileID)
		}
		return "", err
	}
	if stat.IsDir() {
		return "", nil
	}

	if _, exists := l.streams[streamID]; exists {
		l.log.Warn("Refused to reopen stream '%s'", streamID)
		return "", nil
	}

	l.streams[streamID] = &localStream{
		fileID: fileID,
		key:    key,
	}
	l.log.Debug("Opened stream '%s' for '%s'", streamID, key)

	return strconv.FormatInt(stat.Size, 10), nil
}

func (l *Local) ReadStream(ctx context.Context, streamID string, buffer []byte, offset, count int, position int64) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stream, ok := l.streams[streamID]
	if !ok {
		return "", errs.UnknownIdentifier(streamID)
	}

	if offset < 0 || count < 0 || offset > len(buffer)-count {
		return "", errs.InvalidArgument("buffer window", strconv.Itoa(offset)+"+"+strconv.Itoa(count))
	}
	if position < 0 {
		return "", errs.InvalidArgument("position", position)
	}
	if count == 0 {
		return "0", nil
	}

	n, err := l.storage.ReadObject(ctx, stream.key, position, buffer[offset:offset+count])
	if err != nil && err != io.EOF {
		l.log.Warn("Failed to read stream '%s': %v", streamID, err)
		return "", err
	}

	return strconv.Itoa(n), nil
}

func (l *Local) CloseStream(streamID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.streams[streamID]; ok {
		delete(l.streams, streamID)
		l.log.Debug("Closed stream '%s'", streamID)
	}
}

// OpenStreams returns the number of streams that were opened and not yet closed.
func (l *Local) OpenStreams() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.streams)
}

// WriteFile stores content at key, creating missing parent folders and
// replacing an existing file. It belongs to the host side only and is used to
// seed content the bridge can then read.
func (l *Local) WriteFile(ctx context.Context, key string, content []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key = data.NormalizeKey(key)
	if key == "" {
		return data.ErrIsDirectory
	}

	var current string
	for _, part := range strings.Split(data.ParentKey(key), "/") {
		if part == "" {
			continue
		}
		current = data.JoinKey(current, part)
		if _, err := l.storage.CreateObject(ctx, current, data.FileTypeDirectory); err != nil && !errors.Is(err, data.ErrExist) {
			return err
		}
	}

	if stat, err := l.storage.HeadObject(ctx, key); err == nil {
		if stat.IsDir() {
			return data.ErrIsDirectory
		}
		if err := l.storage.DeleteObject(ctx, key, false); err != nil {
			return err
		}
		l.forgetUnsafe(key)
	}

	if _, err := l.storage.CreateObject(ctx, key, data.FileTypeFile); err != nil {
		return err
	}
	if len(content) == 0 {
		return nil
	}

	_, err := l.storage.WriteObject(ctx, key, 0, content)
	return err
}

// resolveFolderUnsafe returns the key of the folder identified by id.
func (l *Local) resolveFolderUnsafe(ctx context.Context, id string) (string, error) {
	key, ok := l.ids.Get(id)
	if !ok {
		return "", errs.UnknownIdentifier(id)
	}
	if key == "" {
		return key, nil
	}

	stat, err := l.storage.HeadObject(ctx, key)
	if err != nil {
		if errors.Is(err, data.ErrNotExist) {
			l.forgetUnsafe(key)
			return "", errs.UnknownIdentifier(id)
		}
		return "", err
	}
	if !stat.IsDir() {
		return "", errs.ItemWrongKind(stat.Name(), data.KindFolder)
	}

	return key, nil
}

// refuseUnsafe turns a storage refusal into the null signal. Missing parents
// stay errors, so operations on deleted folders surface as not found.
func (l *Local) refuseUnsafe(op, key string, err error) (string, error) {
	if errors.Is(err, data.ErrNotExist) {
		return "", err
	}

	l.log.Debug("Refused to %s '%s': %v", op, key, err)
	return "", nil
}

func (l *Local) snapshotUnsafe(stat *data.FileStat) *data.ItemSnapshot {
	return &data.ItemSnapshot{
		ID:     l.idForUnsafe(stat.Key),
		Name:   stat.Name(),
		IsFile: !stat.IsDir(),
	}
}

func (l *Local) idForUnsafe(key string) string {
	if id, ok := l.keys.Get(key); ok {
		return id
	}

	id := uuid.Must(uuid.NewV7()).String()
	l.keys.Set(key, id)
	l.ids.Set(id, key)
	return id
}

func (l *Local) forgetUnsafe(key string) {
	if key == "" {
		return
	}
	if id, ok := l.keys.Delete(key); ok {
		l.ids.Delete(id)
	}
}

func (l *Local) forgetTreeUnsafe(key string) {
	l.forgetUnsafe(key)

	var descendants []string
	prefix := key + "/"
	l.keys.Ascend(prefix, func(childKey string, _ string) bool {
		if !strings.HasPrefix(childKey, prefix) {
			return false
		}
		descendants = append(descendants, childKey)
		return true
	})

	for _, childKey := range descendants {
		l.forgetUnsafe(childKey)
	}
}
