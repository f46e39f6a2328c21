// Package host defines the asynchronous bridge between the item graph and
// the storage that actually holds folders and files.
package host

import "context"

// Host is the boundary every storage operation crosses. Identifiers are opaque
// strings minted by the host and meaningful only within one host session.
//
// Results are JSON encoded snapshots, JSON arrays of snapshots or decimal
// numbers. The empty string is the null signal: the host could not fulfil the
// request. A non-nil error is a hard failure; hosts report identifiers they do
// not know with data.ErrNotExist.
type Host interface {
	OpenPrivateRoot(ctx context.Context) (string, error)

	CreateFolder(ctx context.Context, parentID, name string) (string, error)
	CreateFile(ctx context.Context, parentID, name string) (string, error)

	TryGetFolder(ctx context.Context, parentID, name string) (string, error)
	TryGetFile(ctx context.Context, parentID, name string) (string, error)

	ListItems(ctx context.Context, parentID string) (string, error)
	ListFiles(ctx context.Context, parentID string) (string, error)
	ListFolders(ctx context.Context, parentID string) (string, error)

	// DeleteItem removes the named child of parentID including all descendants.
	DeleteItem(ctx context.Context, parentID, name string) (string, error)

	// OpenStream registers streamID for reading fileID and returns the byte length.
	OpenStream(ctx context.Context, streamID, fileID string) (string, error)

	// ReadStream fills buffer[offset:offset+count] with content starting at
	// position and returns the number of bytes read.
	ReadStream(ctx context.Context, streamID string, buffer []byte, offset, count int, position int64) (string, error)

	// CloseStream releases streamID. It never reports a result.
	CloseStream(streamID string)
}

// Provider describes the host behind a session.
type Provider struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
}

// Describer is implemented by hosts that can describe themselves.
type Describer interface {
	Provider() Provider
}
