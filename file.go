package hostfs

import (
	"context"

	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/stream"
)

// File is a host file. Its content is only reachable through OpenRead.
type File struct {
	item
}

var _ Item = (*File)(nil)

func (f *File) Kind() data.ItemKind {
	return data.KindFile
}

// ContentType is derived from the file extension.
func (f *File) ContentType() data.ContentType {
	return data.ContentTypeOf(f.name)
}

// OpenRead opens a read-only stream session for the file. The caller must
// Close the returned reader.
func (f *File) OpenRead(ctx context.Context, opts ...stream.Option) (*stream.Reader, error) {
	opts = append([]stream.Option{stream.WithLogger(f.session.log)}, opts...)
	return stream.Open(ctx, f.session.host, f.id, opts...)
}
