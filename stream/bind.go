package stream

import (
	"context"
	"io"
)

type boundReader struct {
	ctx    context.Context
	reader *Reader
}

// Bind returns an io.Reader that performs every Read as a ReadContext with ctx,
// so a Reader can be used with io.Copy and friends.
func Bind(ctx context.Context, r *Reader) io.Reader {
	return &boundReader{
		ctx:    ctx,
		reader: r,
	}
}

func (b *boundReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.reader.Position() >= b.reader.Length() {
		return 0, io.EOF
	}

	n, err := b.reader.ReadContext(b.ctx, p, 0, len(p))
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.ErrNoProgress
	}
	return n, nil
}
