// Package stream adapts a host stream session to a seekable, read-only reader.
package stream

import (
	"context"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/log"
)

// Reader reads a host file through one stream session. The length is fixed
// when the session is opened; the position is local state. Reads on one
// Reader must not run concurrently.
type Reader struct {
	host   host.Host
	id     string
	fileID string

	length   int64
	position int64

	closed    atomic.Bool
	closeOnce sync.Once

	newPinner func() Pinner
	log       *log.Logger
}

var (
	_ io.Seeker = (*Reader)(nil)
	_ io.Closer = (*Reader)(nil)
)

// Open mints a new stream session for fileID and reads back its length.
func Open(ctx context.Context, h host.Host, fileID string, opts ...Option) (*Reader, error) {
	r := &Reader{
		host:   h,
		id:     uuid.NewString(),
		fileID: fileID,

		newPinner: defaultPinner,
		log:       log.Discard(),
	}

	for _, opt := range opts {
		opt(r)
	}

	raw, err := host.Await(ctx, func(ctx context.Context) (string, error) {
		return h.OpenStream(ctx, r.id, fileID)
	})
	if err != nil {
		return nil, errs.IOFailure(err, "could not open a stream for '%s'", fileID)
	}
	if raw == "" {
		return nil, errs.IOFailure(nil, "could not open a stream for '%s'", fileID)
	}

	length, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || length < 0 {
		// The session may exist host-side even though its length is unusable
		h.CloseStream(r.id)
		return nil, errs.IOFailure(nil, "invalid stream length '%s'", raw)
	}

	r.length = length
	r.log.Debug("Opened stream '%s' for '%s' with %d bytes", r.id, fileID, length)

	return r, nil
}

// ID returns the stream session identifier.
func (r *Reader) ID() string {
	return r.id
}

func (r *Reader) Length() int64 {
	return r.length
}

func (r *Reader) Position() int64 {
	return r.position
}

// SetPosition moves the read position. It is not checked against the length;
// reading past the end returns zero bytes.
func (r *Reader) SetPosition(position int64) {
	r.position = position
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		r.position = offset
	case io.SeekCurrent:
		r.position += offset
	case io.SeekEnd:
		r.position = r.length + offset
	default:
		return r.position, errs.InvalidArgument("whence", whence)
	}
	return r.position, nil
}

// Read always fails: a host stream can only be read with ReadContext.
func (r *Reader) Read(p []byte) (int, error) {
	return 0, errs.NotSupported("stream is asynchronous only, use ReadContext")
}

// ReadContext reads up to count bytes into buffer[offset:] starting at the
// current position and advances the position by the number of bytes read.
// The buffer stays pinned for the duration of the host call.
//
// When ctx is cancelled ReadContext returns without waiting for the host,
// which may still be writing into buffer. The caller must not reuse buffer
// after a cancelled read until that host call has drained.
func (r *Reader) ReadContext(ctx context.Context, buffer []byte, offset, count int) (int, error) {
	if r.closed.Load() {
		return 0, data.ErrClosed
	}
	if offset < 0 || count < 0 || offset > len(buffer)-count {
		return 0, errs.InvalidArgument("buffer window", strconv.Itoa(offset)+"+"+strconv.Itoa(count))
	}

	pinner := r.newPinner()
	defer pinner.Unpin()
	if len(buffer) > 0 {
		pinner.Pin(&buffer[0])
	}

	position := r.position
	raw, err := host.Await(ctx, func(ctx context.Context) (string, error) {
		return r.host.ReadStream(ctx, r.id, buffer, offset, count, position)
	})
	if err != nil {
		return 0, errs.IOFailure(err, "could not read stream '%s'", r.id)
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > count {
		return 0, errs.IOFailure(nil, "invalid read count '%s'", raw)
	}

	r.position += int64(n)
	return n, nil
}

func (r *Reader) Write(p []byte) (int, error) {
	return 0, errs.NotSupported("stream is read-only")
}

func (r *Reader) WriteContext(ctx context.Context, buffer []byte, offset, count int) (int, error) {
	return 0, errs.NotSupported("stream is read-only")
}

// Truncate would change the length, which a read-only stream cannot do.
func (r *Reader) Truncate(size int64) error {
	return errs.NotSupported("stream is read-only")
}

// Flush does nothing; the session is released on Close.
func (r *Reader) Flush() error {
	return nil
}

// Close releases the host stream session. Only the first call reaches the host.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		r.host.CloseStream(r.id)
		r.log.Debug("Closed stream '%s'", r.id)
	})
	return nil
}
