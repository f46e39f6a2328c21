package host

import "context"

type result[T any] struct {
	value T
	err   error
}

// Await runs call in its own goroutine and waits for it or for ctx, whichever
// finishes first. ctx is forwarded to call, but a host that ignores it may
// still complete its side effect after Await returned ctx.Err().
func Await[T any](ctx context.Context, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	done := make(chan result[T], 1)
	go func() {
		value, err := call(ctx)
		done <- result[T]{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-done:
		return r.value, r.err
	}
}
