package host

import "context"

// ReadOnly wraps a host and refuses every mutating call with the null result.
// Lookups, listings and streams pass through.
type ReadOnly struct {
	Host
}

func NewReadOnly(h Host) *ReadOnly {
	return &ReadOnly{Host: h}
}

// Provider forwards to the wrapped host if it describes itself.
func (r *ReadOnly) Provider() Provider {
	if describer, ok := r.Host.(Describer); ok {
		return describer.Provider()
	}
	return Provider{ID: "host", DisplayName: "Host"}
}

func (r *ReadOnly) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	return refuse(ctx)
}

func (r *ReadOnly) CreateFile(ctx context.Context, parentID, name string) (string, error) {
	return refuse(ctx)
}

func (r *ReadOnly) DeleteItem(ctx context.Context, parentID, name string) (string, error) {
	return refuse(ctx)
}

func refuse(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", nil
}
