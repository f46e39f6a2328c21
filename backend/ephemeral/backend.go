package ephemeral

import (
	"context"
	"sync"

	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
	"github.com/tidwall/btree"
)

// EphemeralBackend keeps all objects in memory.
// Keys are indexed in a B-tree, so folder listings are ordered prefix scans.
type EphemeralBackend struct {
	mu sync.RWMutex

	keys  *btree.Map[string, string]
	stats map[string]*data.FileStat
	datas map[string][]byte
}

func NewEphemeralBackend() *EphemeralBackend {
	return &EphemeralBackend{
		keys:  btree.NewMap[string, string](0),
		stats: make(map[string]*data.FileStat),
		datas: make(map[string][]byte),
	}
}

// Returns the identifier name defined for this backend
func (*EphemeralBackend) Name() string {
	return "ephemeral"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (eb *EphemeralBackend) Open(ctx context.Context) error {
	// No initialization needed - backend is ready to use
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (eb *EphemeralBackend) Close(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.keys.Clear()
	clear(eb.stats)
	clear(eb.datas)

	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (eb *EphemeralBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityObjectStorage,
			backend.CapabilityRecursiveDelete,
		},
		MaxObjectSize: 10485760, // 10 MB
	}
}
