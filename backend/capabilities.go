package backend

import "slices"

// BackendCapability represents a capability that a backend can provide
type BackendCapability string

const (
	CapabilityObjectStorage BackendCapability = "object_storage"
	// CapabilityPersistent marks backends whose content survives Close.
	CapabilityPersistent BackendCapability = "persistent"
	// CapabilityRecursiveDelete marks backends that delete folder trees natively.
	CapabilityRecursiveDelete BackendCapability = "recursive_delete"
)

// BackendCapabilities describes what a backend supports
type BackendCapabilities struct {
	Capabilities  []BackendCapability `json:"capabilities"`
	MaxObjectSize int64               `json:"max_object_size"`
}

// Contains checks if a capability is supported
func (bc *BackendCapabilities) Contains(cap BackendCapability) bool {
	return slices.Contains(bc.Capabilities, cap)
}
