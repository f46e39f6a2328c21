package consul

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/hostfs/backend"
)

const (
	flagFile   uint64 = 0
	flagFolder uint64 = 1
)

// ConsulBackend stores objects in the HashiCorp Consul KV store.
//
// Every object is one KV entry below the configured prefix. Files keep their
// content as value, folders are empty entries marked through the KV flags.
//
// Consul KV has a 512KB limit per value, so this backend is best suited for
// configuration files and small assets.
type ConsulBackend struct {
	mu     sync.RWMutex
	client *api.Client
	kv     *api.KV

	config *ConsulBackendConfig
}

// ConsulBackendConfig contains configuration options for the Consul backend
type ConsulBackendConfig struct {
	// Address of the Consul server (default: "127.0.0.1:8500")
	Address string `yaml:"address"`

	// Token for Consul ACL authentication (optional)
	Token string `yaml:"token"`

	// Datacenter to use (optional)
	Datacenter string `yaml:"datacenter"`

	// Prefix for all keys in Consul KV (default: "hostfs")
	Prefix string `yaml:"prefix"`
}

// NewConsulBackend creates a new Consul-backed object storage backend
func NewConsulBackend(config *ConsulBackendConfig) (*ConsulBackend, error) {
	if config == nil {
		config = &ConsulBackendConfig{}
	}

	if config.Address == "" {
		config.Address = "127.0.0.1:8500"
	}
	if config.Prefix == "" {
		config.Prefix = "hostfs"
	}

	clientConfig := api.DefaultConfig()
	clientConfig.Address = config.Address
	if config.Token != "" {
		clientConfig.Token = config.Token
	}
	if config.Datacenter != "" {
		clientConfig.Datacenter = config.Datacenter
	}

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, err
	}

	return &ConsulBackend{
		client: client,
		kv:     client.KV(),
		config: config,
	}, nil
}

// Name returns the identifier name defined for this backend
func (*ConsulBackend) Name() string {
	return "consul"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend
func (cb *ConsulBackend) Open(ctx context.Context) error {
	// Fails early if the agent is unreachable
	_, err := cb.client.Status().Leader()
	return err
}

// Close is part of the lifecycle behaviour and gets called when closing this backend
func (cb *ConsulBackend) Close(ctx context.Context) error {
	// Nothing to clean up - Consul client is stateless
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend
func (cb *ConsulBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityObjectStorage,
			backend.CapabilityPersistent,
			backend.CapabilityRecursiveDelete,
		},
		// Consul KV has a default limit of 512KB per value
		MaxObjectSize: 500 * 1024,
	}
}

// buildKey constructs the full Consul KV key from the object key
func (cb *ConsulBackend) buildKey(key string) string {
	prefix := strings.Trim(cb.config.Prefix, "/")
	if key == "" {
		return prefix
	}
	return prefix + "/" + key
}

// objectKey strips the configured prefix from a Consul KV key
func (cb *ConsulBackend) objectKey(consulKey string) string {
	prefix := strings.Trim(cb.config.Prefix, "/")
	return strings.TrimPrefix(strings.TrimPrefix(consulKey, prefix), "/")
}
