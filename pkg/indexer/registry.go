package indexer

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
)

// Factory is a function that creates a new consumer instance.
type Factory func(cfg config.ConsumerConfig, log *logger.Logger) (Consumer, error)

// Descriptor registers one consumer type.
type Descriptor struct {
	// Type is the name used in the consumers configuration section.
	Type string

	// Foundational consumers run before all others within a block, since
	// later consumers read what they wrote.
	Foundational bool

	// Description is shown by the consumers command.
	Description string

	Factory Factory
}

// Registry maps consumer types to their descriptors. It is built once at
// startup and passed to BuildPipeline.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Descriptor
	log   *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Registry{types: make(map[string]Descriptor), log: log}
}

// Register registers a consumer type. The type name is case-insensitive and
// will be stored in lowercase.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.Type = strings.ToLower(d.Type)
	if _, exists := r.types[d.Type]; exists {
		r.log.Infof("consumer type %s already in registry. It will be overwritten.", d.Type)
	}
	r.types[d.Type] = d
}

// Get returns the descriptor of the given type. The lookup is case-insensitive.
func (r *Registry) Get(consumerType string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[strings.ToLower(consumerType)]
	return d, ok
}

// List returns all registered descriptors sorted by type.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.types))
	for _, d := range r.types {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Descriptor) int { return strings.Compare(a.Type, b.Type) })
	return out
}

// Create creates a new consumer using the registered factory.
// Returns an error if the type is not registered or if creation fails.
func (r *Registry) Create(cfg config.ConsumerConfig, log *logger.Logger) (Consumer, error) {
	d, ok := r.Get(cfg.Type)
	if !ok {
		types := make([]string, 0)
		for _, d := range r.List() {
			types = append(types, d.Type)
		}
		return nil, fmt.Errorf("unknown consumer type: %s (registered types: %v)", cfg.Type, types)
	}

	c, err := d.Factory(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %s of type %s: %w", cfg.Name, cfg.Type, err)
	}
	if c.Name() != cfg.Name {
		return nil, fmt.Errorf("consumer of type %s reports name %q, configured as %q", cfg.Type, c.Name(), cfg.Name)
	}
	return c, nil
}
