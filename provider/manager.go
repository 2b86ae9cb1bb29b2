package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/speechkit/logger"
)

// Manager owns the initialized instances of one provider kind. Backends are
// created once at startup and shared by every request afterwards.
type Manager[T Provider] struct {
	mu          sync.RWMutex
	kind        string
	registry    *Registry[T]
	selector    Selector[T]
	providers   map[string]T
	defaultName string
	log         *logger.Logger
}

// NewManager creates a Manager backed by the given registry and selector.
// kind names the capability ("diarization", "transcription", ...) in logs.
func NewManager[T Provider](kind string, registry *Registry[T], selector Selector[T]) *Manager[T] {
	if selector == nil {
		selector = &HealthCheckSelector[T]{}
	}
	return &Manager[T]{
		kind:      kind,
		registry:  registry,
		selector:  selector,
		providers: make(map[string]T),
		log:       logger.Get("provider").WithFields(map[string]interface{}{"kind": kind}),
	}
}

// Register adds a factory to the underlying registry.
func (m *Manager[T]) Register(name string, factory Factory[T]) {
	m.registry.RegisterFactory(name, factory)
	m.log.Debug("Factory registered", map[string]interface{}{logger.FieldProvider: name})
}

// Initialize creates a provider from its factory and stores it for use.
func (m *Manager[T]) Initialize(name string, cfg map[string]any) error {
	instance, err := m.registry.Create(name, cfg)
	if err != nil {
		return fmt.Errorf("initialize %s provider %q: %w", m.kind, name, err)
	}
	m.Add(name, instance)
	return nil
}

// Add stores an already constructed provider.
func (m *Manager[T]) Add(name string, instance T) {
	m.mu.Lock()
	m.providers[name] = instance
	m.mu.Unlock()
	m.log.Info("Provider initialized", map[string]interface{}{logger.FieldProvider: name})
}

// Get returns the default provider if one is set, otherwise the one chosen
// by the selector.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	m.mu.RLock()
	defaultName := m.defaultName
	providers := m.snapshotLocked()
	m.mu.RUnlock()

	if defaultName != "" {
		if p, ok := providers[defaultName]; ok {
			return p, nil
		}
		var zero T
		return zero, fmt.Errorf("default %s provider %q not found", m.kind, defaultName)
	}
	return m.selector.Select(ctx, providers)
}

// GetByName returns a specific provider by name.
func (m *Manager[T]) GetByName(name string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	var zero T
	return zero, fmt.Errorf("%s provider %q not found", m.kind, name)
}

// SetDefault sets the default provider by name.
func (m *Manager[T]) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("%s provider %q not initialized", m.kind, name)
	}
	m.defaultName = name
	m.log.Info("Default provider set", map[string]interface{}{logger.FieldProvider: name})
	return nil
}

// Default returns the default provider name.
func (m *Manager[T]) Default() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName
}

// Available returns the sorted names of all initialized providers.
func (m *Manager[T]) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Health probes every initialized provider.
func (m *Manager[T]) Health(ctx context.Context) map[string]bool {
	m.mu.RLock()
	providers := m.snapshotLocked()
	m.mu.RUnlock()

	out := make(map[string]bool, len(providers))
	for name, p := range providers {
		out[name] = p.IsAvailable(ctx)
	}
	return out
}

func (m *Manager[T]) snapshotLocked() map[string]T {
	cp := make(map[string]T, len(m.providers))
	for k, v := range m.providers {
		cp[k] = v
	}
	return cp
}
