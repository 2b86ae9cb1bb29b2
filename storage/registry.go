package storage

import (
	"fmt"

	"github.com/kbukum/speechkit/provider"
)

// NewRegistry creates a registry for storage backend factories.
func NewRegistry() *provider.Registry[Storage] {
	return provider.NewRegistry[Storage]()
}

// New builds the backend selected by cfg.
func New(reg *provider.Registry[Storage], cfg Config) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := reg.Create(cfg.Provider, cfg.BackendConfig())
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return s, nil
}
