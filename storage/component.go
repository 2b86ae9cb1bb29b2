package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/provider"
)

// Component wraps Storage and implements component.Component for lifecycle management.
type Component struct {
	storage  Storage
	cfg      Config
	registry *provider.Registry[Storage]
	log      *logger.Logger
}

// NewComponent creates a storage component for use with the component registry.
func NewComponent(cfg Config, registry *provider.Registry[Storage], log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:      cfg,
		registry: registry,
		log:      log.WithComponent("storage"),
	}
}

// Storage returns the underlying Storage, or nil if not started or disabled.
func (c *Component) Storage() Storage {
	return c.storage
}

// Config returns the effective configuration.
func (c *Component) Config() Config { return c.cfg }

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start builds the configured backend.
func (c *Component) Start(_ context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("Storage component is disabled")
		return nil
	}

	s, err := New(c.registry, c.cfg)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	c.log.Info("Storage initialized", map[string]interface{}{logger.FieldProvider: c.cfg.Provider})
	return nil
}

// Stop releases the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Health probes the backend.
func (c *Component) Health(ctx context.Context) component.Health {
	switch {
	case !c.cfg.Enabled:
		return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: "disabled"}
	case c.storage == nil:
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	case !c.storage.IsAvailable(ctx):
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: c.cfg.Provider + " unreachable"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns summary info for the startup display.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("provider=%s", c.cfg.Provider)
	if !c.cfg.Enabled {
		details = "disabled"
	} else if b, ok := c.cfg.BackendConfig()["bucket"]; ok {
		details += fmt.Sprintf(" bucket=%v", b)
	}
	return component.Description{
		Name:    "Storage",
		Type:    "storage",
		Details: details,
	}
}
