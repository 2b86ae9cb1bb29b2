package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/speechkit/component"
)

// Component runs a Hub under the application lifecycle.
type Component struct {
	hub  *Hub
	path string
	wg   sync.WaitGroup
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component with a fresh Hub. path is the watcher
// route, shown in the startup summary.
func NewComponent(path string) *Component {
	return &Component{hub: NewHub(), path: path}
}

// Hub returns the managed hub.
func (c *Component) Hub() *Hub { return c.hub }

// Name returns the registration name.
func (c *Component) Name() string { return "events" }

// Start runs the hub loop in the background.
func (c *Component) Start(_ context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop closes every watcher and waits for the loop to exit.
func (c *Component) Stop(_ context.Context) error {
	c.hub.Stop()
	c.wg.Wait()
	return nil
}

// Health is always healthy while the process runs.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d watchers connected", c.hub.ClientCount()),
	}
}

// Describe returns the startup summary entry.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Pipeline events",
		Type:    "sse",
		Details: "watch: GET " + c.path,
	}
}
