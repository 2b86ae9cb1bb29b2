package component

import (
	"context"
	"strings"
)

// Probe adapts a stateless dependency, such as an inference sidecar, whose
// only lifecycle concern is whether it is reachable.
type Probe struct {
	name     string
	provider string
	endpoint string
	check    func(ctx context.Context) bool
}

var (
	_ Component   = (*Probe)(nil)
	_ Describable = (*Probe)(nil)
)

// NewProbe creates a Probe registered under name (e.g. "diarization") for
// the named provider. endpoint is informational and may be empty.
func NewProbe(name, provider, endpoint string, check func(ctx context.Context) bool) *Probe {
	return &Probe{name: name, provider: provider, endpoint: endpoint, check: check}
}

// Name returns the registration name.
func (p *Probe) Name() string { return p.name }

// Start is a no-op; providers connect lazily on first use.
func (p *Probe) Start(context.Context) error { return nil }

// Stop is a no-op.
func (p *Probe) Stop(context.Context) error { return nil }

// Health calls the availability check.
func (p *Probe) Health(ctx context.Context) Health {
	if p.check != nil && !p.check(ctx) {
		return Health{Name: p.name, Status: StatusUnhealthy, Message: p.provider + " unreachable"}
	}
	return Health{Name: p.name, Status: StatusHealthy}
}

// Describe reports the provider and endpoint for the startup summary.
func (p *Probe) Describe() Description {
	details := []string{"provider=" + p.provider}
	if p.endpoint != "" {
		details = append(details, p.endpoint)
	}
	return Description{
		Name:    strings.ToUpper(p.name[:1]) + p.name[1:],
		Type:    p.name,
		Details: strings.Join(details, " "),
	}
}
