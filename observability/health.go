package observability

import (
	"context"
	"sort"
	"strings"
)

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health is the health of one component, such as the diarization backends.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth aggregates component health. The worst component wins.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker reports the health of a component.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// NewServiceHealth creates a ServiceHealth that starts out up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent adds a component and downgrades the service status if needed.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case HealthStatusDown:
		sh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if sh.Status != HealthStatusDown {
			sh.Status = HealthStatusDegraded
		}
	}
}

// BackendHealth summarizes per-backend availability of one capability. The
// default backend being down makes the capability degraded; no backend up
// makes it down.
func BackendHealth(name, defaultBackend string, available map[string]bool) Health {
	h := Health{Name: name, Status: HealthStatusUp, Details: make(map[string]string, len(available))}
	if len(available) == 0 {
		h.Status = HealthStatusDown
		h.Message = "no backend configured"
		return h
	}

	var down []string
	for backend, ok := range available {
		if ok {
			h.Details[backend] = string(HealthStatusUp)
			continue
		}
		h.Details[backend] = string(HealthStatusDown)
		down = append(down, backend)
	}
	sort.Strings(down)

	switch {
	case len(down) == len(available):
		h.Status = HealthStatusDown
	case !available[defaultBackend]:
		h.Status = HealthStatusDegraded
	}
	if len(down) > 0 {
		h.Message = "unavailable: " + strings.Join(down, ", ")
	}
	return h
}
