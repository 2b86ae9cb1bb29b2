package translation

import (
	"context"

	"github.com/kbukum/speechkit/provider"
)

// Provider is the interface that translation backends must implement.
type Provider interface {
	provider.Provider

	// Translate returns req.Text rendered in req.Target.
	Translate(ctx context.Context, req Request) (string, error)
}
