package bootstrap

import (
	"github.com/kbukum/speechkit/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it via promoted
// methods, as long as it re-declares ApplyDefaults and Validate to cover
// its own sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
