package translation

import "github.com/kbukum/speechkit/provider"

// NewRegistry creates a new provider registry for translation providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// NewManager creates a new provider manager for translation providers.
// A nil selector picks the first healthy backend by name.
func NewManager(selector provider.Selector[Provider]) *provider.Manager[Provider] {
	return provider.NewManager("translation", NewRegistry(), selector)
}
