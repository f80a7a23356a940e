package store

import (
	"fmt"

	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi"
)

// Factory is a function type that creates a store instance
type Factory func(config Config, api *pluginapi.Client, papi plugin.API) (Store, error)

// factoryRegistry maps store types to their factory functions
var factoryRegistry = make(map[string]Factory)

// RegisterFactory registers a store factory for a given type.
// Implementations call this from their package init.
func RegisterFactory(storeType string, factory Factory) {
	factoryRegistry[storeType] = factory
}

// Create creates a new store based on the provided configuration.
// Returns an error if the store type is unknown or if creation fails.
func Create(config Config, api *pluginapi.Client, papi plugin.API) (Store, error) {
	if config.Type == "" {
		return nil, fmt.Errorf("store type is required")
	}

	factory, exists := factoryRegistry[config.Type]
	if !exists {
		return nil, fmt.Errorf("unknown store type: %s", config.Type)
	}

	return factory(config, api, papi)
}
