package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nisitaSoni/safR/server/alert"
)

type stubStore struct {
	config Config
}

func (s *stubStore) FetchTourists(context.Context) ([]alert.Tourist, error)   { return nil, nil }
func (s *stubStore) FetchAlerts(context.Context) ([]alert.Alert, error)       { return nil, nil }
func (s *stubStore) FetchRiskZones(context.Context) ([]alert.RiskZone, error) { return nil, nil }
func (s *stubStore) UpdateAlert(context.Context, string, StatusDelta) error   { return nil }
func (s *stubStore) SubscribeLocations(LocationCallback) (func(), error)      { return func() {}, nil }
func (s *stubStore) Close() error                                             { return nil }

func stubFactory(config Config, api *pluginapi.Client, papi plugin.API) (Store, error) {
	return &stubStore{config: config}, nil
}

func TestRegisterFactory(t *testing.T) {
	// Save original registry and restore after test
	originalRegistry := factoryRegistry
	defer func() { factoryRegistry = originalRegistry }()

	t.Run("register new factory", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		RegisterFactory("test", stubFactory)

		assert.Contains(t, factoryRegistry, "test")
	})

	t.Run("overwrite existing factory", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		RegisterFactory("test", stubFactory)
		RegisterFactory("test", stubFactory)

		assert.Len(t, factoryRegistry, 1)
	})
}

func TestCreate(t *testing.T) {
	originalRegistry := factoryRegistry
	defer func() { factoryRegistry = originalRegistry }()

	api := &plugintest.API{}
	client := pluginapi.NewClient(api, &plugintest.Driver{})

	t.Run("create store with registered factory", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)
		RegisterFactory("stub", stubFactory)

		config := Config{Type: "stub", LocationPollIntervalSeconds: 10}
		s, err := Create(config, client, api)
		require.NoError(t, err)
		require.IsType(t, &stubStore{}, s)
		assert.Equal(t, config, s.(*stubStore).config)
	})

	t.Run("fail with unknown store type", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		s, err := Create(Config{Type: "unknown"}, client, api)
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "unknown store type: unknown")
	})

	t.Run("fail with empty store type", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		s, err := Create(Config{}, client, api)
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "store type is required")
	})

	t.Run("factory error is returned", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)
		RegisterFactory("broken", func(Config, *pluginapi.Client, plugin.API) (Store, error) {
			return nil, errors.New("boom")
		})

		s, err := Create(Config{Type: "broken"}, client, api)
		assert.EqualError(t, err, "boom")
		assert.Nil(t, s)
	})
}
