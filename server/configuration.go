package main

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/nisitaSoni/safR/server/report"
	"github.com/nisitaSoni/safR/server/store"
)

const (
	defaultBotUsername    = "safetrip"
	defaultBotDisplayName = "SafeTrip"
)

// configuration captures the plugin's external configuration as exposed in the Mattermost server
// configuration. Any public fields will be deserialized from the Mattermost server configuration
// in OnConfigurationChange.
//
// Access to the configuration must be synchronized: the pointer is guarded by configurationLock
// and the struct is cloned whenever it changes.
type configuration struct {
	BotUsername    string `json:"BotUsername"`
	BotDisplayName string `json:"BotDisplayName"`

	// ReportChannelID receives exported reports and alert lifecycle updates
	ReportChannelID string `json:"ReportChannelID"`

	// ReportPrefix starts every exported report filename
	ReportPrefix string `json:"ReportPrefix"`

	// WrapWidth is the report narrative width in characters
	WrapWidth int `json:"WrapWidth"`

	StoreType                   string `json:"StoreType"`
	FirestoreProjectID          string `json:"FirestoreProjectID"`
	FirestoreCredentials        string `json:"FirestoreCredentials"`
	LocationPollIntervalSeconds int    `json:"LocationPollIntervalSeconds"`
}

// Clone creates a copy of the configuration. All fields are values.
func (c *configuration) Clone() *configuration {
	clone := *c
	return &clone
}

func (c *configuration) botUsername() string {
	if c.BotUsername == "" {
		return defaultBotUsername
	}
	return c.BotUsername
}

func (c *configuration) botDisplayName() string {
	if c.BotDisplayName == "" {
		return defaultBotDisplayName
	}
	return c.BotDisplayName
}

func (c *configuration) reportPrefix() string {
	if c.ReportPrefix == "" {
		return report.DefaultFilePrefix
	}
	return c.ReportPrefix
}

// storeConfig returns the data-access settings with defaults applied.
func (c *configuration) storeConfig() store.Config {
	storeType := c.StoreType
	if storeType == "" {
		storeType = store.TypeKVStore
	}
	return store.Config{
		Type:                        storeType,
		FirestoreProjectID:          c.FirestoreProjectID,
		FirestoreCredentials:        c.FirestoreCredentials,
		LocationPollIntervalSeconds: c.LocationPollIntervalSeconds,
	}
}

// getConfiguration retrieves the active configuration under lock, making it safe to use
// concurrently. The active configuration may change underneath the client of this method, but
// the struct returned by this API call is considered immutable.
func (p *Plugin) getConfiguration() *configuration {
	p.configurationLock.RLock()
	defer p.configurationLock.RUnlock()

	if p.configuration == nil {
		return &configuration{}
	}

	return p.configuration
}

// setConfiguration replaces the active configuration under lock.
//
// Do not call setConfiguration while holding the configurationLock, as sync.Mutex is not
// reentrant. This method panics if called with the existing configuration, which means it was
// modified without being cloned.
func (p *Plugin) setConfiguration(configuration *configuration) {
	p.configurationLock.Lock()
	defer p.configurationLock.Unlock()

	if configuration != nil && p.configuration == configuration {
		if reflect.ValueOf(*configuration).NumField() == 0 {
			return
		}

		panic("setConfiguration called with the existing configuration")
	}

	p.configuration = configuration
}

// OnConfigurationChange is invoked when configuration changes may have been made.
func (p *Plugin) OnConfigurationChange() error {
	var newConfig = new(configuration)

	if err := p.API.LoadPluginConfiguration(newConfig); err != nil {
		return errors.Wrap(err, "failed to load plugin configuration")
	}

	if newConfig.WrapWidth < 0 {
		return errors.Errorf("wrap width must not be negative (got %d)", newConfig.WrapWidth)
	}

	if err := store.ValidateConfig(newConfig.storeConfig()); err != nil {
		return errors.Wrap(err, "failed to validate configuration")
	}

	oldConfig := p.getConfiguration()
	p.setConfiguration(newConfig)

	// Hooks run before OnActivate on startup; the store is built there.
	if p.sessions == nil {
		return nil
	}

	p.rebuildReporting(newConfig)

	if oldConfig.storeConfig() != newConfig.storeConfig() {
		p.API.LogInfo("Store configuration changed, replacing store", "type", newConfig.storeConfig().Type)
		if err := p.replaceStore(newConfig.storeConfig()); err != nil {
			return errors.Wrap(err, "failed to replace store")
		}
	}

	return nil
}
