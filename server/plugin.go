package main

import (
	"encoding/json"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/pkg/errors"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/exporter"
	"github.com/nisitaSoni/safR/server/poster"
	"github.com/nisitaSoni/safR/server/report"
	"github.com/nisitaSoni/safR/server/session"
	"github.com/nisitaSoni/safR/server/store"
	_ "github.com/nisitaSoni/safR/server/store/firestore" // Register firestore store factory
	_ "github.com/nisitaSoni/safR/server/store/kvstore"   // Register kvstore store factory
)

// Websocket events published to the webapp
const (
	wsEventLocationsUpdated = "locations_updated"
	wsEventAlertPrefix      = "alert_"
)

// Plugin implements the interface expected by the Mattermost server to communicate between the server and plugin processes.
type Plugin struct {
	plugin.MattermostPlugin

	// client is the Mattermost server API client.
	client *pluginapi.Client

	// configurationLock synchronizes access to the configuration.
	configurationLock sync.RWMutex

	// configuration is the active plugin configuration. Consult getConfiguration and
	// setConfiguration for usage.
	configuration *configuration

	botID string

	// sessions holds every admin session and the store they load from.
	sessions *session.Manager

	// poster files alert lifecycle updates in the report channel.
	poster *poster.Poster

	// reportingLock guards composer and sink, which follow the configuration.
	reportingLock sync.RWMutex
	composer      *report.Composer
	sink          exporter.Sink

	// storeLock serializes store replacement and guards unsubscribeLocations.
	storeLock            sync.Mutex
	unsubscribeLocations func()
}

// OnActivate is invoked when the plugin is activated. If an error is returned, the plugin will be deactivated.
func (p *Plugin) OnActivate() error {
	p.client = pluginapi.NewClient(p.API, p.Driver)

	config := p.getConfiguration()

	botID, err := p.API.EnsureBotUser(&model.Bot{
		Username:    config.botUsername(),
		DisplayName: config.botDisplayName(),
		Description: "Bot for filing SafeTrip alert updates and E-FIR reports",
	})
	if err != nil {
		return errors.Wrap(err, "failed to ensure bot user")
	}
	p.botID = botID

	p.API.LogInfo("Bot user initialized", "botID", botID, "username", config.botUsername())

	p.poster = poster.New(p.API, botID)
	p.rebuildReporting(config)
	p.sessions = session.NewManager(p.client, nil, p.notifyAlertEvent)

	if err := p.replaceStore(config.storeConfig()); err != nil {
		return errors.Wrap(err, "failed to initialize store")
	}

	return nil
}

// OnDeactivate is invoked when the plugin is deactivated.
func (p *Plugin) OnDeactivate() error {
	if p.sessions == nil {
		return nil
	}

	p.sessions.EndAll()

	p.storeLock.Lock()
	defer p.storeLock.Unlock()

	if p.unsubscribeLocations != nil {
		p.unsubscribeLocations()
		p.unsubscribeLocations = nil
	}

	if st := p.sessions.Store(); st != nil {
		if err := st.Close(); err != nil {
			p.API.LogError("Failed to close store during deactivation", "error", err.Error())
			return err
		}
	}

	return nil
}

// replaceStore creates a store from config, subscribes to its location feed
// and switches the session manager over to it. Open sessions are ended.
func (p *Plugin) replaceStore(config store.Config) error {
	p.storeLock.Lock()
	defer p.storeLock.Unlock()

	st, err := store.Create(config, p.client, p.API)
	if err != nil {
		return errors.Wrap(err, "failed to create store")
	}

	unsubscribe, err := st.SubscribeLocations(p.publishLocations)
	if err != nil {
		if closeErr := st.Close(); closeErr != nil {
			p.API.LogWarn("Failed to close store after subscription error", "error", closeErr.Error())
		}
		return errors.Wrap(err, "failed to subscribe to tourist locations")
	}

	previous := p.sessions.Store()
	previousUnsubscribe := p.unsubscribeLocations

	p.sessions.Reset(st)
	p.unsubscribeLocations = unsubscribe

	if previousUnsubscribe != nil {
		previousUnsubscribe()
	}
	if previous != nil {
		if err := previous.Close(); err != nil {
			p.API.LogWarn("Failed to close previous store", "error", err.Error())
		}
	}

	p.API.LogInfo("Store initialized", "type", config.Type)
	return nil
}

// rebuildReporting recreates the composer and sink from config.
func (p *Plugin) rebuildReporting(config *configuration) {
	composer := report.NewComposer(config.WrapWidth)
	sink := exporter.NewChannelSink(p.API, p.botID, config.ReportChannelID)

	p.reportingLock.Lock()
	defer p.reportingLock.Unlock()
	p.composer = composer
	p.sink = sink
}

func (p *Plugin) reporting() (*report.Composer, exporter.Sink) {
	p.reportingLock.RLock()
	defer p.reportingLock.RUnlock()
	return p.composer, p.sink
}

// publishLocations broadcasts the current tourist positions to every client.
func (p *Plugin) publishLocations(locations []alert.TouristLocation) {
	data, err := json.Marshal(locations)
	if err != nil {
		p.API.LogError("Failed to marshal tourist locations", "error", err.Error())
		return
	}

	p.API.PublishWebSocketEvent(wsEventLocationsUpdated, map[string]any{
		"locations": string(data),
	}, &model.WebsocketBroadcast{})
}

// notifyAlertEvent forwards a session's registry event to its user and files
// the update in the report channel when one is configured.
func (p *Plugin) notifyAlertEvent(userID string, event alert.Event) {
	data, err := json.Marshal(newAlertResponse(event.Alert))
	if err != nil {
		p.API.LogError("Failed to marshal alert event", "alertId", event.Alert.ID, "error", err.Error())
		return
	}

	p.API.PublishWebSocketEvent(wsEventAlertPrefix+string(event.Type), map[string]any{
		"alert": string(data),
	}, &model.WebsocketBroadcast{UserId: userID})

	channelID := p.getConfiguration().ReportChannelID
	if channelID == "" || p.poster == nil {
		return
	}
	if err := p.poster.PostEvent(event, channelID); err != nil {
		p.API.LogWarn("Failed to post alert update", "alertId", event.Alert.ID, "error", err.Error())
	}
}
