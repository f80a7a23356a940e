// Package poster files alert lifecycle updates in a Mattermost channel.
package poster

import (
	"fmt"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/formatter"
	"github.com/nisitaSoni/safR/server/hashtag"
)

// threadKeyPrefix keys the root post id of each alert's update thread
const threadKeyPrefix = "safetrip_thread_"

// Poster posts alert updates as the bot. Updates for the same alert are
// threaded under the first post made for it.
type Poster struct {
	api   plugin.API
	botID string
}

// New creates a new Poster instance.
func New(api plugin.API, botID string) *Poster {
	return &Poster{
		api:   api,
		botID: botID,
	}
}

// PostEvent posts a formatted lifecycle event to channelID.
func (p *Poster) PostEvent(event alert.Event, channelID string) error {
	post := &model.Post{
		UserId:    p.botID,
		ChannelId: channelID,
		Type:      model.PostTypeSlackAttachment,
		Message:   eventMessage(event) + "\n" + hashtag.Generate(event.Alert),
		Props:     model.StringInterface{},
	}
	model.ParseSlackAttachment(post, []*model.SlackAttachment{formatter.FormatAlert(event.Alert)})

	key := threadKeyPrefix + event.Alert.ID
	rootID, appErr := p.api.KVGet(key)
	if appErr != nil {
		p.api.LogWarn("Failed to read alert thread", "alertId", event.Alert.ID, "error", appErr.Error())
	}
	if len(rootID) > 0 {
		post.RootId = string(rootID)
	}

	created, appErr := p.api.CreatePost(post)
	if appErr != nil {
		return fmt.Errorf("failed to post %s update for alert %s: %w", event.Type, event.Alert.ID, appErr)
	}

	if post.RootId == "" {
		if appErr := p.api.KVSet(key, []byte(created.Id)); appErr != nil {
			p.api.LogWarn("Failed to save alert thread", "alertId", event.Alert.ID, "error", appErr.Error())
		}
	}
	return nil
}

func eventMessage(event alert.Event) string {
	a := event.Alert
	switch event.Type {
	case alert.EventAssigned:
		return fmt.Sprintf("Alert **%s** assigned to %s", a.ID, a.Responder)
	case alert.EventInvestigating:
		return fmt.Sprintf("Alert **%s** under investigation", a.ID)
	case alert.EventResolved:
		return fmt.Sprintf("Alert **%s** resolved", a.ID)
	default:
		return fmt.Sprintf("Alert **%s** updated", a.ID)
	}
}
