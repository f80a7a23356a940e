// Package exporter delivers composed reports to their destination.
package exporter

//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks

import (
	"fmt"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"

	"github.com/nisitaSoni/safR/server/formatter"
	"github.com/nisitaSoni/safR/server/hashtag"
	"github.com/nisitaSoni/safR/server/report"
	"github.com/nisitaSoni/safR/server/report/render"
)

// Sink accepts a composed document under a filename (without extension).
// Errors are returned to the caller as-is; sinks do not retry.
type Sink interface {
	Export(doc report.DocumentSpec, filename string) error
}

// ChannelSink renders reports to PDF and files them in a Mattermost channel.
// It only holds immutable configuration.
type ChannelSink struct {
	api       plugin.API
	botID     string
	channelID string
	page      render.PageConfig
}

// NewChannelSink creates a sink that posts as botID into channelID.
func NewChannelSink(api plugin.API, botID, channelID string) *ChannelSink {
	return &ChannelSink{
		api:       api,
		botID:     botID,
		channelID: channelID,
		page:      render.DefaultPageConfig(),
	}
}

// Export uploads <filename>.pdf and creates a bot post carrying the file and
// a summary attachment.
func (s *ChannelSink) Export(doc report.DocumentSpec, filename string) error {
	if s.channelID == "" {
		return fmt.Errorf("report channel is not configured")
	}

	data, err := render.PDF(doc, s.page)
	if err != nil {
		return err
	}

	name := filename + ".pdf"
	info, appErr := s.api.UploadFile(data, s.channelID, name)
	if appErr != nil {
		return fmt.Errorf("failed to upload %s: %w", name, appErr)
	}

	post := &model.Post{
		UserId:    s.botID,
		ChannelId: s.channelID,
		Type:      model.PostTypeSlackAttachment,
		Message:   hashtag.ForReport(doc),
		Props:     model.StringInterface{},
		FileIds:   model.StringArray{info.Id},
	}
	model.ParseSlackAttachment(post, []*model.SlackAttachment{formatter.FormatReport(doc, filename)})

	if _, appErr := s.api.CreatePost(post); appErr != nil {
		return fmt.Errorf("failed to post %s: %w", name, appErr)
	}
	return nil
}
