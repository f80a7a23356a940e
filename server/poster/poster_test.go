package poster

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nisitaSoni/safR/server/alert"
)

const (
	botID     = "bot-user-id"
	channelID = "channel-id"
	threadKey = "safetrip_thread_ALT-001"
)

func testEvent(eventType alert.EventType) alert.Event {
	minutes := 30
	return alert.Event{
		Type: eventType,
		Alert: alert.Alert{
			ID:                      "ALT-001",
			Category:                alert.CategorySOS,
			Tourist:                 alert.Subject{ID: "TUR-001", Name: "John Smith"},
			Location:                alert.Location{Name: "Mysore Palace", Latitude: 12.3051, Longitude: 76.6551},
			OccurredAt:              time.Date(2024, 1, 20, 14, 30, 0, 0, time.UTC),
			Severity:                alert.SeverityHigh,
			Status:                  alert.StatusAssigned,
			Responder:               "Officer Rao",
			ResponseDurationMinutes: &minutes,
			Description:             "Panic button pressed",
		},
	}
}

func TestPostEvent_FirstUpdateStartsThread(t *testing.T) {
	api := &plugintest.API{}
	defer api.AssertExpectations(t)

	api.On("KVGet", threadKey).Return(nil, nil).Once()
	api.On("CreatePost", mock.MatchedBy(func(post *model.Post) bool {
		assert.Equal(t, botID, post.UserId)
		assert.Equal(t, channelID, post.ChannelId)
		assert.Equal(t, model.PostTypeSlackAttachment, post.Type)
		assert.Empty(t, post.RootId)
		assert.Equal(t, "Alert **ALT-001** assigned to Officer Rao\n🏷️ #SOSAlert, #HighSeverity, #MysorePalace", post.Message)

		attachments, ok := post.Props["attachments"]
		assert.True(t, ok, "post props should contain attachments")
		assert.NotNil(t, attachments)
		return true
	})).Return(&model.Post{Id: "root-post-id"}, nil).Once()
	api.On("KVSet", threadKey, []byte("root-post-id")).Return(nil).Once()

	p := New(api, botID)
	require.NoError(t, p.PostEvent(testEvent(alert.EventAssigned), channelID))
}

func TestPostEvent_LaterUpdatesReply(t *testing.T) {
	api := &plugintest.API{}
	defer api.AssertExpectations(t)

	api.On("KVGet", threadKey).Return([]byte("root-post-id"), nil).Once()
	api.On("CreatePost", mock.MatchedBy(func(post *model.Post) bool {
		return post.RootId == "root-post-id" && strings.HasPrefix(post.Message, "Alert **ALT-001** resolved\n")
	})).Return(&model.Post{Id: "reply-post-id"}, nil).Once()

	p := New(api, botID)
	require.NoError(t, p.PostEvent(testEvent(alert.EventResolved), channelID))
	api.AssertNotCalled(t, "KVSet", mock.Anything, mock.Anything)
}

func TestPostEvent_ThreadLookupFailureStillPosts(t *testing.T) {
	api := &plugintest.API{}
	defer api.AssertExpectations(t)

	appErr := model.NewAppError("KVGet", "kv.get", nil, "unavailable", http.StatusInternalServerError)
	api.On("KVGet", threadKey).Return(nil, appErr).Once()
	api.On("LogWarn", "Failed to read alert thread", "alertId", "ALT-001", "error", appErr.Error()).Once()
	api.On("CreatePost", mock.Anything).Return(&model.Post{Id: "root-post-id"}, nil).Once()
	api.On("KVSet", threadKey, []byte("root-post-id")).Return(nil).Once()

	p := New(api, botID)
	require.NoError(t, p.PostEvent(testEvent(alert.EventInvestigating), channelID))
}

func TestPostEvent_PostError(t *testing.T) {
	api := &plugintest.API{}
	defer api.AssertExpectations(t)

	expectedErr := &model.AppError{
		Id:         "api.context.permissions.app_error",
		Message:    "You do not have permission",
		StatusCode: http.StatusForbidden,
	}
	api.On("KVGet", threadKey).Return(nil, nil).Once()
	api.On("CreatePost", mock.Anything).Return(nil, expectedErr).Once()

	p := New(api, botID)
	err := p.PostEvent(testEvent(alert.EventAssigned), channelID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to post assigned update for alert ALT-001")
	var target *model.AppError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, http.StatusForbidden, target.StatusCode)
}

func TestEventMessage(t *testing.T) {
	tests := []struct {
		eventType alert.EventType
		expected  string
	}{
		{alert.EventAssigned, "Alert **ALT-001** assigned to Officer Rao"},
		{alert.EventInvestigating, "Alert **ALT-001** under investigation"},
		{alert.EventResolved, "Alert **ALT-001** resolved"},
		{alert.EventType("reopened"), "Alert **ALT-001** updated"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			assert.Equal(t, tt.expected, eventMessage(testEvent(tt.eventType)))
		})
	}
}
