package unit

import (
	"testing"
	"time"

	"chat_relay_service/internal/chat/domain"

	"github.com/stretchr/testify/assert"
)

func TestMessageStatusProgression(t *testing.T) {
	msg := domain.Message{ID: 1, RoomID: "r", SenderID: "alice", Content: "hi"}
	assert.Equal(t, domain.StatusSent, msg.Status())

	now := time.Now()
	msg.DeliveredAt = &now
	assert.Equal(t, domain.StatusDelivered, msg.Status())

	msg.SeenAt = &now
	assert.Equal(t, domain.StatusSeen, msg.Status())
}

func TestMessageSeenWithoutDelivered(t *testing.T) {
	// seen 可以先於 delivered，狀態直接視為 seen
	now := time.Now()
	msg := domain.Message{ID: 1, SeenAt: &now}
	assert.Equal(t, domain.StatusSeen, msg.Status())
}

func TestParseMessageType(t *testing.T) {
	got, err := domain.ParseMessageType("")
	assert.NoError(t, err)
	assert.Equal(t, domain.MessageTypeText, got)

	got, err = domain.ParseMessageType("image")
	assert.NoError(t, err)
	assert.Equal(t, domain.MessageTypeImage, got)

	_, err = domain.ParseMessageType("hologram")
	assert.Error(t, err, "unknown kinds are rejected")
}

func TestDraftValidate(t *testing.T) {
	d := domain.MessageDraft{RoomID: "r", SenderID: "alice", Content: "hi"}
	assert.NoError(t, d.Validate())
	assert.Equal(t, domain.MessageTypeText, d.Type)

	empty := domain.MessageDraft{RoomID: "r", SenderID: "alice"}
	assert.Error(t, empty.Validate(), "text draft needs content")

	media := domain.MessageDraft{RoomID: "r", SenderID: "alice", Type: domain.MessageTypeVoice}
	assert.NoError(t, media.Validate())
	assert.Equal(t, "[voice]", media.Content, "binary kinds get a placeholder")
}

func TestRoomMembership(t *testing.T) {
	room := domain.Room{ID: "r", User1ID: "alice", User2ID: "bob"}

	assert.True(t, room.HasMember("alice"))
	assert.False(t, room.HasMember("mallory"))
	assert.False(t, room.HasMember(""))
	assert.Equal(t, []string{"bob"}, room.PeersOf("alice"))
}
