package app

import (
	"context"
	"time"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/repository"

	"github.com/stretchr/testify/mock"
)

// MockRoomRepository Mock RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

// CreateRoom moke create room
func (m *MockRoomRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

// FindByID moke find room by room id
func (m *MockRoomRepository) FindByID(ctx context.Context, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindPrivateRoom moke find private room
func (m *MockRoomRepository) FindPrivateRoom(ctx context.Context, userA, userB string) (*domain.Room, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByMember moke list rooms by member
func (m *MockRoomRepository) ListByMember(ctx context.Context, userID string) ([]domain.Room, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Create moke insert msg
func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Fetch moke find msg by id
func (m *MockMessageRepository) Fetch(ctx context.Context, messageID int64) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkDelivered moke mark delivered
func (m *MockMessageRepository) MarkDelivered(ctx context.Context, messageID int64, at time.Time) error {
	args := m.Called(ctx, messageID, at)
	return args.Error(0)
}

// MarkSeen moke mark seen
func (m *MockMessageRepository) MarkSeen(ctx context.Context, messageID int64, seenBy string, at time.Time) error {
	args := m.Called(ctx, messageID, seenBy, at)
	return args.Error(0)
}

// ListByRoom moke list room history
func (m *MockMessageRepository) ListByRoom(ctx context.Context, roomID string, limit, offset int) ([]domain.Message, error) {
	args := m.Called(ctx, roomID, limit, offset)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete moke delete msg
func (m *MockMessageRepository) Delete(ctx context.Context, messageID int64, senderID string) error {
	args := m.Called(ctx, messageID, senderID)
	return args.Error(0)
}

// MockEventPubSub Mock EventPubSub
type MockEventPubSub struct {
	mock.Mock
}

// Publish moke publisher
func (m *MockEventPubSub) Publish(channel string, resp domain.WSResponse) error {
	args := m.Called(channel, resp)
	return args.Error(0)
}

// Subscribe moke subscriber
func (m *MockEventPubSub) Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error {
	args := m.Called(channel, handler)
	return args.Error(0)
}

// MockEventFeed Mock EventFeedRepository
type MockEventFeed struct {
	mock.Mock
}

// Emit moke emit feed event
func (m *MockEventFeed) Emit(ctx context.Context, ev repository.FeedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockPushNotify Mock PushNotifyRepository
type MockPushNotify struct {
	mock.Mock
}

// EnqueuePush moke enqueue push job
func (m *MockPushNotify) EnqueuePush(job repository.PushJob) error {
	args := m.Called(job)
	return args.Error(0)
}

// MockMediaRepository Mock MediaRepository
type MockMediaRepository struct {
	mock.Mock
}

// ResolveURL moke presign url
func (m *MockMediaRepository) ResolveURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiry)
	return args.String(0), args.Error(1)
}

// Exists moke stat object
func (m *MockMediaRepository) Exists(ctx context.Context, objectKey string) (int64, error) {
	args := m.Called(ctx, objectKey)
	return args.Get(0).(int64), args.Error(1)
}

// MockTypingAnalytics Mock TypingAnalyticsRepository
type MockTypingAnalytics struct {
	mock.Mock
}

// InsertSession moke insert typing session
func (m *MockTypingAnalytics) InsertSession(ctx context.Context, rec *domain.TypingSessionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// stubPresence 固定回覆的在線狀態
type stubPresence struct {
	online map[string]bool
	inRoom map[string]bool // "roomID:userID"
}

func (s *stubPresence) IsOnline(userID string) bool {
	return s.online[userID]
}

func (s *stubPresence) InRoom(userID, roomID string) bool {
	return s.inRoom[roomID+":"+userID]
}
