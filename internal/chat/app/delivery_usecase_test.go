package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/repository"
	errprocess "chat_relay_service/pkg/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func storedMessage() *domain.Message {
	return &domain.Message{ID: 42, RoomID: "room1", SenderID: "alice", Content: "hello"}
}

func TestConfirmDeliveredNotifiesSender(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	pubSub := new(MockEventPubSub)
	feed := new(MockEventFeed)

	msgRepo.On("MarkDelivered", mock.Anything, int64(42), mock.Anything).Return(nil)
	msgRepo.On("Fetch", mock.Anything, int64(42)).Return(storedMessage(), nil)
	pubSub.On("Publish", repository.UserChannel("alice"), mock.Anything).Return(nil)
	feed.On("Emit", mock.Anything, mock.Anything).Return(nil)

	uc := NewDeliveryUseCase(msgRepo, pubSub, feed, nil, time.Minute)

	assert.NoError(t, uc.ConfirmDelivered(context.Background(), 42))
	pubSub.AssertCalled(t, "Publish", repository.UserChannel("alice"), mock.MatchedBy(func(resp domain.WSResponse) bool {
		p, ok := resp.Payload.(domain.MessageStatusPayload)
		return ok && resp.Action == domain.EventMessageStatus && p.Status == domain.StatusDelivered
	}))
}

func TestConfirmDeliveredIdempotent(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	pubSub := new(MockEventPubSub)

	msgRepo.On("MarkDelivered", mock.Anything, int64(42), mock.Anything).Return(repository.ErrAlreadyMarked)

	uc := NewDeliveryUseCase(msgRepo, pubSub, nil, nil, time.Minute)

	// 重複確認為 no-op，不再通知
	assert.NoError(t, uc.ConfirmDelivered(context.Background(), 42))
	pubSub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestConfirmDeliveredMissingMessage(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	msgRepo.On("MarkDelivered", mock.Anything, int64(99), mock.Anything).Return(repository.ErrMessageNotFound)

	uc := NewDeliveryUseCase(msgRepo, nil, nil, nil, time.Minute)

	err := uc.ConfirmDelivered(context.Background(), 99)
	assert.True(t, errprocess.IsKind(err, errprocess.KindValidation))
}

func TestConfirmDeliveredInvalidID(t *testing.T) {
	uc := NewDeliveryUseCase(new(MockMessageRepository), nil, nil, nil, time.Minute)

	err := uc.ConfirmDelivered(context.Background(), 0)
	assert.True(t, errprocess.IsKind(err, errprocess.KindValidation))

	err = uc.ConfirmSeen(context.Background(), -1, "bob")
	assert.True(t, errprocess.IsKind(err, errprocess.KindValidation))
}

func TestConfirmDeliveredPersistFailureStillNotifies(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	pubSub := new(MockEventPubSub)

	// 落盤失敗不中斷通知路徑
	msgRepo.On("MarkDelivered", mock.Anything, int64(42), mock.Anything).Return(errors.New("db down"))
	msgRepo.On("Fetch", mock.Anything, int64(42)).Return(storedMessage(), nil)
	pubSub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := NewDeliveryUseCase(msgRepo, pubSub, nil, nil, time.Minute)

	assert.NoError(t, uc.ConfirmDelivered(context.Background(), 42))
	pubSub.AssertCalled(t, "Publish", repository.UserChannel("alice"), mock.Anything)
}

func TestConfirmDeliveredOfflineSenderNotNotified(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	pubSub := new(MockEventPubSub)
	presence := &stubPresence{online: map[string]bool{}}

	msgRepo.On("MarkDelivered", mock.Anything, int64(42), mock.Anything).Return(nil)
	msgRepo.On("Fetch", mock.Anything, int64(42)).Return(storedMessage(), nil)

	uc := NewDeliveryUseCase(msgRepo, pubSub, nil, presence, time.Minute)

	// 發送者離線：狀態照常落盤，但不發通知
	assert.NoError(t, uc.ConfirmDelivered(context.Background(), 42))
	msgRepo.AssertCalled(t, "MarkDelivered", mock.Anything, int64(42), mock.Anything)
	pubSub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAutoDelayDefaultsTo100ms(t *testing.T) {
	uc := NewDeliveryUseCase(new(MockMessageRepository), nil, nil, nil, 0)
	assert.Equal(t, 100*time.Millisecond, uc.autoDelay)
}

func TestConfirmSeenNotifiesBothSides(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	pubSub := new(MockEventPubSub)
	feed := new(MockEventFeed)

	msgRepo.On("Fetch", mock.Anything, int64(42)).Return(storedMessage(), nil)
	msgRepo.On("MarkSeen", mock.Anything, int64(42), "bob", mock.Anything).Return(nil)
	pubSub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	feed.On("Emit", mock.Anything, mock.Anything).Return(nil)

	uc := NewDeliveryUseCase(msgRepo, pubSub, feed, nil, time.Minute)

	assert.NoError(t, uc.ConfirmSeen(context.Background(), 42, "bob"))

	// 發送者收到 message-seen
	pubSub.AssertCalled(t, "Publish", repository.UserChannel("alice"), mock.MatchedBy(func(resp domain.WSResponse) bool {
		return resp.Action == domain.EventMessageSeen
	}))
	// 房間兩端都收到 message-seen-confirmed
	pubSub.AssertCalled(t, "Publish", repository.RoomChannel("room1"), mock.MatchedBy(func(resp domain.WSResponse) bool {
		return resp.Action == domain.EventMessageSeenConfirmed
	}))
}

func TestConfirmSeenOwnMessageRejected(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	msgRepo.On("Fetch", mock.Anything, int64(42)).Return(storedMessage(), nil)

	uc := NewDeliveryUseCase(msgRepo, nil, nil, nil, time.Minute)

	err := uc.ConfirmSeen(context.Background(), 42, "alice")
	assert.True(t, errprocess.IsKind(err, errprocess.KindValidation))
}

func TestConfirmSeenBeforeDelivered(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	pubSub := new(MockEventPubSub)

	// delivered 尚未標記也可直接標 seen，不補寫 delivered
	msgRepo.On("Fetch", mock.Anything, int64(42)).Return(storedMessage(), nil)
	msgRepo.On("MarkSeen", mock.Anything, int64(42), "bob", mock.Anything).Return(nil)
	pubSub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := NewDeliveryUseCase(msgRepo, pubSub, nil, nil, time.Minute)

	assert.NoError(t, uc.ConfirmSeen(context.Background(), 42, "bob"))
	msgRepo.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything, mock.Anything)
}

func TestAutoDeliveryFires(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	pubSub := new(MockEventPubSub)

	msgRepo.On("MarkDelivered", mock.Anything, int64(42), mock.Anything).Return(nil)
	msgRepo.On("Fetch", mock.Anything, int64(42)).Return(storedMessage(), nil)
	pubSub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := NewDeliveryUseCase(msgRepo, pubSub, nil, nil, 20*time.Millisecond)

	uc.ScheduleAutoDelivery(42)

	assert.Eventually(t, func() bool {
		for _, call := range msgRepo.Calls {
			if call.Method == "MarkDelivered" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestAutoDeliveryAfterDeleteIsDropped(t *testing.T) {
	msgRepo := new(MockMessageRepository)

	// 排程後訊息被刪除，timer 觸發時更新落空
	msgRepo.On("MarkDelivered", mock.Anything, int64(42), mock.Anything).Return(repository.ErrMessageNotFound)

	uc := NewDeliveryUseCase(msgRepo, nil, nil, nil, 20*time.Millisecond)

	uc.ScheduleAutoDelivery(42)

	assert.Eventually(t, func() bool {
		for _, call := range msgRepo.Calls {
			if call.Method == "MarkDelivered" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
	msgRepo.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestScheduleAutoDeliveryDedup(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	uc := NewDeliveryUseCase(msgRepo, nil, nil, nil, time.Minute)

	uc.ScheduleAutoDelivery(42)
	uc.ScheduleAutoDelivery(42)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	assert.Len(t, uc.timers, 1)
}

func TestExplicitConfirmCancelsTimer(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	pubSub := new(MockEventPubSub)

	msgRepo.On("MarkDelivered", mock.Anything, int64(42), mock.Anything).Return(nil)
	msgRepo.On("Fetch", mock.Anything, int64(42)).Return(storedMessage(), nil)
	pubSub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := NewDeliveryUseCase(msgRepo, pubSub, nil, nil, time.Minute)

	uc.ScheduleAutoDelivery(42)
	assert.NoError(t, uc.ConfirmDelivered(context.Background(), 42))

	uc.mu.Lock()
	defer uc.mu.Unlock()
	assert.Empty(t, uc.timers)
}
