package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/repository"
	errprocess "chat_relay_service/pkg/err"
	"chat_relay_service/pkg/logger"

	"go.uber.org/zap"
)

// DeliveryUseCase 負責訊息回執的狀態推進：sent → delivered → seen。
// 每個回執欄位只會寫一次，不可回退。
type DeliveryUseCase struct {
	msgRepo  repository.MessageRepository
	pubSub   repository.EventPubSub
	feed     repository.EventFeedRepository
	presence PresenceRegistry

	autoDelay time.Duration

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

// NewDeliveryUseCase create DeliveryUseCase; presence 可為 nil
func NewDeliveryUseCase(
	msgRepo repository.MessageRepository,
	pubSub repository.EventPubSub,
	feed repository.EventFeedRepository,
	presence PresenceRegistry,
	autoDelay time.Duration,
) *DeliveryUseCase {
	if autoDelay <= 0 {
		autoDelay = 100 * time.Millisecond
	}
	return &DeliveryUseCase{
		msgRepo:   msgRepo,
		pubSub:    pubSub,
		feed:      feed,
		presence:  presence,
		autoDelay: autoDelay,
		timers:    make(map[int64]*time.Timer),
	}
}

// ScheduleAutoDelivery 收件人在線時排程自動 delivered。
// 訊息若在排程到期前被刪除，timer 仍會觸發，更新會因訊息不存在而被丟棄。
func (uc *DeliveryUseCase) ScheduleAutoDelivery(messageID int64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.timers[messageID]; ok {
		return
	}
	uc.timers[messageID] = time.AfterFunc(uc.autoDelay, func() {
		uc.mu.Lock()
		delete(uc.timers, messageID)
		uc.mu.Unlock()

		if err := uc.ConfirmDelivered(context.Background(), messageID); err != nil {
			logger.Log.Warn("auto delivery skipped",
				zap.Int64("message_id", messageID),
				zap.Error(err),
			)
		}
	})
}

// cancelTimer 明確回執到達時停掉排程中的 timer
func (uc *DeliveryUseCase) cancelTimer(messageID int64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if t, ok := uc.timers[messageID]; ok {
		t.Stop()
		delete(uc.timers, messageID)
	}
}

// ConfirmDelivered 標記訊息已送達並通知發送者。重複確認為 no-op。
func (uc *DeliveryUseCase) ConfirmDelivered(ctx context.Context, messageID int64) error {
	if messageID <= 0 {
		return errprocess.Validation("invalid message id")
	}
	now := time.Now()
	err := uc.msgRepo.MarkDelivered(ctx, messageID, now)
	if errors.Is(err, repository.ErrAlreadyMarked) {
		return nil
	}
	if errors.Is(err, repository.ErrMessageNotFound) {
		return errprocess.Validation("message not found")
	}
	if err != nil {
		// 回執落盤失敗只記 log，通知照常送出
		logger.Log.Errorf("mark delivered failed:", err, zap.Int64("message_id", messageID))
	}
	uc.cancelTimer(messageID)

	msg, err := uc.msgRepo.Fetch(ctx, messageID)
	if err != nil {
		return errprocess.Persistence("fetch message failed", err)
	}
	uc.notifyStatus(ctx, msg, domain.StatusDelivered, "")
	return nil
}

// ConfirmSeen 標記訊息已讀並雙向通知。
// seen 可以在 delivered 之前到達，此時 delivered 不會被補寫。
func (uc *DeliveryUseCase) ConfirmSeen(ctx context.Context, messageID int64, seenBy string) error {
	if messageID <= 0 {
		return errprocess.Validation("invalid message id")
	}
	msg, err := uc.msgRepo.Fetch(ctx, messageID)
	if errors.Is(err, repository.ErrMessageNotFound) {
		return errprocess.Validation("message not found")
	}
	if err != nil {
		return errprocess.Persistence("fetch message failed", err)
	}
	if msg.SenderID == seenBy {
		return errprocess.Validation("cannot mark own message as seen")
	}

	now := time.Now()
	err = uc.msgRepo.MarkSeen(ctx, messageID, seenBy, now)
	if errors.Is(err, repository.ErrAlreadyMarked) {
		return nil
	}
	if errors.Is(err, repository.ErrMessageNotFound) {
		return errprocess.Validation("message not found")
	}
	if err != nil {
		// 回執落盤失敗只記 log，通知照常送出
		logger.Log.Errorf("mark seen failed:", err, zap.Int64("message_id", messageID))
	}
	uc.cancelTimer(messageID)

	msg.SeenAt = &now
	msg.SeenByUserID = seenBy
	uc.notifyStatus(ctx, msg, domain.StatusSeen, seenBy)

	// 已讀確認廣播給整個房間，兩端 UI 都能對齊狀態
	if uc.pubSub != nil {
		resp := domain.WSResponse{
			Action:  domain.EventMessageSeenConfirmed,
			Success: true,
			Payload: domain.MessageStatusPayload{
				MessageID: msg.ID,
				RoomID:    msg.RoomID,
				Status:    domain.StatusSeen,
				SeenBy:    seenBy,
			},
		}
		if err := uc.pubSub.Publish(repository.RoomChannel(msg.RoomID), resp); err != nil {
			logger.Log.Warn("publish seen confirm failed", zap.Error(err))
		}
	}
	return nil
}

// notifyStatus 通知發送者狀態變化並寫入事件流。
// 發送者離線時狀態只落盤不通知，重連後由歷史查詢補齊。
func (uc *DeliveryUseCase) notifyStatus(ctx context.Context, msg *domain.Message, status domain.DeliveryStatus, seenBy string) {
	action := domain.EventMessageStatus
	if status == domain.StatusSeen {
		action = domain.EventMessageSeen
	}

	senderOnline := uc.presence == nil || uc.presence.IsOnline(msg.SenderID)
	if uc.pubSub != nil && senderOnline {
		resp := domain.WSResponse{
			Action:  action,
			Success: true,
			Payload: domain.MessageStatusPayload{
				MessageID: msg.ID,
				RoomID:    msg.RoomID,
				Status:    status,
				SeenBy:    seenBy,
			},
		}
		if err := uc.pubSub.Publish(repository.UserChannel(msg.SenderID), resp); err != nil {
			logger.Log.Warn("publish status failed", zap.Error(err))
		}
	}

	if uc.feed != nil {
		ev := repository.FeedEvent{
			Kind:      "receipt",
			RoomID:    msg.RoomID,
			MessageID: msg.ID,
			UserID:    seenBy,
			Status:    status,
		}
		if err := uc.feed.Emit(ctx, ev); err != nil {
			logger.Log.Warn("emit receipt event failed", zap.Error(err))
		}
	}
}
