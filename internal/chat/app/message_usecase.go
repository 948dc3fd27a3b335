package app

import (
	"context"
	"errors"
	"time"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/repository"
	errprocess "chat_relay_service/pkg/err"
	"chat_relay_service/pkg/logger"

	"go.uber.org/zap"
)

// PresenceRegistry 訊息流程只需要知道收件人在不在線
type PresenceRegistry interface {
	IsOnline(userID string) bool
}

// SendMessageUseCase 負責訊息的寫入與派送
type SendMessageUseCase struct {
	guard    *RoomGuard
	msgRepo  repository.MessageRepository
	pubSub   repository.EventPubSub
	presence PresenceRegistry
	delivery *DeliveryUseCase
	feed     repository.EventFeedRepository
	push     repository.PushNotifyRepository
	media    repository.MediaRepository
}

// NewSendMessageUseCase init create message use case
func NewSendMessageUseCase(
	guard *RoomGuard,
	msgRepo repository.MessageRepository,
	pubSub repository.EventPubSub,
	presence PresenceRegistry,
	delivery *DeliveryUseCase,
	feed repository.EventFeedRepository,
	push repository.PushNotifyRepository,
	media repository.MediaRepository,
) *SendMessageUseCase {
	return &SendMessageUseCase{
		guard:    guard,
		msgRepo:  msgRepo,
		pubSub:   pubSub,
		presence: presence,
		delivery: delivery,
		feed:     feed,
		push:     push,
		media:    media,
	}
}

// Execute send message
func (uc *SendMessageUseCase) Execute(ctx context.Context, draft domain.MessageDraft) (*domain.Message, error) {
	// 1. 檢查發送者是房間成員
	room, err := uc.guard.Authorize(ctx, draft.SenderID, draft.RoomID)
	if err != nil {
		return nil, err
	}

	if err := draft.Validate(); err != nil {
		return nil, errprocess.Validation(err.Error())
	}

	msg := &domain.Message{
		RoomID:   draft.RoomID,
		SenderID: draft.SenderID,
		Content:  draft.Content,
		Type:     draft.Type,
	}

	// 2. 媒體訊息先確認物件存在並換取限時連結
	if draft.Media != nil && draft.Media.ObjectKey != "" {
		if uc.media != nil {
			size, err := uc.media.Exists(ctx, draft.Media.ObjectKey)
			if err != nil {
				return nil, errprocess.Validation("media object not found")
			}
			url, err := uc.media.ResolveURL(ctx, draft.Media.ObjectKey, 0)
			if err != nil {
				return nil, errprocess.Persistence("resolve media url failed", err)
			}
			draft.Media.Size = size
			draft.Media.URL = url
		}
		msg.Media = *draft.Media
	}

	// 3. 寫入後 id 由 DB 配號
	if err := uc.msgRepo.Create(ctx, msg); err != nil {
		return nil, errprocess.Persistence("create message failed", err)
	}

	// 4. 同步給房間內除自己的 member
	for _, peerID := range room.PeersOf(draft.SenderID) {
		uc.dispatchToPeer(ctx, msg, peerID)
	}

	if uc.feed != nil {
		ev := repository.FeedEvent{
			Kind:      "message",
			RoomID:    msg.RoomID,
			MessageID: msg.ID,
			UserID:    msg.SenderID,
			Status:    domain.StatusSent,
		}
		if err := uc.feed.Emit(ctx, ev); err != nil {
			logger.Log.Warn("emit message event failed", zap.Error(err))
		}
	}

	return msg, nil
}

// dispatchToPeer 在線走 pubsub 並排程自動 delivered，離線走推播佇列
func (uc *SendMessageUseCase) dispatchToPeer(ctx context.Context, msg *domain.Message, peerID string) {
	online := uc.presence != nil && uc.presence.IsOnline(peerID)

	if online {
		if uc.pubSub != nil {
			resp := domain.WSResponse{
				Action:  domain.EventChatMessage,
				Success: true,
				Payload: msg,
			}
			if err := uc.pubSub.Publish(repository.UserChannel(peerID), resp); err != nil {
				logger.Log.Error("publish message failed",
					zap.String("peer", peerID),
					zap.Int64("message_id", msg.ID),
					zap.Error(err),
				)
			}
		}
		if uc.delivery != nil {
			uc.delivery.ScheduleAutoDelivery(msg.ID)
		}
		return
	}

	if uc.push != nil {
		job := repository.PushJob{
			UserID:    peerID,
			RoomID:    msg.RoomID,
			MessageID: msg.ID,
			SenderID:  msg.SenderID,
			Preview:   msg.Content,
		}
		if err := uc.push.EnqueuePush(job); err != nil {
			logger.Log.Warn("enqueue push failed",
				zap.String("peer", peerID),
				zap.Error(err),
			)
		}
	}
}

// History 依 id 降冪取房間歷史訊息
func (uc *SendMessageUseCase) History(ctx context.Context, userID, roomID string, limit, offset int) ([]domain.Message, error) {
	if _, err := uc.guard.Authorize(ctx, userID, roomID); err != nil {
		return nil, err
	}
	msgs, err := uc.msgRepo.ListByRoom(ctx, roomID, limit, offset)
	if err != nil {
		return nil, errprocess.Persistence("list messages failed", err)
	}
	return msgs, nil
}

// Delete 發送者本人硬刪除訊息。
// 已排程的自動 delivered timer 不取消，到期時會因訊息不存在而被丟棄。
func (uc *SendMessageUseCase) Delete(ctx context.Context, userID string, messageID int64) error {
	err := uc.msgRepo.Delete(ctx, messageID, userID)
	if errors.Is(err, repository.ErrMessageNotFound) {
		return errprocess.Validation("message not found or not owned")
	}
	if err != nil {
		return errprocess.Persistence("delete message failed", err)
	}

	if uc.feed != nil {
		ev := repository.FeedEvent{
			Kind:      "message-deleted",
			MessageID: messageID,
			UserID:    userID,
			At:        time.Now(),
		}
		if err := uc.feed.Emit(ctx, ev); err != nil {
			logger.Log.Warn("emit delete event failed", zap.Error(err))
		}
	}
	return nil
}
