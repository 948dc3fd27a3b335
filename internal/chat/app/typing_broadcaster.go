package app

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/repository"
	"chat_relay_service/pkg/logger"

	"go.uber.org/zap"
)

// RoomPresence typing 只轉發給還在房間 session 裡的成員
type RoomPresence interface {
	InRoom(userID, roomID string) bool
}

// TypingBroadcaster 即時輸入轉發。
// 未授權與超速的更新直接丟棄，絕不回錯誤事件，也不延遲補發。
type TypingBroadcaster struct {
	pubSub    repository.EventPubSub
	presence  RoomPresence
	analytics repository.TypingAnalyticsRepository

	minInterval   time.Duration
	maxContentLen int

	mu       sync.Mutex
	lastSent map[string]time.Time // "roomID:userID" -> 上次轉發時間
}

// NewTypingBroadcaster create TypingBroadcaster
func NewTypingBroadcaster(
	pubSub repository.EventPubSub,
	presence RoomPresence,
	analytics repository.TypingAnalyticsRepository,
	minInterval time.Duration,
	maxContentLen int,
) *TypingBroadcaster {
	if minInterval <= 0 {
		minInterval = 100 * time.Millisecond
	}
	if maxContentLen <= 0 {
		maxContentLen = 1000
	}
	return &TypingBroadcaster{
		pubSub:        pubSub,
		presence:      presence,
		analytics:     analytics,
		minInterval:   minInterval,
		maxContentLen: maxContentLen,
		lastSent:      make(map[string]time.Time),
	}
}

// Update 轉發一筆輸入中內容到房間 channel。
// 丟棄條件：不在房間、內容超長、距上次轉發不足 minInterval。
func (b *TypingBroadcaster) Update(ctx context.Context, userID, roomID string, payload *domain.TypingPayload) {
	if payload == nil {
		return
	}
	if b.presence != nil && !b.presence.InRoom(userID, roomID) {
		return
	}
	if utf8.RuneCountInString(payload.Content) > b.maxContentLen {
		return
	}
	if !b.allow(roomID, userID) {
		return
	}

	b.publish(domain.EventTypingUpdate, userID, roomID, payload)
}

// Stop 停止輸入，不受 throttle 限制
func (b *TypingBroadcaster) Stop(ctx context.Context, userID, roomID string) {
	if b.presence != nil && !b.presence.InRoom(userID, roomID) {
		return
	}
	b.reset(roomID, userID)
	b.publish(domain.EventTypingStop, userID, roomID, nil)
}

// SessionEnd 一次輸入 session 結束，寫入分析庫並廣播 stop。
// 分析寫入失敗只記 log，不影響轉發。
func (b *TypingBroadcaster) SessionEnd(ctx context.Context, userID, roomID string, summary *domain.TypingSummary) {
	if b.presence != nil && !b.presence.InRoom(userID, roomID) {
		return
	}
	b.reset(roomID, userID)

	if b.analytics != nil && summary != nil {
		rec := &domain.TypingSessionRecord{
			RoomID:      roomID,
			UserID:      userID,
			DurationMS:  summary.DurationMS,
			Keystrokes:  summary.Keystrokes,
			Backspaces:  summary.Backspaces,
			FinalLength: summary.FinalLength,
			EndedAt:     time.Now(),
		}
		if err := b.analytics.InsertSession(ctx, rec); err != nil {
			logger.Log.Warn("insert typing session failed",
				zap.String("room", roomID),
				zap.String("user", userID),
				zap.Error(err),
			)
		}
	}

	b.publish(domain.EventTypingStop, userID, roomID, nil)
}

// allow 檢查並更新 throttle 狀態，回傳是否允許轉發
func (b *TypingBroadcaster) allow(roomID, userID string) bool {
	key := roomID + ":" + userID
	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if last, ok := b.lastSent[key]; ok && now.Sub(last) < b.minInterval {
		return false
	}
	b.lastSent[key] = now
	return true
}

func (b *TypingBroadcaster) reset(roomID, userID string) {
	b.mu.Lock()
	delete(b.lastSent, roomID+":"+userID)
	b.mu.Unlock()
}

func (b *TypingBroadcaster) publish(action, userID, roomID string, payload *domain.TypingPayload) {
	if b.pubSub == nil {
		return
	}
	resp := domain.WSResponse{
		Action:  action,
		Success: true,
		Payload: domain.TypingEventPayload{
			RoomID: roomID,
			UserID: userID,
			Typing: payload,
		},
	}
	if err := b.pubSub.Publish(repository.RoomChannel(roomID), resp); err != nil {
		logger.Log.Warn("publish typing failed", zap.Error(err))
	}
}
