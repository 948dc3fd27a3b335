package repository

import (
	"context"
	"errors"
	"time"

	"chat_relay_service/internal/chat/domain"

	"gorm.io/gorm"
)

// ErrMessageNotFound 訊息不存在
var ErrMessageNotFound = errors.New("message not found")

// ErrAlreadyMarked 回執欄位已被設定過，不可回退
var ErrAlreadyMarked = errors.New("receipt already marked")

// MessageRepository definition message store
type MessageRepository interface {
	// Create 寫入新訊息，id 由 DB 配號後回填
	Create(ctx context.Context, msg *domain.Message) error
	// Fetch 依 id 取單筆訊息
	Fetch(ctx context.Context, messageID int64) (*domain.Message, error)
	// MarkDelivered 設定 delivered_at，只有未設定過才會更新
	MarkDelivered(ctx context.Context, messageID int64, at time.Time) error
	// MarkSeen 設定 seen_at 與 seen_by，只有未設定過才會更新
	MarkSeen(ctx context.Context, messageID int64, seenBy string, at time.Time) error
	// ListByRoom 依 id 降冪取房間歷史訊息
	ListByRoom(ctx context.Context, roomID string, limit, offset int) ([]domain.Message, error)
	// Delete 硬刪除訊息，只有發送者本人可刪
	Delete(ctx context.Context, messageID int64, senderID string) error
}

type gormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository create message repository
func NewGormMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create insert message
func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// Fetch find message by id
func (r *gormMessageRepository) Fetch(ctx context.Context, messageID int64) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).First(&msg, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkDelivered 以條件更新保證 delivered_at 只寫一次
func (r *gormMessageRepository) MarkDelivered(ctx context.Context, messageID int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ? AND delivered_at IS NULL", messageID).
		Update("delivered_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 可能是訊息不存在，也可能已標記過
		if _, err := r.Fetch(ctx, messageID); err != nil {
			return err
		}
		return ErrAlreadyMarked
	}
	return nil
}

// MarkSeen 以條件更新保證 seen_at 只寫一次
func (r *gormMessageRepository) MarkSeen(ctx context.Context, messageID int64, seenBy string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ? AND seen_at IS NULL", messageID).
		Updates(map[string]interface{}{
			"seen_at":         at,
			"seen_by_user_id": seenBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Fetch(ctx, messageID); err != nil {
			return err
		}
		return ErrAlreadyMarked
	}
	return nil
}

// ListByRoom find room history, newest first
func (r *gormMessageRepository) ListByRoom(ctx context.Context, roomID string, limit, offset int) ([]domain.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Delete hard delete message
func (r *gormMessageRepository) Delete(ctx context.Context, messageID int64, senderID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND sender_id = ?", messageID, senderID).
		Delete(&domain.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
