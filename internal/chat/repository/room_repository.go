package repository

import (
	"context"
	"errors"

	"chat_relay_service/internal/chat/domain"

	"gorm.io/gorm"
)

// ErrRoomNotFound 房間不存在
var ErrRoomNotFound = errors.New("room not found")

// RoomRepository definition chat room store
type RoomRepository interface {
	CreateRoom(ctx context.Context, room *domain.Room) error
	FindByID(ctx context.Context, roomID string) (*domain.Room, error)
	FindPrivateRoom(ctx context.Context, userA, userB string) (*domain.Room, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Room, error)
}

type gormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository create room repository
func NewGormRoomRepository(db *gorm.DB) RoomRepository {
	return &gormRoomRepository{db: db}
}

// CreateRoom create room
func (r *gormRoomRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// FindByID find room by id
func (r *gormRoomRepository) FindByID(ctx context.Context, roomID string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindPrivateRoom 找兩人既有的 1對1 房間，成員順序不拘
func (r *gormRoomRepository) FindPrivateRoom(ctx context.Context, userA, userB string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)", userA, userB, userB, userA).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListByMember find rooms containing userID
func (r *gormRoomRepository) ListByMember(ctx context.Context, userID string) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
