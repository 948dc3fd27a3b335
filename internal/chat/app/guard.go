package app

import (
	"context"
	"errors"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/repository"
	errprocess "chat_relay_service/pkg/err"
)

// RoomGuard 房間存取檢查，所有進房/發話前都要過這關
type RoomGuard struct {
	roomRepo repository.RoomRepository
}

// NewRoomGuard create RoomGuard
func NewRoomGuard(roomRepo repository.RoomRepository) *RoomGuard {
	return &RoomGuard{roomRepo: roomRepo}
}

// Authorize 確認 user 是房間成員，通過時回傳房間
func (g *RoomGuard) Authorize(ctx context.Context, userID, roomID string) (*domain.Room, error) {
	if userID == "" || roomID == "" {
		return nil, errprocess.Validation("user id and room id are required")
	}

	room, err := g.roomRepo.FindByID(ctx, roomID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		// 不存在與無權限回同一種錯，避免洩漏房間存在與否
		return nil, errprocess.Authorization("room not accessible")
	}
	if err != nil {
		return nil, errprocess.Persistence("find room failed", err)
	}

	if !room.HasMember(userID) {
		return nil, errprocess.Authorization("room not accessible")
	}
	return room, nil
}
