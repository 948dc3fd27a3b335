package app

import (
	"context"
	"errors"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/repository"
	errprocess "chat_relay_service/pkg/err"

	"github.com/google/uuid"
)

// RoomUseCase 負責 1對1 房間的建立與查詢
type RoomUseCase struct {
	roomRepo repository.RoomRepository
}

// NewRoomUseCase create RoomUseCase
func NewRoomUseCase(roomRepo repository.RoomRepository) *RoomUseCase {
	return &RoomUseCase{roomRepo: roomRepo}
}

// ExecuteRoom 建立兩人房間，兩人已有房間時直接回傳既有的
func (uc *RoomUseCase) ExecuteRoom(ctx context.Context, userA, userB, name string) (string, error) {
	if userA == "" || userB == "" {
		return "", errprocess.Validation("both member ids are required")
	}
	if userA == userB {
		return "", errprocess.Validation("cannot create a room with yourself")
	}

	existing, err := uc.roomRepo.FindPrivateRoom(ctx, userA, userB)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrRoomNotFound) {
		return "", errprocess.Persistence("find private room failed", err)
	}

	room := &domain.Room{
		ID:      uuid.New().String(),
		Name:    name,
		User1ID: userA,
		User2ID: userB,
	}
	if err := uc.roomRepo.CreateRoom(ctx, room); err != nil {
		return "", errprocess.Persistence("create room failed", err)
	}
	return room.ID, nil
}

// FindRoom find room by id
func (uc *RoomUseCase) FindRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := uc.roomRepo.FindByID(ctx, roomID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, errprocess.Validation("room not found")
	}
	if err != nil {
		return nil, errprocess.Persistence("find room failed", err)
	}
	return room, nil
}

// ListRooms find rooms of member
func (uc *RoomUseCase) ListRooms(ctx context.Context, userID string) ([]domain.Room, error) {
	rooms, err := uc.roomRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, errprocess.Persistence("list rooms failed", err)
	}
	return rooms, nil
}
