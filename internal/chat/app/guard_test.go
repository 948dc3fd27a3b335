package app

import (
	"context"
	"testing"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/repository"
	errprocess "chat_relay_service/pkg/err"
	"chat_relay_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func init() {
	logger.SetNewNop()
}

func TestGuardAuthorizeMember(t *testing.T) {
	roomRepo := new(MockRoomRepository)
	guard := NewRoomGuard(roomRepo)

	room := &domain.Room{ID: "room1", User1ID: "alice", User2ID: "bob"}
	roomRepo.On("FindByID", context.Background(), "room1").Return(room, nil)

	got, err := guard.Authorize(context.Background(), "alice", "room1")
	assert.NoError(t, err)
	assert.Equal(t, "room1", got.ID)
}

func TestGuardAuthorizeNonMember(t *testing.T) {
	roomRepo := new(MockRoomRepository)
	guard := NewRoomGuard(roomRepo)

	room := &domain.Room{ID: "room1", User1ID: "alice", User2ID: "bob"}
	roomRepo.On("FindByID", context.Background(), "room1").Return(room, nil)

	_, err := guard.Authorize(context.Background(), "mallory", "room1")
	assert.Error(t, err)
	assert.True(t, errprocess.IsKind(err, errprocess.KindAuthorization))
}

func TestGuardAuthorizeRoomMissing(t *testing.T) {
	roomRepo := new(MockRoomRepository)
	guard := NewRoomGuard(roomRepo)

	roomRepo.On("FindByID", context.Background(), "ghost").Return(nil, repository.ErrRoomNotFound)

	// 房間不存在與無權限回同一種錯
	_, err := guard.Authorize(context.Background(), "alice", "ghost")
	assert.True(t, errprocess.IsKind(err, errprocess.KindAuthorization))
}

func TestGuardAuthorizeEmptyIDs(t *testing.T) {
	guard := NewRoomGuard(new(MockRoomRepository))

	_, err := guard.Authorize(context.Background(), "", "room1")
	assert.True(t, errprocess.IsKind(err, errprocess.KindValidation))

	_, err = guard.Authorize(context.Background(), "alice", "")
	assert.True(t, errprocess.IsKind(err, errprocess.KindValidation))
}
