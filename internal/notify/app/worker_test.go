package app

import (
	"context"
	"testing"

	chatrepo "chat_relay_service/internal/chat/repository"
	"chat_relay_service/internal/user/domain"
	"chat_relay_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	logger.SetNewNop()
}

// MockUserRepository moke user repository
type MockUserRepository struct {
	mock.Mock
}

// CreateUser moke create user
func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// UpdateUserStatus moke update user status
func (m *MockUserRepository) UpdateUserStatus(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// TouchLastActive moke touch last active
func (m *MockUserRepository) TouchLastActive(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// FindByUser moke find user
func (m *MockUserRepository) FindByUser(ctx context.Context, userQuery *domain.UserQuery) (*domain.User, error) {
	args := m.Called(ctx, userQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// recordSender 記錄送出的推播
type recordSender struct {
	sent []chatrepo.PushJob
}

func (r *recordSender) Send(ctx context.Context, job chatrepo.PushJob) error {
	r.sent = append(r.sent, job)
	return nil
}

func TestProcessPushJobSkipsOnlineUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	sender := &recordSender{}

	// 收件人已重新上線，推播應被跳過
	userRepo.On("FindByUser", mock.Anything, mock.Anything).Return(&domain.User{
		UserID: "bob",
		Status: domain.UserStatusOnLine,
	}, nil)

	c := NewConsumer(nil, userRepo, sender, "push")

	assert.NoError(t, c.processPushJob(context.Background(), chatrepo.PushJob{UserID: "bob", MessageID: 9}))
	assert.Empty(t, sender.sent)
}

func TestProcessPushJobSendsWhenOffline(t *testing.T) {
	userRepo := new(MockUserRepository)
	sender := &recordSender{}

	userRepo.On("FindByUser", mock.Anything, mock.Anything).Return(&domain.User{
		UserID: "bob",
		Status: domain.UserStatusOffLine,
	}, nil)

	c := NewConsumer(nil, userRepo, sender, "push")

	assert.NoError(t, c.processPushJob(context.Background(), chatrepo.PushJob{UserID: "bob", MessageID: 9}))
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, int64(9), sender.sent[0].MessageID)
}

func TestProcessPushJobUserLookupFailure(t *testing.T) {
	userRepo := new(MockUserRepository)
	sender := &recordSender{}

	userRepo.On("FindByUser", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	c := NewConsumer(nil, userRepo, sender, "push")

	// 查不到狀態時回傳錯誤讓訊息重排，不直接送出
	assert.Error(t, c.processPushJob(context.Background(), chatrepo.PushJob{UserID: "bob"}))
	assert.Empty(t, sender.sent)
}
