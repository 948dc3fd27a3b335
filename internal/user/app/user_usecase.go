package app

import (
	"context"
	"fmt"
	"time"

	"chat_relay_service/internal/user/domain"
	"chat_relay_service/internal/user/repository"
	"chat_relay_service/pkg/config"
	"chat_relay_service/pkg/database"
	"chat_relay_service/pkg/encrypt"
	errprocess "chat_relay_service/pkg/err"
	"chat_relay_service/pkg/logger"
	token "chat_relay_service/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserUseCase 這裡封裝了對外提供的應用服務
type UserUseCase interface {
	Register(ctx context.Context, email, password string) error
	FindUser(ctx context.Context, param *domain.UserQuery) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	// TouchLastActive 連線事件觸發的 last-active 更新，失敗只記 log
	TouchLastActive(userID string)
}

type userUseCase struct {
	userRepo   repository.UserRepository
	sessionTTL time.Duration
	redisRepo  database.RedisRepository[domain.UserSession]
}

// NewUserUseCase 建立一個新的 UserUseCase
func NewUserUseCase(userRepo repository.UserRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.UserSession],
) UserUseCase {
	return &userUseCase{
		userRepo:   userRepo,
		sessionTTL: sessionTTL,
		redisRepo:  redisRepo,
	}
}

// Register 建立新使用者
func (m *userUseCase) Register(ctx context.Context, email, password string) error {
	// 檢查 email 是否已存在
	if _, err := m.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email}); err == nil {
		return errprocess.Validation("email already exists")
	}

	if err := encrypt.ValidatePasswordStrength(password); err != nil {
		return errprocess.Validation(err.Error())
	}

	pw, err := encrypt.HashPassword(password)
	if err != nil {
		logger.Log.Errorf("password err :", err)
		return errprocess.Persistence("hash password failed", err)
	}

	user := domain.User{
		UserID:   uuid.New().String(),
		Email:    email,
		Password: pw,
	}

	logger.Log.Info(fmt.Sprintf("usecase Register : %s", user.Email))

	if err := m.userRepo.CreateUser(ctx, &user); err != nil {
		return errprocess.Persistence("create user failed", err)
	}

	return nil
}

// FindUser 依條件尋找使用者
func (m *userUseCase) FindUser(ctx context.Context, param *domain.UserQuery) (*domain.User, error) {
	return m.userRepo.FindByUser(ctx, param)
}

// Login 登入並建立 session
func (m *userUseCase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := m.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil {
		logger.Log.Error("email can't find!!!")
		return "", errprocess.Validation("user not found")
	}

	if err = user.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return "", errprocess.Authorization("password mismatch")
	}

	user.Status = domain.UserStatusOnLine

	jwt, err := token.GenerateJWT(user.UserID, string(token.RoleUser), config.EnvConfig.ChatService)
	if err != nil {
		return "", errprocess.Persistence("generate token failed", err)
	}

	now := time.Now()
	session := domain.UserSession{
		Token:        jwt,
		UserID:       user.UserID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(m.sessionTTL),
	}

	m.redisRepo.Set(context.Background(), user.UserID, session, m.sessionTTL)

	if err := m.userRepo.UpdateUserStatus(ctx, user); err != nil {
		return "", errprocess.Persistence("update user status failed", err)
	}

	return jwt, nil
}

// Logout 清除 session 並標記離線
func (m *userUseCase) Logout(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWT(t)
	if err != nil {
		logger.Log.Error("Logout err :", zap.String("err", err.Error()))
		return errprocess.Authorization("invalid token")
	}

	m.redisRepo.Del(context.Background(), tokenInfo.UserID)

	if err := m.userRepo.UpdateUserStatus(ctx, &domain.User{
		UserID: tokenInfo.UserID,
		Status: domain.UserStatusOffLine,
	}); err != nil {
		return errprocess.Persistence("update user status failed", err)
	}
	return nil
}

// TouchLastActive 更新 last_active_at，失敗不阻斷呼叫端
func (m *userUseCase) TouchLastActive(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := m.userRepo.TouchLastActive(ctx, userID); err != nil {
		logger.Log.Warn("touch last active failed",
			zap.String("user", userID),
			zap.Error(err),
		)
	}
}
