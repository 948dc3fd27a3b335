package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"chat_relay_service/internal/user/domain"
)

// ErrUserNotFound 查無使用者
var ErrUserNotFound = errors.New("no user found with given criteria")

// UserRepository definition get user info
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUserStatus(ctx context.Context, user *domain.User) error
	// TouchLastActive 更新 last_active_at，連線事件觸發，fire-and-forget
	TouchLastActive(ctx context.Context, userID string) error
	FindByUser(ctx context.Context, userQuery *domain.UserQuery) (*domain.User, error)
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, "INSERT INTO users(user_id, email, password) VALUES ($1, $2, $3)", user.UserID, user.Email, user.Password)
	return err
}

func (r *userRepository) UpdateUserStatus(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET status = $1 WHERE user_id = $2", user.Status, user.UserID)
	return err
}

func (r *userRepository) TouchLastActive(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_active_at = $1 WHERE user_id = $2", time.Now(), userID)
	return err
}

func (r *userRepository) FindByUser(ctx context.Context, userQuery *domain.UserQuery) (*domain.User, error) {
	queryStr := "SELECT id, user_id, email, password, status, last_active_at FROM users WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if userQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *userQuery.Email)
		paramCount++
	}
	if userQuery.UserID != nil {
		queryStr += fmt.Sprintf(" AND user_id = $%d", paramCount)
		params = append(params, *userQuery.UserID)
		paramCount++
	}
	if userQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *userQuery.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var user domain.User
	err := row.Scan(&user.ID, &user.UserID, &user.Email, &user.Password, &user.Status, &user.LastActiveAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}
