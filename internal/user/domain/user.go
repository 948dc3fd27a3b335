package domain

import (
	"time"

	"chat_relay_service/pkg/encrypt"
)

// UserStatus 用來表示使用者狀態
type UserStatus int

// 状态: 0=offline, 1=online, 2=ban ,3=delete
const (
	// UserStatusOffLine 用來表示使用者離線
	UserStatusOffLine UserStatus = iota
	// UserStatusOnLine 用來表示使用者在線
	UserStatusOnLine
	// UserStatusBan 用來表示使用者被封鎖
	UserStatusBan
	// UserStatusDelete 用來表示使用者已刪除
	UserStatusDelete
)

// User 用來表示使用者
type User struct {
	ID           int64
	UserID       string
	Email        string
	Password     string
	Status       UserStatus
	LastActiveAt *time.Time
}

// UserSession 用來表示使用者的 Session
type UserSession struct {
	Token        string    `json:"Token"`
	UserID       string    `json:"UserID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch 密碼驗證
func (u *User) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(u.Password, inputPwd)
}

// IsExpired 檢查 Session 是否已過期
func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// UserQuery join conditions are used to query users
type UserQuery struct {
	ID     *int64  `db:"id"`
	UserID *string `db:"user_id"`
	Email  *string `db:"email"`
}
