package registry

import (
	"fmt"
	"sync"

	"chat_relay_service/pkg/logger"
)

// Session 一條活躍連線的狀態
type Session struct {
	ConnID string
	RoomID string
}

// TouchFunc fire-and-forget 更新 last-active 的 hook
type TouchFunc func(userID string)

// Registry 管理 userID 與活躍連線的對應，所有操作都在同一把鎖下完成
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session // userID -> session
	owners   map[string]string   // connID -> userID
	touch    TouchFunc
}

// NewRegistry create connection registry; touch 可為 nil
func NewRegistry(touch TouchFunc) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		owners:   make(map[string]string),
		touch:    touch,
	}
}

// SetOnline 綁定 user 到新連線，同 user 已有連線時後者為準
func (r *Registry) SetOnline(userID, connID string) {
	r.mu.Lock()
	if old, ok := r.sessions[userID]; ok {
		// 舊連線的反向索引一併清掉
		delete(r.owners, old.ConnID)
		logger.Log.Info(fmt.Sprintf("registry: user %s reconnected, replacing conn %s", userID, old.ConnID))
	}
	r.sessions[userID] = &Session{ConnID: connID}
	r.owners[connID] = userID
	r.mu.Unlock()

	if r.touch != nil {
		// last-active 更新失敗不影響上線
		go r.touch(userID)
	}
}

// SetOffline 依 connID 下線；只有當前持有該連線的 user 會被移除。
// 回傳被下線的 userID，若連線已被較新的連線取代則回傳空字串。
func (r *Registry) SetOffline(connID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owners[connID]
	if !ok {
		return ""
	}
	delete(r.owners, connID)

	if s, ok := r.sessions[userID]; ok && s.ConnID == connID {
		delete(r.sessions, userID)
		return userID
	}
	return ""
}

// Resolve userID 對應的 session，不在線時回 nil
func (r *Registry) Resolve(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

// IsOnline user 是否有活躍連線
func (r *Registry) IsOnline(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[userID]
	return ok
}

// JoinRoom 記錄 user 目前所在的房間，未上線時回 false
func (r *Registry) JoinRoom(userID, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return false
	}
	s.RoomID = roomID
	return true
}

// InRoom user 是否正在 roomID 裡
func (r *Registry) InRoom(userID, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	return ok && s.RoomID == roomID
}

// Owner connID 目前綁定的 userID
func (r *Registry) Owner(connID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owners[connID]
}

// OnlineCount 活躍 user 數
func (r *Registry) OnlineCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
