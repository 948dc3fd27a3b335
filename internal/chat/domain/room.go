package domain

import "time"

// Room 1對1 聊天室，只有兩個成員欄位
type Room struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:128" json:"name,omitempty"`
	User1ID   string    `gorm:"index;size:64" json:"user1_id"`
	User2ID   string    `gorm:"index;size:64" json:"user2_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Members 回傳非空的成員 id
func (r *Room) Members() []string {
	members := make([]string, 0, 2)
	if r.User1ID != "" {
		members = append(members, r.User1ID)
	}
	if r.User2ID != "" {
		members = append(members, r.User2ID)
	}
	return members
}

// HasMember check userID in room member slots
func (r *Room) HasMember(userID string) bool {
	if userID == "" {
		return false
	}
	return userID == r.User1ID || userID == r.User2ID
}

// PeersOf 除 userID 之外的成員
func (r *Room) PeersOf(userID string) []string {
	peers := make([]string, 0, 1)
	for _, m := range r.Members() {
		if m != userID {
			peers = append(peers, m)
		}
	}
	return peers
}
