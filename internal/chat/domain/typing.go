package domain

import "time"

// TypingPayload live typing 更新內容，原樣轉發給對方
type TypingPayload struct {
	Content   string `json:"content"`
	CursorPos int    `json:"cursor_pos,omitempty"`
	Action    string `json:"action,omitempty"`
	ClientTS  int64  `json:"client_ts,omitempty"`
}

// TypingSummary 一次輸入 session 結束時 client 回報的彙總
type TypingSummary struct {
	DurationMS  int64 `json:"duration_ms"`
	Keystrokes  int   `json:"keystrokes"`
	Backspaces  int   `json:"backspaces"`
	FinalLength int   `json:"final_length"`
}

// TypingSessionRecord 寫入分析庫的 summary 文件，best-effort
type TypingSessionRecord struct {
	RoomID      string    `bson:"room_id"`
	UserID      string    `bson:"user_id"`
	DurationMS  int64     `bson:"duration_ms"`
	Keystrokes  int       `bson:"keystrokes"`
	Backspaces  int       `bson:"backspaces"`
	FinalLength int       `bson:"final_length"`
	EndedAt     time.Time `bson:"ended_at"`
}
