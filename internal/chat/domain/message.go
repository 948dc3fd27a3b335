package domain

import (
	"fmt"
	"time"
)

// MessageType 訊息種類，封閉集合，decode 時未知種類直接拒絕
type MessageType string

const (
	// MessageTypeText plain text message
	MessageTypeText MessageType = "text"
	// MessageTypeImage image message
	MessageTypeImage MessageType = "image"
	// MessageTypeVideo video message
	MessageTypeVideo MessageType = "video"
	// MessageTypeVoice voice message
	MessageTypeVoice MessageType = "voice"
	// MessageTypeFile generic file message
	MessageTypeFile MessageType = "file"
	// MessageTypeLocation location message
	MessageTypeLocation MessageType = "location"
	// MessageTypeReaction emoji reaction message
	MessageTypeReaction MessageType = "reaction"
	// MessageTypeReply reply message
	MessageTypeReply MessageType = "reply"
	// MessageTypeForward forward message
	MessageTypeForward MessageType = "forward"
	// MessageTypeSystem system message
	MessageTypeSystem MessageType = "system"
)

var messageTypes = map[MessageType]bool{
	MessageTypeText:     true,
	MessageTypeImage:    true,
	MessageTypeVideo:    true,
	MessageTypeVoice:    true,
	MessageTypeFile:     true,
	MessageTypeLocation: true,
	MessageTypeReaction: true,
	MessageTypeReply:    true,
	MessageTypeForward:  true,
	MessageTypeSystem:   true,
}

// ParseMessageType 解析訊息種類，空字串視為 text，未知種類回錯誤
func ParseMessageType(s string) (MessageType, error) {
	if s == "" {
		return MessageTypeText, nil
	}
	t := MessageType(s)
	if !messageTypes[t] {
		return "", fmt.Errorf("unknown message type %q", s)
	}
	return t, nil
}

// HasMedia 此種類是否帶媒體內容
func (t MessageType) HasMedia() bool {
	switch t {
	case MessageTypeImage, MessageTypeVideo, MessageTypeVoice, MessageTypeFile:
		return true
	}
	return false
}

// ContentPlaceholder 二進位訊息種類 content 為空時的佔位字串
func (t MessageType) ContentPlaceholder() string {
	return "[" + string(t) + "]"
}

// DeliveryStatus per-message delivery state: sent → delivered → seen
type DeliveryStatus string

const (
	// StatusSent message persisted, not yet handed to the recipient
	StatusSent DeliveryStatus = "sent"
	// StatusDelivered message handed to the recipient connection or confirmed
	StatusDelivered DeliveryStatus = "delivered"
	// StatusSeen recipient confirmed the message was observed
	StatusSeen DeliveryStatus = "seen"
)

// MediaInfo 已上傳檔案的描述，由上傳管線產生後帶入訊息
type MediaInfo struct {
	URL       string  `gorm:"column:media_url" json:"url,omitempty"`
	Name      string  `gorm:"column:media_name" json:"name,omitempty"`
	Size      int64   `gorm:"column:media_size" json:"size,omitempty"`
	Duration  float64 `gorm:"column:media_duration" json:"duration,omitempty"`
	ThumbURL  string  `gorm:"column:media_thumb_url" json:"thumb_url,omitempty"`
	Width     int     `gorm:"column:media_width" json:"width,omitempty"`
	Height    int     `gorm:"column:media_height" json:"height,omitempty"`
	ObjectKey string  `gorm:"column:media_object_key" json:"object_key,omitempty"`
}

// Message 一則聊天訊息，id 由 DB 遞增配號，作為排序與回執追蹤的 key
type Message struct {
	ID       int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID   string      `gorm:"index;size:64" json:"room_id"`
	SenderID string      `gorm:"index;size:64" json:"sender_id"`
	Content  string      `json:"content"`
	Type     MessageType `gorm:"size:16" json:"type"`

	Media MediaInfo `gorm:"embedded" json:"media,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// 回執欄位，各自最多被設定一次
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	SeenAt       *time.Time `json:"seen_at,omitempty"`
	SeenByUserID string     `gorm:"size:64" json:"seen_by_user_id,omitempty"`
}

// Status 目前的 delivery 狀態
func (m *Message) Status() DeliveryStatus {
	if m.SeenAt != nil {
		return StatusSeen
	}
	if m.DeliveredAt != nil {
		return StatusDelivered
	}
	return StatusSent
}

// MessageDraft 建立訊息的輸入
type MessageDraft struct {
	RoomID   string
	SenderID string
	Content  string
	Type     MessageType
	Media    *MediaInfo
}

// Validate 檢查 draft 必要欄位；二進位種類允許空 content，改填佔位字串
func (d *MessageDraft) Validate() error {
	if d.RoomID == "" {
		return fmt.Errorf("draft missing room id")
	}
	if d.SenderID == "" {
		return fmt.Errorf("draft missing sender id")
	}
	if d.Type == "" {
		d.Type = MessageTypeText
	}
	if !messageTypes[d.Type] {
		return fmt.Errorf("unknown message type %q", d.Type)
	}
	if d.Content == "" {
		if !d.Type.HasMedia() {
			return fmt.Errorf("draft missing content")
		}
		d.Content = d.Type.ContentPlaceholder()
	}
	return nil
}
