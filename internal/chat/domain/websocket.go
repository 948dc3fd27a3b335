package domain

// 入站 action，由 client 發出
const (
	ActionIdentify         = "identify"
	ActionJoinRoom         = "join-room"
	ActionSendMessage      = "send-message"
	ActionDeliveryConfirm  = "delivery-confirm"
	ActionSeenConfirm      = "seen-confirm"
	ActionTypingUpdate     = "typing-update"
	ActionTypingStop       = "typing-stop"
	ActionTypingSessionEnd = "typing-session-end"
)

// 出站 event，由 server 發出
const (
	EventPresenceOnline       = "presence-online"
	EventPresenceOffline      = "presence-offline"
	EventRoomJoined           = "room-joined"
	EventPeerState            = "peer-state"
	EventChatMessage          = "chat-message"
	EventMessageAck           = "message-ack"
	EventMessageStatus        = "message-status"
	EventMessageSeen          = "message-seen"
	EventMessageSeenConfirmed = "message-seen-confirmed"
	EventTypingUpdate         = "typing-update"
	EventTypingStop           = "typing-stop"
	EventError                = "error"
)

// WSRequest WebSocket 請求格式
type WSRequest struct {
	Action    string         `json:"action"`
	UserID    string         `json:"user_id,omitempty"`
	RoomID    string         `json:"room_id,omitempty"`
	Content   string         `json:"content,omitempty"`
	MsgType   string         `json:"msg_type,omitempty"`
	Media     *MediaInfo     `json:"media,omitempty"`
	MessageID int64          `json:"message_id,omitempty"`
	Typing    *TypingPayload `json:"typing,omitempty"`
	Summary   *TypingSummary `json:"summary,omitempty"`
}

// WSResponse WebSocket 回應格式
type WSResponse struct {
	Action  string      `json:"action"`
	Success bool        `json:"success"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PeerState room-joined 時回報的對方狀態
type PeerState struct {
	UserID string `json:"user_id"`
	Online bool   `json:"online"`
}

// MessageStatusPayload message-status / message-seen 事件內容
type MessageStatusPayload struct {
	MessageID int64          `json:"message_id"`
	RoomID    string         `json:"room_id"`
	Status    DeliveryStatus `json:"status"`
	SeenBy    string         `json:"seen_by,omitempty"`
}

// TypingEventPayload typing-update / typing-stop 事件內容
type TypingEventPayload struct {
	RoomID string         `json:"room_id"`
	UserID string         `json:"user_id"`
	Typing *TypingPayload `json:"typing,omitempty"`
}
