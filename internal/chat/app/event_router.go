package app

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/registry"
	"chat_relay_service/internal/chat/repository"
	"chat_relay_service/pkg/logger"
	"chat_relay_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventRouter 是 WebSocket 事件的進入與分派點
type EventRouter struct {
	roomUC     *RoomUseCase
	messageUC  *SendMessageUseCase
	deliveryUC *DeliveryUseCase
	typing     *TypingBroadcaster
	guard      *RoomGuard
	registry   *registry.Registry
	pubSub     repository.EventPubSub
}

// NewEventRouter create EventRouter
func NewEventRouter(
	roomUC *RoomUseCase,
	messageUC *SendMessageUseCase,
	deliveryUC *DeliveryUseCase,
	typing *TypingBroadcaster,
	guard *RoomGuard,
	reg *registry.Registry,
	pubSub repository.EventPubSub,
) *EventRouter {
	return &EventRouter{
		roomUC:     roomUC,
		messageUC:  messageUC,
		deliveryUC: deliveryUC,
		typing:     typing,
		guard:      guard,
		registry:   reg,
		pubSub:     pubSub,
	}
}

// connState 單一連線的狀態，由讀取 goroutine 獨佔
type connState struct {
	conn       *websocket.Conn
	connID     string
	userID     string
	identified bool
	roomCancel context.CancelFunc
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *EventRouter) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUser := conn.Locals(middlewares.TokenUserID)
	userID, ok := tokenUser.(string)
	logger.Log.Info("websocket handle userID", zap.String("userID", userID), zap.String("ok", strconv.FormatBool(ok)))

	st := &connState{
		conn:   conn,
		connID: uuid.New().String(),
		userID: userID,
	}

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.String("userID", userID))
		conn.Close()
		cancel()
		if st.roomCancel != nil {
			st.roomCancel()
		}
		// 斷線時補發 typing-stop 並清掉 throttle key，對端不會卡在輸入中
		if sess := h.registry.Resolve(st.userID); sess != nil && sess.ConnID == st.connID && sess.RoomID != "" {
			h.typing.Stop(context.Background(), st.userID, sess.RoomID)
		}
		// 只有仍持有此連線的 user 會被下線；被新連線取代時不廣播
		if gone := h.registry.SetOffline(st.connID); gone != "" {
			h.broadcastPresence(domain.EventPresenceOffline, gone)
		}
	}()

	//client發出close
	//fiber會自動處理(在read msg 回傳err),故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	//server發出ping之後client連線正常會回pong
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})

	//client發出ping
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	//啟用sub訂閱自己的訊息
	h.pubSub.Subscribe(ctxClose, repository.UserChannel(userID), func(resp domain.WSResponse) {
		h.sendResponse(conn, resp)
	})

	//訂閱全域上下線事件，自己的不用回給自己
	h.pubSub.Subscribe(ctxClose, repository.PresenceChannel, func(resp domain.WSResponse) {
		if p, ok := resp.Payload.(map[string]interface{}); ok {
			if uid, ok := p["user_id"].(string); ok && uid == userID {
				return
			}
		}
		h.sendResponse(conn, resp)
	})

	// 定期發送 Ping
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, []byte("ping message")); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			h.sendError(conn, "unknown message type")
			continue
		}
		h.dispatch(ctx, st, message)
	}
}

// dispatch 解析請求並分派到對應的 usecase
func (h *EventRouter) dispatch(ctx context.Context, st *connState, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		h.sendError(st.conn, "invalid request")
		return
	}

	// typing 三個 action 靜默處理，不回覆任何事件
	switch req.Action {
	case domain.ActionTypingUpdate:
		if st.identified {
			h.typing.Update(ctx, st.userID, req.RoomID, req.Typing)
		}
		return
	case domain.ActionTypingStop:
		if st.identified {
			h.typing.Stop(ctx, st.userID, req.RoomID)
		}
		return
	case domain.ActionTypingSessionEnd:
		if st.identified {
			h.typing.SessionEnd(ctx, st.userID, req.RoomID, req.Summary)
		}
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false}

	if req.Action != domain.ActionIdentify && !st.identified {
		resp.Error = "not identified"
		h.sendResponse(st.conn, resp)
		return
	}

	switch req.Action {
	case domain.ActionIdentify:
		// 宣告的 user 必須與 token 一致
		if req.UserID != "" && req.UserID != st.userID {
			resp.Error = "identity mismatch"
			break
		}
		h.registry.SetOnline(st.userID, st.connID)
		st.identified = true
		h.broadcastPresence(domain.EventPresenceOnline, st.userID)
		resp.Success = true
		resp.Payload = map[string]interface{}{"user_id": st.userID}

	case domain.ActionJoinRoom:
		room, err := h.guard.Authorize(ctx, st.userID, req.RoomID)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		h.registry.JoinRoom(st.userID, req.RoomID)
		h.subscribeRoom(st, req.RoomID)

		// 通知房間對方有人進房，自己的會被 channel filter 擋掉
		joinNotice := domain.WSResponse{
			Action:  domain.EventPeerState,
			Success: true,
			Payload: domain.PeerState{UserID: st.userID, Online: true},
		}
		if err := h.pubSub.Publish(repository.RoomChannel(req.RoomID), joinNotice); err != nil {
			logger.Log.Warn("publish peer state failed", zap.Error(err))
		}

		peers := make([]domain.PeerState, 0, 1)
		for _, p := range room.PeersOf(st.userID) {
			peers = append(peers, domain.PeerState{UserID: p, Online: h.registry.IsOnline(p)})
		}
		resp.Action = domain.EventRoomJoined
		resp.Success = true
		resp.Payload = map[string]interface{}{
			"room_id":    room.ID,
			"peer_state": peers,
		}

	case domain.ActionSendMessage:
		draft := domain.MessageDraft{
			RoomID:   req.RoomID,
			SenderID: st.userID,
			Content:  req.Content,
			Media:    req.Media,
		}
		msgType, err := domain.ParseMessageType(req.MsgType)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		draft.Type = msgType

		sent, err := h.messageUC.Execute(ctx, draft)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Action = domain.EventMessageAck
		resp.Success = true
		resp.Payload = domain.MessageStatusPayload{
			MessageID: sent.ID,
			RoomID:    sent.RoomID,
			Status:    domain.StatusSent,
		}

	case domain.ActionDeliveryConfirm:
		if err := h.deliveryUC.ConfirmDelivered(ctx, req.MessageID); err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Success = true

	case domain.ActionSeenConfirm:
		if err := h.deliveryUC.ConfirmSeen(ctx, req.MessageID, st.userID); err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Success = true

	default:
		resp.Error = "unknown action"
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err ",
			zap.String("UserID", st.userID),
			zap.String("Action", req.Action),
			zap.String("err", resp.Error),
		)
	}
	h.sendResponse(st.conn, resp)
}

// subscribeRoom 訂閱房間 channel，換房時取消舊訂閱
func (h *EventRouter) subscribeRoom(st *connState, roomID string) {
	if st.roomCancel != nil {
		st.roomCancel()
	}
	roomCtx, cancel := context.WithCancel(context.Background())
	st.roomCancel = cancel

	ownID := st.userID
	h.pubSub.Subscribe(roomCtx, repository.RoomChannel(roomID), func(resp domain.WSResponse) {
		// 自己產生的房間事件不用回給自己
		if p, ok := resp.Payload.(map[string]interface{}); ok {
			if uid, ok := p["user_id"].(string); ok && uid == ownID {
				return
			}
		}
		h.sendResponse(st.conn, resp)
	})
}

// broadcastPresence 上下線事件廣播到 presence channel
func (h *EventRouter) broadcastPresence(action, userID string) {
	resp := domain.WSResponse{
		Action:  action,
		Success: true,
		Payload: domain.PeerState{
			UserID: userID,
			Online: action == domain.EventPresenceOnline,
		},
	}
	if err := h.pubSub.Publish(repository.PresenceChannel, resp); err != nil {
		logger.Log.Warn("publish presence failed", zap.Error(err))
	}
}

// sendResponse - 發送 JSON 給前端
func (h *EventRouter) sendResponse(conn *websocket.Conn, resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *EventRouter) sendError(conn *websocket.Conn, errorMsg string) {
	h.sendResponse(conn, domain.WSResponse{
		Action:  domain.EventError,
		Success: false,
		Error:   errorMsg,
	})
}
