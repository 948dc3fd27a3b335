package app

import (
	"strconv"

	errprocess "chat_relay_service/pkg/err"
	"chat_relay_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// ChatRestHandler 处理聊天相关的 HTTP 请求
type ChatRestHandler struct {
	roomUC    *RoomUseCase
	messageUC *SendMessageUseCase
}

// NewChatRestHandler 创建新的 ChatRestHandler
func NewChatRestHandler(roomUC *RoomUseCase, messageUC *SendMessageUseCase) *ChatRestHandler {
	return &ChatRestHandler{
		roomUC:    roomUC,
		messageUC: messageUC,
	}
}

func statusOf(err error) int {
	switch {
	case errprocess.IsKind(err, errprocess.KindValidation):
		return fiber.StatusBadRequest
	case errprocess.IsKind(err, errprocess.KindAuthorization):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateRoom 建立 1對1 聊天室
// @Summary 建立 1對1 聊天室
// @Description 為自己與另一位 user 建立聊天室，已存在時回傳既有房間
// @Tags Rooms
// @Accept json
// @Produce json
// @Param request body object true "對方 user id 與房間名稱"
// @Success 200 {object} string "房間 id"
// @Failure 400 {object} string "请求错误"
// @Router /rooms [post]
func (h *ChatRestHandler) CreateRoom(c *fiber.Ctx) error {
	type request struct {
		PeerID string `json:"peer_id"`
		Name   string `json:"name"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	roomID, err := h.roomUC.ExecuteRoom(c.Context(), userID, req.PeerID, req.Name)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"room_id": roomID})
}

// ListRooms 取得自己的聊天室列表
// @Summary 取得自己的聊天室列表
// @Tags Rooms
// @Produce json
// @Success 200 {object} string "房間列表"
// @Router /rooms [get]
func (h *ChatRestHandler) ListRooms(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	rooms, err := h.roomUC.ListRooms(c.Context(), userID)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

// History 取得房間歷史訊息
// @Summary 取得房間歷史訊息
// @Description 依 id 降冪分頁，只有房間成員可讀
// @Tags Messages
// @Produce json
// @Param room_id path string true "房間 id"
// @Param limit query int false "筆數上限"
// @Param offset query int false "起始位移"
// @Success 200 {object} string "訊息列表"
// @Failure 403 {object} string "無權限"
// @Router /rooms/{room_id}/messages [get]
func (h *ChatRestHandler) History(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	roomID := c.Params("room_id")
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	msgs, err := h.messageUC.History(c.Context(), userID, roomID, limit, offset)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

// DeleteMessage 刪除自己發的訊息
// @Summary 刪除自己發的訊息
// @Description 硬刪除，只有發送者本人可刪
// @Tags Messages
// @Produce json
// @Param message_id path int true "訊息 id"
// @Success 200 {object} string "刪除成功"
// @Failure 400 {object} string "訊息不存在或非本人"
// @Router /messages/{message_id} [delete]
func (h *ChatRestHandler) DeleteMessage(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	messageID, err := strconv.ParseInt(c.Params("message_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid message id"})
	}

	if err := h.messageUC.Delete(c.Context(), userID, messageID); err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
