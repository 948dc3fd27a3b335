package app

import (
	"chat_relay_service/internal/user/domain"
	errprocess "chat_relay_service/pkg/err"
	"chat_relay_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler 处理用户相关的 HTTP 请求
type UserHandler struct {
	userUC UserUseCase
}

// NewUserHandler 创建新的 UserHandler
func NewUserHandler(userUC UserUseCase) *UserHandler {
	return &UserHandler{userUC: userUC}
}

// Register 注册新用户
// @Summary 注册新用户
// @Description 处理用户注册请求
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} string "注册成功"
// @Failure 400 {object} string "请求错误"
// @Router /user/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Info("Register request", zap.String("email", req.Email))

	if err := h.userUC.Register(c.Context(), req.Email, req.Password); err != nil {
		if errprocess.IsKind(err, errprocess.KindValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "register success"})
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户通过邮箱和密码登录
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} string "登录成功"
// @Failure 401 {object} string "登录失败"
// @Router /user/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	jwt, err := h.userUC.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"token": jwt})
}

// Logout 用户登出
// @Summary 用户登出
// @Tags Users
// @Produce json
// @Success 200 {object} string "登出成功"
// @Router /user/logout [post]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	t := c.Get("Authorization")
	if len(t) > 7 && t[:7] == "Bearer " {
		t = t[7:]
	}

	if err := h.userUC.Logout(c.Context(), t); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "logout success"})
}

// FindByEmail 用邮箱查找用户
// @Summary 用邮箱查找用户
// @Tags Users
// @Produce json
// @Param email query string true "邮箱"
// @Success 200 {object} string "用户资料"
// @Failure 404 {object} string "查无此人"
// @Router /user/find [get]
func (h *UserHandler) FindByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	user, err := h.userUC.FindUser(c.Context(), &domain.UserQuery{Email: &email})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"user_id":        user.UserID,
		"email":          user.Email,
		"last_active_at": user.LastActiveAt,
	})
}
