package controller

import (
	"context"

	"legifai-be/internal/dto"
	"legifai-be/internal/pkg/logger"
	"legifai-be/internal/pkg/serverutils"
	"legifai-be/internal/service"
	internalWS "legifai-be/internal/websocket"
	"legifai-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Invoke(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type chatController struct {
	service   service.IChatService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewChatController(service service.IChatService, hub *internalWS.Hub, jwtSecret string, logger logger.ILogger) IChatController {
	return &chatController{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("/invoke", c.Invoke)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions/:session_id", c.GetSession)
	h.Delete("/sessions/:session_id", c.DeleteSession)
	h.Get("/ws", c.ServeWs)
}

func (c *chatController) Invoke(ctx *fiber.Ctx) error {
	var req dto.InvokeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Invoke(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success invoke consultation", res))
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetHistory(ctx.UserContext(), ctx.Params("session_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.service.ClearSession(ctx.UserContext(), ctx.Params("session_id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear session", nil))
}

// ServeWs upgrades to a chat socket bound to the session_id query parameter.
func (c *chatController) ServeWs(ctx *fiber.Ctx) error {
	sessionID := ctx.Query("session_id")
	if err := store.ValidateSessionID(sessionID); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("ChatController", "Starting chat socket", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeChat(context.Background(), c.hub, conn, sessionID, c.turn)
		c.logger.Info("ChatController", "Chat socket ended", map[string]interface{}{"session_id": sessionID})
	})(ctx)
}

func (c *chatController) turn(ctx context.Context, sessionID, message string) (*dto.InvokeResponse, error) {
	req := dto.InvokeRequest{SessionId: sessionID, Message: message}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return c.service.Invoke(ctx, &req)
}
