package controller

import (
	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(app fiber.Router)
	Health(ctx *fiber.Ctx) error
	Info(ctx *fiber.Ctx) error
}

type healthController struct {
	storeKind string
}

// NewHealthController reports liveness along with the configured session
// store kind.
func NewHealthController(storeKind string) IHealthController {
	return &healthController{storeKind: storeKind}
}

func (c *healthController) RegisterRoutes(app fiber.Router) {
	app.Get("/health", c.Health)
	app.Get("/api", c.Info)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":  "healthy",
		"service": "LegifAI",
		"store":   c.storeKind,
	})
}

func (c *healthController) Info(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"message":     "Welcome to LegifAI - Legal Consultation API",
		"description": "A legal consultation assistant grounded on Spanish statutes",
		"endpoints": fiber.Map{
			"invoke":    "POST /api/chat/v1/invoke",
			"sessions":  "POST /api/chat/v1/sessions, GET|DELETE /api/chat/v1/sessions/:session_id",
			"websocket": "GET /api/chat/v1/ws?session_id=...",
			"documents": "POST /api/documents/v1, GET /api/documents/v1/search?q=...",
		},
	})
}
