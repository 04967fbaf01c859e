package controller

import (
	"errors"

	"legifai-be/internal/dto"
	"legifai-be/internal/pkg/serverutils"
	"legifai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	GetSource(ctx *fiber.Ctx) error
}

type documentController struct {
	service   service.IDocumentService
	jwtSecret string
}

func NewDocumentController(service service.IDocumentService, jwtSecret string) IDocumentController {
	return &documentController{service: service, jwtSecret: jwtSecret}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("", c.Ingest)
	h.Get("/search", c.Search)
	h.Get("/sources/:source", c.GetSource)
}

func (c *documentController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestStatuteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Statute queued for ingestion", res))
}

func (c *documentController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchStatuteRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.UserContext(), req.Query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search statutes", res))
}

func (c *documentController) GetSource(ctx *fiber.Ctx) error {
	source := ctx.Params("source")
	res, err := c.service.GetSource(ctx.UserContext(), source, ctx.QueryInt("page", 1), ctx.QueryInt("page_size", 20))
	if errors.Is(err, service.ErrStatuteNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get statute", res))
}
