package controller

import (
	"github.com/gofiber/fiber/v2"

	"pdf-qa-be/internal/dto"
	"pdf-qa-be/internal/pkg/serverutils"
	"pdf-qa-be/internal/service"
)

type IQAController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type qaController struct {
	service service.IQAService
}

func NewQAController(service service.IQAService) IQAController {
	return &qaController{service: service}
}

func (c *qaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/qa/v1")
	h.Post("ask", c.Ask)
}

func (c *qaController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInputError("Invalid request body.")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Successfully generated answer", res))
}
