package controller

import (
	"github.com/gofiber/fiber/v2"

	"pdf-qa-be/internal/pkg/serverutils"
	"pdf-qa-be/internal/service"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Check(ctx *fiber.Ctx) error
}

type healthController struct {
	service service.IQAService
}

func NewHealthController(service service.IQAService) IHealthController {
	return &healthController{service: service}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health/v1")
	h.Get("", c.Check)
}

// Check reports liveness regardless of index state.
func (c *healthController) Check(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Service is healthy", c.service.Health(ctx.Context())))
}
