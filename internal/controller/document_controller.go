package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"pdf-qa-be/internal/pkg/serverutils"
	"pdf-qa-be/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IIngestionService
}

func NewDocumentController(service service.IIngestionService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("upload", c.Upload)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewInputError("Missing 'file' upload field.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return serverutils.NewInputError("Could not open uploaded file.")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return serverutils.NewInputError("Could not read uploaded file.")
	}

	res, err := c.service.IngestDocument(ctx.Context(), fileHeader.Filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Successfully indexed document", res))
}
