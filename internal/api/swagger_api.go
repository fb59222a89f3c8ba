package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// SwaggerApi serves the generated console API docs under /swagger.
type SwaggerApi struct{}

func NewSwaggerApi() *SwaggerApi {
	return &SwaggerApi{}
}

// Setup mounts the Swagger UI over the spec registered by the docs package.
func (h *SwaggerApi) Setup(app *fiber.App) {
	app.Get("/swagger/*", swagger.HandlerDefault)
}
