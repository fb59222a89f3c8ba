package routing

import (
	"go-civic/internal/config"
	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoutingApi struct {
	RoutingController *RoutingController
	Config            *config.Config
}

func NewRoutingApi(routingController *RoutingController, cfg *config.Config) *RoutingApi {
	return &RoutingApi{
		RoutingController: routingController,
		Config:            cfg,
	}
}

func (api *RoutingApi) Setup(app *fiber.App) {
	group := app.Group("/api/routing/rules",
		middleware.AuthMiddleware(api.Config.SkipAuth),
		middleware.RequireRole(api.Config.SkipAuth, "admin"))

	group.Get("/", api.RoutingController.ListRules)
	group.Post("/", api.RoutingController.CreateRule)
	group.Delete("/:id", api.RoutingController.DeleteRule)
}
