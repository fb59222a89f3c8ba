package live

import (
	"go-civic/internal/config"
	"go-civic/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type LiveApi struct {
	LiveController *LiveController
	Config         *config.Config
}

func NewLiveApi(liveController *LiveController, cfg *config.Config) *LiveApi {
	return &LiveApi{
		LiveController: liveController,
		Config:         cfg,
	}
}

// Setup registers the push channel. The upgrade sits behind the same JWT and
// role gates as the report reads it mirrors.
func (api *LiveApi) Setup(app *fiber.App) {
	app.Get("/api/live/reports",
		middleware.AuthMiddleware(api.Config.SkipAuth),
		middleware.RequireRole(api.Config.SkipAuth, "admin", "supervisor"),
		websocket.New(api.LiveController.HandleWebSocket))
}
