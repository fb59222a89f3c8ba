package notification

import (
	"go-civic/internal/config"
	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	NotificationController *NotificationController
	Config                 *config.Config
}

func NewNotificationApi(notificationController *NotificationController, cfg *config.Config) *NotificationApi {
	return &NotificationApi{
		NotificationController: notificationController,
		Config:                 cfg,
	}
}

func (api *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", api.NotificationController.List)
	group.Put("/:id/read", api.NotificationController.MarkRead)
}
