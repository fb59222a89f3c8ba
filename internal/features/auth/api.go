package auth

import (
	"go-civic/internal/config"
	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	AuthController *AuthController
	Config         *config.Config
}

func NewAuthApi(authController *AuthController, cfg *config.Config) *AuthApi {
	return &AuthApi{
		AuthController: authController,
		Config:         cfg,
	}
}

func (api *AuthApi) Setup(app *fiber.App) {
	group := app.Group("/api/auth")

	group.Post("/login", api.AuthController.Login)
	group.Get("/me", middleware.AuthMiddleware(api.Config.SkipAuth), api.AuthController.Me)
}
