package notification

import (
	"go-civic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	NotificationService NotificationService
}

func NewNotificationController(notificationService NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// List returns the authenticated principal's notifications, newest first
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	limit := int64(c.QueryInt("limit", 50))
	notifications, err := ctrl.NotificationService.ListForRecipient(c.Context(), claims.UID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

// MarkRead marks one of the principal's notifications as read
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := ctrl.NotificationService.MarkRead(c.Context(), c.Params("id"), claims.UID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}
