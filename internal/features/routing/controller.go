package routing

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoutingController struct {
	RoutingService RoutingService
}

func NewRoutingController(routingService RoutingService) *RoutingController {
	return &RoutingController{RoutingService: routingService}
}

// ListRules returns every active routing rule
func (ctrl *RoutingController) ListRules(c *fiber.Ctx) error {
	rules, err := ctrl.RoutingService.ListActiveRules(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rules": rules})
}

// CreateRule stores a new routing rule
func (ctrl *RoutingController) CreateRule(c *fiber.Ctx) error {
	var rule RoutingRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if rule.Name == "" || rule.Script == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name and script are required"})
	}

	if err := ctrl.RoutingService.CreateRule(c.Context(), &rule); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// DeleteRule removes a routing rule
func (ctrl *RoutingController) DeleteRule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule ID"})
	}

	if err := ctrl.RoutingService.DeleteRule(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
