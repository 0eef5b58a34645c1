package notification

import (
	"strconv"

	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

// List godoc
// @Summary      List the user's notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/notifications [get]
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "10"), 10, 64)

	notifications, total, err := c.service.GetUserNotifications(ctx.Context(), claims.UserID, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":  notifications,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUnreadCount godoc
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object} map[string]int64
// @Router       /api/notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	count, err := c.service.GetUnreadCount(ctx.Context(), claims.UserID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"count": count})
}

// MarkAsRead godoc
// @Summary      Mark one notification as read
// @Tags         notifications
// @Param        id path string true "Notification ID (hex)"
// @Success      200  {object} map[string]string
// @Router       /api/notifications/{id}/read [post]
func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	id := ctx.Params("id")
	if err := c.service.MarkAsRead(ctx.Context(), id, claims.UserID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// MarkAllAsRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Success      200  {object} map[string]string
// @Router       /api/notifications/read-all [post]
func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	if err := c.service.MarkAllAsRead(ctx.Context(), claims.UserID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
