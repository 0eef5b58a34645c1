package audit

import (
	"strconv"

	common_models "go-hrms/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// List godoc
// @Summary      Query the audit trail
// @Tags         audit
// @Produce      json
// @Param        kind query string false "Request kind"
// @Param        request_id query int false "Request ID"
// @Param        actor_id query int false "Actor ID"
// @Param        action query string false "Audit action"
// @Success      200  {object} map[string]interface{}
// @Router       /api/audit [get]
func (c *AuditController) List(ctx *fiber.Ctx) error {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	requestID, _ := strconv.ParseUint(ctx.Query("request_id", "0"), 10, 32)
	actorID, _ := strconv.ParseUint(ctx.Query("actor_id", "0"), 10, 32)

	filter := Filter{
		RequestKind: ctx.Query("kind"),
		RequestID:   uint(requestID),
		ActorID:     uint(actorID),
		Action:      common_models.AuditAction(ctx.Query("action")),
	}

	entries, total, err := c.Service.List(ctx.Context(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": entries, "total": total, "page": page, "limit": limit})
}

// Trail godoc
// @Summary      Full audit trail of one request
// @Tags         audit
// @Produce      json
// @Param        kind path string true "Request kind"
// @Param        id path int true "Request ID"
// @Success      200  {array} common_models.AuditLog
// @Router       /api/audit/{kind}/{id} [get]
func (c *AuditController) Trail(ctx *fiber.Ctx) error {
	kind := ctx.Params("kind")
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || kind == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request reference"})
	}

	entries, err := c.Service.Trail(ctx.Context(), kind, uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(entries)
}
