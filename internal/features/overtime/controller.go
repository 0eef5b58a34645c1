package overtime

import (
	"errors"
	"strconv"

	"go-hrms/internal/features/approval"
	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type OvertimeController struct {
	Service OvertimeService
}

func NewOvertimeController(service OvertimeService) *OvertimeController {
	return &OvertimeController{Service: service}
}

// Create godoc
// @Summary      Create a draft overtime request
// @Tags         overtime
// @Accept       json
// @Produce      json
// @Param        input body CreateOvertimeInput true "Overtime details"
// @Success      201  {object} OvertimeRequest
// @Router       /api/overtime [post]
func (c *OvertimeController) Create(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	var input CreateOvertimeInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := c.Service.Create(ctx.Context(), claims.UserID, input)
	if err != nil {
		return respondOvertimeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(request)
}

// Submit godoc
// @Summary      Submit a draft overtime request for approval
// @Tags         overtime
// @Accept       json
// @Produce      json
// @Param        id path int true "Overtime request ID"
// @Param        input body SubmitOvertimeInput false "Optional explicit approver chain"
// @Success      200  {object} OvertimeRequest
// @Router       /api/overtime/{id}/submit [post]
func (c *OvertimeController) Submit(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid overtime request ID"})
	}

	var input SubmitOvertimeInput
	_ = ctx.BodyParser(&input) // Body is optional

	request, err := c.Service.Submit(ctx.Context(), uint(id), claims.UserID, input)
	if err != nil {
		return respondOvertimeError(ctx, err)
	}
	return ctx.JSON(request)
}

// Get godoc
// @Summary      Get one overtime request
// @Tags         overtime
// @Produce      json
// @Param        id path int true "Overtime request ID"
// @Success      200  {object} OvertimeRequest
// @Router       /api/overtime/{id} [get]
func (c *OvertimeController) Get(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid overtime request ID"})
	}

	request, err := c.Service.Get(ctx.Context(), uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(request)
}

// ListMine godoc
// @Summary      List the acting user's overtime requests
// @Tags         overtime
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/overtime [get]
func (c *OvertimeController) ListMine(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	page, limit := pagination(ctx)

	requests, total, err := c.Service.ListMine(ctx.Context(), claims.UserID, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": requests, "total": total, "page": page, "limit": limit})
}

// ListAll godoc
// @Summary      List all overtime requests (elevated roles)
// @Tags         overtime
// @Produce      json
// @Param        status query string false "Filter by status"
// @Success      200  {object} map[string]interface{}
// @Router       /api/overtime/all [get]
func (c *OvertimeController) ListAll(ctx *fiber.Ctx) error {
	page, limit := pagination(ctx)
	status := approval.Status(ctx.Query("status"))

	requests, total, err := c.Service.List(ctx.Context(), status, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": requests, "total": total, "page": page, "limit": limit})
}

func pagination(ctx *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func respondOvertimeError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotOwner):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotDraft), errors.Is(err, approval.ErrChainAlreadyExists):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidHours), errors.Is(err, ErrNoApprovers), errors.Is(err, approval.ErrInvalidChain):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
