package leave

import (
	"errors"
	"strconv"
	"time"

	"go-hrms/internal/features/approval"
	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type LeaveController struct {
	Service LeaveService
}

func NewLeaveController(service LeaveService) *LeaveController {
	return &LeaveController{Service: service}
}

// Create godoc
// @Summary      Create a draft leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        input body CreateLeaveInput true "Leave details"
// @Success      201  {object} LeaveRequest
// @Router       /api/leaves [post]
func (c *LeaveController) Create(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	var input CreateLeaveInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := c.Service.Create(ctx.Context(), claims.UserID, input)
	if err != nil {
		return respondLeaveError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(request)
}

// Submit godoc
// @Summary      Submit a draft leave request for approval
// @Description  Derives the approver chain from the org hierarchy unless approver_ids is given
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        id path int true "Leave request ID"
// @Param        input body SubmitLeaveInput false "Optional explicit approver chain"
// @Success      200  {object} LeaveRequest
// @Router       /api/leaves/{id}/submit [post]
func (c *LeaveController) Submit(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	var input SubmitLeaveInput
	_ = ctx.BodyParser(&input) // Body is optional

	request, err := c.Service.Submit(ctx.Context(), uint(id), claims.UserID, input)
	if err != nil {
		return respondLeaveError(ctx, err)
	}
	return ctx.JSON(request)
}

// Get godoc
// @Summary      Get one leave request
// @Tags         leaves
// @Produce      json
// @Param        id path int true "Leave request ID"
// @Success      200  {object} LeaveRequest
// @Router       /api/leaves/{id} [get]
func (c *LeaveController) Get(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	request, err := c.Service.Get(ctx.Context(), uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(request)
}

// ListMine godoc
// @Summary      List the acting user's leave requests
// @Tags         leaves
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/leaves [get]
func (c *LeaveController) ListMine(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	page, limit := pagination(ctx)

	requests, total, err := c.Service.ListMine(ctx.Context(), claims.UserID, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": requests, "total": total, "page": page, "limit": limit})
}

// ListAll godoc
// @Summary      List all leave requests (elevated roles)
// @Tags         leaves
// @Produce      json
// @Param        status query string false "Filter by status"
// @Success      200  {object} map[string]interface{}
// @Router       /api/leaves/all [get]
func (c *LeaveController) ListAll(ctx *fiber.Ctx) error {
	page, limit := pagination(ctx)
	status := approval.Status(ctx.Query("status"))

	requests, total, err := c.Service.List(ctx.Context(), status, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": requests, "total": total, "page": page, "limit": limit})
}

// Balances godoc
// @Summary      List the acting user's leave balances for a year
// @Tags         leaves
// @Produce      json
// @Param        year query int false "Year (defaults to current)"
// @Success      200  {array} LeaveBalance
// @Router       /api/leaves/balances [get]
func (c *LeaveController) Balances(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		year = time.Now().Year()
	}

	balances, err := c.Service.Balances(ctx.Context(), claims.UserID, year)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(balances)
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

func respondLeaveError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotOwner):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotDraft), errors.Is(err, approval.ErrChainAlreadyExists):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidDateRange), errors.Is(err, ErrInsufficientBalance), errors.Is(err, ErrNoApprovers), errors.Is(err, approval.ErrInvalidChain):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
