package reimbursement

import (
	"errors"
	"strconv"

	"go-hrms/internal/features/approval"
	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ReimbursementController struct {
	Service ReimbursementService
}

func NewReimbursementController(service ReimbursementService) *ReimbursementController {
	return &ReimbursementController{Service: service}
}

// Create godoc
// @Summary      Create a draft reimbursement claim
// @Tags         reimbursements
// @Accept       json
// @Produce      json
// @Param        input body CreateReimbursementInput true "Claim details"
// @Success      201  {object} ReimbursementRequest
// @Router       /api/reimbursements [post]
func (c *ReimbursementController) Create(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	var input CreateReimbursementInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := c.Service.Create(ctx.Context(), claims.UserID, input)
	if err != nil {
		return respondReimbursementError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(request)
}

// Submit godoc
// @Summary      Submit a draft reimbursement claim for approval
// @Description  High-value claims get one extra approval level
// @Tags         reimbursements
// @Accept       json
// @Produce      json
// @Param        id path int true "Reimbursement ID"
// @Param        input body SubmitReimbursementInput false "Optional explicit approver chain"
// @Success      200  {object} ReimbursementRequest
// @Router       /api/reimbursements/{id}/submit [post]
func (c *ReimbursementController) Submit(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reimbursement ID"})
	}

	var input SubmitReimbursementInput
	_ = ctx.BodyParser(&input) // Body is optional

	request, err := c.Service.Submit(ctx.Context(), uint(id), claims.UserID, input)
	if err != nil {
		return respondReimbursementError(ctx, err)
	}
	return ctx.JSON(request)
}

// Get godoc
// @Summary      Get one reimbursement claim
// @Tags         reimbursements
// @Produce      json
// @Param        id path int true "Reimbursement ID"
// @Success      200  {object} ReimbursementRequest
// @Router       /api/reimbursements/{id} [get]
func (c *ReimbursementController) Get(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reimbursement ID"})
	}

	request, err := c.Service.Get(ctx.Context(), uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(request)
}

// ListMine godoc
// @Summary      List the acting user's reimbursement claims
// @Tags         reimbursements
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/reimbursements [get]
func (c *ReimbursementController) ListMine(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	page, limit := pagination(ctx)

	requests, total, err := c.Service.ListMine(ctx.Context(), claims.UserID, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": requests, "total": total, "page": page, "limit": limit})
}

// ListAll godoc
// @Summary      List all reimbursement claims (elevated roles)
// @Tags         reimbursements
// @Produce      json
// @Param        status query string false "Filter by status"
// @Success      200  {object} map[string]interface{}
// @Router       /api/reimbursements/all [get]
func (c *ReimbursementController) ListAll(ctx *fiber.Ctx) error {
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

func respondReimbursementError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotOwner):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotDraft), errors.Is(err, approval.ErrChainAlreadyExists):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrMissingReceipt),
		errors.Is(err, ErrNoApprovers), errors.Is(err, approval.ErrInvalidChain):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
