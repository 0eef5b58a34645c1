package approval

import (
	"errors"
	"strconv"

	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ApprovalController struct {
	Service ApprovalService
}

func NewApprovalController(service ApprovalService) *ApprovalController {
	return &ApprovalController{Service: service}
}

type ApproveBody struct {
	Note      string `json:"note"`
	Signature string `json:"signature"`
}

type RejectBody struct {
	Reason string `json:"reason"`
}

// Approve godoc
// @Summary      Approve the current step of a request
// @Description  Finalizes the pending step at the request's current level and advances or completes the chain
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        kind path string true "Request kind (leave, overtime, reimbursement)"
// @Param        id path int true "Request ID"
// @Param        input body ApproveBody false "Optional note and signature"
// @Success      200  {object} Decision
// @Failure      403  {string} string "Forbidden"
// @Failure      409  {string} string "No actionable step"
// @Router       /api/approvals/{kind}/{id}/approve [post]
func (c *ApprovalController) Approve(ctx *fiber.Ctx) error {
	ref, err := parseRef(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body ApproveBody
	_ = ctx.BodyParser(&body) // Body is optional for approve

	actor := actorFromClaims(ctx)
	dec, err := c.Service.Approve(ctx.Context(), ref, actor, ActionInput{Note: body.Note, Signature: body.Signature})
	if err != nil {
		return respondActionError(ctx, err)
	}
	return ctx.JSON(dec)
}

// Reject godoc
// @Summary      Reject the current step of a request
// @Description  Terminates the chain, voiding every unreached step; requires a reason
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        kind path string true "Request kind"
// @Param        id path int true "Request ID"
// @Param        input body RejectBody true "Rejection reason"
// @Success      200  {object} Decision
// @Failure      403  {string} string "Forbidden"
// @Router       /api/approvals/{kind}/{id}/reject [post]
func (c *ApprovalController) Reject(ctx *fiber.Ctx) error {
	ref, err := parseRef(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body RejectBody
	if err := ctx.BodyParser(&body); err != nil || body.Reason == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rejection reason is required"})
	}

	actor := actorFromClaims(ctx)
	dec, err := c.Service.Reject(ctx.Context(), ref, actor, body.Reason)
	if err != nil {
		return respondActionError(ctx, err)
	}
	return ctx.JSON(dec)
}

// Steps godoc
// @Summary      List the approval chain of a request
// @Tags         approvals
// @Produce      json
// @Param        kind path string true "Request kind"
// @Param        id path int true "Request ID"
// @Success      200  {array} Step
// @Router       /api/approvals/{kind}/{id}/steps [get]
func (c *ApprovalController) Steps(ctx *fiber.Ctx) error {
	ref, err := parseRef(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	steps, err := c.Service.Steps(ctx.Context(), ref)
	if err != nil {
		return respondActionError(ctx, err)
	}
	return ctx.JSON(steps)
}

// Pending godoc
// @Summary      List the acting user's actionable steps
// @Tags         approvals
// @Produce      json
// @Success      200  {array} Step
// @Router       /api/approvals/pending [get]
func (c *ApprovalController) Pending(ctx *fiber.Ctx) error {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	steps, err := c.Service.PendingForApprover(ctx.Context(), claims.UserID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(steps)
}

func parseRef(ctx *fiber.Ctx) (RequestRef, error) {
	kind := ctx.Params("kind")
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || kind == "" {
		return RequestRef{}, errors.New("invalid request reference")
	}
	return RequestRef{Kind: kind, ID: uint(id)}, nil
}

func actorFromClaims(ctx *fiber.Ctx) Actor {
	claims := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	return Actor{
		ID:          claims.UserID,
		DisplayName: claims.Name,
		Roles:       claims.Roles,
	}
}

// respondActionError maps the engine's error taxonomy onto HTTP statuses.
func respondActionError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUnauthorizedRejection):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNoActionableStep), errors.Is(err, ErrChainAlreadyExists):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "retryable": true})
	case errors.Is(err, ErrInvalidChain), errors.Is(err, ErrReasonRequired):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownRequestKind):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
