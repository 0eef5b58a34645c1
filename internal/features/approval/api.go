package approval

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalApi struct {
	controller *ApprovalController
	config     *config.Config
}

func NewApprovalApi(controller *ApprovalController, config *config.Config) *ApprovalApi {
	return &ApprovalApi{
		controller: controller,
		config:     config,
	}
}

func (h *ApprovalApi) Setup(app *fiber.App) {
	approvals := app.Group("/api/approvals", middleware.AuthMiddleware(h.config.SkipAuth))

	// Actions are protected by logic inside the engine (approver match or
	// admin override), so AuthMiddleware is the base requirement
	approvals.Get("/pending", h.controller.Pending)
	approvals.Get("/:kind/:id/steps", h.controller.Steps)
	approvals.Post("/:kind/:id/approve", h.controller.Approve)
	approvals.Post("/:kind/:id/reject", h.controller.Reject)
}
