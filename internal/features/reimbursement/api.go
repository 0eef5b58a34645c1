package reimbursement

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReimbursementApi struct {
	controller *ReimbursementController
	config     *config.Config
}

func NewReimbursementApi(controller *ReimbursementController, config *config.Config) *ReimbursementApi {
	return &ReimbursementApi{
		controller: controller,
		config:     config,
	}
}

func (h *ReimbursementApi) Setup(app *fiber.App) {
	reimbursements := app.Group("/api/reimbursements", middleware.AuthMiddleware(h.config.SkipAuth))

	reimbursements.Get("/", h.controller.ListMine)
	reimbursements.Get("/all", middleware.RequireElevatedRole(), h.controller.ListAll)
	reimbursements.Get("/:id", h.controller.Get)
	reimbursements.Post("/", h.controller.Create)
	reimbursements.Post("/:id/submit", h.controller.Submit)
}
