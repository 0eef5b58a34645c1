package leave

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeaveApi struct {
	controller *LeaveController
	config     *config.Config
}

func NewLeaveApi(controller *LeaveController, config *config.Config) *LeaveApi {
	return &LeaveApi{
		controller: controller,
		config:     config,
	}
}

func (h *LeaveApi) Setup(app *fiber.App) {
	leaves := app.Group("/api/leaves", middleware.AuthMiddleware(h.config.SkipAuth))

	leaves.Get("/", h.controller.ListMine)
	leaves.Get("/all", middleware.RequireElevatedRole(), h.controller.ListAll)
	leaves.Get("/balances", h.controller.Balances)
	leaves.Get("/:id", h.controller.Get)
	leaves.Post("/", h.controller.Create)
	leaves.Post("/:id/submit", h.controller.Submit)
}
