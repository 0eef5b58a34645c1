package overtime

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OvertimeApi struct {
	controller *OvertimeController
	config     *config.Config
}

func NewOvertimeApi(controller *OvertimeController, config *config.Config) *OvertimeApi {
	return &OvertimeApi{
		controller: controller,
		config:     config,
	}
}

func (h *OvertimeApi) Setup(app *fiber.App) {
	overtime := app.Group("/api/overtime", middleware.AuthMiddleware(h.config.SkipAuth))

	overtime.Get("/", h.controller.ListMine)
	overtime.Get("/all", middleware.RequireElevatedRole(), h.controller.ListAll)
	overtime.Get("/:id", h.controller.Get)
	overtime.Post("/", h.controller.Create)
	overtime.Post("/:id/submit", h.controller.Submit)
}
