package system

import (
	"time"

	"go-hrms/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	started time.Time
}

func NewHealthApi() api.Route {
	return &HealthApi{started: time.Now()}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": time.Since(h.started).String(),
		})
	})
}
