package report

import (
	"fmt"
	"time"

	"go-hrms/internal/features/approval"
	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{Service: service}
}

// ExportApprovals godoc
// @Summary      Export the approval trail as an Excel workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        kind query string false "Request kind"
// @Param        status query string false "Step status"
// @Param        from query string false "From date (RFC3339)"
// @Param        to query string false "To date (RFC3339)"
// @Success      200  {file} file
// @Router       /api/reports/approvals/export [get]
func (c *ReportController) ExportApprovals(ctx *fiber.Ctx) error {
	kind := ctx.Query("kind")
	status := approval.Status(ctx.Query("status"))

	var from, to time.Time
	if v := ctx.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from date"})
		}
		from = parsed
	}
	if v := ctx.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to date"})
		}
		to = parsed
	}

	file, err := c.Service.ExportApprovals(ctx.Context(), kind, status, from, to)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	name := "approvals"
	if kind != "" {
		name = "approvals-" + utils.Slugify(kind)
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

	return file.Write(ctx.Response().BodyWriter())
}
