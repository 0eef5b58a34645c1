package report

import (
	"context"
	"fmt"
	"time"

	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApprovalReportRow is one exported line: a step joined with the acting
// approver's name.
type ApprovalReportRow struct {
	RequestKind  string
	RequestID    uint
	Level        int
	ApproverID   uint
	ApproverName string
	Status       approval.Status
	ActedAt      *time.Time
	Note         string
	CreatedAt    time.Time
}

type ReportService interface {
	// ExportApprovals renders the approval trail as an xlsx workbook.
	// Kind and status filter when non-empty; the date range bounds step
	// creation time.
	ExportApprovals(ctx context.Context, kind string, status approval.Status, from, to time.Time) (*excelize.File, error)
}

type ReportServiceImpl struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewReportService(gdb *database.GormDB, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{db: gdb.DB, logger: logger}
}

func (s *ReportServiceImpl) ExportApprovals(ctx context.Context, kind string, status approval.Status, from, to time.Time) (*excelize.File, error) {
	rows, err := s.queryRows(ctx, kind, status, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Approvals"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Kind", "Request ID", "Level", "Approver ID", "Approver", "Status", "Acted At", "Note", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "I1", headerStyle)
	}

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.RequestKind)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.RequestID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.Level)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.ApproverID)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), row.ApproverName)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), string(row.Status))
		if row.ActedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", r), row.ActedAt.Format(time.RFC3339))
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", r), row.Note)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", r), row.CreatedAt.Format(time.RFC3339))
	}

	f.SetColWidth(sheet, "A", "I", 18)

	s.logger.Info("approval report exported",
		zap.String("kind", kind),
		zap.Int("rows", len(rows)),
	)
	return f, nil
}

func (s *ReportServiceImpl) queryRows(ctx context.Context, kind string, status approval.Status, from, to time.Time) ([]ApprovalReportRow, error) {
	query := s.db.WithContext(ctx).
		Table("approval_steps").
		Select("approval_steps.request_kind, approval_steps.request_id, approval_steps.level, approval_steps.approver_id, users.name AS approver_name, approval_steps.status, approval_steps.acted_at, approval_steps.note, approval_steps.created_at").
		Joins("LEFT JOIN users ON users.id = approval_steps.approver_id").
		Order("approval_steps.request_kind, approval_steps.request_id, approval_steps.level")

	if kind != "" {
		query = query.Where("approval_steps.request_kind = ?", kind)
	}
	if status != "" {
		query = query.Where("approval_steps.status = ?", status)
	}
	if !from.IsZero() {
		query = query.Where("approval_steps.created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("approval_steps.created_at <= ?", to)
	}

	var rows []ApprovalReportRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
