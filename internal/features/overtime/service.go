package overtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotDraft     = errors.New("overtime request is not in draft")
	ErrNotOwner     = errors.New("overtime request belongs to another employee")
	ErrInvalidHours = errors.New("hours must be between 0.5 and 12")
	ErrNoApprovers  = errors.New("no approvers available for this employee")
)

const maxChainDepth = 2

type CreateOvertimeInput struct {
	Date   time.Time `json:"date"`
	Hours  float64   `json:"hours"`
	Reason string    `json:"reason"`
}

type SubmitOvertimeInput struct {
	ApproverIDs []uint `json:"approver_ids,omitempty"`
}

type OvertimeService interface {
	Create(ctx context.Context, employeeID uint, input CreateOvertimeInput) (*OvertimeRequest, error)
	Submit(ctx context.Context, id uint, employeeID uint, input SubmitOvertimeInput) (*OvertimeRequest, error)
	Get(ctx context.Context, id uint) (*OvertimeRequest, error)
	ListMine(ctx context.Context, employeeID uint, page, limit int) ([]OvertimeRequest, int64, error)
	List(ctx context.Context, status approval.Status, page, limit int) ([]OvertimeRequest, int64, error)
}

type OvertimeServiceImpl struct {
	repo      OvertimeRepository
	users     user.UserRepository
	approvals approval.ApprovalService
	logger    *zap.Logger
}

func NewOvertimeService(repo OvertimeRepository, users user.UserRepository, approvals approval.ApprovalService, logger *zap.Logger) OvertimeService {
	return &OvertimeServiceImpl{
		repo:      repo,
		users:     users,
		approvals: approvals,
		logger:    logger,
	}
}

func (s *OvertimeServiceImpl) Create(ctx context.Context, employeeID uint, input CreateOvertimeInput) (*OvertimeRequest, error) {
	if input.Hours < 0.5 || input.Hours > 12 {
		return nil, ErrInvalidHours
	}

	request := &OvertimeRequest{
		RequestNo:  fmt.Sprintf("OT-%s", uuid.NewString()[:8]),
		EmployeeID: employeeID,
		Date:       input.Date,
		Hours:      input.Hours,
		Reason:     input.Reason,
		Status:     approval.StatusDraft,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("overtime request created",
		zap.String("requestNo", request.RequestNo),
		zap.Uint("employeeId", employeeID),
		zap.Float64("hours", input.Hours),
	)
	return request, nil
}

func (s *OvertimeServiceImpl) Submit(ctx context.Context, id uint, employeeID uint, input SubmitOvertimeInput) (*OvertimeRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.EmployeeID != employeeID {
		return nil, ErrNotOwner
	}
	if request.Status != approval.StatusDraft {
		return nil, ErrNotDraft
	}

	approverIDs := input.ApproverIDs
	if len(approverIDs) == 0 {
		approverIDs, err = s.users.ManagerChain(ctx, employeeID, maxChainDepth)
		if err != nil {
			return nil, err
		}
	}
	if len(approverIDs) == 0 {
		return nil, ErrNoApprovers
	}

	if _, err := s.approvals.CreateChain(ctx, request.Ref(), approverIDs); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *OvertimeServiceImpl) Get(ctx context.Context, id uint) (*OvertimeRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OvertimeServiceImpl) ListMine(ctx context.Context, employeeID uint, page, limit int) ([]OvertimeRequest, int64, error) {
	return s.repo.ListByEmployee(ctx, employeeID, page, limit)
}

func (s *OvertimeServiceImpl) List(ctx context.Context, status approval.Status, page, limit int) ([]OvertimeRequest, int64, error) {
	return s.repo.List(ctx, status, page, limit)
}
