package leave

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
	ErrNotDraft            = errors.New("leave request is not in draft")
	ErrNotOwner            = errors.New("leave request belongs to another employee")
	ErrInvalidDateRange    = errors.New("end date is before start date")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrNoApprovers         = errors.New("no approvers available for this employee")
)

// Longest approver chain derived from the org hierarchy.
const maxChainDepth = 3

type CreateLeaveInput struct {
	Type      LeaveType `json:"type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

type SubmitLeaveInput struct {
	// ApproverIDs overrides the manager-chain derivation when set.
	ApproverIDs []uint `json:"approver_ids,omitempty"`
}

type LeaveService interface {
	Create(ctx context.Context, employeeID uint, input CreateLeaveInput) (*LeaveRequest, error)
	Submit(ctx context.Context, id uint, employeeID uint, input SubmitLeaveInput) (*LeaveRequest, error)
	Get(ctx context.Context, id uint) (*LeaveRequest, error)
	ListMine(ctx context.Context, employeeID uint, page, limit int) ([]LeaveRequest, int64, error)
	List(ctx context.Context, status approval.Status, page, limit int) ([]LeaveRequest, int64, error)
	Balances(ctx context.Context, employeeID uint, year int) ([]LeaveBalance, error)
}

type LeaveServiceImpl struct {
	repo      LeaveRepository
	users     user.UserRepository
	approvals approval.ApprovalService
	logger    *zap.Logger
}

func NewLeaveService(repo LeaveRepository, users user.UserRepository, approvals approval.ApprovalService, logger *zap.Logger) LeaveService {
	return &LeaveServiceImpl{
		repo:      repo,
		users:     users,
		approvals: approvals,
		logger:    logger,
	}
}

func (s *LeaveServiceImpl) Create(ctx context.Context, employeeID uint, input CreateLeaveInput) (*LeaveRequest, error) {
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	days := businessDays(input.StartDate, input.EndDate)
	request := &LeaveRequest{
		RequestNo:  fmt.Sprintf("LV-%s", uuid.NewString()[:8]),
		EmployeeID: employeeID,
		Type:       input.Type,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Days:       days,
		Reason:     input.Reason,
		Status:     approval.StatusDraft,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("leave request created",
		zap.String("requestNo", request.RequestNo),
		zap.Uint("employeeId", employeeID),
		zap.Float64("days", days),
	)
	return request, nil
}

// Submit moves a draft into the approval flow. The chain comes from the
// caller when provided, otherwise it is derived by walking the employee's
// manager hierarchy.
func (s *LeaveServiceImpl) Submit(ctx context.Context, id uint, employeeID uint, input SubmitLeaveInput) (*LeaveRequest, error) {
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

	if request.Type != LeaveTypeUnpaid {
		balance, err := s.repo.GetBalance(ctx, employeeID, request.Type, request.StartDate.Year())
		if err != nil {
			return nil, ErrInsufficientBalance
		}
		if balance.Remaining() < request.Days {
			return nil, ErrInsufficientBalance
		}
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

func (s *LeaveServiceImpl) Get(ctx context.Context, id uint) (*LeaveRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LeaveServiceImpl) ListMine(ctx context.Context, employeeID uint, page, limit int) ([]LeaveRequest, int64, error) {
	return s.repo.ListByEmployee(ctx, employeeID, page, limit)
}

func (s *LeaveServiceImpl) List(ctx context.Context, status approval.Status, page, limit int) ([]LeaveRequest, int64, error) {
	return s.repo.List(ctx, status, page, limit)
}

func (s *LeaveServiceImpl) Balances(ctx context.Context, employeeID uint, year int) ([]LeaveBalance, error) {
	return s.repo.ListBalances(ctx, employeeID, year)
}

// businessDays counts weekdays between the two dates, inclusive.
func businessDays(start, end time.Time) float64 {
	days := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
