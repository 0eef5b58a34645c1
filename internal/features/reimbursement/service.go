package reimbursement

import (
	"context"
	"errors"
	"fmt"

	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotDraft       = errors.New("reimbursement request is not in draft")
	ErrNotOwner       = errors.New("reimbursement request belongs to another employee")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrMissingReceipt = errors.New("a receipt reference is required")
	ErrNoApprovers    = errors.New("no approvers available for this employee")
)

// Claims above this amount need one extra level of sign-off.
const highValueThreshold = 1000.0

type CreateReimbursementInput struct {
	Category    Category `json:"category"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency"`
	Description string   `json:"description"`
	ReceiptNote string   `json:"receipt_note"`
}

type SubmitReimbursementInput struct {
	ApproverIDs []uint `json:"approver_ids,omitempty"`
}

type ReimbursementService interface {
	Create(ctx context.Context, employeeID uint, input CreateReimbursementInput) (*ReimbursementRequest, error)
	Submit(ctx context.Context, id uint, employeeID uint, input SubmitReimbursementInput) (*ReimbursementRequest, error)
	Get(ctx context.Context, id uint) (*ReimbursementRequest, error)
	ListMine(ctx context.Context, employeeID uint, page, limit int) ([]ReimbursementRequest, int64, error)
	List(ctx context.Context, status approval.Status, page, limit int) ([]ReimbursementRequest, int64, error)
}

type ReimbursementServiceImpl struct {
	repo      ReimbursementRepository
	users     user.UserRepository
	approvals approval.ApprovalService
	logger    *zap.Logger
}

func NewReimbursementService(repo ReimbursementRepository, users user.UserRepository, approvals approval.ApprovalService, logger *zap.Logger) ReimbursementService {
	return &ReimbursementServiceImpl{
		repo:      repo,
		users:     users,
		approvals: approvals,
		logger:    logger,
	}
}

func (s *ReimbursementServiceImpl) Create(ctx context.Context, employeeID uint, input CreateReimbursementInput) (*ReimbursementRequest, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.ReceiptNote == "" {
		return nil, ErrMissingReceipt
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	request := &ReimbursementRequest{
		RequestNo:   fmt.Sprintf("RB-%s", uuid.NewString()[:8]),
		EmployeeID:  employeeID,
		Category:    input.Category,
		Amount:      input.Amount,
		Currency:    currency,
		Description: input.Description,
		ReceiptNote: input.ReceiptNote,
		Status:      approval.StatusDraft,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("reimbursement request created",
		zap.String("requestNo", request.RequestNo),
		zap.Uint("employeeId", employeeID),
		zap.Float64("amount", input.Amount),
	)
	return request, nil
}

func (s *ReimbursementServiceImpl) Submit(ctx context.Context, id uint, employeeID uint, input SubmitReimbursementInput) (*ReimbursementRequest, error) {
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
		approverIDs, err = s.users.ManagerChain(ctx, employeeID, chainDepth(request.Amount))
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

func (s *ReimbursementServiceImpl) Get(ctx context.Context, id uint) (*ReimbursementRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ReimbursementServiceImpl) ListMine(ctx context.Context, employeeID uint, page, limit int) ([]ReimbursementRequest, int64, error) {
	return s.repo.ListByEmployee(ctx, employeeID, page, limit)
}

func (s *ReimbursementServiceImpl) List(ctx context.Context, status approval.Status, page, limit int) ([]ReimbursementRequest, int64, error) {
	return s.repo.List(ctx, status, page, limit)
}

func chainDepth(amount float64) int {
	if amount > highValueThreshold {
		return 3
	}
	return 2
}
