package leave

import (
	"time"

	"go-hrms/internal/features/approval"
)

// Kind registered with the approval engine for leave requests.
const Kind = "leave"

type LeaveType string

const (
	LeaveTypeAnnual LeaveType = "annual"
	LeaveTypeSick   LeaveType = "sick"
	LeaveTypeUnpaid LeaveType = "unpaid"
)

type LeaveRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestNo  string    `gorm:"size:40;not null;uniqueIndex" json:"request_no"`
	EmployeeID uint      `gorm:"not null;index" json:"employee_id"`
	Type       LeaveType `gorm:"size:20;not null" json:"type"`
	StartDate  time.Time `gorm:"not null" json:"start_date"`
	EndDate    time.Time `gorm:"not null" json:"end_date"`
	Days       float64   `gorm:"not null" json:"days"`
	Reason     string    `gorm:"type:text" json:"reason"`

	CurrentLevel    int             `gorm:"not null;default:0" json:"current_level"`
	Status          approval.Status `gorm:"size:16;not null;default:'draft';index" json:"status"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason,omitempty"`

	// DeductedAt guards the balance deduction: it is written exactly once,
	// when the fully-approved event is first handled.
	DeductedAt *time.Time `json:"deducted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (r LeaveRequest) Ref() approval.RequestRef {
	return approval.RequestRef{Kind: Kind, ID: r.ID}
}

type LeaveBalance struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_balance_employee_type_year,priority:1" json:"employee_id"`
	Type       LeaveType `gorm:"size:20;not null;uniqueIndex:idx_balance_employee_type_year,priority:2" json:"type"`
	Year       int       `gorm:"not null;uniqueIndex:idx_balance_employee_type_year,priority:3" json:"year"`
	Allocated  float64   `gorm:"not null" json:"allocated"`
	Used       float64   `gorm:"not null;default:0" json:"used"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b LeaveBalance) Remaining() float64 {
	return b.Allocated - b.Used
}
