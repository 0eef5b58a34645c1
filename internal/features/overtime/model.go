package overtime

import (
	"time"

	"go-hrms/internal/features/approval"
)

// Kind registered with the approval engine for overtime requests.
const Kind = "overtime"

type OvertimeRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestNo  string    `gorm:"size:40;not null;uniqueIndex" json:"request_no"`
	EmployeeID uint      `gorm:"not null;index" json:"employee_id"`
	Date       time.Time `gorm:"not null" json:"date"`
	Hours      float64   `gorm:"not null" json:"hours"`
	Reason     string    `gorm:"type:text" json:"reason"`

	CurrentLevel    int             `gorm:"not null;default:0" json:"current_level"`
	Status          approval.Status `gorm:"size:16;not null;default:'draft';index" json:"status"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OvertimeRequest) TableName() string {
	return "overtime_requests"
}

func (r OvertimeRequest) Ref() approval.RequestRef {
	return approval.RequestRef{Kind: Kind, ID: r.ID}
}
