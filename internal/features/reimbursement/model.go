package reimbursement

import (
	"time"

	"go-hrms/internal/features/approval"
)

// Kind registered with the approval engine for reimbursement requests.
const Kind = "reimbursement"

type Category string

const (
	CategoryTravel   Category = "travel"
	CategoryMeals    Category = "meals"
	CategoryMedical  Category = "medical"
	CategorySupplies Category = "supplies"
	CategoryOther    Category = "other"
)

type ReimbursementRequest struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	RequestNo   string   `gorm:"size:40;not null;uniqueIndex" json:"request_no"`
	EmployeeID  uint     `gorm:"not null;index" json:"employee_id"`
	Category    Category `gorm:"size:20;not null" json:"category"`
	Amount      float64  `gorm:"not null" json:"amount"`
	Currency    string   `gorm:"size:8;not null;default:'USD'" json:"currency"`
	Description string   `gorm:"type:text" json:"description"`

	// ReceiptNote references the uploaded receipt, e.g. a filename or an
	// object-storage key. Upload handling lives outside this service.
	ReceiptNote string `gorm:"size:255" json:"receipt_note,omitempty"`

	CurrentLevel    int             `gorm:"not null;default:0" json:"current_level"`
	Status          approval.Status `gorm:"size:16;not null;default:'draft';index" json:"status"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReimbursementRequest) TableName() string {
	return "reimbursement_requests"
}

func (r ReimbursementRequest) Ref() approval.RequestRef {
	return approval.RequestRef{Kind: Kind, ID: r.ID}
}
