package user

import (
	"time"
)

// Role is a named capability. The three elevated roles grant the approval
// admin override; everything else is plain membership.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:40;not null;uniqueIndex" json:"name"`
}

type Branch struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:80;not null" json:"name"`
	Code string `gorm:"size:20;not null;uniqueIndex" json:"code"`
}

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"size:120;not null" json:"name"`
	Email        string  `gorm:"size:160;not null;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"size:120;not null" json:"-"`
	Position     string  `gorm:"size:80" json:"position"`
	BranchID     *uint   `gorm:"index" json:"branch_id,omitempty"`
	Branch       *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`

	// ManagerID points up the org hierarchy; walking it yields the default
	// approver chain for this user's requests.
	ManagerID *uint  `gorm:"index" json:"manager_id,omitempty"`
	Roles     []Role `gorm:"many2many:user_roles" json:"roles"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleNames flattens the role associations for JWT claims and policy checks.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
