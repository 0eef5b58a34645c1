package approval

import (
	common_models "go-hrms/internal/common/models"
)

// AdminPolicy decides whether an actor may approve a step without being its
// designated approver. It is consulted by Approve only: Reject always
// requires the exact approver. This asymmetry mirrors existing behavior and
// is an open product question, not something to fix silently.
type AdminPolicy interface {
	CanActAsAdmin(actor Actor) bool
}

type rolePolicy struct {
	elevated map[string]bool
}

// NewAdminPolicy grants the override to the three elevated roles.
func NewAdminPolicy() AdminPolicy {
	return &rolePolicy{
		elevated: map[string]bool{
			common_models.RoleTopAdmin:    true,
			common_models.RoleBranchAdmin: true,
			common_models.RoleHR:          true,
		},
	}
}

func (p *rolePolicy) CanActAsAdmin(actor Actor) bool {
	for _, role := range actor.Roles {
		if p.elevated[role] {
			return true
		}
	}
	return false
}
