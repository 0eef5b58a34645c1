package approval

import (
	"testing"

	common_models "go-hrms/internal/common/models"
)

func TestAdminPolicy(t *testing.T) {
	policy := NewAdminPolicy()

	cases := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"no roles", nil, false},
		{"plain employee", []string{"employee"}, false},
		{"top admin", []string{common_models.RoleTopAdmin}, true},
		{"branch admin", []string{common_models.RoleBranchAdmin}, true},
		{"hr", []string{common_models.RoleHR}, true},
		{"elevated among others", []string{"employee", common_models.RoleHR}, true},
		{"similar but wrong name", []string{"hr_assistant"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := policy.CanActAsAdmin(Actor{ID: 1, Roles: tc.roles})
			if got != tc.want {
				t.Errorf("CanActAsAdmin(%v) = %v, want %v", tc.roles, got, tc.want)
			}
		})
	}
}
