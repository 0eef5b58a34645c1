package main

import (
	"context"
	"time"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/config"
	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/leave"
	"go-hrms/internal/features/overtime"
	"go-hrms/internal/features/reimbursement"
	"go-hrms/internal/features/user"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func migrate(gdb *database.GormDB) error {
	return gdb.DB.AutoMigrate(
		&user.Role{},
		&user.Branch{},
		&user.User{},
		&approval.Step{},
		&leave.LeaveRequest{},
		&leave.LeaveBalance{},
		&overtime.OvertimeRequest{},
		&reimbursement.ReimbursementRequest{},
	)
}

// Seed populates branches, roles, a small org hierarchy and leave balances,
// then shuts the app down.
// nextMonday returns the Monday after today, so the demo leave span always
// sits in the future.
func nextMonday() time.Time {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func Seed(
	lc fx.Lifecycle,
	gdb *database.GormDB,
	userRepo user.UserRepository,
	userService user.UserService,
	leaveRepo leave.LeaveRepository,
	approvals approval.ApprovalService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				if err := migrate(gdb); err != nil {
					logger.Error("Migration failed", zap.Error(err))
					return
				}

				// Roles
				roleNames := []string{
					common_models.RoleTopAdmin,
					common_models.RoleBranchAdmin,
					common_models.RoleHR,
					"employee",
				}
				for _, name := range roleNames {
					if _, err := userRepo.FindRoleByName(ctx, name); err == nil {
						continue
					}
					if err := userRepo.CreateRole(ctx, &user.Role{Name: name}); err != nil {
						logger.Error("Failed to create role", zap.String("role", name), zap.Error(err))
						return
					}
				}

				// Branch
				branch := &user.Branch{Name: "Head Office", Code: "HQ"}
				if err := userRepo.CreateBranch(ctx, branch); err != nil {
					logger.Warn("Branch exists, continuing", zap.Error(err))
				}

				// Users: admin -> hr manager -> team lead -> employee
				admin, err := userService.Create(ctx, user.CreateUserInput{
					Name:     "System Admin",
					Email:    "admin@example.com",
					Password: "admin123",
					Position: "Administrator",
					BranchID: &branch.ID,
					Roles:    []string{common_models.RoleTopAdmin},
				})
				if err != nil {
					logger.Error("Failed to create admin", zap.Error(err))
					return
				}

				hrManager, err := userService.Create(ctx, user.CreateUserInput{
					Name:      "Hana Reyes",
					Email:     "hr@example.com",
					Password:  "hr123456",
					Position:  "HR Manager",
					BranchID:  &branch.ID,
					ManagerID: &admin.ID,
					Roles:     []string{common_models.RoleHR},
				})
				if err != nil {
					logger.Error("Failed to create HR manager", zap.Error(err))
					return
				}

				teamLead, err := userService.Create(ctx, user.CreateUserInput{
					Name:      "Theo Lam",
					Email:     "lead@example.com",
					Password:  "lead1234",
					Position:  "Team Lead",
					BranchID:  &branch.ID,
					ManagerID: &hrManager.ID,
					Roles:     []string{"employee"},
				})
				if err != nil {
					logger.Error("Failed to create team lead", zap.Error(err))
					return
				}

				employee, err := userService.Create(ctx, user.CreateUserInput{
					Name:      "Evan Park",
					Email:     "employee@example.com",
					Password:  "emp12345",
					Position:  "Software Engineer",
					BranchID:  &branch.ID,
					ManagerID: &teamLead.ID,
					Roles:     []string{"employee"},
				})
				if err != nil {
					logger.Error("Failed to create employee", zap.Error(err))
					return
				}

				// Leave balances for the current year
				year := time.Now().Year()
				balances := []leave.LeaveBalance{
					{EmployeeID: employee.ID, Type: leave.LeaveTypeAnnual, Year: year, Allocated: 20},
					{EmployeeID: employee.ID, Type: leave.LeaveTypeSick, Year: year, Allocated: 10},
					{EmployeeID: teamLead.ID, Type: leave.LeaveTypeAnnual, Year: year, Allocated: 22},
					{EmployeeID: teamLead.ID, Type: leave.LeaveTypeSick, Year: year, Allocated: 10},
					{EmployeeID: hrManager.ID, Type: leave.LeaveTypeAnnual, Year: year, Allocated: 25},
				}
				for _, balance := range balances {
					b := balance
					if err := leaveRepo.CreateBalance(ctx, &b); err != nil {
						logger.Error("Failed to create balance", zap.Uint("employeeId", b.EmployeeID), zap.Error(err))
						return
					}
				}

				// Demo leave request routed through a 3-level chain.
				start := nextMonday()
				demo := &leave.LeaveRequest{
					RequestNo:  "LV-demo0001",
					EmployeeID: employee.ID,
					Type:       leave.LeaveTypeAnnual,
					StartDate:  start,
					EndDate:    start.AddDate(0, 0, 4),
					Days:       5,
					Reason:     "Demo request seeded for development",
					Status:     approval.StatusDraft,
				}
				if err := leaveRepo.Create(ctx, demo); err != nil {
					logger.Error("Failed to create demo request", zap.Error(err))
					return
				}
				chain := []uint{teamLead.ID, hrManager.ID, admin.ID}
				if _, err := approvals.CreateChain(ctx, demo.Ref(), chain); err != nil {
					logger.Error("Failed to create demo chain", zap.Error(err))
					return
				}

				logger.Info("Seeding complete",
					zap.Uint("adminId", admin.ID),
					zap.Uint("employeeId", employee.ID),
					zap.Uint("demoRequestId", demo.ID),
				)
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			zap.NewDevelopment,
			database.NewGormDB,
			user.NewUserRepository,
			user.NewUserService,
			leave.NewLeaveRepository,
			approval.NewStepStore,
			approval.NewAdminPolicy,
			approval.NewEngine,
			func() *approval.Registry {
				return approval.NewRegistry([]approval.RequestAccessor{
					approval.TableAccessor{KindName: leave.Kind, Table: leave.LeaveRequest{}.TableName()},
				})
			},
			func(logger *zap.Logger) *approval.Dispatcher {
				return approval.NewDispatcher(nil, logger)
			},
			approval.NewApprovalService,
		),
		fx.Invoke(Seed),
	)

	app.Run()
}
