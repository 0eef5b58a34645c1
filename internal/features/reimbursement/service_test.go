package reimbursement

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/user"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   ReimbursementService
	steps approval.StepStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "reimbursement.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(&approval.Step{}, &ReimbursementRequest{}, &user.User{}, &user.Role{}, &user.Branch{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	gdb := &database.GormDB{DB: db}
	repo := NewReimbursementRepository(gdb)
	users := user.NewUserRepository(gdb)

	acc := approval.TableAccessor{KindName: Kind, Table: "reimbursement_requests"}
	registry := approval.NewRegistry([]approval.RequestAccessor{acc})
	steps := approval.NewStepStore(gdb)
	engine := approval.NewEngine(gdb, steps, registry, approval.NewAdminPolicy())
	dispatcher := approval.NewDispatcher(nil, zap.NewNop())
	approvals := approval.NewApprovalService(gdb, engine, steps, registry, dispatcher, zap.NewNop())

	return &fixture{
		db:    db,
		svc:   NewReimbursementService(repo, users, approvals, zap.NewNop()),
		steps: steps,
	}
}

// seedOrg builds a three-deep reporting line and returns the employee at
// the bottom.
func seedOrg(t *testing.T, db *gorm.DB) uint {
	t.Helper()

	vp := user.User{Name: "VP", Email: "vp@example.com", PasswordHash: "x"}
	if err := db.Create(&vp).Error; err != nil {
		t.Fatalf("create vp: %v", err)
	}
	head := user.User{Name: "Head", Email: "head@example.com", PasswordHash: "x", ManagerID: &vp.ID}
	if err := db.Create(&head).Error; err != nil {
		t.Fatalf("create head: %v", err)
	}
	lead := user.User{Name: "Lead", Email: "lead@example.com", PasswordHash: "x", ManagerID: &head.ID}
	if err := db.Create(&lead).Error; err != nil {
		t.Fatalf("create lead: %v", err)
	}
	employee := user.User{Name: "Employee", Email: "emp@example.com", PasswordHash: "x", ManagerID: &lead.ID}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return employee.ID
}

func TestCreateRequiresReceipt(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), 1, CreateReimbursementInput{
		Category: CategoryTravel,
		Amount:   120,
	})
	if !errors.Is(err, ErrMissingReceipt) {
		t.Fatalf("err = %v, want ErrMissingReceipt", err)
	}
}

func TestSubmitChainDepthByAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employeeID := seedOrg(t, f.db)

	cases := []struct {
		name      string
		amount    float64
		wantSteps int
	}{
		{"standard claim", 250, 2},
		{"high-value claim", 4800, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := f.svc.Create(ctx, employeeID, CreateReimbursementInput{
				Category:    CategoryTravel,
				Amount:      tc.amount,
				ReceiptNote: "receipt-001.pdf",
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if _, err := f.svc.Submit(ctx, req.ID, employeeID, SubmitReimbursementInput{}); err != nil {
				t.Fatalf("submit: %v", err)
			}

			steps, err := f.steps.ListForRequest(ctx, req.Ref())
			if err != nil {
				t.Fatalf("list steps: %v", err)
			}
			if len(steps) != tc.wantSteps {
				t.Errorf("chain length = %d, want %d", len(steps), tc.wantSteps)
			}
		})
	}
}
