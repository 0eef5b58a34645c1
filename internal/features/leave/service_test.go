package leave

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/notification"
	"go-hrms/internal/features/user"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubNotifier struct {
	sent []struct {
		UserID uint
		Title  string
	}
}

func (s *stubNotifier) Notify(_ context.Context, userID uint, title, _ string, _ notification.NotificationType, _ string) error {
	s.sent = append(s.sent, struct {
		UserID uint
		Title  string
	}{userID, title})
	return nil
}

func (s *stubNotifier) GetUserNotifications(context.Context, uint, int64, int64) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}
func (s *stubNotifier) GetUnreadCount(context.Context, uint) (int64, error) { return 0, nil }
func (s *stubNotifier) MarkAsRead(context.Context, string, uint) error      { return nil }
func (s *stubNotifier) MarkAllAsRead(context.Context, uint) error           { return nil }

type fixture struct {
	db       *gorm.DB
	repo     LeaveRepository
	users    user.UserRepository
	svc      LeaveService
	listener *ApprovalListener
	notifier *stubNotifier
	steps    approval.StepStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "leave.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(&approval.Step{}, &LeaveRequest{}, &LeaveBalance{}, &user.User{}, &user.Role{}, &user.Branch{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	gdb := &database.GormDB{DB: db}
	repo := NewLeaveRepository(gdb)
	users := user.NewUserRepository(gdb)

	acc := approval.TableAccessor{KindName: Kind, Table: "leave_requests"}
	registry := approval.NewRegistry([]approval.RequestAccessor{acc})
	steps := approval.NewStepStore(gdb)
	engine := approval.NewEngine(gdb, steps, registry, approval.NewAdminPolicy())

	notifier := &stubNotifier{}
	listener := NewApprovalListener(repo, notifier, zap.NewNop())
	dispatcher := approval.NewDispatcher([]approval.Listener{listener}, zap.NewNop())
	approvals := approval.NewApprovalService(gdb, engine, steps, registry, dispatcher, zap.NewNop())

	svc := NewLeaveService(repo, users, approvals, zap.NewNop())

	return &fixture{
		db:       db,
		repo:     repo,
		users:    users,
		svc:      svc,
		listener: listener,
		notifier: notifier,
		steps:    steps,
	}
}

// seedEmployee creates an employee reporting to a manager, who in turn
// reports to a director, plus an annual balance for the current year.
func (f *fixture) seedEmployee(t *testing.T, allocated float64) (employeeID, managerID, directorID uint) {
	t.Helper()
	ctx := context.Background()

	director := &user.User{Name: "Director", Email: "director@example.com", PasswordHash: "x"}
	if err := f.users.Create(ctx, director); err != nil {
		t.Fatalf("create director: %v", err)
	}
	manager := &user.User{Name: "Manager", Email: "manager@example.com", PasswordHash: "x", ManagerID: &director.ID}
	if err := f.users.Create(ctx, manager); err != nil {
		t.Fatalf("create manager: %v", err)
	}
	employee := &user.User{Name: "Employee", Email: "employee@example.com", PasswordHash: "x", ManagerID: &manager.ID}
	if err := f.users.Create(ctx, employee); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	err := f.repo.CreateBalance(ctx, &LeaveBalance{
		EmployeeID: employee.ID,
		Type:       LeaveTypeAnnual,
		Year:       time.Now().Year(),
		Allocated:  allocated,
	})
	if err != nil {
		t.Fatalf("create balance: %v", err)
	}
	return employee.ID, manager.ID, director.ID
}

// weekdaySpan returns a Monday and the Friday of the same week in the
// current year, so day counts are stable.
func weekdaySpan() (time.Time, time.Time) {
	d := time.Date(time.Now().Year(), time.June, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d, d.AddDate(0, 0, 4)
}

func TestCreateCountsBusinessDays(t *testing.T) {
	f := newFixture(t)
	employeeID, _, _ := f.seedEmployee(t, 10)
	start, _ := weekdaySpan()

	// Monday through the following Monday spans a weekend: 6 weekdays.
	req, err := f.svc.Create(context.Background(), employeeID, CreateLeaveInput{
		Type:      LeaveTypeAnnual,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 7),
		Reason:    "family trip",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Days != 6 {
		t.Errorf("days = %v, want 6", req.Days)
	}
	if req.Status != approval.StatusDraft {
		t.Errorf("status = %s, want draft", req.Status)
	}
	if req.RequestNo == "" {
		t.Error("request number not assigned")
	}
}

func TestCreateRejectsInvalidRange(t *testing.T) {
	f := newFixture(t)
	employeeID, _, _ := f.seedEmployee(t, 10)
	start, _ := weekdaySpan()

	_, err := f.svc.Create(context.Background(), employeeID, CreateLeaveInput{
		Type:      LeaveTypeAnnual,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, -1),
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestSubmitDerivesManagerChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employeeID, managerID, directorID := f.seedEmployee(t, 10)
	start, end := weekdaySpan()

	req, err := f.svc.Create(ctx, employeeID, CreateLeaveInput{
		Type: LeaveTypeAnnual, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	submitted, err := f.svc.Submit(ctx, req.ID, employeeID, SubmitLeaveInput{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != approval.StatusPending {
		t.Errorf("status = %s, want pending", submitted.Status)
	}
	if submitted.CurrentLevel != 1 {
		t.Errorf("current_level = %d, want 1", submitted.CurrentLevel)
	}

	steps, err := f.steps.ListForRequest(ctx, req.Ref())
	if err != nil {
		t.Fatalf("list steps: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].ApproverID != managerID || steps[1].ApproverID != directorID {
		t.Errorf("chain = [%d %d], want [%d %d]",
			steps[0].ApproverID, steps[1].ApproverID, managerID, directorID)
	}
}

func TestSubmitInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employeeID, _, _ := f.seedEmployee(t, 2)
	start, end := weekdaySpan()

	req, err := f.svc.Create(ctx, employeeID, CreateLeaveInput{
		Type: LeaveTypeAnnual, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.Submit(ctx, req.ID, employeeID, SubmitLeaveInput{})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
}

func TestSubmitByNonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employeeID, managerID, _ := f.seedEmployee(t, 10)
	start, end := weekdaySpan()

	req, err := f.svc.Create(ctx, employeeID, CreateLeaveInput{
		Type: LeaveTypeAnnual, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.Submit(ctx, req.ID, managerID, SubmitLeaveInput{})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestSubmitTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employeeID, _, _ := f.seedEmployee(t, 10)
	start, end := weekdaySpan()

	req, err := f.svc.Create(ctx, employeeID, CreateLeaveInput{
		Type: LeaveTypeAnnual, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Submit(ctx, req.ID, employeeID, SubmitLeaveInput{}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err = f.svc.Submit(ctx, req.ID, employeeID, SubmitLeaveInput{})
	if !errors.Is(err, ErrNotDraft) {
		t.Fatalf("err = %v, want ErrNotDraft", err)
	}
}

func TestFullApprovalDeductsBalanceOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employeeID, _, _ := f.seedEmployee(t, 10)
	start, end := weekdaySpan()

	req, err := f.svc.Create(ctx, employeeID, CreateLeaveInput{
		Type: LeaveTypeAnnual, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Submit(ctx, req.ID, employeeID, SubmitLeaveInput{}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	event := approval.Event{
		Type:    approval.EventRequestFullyApproved,
		Request: req.Ref(),
	}
	if err := f.listener.HandleApprovalEvent(ctx, event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	// Second delivery of the same event must not deduct again.
	if err := f.listener.HandleApprovalEvent(ctx, event); err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	balance, err := f.repo.GetBalance(ctx, employeeID, LeaveTypeAnnual, start.Year())
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Used != 5 {
		t.Errorf("used = %v, want 5", balance.Used)
	}

	updated, err := f.repo.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.DeductedAt == nil {
		t.Error("deducted_at not stamped")
	}
	if len(f.notifier.sent) != 2 || f.notifier.sent[0].UserID != employeeID {
		t.Errorf("notifications = %+v, want two to employee %d", f.notifier.sent, employeeID)
	}
}

func TestRejectionNotifiesRequester(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employeeID, _, _ := f.seedEmployee(t, 10)
	start, end := weekdaySpan()

	req, err := f.svc.Create(ctx, employeeID, CreateLeaveInput{
		Type: LeaveTypeAnnual, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = f.listener.HandleApprovalEvent(ctx, approval.Event{
		Type:    approval.EventRequestRejected,
		Request: req.Ref(),
		Reason:  "headcount freeze",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(f.notifier.sent) != 1 || f.notifier.sent[0].Title != "Leave request rejected" {
		t.Errorf("notifications = %+v, want one rejection notice", f.notifier.sent)
	}

	balance, err := f.repo.GetBalance(ctx, employeeID, LeaveTypeAnnual, start.Year())
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Used != 0 {
		t.Errorf("used = %v, want 0 after rejection", balance.Used)
	}
}
