package approval

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go-hrms/internal/database"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testRequest stands in for a concrete request kind; it carries exactly the
// engine-owned columns every request table has.
type testRequest struct {
	ID              uint   `gorm:"primaryKey"`
	CurrentLevel    int    `gorm:"not null;default:0"`
	Status          Status `gorm:"size:16;not null;default:'draft'"`
	RejectionReason string
}

func (testRequest) TableName() string { return "test_requests" }

const testKind = "test"

type fixture struct {
	db     *gorm.DB
	engine *EngineImpl
	svc    ApprovalService
	steps  StepStore
	acc    TableAccessor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "approval.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Step{}, &testRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	gdb := &database.GormDB{DB: db}
	acc := TableAccessor{KindName: testKind, Table: "test_requests"}
	registry := NewRegistry([]RequestAccessor{acc})
	steps := NewStepStore(gdb)
	engine := NewEngine(gdb, steps, registry, NewAdminPolicy()).(*EngineImpl)
	svc := NewApprovalService(gdb, engine, steps, registry, NewDispatcher(nil, zap.NewNop()), zap.NewNop())

	return &fixture{db: db, engine: engine, svc: svc, steps: steps, acc: acc}
}

func (f *fixture) newRequest(t *testing.T) RequestRef {
	t.Helper()
	req := testRequest{Status: StatusDraft}
	if err := f.db.Create(&req).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	return RequestRef{Kind: testKind, ID: req.ID}
}

func (f *fixture) state(t *testing.T, ref RequestRef) *RequestState {
	t.Helper()
	state, err := f.acc.State(f.db, ref.ID)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	return state
}

func (f *fixture) chain(t *testing.T, ref RequestRef) []Step {
	t.Helper()
	steps, err := f.steps.ListForRequest(context.Background(), ref)
	if err != nil {
		t.Fatalf("list steps: %v", err)
	}
	return steps
}

func actor(id uint, roles ...string) Actor {
	return Actor{ID: id, DisplayName: "User", Roles: roles}
}

func TestCreateChain(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)

	steps, err := f.engine.CreateChain(context.Background(), ref, []uint{11, 22, 33})
	if err != nil {
		t.Fatalf("create chain: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	for i, step := range steps {
		if step.Level != i+1 {
			t.Errorf("step %d: level = %d, want %d", i, step.Level, i+1)
		}
		if step.Status != StatusPending {
			t.Errorf("step %d: status = %s, want pending", i, step.Status)
		}
	}

	state := f.state(t, ref)
	if state.CurrentLevel != 1 {
		t.Errorf("current_level = %d, want 1", state.CurrentLevel)
	}
	if state.Status != StatusPending {
		t.Errorf("status = %s, want pending", state.Status)
	}
}

func TestCreateChainAlreadyExists(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)

	if _, err := f.engine.CreateChain(context.Background(), ref, []uint{11}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := f.engine.CreateChain(context.Background(), ref, []uint{22})
	if !errors.Is(err, ErrChainAlreadyExists) {
		t.Fatalf("expected ErrChainAlreadyExists, got %v", err)
	}
}

// maskedCountStore pretends no steps exist yet, reproducing the window where
// two racing creates both pass the count check and the loser hits the
// request/level unique index.
type maskedCountStore struct {
	StepStore
}

func (maskedCountStore) CountForRequest(*gorm.DB, RequestRef) (int64, error) { return 0, nil }

func TestCreateChainRaceLoserGetsChainExists(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	gdb := &database.GormDB{DB: f.db}
	racing := NewEngine(gdb, maskedCountStore{f.steps}, NewRegistry([]RequestAccessor{f.acc}), NewAdminPolicy())
	_, err := racing.CreateChain(ctx, ref, []uint{11, 22})
	if !errors.Is(err, ErrChainAlreadyExists) {
		t.Fatalf("expected ErrChainAlreadyExists, got %v", err)
	}

	// The loser committed nothing.
	if got := len(f.chain(t, ref)); got != 2 {
		t.Fatalf("chain has %d steps, want 2", got)
	}
}

func TestCreateChainEmptyApprovers(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)

	_, err := f.engine.CreateChain(context.Background(), ref, nil)
	if !errors.Is(err, ErrInvalidChain) {
		t.Fatalf("expected ErrInvalidChain, got %v", err)
	}
}

func TestCreateChainUnknownKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.CreateChain(context.Background(), RequestRef{Kind: "missing", ID: 1}, []uint{11})
	if !errors.Is(err, ErrUnknownRequestKind) {
		t.Fatalf("expected ErrUnknownRequestKind, got %v", err)
	}
}

func TestFullApprovalSequence(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22, 33}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	// A approves: 1 -> 2
	dec, err := f.engine.Approve(ctx, ref, actor(11), ActionInput{})
	if err != nil {
		t.Fatalf("approve level 1: %v", err)
	}
	if dec.Request.CurrentLevel != 2 || dec.Request.Status != StatusPending {
		t.Fatalf("after level 1: level=%d status=%s", dec.Request.CurrentLevel, dec.Request.Status)
	}
	assertEventTypes(t, dec.Events, EventStepApproved, EventAdvancedToNextLevel)
	if dec.Events[1].ApproverID != 22 || dec.Events[1].NewLevel != 2 {
		t.Errorf("advancement event = %+v, want approver 22 at level 2", dec.Events[1])
	}

	// B approves: 2 -> 3
	dec, err = f.engine.Approve(ctx, ref, actor(22), ActionInput{})
	if err != nil {
		t.Fatalf("approve level 2: %v", err)
	}
	if dec.Request.CurrentLevel != 3 {
		t.Fatalf("after level 2: level=%d", dec.Request.CurrentLevel)
	}

	// C approves: fully approved
	dec, err = f.engine.Approve(ctx, ref, actor(33), ActionInput{})
	if err != nil {
		t.Fatalf("approve level 3: %v", err)
	}
	if dec.Request.Status != StatusApproved {
		t.Fatalf("final status = %s, want approved", dec.Request.Status)
	}
	assertEventTypes(t, dec.Events, EventStepApproved, EventRequestFullyApproved)

	for _, step := range f.chain(t, ref) {
		if step.Status != StatusApproved {
			t.Errorf("step level %d: status = %s, want approved", step.Level, step.Status)
		}
		if step.ActedAt == nil {
			t.Errorf("step level %d: acted_at not set", step.Level)
		}
	}
}

func TestApproveDefaultNoteAndSignature(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	a := Actor{ID: 11, DisplayName: "Alice Nguyen"}
	dec, err := f.engine.Approve(ctx, ref, a, ActionInput{Signature: "sig-ref-1"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if dec.Step.Note != "Approved by: Alice Nguyen" {
		t.Errorf("default note = %q", dec.Step.Note)
	}
	if dec.Step.Signature != "sig-ref-1" {
		t.Errorf("signature = %q", dec.Step.Signature)
	}

	dec, err = f.engine.Approve(ctx, ref, actor(22), ActionInput{Note: "LGTM"})
	if err != nil {
		t.Fatalf("approve with note: %v", err)
	}
	if dec.Step.Note != "LGTM" {
		t.Errorf("explicit note = %q", dec.Step.Note)
	}
}

func TestRejectMidChainVoidsRemainder(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22, 33}); err != nil {
		t.Fatalf("create chain: %v", err)
	}
	if _, err := f.engine.Approve(ctx, ref, actor(11), ActionInput{}); err != nil {
		t.Fatalf("approve level 1: %v", err)
	}

	dec, err := f.engine.Reject(ctx, ref, actor(22), "insufficient budget")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if dec.Request.Status != StatusRejected {
		t.Fatalf("status = %s, want rejected", dec.Request.Status)
	}
	if dec.Request.RejectionReason != "Rejected at Level 2: insufficient budget" {
		t.Errorf("rejection_reason = %q", dec.Request.RejectionReason)
	}
	assertEventTypes(t, dec.Events, EventRequestRejected)

	steps := f.chain(t, ref)
	if steps[0].Status != StatusApproved {
		t.Errorf("level 1 status = %s, want approved", steps[0].Status)
	}
	if steps[1].Status != StatusRejected || steps[1].Note != "insufficient budget" {
		t.Errorf("level 2 = %s %q", steps[1].Status, steps[1].Note)
	}
	if steps[2].Status != StatusRejected || steps[2].Note != VoidedNote {
		t.Errorf("level 3 = %s %q, want voided", steps[2].Status, steps[2].Note)
	}
	if steps[2].ActedAt != nil {
		t.Errorf("voided step should have no acted_at")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	for _, reason := range []string{"", "   "} {
		if _, err := f.engine.Reject(ctx, ref, actor(11), reason); !errors.Is(err, ErrReasonRequired) {
			t.Fatalf("reason %q: expected ErrReasonRequired, got %v", reason, err)
		}
	}
	if f.state(t, ref).Status != StatusPending {
		t.Fatal("refused rejection changed the request status")
	}

	if _, err := f.engine.Reject(ctx, ref, actor(11), "missing paperwork"); err != nil {
		t.Fatalf("reject with reason: %v", err)
	}
}

func TestAdminOverrideApprovesOnly(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	// An HR admin who is not the designated approver can approve...
	if _, err := f.engine.Approve(ctx, ref, actor(99, "hr"), ActionInput{}); err != nil {
		t.Fatalf("admin approve: %v", err)
	}

	// ...but cannot reject: no override for rejection.
	_, err := f.engine.Reject(ctx, ref, actor(99, "hr", "top_admin"), "no")
	if !errors.Is(err, ErrUnauthorizedRejection) {
		t.Fatalf("expected ErrUnauthorizedRejection, got %v", err)
	}

	// The failed rejection left the chain untouched.
	steps := f.chain(t, ref)
	if steps[1].Status != StatusPending {
		t.Errorf("level 2 status = %s, want pending", steps[1].Status)
	}
}

func TestNonApproverCannotApprove(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	_, err := f.engine.Approve(ctx, ref, actor(99, "employee"), ActionInput{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRejectByNonDesignatedActor(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	_, err := f.engine.Reject(ctx, ref, actor(22), "not my turn")
	if !errors.Is(err, ErrUnauthorizedRejection) {
		t.Fatalf("expected ErrUnauthorizedRejection, got %v", err)
	}

	for _, step := range f.chain(t, ref) {
		if step.Status != StatusPending {
			t.Errorf("level %d status = %s, want pending", step.Level, step.Status)
		}
	}
}

func TestNoActionableStepAfterFinal(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11}); err != nil {
		t.Fatalf("create chain: %v", err)
	}
	if _, err := f.engine.Approve(ctx, ref, actor(11), ActionInput{}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := f.engine.Approve(ctx, ref, actor(11), ActionInput{})
	if !errors.Is(err, ErrNoActionableStep) {
		t.Fatalf("expected ErrNoActionableStep, got %v", err)
	}
}

func TestPendingStepAlwaysAtCurrentLevel(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22, 33}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	for i := 0; i < 3; i++ {
		state := f.state(t, ref)
		var atLevel int
		for _, step := range f.chain(t, ref) {
			if step.Status == StatusPending && step.Level == state.CurrentLevel {
				atLevel++
			}
			if step.Status == StatusPending && step.Level < state.CurrentLevel {
				t.Fatalf("pending step below current level %d", state.CurrentLevel)
			}
		}
		if atLevel != 1 {
			t.Fatalf("want exactly one pending step at current level, got %d", atLevel)
		}
		if _, err := f.engine.Approve(ctx, ref, actor(uint(11*(i+1))), ActionInput{}); err != nil {
			t.Fatalf("approve level %d: %v", i+1, err)
		}
	}

	if f.state(t, ref).Status != StatusApproved {
		t.Fatalf("terminal status = %s", f.state(t, ref).Status)
	}
}

func TestInjectedClock(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f.engine.now = func() time.Time { return fixed }

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11}); err != nil {
		t.Fatalf("create chain: %v", err)
	}
	dec, err := f.engine.Approve(ctx, ref, actor(11), ActionInput{})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !dec.Step.ActedAt.Equal(fixed) {
		t.Errorf("acted_at = %v, want %v", dec.Step.ActedAt, fixed)
	}
	if !dec.Events[0].At.Equal(fixed) {
		t.Errorf("event time = %v, want %v", dec.Events[0].At, fixed)
	}
}

func TestConcurrentApproveSingleWinner(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	if _, err := f.engine.CreateChain(ctx, ref, []uint{11, 22}); err != nil {
		t.Fatalf("create chain: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Approve(ctx, ref, actor(11), ActionInput{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		failures++
		if !errors.Is(err, ErrNoActionableStep) && !errors.Is(err, ErrConflict) {
			t.Errorf("loser got unexpected error: %v", err)
		}
	}
	if successes != 1 || failures != 1 {
		t.Fatalf("want exactly one winner, got %d successes / %d failures", successes, failures)
	}

	// current_level advanced exactly once.
	if got := f.state(t, ref).CurrentLevel; got != 2 {
		t.Fatalf("current_level = %d, want 2", got)
	}
}

func TestPendingInboxOnlyActionableSteps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.newRequest(t)
	second := f.newRequest(t)

	if _, err := f.svc.CreateChain(ctx, first, []uint{11, 22}); err != nil {
		t.Fatalf("create first chain: %v", err)
	}
	if _, err := f.svc.CreateChain(ctx, second, []uint{22, 33}); err != nil {
		t.Fatalf("create second chain: %v", err)
	}

	// 22 holds steps on both requests but only second is at their level.
	steps, err := f.svc.PendingForApprover(ctx, 22)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(steps) != 1 || steps[0].RequestID != second.ID {
		t.Fatalf("inbox = %+v, want only request %d", steps, second.ID)
	}

	// Level 1 of first approved: both steps become actionable.
	if _, err := f.svc.Approve(ctx, first, actor(11), ActionInput{}); err != nil {
		t.Fatalf("approve first level 1: %v", err)
	}
	steps, err = f.svc.PendingForApprover(ctx, 22)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("inbox has %d steps, want 2", len(steps))
	}

	// A rejected request drops out of the inbox entirely.
	if _, err := f.svc.Reject(ctx, second, actor(22), "duplicate request"); err != nil {
		t.Fatalf("reject second: %v", err)
	}
	steps, err = f.svc.PendingForApprover(ctx, 22)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(steps) != 1 || steps[0].RequestID != first.ID {
		t.Fatalf("inbox = %+v, want only request %d", steps, first.ID)
	}
}

func TestServiceDispatchesAfterCommit(t *testing.T) {
	f := newFixture(t)
	ref := f.newRequest(t)
	ctx := context.Background()

	rec := &recordingListener{}
	svc := NewApprovalService(
		&database.GormDB{DB: f.db},
		f.engine,
		f.steps,
		NewRegistry([]RequestAccessor{f.acc}),
		NewDispatcher([]Listener{rec}, zap.NewNop()),
		zap.NewNop(),
	)

	if _, err := svc.CreateChain(ctx, ref, []uint{11}); err != nil {
		t.Fatalf("create chain: %v", err)
	}
	if _, err := svc.Approve(ctx, ref, actor(11), ActionInput{}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	assertEventTypes(t, rec.events, EventStepApproved, EventRequestFullyApproved)

	// A failed action must not emit anything.
	if _, err := svc.Approve(ctx, ref, actor(11), ActionInput{}); err == nil {
		t.Fatal("expected failure on finalized request")
	}
	if len(rec.events) != 2 {
		t.Fatalf("failed action emitted events: %d total", len(rec.events))
	}
}

type recordingListener struct {
	events []Event
}

func (r *recordingListener) Name() string { return "recording" }

func (r *recordingListener) HandleApprovalEvent(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return nil
}

func assertEventTypes(t *testing.T, events []Event, want ...EventType) {
	t.Helper()
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if events[i].Type != w {
			t.Errorf("event %d: type = %s, want %s", i, events[i].Type, w)
		}
	}
}
