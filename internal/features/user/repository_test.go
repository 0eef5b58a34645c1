package user

import (
	"context"
	"path/filepath"
	"testing"

	"go-hrms/internal/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newRepo(t *testing.T) (UserRepository, *gorm.DB) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "user.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Role{}, &Branch{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewUserRepository(&database.GormDB{DB: db}), db
}

func mustCreate(t *testing.T, repo UserRepository, u *User) *User {
	t.Helper()
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create %s: %v", u.Email, err)
	}
	return u
}

func TestManagerChain(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	ceo := mustCreate(t, repo, &User{Name: "CEO", Email: "ceo@example.com", PasswordHash: "x"})
	vp := mustCreate(t, repo, &User{Name: "VP", Email: "vp@example.com", PasswordHash: "x", ManagerID: &ceo.ID})
	lead := mustCreate(t, repo, &User{Name: "Lead", Email: "lead@example.com", PasswordHash: "x", ManagerID: &vp.ID})
	ic := mustCreate(t, repo, &User{Name: "IC", Email: "ic@example.com", PasswordHash: "x", ManagerID: &lead.ID})

	chain, err := repo.ManagerChain(ctx, ic.ID, 5)
	if err != nil {
		t.Fatalf("manager chain: %v", err)
	}
	want := []uint{lead.ID, vp.ID, ceo.ID}
	if len(chain) != len(want) {
		t.Fatalf("chain = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %d, want %d", i, chain[i], want[i])
		}
	}
}

func TestManagerChainTruncatedAtMax(t *testing.T) {
	repo, _ := newRepo(t)

	ceo := mustCreate(t, repo, &User{Name: "CEO", Email: "ceo@example.com", PasswordHash: "x"})
	vp := mustCreate(t, repo, &User{Name: "VP", Email: "vp@example.com", PasswordHash: "x", ManagerID: &ceo.ID})
	ic := mustCreate(t, repo, &User{Name: "IC", Email: "ic@example.com", PasswordHash: "x", ManagerID: &vp.ID})

	chain, err := repo.ManagerChain(context.Background(), ic.ID, 1)
	if err != nil {
		t.Fatalf("manager chain: %v", err)
	}
	if len(chain) != 1 || chain[0] != vp.ID {
		t.Errorf("chain = %v, want just [%d]", chain, vp.ID)
	}
}

func TestManagerChainWithoutManager(t *testing.T) {
	repo, _ := newRepo(t)

	solo := mustCreate(t, repo, &User{Name: "Solo", Email: "solo@example.com", PasswordHash: "x"})

	chain, err := repo.ManagerChain(context.Background(), solo.ID, 3)
	if err != nil {
		t.Fatalf("manager chain: %v", err)
	}
	if len(chain) != 0 {
		t.Errorf("chain = %v, want empty", chain)
	}
}
