package points

import (
	"errors"
	"testing"

	"github.com/takato23/cocina/internal/domain"
	"github.com/takato23/cocina/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ─── Service Tests ──────────────────────────────────────────────────────────

func TestService_InitialBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	bal, err := svc.Balance("ana")
	if err != nil {
		t.Fatalf("Balance() error: %v", err)
	}
	if bal != 0 {
		t.Errorf("initial balance = %d, want 0", bal)
	}
}

func TestService_Earn(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	if err := svc.Earn("ana", 50, "ev-1", "recipe_cooked"); err != nil {
		t.Fatalf("Earn() error: %v", err)
	}

	bal, err := svc.Balance("ana")
	if err != nil {
		t.Fatalf("Balance() error: %v", err)
	}
	if bal != 50 {
		t.Errorf("balance after earn = %d, want 50", bal)
	}
}

func TestService_EarnMultiple(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	svc.Earn("ana", 10, "e1", "first")
	svc.Earn("ana", 20, "e2", "second")
	svc.Earn("ana", 30, "e3", "third")

	bal, _ := svc.Balance("ana")
	if bal != 60 {
		t.Errorf("balance = %d, want 60", bal)
	}
}

func TestService_EarnNonPositive(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	if err := svc.Earn("ana", -5, "e1", "negative"); err == nil {
		t.Error("Earn(-5) should return error")
	}
	if err := svc.Earn("ana", 0, "e2", "zero"); err == nil {
		t.Error("Earn(0) should return error")
	}
}

func TestService_Spend(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	svc.Earn("ana", 100, "e1", "earn first")

	if err := svc.Spend("ana", 30, "theme unlock"); err != nil {
		t.Fatalf("Spend() error: %v", err)
	}

	bal, _ := svc.Balance("ana")
	if bal != 70 {
		t.Errorf("balance after earn 100, spend 30 = %d, want 70", bal)
	}
}

func TestService_SpendInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	svc.Earn("ana", 10, "e1", "small earn")

	err := svc.Spend("ana", 20, "too much")
	if !errors.Is(err, domain.ErrInsufficientPoints) {
		t.Errorf("Spend(20) with balance=10: err = %v, want ErrInsufficientPoints", err)
	}
}

func TestService_BalancesAreIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	svc.Earn("ana", 100, "e1", "ana earns")

	bal, _ := svc.Balance("bruno")
	if bal != 0 {
		t.Errorf("bruno balance = %d, want 0", bal)
	}
	if err := svc.Spend("bruno", 10, "not his points"); err == nil {
		t.Error("bruno spending ana's points should fail")
	}
}

func TestService_DoubleEntryMatchesPool(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	svc.Earn("ana", 40, "e1", "earn")
	svc.Spend("ana", 15, "spend")

	userBal, _ := svc.Balance("ana")
	poolBal, err := db.AccountBalance(PoolAccount)
	if err != nil {
		t.Fatalf("AccountBalance() error: %v", err)
	}

	// Every credit to a user is a debit from the pool and vice versa
	if userBal != 25 || poolBal != -25 {
		t.Errorf("user=%d pool=%d, want 25 / -25", userBal, poolBal)
	}
}

func TestService_History(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	svc.Earn("ana", 10, "e1", "first")
	svc.Earn("ana", 20, "e2", "second")

	entries, err := svc.History("ana", 10)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("history entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.EntryType != domain.EntryCredit {
			t.Errorf("user-side entry type = %s, want CREDIT", e.EntryType)
		}
	}
}
