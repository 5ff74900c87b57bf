// Package points implements the double-entry reward points ledger.
// Every operation creates matched DEBIT/CREDIT entries;
// SUM(debits) == SUM(credits) is an invariant.
package points

import (
	"fmt"
	"time"

	"github.com/takato23/cocina/internal/domain"
	"github.com/takato23/cocina/internal/infra/metrics"
	"github.com/takato23/cocina/internal/infra/sqlite"
)

// PoolAccount is the system-side counterpart of every user transaction.
const PoolAccount = "reward_pool"

// Service manages the points economy.
type Service struct {
	db *sqlite.DB
}

// NewService creates a points service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// UserAccount returns the ledger account name for a user.
func UserAccount(userID string) string {
	return "user:" + userID
}

// Balance returns a user's current points balance.
func (s *Service) Balance(userID string) (int64, error) {
	return s.db.AccountBalance(UserAccount(userID))
}

// Earn credits points to a user. Creates a matched DEBIT (reward_pool) and
// CREDIT (user account) pair tied to the originating XP event.
func (s *Service) Earn(userID string, amount int64, eventID, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("earn amount must be positive, got %d", amount)
	}
	if userID == "" {
		return domain.ErrEmptyUserID
	}

	now := time.Now()
	account := UserAccount(userID)

	poolBal, err := s.db.AccountBalance(PoolAccount)
	if err != nil {
		return fmt.Errorf("get pool balance: %w", err)
	}
	userBal, err := s.db.AccountBalance(account)
	if err != nil {
		return fmt.Errorf("get user balance: %w", err)
	}

	// DEBIT reward_pool (source)
	_, err = s.db.InsertLedgerEntry(domain.LedgerEntry{
		Timestamp:   now,
		Type:        domain.TxEarn,
		EntryType:   domain.EntryDebit,
		Account:     PoolAccount,
		Amount:      amount,
		EventID:     eventID,
		Description: reason,
		Balance:     poolBal - amount,
	})
	if err != nil {
		return fmt.Errorf("debit reward_pool: %w", err)
	}

	// CREDIT user account (destination)
	_, err = s.db.InsertLedgerEntry(domain.LedgerEntry{
		Timestamp:   now,
		Type:        domain.TxEarn,
		EntryType:   domain.EntryCredit,
		Account:     account,
		Amount:      amount,
		EventID:     eventID,
		Description: reason,
		Balance:     userBal + amount,
	})
	if err != nil {
		return fmt.Errorf("credit %s: %w", account, err)
	}

	return nil
}

// Spend debits points from a user for a redemption.
func (s *Service) Spend(userID string, amount int64, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("spend amount must be positive, got %d", amount)
	}

	account := UserAccount(userID)
	userBal, err := s.db.AccountBalance(account)
	if err != nil {
		return fmt.Errorf("get user balance: %w", err)
	}
	if userBal < amount {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientPoints, userBal, amount)
	}

	now := time.Now()
	poolBal, _ := s.db.AccountBalance(PoolAccount)

	// DEBIT user account
	_, err = s.db.InsertLedgerEntry(domain.LedgerEntry{
		Timestamp:   now,
		Type:        domain.TxSpend,
		EntryType:   domain.EntryDebit,
		Account:     account,
		Amount:      amount,
		Description: reason,
		Balance:     userBal - amount,
	})
	if err != nil {
		return err
	}

	// CREDIT reward_pool
	_, err = s.db.InsertLedgerEntry(domain.LedgerEntry{
		Timestamp:   now,
		Type:        domain.TxSpend,
		EntryType:   domain.EntryCredit,
		Account:     PoolAccount,
		Amount:      amount,
		Description: reason,
		Balance:     poolBal + amount,
	})
	if err != nil {
		return err
	}

	metrics.PointsSpent.Add(float64(amount))
	return nil
}

// History returns recent ledger entries for a user.
func (s *Service) History(userID string, limit int) ([]domain.LedgerEntry, error) {
	return s.db.LedgerEntries(UserAccount(userID), limit)
}
