// Package accounts owns the chart of accounts and the balance-mutation
// primitive every other component routes money movement through.
package accounts

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// ErrSystemAccount is returned when deleting a system-protected account.
var ErrSystemAccount = errors.New("accounts: system account cannot be deleted")

// Service provides business logic for the chart of accounts.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates an accounts Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Create assigns a number from the type's block when absent and persists the
// account.
func (s *Service) Create(a *model.Account) error {
	if a.Number == "" {
		number, err := NextNumber(s.store, a.Type)
		if err != nil {
			return err
		}
		a.Number = number
	}
	if err := s.store.CreateAccount(a); err != nil {
		return fmt.Errorf("creating account %s: %w", a.Number, err)
	}
	return nil
}

// Get returns one account by id.
func (s *Service) Get(id int) (*model.Account, error) {
	return s.store.GetAccount(id)
}

// GetByNumber returns one account by its account number.
func (s *Service) GetByNumber(number string) (*model.Account, error) {
	return s.store.GetAccountByNumber(number)
}

// List returns the full chart ordered by account number.
func (s *Service) List() ([]*model.Account, error) {
	return s.store.ListAccounts()
}

// ListByType returns accounts of one type ordered by account number.
func (s *Service) ListByType(t model.AccountType) ([]*model.Account, error) {
	return s.store.ListAccountsByType(t)
}

// Update persists changes to an account. Balance changes must go through
// AdjustBalance instead.
func (s *Service) Update(a *model.Account) error {
	return s.store.UpdateAccount(a)
}

// Delete removes an account. System-protected accounts are refused.
func (s *Service) Delete(id int) error {
	a, err := s.store.GetAccount(id)
	if err != nil {
		return err
	}
	if a.IsSystemAccount {
		return fmt.Errorf("%w: %s %s", ErrSystemAccount, a.Number, a.Name)
	}
	return s.store.DeleteAccount(id)
}

// AdjustBalance applies amount to an account under the normal-balance rule.
// Missing accounts are a silent no-op.
func (s *Service) AdjustBalance(accountID int, amount decimal.Decimal, isDebit bool) error {
	return Adjust(s.store, accountID, amount, isDebit)
}

// NextAccountNumber returns the next free number in the type's block.
func (s *Service) NextAccountNumber(t model.AccountType) (string, error) {
	return NextNumber(s.store, t)
}

// SeedDefaults inserts the default chart of accounts on an empty store. It is
// idempotent: if any account exists it does nothing.
func (s *Service) SeedDefaults() error {
	n, err := s.store.CountAccounts()
	if err != nil {
		return fmt.Errorf("counting accounts: %w", err)
	}
	if n > 0 {
		return nil
	}

	err = s.store.Atomic(func(st store.Store) error {
		for _, a := range DefaultChart() {
			if err := st.CreateAccount(a); err != nil {
				return fmt.Errorf("seeding account %s: %w", a.Number, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Int("accounts", len(DefaultChart())).Msg("seeded default chart of accounts")
	return nil
}

// Adjust applies amount to an account's balance under the normal-balance rule:
// assets and expenses grow with debits, liabilities, equity, and income grow
// with credits. A missing account is a silent no-op so callers composing many
// adjustments do not need existence pre-checks.
func Adjust(st store.Store, accountID int, amount decimal.Decimal, isDebit bool) error {
	a, err := st.GetAccount(accountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if a.Type.NormalDebitBalance() == isDebit {
		a.Balance = a.Balance.Add(amount)
	} else {
		a.Balance = a.Balance.Sub(amount)
	}
	return st.UpdateAccount(a)
}

// NextNumber computes the next free account number in the type's numeric
// block. Non-numeric numbers are skipped, not errors.
func NextNumber(st store.Store, t model.AccountType) (string, error) {
	existing, err := st.ListAccountsByType(t)
	if err != nil {
		return "", err
	}

	max := t.NumberBase() - 1
	for _, a := range existing {
		n, err := strconv.Atoi(a.Number)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1), nil
}
