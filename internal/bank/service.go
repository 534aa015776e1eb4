// Package bank tracks bank accounts, running balances, and reconciliation
// against statements.
package bank

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// ReconciliationSummary compares the cleared balance against a statement.
// Difference is cleared balance minus statement balance; reconciliation is
// accepted even when it is nonzero.
type ReconciliationSummary struct {
	BeginningBalance   decimal.Decimal
	ClearedDeposits    decimal.Decimal
	ClearedWithdrawals decimal.Decimal
	ClearedBalance     decimal.Decimal
	StatementBalance   decimal.Decimal
	Difference         decimal.Decimal
	ClearedCount       int
	UnclearedCount     int
}

// Summary aggregates balances across all active bank accounts.
type Summary struct {
	TotalAccounts      int
	TotalCashBalance   decimal.Decimal
	TotalCreditBalance decimal.Decimal
	Unreconciled       int
}

// ImportedTransaction is one statement row handed to Import.
type ImportedTransaction struct {
	Date        time.Time
	Type        model.BankTransactionType
	Description string
	Reference   string
	Amount      decimal.Decimal
}

// ImportResult reports how an import run went.
type ImportResult struct {
	Imported   int
	Duplicates int
}

// Service provides business logic for bank accounts and transactions.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a bank Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// CreateAccount persists a new bank account. The current balance starts at
// the opening balance; the opening balance itself is not represented as a
// transaction row, so replays always start from it.
func (s *Service) CreateAccount(a *model.BankAccount) error {
	a.CurrentBalance = a.OpeningBalance
	if err := s.store.CreateBankAccount(a); err != nil {
		return fmt.Errorf("creating bank account %q: %w", a.Name, err)
	}
	return nil
}

// GetAccount returns one bank account.
func (s *Service) GetAccount(id int) (*model.BankAccount, error) {
	return s.store.GetBankAccount(id)
}

// ListAccounts returns all bank accounts.
func (s *Service) ListAccounts() ([]*model.BankAccount, error) {
	return s.store.ListBankAccounts()
}

// UpdateAccount persists changes to a bank account.
func (s *Service) UpdateAccount(a *model.BankAccount) error {
	return s.store.UpdateBankAccount(a)
}

// DeleteAccount removes a bank account and its transactions.
func (s *Service) DeleteAccount(id int) error {
	return s.store.DeleteBankAccount(id)
}

// CreateTransaction adds the signed amount to the account's current balance
// and stamps the transaction's running balance with the result. The snapshot
// is not maintained on later edits; RecalculateBalances re-derives it.
func (s *Service) CreateTransaction(t *model.BankTransaction) error {
	return s.store.Atomic(func(tx store.Store) error {
		a, err := tx.GetBankAccount(t.BankAccountID)
		if err != nil {
			return err
		}
		a.CurrentBalance = a.CurrentBalance.Add(t.Amount)
		t.RunningBalance = a.CurrentBalance
		if err := tx.CreateBankTransaction(t); err != nil {
			return err
		}
		return tx.UpdateBankAccount(a)
	})
}

// GetTransaction returns one transaction.
func (s *Service) GetTransaction(id int) (*model.BankTransaction, error) {
	return s.store.GetBankTransaction(id)
}

// ListTransactions returns an account's transactions in (date, id) order.
func (s *Service) ListTransactions(accountID int) ([]*model.BankTransaction, error) {
	return s.store.ListBankTransactions(accountID)
}

// UpdateTransaction persists edits to a transaction. When the amount changed
// the whole account is replayed so running balances stay consistent.
func (s *Service) UpdateTransaction(t *model.BankTransaction) error {
	return s.store.Atomic(func(tx store.Store) error {
		existing, err := tx.GetBankTransaction(t.ID)
		if err != nil {
			return err
		}
		amountChanged := !existing.Amount.Equal(t.Amount)
		if err := tx.UpdateBankTransaction(t); err != nil {
			return err
		}
		if amountChanged {
			return recalculate(tx, t.BankAccountID)
		}
		return nil
	})
}

// DeleteTransaction removes a transaction and replays the account.
func (s *Service) DeleteTransaction(id int) error {
	return s.store.Atomic(func(tx store.Store) error {
		t, err := tx.GetBankTransaction(id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.DeleteBankTransaction(id); err != nil {
			return err
		}
		return recalculate(tx, t.BankAccountID)
	})
}

// RecalculateBalances re-derives every running balance and the account's
// current balance by replaying all transactions in (date, id) order from the
// opening balance. This is the canonical repair path.
func (s *Service) RecalculateBalances(accountID int) error {
	return s.store.Atomic(func(tx store.Store) error {
		return recalculate(tx, accountID)
	})
}

// Transfer moves amount between two bank accounts as a linked withdrawal and
// deposit, both balances updated atomically as a pair.
func (s *Service) Transfer(fromAccountID, toAccountID int, amount decimal.Decimal, date time.Time, description string) (*model.BankTransaction, *model.BankTransaction, error) {
	amount = amount.Abs()
	var from, to *model.BankTransaction

	err := s.store.Atomic(func(tx store.Store) error {
		fromAcct, err := tx.GetBankAccount(fromAccountID)
		if err != nil {
			return err
		}
		toAcct, err := tx.GetBankAccount(toAccountID)
		if err != nil {
			return err
		}

		fromDesc, toDesc := description, description
		if description == "" {
			fromDesc = "Transfer to " + toAcct.Name
			toDesc = "Transfer from " + fromAcct.Name
		}

		fromAcct.CurrentBalance = fromAcct.CurrentBalance.Sub(amount)
		toAcct.CurrentBalance = toAcct.CurrentBalance.Add(amount)

		from = &model.BankTransaction{
			BankAccountID:     fromAccountID,
			Date:              date,
			Type:              model.BankTxnTransfer,
			Description:       fromDesc,
			Amount:            amount.Neg(),
			RunningBalance:    fromAcct.CurrentBalance,
			TransferAccountID: toAccountID,
		}
		to = &model.BankTransaction{
			BankAccountID:     toAccountID,
			Date:              date,
			Type:              model.BankTxnTransfer,
			Description:       toDesc,
			Amount:            amount,
			RunningBalance:    toAcct.CurrentBalance,
			TransferAccountID: fromAccountID,
		}

		if err := tx.CreateBankTransaction(from); err != nil {
			return err
		}
		if err := tx.CreateBankTransaction(to); err != nil {
			return err
		}
		if err := tx.UpdateBankAccount(fromAcct); err != nil {
			return err
		}
		return tx.UpdateBankAccount(toAcct)
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info().Int("from", fromAccountID).Int("to", toAccountID).
		Str("amount", amount.StringFixed(2)).Msg("transferred between bank accounts")
	return from, to, nil
}

// Reconcile marks each named transaction reconciled and cleared and records
// the statement balance and date on the account. The statement balance is
// stored as supplied; any discrepancy is the summary's job to surface, not a
// reason to refuse.
func (s *Service) Reconcile(accountID int, transactionIDs []int, statementBalance decimal.Decimal, statementDate time.Time) error {
	err := s.store.Atomic(func(tx store.Store) error {
		a, err := tx.GetBankAccount(accountID)
		if err != nil {
			return err
		}

		now := timeNow()
		for _, id := range transactionIDs {
			t, err := tx.GetBankTransaction(id)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			t.Reconciled = true
			t.ReconciledDate = now
			t.Cleared = true
			if err := tx.UpdateBankTransaction(t); err != nil {
				return err
			}
		}

		a.LastReconciledDate = statementDate
		a.LastReconciledBalance = statementBalance
		return tx.UpdateBankAccount(a)
	})
	if err != nil {
		return err
	}
	s.log.Info().Int("account", accountID).Int("transactions", len(transactionIDs)).
		Str("statement_balance", statementBalance.StringFixed(2)).Msg("reconciled bank account")
	return nil
}

// GetReconciliationSummary computes the cleared balance through the statement
// date and its difference against the supplied statement balance. Beginning
// balance is the last reconciled balance, or the opening balance when the
// account has never been reconciled.
func (s *Service) GetReconciliationSummary(accountID int, statementBalance decimal.Decimal, statementDate time.Time) (*ReconciliationSummary, error) {
	a, err := s.store.GetBankAccount(accountID)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.ListBankTransactions(accountID)
	if err != nil {
		return nil, err
	}

	beginning := a.OpeningBalance
	if !a.LastReconciledDate.IsZero() {
		beginning = a.LastReconciledBalance
	}

	sum := &ReconciliationSummary{
		BeginningBalance:   beginning,
		ClearedDeposits:    decimal.Zero,
		ClearedWithdrawals: decimal.Zero,
		StatementBalance:   statementBalance,
	}
	for _, t := range txns {
		if t.Date.After(statementDate) {
			continue
		}
		if !t.Cleared && !t.Reconciled {
			sum.UnclearedCount++
			continue
		}
		sum.ClearedCount++
		if t.IsDeposit() {
			sum.ClearedDeposits = sum.ClearedDeposits.Add(t.Amount)
		} else {
			sum.ClearedWithdrawals = sum.ClearedWithdrawals.Add(t.Amount.Abs())
		}
	}
	sum.ClearedBalance = beginning.Add(sum.ClearedDeposits).Sub(sum.ClearedWithdrawals)
	sum.Difference = sum.ClearedBalance.Sub(statementBalance)
	return sum, nil
}

// ClearTransaction marks a transaction cleared. Missing ids are a no-op.
func (s *Service) ClearTransaction(id int) error {
	t, err := s.store.GetBankTransaction(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	t.Cleared = true
	return s.store.UpdateBankTransaction(t)
}

// UnclearTransaction unmarks cleared. Reconciled transactions stay cleared.
func (s *Service) UnclearTransaction(id int) error {
	t, err := s.store.GetBankTransaction(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if t.Reconciled {
		return nil
	}
	t.Cleared = false
	return s.store.UpdateBankTransaction(t)
}

// Import inserts statement rows, skipping rows whose (date, amount,
// description) already exist on the account. Duplicates are counted, never
// errors.
func (s *Service) Import(accountID int, rows []ImportedTransaction) (*ImportResult, error) {
	result := &ImportResult{}
	err := s.store.Atomic(func(tx store.Store) error {
		a, err := tx.GetBankAccount(accountID)
		if err != nil {
			return err
		}
		existing, err := tx.ListBankTransactions(accountID)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(existing))
		for _, t := range existing {
			seen[dupKey(t.Date, t.Amount, t.Description)] = true
		}

		for _, row := range rows {
			key := dupKey(row.Date, row.Amount, row.Description)
			if seen[key] {
				result.Duplicates++
				continue
			}
			seen[key] = true

			a.CurrentBalance = a.CurrentBalance.Add(row.Amount)
			t := &model.BankTransaction{
				BankAccountID:  accountID,
				Date:           row.Date,
				Type:           row.Type,
				Description:    row.Description,
				Reference:      row.Reference,
				Amount:         row.Amount,
				RunningBalance: a.CurrentBalance,
			}
			if err := tx.CreateBankTransaction(t); err != nil {
				return err
			}
			result.Imported++
		}
		return tx.UpdateBankAccount(a)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("account", accountID).Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).Msg("imported bank transactions")
	return result, nil
}

// GetSummary aggregates balances across active accounts. Credit cards and
// lines of credit are reported separately from cash accounts.
func (s *Service) GetSummary() (*Summary, error) {
	all, err := s.store.ListBankAccounts()
	if err != nil {
		return nil, err
	}

	sum := &Summary{TotalCashBalance: decimal.Zero, TotalCreditBalance: decimal.Zero}
	for _, a := range all {
		if !a.IsActive {
			continue
		}
		sum.TotalAccounts++
		if a.Type == model.BankAccountCreditCard || a.Type == model.BankAccountLineOfCredit {
			sum.TotalCreditBalance = sum.TotalCreditBalance.Add(a.CurrentBalance)
		} else {
			sum.TotalCashBalance = sum.TotalCashBalance.Add(a.CurrentBalance)
		}

		txns, err := s.store.ListBankTransactions(a.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range txns {
			if !t.Reconciled {
				sum.Unreconciled++
			}
		}
	}
	return sum, nil
}

// recalculate replays one account's transactions in (date, id) order from the
// opening balance.
func recalculate(tx store.Store, accountID int) error {
	a, err := tx.GetBankAccount(accountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	txns, err := tx.ListBankTransactions(accountID)
	if err != nil {
		return err
	}

	running := a.OpeningBalance
	for _, t := range txns {
		running = running.Add(t.Amount)
		t.RunningBalance = running
		if err := tx.UpdateBankTransaction(t); err != nil {
			return err
		}
	}

	a.CurrentBalance = running
	return tx.UpdateBankAccount(a)
}

func dupKey(date time.Time, amount decimal.Decimal, description string) string {
	return date.Format("2006-01-02") + "|" + amount.String() + "|" + description
}

// timeNow is stubbed in tests.
var timeNow = time.Now
