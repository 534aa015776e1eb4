package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibooks-dev/minibooks/internal/model"
)

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.GetAccount(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetJournalEntry(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetBankTransaction(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBankTransactionsOrderedByDateThenID(t *testing.T) {
	m := NewMemory()
	a := &model.BankAccount{Name: "Checking", Type: model.BankAccountChecking}
	require.NoError(t, m.CreateBankAccount(a))

	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	late := &model.BankTransaction{BankAccountID: a.ID, Date: day(20), Amount: decimal.NewFromInt(1)}
	require.NoError(t, m.CreateBankTransaction(late))
	early := &model.BankTransaction{BankAccountID: a.ID, Date: day(5), Amount: decimal.NewFromInt(2)}
	require.NoError(t, m.CreateBankTransaction(early))
	sameDay := &model.BankTransaction{BankAccountID: a.ID, Date: day(5), Amount: decimal.NewFromInt(3)}
	require.NoError(t, m.CreateBankTransaction(sameDay))

	got, err := m.ListBankTransactions(a.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, sameDay.ID, got[1].ID)
	assert.Equal(t, late.ID, got[2].ID)
}

func TestJournalEntryCarriesLines(t *testing.T) {
	m := NewMemory()

	e := &model.JournalEntry{
		EntryNumber: "JE-0001",
		Date:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      model.EntryStatusDraft,
		Lines: []model.JournalEntryLine{
			{AccountID: 1, Debit: decimal.NewFromInt(100)},
			{AccountID: 2, Credit: decimal.NewFromInt(100)},
		},
	}
	require.NoError(t, m.CreateJournalEntry(e))
	require.NotZero(t, e.ID)

	got, err := m.GetJournalEntry(e.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, e.ID, got.Lines[0].EntryID)
}

func TestAtomicJoinsNestedSections(t *testing.T) {
	m := NewMemory()

	err := m.Atomic(func(tx Store) error {
		if err := tx.CreateCustomer(&model.Customer{Number: "CUST-0001", Name: "Acme"}); err != nil {
			return err
		}
		// A nested section must not deadlock against the outer one.
		return tx.Atomic(func(inner Store) error {
			return inner.CreateCustomer(&model.Customer{Number: "CUST-0002", Name: "Globex"})
		})
	})
	require.NoError(t, err)

	all, err := m.ListCustomers()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteBankAccountRemovesTransactions(t *testing.T) {
	m := NewMemory()
	a := &model.BankAccount{Name: "Checking", Type: model.BankAccountChecking}
	require.NoError(t, m.CreateBankAccount(a))
	txn := &model.BankTransaction{BankAccountID: a.ID, Date: time.Now(), Amount: decimal.NewFromInt(10)}
	require.NoError(t, m.CreateBankTransaction(txn))

	require.NoError(t, m.DeleteBankAccount(a.ID))

	_, err := m.GetBankTransaction(txn.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
