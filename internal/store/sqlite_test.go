package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibooks-dev/minibooks/internal/model"
)

func newSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSQLiteReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	a := &model.Account{Number: "1000", Name: "Cash on Hand", Type: model.AccountTypeAsset, IsActive: true}
	require.NoError(t, s.CreateAccount(a))
	require.NoError(t, s.Close())

	// Schema application must be idempotent and data must survive.
	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetAccount(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cash on Hand", got.Name)
}

func TestSQLiteAccountRoundTrip(t *testing.T) {
	s := newSQLite(t)

	a := &model.Account{
		Number:          "1100",
		Name:            "Accounts Receivable",
		Description:     "Amounts owed by customers",
		Type:            model.AccountTypeAsset,
		SubType:         model.SubTypeAccountsReceivable,
		Balance:         decimal.RequireFromString("1234.56"),
		IsActive:        true,
		IsSystemAccount: true,
		DisplayOrder:    3,
	}
	require.NoError(t, s.CreateAccount(a))
	require.NotZero(t, a.ID)

	got, err := s.GetAccount(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Number, got.Number)
	assert.Equal(t, a.Type, got.Type)
	assert.Equal(t, a.SubType, got.SubType)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1234.56")), "balance %s", got.Balance)
	assert.True(t, got.IsSystemAccount)

	byNumber, err := s.GetAccountByNumber("1100")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byNumber.ID)

	n, err := s.CountAccounts()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteNotFoundMapping(t *testing.T) {
	s := newSQLite(t)

	_, err := s.GetAccount(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetAccountByNumber("9999")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetInvoice(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetBankTransaction(1)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.UpdateAccount(&model.Account{ID: 42, Number: "1000", Type: model.AccountTypeAsset})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteAccount(42), ErrNotFound)
}

func TestSQLiteAtomicRollsBack(t *testing.T) {
	s := newSQLite(t)

	a := &model.Account{Number: "1000", Name: "Cash on Hand", Type: model.AccountTypeAsset, IsActive: true}
	require.NoError(t, s.CreateAccount(a))

	boom := errors.New("boom")
	err := s.Atomic(func(tx Store) error {
		a.Balance = decimal.RequireFromString("500")
		if err := tx.UpdateAccount(a); err != nil {
			return err
		}
		if err := tx.CreateCustomer(&model.Customer{Number: "CUST-0001", Name: "Acme"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetAccount(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero(), "balance %s leaked from a failed section", got.Balance)

	all, err := s.ListCustomers()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteAtomicCommitsAndJoins(t *testing.T) {
	s := newSQLite(t)

	err := s.Atomic(func(tx Store) error {
		if err := tx.CreateCustomer(&model.Customer{Number: "CUST-0001", Name: "Acme"}); err != nil {
			return err
		}
		// A nested section joins the same transaction instead of
		// starting a second one, which SQLite would refuse.
		return tx.Atomic(func(inner Store) error {
			return inner.CreateVendor(&model.Vendor{Number: "VEND-0001", Name: "Paper Supply Co"})
		})
	})
	require.NoError(t, err)

	customers, err := s.ListCustomers()
	require.NoError(t, err)
	assert.Len(t, customers, 1)
	vendors, err := s.ListVendors()
	require.NoError(t, err)
	assert.Len(t, vendors, 1)
}

func TestSQLiteInvoiceRoundTripWithNullDates(t *testing.T) {
	s := newSQLite(t)

	// No due date, never sent: both must come back as zero times.
	open := &model.Invoice{
		Number:     "INV-1001",
		CustomerID: 1,
		Date:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:     model.InvoiceStatusDraft,
		Subtotal:   decimal.RequireFromString("100"),
		Tax:        decimal.RequireFromString("8"),
		Total:      decimal.RequireFromString("108"),
		Lines: []model.InvoiceLine{
			{Description: "Consulting", Quantity: decimal.RequireFromString("4"), UnitPrice: decimal.RequireFromString("25"), TaxRate: decimal.RequireFromString("8"), Taxable: true},
		},
	}
	require.NoError(t, s.CreateInvoice(open))

	got, err := s.GetInvoice(open.ID)
	require.NoError(t, err)
	assert.True(t, got.DueDate.IsZero())
	assert.True(t, got.SentDate.IsZero())
	assert.True(t, got.Total.Equal(decimal.RequireFromString("108")))
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("25")))
	assert.True(t, got.Lines[0].Taxable)

	sent := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	got.SentDate, got.DueDate = sent, due
	got.Status = model.InvoiceStatusSent
	require.NoError(t, s.UpdateInvoice(got))

	again, err := s.GetInvoice(open.ID)
	require.NoError(t, err)
	assert.True(t, again.SentDate.Equal(sent))
	assert.True(t, again.DueDate.Equal(due))
}

func TestSQLiteJournalEntryUpdateReplacesLines(t *testing.T) {
	s := newSQLite(t)

	e := &model.JournalEntry{
		EntryNumber: "JE-0001",
		Date:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      model.EntryStatusDraft,
		Lines: []model.JournalEntryLine{
			{AccountID: 1, Debit: decimal.RequireFromString("100")},
			{AccountID: 2, Credit: decimal.RequireFromString("100")},
		},
	}
	require.NoError(t, s.CreateJournalEntry(e))

	e.Lines = []model.JournalEntryLine{
		{AccountID: 1, Debit: decimal.RequireFromString("250")},
		{AccountID: 3, Credit: decimal.RequireFromString("250")},
	}
	require.NoError(t, s.UpdateJournalEntry(e))

	got, err := s.GetJournalEntry(e.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 3, got.Lines[1].AccountID)
	assert.True(t, got.Lines[0].Debit.Equal(decimal.RequireFromString("250")))
	assert.Equal(t, e.ID, got.Lines[0].EntryID)

	byAccount, err := s.ListJournalEntriesByAccount(2)
	require.NoError(t, err)
	assert.Empty(t, byAccount, "replaced lines must not linger")
}

func TestSQLiteBankTransactionsOrderedByDateThenID(t *testing.T) {
	s := newSQLite(t)

	a := &model.BankAccount{
		Name:               "Business Checking",
		Type:               model.BankAccountChecking,
		OpeningBalance:     decimal.RequireFromString("500"),
		OpeningBalanceDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:           true,
	}
	require.NoError(t, s.CreateBankAccount(a))

	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	late := &model.BankTransaction{BankAccountID: a.ID, Date: day(20), Type: model.BankTxnDeposit, Amount: decimal.RequireFromString("1")}
	require.NoError(t, s.CreateBankTransaction(late))
	early := &model.BankTransaction{BankAccountID: a.ID, Date: day(5), Type: model.BankTxnDeposit, Amount: decimal.RequireFromString("2")}
	require.NoError(t, s.CreateBankTransaction(early))
	sameDay := &model.BankTransaction{BankAccountID: a.ID, Date: day(5), Type: model.BankTxnWithdrawal, Amount: decimal.RequireFromString("-3")}
	require.NoError(t, s.CreateBankTransaction(sameDay))

	got, err := s.ListBankTransactions(a.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, sameDay.ID, got[1].ID)
	assert.Equal(t, late.ID, got[2].ID)

	// Never-reconciled transactions carry a NULL reconciled date.
	assert.True(t, got[0].ReconciledDate.IsZero())
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("-3")))
}

func TestSQLiteDeleteBankAccountCascades(t *testing.T) {
	s := newSQLite(t)

	a := &model.BankAccount{Name: "Checking", Type: model.BankAccountChecking, OpeningBalanceDate: time.Now(), IsActive: true}
	require.NoError(t, s.CreateBankAccount(a))
	txn := &model.BankTransaction{BankAccountID: a.ID, Date: time.Now(), Type: model.BankTxnDeposit, Amount: decimal.RequireFromString("10")}
	require.NoError(t, s.CreateBankTransaction(txn))

	require.NoError(t, s.DeleteBankAccount(a.ID))

	_, err := s.GetBankTransaction(txn.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLitePaymentApplicationQueries(t *testing.T) {
	s := newSQLite(t)

	p := &model.Payment{Number: "PMT-1001", Direction: model.PaymentReceived, Date: time.Now(), Total: decimal.RequireFromString("150")}
	require.NoError(t, s.CreatePayment(p))

	forInvoice := &model.PaymentApplication{PaymentID: p.ID, InvoiceID: 7, Amount: decimal.RequireFromString("100"), Date: time.Now()}
	require.NoError(t, s.CreatePaymentApplication(forInvoice))
	forBill := &model.PaymentApplication{PaymentID: p.ID, BillID: 9, Amount: decimal.RequireFromString("50"), Date: time.Now()}
	require.NoError(t, s.CreatePaymentApplication(forBill))

	byPayment, err := s.ListPaymentApplications(p.ID)
	require.NoError(t, err)
	assert.Len(t, byPayment, 2)

	byInvoice, err := s.ListInvoiceApplications(7)
	require.NoError(t, err)
	require.Len(t, byInvoice, 1)
	assert.True(t, byInvoice[0].Amount.Equal(decimal.RequireFromString("100")))

	byBill, err := s.ListBillApplications(9)
	require.NoError(t, err)
	require.Len(t, byBill, 1)
	assert.Equal(t, p.ID, byBill[0].PaymentID)
}
