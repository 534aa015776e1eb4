package journal

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

type fixture struct {
	svc      *Service
	st       store.Store
	checking *model.Account
	sales    *model.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	f := &fixture{
		svc:      NewService(st, zerolog.Nop()),
		st:       st,
		checking: &model.Account{Number: "1010", Name: "Checking Account", Type: model.AccountTypeAsset, IsActive: true},
		sales:    &model.Account{Number: "4000", Name: "Sales Revenue", Type: model.AccountTypeIncome, IsActive: true},
	}
	require.NoError(t, st.CreateAccount(f.checking))
	require.NoError(t, st.CreateAccount(f.sales))
	return f
}

func (f *fixture) balancedEntry(t *testing.T, amount string) *model.JournalEntry {
	t.Helper()
	e := &model.JournalEntry{
		Date: date(2026, 3, 1),
		Memo: "cash sale",
		Lines: []model.JournalEntryLine{
			{AccountID: f.checking.ID, Description: "cash sale", Debit: dec(amount)},
			{AccountID: f.sales.ID, Description: "cash sale", Credit: dec(amount)},
		},
	}
	require.NoError(t, f.svc.CreateWithLines(e))
	return e
}

func (f *fixture) balance(t *testing.T, id int) decimal.Decimal {
	t.Helper()
	a, err := f.st.GetAccount(id)
	require.NoError(t, err)
	return a.Balance
}

func TestCreateWithLinesAssignsNumberAndDraft(t *testing.T) {
	f := newFixture(t)

	e1 := f.balancedEntry(t, "100")
	e2 := f.balancedEntry(t, "250")

	assert.Equal(t, "JE-0001", e1.EntryNumber)
	assert.Equal(t, "JE-0002", e2.EntryNumber)
	assert.Equal(t, model.EntryStatusDraft, e1.Status)
}

func TestCreateWithLinesRejectsBadLines(t *testing.T) {
	f := newFixture(t)

	err := f.svc.CreateWithLines(&model.JournalEntry{
		Date: date(2026, 3, 1),
		Lines: []model.JournalEntryLine{
			{AccountID: f.checking.ID, Debit: dec("10"), Credit: dec("10")},
		},
	})
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 1)
}

func TestValidate(t *testing.T) {
	f := newFixture(t)

	balanced := &model.JournalEntry{Lines: []model.JournalEntryLine{
		{AccountID: f.checking.ID, Debit: dec("10")},
		{AccountID: f.sales.ID, Credit: dec("10")},
	}}
	unbalanced := &model.JournalEntry{Lines: []model.JournalEntryLine{
		{AccountID: f.checking.ID, Debit: dec("10")},
		{AccountID: f.sales.ID, Credit: dec("9.99")},
	}}
	empty := &model.JournalEntry{}

	assert.True(t, Validate(balanced))
	assert.False(t, Validate(unbalanced))
	assert.False(t, Validate(empty))
}

func TestPostAppliesNormalBalanceRule(t *testing.T) {
	f := newFixture(t)
	e := f.balancedEntry(t, "150")

	ok, err := f.svc.Post(e.ID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, f.balance(t, f.checking.ID).Equal(dec("150")))
	assert.True(t, f.balance(t, f.sales.ID).Equal(dec("150")))

	got, err := f.svc.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EntryStatusPosted, got.Status)
}

func TestPostFailures(t *testing.T) {
	f := newFixture(t)

	// Missing entry.
	ok, err := f.svc.Post(999)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unbalanced draft.
	unbalanced := &model.JournalEntry{
		Date: date(2026, 3, 2),
		Lines: []model.JournalEntryLine{
			{AccountID: f.checking.ID, Debit: dec("10")},
			{AccountID: f.sales.ID, Credit: dec("20")},
		},
	}
	require.NoError(t, f.svc.CreateWithLines(unbalanced))
	ok, err = f.svc.Post(unbalanced.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, f.balance(t, f.checking.ID).IsZero(), "failed post must not touch balances")

	// Double post.
	e := f.balancedEntry(t, "40")
	ok, err = f.svc.Post(e.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.svc.Post(e.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, f.balance(t, f.checking.ID).Equal(dec("40")), "double post must not apply twice")
}

func TestVoidReversesPost(t *testing.T) {
	f := newFixture(t)
	e := f.balancedEntry(t, "75.25")

	ok, err := f.svc.Post(e.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.svc.Void(e.ID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, f.balance(t, f.checking.ID).IsZero())
	assert.True(t, f.balance(t, f.sales.ID).IsZero())

	got, err := f.svc.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EntryStatusVoid, got.Status)
}

func TestVoidDraftReversesNothing(t *testing.T) {
	f := newFixture(t)
	e := f.balancedEntry(t, "60")

	ok, err := f.svc.Void(e.ID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, f.balance(t, f.checking.ID).IsZero())
	got, err := f.svc.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EntryStatusVoid, got.Status)
}

func TestVoidFailures(t *testing.T) {
	f := newFixture(t)

	ok, err := f.svc.Void(999)
	require.NoError(t, err)
	assert.False(t, ok)

	e := f.balancedEntry(t, "30")
	ok, err = f.svc.Void(e.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.svc.Void(e.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVoidedEntryCannotRepost(t *testing.T) {
	f := newFixture(t)
	e := f.balancedEntry(t, "30")

	ok, err := f.svc.Void(e.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.svc.Post(e.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, f.balance(t, f.checking.ID).IsZero())
}

func TestListByDateRange(t *testing.T) {
	f := newFixture(t)

	for day := 1; day <= 5; day++ {
		e := &model.JournalEntry{
			Date: date(2026, 3, day),
			Lines: []model.JournalEntryLine{
				{AccountID: f.checking.ID, Debit: dec("10")},
				{AccountID: f.sales.ID, Credit: dec("10")},
			},
		}
		require.NoError(t, f.svc.CreateWithLines(e))
	}

	got, err := f.svc.ListByDateRange(date(2026, 3, 2), date(2026, 3, 4))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
