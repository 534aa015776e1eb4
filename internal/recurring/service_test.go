package recurring

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibooks-dev/minibooks/internal/journal"
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
	rent     int // expense account id
	checking int // asset account id
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	js := journal.NewService(st, zerolog.Nop())
	f := &fixture{svc: NewService(st, js, zerolog.Nop()), st: st}

	rent := &model.Account{Number: "6100", Name: "Rent Expense", Type: model.AccountTypeExpense, IsActive: true}
	require.NoError(t, st.CreateAccount(rent))
	checking := &model.Account{Number: "1010", Name: "Business Checking", Type: model.AccountTypeAsset, IsActive: true}
	require.NoError(t, st.CreateAccount(checking))
	f.rent = rent.ID
	f.checking = checking.ID
	return f
}

func (f *fixture) rentTemplate(t *testing.T, autoPost bool) *model.RecurringEntry {
	t.Helper()
	r := &model.RecurringEntry{
		Name:      "Monthly rent",
		Memo:      "Office rent",
		Frequency: model.FrequencyMonthly,
		StartDate: date(2026, 1, 1),
		IsActive:  true,
		AutoPost:  autoPost,
		Lines: []model.RecurringEntryLine{
			{AccountID: f.rent, Description: "Rent", Debit: dec("1200")},
			{AccountID: f.checking, Description: "Rent", Credit: dec("1200")},
		},
	}
	require.NoError(t, f.svc.Create(r))
	return r
}

func (f *fixture) accountBalance(t *testing.T, id int) decimal.Decimal {
	t.Helper()
	a, err := f.st.GetAccount(id)
	require.NoError(t, err)
	return a.Balance
}

func TestCreateDefaultsScheduleFields(t *testing.T) {
	f := newFixture(t)

	r := &model.RecurringEntry{
		Name:      "Depreciation",
		StartDate: date(2026, 3, 1),
		IsActive:  true,
		Lines:     []model.RecurringEntryLine{{AccountID: f.rent, Debit: dec("10")}},
	}
	require.NoError(t, f.svc.Create(r))

	assert.True(t, r.NextRunDate.Equal(date(2026, 3, 1)))
	assert.Equal(t, model.FrequencyMonthly, r.Frequency)
}

func TestDueFiltering(t *testing.T) {
	f := newFixture(t)

	due := f.rentTemplate(t, false)

	future := f.rentTemplate(t, false)
	future.NextRunDate = date(2026, 9, 1)
	require.NoError(t, f.svc.Update(future))

	inactive := f.rentTemplate(t, false)
	inactive.IsActive = false
	require.NoError(t, f.svc.Update(inactive))

	ended := f.rentTemplate(t, false)
	ended.EndDate = date(2026, 2, 1)
	require.NoError(t, f.svc.Update(ended))

	got, err := f.svc.Due(date(2026, 5, 15))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

func TestGenerateCopiesLinesAndAdvancesSchedule(t *testing.T) {
	f := newFixture(t)
	r := f.rentTemplate(t, false)

	entry, err := f.svc.Generate(r.ID)
	require.NoError(t, err)

	assert.Equal(t, "JE-0001", entry.EntryNumber)
	assert.Equal(t, model.EntryStatusDraft, entry.Status)
	assert.True(t, entry.Date.Equal(date(2026, 1, 1)))
	require.Len(t, entry.Lines, 2)
	assert.True(t, entry.Lines[0].Debit.Equal(dec("1200")))
	assert.True(t, entry.Lines[1].Credit.Equal(dec("1200")))

	// Draft entries have no balance effect.
	assert.True(t, f.accountBalance(t, f.rent).IsZero())

	got, err := f.svc.Get(r.ID)
	require.NoError(t, err)
	assert.True(t, got.NextRunDate.Equal(date(2026, 2, 1)))
	assert.True(t, got.LastRunDate.Equal(date(2026, 1, 1)))
	assert.Equal(t, 1, got.TimesGenerated)
}

func TestGenerateAutoPostsBalances(t *testing.T) {
	f := newFixture(t)
	r := f.rentTemplate(t, true)

	entry, err := f.svc.Generate(r.ID)
	require.NoError(t, err)

	assert.Equal(t, model.EntryStatusPosted, entry.Status)
	assert.True(t, f.accountBalance(t, f.rent).Equal(dec("1200")))
	assert.True(t, f.accountBalance(t, f.checking).Equal(dec("-1200")))
}

func TestGenerateUnpostableTemplateFails(t *testing.T) {
	f := newFixture(t)

	r := &model.RecurringEntry{
		Name:      "Broken accrual",
		Frequency: model.FrequencyMonthly,
		StartDate: date(2026, 1, 1),
		IsActive:  true,
		AutoPost:  true,
		Lines: []model.RecurringEntryLine{
			{AccountID: f.rent, Debit: dec("100")},
			{AccountID: f.checking, Credit: dec("75")},
		},
	}
	require.NoError(t, f.svc.Create(r))

	_, err := f.svc.Generate(r.ID)
	require.Error(t, err)

	// The schedule must not advance on failure.
	got, getErr := f.svc.Get(r.ID)
	require.NoError(t, getErr)
	assert.True(t, got.NextRunDate.Equal(date(2026, 1, 1)))
	assert.Zero(t, got.TimesGenerated)
	assert.True(t, f.accountBalance(t, f.rent).IsZero())
}

func TestGenerateDueSkipsFailingTemplates(t *testing.T) {
	f := newFixture(t)
	f.rentTemplate(t, true)

	broken := &model.RecurringEntry{
		Name:      "Broken accrual",
		Frequency: model.FrequencyMonthly,
		StartDate: date(2026, 1, 1),
		IsActive:  true,
		AutoPost:  true,
		Lines:     []model.RecurringEntryLine{{AccountID: f.rent, Debit: dec("100")}},
	}
	require.NoError(t, f.svc.Create(broken))

	generated, err := f.svc.GenerateDue(date(2026, 1, 31))
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, model.EntryStatusPosted, generated[0].Status)
}

func TestFrequencyNext(t *testing.T) {
	from := date(2026, 1, 31)
	tests := []struct {
		freq model.Frequency
		want time.Time
	}{
		{model.FrequencyDaily, date(2026, 2, 1)},
		{model.FrequencyWeekly, date(2026, 2, 7)},
		{model.FrequencyBiWeekly, date(2026, 2, 14)},
		{model.FrequencyMonthly, date(2026, 3, 3)}, // Jan 31 + 1 month normalizes
		{model.FrequencyQuarterly, date(2026, 5, 1)},
		{model.FrequencyAnnually, date(2027, 1, 31)},
	}
	for _, tc := range tests {
		got := tc.freq.Next(from)
		assert.True(t, got.Equal(tc.want), "%s: got %s", tc.freq, got)
	}
}
