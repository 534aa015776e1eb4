package accounts

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

func newService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st := store.NewMemory()
	return NewService(st, zerolog.Nop()), st
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestAdjustBalanceNormalBalanceRule(t *testing.T) {
	tests := []struct {
		name    string
		typ     model.AccountType
		isDebit bool
		want    string
	}{
		{"asset debit increases", model.AccountTypeAsset, true, "100"},
		{"asset credit decreases", model.AccountTypeAsset, false, "-100"},
		{"expense debit increases", model.AccountTypeExpense, true, "100"},
		{"expense credit decreases", model.AccountTypeExpense, false, "-100"},
		{"liability debit decreases", model.AccountTypeLiability, true, "-100"},
		{"liability credit increases", model.AccountTypeLiability, false, "100"},
		{"equity credit increases", model.AccountTypeEquity, false, "100"},
		{"income debit decreases", model.AccountTypeIncome, true, "-100"},
		{"income credit increases", model.AccountTypeIncome, false, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newService(t)
			a := &model.Account{Number: "1000", Name: "Test", Type: tt.typ, IsActive: true}
			require.NoError(t, st.CreateAccount(a))

			require.NoError(t, svc.AdjustBalance(a.ID, dec("100"), tt.isDebit))

			got, err := st.GetAccount(a.ID)
			require.NoError(t, err)
			assert.True(t, got.Balance.Equal(dec(tt.want)), "balance %s, want %s", got.Balance, tt.want)
		})
	}
}

func TestAdjustBalanceMissingAccountIsNoOp(t *testing.T) {
	svc, _ := newService(t)
	assert.NoError(t, svc.AdjustBalance(999, dec("50"), true))
}

func TestNextAccountNumber(t *testing.T) {
	svc, st := newService(t)

	// Empty block starts at the base.
	n, err := svc.NextAccountNumber(model.AccountTypeLiability)
	require.NoError(t, err)
	assert.Equal(t, "2000", n)

	require.NoError(t, st.CreateAccount(&model.Account{Number: "2000", Name: "AP", Type: model.AccountTypeLiability}))
	require.NoError(t, st.CreateAccount(&model.Account{Number: "2100", Name: "CC", Type: model.AccountTypeLiability}))

	n, err = svc.NextAccountNumber(model.AccountTypeLiability)
	require.NoError(t, err)
	assert.Equal(t, "2101", n)
}

func TestNextAccountNumberIgnoresNonNumeric(t *testing.T) {
	svc, st := newService(t)
	require.NoError(t, st.CreateAccount(&model.Account{Number: "4000", Name: "Sales", Type: model.AccountTypeIncome}))
	require.NoError(t, st.CreateAccount(&model.Account{Number: "LEGACY-A", Name: "Old", Type: model.AccountTypeIncome}))

	n, err := svc.NextAccountNumber(model.AccountTypeIncome)
	require.NoError(t, err)
	assert.Equal(t, "4001", n)
}

func TestCreateAssignsNumber(t *testing.T) {
	svc, _ := newService(t)
	a := &model.Account{Name: "Consulting Revenue", Type: model.AccountTypeIncome, IsActive: true}
	require.NoError(t, svc.Create(a))
	assert.Equal(t, "4000", a.Number)
}

func TestSeedDefaults(t *testing.T) {
	svc, st := newService(t)

	require.NoError(t, svc.SeedDefaults())

	all, err := st.ListAccounts()
	require.NoError(t, err)
	require.Len(t, all, len(DefaultChart()))

	protected := map[string]bool{}
	for _, a := range all {
		if a.IsSystemAccount {
			protected[a.Number] = true
		}
	}
	assert.Equal(t, map[string]bool{
		"1000": true, "1010": true, "1100": true,
		"2000": true,
		"3000": true, "3200": true, "3900": true,
		"4000": true,
		"5000": true,
	}, protected)

	// Second seed is a no-op.
	require.NoError(t, svc.SeedDefaults())
	all, err = st.ListAccounts()
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultChart()))
}

func TestDeleteRefusesSystemAccounts(t *testing.T) {
	svc, st := newService(t)
	require.NoError(t, svc.SeedDefaults())

	cash, err := st.GetAccountByNumber("1000")
	require.NoError(t, err)
	err = svc.Delete(cash.ID)
	assert.ErrorIs(t, err, ErrSystemAccount)

	savings, err := st.GetAccountByNumber("1020")
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(savings.ID))
}
