package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibooks-dev/minibooks/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestGenericParse(t *testing.T) {
	csv := `Date,Description,Amount,Reference
2026-01-05,Customer deposit,1200.00,dep-991
2026-01-06,Office rent,-900.00
`
	rows, err := (&GenericParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Date.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, model.BankTxnDeposit, rows[0].Type)
	assert.Equal(t, "Customer deposit", rows[0].Description)
	assert.Equal(t, "dep-991", rows[0].Reference)
	assert.True(t, rows[0].Amount.Equal(dec("1200")))

	assert.Equal(t, model.BankTxnWithdrawal, rows[1].Type)
	assert.Empty(t, rows[1].Reference)
	assert.True(t, rows[1].Amount.Equal(dec("-900")))
}

func TestGenericParseErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"bad date", "Date,Description,Amount\n01/05/2026,Rent,-900\n"},
		{"bad amount", "Date,Description,Amount\n2026-01-05,Rent,nine hundred\n"},
		{"too few fields", "Date,Description,Amount\n2026-01-05,Rent\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&GenericParser{}).Parse(strings.NewReader(tc.csv))
			assert.Error(t, err)
		})
	}
}

func TestGenericParseHeaderOnly(t *testing.T) {
	rows, err := (&GenericParser{}).Parse(strings.NewReader("Date,Description,Amount\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestChaseParse(t *testing.T) {
	csv := `Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
CREDIT,01/03/2026,GITHUB SPONSORS,150.00,ACH_CREDIT,1150.00,
DEBIT,01/04/2026,COMCAST CABLE,-89.99,ACH_DEBIT,1060.01,
`
	rows, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, model.BankTxnDeposit, rows[0].Type)
	assert.Equal(t, "GITHUB SPONSORS", rows[0].Description)
	assert.Equal(t, "chase_20260103_GITHUBSPON", rows[0].Reference)
	assert.True(t, rows[0].Amount.Equal(dec("150")))

	assert.Equal(t, model.BankTxnWithdrawal, rows[1].Type)
	assert.Equal(t, "chase_20260104_COMCASTCAB", rows[1].Reference)
}

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	reg := DefaultRegistry()

	assert.NotNil(t, reg.Get("generic"))
	assert.NotNil(t, reg.Get("Chase"))
	assert.Nil(t, reg.Get("wells_fargo"))
	assert.ElementsMatch(t, []string{"generic", "chase"}, reg.Formats())
}

func TestRegistryRejectsDuplicateFormat(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&GenericParser{})
	assert.Panics(t, func() { reg.Register(&GenericParser{}) })
}
