package vendors

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st := store.NewMemory()
	return NewService(st, zerolog.Nop()), st
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	svc, _ := newService(t)

	a := &model.Vendor{Name: "Paper Supply Co"}
	require.NoError(t, svc.Create(a))
	b := &model.Vendor{Name: "City Utilities"}
	require.NoError(t, svc.Create(b))

	assert.Equal(t, "VEND-0001", a.Number)
	assert.Equal(t, "VEND-0002", b.Number)
}

func TestUpdateBalanceAccumulates(t *testing.T) {
	svc, _ := newService(t)
	v := &model.Vendor{Name: "Paper Supply Co"}
	require.NoError(t, svc.Create(v))

	require.NoError(t, svc.UpdateBalance(v.ID, dec("400")))
	require.NoError(t, svc.UpdateBalance(v.ID, dec("-150")))

	got, err := svc.Get(v.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("250")))
}

func TestUpdateBalanceMissingVendorIsNoOp(t *testing.T) {
	svc, _ := newService(t)
	assert.NoError(t, svc.UpdateBalance(12, dec("5")))
}

func TestRecalculateBalanceFromOpenBills(t *testing.T) {
	svc, st := newService(t)
	v := &model.Vendor{Name: "Paper Supply Co"}
	require.NoError(t, svc.Create(v))
	require.NoError(t, svc.UpdateBalance(v.ID, dec("-1")))

	open := &model.Bill{VendorID: v.ID, Number: "BILL-1001", Status: model.BillStatusReceived, Total: dec("600"), AmountPaid: dec("100")}
	require.NoError(t, st.CreateBill(open))
	paid := &model.Bill{VendorID: v.ID, Number: "BILL-1002", Status: model.BillStatusPaid, Total: dec("80"), AmountPaid: dec("80")}
	require.NoError(t, st.CreateBill(paid))

	got, err := svc.RecalculateBalance(v.ID)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("500")), "recalculated %s", got)

	stored, err := svc.Get(v.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("500")))
}

func TestTotalPayables(t *testing.T) {
	svc, _ := newService(t)

	a := &model.Vendor{Name: "Paper Supply Co"}
	require.NoError(t, svc.Create(a))
	require.NoError(t, svc.UpdateBalance(a.ID, dec("300")))

	b := &model.Vendor{Name: "City Utilities"}
	require.NoError(t, svc.Create(b))
	require.NoError(t, svc.UpdateBalance(b.ID, dec("45.25")))

	total, err := svc.TotalPayables()
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("345.25")))
}
