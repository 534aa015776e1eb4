package payments

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

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

type fixture struct {
	svc *Service
	st  store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	return &fixture{svc: NewService(st, zerolog.Nop()), st: st}
}

func (f *fixture) receipt(t *testing.T, total string) *model.Payment {
	t.Helper()
	p := &model.Payment{
		Direction: model.PaymentReceived,
		Date:      time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Method:    "check",
		Total:     dec(total),
	}
	require.NoError(t, f.svc.Create(p))
	return p
}

func (f *fixture) invoice(t *testing.T, total string) *model.Invoice {
	t.Helper()
	inv := &model.Invoice{CustomerID: 1, Number: "", Status: model.InvoiceStatusSent, Total: dec(total)}
	require.NoError(t, f.st.CreateInvoice(inv))
	return inv
}

func (f *fixture) bill(t *testing.T, total string) *model.Bill {
	t.Helper()
	b := &model.Bill{VendorID: 1, Status: model.BillStatusReceived, Total: dec(total)}
	require.NoError(t, f.st.CreateBill(b))
	return b
}

func TestCreateAssignsNumber(t *testing.T) {
	f := newFixture(t)

	a := f.receipt(t, "100")
	b := f.receipt(t, "200")

	assert.Equal(t, "PMT-1001", a.Number)
	assert.Equal(t, "PMT-1002", b.Number)
}

func TestApplySplitsAcrossDocuments(t *testing.T) {
	f := newFixture(t)
	p := f.receipt(t, "500")
	inv := f.invoice(t, "300")
	b := f.bill(t, "400")

	err := f.svc.Apply(p.ID, []Application{
		{InvoiceID: inv.ID, Amount: dec("300")},
		{BillID: b.ID, Amount: dec("200")},
	})
	require.NoError(t, err)

	gotInv, err := f.st.GetInvoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, gotInv.Status)

	gotBill, err := f.st.GetBill(b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusPartiallyPaid, gotBill.Status)
	assert.True(t, gotBill.BalanceDue().Equal(dec("200")))

	unapplied, err := f.svc.UnappliedAmount(p.ID)
	require.NoError(t, err)
	assert.True(t, unapplied.IsZero())
}

func TestApplyRejectsExceedingPaymentTotal(t *testing.T) {
	f := newFixture(t)
	p := f.receipt(t, "100")
	inv := f.invoice(t, "300")

	err := f.svc.Apply(p.ID, []Application{{InvoiceID: inv.ID, Amount: dec("150")}})
	require.ErrorIs(t, err, ErrOverApplied)

	// The whole batch rolls back.
	got, err := f.st.GetInvoice(inv.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.IsZero())
}

func TestApplyRejectsExceedingDocumentBalance(t *testing.T) {
	f := newFixture(t)
	p := f.receipt(t, "500")
	inv := f.invoice(t, "120")

	err := f.svc.Apply(p.ID, []Application{{InvoiceID: inv.ID, Amount: dec("200")}})
	require.ErrorIs(t, err, ErrOverApplied)
}

func TestApplyCountsPriorApplications(t *testing.T) {
	f := newFixture(t)
	p := f.receipt(t, "100")
	first := f.invoice(t, "80")
	second := f.invoice(t, "80")

	require.NoError(t, f.svc.Apply(p.ID, []Application{{InvoiceID: first.ID, Amount: dec("80")}}))

	err := f.svc.Apply(p.ID, []Application{{InvoiceID: second.ID, Amount: dec("30")}})
	require.ErrorIs(t, err, ErrOverApplied)

	require.NoError(t, f.svc.Apply(p.ID, []Application{{InvoiceID: second.ID, Amount: dec("20")}}))
	unapplied, err := f.svc.UnappliedAmount(p.ID)
	require.NoError(t, err)
	assert.True(t, unapplied.IsZero())
}

func TestApplyRequiresExactlyOneTarget(t *testing.T) {
	f := newFixture(t)
	p := f.receipt(t, "100")
	inv := f.invoice(t, "100")
	b := f.bill(t, "100")

	err := f.svc.Apply(p.ID, []Application{{InvoiceID: inv.ID, BillID: b.ID, Amount: dec("50")}})
	assert.Error(t, err)

	err = f.svc.Apply(p.ID, []Application{{Amount: dec("50")}})
	assert.Error(t, err)
}
