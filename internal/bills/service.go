// Package bills is the payables subledger adapter: it derives bill totals
// from lines and keeps vendor balances in step with every mutation.
package bills

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/docnum"
	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
	"github.com/minibooks-dev/minibooks/internal/vendors"
)

// Service provides business logic for vendor bills.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a bills Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// CreateWithLines assigns a bill number when absent, derives the total from
// the lines, persists the bill, and raises the vendor's balance by the total.
func (s *Service) CreateWithLines(b *model.Bill, lines []model.BillLine) error {
	return s.store.Atomic(func(tx store.Store) error {
		if b.Number == "" {
			number, err := nextNumber(tx)
			if err != nil {
				return err
			}
			b.Number = number
		}
		if b.Status == "" {
			b.Status = model.BillStatusDraft
		}

		b.Lines = lines
		applyTotals(b)
		if err := tx.CreateBill(b); err != nil {
			return err
		}
		if err := vendors.AdjustBalance(tx, b.VendorID, b.Total); err != nil {
			return err
		}
		s.log.Info().Str("bill", b.Number).Str("total", b.Total.StringFixed(2)).Msg("created bill")
		return nil
	})
}

// UpdateWithLines replaces the bill's lines, recomputes the total, and
// adjusts the vendor balance by the total's delta.
func (s *Service) UpdateWithLines(b *model.Bill, lines []model.BillLine) error {
	return s.store.Atomic(func(tx store.Store) error {
		existing, err := tx.GetBill(b.ID)
		if err != nil {
			return err
		}
		oldTotal := existing.Total

		b.Lines = lines
		applyTotals(b)
		if err := tx.UpdateBill(b); err != nil {
			return err
		}

		delta := b.Total.Sub(oldTotal)
		if !delta.IsZero() {
			if err := vendors.AdjustBalance(tx, b.VendorID, delta); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyPayment records amount paid against the bill, transitions its status,
// links the payment through an application row, and lowers the vendor balance
// by the amount. A missing bill is a silent no-op.
func (s *Service) ApplyPayment(billID int, amount decimal.Decimal, paymentID int) error {
	return ApplyPayment(s.store, billID, amount, paymentID)
}

// Void marks the bill void and removes its remaining exposure from the
// vendor balance. A missing or already-void bill is a silent no-op.
func (s *Service) Void(billID int) error {
	return s.store.Atomic(func(tx store.Store) error {
		b, err := tx.GetBill(billID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if b.Status == model.BillStatusVoid {
			return nil
		}

		previousDue := b.BalanceDue()
		b.Status = model.BillStatusVoid
		if err := tx.UpdateBill(b); err != nil {
			return err
		}
		if previousDue.IsPositive() {
			if err := vendors.AdjustBalance(tx, b.VendorID, previousDue.Neg()); err != nil {
				return err
			}
		}
		s.log.Info().Str("bill", b.Number).Msg("voided bill")
		return nil
	})
}

// MarkAsReceived transitions a draft bill to received and stamps the
// received date. A missing bill is a silent no-op.
func (s *Service) MarkAsReceived(billID int, receivedDate time.Time) error {
	b, err := s.store.GetBill(billID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	b.Status = model.BillStatusReceived
	b.ReceivedDate = receivedDate
	return s.store.UpdateBill(b)
}

// RecalculateTotals re-derives the totals from the stored lines.
func (s *Service) RecalculateTotals(billID int) error {
	b, err := s.store.GetBill(billID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	applyTotals(b)
	return s.store.UpdateBill(b)
}

// Get returns one bill with its lines.
func (s *Service) Get(id int) (*model.Bill, error) {
	return s.store.GetBill(id)
}

// List returns all bills.
func (s *Service) List() ([]*model.Bill, error) {
	return s.store.ListBills()
}

// ListByVendor returns one vendor's bills.
func (s *Service) ListByVendor(vendorID int) ([]*model.Bill, error) {
	return s.store.ListBillsByVendor(vendorID)
}

// ListOverdue returns open bills past their due date as of today.
func (s *Service) ListOverdue(today time.Time) ([]*model.Bill, error) {
	all, err := s.store.ListBills()
	if err != nil {
		return nil, err
	}
	var out []*model.Bill
	for _, b := range all {
		if b.IsOverdue(today) {
			out = append(out, b)
		}
	}
	return out, nil
}

// NextNumber returns the next free bill number.
func (s *Service) NextNumber() (string, error) {
	return nextNumber(s.store)
}

// ApplyPayment is the package-level application primitive, usable inside an
// enclosing atomic section.
func ApplyPayment(st store.Store, billID int, amount decimal.Decimal, paymentID int) error {
	return st.Atomic(func(tx store.Store) error {
		b, err := tx.GetBill(billID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		b.AmountPaid = b.AmountPaid.Add(amount)
		if b.AmountPaid.GreaterThanOrEqual(b.Total) {
			b.Status = model.BillStatusPaid
		} else if b.AmountPaid.IsPositive() {
			b.Status = model.BillStatusPartiallyPaid
		}
		if err := tx.UpdateBill(b); err != nil {
			return err
		}

		app := &model.PaymentApplication{
			PaymentID: paymentID,
			BillID:    billID,
			Amount:    amount,
			Date:      timeNow(),
		}
		if err := tx.CreatePaymentApplication(app); err != nil {
			return err
		}
		return vendors.AdjustBalance(tx, b.VendorID, amount.Neg())
	})
}

// applyTotals derives subtotal and total from the bill's lines. Bills carry
// no line-level tax; Tax stays whatever was entered on the document.
func applyTotals(b *model.Bill) {
	subtotal := decimal.Zero
	for _, l := range b.Lines {
		subtotal = subtotal.Add(l.Total())
	}
	b.Subtotal = subtotal
	b.Total = subtotal.Add(b.Tax).Sub(b.Discount)
}

func nextNumber(st store.Store) (string, error) {
	all, err := st.ListBills()
	if err != nil {
		return "", err
	}
	numbers := make([]string, len(all))
	for i, b := range all {
		numbers[i] = b.Number
	}
	return docnum.Next(docnum.PrefixBill, numbers, 1001), nil
}

// timeNow is stubbed in tests.
var timeNow = time.Now
