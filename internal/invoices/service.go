// Package invoices is the receivables subledger adapter: it derives invoice
// totals from lines and keeps customer balances in step with every mutation.
package invoices

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/customers"
	"github.com/minibooks-dev/minibooks/internal/docnum"
	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// Summary aggregates invoice statistics for reporting.
type Summary struct {
	TotalInvoices    int
	DraftCount       int
	SentCount        int
	OverdueCount     int
	PaidCount        int
	TotalOutstanding decimal.Decimal
	TotalOverdue     decimal.Decimal
}

// Service provides business logic for invoices.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates an invoices Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// CreateWithLines assigns an invoice number when absent, derives subtotal,
// tax, and total from the lines, persists the invoice, and raises the
// customer's balance by the total. Document state and the balance bump land
// atomically.
func (s *Service) CreateWithLines(inv *model.Invoice, lines []model.InvoiceLine) error {
	return s.store.Atomic(func(tx store.Store) error {
		if inv.Number == "" {
			number, err := nextNumber(tx)
			if err != nil {
				return err
			}
			inv.Number = number
		}
		if inv.Status == "" {
			inv.Status = model.InvoiceStatusDraft
		}

		inv.Lines = lines
		applyTotals(inv)
		if err := tx.CreateInvoice(inv); err != nil {
			return err
		}
		if err := customers.AdjustBalance(tx, inv.CustomerID, inv.Total); err != nil {
			return err
		}
		s.log.Info().Str("invoice", inv.Number).Str("total", inv.Total.StringFixed(2)).Msg("created invoice")
		return nil
	})
}

// UpdateWithLines replaces the invoice's lines, recomputes totals, and
// adjusts the customer balance by the total's delta rather than re-adding the
// full amount.
func (s *Service) UpdateWithLines(inv *model.Invoice, lines []model.InvoiceLine) error {
	return s.store.Atomic(func(tx store.Store) error {
		existing, err := tx.GetInvoice(inv.ID)
		if err != nil {
			return err
		}
		oldTotal := existing.Total

		inv.Lines = lines
		applyTotals(inv)
		if err := tx.UpdateInvoice(inv); err != nil {
			return err
		}

		delta := inv.Total.Sub(oldTotal)
		if !delta.IsZero() {
			if err := customers.AdjustBalance(tx, inv.CustomerID, delta); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyPayment records amount paid against the invoice, transitions its
// status, links the payment through an application row, and lowers the
// customer balance by the amount. A missing invoice is a silent no-op.
func (s *Service) ApplyPayment(invoiceID int, amount decimal.Decimal, paymentID int) error {
	return ApplyPayment(s.store, invoiceID, amount, paymentID)
}

// Void marks the invoice void and removes its remaining exposure (the
// pre-void balance-due) from the customer balance. Paid amounts were already
// removed when each payment was applied. A missing or already-void invoice is
// a silent no-op.
func (s *Service) Void(invoiceID int) error {
	return s.store.Atomic(func(tx store.Store) error {
		inv, err := tx.GetInvoice(invoiceID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if inv.Status == model.InvoiceStatusVoid {
			return nil
		}

		previousDue := inv.BalanceDue()
		inv.Status = model.InvoiceStatusVoid
		if err := tx.UpdateInvoice(inv); err != nil {
			return err
		}
		if previousDue.IsPositive() {
			if err := customers.AdjustBalance(tx, inv.CustomerID, previousDue.Neg()); err != nil {
				return err
			}
		}
		s.log.Info().Str("invoice", inv.Number).Msg("voided invoice")
		return nil
	})
}

// MarkAsSent transitions a draft invoice to sent and stamps the sent date.
// A missing invoice is a silent no-op.
func (s *Service) MarkAsSent(invoiceID int, sentDate time.Time) error {
	inv, err := s.store.GetInvoice(invoiceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	inv.Status = model.InvoiceStatusSent
	inv.SentDate = sentDate
	return s.store.UpdateInvoice(inv)
}

// RecalculateTotals re-derives subtotal, tax, and total from the stored lines.
// This is the repair path when totals have drifted from their lines.
func (s *Service) RecalculateTotals(invoiceID int) error {
	inv, err := s.store.GetInvoice(invoiceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	applyTotals(inv)
	return s.store.UpdateInvoice(inv)
}

// Get returns one invoice with its lines.
func (s *Service) Get(id int) (*model.Invoice, error) {
	return s.store.GetInvoice(id)
}

// List returns all invoices.
func (s *Service) List() ([]*model.Invoice, error) {
	return s.store.ListInvoices()
}

// ListByCustomer returns one customer's invoices.
func (s *Service) ListByCustomer(customerID int) ([]*model.Invoice, error) {
	return s.store.ListInvoicesByCustomer(customerID)
}

// ListOverdue returns open invoices past their due date as of today.
// Overdue is computed, never an error state.
func (s *Service) ListOverdue(today time.Time) ([]*model.Invoice, error) {
	all, err := s.store.ListInvoices()
	if err != nil {
		return nil, err
	}
	var out []*model.Invoice
	for _, inv := range all {
		if inv.IsOverdue(today) {
			out = append(out, inv)
		}
	}
	return out, nil
}

// NextNumber returns the next free invoice number.
func (s *Service) NextNumber() (string, error) {
	return nextNumber(s.store)
}

// GetSummary aggregates counts and outstanding totals across all invoices.
func (s *Service) GetSummary(today time.Time) (*Summary, error) {
	all, err := s.store.ListInvoices()
	if err != nil {
		return nil, err
	}

	sum := &Summary{TotalOutstanding: decimal.Zero, TotalOverdue: decimal.Zero}
	for _, inv := range all {
		if inv.Status != model.InvoiceStatusVoid {
			sum.TotalInvoices++
		}
		switch inv.Status {
		case model.InvoiceStatusDraft:
			sum.DraftCount++
		case model.InvoiceStatusSent:
			sum.SentCount++
		case model.InvoiceStatusPaid:
			sum.PaidCount++
		}
		if inv.IsOpen() {
			sum.TotalOutstanding = sum.TotalOutstanding.Add(inv.BalanceDue())
		}
		if inv.IsOverdue(today) {
			sum.OverdueCount++
			sum.TotalOverdue = sum.TotalOverdue.Add(inv.BalanceDue())
		}
	}
	return sum, nil
}

// ApplyPayment is the package-level application primitive, usable inside an
// enclosing atomic section.
func ApplyPayment(st store.Store, invoiceID int, amount decimal.Decimal, paymentID int) error {
	return st.Atomic(func(tx store.Store) error {
		inv, err := tx.GetInvoice(invoiceID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		inv.AmountPaid = inv.AmountPaid.Add(amount)
		if inv.AmountPaid.GreaterThanOrEqual(inv.Total) {
			inv.Status = model.InvoiceStatusPaid
		} else if inv.AmountPaid.IsPositive() {
			inv.Status = model.InvoiceStatusPartiallyPaid
		}
		if err := tx.UpdateInvoice(inv); err != nil {
			return err
		}

		app := &model.PaymentApplication{
			PaymentID: paymentID,
			InvoiceID: invoiceID,
			Amount:    amount,
			Date:      timeNow(),
		}
		if err := tx.CreatePaymentApplication(app); err != nil {
			return err
		}
		return customers.AdjustBalance(tx, inv.CustomerID, amount.Neg())
	})
}

// applyTotals derives subtotal, tax, and total from the invoice's lines.
func applyTotals(inv *model.Invoice) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, l := range inv.Lines {
		subtotal = subtotal.Add(l.Total())
		tax = tax.Add(l.TaxAmount())
	}
	inv.Subtotal = subtotal
	inv.Tax = tax
	inv.Total = subtotal.Add(tax).Sub(inv.Discount)
}

func nextNumber(st store.Store) (string, error) {
	all, err := st.ListInvoices()
	if err != nil {
		return "", err
	}
	numbers := make([]string, len(all))
	for i, inv := range all {
		numbers[i] = inv.Number
	}
	return docnum.Next(docnum.PrefixInvoice, numbers, 1001), nil
}

// timeNow is stubbed in tests.
var timeNow = time.Now
