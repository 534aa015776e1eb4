// Package payments records customer receipts and vendor payments and applies
// them across invoices and bills.
package payments

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/bills"
	"github.com/minibooks-dev/minibooks/internal/docnum"
	"github.com/minibooks-dev/minibooks/internal/invoices"
	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// ErrOverApplied is returned when an application would exceed the payment's
// unapplied amount or a document's balance due.
var ErrOverApplied = errors.New("payments: application exceeds available amount")

// Application names one document and the amount of the payment to apply to it.
// Exactly one of InvoiceID or BillID must be set.
type Application struct {
	InvoiceID int
	BillID    int
	Amount    decimal.Decimal
}

// Service provides business logic for payments.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a payments Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Create assigns a payment number when absent and persists the payment.
func (s *Service) Create(p *model.Payment) error {
	if p.Number == "" {
		number, err := s.NextNumber()
		if err != nil {
			return err
		}
		p.Number = number
	}
	if err := s.store.CreatePayment(p); err != nil {
		return fmt.Errorf("creating payment %s: %w", p.Number, err)
	}
	return nil
}

// Get returns one payment by id.
func (s *Service) Get(id int) (*model.Payment, error) {
	return s.store.GetPayment(id)
}

// List returns all payments.
func (s *Service) List() ([]*model.Payment, error) {
	return s.store.ListPayments()
}

// Apply applies parts of a payment across invoices or bills in one atomic
// operation. The sum of all applications, including prior ones, may not
// exceed the payment's total, and each amount may not exceed the target
// document's balance due.
func (s *Service) Apply(paymentID int, apps []Application) error {
	return s.store.Atomic(func(tx store.Store) error {
		p, err := tx.GetPayment(paymentID)
		if err != nil {
			return err
		}

		unapplied, err := unappliedAmount(tx, p)
		if err != nil {
			return err
		}

		for _, app := range apps {
			if (app.InvoiceID == 0) == (app.BillID == 0) {
				return fmt.Errorf("payments: application must name exactly one invoice or bill")
			}
			if app.Amount.GreaterThan(unapplied) {
				return fmt.Errorf("%w: %s of payment %s left, tried %s",
					ErrOverApplied, unapplied.StringFixed(2), p.Number, app.Amount.StringFixed(2))
			}

			if app.InvoiceID != 0 {
				inv, err := tx.GetInvoice(app.InvoiceID)
				if err != nil {
					return err
				}
				if app.Amount.GreaterThan(inv.BalanceDue()) {
					return fmt.Errorf("%w: invoice %s balance due %s, tried %s",
						ErrOverApplied, inv.Number, inv.BalanceDue().StringFixed(2), app.Amount.StringFixed(2))
				}
				if err := invoices.ApplyPayment(tx, app.InvoiceID, app.Amount, paymentID); err != nil {
					return err
				}
			} else {
				b, err := tx.GetBill(app.BillID)
				if err != nil {
					return err
				}
				if app.Amount.GreaterThan(b.BalanceDue()) {
					return fmt.Errorf("%w: bill %s balance due %s, tried %s",
						ErrOverApplied, b.Number, b.BalanceDue().StringFixed(2), app.Amount.StringFixed(2))
				}
				if err := bills.ApplyPayment(tx, app.BillID, app.Amount, paymentID); err != nil {
					return err
				}
			}
			unapplied = unapplied.Sub(app.Amount)
		}
		s.log.Info().Str("payment", p.Number).Int("applications", len(apps)).Msg("applied payment")
		return nil
	})
}

// UnappliedAmount is the part of the payment's total not yet applied to any
// document.
func (s *Service) UnappliedAmount(paymentID int) (decimal.Decimal, error) {
	p, err := s.store.GetPayment(paymentID)
	if err != nil {
		return decimal.Zero, err
	}
	return unappliedAmount(s.store, p)
}

// NextNumber returns the next free payment number.
func (s *Service) NextNumber() (string, error) {
	all, err := s.store.ListPayments()
	if err != nil {
		return "", err
	}
	numbers := make([]string, len(all))
	for i, p := range all {
		numbers[i] = p.Number
	}
	return docnum.Next(docnum.PrefixPayment, numbers, 1001), nil
}

func unappliedAmount(st store.Store, p *model.Payment) (decimal.Decimal, error) {
	apps, err := st.ListPaymentApplications(p.ID)
	if err != nil {
		return decimal.Zero, err
	}
	applied := decimal.Zero
	for _, a := range apps {
		applied = applied.Add(a.Amount)
	}
	return p.Total.Sub(applied), nil
}
