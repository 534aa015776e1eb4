// Package customers manages customers and their cached receivable balances.
package customers

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/docnum"
	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// Service provides business logic for customers.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a customers Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Create assigns a customer number when absent and persists the customer.
func (s *Service) Create(c *model.Customer) error {
	if c.Number == "" {
		number, err := s.NextNumber()
		if err != nil {
			return err
		}
		c.Number = number
	}
	if err := s.store.CreateCustomer(c); err != nil {
		return fmt.Errorf("creating customer %s: %w", c.Number, err)
	}
	return nil
}

// Get returns one customer by id.
func (s *Service) Get(id int) (*model.Customer, error) {
	return s.store.GetCustomer(id)
}

// List returns all customers.
func (s *Service) List() ([]*model.Customer, error) {
	return s.store.ListCustomers()
}

// ListWithBalance returns customers that currently owe money.
func (s *Service) ListWithBalance() ([]*model.Customer, error) {
	all, err := s.store.ListCustomers()
	if err != nil {
		return nil, err
	}
	var out []*model.Customer
	for _, c := range all {
		if !c.Balance.IsZero() {
			out = append(out, c)
		}
	}
	return out, nil
}

// Update persists changes to a customer.
func (s *Service) Update(c *model.Customer) error {
	return s.store.UpdateCustomer(c)
}

// UpdateBalance applies a signed delta to the cached balance.
func (s *Service) UpdateBalance(customerID int, delta decimal.Decimal) error {
	return AdjustBalance(s.store, customerID, delta)
}

// RecalculateBalance rebuilds the cached balance from source: the sum of
// balance-due over the customer's open invoices. This is the repair path when
// the cache has drifted.
func (s *Service) RecalculateBalance(customerID int) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.store.Atomic(func(tx store.Store) error {
		c, err := tx.GetCustomer(customerID)
		if err != nil {
			return err
		}
		invoices, err := tx.ListInvoicesByCustomer(customerID)
		if err != nil {
			return err
		}
		balance = decimal.Zero
		for _, inv := range invoices {
			if inv.IsOpen() {
				balance = balance.Add(inv.BalanceDue())
			}
		}
		c.Balance = balance
		return tx.UpdateCustomer(c)
	})
	return balance, err
}

// TotalReceivables sums the cached balances of all customers.
func (s *Service) TotalReceivables() (decimal.Decimal, error) {
	all, err := s.store.ListCustomers()
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range all {
		total = total.Add(c.Balance)
	}
	return total, nil
}

// NextNumber returns the next free customer number.
func (s *Service) NextNumber() (string, error) {
	all, err := s.store.ListCustomers()
	if err != nil {
		return "", err
	}
	numbers := make([]string, len(all))
	for i, c := range all {
		numbers[i] = c.Number
	}
	return docnum.Next(docnum.PrefixCustomer, numbers, 1), nil
}

// AdjustBalance applies a signed delta to a customer's cached balance.
// A missing customer is a silent no-op.
func AdjustBalance(st store.Store, customerID int, delta decimal.Decimal) error {
	c, err := st.GetCustomer(customerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	c.Balance = c.Balance.Add(delta)
	return st.UpdateCustomer(c)
}
