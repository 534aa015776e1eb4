// Package vendors manages vendors and their cached payable balances.
package vendors

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/docnum"
	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// Service provides business logic for vendors.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a vendors Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Create assigns a vendor number when absent and persists the vendor.
func (s *Service) Create(v *model.Vendor) error {
	if v.Number == "" {
		number, err := s.NextNumber()
		if err != nil {
			return err
		}
		v.Number = number
	}
	if err := s.store.CreateVendor(v); err != nil {
		return fmt.Errorf("creating vendor %s: %w", v.Number, err)
	}
	return nil
}

// Get returns one vendor by id.
func (s *Service) Get(id int) (*model.Vendor, error) {
	return s.store.GetVendor(id)
}

// List returns all vendors.
func (s *Service) List() ([]*model.Vendor, error) {
	return s.store.ListVendors()
}

// ListWithBalance returns vendors the business currently owes.
func (s *Service) ListWithBalance() ([]*model.Vendor, error) {
	all, err := s.store.ListVendors()
	if err != nil {
		return nil, err
	}
	var out []*model.Vendor
	for _, v := range all {
		if !v.Balance.IsZero() {
			out = append(out, v)
		}
	}
	return out, nil
}

// Update persists changes to a vendor.
func (s *Service) Update(v *model.Vendor) error {
	return s.store.UpdateVendor(v)
}

// UpdateBalance applies a signed delta to the cached balance.
func (s *Service) UpdateBalance(vendorID int, delta decimal.Decimal) error {
	return AdjustBalance(s.store, vendorID, delta)
}

// RecalculateBalance rebuilds the cached balance from source: the sum of
// balance-due over the vendor's open bills.
func (s *Service) RecalculateBalance(vendorID int) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.store.Atomic(func(tx store.Store) error {
		v, err := tx.GetVendor(vendorID)
		if err != nil {
			return err
		}
		bills, err := tx.ListBillsByVendor(vendorID)
		if err != nil {
			return err
		}
		balance = decimal.Zero
		for _, b := range bills {
			if b.IsOpen() {
				balance = balance.Add(b.BalanceDue())
			}
		}
		v.Balance = balance
		return tx.UpdateVendor(v)
	})
	return balance, err
}

// TotalPayables sums the cached balances of all vendors.
func (s *Service) TotalPayables() (decimal.Decimal, error) {
	all, err := s.store.ListVendors()
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, v := range all {
		total = total.Add(v.Balance)
	}
	return total, nil
}

// NextNumber returns the next free vendor number.
func (s *Service) NextNumber() (string, error) {
	all, err := s.store.ListVendors()
	if err != nil {
		return "", err
	}
	numbers := make([]string, len(all))
	for i, v := range all {
		numbers[i] = v.Number
	}
	return docnum.Next(docnum.PrefixVendor, numbers, 1), nil
}

// AdjustBalance applies a signed delta to a vendor's cached balance.
// A missing vendor is a silent no-op.
func AdjustBalance(st store.Store, vendorID int, delta decimal.Decimal) error {
	v, err := st.GetVendor(vendorID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	v.Balance = v.Balance.Add(delta)
	return st.UpdateVendor(v)
}
