package model

import "github.com/shopspring/decimal"

// Customer is the counterparty on invoices and received payments. Balance is
// a cached aggregate of the customer's open invoice balances due; the
// customers service can always rebuild it from source.
type Customer struct {
	ID          int
	Number      string // "CUST-0001"
	Name        string
	CompanyName string
	Email       string
	Balance     decimal.Decimal
	IsActive    bool
}

// Vendor is the counterparty on bills and made payments. Balance mirrors
// Customer.Balance for open bills.
type Vendor struct {
	ID          int
	Number      string // "VEND-0001"
	Name        string
	CompanyName string
	Email       string
	Balance     decimal.Decimal
	IsActive    bool
}
