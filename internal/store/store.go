// Package store is the durable entity store backing the ledger. Services
// treat it as a transactional keyed store with referential integer ids; it
// never participates in balance arithmetic itself.
package store

import (
	"errors"

	"github.com/minibooks-dev/minibooks/internal/model"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the unified storage interface for all ledger entities. Methods are
// declared per entity rather than through a generic layer so each backend can
// map them directly onto its schema.
//
// Every List method returns results in a stable order; ListBankTransactions
// in particular returns (date, id) ascending, the order balance replay
// depends on.
type Store interface {
	// Accounts
	CreateAccount(a *model.Account) error
	GetAccount(id int) (*model.Account, error)
	GetAccountByNumber(number string) (*model.Account, error)
	ListAccounts() ([]*model.Account, error)
	ListAccountsByType(t model.AccountType) ([]*model.Account, error)
	UpdateAccount(a *model.Account) error
	DeleteAccount(id int) error
	CountAccounts() (int, error)

	// Journal entries; lines travel with the aggregate and are replaced on
	// update.
	CreateJournalEntry(e *model.JournalEntry) error
	GetJournalEntry(id int) (*model.JournalEntry, error)
	ListJournalEntries() ([]*model.JournalEntry, error)
	ListJournalEntriesByStatus(status model.EntryStatus) ([]*model.JournalEntry, error)
	ListJournalEntriesByAccount(accountID int) ([]*model.JournalEntry, error)
	UpdateJournalEntry(e *model.JournalEntry) error

	// Customers and vendors
	CreateCustomer(c *model.Customer) error
	GetCustomer(id int) (*model.Customer, error)
	ListCustomers() ([]*model.Customer, error)
	UpdateCustomer(c *model.Customer) error
	CreateVendor(v *model.Vendor) error
	GetVendor(id int) (*model.Vendor, error)
	ListVendors() ([]*model.Vendor, error)
	UpdateVendor(v *model.Vendor) error

	// Invoices and bills; lines travel with the aggregate.
	CreateInvoice(inv *model.Invoice) error
	GetInvoice(id int) (*model.Invoice, error)
	ListInvoices() ([]*model.Invoice, error)
	ListInvoicesByCustomer(customerID int) ([]*model.Invoice, error)
	UpdateInvoice(inv *model.Invoice) error
	CreateBill(b *model.Bill) error
	GetBill(id int) (*model.Bill, error)
	ListBills() ([]*model.Bill, error)
	ListBillsByVendor(vendorID int) ([]*model.Bill, error)
	UpdateBill(b *model.Bill) error

	// Payments and applications
	CreatePayment(p *model.Payment) error
	GetPayment(id int) (*model.Payment, error)
	ListPayments() ([]*model.Payment, error)
	UpdatePayment(p *model.Payment) error
	CreatePaymentApplication(app *model.PaymentApplication) error
	ListPaymentApplications(paymentID int) ([]*model.PaymentApplication, error)
	ListInvoiceApplications(invoiceID int) ([]*model.PaymentApplication, error)
	ListBillApplications(billID int) ([]*model.PaymentApplication, error)

	// Bank accounts and transactions
	CreateBankAccount(a *model.BankAccount) error
	GetBankAccount(id int) (*model.BankAccount, error)
	ListBankAccounts() ([]*model.BankAccount, error)
	UpdateBankAccount(a *model.BankAccount) error
	DeleteBankAccount(id int) error
	CreateBankTransaction(t *model.BankTransaction) error
	GetBankTransaction(id int) (*model.BankTransaction, error)
	ListBankTransactions(accountID int) ([]*model.BankTransaction, error)
	UpdateBankTransaction(t *model.BankTransaction) error
	DeleteBankTransaction(id int) error

	// Recurring entry templates
	CreateRecurringEntry(r *model.RecurringEntry) error
	GetRecurringEntry(id int) (*model.RecurringEntry, error)
	ListRecurringEntries() ([]*model.RecurringEntry, error)
	UpdateRecurringEntry(r *model.RecurringEntry) error

	// Atomic runs fn against a Store whose writes land together or not at
	// all. Nested Atomic calls join the enclosing unit.
	Atomic(fn func(Store) error) error

	Close() error
}
