package store

import (
	"sort"
	"sync"

	"github.com/minibooks-dev/minibooks/internal/model"
)

// Memory is an in-memory Store used by tests and as a scratch backend. All
// methods are safe for concurrent use. Atomic serializes its section against
// other atomic sections; rollback of a failed section is not simulated, which
// matches its role as a test double for the single-writer model.
type Memory struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	accounts     map[int]*model.Account
	entries      map[int]*model.JournalEntry
	customers    map[int]*model.Customer
	vendors      map[int]*model.Vendor
	invoices     map[int]*model.Invoice
	bills        map[int]*model.Bill
	payments     map[int]*model.Payment
	applications map[int]*model.PaymentApplication
	bankAccounts map[int]*model.BankAccount
	bankTxns     map[int]*model.BankTransaction
	recurring    map[int]*model.RecurringEntry

	nextID map[string]int
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts:     make(map[int]*model.Account),
		entries:      make(map[int]*model.JournalEntry),
		customers:    make(map[int]*model.Customer),
		vendors:      make(map[int]*model.Vendor),
		invoices:     make(map[int]*model.Invoice),
		bills:        make(map[int]*model.Bill),
		payments:     make(map[int]*model.Payment),
		applications: make(map[int]*model.PaymentApplication),
		bankAccounts: make(map[int]*model.BankAccount),
		bankTxns:     make(map[int]*model.BankTransaction),
		recurring:    make(map[int]*model.RecurringEntry),
		nextID:       make(map[string]int),
	}
}

func (s *Memory) seq(table string) int {
	s.nextID[table]++
	return s.nextID[table]
}

// Accounts

func (s *Memory) CreateAccount(a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.seq("accounts")
	}
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *Memory) GetAccount(id int) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Memory) GetAccountByNumber(number string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Number == number {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) ListAccounts() ([]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *Memory) ListAccountsByType(t model.AccountType) ([]*model.Account, error) {
	all, _ := s.ListAccounts()
	out := all[:0]
	for _, a := range all {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Memory) UpdateAccount(a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *Memory) DeleteAccount(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Memory) CountAccounts() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts), nil
}

// Journal entries

func cloneEntry(e *model.JournalEntry) *model.JournalEntry {
	cp := *e
	cp.Lines = append([]model.JournalEntryLine(nil), e.Lines...)
	return &cp
}

func (s *Memory) CreateJournalEntry(e *model.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.seq("journal_entries")
	}
	for i := range e.Lines {
		if e.Lines[i].ID == 0 {
			e.Lines[i].ID = s.seq("journal_entry_lines")
		}
		e.Lines[i].EntryID = e.ID
	}
	s.entries[e.ID] = cloneEntry(e)
	return nil
}

func (s *Memory) GetJournalEntry(id int) (*model.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEntry(e), nil
}

func (s *Memory) ListJournalEntries() ([]*model.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) ListJournalEntriesByStatus(status model.EntryStatus) ([]*model.JournalEntry, error) {
	all, _ := s.ListJournalEntries()
	out := all[:0]
	for _, e := range all {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Memory) ListJournalEntriesByAccount(accountID int) ([]*model.JournalEntry, error) {
	all, _ := s.ListJournalEntries()
	out := all[:0]
	for _, e := range all {
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (s *Memory) UpdateJournalEntry(e *model.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		return ErrNotFound
	}
	for i := range e.Lines {
		if e.Lines[i].ID == 0 {
			e.Lines[i].ID = s.seq("journal_entry_lines")
		}
		e.Lines[i].EntryID = e.ID
	}
	s.entries[e.ID] = cloneEntry(e)
	return nil
}

// Customers and vendors

func (s *Memory) CreateCustomer(c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.seq("customers")
	}
	cp := *c
	s.customers[c.ID] = &cp
	return nil
}

func (s *Memory) GetCustomer(id int) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Memory) ListCustomers() ([]*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) UpdateCustomer(c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[c.ID]; !ok {
		return ErrNotFound
	}
	cp := *c
	s.customers[c.ID] = &cp
	return nil
}

func (s *Memory) CreateVendor(v *model.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.seq("vendors")
	}
	cp := *v
	s.vendors[v.ID] = &cp
	return nil
}

func (s *Memory) GetVendor(id int) (*model.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *Memory) ListVendors() ([]*model.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) UpdateVendor(v *model.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[v.ID]; !ok {
		return ErrNotFound
	}
	cp := *v
	s.vendors[v.ID] = &cp
	return nil
}

// Invoices and bills

func cloneInvoice(inv *model.Invoice) *model.Invoice {
	cp := *inv
	cp.Lines = append([]model.InvoiceLine(nil), inv.Lines...)
	return &cp
}

func (s *Memory) CreateInvoice(inv *model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == 0 {
		inv.ID = s.seq("invoices")
	}
	for i := range inv.Lines {
		if inv.Lines[i].ID == 0 {
			inv.Lines[i].ID = s.seq("invoice_lines")
		}
		inv.Lines[i].InvoiceID = inv.ID
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (s *Memory) GetInvoice(id int) (*model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (s *Memory) ListInvoices() ([]*model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, cloneInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) ListInvoicesByCustomer(customerID int) ([]*model.Invoice, error) {
	all, _ := s.ListInvoices()
	out := all[:0]
	for _, inv := range all {
		if inv.CustomerID == customerID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *Memory) UpdateInvoice(inv *model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return ErrNotFound
	}
	for i := range inv.Lines {
		if inv.Lines[i].ID == 0 {
			inv.Lines[i].ID = s.seq("invoice_lines")
		}
		inv.Lines[i].InvoiceID = inv.ID
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func cloneBill(b *model.Bill) *model.Bill {
	cp := *b
	cp.Lines = append([]model.BillLine(nil), b.Lines...)
	return &cp
}

func (s *Memory) CreateBill(b *model.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.seq("bills")
	}
	for i := range b.Lines {
		if b.Lines[i].ID == 0 {
			b.Lines[i].ID = s.seq("bill_lines")
		}
		b.Lines[i].BillID = b.ID
	}
	s.bills[b.ID] = cloneBill(b)
	return nil
}

func (s *Memory) GetBill(id int) (*model.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBill(b), nil
}

func (s *Memory) ListBills() ([]*model.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Bill, 0, len(s.bills))
	for _, b := range s.bills {
		out = append(out, cloneBill(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) ListBillsByVendor(vendorID int) ([]*model.Bill, error) {
	all, _ := s.ListBills()
	out := all[:0]
	for _, b := range all {
		if b.VendorID == vendorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Memory) UpdateBill(b *model.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[b.ID]; !ok {
		return ErrNotFound
	}
	for i := range b.Lines {
		if b.Lines[i].ID == 0 {
			b.Lines[i].ID = s.seq("bill_lines")
		}
		b.Lines[i].BillID = b.ID
	}
	s.bills[b.ID] = cloneBill(b)
	return nil
}

// Payments

func (s *Memory) CreatePayment(p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.seq("payments")
	}
	cp := *p
	s.payments[p.ID] = &cp
	return nil
}

func (s *Memory) GetPayment(id int) (*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Memory) ListPayments() ([]*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) UpdatePayment(p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	s.payments[p.ID] = &cp
	return nil
}

func (s *Memory) CreatePaymentApplication(app *model.PaymentApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ID == 0 {
		app.ID = s.seq("payment_applications")
	}
	cp := *app
	s.applications[app.ID] = &cp
	return nil
}

func (s *Memory) listApplications(match func(*model.PaymentApplication) bool) []*model.PaymentApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.PaymentApplication
	for _, app := range s.applications {
		if match(app) {
			cp := *app
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Memory) ListPaymentApplications(paymentID int) ([]*model.PaymentApplication, error) {
	return s.listApplications(func(a *model.PaymentApplication) bool { return a.PaymentID == paymentID }), nil
}

func (s *Memory) ListInvoiceApplications(invoiceID int) ([]*model.PaymentApplication, error) {
	return s.listApplications(func(a *model.PaymentApplication) bool { return a.InvoiceID == invoiceID }), nil
}

func (s *Memory) ListBillApplications(billID int) ([]*model.PaymentApplication, error) {
	return s.listApplications(func(a *model.PaymentApplication) bool { return a.BillID == billID }), nil
}

// Bank accounts and transactions

func (s *Memory) CreateBankAccount(a *model.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.seq("bank_accounts")
	}
	cp := *a
	s.bankAccounts[a.ID] = &cp
	return nil
}

func (s *Memory) GetBankAccount(id int) (*model.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.bankAccounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Memory) ListBankAccounts() ([]*model.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.BankAccount, 0, len(s.bankAccounts))
	for _, a := range s.bankAccounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) UpdateBankAccount(a *model.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bankAccounts[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	s.bankAccounts[a.ID] = &cp
	return nil
}

func (s *Memory) DeleteBankAccount(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bankAccounts[id]; !ok {
		return ErrNotFound
	}
	delete(s.bankAccounts, id)
	for txnID, t := range s.bankTxns {
		if t.BankAccountID == id {
			delete(s.bankTxns, txnID)
		}
	}
	return nil
}

func (s *Memory) CreateBankTransaction(t *model.BankTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.seq("bank_transactions")
	}
	cp := *t
	s.bankTxns[t.ID] = &cp
	return nil
}

func (s *Memory) GetBankTransaction(id int) (*model.BankTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.bankTxns[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Memory) ListBankTransactions(accountID int) ([]*model.BankTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.BankTransaction
	for _, t := range s.bankTxns {
		if t.BankAccountID == accountID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Memory) UpdateBankTransaction(t *model.BankTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bankTxns[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	s.bankTxns[t.ID] = &cp
	return nil
}

func (s *Memory) DeleteBankTransaction(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bankTxns[id]; !ok {
		return ErrNotFound
	}
	delete(s.bankTxns, id)
	return nil
}

// Recurring entry templates

func cloneRecurring(r *model.RecurringEntry) *model.RecurringEntry {
	cp := *r
	cp.Lines = append([]model.RecurringEntryLine(nil), r.Lines...)
	return &cp
}

func (s *Memory) CreateRecurringEntry(r *model.RecurringEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.seq("recurring_entries")
	}
	for i := range r.Lines {
		if r.Lines[i].ID == 0 {
			r.Lines[i].ID = s.seq("recurring_entry_lines")
		}
		r.Lines[i].RecurringEntryID = r.ID
	}
	s.recurring[r.ID] = cloneRecurring(r)
	return nil
}

func (s *Memory) GetRecurringEntry(id int) (*model.RecurringEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recurring[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecurring(r), nil
}

func (s *Memory) ListRecurringEntries() ([]*model.RecurringEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.RecurringEntry, 0, len(s.recurring))
	for _, r := range s.recurring {
		out = append(out, cloneRecurring(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) UpdateRecurringEntry(r *model.RecurringEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recurring[r.ID]; !ok {
		return ErrNotFound
	}
	for i := range r.Lines {
		if r.Lines[i].ID == 0 {
			r.Lines[i].ID = s.seq("recurring_entry_lines")
		}
		r.Lines[i].RecurringEntryID = r.ID
	}
	s.recurring[r.ID] = cloneRecurring(r)
	return nil
}

// Atomic serializes the section against other atomic sections. The nested
// store view joins the enclosing section instead of re-acquiring it.
func (s *Memory) Atomic(fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(memTx{s})
}

// Close is a no-op for the in-memory store.
func (s *Memory) Close() error { return nil }

// memTx is the view handed to an atomic section; its Atomic joins the
// enclosing section.
type memTx struct {
	*Memory
}

func (v memTx) Atomic(fn func(Store) error) error {
	return fn(v)
}
