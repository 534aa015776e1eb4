package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/model"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx so the
// same statement code serves both direct and transactional access.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// SQLite is the durable Store backed by a SQLite file. Multi-entity writes
// inside Atomic run in a single SQL transaction.
type SQLite struct {
	db *sql.DB // nil when bound to a transaction
	q  querier
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) a SQLite ledger database with WAL
// mode, foreign keys, and a short busy timeout so a second writer queues
// instead of failing, and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLite{db: db, q: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Atomic runs fn inside a SQL transaction. When s is already bound to a
// transaction the call joins it.
func (s *SQLite) Atomic(fn func(Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(&SQLite{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after %v: %w", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func fromNullTime(nt sql.NullTime) time.Time {
	if nt.Valid {
		return nt.Time
	}
	return time.Time{}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Accounts

func (s *SQLite) CreateAccount(a *model.Account) error {
	res, err := s.q.Exec(`INSERT INTO accounts
		(number, name, description, type, sub_type, parent_id, balance, is_active, is_system, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Number, a.Name, a.Description, string(a.Type), string(a.SubType),
		a.ParentID, a.Balance.String(), a.IsActive, a.IsSystemAccount, a.DisplayOrder)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = int(id)
	return nil
}

const accountCols = `id, number, name, description, type, sub_type, parent_id, balance, is_active, is_system, display_order`

func scanAccount(row interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	var balance string
	err := row.Scan(&a.ID, &a.Number, &a.Name, &a.Description, (*string)(&a.Type),
		(*string)(&a.SubType), &a.ParentID, &balance, &a.IsActive, &a.IsSystemAccount, &a.DisplayOrder)
	if err != nil {
		return nil, err
	}
	a.Balance = dec(balance)
	return &a, nil
}

func (s *SQLite) GetAccount(id int) (*model.Account, error) {
	a, err := scanAccount(s.q.QueryRow(`SELECT `+accountCols+` FROM accounts WHERE id = ?`, id))
	return a, notFound(err)
}

func (s *SQLite) GetAccountByNumber(number string) (*model.Account, error) {
	a, err := scanAccount(s.q.QueryRow(`SELECT `+accountCols+` FROM accounts WHERE number = ?`, number))
	return a, notFound(err)
}

func (s *SQLite) listAccounts(where string, args ...any) ([]*model.Account, error) {
	rows, err := s.q.Query(`SELECT `+accountCols+` FROM accounts `+where+` ORDER BY number`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var out []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLite) ListAccounts() ([]*model.Account, error) {
	return s.listAccounts("")
}

func (s *SQLite) ListAccountsByType(t model.AccountType) ([]*model.Account, error) {
	return s.listAccounts(`WHERE type = ?`, string(t))
}

func (s *SQLite) UpdateAccount(a *model.Account) error {
	res, err := s.q.Exec(`UPDATE accounts SET number = ?, name = ?, description = ?, type = ?,
		sub_type = ?, parent_id = ?, balance = ?, is_active = ?, is_system = ?, display_order = ?
		WHERE id = ?`,
		a.Number, a.Name, a.Description, string(a.Type), string(a.SubType), a.ParentID,
		a.Balance.String(), a.IsActive, a.IsSystemAccount, a.DisplayOrder, a.ID)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	return affected(res)
}

func (s *SQLite) DeleteAccount(id int) error {
	res, err := s.q.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return affected(res)
}

func (s *SQLite) CountAccounts() (int, error) {
	var n int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Journal entries

func (s *SQLite) CreateJournalEntry(e *model.JournalEntry) error {
	return s.Atomic(func(st Store) error {
		tx := st.(*SQLite)
		res, err := tx.q.Exec(`INSERT INTO journal_entries
			(entry_number, entry_date, memo, reference, is_adjusting, status)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.EntryNumber, e.Date, e.Memo, e.Reference, e.IsAdjusting, string(e.Status))
		if err != nil {
			return fmt.Errorf("inserting journal entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		e.ID = int(id)
		return tx.insertEntryLines(e)
	})
}

func (s *SQLite) insertEntryLines(e *model.JournalEntry) error {
	for i := range e.Lines {
		l := &e.Lines[i]
		l.EntryID = e.ID
		res, err := s.q.Exec(`INSERT INTO journal_entry_lines
			(entry_id, account_id, description, debit, credit) VALUES (?, ?, ?, ?, ?)`,
			l.EntryID, l.AccountID, l.Description, l.Debit.String(), l.Credit.String())
		if err != nil {
			return fmt.Errorf("inserting journal line: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID = int(id)
	}
	return nil
}

func (s *SQLite) loadEntryLines(e *model.JournalEntry) error {
	rows, err := s.q.Query(`SELECT id, entry_id, account_id, description, debit, credit
		FROM journal_entry_lines WHERE entry_id = ? ORDER BY id`, e.ID)
	if err != nil {
		return fmt.Errorf("querying journal lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.JournalEntryLine
		var debit, credit string
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Description, &debit, &credit); err != nil {
			return err
		}
		l.Debit, l.Credit = dec(debit), dec(credit)
		e.Lines = append(e.Lines, l)
	}
	return rows.Err()
}

func scanEntry(row interface{ Scan(...any) error }) (*model.JournalEntry, error) {
	var e model.JournalEntry
	err := row.Scan(&e.ID, &e.EntryNumber, &e.Date, &e.Memo, &e.Reference, &e.IsAdjusting, (*string)(&e.Status))
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const entryCols = `id, entry_number, entry_date, memo, reference, is_adjusting, status`

func (s *SQLite) GetJournalEntry(id int) (*model.JournalEntry, error) {
	e, err := scanEntry(s.q.QueryRow(`SELECT `+entryCols+` FROM journal_entries WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.loadEntryLines(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *SQLite) listEntries(where string, args ...any) ([]*model.JournalEntry, error) {
	rows, err := s.q.Query(`SELECT `+entryCols+` FROM journal_entries `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal entries: %w", err)
	}
	defer rows.Close()

	var out []*model.JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range out {
		if err := s.loadEntryLines(e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLite) ListJournalEntries() ([]*model.JournalEntry, error) {
	return s.listEntries("")
}

func (s *SQLite) ListJournalEntriesByStatus(status model.EntryStatus) ([]*model.JournalEntry, error) {
	return s.listEntries(`WHERE status = ?`, string(status))
}

func (s *SQLite) ListJournalEntriesByAccount(accountID int) ([]*model.JournalEntry, error) {
	return s.listEntries(`WHERE id IN
		(SELECT entry_id FROM journal_entry_lines WHERE account_id = ?)`, accountID)
}

func (s *SQLite) UpdateJournalEntry(e *model.JournalEntry) error {
	return s.Atomic(func(st Store) error {
		tx := st.(*SQLite)
		res, err := tx.q.Exec(`UPDATE journal_entries SET entry_number = ?, entry_date = ?,
			memo = ?, reference = ?, is_adjusting = ?, status = ? WHERE id = ?`,
			e.EntryNumber, e.Date, e.Memo, e.Reference, e.IsAdjusting, string(e.Status), e.ID)
		if err != nil {
			return fmt.Errorf("updating journal entry: %w", err)
		}
		if err := affected(res); err != nil {
			return err
		}
		if _, err := tx.q.Exec(`DELETE FROM journal_entry_lines WHERE entry_id = ?`, e.ID); err != nil {
			return fmt.Errorf("replacing journal lines: %w", err)
		}
		for i := range e.Lines {
			e.Lines[i].ID = 0
		}
		return tx.insertEntryLines(e)
	})
}

// Customers and vendors

func (s *SQLite) CreateCustomer(c *model.Customer) error {
	res, err := s.q.Exec(`INSERT INTO customers (number, name, company_name, email, balance, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Number, c.Name, c.CompanyName, c.Email, c.Balance.String(), c.IsActive)
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = int(id)
	return nil
}

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var c model.Customer
	var balance string
	err := row.Scan(&c.ID, &c.Number, &c.Name, &c.CompanyName, &c.Email, &balance, &c.IsActive)
	if err != nil {
		return nil, err
	}
	c.Balance = dec(balance)
	return &c, nil
}

func (s *SQLite) GetCustomer(id int) (*model.Customer, error) {
	c, err := scanCustomer(s.q.QueryRow(
		`SELECT id, number, name, company_name, email, balance, is_active FROM customers WHERE id = ?`, id))
	return c, notFound(err)
}

func (s *SQLite) ListCustomers() ([]*model.Customer, error) {
	rows, err := s.q.Query(`SELECT id, number, name, company_name, email, balance, is_active
		FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var out []*model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdateCustomer(c *model.Customer) error {
	res, err := s.q.Exec(`UPDATE customers SET number = ?, name = ?, company_name = ?,
		email = ?, balance = ?, is_active = ? WHERE id = ?`,
		c.Number, c.Name, c.CompanyName, c.Email, c.Balance.String(), c.IsActive, c.ID)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}
	return affected(res)
}

func (s *SQLite) CreateVendor(v *model.Vendor) error {
	res, err := s.q.Exec(`INSERT INTO vendors (number, name, company_name, email, balance, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.Number, v.Name, v.CompanyName, v.Email, v.Balance.String(), v.IsActive)
	if err != nil {
		return fmt.Errorf("inserting vendor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = int(id)
	return nil
}

func scanVendor(row interface{ Scan(...any) error }) (*model.Vendor, error) {
	var v model.Vendor
	var balance string
	err := row.Scan(&v.ID, &v.Number, &v.Name, &v.CompanyName, &v.Email, &balance, &v.IsActive)
	if err != nil {
		return nil, err
	}
	v.Balance = dec(balance)
	return &v, nil
}

func (s *SQLite) GetVendor(id int) (*model.Vendor, error) {
	v, err := scanVendor(s.q.QueryRow(
		`SELECT id, number, name, company_name, email, balance, is_active FROM vendors WHERE id = ?`, id))
	return v, notFound(err)
}

func (s *SQLite) ListVendors() ([]*model.Vendor, error) {
	rows, err := s.q.Query(`SELECT id, number, name, company_name, email, balance, is_active
		FROM vendors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying vendors: %w", err)
	}
	defer rows.Close()

	var out []*model.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdateVendor(v *model.Vendor) error {
	res, err := s.q.Exec(`UPDATE vendors SET number = ?, name = ?, company_name = ?,
		email = ?, balance = ?, is_active = ? WHERE id = ?`,
		v.Number, v.Name, v.CompanyName, v.Email, v.Balance.String(), v.IsActive, v.ID)
	if err != nil {
		return fmt.Errorf("updating vendor: %w", err)
	}
	return affected(res)
}

// Invoices

const invoiceCols = `id, number, customer_id, txn_date, due_date, status, terms, memo,
	subtotal, tax, discount, total, amount_paid, journal_entry_id, sent_date`

func (s *SQLite) CreateInvoice(inv *model.Invoice) error {
	return s.Atomic(func(st Store) error {
		tx := st.(*SQLite)
		res, err := tx.q.Exec(`INSERT INTO invoices
			(number, customer_id, txn_date, due_date, status, terms, memo,
			 subtotal, tax, discount, total, amount_paid, journal_entry_id, sent_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.Number, inv.CustomerID, inv.Date, nullTime(inv.DueDate), string(inv.Status),
			inv.Terms, inv.Memo, inv.Subtotal.String(), inv.Tax.String(), inv.Discount.String(),
			inv.Total.String(), inv.AmountPaid.String(), inv.JournalEntryID, nullTime(inv.SentDate))
		if err != nil {
			return fmt.Errorf("inserting invoice: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		inv.ID = int(id)
		return tx.insertInvoiceLines(inv)
	})
}

func (s *SQLite) insertInvoiceLines(inv *model.Invoice) error {
	for i := range inv.Lines {
		l := &inv.Lines[i]
		l.InvoiceID = inv.ID
		res, err := s.q.Exec(`INSERT INTO invoice_lines
			(invoice_id, description, quantity, unit_price, discount_percent, tax_rate, taxable, account_id, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.InvoiceID, l.Description, l.Quantity.String(), l.UnitPrice.String(),
			l.DiscountPercent.String(), l.TaxRate.String(), l.Taxable, l.AccountID, l.SortOrder)
		if err != nil {
			return fmt.Errorf("inserting invoice line: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID = int(id)
	}
	return nil
}

func (s *SQLite) loadInvoiceLines(inv *model.Invoice) error {
	rows, err := s.q.Query(`SELECT id, invoice_id, description, quantity, unit_price,
		discount_percent, tax_rate, taxable, account_id, sort_order
		FROM invoice_lines WHERE invoice_id = ? ORDER BY sort_order, id`, inv.ID)
	if err != nil {
		return fmt.Errorf("querying invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.InvoiceLine
		var qty, price, disc, rate string
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Description, &qty, &price,
			&disc, &rate, &l.Taxable, &l.AccountID, &l.SortOrder); err != nil {
			return err
		}
		l.Quantity, l.UnitPrice = dec(qty), dec(price)
		l.DiscountPercent, l.TaxRate = dec(disc), dec(rate)
		inv.Lines = append(inv.Lines, l)
	}
	return rows.Err()
}

func scanInvoice(row interface{ Scan(...any) error }) (*model.Invoice, error) {
	var inv model.Invoice
	var due, sent sql.NullTime
	var subtotal, tax, discount, total, paid string
	err := row.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.Date, &due, (*string)(&inv.Status),
		&inv.Terms, &inv.Memo, &subtotal, &tax, &discount, &total, &paid, &inv.JournalEntryID, &sent)
	if err != nil {
		return nil, err
	}
	inv.DueDate, inv.SentDate = fromNullTime(due), fromNullTime(sent)
	inv.Subtotal, inv.Tax, inv.Discount = dec(subtotal), dec(tax), dec(discount)
	inv.Total, inv.AmountPaid = dec(total), dec(paid)
	return &inv, nil
}

func (s *SQLite) GetInvoice(id int) (*model.Invoice, error) {
	inv, err := scanInvoice(s.q.QueryRow(`SELECT `+invoiceCols+` FROM invoices WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.loadInvoiceLines(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *SQLite) listInvoices(where string, args ...any) ([]*model.Invoice, error) {
	rows, err := s.q.Query(`SELECT `+invoiceCols+` FROM invoices `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying invoices: %w", err)
	}
	defer rows.Close()

	var out []*model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range out {
		if err := s.loadInvoiceLines(inv); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLite) ListInvoices() ([]*model.Invoice, error) {
	return s.listInvoices("")
}

func (s *SQLite) ListInvoicesByCustomer(customerID int) ([]*model.Invoice, error) {
	return s.listInvoices(`WHERE customer_id = ?`, customerID)
}

func (s *SQLite) UpdateInvoice(inv *model.Invoice) error {
	return s.Atomic(func(st Store) error {
		tx := st.(*SQLite)
		res, err := tx.q.Exec(`UPDATE invoices SET number = ?, customer_id = ?, txn_date = ?,
			due_date = ?, status = ?, terms = ?, memo = ?, subtotal = ?, tax = ?, discount = ?,
			total = ?, amount_paid = ?, journal_entry_id = ?, sent_date = ? WHERE id = ?`,
			inv.Number, inv.CustomerID, inv.Date, nullTime(inv.DueDate), string(inv.Status),
			inv.Terms, inv.Memo, inv.Subtotal.String(), inv.Tax.String(), inv.Discount.String(),
			inv.Total.String(), inv.AmountPaid.String(), inv.JournalEntryID, nullTime(inv.SentDate), inv.ID)
		if err != nil {
			return fmt.Errorf("updating invoice: %w", err)
		}
		if err := affected(res); err != nil {
			return err
		}
		if _, err := tx.q.Exec(`DELETE FROM invoice_lines WHERE invoice_id = ?`, inv.ID); err != nil {
			return fmt.Errorf("replacing invoice lines: %w", err)
		}
		for i := range inv.Lines {
			inv.Lines[i].ID = 0
		}
		return tx.insertInvoiceLines(inv)
	})
}

// Bills

const billCols = `id, number, vendor_id, vendor_invoice_number, txn_date, due_date, received_date,
	status, memo, subtotal, tax, discount, total, amount_paid, journal_entry_id`

func (s *SQLite) CreateBill(b *model.Bill) error {
	return s.Atomic(func(st Store) error {
		tx := st.(*SQLite)
		res, err := tx.q.Exec(`INSERT INTO bills
			(number, vendor_id, vendor_invoice_number, txn_date, due_date, received_date,
			 status, memo, subtotal, tax, discount, total, amount_paid, journal_entry_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.Number, b.VendorID, b.VendorInvoiceNumber, b.Date, nullTime(b.DueDate),
			nullTime(b.ReceivedDate), string(b.Status), b.Memo, b.Subtotal.String(),
			b.Tax.String(), b.Discount.String(), b.Total.String(), b.AmountPaid.String(),
			b.JournalEntryID)
		if err != nil {
			return fmt.Errorf("inserting bill: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		b.ID = int(id)
		return tx.insertBillLines(b)
	})
}

func (s *SQLite) insertBillLines(b *model.Bill) error {
	for i := range b.Lines {
		l := &b.Lines[i]
		l.BillID = b.ID
		res, err := s.q.Exec(`INSERT INTO bill_lines
			(bill_id, description, quantity, unit_cost, account_id, sort_order)
			VALUES (?, ?, ?, ?, ?, ?)`,
			l.BillID, l.Description, l.Quantity.String(), l.UnitCost.String(), l.AccountID, l.SortOrder)
		if err != nil {
			return fmt.Errorf("inserting bill line: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID = int(id)
	}
	return nil
}

func (s *SQLite) loadBillLines(b *model.Bill) error {
	rows, err := s.q.Query(`SELECT id, bill_id, description, quantity, unit_cost, account_id, sort_order
		FROM bill_lines WHERE bill_id = ? ORDER BY sort_order, id`, b.ID)
	if err != nil {
		return fmt.Errorf("querying bill lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.BillLine
		var qty, cost string
		if err := rows.Scan(&l.ID, &l.BillID, &l.Description, &qty, &cost, &l.AccountID, &l.SortOrder); err != nil {
			return err
		}
		l.Quantity, l.UnitCost = dec(qty), dec(cost)
		b.Lines = append(b.Lines, l)
	}
	return rows.Err()
}

func scanBill(row interface{ Scan(...any) error }) (*model.Bill, error) {
	var b model.Bill
	var due, received sql.NullTime
	var subtotal, tax, discount, total, paid string
	err := row.Scan(&b.ID, &b.Number, &b.VendorID, &b.VendorInvoiceNumber, &b.Date, &due, &received,
		(*string)(&b.Status), &b.Memo, &subtotal, &tax, &discount, &total, &paid, &b.JournalEntryID)
	if err != nil {
		return nil, err
	}
	b.DueDate, b.ReceivedDate = fromNullTime(due), fromNullTime(received)
	b.Subtotal, b.Tax, b.Discount = dec(subtotal), dec(tax), dec(discount)
	b.Total, b.AmountPaid = dec(total), dec(paid)
	return &b, nil
}

func (s *SQLite) GetBill(id int) (*model.Bill, error) {
	b, err := scanBill(s.q.QueryRow(`SELECT `+billCols+` FROM bills WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.loadBillLines(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *SQLite) listBills(where string, args ...any) ([]*model.Bill, error) {
	rows, err := s.q.Query(`SELECT `+billCols+` FROM bills `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bills: %w", err)
	}
	defer rows.Close()

	var out []*model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := s.loadBillLines(b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLite) ListBills() ([]*model.Bill, error) {
	return s.listBills("")
}

func (s *SQLite) ListBillsByVendor(vendorID int) ([]*model.Bill, error) {
	return s.listBills(`WHERE vendor_id = ?`, vendorID)
}

func (s *SQLite) UpdateBill(b *model.Bill) error {
	return s.Atomic(func(st Store) error {
		tx := st.(*SQLite)
		res, err := tx.q.Exec(`UPDATE bills SET number = ?, vendor_id = ?, vendor_invoice_number = ?,
			txn_date = ?, due_date = ?, received_date = ?, status = ?, memo = ?, subtotal = ?,
			tax = ?, discount = ?, total = ?, amount_paid = ?, journal_entry_id = ? WHERE id = ?`,
			b.Number, b.VendorID, b.VendorInvoiceNumber, b.Date, nullTime(b.DueDate),
			nullTime(b.ReceivedDate), string(b.Status), b.Memo, b.Subtotal.String(),
			b.Tax.String(), b.Discount.String(), b.Total.String(), b.AmountPaid.String(),
			b.JournalEntryID, b.ID)
		if err != nil {
			return fmt.Errorf("updating bill: %w", err)
		}
		if err := affected(res); err != nil {
			return err
		}
		if _, err := tx.q.Exec(`DELETE FROM bill_lines WHERE bill_id = ?`, b.ID); err != nil {
			return fmt.Errorf("replacing bill lines: %w", err)
		}
		for i := range b.Lines {
			b.Lines[i].ID = 0
		}
		return tx.insertBillLines(b)
	})
}

// Payments

func (s *SQLite) CreatePayment(p *model.Payment) error {
	res, err := s.q.Exec(`INSERT INTO payments
		(number, direction, customer_id, vendor_id, pay_date, method, check_number,
		 deposit_account_id, memo, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Number, string(p.Direction), p.CustomerID, p.VendorID, p.Date, p.Method,
		p.CheckNumber, p.DepositAccountID, p.Memo, p.Total.String())
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	var total string
	err := row.Scan(&p.ID, &p.Number, (*string)(&p.Direction), &p.CustomerID, &p.VendorID,
		&p.Date, &p.Method, &p.CheckNumber, &p.DepositAccountID, &p.Memo, &total)
	if err != nil {
		return nil, err
	}
	p.Total = dec(total)
	return &p, nil
}

const paymentCols = `id, number, direction, customer_id, vendor_id, pay_date, method,
	check_number, deposit_account_id, memo, total`

func (s *SQLite) GetPayment(id int) (*model.Payment, error) {
	p, err := scanPayment(s.q.QueryRow(`SELECT `+paymentCols+` FROM payments WHERE id = ?`, id))
	return p, notFound(err)
}

func (s *SQLite) ListPayments() ([]*model.Payment, error) {
	rows, err := s.q.Query(`SELECT ` + paymentCols + ` FROM payments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying payments: %w", err)
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdatePayment(p *model.Payment) error {
	res, err := s.q.Exec(`UPDATE payments SET number = ?, direction = ?, customer_id = ?,
		vendor_id = ?, pay_date = ?, method = ?, check_number = ?, deposit_account_id = ?,
		memo = ?, total = ? WHERE id = ?`,
		p.Number, string(p.Direction), p.CustomerID, p.VendorID, p.Date, p.Method,
		p.CheckNumber, p.DepositAccountID, p.Memo, p.Total.String(), p.ID)
	if err != nil {
		return fmt.Errorf("updating payment: %w", err)
	}
	return affected(res)
}

func (s *SQLite) CreatePaymentApplication(app *model.PaymentApplication) error {
	res, err := s.q.Exec(`INSERT INTO payment_applications
		(payment_id, invoice_id, bill_id, amount, applied_date) VALUES (?, ?, ?, ?, ?)`,
		app.PaymentID, app.InvoiceID, app.BillID, app.Amount.String(), app.Date)
	if err != nil {
		return fmt.Errorf("inserting payment application: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = int(id)
	return nil
}

func (s *SQLite) listApplications(where string, arg int) ([]*model.PaymentApplication, error) {
	rows, err := s.q.Query(`SELECT id, payment_id, invoice_id, bill_id, amount, applied_date
		FROM payment_applications WHERE `+where+` ORDER BY id`, arg)
	if err != nil {
		return nil, fmt.Errorf("querying payment applications: %w", err)
	}
	defer rows.Close()

	var out []*model.PaymentApplication
	for rows.Next() {
		var app model.PaymentApplication
		var amount string
		if err := rows.Scan(&app.ID, &app.PaymentID, &app.InvoiceID, &app.BillID, &amount, &app.Date); err != nil {
			return nil, err
		}
		app.Amount = dec(amount)
		out = append(out, &app)
	}
	return out, rows.Err()
}

func (s *SQLite) ListPaymentApplications(paymentID int) ([]*model.PaymentApplication, error) {
	return s.listApplications(`payment_id = ?`, paymentID)
}

func (s *SQLite) ListInvoiceApplications(invoiceID int) ([]*model.PaymentApplication, error) {
	return s.listApplications(`invoice_id = ?`, invoiceID)
}

func (s *SQLite) ListBillApplications(billID int) ([]*model.PaymentApplication, error) {
	return s.listApplications(`bill_id = ?`, billID)
}

// Bank accounts and transactions

const bankAccountCols = `id, name, bank_name, type, account_number, linked_account_id,
	opening_balance, opening_date, current_balance, last_reconciled_date, last_reconciled_balance, is_active`

func (s *SQLite) CreateBankAccount(a *model.BankAccount) error {
	res, err := s.q.Exec(`INSERT INTO bank_accounts
		(name, bank_name, type, account_number, linked_account_id, opening_balance,
		 opening_date, current_balance, last_reconciled_date, last_reconciled_balance, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.BankName, string(a.Type), a.AccountNumber, a.LinkedAccountID,
		a.OpeningBalance.String(), a.OpeningBalanceDate, a.CurrentBalance.String(),
		nullTime(a.LastReconciledDate), a.LastReconciledBalance.String(), a.IsActive)
	if err != nil {
		return fmt.Errorf("inserting bank account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = int(id)
	return nil
}

func scanBankAccount(row interface{ Scan(...any) error }) (*model.BankAccount, error) {
	var a model.BankAccount
	var reconciled sql.NullTime
	var opening, current, lastRec string
	err := row.Scan(&a.ID, &a.Name, &a.BankName, (*string)(&a.Type), &a.AccountNumber,
		&a.LinkedAccountID, &opening, &a.OpeningBalanceDate, &current, &reconciled, &lastRec, &a.IsActive)
	if err != nil {
		return nil, err
	}
	a.OpeningBalance, a.CurrentBalance = dec(opening), dec(current)
	a.LastReconciledDate = fromNullTime(reconciled)
	a.LastReconciledBalance = dec(lastRec)
	return &a, nil
}

func (s *SQLite) GetBankAccount(id int) (*model.BankAccount, error) {
	a, err := scanBankAccount(s.q.QueryRow(`SELECT `+bankAccountCols+` FROM bank_accounts WHERE id = ?`, id))
	return a, notFound(err)
}

func (s *SQLite) ListBankAccounts() ([]*model.BankAccount, error) {
	rows, err := s.q.Query(`SELECT ` + bankAccountCols + ` FROM bank_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying bank accounts: %w", err)
	}
	defer rows.Close()

	var out []*model.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdateBankAccount(a *model.BankAccount) error {
	res, err := s.q.Exec(`UPDATE bank_accounts SET name = ?, bank_name = ?, type = ?,
		account_number = ?, linked_account_id = ?, opening_balance = ?, opening_date = ?,
		current_balance = ?, last_reconciled_date = ?, last_reconciled_balance = ?, is_active = ?
		WHERE id = ?`,
		a.Name, a.BankName, string(a.Type), a.AccountNumber, a.LinkedAccountID,
		a.OpeningBalance.String(), a.OpeningBalanceDate, a.CurrentBalance.String(),
		nullTime(a.LastReconciledDate), a.LastReconciledBalance.String(), a.IsActive, a.ID)
	if err != nil {
		return fmt.Errorf("updating bank account: %w", err)
	}
	return affected(res)
}

func (s *SQLite) DeleteBankAccount(id int) error {
	res, err := s.q.Exec(`DELETE FROM bank_accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting bank account: %w", err)
	}
	return affected(res)
}

const bankTxnCols = `id, bank_account_id, txn_date, type, payee, description, reference,
	amount, running_balance, category_account_id, transfer_account_id, customer_id, vendor_id,
	cleared, reconciled, reconciled_date`

func (s *SQLite) CreateBankTransaction(t *model.BankTransaction) error {
	res, err := s.q.Exec(`INSERT INTO bank_transactions
		(bank_account_id, txn_date, type, payee, description, reference, amount,
		 running_balance, category_account_id, transfer_account_id, customer_id, vendor_id,
		 cleared, reconciled, reconciled_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.BankAccountID, t.Date, string(t.Type), t.Payee, t.Description, t.Reference,
		t.Amount.String(), t.RunningBalance.String(), t.CategoryAccountID, t.TransferAccountID,
		t.CustomerID, t.VendorID, t.Cleared, t.Reconciled, nullTime(t.ReconciledDate))
	if err != nil {
		return fmt.Errorf("inserting bank transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = int(id)
	return nil
}

func scanBankTxn(row interface{ Scan(...any) error }) (*model.BankTransaction, error) {
	var t model.BankTransaction
	var reconciled sql.NullTime
	var amount, running string
	err := row.Scan(&t.ID, &t.BankAccountID, &t.Date, (*string)(&t.Type), &t.Payee,
		&t.Description, &t.Reference, &amount, &running, &t.CategoryAccountID,
		&t.TransferAccountID, &t.CustomerID, &t.VendorID, &t.Cleared, &t.Reconciled, &reconciled)
	if err != nil {
		return nil, err
	}
	t.Amount, t.RunningBalance = dec(amount), dec(running)
	t.ReconciledDate = fromNullTime(reconciled)
	return &t, nil
}

func (s *SQLite) GetBankTransaction(id int) (*model.BankTransaction, error) {
	t, err := scanBankTxn(s.q.QueryRow(`SELECT `+bankTxnCols+` FROM bank_transactions WHERE id = ?`, id))
	return t, notFound(err)
}

func (s *SQLite) ListBankTransactions(accountID int) ([]*model.BankTransaction, error) {
	rows, err := s.q.Query(`SELECT `+bankTxnCols+` FROM bank_transactions
		WHERE bank_account_id = ? ORDER BY txn_date, id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying bank transactions: %w", err)
	}
	defer rows.Close()

	var out []*model.BankTransaction
	for rows.Next() {
		t, err := scanBankTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdateBankTransaction(t *model.BankTransaction) error {
	res, err := s.q.Exec(`UPDATE bank_transactions SET bank_account_id = ?, txn_date = ?,
		type = ?, payee = ?, description = ?, reference = ?, amount = ?, running_balance = ?,
		category_account_id = ?, transfer_account_id = ?, customer_id = ?, vendor_id = ?,
		cleared = ?, reconciled = ?, reconciled_date = ? WHERE id = ?`,
		t.BankAccountID, t.Date, string(t.Type), t.Payee, t.Description, t.Reference,
		t.Amount.String(), t.RunningBalance.String(), t.CategoryAccountID, t.TransferAccountID,
		t.CustomerID, t.VendorID, t.Cleared, t.Reconciled, nullTime(t.ReconciledDate), t.ID)
	if err != nil {
		return fmt.Errorf("updating bank transaction: %w", err)
	}
	return affected(res)
}

func (s *SQLite) DeleteBankTransaction(id int) error {
	res, err := s.q.Exec(`DELETE FROM bank_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting bank transaction: %w", err)
	}
	return affected(res)
}

// Recurring entry templates

const recurringCols = `id, name, memo, frequency, start_date, end_date, next_run_date,
	last_run_date, times_generated, is_active, auto_post`

func (s *SQLite) CreateRecurringEntry(r *model.RecurringEntry) error {
	return s.Atomic(func(st Store) error {
		tx := st.(*SQLite)
		res, err := tx.q.Exec(`INSERT INTO recurring_entries
			(name, memo, frequency, start_date, end_date, next_run_date, last_run_date,
			 times_generated, is_active, auto_post)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Name, r.Memo, string(r.Frequency), r.StartDate, nullTime(r.EndDate),
			r.NextRunDate, nullTime(r.LastRunDate), r.TimesGenerated, r.IsActive, r.AutoPost)
		if err != nil {
			return fmt.Errorf("inserting recurring entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		r.ID = int(id)
		return tx.insertRecurringLines(r)
	})
}

func (s *SQLite) insertRecurringLines(r *model.RecurringEntry) error {
	for i := range r.Lines {
		l := &r.Lines[i]
		l.RecurringEntryID = r.ID
		res, err := s.q.Exec(`INSERT INTO recurring_entry_lines
			(recurring_entry_id, account_id, description, debit, credit) VALUES (?, ?, ?, ?, ?)`,
			l.RecurringEntryID, l.AccountID, l.Description, l.Debit.String(), l.Credit.String())
		if err != nil {
			return fmt.Errorf("inserting recurring line: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID = int(id)
	}
	return nil
}

func (s *SQLite) loadRecurringLines(r *model.RecurringEntry) error {
	rows, err := s.q.Query(`SELECT id, recurring_entry_id, account_id, description, debit, credit
		FROM recurring_entry_lines WHERE recurring_entry_id = ? ORDER BY id`, r.ID)
	if err != nil {
		return fmt.Errorf("querying recurring lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.RecurringEntryLine
		var debit, credit string
		if err := rows.Scan(&l.ID, &l.RecurringEntryID, &l.AccountID, &l.Description, &debit, &credit); err != nil {
			return err
		}
		l.Debit, l.Credit = dec(debit), dec(credit)
		r.Lines = append(r.Lines, l)
	}
	return rows.Err()
}

func scanRecurring(row interface{ Scan(...any) error }) (*model.RecurringEntry, error) {
	var r model.RecurringEntry
	var end, lastRun sql.NullTime
	err := row.Scan(&r.ID, &r.Name, &r.Memo, (*string)(&r.Frequency), &r.StartDate, &end,
		&r.NextRunDate, &lastRun, &r.TimesGenerated, &r.IsActive, &r.AutoPost)
	if err != nil {
		return nil, err
	}
	r.EndDate, r.LastRunDate = fromNullTime(end), fromNullTime(lastRun)
	return &r, nil
}

func (s *SQLite) GetRecurringEntry(id int) (*model.RecurringEntry, error) {
	r, err := scanRecurring(s.q.QueryRow(`SELECT `+recurringCols+` FROM recurring_entries WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.loadRecurringLines(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLite) ListRecurringEntries() ([]*model.RecurringEntry, error) {
	rows, err := s.q.Query(`SELECT ` + recurringCols + ` FROM recurring_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying recurring entries: %w", err)
	}
	defer rows.Close()

	var out []*model.RecurringEntry
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, r := range out {
		if err := s.loadRecurringLines(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLite) UpdateRecurringEntry(r *model.RecurringEntry) error {
	return s.Atomic(func(st Store) error {
		tx := st.(*SQLite)
		res, err := tx.q.Exec(`UPDATE recurring_entries SET name = ?, memo = ?, frequency = ?,
			start_date = ?, end_date = ?, next_run_date = ?, last_run_date = ?,
			times_generated = ?, is_active = ?, auto_post = ? WHERE id = ?`,
			r.Name, r.Memo, string(r.Frequency), r.StartDate, nullTime(r.EndDate),
			r.NextRunDate, nullTime(r.LastRunDate), r.TimesGenerated, r.IsActive, r.AutoPost, r.ID)
		if err != nil {
			return fmt.Errorf("updating recurring entry: %w", err)
		}
		if err := affected(res); err != nil {
			return err
		}
		if _, err := tx.q.Exec(`DELETE FROM recurring_entry_lines WHERE recurring_entry_id = ?`, r.ID); err != nil {
			return fmt.Errorf("replacing recurring lines: %w", err)
		}
		for i := range r.Lines {
			r.Lines[i].ID = 0
		}
		return tx.insertRecurringLines(r)
	})
}
