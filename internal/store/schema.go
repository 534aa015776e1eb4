package store

// Schema creates all ledger tables. Monetary columns are TEXT holding exact
// decimal strings; SQLite REAL would reintroduce binary rounding.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    sub_type TEXT NOT NULL DEFAULT '',
    parent_id INTEGER NOT NULL DEFAULT 0,
    balance TEXT NOT NULL DEFAULT '0',
    is_active INTEGER NOT NULL DEFAULT 1,
    is_system INTEGER NOT NULL DEFAULT 0,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS journal_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_number TEXT NOT NULL UNIQUE,
    entry_date TIMESTAMP NOT NULL,
    memo TEXT NOT NULL DEFAULT '',
    reference TEXT NOT NULL DEFAULT '',
    is_adjusting INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS journal_entry_lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id INTEGER NOT NULL REFERENCES journal_entries(id) ON DELETE CASCADE,
    account_id INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    debit TEXT NOT NULL DEFAULT '0',
    credit TEXT NOT NULL DEFAULT '0'
);

CREATE INDEX IF NOT EXISTS idx_journal_lines_entry
    ON journal_entry_lines(entry_id);
CREATE INDEX IF NOT EXISTS idx_journal_lines_account
    ON journal_entry_lines(account_id);

CREATE TABLE IF NOT EXISTS customers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    company_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    balance TEXT NOT NULL DEFAULT '0',
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS vendors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    company_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    balance TEXT NOT NULL DEFAULT '0',
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS invoices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number TEXT NOT NULL UNIQUE,
    customer_id INTEGER NOT NULL,
    txn_date TIMESTAMP NOT NULL,
    due_date TIMESTAMP,
    status TEXT NOT NULL,
    terms TEXT NOT NULL DEFAULT '',
    memo TEXT NOT NULL DEFAULT '',
    subtotal TEXT NOT NULL DEFAULT '0',
    tax TEXT NOT NULL DEFAULT '0',
    discount TEXT NOT NULL DEFAULT '0',
    total TEXT NOT NULL DEFAULT '0',
    amount_paid TEXT NOT NULL DEFAULT '0',
    journal_entry_id INTEGER NOT NULL DEFAULT 0,
    sent_date TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_invoices_customer ON invoices(customer_id);

CREATE TABLE IF NOT EXISTS invoice_lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_id INTEGER NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
    description TEXT NOT NULL DEFAULT '',
    quantity TEXT NOT NULL DEFAULT '0',
    unit_price TEXT NOT NULL DEFAULT '0',
    discount_percent TEXT NOT NULL DEFAULT '0',
    tax_rate TEXT NOT NULL DEFAULT '0',
    taxable INTEGER NOT NULL DEFAULT 0,
    account_id INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_invoice_lines_invoice ON invoice_lines(invoice_id);

CREATE TABLE IF NOT EXISTS bills (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number TEXT NOT NULL UNIQUE,
    vendor_id INTEGER NOT NULL,
    vendor_invoice_number TEXT NOT NULL DEFAULT '',
    txn_date TIMESTAMP NOT NULL,
    due_date TIMESTAMP,
    received_date TIMESTAMP,
    status TEXT NOT NULL,
    memo TEXT NOT NULL DEFAULT '',
    subtotal TEXT NOT NULL DEFAULT '0',
    tax TEXT NOT NULL DEFAULT '0',
    discount TEXT NOT NULL DEFAULT '0',
    total TEXT NOT NULL DEFAULT '0',
    amount_paid TEXT NOT NULL DEFAULT '0',
    journal_entry_id INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_bills_vendor ON bills(vendor_id);

CREATE TABLE IF NOT EXISTS bill_lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bill_id INTEGER NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
    description TEXT NOT NULL DEFAULT '',
    quantity TEXT NOT NULL DEFAULT '0',
    unit_cost TEXT NOT NULL DEFAULT '0',
    account_id INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_bill_lines_bill ON bill_lines(bill_id);

CREATE TABLE IF NOT EXISTS payments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number TEXT NOT NULL UNIQUE,
    direction TEXT NOT NULL,
    customer_id INTEGER NOT NULL DEFAULT 0,
    vendor_id INTEGER NOT NULL DEFAULT 0,
    pay_date TIMESTAMP NOT NULL,
    method TEXT NOT NULL DEFAULT '',
    check_number TEXT NOT NULL DEFAULT '',
    deposit_account_id INTEGER NOT NULL DEFAULT 0,
    memo TEXT NOT NULL DEFAULT '',
    total TEXT NOT NULL DEFAULT '0'
);

CREATE TABLE IF NOT EXISTS payment_applications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    payment_id INTEGER NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
    invoice_id INTEGER NOT NULL DEFAULT 0,
    bill_id INTEGER NOT NULL DEFAULT 0,
    amount TEXT NOT NULL DEFAULT '0',
    applied_date TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_applications_payment ON payment_applications(payment_id);
CREATE INDEX IF NOT EXISTS idx_applications_invoice ON payment_applications(invoice_id);
CREATE INDEX IF NOT EXISTS idx_applications_bill ON payment_applications(bill_id);

CREATE TABLE IF NOT EXISTS bank_accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    bank_name TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    account_number TEXT NOT NULL DEFAULT '',
    linked_account_id INTEGER NOT NULL DEFAULT 0,
    opening_balance TEXT NOT NULL DEFAULT '0',
    opening_date TIMESTAMP NOT NULL,
    current_balance TEXT NOT NULL DEFAULT '0',
    last_reconciled_date TIMESTAMP,
    last_reconciled_balance TEXT NOT NULL DEFAULT '0',
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS bank_transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bank_account_id INTEGER NOT NULL REFERENCES bank_accounts(id) ON DELETE CASCADE,
    txn_date TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    payee TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    reference TEXT NOT NULL DEFAULT '',
    amount TEXT NOT NULL DEFAULT '0',
    running_balance TEXT NOT NULL DEFAULT '0',
    category_account_id INTEGER NOT NULL DEFAULT 0,
    transfer_account_id INTEGER NOT NULL DEFAULT 0,
    customer_id INTEGER NOT NULL DEFAULT 0,
    vendor_id INTEGER NOT NULL DEFAULT 0,
    cleared INTEGER NOT NULL DEFAULT 0,
    reconciled INTEGER NOT NULL DEFAULT 0,
    reconciled_date TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bank_txns_account
    ON bank_transactions(bank_account_id, txn_date, id);

CREATE TABLE IF NOT EXISTS recurring_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    memo TEXT NOT NULL DEFAULT '',
    frequency TEXT NOT NULL,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP,
    next_run_date TIMESTAMP NOT NULL,
    last_run_date TIMESTAMP,
    times_generated INTEGER NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1,
    auto_post INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS recurring_entry_lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    recurring_entry_id INTEGER NOT NULL REFERENCES recurring_entries(id) ON DELETE CASCADE,
    account_id INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    debit TEXT NOT NULL DEFAULT '0',
    credit TEXT NOT NULL DEFAULT '0'
);

CREATE INDEX IF NOT EXISTS idx_recurring_lines_entry
    ON recurring_entry_lines(recurring_entry_id);
`
