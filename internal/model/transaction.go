package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusVoid          InvoiceStatus = "void"
)

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	BillStatusDraft         BillStatus = "draft"
	BillStatusReceived      BillStatus = "received"
	BillStatusPartiallyPaid BillStatus = "partially_paid"
	BillStatusPaid          BillStatus = "paid"
	BillStatusOverdue       BillStatus = "overdue"
	BillStatusVoid          BillStatus = "void"
)

// Invoice is a request for payment from a customer. Subtotal, Tax, and Total
// are derived from the lines and recomputed whenever lines change.
type Invoice struct {
	ID             int
	Number         string // "INV-1001"
	CustomerID     int
	Date           time.Time
	DueDate        time.Time // zero = no due date
	Status         InvoiceStatus
	Terms          string
	Memo           string
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Discount       decimal.Decimal // document-level discount
	Total          decimal.Decimal
	AmountPaid     decimal.Decimal
	JournalEntryID int // 0 = not journaled
	SentDate       time.Time
	Lines          []InvoiceLine
}

// BalanceDue is the amount still owed on this invoice.
func (i *Invoice) BalanceDue() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

// IsOpen reports whether the invoice still contributes to the customer balance.
func (i *Invoice) IsOpen() bool {
	return i.Status != InvoiceStatusPaid && i.Status != InvoiceStatusVoid
}

// IsOverdue reports whether the invoice is unpaid past its due date.
func (i *Invoice) IsOverdue(today time.Time) bool {
	return i.IsOpen() && !i.DueDate.IsZero() && i.DueDate.Before(today)
}

// InvoiceLine is a line item on an invoice.
type InvoiceLine struct {
	ID              int
	InvoiceID       int
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal // 0-100
	TaxRate         decimal.Decimal // percentage
	Taxable         bool
	AccountID       int // income account, 0 = default
	SortOrder       int
}

// Total is quantity x unit price less the line discount.
func (l InvoiceLine) Total() decimal.Decimal {
	gross := l.Quantity.Mul(l.UnitPrice)
	if l.DiscountPercent.IsZero() {
		return gross
	}
	return gross.Mul(decimal.NewFromInt(1).Sub(l.DiscountPercent.Div(hundred)))
}

// TaxAmount is the tax on this line, zero when the line is not taxable.
func (l InvoiceLine) TaxAmount() decimal.Decimal {
	if !l.Taxable || l.TaxRate.IsZero() {
		return decimal.Zero
	}
	return l.Total().Mul(l.TaxRate.Div(hundred))
}

// Bill is an invoice received from a vendor.
type Bill struct {
	ID                  int
	Number              string // "BILL-1001"
	VendorID            int
	VendorInvoiceNumber string
	Date                time.Time
	DueDate             time.Time // zero = no due date
	ReceivedDate        time.Time
	Status              BillStatus
	Memo                string
	Subtotal            decimal.Decimal
	Tax                 decimal.Decimal
	Discount            decimal.Decimal
	Total               decimal.Decimal
	AmountPaid          decimal.Decimal
	JournalEntryID      int
	Lines               []BillLine
}

// BalanceDue is the amount still owed on this bill.
func (b *Bill) BalanceDue() decimal.Decimal {
	return b.Total.Sub(b.AmountPaid)
}

// IsOpen reports whether the bill still contributes to the vendor balance.
func (b *Bill) IsOpen() bool {
	return b.Status != BillStatusPaid && b.Status != BillStatusVoid
}

// IsOverdue reports whether the bill is unpaid past its due date.
func (b *Bill) IsOverdue(today time.Time) bool {
	return b.IsOpen() && !b.DueDate.IsZero() && b.DueDate.Before(today)
}

// BillLine is a line item on a bill.
type BillLine struct {
	ID          int
	BillID      int
	Description string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	AccountID   int // expense account, 0 = default
	SortOrder   int
}

// Total is quantity x unit cost.
func (l BillLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// PaymentDirection distinguishes customer receipts from vendor payments.
type PaymentDirection string

const (
	PaymentReceived PaymentDirection = "received"
	PaymentMade     PaymentDirection = "made"
)

// Payment is money received from a customer or paid to a vendor. A payment is
// applied to invoices or bills through PaymentApplication rows and may be
// split across several documents.
type Payment struct {
	ID               int
	Number           string // "PMT-1001"
	Direction        PaymentDirection
	CustomerID       int // set when Direction is received
	VendorID         int // set when Direction is made
	Date             time.Time
	Method           string // check, ach, card, cash, ...
	CheckNumber      string
	DepositAccountID int // bank/cash account in the chart
	Memo             string
	Total            decimal.Decimal
}

// PaymentApplication applies part of a payment to one invoice or one bill,
// never both.
type PaymentApplication struct {
	ID        int
	PaymentID int
	InvoiceID int // 0 unless applied to an invoice
	BillID    int // 0 unless applied to a bill
	Amount    decimal.Decimal
	Date      time.Time
}
