package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryStatusDraft   EntryStatus = "draft"
	EntryStatusPending EntryStatus = "pending" // display-only intermediate state
	EntryStatusPosted  EntryStatus = "posted"
	EntryStatusVoid    EntryStatus = "void"
)

// JournalEntry is the canonical unit of money movement. An entry may be
// unbalanced while in draft but must balance exactly before it can post.
type JournalEntry struct {
	ID          int
	EntryNumber string // "JE-0001"
	Date        time.Time
	Memo        string
	Reference   string // source document number (INV-1001, etc.)
	IsAdjusting bool
	Status      EntryStatus
	Lines       []JournalEntryLine
}

// TotalDebits sums the debit side of all lines.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side of all lines.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced reports exact decimal equality of total debits and credits.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebits().Equal(e.TotalCredits())
}

// JournalEntryLine is one side of a double-entry. A line carries a debit or a
// credit, never both. Lines are owned by their entry and deleted with it.
type JournalEntryLine struct {
	ID          int
	EntryID     int
	AccountID   int
	Description string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
}
