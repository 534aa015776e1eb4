package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring entry template generates a new entry.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiWeekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

// Next returns the run date following from, using calendar arithmetic
// (monthly = same day next month). Unknown frequencies advance monthly.
func (f Frequency) Next(from time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyBiWeekly:
		return from.AddDate(0, 0, 14)
	case FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case FrequencyAnnually:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// RecurringEntry is a journal entry template that materializes new entries on
// a schedule.
type RecurringEntry struct {
	ID             int
	Name           string
	Memo           string
	Frequency      Frequency
	StartDate      time.Time
	EndDate        time.Time // zero = no end
	NextRunDate    time.Time
	LastRunDate    time.Time // zero = never run
	TimesGenerated int
	IsActive       bool
	AutoPost       bool
	Lines          []RecurringEntryLine
}

// IsDue reports whether the template should generate an entry as of today.
func (r *RecurringEntry) IsDue(today time.Time) bool {
	if !r.IsActive || r.NextRunDate.After(today) {
		return false
	}
	return r.EndDate.IsZero() || !r.EndDate.Before(today)
}

// RecurringEntryLine is a template line copied verbatim into generated
// entries.
type RecurringEntryLine struct {
	ID               int
	RecurringEntryID int
	AccountID        int
	Description      string
	Debit            decimal.Decimal
	Credit           decimal.Decimal
}
