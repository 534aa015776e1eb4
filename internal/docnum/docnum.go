// Package docnum formats and sequences document numbers like "INV-1001".
package docnum

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefixes for each document family.
const (
	PrefixJournal  = "JE"
	PrefixInvoice  = "INV"
	PrefixBill     = "BILL"
	PrefixPayment  = "PMT"
	PrefixCustomer = "CUST"
	PrefixVendor   = "VEND"
)

// Format returns a document number like "INV-1001" (4-digit zero-padded).
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// Parse extracts the numeric suffix from a document number. It returns
// ok=false for numbers that are not PREFIX-N with a numeric suffix.
func Parse(number string) (int, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Next returns the next free number given all existing numbers in a series.
// Non-numeric suffixes are ignored, not errors. Voided documents keep their
// numbers, so the sequence never reuses one. When no existing number parses,
// the sequence starts at first.
func Next(prefix string, existing []string, first int) string {
	max := first - 1
	for _, number := range existing {
		n, ok := Parse(number)
		if !ok {
			continue
		}
		if n > max {
			max = n
		}
	}
	return Format(prefix, max+1)
}
