package docnum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "INV-1001", Format(PrefixInvoice, 1001))
	assert.Equal(t, "JE-0001", Format(PrefixJournal, 1))
}

func TestParse(t *testing.T) {
	tests := []struct {
		number string
		want   int
		ok     bool
	}{
		{"INV-1001", 1001, true},
		{"BILL-0042", 42, true},
		{"JE-", 0, false},
		{"freeform", 0, false},
		{"INV-10a", 0, false},
	}
	for _, tt := range tests {
		n, ok := Parse(tt.number)
		assert.Equal(t, tt.ok, ok, tt.number)
		assert.Equal(t, tt.want, n, tt.number)
	}
}

func TestNext(t *testing.T) {
	// Empty series starts at first.
	assert.Equal(t, "INV-1001", Next(PrefixInvoice, nil, 1001))

	// Max + 1, gaps and voids never reclaimed.
	existing := []string{"INV-1001", "INV-1002", "INV-1003", "INV-1004", "INV-1005"}
	assert.Equal(t, "INV-1006", Next(PrefixInvoice, existing, 1001))

	// Non-numeric numbers are ignored.
	existing = append(existing, "INV-custom")
	assert.Equal(t, "INV-1006", Next(PrefixInvoice, existing, 1001))

	// All non-numeric falls back to first.
	assert.Equal(t, "JE-0001", Next(PrefixJournal, []string{"JE-x"}, 1))
}
