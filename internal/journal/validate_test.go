package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minibooks-dev/minibooks/internal/model"
)

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name     string
		lines    []model.JournalEntryLine
		wantErrs int
	}{
		{
			"valid pair",
			[]model.JournalEntryLine{
				{AccountID: 1, Debit: dec("10")},
				{AccountID: 2, Credit: dec("10")},
			},
			0,
		},
		{
			"both sides on one line",
			[]model.JournalEntryLine{{AccountID: 1, Debit: dec("10"), Credit: dec("10")}},
			1,
		},
		{
			"neither side",
			[]model.JournalEntryLine{{AccountID: 1}},
			1,
		},
		{
			"negative amount",
			[]model.JournalEntryLine{{AccountID: 1, Debit: dec("-5")}},
			1,
		},
		{
			"missing account",
			[]model.JournalEntryLine{{Debit: dec("5")}},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLines(tt.lines)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}
