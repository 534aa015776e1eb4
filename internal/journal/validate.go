package journal

import (
	"fmt"
	"strings"

	"github.com/minibooks-dev/minibooks/internal/model"
)

// ValidationError describes a single invalid journal line.
type ValidationError struct {
	Line        int // 1-based position within the entry
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Description)
}

// ValidationErrors joins several line violations into one error.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "invalid journal lines: " + strings.Join(msgs, "; ")
}

// ValidateLines checks the shape of individual lines: an account reference,
// non-negative amounts, and exactly one nonzero side per line. Balance across
// lines is checked separately at post time, since drafts may be unbalanced.
func ValidateLines(lines []model.JournalEntryLine) []ValidationError {
	var errs []ValidationError
	for i, l := range lines {
		if l.AccountID == 0 {
			errs = append(errs, ValidationError{Line: i + 1, Description: "missing account"})
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			errs = append(errs, ValidationError{Line: i + 1, Description: "negative amount"})
		}
		hasDebit := !l.Debit.IsZero()
		hasCredit := !l.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{Line: i + 1, Description: "exactly one of debit or credit required"})
		}
	}
	return errs
}
