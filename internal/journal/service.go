// Package journal validates and posts/voids journal entries, the canonical
// unit of truth for money moving between accounts.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/minibooks-dev/minibooks/internal/accounts"
	"github.com/minibooks-dev/minibooks/internal/docnum"
	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// Service provides business logic for journal entries.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a journal Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// CreateWithLines persists a new entry with its lines. An entry number is
// assigned when absent and the status defaults to draft. Drafts may be
// unbalanced, but every line must carry exactly one nonzero side.
func (s *Service) CreateWithLines(e *model.JournalEntry) error {
	if verrs := ValidateLines(e.Lines); len(verrs) > 0 {
		return ValidationErrors(verrs)
	}
	if e.EntryNumber == "" {
		number, err := s.NextEntryNumber()
		if err != nil {
			return err
		}
		e.EntryNumber = number
	}
	if e.Status == "" {
		e.Status = model.EntryStatusDraft
	}
	if err := s.store.CreateJournalEntry(e); err != nil {
		return fmt.Errorf("creating entry %s: %w", e.EntryNumber, err)
	}
	return nil
}

// Get returns one entry with its lines.
func (s *Service) Get(id int) (*model.JournalEntry, error) {
	return s.store.GetJournalEntry(id)
}

// List returns all entries.
func (s *Service) List() ([]*model.JournalEntry, error) {
	return s.store.ListJournalEntries()
}

// ListByStatus returns entries in one lifecycle state.
func (s *Service) ListByStatus(status model.EntryStatus) ([]*model.JournalEntry, error) {
	return s.store.ListJournalEntriesByStatus(status)
}

// ListByAccount returns entries with at least one line on the account.
func (s *Service) ListByAccount(accountID int) ([]*model.JournalEntry, error) {
	return s.store.ListJournalEntriesByAccount(accountID)
}

// ListByDateRange returns entries dated within [from, to] inclusive.
func (s *Service) ListByDateRange(from, to time.Time) ([]*model.JournalEntry, error) {
	all, err := s.store.ListJournalEntries()
	if err != nil {
		return nil, err
	}
	var out []*model.JournalEntry
	for _, e := range all {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// NextEntryNumber returns the next free JE number.
func (s *Service) NextEntryNumber() (string, error) {
	return NextNumber(s.store)
}

// NextNumber computes the next free JE number against any store view.
func NextNumber(st store.Store) (string, error) {
	all, err := st.ListJournalEntries()
	if err != nil {
		return "", err
	}
	numbers := make([]string, len(all))
	for i, e := range all {
		numbers[i] = e.EntryNumber
	}
	return docnum.Next(docnum.PrefixJournal, numbers, 1), nil
}

// Validate reports whether the entry could post: at least one line and total
// debits exactly equal total credits.
func Validate(e *model.JournalEntry) bool {
	return len(e.Lines) > 0 && e.IsBalanced()
}

// Post applies a draft entry's lines to account balances and marks it posted.
// It returns false without mutating anything when the entry is missing,
// already posted or void, or does not validate. All balance adjustments and
// the status change land atomically.
func (s *Service) Post(entryID int) (bool, error) {
	return Post(s.store, s.log, entryID)
}

// Void marks an entry void. A posted entry's balance effects are reversed
// first by applying each line with the opposite side; voiding a draft reverses
// nothing. Returns false when the entry is missing or already void. Voided
// entries cannot be reposted.
func (s *Service) Void(entryID int) (bool, error) {
	return Void(s.store, s.log, entryID)
}

// Post is the package-level posting primitive, usable inside an enclosing
// atomic section.
func Post(st store.Store, log zerolog.Logger, entryID int) (bool, error) {
	ok := false
	err := st.Atomic(func(tx store.Store) error {
		e, err := tx.GetJournalEntry(entryID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if e.Status == model.EntryStatusPosted || e.Status == model.EntryStatusVoid {
			return nil
		}
		if !Validate(e) {
			return nil
		}

		for _, l := range e.Lines {
			if !l.Debit.IsZero() {
				if err := accounts.Adjust(tx, l.AccountID, l.Debit, true); err != nil {
					return err
				}
			}
			if !l.Credit.IsZero() {
				if err := accounts.Adjust(tx, l.AccountID, l.Credit, false); err != nil {
					return err
				}
			}
		}

		e.Status = model.EntryStatusPosted
		if err := tx.UpdateJournalEntry(e); err != nil {
			return err
		}
		ok = true
		log.Info().Str("entry", e.EntryNumber).Str("amount", e.TotalDebits().StringFixed(2)).Msg("posted journal entry")
		return nil
	})
	return ok, err
}

// Void is the package-level voiding primitive, usable inside an enclosing
// atomic section.
func Void(st store.Store, log zerolog.Logger, entryID int) (bool, error) {
	ok := false
	err := st.Atomic(func(tx store.Store) error {
		e, err := tx.GetJournalEntry(entryID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if e.Status == model.EntryStatusVoid {
			return nil
		}

		if e.Status == model.EntryStatusPosted {
			for _, l := range e.Lines {
				if !l.Debit.IsZero() {
					if err := accounts.Adjust(tx, l.AccountID, l.Debit, false); err != nil {
						return err
					}
				}
				if !l.Credit.IsZero() {
					if err := accounts.Adjust(tx, l.AccountID, l.Credit, true); err != nil {
						return err
					}
				}
			}
		}

		e.Status = model.EntryStatusVoid
		if err := tx.UpdateJournalEntry(e); err != nil {
			return err
		}
		ok = true
		log.Info().Str("entry", e.EntryNumber).Msg("voided journal entry")
		return nil
	})
	return ok, err
}
