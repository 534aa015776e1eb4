// Package recurring materializes journal entries from scheduled templates.
package recurring

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/minibooks-dev/minibooks/internal/journal"
	"github.com/minibooks-dev/minibooks/internal/model"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// Service provides business logic for recurring entry templates.
type Service struct {
	store   store.Store
	journal *journal.Service
	log     zerolog.Logger
}

// NewService creates a recurring Service.
func NewService(st store.Store, js *journal.Service, log zerolog.Logger) *Service {
	return &Service{store: st, journal: js, log: log}
}

// Create persists a new template. NextRunDate defaults to the start date.
func (s *Service) Create(r *model.RecurringEntry) error {
	if r.NextRunDate.IsZero() {
		r.NextRunDate = r.StartDate
	}
	if r.Frequency == "" {
		r.Frequency = model.FrequencyMonthly
	}
	if err := s.store.CreateRecurringEntry(r); err != nil {
		return fmt.Errorf("creating recurring entry %q: %w", r.Name, err)
	}
	return nil
}

// Get returns one template with its lines.
func (s *Service) Get(id int) (*model.RecurringEntry, error) {
	return s.store.GetRecurringEntry(id)
}

// List returns all templates.
func (s *Service) List() ([]*model.RecurringEntry, error) {
	return s.store.ListRecurringEntries()
}

// Update persists changes to a template.
func (s *Service) Update(r *model.RecurringEntry) error {
	return s.store.UpdateRecurringEntry(r)
}

// Due returns active templates whose next run date has arrived and whose end
// date, if any, has not passed.
func (s *Service) Due(today time.Time) ([]*model.RecurringEntry, error) {
	all, err := s.store.ListRecurringEntries()
	if err != nil {
		return nil, err
	}
	var due []*model.RecurringEntry
	for _, r := range all {
		if r.IsDue(today) {
			due = append(due, r)
		}
	}
	return due, nil
}

// Generate materializes one journal entry from the template, dated at the
// template's next run date with the template lines copied verbatim. When the
// template auto-posts, the entry's balance effects are applied immediately;
// otherwise it is left in draft. The template's schedule advances by its
// frequency and its generation counter increments.
func (s *Service) Generate(templateID int) (*model.JournalEntry, error) {
	var entry *model.JournalEntry

	err := s.store.Atomic(func(tx store.Store) error {
		r, err := tx.GetRecurringEntry(templateID)
		if err != nil {
			return err
		}

		lines := make([]model.JournalEntryLine, len(r.Lines))
		for i, l := range r.Lines {
			lines[i] = model.JournalEntryLine{
				AccountID:   l.AccountID,
				Description: l.Description,
				Debit:       l.Debit,
				Credit:      l.Credit,
			}
		}

		entry = &model.JournalEntry{
			Date:   r.NextRunDate,
			Memo:   r.Memo,
			Status: model.EntryStatusDraft,
			Lines:  lines,
		}
		number, err := journal.NextNumber(tx)
		if err != nil {
			return err
		}
		entry.EntryNumber = number
		if err := tx.CreateJournalEntry(entry); err != nil {
			return err
		}

		if r.AutoPost {
			posted, err := journal.Post(tx, s.log, entry.ID)
			if err != nil {
				return err
			}
			if !posted {
				return fmt.Errorf("recurring: template %q produced an unpostable entry", r.Name)
			}
			entry.Status = model.EntryStatusPosted
		}

		r.LastRunDate = r.NextRunDate
		r.NextRunDate = r.Frequency.Next(r.NextRunDate)
		r.TimesGenerated++
		return tx.UpdateRecurringEntry(r)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("entry", entry.EntryNumber).Int("template", templateID).Msg("generated recurring entry")
	return entry, nil
}

// GenerateDue runs Generate for every due template. One template's failure is
// logged and skipped so the rest of the batch still runs. Returns the entries
// generated.
func (s *Service) GenerateDue(today time.Time) ([]*model.JournalEntry, error) {
	due, err := s.Due(today)
	if err != nil {
		return nil, err
	}

	var generated []*model.JournalEntry
	for _, r := range due {
		entry, err := s.Generate(r.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("template", r.Name).Msg("skipping recurring template")
			continue
		}
		generated = append(generated, entry)
	}
	return generated, nil
}
