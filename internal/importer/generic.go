package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minibooks-dev/minibooks/internal/bank"
	"github.com/minibooks-dev/minibooks/internal/model"
)

// GenericParser parses the minimal statement layout many banks can export:
// date,description,amount with an optional fourth reference column.
type GenericParser struct{}

const (
	genericDateFormat = "2006-01-02"
	genericColDate    = 0
	genericColDesc    = 1
	genericColAmount  = 2
	genericColRef     = 3
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads the CSV and returns import rows. The first row is a header.
func (p *GenericParser) Parse(r io.Reader) ([]bank.ImportedTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var rows []bank.ImportedTransaction
	for i, rec := range records[1:] {
		if len(rec) < 3 {
			return nil, fmt.Errorf("row %d: want at least 3 fields, got %d", i+2, len(rec))
		}

		date, err := time.Parse(genericDateFormat, rec[genericColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[genericColDate], err)
		}
		amount, err := decimal.NewFromString(rec[genericColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[genericColAmount], err)
		}

		row := bank.ImportedTransaction{
			Date:        date,
			Type:        classify(amount),
			Description: rec[genericColDesc],
			Amount:      amount,
		}
		if len(rec) > genericColRef {
			row.Reference = rec[genericColRef]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// classify maps a signed amount to a transaction type.
func classify(amount decimal.Decimal) model.BankTransactionType {
	if amount.IsPositive() {
		return model.BankTxnDeposit
	}
	return model.BankTxnWithdrawal
}
