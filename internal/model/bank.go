package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccountType classifies bank accounts.
type BankAccountType string

const (
	BankAccountChecking     BankAccountType = "checking"
	BankAccountSavings      BankAccountType = "savings"
	BankAccountCreditCard   BankAccountType = "credit_card"
	BankAccountMoneyMarket  BankAccountType = "money_market"
	BankAccountLineOfCredit BankAccountType = "line_of_credit"
)

// BankAccount tracks a real-world bank account alongside the chart of
// accounts. CurrentBalance and per-transaction running balances derive from
// OpeningBalance plus all transaction amounts in (date, id) order.
type BankAccount struct {
	ID                    int
	Name                  string
	BankName              string
	Type                  BankAccountType
	AccountNumber         string
	LinkedAccountID       int // asset account in the chart, 0 = unlinked
	OpeningBalance        decimal.Decimal
	OpeningBalanceDate    time.Time
	CurrentBalance        decimal.Decimal
	LastReconciledDate    time.Time // zero = never reconciled
	LastReconciledBalance decimal.Decimal
	IsActive              bool
}

// BankTransactionType classifies bank transactions.
type BankTransactionType string

const (
	BankTxnDeposit    BankTransactionType = "deposit"
	BankTxnWithdrawal BankTransactionType = "withdrawal"
	BankTxnTransfer   BankTransactionType = "transfer"
	BankTxnCheck      BankTransactionType = "check"
	BankTxnACH        BankTransactionType = "ach"
	BankTxnFee        BankTransactionType = "fee"
	BankTxnInterest   BankTransactionType = "interest"
	BankTxnAdjustment BankTransactionType = "adjustment"
	BankTxnOther      BankTransactionType = "other"
)

// BankTransaction is a single deposit (positive amount) or withdrawal
// (negative amount) on a bank account. RunningBalance is a snapshot taken at
// insertion time; it is only re-derived by an explicit recalculation.
type BankTransaction struct {
	ID                int
	BankAccountID     int
	Date              time.Time
	Type              BankTransactionType
	Payee             string
	Description       string
	Reference         string
	Amount            decimal.Decimal // positive = deposit, negative = withdrawal
	RunningBalance    decimal.Decimal
	CategoryAccountID int // chart account categorizing this transaction
	TransferAccountID int // for transfers, the counterpart bank account
	CustomerID        int
	VendorID          int
	Cleared           bool
	Reconciled        bool // reconciled implies cleared
	ReconciledDate    time.Time
}

// IsDeposit reports whether the amount is positive.
func (t *BankTransaction) IsDeposit() bool {
	return t.Amount.IsPositive()
}
