package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// NormalDebitBalance reports whether debits increase balances of this type.
// Assets and expenses carry a debit normal balance; liabilities, equity, and
// income carry a credit normal balance.
func (t AccountType) NormalDebitBalance() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// NumberBase returns the start of the account-number block for this type
// (1000s assets, 2000s liabilities, 3000s equity, 4000s income, 5000s expenses).
func (t AccountType) NumberBase() int {
	switch t {
	case AccountTypeAsset:
		return 1000
	case AccountTypeLiability:
		return 2000
	case AccountTypeEquity:
		return 3000
	case AccountTypeIncome:
		return 4000
	case AccountTypeExpense:
		return 5000
	default:
		return 9000
	}
}

// AccountSubType is a finer category within an account type.
type AccountSubType string

const (
	SubTypeCash               AccountSubType = "cash"
	SubTypeBank               AccountSubType = "bank"
	SubTypeAccountsReceivable AccountSubType = "accounts_receivable"
	SubTypeInventory          AccountSubType = "inventory"
	SubTypeFixedAsset         AccountSubType = "fixed_asset"
	SubTypeOtherCurrentAsset  AccountSubType = "other_current_asset"
	SubTypeAccountsPayable    AccountSubType = "accounts_payable"
	SubTypeCreditCard         AccountSubType = "credit_card"
	SubTypeCurrentLiability   AccountSubType = "current_liability"
	SubTypeLongTermLiability  AccountSubType = "long_term_liability"
	SubTypeOwnersEquity       AccountSubType = "owners_equity"
	SubTypeRetainedEarnings   AccountSubType = "retained_earnings"
	SubTypeOpeningBalance     AccountSubType = "opening_balance"
	SubTypeSales              AccountSubType = "sales"
	SubTypeServiceIncome      AccountSubType = "service_income"
	SubTypeOtherIncome        AccountSubType = "other_income"
	SubTypeCostOfGoodsSold    AccountSubType = "cost_of_goods_sold"
	SubTypeOperatingExpense   AccountSubType = "operating_expense"
	SubTypePayroll            AccountSubType = "payroll"
	SubTypeOtherExpense       AccountSubType = "other_expense"
)

// Account is a row in the chart of accounts. Balance is the net of all posted
// debits and credits applied under the type's normal-balance rule and is only
// ever mutated through the account ledger.
type Account struct {
	ID              int
	Number          string // unique, numeric within the type's block by convention
	Name            string
	Description     string
	Type            AccountType
	SubType         AccountSubType
	ParentID        int // 0 = top-level
	Balance         decimal.Decimal
	IsActive        bool
	IsSystemAccount bool // protected accounts cannot be deleted
	DisplayOrder    int
}
