package accounts

import "github.com/minibooks-dev/minibooks/internal/model"

// DefaultChart returns the default chart of accounts for a new ledger.
// Accounts the engine itself posts to (cash, AR, AP, core equity and revenue
// accounts) are system-protected.
func DefaultChart() []*model.Account {
	type row struct {
		number  string
		name    string
		desc    string
		typ     model.AccountType
		subType model.AccountSubType
		system  bool
		order   int
	}

	rows := []row{
		// Assets (1000s)
		{"1000", "Cash on Hand", "Physical cash held by the business", model.AccountTypeAsset, model.SubTypeCash, true, 1},
		{"1010", "Checking Account", "Primary business checking account", model.AccountTypeAsset, model.SubTypeBank, true, 2},
		{"1020", "Savings Account", "Business savings account", model.AccountTypeAsset, model.SubTypeBank, false, 3},
		{"1100", "Accounts Receivable", "Money owed by customers", model.AccountTypeAsset, model.SubTypeAccountsReceivable, true, 10},
		{"1200", "Inventory", "Products held for sale", model.AccountTypeAsset, model.SubTypeInventory, false, 20},
		{"1300", "Prepaid Expenses", "Expenses paid in advance", model.AccountTypeAsset, model.SubTypeOtherCurrentAsset, false, 30},
		{"1500", "Equipment", "Business equipment and machinery", model.AccountTypeAsset, model.SubTypeFixedAsset, false, 50},
		{"1510", "Accumulated Depreciation - Equipment", "Accumulated depreciation on equipment", model.AccountTypeAsset, model.SubTypeFixedAsset, false, 51},
		{"1600", "Vehicles", "Business vehicles", model.AccountTypeAsset, model.SubTypeFixedAsset, false, 60},

		// Liabilities (2000s)
		{"2000", "Accounts Payable", "Money owed to vendors", model.AccountTypeLiability, model.SubTypeAccountsPayable, true, 1},
		{"2100", "Credit Card", "Business credit card balance", model.AccountTypeLiability, model.SubTypeCreditCard, false, 10},
		{"2200", "Sales Tax Payable", "Sales tax collected but not yet remitted", model.AccountTypeLiability, model.SubTypeCurrentLiability, false, 20},
		{"2300", "Payroll Liabilities", "Payroll taxes and withholdings", model.AccountTypeLiability, model.SubTypeCurrentLiability, false, 30},
		{"2500", "Line of Credit", "Business line of credit", model.AccountTypeLiability, model.SubTypeCurrentLiability, false, 50},
		{"2700", "Loan Payable", "Long-term business loans", model.AccountTypeLiability, model.SubTypeLongTermLiability, false, 70},

		// Equity (3000s)
		{"3000", "Owner's Equity", "Owner's investment in the business", model.AccountTypeEquity, model.SubTypeOwnersEquity, true, 1},
		{"3100", "Owner's Draw", "Withdrawals by owner", model.AccountTypeEquity, model.SubTypeOwnersEquity, false, 10},
		{"3200", "Retained Earnings", "Accumulated profits retained in business", model.AccountTypeEquity, model.SubTypeRetainedEarnings, true, 20},
		{"3900", "Opening Balance Equity", "Used for opening balance entries", model.AccountTypeEquity, model.SubTypeOpeningBalance, true, 90},

		// Income (4000s)
		{"4000", "Sales Revenue", "Income from product sales", model.AccountTypeIncome, model.SubTypeSales, true, 1},
		{"4100", "Service Revenue", "Income from services rendered", model.AccountTypeIncome, model.SubTypeServiceIncome, false, 10},
		{"4200", "Discounts Given", "Sales discounts provided to customers", model.AccountTypeIncome, model.SubTypeSales, false, 20},
		{"4300", "Returns and Allowances", "Product returns and price adjustments", model.AccountTypeIncome, model.SubTypeSales, false, 30},
		{"4800", "Interest Income", "Interest earned on bank accounts", model.AccountTypeIncome, model.SubTypeOtherIncome, false, 80},
		{"4900", "Other Income", "Miscellaneous income", model.AccountTypeIncome, model.SubTypeOtherIncome, false, 90},

		// Expenses (5000s-9000s)
		{"5000", "Cost of Goods Sold", "Direct cost of products sold", model.AccountTypeExpense, model.SubTypeCostOfGoodsSold, true, 1},
		{"5100", "Purchases", "Inventory purchases", model.AccountTypeExpense, model.SubTypeCostOfGoodsSold, false, 10},
		{"6000", "Advertising & Marketing", "Marketing and promotional expenses", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 100},
		{"6100", "Bank Charges", "Bank fees and charges", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 110},
		{"6200", "Insurance", "Business insurance premiums", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 120},
		{"6300", "Interest Expense", "Interest paid on loans and credit", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 130},
		{"6400", "Office Supplies", "Office supplies and materials", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 140},
		{"6500", "Professional Fees", "Legal, accounting, and consulting fees", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 150},
		{"6600", "Rent Expense", "Office or facility rent", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 160},
		{"6700", "Repairs & Maintenance", "Equipment and facility repairs", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 170},
		{"6800", "Telephone & Internet", "Communication expenses", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 180},
		{"6900", "Travel & Entertainment", "Business travel and entertainment", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 190},
		{"7000", "Utilities", "Electricity, gas, water", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 200},
		{"7100", "Wages & Salaries", "Employee compensation", model.AccountTypeExpense, model.SubTypePayroll, false, 210},
		{"7200", "Payroll Taxes", "Employer payroll tax expenses", model.AccountTypeExpense, model.SubTypePayroll, false, 220},
		{"7300", "Employee Benefits", "Health insurance, retirement contributions", model.AccountTypeExpense, model.SubTypePayroll, false, 230},
		{"7500", "Depreciation Expense", "Depreciation of fixed assets", model.AccountTypeExpense, model.SubTypeOperatingExpense, false, 250},
		{"9000", "Miscellaneous Expense", "Other business expenses", model.AccountTypeExpense, model.SubTypeOtherExpense, false, 900},
	}

	chart := make([]*model.Account, len(rows))
	for i, r := range rows {
		chart[i] = &model.Account{
			Number:          r.number,
			Name:            r.name,
			Description:     r.desc,
			Type:            r.typ,
			SubType:         r.subType,
			IsActive:        true,
			IsSystemAccount: r.system,
			DisplayOrder:    r.order,
		}
	}
	return chart
}
