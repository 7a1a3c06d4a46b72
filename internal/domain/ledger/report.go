package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceStatus represents the aggregate outcome of a trial balance
type TrialBalanceStatus string

const (
	TrialBalanceStatusBalanced   TrialBalanceStatus = "BALANCED"
	TrialBalanceStatusUnbalanced TrialBalanceStatus = "UNBALANCED"
)

// IsBalanced returns true if the trial balance is balanced
func (s TrialBalanceStatus) IsBalanced() bool {
	return s == TrialBalanceStatusBalanced
}

// String returns the string representation
func (s TrialBalanceStatus) String() string {
	return string(s)
}

// TrialBalanceRow is one account's debit and credit totals. Rows are never
// netted: an account with transaction volume on both sides within the period
// shows both totals, which is intentional for audit purposes.
type TrialBalanceRow struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	GroupName   string          `json:"group_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account's totals. The calculator reports an
// imbalance faithfully rather than enforce the equality; for postings entered
// as balanced double-entry pairs the totals are equal.
type TrialBalance struct {
	AsOf        time.Time          `json:"as_of"`
	Rows        []TrialBalanceRow  `json:"rows"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	NetBalance  decimal.Decimal    `json:"net_balance"`
	Status      TrialBalanceStatus `json:"status"`
}

// BalanceSheetLine is one account's net balance on the balance sheet
type BalanceSheetLine struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceSheetGroup is a group of accounts with a subtotal
type BalanceSheetGroup struct {
	GroupCode string             `json:"group_code"`
	GroupName string             `json:"group_name"`
	Accounts  []BalanceSheetLine `json:"accounts"`
	Total     decimal.Decimal    `json:"total"`
}

// BalanceSheetSection is one of the three balance sheet buckets.
//
// Balances use the asset-sign convention (opening + debits - credits), so
// liability and equity balances come out conventionally negative; callers
// displaying "amount owed" must negate for presentation.
type BalanceSheetSection struct {
	Type   AccountType         `json:"type"`
	Groups []BalanceSheetGroup `json:"groups"`
	Total  decimal.Decimal     `json:"total"`
}

// BalanceSheet is the point-in-time statement of assets, liabilities and equity
type BalanceSheet struct {
	AsOf        time.Time           `json:"as_of"`
	Assets      BalanceSheetSection `json:"assets"`
	Liabilities BalanceSheetSection `json:"liabilities"`
	Equity      BalanceSheetSection `json:"equity"`
}

// ProfitAndLossLine is one account's contribution to the profit and loss
// statement. Amount is reported unsigned; the section it appears in carries
// the meaning.
type ProfitAndLossLine struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// ProfitAndLossGroup is a group of income or expense accounts with a signed
// subtotal. A negative Total means the group moved against its section, e.g.
// an income group whose refunds exceeded its sales.
type ProfitAndLossGroup struct {
	GroupCode string              `json:"group_code"`
	GroupName string              `json:"group_name"`
	Accounts  []ProfitAndLossLine `json:"accounts"`
	Total     decimal.Decimal     `json:"total"`
}

// ProfitAndLoss is the period statement of income and expenses. Totals are
// signed so a loss-making period shows a negative NetProfit.
type ProfitAndLoss struct {
	PeriodStart  time.Time            `json:"period_start"`
	PeriodEnd    time.Time            `json:"period_end"`
	Income       []ProfitAndLossGroup `json:"income"`
	Expenses     []ProfitAndLossGroup `json:"expenses"`
	TotalIncome  decimal.Decimal      `json:"total_income"`
	TotalExpense decimal.Decimal      `json:"total_expense"`
	NetProfit    decimal.Decimal      `json:"net_profit"`
}
