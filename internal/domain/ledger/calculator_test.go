package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/backend/internal/domain/shared"
)

var testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func newTestGroup(t *testing.T, code, name string, accountType AccountType) *Group {
	t.Helper()
	group, err := NewGroup(testTenantID, code, name, accountType)
	require.NoError(t, err)
	return group
}

func newTestChildGroup(t *testing.T, code, name string, accountType AccountType, parent *Group) *Group {
	t.Helper()
	group, err := NewChildGroup(testTenantID, code, name, accountType, parent)
	require.NoError(t, err)
	return group
}

func newTestAccount(t *testing.T, code, name string, groupID uuid.UUID, opening int64) *Account {
	t.Helper()
	account, err := NewAccount(testTenantID, code, name, groupID, decimal.NewFromInt(opening))
	require.NoError(t, err)
	return account
}

func debitOn(t *testing.T, accountID uuid.UUID, date time.Time, amount int64) Posting {
	t.Helper()
	p, err := NewDebitPosting(testTenantID, accountID, date, decimal.NewFromInt(amount), "T-1", "test")
	require.NoError(t, err)
	return *p
}

func creditOn(t *testing.T, accountID uuid.UUID, date time.Time, amount int64) Posting {
	t.Helper()
	p, err := NewCreditPosting(testTenantID, accountID, date, decimal.NewFromInt(amount), "T-1", "test")
	require.NoError(t, err)
	return *p
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeAccountBalances(t *testing.T) {
	asOf := day(2024, time.January, 31)
	assets := newTestGroup(t, "AST", "Assets", AccountTypeAsset)

	t.Run("account with no activity yields all-zero entry", func(t *testing.T) {
		account := newTestAccount(t, "1000", "Cash", assets.ID, 0)

		balances, err := ComputeAccountBalances([]Account{*account}, nil, asOf)
		require.NoError(t, err)

		balance, ok := balances[account.ID]
		require.True(t, ok, "idle account must not be omitted")
		assert.True(t, balance.DebitTotal.IsZero())
		assert.True(t, balance.CreditTotal.IsZero())
		assert.True(t, balance.CurrentBalance.IsZero())
	})

	t.Run("positive opening balance folds into debit total", func(t *testing.T) {
		account := newTestAccount(t, "1000", "Cash", assets.ID, 100)

		balances, err := ComputeAccountBalances([]Account{*account}, nil, asOf)
		require.NoError(t, err)

		balance := balances[account.ID]
		assert.True(t, balance.DebitTotal.Equal(decimal.NewFromInt(100)))
		assert.True(t, balance.CreditTotal.IsZero())
		assert.True(t, balance.CurrentBalance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("negative opening balance folds its absolute value into credit total", func(t *testing.T) {
		account := newTestAccount(t, "2000", "Loan", assets.ID, -50)

		balances, err := ComputeAccountBalances([]Account{*account}, nil, asOf)
		require.NoError(t, err)

		balance := balances[account.ID]
		assert.True(t, balance.DebitTotal.IsZero())
		assert.True(t, balance.CreditTotal.Equal(decimal.NewFromInt(50)))
		assert.True(t, balance.CurrentBalance.Equal(decimal.NewFromInt(-50)))
	})

	t.Run("postings on both sides with opening balance", func(t *testing.T) {
		account := newTestAccount(t, "1000", "Cash", assets.ID, 1000)
		postings := []Posting{
			debitOn(t, account.ID, day(2024, time.January, 5), 200),
			creditOn(t, account.ID, day(2024, time.January, 10), 50),
		}

		balances, err := ComputeAccountBalances([]Account{*account}, postings, asOf)
		require.NoError(t, err)

		balance := balances[account.ID]
		assert.True(t, balance.DebitTotal.Equal(decimal.NewFromInt(1200)), "got %s", balance.DebitTotal)
		assert.True(t, balance.CreditTotal.Equal(decimal.NewFromInt(50)))
		assert.True(t, balance.CurrentBalance.Equal(decimal.NewFromInt(1150)))
	})

	t.Run("postings after the cutoff date are excluded", func(t *testing.T) {
		account := newTestAccount(t, "1000", "Cash", assets.ID, 0)
		postings := []Posting{
			debitOn(t, account.ID, day(2024, time.January, 31), 10),
			debitOn(t, account.ID, day(2024, time.February, 1), 999),
		}

		balances, err := ComputeAccountBalances([]Account{*account}, postings, asOf)
		require.NoError(t, err)
		assert.True(t, balances[account.ID].DebitTotal.Equal(decimal.NewFromInt(10)))
	})

	t.Run("result does not depend on posting order", func(t *testing.T) {
		account := newTestAccount(t, "1000", "Cash", assets.ID, 7)
		a := debitOn(t, account.ID, day(2024, time.January, 2), 30)
		b := creditOn(t, account.ID, day(2024, time.January, 3), 12)
		c := debitOn(t, account.ID, day(2024, time.January, 4), 5)

		forward, err := ComputeAccountBalances([]Account{*account}, []Posting{a, b, c}, asOf)
		require.NoError(t, err)
		reversed, err := ComputeAccountBalances([]Account{*account}, []Posting{c, b, a}, asOf)
		require.NoError(t, err)

		assert.Equal(t, forward[account.ID].CurrentBalance.String(), reversed[account.ID].CurrentBalance.String())
		assert.Equal(t, forward[account.ID].DebitTotal.String(), reversed[account.ID].DebitTotal.String())
		assert.Equal(t, forward[account.ID].CreditTotal.String(), reversed[account.ID].CreditTotal.String())
	})

	t.Run("inputs are not mutated and repeated calls agree", func(t *testing.T) {
		account := newTestAccount(t, "1000", "Cash", assets.ID, 40)
		accounts := []Account{*account}
		postings := []Posting{debitOn(t, account.ID, day(2024, time.January, 5), 3)}

		first, err := ComputeAccountBalances(accounts, postings, asOf)
		require.NoError(t, err)
		second, err := ComputeAccountBalances(accounts, postings, asOf)
		require.NoError(t, err)

		assert.Equal(t, first[account.ID].CurrentBalance.String(), second[account.ID].CurrentBalance.String())
		assert.True(t, accounts[0].OpeningBalance.Equal(decimal.NewFromInt(40)))
		assert.True(t, postings[0].Debit.Equal(decimal.NewFromInt(3)))
	})

	t.Run("posting referencing an unknown account fails fast", func(t *testing.T) {
		account := newTestAccount(t, "1000", "Cash", assets.ID, 0)
		stray := debitOn(t, uuid.New(), day(2024, time.January, 5), 10)

		_, err := ComputeAccountBalances([]Account{*account}, []Posting{stray}, asOf)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrCodeInvalidReference, domainErr.Code)
	})

	t.Run("posting with both sides set is rejected", func(t *testing.T) {
		account := newTestAccount(t, "1000", "Cash", assets.ID, 0)
		bad := debitOn(t, account.ID, day(2024, time.January, 5), 10)
		bad.Credit = decimal.NewFromInt(10)

		_, err := ComputeAccountBalances([]Account{*account}, []Posting{bad}, asOf)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrCodeInconsistentPosting, domainErr.Code)
	})
}

func TestBuildTrialBalance(t *testing.T) {
	asOf := day(2024, time.March, 31)
	assets := newTestGroup(t, "AST", "Assets", AccountTypeAsset)
	income := newTestGroup(t, "INC", "Income", AccountTypeIncome)

	t.Run("balanced double-entry postings produce equal totals", func(t *testing.T) {
		cash := newTestAccount(t, "1000", "Cash", assets.ID, 0)
		sales := newTestAccount(t, "4000", "Sales", income.ID, 0)
		accounts := []Account{*cash, *sales}
		groups := []Group{*assets, *income}
		postings := []Posting{
			debitOn(t, cash.ID, day(2024, time.March, 1), 500),
			creditOn(t, sales.ID, day(2024, time.March, 1), 500),
		}

		balances, err := ComputeAccountBalances(accounts, postings, asOf)
		require.NoError(t, err)

		tb, err := BuildTrialBalance(accounts, groups, balances, asOf)
		require.NoError(t, err)

		assert.Len(t, tb.Rows, 2)
		assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit))
		assert.True(t, tb.NetBalance.IsZero())
		assert.Equal(t, TrialBalanceStatusBalanced, tb.Status)
	})

	t.Run("rows are sorted by account code and keep group names", func(t *testing.T) {
		cash := newTestAccount(t, "1000", "Cash", assets.ID, 0)
		sales := newTestAccount(t, "4000", "Sales", income.ID, 0)

		balances, err := ComputeAccountBalances([]Account{*sales, *cash}, nil, asOf)
		require.NoError(t, err)

		tb, err := BuildTrialBalance([]Account{*sales, *cash}, []Group{*assets, *income}, balances, asOf)
		require.NoError(t, err)

		require.Len(t, tb.Rows, 2)
		assert.Equal(t, "1000", tb.Rows[0].AccountCode)
		assert.Equal(t, "Assets", tb.Rows[0].GroupName)
		assert.Equal(t, "4000", tb.Rows[1].AccountCode)
		assert.Equal(t, "Income", tb.Rows[1].GroupName)
	})

	t.Run("imbalanced input is reported, not corrected", func(t *testing.T) {
		cash := newTestAccount(t, "1000", "Cash", assets.ID, 0)
		accounts := []Account{*cash}
		postings := []Posting{debitOn(t, cash.ID, day(2024, time.March, 1), 123)}

		balances, err := ComputeAccountBalances(accounts, postings, asOf)
		require.NoError(t, err)

		tb, err := BuildTrialBalance(accounts, []Group{*assets}, balances, asOf)
		require.NoError(t, err)
		assert.Equal(t, TrialBalanceStatusUnbalanced, tb.Status)
		assert.True(t, tb.NetBalance.Equal(decimal.NewFromInt(123)))
	})

	t.Run("account referencing an unknown group fails", func(t *testing.T) {
		orphan := newTestAccount(t, "1000", "Cash", uuid.New(), 0)

		_, err := BuildTrialBalance([]Account{*orphan}, []Group{*assets}, map[uuid.UUID]AccountBalance{}, asOf)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrCodeInvalidReference, domainErr.Code)
	})
}

func TestBuildBalanceSheet(t *testing.T) {
	asOf := day(2024, time.June, 30)
	assets := newTestGroup(t, "AST", "Assets", AccountTypeAsset)
	liabilities := newTestGroup(t, "LIA", "Liabilities", AccountTypeLiability)
	equity := newTestGroup(t, "EQT", "Equity", AccountTypeEquity)
	income := newTestGroup(t, "INC", "Income", AccountTypeIncome)

	t.Run("accounts are classified by group type", func(t *testing.T) {
		cash := newTestAccount(t, "1000", "Cash", assets.ID, 900)
		loan := newTestAccount(t, "2000", "Bank Loan", liabilities.ID, -400)
		capital := newTestAccount(t, "3000", "Owner Capital", equity.ID, -500)
		sales := newTestAccount(t, "4000", "Sales", income.ID, 0)
		accounts := []Account{*cash, *loan, *capital, *sales}
		groups := []Group{*assets, *liabilities, *equity, *income}

		balances, err := ComputeAccountBalances(accounts, nil, asOf)
		require.NoError(t, err)

		sheet, err := BuildBalanceSheet(accounts, groups, balances, asOf)
		require.NoError(t, err)

		require.Len(t, sheet.Assets.Groups, 1)
		assert.True(t, sheet.Assets.Total.Equal(decimal.NewFromInt(900)))

		// Liability and equity balances keep the asset-sign convention.
		require.Len(t, sheet.Liabilities.Groups, 1)
		assert.True(t, sheet.Liabilities.Total.Equal(decimal.NewFromInt(-400)))
		require.Len(t, sheet.Equity.Groups, 1)
		assert.True(t, sheet.Equity.Total.Equal(decimal.NewFromInt(-500)))
	})

	t.Run("income and expense accounts are excluded", func(t *testing.T) {
		sales := newTestAccount(t, "4000", "Sales", income.ID, 0)

		balances, err := ComputeAccountBalances([]Account{*sales}, nil, asOf)
		require.NoError(t, err)

		sheet, err := BuildBalanceSheet([]Account{*sales}, []Group{*income}, balances, asOf)
		require.NoError(t, err)
		assert.Empty(t, sheet.Assets.Groups)
		assert.Empty(t, sheet.Liabilities.Groups)
		assert.Empty(t, sheet.Equity.Groups)
	})

	t.Run("nested liability group never lands in the asset bucket", func(t *testing.T) {
		current := newTestChildGroup(t, "LIA-C", "Current Liabilities", "", liabilities)
		payables := newTestChildGroup(t, "LIA-CP", "Trade Payables", "", current)
		supplier := newTestAccount(t, "2100", "Supplier Balances", payables.ID, -250)
		groups := []Group{*assets, *liabilities, *current, *payables}

		balances, err := ComputeAccountBalances([]Account{*supplier}, nil, asOf)
		require.NoError(t, err)

		sheet, err := BuildBalanceSheet([]Account{*supplier}, groups, balances, asOf)
		require.NoError(t, err)

		assert.Empty(t, sheet.Assets.Groups)
		require.Len(t, sheet.Liabilities.Groups, 1)
		assert.Equal(t, "Trade Payables", sheet.Liabilities.Groups[0].GroupName)
		assert.True(t, sheet.Liabilities.Total.Equal(decimal.NewFromInt(-250)))
	})

	t.Run("cyclic group hierarchy fails with a descriptive error", func(t *testing.T) {
		a := newTestChildGroup(t, "X1", "Loop A", "", liabilities)
		b := newTestChildGroup(t, "X2", "Loop B", "", a)
		require.NoError(t, a.Reparent(&b.ID))
		account := newTestAccount(t, "9000", "Orphaned", a.ID, 0)

		_, err := BuildBalanceSheet([]Account{*account}, []Group{*a, *b}, map[uuid.UUID]AccountBalance{}, asOf)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrCodeCyclicGroup, domainErr.Code)
	})
}

func TestBuildProfitAndLoss(t *testing.T) {
	start := day(2024, time.January, 1)
	end := day(2024, time.January, 31)
	income := newTestGroup(t, "INC", "Sales", AccountTypeIncome)
	expense := newTestGroup(t, "EXP", "Operating Expenses", AccountTypeExpense)
	assets := newTestGroup(t, "AST", "Assets", AccountTypeAsset)

	t.Run("income group totals its accounts", func(t *testing.T) {
		retail := newTestAccount(t, "4000", "Retail Sales", income.ID, 0)
		online := newTestAccount(t, "4100", "Online Sales", income.ID, 0)
		accounts := []Account{*retail, *online}
		groups := []Group{*income}
		postings := []Posting{
			creditOn(t, retail.ID, day(2024, time.January, 10), 300),
			creditOn(t, online.ID, day(2024, time.January, 20), 700),
		}

		pl, err := BuildProfitAndLoss(accounts, groups, postings, start, end)
		require.NoError(t, err)

		require.Len(t, pl.Income, 1)
		assert.Equal(t, "Sales", pl.Income[0].GroupName)
		assert.True(t, pl.Income[0].Total.Equal(decimal.NewFromInt(1000)))
		assert.True(t, pl.TotalIncome.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("net profit is income minus expense", func(t *testing.T) {
		sales := newTestAccount(t, "4000", "Sales", income.ID, 0)
		rent := newTestAccount(t, "5000", "Rent", expense.ID, 0)
		accounts := []Account{*sales, *rent}
		groups := []Group{*income, *expense}
		postings := []Posting{
			creditOn(t, sales.ID, day(2024, time.January, 5), 800),
			debitOn(t, rent.ID, day(2024, time.January, 6), 300),
		}

		pl, err := BuildProfitAndLoss(accounts, groups, postings, start, end)
		require.NoError(t, err)

		assert.True(t, pl.TotalIncome.Equal(decimal.NewFromInt(800)))
		assert.True(t, pl.TotalExpense.Equal(decimal.NewFromInt(300)))
		assert.True(t, pl.NetProfit.Equal(decimal.NewFromInt(500)))
	})

	t.Run("net-negative income stays signed and drags net profit negative", func(t *testing.T) {
		sales := newTestAccount(t, "4000", "Sales", income.ID, 0)
		rent := newTestAccount(t, "5000", "Rent", expense.ID, 0)
		accounts := []Account{*sales, *rent}
		groups := []Group{*income, *expense}
		postings := []Posting{
			creditOn(t, sales.ID, day(2024, time.January, 5), 100),
			// Refunds for the period exceed sales.
			debitOn(t, sales.ID, day(2024, time.January, 12), 400),
			debitOn(t, rent.ID, day(2024, time.January, 6), 50),
		}

		pl, err := BuildProfitAndLoss(accounts, groups, postings, start, end)
		require.NoError(t, err)

		assert.True(t, pl.TotalIncome.Equal(decimal.NewFromInt(-300)), "got %s", pl.TotalIncome)
		require.Len(t, pl.Income, 1)
		assert.True(t, pl.Income[0].Total.Equal(decimal.NewFromInt(-300)))
		assert.True(t, pl.NetProfit.Equal(decimal.NewFromInt(-350)), "got %s", pl.NetProfit)
	})

	t.Run("boundary dates are inclusive and outside dates are excluded", func(t *testing.T) {
		sales := newTestAccount(t, "4000", "Sales", income.ID, 0)
		accounts := []Account{*sales}
		groups := []Group{*income}
		postings := []Posting{
			creditOn(t, sales.ID, start, 100),
			creditOn(t, sales.ID, end, 200),
			creditOn(t, sales.ID, day(2023, time.December, 31), 999),
			creditOn(t, sales.ID, day(2024, time.February, 1), 999),
		}

		pl, err := BuildProfitAndLoss(accounts, groups, postings, start, end)
		require.NoError(t, err)
		assert.True(t, pl.TotalIncome.Equal(decimal.NewFromInt(300)), "got %s", pl.TotalIncome)
	})

	t.Run("balance sheet accounts do not participate", func(t *testing.T) {
		cash := newTestAccount(t, "1000", "Cash", assets.ID, 0)
		sales := newTestAccount(t, "4000", "Sales", income.ID, 0)
		accounts := []Account{*cash, *sales}
		groups := []Group{*assets, *income}
		postings := []Posting{
			debitOn(t, cash.ID, day(2024, time.January, 5), 400),
			creditOn(t, sales.ID, day(2024, time.January, 5), 400),
		}

		pl, err := BuildProfitAndLoss(accounts, groups, postings, start, end)
		require.NoError(t, err)
		require.Len(t, pl.Income, 1)
		assert.Empty(t, pl.Expenses)
		assert.True(t, pl.TotalIncome.Equal(decimal.NewFromInt(400)))
	})

	t.Run("inverted period is rejected", func(t *testing.T) {
		_, err := BuildProfitAndLoss(nil, nil, nil, end, start)
		require.Error(t, err)
	})
}

func TestResolveAccountType(t *testing.T) {
	root := newTestGroup(t, "AST", "Assets", AccountTypeAsset)
	child := newTestChildGroup(t, "AST-C", "Current Assets", "", root)
	grandchild := newTestChildGroup(t, "AST-CB", "Bank", "", child)

	t.Run("walks to the nearest declared type", func(t *testing.T) {
		byID := indexGroups([]Group{*root, *child, *grandchild})
		accountType, err := ResolveAccountType(grandchild.ID, byID)
		require.NoError(t, err)
		assert.Equal(t, AccountTypeAsset, accountType)
	})

	t.Run("child declaration overrides the ancestor", func(t *testing.T) {
		mixed := newTestChildGroup(t, "AST-X", "Clearing", AccountTypeLiability, root)
		byID := indexGroups([]Group{*root, *mixed})
		accountType, err := ResolveAccountType(mixed.ID, byID)
		require.NoError(t, err)
		assert.Equal(t, AccountTypeLiability, accountType)
	})

	t.Run("missing parent is an invalid reference", func(t *testing.T) {
		byID := indexGroups([]Group{*grandchild})
		_, err := ResolveAccountType(grandchild.ID, byID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrCodeInvalidReference, domainErr.Code)
	})
}
