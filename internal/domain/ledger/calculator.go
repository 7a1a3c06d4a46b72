package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// AccountBalance holds the computed totals for one account up to a cutoff
// date. CurrentBalance is DebitTotal minus CreditTotal under the asset-sign
// convention.
type AccountBalance struct {
	DebitTotal     decimal.Decimal `json:"debit_total"`
	CreditTotal    decimal.Decimal `json:"credit_total"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// ComputeAccountBalances computes per-account debit and credit totals over all
// postings dated on or before asOf, folding in the opening balance.
//
// The opening balance fold is asymmetric and must be preserved exactly: a
// positive opening balance is a debit-nature balance and is added to the debit
// total; a negative one is a credit-nature balance and its absolute value is
// added to the credit total.
//
// The result is a pure function of the input: no argument is mutated, every
// account gets an entry (all-zero when it has no activity), and the output
// does not depend on the ordering of postings.
func ComputeAccountBalances(accounts []Account, postings []Posting, asOf time.Time) (map[uuid.UUID]AccountBalance, error) {
	known := make(map[uuid.UUID]struct{}, len(accounts))
	for i := range accounts {
		known[accounts[i].ID] = struct{}{}
	}

	debits := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	credits := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	for i := range postings {
		p := postings[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, ok := known[p.AccountID]; !ok {
			return nil, NewUnknownAccountError(p.ID, p.AccountID)
		}
		if p.Date.After(asOf) {
			continue
		}
		debits[p.AccountID] = debits[p.AccountID].Add(p.Debit)
		credits[p.AccountID] = credits[p.AccountID].Add(p.Credit)
	}

	balances := make(map[uuid.UUID]AccountBalance, len(accounts))
	for i := range accounts {
		a := accounts[i]
		debit := debits[a.ID]
		credit := credits[a.ID]

		switch {
		case a.OpeningBalance.IsPositive():
			debit = debit.Add(a.OpeningBalance)
		case a.OpeningBalance.IsNegative():
			credit = credit.Add(a.OpeningBalance.Abs())
		}

		balances[a.ID] = AccountBalance{
			DebitTotal:     debit,
			CreditTotal:    credit,
			CurrentBalance: debit.Sub(credit),
		}
	}

	return balances, nil
}

// BuildTrialBalance emits one row per account with its debit and credit
// totals, sorted by account code. Totals are reported faithfully: an
// imbalanced input produces an UNBALANCED status, never an adjusted figure.
func BuildTrialBalance(accounts []Account, groups []Group, balances map[uuid.UUID]AccountBalance, asOf time.Time) (*TrialBalance, error) {
	groupsByID := indexGroups(groups)

	rows := make([]TrialBalanceRow, 0, len(accounts))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range accounts {
		a := accounts[i]
		group, ok := groupsByID[a.GroupID]
		if !ok {
			return nil, NewUnknownGroupError(a.Code, a.GroupID)
		}

		balance := balances[a.ID]
		rows = append(rows, TrialBalanceRow{
			AccountCode: a.Code,
			AccountName: a.Name,
			GroupName:   group.Name,
			Debit:       balance.DebitTotal,
			Credit:      balance.CreditTotal,
		})
		totalDebit = totalDebit.Add(balance.DebitTotal)
		totalCredit = totalCredit.Add(balance.CreditTotal)
	}

	slices.SortFunc(rows, func(a, b TrialBalanceRow) int {
		return strings.Compare(a.AccountCode, b.AccountCode)
	})

	status := TrialBalanceStatusBalanced
	if !totalDebit.Equal(totalCredit) {
		status = TrialBalanceStatusUnbalanced
	}

	return &TrialBalance{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		NetBalance:  totalDebit.Sub(totalCredit),
		Status:      status,
	}, nil
}

// BuildBalanceSheet classifies accounts into assets, liabilities and equity by
// walking each account's group chain to the nearest declared account type.
// Income and expense accounts are excluded; they belong to the profit and loss
// statement. Balances keep the asset-sign convention throughout.
func BuildBalanceSheet(accounts []Account, groups []Group, balances map[uuid.UUID]AccountBalance, asOf time.Time) (*BalanceSheet, error) {
	groupsByID := indexGroups(groups)

	sections := map[AccountType]map[uuid.UUID]*BalanceSheetGroup{
		AccountTypeAsset:     {},
		AccountTypeLiability: {},
		AccountTypeEquity:    {},
	}
	for i := range accounts {
		a := accounts[i]
		group, ok := groupsByID[a.GroupID]
		if !ok {
			return nil, NewUnknownGroupError(a.Code, a.GroupID)
		}

		accountType, err := ResolveAccountType(a.GroupID, groupsByID)
		if err != nil {
			return nil, err
		}
		if accountType.IsProfitAndLossType() {
			continue
		}

		bucket := sections[accountType]
		line := bucket[group.ID]
		if line == nil {
			line = &BalanceSheetGroup{
				GroupCode: group.Code,
				GroupName: group.Name,
				Accounts:  make([]BalanceSheetLine, 0, 4),
			}
			bucket[group.ID] = line
		}

		balance := balances[a.ID].CurrentBalance
		line.Accounts = append(line.Accounts, BalanceSheetLine{
			AccountCode: a.Code,
			AccountName: a.Name,
			Balance:     balance,
		})
		line.Total = line.Total.Add(balance)
	}

	sheet := &BalanceSheet{
		AsOf:        asOf,
		Assets:      buildSection(AccountTypeAsset, sections[AccountTypeAsset]),
		Liabilities: buildSection(AccountTypeLiability, sections[AccountTypeLiability]),
		Equity:      buildSection(AccountTypeEquity, sections[AccountTypeEquity]),
	}
	return sheet, nil
}

// BuildProfitAndLoss computes the period statement over postings dated within
// [start, end], both ends inclusive. Only accounts that classify as income or
// expense participate. Income accounts fold credit minus debit and expense
// accounts debit minus credit, so each side is positive in the normal case.
// Section and group totals stay signed: a period where refunds exceed sales
// yields a negative TotalIncome and a negative NetProfit, never an inflated
// one. Only the per-account display Amount drops its sign.
func BuildProfitAndLoss(accounts []Account, groups []Group, postings []Posting, start, end time.Time) (*ProfitAndLoss, error) {
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot precede period start")
	}

	groupsByID := indexGroups(groups)
	known := make(map[uuid.UUID]struct{}, len(accounts))
	for i := range accounts {
		known[accounts[i].ID] = struct{}{}
	}

	debits := make(map[uuid.UUID]decimal.Decimal)
	credits := make(map[uuid.UUID]decimal.Decimal)
	for i := range postings {
		p := postings[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, ok := known[p.AccountID]; !ok {
			return nil, NewUnknownAccountError(p.ID, p.AccountID)
		}
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		debits[p.AccountID] = debits[p.AccountID].Add(p.Debit)
		credits[p.AccountID] = credits[p.AccountID].Add(p.Credit)
	}

	income := map[uuid.UUID]*ProfitAndLossGroup{}
	expenses := map[uuid.UUID]*ProfitAndLossGroup{}
	incomeTotal := decimal.Zero
	expenseTotal := decimal.Zero
	for i := range accounts {
		a := accounts[i]
		group, ok := groupsByID[a.GroupID]
		if !ok {
			return nil, NewUnknownGroupError(a.Code, a.GroupID)
		}

		accountType, err := ResolveAccountType(a.GroupID, groupsByID)
		if err != nil {
			return nil, err
		}
		if !accountType.IsProfitAndLossType() {
			continue
		}

		// Natural-sign fold: income grows on the credit side, expenses on
		// the debit side.
		balance := credits[a.ID].Sub(debits[a.ID])
		bucket := income
		if accountType == AccountTypeExpense {
			balance = debits[a.ID].Sub(credits[a.ID])
			bucket = expenses
		}
		line := bucket[group.ID]
		if line == nil {
			line = &ProfitAndLossGroup{
				GroupCode: group.Code,
				GroupName: group.Name,
				Accounts:  make([]ProfitAndLossLine, 0, 4),
			}
			bucket[group.ID] = line
		}
		line.Accounts = append(line.Accounts, ProfitAndLossLine{
			AccountCode: a.Code,
			AccountName: a.Name,
			Amount:      balance.Abs(),
		})
		line.Total = line.Total.Add(balance)

		if accountType == AccountTypeIncome {
			incomeTotal = incomeTotal.Add(balance)
		} else {
			expenseTotal = expenseTotal.Add(balance)
		}
	}

	report := &ProfitAndLoss{
		PeriodStart:  start,
		PeriodEnd:    end,
		Income:       finalizeProfitAndLossGroups(income),
		Expenses:     finalizeProfitAndLossGroups(expenses),
		TotalIncome:  incomeTotal,
		TotalExpense: expenseTotal,
	}
	report.NetProfit = report.TotalIncome.Sub(report.TotalExpense)
	return report, nil
}

// ResolveAccountType walks a group's parent chain to the nearest group that
// declares an account type. The walk is bounded by the total group count so a
// malformed, cyclic hierarchy fails with a descriptive error instead of
// looping forever.
func ResolveAccountType(groupID uuid.UUID, groupsByID map[uuid.UUID]*Group) (AccountType, error) {
	current, ok := groupsByID[groupID]
	if !ok {
		return "", NewInvalidReferenceError("unknown group " + groupID.String())
	}

	for steps := 0; steps <= len(groupsByID); steps++ {
		if current.AccountType != "" {
			return current.AccountType, nil
		}
		if current.ParentID == nil {
			return "", NewInvalidReferenceError("group chain starting at " + groupID.String() + " declares no account type")
		}
		parent, ok := groupsByID[*current.ParentID]
		if !ok {
			return "", NewInvalidReferenceError("group " + current.ID.String() + " references unknown parent " + current.ParentID.String())
		}
		current = parent
	}

	return "", NewCyclicGroupError(groupID)
}

func indexGroups(groups []Group) map[uuid.UUID]*Group {
	byID := make(map[uuid.UUID]*Group, len(groups))
	for i := range groups {
		byID[groups[i].ID] = &groups[i]
	}
	return byID
}

func buildSection(accountType AccountType, byGroup map[uuid.UUID]*BalanceSheetGroup) BalanceSheetSection {
	section := BalanceSheetSection{
		Type:   accountType,
		Groups: make([]BalanceSheetGroup, 0, len(byGroup)),
	}
	for _, group := range byGroup {
		slices.SortFunc(group.Accounts, func(a, b BalanceSheetLine) int {
			return strings.Compare(a.AccountCode, b.AccountCode)
		})
		section.Groups = append(section.Groups, *group)
		section.Total = section.Total.Add(group.Total)
	}
	slices.SortFunc(section.Groups, func(a, b BalanceSheetGroup) int {
		return strings.Compare(a.GroupCode, b.GroupCode)
	})
	return section
}

func finalizeProfitAndLossGroups(byGroup map[uuid.UUID]*ProfitAndLossGroup) []ProfitAndLossGroup {
	out := make([]ProfitAndLossGroup, 0, len(byGroup))
	for _, group := range byGroup {
		slices.SortFunc(group.Accounts, func(a, b ProfitAndLossLine) int {
			return strings.Compare(a.AccountCode, b.AccountCode)
		})
		out = append(out, *group)
	}
	slices.SortFunc(out, func(a, b ProfitAndLossGroup) int {
		return strings.Compare(a.GroupCode, b.GroupCode)
	})
	return out
}
