package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/ledger"
)

type reportingFixture struct {
	reporting *ReportingService
	journal   *JournalService
	accounts  *fakeAccountRepo
	cache     *fakeReportCache
	tenantID  uuid.UUID
	cashID    uuid.UUID
	salesID   uuid.UUID
}

// newReportingFixture seeds a minimal chart: an asset group holding Cash
// (opening 1000) and an income group holding Sales.
func newReportingFixture(t *testing.T) *reportingFixture {
	t.Helper()
	ctx := context.Background()
	tenantID := uuid.New()

	groupRepo := newFakeGroupRepo()
	accountRepo := newFakeAccountRepo()
	postingRepo := newFakePostingRepo()
	cache := newFakeReportCache()

	assets, err := ledger.NewGroup(tenantID, "AST", "Assets", ledger.AccountTypeAsset)
	require.NoError(t, err)
	income, err := ledger.NewGroup(tenantID, "INC", "Income", ledger.AccountTypeIncome)
	require.NoError(t, err)
	require.NoError(t, groupRepo.Save(ctx, assets))
	require.NoError(t, groupRepo.Save(ctx, income))

	cash, err := ledger.NewAccount(tenantID, "CASH", "Cash", assets.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	sales, err := ledger.NewAccount(tenantID, "SALES", "Sales", income.ID, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, accountRepo.Save(ctx, cash))
	require.NoError(t, accountRepo.Save(ctx, sales))

	return &reportingFixture{
		reporting: NewReportingService(groupRepo, accountRepo, postingRepo, cache, zap.NewNop()),
		journal:   NewJournalService(accountRepo, postingRepo, cache, zap.NewNop()),
		accounts:  accountRepo,
		cache:     cache,
		tenantID:  tenantID,
		cashID:    cash.ID,
		salesID:   sales.ID,
	}
}

func (fx *reportingFixture) record(t *testing.T, d int, amount int64) {
	t.Helper()
	_, err := fx.journal.RecordEntry(context.Background(), fx.tenantID, RecordJournalEntryRequest{
		Date:      day(2024, 6, d),
		Reference: "SALE",
		Lines: []JournalLineRequest{
			{AccountID: fx.cashID, Debit: decimal.NewFromInt(amount)},
			{AccountID: fx.salesID, Credit: decimal.NewFromInt(amount)},
		},
	})
	require.NoError(t, err)
}

func TestReportingServiceAccountBalances(t *testing.T) {
	ctx := context.Background()
	fx := newReportingFixture(t)
	fx.record(t, 10, 300)

	balances, err := fx.reporting.GetAccountBalances(ctx, fx.tenantID, day(2024, 6, 30))
	require.NoError(t, err)
	require.Len(t, balances, 2)

	byCode := make(map[string]AccountBalanceResponse, len(balances))
	for _, b := range balances {
		byCode[b.AccountCode] = b
	}
	assert.True(t, byCode["CASH"].CurrentBalance.Equal(decimal.NewFromInt(1300)))
	assert.True(t, byCode["SALES"].CurrentBalance.Equal(decimal.NewFromInt(-300)))
}

func TestReportingServiceTrialBalanceCaching(t *testing.T) {
	ctx := context.Background()
	asOf := day(2024, 6, 30)

	t.Run("second read is served from cache", func(t *testing.T) {
		fx := newReportingFixture(t)
		fx.record(t, 10, 300)

		first, err := fx.reporting.GetTrialBalance(ctx, fx.tenantID, asOf)
		require.NoError(t, err)
		assert.Equal(t, ledger.TrialBalanceStatusBalanced, first.Status)

		second, err := fx.reporting.GetTrialBalance(ctx, fx.tenantID, asOf)
		require.NoError(t, err)
		assert.Equal(t, 1, fx.cache.hits)
		assert.True(t, second.TotalDebit.Equal(first.TotalDebit))
		assert.Len(t, second.Rows, len(first.Rows))
	})

	t.Run("journal write invalidates and the next read recomputes", func(t *testing.T) {
		fx := newReportingFixture(t)
		fx.record(t, 10, 300)

		stale, err := fx.reporting.GetTrialBalance(ctx, fx.tenantID, asOf)
		require.NoError(t, err)

		fx.record(t, 20, 200)

		fresh, err := fx.reporting.GetTrialBalance(ctx, fx.tenantID, asOf)
		require.NoError(t, err)
		assert.True(t, fresh.TotalDebit.Equal(stale.TotalDebit.Add(decimal.NewFromInt(200))))
	})

	t.Run("nil cache recomputes every time", func(t *testing.T) {
		fx := newReportingFixture(t)
		svc := NewReportingService(
			fx.reporting.groupRepo,
			fx.reporting.accountRepo,
			fx.reporting.postingRepo,
			nil,
			zap.NewNop(),
		)
		fx.record(t, 10, 300)

		report, err := svc.GetTrialBalance(ctx, fx.tenantID, asOf)
		require.NoError(t, err)
		assert.Equal(t, ledger.TrialBalanceStatusBalanced, report.Status)
	})
}

// Omitting the cutoff must mean "all postings", not "opening balances only":
// the calculator compares posting dates against the cutoff, so a zero time
// passed straight through would drop every posting.
func TestReportingServiceZeroDatesIncludeAllPostings(t *testing.T) {
	ctx := context.Background()

	t.Run("trial balance without a cutoff counts recorded postings", func(t *testing.T) {
		fx := newReportingFixture(t)
		fx.record(t, 10, 300)

		report, err := fx.reporting.GetTrialBalance(ctx, fx.tenantID, time.Time{})
		require.NoError(t, err)
		// Opening 1000 on Cash plus the 300 posting.
		assert.True(t, report.TotalDebit.Equal(decimal.NewFromInt(1300)), "got %s", report.TotalDebit)
		assert.Equal(t, ledger.TrialBalanceStatusBalanced, report.Status)
	})

	t.Run("profit and loss without a period counts all income", func(t *testing.T) {
		fx := newReportingFixture(t)
		fx.record(t, 10, 300)

		report, err := fx.reporting.GetProfitAndLoss(ctx, fx.tenantID, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.True(t, report.TotalIncome.Equal(decimal.NewFromInt(300)), "got %s", report.TotalIncome)
		assert.True(t, report.NetProfit.Equal(decimal.NewFromInt(300)))
	})

	t.Run("account balances without a cutoff fold every posting", func(t *testing.T) {
		fx := newReportingFixture(t)
		fx.record(t, 10, 300)

		balances, err := fx.reporting.GetAccountBalances(ctx, fx.tenantID, time.Time{})
		require.NoError(t, err)
		byCode := make(map[string]AccountBalanceResponse, len(balances))
		for _, b := range balances {
			byCode[b.AccountCode] = b
		}
		assert.True(t, byCode["CASH"].CurrentBalance.Equal(decimal.NewFromInt(1300)))
	})
}

func TestReportingServiceBalanceSheet(t *testing.T) {
	ctx := context.Background()
	fx := newReportingFixture(t)
	fx.record(t, 10, 300)

	report, err := fx.reporting.GetBalanceSheet(ctx, fx.tenantID, day(2024, 6, 30))
	require.NoError(t, err)

	// Only the asset side of the chart is a balance sheet section here; the
	// sales account belongs to the profit and loss statement.
	require.Len(t, report.Assets.Groups, 1)
	require.Len(t, report.Assets.Groups[0].Accounts, 1)
	assert.Equal(t, "CASH", report.Assets.Groups[0].Accounts[0].AccountCode)
	assert.True(t, report.Assets.Total.Equal(decimal.NewFromInt(1300)))
	assert.Empty(t, report.Liabilities.Groups)
}

func TestReportingServiceProfitAndLoss(t *testing.T) {
	ctx := context.Background()
	fx := newReportingFixture(t)
	fx.record(t, 10, 300)
	fx.record(t, 20, 200)

	t.Run("full period", func(t *testing.T) {
		report, err := fx.reporting.GetProfitAndLoss(ctx, fx.tenantID, day(2024, 6, 1), day(2024, 6, 30))
		require.NoError(t, err)
		assert.True(t, report.TotalIncome.Equal(decimal.NewFromInt(500)))
		assert.True(t, report.TotalExpense.IsZero())
		assert.True(t, report.NetProfit.Equal(decimal.NewFromInt(500)))
	})

	t.Run("period excludes postings outside it", func(t *testing.T) {
		report, err := fx.reporting.GetProfitAndLoss(ctx, fx.tenantID, day(2024, 6, 15), day(2024, 6, 30))
		require.NoError(t, err)
		assert.True(t, report.TotalIncome.Equal(decimal.NewFromInt(200)))
	})

	t.Run("inverted period fails", func(t *testing.T) {
		_, err := fx.reporting.GetProfitAndLoss(ctx, fx.tenantID, day(2024, 6, 30), day(2024, 6, 1))
		assert.Error(t, err)
	})
}

func TestReportingServiceRefreshBalanceCache(t *testing.T) {
	ctx := context.Background()
	fx := newReportingFixture(t)
	fx.record(t, 10, 300)

	t.Run("persists recomputed balances", func(t *testing.T) {
		changed, err := fx.reporting.RefreshBalanceCache(ctx, fx.tenantID, day(2024, 6, 30))
		require.NoError(t, err)
		assert.Equal(t, 2, changed)

		cash, err := fx.accounts.FindByID(ctx, fx.tenantID, fx.cashID)
		require.NoError(t, err)
		assert.True(t, cash.CurrentBalance.Equal(decimal.NewFromInt(1300)))

		sales, err := fx.accounts.FindByID(ctx, fx.tenantID, fx.salesID)
		require.NoError(t, err)
		assert.True(t, sales.CurrentBalance.Equal(decimal.NewFromInt(-300)))
	})

	t.Run("second refresh touches nothing", func(t *testing.T) {
		changed, err := fx.reporting.RefreshBalanceCache(ctx, fx.tenantID, day(2024, 6, 30))
		require.NoError(t, err)
		assert.Zero(t, changed)
	})
}
