package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/ledger"
)

// ReportCache memoizes rendered report payloads per tenant. Caching is an
// optimization only: every entry is invalidated on any ledger write, and a
// miss always falls through to a fresh computation.
type ReportCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, key string, payload []byte, ttl time.Duration) error
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// DefaultReportCacheTTL bounds staleness for cached reports when an
// invalidation is missed (e.g. a write from another process)
const DefaultReportCacheTTL = 5 * time.Minute

// ReportingService runs the balance calculator over repository snapshots and
// maps the results to response payloads. The calculator itself is pure; this
// service owns fetching, caching and the derived current_balance column.
type ReportingService struct {
	groupRepo   ledger.GroupRepository
	accountRepo ledger.AccountRepository
	postingRepo ledger.PostingRepository
	cache       ReportCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewReportingService creates a new ReportingService. The cache may be nil,
// in which case every call recomputes.
func NewReportingService(
	groupRepo ledger.GroupRepository,
	accountRepo ledger.AccountRepository,
	postingRepo ledger.PostingRepository,
	cache ReportCache,
	logger *zap.Logger,
) *ReportingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportingService{
		groupRepo:   groupRepo,
		accountRepo: accountRepo,
		postingRepo: postingRepo,
		cache:       cache,
		cacheTTL:    DefaultReportCacheTTL,
		logger:      logger,
	}
}

// cutoffOrNow pins a zero cutoff to the current time. The calculator compares
// posting dates against the cutoff, so passing the zero time through would
// exclude every posting instead of including them all.
func cutoffOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// GetAccountBalances computes every account's balance as of the given date.
// A zero asOf means no cutoff and includes all postings.
func (s *ReportingService) GetAccountBalances(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]AccountBalanceResponse, error) {
	asOf = cutoffOrNow(asOf)
	accounts, _, postings, err := s.loadSnapshot(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}

	balances, err := ledger.ComputeAccountBalances(accounts, postings, asOf)
	if err != nil {
		return nil, err
	}

	responses := make([]AccountBalanceResponse, 0, len(accounts))
	for i := range accounts {
		a := accounts[i]
		balance := balances[a.ID]
		responses = append(responses, AccountBalanceResponse{
			AccountID:      a.ID,
			AccountCode:    a.Code,
			DebitTotal:     balance.DebitTotal,
			CreditTotal:    balance.CreditTotal,
			CurrentBalance: balance.CurrentBalance,
		})
	}
	return responses, nil
}

// GetTrialBalance builds the trial balance as of the given date. A zero asOf
// means no cutoff and includes all postings.
func (s *ReportingService) GetTrialBalance(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*ledger.TrialBalance, error) {
	asOf = cutoffOrNow(asOf)
	key := fmt.Sprintf("trial-balance:%s", asOf.Format("2006-01-02"))

	var cached ledger.TrialBalance
	if ok := s.fromCache(ctx, tenantID, key, &cached); ok {
		return &cached, nil
	}

	accounts, groups, postings, err := s.loadSnapshot(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}
	balances, err := ledger.ComputeAccountBalances(accounts, postings, asOf)
	if err != nil {
		return nil, err
	}
	report, err := ledger.BuildTrialBalance(accounts, groups, balances, asOf)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, tenantID, key, report)
	return report, nil
}

// GetBalanceSheet builds the balance sheet as of the given date. A zero asOf
// means no cutoff and includes all postings.
func (s *ReportingService) GetBalanceSheet(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*ledger.BalanceSheet, error) {
	asOf = cutoffOrNow(asOf)
	key := fmt.Sprintf("balance-sheet:%s", asOf.Format("2006-01-02"))

	var cached ledger.BalanceSheet
	if ok := s.fromCache(ctx, tenantID, key, &cached); ok {
		return &cached, nil
	}

	accounts, groups, postings, err := s.loadSnapshot(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}
	balances, err := ledger.ComputeAccountBalances(accounts, postings, asOf)
	if err != nil {
		return nil, err
	}
	report, err := ledger.BuildBalanceSheet(accounts, groups, balances, asOf)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, tenantID, key, report)
	return report, nil
}

// GetProfitAndLoss builds the profit and loss statement for a period. A zero
// start means an open beginning; a zero end means no cutoff, pinned to now so
// the calculator's end-of-period comparison keeps every posting in scope.
func (s *ReportingService) GetProfitAndLoss(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*ledger.ProfitAndLoss, error) {
	end = cutoffOrNow(end)
	key := fmt.Sprintf("profit-loss:%s:%s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	var cached ledger.ProfitAndLoss
	if ok := s.fromCache(ctx, tenantID, key, &cached); ok {
		return &cached, nil
	}

	accounts, err := s.accountRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	postings, err := s.postingRepo.FindByPeriod(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	report, err := ledger.BuildProfitAndLoss(accounts, groups, postings, start, end)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, tenantID, key, report)
	return report, nil
}

// RefreshBalanceCache recomputes every account's derived current_balance
// column from the posting history. The stored column is a display cache; the
// calculator remains the single source of truth and this keeps the two from
// diverging.
func (s *ReportingService) RefreshBalanceCache(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int, error) {
	asOf = cutoffOrNow(asOf)
	accounts, _, postings, err := s.loadSnapshot(ctx, tenantID, asOf)
	if err != nil {
		return 0, err
	}

	balances, err := ledger.ComputeAccountBalances(accounts, postings, asOf)
	if err != nil {
		return 0, err
	}

	changed := make([]*ledger.Account, 0)
	for i := range accounts {
		account := accounts[i]
		balance := balances[account.ID]
		if account.CurrentBalance.Equal(balance.CurrentBalance) {
			continue
		}
		account.RefreshBalance(balance.CurrentBalance)
		changed = append(changed, &account)
	}

	if len(changed) > 0 {
		if err := s.accountRepo.SaveAll(ctx, changed); err != nil {
			return 0, err
		}
		s.logger.Info("refreshed derived account balances",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("accounts", len(changed)))
	}

	return len(changed), nil
}

func (s *ReportingService) loadSnapshot(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]ledger.Account, []ledger.Group, []ledger.Posting, error) {
	accounts, err := s.accountRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, nil, nil, err
	}
	groups, err := s.groupRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, nil, nil, err
	}
	postings, err := s.postingRepo.FindByPeriod(ctx, tenantID, time.Time{}, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	return accounts, groups, postings, nil
}

func (s *ReportingService) fromCache(ctx context.Context, tenantID uuid.UUID, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	payload, ok, err := s.cache.Get(ctx, tenantID, key)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		s.logger.Warn("discarding undecodable report cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ReportingService) toCache(ctx context.Context, tenantID uuid.UUID, key string, report any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, tenantID, key, payload, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
