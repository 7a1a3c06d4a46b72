package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// JournalService records balanced journal entries as immutable postings.
// Postings are the source of truth for every balance in the system; there is
// no edit or delete path by design.
type JournalService struct {
	accountRepo ledger.AccountRepository
	postingRepo ledger.PostingRepository
	cache       ReportCache
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewJournalService creates a new JournalService
func NewJournalService(
	accountRepo ledger.AccountRepository,
	postingRepo ledger.PostingRepository,
	cache ReportCache,
	logger *zap.Logger,
) *JournalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalService{
		accountRepo: accountRepo,
		postingRepo: postingRepo,
		cache:       cache,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher that receives a PostingsRecorded
// event after each successful entry
func (s *JournalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// RecordEntry validates and records a balanced journal entry. Every line must
// carry exactly one of debit or credit, every account must exist, and total
// debits must equal total credits; otherwise nothing is written.
func (s *JournalService) RecordEntry(ctx context.Context, tenantID uuid.UUID, req RecordJournalEntryRequest) (*JournalEntryResponse, error) {
	// An empty entry trivially balances (0 == 0); the minimum is enforced
	// here so the rule holds for every caller, not only the HTTP binding.
	if len(req.Lines) < 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Journal entry requires at least two lines")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	postings := make([]*ledger.Posting, 0, len(req.Lines))
	for _, line := range req.Lines {
		if _, err := s.accountRepo.FindByID(ctx, tenantID, line.AccountID); err != nil {
			return nil, ledger.NewInvalidReferenceError("journal line references unknown account " + line.AccountID.String())
		}

		var (
			posting *ledger.Posting
			err     error
		)
		switch {
		case !line.Debit.IsZero() && line.Credit.IsZero():
			posting, err = ledger.NewDebitPosting(tenantID, line.AccountID, req.Date, line.Debit, req.Reference, req.SourceType)
		case line.Debit.IsZero() && !line.Credit.IsZero():
			posting, err = ledger.NewCreditPosting(tenantID, line.AccountID, req.Date, line.Credit, req.Reference, req.SourceType)
		default:
			return nil, ledger.NewInconsistentPostingError(uuid.Nil, "journal line must have exactly one of debit or credit")
		}
		if err != nil {
			return nil, err
		}

		totalDebit = totalDebit.Add(posting.Debit)
		totalCredit = totalCredit.Add(posting.Credit)
		postings = append(postings, posting)
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, ledger.NewUnbalancedEntryError(totalDebit.String(), totalCredit.String())
	}

	if err := s.postingRepo.SaveBatch(ctx, postings); err != nil {
		return nil, err
	}

	if s.events != nil {
		saved := make([]ledger.Posting, 0, len(postings))
		for _, p := range postings {
			saved = append(saved, *p)
		}
		_ = s.events.Publish(ctx, ledger.NewPostingsRecordedEvent(tenantID, req.Reference, saved))
	}

	if s.cache != nil {
		if err := s.cache.InvalidateTenant(ctx, tenantID); err != nil {
			s.logger.Warn("failed to invalidate report cache after journal entry",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("journal entry recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("reference", req.Reference),
		zap.Int("postings", len(postings)),
		zap.String("total", totalDebit.String()))

	postingIDs := make([]uuid.UUID, 0, len(postings))
	for _, p := range postings {
		postingIDs = append(postingIDs, p.ID)
	}

	return &JournalEntryResponse{
		Reference:    req.Reference,
		Date:         req.Date,
		PostingCount: len(postings),
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
		PostingIDs:   postingIDs,
	}, nil
}

// ListAccountPostings returns an account's postings within a period
func (s *JournalService) ListAccountPostings(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]PostingResponse, error) {
	if _, err := s.accountRepo.FindByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}

	postings, err := s.postingRepo.FindByAccount(ctx, tenantID, accountID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]PostingResponse, 0, len(postings))
	for i := range postings {
		responses = append(responses, *ToPostingResponse(&postings[i]))
	}
	return responses, nil
}
