package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

type fakeGroupRepo struct {
	groups        map[uuid.UUID]*ledger.Group
	accountCounts map[uuid.UUID]int64
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:        make(map[uuid.UUID]*ledger.Group),
		accountCounts: make(map[uuid.UUID]int64),
	}
}

func (r *fakeGroupRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ledger.Group, error) {
	g, ok := r.groups[id]
	if !ok || g.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGroupRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*ledger.Group, error) {
	for _, g := range r.groups {
		if g.TenantID == tenantID && g.Code == strings.ToUpper(code) {
			copied := *g
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGroupRepo) FindAll(_ context.Context, tenantID uuid.UUID) ([]ledger.Group, error) {
	out := make([]ledger.Group, 0, len(r.groups))
	for _, g := range r.groups {
		if g.TenantID == tenantID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) Save(_ context.Context, group *ledger.Group) error {
	copied := *group
	copied.ClearDomainEvents()
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	g, ok := r.groups[id]
	if !ok || g.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *fakeGroupRepo) CountAccounts(_ context.Context, _, groupID uuid.UUID) (int64, error) {
	return r.accountCounts[groupID], nil
}

func (r *fakeGroupRepo) CountChildren(_ context.Context, tenantID, groupID uuid.UUID) (int64, error) {
	var count int64
	for _, g := range r.groups {
		if g.TenantID == tenantID && g.ParentID != nil && *g.ParentID == groupID {
			count++
		}
	}
	return count, nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*ledger.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*ledger.Account)}
}

func (r *fakeAccountRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAccountRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*ledger.Account, error) {
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.Code == strings.ToUpper(code) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindAll(_ context.Context, tenantID uuid.UUID) ([]ledger.Account, error) {
	out := make([]ledger.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) FindPage(ctx context.Context, tenantID uuid.UUID, status ledger.AccountStatus, _ shared.Filter) ([]ledger.Account, int64, error) {
	all, err := r.FindAll(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}
	if status == "" {
		return all, int64(len(all)), nil
	}
	matched := make([]ledger.Account, 0, len(all))
	for _, a := range all {
		if a.Status == status {
			matched = append(matched, a)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeAccountRepo) Save(_ context.Context, account *ledger.Account) error {
	copied := *account
	copied.ClearDomainEvents()
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeAccountRepo) SaveAll(ctx context.Context, accounts []*ledger.Account) error {
	for _, a := range accounts {
		if err := r.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

type fakePostingRepo struct {
	postings []ledger.Posting
}

func newFakePostingRepo() *fakePostingRepo {
	return &fakePostingRepo{}
}

func (r *fakePostingRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ledger.Posting, error) {
	for i := range r.postings {
		if r.postings[i].ID == id && r.postings[i].TenantID == tenantID {
			copied := r.postings[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePostingRepo) FindAll(_ context.Context, tenantID uuid.UUID) ([]ledger.Posting, error) {
	out := make([]ledger.Posting, 0, len(r.postings))
	for i := range r.postings {
		if r.postings[i].TenantID == tenantID {
			out = append(out, r.postings[i])
		}
	}
	return out, nil
}

func (r *fakePostingRepo) FindByAccount(_ context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]ledger.Posting, error) {
	out := make([]ledger.Posting, 0)
	for i := range r.postings {
		p := r.postings[i]
		if p.TenantID != tenantID || p.AccountID != accountID {
			continue
		}
		if inRange(p.Date, from, to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostingRepo) FindByPeriod(_ context.Context, tenantID uuid.UUID, from, to time.Time) ([]ledger.Posting, error) {
	out := make([]ledger.Posting, 0)
	for i := range r.postings {
		p := r.postings[i]
		if p.TenantID != tenantID {
			continue
		}
		if inRange(p.Date, from, to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostingRepo) CountByAccount(_ context.Context, tenantID, accountID uuid.UUID) (int64, error) {
	var count int64
	for i := range r.postings {
		if r.postings[i].TenantID == tenantID && r.postings[i].AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostingRepo) SaveBatch(_ context.Context, postings []*ledger.Posting) error {
	for _, p := range postings {
		r.postings = append(r.postings, *p)
	}
	return nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func inRange(date, from, to time.Time) bool {
	if !from.IsZero() && date.Before(from) {
		return false
	}
	if !to.IsZero() && date.After(to) {
		return false
	}
	return true
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *fakeEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *fakeEventPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type fakeReportCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	gets        int
	hits        int
	invalidated int
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{entries: make(map[string][]byte)}
}

func (c *fakeReportCache) Get(_ context.Context, tenantID uuid.UUID, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	payload, ok := c.entries[tenantID.String()+"/"+key]
	if ok {
		c.hits++
	}
	return payload, ok, nil
}

func (c *fakeReportCache) Set(_ context.Context, tenantID uuid.UUID, key string, payload []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tenantID.String()+"/"+key] = payload
	return nil
}

func (c *fakeReportCache) InvalidateTenant(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	prefix := tenantID.String() + "/"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}
