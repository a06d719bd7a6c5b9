package loans

import (
	"context"
	"log/slog"
	"sync"

	"github.com/loan-compass/loan_compass/internal/api"
	"github.com/loan-compass/loan_compass/internal/session"
	"github.com/loan-compass/loan_compass/internal/storage"
)

const (
	msgRefreshFailed = "Failed to load loans"
	msgRequestFailed = "Failed to request loan"
	msgRepayFailed   = "Failed to repay loan"
)

// Snapshot is the immutable view published to subscribers. Err carries the
// last refresh failure and is empty once a refresh succeeds; the list always
// holds the last-known-good data, never blanked by a failure.
type Snapshot struct {
	Loans   []Loan
	Loading bool
	Err     string
}

// Cache is the single owner of the published loan list. The list is replaced
// wholesale on every successful refresh; there is no merging or patching.
// Overlapping refreshes resolve last-writer-wins, which is acceptable for a
// single-user client.
type Cache struct {
	store    storage.Store
	api      api.API
	loggedIn func() bool
	logger   *slog.Logger

	mu      sync.Mutex
	loans   []Loan
	loading bool
	err     string
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewCache builds a loan cache gated on the given session predicate.
func NewCache(store storage.Store, client api.API, loggedIn func() bool, logger *slog.Logger) *Cache {
	return &Cache{
		store:    store,
		api:      client,
		loggedIn: loggedIn,
		logger:   logger,
		subs:     make(map[int]func(Snapshot)),
	}
}

// Watch wires the cache to session transitions: cache-first load plus an
// authoritative refresh on login, a full reset on logout. Returns the
// unsubscribe func.
func (c *Cache) Watch(sess *session.Manager) func() {
	return sess.Subscribe(func(s session.Snapshot) {
		ctx := context.Background()
		switch s.State {
		case session.StateAuthenticated:
			c.LoadCached(ctx)
			c.Refresh(ctx)
		case session.StateAnonymous:
			c.Reset(ctx)
		}
	})
}

// Subscribe registers fn for every published snapshot and returns an
// unsubscribe func.
func (c *Cache) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Loans returns a copy of the published list.
func (c *Cache) Loans() []Loan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Loan(nil), c.loans...)
}

// Err returns the last refresh failure message, empty when healthy.
func (c *Cache) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// LoadCached publishes the persisted list immediately so the user sees
// possibly-stale data while the authoritative refresh is in flight. Cached
// entries were normalized before they were persisted.
func (c *Cache) LoadCached(ctx context.Context) {
	if !c.loggedIn() {
		return
	}
	var cached []Loan
	if !c.store.Get(ctx, storage.KeyLoans, &cached) {
		return
	}
	c.mu.Lock()
	c.loans = cached
	c.mu.Unlock()
	c.publish()
}

// Refresh replaces the published list from the service. A failure, transport
// or business, sets the error state and leaves the last-known list visible.
// No-op when the session is not authenticated.
func (c *Cache) Refresh(ctx context.Context) {
	if !c.loggedIn() {
		return
	}

	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()
	c.publish()

	res, records, err := c.api.GetLoanHistory(ctx)
	if err != nil || !res.Success {
		if err != nil {
			c.logger.Error("loan refresh failed", "error", err)
		} else {
			c.logger.Warn("loan refresh rejected", "message", res.Message)
		}
		c.mu.Lock()
		c.loading = false
		c.err = msgRefreshFailed
		c.mu.Unlock()
		c.publish()
		return
	}

	normalized := make([]Loan, 0, len(records))
	for _, rec := range records {
		loan, ok := fromRecord(rec)
		if !ok {
			c.logger.Warn("unrecognized loan status, defaulting to pending", "loan_id", rec.ID, "status", rec.Status)
		}
		normalized = append(normalized, loan)
	}

	c.mu.Lock()
	c.loans = normalized
	c.loading = false
	c.err = ""
	c.mu.Unlock()
	c.publish()

	c.store.Set(ctx, storage.KeyLoans, normalized)
}

// RequestLoan submits a loan request. Preconditions (amount, purpose length)
// are the presentation layer's job via ValidateRequest; this passes through
// whatever the service reports. A successful mutation triggers exactly one
// refresh before returning, so the caller observes the updated list.
func (c *Cache) RequestLoan(ctx context.Context, amount int64, purpose string) api.Result {
	res, _, err := c.api.RequestLoan(ctx, amount, purpose)
	if err != nil {
		c.logger.Error("loan request failed", "error", err)
		return api.Result{Success: false, Message: msgRequestFailed}
	}
	if res.Success {
		c.Refresh(ctx)
	}
	return res
}

// RepayLoan marks a loan repaid, with the same contract shape as RequestLoan.
func (c *Cache) RepayLoan(ctx context.Context, loanID string) api.Result {
	res, _, err := c.api.RepayLoan(ctx, loanID)
	if err != nil {
		c.logger.Error("loan repayment failed", "error", err)
		return api.Result{Success: false, Message: msgRepayFailed}
	}
	if res.Success {
		c.Refresh(ctx)
	}
	return res
}

// Reset blanks the published list and removes the persisted copy. Runs on
// logout so the next account on this device never sees the previous user's
// cached loans.
func (c *Cache) Reset(ctx context.Context) {
	c.mu.Lock()
	c.loans = nil
	c.loading = false
	c.err = ""
	c.mu.Unlock()
	c.publish()

	c.store.Remove(ctx, storage.KeyLoans)
}

func (c *Cache) publish() {
	c.mu.Lock()
	snap := Snapshot{
		Loans:   append([]Loan(nil), c.loans...),
		Loading: c.loading,
		Err:     c.err,
	}
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
