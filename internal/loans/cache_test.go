package loans

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/loan-compass/loan_compass/internal/api"
	"github.com/loan-compass/loan_compass/internal/logging"
	"github.com/loan-compass/loan_compass/internal/session"
	"github.com/loan-compass/loan_compass/internal/storage"
)

type fakeLoanAPI struct {
	mu sync.Mutex

	historyCalls   int
	historyResult  api.Result
	historyRecords []api.LoanRecord
	historyErr     error

	requestResult api.Result
	requestErr    error
	repayResult   api.Result
	repayErr      error
}

func newFakeLoanAPI() *fakeLoanAPI {
	return &fakeLoanAPI{
		historyResult: api.Result{Success: true},
		requestResult: api.Result{Success: true, Message: "Loan request submitted successfully"},
		repayResult:   api.Result{Success: true, Message: "Loan repaid successfully"},
	}
}

func (f *fakeLoanAPI) HistoryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.historyCalls
}

func (f *fakeLoanAPI) Login(context.Context, string) (api.Result, error) {
	return api.Result{Success: true}, nil
}

func (f *fakeLoanAPI) VerifyOtp(context.Context, string, string) (api.Result, *api.Session, error) {
	return api.Result{Success: true}, &api.Session{
		Token: "issued-token",
		User:  api.Identity{ID: "123456", Name: "Demo User", TrustScore: 750, AvailableLoanAmount: 5000},
	}, nil
}

func (f *fakeLoanAPI) Logout(context.Context) (api.Result, error) {
	return api.Result{Success: true}, nil
}

func (f *fakeLoanAPI) GetProfile(context.Context) (api.Result, *api.Profile, error) {
	return api.Result{Success: true}, &api.Profile{}, nil
}

func (f *fakeLoanAPI) GetLoanHistory(context.Context) (api.Result, []api.LoanRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	return f.historyResult, f.historyRecords, f.historyErr
}

func (f *fakeLoanAPI) RequestLoan(context.Context, int64, string) (api.Result, *api.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requestResult, nil, f.requestErr
}

func (f *fakeLoanAPI) RepayLoan(context.Context, string) (api.Result, *api.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.repayResult, nil, f.repayErr
}

func loggedIn() bool  { return true }
func loggedOut() bool { return false }

func TestRefreshNoOpWhenLoggedOut(t *testing.T) {
	f := newFakeLoanAPI()
	c := NewCache(storage.NewMemory(logging.Discard()), f, loggedOut, logging.Discard())

	c.Refresh(context.Background())

	if f.HistoryCalls() != 0 {
		t.Fatalf("expected no history fetch while logged out, got %d", f.HistoryCalls())
	}
	if c.Err() != "" {
		t.Fatalf("expected no error state, got %q", c.Err())
	}
}

func TestRefreshNormalizesReplacesAndPersists(t *testing.T) {
	ctx := context.Background()
	f := newFakeLoanAPI()
	f.historyRecords = []api.LoanRecord{
		{ID: "1001", Amount: 2000, Purpose: "Medical Emergency", Status: "repaid", CreatedAt: "2023-01-15T10:30:00Z"},
		{ID: "1002", Amount: 3000, Purpose: "Education Fees", Status: "ACTIVE", CreatedAt: "2023-03-10T08:15:00Z"},
		{ID: "1003", Amount: 1500, Purpose: "Business Supply", Status: "weird", CreatedAt: "2023-02-20T16:45:00Z"},
	}
	store := storage.NewMemory(logging.Discard())
	c := NewCache(store, f, loggedIn, logging.Discard())

	c.Refresh(ctx)

	got := c.Loans()
	if len(got) != 3 {
		t.Fatalf("expected full replacement with 3 loans, got %d", len(got))
	}
	if got[0].Status != StatusRepaid || got[1].Status != StatusActive {
		t.Fatalf("expected normalized statuses, got %v %v", got[0].Status, got[1].Status)
	}
	if got[2].Status != StatusPending {
		t.Fatalf("expected unknown status defaulted to Pending, got %v", got[2].Status)
	}

	var persisted []Loan
	if !store.Get(ctx, storage.KeyLoans, &persisted) || len(persisted) != 3 {
		t.Fatalf("expected normalized list persisted, got %v", persisted)
	}
	if persisted[1].Status != StatusActive {
		t.Fatalf("expected persisted list normalized, got %v", persisted[1].Status)
	}
}

func TestRefreshFailureKeepsLastKnownList(t *testing.T) {
	ctx := context.Background()
	f := newFakeLoanAPI()
	f.historyRecords = []api.LoanRecord{
		{ID: "1001", Amount: 2000, Purpose: "Medical Emergency", Status: "Active", CreatedAt: "2023-01-15T10:30:00Z"},
	}
	c := NewCache(storage.NewMemory(logging.Discard()), f, loggedIn, logging.Discard())

	c.Refresh(ctx)
	if len(c.Loans()) != 1 {
		t.Fatalf("expected seeded list")
	}

	f.mu.Lock()
	f.historyErr = errors.New("network unreachable")
	f.mu.Unlock()

	c.Refresh(ctx)

	if len(c.Loans()) != 1 {
		t.Fatalf("failed refresh must not blank the list, got %d loans", len(c.Loans()))
	}
	if c.Err() == "" {
		t.Fatalf("expected error state after failed refresh")
	}

	// A later successful refresh clears the error state.
	f.mu.Lock()
	f.historyErr = nil
	f.mu.Unlock()
	c.Refresh(ctx)
	if c.Err() != "" {
		t.Fatalf("expected error cleared, got %q", c.Err())
	}
}

func TestLoadCachedPublishesStaleListImmediately(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory(logging.Discard())
	store.Set(ctx, storage.KeyLoans, []Loan{{ID: "1001", Amount: 2000, Status: StatusActive}})
	f := newFakeLoanAPI()
	c := NewCache(store, f, loggedIn, logging.Discard())

	c.LoadCached(ctx)

	if got := c.Loans(); len(got) != 1 || got[0].ID != "1001" {
		t.Fatalf("expected cached list published, got %v", got)
	}
	if f.HistoryCalls() != 0 {
		t.Fatalf("LoadCached must not hit the network")
	}
}

func TestRequestLoanTriggersExactlyOneRefreshBeforeReturn(t *testing.T) {
	f := newFakeLoanAPI()
	c := NewCache(storage.NewMemory(logging.Discard()), f, loggedIn, logging.Discard())

	res := c.RequestLoan(context.Background(), 1000, "Medical Emergency")

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if f.HistoryCalls() != 1 {
		t.Fatalf("expected exactly one refresh after mutation, got %d", f.HistoryCalls())
	}
}

func TestRequestLoanRejectionSkipsRefresh(t *testing.T) {
	f := newFakeLoanAPI()
	f.requestResult = api.Result{Success: false, Message: "Insufficient trust score"}
	c := NewCache(storage.NewMemory(logging.Discard()), f, loggedIn, logging.Discard())

	res := c.RequestLoan(context.Background(), 1000, "Medical Emergency")

	if res.Success || res.Message != "Insufficient trust score" {
		t.Fatalf("expected verbatim rejection, got %+v", res)
	}
	if f.HistoryCalls() != 0 {
		t.Fatalf("rejected mutation must not refresh, got %d", f.HistoryCalls())
	}
}

func TestRequestLoanTransportFailureIsAbsorbed(t *testing.T) {
	f := newFakeLoanAPI()
	f.requestErr = errors.New("connection reset")
	c := NewCache(storage.NewMemory(logging.Discard()), f, loggedIn, logging.Discard())

	res := c.RequestLoan(context.Background(), 1000, "Medical Emergency")

	if res.Success || res.Message == "" {
		t.Fatalf("expected generic failure, got %+v", res)
	}
}

func TestRepayLoanTriggersRefresh(t *testing.T) {
	f := newFakeLoanAPI()
	c := NewCache(storage.NewMemory(logging.Discard()), f, loggedIn, logging.Discard())

	res := c.RepayLoan(context.Background(), "1002")

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if f.HistoryCalls() != 1 {
		t.Fatalf("expected exactly one refresh after repayment, got %d", f.HistoryCalls())
	}
}

// bearerCheckingAPI rejects the history fetch unless the credential is
// already readable from the store, the way the HTTP client reads the bearer
// fresh from persistence on every call.
type bearerCheckingAPI struct {
	*fakeLoanAPI
	store storage.Store
}

func (f *bearerCheckingAPI) GetLoanHistory(ctx context.Context) (api.Result, []api.LoanRecord, error) {
	var token string
	if !f.store.Get(ctx, storage.KeyToken, &token) || token == "" {
		return api.Result{Success: false, Message: "Authorization required"}, nil, nil
	}
	return f.fakeLoanAPI.GetLoanHistory(ctx)
}

func TestLoginTriggeredRefreshSeesPersistedCredential(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory(logging.Discard())
	inner := newFakeLoanAPI()
	inner.historyRecords = []api.LoanRecord{
		{ID: "1002", Amount: 3000, Purpose: "Education Fees", Status: "Active", CreatedAt: "2023-03-10T08:15:00Z"},
	}
	f := &bearerCheckingAPI{fakeLoanAPI: inner, store: store}

	sess := session.NewManager(store, f, logging.Discard())
	c := NewCache(store, f, sess.LoggedIn, logging.Discard())
	defer c.Watch(sess)()
	sess.Restore(ctx)

	if res := sess.CompleteLogin(ctx, "9876543210", "1234"); !res.Success {
		t.Fatalf("login failed: %+v", res)
	}

	if errMsg := c.Err(); errMsg != "" {
		t.Fatalf("login-triggered refresh ran before the credential was persisted: %q", errMsg)
	}
	if got := c.Loans(); len(got) != 1 || got[0].ID != "1002" {
		t.Fatalf("expected authorized refresh to publish the list, got %v", got)
	}
}

func TestWatchSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFakeLoanAPI()
	f.historyRecords = []api.LoanRecord{
		{ID: "1002", Amount: 3000, Purpose: "Education Fees", Status: "Active", CreatedAt: "2023-03-10T08:15:00Z"},
	}
	store := storage.NewMemory(logging.Discard())

	sess := session.NewManager(store, f, logging.Discard())
	c := NewCache(store, f, sess.LoggedIn, logging.Discard())
	defer c.Watch(sess)()

	sess.Restore(ctx)
	if f.HistoryCalls() != 0 {
		t.Fatalf("anonymous restore must not refresh")
	}

	if res := sess.CompleteLogin(ctx, "9876543210", "1234"); !res.Success {
		t.Fatalf("login failed: %+v", res)
	}
	if f.HistoryCalls() != 1 {
		t.Fatalf("expected refresh on login, got %d", f.HistoryCalls())
	}
	if len(c.Loans()) != 1 {
		t.Fatalf("expected loans published after login")
	}

	sess.EndSession(ctx)
	if len(c.Loans()) != 0 {
		t.Fatalf("expected list blanked on logout")
	}
	var persisted []Loan
	if store.Get(ctx, storage.KeyLoans, &persisted) {
		t.Fatalf("expected persisted loans removed on logout")
	}
}
