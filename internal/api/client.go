package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/loan-compass/loan_compass/internal/storage"
)

// Client talks to a live loan service over HTTP. The bearer credential is
// read fresh from the store on every call so the client never goes stale
// across login/logout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      storage.Store
	logger     *slog.Logger
}

// NewClient builds an HTTP client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, store storage.Store, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		store:      store,
		logger:     logger,
	}
}

// envelope is the uniform response wrapper; Data is decoded per operation.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) result() Result {
	return Result{Success: e.Success, Message: e.Message}
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (envelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return envelope{}, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return envelope{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	var token string
	if c.store.Get(ctx, storage.KeyToken, &token) && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, fmt.Errorf("read response: %w", err)
	}

	// 5xx means the service could not produce a business outcome.
	if resp.StatusCode >= http.StatusInternalServerError {
		return envelope{}, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

func (c *Client) Login(ctx context.Context, phone string) (Result, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"phone": phone})
	if err != nil {
		return Result{}, err
	}
	return env.result(), nil
}

func (c *Client) VerifyOtp(ctx context.Context, phone, otp string) (Result, *Session, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/verify-otp", map[string]string{"phone": phone, "otp": otp})
	if err != nil {
		return Result{}, nil, err
	}
	if !env.Success || len(env.Data) == 0 {
		return env.result(), nil, nil
	}
	var session Session
	if err := json.Unmarshal(env.Data, &session); err != nil {
		return Result{}, nil, fmt.Errorf("decode session: %w", err)
	}
	return env.result(), &session, nil
}

func (c *Client) Logout(ctx context.Context) (Result, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return Result{}, err
	}
	return env.result(), nil
}

func (c *Client) GetProfile(ctx context.Context) (Result, *Profile, error) {
	env, err := c.do(ctx, http.MethodGet, "/user/profile", nil)
	if err != nil {
		return Result{}, nil, err
	}
	if !env.Success || len(env.Data) == 0 {
		return env.result(), nil, nil
	}
	var profile Profile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		return Result{}, nil, fmt.Errorf("decode profile: %w", err)
	}
	return env.result(), &profile, nil
}

func (c *Client) GetLoanHistory(ctx context.Context) (Result, []LoanRecord, error) {
	env, err := c.do(ctx, http.MethodGet, "/loans/history", nil)
	if err != nil {
		return Result{}, nil, err
	}
	if !env.Success || len(env.Data) == 0 {
		return env.result(), nil, nil
	}
	var records []LoanRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return Result{}, nil, fmt.Errorf("decode loan history: %w", err)
	}
	return env.result(), records, nil
}

func (c *Client) RequestLoan(ctx context.Context, amount int64, purpose string) (Result, *Receipt, error) {
	payload := map[string]any{"amount": amount, "purpose": purpose}
	env, err := c.do(ctx, http.MethodPost, "/loans/request", payload)
	if err != nil {
		return Result{}, nil, err
	}
	return env.result(), decodeReceipt(env), nil
}

func (c *Client) RepayLoan(ctx context.Context, loanID string) (Result, *Receipt, error) {
	env, err := c.do(ctx, http.MethodPost, "/loans/"+loanID+"/repay", nil)
	if err != nil {
		return Result{}, nil, err
	}
	return env.result(), decodeReceipt(env), nil
}

// decodeReceipt tolerates a missing or undecodable receipt: the mutation
// outcome is already carried by the envelope, and callers re-fetch the list
// rather than patching from the receipt.
func decodeReceipt(env envelope) *Receipt {
	if !env.Success || len(env.Data) == 0 {
		return nil
	}
	var receipt Receipt
	if err := json.Unmarshal(env.Data, &receipt); err != nil {
		return nil
	}
	return &receipt
}
