// Package api defines the contract with the remote loan service and the two
// clients that speak it: an HTTP client for live endpoints and a fixture
// client for development.
package api

import "context"

// Result is the uniform success/message pair every operation reports.
// Business rejections (wrong OTP, insufficient trust score) arrive here with
// Success=false rather than as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Identity is the user snapshot returned on OTP verification.
type Identity struct {
	ID                  string `json:"id"`
	Phone               string `json:"phone"`
	Name                string `json:"name"`
	TrustScore          int    `json:"trustScore"`
	AvailableLoanAmount int64  `json:"availableLoanAmount"`
}

// Session pairs the bearer credential with the verified identity.
type Session struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// TrustFactor is one row of the trust score breakdown.
type TrustFactor struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
}

// Badge is an achievement attached to the user's profile.
type Badge struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Profile is the full profile payload, identity plus trust details.
type Profile struct {
	Identity
	TrustBreakdown []TrustFactor `json:"trustBreakdown"`
	Badges         []Badge       `json:"badges"`
}

// LoanRecord is the wire shape of a loan as returned by the service. Status
// carries the raw server string; the loans package normalizes it on ingestion.
// Timestamps stay textual so malformed values can still be displayed.
type LoanRecord struct {
	ID              string `json:"id"`
	Amount          int64  `json:"amount"`
	Purpose         string `json:"purpose"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
	DueDate         string `json:"dueDate,omitempty"`
	RepaidAt        string `json:"repaidAt,omitempty"`
	Reason          string `json:"reason,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// Receipt is returned by the loan mutation endpoints once the service has
// recorded the action.
type Receipt struct {
	LoanID          string `json:"loanId"`
	Status          string `json:"status"`
	TransactionHash string `json:"transactionHash"`
}

// API is the remote collaborator the session and loan managers depend on.
// A non-nil error means a transport or decoding failure the caller must
// absorb; expected business outcomes never produce an error.
type API interface {
	Login(ctx context.Context, phone string) (Result, error)
	VerifyOtp(ctx context.Context, phone, otp string) (Result, *Session, error)
	Logout(ctx context.Context) (Result, error)
	GetProfile(ctx context.Context) (Result, *Profile, error)
	GetLoanHistory(ctx context.Context) (Result, []LoanRecord, error)
	RequestLoan(ctx context.Context, amount int64, purpose string) (Result, *Receipt, error)
	RepayLoan(ctx context.Context, loanID string) (Result, *Receipt, error)
}
