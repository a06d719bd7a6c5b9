// Package loans owns the cached loan ledger for the current session:
// cache-first display, authoritative refresh, and the request/repay flows.
package loans

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/loan-compass/loan_compass/internal/api"
)

// Status is the canonical loan state.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusActive   Status = "Active"
	StatusRepaid   Status = "Repaid"
	StatusRejected Status = "Rejected"
)

// Loan is the client-side loan record. Timestamps keep their wire form so a
// malformed value can still be shown raw instead of dropping the record.
type Loan struct {
	ID              string `json:"id"`
	Amount          int64  `json:"amount"`
	Purpose         string `json:"purpose"`
	Status          Status `json:"status"`
	CreatedAt       string `json:"createdAt"`
	DueDate         string `json:"dueDate,omitempty"`
	RepaidAt        string `json:"repaidAt,omitempty"`
	Reason          string `json:"reason,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// NormalizeStatus canonicalizes a server status string: first letter upper,
// remainder lower. When the result is not a recognized member it reports
// false and returns StatusPending; records are never dropped or left raw.
func NormalizeStatus(raw string) (Status, bool) {
	if raw == "" {
		return StatusPending, false
	}
	normalized := Status(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
	switch normalized {
	case StatusPending, StatusActive, StatusRepaid, StatusRejected:
		return normalized, true
	}
	return StatusPending, false
}

const (
	minPurposeLen = 5
	maxPurposeLen = 100
)

var (
	// ErrAmountNotPositive rejects zero or negative loan amounts.
	ErrAmountNotPositive = errors.New("loan amount must be positive")
	// ErrAmountOverLimit rejects amounts above the user's available limit.
	ErrAmountOverLimit = errors.New("loan amount exceeds available limit")
	// ErrPurposeLength rejects purposes outside 5-100 characters.
	ErrPurposeLength = errors.New("purpose must be between 5 and 100 characters")
)

// ValidateRequest is the presentation-side precondition for requesting a
// loan. The cache operations deliberately do not call it: they pass whatever
// they are given through to the service, which is the authority.
func ValidateRequest(amount, available int64, purpose string) error {
	if amount <= 0 {
		return ErrAmountNotPositive
	}
	if amount > available {
		return ErrAmountOverLimit
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(purpose)); n < minPurposeLen || n > maxPurposeLen {
		return ErrPurposeLength
	}
	return nil
}

// FormatTimestamp renders an RFC 3339 timestamp for display, falling back to
// the raw string when it does not parse.
func FormatTimestamp(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("02 Jan 2006 15:04")
}

func fromRecord(rec api.LoanRecord) (Loan, bool) {
	status, ok := NormalizeStatus(rec.Status)
	return Loan{
		ID:              rec.ID,
		Amount:          rec.Amount,
		Purpose:         rec.Purpose,
		Status:          status,
		CreatedAt:       rec.CreatedAt,
		DueDate:         rec.DueDate,
		RepaidAt:        rec.RepaidAt,
		Reason:          rec.Reason,
		TransactionHash: rec.TransactionHash,
	}, ok
}
