package api

import (
	"context"
	"time"
)

const (
	// StaticOTP is the one-time code the fixture client accepts.
	StaticOTP = "1234"

	staticToken = "mock-jwt-token"
)

// Static serves the development fixture responses behind the API interface,
// with a simulated network delay. It stands in for the remote system the way
// the product's development builds do.
type Static struct {
	// Delay is applied before every response. Zero means no delay.
	Delay time.Duration
}

// FixtureIdentity is the development demo user, shared by the Static client
// and the mock server.
func FixtureIdentity() Identity {
	return Identity{
		ID:                  "123456",
		Phone:               "+919876543210",
		Name:                "Demo User",
		TrustScore:          750,
		AvailableLoanAmount: 5000,
	}
}

// FixtureLoans is the development loan history, shared by the Static client
// and the mock server.
func FixtureLoans() []LoanRecord {
	return []LoanRecord{
		{
			ID:              "1001",
			Amount:          2000,
			Purpose:         "Medical Emergency",
			Status:          "Repaid",
			CreatedAt:       "2023-01-15T10:30:00Z",
			DueDate:         "2023-02-15T10:30:00Z",
			RepaidAt:        "2023-02-10T14:20:00Z",
			TransactionHash: "0xabcd1234efgh5678ijkl9012mnop3456qrst7890",
		},
		{
			ID:              "1002",
			Amount:          3000,
			Purpose:         "Education Fees",
			Status:          "Active",
			CreatedAt:       "2023-03-10T08:15:00Z",
			DueDate:         "2023-04-10T08:15:00Z",
			TransactionHash: "0x1234abcd5678efgh9012ijkl3456mnop7890qrst",
		},
		{
			ID:        "1003",
			Amount:    1500,
			Purpose:   "Business Supply",
			Status:    "Rejected",
			CreatedAt: "2023-02-20T16:45:00Z",
			Reason:    "Insufficient trust score",
		},
	}
}

// wait simulates network latency while honoring cancellation.
func (s *Static) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Static) Login(ctx context.Context, phone string) (Result, error) {
	if err := s.wait(ctx); err != nil {
		return Result{}, err
	}
	if phone == "" {
		return Result{Success: false, Message: "Phone number is required"}, nil
	}
	return Result{Success: true, Message: "OTP sent successfully"}, nil
}

func (s *Static) VerifyOtp(ctx context.Context, phone, otp string) (Result, *Session, error) {
	if err := s.wait(ctx); err != nil {
		return Result{}, nil, err
	}
	if otp != StaticOTP {
		return Result{Success: false, Message: "Invalid OTP"}, nil, nil
	}
	return Result{Success: true, Message: "Login successful"},
		&Session{Token: staticToken, User: FixtureIdentity()}, nil
}

func (s *Static) Logout(ctx context.Context) (Result, error) {
	if err := s.wait(ctx); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: "Logged out successfully"}, nil
}

// FixtureProfile is the development profile payload, shared by the Static
// client and the mock server.
func FixtureProfile() Profile {
	return Profile{
		Identity: FixtureIdentity(),
		TrustBreakdown: []TrustFactor{
			{Factor: "On-time Repayments", Points: 300},
			{Factor: "Lending Activity", Points: 200},
			{Factor: "Referrals", Points: 150},
			{Factor: "Community Participation", Points: 100},
		},
		Badges: []Badge{
			{ID: 1, Name: "Trusted Lender", Description: "Completed 5 loans", Icon: "award"},
			{ID: 2, Name: "Prompt Payer", Description: "Repaid 3 loans on time", Icon: "clock"},
			{ID: 3, Name: "Community Builder", Description: "Referred 2 friends", Icon: "users"},
		},
	}
}

func (s *Static) GetProfile(ctx context.Context) (Result, *Profile, error) {
	if err := s.wait(ctx); err != nil {
		return Result{}, nil, err
	}
	profile := FixtureProfile()
	return Result{Success: true}, &profile, nil
}

func (s *Static) GetLoanHistory(ctx context.Context) (Result, []LoanRecord, error) {
	if err := s.wait(ctx); err != nil {
		return Result{}, nil, err
	}
	return Result{Success: true}, FixtureLoans(), nil
}

func (s *Static) RequestLoan(ctx context.Context, amount int64, purpose string) (Result, *Receipt, error) {
	if err := s.wait(ctx); err != nil {
		return Result{}, nil, err
	}
	receipt := Receipt{
		LoanID:          "1004",
		Status:          "Pending",
		TransactionHash: "0x9876zyxw5432vuts1098ponm7654lkji3210",
	}
	return Result{Success: true, Message: "Loan request submitted successfully"}, &receipt, nil
}

func (s *Static) RepayLoan(ctx context.Context, loanID string) (Result, *Receipt, error) {
	if err := s.wait(ctx); err != nil {
		return Result{}, nil, err
	}
	receipt := Receipt{
		LoanID:          loanID,
		Status:          "Repaid",
		TransactionHash: "0xzyxw9876vuts5432ponm1098lkji7654hgfe3210",
	}
	return Result{Success: true, Message: "Loan repaid successfully"}, &receipt, nil
}
