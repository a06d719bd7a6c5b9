// Package mockapi serves a development stand-in for the remote loan service.
// It speaks the same envelope on the same paths the client consumes, issues
// real signed tokens, and keeps a mutable in-memory loan list so request and
// repay flows behave end to end.
package mockapi

import (
	"context"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/loan-compass/loan_compass/internal/api"
)

const (
	// AcceptedOTP is the one-time code the mock verifies against.
	AcceptedOTP = "1234"

	tokenTTL = 24 * time.Hour
)

// Server wraps the Fiber application and the mutable fixture state.
type Server struct {
	app    *fiber.App
	secret []byte
	logger *slog.Logger

	mu     sync.Mutex
	user   api.Identity
	loans  []api.LoanRecord
	nextID int
}

// New builds the mock server seeded with the development fixtures.
func New(appName, secret string, log *slog.Logger) *Server {
	s := &Server{
		secret: []byte(secret),
		logger: log,
		user:   api.FixtureIdentity(),
		loans:  api.FixtureLoans(),
		nextID: 1004,
	}

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	app.Post("/auth/login", s.login)
	app.Post("/auth/verify-otp", s.verifyOtp)

	protected := app.Group("", s.requireAuth)
	protected.Post("/auth/logout", s.logout)
	protected.Get("/user/profile", s.profile)
	protected.Get("/loans/history", s.loanHistory)
	protected.Post("/loans/request", s.requestLoan)
	protected.Post("/loans/:id/repay", s.repayLoan)

	s.app = app
	return s
}

// App exposes the Fiber application for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func reject(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return reject(c, http.StatusUnauthorized, "Authorization required")
	}

	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return reject(c, http.StatusUnauthorized, "Invalid or expired token")
	}
	return c.Next()
}

func (s *Server) login(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil || req.Phone == "" {
		return reject(c, http.StatusBadRequest, "Phone number is required")
	}
	s.logger.Info("otp issued", "phone", req.Phone, "otp", AcceptedOTP)
	return c.JSON(fiber.Map{"success": true, "message": "OTP sent successfully"})
}

func (s *Server) verifyOtp(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil || req.Phone == "" {
		return reject(c, http.StatusBadRequest, "Phone number is required")
	}
	if req.OTP != AcceptedOTP {
		return reject(c, http.StatusUnauthorized, "Invalid OTP")
	}

	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"phone": req.Phone,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("sign token", "error", err)
		return reject(c, http.StatusInternalServerError, "Could not issue token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data":    api.Session{Token: signed, User: user},
	})
}

func (s *Server) logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}

func (s *Server) profile(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": api.FixtureProfile()})
}

func (s *Server) loanHistory(c *fiber.Ctx) error {
	s.mu.Lock()
	loans := append([]api.LoanRecord(nil), s.loans...)
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "data": loans})
}

func (s *Server) requestLoan(c *fiber.Ctx) error {
	var req struct {
		Amount  int64  `json:"amount"`
		Purpose string `json:"purpose"`
	}
	if err := c.BodyParser(&req); err != nil {
		return reject(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Amount <= 0 {
		return reject(c, http.StatusBadRequest, "Amount must be positive")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(req.Purpose)); n < 5 || n > 100 {
		return reject(c, http.StatusBadRequest, "Purpose must be between 5 and 100 characters")
	}

	s.mu.Lock()
	if req.Amount > s.user.AvailableLoanAmount {
		s.mu.Unlock()
		return reject(c, http.StatusUnprocessableEntity, "Requested amount exceeds your available limit")
	}
	loan := api.LoanRecord{
		ID:              strconv.Itoa(s.nextID),
		Amount:          req.Amount,
		Purpose:         req.Purpose,
		Status:          "Pending",
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		TransactionHash: newTxHash(),
	}
	s.nextID++
	s.loans = append(s.loans, loan)
	s.mu.Unlock()

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Loan request submitted successfully",
		"data":    api.Receipt{LoanID: loan.ID, Status: loan.Status, TransactionHash: loan.TransactionHash},
	})
}

func (s *Server) repayLoan(c *fiber.Ctx) error {
	id := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.loans {
		if s.loans[i].ID != id {
			continue
		}
		if s.loans[i].Status != "Active" {
			return reject(c, http.StatusUnprocessableEntity, "Loan is not active")
		}
		s.loans[i].Status = "Repaid"
		s.loans[i].RepaidAt = time.Now().UTC().Format(time.RFC3339)
		s.loans[i].TransactionHash = newTxHash()
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Loan repaid successfully",
			"data":    api.Receipt{LoanID: id, Status: s.loans[i].Status, TransactionHash: s.loans[i].TransactionHash},
		})
	}
	return reject(c, http.StatusNotFound, "Loan not found")
}

func newTxHash() string {
	id := uuid.New()
	return "0x" + hex.EncodeToString(id[:])
}
