// loanctl is a thin presentation layer over the client core: it wires the
// store, API client, session manager, and loan cache together at process
// start and maps subcommands onto their operations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/loan-compass/loan_compass/internal/api"
	"github.com/loan-compass/loan_compass/internal/config"
	"github.com/loan-compass/loan_compass/internal/i18n"
	"github.com/loan-compass/loan_compass/internal/loans"
	"github.com/loan-compass/loan_compass/internal/logging"
	"github.com/loan-compass/loan_compass/internal/session"
	"github.com/loan-compass/loan_compass/internal/storage"
)

const usage = `usage: loanctl <command> [args]

commands:
  login <phone>            request an OTP for the given phone number
  verify <phone> <otp>     verify the OTP and start a session
  logout                   end the session
  profile                  show profile, trust breakdown and badges
  loans                    list the loan history
  request <amount> <purpose...>  request a new loan
  repay <loan-id>          repay an active loan
  lang [en|hi|ta]          show or set the display language
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewText(cfg.LogLevel)
	ctx := context.Background()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	client := newAPI(cfg, store, logger)

	lang := i18n.NewManager(store, logger)
	lang.Init(ctx)

	sess := session.NewManager(store, client, logger)
	cache := loans.NewCache(store, client, sess.LoggedIn, logger)
	defer cache.Watch(sess)()
	sess.Restore(ctx)

	switch cmd := args[0]; cmd {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: loanctl login <phone>")
		}
		return printResult(sess.BeginLogin(ctx, args[1]), lang.T("auth.otpSent"))

	case "verify":
		if len(args) != 3 {
			return fmt.Errorf("usage: loanctl verify <phone> <otp>")
		}
		res := sess.CompleteLogin(ctx, args[1], args[2])
		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}
		user := sess.User()
		fmt.Printf("%s, %s\n", lang.T("dashboard.welcome"), user.Name)
		fmt.Printf("%s: %d\n", lang.T("dashboard.trustScore"), user.TrustScore)
		fmt.Printf("%s: %d\n", lang.T("dashboard.availableLoan"), user.AvailableLoanAmount)
		return nil

	case "logout":
		sess.EndSession(ctx)
		fmt.Println(lang.T("common.logout"))
		return nil

	case "profile":
		return showProfile(ctx, client, sess, lang)

	case "loans":
		return showLoans(cache, lang)

	case "request":
		if len(args) < 3 {
			return fmt.Errorf("usage: loanctl request <amount> <purpose...>")
		}
		return requestLoan(ctx, cache, sess, args[1], strings.Join(args[2:], " "))

	case "repay":
		if len(args) != 2 {
			return fmt.Errorf("usage: loanctl repay <loan-id>")
		}
		if !sess.LoggedIn() {
			return fmt.Errorf("not logged in")
		}
		return printResult(cache.RepayLoan(ctx, args[1]), lang.T("loan.repaySuccess"))

	case "lang":
		if len(args) == 1 {
			fmt.Println(lang.Language())
			return nil
		}
		if err := lang.Set(ctx, i18n.Language(args[1])); err != nil {
			return err
		}
		fmt.Println(lang.T("common.appName"))
		return nil

	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		store, err := storage.NewRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, nil
	case config.BackendMemory:
		return storage.NewMemory(logger), nil
	default:
		return storage.NewFile(cfg.StoragePath, logger), nil
	}
}

func newAPI(cfg config.Config, store storage.Store, logger *slog.Logger) api.API {
	if cfg.MockAPI() {
		return &api.Static{Delay: cfg.MockDelay}
	}
	return api.NewClient(cfg.APIBaseURL, cfg.APITimeout, store, logger)
}

func printResult(res api.Result, fallback string) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	} else {
		fmt.Println(fallback)
	}
	return nil
}

func showProfile(ctx context.Context, client api.API, sess *session.Manager, lang *i18n.Manager) error {
	if !sess.LoggedIn() {
		return fmt.Errorf("not logged in")
	}
	res, profile, err := client.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	if !res.Success || profile == nil {
		return fmt.Errorf("%s", res.Message)
	}

	fmt.Printf("%s (%s)\n", profile.Name, profile.Phone)
	fmt.Printf("%s: %d\n", lang.T("dashboard.trustScore"), profile.TrustScore)
	fmt.Printf("%s: %d\n", lang.T("dashboard.availableLoan"), profile.AvailableLoanAmount)

	fmt.Println()
	fmt.Println(lang.T("trust.breakdown"))
	for _, row := range profile.TrustBreakdown {
		fmt.Printf("  %-28s %d\n", row.Factor, row.Points)
	}

	fmt.Println()
	fmt.Println(lang.T("trust.badges"))
	if len(profile.Badges) == 0 {
		fmt.Printf("  %s\n", lang.T("trust.noBadges"))
	}
	for _, badge := range profile.Badges {
		fmt.Printf("  %s - %s\n", badge.Name, badge.Description)
	}
	return nil
}

func showLoans(cache *loans.Cache, lang *i18n.Manager) error {
	if errMsg := cache.Err(); errMsg != "" {
		fmt.Fprintln(os.Stderr, errMsg)
	}
	list := cache.Loans()
	if len(list) == 0 {
		fmt.Println(lang.T("loan.history") + ": -")
		return nil
	}
	fmt.Println(lang.T("loan.history"))
	for _, loan := range list {
		fmt.Printf("  #%s  %-8s  %6d  %s  (%s)\n",
			loan.ID, loan.Status, loan.Amount, loan.Purpose, loans.FormatTimestamp(loan.CreatedAt))
		if loan.Reason != "" {
			fmt.Printf("      %s\n", loan.Reason)
		}
		if loan.TransactionHash != "" {
			fmt.Printf("      %s: %s\n", lang.T("loan.transactionHash"), loan.TransactionHash)
		}
	}
	return nil
}

func requestLoan(ctx context.Context, cache *loans.Cache, sess *session.Manager, rawAmount, purpose string) error {
	user := sess.User()
	if user == nil {
		return fmt.Errorf("not logged in")
	}
	amount, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", rawAmount)
	}
	// Presentation-side precondition; the cache passes requests through as-is.
	if err := loans.ValidateRequest(amount, user.AvailableLoanAmount, purpose); err != nil {
		return err
	}
	res := cache.RequestLoan(ctx, amount, purpose)
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Println(res.Message)
	return nil
}
