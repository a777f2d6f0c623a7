// Command server wires the ledger services to their infrastructure:
// config, database, currency provider and clock. Transport binding is
// left to the surrounding deployment.
package main

import (
	"log/slog"
	"os"

	"github.com/budgetd/budgetd/infra"
	infraprovider "github.com/budgetd/budgetd/infra/provider"
	infrarepo "github.com/budgetd/budgetd/infra/repository"
	"github.com/budgetd/budgetd/pkg/config"
	"github.com/budgetd/budgetd/pkg/service/account"
	"github.com/budgetd/budgetd/pkg/service/category"
	"github.com/budgetd/budgetd/pkg/service/ledger"
	"github.com/budgetd/budgetd/pkg/service/user"
	"github.com/budgetd/budgetd/pkg/service/validation"
)

// Services bundles the wired service layer.
type Services struct {
	Accounts    *account.Service
	Categories  *category.Service
	Ledger      *ledger.Service
	Users       *user.Service
	Validations *validation.Service
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if _, err := buildServices(cfg, logger); err != nil {
		logger.Error("failed to wire services", "error", err)
		os.Exit(1)
	}

	logger.Info("services wired", "env", cfg.Env,
		"host", cfg.Server.Host, "port", cfg.Server.Port)
	// Transport binding (HTTP routes, auth middleware) attaches here.
	select {}
}

func buildServices(cfg *config.App, logger *slog.Logger) (*Services, error) {
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, err
	}

	uow := infrarepo.NewUoW(db)
	clock := infraprovider.SystemClock{}
	converter := infraprovider.NewHexarateConverter(cfg.CurrencyAPI, logger)

	return &Services{
		Accounts:   account.New(uow, clock, cfg.Account.DeleteGrace, logger),
		Categories: category.New(uow, logger),
		Ledger:     ledger.New(uow, converter, clock, logger),
		Users:      user.New(uow, infraprovider.BcryptHasher{}, logger),
		Validations: validation.New(uow, infraprovider.CryptoTokenGenerator{}, clock, validation.Config{
			VerifyEmailTTL: cfg.Validation.VerifyEmailTTL,
			AddAccountTTL:  cfg.Validation.AddAccountTTL,
			TokenBytes:     cfg.Validation.TokenBytes,
		}, logger),
	}, nil
}
