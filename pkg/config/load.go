package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment. When envFilePath is
// given the file is loaded into the environment first; a missing .env
// is not an error.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using process environment")
		}
	} else {
		for _, path := range envFilePath {
			if err := godotenv.Load(path); err != nil {
				logger.Warn("failed to load environment file", "path", path, "error", err)
				continue
			}
			logger.Info("environment loaded from file", "path", path)
			break
		}
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("app config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"currency_api_url", cfg.CurrencyAPI.BaseURL,
		"verify_email_ttl", cfg.Validation.VerifyEmailTTL,
		"add_account_ttl", cfg.Validation.AddAccountTTL,
		"account_delete_grace", cfg.Account.DeleteGrace,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:3] + "****" + v[len(v)-3:]
}
