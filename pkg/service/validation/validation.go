// Package validation issues and consumes time-bound single-use tokens.
// A token authorizes exactly one deferred state change, described by a
// tagged context: verifying a user's email or confirming an account
// membership. Expired rows are left in place; no janitor purges them.
package validation

import (
	"context"
	"log/slog"
	"time"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/provider"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/google/uuid"
)

// Config selects the validity duration per validation kind.
type Config struct {
	VerifyEmailTTL time.Duration
	AddAccountTTL  time.Duration
	// TokenBytes is the entropy of generated tokens.
	TokenBytes int
}

// Service issues and consumes validation tokens.
type Service struct {
	uow    repository.UnitOfWork
	tokens provider.TokenGenerator
	clock  provider.Clock
	cfg    Config
	logger *slog.Logger
}

// New creates a validation Service.
func New(
	uow repository.UnitOfWork,
	tokens provider.TokenGenerator,
	clock provider.Clock,
	cfg Config,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, tokens: tokens, clock: clock, cfg: cfg, logger: logger}
}

// AddValidation stores a new pending token for vctx and returns the
// opaque token string. The caller embeds the token in an outbound
// communication; delivery is outside this service.
func (s *Service) AddValidation(ctx context.Context, vctx domain.ValidationContext) (string, error) {
	var ttl time.Duration
	switch vctx.Kind {
	case domain.ValidationVerifyEmail:
		ttl = s.cfg.VerifyEmailTTL
	case domain.ValidationAddAccount:
		ttl = s.cfg.AddAccountTTL
	default:
		return "", &domain.MismatchedValidationError{Kind: vctx.Kind, Context: vctx}
	}

	token, err := s.tokens.RandomToken(s.cfg.TokenBytes)
	if err != nil {
		return "", err
	}
	payload, err := vctx.Encode()
	if err != nil {
		return "", err
	}
	validUntil := s.clock.Now().Add(ttl)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ValidationRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, &domain.Validation{
			ID:         uuid.New(),
			Token:      token,
			Context:    payload,
			ValidUntil: validUntil,
		})
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("validation issued", "kind", vctx.Kind, "validUntil", validUntil)
	return token, nil
}

// Validate consumes the token, applying the state change its context
// describes. kind must pair with the stored context's kind. On success
// the token row is deleted in the same atomic unit as the mutation it
// authorizes, so a token is usable exactly once. An expired token fails
// with ValidationExpiredError and its row is retained.
func (s *Service) Validate(ctx context.Context, kind domain.ValidationKind, token string) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ValidationRepository()
		if err != nil {
			return err
		}
		row, err := repo.GetByToken(ctx, token)
		if err != nil {
			return err
		}
		if row == nil {
			return &domain.ValidationNotFoundError{Token: token}
		}
		if s.clock.Now().After(row.ValidUntil) {
			return &domain.ValidationExpiredError{Token: token}
		}
		vctx, err := domain.DecodeValidationContext(row.Context)
		if err != nil {
			return err
		}

		switch {
		case kind == domain.ValidationVerifyEmail && vctx.Kind == domain.ValidationVerifyEmail:
			users, err := uow.UserRepository()
			if err != nil {
				return err
			}
			if err := users.SetEmailVerified(ctx, vctx.UserID, true); err != nil {
				return err
			}
		case kind == domain.ValidationAddAccount && vctx.Kind == domain.ValidationAddAccount:
			members, err := uow.AccountUserRepository()
			if err != nil {
				return err
			}
			if err := members.SetVerified(ctx, vctx.AccountID, vctx.UserID, true); err != nil {
				return err
			}
		default:
			return &domain.MismatchedValidationError{Kind: kind, Context: vctx}
		}

		return repo.Delete(ctx, row.ID)
	})
}
