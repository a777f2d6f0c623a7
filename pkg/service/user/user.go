// Package user manages user registration and profile updates. Emails
// are normalized (trimmed, lowercased) before uniqueness checks, and
// changing the email resets its verified flag.
package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/provider"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/google/uuid"
)

// Service implements user operations.
type Service struct {
	uow    repository.UnitOfWork
	hasher provider.PasswordHasher
	logger *slog.Logger
}

// New creates a user Service.
func New(uow repository.UnitOfWork, hasher provider.PasswordHasher, logger *slog.Logger) *Service {
	return &Service{uow: uow, hasher: hasher, logger: logger}
}

// UpdateInput is a sparse profile update; nil fields are untouched.
type UpdateInput struct {
	Email    *string
	Name     *string
	Password *string
}

// Create registers a user. The email is normalized before the
// uniqueness check; a collision fails with EmailInUseError carrying the
// normalized email.
func (s *Service) Create(ctx context.Context, email, name, password string) (created *domain.User, err error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		existing, err := repo.GetByEmail(ctx, normalized)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.EmailInUseError{Email: normalized}
		}
		created = &domain.User{
			ID:           uuid.New(),
			Email:        normalized,
			Name:         name,
			PasswordHash: hash,
		}
		return repo.Create(ctx, created)
	})
	if err != nil {
		created = nil
		return
	}
	s.logger.Info("user created", "userID", created.ID)
	return
}

// Get returns the user or UserNotFoundError.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (u *domain.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return &domain.UserNotFoundError{ID: id}
		}
		return nil
	})
	if err != nil {
		u = nil
	}
	return
}

// Update applies a sparse profile update. A new email is normalized and
// resets the verified flag; a new password is hashed before storage.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (u *domain.User, err error) {
	update := repository.UserUpdate{Name: in.Name}
	if in.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*in.Email))
		update.Email = &normalized
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		matched, err := repo.Update(ctx, id, update)
		if err != nil {
			return err
		}
		if !matched {
			return &domain.UserNotFoundError{ID: id}
		}
		if update.Email != nil {
			if err := repo.SetEmailVerified(ctx, id, false); err != nil {
				return err
			}
		}
		u, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// Delete removes the user or fails with UserNotFoundError.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return &domain.UserNotFoundError{ID: id}
		}
		return repo.Delete(ctx, id)
	})
}
