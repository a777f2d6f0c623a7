// Package account manages account lifecycle and membership. Deleting an
// account only schedules it: delete_on is set a grace period ahead and
// treated as advisory metadata until a reaper acts on it.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/provider"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/budgetd/budgetd/pkg/service/authz"
	"github.com/google/uuid"
)

// ErrNoAdmin is returned when an account would be created without any
// Admin member.
var ErrNoAdmin = errors.New("account requires at least one admin member")

// Member pairs a user with their role on an account.
type Member struct {
	UserID uuid.UUID
	Role   domain.Role
}

// Info is the account read model: identity, members and the scheduled
// deletion date, if any.
type Info struct {
	ID       uuid.UUID
	Name     string
	Members  []domain.AccountUser
	DeleteOn *time.Time
}

// Service implements account operations.
type Service struct {
	uow         repository.UnitOfWork
	deleteGrace time.Duration
	clock       provider.Clock
	logger      *slog.Logger
}

// New creates an account Service. deleteGrace is how far ahead Delete
// schedules the account's deletion date.
func New(
	uow repository.UnitOfWork,
	clock provider.Clock,
	deleteGrace time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, clock: clock, deleteGrace: deleteGrace, logger: logger}
}

// Create inserts a new account with the given members. At least one
// member must be Admin. Members start unverified; they confirm via an
// AddAccount validation token.
func (s *Service) Create(ctx context.Context, name string, members []Member) (info *Info, err error) {
	hasAdmin := false
	for _, m := range members {
		if m.Role == domain.RoleAdmin {
			hasAdmin = true
			break
		}
	}
	if !hasAdmin {
		return nil, ErrNoAdmin
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		memberRepo, err := uow.AccountUserRepository()
		if err != nil {
			return err
		}

		acct := &domain.Account{ID: uuid.New(), Name: name}
		if err := accounts.Create(ctx, acct); err != nil {
			return err
		}
		rows := make([]domain.AccountUser, 0, len(members))
		for _, m := range members {
			row := domain.AccountUser{
				AccountID: acct.ID,
				UserID:    m.UserID,
				Role:      m.Role,
			}
			if err := memberRepo.Upsert(ctx, &row); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		info = &Info{ID: acct.ID, Name: acct.Name, Members: rows}
		return nil
	})
	if err != nil {
		info = nil
		return
	}
	s.logger.Info("account created", "accountID", info.ID, "members", len(info.Members))
	return
}

// Get returns the account with its members. Requires Read.
func (s *Service) Get(ctx context.Context, userID, accountID uuid.UUID) (info *Info, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleRead); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		memberRepo, err := uow.AccountUserRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return &domain.AccountNotFoundError{ID: accountID}
		}
		members, err := memberRepo.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		info = &Info{ID: acct.ID, Name: acct.Name, Members: members, DeleteOn: acct.DeleteOn}
		return nil
	})
	if err != nil {
		info = nil
	}
	return
}

// UpdateMembers upserts member roles on the account. Requires Admin.
func (s *Service) UpdateMembers(
	ctx context.Context,
	userID, accountID uuid.UUID,
	members []Member,
) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleAdmin); err != nil {
			return err
		}
		memberRepo, err := uow.AccountUserRepository()
		if err != nil {
			return err
		}
		for _, m := range members {
			existing, err := memberRepo.Get(ctx, accountID, m.UserID)
			if err != nil {
				return err
			}
			row := domain.AccountUser{
				AccountID: accountID,
				UserID:    m.UserID,
				Role:      m.Role,
			}
			if existing != nil {
				row.Verified = existing.Verified
			}
			if err := memberRepo.Upsert(ctx, &row); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete schedules the account for deletion and returns the scheduled
// date. Requires Admin. No hard delete or undo exists here; the date is
// advisory until a reaper acts on it.
func (s *Service) Delete(ctx context.Context, userID, accountID uuid.UUID) (deleteOn time.Time, err error) {
	deleteOn = s.clock.Now().Add(s.deleteGrace)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleAdmin); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return &domain.AccountNotFoundError{ID: accountID}
		}
		return accounts.SetDeleteOn(ctx, accountID, deleteOn)
	})
	if err != nil {
		return time.Time{}, err
	}
	s.logger.Info("account delete scheduled", "accountID", accountID, "deleteOn", deleteOn)
	return deleteOn, nil
}
