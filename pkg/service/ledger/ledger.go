// Package ledger records and removes transactions while keeping each
// category's running balance equal to the signed sum of its live
// transactions. Balance changes are applied as additive updates inside
// the same atomic unit as the row changes they account for.
package ledger

import (
	"context"
	"log/slog"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/provider"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/budgetd/budgetd/pkg/service/authz"
	"github.com/google/uuid"
)

// DefaultPageSize is used by ListTransactions when no page size is given.
const DefaultPageSize = 15

// Service implements transaction recording, deletion, listing and refills.
type Service struct {
	uow       repository.UnitOfWork
	converter provider.CurrencyConverter
	clock     provider.Clock
	logger    *slog.Logger
}

// New creates a ledger Service.
func New(
	uow repository.UnitOfWork,
	converter provider.CurrencyConverter,
	clock provider.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, converter: converter, clock: clock, logger: logger}
}

// CreateInput is one transaction line of a create batch. Amount is in
// minor units of Currency and is converted to USD before storage.
type CreateInput struct {
	CategoryID uuid.UUID
	Currency   string
	Amount     int64
	Notes      string
}

// CreateTransactions converts, stages and writes a batch of
// transactions and applies each category's accumulated delta to its
// balance, all within one atomic unit. Requires Write.
//
// Conversion calls run sequentially before the atomic write phase opens
// so the transactional resource is never held across network latency; a
// conversion failure aborts the batch with nothing written.
func (s *Service) CreateTransactions(
	ctx context.Context,
	userID, accountID uuid.UUID,
	inputs []CreateInput,
) error {
	logger := s.logger.With("accountID", accountID, "userID", userID)

	totals := make(map[uuid.UUID]int64)
	staged := make([]*domain.Transaction, 0, len(inputs))
	for _, in := range inputs {
		amount, err := s.converter.Convert(ctx, in.Currency, provider.USDCurrency, in.Amount)
		if err != nil {
			logger.Error("currency conversion failed", "currency", in.Currency, "error", err)
			return err
		}
		totals[in.CategoryID] += amount
		staged = append(staged, &domain.Transaction{
			AccountID:  accountID,
			UserID:     userID,
			CategoryID: in.CategoryID,
			Timestamp:  s.clock.Now(),
			Amount:     amount,
			Notes:      in.Notes,
			IsRefill:   false,
		})
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleWrite); err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		catRepo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if err := txRepo.CreateBatch(ctx, staged); err != nil {
			return err
		}
		for catID, total := range totals {
			if err := catRepo.AddBalance(ctx, catID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("transactions created", "count", len(staged))
	return nil
}

// DeleteTransactions removes a batch of transactions and subtracts
// their amounts from the owning categories' balances, atomically.
// Requires Write. Every id must exist and belong to accountID;
// otherwise the call fails with TransactionNotOwnedError and nothing
// changes.
func (s *Service) DeleteTransactions(
	ctx context.Context,
	userID, accountID uuid.UUID,
	ids []int64,
) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleWrite); err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		catRepo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}

		txs, err := txRepo.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		loaded := make(map[int64]struct{}, len(txs))
		for _, tx := range txs {
			if tx.AccountID != accountID {
				return &domain.TransactionNotOwnedError{AccountID: accountID, TransactionID: tx.ID}
			}
			loaded[tx.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := loaded[id]; !ok {
				return &domain.TransactionNotOwnedError{AccountID: accountID, TransactionID: id}
			}
		}

		totals := make(map[uuid.UUID]int64)
		deleteIDs := make([]int64, 0, len(txs))
		for _, tx := range txs {
			totals[tx.CategoryID] += tx.Amount
			deleteIDs = append(deleteIDs, tx.ID)
		}
		for catID, total := range totals {
			if err := catRepo.AddBalance(ctx, catID, -total); err != nil {
				return err
			}
		}
		return txRepo.DeleteByIDs(ctx, deleteIDs)
	})
}

// ListTransactions returns one page of the account's transactions after
// applying the query's filters. Requires Read. Missing page settings
// default to page 0 with DefaultPageSize entries; an empty result is
// not an error.
func (s *Service) ListTransactions(
	ctx context.Context,
	userID, accountID uuid.UUID,
	q repository.TransactionQuery,
) (txs []domain.Transaction, err error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageIdx < 0 {
		q.PageIdx = 0
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleRead); err != nil {
			return err
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.List(ctx, accountID, q)
		return err
	})
	if err != nil {
		txs = nil
	}
	return
}

// Refill records one refill transaction per category, each for the
// category's refill value, and adds the refill values to the balances,
// all in one atomic unit. Requires Write.
func (s *Service) Refill(ctx context.Context, userID, accountID uuid.UUID) error {
	now := s.clock.Now()
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleWrite); err != nil {
			return err
		}
		catRepo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		cats, err := catRepo.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if len(cats) == 0 {
			return nil
		}
		staged := make([]*domain.Transaction, 0, len(cats))
		for _, cat := range cats {
			staged = append(staged, &domain.Transaction{
				AccountID:  accountID,
				UserID:     userID,
				CategoryID: cat.ID,
				Timestamp:  now,
				Amount:     cat.RefillValue,
				IsRefill:   true,
			})
		}
		if err := txRepo.CreateBatch(ctx, staged); err != nil {
			return err
		}
		return catRepo.AddRefillToBalances(ctx, accountID)
	})
}
