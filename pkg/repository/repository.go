// Package repository defines the data-access contracts consumed by the
// services, together with the UnitOfWork that groups them into one
// atomic unit. Implementations live in infra/repository.
package repository

import (
	"context"
	"time"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/google/uuid"
)

// UnitOfWork runs a function inside one atomic transaction boundary and
// hands out repositories bound to that transaction. All statements made
// through repositories obtained from the callback's UnitOfWork commit or
// roll back together; an error from fn rolls everything back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	AccountUserRepository() (AccountUserRepository, error)
	CategoryRepository() (CategoryRepository, error)
	TransactionRepository() (TransactionRepository, error)
	UserRepository() (UserRepository, error)
	ValidationRepository() (ValidationRepository, error)
}

// AccountRepository persists accounts.
//
// Lookup methods return (nil, nil) when no row matches; absence is a
// value, not a fault.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	SetDeleteOn(ctx context.Context, id uuid.UUID, deleteOn time.Time) error
}

// AccountUserRepository persists (account, user) membership rows.
type AccountUserRepository interface {
	Get(ctx context.Context, accountID, userID uuid.UUID) (*domain.AccountUser, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.AccountUser, error)
	Upsert(ctx context.Context, member *domain.AccountUser) error
	SetVerified(ctx context.Context, accountID, userID uuid.UUID, verified bool) error
}

// CategoryUpdate is a sparse category update; nil fields are untouched.
type CategoryUpdate struct {
	Name        *string
	Balance     *int64
	RefillValue *int64
}

// CategoryRepository persists budget categories.
type CategoryRepository interface {
	Get(ctx context.Context, accountID, id uuid.UUID) (*domain.Category, error)
	// ListByAccount returns the account's categories ordered by display order.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Category, error)
	// FindByNameFold matches name case-insensitively within the account.
	FindByNameFold(ctx context.Context, accountID uuid.UUID, name string) (*domain.Category, error)
	MaxOrder(ctx context.Context, accountID uuid.UUID) (int, error)
	Create(ctx context.Context, category *domain.Category) error
	// Update applies a sparse update. Reports whether a row matched.
	Update(ctx context.Context, accountID, id uuid.UUID, update CategoryUpdate) (bool, error)
	// SetOrder assigns a display order. Reports whether a row matched.
	SetOrder(ctx context.Context, accountID, id uuid.UUID, order int) (bool, error)
	// ShiftOrdersAfter decrements the order of every category in the
	// account whose order is strictly greater than after.
	ShiftOrdersAfter(ctx context.Context, accountID uuid.UUID, after int) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	// AddBalance applies an additive delta as a single conditional
	// update (balance = balance + delta), never read-then-write.
	AddBalance(ctx context.Context, id uuid.UUID, delta int64) error
	// AddRefillToBalances adds each category's refill value to its own
	// balance across the whole account.
	AddRefillToBalances(ctx context.Context, accountID uuid.UUID) error
}

// TransactionQuery narrows and paginates a transaction listing.
type TransactionQuery struct {
	Filters  []domain.TransactionFilter
	PageSize int
	PageIdx  int
}

// TransactionRepository persists ledger transactions.
type TransactionRepository interface {
	CreateBatch(ctx context.Context, txs []*domain.Transaction) error
	// ListByIDs returns the rows matching ids, in no particular order.
	// Missing ids are simply absent from the result.
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Transaction, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
	// List returns one page of the account's transactions in insertion
	// order, after applying the query's filters.
	List(ctx context.Context, accountID uuid.UUID, q TransactionQuery) ([]domain.Transaction, error)
	// SumByCategory returns the signed sum of live transaction amounts
	// per category for the account.
	SumByCategory(ctx context.Context, accountID uuid.UUID) (map[uuid.UUID]int64, error)
}

// UserUpdate is a sparse user update; nil fields are untouched.
type UserUpdate struct {
	Email        *string
	Name         *string
	PasswordHash *string
}

// UserRepository persists users.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	// Update applies a sparse update. Reports whether a row matched.
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) (bool, error)
	SetEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ValidationRepository persists pending validation tokens.
type ValidationRepository interface {
	Create(ctx context.Context, v *domain.Validation) error
	GetByToken(ctx context.Context, token string) (*domain.Validation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
