package repository

import (
	"context"

	"github.com/budgetd/budgetd/pkg/repository"
	"gorm.io/gorm"
)

// UoW implements repository.UnitOfWork on a gorm transaction. All
// repositories handed out inside Do share the transaction session, so
// their statements commit or roll back together; an error returned from
// the callback rolls the whole unit back.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UnitOfWork for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside one database transaction, providing a UoW whose
// repositories are bound to that transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// session returns the transaction when inside Do, the bare connection
// otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository returns an account repository bound to this unit.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{db: u.session()}, nil
}

// AccountUserRepository returns a membership repository bound to this unit.
func (u *UoW) AccountUserRepository() (repository.AccountUserRepository, error) {
	return &accountUserRepository{db: u.session()}, nil
}

// CategoryRepository returns a category repository bound to this unit.
func (u *UoW) CategoryRepository() (repository.CategoryRepository, error) {
	return &categoryRepository{db: u.session()}, nil
}

// TransactionRepository returns a transaction repository bound to this unit.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepository{db: u.session()}, nil
}

// UserRepository returns a user repository bound to this unit.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return &userRepository{db: u.session()}, nil
}

// ValidationRepository returns a validation repository bound to this unit.
func (u *UoW) ValidationRepository() (repository.ValidationRepository, error) {
	return &validationRepository{db: u.session()}, nil
}
