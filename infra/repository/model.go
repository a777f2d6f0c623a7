// Package repository implements the data-access contracts of
// pkg/repository on gorm/postgres, together with the transactional
// UnitOfWork that binds them into one atomic unit.
package repository

import (
	"time"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/google/uuid"
)

// Account is the accounts table row.
type Account struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"size:100;not null"`
	DeleteOn *time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string { return "accounts" }

// AccountUser is the composite-keyed membership row. Role is stored as
// its string form and parsed back into the ordered enum on read.
type AccountUser struct {
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"size:10;not null"`
	Verified  bool      `gorm:"not null;default:false"`
}

// TableName specifies the table name for the AccountUser model.
func (AccountUser) TableName() string { return "account_users" }

// User is the users table row.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"size:100;not null;uniqueIndex"`
	Name          string    `gorm:"size:100"`
	PasswordHash  string    `gorm:"not null"`
	EmailVerified bool      `gorm:"not null;default:false"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string { return "users" }

// Category is the categories table row. Order is quoted since "order"
// is a reserved word.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"size:100;not null"`
	Balance     int64     `gorm:"not null;default:0"`
	RefillValue int64     `gorm:"not null;default:0"`
	Order       int       `gorm:"column:order;not null"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string { return "categories" }

// Transaction is the transactions table row. IDs are sequential.
type Transaction struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	AccountID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid"`
	CategoryID uuid.UUID `gorm:"type:uuid;index"`
	Timestamp  time.Time `gorm:"not null"`
	Amount     int64     `gorm:"not null"`
	Notes      string
	IsRefill   bool `gorm:"not null;default:false"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string { return "transactions" }

// Validation is the validations table row.
type Validation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token      string    `gorm:"size:64;not null;uniqueIndex"`
	Context    []byte    `gorm:"not null"`
	ValidUntil time.Time `gorm:"not null"`
}

// TableName specifies the table name for the Validation model.
func (Validation) TableName() string { return "validations" }

func toDomainAccount(m *Account) *domain.Account {
	return &domain.Account{ID: m.ID, Name: m.Name, DeleteOn: m.DeleteOn}
}

func toDomainAccountUser(m *AccountUser) (*domain.AccountUser, error) {
	role, err := domain.ParseRole(m.Role)
	if err != nil {
		return nil, err
	}
	return &domain.AccountUser{
		AccountID: m.AccountID,
		UserID:    m.UserID,
		Role:      role,
		Verified:  m.Verified,
	}, nil
}

func toDomainUser(m *User) *domain.User {
	return &domain.User{
		ID:            m.ID,
		Email:         m.Email,
		Name:          m.Name,
		PasswordHash:  m.PasswordHash,
		EmailVerified: m.EmailVerified,
	}
}

func toDomainCategory(m *Category) *domain.Category {
	return &domain.Category{
		ID:          m.ID,
		AccountID:   m.AccountID,
		Name:        m.Name,
		Balance:     m.Balance,
		RefillValue: m.RefillValue,
		Order:       m.Order,
	}
}

func toDomainTransaction(m *Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:         m.ID,
		AccountID:  m.AccountID,
		UserID:     m.UserID,
		CategoryID: m.CategoryID,
		Timestamp:  m.Timestamp,
		Amount:     m.Amount,
		Notes:      m.Notes,
		IsRefill:   m.IsRefill,
	}
}

func toDomainValidation(m *Validation) *domain.Validation {
	return &domain.Validation{
		ID:         m.ID,
		Token:      m.Token,
		Context:    m.Context,
		ValidUntil: m.ValidUntil,
	}
}
