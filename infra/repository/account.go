package repository

import (
	"context"
	"errors"
	"time"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainAccount(&m), nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	m := Account{ID: account.ID, Name: account.Name, DeleteOn: account.DeleteOn}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *accountRepository) SetDeleteOn(ctx context.Context, id uuid.UUID, deleteOn time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		UpdateColumn("delete_on", deleteOn).Error
}

type accountUserRepository struct {
	db *gorm.DB
}

func (r *accountUserRepository) Get(ctx context.Context, accountID, userID uuid.UUID) (*domain.AccountUser, error) {
	var m AccountUser
	err := r.db.WithContext(ctx).
		First(&m, "account_id = ? AND user_id = ?", accountID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainAccountUser(&m)
}

func (r *accountUserRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.AccountUser, error) {
	var rows []AccountUser
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	members := make([]domain.AccountUser, 0, len(rows))
	for i := range rows {
		member, err := toDomainAccountUser(&rows[i])
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, nil
}

func (r *accountUserRepository) Upsert(ctx context.Context, member *domain.AccountUser) error {
	m := AccountUser{
		AccountID: member.AccountID,
		UserID:    member.UserID,
		Role:      member.Role.String(),
		Verified:  member.Verified,
	}
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *accountUserRepository) SetVerified(ctx context.Context, accountID, userID uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&AccountUser{}).
		Where("account_id = ? AND user_id = ?", accountID, userID).
		UpdateColumn("verified", verified).Error
}
