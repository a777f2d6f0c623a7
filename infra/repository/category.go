package repository

import (
	"context"
	"errors"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func (r *categoryRepository) Get(ctx context.Context, accountID, id uuid.UUID) (*domain.Category, error) {
	var m Category
	err := r.db.WithContext(ctx).
		First(&m, "id = ? AND account_id = ?", id, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&m), nil
}

func (r *categoryRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Category, error) {
	var rows []Category
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order(`"order" ASC`).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	cats := make([]domain.Category, 0, len(rows))
	for i := range rows {
		cats = append(cats, *toDomainCategory(&rows[i]))
	}
	return cats, nil
}

func (r *categoryRepository) FindByNameFold(ctx context.Context, accountID uuid.UUID, name string) (*domain.Category, error) {
	var m Category
	err := r.db.WithContext(ctx).
		First(&m, "account_id = ? AND lower(name) = lower(?)", accountID, name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&m), nil
}

func (r *categoryRepository) MaxOrder(ctx context.Context, accountID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&Category{}).
		Where("account_id = ?", accountID).
		Select(`COALESCE(MAX("order"), 0)`).
		Scan(&max).Error
	return max, err
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m := Category{
		ID:          category.ID,
		AccountID:   category.AccountID,
		Name:        category.Name,
		Balance:     category.Balance,
		RefillValue: category.RefillValue,
		Order:       category.Order,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *categoryRepository) Update(ctx context.Context, accountID, id uuid.UUID, update repository.CategoryUpdate) (bool, error) {
	columns := make(map[string]any)
	if update.Name != nil {
		columns["name"] = *update.Name
	}
	if update.Balance != nil {
		columns["balance"] = *update.Balance
	}
	if update.RefillValue != nil {
		columns["refill_value"] = *update.RefillValue
	}
	if len(columns) == 0 {
		cat, err := r.Get(ctx, accountID, id)
		return cat != nil, err
	}
	res := r.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ? AND account_id = ?", id, accountID).
		UpdateColumns(columns)
	return res.RowsAffected > 0, res.Error
}

func (r *categoryRepository) SetOrder(ctx context.Context, accountID, id uuid.UUID, order int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ? AND account_id = ?", id, accountID).
		UpdateColumn("order", order)
	return res.RowsAffected > 0, res.Error
}

func (r *categoryRepository) ShiftOrdersAfter(ctx context.Context, accountID uuid.UUID, after int) error {
	return r.db.WithContext(ctx).
		Model(&Category{}).
		Where(`account_id = ? AND "order" > ?`, accountID, after).
		UpdateColumn("order", gorm.Expr(`"order" - 1`)).Error
}

func (r *categoryRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&Category{}).Error
}

func (r *categoryRepository) AddBalance(ctx context.Context, id uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ?", id).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta)).Error
}

func (r *categoryRepository) AddRefillToBalances(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Category{}).
		Where("account_id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + refill_value")).Error
}
