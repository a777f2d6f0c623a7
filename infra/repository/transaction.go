package repository

import (
	"context"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) CreateBatch(ctx context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	rows := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, Transaction{
			AccountID:  tx.AccountID,
			UserID:     tx.UserID,
			CategoryID: tx.CategoryID,
			Timestamp:  tx.Timestamp,
			Amount:     tx.Amount,
			Notes:      tx.Notes,
			IsRefill:   tx.IsRefill,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		txs[i].ID = rows[i].ID
	}
	return nil
}

func (r *transactionRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []Transaction
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

func (r *transactionRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&Transaction{}).Error
}

func (r *transactionRepository) List(ctx context.Context, accountID uuid.UUID, q repository.TransactionQuery) ([]domain.Transaction, error) {
	query := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("account_id = ?", accountID)

	for _, f := range q.Filters {
		query = applyFilter(query, f)
	}

	var rows []Transaction
	if err := query.
		Order("id ASC").
		Limit(q.PageSize).
		Offset(q.PageIdx * q.PageSize).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

func (r *transactionRepository) SumByCategory(ctx context.Context, accountID uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []struct {
		CategoryID uuid.UUID
		Total      int64
	}
	if err := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("account_id = ?", accountID).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sums := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		sums[row.CategoryID] = row.Total
	}
	return sums, nil
}

func applyFilter(query *gorm.DB, f domain.TransactionFilter) *gorm.DB {
	switch {
	case f.CategoryEq != nil:
		return query.Where("category_id = ?", *f.CategoryEq)
	case f.Amount != nil:
		switch f.Amount.Cmp {
		case domain.CmpLt:
			return query.Where("amount < ?", f.Amount.Value)
		case domain.CmpLte:
			return query.Where("amount <= ?", f.Amount.Value)
		case domain.CmpEq:
			return query.Where("amount = ?", f.Amount.Value)
		case domain.CmpGte:
			return query.Where("amount >= ?", f.Amount.Value)
		case domain.CmpGt:
			return query.Where("amount > ?", f.Amount.Value)
		}
	}
	return query
}

func toDomainTransactions(rows []Transaction) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, *toDomainTransaction(&rows[i]))
	}
	return txs
}
