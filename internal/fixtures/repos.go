package fixtures

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/google/uuid"
)

// The repos below are only reached through UoW.Do, which already holds
// the store lock; they access the maps directly.

type accountRepo struct{ s *Store }

func (r accountRepo) Get(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	if a, ok := r.s.accounts[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r accountRepo) Create(_ context.Context, account *domain.Account) error {
	r.s.accounts[account.ID] = *account
	return nil
}

func (r accountRepo) SetDeleteOn(_ context.Context, id uuid.UUID, deleteOn time.Time) error {
	if a, ok := r.s.accounts[id]; ok {
		a.DeleteOn = &deleteOn
		r.s.accounts[id] = a
	}
	return nil
}

type memberRepo struct{ s *Store }

func (r memberRepo) Get(_ context.Context, accountID, userID uuid.UUID) (*domain.AccountUser, error) {
	if m, ok := r.s.members[memberKey{accountID, userID}]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r memberRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]domain.AccountUser, error) {
	var members []domain.AccountUser
	for _, m := range r.s.members {
		if m.AccountID == accountID {
			members = append(members, m)
		}
	}
	return members, nil
}

func (r memberRepo) Upsert(_ context.Context, member *domain.AccountUser) error {
	r.s.members[memberKey{member.AccountID, member.UserID}] = *member
	return nil
}

func (r memberRepo) SetVerified(_ context.Context, accountID, userID uuid.UUID, verified bool) error {
	key := memberKey{accountID, userID}
	if m, ok := r.s.members[key]; ok {
		m.Verified = verified
		r.s.members[key] = m
	}
	return nil
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) Get(_ context.Context, accountID, id uuid.UUID) (*domain.Category, error) {
	if c, ok := r.s.categories[id]; ok && c.AccountID == accountID {
		return &c, nil
	}
	return nil, nil
}

func (r categoryRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]domain.Category, error) {
	return r.s.categoriesLocked(accountID), nil
}

func (r categoryRepo) FindByNameFold(_ context.Context, accountID uuid.UUID, name string) (*domain.Category, error) {
	for _, c := range r.s.categories {
		if c.AccountID == accountID && strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r categoryRepo) MaxOrder(_ context.Context, accountID uuid.UUID) (int, error) {
	max := 0
	for _, c := range r.s.categories {
		if c.AccountID == accountID && c.Order > max {
			max = c.Order
		}
	}
	return max, nil
}

func (r categoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.s.categories[category.ID] = *category
	return nil
}

func (r categoryRepo) Update(_ context.Context, accountID, id uuid.UUID, update repository.CategoryUpdate) (bool, error) {
	c, ok := r.s.categories[id]
	if !ok || c.AccountID != accountID {
		return false, nil
	}
	if update.Name != nil {
		c.Name = *update.Name
	}
	if update.Balance != nil {
		c.Balance = *update.Balance
	}
	if update.RefillValue != nil {
		c.RefillValue = *update.RefillValue
	}
	r.s.categories[id] = c
	return true, nil
}

func (r categoryRepo) SetOrder(_ context.Context, accountID, id uuid.UUID, order int) (bool, error) {
	c, ok := r.s.categories[id]
	if !ok || c.AccountID != accountID {
		return false, nil
	}
	c.Order = order
	r.s.categories[id] = c
	return true, nil
}

func (r categoryRepo) ShiftOrdersAfter(_ context.Context, accountID uuid.UUID, after int) error {
	for id, c := range r.s.categories {
		if c.AccountID == accountID && c.Order > after {
			c.Order--
			r.s.categories[id] = c
		}
	}
	return nil
}

func (r categoryRepo) Delete(_ context.Context, accountID, id uuid.UUID) error {
	if c, ok := r.s.categories[id]; ok && c.AccountID == accountID {
		delete(r.s.categories, id)
	}
	return nil
}

func (r categoryRepo) AddBalance(_ context.Context, id uuid.UUID, delta int64) error {
	if c, ok := r.s.categories[id]; ok {
		c.Balance += delta
		r.s.categories[id] = c
	}
	return nil
}

func (r categoryRepo) AddRefillToBalances(_ context.Context, accountID uuid.UUID) error {
	for id, c := range r.s.categories {
		if c.AccountID == accountID {
			c.Balance += c.RefillValue
			r.s.categories[id] = c
		}
	}
	return nil
}

type transactionRepo struct{ s *Store }

func (r transactionRepo) CreateBatch(_ context.Context, txs []*domain.Transaction) error {
	for _, tx := range txs {
		r.s.nextTxID++
		tx.ID = r.s.nextTxID
		r.s.transactions[tx.ID] = *tx
	}
	return nil
}

func (r transactionRepo) ListByIDs(_ context.Context, ids []int64) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for _, id := range ids {
		if tx, ok := r.s.transactions[id]; ok {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

func (r transactionRepo) DeleteByIDs(_ context.Context, ids []int64) error {
	for _, id := range ids {
		delete(r.s.transactions, id)
	}
	return nil
}

func (r transactionRepo) List(_ context.Context, accountID uuid.UUID, q repository.TransactionQuery) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for _, tx := range r.s.transactions {
		if tx.AccountID == accountID && matchesAll(tx, q.Filters) {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })

	start := q.PageIdx * q.PageSize
	if start >= len(txs) {
		return nil, nil
	}
	end := start + q.PageSize
	if end > len(txs) {
		end = len(txs)
	}
	return txs[start:end], nil
}

func (r transactionRepo) SumByCategory(_ context.Context, accountID uuid.UUID) (map[uuid.UUID]int64, error) {
	sums := map[uuid.UUID]int64{}
	for _, tx := range r.s.transactions {
		if tx.AccountID == accountID {
			sums[tx.CategoryID] += tx.Amount
		}
	}
	return sums, nil
}

func matchesAll(tx domain.Transaction, filters []domain.TransactionFilter) bool {
	for _, f := range filters {
		switch {
		case f.CategoryEq != nil:
			if tx.CategoryID != *f.CategoryEq {
				return false
			}
		case f.Amount != nil:
			if !matchesAmount(tx.Amount, f.Amount) {
				return false
			}
		}
	}
	return true
}

func matchesAmount(amount int64, f *domain.AmountFilter) bool {
	switch f.Cmp {
	case domain.CmpLt:
		return amount < f.Value
	case domain.CmpLte:
		return amount <= f.Value
	case domain.CmpEq:
		return amount == f.Value
	case domain.CmpGte:
		return amount >= f.Value
	case domain.CmpGt:
		return amount > f.Value
	}
	return false
}

type userRepo struct{ s *Store }

func (r userRepo) Get(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Update(_ context.Context, id uuid.UUID, update repository.UserUpdate) (bool, error) {
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	r.s.users[id] = u
	return true, nil
}

func (r userRepo) SetEmailVerified(_ context.Context, id uuid.UUID, verified bool) error {
	if u, ok := r.s.users[id]; ok {
		u.EmailVerified = verified
		r.s.users[id] = u
	}
	return nil
}

func (r userRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.users, id)
	return nil
}

type validationRepo struct{ s *Store }

func (r validationRepo) Create(_ context.Context, v *domain.Validation) error {
	r.s.validations[v.ID] = *v
	return nil
}

func (r validationRepo) GetByToken(_ context.Context, token string) (*domain.Validation, error) {
	for _, v := range r.s.validations {
		if v.Token == token {
			return &v, nil
		}
	}
	return nil, nil
}

func (r validationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.validations, id)
	return nil
}
