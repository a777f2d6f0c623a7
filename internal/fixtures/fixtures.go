// Package fixtures provides in-memory collaborators for service tests:
// a rollback-capable UnitOfWork over an in-memory store, a fixed clock,
// a scripted currency converter and a deterministic token source.
package fixtures

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/google/uuid"
)

type memberKey struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
}

// Store is an in-memory database. All access goes through UoW so a
// failed unit of work restores the previous state, mirroring a real
// transaction rollback.
type Store struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]domain.Account
	members      map[memberKey]domain.AccountUser
	users        map[uuid.UUID]domain.User
	categories   map[uuid.UUID]domain.Category
	transactions map[int64]domain.Transaction
	validations  map[uuid.UUID]domain.Validation
	nextTxID     int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     map[uuid.UUID]domain.Account{},
		members:      map[memberKey]domain.AccountUser{},
		users:        map[uuid.UUID]domain.User{},
		categories:   map[uuid.UUID]domain.Category{},
		transactions: map[int64]domain.Transaction{},
		validations:  map[uuid.UUID]domain.Validation{},
	}
}

// SeedMember records a membership row directly, bypassing services.
func (s *Store) SeedMember(accountID, userID uuid.UUID, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[memberKey{accountID, userID}] = domain.AccountUser{
		AccountID: accountID, UserID: userID, Role: role,
	}
}

// SeedUser records a user row directly.
func (s *Store) SeedUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// SeedCategory records a category row directly.
func (s *Store) SeedCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// Category returns a copy of the category row.
func (s *Store) Category(id uuid.UUID) (domain.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	return c, ok
}

// Categories returns the account's categories sorted by display order.
func (s *Store) Categories(accountID uuid.UUID) []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoriesLocked(accountID)
}

func (s *Store) categoriesLocked(accountID uuid.UUID) []domain.Category {
	var cats []domain.Category
	for _, c := range s.categories {
		if c.AccountID == accountID {
			cats = append(cats, c)
		}
	}
	for i := 1; i < len(cats); i++ {
		for j := i; j > 0 && cats[j-1].Order > cats[j].Order; j-- {
			cats[j-1], cats[j] = cats[j], cats[j-1]
		}
	}
	return cats
}

// Transactions returns all transaction rows in insertion order.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := make([]domain.Transaction, 0, len(s.transactions))
	for id := int64(1); id <= s.nextTxID; id++ {
		if tx, ok := s.transactions[id]; ok {
			txs = append(txs, tx)
		}
	}
	return txs
}

// SumByCategory recomputes per-category transaction sums from scratch,
// independent of the maintained balances.
func (s *Store) SumByCategory(accountID uuid.UUID) map[uuid.UUID]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := map[uuid.UUID]int64{}
	for _, tx := range s.transactions {
		if tx.AccountID == accountID {
			sums[tx.CategoryID] += tx.Amount
		}
	}
	return sums
}

// User returns a copy of the user row.
func (s *Store) User(id uuid.UUID) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// Member returns a copy of the membership row.
func (s *Store) Member(accountID, userID uuid.UUID) (domain.AccountUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberKey{accountID, userID}]
	return m, ok
}

// Account returns a copy of the account row.
func (s *Store) Account(id uuid.UUID) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	return a, ok
}

// ValidationCount reports how many token rows exist.
func (s *Store) ValidationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.validations)
}

func (s *Store) snapshot() *Store {
	clone := NewStore()
	for k, v := range s.accounts {
		clone.accounts[k] = v
	}
	for k, v := range s.members {
		clone.members[k] = v
	}
	for k, v := range s.users {
		clone.users[k] = v
	}
	for k, v := range s.categories {
		clone.categories[k] = v
	}
	for k, v := range s.transactions {
		clone.transactions[k] = v
	}
	for k, v := range s.validations {
		clone.validations[k] = v
	}
	clone.nextTxID = s.nextTxID
	return clone
}

func (s *Store) restore(snap *Store) {
	s.accounts = snap.accounts
	s.members = snap.members
	s.users = snap.users
	s.categories = snap.categories
	s.transactions = snap.transactions
	s.validations = snap.validations
	s.nextTxID = snap.nextTxID
}

// UoW is a repository.UnitOfWork over a Store. A failed Do restores the
// state captured at entry, like a rolled-back transaction.
type UoW struct {
	store *Store
}

// NewUoW creates a UnitOfWork for the store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn, restoring the store on error.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	snap := u.store.snapshot()
	if err := fn(u); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// AccountRepository implements repository.UnitOfWork.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return accountRepo{u.store}, nil
}

// AccountUserRepository implements repository.UnitOfWork.
func (u *UoW) AccountUserRepository() (repository.AccountUserRepository, error) {
	return memberRepo{u.store}, nil
}

// CategoryRepository implements repository.UnitOfWork.
func (u *UoW) CategoryRepository() (repository.CategoryRepository, error) {
	return categoryRepo{u.store}, nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return transactionRepo{u.store}, nil
}

// UserRepository implements repository.UnitOfWork.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return userRepo{u.store}, nil
}

// ValidationRepository implements repository.UnitOfWork.
func (u *UoW) ValidationRepository() (repository.ValidationRepository, error) {
	return validationRepo{u.store}, nil
}

// FixedClock always reports the same instant until advanced.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock pinned to now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the pinned instant forward.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StaticConverter converts with fixed rates keyed by "FROM:TO". Pairs
// without a rate fail, which doubles as a conversion-failure script.
type StaticConverter struct {
	Rates map[string]float64
}

// Convert is the identity for equal codes, floor(rate*amount) otherwise.
func (c *StaticConverter) Convert(ctx context.Context, from, to string, amount int64) (int64, error) {
	if from == to {
		return amount, nil
	}
	rate, ok := c.Rates[from+":"+to]
	if !ok {
		return 0, fmt.Errorf("no rate for %s:%s", from, to)
	}
	// floor via int64 conversion is wrong for negatives; mirror the
	// production floor behavior explicitly.
	v := rate * float64(amount)
	n := int64(v)
	if float64(n) > v {
		n--
	}
	return n, nil
}

// SeqTokens hands out deterministic tokens token-1, token-2, ...
type SeqTokens struct {
	mu sync.Mutex
	n  int
}

// RandomToken returns the next token in the sequence.
func (t *SeqTokens) RandomToken(_ int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n++
	return fmt.Sprintf("token-%d", t.n), nil
}

// PlainHasher is a transparent PasswordHasher for tests.
type PlainHasher struct{}

// Hash prefixes the password so tests can assert hashing happened.
func (PlainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

// Compare matches against the transparent hash format.
func (PlainHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }
