package ledger_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/budgetd/budgetd/internal/fixtures"
	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/budgetd/budgetd/pkg/service/category"
	"github.com/budgetd/budgetd/pkg/service/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type env struct {
	svc       *ledger.Service
	store     *fixtures.Store
	clock     *fixtures.FixedClock
	userID    uuid.UUID
	accountID uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := fixtures.NewStore()
	clock := fixtures.NewFixedClock(testNow)
	userID, accountID := uuid.New(), uuid.New()
	store.SeedMember(accountID, userID, domain.RoleWrite)
	converter := &fixtures.StaticConverter{Rates: map[string]float64{
		"CAD:USD": 0.5,
		"EUR:USD": 1.1,
	}}
	svc := ledger.New(fixtures.NewUoW(store), converter, clock, slog.Default())
	return &env{svc: svc, store: store, clock: clock, userID: userID, accountID: accountID}
}

func (e *env) seedCategory(t *testing.T, name string, balance, refill int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	e.store.SeedCategory(domain.Category{
		ID:          id,
		AccountID:   e.accountID,
		Name:        name,
		Balance:     balance,
		RefillValue: refill,
		Order:       len(e.store.Categories(e.accountID)) + 1,
	})
	return id
}

// assertBalancesMatchTransactions recomputes per-category sums from the
// transaction rows and compares them against the maintained balances,
// net of their seeded starting values.
func assertBalancesMatchTransactions(t *testing.T, store *fixtures.Store, accountID uuid.UUID, seeded map[uuid.UUID]int64) {
	t.Helper()
	sums := store.SumByCategory(accountID)
	for _, cat := range store.Categories(accountID) {
		assert.Equal(t, seeded[cat.ID]+sums[cat.ID], cat.Balance,
			"balance drift on category %q", cat.Name)
	}
}

func TestCreateTransactions_ConvertsAndAggregates(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	catID := e.seedCategory(t, "Groceries", 0, 0)

	// 1000 CAD at rate 0.5 stores 500 USD minor units.
	err := e.svc.CreateTransactions(context.Background(), e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: catID, Currency: "CAD", Amount: 1000, Notes: "maple syrup"},
	})
	require.NoError(t, err)

	txs := e.store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, int64(500), txs[0].Amount)
	assert.Equal(t, testNow, txs[0].Timestamp)
	assert.False(t, txs[0].IsRefill)
	assert.Equal(t, "maple syrup", txs[0].Notes)

	cat, _ := e.store.Category(catID)
	assert.Equal(t, int64(500), cat.Balance)
}

func TestCreateTransactions_USDIsIdentity(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	catID := e.seedCategory(t, "Groceries", 100, 0)

	err := e.svc.CreateTransactions(context.Background(), e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: catID, Currency: "USD", Amount: -250},
	})
	require.NoError(t, err)

	cat, _ := e.store.Category(catID)
	assert.Equal(t, int64(-150), cat.Balance)
}

func TestCreateTransactions_BatchAccumulatesPerCategory(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	groceries := e.seedCategory(t, "Groceries", 0, 0)
	rent := e.seedCategory(t, "Rent", 0, 0)

	err := e.svc.CreateTransactions(context.Background(), e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: groceries, Currency: "USD", Amount: 100},
		{CategoryID: groceries, Currency: "CAD", Amount: 1000},
		{CategoryID: rent, Currency: "USD", Amount: -2000},
	})
	require.NoError(t, err)

	g, _ := e.store.Category(groceries)
	r, _ := e.store.Category(rent)
	assert.Equal(t, int64(600), g.Balance)
	assert.Equal(t, int64(-2000), r.Balance)
	assert.Len(t, e.store.Transactions(), 3)
}

func TestCreateTransactions_ConversionFloorTruncates(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	catID := e.seedCategory(t, "Groceries", 0, 0)

	// 101 EUR * 1.1 = 111.1, floored to 111.
	err := e.svc.CreateTransactions(context.Background(), e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: catID, Currency: "EUR", Amount: 101},
	})
	require.NoError(t, err)

	cat, _ := e.store.Category(catID)
	assert.Equal(t, int64(111), cat.Balance)
}

func TestCreateTransactions_ConversionFailureWritesNothing(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	catID := e.seedCategory(t, "Groceries", 0, 0)

	err := e.svc.CreateTransactions(context.Background(), e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: catID, Currency: "USD", Amount: 100},
		{CategoryID: catID, Currency: "GBP", Amount: 100}, // no rate scripted
	})
	require.Error(t, err)

	assert.Empty(t, e.store.Transactions())
	cat, _ := e.store.Category(catID)
	assert.Equal(t, int64(0), cat.Balance)
}

func TestCreateTransactions_RequiresWrite(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	catID := e.seedCategory(t, "Groceries", 0, 0)
	reader := uuid.New()
	e.store.SeedMember(e.accountID, reader, domain.RoleRead)

	err := e.svc.CreateTransactions(context.Background(), reader, e.accountID, []ledger.CreateInput{
		{CategoryID: catID, Currency: "USD", Amount: 100},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, e.store.Transactions())
}

func TestDeleteTransactions_RevertsBalances(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	catID := e.seedCategory(t, "Groceries", 0, 0)
	ctx := context.Background()

	require.NoError(t, e.svc.CreateTransactions(ctx, e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: catID, Currency: "USD", Amount: 300},
		{CategoryID: catID, Currency: "USD", Amount: 200},
	}))
	txs := e.store.Transactions()
	require.Len(t, txs, 2)

	require.NoError(t, e.svc.DeleteTransactions(ctx, e.userID, e.accountID, []int64{txs[0].ID}))

	cat, _ := e.store.Category(catID)
	assert.Equal(t, int64(200), cat.Balance)
	assert.Len(t, e.store.Transactions(), 1)
}

func TestDeleteTransactions_ForeignAccount_NothingChanges(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	catID := e.seedCategory(t, "Groceries", 0, 0)
	ctx := context.Background()

	require.NoError(t, e.svc.CreateTransactions(ctx, e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: catID, Currency: "USD", Amount: 300},
	}))

	// A second account with its own transaction.
	otherAccount := uuid.New()
	e.store.SeedMember(otherAccount, e.userID, domain.RoleWrite)
	otherCat := uuid.New()
	e.store.SeedCategory(domain.Category{ID: otherCat, AccountID: otherAccount, Name: "Other", Order: 1})
	require.NoError(t, e.svc.CreateTransactions(ctx, e.userID, otherAccount, []ledger.CreateInput{
		{CategoryID: otherCat, Currency: "USD", Amount: 900},
	}))

	txs := e.store.Transactions()
	require.Len(t, txs, 2)

	// Delete the foreign transaction through the first account.
	err := e.svc.DeleteTransactions(ctx, e.userID, e.accountID, []int64{txs[1].ID})
	var notOwned *domain.TransactionNotOwnedError
	require.ErrorAs(t, err, &notOwned)
	assert.Equal(t, e.accountID, notOwned.AccountID)
	assert.Equal(t, txs[1].ID, notOwned.TransactionID)

	// Balances untouched on both sides.
	cat, _ := e.store.Category(catID)
	other, _ := e.store.Category(otherCat)
	assert.Equal(t, int64(300), cat.Balance)
	assert.Equal(t, int64(900), other.Balance)
	assert.Len(t, e.store.Transactions(), 2)
}

func TestDeleteTransactions_UnknownID(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	catID := e.seedCategory(t, "Groceries", 0, 0)
	ctx := context.Background()

	require.NoError(t, e.svc.CreateTransactions(ctx, e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: catID, Currency: "USD", Amount: 300},
	}))

	err := e.svc.DeleteTransactions(ctx, e.userID, e.accountID, []int64{9999})
	var notOwned *domain.TransactionNotOwnedError
	require.ErrorAs(t, err, &notOwned)
	assert.Equal(t, int64(9999), notOwned.TransactionID)

	cat, _ := e.store.Category(catID)
	assert.Equal(t, int64(300), cat.Balance)
}

// Balances equal the signed sum of live transactions after an arbitrary
// create/delete sequence, including categories created through the
// category service.
func TestBalanceInvariant_AfterCreateDeleteSequence(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	catSvc := category.New(fixtures.NewUoW(e.store), slog.Default())
	groceries, err := catSvc.Create(ctx, e.userID, e.accountID, category.CreateInput{Name: "Groceries"})
	require.NoError(t, err)
	rent, err := catSvc.Create(ctx, e.userID, e.accountID, category.CreateInput{Name: "Rent"})
	require.NoError(t, err)

	require.NoError(t, e.svc.CreateTransactions(ctx, e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: groceries.ID, Currency: "USD", Amount: 100},
		{CategoryID: rent.ID, Currency: "USD", Amount: -2000},
		{CategoryID: groceries.ID, Currency: "CAD", Amount: 999},
	}))
	require.NoError(t, e.svc.CreateTransactions(ctx, e.userID, e.accountID, []ledger.CreateInput{
		{CategoryID: rent.ID, Currency: "EUR", Amount: 41},
	}))

	txs := e.store.Transactions()
	require.Len(t, txs, 4)
	require.NoError(t, e.svc.DeleteTransactions(ctx, e.userID, e.accountID, []int64{txs[0].ID, txs[3].ID}))

	assertBalancesMatchTransactions(t, e.store, e.accountID, map[uuid.UUID]int64{})
}

func TestListTransactions_DefaultsAndFilters(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	groceries := e.seedCategory(t, "Groceries", 0, 0)
	rent := e.seedCategory(t, "Rent", 0, 0)
	ctx := context.Background()

	inputs := make([]ledger.CreateInput, 0, 20)
	for i := 0; i < 20; i++ {
		cat := groceries
		if i%2 == 1 {
			cat = rent
		}
		inputs = append(inputs, ledger.CreateInput{
			CategoryID: cat,
			Currency:   "USD",
			Amount:     int64(i+1) * 10,
		})
	}
	require.NoError(t, e.svc.CreateTransactions(ctx, e.userID, e.accountID, inputs))

	// Default page size is 15, page 0, insertion order.
	page, err := e.svc.ListTransactions(ctx, e.userID, e.accountID, repository.TransactionQuery{})
	require.NoError(t, err)
	require.Len(t, page, 15)
	assert.Equal(t, int64(10), page[0].Amount)

	// Second page holds the remainder.
	page, err = e.svc.ListTransactions(ctx, e.userID, e.accountID,
		repository.TransactionQuery{PageSize: 15, PageIdx: 1})
	require.NoError(t, err)
	assert.Len(t, page, 5)

	// Conjunction: groceries transactions of at least 100.
	page, err = e.svc.ListTransactions(ctx, e.userID, e.accountID, repository.TransactionQuery{
		Filters: []domain.TransactionFilter{
			domain.FilterByCategory(groceries),
			domain.FilterByAmount(domain.CmpGte, 100),
		},
	})
	require.NoError(t, err)
	for _, tx := range page {
		assert.Equal(t, groceries, tx.CategoryID)
		assert.GreaterOrEqual(t, tx.Amount, int64(100))
	}
	assert.Len(t, page, 5)

	// An empty page is not an error.
	page, err = e.svc.ListTransactions(ctx, e.userID, e.accountID, repository.TransactionQuery{
		Filters: []domain.TransactionFilter{domain.FilterByAmount(domain.CmpGt, 100000)},
	})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestListTransactions_RequiresRead(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	outsider := uuid.New()

	_, err := e.svc.ListTransactions(context.Background(), outsider, e.accountID,
		repository.TransactionQuery{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefill_CreditsEveryCategory(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	groceries := e.seedCategory(t, "Groceries", 50, 100)
	rent := e.seedCategory(t, "Rent", -500, 2000)

	require.NoError(t, e.svc.Refill(context.Background(), e.userID, e.accountID))

	g, _ := e.store.Category(groceries)
	r, _ := e.store.Category(rent)
	assert.Equal(t, int64(150), g.Balance)
	assert.Equal(t, int64(1500), r.Balance)

	txs := e.store.Transactions()
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.True(t, tx.IsRefill)
		assert.Equal(t, testNow, tx.Timestamp)
	}

	// Refill rows participate in the balance invariant.
	assertBalancesMatchTransactions(t, e.store, e.accountID, map[uuid.UUID]int64{
		groceries: 50,
		rent:      -500,
	})
}
