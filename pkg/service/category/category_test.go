package category_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/budgetd/budgetd/internal/fixtures"
	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/budgetd/budgetd/pkg/service/category"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*category.Service, *fixtures.Store, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := fixtures.NewStore()
	userID, accountID := uuid.New(), uuid.New()
	store.SeedMember(accountID, userID, domain.RoleWrite)
	svc := category.New(fixtures.NewUoW(store), slog.Default())
	return svc, store, userID, accountID
}

// assertDenseOrder checks the account's order values form 1..N.
func assertDenseOrder(t *testing.T, store *fixtures.Store, accountID uuid.UUID) {
	t.Helper()
	cats := store.Categories(accountID)
	for i, cat := range cats {
		assert.Equal(t, i+1, cat.Order, "category %q out of sequence", cat.Name)
	}
}

func TestCreate_AssignsNextOrder(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Groceries"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)

	second, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Rent", InitialBalance: 1000})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, int64(1000), second.Balance)

	assertDenseOrder(t, store, accountID)
}

func TestCreate_TrimsName(t *testing.T) {
	t.Parallel()
	svc, _, userID, accountID := newService(t)

	created, err := svc.Create(context.Background(), userID, accountID,
		category.CreateInput{Name: "  Groceries  "})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", created.Name)
}

func TestCreate_NameReuse_CaseInsensitive(t *testing.T) {
	t.Parallel()
	svc, _, userID, accountID := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Groceries"})
	require.NoError(t, err)

	// Collides after trimming and case folding; the error carries the
	// trimmed name, not the raw input.
	_, err = svc.Create(ctx, userID, accountID, category.CreateInput{Name: "  gRoCeRiEs "})
	var reuse *domain.NameReuseError
	require.ErrorAs(t, err, &reuse)
	assert.Equal(t, "gRoCeRiEs", reuse.Name)
}

func TestCreate_RequiresWrite(t *testing.T) {
	t.Parallel()
	store := fixtures.NewStore()
	userID, accountID := uuid.New(), uuid.New()
	store.SeedMember(accountID, userID, domain.RoleRead)
	svc := category.New(fixtures.NewUoW(store), slog.Default())

	_, err := svc.Create(context.Background(), userID, accountID, category.CreateInput{Name: "Groceries"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdate_Sparse(t *testing.T) {
	t.Parallel()
	svc, _, userID, accountID := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, accountID,
		category.CreateInput{Name: "Groceries", InitialBalance: 500, RefillValue: 100})
	require.NoError(t, err)

	newRefill := int64(250)
	updated, err := svc.Update(ctx, userID, accountID, created.ID,
		repository.CategoryUpdate{RefillValue: &newRefill})
	require.NoError(t, err)

	// Untouched fields survive a sparse update.
	assert.Equal(t, "Groceries", updated.Name)
	assert.Equal(t, int64(500), updated.Balance)
	assert.Equal(t, int64(250), updated.RefillValue)
}

func TestUpdate_NameValidatedLikeCreate(t *testing.T) {
	t.Parallel()
	svc, _, userID, accountID := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Groceries"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Rent"})
	require.NoError(t, err)

	name := " groceries "
	_, err = svc.Update(ctx, userID, accountID, other.ID, repository.CategoryUpdate{Name: &name})
	var reuse *domain.NameReuseError
	require.ErrorAs(t, err, &reuse)
	assert.Equal(t, "groceries", reuse.Name)
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, userID, accountID := newService(t)

	balance := int64(10)
	_, err := svc.Update(context.Background(), userID, accountID, uuid.New(),
		repository.CategoryUpdate{Balance: &balance})
	var notFound *domain.CategoryNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDelete_ClosesOrderGap(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	cat1, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat1", InitialBalance: 1000})
	require.NoError(t, err)
	cat2, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat2", InitialBalance: 14000})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, accountID, cat1.ID))

	remaining := store.Categories(accountID)
	require.Len(t, remaining, 1)
	assert.Equal(t, cat2.ID, remaining[0].ID)
	assert.Equal(t, 1, remaining[0].Order)
	assert.Equal(t, int64(14000), remaining[0].Balance)
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, userID, accountID := newService(t)

	err := svc.Delete(context.Background(), userID, accountID, uuid.New())
	var notFound *domain.CategoryNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestReorder_DuplicateID_FailsBeforeWrite(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	cat1, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat1"})
	require.NoError(t, err)
	cat2, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat2"})
	require.NoError(t, err)

	err = svc.Reorder(ctx, userID, accountID, []category.OrderAssignment{
		{CategoryID: cat1.ID, Order: 2},
		{CategoryID: cat1.ID, Order: 1},
	})
	var dupID *domain.OrderDuplicateIDError
	require.ErrorAs(t, err, &dupID)

	// No partial change.
	got1, _ := store.Category(cat1.ID)
	got2, _ := store.Category(cat2.ID)
	assert.Equal(t, 1, got1.Order)
	assert.Equal(t, 2, got2.Order)
}

func TestReorder_DuplicateIndex_FailsBeforeWrite(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	cat1, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat1"})
	require.NoError(t, err)
	cat2, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat2"})
	require.NoError(t, err)

	err = svc.Reorder(ctx, userID, accountID, []category.OrderAssignment{
		{CategoryID: cat1.ID, Order: 1},
		{CategoryID: cat2.ID, Order: 1},
	})
	var dupIdx *domain.OrderDuplicateIndexError
	require.ErrorAs(t, err, &dupIdx)
	assert.Equal(t, 1, dupIdx.Index)

	got1, _ := store.Category(cat1.ID)
	assert.Equal(t, 1, got1.Order)
}

func TestReorder_MissingID_RollsBackBatch(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	cat1, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat1"})
	require.NoError(t, err)
	cat2, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat2"})
	require.NoError(t, err)

	// First assignment would apply, second fails; the atomic unit must
	// roll the first one back.
	err = svc.Reorder(ctx, userID, accountID, []category.OrderAssignment{
		{CategoryID: cat1.ID, Order: 2},
		{CategoryID: uuid.New(), Order: 1},
	})
	var notFound *domain.CategoryNotFoundError
	require.ErrorAs(t, err, &notFound)

	got1, _ := store.Category(cat1.ID)
	got2, _ := store.Category(cat2.ID)
	assert.Equal(t, 1, got1.Order)
	assert.Equal(t, 2, got2.Order)
}

func TestReorder_Swap(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	cat1, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat1"})
	require.NoError(t, err)
	cat2, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat2"})
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(ctx, userID, accountID, []category.OrderAssignment{
		{CategoryID: cat1.ID, Order: 2},
		{CategoryID: cat2.ID, Order: 1},
	}))

	cats := store.Categories(accountID)
	require.Len(t, cats, 2)
	assert.Equal(t, cat2.ID, cats[0].ID)
	assert.Equal(t, cat1.ID, cats[1].ID)
	assertDenseOrder(t, store, accountID)
}

// Orders stay a permutation of 1..N through an arbitrary mix of
// creates, deletes and reorders.
func TestOrdering_PermutationInvariant(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	names := []string{"A", "B", "C", "D", "E"}
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		cat, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: name})
		require.NoError(t, err)
		ids = append(ids, cat.ID)
	}
	assertDenseOrder(t, store, accountID)

	// Delete from the middle, twice.
	require.NoError(t, svc.Delete(ctx, userID, accountID, ids[1]))
	assertDenseOrder(t, store, accountID)
	require.NoError(t, svc.Delete(ctx, userID, accountID, ids[3]))
	assertDenseOrder(t, store, accountID)

	// Reverse the remaining three.
	cats := store.Categories(accountID)
	require.Len(t, cats, 3)
	assignments := make([]category.OrderAssignment, 0, len(cats))
	for i, cat := range cats {
		assignments = append(assignments, category.OrderAssignment{
			CategoryID: cat.ID,
			Order:      len(cats) - i,
		})
	}
	require.NoError(t, svc.Reorder(ctx, userID, accountID, assignments))
	assertDenseOrder(t, store, accountID)

	// And append once more.
	cat, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "F"})
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Order)
	assertDenseOrder(t, store, accountID)
}

func TestAdjustRefills(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	cat1, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat1", RefillValue: 100})
	require.NoError(t, err)
	cat2, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat2", RefillValue: 200})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustRefills(ctx, userID, accountID, map[uuid.UUID]int64{
		cat1.ID: 150,
		cat2.ID: 0,
	}))

	got1, _ := store.Category(cat1.ID)
	got2, _ := store.Category(cat2.ID)
	assert.Equal(t, int64(150), got1.RefillValue)
	assert.Equal(t, int64(0), got2.RefillValue)
}

func TestAdjustRefills_UnknownID_RollsBack(t *testing.T) {
	t.Parallel()
	svc, store, userID, accountID := newService(t)
	ctx := context.Background()

	cat1, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: "Cat1", RefillValue: 100})
	require.NoError(t, err)

	err = svc.AdjustRefills(ctx, userID, accountID, map[uuid.UUID]int64{
		cat1.ID:    150,
		uuid.New(): 50,
	})
	var notFound *domain.CategoryNotFoundError
	require.ErrorAs(t, err, &notFound)

	got1, _ := store.Category(cat1.ID)
	assert.Equal(t, int64(100), got1.RefillValue)
}

func TestList_OrderedByDisplayOrder(t *testing.T) {
	t.Parallel()
	svc, _, userID, accountID := newService(t)
	ctx := context.Background()

	for _, name := range []string{"C", "A", "B"} {
		_, err := svc.Create(ctx, userID, accountID, category.CreateInput{Name: name})
		require.NoError(t, err)
	}

	cats, err := svc.List(ctx, userID, accountID)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	// Creation order, not name order.
	assert.Equal(t, "C", cats[0].Name)
	assert.Equal(t, "A", cats[1].Name)
	assert.Equal(t, "B", cats[2].Name)
}
