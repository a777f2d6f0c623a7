// Package category manages an account's budget categories: creation,
// sparse updates, deletion and explicit display ordering. Category
// names are unique per account under trimmed, case-insensitive
// comparison, and order values form a dense 1..N sequence.
package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/budgetd/budgetd/pkg/service/authz"
	"github.com/google/uuid"
)

// Service implements category lifecycle and ordering for an account.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a category Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateInput carries the fields of a new category.
type CreateInput struct {
	Name           string
	InitialBalance int64
	RefillValue    int64
}

// OrderAssignment pairs a category with its target display order.
type OrderAssignment struct {
	CategoryID uuid.UUID
	Order      int
}

// List returns the account's categories in display order. Requires Read.
func (s *Service) List(
	ctx context.Context,
	userID, accountID uuid.UUID,
) (cats []domain.Category, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleRead); err != nil {
			return err
		}
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		cats, err = repo.ListByAccount(ctx, accountID)
		return err
	})
	if err != nil {
		cats = nil
	}
	return
}

// Create adds a category at the end of the ordering. Requires Write.
// The name is trimmed before the uniqueness check; on collision the
// returned NameReuseError carries the trimmed name.
func (s *Service) Create(
	ctx context.Context,
	userID, accountID uuid.UUID,
	in CreateInput,
) (created *domain.Category, err error) {
	logger := s.logger.With("accountID", accountID, "userID", userID)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleWrite); err != nil {
			return err
		}
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		name := strings.TrimSpace(in.Name)
		if err := validateName(ctx, repo, accountID, name); err != nil {
			return err
		}
		maxOrder, err := repo.MaxOrder(ctx, accountID)
		if err != nil {
			return err
		}
		created = &domain.Category{
			ID:          uuid.New(),
			AccountID:   accountID,
			Name:        name,
			Balance:     in.InitialBalance,
			RefillValue: in.RefillValue,
			Order:       maxOrder + 1,
		}
		return repo.Create(ctx, created)
	})
	if err != nil {
		created = nil
		return
	}
	logger.Info("category created", "categoryID", created.ID, "order", created.Order)
	return
}

// Update applies a sparse update: nil fields are left untouched. A new
// name goes through the same trim and uniqueness validation as Create.
// Requires Write.
func (s *Service) Update(
	ctx context.Context,
	userID, accountID, id uuid.UUID,
	update repository.CategoryUpdate,
) (updated *domain.Category, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleWrite); err != nil {
			return err
		}
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if err := validateName(ctx, repo, accountID, name); err != nil {
				return err
			}
			update.Name = &name
		}
		matched, err := repo.Update(ctx, accountID, id, update)
		if err != nil {
			return err
		}
		if !matched {
			return &domain.CategoryNotFoundError{ID: id}
		}
		updated, err = repo.Get(ctx, accountID, id)
		return err
	})
	if err != nil {
		updated = nil
	}
	return
}

// Delete removes a category and closes the gap it leaves: every
// category ordered after it is shifted down by one, atomically with the
// removal. Requires Write.
func (s *Service) Delete(ctx context.Context, userID, accountID, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleWrite); err != nil {
			return err
		}
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		cat, err := repo.Get(ctx, accountID, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return &domain.CategoryNotFoundError{ID: id}
		}
		if err := repo.ShiftOrdersAfter(ctx, accountID, cat.Order); err != nil {
			return err
		}
		return repo.Delete(ctx, accountID, id)
	})
}

// Reorder applies a batch of order assignments. The batch is validated
// for duplicate ids and duplicate target orders before any write; the
// assignments then run inside one atomic unit so a missing category
// rolls back everything applied so far.
func (s *Service) Reorder(
	ctx context.Context,
	userID, accountID uuid.UUID,
	assignments []OrderAssignment,
) error {
	idSeen := make(map[uuid.UUID]struct{}, len(assignments))
	orderSeen := make(map[int]struct{}, len(assignments))
	for _, a := range assignments {
		if _, dup := idSeen[a.CategoryID]; dup {
			return &domain.OrderDuplicateIDError{ID: a.CategoryID}
		}
		idSeen[a.CategoryID] = struct{}{}
		if _, dup := orderSeen[a.Order]; dup {
			return &domain.OrderDuplicateIndexError{Index: a.Order}
		}
		orderSeen[a.Order] = struct{}{}
	}

	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleWrite); err != nil {
			return err
		}
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		for _, a := range assignments {
			matched, err := repo.SetOrder(ctx, accountID, a.CategoryID, a.Order)
			if err != nil {
				return err
			}
			if !matched {
				return &domain.CategoryNotFoundError{ID: a.CategoryID}
			}
		}
		return nil
	})
}

// AdjustRefills updates the refill value of several categories at once.
// Requires Write. Unknown ids fail the whole batch.
func (s *Service) AdjustRefills(
	ctx context.Context,
	userID, accountID uuid.UUID,
	refills map[uuid.UUID]int64,
) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authz.RequireRole(ctx, uow, userID, accountID, domain.RoleWrite); err != nil {
			return err
		}
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		for id, refill := range refills {
			v := refill
			matched, err := repo.Update(ctx, accountID, id, repository.CategoryUpdate{RefillValue: &v})
			if err != nil {
				return err
			}
			if !matched {
				return &domain.CategoryNotFoundError{ID: id}
			}
		}
		return nil
	})
}

// validateName fails with NameReuseError when name is already taken in
// the account under case-insensitive comparison. name must be trimmed.
func validateName(
	ctx context.Context,
	repo repository.CategoryRepository,
	accountID uuid.UUID,
	name string,
) error {
	existing, err := repo.FindByNameFold(ctx, accountID, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return &domain.NameReuseError{Name: name}
	}
	return nil
}
