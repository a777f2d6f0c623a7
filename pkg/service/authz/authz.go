// Package authz arbitrates role-based access to account-scoped
// operations. Every account-scoped mutation or read in the other
// services passes through RequireRole before touching data.
package authz

import (
	"context"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/google/uuid"
)

// RequireRole checks that userID holds at least min on accountID. The
// lookup goes through the caller's UnitOfWork so authorization and the
// mutation it guards observe one consistent snapshot.
//
// A missing membership row yields NotMemberError; a role below min
// yields InsufficientRoleError. Success has no side effect.
func RequireRole(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID, accountID uuid.UUID,
	min domain.Role,
) error {
	repo, err := uow.AccountUserRepository()
	if err != nil {
		return err
	}
	member, err := repo.Get(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return &domain.NotMemberError{UserID: userID, AccountID: accountID}
	}
	if !member.Role.AtLeast(min) {
		return &domain.InsufficientRoleError{
			UserID:    userID,
			AccountID: accountID,
			Need:      min,
			Got:       member.Role,
		}
	}
	return nil
}
