package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Coarse error classes. The typed errors below wrap these so callers can
// branch with errors.Is without caring which entity was involved.
var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when an operation collides with existing state.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned when a user may not perform an action.
	ErrUnauthorized = errors.New("unauthorized")
)

// NotMemberError reports that a user has no membership row on an account.
type NotMemberError struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
}

func (e *NotMemberError) Error() string {
	return fmt.Sprintf("user %s is not part of account %s", e.UserID, e.AccountID)
}

func (e *NotMemberError) Unwrap() error { return ErrUnauthorized }

// InsufficientRoleError reports a membership whose role is below the
// minimum required for an operation.
type InsufficientRoleError struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	Need      Role
	Got       Role
}

func (e *InsufficientRoleError) Error() string {
	return fmt.Sprintf("user %s has role %s on account %s, needs %s",
		e.UserID, e.Got, e.AccountID, e.Need)
}

func (e *InsufficientRoleError) Unwrap() error { return ErrUnauthorized }

// CategoryNotFoundError reports a category id absent from the account.
type CategoryNotFoundError struct {
	ID uuid.UUID
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category %s not found", e.ID)
}

func (e *CategoryNotFoundError) Unwrap() error { return ErrNotFound }

// NameReuseError reports a category name already taken in the account.
// Name is always the trimmed form, never the raw input.
type NameReuseError struct {
	Name string
}

func (e *NameReuseError) Error() string {
	return fmt.Sprintf("category name %q already taken in account", e.Name)
}

func (e *NameReuseError) Unwrap() error { return ErrConflict }

// OrderDuplicateIDError reports a category id listed twice in a reorder.
type OrderDuplicateIDError struct {
	ID uuid.UUID
}

func (e *OrderDuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate category id %s in reorder", e.ID)
}

func (e *OrderDuplicateIDError) Unwrap() error { return ErrConflict }

// OrderDuplicateIndexError reports an order index targeted twice in a reorder.
type OrderDuplicateIndexError struct {
	Index int
}

func (e *OrderDuplicateIndexError) Error() string {
	return fmt.Sprintf("duplicate order index %d in reorder", e.Index)
}

func (e *OrderDuplicateIndexError) Unwrap() error { return ErrConflict }

// TransactionNotOwnedError reports a transaction id that does not belong
// to the account, or was not found at all.
type TransactionNotOwnedError struct {
	AccountID     uuid.UUID
	TransactionID int64
}

func (e *TransactionNotOwnedError) Error() string {
	return fmt.Sprintf("account %s does not own transaction %d", e.AccountID, e.TransactionID)
}

func (e *TransactionNotOwnedError) Unwrap() error { return ErrUnauthorized }

// ValidationNotFoundError reports an unknown (or already consumed) token.
type ValidationNotFoundError struct {
	Token string
}

func (e *ValidationNotFoundError) Error() string {
	return fmt.Sprintf("validation with token %s not found", e.Token)
}

func (e *ValidationNotFoundError) Unwrap() error { return ErrNotFound }

// ValidationExpiredError reports a token past its validity window.
type ValidationExpiredError struct {
	Token string
}

func (e *ValidationExpiredError) Error() string {
	return fmt.Sprintf("validation expired, token %s", e.Token)
}

// MismatchedValidationError reports a kind that does not pair with the
// stored context.
type MismatchedValidationError struct {
	Kind    ValidationKind
	Context ValidationContext
}

func (e *MismatchedValidationError) Error() string {
	return fmt.Sprintf("mismatched validation: kind is %s but context is %s",
		e.Kind, e.Context.Kind)
}

// ContextDecodeError reports a corrupt stored validation context.
type ContextDecodeError struct {
	Err error
}

func (e *ContextDecodeError) Error() string {
	return fmt.Sprintf("decode validation context: %v", e.Err)
}

func (e *ContextDecodeError) Unwrap() error { return e.Err }

// EmailInUseError reports an email already registered to another user.
// Email is the trimmed, lowercased form.
type EmailInUseError struct {
	Email string
}

func (e *EmailInUseError) Error() string {
	return fmt.Sprintf("email %s already in use", e.Email)
}

func (e *EmailInUseError) Unwrap() error { return ErrConflict }

// UserNotFoundError reports an unknown user id.
type UserNotFoundError struct {
	ID uuid.UUID
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %s not found", e.ID)
}

func (e *UserNotFoundError) Unwrap() error { return ErrNotFound }

// AccountNotFoundError reports an unknown account id.
type AccountNotFoundError struct {
	ID uuid.UUID
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.ID)
}

func (e *AccountNotFoundError) Unwrap() error { return ErrNotFound }
