// Package domain holds the entities and typed errors of the ledger core.
// Entities are plain structs; persistence concerns (column types, table
// names) live in infra/repository.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the grouping unit owning categories and transactions. A
// non-nil DeleteOn marks the account as queued for deletion; the date is
// advisory metadata until a reaper acts on it.
type Account struct {
	ID       uuid.UUID
	Name     string
	DeleteOn *time.Time
}

// AccountUser is the (account, user) membership row carrying the user's
// role on the account. Verified is set once the user confirms the invite.
type AccountUser struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
	Role      Role
	Verified  bool
}

// User is a registered person. PasswordHash is opaque to the core.
type User struct {
	ID            uuid.UUID
	Email         string
	Name          string
	PasswordHash  string
	EmailVerified bool
}

// Category is a named budget bucket. Balance is held in minor currency
// units and equals the signed sum of the category's live transactions;
// it is maintained incrementally, never recomputed. Order is the 1-based
// display position, dense within the account.
type Category struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Name        string
	Balance     int64
	RefillValue int64
	Order       int
}

// Transaction is an immutable ledger entry. Amount is stored in USD
// minor units, post conversion. Transactions are deleted only in
// batches and never updated.
type Transaction struct {
	ID         int64
	AccountID  uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Timestamp  time.Time
	Amount     int64
	Notes      string
	IsRefill   bool
}

// Validation is a pending single-use token row. Context is the stored
// tagged payload; rows are deleted on successful consumption and kept
// on expiry.
type Validation struct {
	ID         uuid.UUID
	Token      string
	Context    []byte
	ValidUntil time.Time
}
