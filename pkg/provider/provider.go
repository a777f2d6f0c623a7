// Package provider declares the external collaborator contracts the
// services depend on. Implementations live in infra/provider; tests
// substitute the fakes under internal/fixtures.
package provider

import (
	"context"
	"time"
)

// USDCurrency is the ledger's storage currency. Every transaction amount
// is converted to USD minor units before it is written.
const USDCurrency = "USD"

// CurrencyConverter converts an amount between currency codes. Convert
// is the identity when from and to are equal; otherwise it fetches a
// floating-point mid-rate and returns floor(rate * amount). The lost
// fractional minor units are accepted, not corrected.
type CurrencyConverter interface {
	Convert(ctx context.Context, from, to string, amount int64) (int64, error)
}

// Clock supplies the current time so tests can fix "now".
type Clock interface {
	Now() time.Time
}

// TokenGenerator produces opaque random token strings from n bytes of
// entropy.
type TokenGenerator interface {
	RandomToken(n int) (string, error)
}

// PasswordHasher hashes and verifies user passwords. Hashing itself is
// outside the ledger core; the services only consume this contract.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
