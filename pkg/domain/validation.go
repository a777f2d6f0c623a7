package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ValidationKind tags what a validation token is allowed to authorize.
type ValidationKind string

const (
	ValidationVerifyEmail ValidationKind = "VerifyEmail"
	ValidationAddAccount  ValidationKind = "AddAccount"
)

// ValidationContext is the closed set of deferred state changes a token
// can carry. Exactly one of the variant constructors produces a valid
// context; the kind tag is validated before the payload is interpreted.
type ValidationContext struct {
	Kind      ValidationKind `json:"kind"`
	UserID    uuid.UUID      `json:"user_id"`
	AccountID uuid.UUID      `json:"account_id,omitempty"`
}

// VerifyEmailContext builds the context for marking a user's email verified.
func VerifyEmailContext(userID uuid.UUID) ValidationContext {
	return ValidationContext{Kind: ValidationVerifyEmail, UserID: userID}
}

// AddAccountContext builds the context for confirming an account membership.
func AddAccountContext(accountID, userID uuid.UUID) ValidationContext {
	return ValidationContext{Kind: ValidationAddAccount, AccountID: accountID, UserID: userID}
}

// Encode serializes the context for storage.
func (c ValidationContext) Encode() ([]byte, error) {
	switch c.Kind {
	case ValidationVerifyEmail, ValidationAddAccount:
	default:
		return nil, fmt.Errorf("unknown validation kind %q", c.Kind)
	}
	return json.Marshal(c)
}

// DecodeValidationContext parses a stored context payload, validating
// the kind tag before trusting the rest of the payload.
func DecodeValidationContext(data []byte) (ValidationContext, error) {
	var c ValidationContext
	if err := json.Unmarshal(data, &c); err != nil {
		return ValidationContext{}, &ContextDecodeError{Err: err}
	}
	switch c.Kind {
	case ValidationVerifyEmail, ValidationAddAccount:
		return c, nil
	}
	return ValidationContext{}, &ContextDecodeError{
		Err: fmt.Errorf("unknown validation kind %q", c.Kind),
	}
}
