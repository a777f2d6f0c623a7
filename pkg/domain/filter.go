package domain

import "github.com/google/uuid"

// Cmp is a numeric comparison operator for amount filters.
type Cmp string

const (
	CmpLt  Cmp = "lt"
	CmpLte Cmp = "lte"
	CmpEq  Cmp = "eq"
	CmpGte Cmp = "gte"
	CmpGt  Cmp = "gt"
)

// TransactionFilter is one predicate of a transaction query. Exactly one
// of the fields is set; a query carries a conjunction of filters.
type TransactionFilter struct {
	CategoryEq *uuid.UUID
	Amount     *AmountFilter
}

// AmountFilter compares the transaction amount against a value.
type AmountFilter struct {
	Cmp   Cmp
	Value int64
}

// FilterByCategory builds a category-equality filter.
func FilterByCategory(id uuid.UUID) TransactionFilter {
	return TransactionFilter{CategoryEq: &id}
}

// FilterByAmount builds an amount comparison filter.
func FilterByAmount(cmp Cmp, value int64) TransactionFilter {
	return TransactionFilter{Amount: &AmountFilter{Cmp: cmp, Value: value}}
}
