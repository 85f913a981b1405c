package models

import (
	"net/url"
	"strings"
)

// Query keys accepted by the collection endpoint, in emission order.
const (
	FilterName         = "name"
	FilterCategory     = "category"
	FilterQuantity     = "quantity"
	FilterCondition    = "condition"
	FilterRestockLevel = "restock_level"
)

// FilterTerm is one key=value constraint.
type FilterTerm struct {
	Key   string
	Value string
}

// SearchFilter is an ordered, sparse set of constraints built only from populated fields.
type SearchFilter struct {
	terms []FilterTerm
}

// NewSearchFilter builds a filter from the form, skipping empty and whitespace-only fields.
// Term order is always name, category, quantity, condition, restock_level.
func NewSearchFilter(fields FormFields) SearchFilter {
	candidates := []FilterTerm{
		{Key: FilterName, Value: fields.Name},
		{Key: FilterCategory, Value: fields.Category},
		{Key: FilterQuantity, Value: fields.Quantity},
		{Key: FilterCondition, Value: fields.Condition},
		{Key: FilterRestockLevel, Value: fields.RestockLevel},
	}

	var filter SearchFilter
	for _, term := range candidates {
		if strings.TrimSpace(term.Value) == "" {
			continue
		}
		filter.terms = append(filter.terms, term)
	}
	return filter
}

// Terms returns a copy of the populated terms.
func (f SearchFilter) Terms() []FilterTerm {
	return append([]FilterTerm(nil), f.terms...)
}

// Len reports the number of populated terms.
func (f SearchFilter) Len() int {
	return len(f.terms)
}

// Encode serializes the filter as a query string. With escape=false values are written raw,
// which is what older backends expect.
func (f SearchFilter) Encode(escape bool) string {
	parts := make([]string, 0, len(f.terms))
	for _, term := range f.terms {
		value := term.Value
		if escape {
			value = url.QueryEscape(value)
		}
		parts = append(parts, term.Key+"="+value)
	}
	return strings.Join(parts, "&")
}
