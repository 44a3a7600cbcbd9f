package domain

import (
	"encoding/json"
	"fmt"
	"github.com/shopspring/decimal"
	"strings"
)

// Field names one editable part of FilterCriteria
type Field string

const (
	FieldSearch      Field = "search"
	FieldCategory    Field = "category"
	FieldStatus      Field = "status"
	FieldMarketplace Field = "marketplace"
	FieldMinPrice    Field = "minPrice"
	FieldMaxPrice    Field = "maxPrice"
)

// Fields lists every editable field
var Fields = []Field{FieldSearch, FieldCategory, FieldStatus, FieldMarketplace, FieldMinPrice, FieldMaxPrice}

// FilterCriteria is the user's current set of constraints.
// The zero value has every field unset.
//
// swagger:model
type FilterCriteria struct {
	// Free text matched against name and manufacturer
	//
	// example: mouse
	Search string `json:"search"`

	// Category label, empty or "all" for no filter
	//
	// example: electronics
	Category string `json:"category"`

	// Status, empty or "all" for no filter
	//
	// example: available
	Status string `json:"status"`

	// Marketplace label, empty or "all" for no filter
	//
	// example: amazon
	Marketplace string `json:"marketplace"`

	// Inclusive price bounds, each optional
	PriceRange PriceRange `json:"priceRange"`
}

// PriceRange holds two independently optional bounds
type PriceRange struct {
	Min PriceBound `json:"min"`
	Max PriceBound `json:"max"`
}

// Set applies a single field edit. Price bounds are parsed with
// ParsePriceBound, so malformed text clears the bound.
func (c *FilterCriteria) Set(field Field, value string) error {
	switch field {
	case FieldSearch:
		c.Search = value
	case FieldCategory:
		c.Category = value
	case FieldStatus:
		c.Status = value
	case FieldMarketplace:
		c.Marketplace = value
	case FieldMinPrice:
		c.PriceRange.Min = ParsePriceBound(value)
	case FieldMaxPrice:
		c.PriceRange.Max = ParsePriceBound(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Clear resets every field to its unset form
func (c *FilterCriteria) Clear() {
	*c = FilterCriteria{}
}

// PriceBound is one end of a price range. The zero value is unset.
type PriceBound struct {
	amount decimal.Decimal
	set    bool
}

// NewPriceBound returns a set bound
func NewPriceBound(amount decimal.Decimal) PriceBound {
	return PriceBound{amount: amount, set: true}
}

// ParsePriceBound turns user text into a bound. Empty, whitespace,
// malformed and out-of-range text all yield an unset bound, never zero.
func ParsePriceBound(text string) PriceBound {
	text = strings.TrimSpace(text)
	if text == "" {
		return PriceBound{}
	}

	amount, err := decimal.NewFromString(text)
	if err != nil || !ValidAmount(amount) {
		return PriceBound{}
	}

	return NewPriceBound(amount)
}

// Get returns the bound and whether it is set
func (b PriceBound) Get() (decimal.Decimal, bool) {
	return b.amount, b.set
}

// IsSet reports whether the bound participates in filtering
func (b PriceBound) IsSet() bool {
	return b.set
}

// Equal compares two bounds numerically
func (b PriceBound) Equal(other PriceBound) bool {
	if b.set != other.set {
		return false
	}
	return !b.set || b.amount.Equal(other.amount)
}

// String returns the amount, or "" when unset
func (b PriceBound) String() string {
	if !b.set {
		return ""
	}
	return b.amount.String()
}

// MarshalJSON encodes an unset bound as null and a set one as a number
func (b PriceBound) MarshalJSON() ([]byte, error) {
	if !b.set {
		return []byte("null"), nil
	}
	return []byte(b.amount.String()), nil
}

// UnmarshalJSON accepts null, numbers and strings. Anything that does
// not parse as a number decodes as unset.
func (b *PriceBound) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*b = PriceBound{}
		return nil
	}

	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = ParsePriceBound(s)
		return nil
	}

	*b = ParsePriceBound(text)
	return nil
}
