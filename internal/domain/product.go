package domain

import (
	"encoding/json"
	"fmt"
	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"
)

// Status is the availability of a product
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusOnOrder     Status = "onOrder"
)

// Statuses lists every valid status in display order
var Statuses = []Status{StatusAvailable, StatusUnavailable, StatusOnOrder}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// PriceInfo is one marketplace offer for a product
//
// swagger:model
type PriceInfo struct {
	// The offered amount, never negative
	//
	// required: true
	// example: 24.99
	Amount decimal.Decimal `json:"amount"`

	// Three letter currency code
	//
	// required: true
	// example: USD
	Currency string `json:"currency" validate:"required,currency"`

	// The selling venue
	//
	// required: true
	// example: Amazon
	Marketplace string `json:"marketplace" validate:"required"`
}

// UnmarshalJSON rejects price entries whose amount is missing or null
func (p *PriceInfo) UnmarshalJSON(data []byte) error {
	type plain PriceInfo
	var raw struct {
		plain
		Amount *decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Amount == nil {
		return ErrMissingAmount
	}

	*p = PriceInfo(raw.plain)
	p.Amount = *raw.Amount
	return nil
}

// Amounts and price bounds must keep their exponent within this window.
// Decimal comparisons rescale both operands to a common exponent.
const (
	maxAmountExponent = 64
	maxAmountBits     = 256
)

// ValidAmount reports whether d is small enough in scale and precision to
// be compared cheaply against other amounts
func ValidAmount(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxAmountExponent || exp > maxAmountExponent {
		return false
	}
	return d.Coefficient().BitLen() <= maxAmountBits
}

var currencySymbols = map[string]string{
	"USD": "$",
	"CNY": "¥",
	"YER": "ر.ي",
}

// Format renders the amount with its currency symbol and two decimals.
// Unknown currencies fall back to the code followed by a space.
func (p PriceInfo) Format() string {
	symbol, ok := currencySymbols[p.Currency]
	if !ok {
		symbol = p.Currency + " "
	}
	return fmt.Sprintf("%s%s", symbol, p.Amount.StringFixed(2))
}

// Product represents a catalog entry
//
// swagger:model
type Product struct {
	// The opaque ID of the product
	//
	// required: true
	// example: 7d0e6f0c-2f1e-4bb0-8f5e-0c3b9c1c6a11
	ID string `json:"id" validate:"required"`

	// The display name of the product
	//
	// required: true
	// example: Wireless Mouse
	Name string `json:"name" validate:"required"`

	// Marketplace offers, possibly empty
	//
	// required: false
	Prices []PriceInfo `json:"prices" validate:"dive"`

	// The category label
	//
	// required: true
	// example: Electronics
	Category string `json:"category" validate:"required"`

	// Availability of the product
	//
	// required: true
	// enum: available,unavailable,onOrder
	Status Status `json:"status" validate:"required,status"`

	// The manufacturer, if known
	//
	// required: false
	// example: Logitech
	Manufacturer string `json:"manufacturer,omitempty"`

	// Link to the product image
	//
	// required: false
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url"`

	// Free-form notes
	//
	// required: false
	Notes string `json:"notes,omitempty"`

	// User rating from 0 to 5
	//
	// required: false
	// min: 0
	// max: 5
	Rating int `json:"rating,omitempty" validate:"gte=0,lte=5"`

	// When the product was added
	//
	// required: false
	CreatedAt strfmt.DateTime `json:"createdAt"`

	// Who added the product
	//
	// required: false
	CreatedBy string `json:"createdBy,omitempty"`
}
