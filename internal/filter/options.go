package filter

import (
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/shopspring/decimal"
	"strings"
)

// Options is the data needed to build the filter controls for a catalog
//
// swagger:model
type Options struct {
	// Number of products in the catalog
	Total int `json:"total"`

	// Distinct categories, first-seen spelling and order
	Categories []string `json:"categories"`

	// Distinct marketplaces across all price entries
	Marketplaces []string `json:"marketplaces"`

	// Distinct currency codes across all price entries
	Currencies []string `json:"currencies"`

	// Product count for every status, zero counts included
	Statuses []StatusCount `json:"statuses"`

	// Lowest and highest amount of any entry, absent when nothing is priced
	PriceRange *PriceRangeData `json:"priceRange,omitempty"`
}

// StatusCount is the number of products in one status
type StatusCount struct {
	Status domain.Status `json:"status"`
	Count  int           `json:"count"`
}

// PriceRangeData represents the minimum and maximum price in the catalog
type PriceRangeData struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// BuildOptions collects facet data. Amounts are compared without
// currency conversion.
func BuildOptions(products []*domain.Product) Options {
	categories := newDistinct()
	marketplaces := newDistinct()
	currencies := newDistinct()
	counts := make(map[domain.Status]int, len(domain.Statuses))
	var priceRange *PriceRangeData

	total := 0
	for _, p := range products {
		if p == nil {
			continue
		}
		total++
		categories.add(p.Category)
		counts[p.Status]++

		for _, price := range p.Prices {
			marketplaces.add(price.Marketplace)
			currencies.add(price.Currency)

			if priceRange == nil {
				priceRange = &PriceRangeData{Min: price.Amount, Max: price.Amount}
				continue
			}
			if price.Amount.LessThan(priceRange.Min) {
				priceRange.Min = price.Amount
			}
			if price.Amount.GreaterThan(priceRange.Max) {
				priceRange.Max = price.Amount
			}
		}
	}

	statuses := make([]StatusCount, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		statuses = append(statuses, StatusCount{Status: s, Count: counts[s]})
	}

	return Options{
		Total:        total,
		Categories:   categories.values,
		Marketplaces: marketplaces.values,
		Currencies:   currencies.values,
		Statuses:     statuses,
		PriceRange:   priceRange,
	}
}

// distinct keeps the first spelling of each case-insensitive value
type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: make(map[string]struct{}), values: []string{}}
}

func (d *distinct) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	key := strings.ToLower(v)
	if _, ok := d.seen[key]; ok {
		return
	}
	d.seen[key] = struct{}{}
	d.values = append(d.values, v)
}
