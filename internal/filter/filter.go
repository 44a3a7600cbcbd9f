// Package filter narrows a product sequence down to the products that
// satisfy every active criterion.
//
// Each predicate is independent. The marketplace and price bound
// predicates each pass when any single price entry satisfies them; the
// min and max bounds are not required to hold on the same entry, so a
// product listed at 5 and 50 passes min=10,max=20.
package filter

import (
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"strings"
)

// Apply returns the products matching criteria, in their original order.
// The input is never modified and the result is always a new slice.
func Apply(criteria domain.FilterCriteria, products []*domain.Product) []*domain.Product {
	return Normalize(criteria).Filter(products)
}

// Filter is Apply for an already normalized query
func (q Query) Filter(products []*domain.Product) []*domain.Product {
	results := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if q.Match(p) {
			results = append(results, p)
		}
	}
	return results
}

// Match reports whether p satisfies every active predicate
func (q Query) Match(p *domain.Product) bool {
	if p == nil {
		return false
	}

	return q.matchSearch(p) &&
		q.matchCategory(p) &&
		q.matchStatus(p) &&
		q.matchMarketplace(p) &&
		q.matchMin(p) &&
		q.matchMax(p)
}

func (q Query) matchSearch(p *domain.Product) bool {
	if !q.Search.Active {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), q.Search.Value) {
		return true
	}
	return p.Manufacturer != "" && strings.Contains(strings.ToLower(p.Manufacturer), q.Search.Value)
}

func (q Query) matchCategory(p *domain.Product) bool {
	return !q.Category.Active || strings.ToLower(strings.TrimSpace(p.Category)) == q.Category.Value
}

func (q Query) matchStatus(p *domain.Product) bool {
	return !q.Status.Active || string(p.Status) == q.Status.Value
}

func (q Query) matchMarketplace(p *domain.Product) bool {
	if !q.Marketplace.Active {
		return true
	}
	return anyPrice(p, func(price domain.PriceInfo) bool {
		return strings.ToLower(strings.TrimSpace(price.Marketplace)) == q.Marketplace.Value
	})
}

func (q Query) matchMin(p *domain.Product) bool {
	floor, ok := q.Min.Get()
	if !ok {
		return true
	}
	return anyPrice(p, func(price domain.PriceInfo) bool {
		return price.Amount.GreaterThanOrEqual(floor)
	})
}

func (q Query) matchMax(p *domain.Product) bool {
	ceiling, ok := q.Max.Get()
	if !ok {
		return true
	}
	return anyPrice(p, func(price domain.PriceInfo) bool {
		return price.Amount.LessThanOrEqual(ceiling)
	})
}

// anyPrice is false for a product without prices
func anyPrice(p *domain.Product, pred func(domain.PriceInfo) bool) bool {
	for _, price := range p.Prices {
		if pred(price) {
			return true
		}
	}
	return false
}
