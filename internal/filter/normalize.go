package filter

import (
	"fmt"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"strings"
)

// All is the dropdown sentinel meaning "no filter"
const All = "all"

// Term is one resolved text criterion
type Term struct {
	// Value is trimmed; lower-cased for case-insensitive fields
	Value  string
	Active bool
}

// Query is FilterCriteria with every field resolved to active or inactive
type Query struct {
	Search      Term
	Category    Term
	Status      Term
	Marketplace Term
	Min         domain.PriceBound
	Max         domain.PriceBound
}

// Normalize resolves each criteria field. Empty and whitespace-only text
// is inactive everywhere; the "all" sentinel is also inactive for the
// dropdown fields.
func Normalize(c domain.FilterCriteria) Query {
	return Query{
		Search:      resolveText(c.Search, true),
		Category:    resolveChoice(c.Category, true),
		Status:      resolveChoice(c.Status, false),
		Marketplace: resolveChoice(c.Marketplace, true),
		Min:         resolveBound(c.PriceRange.Min),
		Max:         resolveBound(c.PriceRange.Max),
	}
}

// resolveBound drops bounds built from amounts outside the comparable range
func resolveBound(b domain.PriceBound) domain.PriceBound {
	if amount, ok := b.Get(); ok && !domain.ValidAmount(amount) {
		return domain.PriceBound{}
	}
	return b
}

func resolveText(s string, fold bool) Term {
	s = strings.TrimSpace(s)
	if s == "" {
		return Term{}
	}
	if fold {
		s = strings.ToLower(s)
	}
	return Term{Value: s, Active: true}
}

func resolveChoice(s string, fold bool) Term {
	t := resolveText(s, fold)
	if strings.EqualFold(t.Value, All) {
		return Term{}
	}
	return t
}

// Active counts the predicates taking part in the AND composition
func (q Query) Active() int {
	n := 0
	for _, t := range []Term{q.Search, q.Category, q.Status, q.Marketplace} {
		if t.Active {
			n++
		}
	}
	if q.Min.IsSet() {
		n++
	}
	if q.Max.IsSet() {
		n++
	}
	return n
}

// IsEmpty reports whether no predicate is active
func (q Query) IsEmpty() bool {
	return q.Active() == 0
}

// String describes the active predicates in a fixed order, for logs
func (q Query) String() string {
	var parts []string
	add := func(name string, t Term) {
		if t.Active {
			parts = append(parts, fmt.Sprintf("%s=%q", name, t.Value))
		}
	}
	add("search", q.Search)
	add("category", q.Category)
	add("status", q.Status)
	add("marketplace", q.Marketplace)
	if q.Min.IsSet() {
		parts = append(parts, "min="+q.Min.String())
	}
	if q.Max.IsSet() {
		parts = append(parts, "max="+q.Max.String())
	}
	if len(parts) == 0 {
		return "<none>"
	}
	return strings.Join(parts, " ")
}
