package catalog

import (
	"fmt"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
)

// Catalog is an ordered, read-only collection of products.
// It is built once by a Loader and never changed afterwards; a reload
// produces a new Catalog.
type Catalog struct {
	products []*domain.Product
	byID     map[string]*domain.Product
	source   string
}

// New builds a Catalog from products, keeping their order.
// Nil entries and duplicate IDs are rejected.
func New(source string, products []*domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]*domain.Product, 0, len(products)),
		byID:     make(map[string]*domain.Product, len(products)),
		source:   source,
	}

	for i, p := range products {
		if p == nil {
			return nil, fmt.Errorf("%w: product %d is empty", domain.ErrInvalidCatalog, i)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateProductID, p.ID)
		}
		c.byID[p.ID] = p
		c.products = append(c.products, p)
	}

	return c, nil
}

// Products returns the products in catalog order. The slice is a fresh
// copy; the products themselves are shared.
func (c *Catalog) Products() []*domain.Product {
	out := make([]*domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by ID
func (c *Catalog) Get(id string) (*domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Source describes where the catalog was loaded from
func (c *Catalog) Source() string {
	return c.source
}
