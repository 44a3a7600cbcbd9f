package catalog

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"path/filepath"
	"strings"
)

// Loader reads a complete catalog from some source
type Loader interface {
	Load(ctx context.Context) (*Catalog, error)
}

const sqlitePrefix = "sqlite://"

// NewLoader picks a loader for source:
//
//	""                 the sample catalog built into the binary
//	sqlite://<path>    a SQLite database
//	<path>.json        a JSON file
//	<path>.yaml|.yml   a YAML file
func NewLoader(source string, v *domain.Validation) (Loader, error) {
	switch {
	case source == "":
		return NewEmbeddedLoader(v), nil
	case strings.HasPrefix(source, sqlitePrefix):
		return NewSQLiteLoader(strings.TrimPrefix(source, sqlitePrefix), v), nil
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".json", ".yaml", ".yml":
		return NewFileLoader(source, v), nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, source)
}

// build assigns missing IDs, validates every product and assembles the catalog
func build(source string, products []*domain.Product, v *domain.Validation) (*Catalog, error) {
	for i, p := range products {
		if p == nil {
			return nil, fmt.Errorf("%w: product %d is empty", domain.ErrInvalidCatalog, i)
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if errs := v.Validate(p); len(errs) > 0 {
			return nil, fmt.Errorf("%w: product %d (%s): %s", domain.ErrInvalidCatalog, i, p.ID, errs.Error())
		}
	}

	return New(source, products)
}
