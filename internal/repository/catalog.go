package repository

import (
	"context"
	"github.com/kahvecikaan/catalog-browser/internal/catalog"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"sync"
)

type CatalogRepository interface {
	Current(ctx context.Context) (*catalog.Catalog, error)
	Snapshot(ctx context.Context) (*catalog.Catalog, uint64, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Replace(ctx context.Context, c *catalog.Catalog) (uint64, error)
	Version() uint64
}

type memoryCatalogRepository struct {
	catalog *catalog.Catalog
	version uint64
	mutex   sync.RWMutex
}

// NewMemoryCatalogRepository holds initial as version 1
func NewMemoryCatalogRepository(initial *catalog.Catalog) CatalogRepository {
	if initial == nil {
		initial, _ = catalog.New("empty", nil)
	}
	return &memoryCatalogRepository{
		catalog: initial,
		version: 1,
	}
}

func (r *memoryCatalogRepository) Current(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.catalog, nil
}

// Snapshot returns the current catalog together with its version
func (r *memoryCatalogRepository) Snapshot(ctx context.Context) (*catalog.Catalog, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.catalog, r.version, nil
}

func (r *memoryCatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if product, ok := r.catalog.Get(id); ok {
		return product, nil
	}

	return nil, domain.ErrProductNotFound
}

// Replace swaps in c and returns the new version
func (r *memoryCatalogRepository) Replace(ctx context.Context, c *catalog.Catalog) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if c == nil {
		return 0, domain.ErrInvalidCatalog
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.catalog = c
	r.version++
	return r.version, nil
}

func (r *memoryCatalogRepository) Version() uint64 {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.version
}
