package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/catalog-browser/internal/catalog"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/kahvecikaan/catalog-browser/internal/events"
	"github.com/kahvecikaan/catalog-browser/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"sync"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLoader struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	err     error
	loads   int
}

func (l *fakeLoader) Load(ctx context.Context) (*catalog.Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	return l.catalog, l.err
}

func (l *fakeLoader) set(c *catalog.Catalog, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.catalog, l.err = c, err
}

func product(id, name, category string, status domain.Status, amounts ...float64) *domain.Product {
	p := &domain.Product{ID: id, Name: name, Category: category, Status: status}
	for _, a := range amounts {
		p.Prices = append(p.Prices, domain.PriceInfo{
			Amount:      decimal.NewFromFloat(a),
			Currency:    "USD",
			Marketplace: "Amazon",
		})
	}
	return p
}

func testCatalog(t *testing.T, products ...*domain.Product) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New("test", products)
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T, initial *catalog.Catalog) (CatalogService, *fakeLoader, *events.EventBus[any]) {
	t.Helper()
	loader := &fakeLoader{catalog: initial}
	bus := events.NewEventBus[any]()
	svc := NewCatalogService(loader, repository.NewMemoryCatalogRepository(initial), bus, hclog.NewNullLogger())
	t.Cleanup(func() { svc.Close() })
	return svc, loader, bus
}

func sampleCatalog(t *testing.T) *catalog.Catalog {
	return testCatalog(t,
		product("1", "Wireless Mouse", "Electronics", domain.StatusAvailable, 25),
		product("2", "Desk Lamp", "Home", domain.StatusUnavailable, 40),
		product("3", "Mouse Pad", "Electronics", domain.StatusAvailable, 8),
	)
}

func TestFilterProductsStartsFromFullCatalog(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog(t))
	ctx := context.Background()

	criteria := domain.FilterCriteria{Search: "mouse", Category: "electronics"}
	narrow, err := svc.FilterProducts(ctx, criteria)
	require.NoError(t, err)
	assert.Equal(t, 2, narrow.Matched)
	assert.Equal(t, 3, narrow.Total)

	criteria.Clear()
	wide, err := svc.FilterProducts(ctx, criteria)
	require.NoError(t, err)
	assert.Len(t, wide.Products, 3)
	assert.Equal(t, uint64(1), wide.Version)
}

func TestFilterProductsEmptyResult(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog(t))

	result, err := svc.FilterProducts(context.Background(), domain.FilterCriteria{Search: "keyboard"})

	require.NoError(t, err)
	assert.NotNil(t, result.Products)
	assert.Empty(t, result.Products)
}

func TestGetProductByID(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog(t))

	p, err := svc.GetProductByID(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", p.Name)

	_, err = svc.GetProductByID(context.Background(), "99")
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestFilterOptions(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog(t))

	opts, err := svc.FilterOptions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, opts.Total)
	assert.Equal(t, []string{"Electronics", "Home"}, opts.Categories)
}

func TestReloadInstallsNewCatalog(t *testing.T) {
	svc, loader, bus := newTestService(t, sampleCatalog(t))
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	loader.set(testCatalog(t, product("9", "Keyboard", "Electronics", domain.StatusAvailable, 60)), nil)
	version, err := svc.Reload(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, uint64(2), svc.Version())

	reloaded, ok := (<-sub).(events.CatalogReloaded)
	require.True(t, ok)
	assert.Equal(t, uint64(2), reloaded.Version)
	assert.Equal(t, 1, reloaded.Count)
	require.Len(t, reloaded.Products, 1)

	result, err := svc.FilterProducts(context.Background(), domain.FilterCriteria{Search: "key"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)
}

func TestFilterResultVersionMatchesCatalog(t *testing.T) {
	// the catalog installed as version v holds v products
	sized := func(n int) *catalog.Catalog {
		products := make([]*domain.Product, 0, n)
		for i := 0; i < n; i++ {
			products = append(products, product(fmt.Sprintf("p%d", i), "Item", "Other", domain.StatusAvailable, 1))
		}
		return testCatalog(t, products...)
	}
	catalogs := make([]*catalog.Catalog, 31)
	for v := 1; v <= 30; v++ {
		catalogs[v] = sized(v)
	}
	svc, loader, _ := newTestService(t, catalogs[1])

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := 2; v <= 30; v++ {
			loader.set(catalogs[v], nil)
			_, _ = svc.Reload(context.Background())
		}
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				result, err := svc.FilterProducts(context.Background(), domain.FilterCriteria{})
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, int(result.Version), result.Total)
			}
		}()
	}
	wg.Wait()

	result, err := svc.FilterProducts(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, uint64(30), result.Version)
	assert.Equal(t, 30, result.Total)
}

func TestFailedReloadKeepsPreviousCatalog(t *testing.T) {
	svc, loader, bus := newTestService(t, sampleCatalog(t))
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	loader.set(nil, domain.ErrInvalidCatalog)
	_, err := svc.Reload(context.Background())

	assert.True(t, errors.Is(err, domain.ErrInvalidCatalog))
	assert.Equal(t, uint64(1), svc.Version())

	failed, ok := (<-sub).(events.CatalogReloadFailed)
	require.True(t, ok)
	assert.Contains(t, failed.Error, "invalid catalog")

	result, err := svc.FilterProducts(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
}

func TestFileChangeTriggersReload(t *testing.T) {
	svc, loader, bus := newTestService(t, sampleCatalog(t))

	loader.set(testCatalog(t, product("9", "Keyboard", "Electronics", domain.StatusAvailable, 60)), nil)
	bus.Publish(events.CatalogFileChanged{Path: "catalog.json"})

	require.Eventually(t, func() bool {
		return svc.Version() == 2
	}, 2*time.Second, 10*time.Millisecond)

	p, err := svc.GetProductByID(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", p.Name)
}

func TestOtherEventsDoNotReload(t *testing.T) {
	svc, loader, bus := newTestService(t, sampleCatalog(t))

	bus.Publish(events.CatalogReloadFailed{Error: "elsewhere"})
	bus.Publish(events.CatalogFileChanged{Path: "catalog.json"})

	require.Eventually(t, func() bool {
		return svc.Version() == 2
	}, 2*time.Second, 10*time.Millisecond)

	loader.mu.Lock()
	defer loader.mu.Unlock()
	assert.Equal(t, 1, loader.loads)
}

func TestCloseIsIdempotent(t *testing.T) {
	svc, _, bus := newTestService(t, sampleCatalog(t))

	assert.NoError(t, svc.Close())
	assert.NoError(t, svc.Close())
	assert.Zero(t, bus.Len())
}
