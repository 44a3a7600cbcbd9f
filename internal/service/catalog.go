package service

import (
	"context"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/catalog-browser/internal/catalog"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/kahvecikaan/catalog-browser/internal/events"
	"github.com/kahvecikaan/catalog-browser/internal/filter"
	"github.com/kahvecikaan/catalog-browser/internal/repository"
	"sync"
)

type CatalogService interface {
	FilterProducts(ctx context.Context, criteria domain.FilterCriteria) (*FilterResult, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	FilterOptions(ctx context.Context) (filter.Options, error)
	Reload(ctx context.Context) (uint64, error)
	Version() uint64
	Close() error
}

// FilterResult is one application of the filter to the catalog
type FilterResult struct {
	Products []*domain.Product `json:"products"`
	Matched  int               `json:"matched"`
	Total    int               `json:"total"`
	Version  uint64            `json:"version"`
}

type catalogService struct {
	loader         catalog.Loader
	repo           repository.CatalogRepository
	eventBus       *events.EventBus[any]
	logger         hclog.Logger
	fileSubscriber events.Subscriber[any]
	reloadMutex    sync.Mutex
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	once           sync.Once
}

func NewCatalogService(
	loader catalog.Loader,
	repo repository.CatalogRepository,
	eventBus *events.EventBus[any],
	logger hclog.Logger) CatalogService {
	ctx, cancel := context.WithCancel(context.Background())
	cs := &catalogService{
		loader:   loader,
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Subscribe to events
	cs.fileSubscriber = eventBus.Subscribe()

	// Reload whenever the watcher reports a change
	cs.wg.Add(1)
	go cs.handleFileChanges()

	return cs
}

func (s *catalogService) handleFileChanges() {
	defer s.wg.Done()
	for event := range s.fileSubscriber {
		changed, ok := event.(events.CatalogFileChanged)
		if !ok {
			continue
		}

		s.logger.Info("Catalog file changed, reloading", "path", changed.Path)
		if _, err := s.Reload(s.ctx); err != nil {
			s.logger.Error("Reload after file change failed", "path", changed.Path, "error", err)
		}
	}
}

// FilterProducts always starts from the full current catalog
func (s *catalogService) FilterProducts(ctx context.Context, criteria domain.FilterCriteria) (*FilterResult, error) {
	query := filter.Normalize(criteria)
	s.logger.Debug("Filtering products", "query", query.String())

	c, version, err := s.repo.Snapshot(ctx)
	if err != nil {
		s.logger.Error("Unable to get catalog", "error", err)
		return nil, err
	}

	products := query.Filter(c.Products())
	s.logger.Debug("Filtered products", "matched", len(products), "total", c.Len())

	return &FilterResult{
		Products: products,
		Matched:  len(products),
		Total:    c.Len(),
		Version:  version,
	}, nil
}

func (s *catalogService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	s.logger.Debug("Getting product by ID", "id", id)

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Debug("Unable to get the product by ID", "id", id, "error", err)
		return nil, err
	}

	return product, nil
}

func (s *catalogService) FilterOptions(ctx context.Context) (filter.Options, error) {
	c, err := s.repo.Current(ctx)
	if err != nil {
		s.logger.Error("Unable to get catalog", "error", err)
		return filter.Options{}, err
	}

	return filter.BuildOptions(c.Products()), nil
}

// Reload loads the catalog again and installs it. On failure the previous
// catalog stays in place.
func (s *catalogService) Reload(ctx context.Context) (uint64, error) {
	s.reloadMutex.Lock()
	defer s.reloadMutex.Unlock()

	c, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error("Unable to load catalog", "error", err)
		s.eventBus.Publish(events.CatalogReloadFailed{Error: err.Error()})
		return 0, err
	}

	version, err := s.repo.Replace(ctx, c)
	if err != nil {
		s.logger.Error("Unable to replace catalog", "error", err)
		s.eventBus.Publish(events.CatalogReloadFailed{Source: c.Source(), Error: err.Error()})
		return 0, err
	}

	s.logger.Info("Catalog reloaded", "source", c.Source(), "products", c.Len(), "version", version)
	s.eventBus.Publish(events.CatalogReloaded{
		Version:  version,
		Source:   c.Source(),
		Products: c.Products(),
		Count:    c.Len(),
	})

	return version, nil
}

func (s *catalogService) Version() uint64 {
	return s.repo.Version()
}

func (s *catalogService) Close() error {
	s.once.Do(func() {
		s.logger.Info("Shutting down CatalogService...")

		s.cancel()

		// Unsubscribe from the event bus to stop receiving events
		s.eventBus.Unsubscribe(s.fileSubscriber)

		// Wait for handleFileChanges goroutine to finish
		s.wg.Wait()

		s.logger.Info("CatalogService shutdown complete.")
	})

	return nil
}
