package events

import "github.com/kahvecikaan/catalog-browser/internal/domain"

// CatalogFileChanged is published by the watcher once a burst of writes
// to the catalog file has settled
type CatalogFileChanged struct {
	Path string `json:"path"`
}

// CatalogReloaded carries the products of a freshly installed catalog
type CatalogReloaded struct {
	Version  uint64            `json:"version"`
	Source   string            `json:"source"`
	Products []*domain.Product `json:"-"`
	Count    int               `json:"count"`
}

type CatalogReloadFailed struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}
