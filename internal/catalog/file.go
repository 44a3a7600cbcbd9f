package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"github.com/go-openapi/strfmt"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

//go:embed sample.json
var sampleCatalog []byte

// FileLoader reads a JSON or YAML catalog file
type FileLoader struct {
	path       string
	validation *domain.Validation
}

func NewFileLoader(path string, v *domain.Validation) *FileLoader {
	return &FileLoader{path: path, validation: v}
}

// Path is the file the loader reads
func (l *FileLoader) Path() string {
	return l.path
}

func (l *FileLoader) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("unable to read catalog file: %w", err)
	}

	var products []*domain.Product
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".yaml", ".yml":
		products, err = decodeYAML(data)
	default:
		products, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidCatalog, l.path, err)
	}

	return build(l.path, products, l.validation)
}

// EmbeddedLoader serves the sample catalog compiled into the binary
type EmbeddedLoader struct {
	validation *domain.Validation
}

func NewEmbeddedLoader(v *domain.Validation) *EmbeddedLoader {
	return &EmbeddedLoader{validation: v}
}

func (l *EmbeddedLoader) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products, err := decodeJSON(sampleCatalog)
	if err != nil {
		return nil, fmt.Errorf("%w: sample: %v", domain.ErrInvalidCatalog, err)
	}

	return build("sample", products, l.validation)
}

// decodeJSON accepts either a bare array or {"products": [...]}
func decodeJSON(data []byte) ([]*domain.Product, error) {
	data = bytes.TrimSpace(data)

	var products []*domain.Product
	if len(data) > 0 && data[0] == '{' {
		var doc struct {
			Products []*domain.Product `json:"products"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Products, nil
	}

	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

type yamlDocument struct {
	Products []yamlProduct `yaml:"products"`
}

type yamlProduct struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Prices       []yamlPrice  `yaml:"prices"`
	Category     string       `yaml:"category"`
	Status       string       `yaml:"status"`
	Manufacturer string       `yaml:"manufacturer"`
	ImageURL     string       `yaml:"imageUrl"`
	Notes        string       `yaml:"notes"`
	Rating       int          `yaml:"rating"`
	CreatedAt    yamlDateTime `yaml:"createdAt"`
	CreatedBy    string       `yaml:"createdBy"`
}

type yamlPrice struct {
	Amount      yamlAmount `yaml:"amount"`
	Currency    string     `yaml:"currency"`
	Marketplace string     `yaml:"marketplace"`
}

// yamlAmount keeps the literal text of the scalar so 2.45 stays exact.
// set stays false when the key is absent or null.
type yamlAmount struct {
	decimal.Decimal
	set bool
}

func (a *yamlAmount) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		return fmt.Errorf("line %d: %w", node.Line, domain.ErrMissingAmount)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q", node.Line, node.Value)
	}
	a.Decimal = d
	a.set = true
	return nil
}

type yamlDateTime struct {
	strfmt.DateTime
}

func (d *yamlDateTime) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		return nil
	}
	dt, err := strfmt.ParseDateTime(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid timestamp %q", node.Line, node.Value)
	}
	d.DateTime = dt
	return nil
}

func decodeYAML(data []byte) ([]*domain.Product, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(doc.Products))
	for i, rec := range doc.Products {
		p := &domain.Product{
			ID:           rec.ID,
			Name:         rec.Name,
			Category:     rec.Category,
			Status:       domain.Status(rec.Status),
			Manufacturer: rec.Manufacturer,
			ImageURL:     rec.ImageURL,
			Notes:        rec.Notes,
			Rating:       rec.Rating,
			CreatedAt:    rec.CreatedAt.DateTime,
			CreatedBy:    rec.CreatedBy,
		}
		for j, price := range rec.Prices {
			if !price.Amount.set {
				return nil, fmt.Errorf("product %d price %d: %w", i, j, domain.ErrMissingAmount)
			}
			p.Prices = append(p.Prices, domain.PriceInfo{
				Amount:      price.Amount.Decimal,
				Currency:    price.Currency,
				Marketplace: price.Marketplace,
			})
		}
		products = append(products, p)
	}

	return products, nil
}
