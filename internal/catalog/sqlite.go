package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/go-openapi/strfmt"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteSchema is the layout SQLiteLoader reads. Products keep their
// insertion order; prices are ordered by position within a product.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS products (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	status       TEXT NOT NULL,
	manufacturer TEXT,
	image_url    TEXT,
	notes        TEXT,
	rating       INTEGER,
	created_at   TEXT,
	created_by   TEXT
);

CREATE TABLE IF NOT EXISTS prices (
	product_id  TEXT NOT NULL REFERENCES products(id),
	position    INTEGER NOT NULL,
	amount      TEXT NOT NULL,
	currency    TEXT NOT NULL,
	marketplace TEXT NOT NULL,
	PRIMARY KEY (product_id, position)
);
`

// SQLiteLoader reads a catalog from a SQLite database, read only
type SQLiteLoader struct {
	path       string
	validation *domain.Validation
}

func NewSQLiteLoader(path string, v *domain.Validation) *SQLiteLoader {
	return &SQLiteLoader{path: path, validation: v}
}

// Path is the database file the loader reads
func (l *SQLiteLoader) Path() string {
	return l.path
}

func (l *SQLiteLoader) Load(ctx context.Context) (*Catalog, error) {
	db, err := sql.Open("sqlite", "file:"+l.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("unable to open catalog database: %w", err)
	}
	defer db.Close()

	products, err := queryProducts(ctx, db)
	if err != nil {
		return nil, err
	}

	if err := attachPrices(ctx, db, products); err != nil {
		return nil, err
	}

	return build(sqlitePrefix+l.path, products, l.validation)
}

func queryProducts(ctx context.Context, db *sql.DB) ([]*domain.Product, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, category, status,
		       COALESCE(manufacturer, ''), COALESCE(image_url, ''), COALESCE(notes, ''),
		       COALESCE(rating, 0), COALESCE(created_at, ''), COALESCE(created_by, '')
		FROM products
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("unable to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var (
			p         domain.Product
			status    string
			createdAt string
		)
		err := rows.Scan(&p.ID, &p.Name, &p.Category, &status,
			&p.Manufacturer, &p.ImageURL, &p.Notes,
			&p.Rating, &createdAt, &p.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("unable to scan product: %w", err)
		}
		p.Status = domain.Status(status)

		if createdAt != "" {
			dt, err := strfmt.ParseDateTime(createdAt)
			if err != nil {
				return nil, fmt.Errorf("%w: product %q: invalid created_at %q", domain.ErrInvalidCatalog, p.ID, createdAt)
			}
			p.CreatedAt = dt
		}

		products = append(products, &p)
	}

	return products, rows.Err()
}

func attachPrices(ctx context.Context, db *sql.DB, products []*domain.Product) error {
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	rows, err := db.QueryContext(ctx, `
		SELECT product_id, amount, currency, marketplace
		FROM prices
		ORDER BY product_id, position`)
	if err != nil {
		return fmt.Errorf("unable to query prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID, amount, currency, marketplace string
		if err := rows.Scan(&productID, &amount, &currency, &marketplace); err != nil {
			return fmt.Errorf("unable to scan price: %w", err)
		}

		p, ok := byID[productID]
		if !ok {
			return fmt.Errorf("%w: price for unknown product %q", domain.ErrInvalidCatalog, productID)
		}

		d, err := decimal.NewFromString(amount)
		if err != nil || !domain.ValidAmount(d) {
			return fmt.Errorf("%w: product %q: invalid amount %q", domain.ErrInvalidCatalog, productID, amount)
		}

		p.Prices = append(p.Prices, domain.PriceInfo{Amount: d, Currency: currency, Marketplace: marketplace})
	}

	return rows.Err()
}
