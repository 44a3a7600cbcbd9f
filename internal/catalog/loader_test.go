package catalog

import (
	"context"
	"database/sql"
	"errors"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

const jsonCatalog = `[
  {"id": "m1", "name": "Wireless Mouse", "category": "Electronics", "status": "available",
   "prices": [{"amount": 24.99, "currency": "USD", "marketplace": "Amazon"},
              {"amount": "19.5", "currency": "USD", "marketplace": "eBay"}],
   "createdAt": "2024-01-02T03:04:05Z"},
  {"name": "Gift Card", "category": "Other", "status": "onOrder", "prices": []}
]`

const yamlCatalog = `products:
  - id: m1
    name: Wireless Mouse
    category: Electronics
    status: available
    manufacturer: Logitech
    createdAt: 2024-01-02T03:04:05Z
    prices:
      - amount: 24.99
        currency: USD
        marketplace: Amazon
      - amount: "0.10"
        currency: CNY
        marketplace: AliExpress
  - id: k2
    name: Kettle
    category: Home Appliances
    status: unavailable
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestFileLoaderJSON(t *testing.T) {
	path := writeFile(t, "catalog.json", jsonCatalog)

	c, err := NewFileLoader(path, domain.NewValidation()).Load(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	products := c.Products()
	assert.Equal(t, "m1", products[0].ID)
	require.Len(t, products[0].Prices, 2)
	assert.Equal(t, "24.99", products[0].Prices[0].Amount.String())
	assert.Equal(t, "19.5", products[0].Prices[1].Amount.String())
	assert.Equal(t, "2024-01-02T03:04:05.000Z", products[0].CreatedAt.String())
	assert.NotEmpty(t, products[1].ID, "missing IDs are generated")
	assert.Empty(t, products[1].Prices)
}

func TestFileLoaderJSONObject(t *testing.T) {
	path := writeFile(t, "catalog.json", `{"products": `+jsonCatalog+`}`)

	c, err := NewFileLoader(path, domain.NewValidation()).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestFileLoaderYAML(t *testing.T) {
	path := writeFile(t, "catalog.yml", yamlCatalog)

	c, err := NewFileLoader(path, domain.NewValidation()).Load(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	mouse, ok := c.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "Logitech", mouse.Manufacturer)
	assert.Equal(t, domain.StatusAvailable, mouse.Status)
	require.Len(t, mouse.Prices, 2)
	assert.Equal(t, "24.99", mouse.Prices[0].Amount.String())
	assert.Equal(t, "0.1", mouse.Prices[1].Amount.String())
	assert.Equal(t, "CNY", mouse.Prices[1].Currency)
	assert.False(t, mouse.CreatedAt.IsZero())

	kettle, ok := c.Get("k2")
	require.True(t, ok)
	assert.Empty(t, kettle.Prices)
}

func TestFileLoaderErrors(t *testing.T) {
	testCases := []struct {
		name     string
		file     string
		contents string
		wantErr  error
	}{
		{"Invalid status", "c.json", `[{"id":"1","name":"A","category":"B","status":"sold"}]`, domain.ErrInvalidCatalog},
		{"Negative amount", "c.json", `[{"id":"1","name":"A","category":"B","status":"available","prices":[{"amount":-1,"currency":"USD","marketplace":"Amazon"}]}]`, domain.ErrInvalidCatalog},
		{"Malformed JSON", "c.json", `[{`, domain.ErrInvalidCatalog},
		{"Duplicate IDs", "c.json", `[{"id":"1","name":"A","category":"B","status":"available"},{"id":"1","name":"C","category":"D","status":"available"}]`, domain.ErrDuplicateProductID},
		{"Missing JSON amount", "c.json", `[{"id":"1","name":"A","category":"B","status":"available","prices":[{"currency":"USD","marketplace":"Amazon"}]}]`, domain.ErrInvalidCatalog},
		{"Null JSON amount", "c.json", `[{"id":"1","name":"A","category":"B","status":"available","prices":[{"amount":null,"currency":"USD","marketplace":"Amazon"}]}]`, domain.ErrInvalidCatalog},
		{"Huge JSON amount", "c.json", `[{"id":"1","name":"A","category":"B","status":"available","prices":[{"amount":1e999999999,"currency":"USD","marketplace":"Amazon"}]}]`, domain.ErrInvalidCatalog},
		{"Missing YAML amount", "c.yaml", "products:\n  - id: x\n    name: A\n    category: B\n    status: available\n    prices:\n      - currency: USD\n        marketplace: Amazon\n", domain.ErrInvalidCatalog},
		{"Null YAML amount", "c.yaml", "products:\n  - id: x\n    name: A\n    category: B\n    status: available\n    prices:\n      - amount: ~\n        currency: USD\n        marketplace: Amazon\n", domain.ErrInvalidCatalog},
		{"Huge YAML amount", "c.yaml", "products:\n  - id: x\n    name: A\n    category: B\n    status: available\n    prices:\n      - amount: 1e-999999999\n        currency: USD\n        marketplace: Amazon\n", domain.ErrInvalidCatalog},
		{"Bad YAML amount", "c.yaml", "products:\n  - id: x\n    name: A\n    category: B\n    status: available\n    prices:\n      - amount: cheap\n        currency: USD\n        marketplace: Amazon\n", domain.ErrInvalidCatalog},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.file, tc.contents)

			_, err := NewFileLoader(path, domain.NewValidation()).Load(context.Background())

			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestFileLoaderMissingAmountMessage(t *testing.T) {
	path := writeFile(t, "c.json", `[{"id":"1","name":"A","category":"B","status":"available","prices":[{"currency":"USD","marketplace":"Amazon"}]}]`)

	_, err := NewFileLoader(path, domain.NewValidation()).Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrMissingAmount.Error())
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.json"), domain.NewValidation()).Load(context.Background())

	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestEmbeddedLoader(t *testing.T) {
	c, err := NewEmbeddedLoader(domain.NewValidation()).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())
	assert.Equal(t, "sample", c.Source())
}

func TestSQLiteLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(SQLiteSchema)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO products (id, name, category, status, manufacturer, created_at)
		VALUES ('z1', 'Zoom Lens', 'Electronics', 'available', 'Canon', '2024-05-01T00:00:00Z');
		INSERT INTO products (id, name, category, status) VALUES ('a2', 'Apron', 'Clothing', 'onOrder');
		INSERT INTO prices (product_id, position, amount, currency, marketplace) VALUES
			('z1', 2, '350', 'USD', 'eBay'),
			('z1', 1, '399.99', 'USD', 'Amazon');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	c, err := NewSQLiteLoader(path, domain.NewValidation()).Load(context.Background())

	require.NoError(t, err)
	products := c.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "z1", products[0].ID)
	assert.Equal(t, "a2", products[1].ID)
	require.Len(t, products[0].Prices, 2)
	assert.Equal(t, "Amazon", products[0].Prices[0].Marketplace)
	assert.Equal(t, "399.99", products[0].Prices[0].Amount.String())
	assert.Equal(t, "Canon", products[0].Manufacturer)
	assert.Empty(t, products[1].Prices)
	assert.Equal(t, "sqlite://"+path, c.Source())
}

func TestSQLiteLoaderRejectsHugeAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(SQLiteSchema)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO products (id, name, category, status) VALUES ('h1', 'Heirloom', 'Other', 'available');
		INSERT INTO prices (product_id, position, amount, currency, marketplace) VALUES ('h1', 1, '1e999999999', 'USD', 'eBay');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewSQLiteLoader(path, domain.NewValidation()).Load(context.Background())

	assert.True(t, errors.Is(err, domain.ErrInvalidCatalog), "got %v", err)
}

func TestNewLoader(t *testing.T) {
	v := domain.NewValidation()
	testCases := []struct {
		source string
		want   interface{}
	}{
		{"", &EmbeddedLoader{}},
		{"catalog.json", &FileLoader{}},
		{"catalog.YAML", &FileLoader{}},
		{"catalog.yml", &FileLoader{}},
		{"sqlite:///tmp/catalog.db", &SQLiteLoader{}},
	}

	for _, tc := range testCases {
		t.Run(tc.source, func(t *testing.T) {
			l, err := NewLoader(tc.source, v)

			require.NoError(t, err)
			assert.IsType(t, tc.want, l)
		})
	}

	_, err := NewLoader("catalog.csv", v)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedSource))
}
