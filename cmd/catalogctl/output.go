package main

import (
	"encoding/json"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/kahvecikaan/catalog-browser/internal/filter"
	"io"
	"strconv"
	"strings"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func checkOutput(format string) error {
	switch format {
	case outputJSON, outputTable:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s or %s)", format, outputJSON, outputTable)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// formatPrices renders every price entry as "$12.99 @ Walmart"
func formatPrices(prices []domain.PriceInfo) string {
	if len(prices) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(prices))
	for _, p := range prices {
		parts = append(parts, p.Format()+" @ "+p.Marketplace)
	}
	return strings.Join(parts, ", ")
}

func productsTable(products []*domain.Product) string {
	t := newTable("ID", "Name", "Category", "Status", "Manufacturer", "Prices")
	for _, p := range products {
		t.Row(p.ID, p.Name, p.Category, string(p.Status), p.Manufacturer, formatPrices(p.Prices))
	}
	return t.String()
}

func optionsTable(opts filter.Options) string {
	t := newTable("Facet", "Values")
	t.Row("Products", strconv.Itoa(opts.Total))
	t.Row("Categories", strings.Join(opts.Categories, ", "))
	t.Row("Marketplaces", strings.Join(opts.Marketplaces, ", "))
	t.Row("Currencies", strings.Join(opts.Currencies, ", "))

	statuses := make([]string, 0, len(opts.Statuses))
	for _, s := range opts.Statuses {
		statuses = append(statuses, fmt.Sprintf("%s (%d)", s.Status, s.Count))
	}
	t.Row("Statuses", strings.Join(statuses, ", "))

	priceRange := "-"
	if opts.PriceRange != nil {
		priceRange = opts.PriceRange.Min.String() + " - " + opts.PriceRange.Max.String()
	}
	t.Row("Price range", priceRange)

	return t.String()
}
