package main

import (
	"fmt"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/kahvecikaan/catalog-browser/internal/filter"
	"github.com/spf13/cobra"
)

type filterOptions struct {
	search      string
	category    string
	status      string
	marketplace string
	minPrice    string
	maxPrice    string
	output      string
}

func (o *filterOptions) criteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		Search:      o.search,
		Category:    o.category,
		Status:      o.status,
		Marketplace: o.marketplace,
		PriceRange: domain.PriceRange{
			Min: domain.ParsePriceBound(o.minPrice),
			Max: domain.ParsePriceBound(o.maxPrice),
		},
	}
}

func filterCmd(root *rootOptions) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the products matching the given criteria",
		Long: `Apply the catalog filter and print the matching products in catalog order.

All criteria are combined with AND. "all" or an empty value disables the
category, status and marketplace filters. Price bounds pass when any price
entry satisfies them; malformed bounds are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(opts.output); err != nil {
				return err
			}

			c, err := root.load(cmd)
			if err != nil {
				return err
			}

			query := filter.Normalize(opts.criteria())
			products := query.Filter(c.Products())
			root.logger(cmd).Debug("Filtered products", "query", query.String(), "matched", len(products), "total", c.Len())

			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), products)
			}

			fmt.Fprintln(cmd.OutOrStdout(), productsTable(products))
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d products\n", len(products), c.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "case-insensitive text in name or manufacturer")
	cmd.Flags().StringVar(&opts.category, "category", "", "category (case-insensitive)")
	cmd.Flags().StringVar(&opts.status, "status", "", "status: available, unavailable or onOrder")
	cmd.Flags().StringVar(&opts.marketplace, "marketplace", "", "marketplace of any price entry")
	cmd.Flags().StringVar(&opts.minPrice, "min-price", "", "lowest acceptable price")
	cmd.Flags().StringVar(&opts.maxPrice, "max-price", "", "highest acceptable price")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table or json")

	return cmd
}

func optionsCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the values available to each filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}

			c, err := root.load(cmd)
			if err != nil {
				return err
			}

			opts := filter.BuildOptions(c.Products())
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), opts)
			}

			fmt.Fprintln(cmd.OutOrStdout(), optionsTable(opts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")

	return cmd
}

func validateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a catalog",
		Long: `Load the catalog and check every product. The command fails on the first
invalid product or duplicate ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := root.load(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d products OK\n", c.Source(), c.Len())
			return nil
		},
	}
}
