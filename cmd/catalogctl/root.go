package main

import (
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/catalog-browser/internal/catalog"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	source   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Filter and inspect product catalogs",
		Long: `catalogctl runs the catalog filter against a catalog source without
starting the API server.

Sources are the same as the server's CATALOG_SOURCE: a .json or .yaml
file, sqlite://<path>, or nothing for the built-in sample catalog.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.source, "catalog", "", "catalog source (default: built-in sample)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(filterCmd(opts))
	cmd.AddCommand(optionsCmd(opts))
	cmd.AddCommand(validateCmd(opts))

	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "catalogctl",
		Level:  hclog.LevelFromString(o.logLevel),
		Output: cmd.ErrOrStderr(),
	})
}

// load reads the catalog named by --catalog
func (o *rootOptions) load(cmd *cobra.Command) (*catalog.Catalog, error) {
	log := o.logger(cmd)

	loader, err := catalog.NewLoader(o.source, domain.NewValidation())
	if err != nil {
		return nil, err
	}

	c, err := loader.Load(cmd.Context())
	if err != nil {
		log.Error("Unable to load catalog", "source", o.source, "error", err)
		return nil, err
	}

	log.Debug("Catalog loaded", "source", c.Source(), "products", c.Len())
	return c, nil
}
