package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/catalog-browser/internal/catalog"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/kahvecikaan/catalog-browser/internal/events"
	"github.com/kahvecikaan/catalog-browser/internal/repository"
	"github.com/kahvecikaan/catalog-browser/internal/service"
	httpTransport "github.com/kahvecikaan/catalog-browser/internal/transport/http"
	websocketTransport "github.com/kahvecikaan/catalog-browser/internal/transport/websocket"
	"github.com/kahvecikaan/catalog-browser/internal/watcher"
	"github.com/nicholasjackson/env"
	"golang.org/x/sync/errgroup"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":9090", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"debug", "Log output level for the server [debug, info, trace]")
	catalogSource = env.String("CATALOG_SOURCE", false,
		"", "Catalog to serve: a .json/.yaml file, sqlite://<path>, or empty for the sample catalog")
	watchCatalog = env.String("WATCH_CATALOG", false,
		"true", "Reload file-backed catalogs when they change")
	reloadDebounce = env.String("RELOAD_DEBOUNCE", false,
		"500ms", "Quiet period after the last catalog write before reloading")
	corsOrigins = env.String("CORS_ORIGINS", false,
		"http://localhost:3000", "Comma separated list of allowed CORS origins")
)

// watchSettings are the parsed reload options
type watchSettings struct {
	enabled  bool
	debounce time.Duration
}

func parseWatchSettings(enabled, debounce string) (watchSettings, error) {
	on, err := strconv.ParseBool(enabled)
	if err != nil {
		return watchSettings{}, fmt.Errorf("invalid WATCH_CATALOG %q: %w", enabled, err)
	}

	d, err := time.ParseDuration(debounce)
	if err != nil {
		return watchSettings{}, fmt.Errorf("invalid RELOAD_DEBOUNCE %q: %w", debounce, err)
	}
	if d <= 0 {
		return watchSettings{}, fmt.Errorf("invalid RELOAD_DEBOUNCE %q: must be positive", debounce)
	}

	return watchSettings{enabled: on, debounce: d}, nil
}

// watchPath returns the file behind loader, if it has one
func watchPath(loader catalog.Loader) (string, bool) {
	fl, ok := loader.(interface{ Path() string })
	if !ok {
		return "", false
	}
	return fl.Path(), true
}

func main() {
	env.Parse()

	// Initialize the logger
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "catalog-api",
		Level: hclog.LevelFromString(*logLevel),
	})

	if err := run(logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(logger hclog.Logger) error {
	settings, err := parseWatchSettings(*watchCatalog, *reloadDebounce)
	if err != nil {
		return err
	}

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the initial catalog; the server does not start without one
	validation := domain.NewValidation()
	loader, err := catalog.NewLoader(*catalogSource, validation)
	if err != nil {
		return err
	}

	initial, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("unable to load catalog: %w", err)
	}
	logger.Info("Catalog loaded", "source", initial.Source(), "products", initial.Len())

	// Initialize the event bus - this will be shared between services
	eventBus := events.NewEventBus[any]()

	repo := repository.NewMemoryCatalogRepository(initial)

	cs := service.NewCatalogService(
		loader,
		repo,
		eventBus,
		logger.Named("catalog-service"),
	)
	defer cs.Close()

	// Initialize HTTP and WebSocket handlers
	ch := httpTransport.NewCatalogHandler(cs, logger.Named("http-handler"))
	wh := websocketTransport.NewHandler(
		logger.Named("websocket-handler"),
		eventBus,
		cs,
	)

	router := httpTransport.NewRouter(ch, logger, wh, httpTransport.CORSConfigFromOrigins(*corsOrigins))

	// Create the HTTP Server
	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      router,
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "bind_address", *bindAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})

	if path, ok := watchPath(loader); ok && settings.enabled {
		w, err := watcher.New(path, eventBus, settings.debounce, logger.Named("catalog-watcher"))
		if err != nil {
			return err
		}
		defer w.Close()

		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
