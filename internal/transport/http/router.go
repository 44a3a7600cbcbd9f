package http

import (
	_ "embed"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	websocketTransport "github.com/kahvecikaan/catalog-browser/internal/transport/websocket"
	"net/http"
)

//go:embed swagger.yaml
var swaggerSpec []byte

// NewRouter wires the catalog API. The returned handler recovers from
// panics; JSON routes are gzip compressed, the websocket route is not.
func NewRouter(
	ch *CatalogHandler,
	logger hclog.Logger,
	wsh *websocketTransport.Handler,
	corsConfig *CORSConfig,
) http.Handler {
	router := mux.NewRouter()

	mw := NewMiddleware(logger, corsConfig)

	// Apply global middleware
	router.Use(mw.LoggingMiddleware)
	router.Use(mw.CORSMiddleware)

	// Live filter sessions
	router.HandleFunc("/ws", wsh.HandleWebSocket).Methods("GET")

	// Swagger specification and Redoc UI
	router.HandleFunc("/swagger.yaml", swaggerHandler(logger)).Methods("GET")

	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml"}
	router.Handle("/docs", middleware.Redoc(swaggerOpts, nil)).Methods("GET")

	// JSON API
	api := router.PathPrefix("/").Subrouter()
	api.Use(mw.ContentTypeMiddleware)
	api.Use(handlers.CompressHandler)

	getRouter := api.Methods("GET").Subrouter()
	getRouter.HandleFunc("/products", ch.ListProducts)
	getRouter.HandleFunc("/products/{id}", ch.GetProductByID)
	getRouter.HandleFunc("/filters/options", ch.GetFilterOptions)

	// Routes carrying criteria in the body
	postRouter := api.Methods("POST").Subrouter()
	postRouter.HandleFunc("/products/filter", ch.FilterProducts)
	postRouter.Use(mw.CriteriaMiddleware)

	// Preflight requests are answered by the CORS middleware
	api.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.StandardLogger(&hclog.StandardLoggerOptions{ForceLevel: hclog.Error})),
		handlers.PrintRecoveryStack(false),
	)

	return recovery(router)
}

// swaggerHandler serves the embedded API description
func swaggerHandler(logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		if _, err := w.Write(swaggerSpec); err != nil {
			logger.Error("Error writing swagger specification", "error", err)
		}
	}
}
