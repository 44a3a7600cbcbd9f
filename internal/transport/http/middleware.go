package http

import (
	"context"
	"encoding/json"
	apierrors "github.com/go-openapi/errors"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type contextKey string

// ContextKeyCriteria holds the decoded FilterCriteria of a POST /products/filter request
const ContextKeyCriteria contextKey = "criteria"

// maxCriteriaBytes bounds the size of a criteria request body
const maxCriteriaBytes = 64 << 10

// Middleware struct holds dependencies for middleware functions
type Middleware struct {
	Logger     hclog.Logger
	corsConfig *CORSConfig
}

// CORSConfig holds configuration for CORS middleware
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	MaxAge           int  // Cache preflight requests
	AllowCredentials bool // Allow credentials like cookies
}

func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:           86400, // 24 hours
		AllowCredentials: true,
	}
}

// CORSConfigFromOrigins parses a comma separated origin list on top of the
// defaults. An empty list keeps the default origins.
func CORSConfigFromOrigins(origins string) *CORSConfig {
	cfg := DefaultCORSConfig()
	var parsed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			parsed = append(parsed, o)
		}
	}
	if len(parsed) > 0 {
		cfg.AllowedOrigins = parsed
	}
	return cfg
}

// NewMiddleware creates a new Middleware instance
func NewMiddleware(logger hclog.Logger, corsConfig *CORSConfig) *Middleware {
	if corsConfig == nil {
		corsConfig = DefaultCORSConfig()
	}
	return &Middleware{
		Logger:     logger,
		corsConfig: corsConfig,
	}
}

func (m *Middleware) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Check if the origin is allowed
		allowed := false
		for _, allowedOrigin := range m.corsConfig.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		if !allowed || origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Methods", strings.Join(m.corsConfig.AllowedMethods, ","))
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(m.corsConfig.AllowedHeaders, ","))

		if m.corsConfig.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			if m.corsConfig.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(m.corsConfig.MaxAge))
			}
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContentTypeMiddleware sets the Content-Type header to application/json
func (m *Middleware) ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs the incoming requests and responses
func (m *Middleware) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		m.Logger.Info("Incoming request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
		)

		// Add the request ID to the response header
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		m.Logger.Info("Completed request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
			"duration", time.Since(start),
		)
	})
}

// CriteriaMiddleware decodes the FilterCriteria in the request body and adds it to the context
func (m *Middleware) CriteriaMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var criteria domain.FilterCriteria

		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCriteriaBytes))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&criteria); err != nil {
			m.Logger.Error("Error decoding filter criteria", "error", err)
			apierrors.ServeError(w, r, apierrors.New(http.StatusBadRequest, "invalid filter criteria: %v", err))
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyCriteria, criteria)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
