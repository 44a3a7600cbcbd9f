package http

import (
	"encoding/json"
	"errors"
	apierrors "github.com/go-openapi/errors"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/kahvecikaan/catalog-browser/internal/service"
	"net/http"
	"net/url"
	"strconv"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	logger         hclog.Logger
}

func NewCatalogHandler(cs service.CatalogService, log hclog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: cs,
		logger:         log,
	}
}

// CriteriaFromQuery reads filter criteria from query parameters.
// "q" is accepted as an alias of "search"; malformed price bounds are unset.
func CriteriaFromQuery(values url.Values) domain.FilterCriteria {
	search := values.Get("search")
	if search == "" {
		search = values.Get("q")
	}

	return domain.FilterCriteria{
		Search:      search,
		Category:    values.Get("category"),
		Status:      values.Get("status"),
		Marketplace: values.Get("marketplace"),
		PriceRange: domain.PriceRange{
			Min: domain.ParsePriceBound(values.Get("minPrice")),
			Max: domain.ParsePriceBound(values.Get("maxPrice")),
		},
	}
}

// ListProducts handles GET /products
//
// swagger:route GET /products products listProducts
//
// Returns the products matching the filter criteria in the query string.
//
// Responses:
//
//	200: productsResponse
//	500: errorResponse
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	criteria := CriteriaFromQuery(r.URL.Query())

	result, err := h.catalogService.FilterProducts(r.Context(), criteria)
	if err != nil {
		h.logger.Error("Error filtering products", "error", err)
		apierrors.ServeError(w, r, apierrors.New(http.StatusInternalServerError, "error filtering products"))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	w.Header().Set("X-Catalog-Version", strconv.FormatUint(result.Version, 10))
	h.writeJSON(w, http.StatusOK, result.Products)
}

// FilterProducts handles POST /products/filter
//
// swagger:route POST /products/filter products filterProducts
//
// Applies the filter criteria in the request body.
//
// Responses:
//
//	200: filterResultResponse
//	400: errorResponse
//	500: errorResponse
func (h *CatalogHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	criteria, ok := r.Context().Value(ContextKeyCriteria).(domain.FilterCriteria)
	if !ok {
		apierrors.ServeError(w, r, apierrors.New(http.StatusBadRequest, "missing filter criteria"))
		return
	}

	result, err := h.catalogService.FilterProducts(r.Context(), criteria)
	if err != nil {
		h.logger.Error("Error filtering products", "error", err)
		apierrors.ServeError(w, r, apierrors.New(http.StatusInternalServerError, "error filtering products"))
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// GetProductByID handles GET /products/{id}
//
// swagger:route GET /products/{id} products getProductByID
//
// Returns a product by ID.
//
// Responses:
//
//	200: productResponse
//	404: errorResponse
func (h *CatalogHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.catalogService.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			apierrors.ServeError(w, r, apierrors.NotFound("product %q not found", id))
			return
		}

		h.logger.Error("Error getting product", "id", id, "error", err)
		apierrors.ServeError(w, r, apierrors.New(http.StatusInternalServerError, "error getting product"))
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

// GetFilterOptions handles GET /filters/options
//
// swagger:route GET /filters/options filters getFilterOptions
//
// Returns the values available to each filter control.
//
// Responses:
//
//	200: filterOptionsResponse
//	500: errorResponse
func (h *CatalogHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalogService.FilterOptions(r.Context())
	if err != nil {
		h.logger.Error("Error building filter options", "error", err)
		apierrors.ServeError(w, r, apierrors.New(http.StatusInternalServerError, "error building filter options"))
		return
	}

	h.writeJSON(w, http.StatusOK, options)
}

func (h *CatalogHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", "error", err)
	}
}
