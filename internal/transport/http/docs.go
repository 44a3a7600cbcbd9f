// Package classification of Catalog API
//
// # Documentation for Catalog API
//
// Schemes: http
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// swagger:meta
package http

import (
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/kahvecikaan/catalog-browser/internal/filter"
	"github.com/kahvecikaan/catalog-browser/internal/service"
)

// NOTE: Types defined here are purely for documentation purposes
// These types are not used by any of the handlers

// API error with the HTTP status code
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in: body
	Body ErrorResponse
}

// Matching products in catalog order
// swagger:response productsResponse
type productsResponseWrapper struct {
	// in: body
	Body []domain.Product
}

// Data structure representing a single product
// swagger:response productResponse
type productResponseWrapper struct {
	// in: body
	Body domain.Product
}

// Matching products with counts
// swagger:response filterResultResponse
type filterResultResponseWrapper struct {
	// in: body
	Body service.FilterResult
}

// Facet data for the filter controls
// swagger:response filterOptionsResponse
type filterOptionsResponseWrapper struct {
	// in: body
	Body filter.Options
}

// swagger:parameters getProductByID
type productIDParamsWrapper struct {
	// The ID of the product
	// in: path
	// required: true
	ID string `json:"id"`
}

// swagger:parameters filterProducts
type criteriaBodyParamsWrapper struct {
	// in: body
	// required: true
	Body domain.FilterCriteria
}

// ErrorResponse is the body written by go-openapi/errors.ServeError
//
// swagger:model
type ErrorResponse struct {
	// required: true
	Code int32 `json:"code"`

	// required: true
	Message string `json:"message"`
}
