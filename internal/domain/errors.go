package domain

import "errors"

// Domain-level errors
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrUnknownField       = errors.New("unknown filter field")
	ErrInvalidCatalog     = errors.New("invalid catalog")
	ErrDuplicateProductID = errors.New("duplicate product id")
	ErrUnsupportedSource  = errors.New("unsupported catalog source")
	ErrMissingAmount      = errors.New("price amount is required")
)
