package utils

import "errors"

// Common application errors used across services.
var (
	ErrCategoryNotFound = errors.New("CATEGORY_NOT_FOUND")
	ErrProductNotFound  = errors.New("PRODUCT_NOT_FOUND")
	ErrTagNotFound      = errors.New("TAG_NOT_FOUND")
	ErrPriceRequired    = errors.New("price is required")
	ErrNegativePrice    = errors.New("price must be greater than or equal to 0")
	ErrNegativeStock    = errors.New("stock must be greater than or equal to 0")
)

// IsNotFound reports whether err is one of the entity not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrTagNotFound)
}
