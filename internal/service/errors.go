package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrValidation         = errors.New("validation failed")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")

	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
	ErrInvalidDirection = errors.New("direction must be up or down")
	ErrEmptyReorder     = errors.New("products list is required")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category in use")

	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyItems          = errors.New("cart is empty")
	ErrQuantityInvalid     = errors.New("quantity must be a whole number between 1 and 9999")
	ErrPriceInvalid        = errors.New("price must be between 0 and 999999")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrPriceMismatch       = errors.New("price does not match current product price")
	ErrProfileIncomplete   = errors.New("missing profile data")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")

	ErrMessageNotFound = errors.New("message not found")
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries per-field problems. errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(names, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidation(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// missingFields builds a ValidationError listing every empty value in m,
// or nil when nothing is missing. Keys are visited in order.
func missingFields(order []string, m map[string]string) *ValidationError {
	var fields []FieldError
	for _, k := range order {
		if strings.TrimSpace(m[k]) == "" {
			fields = append(fields, FieldError{Field: k, Message: "required"})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return newValidation("missing required fields", fields...)
}

// ItemError pins an order validation failure to one cart line.
type ItemError struct {
	Index     int
	ProductID string
	Err       error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d (%s): %v", e.Index, e.ProductID, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// CategoryInUseError reports how many products still reference a category.
type CategoryInUseError struct {
	Count int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("Cannot delete category. %d products are using this category.", e.Count)
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrCategoryInUse }

func fieldIndex(list string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, i, field)
}
