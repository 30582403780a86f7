package dto

// BaseError is the single error body returned by every endpoint.
// Code is machine oriented (snake_case), Message is shown to the user,
// Details carries an optional hint, Fields lists per-field problems.
type BaseError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError points at one request field, e.g. "items[0].quantity".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// The named variants only exist to make swagger @Failure lines readable.

// ValidationErrorResponse 400, code "validation_error".
type ValidationErrorResponse BaseError

// UnauthorizedErrorResponse 401, code "unauthorized".
type UnauthorizedErrorResponse BaseError

// ForbiddenErrorResponse 403, code "forbidden".
type ForbiddenErrorResponse BaseError

// NotFoundErrorResponse 404, code "not_found".
type NotFoundErrorResponse BaseError

// ConflictErrorResponse 409, code "conflict".
type ConflictErrorResponse BaseError

// RateLimitedErrorResponse 429, code "rate_limited".
type RateLimitedErrorResponse BaseError

// InternalErrorResponse 500, code "internal_error".
type InternalErrorResponse BaseError

const (
	MsgLoginRequired = "غير مصرح - تسجيل الدخول مطلوب"
	MsgAdminRequired = "حق الوصول مرفوض - صلاحيات إدارية مطلوبة"
	MsgServerError   = "حدث خطأ في الخادم"
)

func NewValidationError(msg string, fields []FieldError) ValidationErrorResponse {
	return ValidationErrorResponse(BaseError{Code: "validation_error", Message: msg, Fields: fields})
}
func NewUnauthorizedError(msg string) UnauthorizedErrorResponse {
	return UnauthorizedErrorResponse(BaseError{Code: "unauthorized", Message: msg})
}
func NewForbiddenError(msg string) ForbiddenErrorResponse {
	return ForbiddenErrorResponse(BaseError{Code: "forbidden", Message: msg})
}
func NewNotFoundError(msg string) NotFoundErrorResponse {
	return NotFoundErrorResponse(BaseError{Code: "not_found", Message: msg})
}
func NewConflictError(msg string) ConflictErrorResponse {
	return ConflictErrorResponse(BaseError{Code: "conflict", Message: msg})
}
func NewRateLimitedError(msg string) RateLimitedErrorResponse {
	return RateLimitedErrorResponse(BaseError{Code: "rate_limited", Message: msg})
}
func NewInternalError(details string) InternalErrorResponse {
	return InternalErrorResponse(BaseError{Code: "internal_error", Message: MsgServerError, Details: details})
}

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
