package dto

import (
	"errors"
	"net/http"

	"catalog-query-service/internal/domain"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidParams   = "INVALID_PARAMS"
	CodeValidationError = "VALIDATION_ERROR"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ProductResponse is a product together with its storefront view.
type ProductResponse struct {
	*domain.Product
	Listing domain.Listing `json:"listing"`
}

// FromProduct converts a domain.Product to ProductResponse.
func FromProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		Product: p,
		Listing: domain.NewListing(p),
	}
}

// FromProducts converts products, never returning nil.
func FromProducts(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	return out
}

// PageResponse is a paginated product listing.
type PageResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// FromPage converts a domain.Page to PageResponse.
func FromPage(p *domain.Page) PageResponse {
	return PageResponse{
		Items:      FromProducts(p.Items),
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// ProductListResponse is an unpaginated product list.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Count int               `json:"count"`
}

// FromProductList converts an unpaginated product result.
func FromProductList(products []*domain.Product) ProductListResponse {
	return ProductListResponse{
		Items: FromProducts(products),
		Count: len(products),
	}
}

// CacheStatsResponse reports cache occupancy.
type CacheStatsResponse struct {
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
	Size    string `json:"size"`
}

// FromCacheStats converts domain.CacheStats to CacheStatsResponse.
func FromCacheStats(s domain.CacheStats) CacheStatsResponse {
	return CacheStatsResponse{
		Entries: s.Entries,
		Bytes:   s.Bytes,
		Size:    s.Size(),
	}
}

// CleanupResponse reports an eviction pass.
type CleanupResponse struct {
	Removed int `json:"removed"`
}

// MessageResponse carries a plain status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// APIError is an error with an HTTP status and response code. Handlers
// return it and the server error handler renders it.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Response returns the JSON body for e. The cause is not exposed.
func (e *APIError) Response() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// InvalidParams reports unparsable parameters.
func InvalidParams(message string, err error) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeInvalidParams, Message: message, Err: err}
}

// ValidationFailed reports parameters that parsed but did not validate.
func ValidationFailed(details error) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeValidationError, Message: "validation failed", Details: details}
}

// NotFound reports a missing resource.
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// Upstream maps a failed catalog query. domain.ErrNotFound becomes a 404,
// anything else a 502.
func Upstream(message string, err error) *APIError {
	if errors.Is(err, domain.ErrNotFound) {
		return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "product not found", Err: err}
	}
	return &APIError{Status: http.StatusBadGateway, Code: CodeUpstreamError, Message: message, Err: err}
}

// Internal reports a failure of the service itself.
func Internal(message string, err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternalError, Message: message, Err: err}
}
