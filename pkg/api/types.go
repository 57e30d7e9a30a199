// Package api defines the wire-level response envelopes and the error
// taxonomy shared by handlers, plugins, and the dispatcher.
package api

// ResultResponse wraps a single object for JSON serialization.
type ResultResponse struct {
	Result any `json:"result"`
}

// ListResponse wraps a collection. Pagination metadata is present only
// when a paginator produced the page.
type ListResponse struct {
	Results    any `json:"results"`
	Pagination any `json:"pagination,omitempty"`
}

// ErrorResponse is the top-level error body. Field is set for
// field-specific validation errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
