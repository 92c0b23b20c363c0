// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"

	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/domain"
)

// --- Listing ---

// ListQuery holds the query parameters shared by list endpoints.
// Limit 0 returns every row.
type ListQuery struct {
	Search     string `form:"search"`
	Limit      int    `form:"limit" binding:"omitempty,min=0,max=500"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
	OrderBy    string `form:"orderBy"`
	ActiveOnly bool   `form:"activeOnly"`
}

// ToFilter converts the query into a repository filter.
func (q ListQuery) ToFilter() domain.ListFilter {
	return domain.ListFilter{
		Search:     strings.TrimSpace(q.Search),
		ActiveOnly: q.ActiveOnly,
		OrderBy:    q.OrderBy,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
}

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps every item of res with fn.
func NewListResponse[E, T any](res domain.ListResult[E], fn func(E) T) ListResponse[T] {
	items := make([]T, len(res.Items))
	for i, it := range res.Items {
		items[i] = fn(it)
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: res.TotalCount,
		Limit:      res.Limit,
		Offset:     res.Offset,
	}
}

// MapSlice maps a plain slice.
func MapSlice[E, T any](in []E, fn func(E) T) []T {
	out := make([]T, len(in))
	for i, it := range in {
		out[i] = fn(it)
	}
	return out
}

// --- IDs ---

// ParseOptionalID parses an optional UUID field; empty yields nil.
func ParseOptionalID(field, value string) (*id.ID, error) {
	if value == "" {
		return nil, nil
	}
	v, err := id.Parse(value)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").WithDetail("field", field)
	}
	return &v, nil
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// --- Success / Error ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the body written by the error middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
