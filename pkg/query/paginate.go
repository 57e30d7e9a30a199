package query

import (
	"net/url"
	"strconv"
	"strings"
)

// PageMeta describes the slice a paginator produced.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_previous"`
}

// Paginator slices a candidate set and reports pagination metadata.
// Page is clamped to [1, inf) and limit to [1, MaxLimit].
type Paginator struct {
	// DefaultLimit is used when the request does not specify one.
	DefaultLimit int

	// MaxLimit caps the requested limit.
	MaxLimit int

	// SortColumns restricts which columns sort_by may name. A nil map
	// disables sorting entirely.
	SortColumns map[string]bool
}

// Paginate applies ordering and slicing to sel based on the request's
// page, limit, and sort_by parameters, and returns metadata computed
// against the given total row count. Sorting (signed field name, leading
// "-" meaning descending) is applied before slicing.
func (p *Paginator) Paginate(sel *Select, params url.Values, total int64) PageMeta {
	page := intParam(params, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := intParam(params, "limit", p.DefaultLimit)
	if limit < 1 {
		limit = 1
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}

	if sortBy := params.Get("sort_by"); sortBy != "" {
		column, descending := strings.TrimPrefix(sortBy, "-"), strings.HasPrefix(sortBy, "-")
		if p.SortColumns[column] {
			sel.OrderBy(column, descending)
		}
	}

	sel.Slice(limit, (page-1)*limit)

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(page)*int64(limit) < total,
		HasPrev:    page > 1,
	}
}

func intParam(params url.Values, name string, fallback int) int {
	raw := params.Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
