package query

import (
	"net/url"
	"strings"
)

// Coercer converts a raw query-parameter string into the typed value the
// column comparison needs.
type Coercer func(raw string) (any, error)

// operators maps the parameter suffix (after "__") to a SQL operator.
var operators = map[string]string{
	"":     "=",
	"gte":  ">=",
	"gt":   ">",
	"lte":  "<=",
	"lt":   "<",
	"ne":   "<>",
	"like": "LIKE",
}

// reserved parameters are consumed by the paginator, never by filters.
var reserved = map[string]bool{"page": true, "limit": true, "sort_by": true}

// ParamFilter maps declared query parameters to predicates against
// columns that exist on the target entity. Unknown parameters and values
// that fail coercion are ignored, not errors.
type ParamFilter struct {
	columns map[string]Coercer
}

// NewParamFilter creates a filter over the given filterable columns.
func NewParamFilter(columns map[string]Coercer) *ParamFilter {
	return &ParamFilter{columns: columns}
}

// Apply narrows sel with one predicate per recognized parameter.
// Parameters use equality by default, or an operator suffix such as
// "balance__gte". Multi-valued parameters use their first value.
func (f *ParamFilter) Apply(sel *Select, params url.Values) {
	for name, values := range params {
		if reserved[name] || len(values) == 0 {
			continue
		}

		column, suffix := name, ""
		if idx := strings.Index(name, "__"); idx >= 0 {
			column, suffix = name[:idx], name[idx+2:]
		}

		op, ok := operators[suffix]
		if !ok {
			continue
		}
		coerce, ok := f.columns[column]
		if !ok {
			continue
		}
		value, err := coerce(values[0])
		if err != nil {
			continue
		}
		sel.Where(column, op, value)
	}
}
