// Package query provides the candidate-set narrowing capabilities for
// read paths: a small SQL select builder plus the filter and paginator
// plugins that operate on it.
package query

import (
	"fmt"
	"strings"
)

// Select accumulates the pieces of a SELECT statement. Filters append
// predicates, paginators set ordering and slicing; handlers render and
// execute the final statement.
type Select struct {
	table   string
	columns []string
	preds   []string
	args    []any
	orderBy string
	limit   int
	offset  int
}

// NewSelect creates a builder for the given table and column list.
func NewSelect(table string, columns []string) *Select {
	return &Select{table: table, columns: columns, limit: -1, offset: -1}
}

// Where appends a predicate "column op $n". The operator must come from
// the fixed set used by the filter plugin; it is never user input.
func (s *Select) Where(column, op string, value any) {
	s.args = append(s.args, value)
	s.preds = append(s.preds, fmt.Sprintf("%s %s $%d", quoteIdent(column), op, len(s.args)))
}

// OrderBy sets the sort column and direction, replacing any prior order.
func (s *Select) OrderBy(column string, descending bool) {
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	s.orderBy = quoteIdent(column) + " " + dir
}

// Slice sets LIMIT and OFFSET.
func (s *Select) Slice(limit, offset int) {
	s.limit = limit
	s.offset = offset
}

// SQL renders the statement and its positional arguments.
func (s *Select) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	quoted := make([]string, len(s.columns))
	for i, c := range s.columns {
		quoted[i] = quoteIdent(c)
	}
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(s.table))
	s.writeWhere(&b)
	if s.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(s.orderBy)
	}
	if s.limit >= 0 {
		fmt.Fprintf(&b, " LIMIT %d", s.limit)
	}
	if s.offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", s.offset)
	}
	return b.String(), s.args
}

// CountSQL renders a COUNT(*) statement over the same predicates,
// ignoring ordering and slicing.
func (s *Select) CountSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(quoteIdent(s.table))
	s.writeWhere(&b)
	return b.String(), s.args
}

func (s *Select) writeWhere(b *strings.Builder) {
	if len(s.preds) == 0 {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(s.preds, " AND "))
}

// quoteIdent double-quotes an identifier. Identifiers come from reflected
// schema metadata or registration-time configuration, never from request
// values, but quoting keeps reserved words and mixed case working.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
