// Package schema discovers table metadata from a live database and turns
// it into EntityType value objects: the name, ordered column specs, and
// primary-key shape that the generic CRUD handlers are parameterized
// over. No types are synthesized at runtime; dispatch is data-driven
// over the column specs.
package schema

import (
	"errors"
	"fmt"
)

// Kind is the semantic type of a column.
type Kind int

const (
	KindInteger Kind = iota
	KindString
	KindFloat
	KindBool
	KindDateTime
	KindDate
	KindBinary
)

// Configuration errors. Both abort startup, with distinguishable causes.
var (
	ErrUnknownTable = errors.New("table not found")
	ErrNoPrimaryKey = errors.New("table has no primary key")
)

// Column describes one reflected column.
type Column struct {
	Name          string
	Kind          Kind
	Nullable      bool
	HasDefault    bool
	AutoIncrement bool
	PrimaryKey    bool
}

// EntityType is the immutable description of a table: ordered column
// specs plus the primary-key shape (a single column or an ordered
// composite). Built once at startup, shared read-only across requests.
type EntityType struct {
	Table   string
	Columns []Column

	pk []int // indexes into Columns, in key order
}

// NewEntityType builds a hand-declared entity. It validates the same
// invariants reflection does: at least one column must be marked as
// primary key.
func NewEntityType(table string, columns []Column) (*EntityType, error) {
	var pk []int
	for i, c := range columns {
		if c.PrimaryKey {
			pk = append(pk, i)
		}
	}
	if len(pk) == 0 {
		return nil, fmt.Errorf("declaring entity %q: %w", table, ErrNoPrimaryKey)
	}
	return &EntityType{Table: table, Columns: columns, pk: pk}, nil
}

// PrimaryKey returns the key columns in key order.
func (e *EntityType) PrimaryKey() []Column {
	cols := make([]Column, len(e.pk))
	for i, idx := range e.pk {
		cols[i] = e.Columns[idx]
	}
	return cols
}

// HasCompositeKey reports whether the key spans multiple columns.
func (e *EntityType) HasCompositeKey() bool {
	return len(e.pk) > 1
}

// Column returns the named column spec.
func (e *EntityType) Column(name string) (Column, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns all column names in table order.
func (e *EntityType) ColumnNames() []string {
	names := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		names[i] = c.Name
	}
	return names
}

// Required returns the columns a create must supply: non-nullable, no
// default, not autoincrement.
func (e *EntityType) Required() []Column {
	var out []Column
	for _, c := range e.Columns {
		if !c.Nullable && !c.HasDefault && !c.AutoIncrement {
			out = append(out, c)
		}
	}
	return out
}

// HasBinary reports whether any column is a binary type, which makes the
// create path accept base64 text input for those columns.
func (e *EntityType) HasBinary() bool {
	for _, c := range e.Columns {
		if c.Kind == KindBinary {
			return true
		}
	}
	return false
}
