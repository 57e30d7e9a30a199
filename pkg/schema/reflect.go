package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgx query execution that reflection needs.
// Both *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const columnsSQL = `
	SELECT c.column_name,
	       c.data_type,
	       c.is_nullable = 'YES',
	       c.column_default IS NOT NULL,
	       c.column_default LIKE 'nextval(%' OR c.is_identity = 'YES'
	FROM information_schema.columns c
	WHERE c.table_schema = current_schema() AND c.table_name = $1
	ORDER BY c.ordinal_position
`

const primaryKeySQL = `
	SELECT kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
	  ON tc.constraint_name = kcu.constraint_name
	 AND tc.table_schema = kcu.table_schema
	WHERE tc.table_schema = current_schema()
	  AND tc.table_name = $1
	  AND tc.constraint_type = 'PRIMARY KEY'
	ORDER BY kcu.ordinal_position
`

// Reflect reads column and primary-key metadata for the named table and
// builds its EntityType. A table with no columns is reported as
// ErrUnknownTable; a table with no primary-key constraint as
// ErrNoPrimaryKey. Both are startup-time configuration errors.
func Reflect(ctx context.Context, q Querier, table string) (*EntityType, error) {
	rows, err := q.Query(ctx, columnsSQL, table)
	if err != nil {
		return nil, fmt.Errorf("reflecting table %q: %w", table, err)
	}

	var columns []Column
	for rows.Next() {
		var c Column
		var dataType string
		var autoIncrement *bool
		if err := rows.Scan(&c.Name, &dataType, &c.Nullable, &c.HasDefault, &autoIncrement); err != nil {
			rows.Close()
			return nil, fmt.Errorf("reflecting table %q: %w", table, err)
		}
		c.Kind = kindOf(dataType)
		c.AutoIncrement = autoIncrement != nil && *autoIncrement
		columns = append(columns, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reflecting table %q: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("reflecting table %q: %w", table, ErrUnknownTable)
	}

	pkNames, err := primaryKeyColumns(ctx, q, table)
	if err != nil {
		return nil, fmt.Errorf("reflecting table %q: %w", table, err)
	}
	if len(pkNames) == 0 {
		return nil, fmt.Errorf("reflecting table %q: %w", table, ErrNoPrimaryKey)
	}

	entity := &EntityType{Table: table, Columns: columns}
	for _, name := range pkNames {
		for i := range entity.Columns {
			if entity.Columns[i].Name == name {
				entity.Columns[i].PrimaryKey = true
				entity.pk = append(entity.pk, i)
			}
		}
	}
	return entity, nil
}

func primaryKeyColumns(ctx context.Context, q Querier, table string) ([]string, error) {
	rows, err := q.Query(ctx, primaryKeySQL, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// kindOf maps an information_schema data_type to a semantic kind.
// Unrecognized types are treated as strings, which round-trips any value
// Postgres renders as text.
func kindOf(dataType string) Kind {
	switch strings.ToLower(dataType) {
	case "smallint", "integer", "bigint", "smallserial", "serial", "bigserial":
		return KindInteger
	case "real", "double precision", "numeric", "decimal":
		return KindFloat
	case "boolean":
		return KindBool
	case "bytea":
		return KindBinary
	case "date":
		return KindDate
	default:
		if strings.HasPrefix(strings.ToLower(dataType), "timestamp") {
			return KindDateTime
		}
		return KindString
	}
}
