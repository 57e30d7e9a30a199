package crud

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/veldt-io/tabular/pkg/api"
	"github.com/veldt-io/tabular/pkg/endpoint"
	"github.com/veldt-io/tabular/pkg/schema"
)

// keyFromPath resolves the route's opaque key token into typed
// primary-key values. A token with the wrong arity or an unparsable
// part names no row, so every failure here is a 404.
func (h *Handlers) keyFromPath(rc *endpoint.Context) ([]schema.Column, []any, error) {
	token := rc.PathParams["id"]
	keyCols := h.entity.PrimaryKey()

	parts := []string{token}
	if len(keyCols) > 1 {
		var err error
		parts, err = schema.DecodeKey(token, len(keyCols))
		if err != nil {
			return nil, nil, h.notFound(rc)
		}
	}

	values := make([]any, len(keyCols))
	for i, col := range keyCols {
		v, err := col.ParseString(parts[i])
		if err != nil {
			return nil, nil, h.notFound(rc)
		}
		values[i] = v
	}
	return keyCols, values, nil
}

// fetchByKey reads and serializes the row named by the path key.
func (h *Handlers) fetchByKey(ctx context.Context, rc *endpoint.Context) (map[string]any, error) {
	keyCols, keyValues, err := h.keyFromPath(rc)
	if err != nil {
		return nil, err
	}
	row, err := h.fetchRow(ctx, rc.Session, keyCols, keyValues)
	if err != nil {
		if _, ok := err.(*api.Error); ok {
			return nil, err
		}
		return nil, translateDBError(err)
	}
	return row, nil
}

func (h *Handlers) fetchRow(ctx context.Context, sess endpoint.Session, keyCols []schema.Column, keyValues []any) (map[string]any, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE ", columnList(h.entity.ColumnNames()), quoteIdent(h.entity.Table))
	writeKeyPredicate(&b, keyCols, 1)

	rows, err := sess.Query(ctx, b.String(), keyValues...)
	if err != nil {
		return nil, translateDBError(err)
	}
	values, err := oneRow(rows)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, api.NewNotFoundError(
				fmt.Sprintf("%s row not found", h.entity.Table))
		}
		return nil, translateDBError(err)
	}
	return h.entity.SerializeRow(values), nil
}

// oneRow consumes a single-row result set. pgx surfaces statement
// errors (constraint violations included) on Next/Err rather than on
// Query, so both paths are checked.
func oneRow(rows pgx.Rows) ([]any, error) {
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}
	values, err := rows.Values()
	if err != nil {
		return nil, err
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func insertSQL(entity *schema.EntityType, columns []schema.Column) string {
	var b strings.Builder
	if len(columns) == 0 {
		fmt.Fprintf(&b, "INSERT INTO %s DEFAULT VALUES", quoteIdent(entity.Table))
	} else {
		names := make([]string, len(columns))
		placeholders := make([]string, len(columns))
		for i, col := range columns {
			names[i] = quoteIdent(col.Name)
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)",
			quoteIdent(entity.Table), strings.Join(names, ", "), strings.Join(placeholders, ", "))
	}
	fmt.Fprintf(&b, " RETURNING %s", columnList(entity.ColumnNames()))
	return b.String()
}

func updateSQL(entity *schema.EntityType, columns []schema.Column, values []any, keyCols []schema.Column, keyValues []any) (string, []any) {
	var sets []string
	var args []any
	for i, col := range columns {
		// The key identifies the row; it is never rewritten.
		if col.PrimaryKey {
			continue
		}
		args = append(args, values[i])
		sets = append(sets, fmt.Sprintf("%s = $%d", quoteIdent(col.Name), len(args)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s WHERE ", quoteIdent(entity.Table), strings.Join(sets, ", "))
	writeKeyPredicate(&b, keyCols, len(args)+1)
	args = append(args, keyValues...)
	fmt.Fprintf(&b, " RETURNING %s", columnList(entity.ColumnNames()))
	return b.String(), args
}

func deleteSQL(entity *schema.EntityType, keyCols []schema.Column, keyValues []any) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s WHERE ", quoteIdent(entity.Table))
	writeKeyPredicate(&b, keyCols, 1)
	return b.String(), keyValues
}

func writeKeyPredicate(b *strings.Builder, keyCols []schema.Column, firstArg int) {
	for i, col := range keyCols {
		if i > 0 {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(b, "%s = $%d", quoteIdent(col.Name), firstArg+i)
	}
}

func columnList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
