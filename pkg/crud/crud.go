// Package crud implements the six generic handler behaviors — create,
// read-one, read-all, update, partial-update, delete — operating
// uniformly over any EntityType, hand-declared or reflected.
package crud

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/veldt-io/tabular/pkg/api"
	"github.com/veldt-io/tabular/pkg/endpoint"
	"github.com/veldt-io/tabular/pkg/observability"
	"github.com/veldt-io/tabular/pkg/query"
	"github.com/veldt-io/tabular/pkg/schema"
)

// Handlers is the handler set for one entity. Handlers are stateless;
// all request state lives in the endpoint context.
type Handlers struct {
	entity *schema.EntityType
}

// New creates the handler set for an entity.
func New(entity *schema.EntityType) *Handlers {
	return &Handlers{entity: entity}
}

// Entity returns the entity the handlers operate on.
func (h *Handlers) Entity() *schema.EntityType {
	return h.entity
}

// Create persists a new row from the request body. Missing required
// columns and uncoercible values are 400s; uniqueness violations 409.
func (h *Handlers) Create(ctx context.Context, rc *endpoint.Context) (*endpoint.Response, error) {
	observability.HandlerExecutions.WithLabelValues(h.entity.Table, "create").Inc()

	var missing []string
	for _, col := range h.entity.Required() {
		if _, ok := rc.Body[col.Name]; !ok {
			missing = append(missing, col.Name)
		}
	}
	if len(missing) > 0 {
		field := ""
		if len(missing) == 1 {
			field = missing[0]
		}
		return nil, api.NewValidationError(field,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}

	columns, values, err := h.bindBody(rc.Body)
	if err != nil {
		return nil, err
	}

	sql := insertSQL(h.entity, columns)
	rows, err := rc.Session.Query(ctx, sql, values...)
	if err != nil {
		return nil, translateDBError(err)
	}
	rowValues, err := oneRow(rows)
	if err != nil {
		return nil, translateDBError(err)
	}

	return endpoint.NewResponse(http.StatusCreated,
		api.ResultResponse{Result: h.entity.SerializeRow(rowValues)}), nil
}

// Read looks a row up by primary key from the path. 404 when absent.
func (h *Handlers) Read(ctx context.Context, rc *endpoint.Context) (*endpoint.Response, error) {
	observability.HandlerExecutions.WithLabelValues(h.entity.Table, "read").Inc()

	row, err := h.fetchByKey(ctx, rc)
	if err != nil {
		return nil, err
	}
	return endpoint.NewResponse(http.StatusOK, api.ResultResponse{Result: row}), nil
}

// List returns every matching row. The endpoint's filter narrows the
// candidate set from query parameters; the paginator, when configured,
// slices it and adds metadata. Without a paginator every row is
// returned.
func (h *Handlers) List(ctx context.Context, rc *endpoint.Context) (*endpoint.Response, error) {
	observability.HandlerExecutions.WithLabelValues(h.entity.Table, "list").Inc()

	sel := query.NewSelect(h.entity.Table, h.entity.ColumnNames())
	if rc.Endpoint != nil && rc.Endpoint.Filter != nil {
		rc.Endpoint.Filter.Apply(sel, rc.Query)
	}

	var pagination any
	if rc.Endpoint != nil && rc.Endpoint.Paginator != nil {
		countSQL, countArgs := sel.CountSQL()
		var total int64
		if err := rc.Session.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return nil, translateDBError(err)
		}
		meta := rc.Endpoint.Paginator.Paginate(sel, rc.Query, total)
		pagination = meta
	}

	sql, args := sel.SQL()
	rows, err := rc.Session.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, translateDBError(err)
		}
		results = append(results, h.entity.SerializeRow(values))
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError(err)
	}

	return endpoint.NewResponse(http.StatusOK,
		api.ListResponse{Results: results, Pagination: pagination}), nil
}

// Update is a full replace: the row must exist, and every required
// column must be supplied.
func (h *Handlers) Update(ctx context.Context, rc *endpoint.Context) (*endpoint.Response, error) {
	observability.HandlerExecutions.WithLabelValues(h.entity.Table, "update").Inc()
	return h.update(ctx, rc, true)
}

// Patch applies only the supplied subset of fields to an existing row.
func (h *Handlers) Patch(ctx context.Context, rc *endpoint.Context) (*endpoint.Response, error) {
	observability.HandlerExecutions.WithLabelValues(h.entity.Table, "patch").Inc()
	return h.update(ctx, rc, false)
}

func (h *Handlers) update(ctx context.Context, rc *endpoint.Context, requireAll bool) (*endpoint.Response, error) {
	keyCols, keyValues, err := h.keyFromPath(rc)
	if err != nil {
		return nil, err
	}

	current, err := h.fetchRow(ctx, rc.Session, keyCols, keyValues)
	if err != nil {
		return nil, err
	}

	if requireAll {
		var missing []string
		for _, col := range h.entity.Required() {
			if _, ok := rc.Body[col.Name]; !ok && !col.PrimaryKey {
				missing = append(missing, col.Name)
			}
		}
		if len(missing) > 0 {
			field := ""
			if len(missing) == 1 {
				field = missing[0]
			}
			return nil, api.NewValidationError(field,
				fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
		}
	}

	columns, values, err := h.bindBody(rc.Body)
	if err != nil {
		return nil, err
	}
	if !hasUpdatable(columns) {
		// Nothing to change; echo the current row.
		return endpoint.NewResponse(http.StatusOK, api.ResultResponse{Result: current}), nil
	}

	sql, args := updateSQL(h.entity, columns, values, keyCols, keyValues)
	rows, err := rc.Session.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateDBError(err)
	}
	rowValues, err := oneRow(rows)
	if err != nil {
		return nil, translateDBError(err)
	}

	return endpoint.NewResponse(http.StatusOK,
		api.ResultResponse{Result: h.entity.SerializeRow(rowValues)}), nil
}

// Delete removes the keyed row, returning an empty 204 on success.
func (h *Handlers) Delete(ctx context.Context, rc *endpoint.Context) (*endpoint.Response, error) {
	observability.HandlerExecutions.WithLabelValues(h.entity.Table, "delete").Inc()

	keyCols, keyValues, err := h.keyFromPath(rc)
	if err != nil {
		return nil, err
	}

	sql, args := deleteSQL(h.entity, keyCols, keyValues)
	tag, err := rc.Session.Exec(ctx, sql, args...)
	if err != nil {
		return nil, translateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, h.notFound(rc)
	}
	return endpoint.NewResponse(http.StatusNoContent, nil), nil
}

// bindBody coerces body fields into column order, ignoring fields that
// name no column. Primary-key columns are bound on create but never on
// update.
func (h *Handlers) bindBody(body map[string]any) ([]schema.Column, []any, error) {
	var columns []schema.Column
	var values []any
	for _, col := range h.entity.Columns {
		raw, ok := body[col.Name]
		if !ok {
			continue
		}
		value, err := col.CoerceInput(raw)
		if err != nil {
			return nil, nil, api.NewValidationError(col.Name, err.Error())
		}
		columns = append(columns, col)
		values = append(values, value)
	}
	return columns, values, nil
}

// hasUpdatable reports whether any bound column may appear in a SET
// clause (primary-key columns never do).
func hasUpdatable(columns []schema.Column) bool {
	for _, col := range columns {
		if !col.PrimaryKey {
			return true
		}
	}
	return false
}

func (h *Handlers) notFound(rc *endpoint.Context) error {
	return api.NewNotFoundError(
		fmt.Sprintf("%s with key %q not found", h.entity.Table, rc.PathParams["id"]))
}
