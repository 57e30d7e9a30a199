package schema

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"
)

// datetimeLayouts are tried in order when coercing string input into a
// timestamp column.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const dateLayout = "2006-01-02"

// SerializeRow converts one scanned row into a JSON-safe map keyed by
// column name: binary values become base64 text, date/time values become
// ISO-8601 text, everything else passes through.
func (e *EntityType) SerializeRow(values []any) map[string]any {
	row := make(map[string]any, len(e.Columns))
	for i, col := range e.Columns {
		if i >= len(values) {
			break
		}
		row[col.Name] = jsonSafe(col, values[i])
	}
	return row
}

func jsonSafe(col Column, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return base64.StdEncoding.EncodeToString(val)
	case time.Time:
		if col.Kind == KindDate {
			return val.Format(dateLayout)
		}
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

// CoerceInput converts a JSON-decoded body value into the value the
// column's database type demands: ISO-8601 strings into timestamps and
// dates, base64 text into bytes for binary columns. Values that already
// have the right shape pass through. Unparsable values are errors the
// caller surfaces as 400s.
func (c Column) CoerceInput(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch c.Kind {
	case KindDateTime:
		if s, ok := v.(string); ok {
			for _, layout := range datetimeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("invalid datetime format for field %q", c.Name)
		}
	case KindDate:
		if s, ok := v.(string); ok {
			t, err := time.Parse(dateLayout, s)
			if err != nil {
				return nil, fmt.Errorf("invalid date format for field %q", c.Name)
			}
			return t, nil
		}
	case KindBinary:
		if s, ok := v.(string); ok {
			raw, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 encoding for field %q", c.Name)
			}
			return raw, nil
		}
	case KindInteger:
		// encoding/json decodes numbers as float64.
		if f, ok := v.(float64); ok {
			if f != math.Trunc(f) {
				return nil, fmt.Errorf("invalid integer value for field %q", c.Name)
			}
			return int64(f), nil
		}
	}
	return v, nil
}

// ParseString converts a raw path or query parameter into the column's
// typed value, for key lookups and filter predicates.
func (c Column) ParseString(raw string) (any, error) {
	switch c.Kind {
	case KindInteger:
		return strconv.ParseInt(raw, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(raw, 64)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindDateTime:
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid datetime value %q", raw)
	case KindDate:
		return time.Parse(dateLayout, raw)
	case KindBinary:
		return base64.StdEncoding.DecodeString(raw)
	default:
		return raw, nil
	}
}

// FilterColumns returns coercers for the named columns, restricted to
// ones that exist on the entity. The result feeds query.NewParamFilter.
func (e *EntityType) FilterColumns(allowed []string) map[string]func(string) (any, error) {
	out := make(map[string]func(string) (any, error), len(allowed))
	for _, name := range allowed {
		col, ok := e.Column(name)
		if !ok {
			continue
		}
		out[name] = col.ParseString
	}
	return out
}
