// Package validate implements the validator capability: a per-field
// transform registry applied to request bodies before persistence.
package validate

import (
	"github.com/veldt-io/tabular/pkg/api"
)

// FieldFunc transforms a single incoming field value. Returning an error
// aborts the request with a 400 response naming the field.
type FieldFunc func(value any) (any, error)

// Validator applies registered field transforms to a body map. Fields
// without a registered transform pass through unchanged.
type Validator struct {
	fields map[string]FieldFunc
}

// New creates an empty validator.
func New() *Validator {
	return &Validator{fields: make(map[string]FieldFunc)}
}

// Field registers a transform for the named field and returns the
// validator for chaining.
func (v *Validator) Field(name string, fn FieldFunc) *Validator {
	v.fields[name] = fn
	return v
}

// Validate runs each incoming field through its transform, if one is
// registered. The returned map carries the transform results; it is what
// gets persisted, not the raw input. The input map is not modified.
func (v *Validator) Validate(data map[string]any) (map[string]any, error) {
	validated := make(map[string]any, len(data))
	for key, value := range data {
		fn, ok := v.fields[key]
		if !ok {
			validated[key] = value
			continue
		}
		out, err := fn(value)
		if err != nil {
			return nil, api.NewValidationError(key, err.Error())
		}
		validated[key] = out
	}
	return validated, nil
}
