package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/veldt-io/tabular/pkg/api"
)

func TestValidate_TransformApplied(t *testing.T) {
	v := New().Field("email", func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, errors.New("must be a string")
		}
		return strings.ToLower(s), nil
	})

	out, err := v.Validate(map[string]any{"email": "Alice@Example.COM", "name": "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["email"] != "alice@example.com" {
		t.Errorf("email = %v, want transformed value", out["email"])
	}
	if out["name"] != "Alice" {
		t.Errorf("unregistered field changed: %v", out["name"])
	}
}

func TestValidate_ErrorNamesField(t *testing.T) {
	v := New().Field("balance", func(value any) (any, error) {
		return nil, errors.New("must be non-negative")
	})

	_, err := v.Validate(map[string]any{"balance": -5})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *api.Error", err)
	}
	if apiErr.Kind != api.KindValidation {
		t.Errorf("kind = %v, want KindValidation", apiErr.Kind)
	}
	if apiErr.Field != "balance" {
		t.Errorf("field = %q, want %q", apiErr.Field, "balance")
	}
	if apiErr.Message != "must be non-negative" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestValidate_InputNotModified(t *testing.T) {
	v := New().Field("n", func(value any) (any, error) { return 42, nil })

	in := map[string]any{"n": 1}
	out, err := v.Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in["n"] != 1 {
		t.Errorf("input map was mutated: %v", in["n"])
	}
	if out["n"] != 42 {
		t.Errorf("output = %v, want 42", out["n"])
	}
}

func TestValidate_EmptyBody(t *testing.T) {
	out, err := New().Validate(map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("output = %v, want empty", out)
	}
}
