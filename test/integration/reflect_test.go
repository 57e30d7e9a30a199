package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/veldt-io/tabular/pkg/schema"
)

func TestReflect_UnknownTable(t *testing.T) {
	_, err := schema.Reflect(context.Background(), testEnv.Pool, "no_such_table")
	if !errors.Is(err, schema.ErrUnknownTable) {
		t.Errorf("error = %v, want ErrUnknownTable", err)
	}
}

func TestReflect_MissingPrimaryKey(t *testing.T) {
	_, err := schema.Reflect(context.Background(), testEnv.Pool, "orphans")
	if !errors.Is(err, schema.ErrNoPrimaryKey) {
		t.Errorf("error = %v, want ErrNoPrimaryKey", err)
	}
}

func TestReflect_Accounts(t *testing.T) {
	entity, err := schema.Reflect(context.Background(), testEnv.Pool, "accounts")
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	pk := entity.PrimaryKey()
	if len(pk) != 1 || pk[0].Name != "id" {
		t.Errorf("primary key = %v", pk)
	}
	if !pk[0].AutoIncrement {
		t.Error("serial key not detected as autoincrement")
	}

	cases := map[string]schema.Kind{
		"id":         schema.KindInteger,
		"owner":      schema.KindString,
		"balance":    schema.KindInteger,
		"created_at": schema.KindDateTime,
	}
	for name, want := range cases {
		col, ok := entity.Column(name)
		if !ok {
			t.Errorf("column %q missing", name)
			continue
		}
		if col.Kind != want {
			t.Errorf("column %q kind = %v, want %v", name, col.Kind, want)
		}
	}

	// Required: not nullable, no default, not autoincrement.
	required := map[string]bool{}
	for _, col := range entity.Required() {
		required[col.Name] = true
	}
	if !required["owner"] || !required["email"] || !required["balance"] {
		t.Errorf("required = %v", required)
	}
	if required["id"] || required["note"] || required["created_at"] {
		t.Errorf("required includes defaulted or nullable columns: %v", required)
	}
}

func TestReflect_CompositeKey(t *testing.T) {
	entity, err := schema.Reflect(context.Background(), testEnv.Pool, "memberships")
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}
	if !entity.HasCompositeKey() {
		t.Fatal("composite key not detected")
	}
	pk := entity.PrimaryKey()
	if pk[0].Name != "user_id" || pk[1].Name != "group_id" {
		t.Errorf("key order = %v, want declaration order", pk)
	}
}
