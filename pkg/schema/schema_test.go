package schema

import (
	"errors"
	"testing"
)

func accountEntity(t *testing.T) *EntityType {
	t.Helper()
	entity, err := NewEntityType("accounts", []Column{
		{Name: "id", Kind: KindInteger, AutoIncrement: true, HasDefault: true, PrimaryKey: true},
		{Name: "owner", Kind: KindString},
		{Name: "balance", Kind: KindInteger},
		{Name: "note", Kind: KindString, Nullable: true},
		{Name: "created_at", Kind: KindDateTime, HasDefault: true},
	})
	if err != nil {
		t.Fatalf("building entity: %v", err)
	}
	return entity
}

func TestNewEntityType_RequiresPrimaryKey(t *testing.T) {
	_, err := NewEntityType("log", []Column{{Name: "message", Kind: KindString}})
	if !errors.Is(err, ErrNoPrimaryKey) {
		t.Errorf("error = %v, want ErrNoPrimaryKey", err)
	}
}

func TestEntityType_PrimaryKey(t *testing.T) {
	entity := accountEntity(t)
	pk := entity.PrimaryKey()
	if len(pk) != 1 || pk[0].Name != "id" {
		t.Errorf("primary key = %v", pk)
	}
	if entity.HasCompositeKey() {
		t.Error("single-column key reported as composite")
	}
}

func TestEntityType_CompositeKeyOrder(t *testing.T) {
	entity, err := NewEntityType("memberships", []Column{
		{Name: "user_id", Kind: KindInteger, PrimaryKey: true},
		{Name: "group_id", Kind: KindInteger, PrimaryKey: true},
		{Name: "role", Kind: KindString},
	})
	if err != nil {
		t.Fatalf("building entity: %v", err)
	}
	if !entity.HasCompositeKey() {
		t.Error("two-column key not reported as composite")
	}
	pk := entity.PrimaryKey()
	if len(pk) != 2 || pk[0].Name != "user_id" || pk[1].Name != "group_id" {
		t.Errorf("primary key order = %v", pk)
	}
}

func TestEntityType_Required(t *testing.T) {
	entity := accountEntity(t)
	req := entity.Required()
	if len(req) != 2 {
		t.Fatalf("required = %v", req)
	}
	if req[0].Name != "owner" || req[1].Name != "balance" {
		t.Errorf("required columns = %v", req)
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		dataType string
		want     Kind
	}{
		{"integer", KindInteger},
		{"bigint", KindInteger},
		{"character varying", KindString},
		{"text", KindString},
		{"numeric", KindFloat},
		{"double precision", KindFloat},
		{"boolean", KindBool},
		{"bytea", KindBinary},
		{"date", KindDate},
		{"timestamp without time zone", KindDateTime},
		{"timestamp with time zone", KindDateTime},
		{"uuid", KindString},
		{"jsonb", KindString},
	}
	for _, c := range cases {
		if got := kindOf(c.dataType); got != c.want {
			t.Errorf("kindOf(%q) = %v, want %v", c.dataType, got, c.want)
		}
	}
}
