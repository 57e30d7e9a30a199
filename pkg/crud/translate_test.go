package crud

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/veldt-io/tabular/pkg/api"
)

func TestTranslateDBError_UniqueViolation(t *testing.T) {
	err := translateDBError(&pgconn.PgError{
		Code:   "23505",
		Detail: "Key (email)=(a@b.c) already exists.",
	})

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T", err)
	}
	if apiErr.Kind != api.KindConflict {
		t.Errorf("kind = %v, want KindConflict", apiErr.Kind)
	}
	if apiErr.Field != "email" {
		t.Errorf("field = %q, want %q", apiErr.Field, "email")
	}
}

func TestTranslateDBError_UniqueViolationNoDetail(t *testing.T) {
	err := translateDBError(&pgconn.PgError{Code: "23505"})

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T", err)
	}
	if apiErr.Kind != api.KindConflict || apiErr.Field != "" {
		t.Errorf("got kind=%v field=%q", apiErr.Kind, apiErr.Field)
	}
}

func TestTranslateDBError_IntegrityClass(t *testing.T) {
	err := translateDBError(&pgconn.PgError{
		Code:    "23503",
		Message: "violates foreign key constraint",
	})

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T", err)
	}
	if apiErr.Kind != api.KindIntegrity {
		t.Errorf("kind = %v, want KindIntegrity", apiErr.Kind)
	}
}

func TestTranslateDBError_DataException(t *testing.T) {
	err := translateDBError(&pgconn.PgError{
		Code:    "22P02",
		Message: `invalid input syntax for type bigint: "lots"`,
	})

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T", err)
	}
	if apiErr.Kind != api.KindValidation {
		t.Errorf("kind = %v, want KindValidation", apiErr.Kind)
	}
	if !strings.Contains(apiErr.Message, "invalid input syntax") {
		t.Errorf("message drops the driver detail: %q", apiErr.Message)
	}
}

func TestTranslateDBError_NumericOverflow(t *testing.T) {
	err := translateDBError(&pgconn.PgError{
		Code:    "22003",
		Message: "bigint out of range",
	})

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T", err)
	}
	if apiErr.Kind != api.KindValidation {
		t.Errorf("kind = %v, want KindValidation", apiErr.Kind)
	}
}

func TestTranslateDBError_EncodeFailure(t *testing.T) {
	err := translateDBError(errors.New(
		`failed to encode args[2]: unable to encode "lots" into binary format for int8`))

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T", err)
	}
	if apiErr.Kind != api.KindValidation {
		t.Errorf("kind = %v, want KindValidation", apiErr.Kind)
	}
}

func TestTranslateDBError_OtherPgError(t *testing.T) {
	err := translateDBError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"})

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T", err)
	}
	if apiErr.Kind != api.KindInternal {
		t.Errorf("kind = %v, want KindInternal", apiErr.Kind)
	}
}

func TestTranslateDBError_NonDriverError(t *testing.T) {
	err := translateDBError(errors.New("connection reset"))

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T", err)
	}
	if apiErr.Kind != api.KindInternal {
		t.Errorf("kind = %v, want KindInternal", apiErr.Kind)
	}
}

func TestTranslateDBError_TypedErrorPassesThrough(t *testing.T) {
	orig := api.NewNotFoundError("accounts row not found")
	if got := translateDBError(orig); got != orig {
		t.Errorf("typed error rewrapped: %v", got)
	}
}
