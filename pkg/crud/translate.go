package crud

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/veldt-io/tabular/pkg/api"
)

// uniqueDetail extracts the offending column list from a Postgres
// unique-violation detail such as `Key (email)=(a@b.c) already exists.`
var uniqueDetail = regexp.MustCompile(`Key \(([^)]+)\)=`)

// Postgres error classes, per SQLSTATE.
const (
	pgUniqueViolation = "23505"
	pgIntegrityClass  = "23"
	pgDataClass       = "22"
)

// translateDBError maps driver errors to the API taxonomy: unique
// violations become 409s naming the offending column when the driver
// detail allows, data exceptions and other integrity violations 400s
// with the driver-reported message, anything else an internal error.
// The dispatcher rolls the session back before any of these reach the
// wire.
func translateDBError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// pgx reports client-side parameter encoding failures as plain
		// errors. A value the driver cannot encode is bad input, not a
		// server fault.
		if strings.Contains(err.Error(), "unable to encode") {
			return api.NewValidationError("", err.Error())
		}
		return api.NewInternalError(err.Error())
	}

	if pgErr.Code == pgUniqueViolation {
		if m := uniqueDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			return api.NewConflictError(m[1],
				fmt.Sprintf("unique constraint violated for %s", m[1]))
		}
		return api.NewConflictError("", "unique constraint violated")
	}

	// Class 22 covers data exceptions: invalid text representation,
	// numeric overflow, string truncation. All are caused by request
	// values.
	if strings.HasPrefix(pgErr.Code, pgDataClass) {
		return api.NewValidationError("", fmt.Sprintf("invalid input: %s", pgErr.Message))
	}

	if strings.HasPrefix(pgErr.Code, pgIntegrityClass) {
		return api.NewIntegrityError(fmt.Sprintf("database integrity error: %s", pgErr.Message))
	}

	return api.NewInternalError(pgErr.Message)
}
