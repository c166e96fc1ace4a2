package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE classes the storefront reacts to.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateCheckViolation      = "23514"
	sqlStateForeignKeyViolation = "23503"
)

// PGError is the driver-neutral view of a postgres failure. gorm's postgres
// driver surfaces pgx errors while migrations run through lib/pq.
type PGError struct {
	Code       string
	Constraint string
	Table      string
	Detail     string
	Message    string
}

// Postgres extracts the first postgres error in err's chain.
func Postgres(err error) (PGError, bool) {
	if err == nil {
		return PGError{}, false
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return PGError{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return PGError{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}, true
	}
	return PGError{}, false
}

// ErrorDump is a flattened error suitable for structured log fields.
type ErrorDump struct {
	TopMessage string
	Code       Code
	Chain      []string
	PG         PGError
}

// Dump walks err's unwrap chain and collects its taxonomy code and any
// postgres diagnostics.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.PG, _ = Postgres(err)
	return d
}

// Fields renders the dump as logger fields, omitting empty postgres values.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_chain": d.Chain,
	}
	if d.Code != "" {
		fields["error_code"] = d.Code
	}
	for key, value := range map[string]string{
		"pg_code":       d.PG.Code,
		"pg_constraint": d.PG.Constraint,
		"pg_table":      d.PG.Table,
		"pg_detail":     d.PG.Detail,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}

func hasSQLState(err error, state string) bool {
	pg, ok := Postgres(err)
	return ok && pg.Code == state
}

// IsUniqueViolation reports whether err is a postgres unique constraint failure.
func IsUniqueViolation(err error) bool { return hasSQLState(err, sqlStateUniqueViolation) }

// IsCheckViolation reports whether err is a postgres CHECK constraint failure.
func IsCheckViolation(err error) bool { return hasSQLState(err, sqlStateCheckViolation) }

// IsForeignKeyViolation reports whether err references a missing row.
func IsForeignKeyViolation(err error) bool {
	return hasSQLState(err, sqlStateForeignKeyViolation)
}
