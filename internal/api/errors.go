package api

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("requested item not found")
	ErrConflict     = errors.New("item already exists or conflict")
	ErrMissingField = errors.New("required field missing")
)

// ErrorKind is the closed set of datastore outcomes the handlers map to
// HTTP statuses.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindConflict
	KindMissingField
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindMissingField:
		return "missing field"
	default:
		return "unknown"
	}
}

// StoreError is a datastore failure classified into an ErrorKind. Meta
// carries constraint details safe to show to clients.
type StoreError struct {
	Kind ErrorKind
	Meta map[string]any
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrConflict) and friends match a StoreError.
func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrMissingField:
		return e.Kind == KindMissingField
	}
	return false
}

// KindOf classifies err. Plain sentinels count as well as StoreErrors.
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	}
	return KindUnknown
}

// MetaOf returns the constraint metadata attached to err, if any.
func MetaOf(err error) map[string]any {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Meta
	}
	return nil
}

const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

var uniqueDetailPattern = regexp.MustCompile(`^Key \(([^)]+)\)=`)

// TranslateStoreError turns pgx/Postgres errors into StoreErrors. Errors it
// does not recognise are returned unchanged.
func TranslateStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &StoreError{Kind: KindNotFound, Err: err}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &StoreError{
			Kind: KindConflict,
			Meta: map[string]any{
				"target":     uniqueTarget(pgErr),
				"constraint": pgErr.ConstraintName,
			},
			Err: err,
		}
	case pgNotNullViolation:
		return &StoreError{
			Kind: KindMissingField,
			Meta: map[string]any{"column": pgErr.ColumnName},
			Err:  err,
		}
	}
	return err
}

// uniqueTarget extracts the offending columns from a unique violation,
// e.g. `Key (email)=(a@b.com) already exists.` yields [email].
func uniqueTarget(pgErr *pgconn.PgError) []string {
	m := uniqueDetailPattern.FindStringSubmatch(pgErr.Detail)
	if m == nil {
		if pgErr.ColumnName != "" {
			return []string{pgErr.ColumnName}
		}
		return []string{}
	}
	cols := strings.Split(m[1], ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}
