package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-ipos-api/app/db"
	"github.com/FACorreiaa/go-ipos-api/app/observability/metrics"
	"github.com/FACorreiaa/go-ipos-api/internal/api"
	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

var _ CustomerRepo = (*PostgresCustomerRepo)(nil)

// CustomerRepo defines the contract for customer persistence. Errors are
// classified with api.TranslateStoreError.
type CustomerRepo interface {
	Create(ctx context.Context, params types.CreateCustomerRequest) (*types.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*types.Customer, error)
	List(ctx context.Context, skip, limit int) ([]types.Customer, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdateCustomerRequest) (*types.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const customerColumns = "id, name, email, phone, created_at, updated_at"

type PostgresCustomerRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresCustomerRepo(db database.Querier, logger *slog.Logger) *PostgresCustomerRepo {
	return &PostgresCustomerRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresCustomerRepo) startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "customers"),
	)
	return otel.Tracer("CustomerRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

// finish classifies err, records it on span and metrics, and returns the
// classified error.
func (r *PostgresCustomerRepo) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error) error {
	err = api.TranslateStoreError(err)
	metrics.ObserveQuery(ctx, "customers", operation, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
		return err
	}
	span.SetStatus(codes.Ok, operation+" succeeded")
	return nil
}

func scanCustomer(row pgx.Row) (*types.Customer, error) {
	var c types.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCustomerRepo) Create(ctx context.Context, params types.CreateCustomerRequest) (*types.Customer, error) {
	ctx, span := r.startSpan(ctx, "Create", "INSERT")
	defer span.End()
	start := time.Now()

	query := `
        INSERT INTO customers (name, email, phone)
        VALUES ($1, $2, $3)
        RETURNING ` + customerColumns

	c, err := scanCustomer(r.db.QueryRow(ctx, query, params.Name, params.Email, params.Phone))
	if err = r.finish(ctx, span, "INSERT", start, err); err != nil {
		r.logger.DebugContext(ctx, "Customer insert failed", slog.Any("error", err))
		return nil, fmt.Errorf("error inserting customer: %w", err)
	}
	return c, nil
}

func (r *PostgresCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*types.Customer, error) {
	ctx, span := r.startSpan(ctx, "FindByID", "SELECT", attribute.String("db.customer.id", id.String()))
	defer span.End()
	start := time.Now()

	query := "SELECT " + customerColumns + " FROM customers WHERE id = $1"

	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err = r.finish(ctx, span, "SELECT", start, err); err != nil {
		return nil, fmt.Errorf("error fetching customer %s: %w", id, err)
	}
	return c, nil
}

func (r *PostgresCustomerRepo) List(ctx context.Context, skip, limit int) ([]types.Customer, error) {
	ctx, span := r.startSpan(ctx, "List", "SELECT")
	defer span.End()
	start := time.Now()

	query := "SELECT " + customerColumns + `
        FROM customers
        ORDER BY created_at DESC
        OFFSET $1 LIMIT $2`

	customers, err := r.list(ctx, query, skip, limit)
	if err = r.finish(ctx, span, "SELECT", start, err); err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}
	return customers, nil
}

func (r *PostgresCustomerRepo) list(ctx context.Context, query string, args ...any) ([]types.Customer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]types.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *PostgresCustomerRepo) Count(ctx context.Context) (int64, error) {
	ctx, span := r.startSpan(ctx, "Count", "SELECT")
	defer span.End()
	start := time.Now()

	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM customers").Scan(&total)
	if err = r.finish(ctx, span, "SELECT", start, err); err != nil {
		return 0, fmt.Errorf("error counting customers: %w", err)
	}
	return total, nil
}

func (r *PostgresCustomerRepo) Update(ctx context.Context, id uuid.UUID, params types.UpdateCustomerRequest) (*types.Customer, error) {
	ctx, span := r.startSpan(ctx, "Update", "UPDATE", attribute.String("db.customer.id", id.String()))
	defer span.End()
	start := time.Now()

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Name != nil {
		set("name", *params.Name)
	}
	if params.Email != nil {
		set("email", *params.Email)
	}
	if params.Phone != nil {
		set("phone", *params.Phone)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), customerColumns)

	c, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	if err = r.finish(ctx, span, "UPDATE", start, err); err != nil {
		return nil, fmt.Errorf("error updating customer %s: %w", id, err)
	}
	return c, nil
}

func (r *PostgresCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.startSpan(ctx, "Delete", "DELETE", attribute.String("db.customer.id", id.String()))
	defer span.End()
	start := time.Now()

	tag, err := r.db.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}
	if err = r.finish(ctx, span, "DELETE", start, err); err != nil {
		return fmt.Errorf("error deleting customer %s: %w", id, err)
	}
	return nil
}
