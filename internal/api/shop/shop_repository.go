package shop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

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

var _ ShopRepo = (*PostgresShopRepo)(nil)

type ShopRepo interface {
	Create(ctx context.Context, params types.CreateShopRequest) (*types.Shop, error)
	List(ctx context.Context, skip, limit int) ([]types.Shop, error)
	Count(ctx context.Context) (int64, error)
}

const shopColumns = "id, name, created_at, updated_at"

type PostgresShopRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresShopRepo(db database.Querier, logger *slog.Logger) *PostgresShopRepo {
	return &PostgresShopRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresShopRepo) startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return otel.Tracer("ShopRepo").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "shops"),
	))
}

func (r *PostgresShopRepo) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error) error {
	err = api.TranslateStoreError(err)
	metrics.ObserveQuery(ctx, "shops", operation, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
		return err
	}
	span.SetStatus(codes.Ok, operation+" succeeded")
	return nil
}

func scanShop(row pgx.Row) (*types.Shop, error) {
	var s types.Shop
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresShopRepo) Create(ctx context.Context, params types.CreateShopRequest) (*types.Shop, error) {
	ctx, span := r.startSpan(ctx, "Create", "INSERT")
	defer span.End()
	start := time.Now()

	s, err := scanShop(r.db.QueryRow(ctx, "INSERT INTO shops (name) VALUES ($1) RETURNING "+shopColumns, params.Name))
	if err = r.finish(ctx, span, "INSERT", start, err); err != nil {
		return nil, fmt.Errorf("error inserting shop: %w", err)
	}
	return s, nil
}

func (r *PostgresShopRepo) List(ctx context.Context, skip, limit int) ([]types.Shop, error) {
	ctx, span := r.startSpan(ctx, "List", "SELECT")
	defer span.End()
	start := time.Now()

	shops, err := r.list(ctx, skip, limit)
	if err = r.finish(ctx, span, "SELECT", start, err); err != nil {
		return nil, fmt.Errorf("error listing shops: %w", err)
	}
	return shops, nil
}

func (r *PostgresShopRepo) list(ctx context.Context, skip, limit int) ([]types.Shop, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+shopColumns+" FROM shops ORDER BY created_at DESC OFFSET $1 LIMIT $2", skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := make([]types.Shop, 0)
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, *s)
	}
	return shops, rows.Err()
}

func (r *PostgresShopRepo) Count(ctx context.Context) (int64, error) {
	ctx, span := r.startSpan(ctx, "Count", "SELECT")
	defer span.End()
	start := time.Now()

	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM shops").Scan(&total)
	if err = r.finish(ctx, span, "SELECT", start, err); err != nil {
		return 0, fmt.Errorf("error counting shops: %w", err)
	}
	return total, nil
}
