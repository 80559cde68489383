package user

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

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user persistence. The password hash is
// written but never read back.
type UserRepo interface {
	Create(ctx context.Context, params types.CreateUserParams) (*types.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	List(ctx context.Context, filters types.UserFilters, skip, limit int) ([]types.User, error)
	Count(ctx context.Context, filters types.UserFilters) (int64, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const userColumns = "id, email, username, first_name, last_name, phone, dob, gender, image, role, created_at, updated_at"

type PostgresUserRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresUserRepo(db database.Querier, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresUserRepo) startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "users"),
	)
	return otel.Tracer("UserRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *PostgresUserRepo) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error) error {
	err = api.TranslateStoreError(err)
	metrics.ObserveQuery(ctx, "users", operation, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
		return err
	}
	span.SetStatus(codes.Ok, operation+" succeeded")
	return nil
}

func scanUser(row pgx.Row) (*types.User, error) {
	var (
		u      types.User
		gender string
		role   string
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.Phone, &u.Dob, &gender, &u.Image, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Gender = types.Gender(gender)
	u.Role = types.Role(role)
	return &u, nil
}

// whereFilters renders filters as a WHERE clause whose placeholders start
// after the len(args) arguments already bound.
func whereFilters(filters types.UserFilters, args []any) (string, []any) {
	var conds []string
	if filters.Role != nil {
		args = append(args, string(*filters.Role))
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresUserRepo) Create(ctx context.Context, params types.CreateUserParams) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "Create", "INSERT")
	defer span.End()
	start := time.Now()

	role := types.RoleAttendant
	if params.Role != nil {
		role = *params.Role
	}

	query := `
        INSERT INTO users (email, username, password_hash, first_name, last_name, phone, dob, gender, image, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query,
		params.Email, params.Username, params.PasswordHash, params.FirstName, params.LastName,
		params.Phone, params.Dob, string(params.Gender), params.Image, string(role),
	))
	if err = r.finish(ctx, span, "INSERT", start, err); err != nil {
		r.logger.DebugContext(ctx, "User insert failed", slog.Any("error", err))
		return nil, fmt.Errorf("error inserting user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "FindByID", "SELECT", attribute.String("db.user.id", id.String()))
	defer span.End()
	start := time.Now()

	query := "SELECT " + userColumns + " FROM users WHERE id = $1"

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err = r.finish(ctx, span, "SELECT", start, err); err != nil {
		return nil, fmt.Errorf("error fetching user %s: %w", id, err)
	}
	return u, nil
}

func (r *PostgresUserRepo) List(ctx context.Context, filters types.UserFilters, skip, limit int) ([]types.User, error) {
	ctx, span := r.startSpan(ctx, "List", "SELECT")
	defer span.End()
	start := time.Now()

	where, args := whereFilters(filters, nil)
	args = append(args, skip, limit)
	query := fmt.Sprintf("SELECT %s FROM users%s ORDER BY created_at DESC OFFSET $%d LIMIT $%d",
		userColumns, where, len(args)-1, len(args))

	users, err := r.list(ctx, query, args...)
	if err = r.finish(ctx, span, "SELECT", start, err); err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepo) list(ctx context.Context, query string, args ...any) ([]types.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepo) Count(ctx context.Context, filters types.UserFilters) (int64, error) {
	ctx, span := r.startSpan(ctx, "Count", "SELECT")
	defer span.End()
	start := time.Now()

	where, args := whereFilters(filters, nil)

	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total)
	if err = r.finish(ctx, span, "SELECT", start, err); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return total, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "Update", "UPDATE", attribute.String("db.user.id", id.String()))
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
	if params.Email != nil {
		set("email", *params.Email)
	}
	if params.Username != nil {
		set("username", *params.Username)
	}
	if params.PasswordHash != nil {
		set("password_hash", *params.PasswordHash)
	}
	if params.FirstName != nil {
		set("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		set("last_name", *params.LastName)
	}
	if params.Phone != nil {
		set("phone", *params.Phone)
	}
	if params.Dob != nil {
		set("dob", *params.Dob)
	}
	if params.Gender != nil {
		set("gender", string(*params.Gender))
	}
	if params.Image != nil {
		set("image", *params.Image)
	}
	if params.Role != nil {
		set("role", string(*params.Role))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err = r.finish(ctx, span, "UPDATE", start, err); err != nil {
		return nil, fmt.Errorf("error updating user %s: %w", id, err)
	}
	return u, nil
}

func (r *PostgresUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.startSpan(ctx, "Delete", "DELETE", attribute.String("db.user.id", id.String()))
	defer span.End()
	start := time.Now()

	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}
	if err = r.finish(ctx, span, "DELETE", start, err); err != nil {
		return fmt.Errorf("error deleting user %s: %w", id, err)
	}
	return nil
}
