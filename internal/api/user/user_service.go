package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for users. Plaintext
// passwords stop here.
type UserService interface {
	CreateUser(ctx context.Context, req types.CreateUserRequest) (*types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	ListUsers(ctx context.Context, filters types.UserFilters, skip, limit int) ([]types.User, error)
	CountUsers(ctx context.Context, filters types.UserFilters) (int64, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req types.UpdateUserRequest) (*types.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	hasher PasswordHasher
}

func NewUserService(repo UserRepo, hasher PasswordHasher, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
	}
}

func dobTime(d *types.Date) *time.Time {
	if !d.Valid() {
		return nil
	}
	t := d.Time
	return &t
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req types.CreateUserRequest) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "CreateUser")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateUser"))
	l.DebugContext(ctx, "Creating user", slog.String("username", req.Username))

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to hash password")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.repo.Create(ctx, types.CreateUserParams{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Dob:          dobTime(req.Dob),
		Gender:       req.Gender,
		Image:        req.Image,
		Role:         req.Role,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("userID", u.ID.String()))
	span.SetStatus(codes.Ok, "User created")
	return u, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetUser", trace.WithAttributes(
		attribute.String("user.id", id.String()),
	))
	defer span.End()

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch user")
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return u, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, filters types.UserFilters, skip, limit int) ([]types.User, error) {
	attrs := []attribute.KeyValue{
		attribute.Int("page.skip", skip),
		attribute.Int("page.limit", limit),
	}
	if filters.Role != nil {
		attrs = append(attrs, attribute.String("filter.role", string(*filters.Role)))
	}
	ctx, span := otel.Tracer("UserService").Start(ctx, "ListUsers", trace.WithAttributes(attrs...))
	defer span.End()

	users, err := s.repo.List(ctx, filters, skip, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list users")
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	s.logger.DebugContext(ctx, "Users listed", slog.Int("count", len(users)))
	span.SetStatus(codes.Ok, "Users listed")
	return users, nil
}

func (s *UserServiceImpl) CountUsers(ctx context.Context, filters types.UserFilters) (int64, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "CountUsers")
	defer span.End()

	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to count users")
		return 0, fmt.Errorf("error counting users: %w", err)
	}

	span.SetStatus(codes.Ok, "Users counted")
	return total, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, req types.UpdateUserRequest) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateUser", trace.WithAttributes(
		attribute.String("user.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateUser"), slog.String("userID", id.String()))

	params := types.UpdateUserParams{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Dob:       dobTime(req.Dob),
		Gender:    req.Gender,
		Image:     req.Image,
		Role:      req.Role,
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(req.Password.Value)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to hash password")
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		params.PasswordHash = &hash
		l.DebugContext(ctx, "Password change requested")
	}

	u, err := s.repo.Update(ctx, id, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update user")
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	l.InfoContext(ctx, "User updated")
	span.SetStatus(codes.Ok, "User updated")
	return u, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("UserService").Start(ctx, "DeleteUser", trace.WithAttributes(
		attribute.String("user.id", id.String()),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete user")
		return fmt.Errorf("error deleting user: %w", err)
	}

	s.logger.InfoContext(ctx, "User deleted", slog.String("userID", id.String()))
	span.SetStatus(codes.Ok, "User deleted")
	return nil
}
