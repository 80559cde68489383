package customer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

var _ CustomerService = (*CustomerServiceImpl)(nil)

// CustomerService defines the business logic contract for customers.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req types.CreateCustomerRequest) (*types.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*types.Customer, error)
	ListCustomers(ctx context.Context, skip, limit int) ([]types.Customer, error)
	CountCustomers(ctx context.Context) (int64, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req types.UpdateCustomerRequest) (*types.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type CustomerServiceImpl struct {
	logger *slog.Logger
	repo   CustomerRepo
}

func NewCustomerService(repo CustomerRepo, logger *slog.Logger) *CustomerServiceImpl {
	return &CustomerServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, req types.CreateCustomerRequest) (*types.Customer, error) {
	ctx, span := otel.Tracer("CustomerService").Start(ctx, "CreateCustomer")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateCustomer"))
	l.DebugContext(ctx, "Creating customer")

	c, err := s.repo.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create customer")
		return nil, fmt.Errorf("error creating customer: %w", err)
	}

	l.InfoContext(ctx, "Customer created", slog.String("customerID", c.ID.String()))
	span.SetStatus(codes.Ok, "Customer created")
	return c, nil
}

func (s *CustomerServiceImpl) GetCustomer(ctx context.Context, id uuid.UUID) (*types.Customer, error) {
	ctx, span := otel.Tracer("CustomerService").Start(ctx, "GetCustomer", trace.WithAttributes(
		attribute.String("customer.id", id.String()),
	))
	defer span.End()

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch customer")
		return nil, fmt.Errorf("error fetching customer: %w", err)
	}

	span.SetStatus(codes.Ok, "Customer fetched")
	return c, nil
}

func (s *CustomerServiceImpl) ListCustomers(ctx context.Context, skip, limit int) ([]types.Customer, error) {
	ctx, span := otel.Tracer("CustomerService").Start(ctx, "ListCustomers", trace.WithAttributes(
		attribute.Int("page.skip", skip),
		attribute.Int("page.limit", limit),
	))
	defer span.End()

	customers, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list customers")
		return nil, fmt.Errorf("error listing customers: %w", err)
	}

	s.logger.DebugContext(ctx, "Customers listed", slog.Int("count", len(customers)))
	span.SetStatus(codes.Ok, "Customers listed")
	return customers, nil
}

func (s *CustomerServiceImpl) CountCustomers(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer("CustomerService").Start(ctx, "CountCustomers")
	defer span.End()

	total, err := s.repo.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to count customers")
		return 0, fmt.Errorf("error counting customers: %w", err)
	}

	span.SetStatus(codes.Ok, "Customers counted")
	return total, nil
}

func (s *CustomerServiceImpl) UpdateCustomer(ctx context.Context, id uuid.UUID, req types.UpdateCustomerRequest) (*types.Customer, error) {
	ctx, span := otel.Tracer("CustomerService").Start(ctx, "UpdateCustomer", trace.WithAttributes(
		attribute.String("customer.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateCustomer"), slog.String("customerID", id.String()))

	c, err := s.repo.Update(ctx, id, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update customer")
		return nil, fmt.Errorf("error updating customer: %w", err)
	}

	l.InfoContext(ctx, "Customer updated")
	span.SetStatus(codes.Ok, "Customer updated")
	return c, nil
}

func (s *CustomerServiceImpl) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("CustomerService").Start(ctx, "DeleteCustomer", trace.WithAttributes(
		attribute.String("customer.id", id.String()),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete customer")
		return fmt.Errorf("error deleting customer: %w", err)
	}

	s.logger.InfoContext(ctx, "Customer deleted", slog.String("customerID", id.String()))
	span.SetStatus(codes.Ok, "Customer deleted")
	return nil
}
