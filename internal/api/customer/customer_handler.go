package customer

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-ipos-api/internal/api"
	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateCustomer(w http.ResponseWriter, r *http.Request)
	GetCustomers(w http.ResponseWriter, r *http.Request)
	GetCustomerByID(w http.ResponseWriter, r *http.Request)
	UpdateCustomer(w http.ResponseWriter, r *http.Request)
	DeleteCustomer(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	customerService CustomerService
	logger          *slog.Logger
}

// NewHandlerImpl creates a new customer HandlerImpl instance.
func NewHandlerImpl(customerService CustomerService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("customer: NewHandlerImpl called with nil logger")
	}
	return &HandlerImpl{
		customerService: customerService,
		logger:          logger,
	}
}

const (
	msgNotFound    = "Customer not found"
	msgEmailExists = "Customer with this email already exists"
	msgEmailInUse  = "Email already in use"
	msgMissing     = "Missing required fields"
)

// CreateCustomer godoc
// @Summary      Create a customer
// @Tags         Customers
// @Accept       json
// @Produce      json
// @Param        customer body types.CreateCustomerRequest true "Customer"
// @Success      201 {object} types.Response{data=types.Customer} "Customer created"
// @Failure      400 {object} types.ErrorResponse "Missing required fields"
// @Failure      409 {object} types.ErrorResponse "Email already exists"
// @Failure      422 {object} types.ValidationErrorResponse "Validation failed"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /customers [post]
func (h *HandlerImpl) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreateCustomer"))

	req, ok := api.ValidatedBody[types.CreateCustomerRequest](ctx)
	if !ok {
		l.ErrorContext(ctx, "Validated body missing from context")
		api.InternalError(w, r)
		return
	}

	customer, err := h.customerService.CreateCustomer(ctx, req)
	if err != nil {
		switch api.KindOf(err) {
		case api.KindConflict:
			api.ErrorResponse(w, r, http.StatusConflict, msgEmailExists, api.MetaOf(err))
		case api.KindMissingField:
			api.ErrorResponse(w, r, http.StatusBadRequest, msgMissing, api.MetaOf(err))
		default:
			l.ErrorContext(ctx, "Failed to create customer", slog.Any("error", err))
			api.InternalError(w, r)
		}
		return
	}

	api.SuccessResponse(w, r, customer, types.Meta{Status: http.StatusCreated, Message: "Customer created"})
}

// GetCustomers godoc
// @Summary      List customers (paginated)
// @Tags         Customers
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size (max 100)" default(10)
// @Success      200 {object} types.Response{data=[]types.Customer} "Customers retrieved"
// @Header       200 {string} Link "first/prev/next/last page links"
// @Header       200 {integer} X-Total-Pages "Total number of pages"
// @Header       200 {integer} X-Total-Count "Total number of customers"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /customers [get]
func (h *HandlerImpl) GetCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetCustomers"))

	p := api.ParsePagination(r.URL.Query())

	var (
		items []types.Customer
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = h.customerService.ListCustomers(gctx, p.Skip, p.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = h.customerService.CountCustomers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to list customers", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	api.PaginatedSuccess(w, r, items, total, p.Page, p.Limit, "Customers retrieved")
}

// GetCustomerByID godoc
// @Summary      Get a customer by id
// @Tags         Customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} types.Response{data=types.Customer} "Customer retrieved"
// @Failure      404 {object} types.ErrorResponse "Customer not found"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /customers/{id} [get]
func (h *HandlerImpl) GetCustomerByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetCustomerByID"))

	id, ok := api.PathUUID(r, "id")
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
		return
	}

	customer, err := h.customerService.GetCustomer(ctx, id)
	if err != nil {
		if api.KindOf(err) == api.KindNotFound {
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
			return
		}
		l.ErrorContext(ctx, "Failed to get customer", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	api.SuccessResponse(w, r, customer, types.Meta{Message: "Customer retrieved"})
}

// UpdateCustomer godoc
// @Summary      Update a customer
// @Tags         Customers
// @Accept       json
// @Produce      json
// @Param        id       path string                      true "Customer ID" format(uuid)
// @Param        customer body types.UpdateCustomerRequest true "Fields to update"
// @Success      200 {object} types.Response{data=types.Customer} "Customer updated"
// @Failure      404 {object} types.ErrorResponse "Customer not found"
// @Failure      409 {object} types.ErrorResponse "Email already in use"
// @Failure      422 {object} types.ValidationErrorResponse "Validation failed"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /customers/{id} [put]
func (h *HandlerImpl) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "UpdateCustomer"))

	id, ok := api.PathUUID(r, "id")
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
		return
	}

	req, ok := api.ValidatedBody[types.UpdateCustomerRequest](ctx)
	if !ok {
		l.ErrorContext(ctx, "Validated body missing from context")
		api.InternalError(w, r)
		return
	}

	if _, err := h.customerService.GetCustomer(ctx, id); err != nil {
		if api.KindOf(err) == api.KindNotFound {
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
			return
		}
		l.ErrorContext(ctx, "Failed to check customer before update", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	updated, err := h.customerService.UpdateCustomer(ctx, id, req)
	if err != nil {
		switch api.KindOf(err) {
		case api.KindNotFound:
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
		case api.KindConflict:
			api.ErrorResponse(w, r, http.StatusConflict, msgEmailInUse, nil)
		default:
			l.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
			api.InternalError(w, r)
		}
		return
	}

	api.SuccessResponse(w, r, updated, types.Meta{Message: "Customer updated"})
}

// DeleteCustomer godoc
// @Summary      Delete a customer
// @Tags         Customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} types.Response "Customer deleted"
// @Failure      404 {object} types.ErrorResponse "Customer not found"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /customers/{id} [delete]
func (h *HandlerImpl) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "DeleteCustomer"))

	id, ok := api.PathUUID(r, "id")
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
		return
	}

	if _, err := h.customerService.GetCustomer(ctx, id); err != nil {
		if api.KindOf(err) == api.KindNotFound {
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
			return
		}
		l.ErrorContext(ctx, "Failed to check customer before delete", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	if err := h.customerService.DeleteCustomer(ctx, id); err != nil {
		if api.KindOf(err) == api.KindNotFound {
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
			return
		}
		l.ErrorContext(ctx, "Failed to delete customer", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	api.SuccessResponse(w, r, nil, types.Meta{Message: "Customer deleted"})
}
