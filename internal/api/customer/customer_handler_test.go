package customer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-ipos-api/internal/api"
	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

// MockCustomerService is a mock implementation of CustomerService.
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, req types.CreateCustomerRequest) (*types.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Customer), args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*types.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Customer), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, skip, limit int) ([]types.Customer, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Customer), args.Error(1)
}

func (m *MockCustomerService) CountCustomers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req types.UpdateCustomerRequest) (*types.Customer, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestRouter(svc CustomerService) http.Handler {
	h := NewHandlerImpl(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.With(api.ValidateBody[types.CreateCustomerRequest]).Post("/customers", h.CreateCustomer)
	r.Get("/customers", h.GetCustomers)
	r.Get("/customers/{id}", h.GetCustomerByID)
	r.With(api.ValidateBody[types.UpdateCustomerRequest]).Put("/customers/{id}", h.UpdateCustomer)
	r.Delete("/customers/{id}", h.DeleteCustomer)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr, out
}

func sampleCustomer() *types.Customer {
	now := time.Now().UTC()
	return &types.Customer{
		ID:        uuid.New(),
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func conflictErr() error {
	return &api.StoreError{
		Kind: api.KindConflict,
		Meta: map[string]any{"target": []string{"email"}, "constraint": "customers_email_key"},
		Err:  errors.New("duplicate key"),
	}
}

func notFoundErr() error {
	return &api.StoreError{Kind: api.KindNotFound, Err: errors.New("no rows")}
}

func TestCreateCustomer(t *testing.T) {
	t.Run("Created then conflict", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		c := sampleCustomer()
		req := types.CreateCustomerRequest{Name: "Jane Doe", Email: "jane@example.com"}

		svc.On("CreateCustomer", mock.Anything, req).Return(c, nil).Once()
		svc.On("CreateCustomer", mock.Anything, req).Return(nil, conflictErr()).Once()

		body := `{"name":"Jane Doe","email":"jane@example.com"}`
		rr, out := do(t, h, http.MethodPost, "/customers", body)
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, true, out["success"])
		assert.Equal(t, "Customer created", out["message"])
		data := out["data"].(map[string]any)
		assert.Equal(t, c.ID.String(), data["id"])

		rr, out = do(t, h, http.MethodPost, "/customers", body)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "Customer with this email already exists", out["message"])
		meta := out["error"].(map[string]any)
		assert.Equal(t, "customers_email_key", meta["constraint"])
		svc.AssertExpectations(t)
	})

	t.Run("Invalid email is rejected before the service", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)

		rr, out := do(t, h, http.MethodPost, "/customers", `{"name":"Jane","email":"not-an-email"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "Validation failed", out["message"])
		errs := out["errors"].(map[string]any)
		email := errs["email"].(map[string]any)
		assert.Contains(t, email["_errors"], "Invalid email")
		svc.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("Missing name", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)

		rr, out := do(t, h, http.MethodPost, "/customers", `{"email":"jane@example.com"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		name := out["errors"].(map[string]any)["name"].(map[string]any)
		assert.Contains(t, name["_errors"], "Required")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)

		rr, out := do(t, h, http.MethodPost, "/customers", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid request body", out["message"])
	})

	t.Run("Missing column maps to 400", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		svc.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, &api.StoreError{
			Kind: api.KindMissingField,
			Meta: map[string]any{"column": "name"},
			Err:  errors.New("null value"),
		}).Once()

		rr, out := do(t, h, http.MethodPost, "/customers", `{"name":"Jane","email":"jane@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Missing required fields", out["message"])
	})

	t.Run("Unexpected error is a 500", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		svc.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		rr, out := do(t, h, http.MethodPost, "/customers", `{"name":"Jane","email":"jane@example.com"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Internal Server Error", out["message"])
	})
}

func TestGetCustomers(t *testing.T) {
	svc := new(MockCustomerService)
	h := newTestRouter(svc)
	items := []types.Customer{*sampleCustomer(), *sampleCustomer()}

	svc.On("ListCustomers", mock.Anything, 10, 5).Return(items, nil).Once()
	svc.On("CountCustomers", mock.Anything).Return(int64(12), nil).Once()

	rr, out := do(t, h, http.MethodGet, "/customers?page=3&limit=5", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Customers retrieved", out["message"])
	assert.Len(t, out["data"], 2)

	meta := out["meta"].(map[string]any)
	assert.EqualValues(t, 12, meta["total"])
	assert.EqualValues(t, 3, meta["page"])
	assert.EqualValues(t, 5, meta["limit"])
	assert.EqualValues(t, 3, meta["totalPages"])

	assert.Equal(t, "12", rr.Header().Get("X-Total-Count"))
	assert.Equal(t, "3", rr.Header().Get("X-Total-Pages"))
	link := rr.Header().Get("Link")
	assert.Contains(t, link, `rel="prev"`)
	assert.NotContains(t, link, `rel="next"`)
	svc.AssertExpectations(t)

	t.Run("Count failure is a 500", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		svc.On("ListCustomers", mock.Anything, 0, 10).Return([]types.Customer{}, nil).Maybe()
		svc.On("CountCustomers", mock.Anything).Return(int64(0), errors.New("boom")).Once()

		rr, _ := do(t, h, http.MethodGet, "/customers", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetCustomerByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		c := sampleCustomer()
		svc.On("GetCustomer", mock.Anything, c.ID).Return(c, nil).Once()

		rr, out := do(t, h, http.MethodGet, "/customers/"+c.ID.String(), "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Customer retrieved", out["message"])
	})

	t.Run("Unknown id", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		id := uuid.New()
		svc.On("GetCustomer", mock.Anything, id).Return(nil, notFoundErr()).Once()

		rr, out := do(t, h, http.MethodGet, "/customers/"+id.String(), "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Customer not found", out["message"])
	})

	t.Run("Malformed id", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)

		rr, out := do(t, h, http.MethodGet, "/customers/not-a-uuid", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Customer not found", out["message"])
		svc.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})
}

func TestUpdateCustomer(t *testing.T) {
	t.Run("Nonexistent customer", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		id := uuid.New()
		svc.On("GetCustomer", mock.Anything, id).Return(nil, notFoundErr()).Once()

		rr, out := do(t, h, http.MethodPut, "/customers/"+id.String(), `{"name":"New"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Customer not found", out["message"])
		svc.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Email taken", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		c := sampleCustomer()
		email := "taken@example.com"
		svc.On("GetCustomer", mock.Anything, c.ID).Return(c, nil).Once()
		svc.On("UpdateCustomer", mock.Anything, c.ID, types.UpdateCustomerRequest{Email: &email}).
			Return(nil, conflictErr()).Once()

		rr, out := do(t, h, http.MethodPut, "/customers/"+c.ID.String(), `{"email":"taken@example.com"}`)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Email already in use", out["message"])
		assert.Nil(t, out["error"])
	})

	t.Run("Updated", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)
		c := sampleCustomer()
		name := "Renamed"
		updated := *c
		updated.Name = name
		svc.On("GetCustomer", mock.Anything, c.ID).Return(c, nil).Once()
		svc.On("UpdateCustomer", mock.Anything, c.ID, types.UpdateCustomerRequest{Name: &name}).
			Return(&updated, nil).Once()

		rr, out := do(t, h, http.MethodPut, "/customers/"+c.ID.String(), `{"name":"Renamed","unknown":1}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Customer updated", out["message"])
		assert.Equal(t, "Renamed", out["data"].(map[string]any)["name"])
		svc.AssertExpectations(t)
	})

	t.Run("Empty name is invalid", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := newTestRouter(svc)

		rr, _ := do(t, h, http.MethodPut, "/customers/"+uuid.NewString(), `{"name":""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestDeleteCustomer(t *testing.T) {
	svc := new(MockCustomerService)
	h := newTestRouter(svc)
	c := sampleCustomer()

	svc.On("GetCustomer", mock.Anything, c.ID).Return(c, nil).Once()
	svc.On("DeleteCustomer", mock.Anything, c.ID).Return(nil).Once()
	svc.On("GetCustomer", mock.Anything, c.ID).Return(nil, notFoundErr()).Once()

	rr, out := do(t, h, http.MethodDelete, "/customers/"+c.ID.String(), "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Customer deleted", out["message"])
	assert.Contains(t, out, "data")
	assert.Nil(t, out["data"])

	rr, out = do(t, h, http.MethodDelete, "/customers/"+c.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Customer not found", out["message"])
	svc.AssertExpectations(t)
}
