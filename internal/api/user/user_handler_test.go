package user

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-ipos-api/internal/api"
	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, req types.CreateUserRequest) (*types.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, filters types.UserFilters, skip, limit int) ([]types.User, error) {
	args := m.Called(ctx, filters, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockUserService) CountUsers(ctx context.Context, filters types.UserFilters) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uuid.UUID, req types.UpdateUserRequest) (*types.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestRouter(svc UserService) http.Handler {
	h := NewHandlerImpl(svc, discardLogger())
	r := chi.NewRouter()
	r.With(api.ValidateBody[types.CreateUserRequest]).Post("/users", h.CreateUser)
	r.Get("/users", h.GetUsers)
	r.Get("/users/{id}", h.GetUserByID)
	r.With(api.ValidateBody[types.UpdateUserRequest]).Put("/users/{id}", h.UpdateUser)
	r.Delete("/users/{id}", h.DeleteUser)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr, out
}

const validUser = `{
	"email": "john@example.com",
	"username": "johndoe",
	"password": "supersecret",
	"firstName": "John",
	"lastName": "Doe",
	"phone": "+15551234567",
	"dob": "1990-05-17",
	"gender": "MALE"
}`

func TestCreateUserHandler(t *testing.T) {
	t.Run("Created without password in the response", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		u := sampleUser()
		svc.On("CreateUser", mock.Anything, mock.MatchedBy(func(req types.CreateUserRequest) bool {
			return req.Password == "supersecret" && req.Dob.Valid()
		})).Return(u, nil).Once()

		rr, out := do(t, h, http.MethodPost, "/users", validUser)
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "User created", out["message"])
		assert.NotContains(t, strings.ToLower(rr.Body.String()), "password")
		svc.AssertExpectations(t)
	})

	t.Run("Missing password never reaches the service", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		body := strings.Replace(validUser, `"password": "supersecret",`, "", 1)

		rr, out := do(t, h, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errs := out["errors"].(map[string]any)
		assert.Contains(t, errs, "password")
		svc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Short password, bad gender and bad phone", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		body := `{"email":"john@example.com","username":"jd","password":"short","firstName":"J","lastName":"D","phone":"12ab","gender":"OTHER"}`

		rr, out := do(t, h, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errs := out["errors"].(map[string]any)
		assert.Contains(t, errs["password"].(map[string]any)["_errors"], "Password must be at least 8 characters")
		assert.Contains(t, errs["username"].(map[string]any)["_errors"], "Username must be at least 3 characters")
		assert.Contains(t, errs["phone"].(map[string]any)["_errors"], "Invalid phone format")
		assert.Contains(t, errs["gender"].(map[string]any)["_errors"],
			"Invalid enum value. Expected 'MALE' | 'FEMALE', received 'OTHER'")
	})

	t.Run("Unreadable dob is reported", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		body := strings.Replace(validUser, `"1990-05-17"`, `"not-a-date"`, 1)

		rr, out := do(t, h, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errs := out["errors"].(map[string]any)
		assert.Contains(t, errs["dob"].(map[string]any)["_errors"], "Expected date, received string")
	})

	t.Run("Duplicate email", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		svc.On("CreateUser", mock.Anything, mock.Anything).Return(nil, &api.StoreError{
			Kind: api.KindConflict,
			Meta: map[string]any{"target": []string{"email"}, "constraint": "users_email_key"},
		}).Once()

		rr, out := do(t, h, http.MethodPost, "/users", validUser)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "User with this email already exists", out["message"])
	})
}

func TestGetUsersRoleFilter(t *testing.T) {
	t.Run("Unknown role is ignored", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		svc.On("ListUsers", mock.Anything, types.UserFilters{}, 0, 10).Return([]types.User{*sampleUser()}, nil).Once()
		svc.On("CountUsers", mock.Anything, types.UserFilters{}).Return(int64(1), nil).Once()

		rr, out := do(t, h, http.MethodGet, "/users?role=bogus", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Users retrieved", out["message"])
		svc.AssertExpectations(t)
	})

	t.Run("Known role filters", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		admin := types.RoleAdmin
		filters := types.UserFilters{Role: &admin}
		svc.On("ListUsers", mock.Anything, filters, 0, 10).Return([]types.User{}, nil).Once()
		svc.On("CountUsers", mock.Anything, filters).Return(int64(0), nil).Once()

		rr, out := do(t, h, http.MethodGet, "/users?role=ADMIN", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.EqualValues(t, 1, out["meta"].(map[string]any)["totalPages"])
		assert.Equal(t, "0", rr.Header().Get("X-Total-Count"))
		svc.AssertExpectations(t)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	t.Run("Password in set form", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		u := sampleUser()
		svc.On("GetUser", mock.Anything, u.ID).Return(u, nil).Once()
		svc.On("UpdateUser", mock.Anything, u.ID, mock.MatchedBy(func(req types.UpdateUserRequest) bool {
			return req.Password != nil && req.Password.Value == "newpassword"
		})).Return(u, nil).Once()

		rr, out := do(t, h, http.MethodPut, "/users/"+u.ID.String(), `{"password":{"set":"newpassword"}}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "User updated", out["message"])
		svc.AssertExpectations(t)
	})

	t.Run("Short password in set form", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)

		rr, out := do(t, h, http.MethodPut, "/users/"+uuid.NewString(), `{"password":{"set":"short"}}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errs := out["errors"].(map[string]any)
		assert.Contains(t, errs["password"].(map[string]any)["_errors"], "Password must be at least 8 characters")
	})

	t.Run("Nonexistent user", func(t *testing.T) {
		svc := new(MockUserService)
		h := newTestRouter(svc)
		id := uuid.New()
		svc.On("GetUser", mock.Anything, id).Return(nil, &api.StoreError{Kind: api.KindNotFound}).Once()

		rr, out := do(t, h, http.MethodPut, "/users/"+id.String(), `{"firstName":"Johnny"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", out["message"])
	})
}

func TestDeleteUserHandler(t *testing.T) {
	svc := new(MockUserService)
	h := newTestRouter(svc)
	u := sampleUser()
	svc.On("GetUser", mock.Anything, u.ID).Return(u, nil).Once()
	svc.On("DeleteUser", mock.Anything, u.ID).Return(nil).Once()
	svc.On("GetUser", mock.Anything, u.ID).Return(nil, &api.StoreError{Kind: api.KindNotFound}).Once()

	rr, out := do(t, h, http.MethodDelete, "/users/"+u.ID.String(), "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "User deleted", out["message"])
	assert.Nil(t, out["data"])

	rr, _ = do(t, h, http.MethodDelete, "/users/"+u.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	svc.AssertExpectations(t)
}
