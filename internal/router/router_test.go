package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler answers every route with the name of the method hit.
type recordingHandler struct{}

func (recordingHandler) write(w http.ResponseWriter, name string) {
	w.Header().Set("X-Handler", name)
	w.WriteHeader(http.StatusTeapot)
}

func (h recordingHandler) CreateCustomer(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "CreateCustomer")
}
func (h recordingHandler) GetCustomers(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "GetCustomers")
}
func (h recordingHandler) GetCustomerByID(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "GetCustomerByID")
}
func (h recordingHandler) UpdateCustomer(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "UpdateCustomer")
}
func (h recordingHandler) DeleteCustomer(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "DeleteCustomer")
}
func (h recordingHandler) CreateUser(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "CreateUser")
}
func (h recordingHandler) GetUsers(w http.ResponseWriter, _ *http.Request) { h.write(w, "GetUsers") }
func (h recordingHandler) GetUserByID(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "GetUserByID")
}
func (h recordingHandler) UpdateUser(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "UpdateUser")
}
func (h recordingHandler) DeleteUser(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "DeleteUser")
}
func (h recordingHandler) CreateShop(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "CreateShop")
}
func (h recordingHandler) GetShops(w http.ResponseWriter, _ *http.Request) { h.write(w, "GetShops") }

func newTestRouter() http.Handler {
	h := recordingHandler{}
	return SetupRouter(&Config{
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		BasePath:        "/api/v1",
		CustomerHandler: h,
		UserHandler:     h,
		ShopHandler:     h,
	})
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRoutes(t *testing.T) {
	r := newTestRouter()
	id := "d290f1ee-6c54-4b01-90e6-d701748f0851"

	tests := []struct {
		method, target, body, want string
	}{
		{http.MethodGet, "/api/v1/customers", "", "GetCustomers"},
		{http.MethodGet, "/api/v1/customers/", "", "GetCustomers"},
		{http.MethodPost, "/api/v1/customers", `{"name":"Jane","email":"jane@example.com"}`, "CreateCustomer"},
		{http.MethodGet, "/api/v1/customers/" + id, "", "GetCustomerByID"},
		{http.MethodPut, "/api/v1/customers/" + id, `{"name":"Jane"}`, "UpdateCustomer"},
		{http.MethodDelete, "/api/v1/customers/" + id, "", "DeleteCustomer"},
		{http.MethodGet, "/api/v1/users?role=ADMIN", "", "GetUsers"},
		{http.MethodGet, "/api/v1/users/" + id, "", "GetUserByID"},
		{http.MethodPut, "/api/v1/users/" + id, `{}`, "UpdateUser"},
		{http.MethodDelete, "/api/v1/users/" + id, "", "DeleteUser"},
		{http.MethodGet, "/api/v1/shops", "", "GetShops"},
		{http.MethodPost, "/api/v1/shops", `{"name":"Downtown"}`, "CreateShop"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := serve(r, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusTeapot, rr.Code)
			assert.Equal(t, tt.want, rr.Header().Get("X-Handler"))
		})
	}
}

func TestBodiesAreValidatedBeforeHandlers(t *testing.T) {
	r := newTestRouter()

	rr := serve(r, http.MethodPost, "/api/v1/customers", `{"name":"Jane","email":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Handler"))

	rr = serve(r, http.MethodPost, "/api/v1/users", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `"password"`)

	rr = serve(r, http.MethodPost, "/api/v1/shops", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRootAndPing(t *testing.T) {
	r := newTestRouter()

	rr := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.String())

	rr = serve(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestDocs(t *testing.T) {
	r := newTestRouter()

	rr := serve(r, http.MethodGet, "/docs/doc.json", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"/customers/{id}"`)
	assert.Contains(t, rr.Body.String(), `"IPOS API"`)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	r := newTestRouter()

	rr := serve(r, http.MethodGet, "/api/v1/orders", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found","error":null}`, rr.Body.String())
}

func TestCORSExposesPaginationHeaders(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	exposed := rr.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Link")
	assert.Contains(t, exposed, "X-Total-Count")
}
