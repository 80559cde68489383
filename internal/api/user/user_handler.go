package user

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-ipos-api/internal/api"
	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateUser(w http.ResponseWriter, r *http.Request)
	GetUsers(w http.ResponseWriter, r *http.Request)
	GetUserByID(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

const (
	msgNotFound    = "User not found"
	msgEmailExists = "User with this email already exists"
	msgEmailInUse  = "Email already in use"
	msgMissing     = "Missing required fields"
)

// CreateUser godoc
// @Summary      Create a user
// @Description  Hashes the password before storing it. The password is never returned.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user body types.CreateUserRequest true "User"
// @Success      201 {object} types.Response{data=types.User} "User created"
// @Failure      400 {object} types.ErrorResponse "Missing required fields"
// @Failure      409 {object} types.ErrorResponse "Email already exists"
// @Failure      422 {object} types.ValidationErrorResponse "Validation failed"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users [post]
func (h *HandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreateUser"))

	req, ok := api.ValidatedBody[types.CreateUserRequest](ctx)
	if !ok {
		l.ErrorContext(ctx, "Validated body missing from context")
		api.InternalError(w, r)
		return
	}

	u, err := h.userService.CreateUser(ctx, req)
	if err != nil {
		switch api.KindOf(err) {
		case api.KindConflict:
			api.ErrorResponse(w, r, http.StatusConflict, msgEmailExists, api.MetaOf(err))
		case api.KindMissingField:
			api.ErrorResponse(w, r, http.StatusBadRequest, msgMissing, api.MetaOf(err))
		default:
			l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
			api.InternalError(w, r)
		}
		return
	}

	api.SuccessResponse(w, r, u, types.Meta{Status: http.StatusCreated, Message: "User created"})
}

// GetUsers godoc
// @Summary      List users (paginated)
// @Description  An unrecognised role value is ignored.
// @Tags         Users
// @Produce      json
// @Param        page  query int    false "Page number" default(1)
// @Param        limit query int    false "Page size (max 100)" default(10)
// @Param        role  query string false "Role filter" Enums(ADMIN, ATTENDANT)
// @Success      200 {object} types.Response{data=[]types.User} "Users retrieved"
// @Header       200 {string} Link "first/prev/next/last page links"
// @Header       200 {integer} X-Total-Pages "Total number of pages"
// @Header       200 {integer} X-Total-Count "Total number of users"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users [get]
func (h *HandlerImpl) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetUsers"))

	q := r.URL.Query()
	p := api.ParsePagination(q)

	var filters types.UserFilters
	if role, ok := types.ParseRole(q.Get("role")); ok {
		filters.Role = &role
	}

	var (
		items []types.User
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = h.userService.ListUsers(gctx, filters, p.Skip, p.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = h.userService.CountUsers(gctx, filters)
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	api.PaginatedSuccess(w, r, items, total, p.Page, p.Limit, "Users retrieved")
}

// GetUserByID godoc
// @Summary      Get a user by id
// @Tags         Users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} types.Response{data=types.User} "User retrieved"
// @Failure      404 {object} types.ErrorResponse "User not found"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users/{id} [get]
func (h *HandlerImpl) GetUserByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetUserByID"))

	id, ok := api.PathUUID(r, "id")
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
		return
	}

	u, err := h.userService.GetUser(ctx, id)
	if err != nil {
		if api.KindOf(err) == api.KindNotFound {
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
			return
		}
		l.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	api.SuccessResponse(w, r, u, types.Meta{Message: "User retrieved"})
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  A new password may be sent as a string or as {"set": "..."}; it is hashed before storage.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id   path string                  true "User ID" format(uuid)
// @Param        user body types.UpdateUserRequest true "Fields to update"
// @Success      200 {object} types.Response{data=types.User} "User updated"
// @Failure      404 {object} types.ErrorResponse "User not found"
// @Failure      409 {object} types.ErrorResponse "Email already in use"
// @Failure      422 {object} types.ValidationErrorResponse "Validation failed"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users/{id} [put]
func (h *HandlerImpl) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "UpdateUser"))

	id, ok := api.PathUUID(r, "id")
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
		return
	}

	req, ok := api.ValidatedBody[types.UpdateUserRequest](ctx)
	if !ok {
		l.ErrorContext(ctx, "Validated body missing from context")
		api.InternalError(w, r)
		return
	}

	if _, err := h.userService.GetUser(ctx, id); err != nil {
		if api.KindOf(err) == api.KindNotFound {
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
			return
		}
		l.ErrorContext(ctx, "Failed to check user before update", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	u, err := h.userService.UpdateUser(ctx, id, req)
	if err != nil {
		switch api.KindOf(err) {
		case api.KindNotFound:
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
		case api.KindConflict:
			api.ErrorResponse(w, r, http.StatusConflict, msgEmailInUse, nil)
		default:
			l.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
			api.InternalError(w, r)
		}
		return
	}

	api.SuccessResponse(w, r, u, types.Meta{Message: "User updated"})
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         Users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} types.Response "User deleted"
// @Failure      404 {object} types.ErrorResponse "User not found"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /users/{id} [delete]
func (h *HandlerImpl) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "DeleteUser"))

	id, ok := api.PathUUID(r, "id")
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
		return
	}

	if _, err := h.userService.GetUser(ctx, id); err != nil {
		if api.KindOf(err) == api.KindNotFound {
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
			return
		}
		l.ErrorContext(ctx, "Failed to check user before delete", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	if err := h.userService.DeleteUser(ctx, id); err != nil {
		if api.KindOf(err) == api.KindNotFound {
			api.ErrorResponse(w, r, http.StatusNotFound, msgNotFound, nil)
			return
		}
		l.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	api.SuccessResponse(w, r, nil, types.Meta{Message: "User deleted"})
}
