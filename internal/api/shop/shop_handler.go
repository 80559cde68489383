package shop

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-ipos-api/internal/api"
	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateShop(w http.ResponseWriter, r *http.Request)
	GetShops(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	shopService ShopService
	logger      *slog.Logger
}

func NewHandlerImpl(shopService ShopService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		shopService: shopService,
		logger:      logger,
	}
}

// CreateShop godoc
// @Summary      Create a shop
// @Tags         Shops
// @Accept       json
// @Produce      json
// @Param        shop body types.CreateShopRequest true "Shop"
// @Success      201 {object} types.Response{data=types.Shop} "Shop created"
// @Failure      400 {object} types.ErrorResponse "Missing required fields"
// @Failure      409 {object} types.ErrorResponse "Shop already exists"
// @Failure      422 {object} types.ValidationErrorResponse "Validation failed"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /shops [post]
func (h *HandlerImpl) CreateShop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreateShop"))

	req, ok := api.ValidatedBody[types.CreateShopRequest](ctx)
	if !ok {
		l.ErrorContext(ctx, "Validated body missing from context")
		api.InternalError(w, r)
		return
	}

	shop, err := h.shopService.CreateShop(ctx, req)
	if err != nil {
		switch api.KindOf(err) {
		case api.KindConflict:
			api.ErrorResponse(w, r, http.StatusConflict, "Shop already exists", api.MetaOf(err))
		case api.KindMissingField:
			api.ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields", api.MetaOf(err))
		default:
			l.ErrorContext(ctx, "Failed to create shop", slog.Any("error", err))
			api.InternalError(w, r)
		}
		return
	}

	api.SuccessResponse(w, r, shop, types.Meta{Status: http.StatusCreated, Message: "Shop created"})
}

// GetShops godoc
// @Summary      List shops (paginated)
// @Tags         Shops
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size (max 100)" default(10)
// @Success      200 {object} types.Response{data=[]types.Shop} "Shop retrieved"
// @Failure      500 {object} types.ErrorResponse "Internal Server Error"
// @Router       /shops [get]
func (h *HandlerImpl) GetShops(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := api.ParsePagination(r.URL.Query())

	var (
		items []types.Shop
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = h.shopService.ListShops(gctx, p.Skip, p.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = h.shopService.CountShops(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.ErrorContext(ctx, "Failed to list shops", slog.Any("error", err))
		api.InternalError(w, r)
		return
	}

	api.PaginatedSuccess(w, r, items, total, p.Page, p.Limit, "Shop retrieved")
}
