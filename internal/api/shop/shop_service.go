package shop

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

var _ ShopService = (*ShopServiceImpl)(nil)

type ShopService interface {
	CreateShop(ctx context.Context, req types.CreateShopRequest) (*types.Shop, error)
	ListShops(ctx context.Context, skip, limit int) ([]types.Shop, error)
	CountShops(ctx context.Context) (int64, error)
}

type ShopServiceImpl struct {
	logger *slog.Logger
	repo   ShopRepo
}

func NewShopService(repo ShopRepo, logger *slog.Logger) *ShopServiceImpl {
	return &ShopServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ShopServiceImpl) CreateShop(ctx context.Context, req types.CreateShopRequest) (*types.Shop, error) {
	ctx, span := otel.Tracer("ShopService").Start(ctx, "CreateShop")
	defer span.End()

	shop, err := s.repo.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create shop")
		return nil, fmt.Errorf("error creating shop: %w", err)
	}

	s.logger.InfoContext(ctx, "Shop created", slog.String("shopID", shop.ID.String()))
	span.SetStatus(codes.Ok, "Shop created")
	return shop, nil
}

func (s *ShopServiceImpl) ListShops(ctx context.Context, skip, limit int) ([]types.Shop, error) {
	ctx, span := otel.Tracer("ShopService").Start(ctx, "ListShops")
	defer span.End()

	shops, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list shops")
		return nil, fmt.Errorf("error listing shops: %w", err)
	}
	span.SetStatus(codes.Ok, "Shops listed")
	return shops, nil
}

func (s *ShopServiceImpl) CountShops(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer("ShopService").Start(ctx, "CountShops")
	defer span.End()

	total, err := s.repo.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to count shops")
		return 0, fmt.Errorf("error counting shops: %w", err)
	}
	span.SetStatus(codes.Ok, "Shops counted")
	return total, nil
}
