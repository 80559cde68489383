package container

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-ipos-api/app/db"
	"github.com/FACorreiaa/go-ipos-api/config"
	"github.com/FACorreiaa/go-ipos-api/internal/api/customer"
	"github.com/FACorreiaa/go-ipos-api/internal/api/shop"
	"github.com/FACorreiaa/go-ipos-api/internal/api/user"
	"github.com/FACorreiaa/go-ipos-api/internal/router"
)

// Container holds all application dependencies.
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Pool            *pgxpool.Pool
	CustomerHandler *customer.HandlerImpl
	UserHandler     *user.HandlerImpl
	ShopHandler     *shop.HandlerImpl
}

// NewContainer wires repositories, services and handlers on top of db.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) *Container {
	c := newContainer(cfg, pool, logger)
	c.Pool = pool
	return c
}

func newContainer(cfg *config.Config, db database.Querier, logger *slog.Logger) *Container {
	customerRepo := customer.NewPostgresCustomerRepo(db, logger)
	customerService := customer.NewCustomerService(customerRepo, logger)
	customerHandler := customer.NewHandlerImpl(customerService, logger)

	hasher := user.NewPasswordHasher(cfg.Security.PasswordHash.Algorithm, cfg.Security.PasswordHash.Cost)
	userRepo := user.NewPostgresUserRepo(db, logger)
	userService := user.NewUserService(userRepo, hasher, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	shopRepo := shop.NewPostgresShopRepo(db, logger)
	shopService := shop.NewShopService(shopRepo, logger)
	shopHandler := shop.NewHandlerImpl(shopService, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		CustomerHandler: customerHandler,
		UserHandler:     userHandler,
		ShopHandler:     shopHandler,
	}
}

// Router builds the HTTP router for the container's handlers.
func (c *Container) Router() http.Handler {
	return router.SetupRouter(&router.Config{
		Logger:          c.Logger,
		BasePath:        c.Config.Server.BasePath,
		CORSOrigins:     c.Config.Server.CORSOrigins,
		Timeout:         c.Config.Server.Timeout,
		CustomerHandler: c.CustomerHandler,
		UserHandler:     c.UserHandler,
		ShopHandler:     c.ShopHandler,
	})
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready.
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
