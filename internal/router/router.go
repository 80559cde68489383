package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-ipos-api/docs"

	appLogger "github.com/FACorreiaa/go-ipos-api/app/logger"
	appMiddleware "github.com/FACorreiaa/go-ipos-api/app/middleware"
	"github.com/FACorreiaa/go-ipos-api/internal/api"
	"github.com/FACorreiaa/go-ipos-api/internal/api/customer"
	"github.com/FACorreiaa/go-ipos-api/internal/api/shop"
	"github.com/FACorreiaa/go-ipos-api/internal/api/user"
	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

// Config contains the dependencies needed for the router setup.
type Config struct {
	Logger          *slog.Logger
	BasePath        string
	CORSOrigins     []string
	Timeout         time.Duration
	CustomerHandler customer.Handler
	UserHandler     user.Handler
	ShopHandler     shop.Handler
}

// SetupRouter builds the application router with server-wide middleware,
// the resource routes under BasePath, the docs UI and health endpoints.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(appMiddleware.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link", "X-Total-Pages", "X-Total-Count"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello from the IPOS API!"))
	})
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api/v1"
	}
	r.Route(basePath, func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", cfg.CustomerHandler.GetCustomers)
			r.With(api.ValidateBody[types.CreateCustomerRequest]).Post("/", cfg.CustomerHandler.CreateCustomer)
			r.Get("/{id}", cfg.CustomerHandler.GetCustomerByID)
			r.With(api.ValidateBody[types.UpdateCustomerRequest]).Put("/{id}", cfg.CustomerHandler.UpdateCustomer)
			r.Delete("/{id}", cfg.CustomerHandler.DeleteCustomer)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.GetUsers)
			r.With(api.ValidateBody[types.CreateUserRequest]).Post("/", cfg.UserHandler.CreateUser)
			r.Get("/{id}", cfg.UserHandler.GetUserByID)
			r.With(api.ValidateBody[types.UpdateUserRequest]).Put("/{id}", cfg.UserHandler.UpdateUser)
			r.Delete("/{id}", cfg.UserHandler.DeleteUser)
		})

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", cfg.ShopHandler.GetShops)
			r.With(api.ValidateBody[types.CreateShopRequest]).Post("/", cfg.ShopHandler.CreateShop)
		})
	})

	return r
}
