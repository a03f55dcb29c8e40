package server

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
}

// NewRouter wires services and handlers over store. health may be nil.
func NewRouter(cfg *config.Config, logger *zap.Logger, store repository.Store, health transport.HealthChecker) http.Handler {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	statuses := domain.NewStatusSet(cfg.Orders.Statuses)
	pagination := service.Pagination{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}

	// Initialize services
	productService := service.NewProductService(store, logger)
	customerService := service.NewCustomerService(store, logger)
	orderService := service.NewOrderService(store, statuses, logger)

	// Register routes
	transport.NewRootHandler(health, statuses.Values()).RegisterRoutes(router)
	transport.NewProductHandler(productService, pagination, logger).RegisterRoutes(router)
	transport.NewCustomerHandler(customerService, pagination, logger).RegisterRoutes(router)
	transport.NewOrderHandler(orderService, pagination, logger).RegisterRoutes(router)

	return router
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service) *Server {
	router := NewRouter(cfg, logger, repository.NewStore(db.DB()), db)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
			return err
		}
	}

	return nil
}
