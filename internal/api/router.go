package api

import (
	"log/slog"
	"net/http"
	"time"

	"credit-approval/internal/api/handler"
	mw "credit-approval/internal/api/middleware"
	"credit-approval/internal/config"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(loanService loan.Service, customerService customer.Service, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupCustomerRoutes(router, customerService, logger)
	setupLoanRoutes(router, loanService, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupCustomerRoutes(router *chi.Mux, svc customer.Service, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	router.Post("/register", h.Register)
}

func setupLoanRoutes(router *chi.Mux, svc loan.Service, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)

	router.Post("/check-eligibility", h.CheckEligibility)
	router.Post("/create-loan", h.CreateLoan)
	router.Get("/view-loan/{loanID}", h.ViewLoan)
	router.Get("/view-loans/{customerID}", h.ViewCustomerLoans)
}
