package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/rogerio-castellano/expiry-tracker/internal/auth"
	"github.com/rogerio-castellano/expiry-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/expiry-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/expiry-tracker/internal/logger"
	"github.com/rogerio-castellano/expiry-tracker/internal/telemetry"

	_ "github.com/rogerio-castellano/expiry-tracker/docs"
)

type RouterOptions struct {
	Tokens       *auth.Tokens
	Users        *auth.Users
	LoginLimiter *rl.Limiter
	Metrics      *telemetry.Metrics
	Logger       *logger.Logger
}

func NewRouter(opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(opts.Metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.LoginLimiter != nil {
		r.With(opts.LoginLimiter.Middleware).Post("/login", handlers.LoginHandler)
	} else {
		r.Post("/login", handlers.LoginHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.Tokens, opts.Users, log))

		r.Get("/me", handlers.MeHandler)

		r.Get("/products", handlers.GetProductsHandler)
		r.Post("/products", handlers.CreateProductHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
		r.Get("/products/barcode/{barcode}", handlers.GetProductByBarcodeHandler)
		r.Get("/products/{id}", handlers.GetProductByIDHandler)
		r.Put("/products/{id}", handlers.UpdateProductHandler)
		r.Delete("/products/{id}", handlers.DeleteProductHandler)
		r.Get("/products/{id}/batches", handlers.GetProductBatchesHandler)

		r.Get("/batches", handlers.GetBatchesHandler)
		r.Post("/batches", handlers.CreateBatchHandler)
		r.Get("/batches/warning", handlers.GetWarningBatchesHandler)
		r.Get("/batches/expired", handlers.GetExpiredBatchesHandler)
		r.Put("/batches/{id}", handlers.UpdateBatchHandler)
		r.Delete("/batches/{id}", handlers.DeleteBatchHandler)

		r.Get("/dashboard", handlers.GetDashboardHandler)
		r.Get("/history", handlers.GetHistoryHandler)
		r.Get("/history/export", handlers.ExportHistoryHandler)

		r.Get("/users", handlers.GetUsersHandler)
		r.Post("/users", handlers.CreateUserHandler)
		r.Put("/users/{id}", handlers.UpdateUserHandler)
		r.Delete("/users/{id}", handlers.DeleteUserHandler)
	})

	return r
}
