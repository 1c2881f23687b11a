package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/product-catalog/docs"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Options struct {
	// Uploads serves stored images under UploadsPrefix when set.
	Uploads       http.FileSystem
	UploadsPrefix string
	// Limiter guards the mutating routes when set.
	Limiter *rl.Limiter
	Logger  *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	limited := func(h http.HandlerFunc) http.Handler {
		if opts.Limiter == nil {
			return h
		}
		return opts.Limiter.Middleware(h)
	}

	r.Get("/health", handlers.HealthHandler)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handlers.GetProductsHandler)
		r.Method(http.MethodPost, "/", limited(handlers.CreateProductHandler))
		r.Get("/search", handlers.SearchProductsHandler)
		r.Get("/export", handlers.ExportProductsHandler)
		r.Method(http.MethodPost, "/import", limited(handlers.ImportProductsHandler))
		r.Get("/{id}", handlers.GetProductByIDHandler)
		r.Method(http.MethodPut, "/{id}", limited(handlers.UpdateProductHandler))
		r.Method(http.MethodDelete, "/{id}", limited(handlers.DeleteProductHandler))
	})

	r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	r.Get("/activity", handlers.GetActivityHandler)

	if opts.Uploads != nil {
		prefix := "/" + strings.Trim(opts.UploadsPrefix, "/")
		if prefix == "/" {
			prefix = "/uploads"
		}
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(opts.Uploads)))
	}

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}

func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
