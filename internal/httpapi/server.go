package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"extranetd/internal/pages"
	"extranetd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Pages() []types.PageInfo
	Items(page string) ([]types.Item, error)
	Refresh(ctx context.Context, page string) error
	RefreshAll(ctx context.Context) ([]string, error)
	ResolvePreview(filename string) (string, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Get("/extra-networks", handlePages(svc))
	r.Post("/extra-networks/refresh", handleRefreshAll(svc))
	r.Get(pages.ThumbRoute, handleThumb(svc))
	r.Get("/extra-networks/{page}/items", handleItems(svc))
	r.Post("/extra-networks/{page}/refresh", handleRefresh(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handlePages lists the registered pages.
//
// @Summary  List extra network pages
// @Tags     extra-networks
// @Produce  json
// @Success  200 {object} types.PagesResponse
// @Router   /extra-networks [get]
func handlePages(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.PagesResponse{Pages: svc.Pages()})
	}
}

// handleItems lists the view records of one page.
//
// @Summary  List the items of a page
// @Tags     extra-networks
// @Produce  json
// @Param    page path string true "Page name" example(lora)
// @Success  200 {object} types.ItemsResponse
// @Failure  404 {object} types.ErrorResponse
// @Router   /extra-networks/{page}/items [get]
func handleItems(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := chi.URLParam(r, "page")
		items, err := svc.Items(page)
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		itemsServedTotal.WithLabelValues(page).Add(float64(len(items)))
		writeJSON(w, types.ItemsResponse{Page: page, Items: items})
	}
}

// handleRefresh re-scans one page.
//
// @Summary  Re-scan a page's directory
// @Tags     extra-networks
// @Produce  json
// @Param    page path string true "Page name" example(lora)
// @Success  200 {object} types.RefreshResponse
// @Failure  404 {object} types.ErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /extra-networks/{page}/refresh [post]
func handleRefresh(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := chi.URLParam(r, "page")
		ctx, cancel := refreshContext(r)
		defer cancel()
		start := time.Now()
		if err := svc.Refresh(ctx, page); err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, types.RefreshResponse{Refreshed: []string{page}, DurationMS: time.Since(start).Milliseconds()})
	}
}

// handleRefreshAll re-scans every page.
//
// @Summary  Re-scan all pages
// @Tags     extra-networks
// @Produce  json
// @Success  200 {object} types.RefreshResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /extra-networks/refresh [post]
func handleRefreshAll(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := refreshContext(r)
		defer cancel()
		start := time.Now()
		done, err := svc.RefreshAll(ctx)
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		if done == nil {
			done = []string{}
		}
		writeJSON(w, types.RefreshResponse{Refreshed: done, DurationMS: time.Since(start).Milliseconds()})
	}
}

// handleThumb serves a preview image from one of the pages' directories.
//
// @Summary  Serve a preview image
// @Tags     extra-networks
// @Produce  image/png
// @Param    filename query string true "Absolute path of the preview image"
// @Success  200 {file} binary
// @Failure  403 {object} types.ErrorResponse
// @Failure  404 {object} types.ErrorResponse
// @Router   /extra-networks/thumb [get]
func handleThumb(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := svc.ResolvePreview(r.URL.Query().Get("filename"))
		if err != nil {
			status := statusFor(err)
			switch status {
			case http.StatusForbidden:
				IncrementPreviewRejected("forbidden")
			case http.StatusNotFound:
				IncrementPreviewRejected("not_found")
			}
			writeJSONError(w, status, err.Error())
			return
		}
		http.ServeFile(w, r, path)
	}
}
