package rest

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/observability"
)

// NewRouter wires the HTTP routes exposed by the service.
func NewRouter(logger *slog.Logger, metrics *observability.Metrics, metricsEnabled bool, h *Handlers) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/webhooks/transactions", h.handleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/v1/transactions/{transaction_id}", h.handleGetStatus).Methods(http.MethodGet)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	r.Use(loggingMiddleware(logger, metrics))

	return r
}

// loggingMiddleware records method, route, status and duration for every
// request, and feeds the HTTP metrics. Runs after mux route matching so the
// metric label is the route template, not the raw path.
func loggingMiddleware(logger *slog.Logger, metrics *observability.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			elapsed := time.Since(start)
			metrics.ObserveHTTP(route, strconv.Itoa(rec.status), elapsed.Seconds())
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", elapsed.Milliseconds(),
			)
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
