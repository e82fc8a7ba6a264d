// Package metrics exposes Prometheus counters for HTTP traffic and catalog
// activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipes"

// Metrics owns a private registry so that tests can build as many
// instances as they like.
type Metrics struct {
	Registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	recipesCreated prometheus.Counter
	labelsCreated  *prometheus.CounterVec
	imagesUploaded prometheus.Counter
	authFailures   prometheus.Counter

	documents *prometheus.GaugeVec
}

// New registers all collectors, including the Go runtime and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		recipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipes_created_total",
			Help:      "Recipes created.",
		}),
		labelsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "labels_created_total",
			Help:      "Tags and ingredients created while saving recipes.",
		}, []string{"kind"}),
		imagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_uploaded_total",
			Help:      "Recipe images stored.",
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_failures_total",
			Help:      "Rejected token requests (bad credentials).",
		}),
		documents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_documents",
			Help:      "Documents per collection, refreshed by a background job.",
		}, []string{"collection"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration,
		m.recipesCreated, m.labelsCreated, m.imagesUploaded, m.authFailures,
		m.documents,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware records one observation per request. The route label is the
// chi pattern ("/api/recipes/{id}"), never the raw path, to keep the label
// set bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// RecipeCreated counts a new recipe. Safe on a nil receiver.
func (m *Metrics) RecipeCreated() {
	if m != nil {
		m.recipesCreated.Inc()
	}
}

// LabelsCreated adds n to the counter for kind ("tag" or "ingredient").
func (m *Metrics) LabelsCreated(kind string, n int) {
	if m != nil && n > 0 {
		m.labelsCreated.WithLabelValues(kind).Add(float64(n))
	}
}

// ImageUploaded counts a stored image.
func (m *Metrics) ImageUploaded() {
	if m != nil {
		m.imagesUploaded.Inc()
	}
}

// TokenFailure counts a rejected token request.
func (m *Metrics) TokenFailure() {
	if m != nil {
		m.authFailures.Inc()
	}
}

// SetDocuments records the current size of a collection.
func (m *Metrics) SetDocuments(collection string, n int64) {
	if m != nil {
		m.documents.WithLabelValues(collection).Set(float64(n))
	}
}
