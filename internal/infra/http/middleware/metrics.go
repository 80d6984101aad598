package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	flowTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_flow_transitions_total",
			Help: "Conversation state transitions",
		},
		[]string{"from", "to"},
	)

	flowValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_flow_validation_failures_total",
			Help: "Invalid inputs that caused a re-prompt",
		},
		[]string{"step"},
	)

	outboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_outbound_messages_total",
			Help: "Messages sent to the WhatsApp gateway",
		},
		[]string{"kind", "status"},
	)

	profileTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_trigger_dispatches_total",
			Help: "Proactive template dispatches by outcome",
		},
		[]string{"outcome"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern evita uma série por telefone/ID em rotas com parâmetro.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// FlowRecorder publica as métricas do fluxo de perfil.
type FlowRecorder struct{}

func NewFlowRecorder() FlowRecorder {
	return FlowRecorder{}
}

func (FlowRecorder) RecordTransition(from, to string) {
	flowTransitions.WithLabelValues(from, to).Inc()
}

func (FlowRecorder) RecordValidationFailure(step string) {
	flowValidationFailures.WithLabelValues(step).Inc()
}

func (FlowRecorder) RecordMessage(kind string, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	outboundMessages.WithLabelValues(kind, status).Inc()
}

func (FlowRecorder) RecordTrigger(outcome string) {
	profileTriggers.WithLabelValues(outcome).Inc()
}
