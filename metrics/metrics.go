package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the authentication engine.
// It implements the auth.Collector interface.
type Collector struct {
	// Attempt metrics
	AttemptsStarted          prometheus.Counter
	NamesAssigned            *prometheus.CounterVec
	AuthenticationsSucceeded *prometheus.CounterVec
	AuthenticationsFailed    prometheus.Counter

	// Negotiation dispatcher metrics
	RequestsHandled     *prometheus.CounterVec
	RequestsDeclined    *prometheus.CounterVec
	RequestsUnsupported *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with all Prometheus metrics
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "auth"
	}

	return &Collector{
		AttemptsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_started_total",
			Help:      "Total number of authentication attempts started",
		}),
		NamesAssigned: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "names_assigned_total",
			Help:      "Total number of authentication names resolved to a realm",
		}, []string{"realm"}),
		AuthenticationsSucceeded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authentications_succeeded_total",
			Help:      "Total number of authentication attempts that completed successfully",
		}, []string{"realm"}),
		AuthenticationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authentications_failed_total",
			Help:      "Total number of authentication attempts marked failed",
		}),
		RequestsHandled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "negotiation_requests_handled_total",
			Help:      "Total number of negotiation requests answered by the dispatcher",
		}, []string{"request"}),
		RequestsDeclined: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "negotiation_requests_declined_total",
			Help:      "Total number of negotiation requests left unanswered for mechanism fallback",
		}, []string{"request"}),
		RequestsUnsupported: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "negotiation_requests_unsupported_total",
			Help:      "Total number of negotiation requests of an unrecognized kind",
		}, []string{"request"}),
	}
}

// AttemptStarted records an authentication attempt leaving the initial state
func (c *Collector) AttemptStarted() {
	c.AttemptsStarted.Inc()
}

// NameAssigned records a candidate name resolved to a realm
func (c *Collector) NameAssigned(realmName string) {
	c.NamesAssigned.WithLabelValues(realmName).Inc()
}

// AuthenticationSucceeded records a successfully completed attempt
func (c *Collector) AuthenticationSucceeded(realmName string) {
	c.AuthenticationsSucceeded.WithLabelValues(realmName).Inc()
}

// AuthenticationFailed records a failed attempt
func (c *Collector) AuthenticationFailed() {
	c.AuthenticationsFailed.Inc()
}

// RequestHandled records a negotiation request answered by the dispatcher
func (c *Collector) RequestHandled(request string) {
	c.RequestsHandled.WithLabelValues(request).Inc()
}

// RequestDeclined records a negotiation request left unanswered
func (c *Collector) RequestDeclined(request string) {
	c.RequestsDeclined.WithLabelValues(request).Inc()
}

// RequestUnsupported records a negotiation request of an unrecognized kind
func (c *Collector) RequestUnsupported(request string) {
	c.RequestsUnsupported.WithLabelValues(request).Inc()
}
