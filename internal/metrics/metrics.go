// Package metrics collects parse statistics in a Prometheus registry and
// exports them in the node exporter text file format.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
	"github.com/KilimcininKorOglu/crlkit/internal/crl"
)

const namespace = "crlkit"

// Metrics holds the collectors of one crlkit run.
type Metrics struct {
	registry *prometheus.Registry

	parsed   prometheus.Counter
	entries  prometheus.Counter
	errors   *prometheus.CounterVec
	duration prometheus.Histogram
}

// New creates the collectors and registers them with a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crls_parsed_total",
			Help:      "Number of CRLs parsed to the end.",
		}),
		entries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crl_entries_total",
			Help:      "Number of revoked certificate entries read.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crl_parse_errors_total",
			Help:      "Number of CRLs that failed to parse, by error kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crl_parse_duration_seconds",
			Help:      "Time spent parsing one CRL.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.parsed, m.entries, m.errors, m.duration)
	return m
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCRL records a successfully parsed CRL.
func (m *Metrics) ObserveCRL(entries int, elapsed time.Duration) {
	m.parsed.Inc()
	m.entries.Add(float64(entries))
	m.duration.Observe(elapsed.Seconds())
}

// ObserveError records a failed parse.
func (m *Metrics) ObserveError(err error, elapsed time.Duration) {
	m.errors.WithLabelValues(ErrorKind(err)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// WriteTextfile writes all metrics to path. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{ber.ErrTruncated, "truncated"},
	{ber.ErrMalformed, "malformed"},
	{ber.ErrBadEncoding, "bad_encoding"},
	{ber.ErrInvalidObject, "invalid_object"},
	{ber.ErrTooShort, "too_short"},
	{ber.ErrTooLarge, "too_large"},
	{ber.ErrUnsupportedEncoding, "unsupported_encoding"},
	{ber.ErrNotDER, "not_der"},
	{crl.ErrUnsupportedCRLVersion, "unsupported_version"},
	{crl.ErrUnknownCriticalExtension, "unknown_critical_extension"},
	{crl.ErrUnknownAlgorithm, "unknown_algorithm"},
	{crl.ErrUnsupportedAlgorithm, "unsupported_algorithm"},
	{crl.ErrBadSignature, "bad_signature"},
	{crl.ErrInvalidState, "invalid_state"},
}

// ErrorKind maps an error to a low cardinality label value.
func ErrorKind(err error) string {
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return "other"
}
