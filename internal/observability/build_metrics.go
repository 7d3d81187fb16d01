// Package observability exposes prometheus metrics for the context
// assembly pipeline.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BuildMetrics tracks health of context assembly.
type BuildMetrics struct {
	builds          *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	truncations     prometheus.Counter
	tokensBySection *prometheus.GaugeVec
}

var (
	defaultBuildMetrics     *BuildMetrics
	defaultBuildMetricsOnce sync.Once
)

// NewBuildMetrics builds a recorder on the default prometheus registry.
// Repeated calls return the same instance so the collectors register once.
func NewBuildMetrics() *BuildMetrics {
	defaultBuildMetricsOnce.Do(func() {
		defaultBuildMetrics = newBuildMetrics(prometheus.DefaultRegisterer)
	})
	return defaultBuildMetrics
}

// NewBuildMetricsWithRegisterer allows tests to provide a dedicated registry.
func NewBuildMetricsWithRegisterer(reg prometheus.Registerer) *BuildMetrics {
	return newBuildMetrics(reg)
}

func newBuildMetrics(reg prometheus.Registerer) *BuildMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &BuildMetrics{
		builds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fabula",
			Subsystem: "context",
			Name:      "build_total",
			Help:      "Context builds by outcome (ok, not_found, error)",
		}, []string{"outcome"}),
		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fabula",
			Subsystem: "context",
			Name:      "build_duration_seconds",
			Help:      "Wall time spent assembling one context bundle",
			Buckets:   prometheus.DefBuckets,
		}),
		truncations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fabula",
			Subsystem: "context",
			Name:      "truncation_total",
			Help:      "Builds that dropped at least one candidate for budget reasons",
		}),
		tokensBySection: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fabula",
			Subsystem: "context",
			Name:      "tokens_by_section",
			Help:      "Approximate tokens per formatted section for the most recent build",
		}, []string{"section"}),
	}
}

// RecordBuild counts one finished build and its duration.
func (m *BuildMetrics) RecordBuild(outcome string, elapsed time.Duration) {
	m.builds.WithLabelValues(outcome).Inc()
	m.buildDuration.Observe(elapsed.Seconds())
}

// RecordTruncation counts a build that hit the budget ceiling.
func (m *BuildMetrics) RecordTruncation() {
	m.truncations.Inc()
}

// RecordSectionTokens reports the token weight of one section of the most
// recent build.
func (m *BuildMetrics) RecordSectionTokens(section string, tokens int) {
	m.tokensBySection.WithLabelValues(section).Set(float64(tokens))
}
