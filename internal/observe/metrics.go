// Package observe provides process-wide observability primitives:
// OpenTelemetry metrics, distributed tracing, and structured logging
// helpers that tie them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still
// be scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/sicoreai/NeMo-text-processing"

// Metrics holds all OpenTelemetry metric instruments for the pipeline.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// NormalizeDuration tracks end-to-end request latency. Use with attributes:
	//   Attr("language", ...), Attr("direction", ...)
	NormalizeDuration metric.Float64Histogram

	// TagDuration tracks the tokenize-and-classify stage.
	TagDuration metric.Float64Histogram

	// VerbalizeDuration tracks the verbalization stage across all candidate
	// taggings of one request.
	VerbalizeDuration metric.Float64Histogram

	// BuildDuration tracks grammar assembly, one observation per
	// (language, direction) build.
	BuildDuration metric.Float64Histogram

	// --- Counters ---

	// Requests counts normalization requests. Use with attributes:
	//   Attr("language", ...), Attr("direction", ...)
	Requests metric.Int64Counter

	// PassThroughs counts requests no grammar path covered, answered by
	// returning the input verbatim.
	PassThroughs metric.Int64Counter

	// BuildFailures counts grammar builds that failed and blocked their
	// registry. Use with attribute: Attr("language", ...)
	BuildFailures metric.Int64Counter

	// --- Gauges ---

	// GrammarsLoaded tracks the number of compiled grammars currently held
	// by registries in this process.
	GrammarsLoaded metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). The low
// end covers per-request transduction, the high end grammar builds.
var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.NormalizeDuration, err = m.Float64Histogram("textprocessing.normalize.duration",
		metric.WithDescription("End-to-end normalization request latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TagDuration, err = m.Float64Histogram("textprocessing.tag.duration",
		metric.WithDescription("Latency of the tokenize-and-classify stage."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.VerbalizeDuration, err = m.Float64Histogram("textprocessing.verbalize.duration",
		metric.WithDescription("Latency of the verbalization stage."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.BuildDuration, err = m.Float64Histogram("textprocessing.grammar.build.duration",
		metric.WithDescription("Latency of one grammar assembly."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Requests, err = m.Int64Counter("textprocessing.requests",
		metric.WithDescription("Total normalization requests by language and direction."),
	); err != nil {
		return nil, err
	}
	if met.PassThroughs, err = m.Int64Counter("textprocessing.passthroughs",
		metric.WithDescription("Requests answered by literal pass-through because no grammar path matched."),
	); err != nil {
		return nil, err
	}
	if met.BuildFailures, err = m.Int64Counter("textprocessing.grammar.build.failures",
		metric.WithDescription("Grammar builds that failed and blocked their registry."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.GrammarsLoaded, err = m.Int64UpDownCounter("textprocessing.grammars.loaded",
		metric.WithDescription("Compiled grammars currently held by registries."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call using [otel.GetMeterProvider]. Subsequent calls return the
// same pointer. Panics if instrument creation fails (should not happen with
// the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}
