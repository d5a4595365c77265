// Package metrics exposes prometheus collectors for the filter engine.
// The engine itself stays observation-free; callers record outcomes here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/promptshield/promptshield/internal/filter"
)

// Bundle holds the filter metrics, registered against an injected registry
// so embedding applications keep control of their metrics namespace.
//
// Metrics:
//   - promptshield_checks_total: checks by direction and result
//   - promptshield_detections_total: unsafe verdicts by detector
//   - promptshield_patterns_loaded: loaded pattern counts by kind
type Bundle struct {
	checksTotal     *prometheus.CounterVec
	detectionsTotal *prometheus.CounterVec
	patternsLoaded  *prometheus.GaugeVec
}

// New creates and registers the filter metrics.
func New(registry *prometheus.Registry) *Bundle {
	b := &Bundle{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "promptshield",
				Name:      "checks_total",
				Help:      "Total number of safety checks",
			},
			[]string{"direction", "result"},
		),
		detectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "promptshield",
				Name:      "detections_total",
				Help:      "Total number of unsafe verdicts by detector",
			},
			[]string{"detector"},
		),
		patternsLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "promptshield",
				Name:      "patterns_loaded",
				Help:      "Number of loaded detection patterns by kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(b.checksTotal, b.detectionsTotal, b.patternsLoaded)
	return b
}

// RecordCheck counts one completed check.
func (b *Bundle) RecordCheck(dir filter.Direction, v filter.Verdict) {
	result := "safe"
	if !v.Safe {
		result = "unsafe"
		b.detectionsTotal.WithLabelValues(v.Detector()).Inc()
	}
	b.checksTotal.WithLabelValues(string(dir), result).Inc()
}

// SetPatternCounts refreshes the pattern gauges from an engine snapshot.
func (b *Bundle) SetPatternCounts(s filter.FilterStats) {
	b.patternsLoaded.WithLabelValues("harmful").Set(float64(s.HarmfulPatterns))
	b.patternsLoaded.WithLabelValues("jailbreak").Set(float64(s.JailbreakPatterns))
}
