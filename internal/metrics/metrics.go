// Package metrics records per-run pipeline metrics in a private Prometheus
// registry. A batch run has no scrape endpoint, so the registry is exported
// with WriteTextfile for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gigradar"

// Stage labels
const (
	StageStage1   = "stage1"
	StageSemantic = "semantic"
	StageMatch    = "match"
	StageScrape   = "scrape"
	StageEnrich   = "enrich"
)

// Recorder holds the run metrics. A nil *Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	scraped      *prometheus.CounterVec
	scrapeErrors *prometheus.CounterVec
	removed      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	newEvents    *prometheus.GaugeVec
	lastRun      prometheus.Gauge
}

// New creates a Recorder with its own registry
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.scraped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_scraped_total",
		Help:      "Events returned by each source",
	}, []string{"source"})
	r.scrapeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrape_errors_total",
		Help:      "Failed scrapes by source",
	}, []string{"source"})
	r.removed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_removed_total",
		Help:      "Events removed by each pipeline stage",
	}, []string{"stage"})
	r.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Time spent in each pipeline stage",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	}, []string{"stage"})
	r.newEvents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_new",
		Help:      "Events not seen in the previous run, by category",
	}, []string{"category"})
	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed run",
	})

	r.registry.MustRegister(r.scraped, r.scrapeErrors, r.removed, r.duration, r.newEvents, r.lastRun)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Scraped adds n events for a source
func (r *Recorder) Scraped(source string, n int) {
	if r == nil {
		return
	}
	r.scraped.WithLabelValues(source).Add(float64(n))
}

// ScrapeFailed counts a failed scrape
func (r *Recorder) ScrapeFailed(source string) {
	if r == nil {
		return
	}
	r.scrapeErrors.WithLabelValues(source).Inc()
}

// Removed adds the number of events a stage dropped
func (r *Recorder) Removed(stage string, before, after int) {
	if r == nil || before <= after {
		return
	}
	r.removed.WithLabelValues(stage).Add(float64(before - after))
}

// Time starts timing a stage; call the returned func when it ends
func (r *Recorder) Time(stage string) func() {
	if r == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		r.duration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

// NewEvents sets the number of new events for a category
func (r *Recorder) NewEvents(category string, n int) {
	if r == nil {
		return
	}
	r.newEvents.WithLabelValues(category).Set(float64(n))
}

// Finished marks the run as completed at t
func (r *Recorder) Finished(t time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
