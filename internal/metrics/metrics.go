// Package metrics holds the Prometheus collectors of the crawl pipeline.
//
// Collectors are package level and registered with the default registry at
// init, so any component can record progress without threading a registry
// through constructors. Serve exposes them over HTTP when the operator asks
// for it with --metrics-addr.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Decode failure reasons used as the "reason" label.
const (
	ReasonMissing = "missing"
	ReasonError   = "error"
)

var (
	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fgscrap_pages_fetched_total",
			Help: "Total number of listing pages fetched successfully.",
		},
	)
	PagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fgscrap_pages_dropped_total",
			Help: "Total number of listing pages dropped after a fetch failure.",
		},
	)
	EndMarkersSeen = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fgscrap_end_markers_total",
			Help: "Total number of pages that carried the end-of-listing marker.",
		},
	)
	CandidatesExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fgscrap_candidates_extracted_total",
			Help: "Total number of candidates extracted from listing pages.",
		},
	)
	CandidatesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fgscrap_candidates_skipped_total",
			Help: "Total number of candidates skipped because they were already saved.",
		},
	)
	ArtifactsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fgscrap_artifacts_saved_total",
			Help: "Total number of artifact files written to the output directory.",
		},
	)
	DecodeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fgscrap_decode_failures_total",
			Help: "Total number of payload decode failures, labeled by reason.",
		},
		[]string{"reason"},
	)
	BatchesCommitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fgscrap_batches_committed_total",
			Help: "Total number of page batches committed to the dedup store.",
		},
	)
	DecodeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fgscrap_decode_duration_seconds",
			Help:    "Duration of payload decodes in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(PagesFetched)
	prometheus.MustRegister(PagesDropped)
	prometheus.MustRegister(EndMarkersSeen)
	prometheus.MustRegister(CandidatesExtracted)
	prometheus.MustRegister(CandidatesSkipped)
	prometheus.MustRegister(ArtifactsSaved)
	prometheus.MustRegister(DecodeFailures)
	prometheus.MustRegister(BatchesCommitted)
	prometheus.MustRegister(DecodeDuration)
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx) //nolint:errcheck // best effort on exit
	}()

	logger.Info("exposing prometheus metrics", "address", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
