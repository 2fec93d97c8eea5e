package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postpad_http_requests_total",
			Help: "Total number of requests sent to the posts API",
		},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "postpad_http_request_duration_seconds",
			Help:    "Duration of requests sent to the posts API in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	PostSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postpad_post_saves_total",
			Help: "Total number of post saves by result",
		},
		[]string{"result"},
	)
)

// ObserveRequest records one API round trip. status is "error" when no
// response was received.
func ObserveRequest(method, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, status).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Serve exposes the default registry on addr until ctx is done.
func Serve(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown", slog.String("error", err.Error()))
		}
	}()

	log.Info("metrics server listening", slog.String("address", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
