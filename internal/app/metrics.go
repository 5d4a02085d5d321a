package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath is where ServeMetrics exposes the counters.
const MetricsPath = "/metrics"

// MetricsHandler returns an HTTP handler exposing the application counters
// in the Prometheus text format.
func (app *Application) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(app.metrics.Registry(), promhttp.HandlerOpts{
		ErrorLog: app.logger.Named("metrics").StandardLogger(nil),
	})
}

// ServeMetrics serves MetricsPath on addr until ctx is done.
func (app *Application) ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, app.MetricsHandler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		app.logger.Info("serving metrics", "addr", addr, "path", MetricsPath)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
