package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reefscout/reefscout/pkg/metrics"
)

// HandleHealth handles GET /healthz. It answers with the Prometheus
// exposition of the service registry, so a scrape doubles as a liveness probe.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
