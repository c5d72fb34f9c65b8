package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bgpanel/api/handlers"
)

var (
	dispatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bgpanel",
		Name:      "dispatch_requests_total",
		Help:      "Dispatched panel pages by realm and module.",
	}, []string{"realm", "module"})

	dispatchMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bgpanel",
		Name:      "dispatch_misses_total",
		Help:      "Dispatch lookups that resolved to no registered page.",
	}, []string{"realm", "module"})

	uptimeSeconds = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "bgpanel",
		Name:      "uptime_seconds",
		Help:      "Seconds since the server started.",
	}, func() float64 {
		return time.Since(startTime).Seconds()
	})

	startTime = time.Now()
)

func observeDispatch(realm, module string) {
	dispatchRequests.WithLabelValues(realm, module).Inc()
}

func observeDispatchMiss(realm, module string) {
	dispatchMisses.WithLabelValues(realm, module).Inc()
}

func (s *Server) registerObservability() {
	if s.cfg.Observability.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler())
	}
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.PingContext(r.Context()); err != nil {
			handlers.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
