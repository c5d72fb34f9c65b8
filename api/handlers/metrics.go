package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bgpanel",
	Name:      "login_attempts_total",
	Help:      "Login attempts by outcome (success, failure, banned).",
}, []string{"result"})

func observeLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}
