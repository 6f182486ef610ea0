package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "blogger",
	Name:      "auth_attempts_total",
	Help:      "Registration, login and logout attempts by outcome.",
}, []string{"operation", "outcome"})

var postOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "blogger",
	Name:      "post_operations_total",
	Help:      "Post lifecycle operations by outcome.",
}, []string{"operation", "outcome"})
