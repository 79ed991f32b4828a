package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnfromus_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// AuthFailures counts rejected bearer credentials. All causes collapse
	// into one label value per route so the metric cannot leak why a token
	// was rejected.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnfromus_auth_failures_total",
		Help: "Total number of rejected bearer credentials by route",
	}, []string{"path"})

	// PostWrites counts post write transactions by operation and outcome.
	PostWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnfromus_post_writes_total",
		Help: "Total number of post write transactions by operation and outcome",
	}, []string{"operation", "outcome"})

	// FollowEvents counts follow/unfollow actions.
	FollowEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnfromus_follow_events_total",
		Help: "Total number of follow and unfollow actions",
	}, []string{"action"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
