package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VoteSubmissions counts vote submissions by outcome.
	VoteSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_vote_submissions_total",
		Help: "Total number of vote submissions by outcome",
	}, []string{"outcome"})

	// CommentsCreated counts comments accepted by the board.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulseboard_comments_created_total",
		Help: "Total number of comments created",
	})

	// ActiveWebSockets is the gauge of currently connected websocket clients.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pulseboard_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})

	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// GeoIPLookups counts geolocation lookups by result.
	GeoIPLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_geoip_lookups_total",
		Help: "Total number of geolocation lookups by result",
	}, []string{"result"})
)

// InitMetrics creates the fiberprometheus middleware for HTTP-level metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as app middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
