package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics is a snapshot of the in-process request counters.
type Metrics struct {
	RequestCount   int64                      `json:"request_count"`
	ErrorCount     int64                      `json:"error_count"`
	ActiveRequests int64                      `json:"active_requests"`
	StatusCodes    map[string]int64           `json:"status_codes"`
	Endpoints      map[string]EndpointMetrics `json:"endpoints"`
}

type EndpointMetrics struct {
	Count        int64         `json:"count"`
	TotalLatency time.Duration `json:"total_latency_ns"`
}

var (
	mu      sync.Mutex
	metrics = newMetrics()
)

func newMetrics() Metrics {
	return Metrics{
		StatusCodes: make(map[string]int64),
		Endpoints:   make(map[string]EndpointMetrics),
	}
}

func resetGlobalMetrics() {
	mu.Lock()
	defer mu.Unlock()
	metrics = newMetrics()
}

// GetMetrics returns a copy of the current counters.
func GetMetrics() Metrics {
	mu.Lock()
	defer mu.Unlock()

	snapshot := Metrics{
		RequestCount:   metrics.RequestCount,
		ErrorCount:     metrics.ErrorCount,
		ActiveRequests: metrics.ActiveRequests,
		StatusCodes:    make(map[string]int64, len(metrics.StatusCodes)),
		Endpoints:      make(map[string]EndpointMetrics, len(metrics.Endpoints)),
	}
	for k, v := range metrics.StatusCodes {
		snapshot.StatusCodes[k] = v
	}
	for k, v := range metrics.Endpoints {
		snapshot.Endpoints[k] = v
	}
	return snapshot
}

// MetricsMiddleware tracks request count, error count, active requests,
// status code distribution and per-endpoint latency.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		mu.Lock()
		metrics.ActiveRequests++
		mu.Unlock()

		c.Next()

		status := c.Writer.Status()
		endpoint := c.Request.Method + " " + c.FullPath()
		latency := time.Since(start)

		mu.Lock()
		metrics.ActiveRequests--
		metrics.RequestCount++
		if status >= http.StatusBadRequest {
			metrics.ErrorCount++
		}
		metrics.StatusCodes[statusClass(status)]++
		ep := metrics.Endpoints[endpoint]
		ep.Count++
		ep.TotalLatency += latency
		metrics.Endpoints[endpoint] = ep
		mu.Unlock()
	}
}

func MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, GetMetrics())
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
