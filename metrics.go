package media

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	poolBuffersAllocated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_pool_buffers_allocated_total",
		Help: "Total number of backing arrays newly allocated by a buffer pool",
	}, []string{"pool"})
	poolBuffersServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_pool_buffers_served_total",
		Help: "Total number of buffers handed out by a buffer pool",
	}, []string{"pool"})
	poolBuffersOutstanding = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "media_pool_buffers_outstanding",
		Help: "Buffers handed out by a pool and not yet recycled",
	}, []string{"pool"})
	framesDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_frames_delivered_total",
		Help: "Total number of frame deliveries to registered sinks",
	}, []string{"broadcaster"})
	framesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_frames_dropped_total",
		Help: "Total number of frames that arrived with no sink registered",
	}, []string{"broadcaster"})
)

type poolMetrics struct {
	allocated   prometheus.Counter
	served      prometheus.Counter
	outstanding prometheus.Gauge
}

func newPoolMetrics(name string) poolMetrics {
	m := poolMetrics{
		allocated:   poolBuffersAllocated.WithLabelValues(name),
		served:      poolBuffersServed.WithLabelValues(name),
		outstanding: poolBuffersOutstanding.WithLabelValues(name),
	}
	m.allocated.Add(0)
	m.served.Add(0)
	return m
}

type broadcastMetrics struct {
	delivered prometheus.Counter
	dropped   prometheus.Counter
}

func newBroadcastMetrics(name string) broadcastMetrics {
	m := broadcastMetrics{
		delivered: framesDelivered.WithLabelValues(name),
		dropped:   framesDropped.WithLabelValues(name),
	}
	m.delivered.Add(0)
	m.dropped.Add(0)
	return m
}

// MetricsHandler returns the Prometheus scrape handler for the process
// default registry. Mount it at /metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
