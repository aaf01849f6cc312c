package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	uploadsTotal    prometheus.Counter
	duplicatesTotal prometheus.Counter
	thumbnailRegens prometheus.Counter
	deletesTotal    prometheus.Counter
)

// InitMetrics registers the service collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photovault_http_requests_total",
			Help: "HTTP requests processed, by method, path and status.",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "photovault_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		uploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photovault_uploads_total",
			Help: "Images accepted by the ingestion pipeline.",
		})

		duplicatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photovault_duplicate_uploads_total",
			Help: "Uploads rejected because the content hash was already indexed.",
		})

		thumbnailRegens = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photovault_thumbnail_regenerations_total",
			Help: "Thumbnails rebuilt lazily on read.",
		})

		deletesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photovault_deletes_total",
			Help: "Assets deleted.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			uploadsTotal,
			duplicatesTotal,
			thumbnailRegens,
			deletesTotal,
		)
	})
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// RecordUpload counts an accepted ingestion.
func RecordUpload() { uploadsTotal.Inc() }

// RecordDuplicate counts a dedup rejection.
func RecordDuplicate() { duplicatesTotal.Inc() }

// RecordThumbnailRegen counts a lazy thumbnail rebuild.
func RecordThumbnailRegen() { thumbnailRegens.Inc() }

// RecordDelete counts an asset deletion.
func RecordDelete() { deletesTotal.Inc() }
