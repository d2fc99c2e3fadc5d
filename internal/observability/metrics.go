package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

// Feed page sources.
const (
	FeedSourceCursor    = "cursor"
	FeedSourceBootstrap = "bootstrap"
	FeedSourceStart     = "start"
)

type Metrics struct {
	httpRequests *CounterVec
	httpLatency  *HistogramVec
	httpInflight *Gauge

	feedPages        *CounterVec
	feedCursorResets *Counter
	feedScan         *HistogramVec
	feedFailures     *Counter

	engagementCache *CounterVec
	submissions     *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func New() *Metrics {
	return &Metrics{
		httpRequests: NewCounterVec("http_requests_total", "Total HTTP requests by method/route/status.", []string{"method", "route", "status"}),
		httpLatency: NewHistogramVec(
			"http_request_duration_seconds",
			"HTTP request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		httpInflight: NewGauge("http_inflight_requests", "In-flight HTTP requests."),

		feedPages:        NewCounterVec("feed_pages_total", "Feed pages served by cursor source.", []string{"source"}),
		feedCursorResets: NewCounter("feed_cursor_resets_total", "Undecodable cursors treated as a fresh start."),
		feedScan: NewHistogramVec(
			"feed_scan_duration_seconds",
			"Scored scan latency in seconds by backend/status.",
			[]string{"backend", "status"},
			nil,
		),
		feedFailures: NewCounter("feed_failures_total", "Feed requests that failed with feed unavailable."),

		engagementCache: NewCounterVec("engagement_cache_lookups_total", "Engagement count lookups by result.", []string{"result"}),
		submissions:     NewCounterVec("submissions_total", "Graded submissions by result.", []string{"result"}),

		dbStats:   NewGaugeVec("db_pool_stats", "database/sql pool statistics.", []string{"stat"}),
		redisUp:   NewGauge("redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing: NewGauge("redis_ping_seconds", "Last redis ping latency."),
	}
}

// Init installs the process-wide registry. It returns nil when disabled, and
// every method is safe on a nil receiver.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

func (m *Metrics) collectors() []Collector {
	return []Collector{
		m.httpRequests, m.httpLatency, m.httpInflight,
		m.feedPages, m.feedCursorResets, m.feedScan, m.feedFailures,
		m.engagementCache, m.submissions,
		m.dbStats, m.redisUp, m.redisPing,
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.collectors() {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveHTTP(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.Inc(method, route, status)
	m.httpLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) HTTPInflightInc() {
	if m == nil {
		return
	}
	m.httpInflight.Inc()
}

func (m *Metrics) HTTPInflightDec() {
	if m == nil {
		return
	}
	m.httpInflight.Dec()
}

func (m *Metrics) IncFeedPage(source string) {
	if m == nil {
		return
	}
	m.feedPages.Inc(source)
}

func (m *Metrics) IncFeedCursorReset() {
	if m == nil {
		return
	}
	m.feedCursorResets.Inc()
}

func (m *Metrics) ObserveFeedScan(backend string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.feedScan.Observe(dur.Seconds(), backend, status)
}

func (m *Metrics) IncFeedFailure() {
	if m == nil {
		return
	}
	m.feedFailures.Inc()
}

// ObserveEngagementCache records hit/miss counts for one lookup batch.
func (m *Metrics) ObserveEngagementCache(hits, misses int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.engagementCache.Inc("error")
	}
	if hits > 0 {
		m.engagementCache.Add(float64(hits), "hit")
	}
	if misses > 0 {
		m.engagementCache.Add(float64(misses), "miss")
	}
}

func (m *Metrics) IncSubmission(correct bool) {
	if m == nil {
		return
	}
	if correct {
		m.submissions.Inc("correct")
		return
	}
	m.submissions.Inc("incorrect")
}

// SubmissionCount reports graded submissions by outcome.
func (m *Metrics) SubmissionCount(correct bool) float64 {
	if m == nil {
		return 0
	}
	if correct {
		return m.submissions.Value("correct")
	}
	return m.submissions.Value("incorrect")
}

func (m *Metrics) EngagementCacheLookups(result string) float64 {
	if m == nil {
		return 0
	}
	return m.engagementCache.Value(result)
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string, interval time.Duration) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
