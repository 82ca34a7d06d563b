package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_approval_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trip_approval_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// решения по заявкам: kind = TRIP / ADMIN, decision = APPROVE / REJECT
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_approval_decisions_total",
			Help: "Total number of committed request decisions",
		},
		[]string{"kind", "decision"},
	)

	decisionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_approval_decision_failures_total",
			Help: "Total number of rejected decision attempts by error kind",
		},
		[]string{"reason"},
	)

	bulkBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_approval_bulk_batches_total",
			Help: "Total number of bulk approval batches",
		},
		[]string{"result"},
	)

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_approval_payments_total",
			Help: "Total number of payment marks",
		},
		[]string{"result"},
	)

	sweepTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_approval_sweep_items_total",
			Help: "Total number of maintenance sweep items",
		},
		[]string{"item"},
	)

	workerRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_approval_worker_runs_total",
			Help: "Total number of background worker runs",
		},
		[]string{"worker", "result"},
	)

	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trip_approval_database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trip_approval_database_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var once sync.Once

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(decisionFailuresTotal)
	prometheus.MustRegister(bulkBatchesTotal)
	prometheus.MustRegister(paymentsTotal)
	prometheus.MustRegister(sweepTotal)
	prometheus.MustRegister(workerRunsTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)

	once.Do(func() {
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordAPIRequest(method, path string, status int, duration float64) {
	apiRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordDecision(kind, decision string) {
	decisionsTotal.WithLabelValues(kind, decision).Inc()
}

func RecordDecisionFailure(reason string) {
	decisionFailuresTotal.WithLabelValues(reason).Inc()
}

func RecordBulkBatch(success bool) {
	bulkBatchesTotal.WithLabelValues(resultLabel(success)).Inc()
}

func RecordPayment(success bool) {
	paymentsTotal.WithLabelValues(resultLabel(success)).Inc()
}

// RecordSweep item: bonus_reset, project_expired, failure
func RecordSweep(item string, count int) {
	if count <= 0 {
		return
	}
	sweepTotal.WithLabelValues(item).Add(float64(count))
}

func RecordWorkerRun(worker string, success bool) {
	workerRunsTotal.WithLabelValues(worker, resultLabel(success)).Inc()
}

func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return errors.New("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	return nil
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
