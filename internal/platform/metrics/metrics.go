package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics はアプリケーションの監視用メトリクスを保持します。
// nil の *Metrics に対する Observe 系メソッドは何もしません。
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
	EmployeesCreated    prometheus.Counter
	EmailConflicts      prometheus.Counter
}

// NewMetrics は reg にメトリクスを登録して Metrics を返します。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_api_http_requests_total",
			Help: "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_api_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_api_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'find_by_email', 'save_insert', ...
		EmployeesCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "employee_api_employees_created_total",
			Help: "Total number of employees created.",
		}),
		EmailConflicts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "employee_api_email_conflicts_total",
			Help: "Total number of create requests rejected because the email already exists.",
		}),
	}
}

// ObserveDBQuery は start からの経過時間を queryType で記録します。
func (m *Metrics) ObserveDBQuery(queryType string, start time.Time) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
}

// ObserveHTTPRequest は HTTP リクエストの件数と所要時間を記録します。
func (m *Metrics) ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncEmployeesCreated は作成件数を加算します。
func (m *Metrics) IncEmployeesCreated() {
	if m == nil {
		return
	}
	m.EmployeesCreated.Inc()
}

// IncEmailConflicts は重複による拒否件数を加算します。
func (m *Metrics) IncEmailConflicts() {
	if m == nil {
		return
	}
	m.EmailConflicts.Inc()
}
