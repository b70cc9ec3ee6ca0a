package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	EligibilityChecksTotal *prometheus.CounterVec
	LoansCreatedTotal      prometheus.Counter
	CustomersRegistered    prometheus.Counter
	IngestionRowsTotal     *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_approval_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_approval_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		EligibilityChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_eligibility_checks_total",
				Help: "Total number of eligibility evaluations by outcome.",
			},
			[]string{"outcome"},
		),
		LoansCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_approval_loans_created_total",
				Help: "Total number of loans successfully created.",
			},
		),
		CustomersRegistered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_approval_customers_registered_total",
				Help: "Total number of customers successfully registered.",
			},
		),
		IngestionRowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_ingestion_rows_total",
				Help: "Total number of ingested spreadsheet rows by result.",
			},
			[]string{"job", "result"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordEligibilityCheck(outcome string) {
	Business.EligibilityChecksTotal.WithLabelValues(outcome).Inc()
}

func RecordLoanCreated() {
	Business.LoansCreatedTotal.Inc()
}

func RecordCustomerRegistered() {
	Business.CustomersRegistered.Inc()
}

func RecordIngestionRow(job, result string) {
	Business.IngestionRowsTotal.WithLabelValues(job, result).Inc()
}
