package metrics

import (
	"database/sql"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	metricPrefix = "wells_"

	resultSuccess          = "success"
	resultError            = "error"
	resultInsufficientData = "insufficient_data"
	resultInvalid          = "invalid"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	zoneComputeTotal   *prometheus.CounterVec
	zoneComputeLatency *prometheus.HistogramVec

	csvImportTotal *prometheus.CounterVec
	csvImportRows  prometheus.Counter

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec
)

// Init registers application metrics. When db is set, row-count gauges are
// registered as well.
func Init(db *sql.DB, logger logrus.FieldLogger) {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and status",
			},
			[]string{"method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)

		zoneComputeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "zone_compute_total",
				Help: "Total zone computations by result",
			},
			[]string{"result"},
		)
		zoneComputeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "zone_compute_latency_seconds",
				Help:    "Zone computation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		csvImportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "csv_import_total",
				Help: "Total CSV log imports by result",
			},
			[]string{"result"},
		)
		csvImportRows = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "csv_import_samples_total",
				Help: "Total samples stored by CSV imports",
			},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			zoneComputeTotal,
			zoneComputeLatency,
			csvImportTotal,
			csvImportRows,
			reportExportTotal,
			reportExportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method string, status int, duration time.Duration) {
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method).Observe(duration.Seconds())
	}
}

// ObserveZoneCompute records zone computation latency and result.
func ObserveZoneCompute(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if zoneComputeTotal != nil {
		zoneComputeTotal.WithLabelValues(result).Inc()
	}
	if zoneComputeLatency != nil {
		zoneComputeLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveCSVImport records one import and the number of samples it stored.
func ObserveCSVImport(result string, samples int) {
	if result == "" {
		result = resultSuccess
	}
	if csvImportTotal != nil {
		csvImportTotal.WithLabelValues(result).Inc()
	}
	if csvImportRows != nil && samples > 0 {
		csvImportRows.Add(float64(samples))
	}
}

// ObserveReportExport records export latency and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess          = resultSuccess
	ResultError            = resultError
	ResultInsufficientData = resultInsufficientData
	ResultInvalid          = resultInvalid
)
