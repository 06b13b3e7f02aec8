package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "condobilling_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	billingRunTotal   *prometheus.CounterVec
	billingRunLatency *prometheus.HistogramVec
	billsGenerated    prometheus.Counter
	unitFailures      prometheus.Counter

	receiptExportTotal   *prometheus.CounterVec
	receiptExportLatency *prometheus.HistogramVec

	reminderDecisions *prometheus.CounterVec
	reminderSkipped   prometheus.Counter
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		billingRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "billing_run_total",
				Help: "Total billing runs by result",
			},
			[]string{"result"},
		)
		billingRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "billing_run_latency_seconds",
				Help:    "Billing run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		billsGenerated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "bills_generated_total",
				Help: "Total bills generated",
			},
		)
		unitFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "billing_unit_failures_total",
				Help: "Total units skipped by billing runs",
			},
		)

		receiptExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "receipt_export_total",
				Help: "Total receipt export operations by format and result",
			},
			[]string{"format", "result"},
		)
		receiptExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "receipt_export_latency_seconds",
				Help:    "Receipt export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		reminderDecisions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reminder_decisions_total",
				Help: "Total reminder emissions by tier",
			},
			[]string{"tier"},
		)
		reminderSkipped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "reminder_skipped_total",
				Help: "Total reminders skipped because one was already sent today",
			},
		)

		prometheus.MustRegister(
			billingRunTotal,
			billingRunLatency,
			billsGenerated,
			unitFailures,
			receiptExportTotal,
			receiptExportLatency,
			reminderDecisions,
			reminderSkipped,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveBillingRun records billing run latency and result.
func ObserveBillingRun(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if billingRunTotal != nil {
		billingRunTotal.WithLabelValues(result).Inc()
	}
	if billingRunLatency != nil {
		billingRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddBillsGenerated increments the generated bill counter by count.
func AddBillsGenerated(count int) {
	if count <= 0 {
		return
	}
	if billsGenerated != nil {
		billsGenerated.Add(float64(count))
	}
}

// AddUnitFailures increments the skipped unit counter by count.
func AddUnitFailures(count int) {
	if count <= 0 {
		return
	}
	if unitFailures != nil {
		unitFailures.Add(float64(count))
	}
}

// ObserveReceiptExport records export latency and result.
func ObserveReceiptExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if receiptExportTotal != nil {
		receiptExportTotal.WithLabelValues(format, result).Inc()
	}
	if receiptExportLatency != nil {
		receiptExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncReminderDecision increments reminder emissions for a tier.
func IncReminderDecision(tier string) {
	if tier == "" {
		tier = "unknown"
	}
	if reminderDecisions != nil {
		reminderDecisions.WithLabelValues(tier).Inc()
	}
}

// IncReminderSkipped increments the already-sent-today skip counter.
func IncReminderSkipped() {
	if reminderSkipped != nil {
		reminderSkipped.Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
