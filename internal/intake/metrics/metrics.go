package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the intake module: aggregate creation,
// bulk mutation throughput and the completion cascade.
type Metrics struct {
	RequestsCreated       prometheus.Counter
	RequestsDeleted       prometheus.Counter
	DocumentsUpdated      prometheus.Counter
	ResourcesUpdated      prometheus.Counter
	PersonsCompleted      prometheus.Counter
	CreateRequestDuration prometheus.Histogram
	BulkUpdateDuration    prometheus.Histogram
}

// New creates a Metrics instance with all intake module metrics registered.
func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smarttalent_requests_created_total",
			Help: "Total number of verification requests created",
		}),
		RequestsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smarttalent_requests_deleted_total",
			Help: "Total number of pending requests deleted",
		}),
		DocumentsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smarttalent_documents_updated_total",
			Help: "Total number of documents changed by bulk updates",
		}),
		ResourcesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smarttalent_resources_updated_total",
			Help: "Total number of resources changed by bulk updates",
		}),
		PersonsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smarttalent_persons_completed_total",
			Help: "Total number of persons whose verification reached COMPLETED",
		}),
		CreateRequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "smarttalent_create_request_duration_seconds",
			Help:    "Duration of request aggregate creation (intake critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BulkUpdateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "smarttalent_bulk_update_duration_seconds",
			Help:    "Duration of bulk document/resource update batches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveCreateRequest records the duration of a CreateRequest operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveCreateRequest(start time.Time) {
	m.CreateRequestDuration.Observe(time.Since(start).Seconds())
}

// ObserveBulkUpdate records the duration of a bulk mutation batch.
func (m *Metrics) ObserveBulkUpdate(start time.Time) {
	m.BulkUpdateDuration.Observe(time.Since(start).Seconds())
}
