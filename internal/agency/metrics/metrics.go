package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons recorded on RejectedTotal.
const (
	ReasonNotAuthorized   = "not_authorized"
	ReasonAlreadyVerified = "already_verified"
	ReasonNotFound        = "not_found"
	ReasonInternal        = "internal"
)

// Metrics provides observability for the agency registry.
type Metrics struct {
	VerifiedTotal       prometheus.Counter
	DeactivatedTotal    prometheus.Counter
	AdminTransfersTotal prometheus.Counter
	RejectedTotal       *prometheus.CounterVec
	Agencies            *prometheus.GaugeVec
}

// New creates the registry metrics and registers them with reg.
// A nil reg leaves the collectors unregistered, which lets tests build as
// many registries as they like.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		VerifiedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "agencyreg_agencies_verified_total",
			Help: "Total number of agencies verified",
		}),
		DeactivatedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "agencyreg_agencies_deactivated_total",
			Help: "Total number of successful deactivation calls",
		}),
		AdminTransfersTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "agencyreg_admin_transfers_total",
			Help: "Total number of admin transfers",
		}),
		RejectedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agencyreg_operations_rejected_total",
			Help: "Mutating calls rejected, by operation and reason",
		}, []string{"operation", "reason"}),
		Agencies: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agencyreg_agencies",
			Help: "Agencies currently in the registry, by status",
		}, []string{"status"}),
	}
}

// IncrementVerified records a new verification. The agency enters as active.
func (m *Metrics) IncrementVerified() {
	m.VerifiedTotal.Inc()
	m.Agencies.WithLabelValues("active").Inc()
}

// IncrementDeactivated records a deactivation call. wasActive is true when the
// call moved a record out of active.
func (m *Metrics) IncrementDeactivated(wasActive bool) {
	m.DeactivatedTotal.Inc()
	if wasActive {
		m.Agencies.WithLabelValues("active").Dec()
		m.Agencies.WithLabelValues("inactive").Inc()
	}
}

// IncrementAdminTransfers records an admin change.
func (m *Metrics) IncrementAdminTransfers() {
	m.AdminTransfersTotal.Inc()
}

// IncrementRejected records a rejected mutating call.
func (m *Metrics) IncrementRejected(operation, reason string) {
	m.RejectedTotal.WithLabelValues(operation, reason).Inc()
}
