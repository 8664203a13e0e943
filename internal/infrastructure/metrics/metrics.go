package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/chronledger/internal/domain"
)

// Metrics holds the ledger's Prometheus collectors.
type Metrics struct {
	// Mutations
	MutationsApplied  *prometheus.CounterVec
	MutationsRejected *prometheus.CounterVec

	// Purchases
	Compensations    prometheus.Counter
	DeliveryFailures prometheus.Counter

	// Interest
	InterestSweeps        prometheus.Counter
	InterestCredited      prometheus.Counter
	InterestFailed        prometheus.Counter
	InterestCreditedTotal prometheus.Counter
}

// New registers the ledger collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		MutationsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chronledger_mutations_applied_total",
				Help: "Total number of committed balance mutations",
			},
			[]string{"operation"},
		),
		MutationsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chronledger_mutations_rejected_total",
				Help: "Total number of rejected balance mutations",
			},
			[]string{"operation", "reason"},
		),
		Compensations: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronledger_purchase_compensations_total",
			Help: "Total number of buyer refunds after a failed seller credit",
		}),
		DeliveryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronledger_purchase_delivery_failures_total",
			Help: "Total number of settled purchases whose item delivery failed",
		}),
		InterestSweeps: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronledger_interest_sweeps_total",
			Help: "Total number of completed interest sweeps",
		}),
		InterestCredited: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronledger_interest_accounts_credited_total",
			Help: "Total number of accounts credited with interest",
		}),
		InterestFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronledger_interest_accounts_failed_total",
			Help: "Total number of accounts whose interest credit failed",
		}),
		InterestCreditedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronledger_interest_credited_units_total",
			Help: "Total currency units credited as interest",
		}),
	}
}

// MutationApplied records a committed mutation.
func (m *Metrics) MutationApplied(operation string) {
	m.MutationsApplied.WithLabelValues(operation).Inc()
}

// MutationRejected records a rejected mutation under a bounded reason label.
func (m *Metrics) MutationRejected(operation string, err error) {
	m.MutationsRejected.WithLabelValues(operation, reason(err)).Inc()
}

// CompensationApplied records a buyer refund.
func (m *Metrics) CompensationApplied() {
	m.Compensations.Inc()
}

// DeliveryFailed records a failed item delivery.
func (m *Metrics) DeliveryFailed() {
	m.DeliveryFailures.Inc()
}

// InterestSwept records the outcome of one sweep.
func (m *Metrics) InterestSwept(credited, failed int, total int64) {
	m.InterestSweeps.Inc()
	m.InterestCredited.Add(float64(credited))
	m.InterestFailed.Add(float64(failed))
	m.InterestCreditedTotal.Add(float64(total))
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrListingNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrSellerCreditFailed):
		return "seller_credit_failed"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "backend_unavailable"
	case domain.IsValidation(err):
		return "invalid_input"
	default:
		return "other"
	}
}
