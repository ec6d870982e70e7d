// Package metrics holds the Prometheus collectors for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Scan outcomes recorded under the "result" label.
const (
	ScanOK          = "ok"
	ScanFailed      = "failed"
	ScanInvalid     = "invalid"
	ScanUnavailable = "unavailable"
	ScanCanceled    = "canceled"
)

// Metrics groups the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	RoommatesAdded   prometheus.Counter
	ExpensesAdded    prometheus.Counter
	ExpensesRejected prometheus.Counter
	ReceiptScans     *prometheus.CounterVec
	RPCRequests      *prometheus.CounterVec
	RPCDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoommatesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roomies",
			Name:      "roommates_added_total",
			Help:      "Roommates added to the ledger.",
		}),
		ExpensesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roomies",
			Name:      "expenses_added_total",
			Help:      "Expenses recorded in the ledger.",
		}),
		ExpensesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roomies",
			Name:      "expenses_rejected_total",
			Help:      "Expense submissions rejected by validation.",
		}),
		ReceiptScans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomies",
			Name:      "receipt_scans_total",
			Help:      "Receipt scan attempts by result.",
		}, []string{"result"}),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomies",
			Name:      "rpc_requests_total",
			Help:      "Connect RPCs handled, by procedure and code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roomies",
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}
	reg.MustRegister(
		m.RoommatesAdded,
		m.ExpensesAdded,
		m.ExpensesRejected,
		m.ReceiptScans,
		m.RPCRequests,
		m.RPCDuration,
	)
	return m
}

func (m *Metrics) RoommateAdded() {
	if m != nil {
		m.RoommatesAdded.Inc()
	}
}

func (m *Metrics) ExpenseAdded() {
	if m != nil {
		m.ExpensesAdded.Inc()
	}
}

func (m *Metrics) ExpenseRejected() {
	if m != nil {
		m.ExpensesRejected.Inc()
	}
}

// ScanFinished records one receipt scan outcome.
func (m *Metrics) ScanFinished(result string) {
	if m != nil {
		m.ReceiptScans.WithLabelValues(result).Inc()
	}
}
