package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RoommateAdded()
	m.ExpenseAdded()
	m.ExpenseAdded()
	m.ExpenseRejected()
	m.ScanFinished(ScanOK)
	m.ScanFinished(ScanFailed)
	m.ScanFinished(ScanFailed)

	if got := testutil.ToFloat64(m.RoommatesAdded); got != 1 {
		t.Errorf("roommates_added_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ExpensesAdded); got != 2 {
		t.Errorf("expenses_added_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ExpensesRejected); got != 1 {
		t.Errorf("expenses_rejected_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ReceiptScans.WithLabelValues(ScanFailed)); got != 2 {
		t.Errorf("receipt_scans_total{result=failed} = %v, want 2", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RoommateAdded()
	m.ExpenseAdded()
	m.ExpenseRejected()
	m.ScanFinished(ScanOK)
}
