package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(requestsTotal.WithLabelValues("/healthz", "200"))
	ObserveRequest("/healthz", 200)
	after := testutil.ToFloat64(requestsTotal.WithLabelValues("/healthz", "200"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}

func TestSetBreathingZeta(t *testing.T) {
	SetBreathingZeta("earth_sl", 0.068)
	got := testutil.ToFloat64(breathingZetaGauge.WithLabelValues("earth_sl"))
	if got != 0.068 {
		t.Errorf("gauge = %v, want 0.068", got)
	}
	SetBreathingZeta("earth_sl", -0.01)
	if got := testutil.ToFloat64(breathingZetaGauge.WithLabelValues("earth_sl")); got != -0.01 {
		t.Errorf("gauge should allow negative damping, got %v", got)
	}
}

func TestObserveAnalysis(t *testing.T) {
	ObserveAnalysis("damping", 3*time.Millisecond)
	if n := testutil.CollectAndCount(analysisDuration); n == 0 {
		t.Error("histogram collected no series")
	}
}

func TestSetSweepCrossings(t *testing.T) {
	SetSweepCrossings(2)
	if got := testutil.ToFloat64(sweepCrossingsGauge); got != 2 {
		t.Errorf("gauge = %v, want 2", got)
	}
}
