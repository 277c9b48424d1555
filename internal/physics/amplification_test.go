package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

func TestAmplificationRatioSqrtN(t *testing.T) {
	res, err := AmplificationSweep(1, 33, 1.0, cluster.DefaultDamping(), 0.028)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Counts) != 33 {
		t.Fatalf("expected 33 counts, got %d", len(res.Counts))
	}
	for i, n := range res.Counts {
		ratio := res.Coherent[i] / res.Incoherent[i]
		if math.Abs(ratio-math.Sqrt(float64(n))) > 1e-12 {
			t.Errorf("N=%d: coherent/incoherent = %g, want sqrt(N) = %g", n, ratio, math.Sqrt(float64(n)))
		}
		if math.Abs(res.Ratio[i]-ratio) > 1e-12 {
			t.Errorf("N=%d: stored ratio %g disagrees with %g", n, res.Ratio[i], ratio)
		}
	}
}

func TestAmplificationSingleEngine(t *testing.T) {
	const amp = 0.7
	res, err := AmplificationSweep(1, 1, amp, cluster.DefaultDamping(), 0.028)
	if err != nil {
		t.Fatal(err)
	}
	if res.Coherent[0] != amp || res.Incoherent[0] != amp {
		t.Errorf("N=1: coherent=%g incoherent=%g, want both %g", res.Coherent[0], res.Incoherent[0], amp)
	}
	if res.Ratio[0] != 1 {
		t.Errorf("N=1 ratio = %g, want 1", res.Ratio[0])
	}
}

func TestAmplificationScalesWithAmplitude(t *testing.T) {
	a, err := AmplificationSweep(2, 9, 1.0, cluster.DefaultDamping(), 0.028)
	if err != nil {
		t.Fatal(err)
	}
	b, err := AmplificationSweep(2, 9, 2.5, cluster.DefaultDamping(), 0.028)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Counts {
		if math.Abs(b.Coherent[i]-2.5*a.Coherent[i]) > 1e-12 {
			t.Errorf("coherent factor not linear in amplitude at N=%d", a.Counts[i])
		}
		if math.Abs(b.Ratio[i]-a.Ratio[i]) > 1e-12 {
			t.Errorf("ratio depends on amplitude at N=%d", a.Counts[i])
		}
	}
}

func TestDampingMarginPercent(t *testing.T) {
	d := cluster.DefaultDamping()
	// N=1: plain vacuum/earth percentage with no degradation.
	got := DampingMarginPercent(1, d, 0.028)
	want := d.Intrinsic() / (d.Intrinsic() + 0.028) * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("margin percent N=1 = %g, want %g", got, want)
	}
	// Margin degrades monotonically with engine count.
	prev := got
	for n := 2; n <= 33; n++ {
		m := DampingMarginPercent(n, d, 0.028)
		if m >= prev {
			t.Fatalf("margin percent did not fall at N=%d: %g -> %g", n, prev, m)
		}
		prev = m
	}
}

func TestAmplificationSweepRejects(t *testing.T) {
	d := cluster.DefaultDamping()
	if _, err := AmplificationSweep(0, 9, 1.0, d, 0.028); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Error("zero minimum count accepted")
	}
	if _, err := AmplificationSweep(5, 4, 1.0, d, 0.028); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Error("empty range accepted")
	}
	if _, err := AmplificationSweep(1, 9, 0, d, 0.028); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Error("zero amplitude accepted")
	}
}
