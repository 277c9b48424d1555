package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/config"
)

func TestRunDispersionDeterministic(t *testing.T) {
	cfg := Dispersion{Cluster: "falcon_9", Ring: 1, Trials: 100, Seed: 42}
	d := cluster.DefaultDamping()

	a, err := RunDispersion(context.Background(), cfg, d)
	if err != nil {
		t.Fatalf("RunDispersion: %v", err)
	}
	b, err := RunDispersion(context.Background(), cfg, d)
	if err != nil {
		t.Fatalf("RunDispersion: %v", err)
	}
	if a.Stable != b.Stable || a.WorstMargin != b.WorstMargin ||
		a.WorstIndex != b.WorstIndex || a.WorstLag != b.WorstLag {
		t.Errorf("same seed gave different results: %+v vs %+v", a, b)
	}
}

func TestRunDispersionBounds(t *testing.T) {
	res, err := RunDispersion(context.Background(),
		Dispersion{Cluster: "falcon_9", Ring: 1, Trials: 250, Seed: 7},
		cluster.DefaultDamping())
	if err != nil {
		t.Fatalf("RunDispersion: %v", err)
	}

	if res.Trials != 250 {
		t.Errorf("trials = %d", res.Trials)
	}
	if res.Stable < 0 || res.Stable > res.Trials {
		t.Errorf("stable count = %d of %d", res.Stable, res.Trials)
	}
	if res.StableFraction < 0 || res.StableFraction > 1 {
		t.Errorf("stable fraction = %g", res.StableFraction)
	}

	e, err := config.EngineByName("merlin_1d")
	if err != nil {
		t.Fatal(err)
	}
	if res.WorstIndex < e.IndexRng[0] || res.WorstIndex > e.IndexRng[1] {
		t.Errorf("worst index %g outside published range %v", res.WorstIndex, e.IndexRng)
	}
	if res.WorstLag < e.LagRng[0] || res.WorstLag > e.LagRng[1] {
		t.Errorf("worst lag %g outside published range %v", res.WorstLag, e.LagRng)
	}
}

func TestRunDispersionWorstIsUnstableWhenAnyFail(t *testing.T) {
	res, err := RunDispersion(context.Background(),
		Dispersion{Cluster: "super_heavy", Ring: 2, Environment: "lunar_vacuum", Trials: 400, Seed: 3},
		cluster.DefaultDamping())
	if err != nil {
		t.Fatalf("RunDispersion: %v", err)
	}
	// An unstable draw carries a negative margin, and the worst margin is
	// the minimum over all draws.
	if res.Stable < res.Trials && res.WorstMargin > 0 {
		t.Errorf("%d unstable draws but worst margin %g > 0", res.Trials-res.Stable, res.WorstMargin)
	}
}

func TestRunDispersionRejects(t *testing.T) {
	d := cluster.DefaultDamping()
	if _, err := RunDispersion(context.Background(), Dispersion{Cluster: "falcon_9", Ring: 1}, d); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Errorf("zero trials = %v, want ErrInvalidConfig", err)
	}
	if _, err := RunDispersion(context.Background(), Dispersion{Cluster: "saturn_v", Ring: 0, Trials: 10}, d); err == nil {
		t.Error("unknown cluster should fail")
	}
	if _, err := RunDispersion(context.Background(), Dispersion{Cluster: "falcon_9", Ring: 9, Trials: 10}, d); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Errorf("ring out of range = %v, want ErrInvalidConfig", err)
	}
}

func TestRunDispersionCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunDispersion(ctx, Dispersion{Cluster: "falcon_9", Ring: 1, Trials: 10, Seed: 1}, cluster.DefaultDamping())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunDispersion on canceled context = %v", err)
	}
}
