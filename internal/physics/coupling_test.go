package physics

import (
	"math"
	"testing"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

func seaLevel() cluster.Environment {
	return cluster.Environment{
		Name:              "earth_sl",
		AmbientPressure:   101325,
		Temperature:       288.15,
		AcousticImpedance: 420,
		AtmosphericZeta:   0.028,
	}
}

func vacuumEnv() cluster.Environment {
	return cluster.Environment{Name: "lunar_vacuum", Vacuum: true}
}

func octawebRing() cluster.Ring {
	return cluster.Ring{
		Engines: 8,
		Radius:  1.35,
		Cavity:  cluster.Cavity{Radius: 1.83, SoundSpeed: 843, Q: 10},
	}
}

func TestPairSymmetry(t *testing.T) {
	cm := NewCouplingModel(merlinLike(), octawebRing(), seaLevel())
	omega := 2 * math.Pi * 135
	for k := 1; k < 8; k++ {
		a, err := cm.Pair(k, omega)
		if err != nil {
			t.Fatalf("pair %d: %v", k, err)
		}
		b, err := cm.Pair(8-k, omega)
		if err != nil {
			t.Fatalf("pair %d: %v", 8-k, err)
		}
		if math.Abs(a.Total()-b.Total()) > 1e-9*math.Abs(a.Total()) {
			t.Errorf("coupling(%d) = %g != coupling(%d) = %g", k, a.Total(), 8-k, b.Total())
		}
	}
}

func TestPairSelfAndSingle(t *testing.T) {
	cm := NewCouplingModel(merlinLike(), octawebRing(), seaLevel())
	pw, err := cm.Pair(0, 850)
	if err != nil {
		t.Fatal(err)
	}
	if pw != (Pathways{}) {
		t.Errorf("self separation produced coupling %+v", pw)
	}

	single := cluster.Ring{Engines: 1, Radius: 0, Cavity: cluster.Cavity{Radius: 1.83, SoundSpeed: 843, Q: 10}}
	cm = NewCouplingModel(merlinLike(), single, seaLevel())
	pw, err = cm.Pair(1, 850)
	if err != nil {
		t.Fatal(err)
	}
	if pw.Total() != 0 {
		t.Errorf("single-engine ring coupling = %g, want 0", pw.Total())
	}
}

func TestVacuumRemovesAcousticOnly(t *testing.T) {
	omega := 2 * math.Pi * 135
	sea, err := NewCouplingModel(merlinLike(), octawebRing(), seaLevel()).Pair(1, omega)
	if err != nil {
		t.Fatal(err)
	}
	vac, err := NewCouplingModel(merlinLike(), octawebRing(), vacuumEnv()).Pair(1, omega)
	if err != nil {
		t.Fatal(err)
	}

	if sea.Acoustic <= 0 {
		t.Errorf("sea-level acoustic pathway = %g, want positive", sea.Acoustic)
	}
	if vac.Acoustic != 0 {
		t.Errorf("vacuum acoustic pathway = %g, want 0", vac.Acoustic)
	}
	if math.Abs(sea.Structural-vac.Structural) > 1e-9 {
		t.Errorf("structural pathway changed with environment: %g vs %g", sea.Structural, vac.Structural)
	}
	if math.Abs(sea.Cavity-vac.Cavity) > 1e-9 {
		t.Errorf("cavity pathway changed with environment: %g vs %g", sea.Cavity, vac.Cavity)
	}
}

func TestFeedCycleDependence(t *testing.T) {
	omega := 2 * math.Pi * 135
	gg := merlinLike()
	ff := merlinLike()
	ff.Cycle = cluster.FullFlow

	pwGG, err := NewCouplingModel(gg, octawebRing(), vacuumEnv()).Pair(1, omega)
	if err != nil {
		t.Fatal(err)
	}
	pwFF, err := NewCouplingModel(ff, octawebRing(), vacuumEnv()).Pair(1, omega)
	if err != nil {
		t.Fatal(err)
	}
	if pwFF.Structural <= pwGG.Structural {
		t.Errorf("full-flow coupling %g should exceed gas-generator %g", pwFF.Structural, pwGG.Structural)
	}
}

func TestCouplingFallsWithSpacing(t *testing.T) {
	omega := 2 * math.Pi * 135
	tight := octawebRing()
	wide := octawebRing()
	wide.Radius = 4.0

	pwTight, err := NewCouplingModel(merlinLike(), tight, seaLevel()).Pair(1, omega)
	if err != nil {
		t.Fatal(err)
	}
	pwWide, err := NewCouplingModel(merlinLike(), wide, seaLevel()).Pair(1, omega)
	if err != nil {
		t.Fatal(err)
	}
	if pwWide.Acoustic >= pwTight.Acoustic {
		t.Errorf("acoustic pathway did not fall with spacing: %g -> %g", pwTight.Acoustic, pwWide.Acoustic)
	}
	if pwWide.Structural >= pwTight.Structural {
		t.Errorf("structural pathway did not fall with spacing: %g -> %g", pwTight.Structural, pwWide.Structural)
	}
}

func TestCavityPathwaySign(t *testing.T) {
	omega := 2 * math.Pi * 135
	cm := NewCouplingModel(merlinLike(), octawebRing(), seaLevel())

	// Adjacent engines share the cavity mode lobe; opposite engines sit in
	// antiphase of the (1,1) mode.
	adj, err := cm.Pair(1, omega)
	if err != nil {
		t.Fatal(err)
	}
	opp, err := cm.Pair(4, omega)
	if err != nil {
		t.Fatal(err)
	}
	if adj.Cavity <= 0 {
		t.Errorf("adjacent cavity pathway = %g, want positive", adj.Cavity)
	}
	if opp.Cavity >= 0 {
		t.Errorf("opposite cavity pathway = %g, want negative", opp.Cavity)
	}
}

func TestNearestNeighborMatchesPair(t *testing.T) {
	cm := NewCouplingModel(merlinLike(), octawebRing(), seaLevel())
	omega := 2 * math.Pi * 135
	nn, err := cm.NearestNeighbor(omega)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := cm.Pair(1, omega)
	if err != nil {
		t.Fatal(err)
	}
	if nn != p1 {
		t.Errorf("nearest neighbor %+v != pair(1) %+v", nn, p1)
	}
}
