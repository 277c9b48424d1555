package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

func TestBuildRingOperator(t *testing.T) {
	op, err := BuildRingOperator(merlinLike(), octawebRing(), seaLevel(), 2*math.Pi*135)
	if err != nil {
		t.Fatal(err)
	}
	if op.N != 8 || len(op.Sequence) != 8 || len(op.Kappa) != 8 {
		t.Fatalf("operator sized %d/%d/%d, want 8", op.N, len(op.Sequence), len(op.Kappa))
	}
	if op.Kappa[0] != 0 {
		t.Errorf("self coupling kappa(0) = %g, want 0", op.Kappa[0])
	}
	if !op.Symmetric(1e-6 * math.Abs(op.Stiffness)) {
		t.Error("generating sequence is not circulant-symmetric")
	}

	// Row sums collapse to the intrinsic stiffness.
	var sum float64
	for _, c := range op.Sequence {
		sum += c
	}
	if math.Abs(sum-op.Stiffness)/op.Stiffness > 1e-12 {
		t.Errorf("row sum = %g, want stiffness %g", sum, op.Stiffness)
	}

	// Off-diagonal terms are the negated pairwise couplings.
	for k := 1; k < op.N; k++ {
		if op.Sequence[k] != -op.Kappa[k] {
			t.Errorf("sequence[%d] = %g, want %g", k, op.Sequence[k], -op.Kappa[k])
		}
		if math.Abs(op.Kappa[k]-op.Pathways[k].Total()) > 1e-9 {
			t.Errorf("kappa[%d] disagrees with pathway total", k)
		}
	}
}

func TestRingOperatorBreathingEigenvalue(t *testing.T) {
	e := merlinLike()
	op, err := BuildRingOperator(e, octawebRing(), seaLevel(), 2*math.Pi*135)
	if err != nil {
		t.Fatal(err)
	}
	spec, err := SolveModes(op.Sequence, e.Mass)
	if err != nil {
		t.Fatal(err)
	}
	// The breathing mode sees the uncoupled stiffness exactly.
	if math.Abs(real(spec.Modes[0].Eigenvalue)-op.Stiffness)/op.Stiffness > 1e-12 {
		t.Errorf("lambda_0 = %g, want k0 = %g", real(spec.Modes[0].Eigenvalue), op.Stiffness)
	}
}

func TestRingOperatorDense(t *testing.T) {
	op, err := BuildRingOperator(merlinLike(), octawebRing(), seaLevel(), 850)
	if err != nil {
		t.Fatal(err)
	}
	m := op.Dense()
	r, c := m.Dims()
	if r != op.N || c != op.N {
		t.Fatalf("dense dims %dx%d, want %dx%d", r, c, op.N, op.N)
	}
	tol := 1e-12 * op.Stiffness
	for i := 0; i < op.N; i++ {
		if m.At(i, i) != op.Sequence[0] {
			t.Errorf("diagonal (%d,%d) = %g, want %g", i, i, m.At(i, i), op.Sequence[0])
		}
		for j := 0; j < op.N; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > tol {
				t.Errorf("dense operator not symmetric at (%d,%d)", i, j)
			}
		}
	}
	// First row reads the generating sequence directly.
	for j := 0; j < op.N; j++ {
		if m.At(0, j) != op.Sequence[j] {
			t.Errorf("row 0 col %d = %g, want %g", j, m.At(0, j), op.Sequence[j])
		}
	}
}

func TestRingOperatorSingleEngine(t *testing.T) {
	single := cluster.Ring{Engines: 1, Radius: 0, Cavity: cluster.Cavity{Radius: 1.83, SoundSpeed: 843, Q: 10}}
	op, err := BuildRingOperator(merlinLike(), single, seaLevel(), 850)
	if err != nil {
		t.Fatal(err)
	}
	if op.N != 1 {
		t.Fatalf("N = %d, want 1", op.N)
	}
	if op.CouplingNorm() != 0 {
		t.Errorf("single engine coupling norm = %g, want 0", op.CouplingNorm())
	}
	if op.Sequence[0] != op.Stiffness {
		t.Errorf("self term = %g, want bare stiffness %g", op.Sequence[0], op.Stiffness)
	}
}

func TestBuildRingOperatorRejects(t *testing.T) {
	bad := octawebRing()
	bad.Engines = 0
	if _, err := BuildRingOperator(merlinLike(), bad, seaLevel(), 850); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Error("zero-engine ring accepted")
	}
	e := merlinLike()
	e.Lag = -1
	if _, err := BuildRingOperator(e, octawebRing(), seaLevel(), 850); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Error("invalid engine accepted")
	}
}

func TestSequenceOf(t *testing.T) {
	src := []float64{1, 2, 3}
	got, err := SequenceOf(src)
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 99
	if src[0] != 1 {
		t.Error("SequenceOf did not copy")
	}
	if _, err := SequenceOf([]float64{}); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Error("empty sequence accepted")
	}
	if _, err := SequenceOf([]float64{math.Inf(1)}); !errors.Is(err, cluster.ErrInvalidConfig) {
		t.Error("infinite element accepted")
	}
}
