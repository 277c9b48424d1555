package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// RingOperator is the circulant coupling operator of one ring at one forcing
// frequency, stored compactly as its generating sequence.
//
// The self term folds in the reaction of every coupling spring:
//
//	c(0) = k0 + sum_{k>=1} kappa(k)
//	c(k) = -kappa(k)              for k = 1..N-1
//
// so each row sums to k0 and the breathing mode eigenvalue is exactly the
// uncoupled engine stiffness. kappa(k) = kappa(N-k) holds by ring symmetry,
// which keeps the operator symmetric and its spectrum real.
type RingOperator struct {
	N         int
	Stiffness float64    // intrinsic engine stiffness k0 [N/m]
	Kappa     []float64  // pairwise coupling by separation; Kappa[0] = 0
	Sequence  []float64  // generating sequence c(0..N-1)
	Pathways  []Pathways // per-separation pathway breakdown, aligned with Kappa
}

// BuildRingOperator evaluates the pairwise coupling model over every index
// separation of the ring and assembles the generating sequence.
func BuildRingOperator(e cluster.Engine, ring cluster.Ring, env cluster.Environment, omega float64) (*RingOperator, error) {
	cm := NewCouplingModel(e, ring, env)
	if err := cm.validate(omega); err != nil {
		return nil, err
	}

	n := ring.Engines
	op := &RingOperator{
		N:         n,
		Stiffness: EngineStiffness(e),
		Kappa:     make([]float64, n),
		Sequence:  make([]float64, n),
		Pathways:  make([]Pathways, n),
	}

	var sum float64
	for k := 1; k < n; k++ {
		pw, err := cm.Pair(k, omega)
		if err != nil {
			return nil, err
		}
		op.Pathways[k] = pw
		op.Kappa[k] = pw.Total()
		op.Sequence[k] = -op.Kappa[k]
		sum += op.Kappa[k]
	}
	op.Sequence[0] = op.Stiffness + sum
	return op, nil
}

// CouplingNorm is sum_k |kappa(k)|, the normalization for the
// coupling-derived damping term. Zero means the ring is uncoupled.
func (op *RingOperator) CouplingNorm() float64 {
	var s float64
	for _, k := range op.Kappa {
		s += math.Abs(k)
	}
	return s
}

// Dense materializes the full N x N circulant matrix, row i holding the
// generating sequence cyclically shifted by i. Only needed for inspection
// and export; the solver works on the sequence directly.
func (op *RingOperator) Dense() *mat.Dense {
	m := mat.NewDense(op.N, op.N, nil)
	for i := 0; i < op.N; i++ {
		for j := 0; j < op.N; j++ {
			m.Set(i, j, op.Sequence[((j-i)%op.N+op.N)%op.N])
		}
	}
	return m
}

// Symmetric reports whether the generating sequence satisfies
// c(k) = c(N-k) within tol, the circulant symmetry that guarantees a real
// spectrum.
func (op *RingOperator) Symmetric(tol float64) bool {
	for k := 1; k < op.N; k++ {
		if math.Abs(op.Sequence[k]-op.Sequence[op.N-k]) > tol {
			return false
		}
	}
	return true
}

// SequenceOf validates and copies a raw generating sequence, for callers
// that assemble the operator from externally supplied coefficients.
func SequenceOf(c []float64) ([]float64, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: generating sequence must be non-empty", cluster.ErrInvalidConfig)
	}
	for i, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: generating sequence element %d is not finite", cluster.ErrInvalidConfig, i)
		}
	}
	out := make([]float64, len(c))
	copy(out, c)
	return out, nil
}
