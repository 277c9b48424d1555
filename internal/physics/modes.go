package physics

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// Mode is one circumferential normal mode of a coupled ring.
type Mode struct {
	Index      int
	Eigenvalue complex128   // lambda_n = sum_k c(k)*exp(-2*pi*i*n*k/N)
	Omega      float64      // sqrt(Re lambda_n / m) [rad/s]; 0 when Re lambda_n <= 0
	Shape      []complex128 // exp(+2*pi*i*n*k/N)/sqrt(N) around the ring
}

// ModeSpectrum is the ordered spectral decomposition of a circulant ring
// operator, mode 0 (breathing) first. The ordering is the physical mode
// numbering, not an eigensolver artifact.
type ModeSpectrum struct {
	N     int
	Mass  float64
	Modes []Mode
}

// SolveModes diagonalizes a circulant operator given by its generating
// sequence, using the circulant spectral theorem: the eigenvalues are the
// DFT of the sequence and the eigenvectors are the complex exponential mode
// shapes. Exact and O(N log N); no general eigensolver involved.
func SolveModes(seq []float64, mass float64) (*ModeSpectrum, error) {
	c, err := SequenceOf(seq)
	if err != nil {
		return nil, err
	}
	if mass <= 0 {
		return nil, fmt.Errorf("%w: mass: must be positive, got %g", cluster.ErrInvalidConfig, mass)
	}

	n := len(c)
	in := make([]complex128, n)
	for i, v := range c {
		in[i] = complex(v, 0)
	}
	eig := fourier.NewCmplxFFT(n).Coefficients(nil, in)

	spec := &ModeSpectrum{N: n, Mass: mass, Modes: make([]Mode, n)}
	norm := 1 / math.Sqrt(float64(n))
	for m := 0; m < n; m++ {
		shape := make([]complex128, n)
		for k := 0; k < n; k++ {
			phase := 2 * math.Pi * float64(m) * float64(k) / float64(n)
			shape[k] = cmplx.Rect(norm, phase)
		}
		var omega float64
		if re := real(eig[m]); re > 0 {
			omega = math.Sqrt(re / mass)
		}
		spec.Modes[m] = Mode{Index: m, Eigenvalue: eig[m], Omega: omega, Shape: shape}
	}
	return spec, nil
}

// ReconstructSequence inverts the decomposition back to the generating
// sequence via the inverse DFT. Round-tripping SolveModes recovers the
// input to floating-point tolerance.
func ReconstructSequence(spec *ModeSpectrum) []float64 {
	n := spec.N
	eig := make([]complex128, n)
	for i, m := range spec.Modes {
		eig[i] = m.Eigenvalue
	}
	raw := fourier.NewCmplxFFT(n).Sequence(nil, eig)
	out := make([]float64, n)
	for i, v := range raw {
		out[i] = real(v) / float64(n)
	}
	return out
}

// Frequencies extracts the per-mode angular frequencies in mode order.
func (s *ModeSpectrum) Frequencies() []float64 {
	out := make([]float64, len(s.Modes))
	for i, m := range s.Modes {
		out[i] = m.Omega
	}
	return out
}

// Eigenvalues extracts the per-mode eigenvalues in mode order.
func (s *ModeSpectrum) Eigenvalues() []complex128 {
	out := make([]complex128, len(s.Modes))
	for i, m := range s.Modes {
		out[i] = m.Eigenvalue
	}
	return out
}

// NormalModeFrequencies is the closed-form nearest-neighbor spectrum:
//
//	omega_n^2 = k0/m + (2*kappa/m)*(1 - cos(2*pi*n/N))
//
// A mode pushed to negative omega^2 by anti-coupling reports 0, matching
// the convention of [SolveModes].
func NormalModeFrequencies(k0, m, kappa float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: engine count: must be at least 1, got %d", cluster.ErrInvalidConfig, n)
	}
	if m <= 0 {
		return nil, fmt.Errorf("%w: mass: must be positive, got %g", cluster.ErrInvalidConfig, m)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sq := k0/m + (2*kappa/m)*(1-math.Cos(2*math.Pi*float64(i)/float64(n)))
		if sq > 0 {
			out[i] = math.Sqrt(sq)
		}
	}
	return out, nil
}

// ModeFrequencyRatios is omega_n/omega_0 in the nearest-neighbor limit:
// sqrt(1 + (2*kappa/k0)*(1 - cos(2*pi*n/N))).
func ModeFrequencyRatios(kappa, k0 float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: engine count: must be at least 1, got %d", cluster.ErrInvalidConfig, n)
	}
	if k0 <= 0 {
		return nil, fmt.Errorf("%w: stiffness: must be positive, got %g", cluster.ErrInvalidConfig, k0)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		r := 1 + (2*kappa/k0)*(1-math.Cos(2*math.Pi*float64(i)/float64(n)))
		if r > 0 {
			out[i] = math.Sqrt(r)
		}
	}
	return out, nil
}
