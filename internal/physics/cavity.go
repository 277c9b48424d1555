package physics

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// CavityMode identifies a cylindrical cavity acoustic mode (m, n).
type CavityMode struct {
	M, N int
}

// Tabulated modes of the base cavity.
var (
	Mode1T = CavityMode{1, 1} // first tangential
	Mode2T = CavityMode{2, 1} // second tangential
	Mode1R = CavityMode{0, 1} // first radial
	Mode3T = CavityMode{3, 1} // third tangential
	Mode12 = CavityMode{1, 2} // mixed
)

// Bessel derivative zeros alpha'_mn for the tabulated cavity modes.
var alphaPrime = map[CavityMode]float64{
	Mode1T: 1.8412,
	Mode2T: 3.0542,
	Mode1R: 3.8317,
	Mode3T: 4.2012,
	Mode12: 5.3314,
}

// Quality factor bounds for the resonance denominator. The upper bound is
// the loss floor that keeps the transfer function finite at resonance; the
// lower bound keeps an overdamped cavity from suppressing the mode entirely.
const (
	qualityMin = 1.0
	qualityMax = 100.0
)

func clampQuality(q float64) float64 {
	return math.Min(math.Max(q, qualityMin), qualityMax)
}

// CavityFrequency computes the base cavity resonance frequency [Hz]:
//
//	f_mn = alpha'_mn * c / (2*pi*R)
//
// Only tabulated (m, n) pairs are supported; an unknown mode reports the
// available ones.
func CavityFrequency(c, radius float64, mode CavityMode) (float64, error) {
	if c <= 0 {
		return 0, fmt.Errorf("%w: cavity sound speed: must be positive, got %g", cluster.ErrInvalidConfig, c)
	}
	if radius <= 0 {
		return 0, fmt.Errorf("%w: cavity radius: must be positive, got %g", cluster.ErrInvalidConfig, radius)
	}
	alpha, ok := alphaPrime[mode]
	if !ok {
		return 0, fmt.Errorf("%w: cavity mode (%d,%d) not tabulated, available: %s",
			cluster.ErrInvalidConfig, mode.M, mode.N, tabulatedModes())
	}
	return alpha * c / (2 * math.Pi * radius), nil
}

// CavityResonance is the angular resonance frequency omega_mn [rad/s] of a
// cavity for the given mode.
func CavityResonance(cav cluster.Cavity, mode CavityMode) (float64, error) {
	f, err := CavityFrequency(cav.SoundSpeed, cav.Radius, mode)
	if err != nil {
		return 0, err
	}
	return 2 * math.Pi * f, nil
}

func tabulatedModes() string {
	keys := make([]string, 0, len(alphaPrime))
	for m := range alphaPrime {
		keys = append(keys, fmt.Sprintf("(%d,%d)", m.M, m.N))
	}
	sort.Strings(keys)
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += ", "
		}
		s += k
	}
	return s
}

// AcousticTransfer evaluates the single-mode cavity transfer function
//
//	H(omega) = g_i*g_j / (omega_mn^2 - omega^2 + i*omega*omega_mn/Q)
//
// The quality factor is clamped into [1, 100] so the denominator always
// carries a loss term: at exact resonance |H| = g_i*g_j*Q/omega_mn^2, never
// unbounded. A non-positive resonance frequency is degenerate.
func AcousticTransfer(omega, gi, gj, omegaMN, q float64) (complex128, error) {
	if omegaMN <= 0 {
		return 0, fmt.Errorf("%w: cavity resonance frequency must be positive, got %g", cluster.ErrDegenerate, omegaMN)
	}
	q = clampQuality(q)
	den := complex(omegaMN*omegaMN-omega*omega, omega*omegaMN/q)
	return complex(gi*gj, 0) / den, nil
}

// ResonanceGain is the dimensionless bounded gain omega_mn^2*|H| with unit
// mode-coupling coefficients: 1 in the static limit, the clamped Q at exact
// resonance, and decaying above resonance.
func ResonanceGain(omega, omegaMN, q float64) (float64, error) {
	h, err := AcousticTransfer(omega, 1, 1, omegaMN, q)
	if err != nil {
		return 0, err
	}
	return omegaMN * omegaMN * cmplx.Abs(h), nil
}
