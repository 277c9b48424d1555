package physics

import (
	"fmt"
	"math"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// Default thermodynamic parameters for the critical damping threshold.
const (
	DefaultGamma         = 1.25
	DefaultPressureRatio = 0.5 // p_bar / (rho * c^2)
)

// DampingResult is the per-mode damping of one ring in one environment,
// aligned index-for-index with the mode spectrum.
type DampingResult struct {
	Environment string
	N           int
	Zeta        []float64
}

// MinZeta is the smallest damping ratio in the spectrum. Negative means at
// least one mode grows.
func (r DampingResult) MinZeta() float64 {
	min := r.Zeta[0]
	for _, z := range r.Zeta[1:] {
		if z < min {
			min = z
		}
	}
	return min
}

// Spectrum converts mode eigenvalues plus environmental absorption into a
// damping ratio per circumferential mode.
//
// For n > 0 the coupling-derived term is
//
//	zeta_c(n) = zeta_coupling_max * (Re lambda_n - Re lambda_0) / (2 * sum_k |kappa(k)|)
//
// bounded in [-zeta_coupling_max, +zeta_coupling_max] and signed: a mode
// driven by anti-coupling reports a reduced or negative ratio rather than
// being clamped. Mode 0 receives no coupling term at all; every coupling
// force cancels when the ring moves in phase, so zeta_0 is intrinsic plus
// environmental absorption regardless of the operator. An uncoupled ring
// (zero norm) yields the same flat baseline for every mode.
func Spectrum(spec *ModeSpectrum, op *RingOperator, d cluster.Damping, env cluster.Environment) (DampingResult, error) {
	if err := d.Validate(); err != nil {
		return DampingResult{}, err
	}
	if err := env.Validate(); err != nil {
		return DampingResult{}, err
	}
	if spec == nil || op == nil || spec.N != op.N {
		return DampingResult{}, fmt.Errorf("%w: mode spectrum and ring operator sizes disagree", cluster.ErrInvalidConfig)
	}

	base := d.Intrinsic() + env.AbsorptionZeta()
	norm := op.CouplingNorm()
	lambda0 := real(spec.Modes[0].Eigenvalue)

	out := DampingResult{Environment: env.Name, N: spec.N, Zeta: make([]float64, spec.N)}
	for n := 0; n < spec.N; n++ {
		zeta := base
		if n > 0 && norm > 0 {
			zeta += d.CouplingMax * (real(spec.Modes[n].Eigenvalue) - lambda0) / (2 * norm)
		}
		out.Zeta[n] = zeta
	}
	return out, nil
}

// BreathingModeDamping is the mode-0 ratio computed independently of any
// coupling machinery: intrinsic terms plus environmental absorption.
func BreathingModeDamping(d cluster.Damping, env cluster.Environment) float64 {
	return d.Intrinsic() + env.AbsorptionZeta()
}

// CriticalDamping is the minimum damping ratio a mode needs for stability,
// evaluated at the mode's own frequency:
//
//	zeta_min = n*omega*|sin(omega*tau)| / (2*omega_n^2) * (gamma-1)/gamma * p_ratio
//
// As omega_n goes to zero the expression tends to the finite limit
// n*tau/2 * (gamma-1)/gamma * p_ratio, which is returned explicitly instead
// of evaluating 0/0.
func CriticalDamping(index, lag, omegaN, gamma, pressureRatio float64) float64 {
	scale := (gamma - 1) / gamma * pressureRatio
	if omegaN <= 0 {
		return index * lag / 2 * scale
	}
	return index * math.Abs(math.Sin(omegaN*lag)) / (2 * omegaN) * scale
}
