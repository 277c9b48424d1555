package physics

import (
	"fmt"
	"math"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// AmplificationResult holds the coherent and incoherent disturbance scaling
// over a range of engine counts, one entry per integer count.
type AmplificationResult struct {
	Counts        []int
	Coherent      []float64 // N * amplitude: full in-phase superposition
	Incoherent    []float64 // sqrt(N) * amplitude: root-sum-square of random phases
	Ratio         []float64 // coherent / incoherent = sqrt(N)
	MarginPercent []float64 // vacuum-to-sea-level breathing-mode damping margin [%]
}

// CoherentAmplification is the in-phase superposition factor N*a.
func CoherentAmplification(n int, amplitude float64) float64 {
	return float64(n) * amplitude
}

// IncoherentAmplification is the random-phase factor sqrt(N)*a.
func IncoherentAmplification(n int, amplitude float64) float64 {
	return math.Sqrt(float64(n)) * amplitude
}

// AmplificationRatio is coherent over incoherent, sqrt(N) for any amplitude.
func AmplificationRatio(n int) float64 {
	return math.Sqrt(float64(n))
}

// DampingMarginPercent is the vacuum-to-sea-level breathing-mode damping
// ratio as a percentage, degraded slightly with engine count for feed
// system complexity. Lower means more margin lost in vacuum.
func DampingMarginPercent(n int, d cluster.Damping, atmosphericZeta float64) float64 {
	vacuum := d.Intrinsic()
	earth := vacuum + atmosphericZeta
	degradation := 1 + 0.002*float64(n-1)
	return vacuum / earth * 100 / degradation
}

// AmplificationSweep evaluates the scaling laws for every integer engine
// count in [min, max]. The per-engine amplitude only scales the coherent
// and incoherent columns; the ratio is amplitude-free.
func AmplificationSweep(min, max int, amplitude float64, d cluster.Damping, atmosphericZeta float64) (*AmplificationResult, error) {
	if min < 1 {
		return nil, fmt.Errorf("%w: engine count range: minimum must be at least 1, got %d", cluster.ErrInvalidConfig, min)
	}
	if max < min {
		return nil, fmt.Errorf("%w: engine count range [%d, %d] is empty", cluster.ErrInvalidConfig, min, max)
	}
	if amplitude <= 0 {
		return nil, fmt.Errorf("%w: disturbance amplitude: must be positive, got %g", cluster.ErrInvalidConfig, amplitude)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	count := max - min + 1
	res := &AmplificationResult{
		Counts:        make([]int, count),
		Coherent:      make([]float64, count),
		Incoherent:    make([]float64, count),
		Ratio:         make([]float64, count),
		MarginPercent: make([]float64, count),
	}
	for i := 0; i < count; i++ {
		n := min + i
		res.Counts[i] = n
		res.Coherent[i] = CoherentAmplification(n, amplitude)
		res.Incoherent[i] = IncoherentAmplification(n, amplitude)
		res.Ratio[i] = AmplificationRatio(n)
		res.MarginPercent[i] = DampingMarginPercent(n, d, atmosphericZeta)
	}
	return res, nil
}
