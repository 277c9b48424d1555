package physics

import (
	"fmt"
	"math"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// Parameter names a sweepable control parameter of the engine record.
type Parameter string

const (
	ParamIndex    Parameter = "interaction_index"
	ParamLag      Parameter = "time_lag"
	ParamPressure Parameter = "chamber_pressure"
)

// Substitute returns a copy of the engine with this parameter replaced.
func (p Parameter) Substitute(e cluster.Engine, v float64) (cluster.Engine, error) {
	switch p {
	case ParamIndex:
		return e.WithIndex(v), nil
	case ParamLag:
		return e.WithLag(v), nil
	case ParamPressure:
		return e.WithChamberPressure(v), nil
	}
	return cluster.Engine{}, fmt.Errorf("%w: sweep parameter %q, want one of %q, %q, %q",
		cluster.ErrInvalidConfig, string(p), ParamIndex, ParamLag, ParamPressure)
}

// Verdict is the stability classification of one operating point. The
// margin is negative exactly when the point is unstable: it is the smaller
// of the worst mode damping ratio and the Rayleigh phase margin.
type Verdict struct {
	Omega       float64
	MinZeta     float64
	PhaseMargin float64
	Rayleigh    int
	Margin      float64
	Stable      bool
}

// ClassifyPoint runs the full pipeline for one engine configuration and
// labels it stable when every mode damping ratio is non-negative and the
// combustion response is non-driving.
func ClassifyPoint(e cluster.Engine, ring cluster.Ring, env cluster.Environment, d cluster.Damping, omega float64) (Verdict, error) {
	resp, err := NewEngineResponse(e).Eval(omega)
	if err != nil {
		return Verdict{}, err
	}
	op, err := BuildRingOperator(e, ring, env, omega)
	if err != nil {
		return Verdict{}, err
	}
	spec, err := SolveModes(op.Sequence, e.Mass)
	if err != nil {
		return Verdict{}, err
	}
	damp, err := Spectrum(spec, op, d, env)
	if err != nil {
		return Verdict{}, err
	}

	minZeta := damp.MinZeta()
	phase := PhaseMargin(resp.Transfer, RayleighTolerance)
	v := Verdict{
		Omega:       omega,
		MinZeta:     minZeta,
		PhaseMargin: phase,
		Rayleigh:    resp.Rayleigh,
		Margin:      math.Min(minZeta, phase),
		Stable:      minZeta >= 0 && resp.Rayleigh != 1,
	}
	return v, nil
}

// SweepSpec describes a stability boundary sweep along one control
// parameter at a fixed forcing frequency.
type SweepSpec struct {
	Parameter Parameter
	From, To  float64
	Samples   int
	Omega     float64
}

// SweepPoint is one classified sample of a sweep.
type SweepPoint struct {
	Value  float64
	Stable bool
	Margin float64
}

// Crossing is an interpolated boundary location between two samples.
type Crossing struct {
	Value      float64
	FromStable bool // sweep passes stable to unstable at this crossing
}

// SweepResult is the outcome of a stability boundary sweep. BoundaryFound
// is false when the classification never changes across the swept range;
// callers report that rather than extrapolating. NarrowedLow and
// NarrowedHigh count samples dropped at the sweep edges because the
// substituted value failed validation there.
type SweepResult struct {
	Parameter     Parameter
	Points        []SweepPoint
	Crossings     []Crossing
	BoundaryFound bool
	NarrowedLow   int
	NarrowedHigh  int
}

// Boundary returns the first located crossing. It fails with
// cluster.ErrNoBoundary when the classification never changed across the
// swept range.
func (r *SweepResult) Boundary() (Crossing, error) {
	if len(r.Crossings) == 0 {
		return Crossing{}, fmt.Errorf("%w (%s, %d samples)", cluster.ErrNoBoundary, r.Parameter, len(r.Points))
	}
	return r.Crossings[0], nil
}

// SweepParameter rebuilds the engine at each sample of the range, classifies
// it, and locates every boundary crossing by linear interpolation on the
// margin. Validation failures at the edges of the range narrow the sweep and
// are reported in the result; a failure strictly inside the range fails the
// whole sweep.
func SweepParameter(e cluster.Engine, ring cluster.Ring, env cluster.Environment, d cluster.Damping, spec SweepSpec) (*SweepResult, error) {
	if spec.Samples < 2 {
		return nil, fmt.Errorf("%w: sweep samples: need at least 2, got %d", cluster.ErrInvalidConfig, spec.Samples)
	}
	if spec.From == spec.To || math.IsNaN(spec.From) || math.IsNaN(spec.To) {
		return nil, fmt.Errorf("%w: sweep range [%g, %g] is degenerate", cluster.ErrInvalidConfig, spec.From, spec.To)
	}

	values := make([]float64, spec.Samples)
	verdicts := make([]Verdict, spec.Samples)
	errs := make([]error, spec.Samples)
	step := (spec.To - spec.From) / float64(spec.Samples-1)
	for i := range values {
		values[i] = spec.From + step*float64(i)
		cand, err := spec.Parameter.Substitute(e, values[i])
		if err != nil {
			return nil, err
		}
		verdicts[i], errs[i] = ClassifyPoint(cand, ring, env, d, spec.Omega)
	}

	lo, hi := 0, spec.Samples-1
	for lo <= hi && errs[lo] != nil {
		lo++
	}
	for hi >= lo && errs[hi] != nil {
		hi--
	}
	if lo > hi {
		return nil, fmt.Errorf("no valid samples in sweep range [%g, %g]: %w", spec.From, spec.To, errs[0])
	}
	for i := lo; i <= hi; i++ {
		if errs[i] != nil {
			return nil, fmt.Errorf("sweep sample %d (%s = %g): %w", i, spec.Parameter, values[i], errs[i])
		}
	}

	res := &SweepResult{
		Parameter:    spec.Parameter,
		Points:       make([]SweepPoint, 0, hi-lo+1),
		NarrowedLow:  lo,
		NarrowedHigh: spec.Samples - 1 - hi,
	}
	margins := make([]float64, 0, hi-lo+1)
	kept := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		res.Points = append(res.Points, SweepPoint{Value: values[i], Stable: verdicts[i].Stable, Margin: verdicts[i].Margin})
		margins = append(margins, verdicts[i].Margin)
		kept = append(kept, values[i])
	}

	crossings, err := LocateCrossings(kept, margins)
	if err != nil {
		return nil, err
	}
	res.Crossings = crossings
	res.BoundaryFound = len(crossings) > 0
	return res, nil
}

// LocateCrossings finds every zero crossing of a sampled margin curve and
// interpolates the crossing parameter value linearly between the bracketing
// samples. Margin >= 0 counts as stable.
func LocateCrossings(values, margins []float64) ([]Crossing, error) {
	if len(values) != len(margins) {
		return nil, fmt.Errorf("%w: values and margins lengths disagree (%d vs %d)",
			cluster.ErrInvalidConfig, len(values), len(margins))
	}
	var out []Crossing
	for i := 1; i < len(margins); i++ {
		s0, s1 := margins[i-1] >= 0, margins[i] >= 0
		if s0 == s1 {
			continue
		}
		m0, m1 := margins[i-1], margins[i]
		v := values[i-1] + (values[i]-values[i-1])*(-m0)/(m1-m0)
		out = append(out, Crossing{Value: v, FromStable: s0})
	}
	return out, nil
}

// Absorption coefficients and reference frequencies for the classic
// interaction-index boundary map.
var DefaultMapFrequencies = []float64{50, 135, 56}

const (
	AlphaEarth  = 0.12
	AlphaVacuum = 0.06

	// Display ceiling for the critical index near sin(omega*tau) = 0.
	maxCriticalIndex = 20.0
)

// NCritical is the critical interaction index above which an operating
// point at delay tau becomes unstable:
//
//	n_crit = alpha_total / (omega * |sin(omega*tau)| * gain)
//
// clipped into [0, 20]. Where the delay-phase factor vanishes the boundary
// is unreachable and the ceiling is returned directly, never an infinity.
func NCritical(lag, alphaTotal, omega, gain float64) float64 {
	den := omega * math.Abs(math.Sin(omega*lag)) * gain
	if den == 0 {
		return maxCriticalIndex
	}
	n := alphaTotal / den
	return math.Min(math.Max(n, 0), maxCriticalIndex)
}

// StabilityMargin is the distance n_crit - n from an operating point to the
// boundary. Positive means stable.
func StabilityMargin(index, lag, alphaTotal, omega, gain float64) float64 {
	return NCritical(lag, alphaTotal, omega, gain) - index
}

// IsStable reports whether the operating point sits below the critical
// index.
func IsStable(index, lag, alphaTotal, omega, gain float64) bool {
	return index < NCritical(lag, alphaTotal, omega, gain)
}

// BoundaryMap is the (n, tau) stability boundary surface evaluated for a
// set of frequencies in the sea-level and vacuum environments.
type BoundaryMap struct {
	Tau          []float64
	Frequencies  []float64
	Environments []string
	NCrit        [][][]float64 // indexed [environment][frequency][tau]
}

// SweepBoundaryMap evaluates NCritical over a delay range for every
// frequency, once per environment absorption coefficient.
func SweepBoundaryMap(tauMin, tauMax float64, frequencies []float64, alphaEarth, alphaVacuum float64, samples int, gain float64) (*BoundaryMap, error) {
	if samples < 2 {
		return nil, fmt.Errorf("%w: map samples: need at least 2, got %d", cluster.ErrInvalidConfig, samples)
	}
	if tauMin < 0 || tauMax <= tauMin {
		return nil, fmt.Errorf("%w: delay range [%g, %g] must be non-negative and increasing", cluster.ErrInvalidConfig, tauMin, tauMax)
	}
	if len(frequencies) == 0 {
		return nil, fmt.Errorf("%w: at least one frequency required", cluster.ErrInvalidConfig)
	}
	for _, f := range frequencies {
		if f <= 0 {
			return nil, fmt.Errorf("%w: frequency must be positive, got %g", cluster.ErrInvalidConfig, f)
		}
	}

	bm := &BoundaryMap{
		Tau:          make([]float64, samples),
		Frequencies:  append([]float64(nil), frequencies...),
		Environments: []string{"earth_sl", "lunar_vacuum"},
		NCrit:        make([][][]float64, 2),
	}
	step := (tauMax - tauMin) / float64(samples-1)
	for i := range bm.Tau {
		bm.Tau[i] = tauMin + step*float64(i)
	}
	alphas := []float64{alphaEarth, alphaVacuum}
	for ei, alpha := range alphas {
		bm.NCrit[ei] = make([][]float64, len(frequencies))
		for fi, f := range frequencies {
			omega := 2 * math.Pi * f
			row := make([]float64, samples)
			for ti, tau := range bm.Tau {
				row[ti] = NCritical(tau, alpha, omega, gain)
			}
			bm.NCrit[ei][fi] = row
		}
	}
	return bm, nil
}
