package analysis

import (
	"context"
	"math"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
)

// Disclaimer is attached to every report. The model is analytical and its
// outputs have not been checked against test-stand or flight data.
const Disclaimer = "Analytical model, not experimentally validated."

// ModeVerdict pairs one coupled mode with its damping ratio and the
// critical ratio the combustion response demands at that mode's frequency.
type ModeVerdict struct {
	Index     int     `json:"index"`
	Frequency float64 `json:"frequency_hz"`
	Zeta      float64 `json:"zeta"`
	ZetaCrit  float64 `json:"zeta_crit"`
	Stable    bool    `json:"stable"`
}

// RingReport is the full pipeline output for one ring in one environment.
type RingReport struct {
	RingIndex   int                   `json:"ring_index"`
	Engines     int                   `json:"engines"`
	Engine      string                `json:"engine"`
	Environment string                `json:"environment"`
	Omega       float64               `json:"omega"` // forcing frequency [rad/s]
	Response    physics.Response      `json:"-"`     // carries a complex transfer value
	Point       physics.Verdict       `json:"point"`
	Damping     physics.DampingResult `json:"damping"`
	Verdicts    []ModeVerdict         `json:"verdicts"`
	MinZeta     float64               `json:"min_zeta"`
	Stable      bool                  `json:"stable"`
	Disclaimer  string                `json:"disclaimer"`
}

// Analyzer bundles the inputs shared by every ring of a cluster analysis.
// The thermodynamic parameters default to the reference values when zero.
type Analyzer struct {
	Engine        cluster.Engine
	Env           cluster.Environment
	Damping       cluster.Damping
	Gamma         float64
	PressureRatio float64
}

func NewAnalyzer(e cluster.Engine, env cluster.Environment, d cluster.Damping) *Analyzer {
	return &Analyzer{
		Engine:        e,
		Env:           env,
		Damping:       d,
		Gamma:         physics.DefaultGamma,
		PressureRatio: physics.DefaultPressureRatio,
	}
}

// ForcingFrequency converts a configured frequency in Hz to rad/s, falling
// back to the engine's first tangential chamber mode when hz is zero or
// negative.
func ForcingFrequency(e cluster.Engine, hz float64) float64 {
	if hz <= 0 {
		return physics.NaturalFrequency(e)
	}
	return 2 * math.Pi * hz
}

// AnalyzeRing runs the full pipeline for one ring: combustion response,
// coupling pathways, circulant operator, mode spectrum, damping spectrum,
// and the per-mode critical damping verdicts.
func (a *Analyzer) AnalyzeRing(ctx context.Context, ringIndex int, ring cluster.Ring, omega float64) (*RingReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := physics.NewEngineResponse(a.Engine).Eval(omega)
	if err != nil {
		return nil, err
	}
	op, err := physics.BuildRingOperator(a.Engine, ring, a.Env, omega)
	if err != nil {
		return nil, err
	}
	spec, err := physics.SolveModes(op.Sequence, a.Engine.Mass)
	if err != nil {
		return nil, err
	}
	damp, err := physics.Spectrum(spec, op, a.Damping, a.Env)
	if err != nil {
		return nil, err
	}
	point, err := physics.ClassifyPoint(a.Engine, ring, a.Env, a.Damping, omega)
	if err != nil {
		return nil, err
	}

	rep := &RingReport{
		RingIndex:   ringIndex,
		Engines:     ring.Engines,
		Engine:      a.Engine.Name,
		Environment: a.Env.Name,
		Omega:       omega,
		Response:    resp,
		Point:       point,
		Damping:     damp,
		Verdicts:    make([]ModeVerdict, spec.N),
		MinZeta:     damp.MinZeta(),
		Disclaimer:  Disclaimer,
	}

	allAbove := true
	for n, mode := range spec.Modes {
		crit := physics.CriticalDamping(a.Engine.Index, a.Engine.Lag, mode.Omega, a.Gamma, a.PressureRatio)
		ok := damp.Zeta[n] >= crit
		if !ok {
			allAbove = false
		}
		rep.Verdicts[n] = ModeVerdict{
			Index:     n,
			Frequency: mode.Omega / (2 * math.Pi),
			Zeta:      damp.Zeta[n],
			ZetaCrit:  crit,
			Stable:    ok,
		}
	}
	rep.Stable = point.Stable && allAbove
	return rep, nil
}
