package analysis

import (
	"context"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
)

// EnvironmentComparison holds the damping spectrum of one ring evaluated
// in several environments. The environment changes both the absorption
// baseline and the coupling operator: vacuum removes the acoustic pathway,
// so the mode frequencies shift too.
type EnvironmentComparison struct {
	Engines      int           `json:"engines"`
	Omega        float64       `json:"omega"`
	Environments []string      `json:"environments"`
	Zeta         [][]float64   `json:"zeta"`         // indexed [environment][mode]
	Frequencies  [][]float64   `json:"frequencies"`  // per-mode [Hz], same indexing
	MinZeta      []float64     `json:"min_zeta"`     // per environment
	Reports      []*RingReport `json:"-"`
}

// CompareEnvironments analyzes the same ring once per environment. The
// engine and damping budget stay fixed; only the environment varies.
func CompareEnvironments(ctx context.Context, e cluster.Engine, ring cluster.Ring, envs []cluster.Environment, d cluster.Damping, omega float64) (*EnvironmentComparison, error) {
	cmp := &EnvironmentComparison{
		Engines:      ring.Engines,
		Omega:        omega,
		Environments: make([]string, 0, len(envs)),
		Zeta:         make([][]float64, 0, len(envs)),
		Frequencies:  make([][]float64, 0, len(envs)),
		MinZeta:      make([]float64, 0, len(envs)),
		Reports:      make([]*RingReport, 0, len(envs)),
	}
	for _, env := range envs {
		a := NewAnalyzer(e, env, d)
		rep, err := a.AnalyzeRing(ctx, 0, ring, omega)
		if err != nil {
			return nil, err
		}
		freqs := make([]float64, len(rep.Verdicts))
		for i, v := range rep.Verdicts {
			freqs[i] = v.Frequency
		}
		cmp.Environments = append(cmp.Environments, env.Name)
		cmp.Zeta = append(cmp.Zeta, rep.Damping.Zeta)
		cmp.Frequencies = append(cmp.Frequencies, freqs)
		cmp.MinZeta = append(cmp.MinZeta, rep.MinZeta)
		cmp.Reports = append(cmp.Reports, rep)
	}
	return cmp, nil
}

// VacuumPenalty is the breathing-mode damping lost between two
// environments, typically sea level minus vacuum. Both spectra must come
// from the same ring and budget.
func VacuumPenalty(sea, vac physics.DampingResult) float64 {
	return sea.Zeta[0] - vac.Zeta[0]
}
