package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/afgany/rocket-clusters-dynamics/internal/analysis"
	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/config"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
)

// Dispersion configures a Monte Carlo scatter over the engine's published
// interaction index and time lag ranges. A zero Seed seeds from the clock.
type Dispersion struct {
	Cluster     string
	Ring        int
	Environment string
	Trials      int
	Seed        int64
	Frequency   float64 // forcing frequency [Hz], 0 = engine first tangential
}

// DispersionResult summarizes the scatter. WorstIndex and WorstLag locate
// the sampled point with the smallest stability margin.
type DispersionResult struct {
	Trials         int
	Stable         int
	StableFraction float64
	WorstMargin    float64
	WorstIndex     float64
	WorstLag       float64
}

// RunDispersion classifies Trials random operating points drawn uniformly
// from the engine's published ranges.
func RunDispersion(ctx context.Context, cfg Dispersion, d cluster.Damping) (*DispersionResult, error) {
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("%w: trials %d, want at least 1", cluster.ErrInvalidConfig, cfg.Trials)
	}
	_, ring, e, err := resolveRing(cfg.Cluster, cfg.Ring)
	if err != nil {
		return nil, err
	}
	if e.IndexRng[1] <= e.IndexRng[0] || e.LagRng[1] <= e.LagRng[0] {
		return nil, fmt.Errorf("%w: engine %q has no published operating ranges", cluster.ErrInvalidConfig, e.Name)
	}
	envName := cfg.Environment
	if envName == "" {
		envName = config.DefaultEnvironment
	}
	env, err := config.EnvironmentByName(envName)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	omega := analysis.ForcingFrequency(e, cfg.Frequency)
	res := &DispersionResult{Trials: cfg.Trials}
	first := true
	for i := 0; i < cfg.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := e.IndexRng[0] + rng.Float64()*(e.IndexRng[1]-e.IndexRng[0])
		lag := e.LagRng[0] + rng.Float64()*(e.LagRng[1]-e.LagRng[0])
		v, err := physics.ClassifyPoint(e.WithIndex(n).WithLag(lag), ring, env, d, omega)
		if err != nil {
			return nil, fmt.Errorf("trial %d (n=%.3f, tau=%.4g): %w", i+1, n, lag, err)
		}
		if v.Stable {
			res.Stable++
		}
		if first || v.Margin < res.WorstMargin {
			res.WorstMargin = v.Margin
			res.WorstIndex = n
			res.WorstLag = lag
			first = false
		}
	}
	res.StableFraction = float64(res.Stable) / float64(res.Trials)
	return res, nil
}
