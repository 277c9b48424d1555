package physics

import (
	"fmt"
	"math"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// PenetrationKnudsen computes the plume penetration Knudsen number at each
// angle from the plume axis:
//
//	Kn_p(theta) = 0.5 * Kn0 * Apl * (d/(2*rn)) / (sin^2(theta) * (1 + cos(theta)))
//
// kn0 is the reference Knudsen number at the nozzle exit, apl the plume area
// coefficient, d the half-distance between nozzle centres, rn the nozzle
// exit radius. The Maxwellian distribution factor 1+cos(theta) vanishes at
// theta = pi and sin(theta) at 0, so angles must lie strictly inside (0, pi).
func PenetrationKnudsen(kn0, apl, d, rn float64, theta []float64) ([]float64, error) {
	if kn0 <= 0 || apl <= 0 || d <= 0 || rn <= 0 {
		return nil, fmt.Errorf("%w: plume parameters must be positive (Kn0=%g Apl=%g d=%g rn=%g)",
			cluster.ErrInvalidConfig, kn0, apl, d, rn)
	}
	out := make([]float64, len(theta))
	for i, th := range theta {
		if th <= 0 || th >= math.Pi {
			return nil, fmt.Errorf("%w: plume angle must lie in (0, pi), got %g", cluster.ErrDegenerate, th)
		}
		s := math.Sin(th)
		f := 1 + math.Cos(th)
		out[i] = 0.5 * kn0 * apl * (d / (2 * rn)) / (s * s * f)
	}
	return out, nil
}
