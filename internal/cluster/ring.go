package cluster

import (
	"fmt"
	"math"
)

// Cavity describes the base recirculation cavity shared by a ring. Its
// tangential acoustic modes set the resonance term in the far-field and
// cavity coupling pathways.
type Cavity struct {
	Radius     float64 // base cavity radius [m] (base diameter / 2)
	SoundSpeed float64 // recirculation-zone speed of sound [m/s]
	Q          float64 // acoustic quality factor, typically 5-50
}

func (c Cavity) Validate() error {
	switch {
	case c.Radius <= 0:
		return fmt.Errorf("%w: cavity radius = %g m, must be > 0", ErrInvalidConfig, c.Radius)
	case c.SoundSpeed <= 0:
		return fmt.Errorf("%w: cavity sound speed = %g m/s, must be > 0", ErrInvalidConfig, c.SoundSpeed)
	case c.Q <= 0:
		return fmt.Errorf("%w: cavity quality factor = %g, must be > 0", ErrInvalidConfig, c.Q)
	}
	return nil
}

// Ring is a single concentric ring of uniformly spaced engines. Angular
// positions partition [0, 2pi) into Engines equal arcs.
type Ring struct {
	Engines       int     // N for this ring, >= 1
	Radius        float64 // ring radius from vehicle centerline [m]
	SymmetryGroup string  // e.g. "C20", "D8"
	Gimbaled      bool
	Cavity        Cavity // shared base cavity
}

func (r Ring) Validate() error {
	if r.Engines < 1 {
		return fmt.Errorf("%w: ring engine count = %d, must be >= 1", ErrInvalidConfig, r.Engines)
	}
	if r.Radius < 0 {
		return fmt.Errorf("%w: ring radius = %g m, must be >= 0", ErrInvalidConfig, r.Radius)
	}
	if r.Engines > 1 && r.Radius == 0 {
		return fmt.Errorf("%w: ring radius = 0 with %d engines, multi-engine rings need radius > 0", ErrInvalidConfig, r.Engines)
	}
	return r.Cavity.Validate()
}

// Angles returns the engine positions 2*pi*k/N around the ring.
func (r Ring) Angles() []float64 {
	angles := make([]float64, r.Engines)
	for k := range angles {
		angles[k] = 2 * math.Pi * float64(k) / float64(r.Engines)
	}
	return angles
}

// Separation returns the chord distance between engines k index positions
// apart: 2*R*sin(pi*k/N). This depends on the ring radius, not on the
// angular separation alone.
func (r Ring) Separation(k int) float64 {
	if r.Engines < 2 {
		return 0
	}
	k = ((k % r.Engines) + r.Engines) % r.Engines
	return 2 * r.Radius * math.Abs(math.Sin(math.Pi*float64(k)/float64(r.Engines)))
}

// Cluster is a multi-ring engine layout for one vehicle stage. Rings are
// acoustically independent in this model: no cross-ring coupling pathway
// is computed.
type Cluster struct {
	Name         string
	EngineName   string // preset key of the engine fitted to every ring
	TotalEngines int
	BaseDiameter float64 // vehicle base diameter [m]
	Rings        []Ring
}

func (c Cluster) Validate() error {
	if len(c.Rings) == 0 {
		return fmt.Errorf("%w: cluster %q has no rings", ErrInvalidConfig, c.Name)
	}
	if c.BaseDiameter <= 0 {
		return fmt.Errorf("%w: cluster %q: base diameter = %g m, must be > 0", ErrInvalidConfig, c.Name, c.BaseDiameter)
	}
	sum := 0
	for i, r := range c.Rings {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("cluster %q ring %d: %w", c.Name, i, err)
		}
		sum += r.Engines
	}
	if c.TotalEngines != sum {
		return fmt.Errorf("%w: cluster %q: total engines = %d but rings sum to %d", ErrInvalidConfig, c.Name, c.TotalEngines, sum)
	}
	return nil
}
