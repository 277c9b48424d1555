package physics

import (
	"fmt"
	"math"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// Calibration constants for the coupling pathways. The acoustic efficiency
// follows the NASA SP-8072 estimate; the structural and feed fractions are
// typical transmission fractions of the engine stiffness.
const (
	acousticEfficiency = 0.005
	structuralFraction = 0.02
	cavityFraction     = 0.005
	feedFractionFFSCC  = 0.015
	feedFractionGG     = 0.008

	// Spacing floor for the 1/d terms, so adjacent nozzles can never
	// produce an unbounded coefficient.
	minSpacing = 0.01

	// Largest shared-manifold ring the feed scaling is normalized to.
	feedReferenceCount = 33.0
)

// Pathways holds the three inter-engine coupling coefficients for one engine
// pair, kept separate so each mechanism stays inspectable. Units are
// stiffness [N/m].
type Pathways struct {
	Acoustic   float64 // atmospheric far-field; zero in vacuum
	Structural float64 // thrust frame plus shared feed manifold; pressure-independent
	Cavity     float64 // shared base-cavity mode; may be negative
}

// Total is the summed coupling coefficient kappa for the pair.
func (p Pathways) Total() float64 {
	return p.Acoustic + p.Structural + p.Cavity
}

// CouplingModel evaluates the pairwise coupling pathways on one ring.
// Engines are uniformly spaced, so a pair is identified by its index
// separation alone and coupling(i,j) = coupling(j,i) holds by construction.
type CouplingModel struct {
	Engine cluster.Engine
	Ring   cluster.Ring
	Env    cluster.Environment
}

func NewCouplingModel(e cluster.Engine, ring cluster.Ring, env cluster.Environment) *CouplingModel {
	return &CouplingModel{Engine: e, Ring: ring, Env: env}
}

// Pair computes the three pathway coefficients between two engines separated
// by sep positions around the ring, at forcing frequency omega. Separation 0
// is the engine itself and carries no inter-engine coupling. A single-engine
// ring couples to nothing.
func (cm *CouplingModel) Pair(sep int, omega float64) (Pathways, error) {
	if err := cm.validate(omega); err != nil {
		return Pathways{}, err
	}
	n := cm.Ring.Engines
	sep = ((sep % n) + n) % n
	if n <= 1 || sep == 0 {
		return Pathways{}, nil
	}

	gain, err := cm.resonanceGain(omega)
	if err != nil {
		return Pathways{}, err
	}

	d := math.Max(cm.Ring.Separation(sep), minSpacing)
	stiff := EngineStiffness(cm.Engine)
	dTheta := 2 * math.Pi * float64(sep) / float64(n)

	return Pathways{
		Acoustic:   cm.acoustic(d) * gain,
		Structural: cm.structural(d, stiff) + cm.feed(stiff),
		Cavity:     cavityFraction * stiff * math.Cos(dTheta) * gain,
	}, nil
}

// NearestNeighbor is the pathway record at index separation 1, the classic
// aggregate coupling coefficient of the ring.
func (cm *CouplingModel) NearestNeighbor(omega float64) (Pathways, error) {
	return cm.Pair(1, omega)
}

// acoustic is the far-field term: impedance times nozzle exit area over
// spacing, scaled by the acoustic efficiency. Vanishes without an atmosphere.
func (cm *CouplingModel) acoustic(d float64) float64 {
	if cm.Env.Vacuum || cm.Env.AmbientPressure <= 0 {
		return 0
	}
	de := cm.Engine.NozzleExitDiameter
	area := math.Pi * (de / 2) * (de / 2)
	return acousticEfficiency * cm.Env.AcousticImpedance * area / d
}

// structural is the thrust-frame term: a fraction of the engine stiffness
// falling off with physical separation distance.
func (cm *CouplingModel) structural(d, stiff float64) float64 {
	return structuralFraction * stiff * cm.Engine.NozzleExitDiameter / d
}

// feed is the shared-manifold term: grows with the logarithm of the number
// of engines on the manifold, and is tighter for full-flow staged combustion
// than for gas-generator engines.
func (cm *CouplingModel) feed(stiff float64) float64 {
	frac := feedFractionGG
	if cm.Engine.Cycle == cluster.FullFlow {
		frac = feedFractionFFSCC
	}
	return frac * stiff * math.Log(float64(cm.Ring.Engines)) / math.Log(feedReferenceCount)
}

// resonanceGain is the bounded cavity-proximity multiplier applied to the
// pathways that transmit through the base gas.
func (cm *CouplingModel) resonanceGain(omega float64) (float64, error) {
	res, err := CavityResonance(cm.Ring.Cavity, Mode1T)
	if err != nil {
		return 0, err
	}
	return ResonanceGain(omega, res, cm.Ring.Cavity.Q)
}

func (cm *CouplingModel) validate(omega float64) error {
	if err := cm.Engine.Validate(); err != nil {
		return err
	}
	if err := cm.Ring.Validate(); err != nil {
		return err
	}
	if err := cm.Env.Validate(); err != nil {
		return err
	}
	if omega < 0 || math.IsNaN(omega) || math.IsInf(omega, 0) {
		return fmt.Errorf("%w: omega: must be finite and non-negative, got %g", cluster.ErrInvalidConfig, omega)
	}
	return nil
}
