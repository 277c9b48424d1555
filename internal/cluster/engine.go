package cluster

import "fmt"

// Cycle identifies the engine power cycle. Feed-system coupling is tighter
// for full-flow staged combustion than for gas-generator engines.
type Cycle string

const (
	GasGenerator Cycle = "gas_generator"
	FullFlow     Cycle = "ffscc"
)

// Engine holds the combustion-response parameters of a single engine.
// Values are set once (from a preset or a config file) and never mutated;
// parametric studies copy the struct and substitute fields.
type Engine struct {
	Name string

	ThrustSL  float64 // sea-level thrust [N], 0 = not published
	ThrustVac float64 // vacuum thrust [N], 0 = not published

	ChamberPressure    float64 // Pc [Pa]
	ChamberDiameter    float64 // characteristic acoustic length [m]
	ThroatDiameter     float64 // nozzle throat diameter [m]
	NozzleExitDiameter float64 // De [m]
	ExpansionRatio     float64 // Ae/At
	Mass               float64 // dry mass [kg]
	Gamma              float64 // ratio of specific heats
	SoundSpeed         float64 // chamber speed of sound [m/s]

	InjectorType string
	Cycle        Cycle

	// Crocco n-tau response parameters. Index and Lag are the reference
	// operating point; the ranges bound published estimates.
	Index    float64    // interaction index n
	Lag      float64    // sensitive time lag tau [s]
	IndexRng [2]float64 // published n range
	LagRng   [2]float64 // published tau range [s]
}

// Validate rejects non-physical engine parameters. It runs before any
// downstream computation so a bad field is reported with its constraint
// rather than surfacing as NaN somewhere in the pipeline.
func (e Engine) Validate() error {
	switch {
	case e.Lag < 0:
		return fmt.Errorf("%w: engine %q: time lag tau = %g s, must be >= 0", ErrInvalidConfig, e.Name, e.Lag)
	case e.Index < 0:
		return fmt.Errorf("%w: engine %q: interaction index n = %g, must be >= 0", ErrInvalidConfig, e.Name, e.Index)
	case e.ChamberPressure <= 0:
		return fmt.Errorf("%w: engine %q: chamber pressure = %g Pa, must be > 0", ErrInvalidConfig, e.Name, e.ChamberPressure)
	case e.ChamberDiameter <= 0:
		return fmt.Errorf("%w: engine %q: chamber diameter = %g m, must be > 0", ErrInvalidConfig, e.Name, e.ChamberDiameter)
	case e.ThroatDiameter <= 0:
		return fmt.Errorf("%w: engine %q: throat diameter = %g m, must be > 0", ErrInvalidConfig, e.Name, e.ThroatDiameter)
	case e.NozzleExitDiameter <= 0:
		return fmt.Errorf("%w: engine %q: nozzle exit diameter = %g m, must be > 0", ErrInvalidConfig, e.Name, e.NozzleExitDiameter)
	case e.ExpansionRatio < 1:
		return fmt.Errorf("%w: engine %q: expansion ratio = %g, must be >= 1", ErrInvalidConfig, e.Name, e.ExpansionRatio)
	case e.Mass <= 0:
		return fmt.Errorf("%w: engine %q: mass = %g kg, must be > 0", ErrInvalidConfig, e.Name, e.Mass)
	case e.Gamma <= 1:
		return fmt.Errorf("%w: engine %q: gamma = %g, must be > 1", ErrInvalidConfig, e.Name, e.Gamma)
	case e.SoundSpeed <= 0:
		return fmt.Errorf("%w: engine %q: sound speed = %g m/s, must be > 0", ErrInvalidConfig, e.Name, e.SoundSpeed)
	}
	return nil
}

// WithIndex returns a copy with the interaction index substituted.
func (e Engine) WithIndex(n float64) Engine {
	e.Index = n
	return e
}

// WithLag returns a copy with the sensitive time lag substituted.
func (e Engine) WithLag(tau float64) Engine {
	e.Lag = tau
	return e
}

// WithChamberPressure returns a copy with the chamber pressure substituted.
func (e Engine) WithChamberPressure(pc float64) Engine {
	e.ChamberPressure = pc
	return e
}
