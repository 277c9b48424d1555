package cluster

import "fmt"

// Environment captures the ambient conditions an engine ring operates in.
// Vacuum removes the atmospheric coupling pathway and the atmospheric
// absorption term from the damping spectrum.
type Environment struct {
	Name              string
	AmbientPressure   float64 // [Pa]
	Temperature       float64 // [K]
	AcousticImpedance float64 // [rayl]
	AtmosphericZeta   float64 // atmospheric damping contribution
	Vacuum            bool
}

func (e Environment) Validate() error {
	if e.AmbientPressure < 0 {
		return fmt.Errorf("%w: environment %q: ambient pressure = %g Pa, must be >= 0", ErrInvalidConfig, e.Name, e.AmbientPressure)
	}
	if e.Temperature < 0 {
		return fmt.Errorf("%w: environment %q: temperature = %g K, must be >= 0", ErrInvalidConfig, e.Name, e.Temperature)
	}
	if e.Vacuum && (e.AmbientPressure != 0 || e.AcousticImpedance != 0 || e.AtmosphericZeta != 0) {
		return fmt.Errorf("%w: environment %q: vacuum with non-zero atmospheric terms", ErrInvalidConfig, e.Name)
	}
	return nil
}

// AbsorptionZeta is the environmental absorption contribution to every
// mode's damping ratio. Zero in vacuum.
func (e Environment) AbsorptionZeta() float64 {
	if e.Vacuum {
		return 0
	}
	return e.AtmosphericZeta
}

// Damping holds the per-engine damping budget. The defaults follow the
// white-paper Section IV values; callers may override fields for
// parametric studies.
type Damping struct {
	Internal    float64 // internal combustion damping
	Nozzle      float64 // nozzle admittance damping
	Feed        float64 // feed system dissipation
	CouplingMax float64 // ceiling of the inter-engine coupling contribution
}

// DefaultDamping returns the white-paper reference damping budget.
func DefaultDamping() Damping {
	return Damping{Internal: 0.015, Nozzle: 0.020, Feed: 0.005, CouplingMax: 0.022}
}

// Intrinsic is the engine's own damping, the part every mode receives
// regardless of coupling or environment.
func (d Damping) Intrinsic() float64 { return d.Internal + d.Nozzle + d.Feed }

func (d Damping) Validate() error {
	if d.Internal < 0 || d.Nozzle < 0 || d.Feed < 0 {
		return fmt.Errorf("%w: damping budget has a negative term (internal=%g nozzle=%g feed=%g)",
			ErrInvalidConfig, d.Internal, d.Nozzle, d.Feed)
	}
	if d.CouplingMax < 0 {
		return fmt.Errorf("%w: coupling damping ceiling = %g, must be >= 0", ErrInvalidConfig, d.CouplingMax)
	}
	return nil
}
