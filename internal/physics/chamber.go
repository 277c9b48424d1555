package physics

import (
	"math"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// First zeros of the Bessel derivative J'_m for transverse chamber modes.
const (
	bessel1T = 1.8412 // first tangential
	bessel2T = 3.0542 // second tangential
)

// AcousticModes holds the lowest chamber acoustic eigenfrequencies [Hz].
// The chamber is treated as a closed cylinder with length ~ diameter.
type AcousticModes struct {
	FirstTangential   float64
	SecondTangential  float64
	FirstLongitudinal float64
}

// ChamberModes estimates the chamber acoustic mode frequencies from the
// sound speed and chamber diameter.
//
// Transverse: f_mn = j'_mn * c / (2*pi*R). Longitudinal: f_1L ~ c/(2L)
// with L approximated by the diameter.
func ChamberModes(e cluster.Engine) AcousticModes {
	c := e.SoundSpeed
	r := e.ChamberDiameter / 2
	return AcousticModes{
		FirstTangential:   bessel1T * c / (2 * math.Pi * r),
		SecondTangential:  bessel2T * c / (2 * math.Pi * r),
		FirstLongitudinal: c / (2 * e.ChamberDiameter),
	}
}

// NaturalFrequency is the engine natural angular frequency omega_0 taken
// from the first tangential chamber mode [rad/s].
func NaturalFrequency(e cluster.Engine) float64 {
	return 2 * math.Pi * ChamberModes(e).FirstTangential
}

// EngineStiffness is the structural stiffness proxy k = m*omega^2 [N/m]
// built from the first tangential estimate omega ~ 1.8412*c/D. It feeds the
// structural and feed coupling pathways.
func EngineStiffness(e cluster.Engine) float64 {
	omega := bessel1T * e.SoundSpeed / e.ChamberDiameter
	return e.Mass * omega * omega
}

// NozzleAdmittance is the acoustic admittance at the nozzle entrance [s/m]:
//
//	Y = (gamma+1)/2 * M_entrance / (rho*c)
//
// with the mean chamber density from the ideal gas relation rho = gamma*Pc/c^2
// and the entrance Mach number taken as the subsonic throat-approach estimate.
// Always positive: the nozzle is an energy sink.
func NozzleAdmittance(e cluster.Engine) float64 {
	const machEntrance = 0.4
	rho := e.Gamma * e.ChamberPressure / (e.SoundSpeed * e.SoundSpeed)
	return (e.Gamma + 1) / 2 * machEntrance / (rho * e.SoundSpeed)
}
