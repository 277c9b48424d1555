package physics

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// RayleighTolerance is the default half-width of the in-phase band used by
// the Rayleigh criterion test, in radians.
//
// The n-tau response phase pi/2 - omega*tau/2 always wraps into
// (-pi/2, pi/2), so a band of pi/2 would mark every responsive point as
// driving. A band of pi/4 selects the strongest-driving half cycle,
// omega*tau in (pi/2, 3*pi/2) modulo 2*pi, centred on the fully in-phase
// peak at omega*tau = pi.
const RayleighTolerance = math.Pi / 4

// Below this magnitude the combustion response is treated as zero and
// cannot drive an instability.
const responseFloor = 1e-12

// Response is the evaluated combustion dynamics of one engine at a single
// forcing frequency.
type Response struct {
	Omega      float64    // forcing frequency [rad/s]
	Transfer   complex128 // Crocco transfer value R(omega)
	Magnitude  float64    // |R| = 2n|sin(omega*tau/2)|
	Phase      float64    // arg R, wrapped to (-pi, pi]
	Admittance float64    // nozzle acoustic admittance [s/m]
	Rayleigh   int        // +1 driving (destabilizing), -1 otherwise
}

// EngineResponse evaluates the Crocco n-tau model for one engine.
type EngineResponse struct {
	Engine    cluster.Engine
	Tolerance float64 // in-phase band half-width [rad], 0 means RayleighTolerance
}

func NewEngineResponse(e cluster.Engine) *EngineResponse {
	return &EngineResponse{Engine: e, Tolerance: RayleighTolerance}
}

// Eval computes the full response record at omega. The engine is re-validated
// on entry so invalid parameters fail here, before any downstream use.
func (r *EngineResponse) Eval(omega float64) (Response, error) {
	if err := r.Engine.Validate(); err != nil {
		return Response{}, err
	}
	if omega < 0 || math.IsNaN(omega) || math.IsInf(omega, 0) {
		return Response{}, fmt.Errorf("%w: omega: must be finite and non-negative, got %g", cluster.ErrInvalidConfig, omega)
	}
	tol := r.Tolerance
	if tol <= 0 {
		tol = RayleighTolerance
	}
	tr := CroccoTransfer(r.Engine.Index, r.Engine.Lag, omega)
	return Response{
		Omega:      omega,
		Transfer:   tr,
		Magnitude:  CroccoMagnitude(r.Engine.Index, r.Engine.Lag, omega),
		Phase:      cmplx.Phase(tr),
		Admittance: NozzleAdmittance(r.Engine),
		Rayleigh:   RayleighSign(tr, tol),
	}, nil
}

// CroccoTransfer evaluates R(omega) = n*(1 - exp(-i*omega*tau)).
//
// At tau = 0 the response is identically zero: the exponential equals one and
// no limiting division is involved anywhere in the model.
func CroccoTransfer(index, lag, omega float64) complex128 {
	return complex(index, 0) * (1 - cmplx.Exp(complex(0, -omega*lag)))
}

// CroccoMagnitude is |R| in closed form: 2n|sin(omega*tau/2)|.
func CroccoMagnitude(index, lag, omega float64) float64 {
	return 2 * index * math.Abs(math.Sin(omega*lag/2))
}

// CroccoPhase is the wrapped phase angle of R(omega) in (-pi, pi].
func CroccoPhase(index, lag, omega float64) float64 {
	return cmplx.Phase(CroccoTransfer(index, lag, omega))
}

// RayleighSign classifies the phase relation between heat release and
// pressure oscillation: +1 (driving) when the response is non-zero and its
// phase lies inside the in-phase band, -1 otherwise. A vanishing response
// cannot drive and is always -1.
func RayleighSign(transfer complex128, tol float64) int {
	if cmplx.Abs(transfer) < responseFloor {
		return -1
	}
	if math.Abs(cmplx.Phase(transfer)) < tol {
		return 1
	}
	return -1
}

// PhaseMargin is the signed distance of the response phase from the edge of
// the in-phase band. Positive means non-driving. A vanishing response has
// the widest possible margin, pi - tol.
func PhaseMargin(transfer complex128, tol float64) float64 {
	if cmplx.Abs(transfer) < responseFloor {
		return math.Pi - tol
	}
	return math.Abs(cmplx.Phase(transfer)) - tol
}
