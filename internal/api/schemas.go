package api

import (
	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
)

// Request records carry their defaults as initial values; decoding a
// request body overwrites only the fields the client actually sent, so an
// empty POST body runs the reference case.

type DampingSpectrumRequest struct {
	ClusterName string  `json:"cluster_name"`
	RingIndex   int     `json:"ring_index"`
	FrequencyHz float64 `json:"frequency_hz"` // 0 = engine first tangential mode
}

func defaultDampingSpectrumRequest() DampingSpectrumRequest {
	// Reference case: the 20-engine outer ring of the largest cluster.
	return DampingSpectrumRequest{ClusterName: "super_heavy", RingIndex: 2}
}

type StabilitySweepRequest struct {
	TauMin      float64   `json:"tau_min"`
	TauMax      float64   `json:"tau_max"`
	Frequencies []float64 `json:"frequencies"`
	AlphaEarth  float64   `json:"alpha_earth"`
	AlphaVacuum float64   `json:"alpha_vacuum"`
	NTau        int       `json:"n_tau"`
}

func defaultStabilitySweepRequest() StabilitySweepRequest {
	return StabilitySweepRequest{
		TauMin:      0.1e-3,
		TauMax:      5.0e-3,
		Frequencies: append([]float64(nil), physics.DefaultMapFrequencies...),
		AlphaEarth:  physics.AlphaEarth,
		AlphaVacuum: physics.AlphaVacuum,
		NTau:        500,
	}
}

type ParameterSweepRequest struct {
	ClusterName string  `json:"cluster_name"`
	RingIndex   int     `json:"ring_index"`
	Environment string  `json:"environment"`
	Parameter   string  `json:"parameter"`
	From        float64 `json:"from"` // both zero sweeps the published range
	To          float64 `json:"to"`
	Samples     int     `json:"samples"`
	FrequencyHz float64 `json:"frequency_hz"`
}

func defaultParameterSweepRequest() ParameterSweepRequest {
	return ParameterSweepRequest{
		ClusterName: "falcon_9",
		RingIndex:   1,
		Environment: "earth_sl",
		Parameter:   string(physics.ParamLag),
		Samples:     201,
	}
}

type AmplificationSweepRequest struct {
	NMin      int     `json:"n_min"`
	NMax      int     `json:"n_max"`
	Amplitude float64 `json:"amplitude"`
}

func defaultAmplificationSweepRequest() AmplificationSweepRequest {
	return AmplificationSweepRequest{NMin: 1, NMax: 40, Amplitude: 1.0}
}

// Response records. Every analytical response repeats the model
// disclaimer so a stored or forwarded payload keeps its caveat.

type RootResponse struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Disclaimer string `json:"disclaimer"`
}

type CavityResponse struct {
	Radius     float64 `json:"radius"`
	SoundSpeed float64 `json:"sound_speed"`
	Q          float64 `json:"q"`
}

type RingResponse struct {
	Engines       int            `json:"engines"`
	Radius        float64        `json:"radius"`
	SymmetryGroup string         `json:"symmetry_group"`
	Gimbaled      bool           `json:"gimbaled"`
	Cavity        CavityResponse `json:"cavity"`
}

type EngineResponse struct {
	Name               string     `json:"name"`
	ThrustSL           float64    `json:"thrust_sl,omitempty"`
	ThrustVac          float64    `json:"thrust_vac,omitempty"`
	ChamberPressure    float64    `json:"chamber_pressure"`
	ChamberDiameter    float64    `json:"chamber_diameter"`
	ThroatDiameter     float64    `json:"throat_diameter"`
	NozzleExitDiameter float64    `json:"nozzle_exit_diameter"`
	ExpansionRatio     float64    `json:"expansion_ratio"`
	Mass               float64    `json:"mass"`
	Gamma              float64    `json:"gamma"`
	SoundSpeed         float64    `json:"sound_speed"`
	InjectorType       string     `json:"injector_type"`
	Cycle              string     `json:"cycle"`
	InteractionIndex   float64    `json:"interaction_index"`
	TimeLag            float64    `json:"time_lag"`
	IndexRange         [2]float64 `json:"index_range"`
	LagRange           [2]float64 `json:"lag_range"`
	FirstTangentialHz  float64    `json:"first_tangential_hz"`
	Disclaimer         string     `json:"disclaimer"`
}

type ClusterResponse struct {
	Name         string         `json:"name"`
	EngineName   string         `json:"engine_name"`
	TotalEngines int            `json:"total_engines"`
	BaseDiameter float64        `json:"base_diameter"`
	Rings        []RingResponse `json:"rings"`
	Disclaimer   string         `json:"disclaimer"`
}

type EnvironmentResponse struct {
	Name              string  `json:"name"`
	AmbientPressure   float64 `json:"ambient_pressure"`
	Temperature       float64 `json:"temperature"`
	AcousticImpedance float64 `json:"acoustic_impedance"`
	AtmosphericZeta   float64 `json:"atmospheric_zeta"`
	Vacuum            bool    `json:"vacuum"`
	Disclaimer        string  `json:"disclaimer"`
}

type DampingSpectrumResponse struct {
	ModeIndices  []int       `json:"mode_indices"`
	ZetaTotal    [][]float64 `json:"zeta_total"`   // indexed [environment][mode]
	ModeFreqs    [][]float64 `json:"mode_freqs"`   // [Hz], same indexing
	MinZeta      []float64   `json:"min_zeta"`     // per environment
	NEngines     int         `json:"n_engines"`
	Environments []string    `json:"environments"`
	Disclaimer   string      `json:"disclaimer"`
}

type StabilitySweepResponse struct {
	Tau          []float64     `json:"tau"`
	NCrit        [][][]float64 `json:"n_crit"` // indexed [env][freq][tau]
	Frequencies  []float64     `json:"frequencies"`
	Environments []string      `json:"environments"`
	Disclaimer   string        `json:"disclaimer"`
}

type SweepPointResponse struct {
	Value  float64 `json:"value"`
	Margin float64 `json:"margin"`
	Stable bool    `json:"stable"`
}

type CrossingResponse struct {
	Value      float64 `json:"value"`
	FromStable bool    `json:"from_stable"`
}

type ParameterSweepResponse struct {
	Parameter     string               `json:"parameter"`
	Points        []SweepPointResponse `json:"points"`
	Crossings     []CrossingResponse   `json:"crossings"`
	BoundaryFound bool                 `json:"boundary_found"`
	NarrowedLow   int                  `json:"narrowed_low,omitempty"`
	NarrowedHigh  int                  `json:"narrowed_high,omitempty"`
	Disclaimer    string               `json:"disclaimer"`
}

type AmplificationSweepResponse struct {
	NEngines      []int     `json:"n_engines"`
	Coherent      []float64 `json:"coherent"`
	Incoherent    []float64 `json:"incoherent"`
	Ratio         []float64 `json:"ratio"`
	MarginPercent []float64 `json:"damping_margin_percent"`
	Disclaimer    string    `json:"disclaimer"`
}

func engineResponse(e cluster.Engine) EngineResponse {
	return EngineResponse{
		Name:               e.Name,
		ThrustSL:           e.ThrustSL,
		ThrustVac:          e.ThrustVac,
		ChamberPressure:    e.ChamberPressure,
		ChamberDiameter:    e.ChamberDiameter,
		ThroatDiameter:     e.ThroatDiameter,
		NozzleExitDiameter: e.NozzleExitDiameter,
		ExpansionRatio:     e.ExpansionRatio,
		Mass:               e.Mass,
		Gamma:              e.Gamma,
		SoundSpeed:         e.SoundSpeed,
		InjectorType:       e.InjectorType,
		Cycle:              string(e.Cycle),
		InteractionIndex:   e.Index,
		TimeLag:            e.Lag,
		IndexRange:         e.IndexRng,
		LagRange:           e.LagRng,
		FirstTangentialHz:  physics.ChamberModes(e).FirstTangential,
		Disclaimer:         analysisDisclaimer,
	}
}

func clusterResponse(c cluster.Cluster) ClusterResponse {
	rings := make([]RingResponse, len(c.Rings))
	for i, r := range c.Rings {
		rings[i] = RingResponse{
			Engines:       r.Engines,
			Radius:        r.Radius,
			SymmetryGroup: r.SymmetryGroup,
			Gimbaled:      r.Gimbaled,
			Cavity: CavityResponse{
				Radius:     r.Cavity.Radius,
				SoundSpeed: r.Cavity.SoundSpeed,
				Q:          r.Cavity.Q,
			},
		}
	}
	return ClusterResponse{
		Name:         c.Name,
		EngineName:   c.EngineName,
		TotalEngines: c.TotalEngines,
		BaseDiameter: c.BaseDiameter,
		Rings:        rings,
		Disclaimer:   analysisDisclaimer,
	}
}

func environmentResponse(e cluster.Environment) EnvironmentResponse {
	return EnvironmentResponse{
		Name:              e.Name,
		AmbientPressure:   e.AmbientPressure,
		Temperature:       e.Temperature,
		AcousticImpedance: e.AcousticImpedance,
		AtmosphericZeta:   e.AtmosphericZeta,
		Vacuum:            e.Vacuum,
		Disclaimer:        analysisDisclaimer,
	}
}
