package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/afgany/rocket-clusters-dynamics/internal/analysis"
	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/config"
	"github.com/afgany/rocket-clusters-dynamics/internal/metrics"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
)

// defaultCouplingGain is the unit gain of the classic boundary map; the
// map is normalized to the absorption coefficients.
const defaultCouplingGain = 1.0

func (s *Server) runDampingSpectrum(r *http.Request) (*analysis.EnvironmentComparison, error) {
	req := defaultDampingSpectrumRequest()
	if err := decode(r, &req); err != nil {
		return nil, err
	}

	cl, err := config.ClusterByName(req.ClusterName)
	if err != nil {
		return nil, err
	}
	if req.RingIndex < 0 || req.RingIndex >= len(cl.Rings) {
		return nil, fmt.Errorf("%w: ring index %d out of range, cluster %q has %d rings",
			cluster.ErrInvalidConfig, req.RingIndex, cl.Name, len(cl.Rings))
	}
	e, err := config.EngineByName(cl.EngineName)
	if err != nil {
		return nil, err
	}
	envs, err := bothEnvironments()
	if err != nil {
		return nil, err
	}

	omega := analysis.ForcingFrequency(e, req.FrequencyHz)
	start := time.Now()
	cmp, err := analysis.CompareEnvironments(r.Context(), e, cl.Rings[req.RingIndex], envs, cluster.DefaultDamping(), omega)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAnalysis("damping", time.Since(start))
	for i, env := range cmp.Environments {
		metrics.SetBreathingZeta(env, cmp.Zeta[i][0])
	}
	return cmp, nil
}

func (s *Server) handleDampingSpectrum(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.runDampingSpectrum(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	indices := make([]int, cmp.Engines)
	for i := range indices {
		indices[i] = i
	}
	s.writeJSON(w, http.StatusOK, DampingSpectrumResponse{
		ModeIndices:  indices,
		ZetaTotal:    cmp.Zeta,
		ModeFreqs:    cmp.Frequencies,
		MinZeta:      cmp.MinZeta,
		NEngines:     cmp.Engines,
		Environments: cmp.Environments,
		Disclaimer:   analysisDisclaimer,
	})
}

func (s *Server) runStabilitySweep(r *http.Request) (*physics.BoundaryMap, error) {
	req := defaultStabilitySweepRequest()
	if err := decode(r, &req); err != nil {
		return nil, err
	}

	start := time.Now()
	bm, err := physics.SweepBoundaryMap(req.TauMin, req.TauMax, req.Frequencies,
		req.AlphaEarth, req.AlphaVacuum, req.NTau, defaultCouplingGain)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAnalysis("stability", time.Since(start))
	return bm, nil
}

func (s *Server) handleStabilitySweep(w http.ResponseWriter, r *http.Request) {
	bm, err := s.runStabilitySweep(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StabilitySweepResponse{
		Tau:          bm.Tau,
		NCrit:        bm.NCrit,
		Frequencies:  bm.Frequencies,
		Environments: bm.Environments,
		Disclaimer:   analysisDisclaimer,
	})
}

func (s *Server) handleParameterSweep(w http.ResponseWriter, r *http.Request) {
	req := defaultParameterSweepRequest()
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	cl, err := config.ClusterByName(req.ClusterName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.RingIndex < 0 || req.RingIndex >= len(cl.Rings) {
		s.writeError(w, fmt.Errorf("%w: ring index %d out of range, cluster %q has %d rings",
			cluster.ErrInvalidConfig, req.RingIndex, cl.Name, len(cl.Rings)))
		return
	}
	e, err := config.EngineByName(cl.EngineName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	env, err := config.EnvironmentByName(req.Environment)
	if err != nil {
		s.writeError(w, err)
		return
	}

	cfg := config.Config{Sweep: config.SweepConfig{Parameter: req.Parameter, From: req.From, To: req.To}}
	from, to := cfg.SweepRange(e)
	spec := physics.SweepSpec{
		Parameter: physics.Parameter(req.Parameter),
		From:      from,
		To:        to,
		Samples:   req.Samples,
		Omega:     analysis.ForcingFrequency(e, req.FrequencyHz),
	}

	start := time.Now()
	res, err := physics.SweepParameter(e, cl.Rings[req.RingIndex], env, cluster.DefaultDamping(), spec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	metrics.ObserveAnalysis("parameter_sweep", time.Since(start))
	metrics.SetSweepCrossings(len(res.Crossings))

	resp := ParameterSweepResponse{
		Parameter:     string(res.Parameter),
		Points:        make([]SweepPointResponse, len(res.Points)),
		Crossings:     make([]CrossingResponse, len(res.Crossings)),
		BoundaryFound: res.BoundaryFound,
		NarrowedLow:   res.NarrowedLow,
		NarrowedHigh:  res.NarrowedHigh,
		Disclaimer:    analysisDisclaimer,
	}
	for i, p := range res.Points {
		resp.Points[i] = SweepPointResponse{Value: p.Value, Margin: p.Margin, Stable: p.Stable}
	}
	for i, c := range res.Crossings {
		resp.Crossings[i] = CrossingResponse{Value: c.Value, FromStable: c.FromStable}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) runAmplificationSweep(r *http.Request) (*physics.AmplificationResult, error) {
	req := defaultAmplificationSweepRequest()
	if err := decode(r, &req); err != nil {
		return nil, err
	}

	earth, err := config.EnvironmentByName("earth_sl")
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := physics.AmplificationSweep(req.NMin, req.NMax, req.Amplitude, cluster.DefaultDamping(), earth.AtmosphericZeta)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAnalysis("amplification", time.Since(start))
	return res, nil
}

func (s *Server) handleAmplificationSweep(w http.ResponseWriter, r *http.Request) {
	res, err := s.runAmplificationSweep(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, AmplificationSweepResponse{
		NEngines:      res.Counts,
		Coherent:      res.Coherent,
		Incoherent:    res.Incoherent,
		Ratio:         res.Ratio,
		MarginPercent: res.MarginPercent,
		Disclaimer:    analysisDisclaimer,
	})
}

func bothEnvironments() ([]cluster.Environment, error) {
	earth, err := config.EnvironmentByName("earth_sl")
	if err != nil {
		return nil, err
	}
	vac, err := config.EnvironmentByName("lunar_vacuum")
	if err != nil {
		return nil, err
	}
	return []cluster.Environment{earth, vac}, nil
}
