package api

import (
	"net/http"

	"github.com/afgany/rocket-clusters-dynamics/internal/export"
)

// plotZetaCrit is the reference critical damping level drawn on the
// spectrum figure.
const plotZetaCrit = 0.035

func (s *Server) handlePlotDamping(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.runDampingSpectrum(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSVG(w, export.DampingSpectrumSVG(cmp.Zeta, cmp.Environments, plotZetaCrit, export.DefaultStyle()))
}

func (s *Server) handlePlotStability(w http.ResponseWriter, r *http.Request) {
	bm, err := s.runStabilitySweep(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSVG(w, export.BoundaryMapSVG(bm, export.DefaultStyle()))
}

func (s *Server) handlePlotAmplification(w http.ResponseWriter, r *http.Request) {
	res, err := s.runAmplificationSweep(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSVG(w, export.AmplificationSVG(res, export.DefaultStyle()))
}
