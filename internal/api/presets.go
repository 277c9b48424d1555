package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/afgany/rocket-clusters-dynamics/internal/config"
)

func (s *Server) handleListEngines(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, config.ListEngines())
}

func (s *Server) handleGetEngine(w http.ResponseWriter, r *http.Request) {
	e, err := config.EngineByName(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, engineResponse(e))
}

func (s *Server) handleListClusters(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, config.ListClusters())
}

func (s *Server) handleGetCluster(w http.ResponseWriter, r *http.Request) {
	c, err := config.ClusterByName(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, clusterResponse(c))
}

func (s *Server) handleListEnvironments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, config.ListEnvironments())
}

func (s *Server) handleGetEnvironment(w http.ResponseWriter, r *http.Request) {
	env, err := config.EnvironmentByName(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, environmentResponse(env))
}
