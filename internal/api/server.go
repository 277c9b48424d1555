package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/afgany/rocket-clusters-dynamics/internal/analysis"
	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/metrics"
)

const Version = "1.0.0"

const analysisDisclaimer = analysis.Disclaimer

// Server is the REST front end for the resonance analysis pipeline. All
// state lives in the preset tables; handlers are safe for concurrent use.
type Server struct {
	log    *slog.Logger
	router *mux.Router
}

func NewServer(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{log: log, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.instrument)

	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.router.HandleFunc("/engines", s.handleListEngines).Methods(http.MethodGet)
	s.router.HandleFunc("/engines/{name}", s.handleGetEngine).Methods(http.MethodGet)
	s.router.HandleFunc("/clusters", s.handleListClusters).Methods(http.MethodGet)
	s.router.HandleFunc("/clusters/{name}", s.handleGetCluster).Methods(http.MethodGet)
	s.router.HandleFunc("/environments", s.handleListEnvironments).Methods(http.MethodGet)
	s.router.HandleFunc("/environments/{name}", s.handleGetEnvironment).Methods(http.MethodGet)

	s.router.HandleFunc("/damping/spectrum", s.handleDampingSpectrum).Methods(http.MethodPost)
	s.router.HandleFunc("/stability/sweep", s.handleStabilitySweep).Methods(http.MethodPost)
	s.router.HandleFunc("/stability/parameter", s.handleParameterSweep).Methods(http.MethodPost)
	s.router.HandleFunc("/amplification/sweep", s.handleAmplificationSweep).Methods(http.MethodPost)

	s.router.HandleFunc("/plots/damping", s.handlePlotDamping).Methods(http.MethodPost)
	s.router.HandleFunc("/plots/stability", s.handlePlotStability).Methods(http.MethodPost)
	s.router.HandleFunc("/plots/amplification", s.handlePlotAmplification).Methods(http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusRecorder captures the response code for the request log and the
// per-route counter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.ObserveRequest(route, rec.status)
		s.log.Info("request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, RootResponse{
		Name:       "rocket-clusters-dynamics",
		Version:    Version,
		Disclaimer: analysisDisclaimer,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "err", err)
	}
}

func (s *Server) writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, svg); err != nil {
		s.log.Error("write svg", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps pipeline errors onto HTTP statuses. The error text
// already names the offending field and its constraint, or the list of
// available presets; no numeric payload accompanies a failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cluster.ErrUnknownPreset):
		status = http.StatusNotFound
	case errors.Is(err, cluster.ErrInvalidConfig), errors.Is(err, cluster.ErrDegenerate):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decode fills v from the request body. An empty body leaves the defaults
// already present in v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: request body: %v", cluster.ErrInvalidConfig, err)
}
