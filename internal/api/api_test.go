package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, w.Body.String())
	}
}

func TestRoot(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp RootResponse
	decodeBody(t, w, &resp)
	if resp.Version != Version {
		t.Errorf("version = %q", resp.Version)
	}
	if resp.Disclaimer == "" {
		t.Error("root response missing disclaimer")
	}
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestListEngines(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/engines", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var names []string
	decodeBody(t, w, &names)
	if len(names) != 4 {
		t.Errorf("engines = %v, want 4 entries", names)
	}
	found := false
	for _, n := range names {
		if n == "merlin_1d" {
			found = true
		}
	}
	if !found {
		t.Errorf("merlin_1d missing from %v", names)
	}
}

func TestGetEngine(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/engines/merlin_1d", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp EngineResponse
	decodeBody(t, w, &resp)
	if resp.Name != "Merlin 1D" {
		t.Errorf("name = %q", resp.Name)
	}
	if resp.ThrustSL != 845000 {
		t.Errorf("thrust_sl = %v", resp.ThrustSL)
	}
	if resp.FirstTangentialHz <= 0 {
		t.Errorf("first_tangential_hz = %v", resp.FirstTangentialHz)
	}
	if resp.Disclaimer == "" {
		t.Error("engine response missing disclaimer")
	}
}

func TestGetEngineFoldsName(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/engines/Raptor%202", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestUnknownEngine404(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/engines/rs_25", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp errorResponse
	decodeBody(t, w, &resp)
	if !strings.Contains(resp.Error, "available") || !strings.Contains(resp.Error, "merlin_1d") {
		t.Errorf("404 should list available presets, got %q", resp.Error)
	}
}

func TestGetCluster(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/clusters/super_heavy", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ClusterResponse
	decodeBody(t, w, &resp)
	if resp.TotalEngines != 33 {
		t.Errorf("total_engines = %d", resp.TotalEngines)
	}
	if len(resp.Rings) != 3 {
		t.Errorf("rings = %d", len(resp.Rings))
	}
	if resp.Rings[2].Engines != 20 {
		t.Errorf("outer ring engines = %d", resp.Rings[2].Engines)
	}
}

func TestListEnvironments(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/environments", "")
	var names []string
	decodeBody(t, w, &names)
	if len(names) != 2 {
		t.Errorf("environments = %v", names)
	}
}

func TestDampingSpectrumDefault(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/damping/spectrum", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp DampingSpectrumResponse
	decodeBody(t, w, &resp)
	if resp.NEngines != 20 {
		t.Errorf("n_engines = %d, want the Super Heavy outer ring", resp.NEngines)
	}
	if len(resp.Environments) != 2 {
		t.Fatalf("environments = %v", resp.Environments)
	}
	if len(resp.ZetaTotal) != 2 || len(resp.ZetaTotal[0]) != 20 {
		t.Fatalf("zeta_total shape wrong")
	}

	// The breathing mode keeps exactly the intrinsic plus absorption
	// damping in each environment.
	if got := resp.ZetaTotal[0][0]; math.Abs(got-0.068) > 1e-12 {
		t.Errorf("earth breathing mode zeta = %v, want 0.068", got)
	}
	if got := resp.ZetaTotal[1][0]; math.Abs(got-0.040) > 1e-12 {
		t.Errorf("vacuum breathing mode zeta = %v, want 0.040", got)
	}
	if resp.Disclaimer == "" {
		t.Error("missing disclaimer")
	}
}

func TestDampingSpectrumCustomRing(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/damping/spectrum", `{"cluster_name":"falcon_9","ring_index":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp DampingSpectrumResponse
	decodeBody(t, w, &resp)
	if resp.NEngines != 8 {
		t.Errorf("n_engines = %d, want the octaweb ring", resp.NEngines)
	}
}

func TestDampingSpectrumBadRing(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/damping/spectrum", `{"ring_index":99}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp errorResponse
	decodeBody(t, w, &resp)
	if !strings.Contains(resp.Error, "ring index") {
		t.Errorf("error should name the bad field, got %q", resp.Error)
	}
}

func TestDampingSpectrumUnknownCluster(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/damping/spectrum", `{"cluster_name":"new_glenn"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestStabilitySweepDefault(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/stability/sweep", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp StabilitySweepResponse
	decodeBody(t, w, &resp)
	if len(resp.Tau) != 500 {
		t.Errorf("tau samples = %d", len(resp.Tau))
	}
	if len(resp.NCrit) != 2 || len(resp.NCrit[0]) != 3 || len(resp.NCrit[0][0]) != 500 {
		t.Errorf("n_crit shape wrong")
	}
	if len(resp.Environments) != 2 {
		t.Errorf("environments = %v", resp.Environments)
	}
}

func TestStabilitySweepCustom(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/stability/sweep",
		`{"tau_min":0.0005,"tau_max":0.003,"frequencies":[50,100],"n_tau":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp StabilitySweepResponse
	decodeBody(t, w, &resp)
	if len(resp.Tau) != 100 {
		t.Errorf("tau samples = %d", len(resp.Tau))
	}
	if len(resp.Frequencies) != 2 {
		t.Errorf("frequencies = %v", resp.Frequencies)
	}
}

func TestStabilitySweepBadRange(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/stability/sweep", `{"tau_min":0.005,"tau_max":0.001}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStabilitySweepRejectsBadJSON(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/stability/sweep", `{"tau_min":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestParameterSweepDefault(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/stability/parameter", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp ParameterSweepResponse
	decodeBody(t, w, &resp)
	if resp.Parameter != "time_lag" {
		t.Errorf("parameter = %q", resp.Parameter)
	}
	if len(resp.Points) != 201 {
		t.Errorf("points = %d", len(resp.Points))
	}
	if resp.BoundaryFound != (len(resp.Crossings) > 0) {
		t.Error("boundary_found disagrees with crossings")
	}
	for _, p := range resp.Points {
		if math.IsNaN(p.Margin) || math.IsInf(p.Margin, 0) {
			t.Fatalf("margin not finite at value %v", p.Value)
		}
	}
}

func TestParameterSweepUnknownParameter(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/stability/parameter", `{"parameter":"mixture_ratio"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAmplificationSweepDefault(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/amplification/sweep", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp AmplificationSweepResponse
	decodeBody(t, w, &resp)
	if len(resp.NEngines) != 40 {
		t.Errorf("n_engines entries = %d", len(resp.NEngines))
	}
	if resp.Coherent[len(resp.Coherent)-1] != 40 {
		t.Errorf("coherent[last] = %v, want 40", resp.Coherent[len(resp.Coherent)-1])
	}
	if got := resp.Ratio[3]; math.Abs(got-2) > 1e-12 {
		t.Errorf("ratio at N=4 should be 2, got %v", got)
	}
}

func TestAmplificationSweepBadRange(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodPost, "/amplification/sweep", `{"n_min":5,"n_max":2}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPlots(t *testing.T) {
	s := testServer(t)
	for _, path := range []string{"/plots/damping", "/plots/stability", "/plots/amplification"} {
		w := do(t, s, http.MethodPost, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d, body %s", path, w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("%s content type = %q", path, ct)
		}
		if !strings.HasPrefix(w.Body.String(), "<?xml") {
			t.Errorf("%s body is not svg", path)
		}
		if w.Body.Len() < 1000 {
			t.Errorf("%s produced a trivial figure (%d bytes)", path, w.Body.Len())
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := testServer(t)
	w := do(t, s, http.MethodGet, "/damping/spectrum", "")
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}
