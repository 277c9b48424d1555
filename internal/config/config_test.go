package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine != "merlin_1d" {
		t.Errorf("default engine = %q, want merlin_1d", cfg.Engine)
	}
	if cfg.Cluster != "falcon_9" {
		t.Errorf("default cluster = %q, want falcon_9", cfg.Cluster)
	}
	if cfg.Sweep.Samples < 2 {
		t.Error("default sweep needs at least 2 samples")
	}
	if cfg.Amplify.Min < 1 || cfg.Amplify.Max < cfg.Amplify.Min {
		t.Errorf("default amplify range [%d, %d] is not usable", cfg.Amplify.Min, cfg.Amplify.Max)
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for _, name := range ListEngines() {
		e, err := EngineByName(name)
		if err != nil {
			t.Fatalf("engine %q: %v", name, err)
		}
		if err := e.Validate(); err != nil {
			t.Errorf("engine preset %q does not validate: %v", name, err)
		}
	}
	for _, name := range ListClusters() {
		c, err := ClusterByName(name)
		if err != nil {
			t.Fatalf("cluster %q: %v", name, err)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("cluster preset %q does not validate: %v", name, err)
		}
		if _, err := EngineByName(c.EngineName); err != nil {
			t.Errorf("cluster %q references unregistered engine %q", name, c.EngineName)
		}
	}
	for _, name := range ListEnvironments() {
		env, err := EnvironmentByName(name)
		if err != nil {
			t.Fatalf("environment %q: %v", name, err)
		}
		if err := env.Validate(); err != nil {
			t.Errorf("environment preset %q does not validate: %v", name, err)
		}
	}
}

func TestPresetGeometry(t *testing.T) {
	f9, err := ClusterByName("falcon_9")
	if err != nil {
		t.Fatal(err)
	}
	if f9.TotalEngines != 9 || len(f9.Rings) != 2 {
		t.Errorf("falcon_9: %d engines in %d rings, want 9 in 2", f9.TotalEngines, len(f9.Rings))
	}
	if f9.Rings[0].Engines != 1 || f9.Rings[0].Radius != 0 {
		t.Error("falcon_9 center engine missing")
	}
	if f9.Rings[1].Engines != 8 || f9.Rings[1].Radius != 1.35 {
		t.Error("falcon_9 octaweb ring wrong")
	}

	sh, err := ClusterByName("super_heavy")
	if err != nil {
		t.Fatal(err)
	}
	if sh.TotalEngines != 33 || len(sh.Rings) != 3 {
		t.Errorf("super_heavy: %d engines in %d rings, want 33 in 3", sh.TotalEngines, len(sh.Rings))
	}
	if sh.Rings[2].Engines != 20 || sh.Rings[2].Gimbaled {
		t.Error("super_heavy outer ring should be 20 fixed engines")
	}
	if sh.Rings[0].Cavity.Radius != 4.5 {
		t.Errorf("super_heavy cavity radius = %g, want 4.5", sh.Rings[0].Cavity.Radius)
	}
}

func TestLookupFoldsNames(t *testing.T) {
	a, err := ClusterByName("Falcon 9")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ClusterByName("FALCON_9")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != b.Name || a.TotalEngines != b.TotalEngines {
		t.Error("folded lookups resolved different presets")
	}

	if _, err := EngineByName("Merlin 1D"); err != nil {
		t.Errorf("display-name lookup failed: %v", err)
	}
}

func TestUnknownPresetListsAvailable(t *testing.T) {
	_, err := EngineByName("rd-180")
	if !errors.Is(err, cluster.ErrUnknownPreset) {
		t.Fatalf("err = %v, want ErrUnknownPreset", err)
	}
	for _, name := range ListEngines() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not list available engine %q: %v", name, err)
		}
	}

	if _, err := ClusterByName("n1"); !errors.Is(err, cluster.ErrUnknownPreset) {
		t.Error("unknown cluster accepted")
	}
	if _, err := EnvironmentByName("mars"); !errors.Is(err, cluster.ErrUnknownPreset) {
		t.Error("unknown environment accepted")
	}
}

func TestListsSorted(t *testing.T) {
	for _, list := range [][]string{ListEngines(), ListClusters(), ListEnvironments()} {
		if len(list) == 0 {
			t.Fatal("empty preset list")
		}
		if !sort.StringsAreSorted(list) {
			t.Errorf("list not sorted: %v", list)
		}
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")

	cfg := DefaultConfig()
	cfg.Cluster = "super_heavy"
	cfg.Frequency = 56.0
	cfg.Sweep = SweepConfig{Parameter: "interaction_index", From: 0.3, To: 2.0, Samples: 101}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cluster != "super_heavy" || got.Frequency != 56.0 {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Sweep.Parameter != "interaction_index" || got.Sweep.Samples != 101 {
		t.Errorf("round trip lost sweep block: %+v", got.Sweep)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("frequency: 135\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frequency != 135 {
		t.Errorf("frequency = %g, want 135", cfg.Frequency)
	}
	if cfg.Engine != DefaultEngine || cfg.Cluster != DefaultCluster {
		t.Error("partial file clobbered defaults")
	}
	if cfg.Amplify.Max != DefaultAmplifyMax {
		t.Error("partial file clobbered amplify defaults")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file did not error")
	}
}

func TestSweepRangeSubstitution(t *testing.T) {
	e, err := EngineByName("merlin_1d")
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	from, to := cfg.SweepRange(e)
	if from != e.LagRng[0] || to != e.LagRng[1] {
		t.Errorf("lag sweep range [%g, %g], want published [%g, %g]", from, to, e.LagRng[0], e.LagRng[1])
	}

	cfg.Sweep.Parameter = "interaction_index"
	from, to = cfg.SweepRange(e)
	if from != e.IndexRng[0] || to != e.IndexRng[1] {
		t.Errorf("index sweep range [%g, %g], want published [%g, %g]", from, to, e.IndexRng[0], e.IndexRng[1])
	}

	cfg.Sweep.From, cfg.Sweep.To = 1e-3, 2e-3
	if from, to = cfg.SweepRange(e); from != 1e-3 || to != 2e-3 {
		t.Errorf("explicit range not honored: [%g, %g]", from, to)
	}
}

func TestGetDamping(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetDamping(); got != cluster.DefaultDamping() {
		t.Errorf("zero override should give the reference budget, got %+v", got)
	}

	cfg.Damping = DampingConfig{Internal: 0.01, Nozzle: 0.01, Feed: 0.001, CouplingMax: 0.05}
	got := cfg.GetDamping()
	if got.Internal != 0.01 || got.CouplingMax != 0.05 {
		t.Errorf("override not applied: %+v", got)
	}
}
