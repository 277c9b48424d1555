package cluster

import (
	"errors"
	"math"
	"testing"
)

func validEngine() Engine {
	return Engine{
		Name:               "test",
		ChamberPressure:    97e5,
		ChamberDiameter:    0.36,
		ThroatDiameter:     0.23,
		NozzleExitDiameter: 0.92,
		ExpansionRatio:     16.0,
		Mass:               470.0,
		Gamma:              1.25,
		SoundSpeed:         1240.0,
		Cycle:              GasGenerator,
		Index:              1.0,
		Lag:                1e-3,
	}
}

func TestEngineValidate(t *testing.T) {
	if err := validEngine().Validate(); err != nil {
		t.Fatalf("valid engine rejected: %v", err)
	}
}

func TestEngineValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Engine)
	}{
		{"negative lag", func(e *Engine) { e.Lag = -1e-3 }},
		{"negative index", func(e *Engine) { e.Index = -0.5 }},
		{"zero pressure", func(e *Engine) { e.ChamberPressure = 0 }},
		{"negative pressure", func(e *Engine) { e.ChamberPressure = -1 }},
		{"zero chamber diameter", func(e *Engine) { e.ChamberDiameter = 0 }},
		{"zero throat", func(e *Engine) { e.ThroatDiameter = 0 }},
		{"zero exit diameter", func(e *Engine) { e.NozzleExitDiameter = 0 }},
		{"expansion below one", func(e *Engine) { e.ExpansionRatio = 0.5 }},
		{"zero mass", func(e *Engine) { e.Mass = 0 }},
		{"gamma at one", func(e *Engine) { e.Gamma = 1.0 }},
		{"zero sound speed", func(e *Engine) { e.SoundSpeed = 0 }},
	}

	for _, tt := range tests {
		e := validEngine()
		tt.mutate(&e)
		err := e.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tt.name)
			continue
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: error %v is not ErrInvalidConfig", tt.name, err)
		}
	}
}

func TestEngineWith(t *testing.T) {
	e := validEngine()
	e2 := e.WithLag(2e-3)
	if e.Lag != 1e-3 {
		t.Error("WithLag mutated the original")
	}
	if e2.Lag != 2e-3 {
		t.Errorf("expected lag 2e-3, got %g", e2.Lag)
	}
	if e2.ChamberPressure != e.ChamberPressure {
		t.Error("WithLag changed an unrelated field")
	}
	if e.WithIndex(2.5).Index != 2.5 {
		t.Error("WithIndex did not substitute")
	}
	if e.WithChamberPressure(300e5).ChamberPressure != 300e5 {
		t.Error("WithChamberPressure did not substitute")
	}
}

func testCavity() Cavity {
	return Cavity{Radius: 1.83, SoundSpeed: 843.0, Q: 10.0}
}

func TestRingAngles(t *testing.T) {
	r := Ring{Engines: 4, Radius: 1.35, Cavity: testCavity()}
	angles := r.Angles()
	if len(angles) != 4 {
		t.Fatalf("expected 4 angles, got %d", len(angles))
	}
	for k, a := range angles {
		want := 2 * math.Pi * float64(k) / 4
		if math.Abs(a-want) > 1e-12 {
			t.Errorf("angle[%d] = %g, want %g", k, a, want)
		}
	}
}

func TestRingSeparation(t *testing.T) {
	r := Ring{Engines: 4, Radius: 2.0, Cavity: testCavity()}
	// Opposite engines sit a diameter apart.
	if d := r.Separation(2); math.Abs(d-4.0) > 1e-12 {
		t.Errorf("separation(2) = %g, want 4", d)
	}
	// Symmetric in index separation: d(k) == d(N-k).
	if math.Abs(r.Separation(1)-r.Separation(3)) > 1e-12 {
		t.Error("separation not symmetric in k and N-k")
	}
	// Single engine has no neighbor.
	single := Ring{Engines: 1, Radius: 0, Cavity: testCavity()}
	if single.Separation(0) != 0 {
		t.Error("single-engine separation should be 0")
	}
}

func TestRingValidate(t *testing.T) {
	good := Ring{Engines: 20, Radius: 4.0, Cavity: testCavity()}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid ring rejected: %v", err)
	}

	bad := []Ring{
		{Engines: 0, Radius: 1.0, Cavity: testCavity()},
		{Engines: -3, Radius: 1.0, Cavity: testCavity()},
		{Engines: 8, Radius: 0, Cavity: testCavity()},
		{Engines: 8, Radius: -1.0, Cavity: testCavity()},
		{Engines: 8, Radius: 1.35, Cavity: Cavity{Radius: 0, SoundSpeed: 843, Q: 10}},
		{Engines: 8, Radius: 1.35, Cavity: Cavity{Radius: 1.83, SoundSpeed: 843, Q: 0}},
	}
	for i, r := range bad {
		if err := r.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ring %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}

	// A lone center engine at radius 0 is legal.
	center := Ring{Engines: 1, Radius: 0, Cavity: testCavity()}
	if err := center.Validate(); err != nil {
		t.Errorf("center engine rejected: %v", err)
	}
}

func TestClusterValidate(t *testing.T) {
	c := Cluster{
		Name:         "test stage",
		EngineName:   "test",
		TotalEngines: 9,
		BaseDiameter: 3.66,
		Rings: []Ring{
			{Engines: 1, Radius: 0, Cavity: testCavity()},
			{Engines: 8, Radius: 1.35, Cavity: testCavity()},
		},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("valid cluster rejected: %v", err)
	}

	c.TotalEngines = 10
	if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("mismatched total accepted: %v", err)
	}

	empty := Cluster{Name: "empty", BaseDiameter: 9.0}
	if err := empty.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Error("cluster with no rings accepted")
	}
}

func TestEnvironmentAbsorption(t *testing.T) {
	sea := Environment{Name: "earth_sl", AmbientPressure: 101325, Temperature: 288.15, AcousticImpedance: 420, AtmosphericZeta: 0.028}
	vac := Environment{Name: "lunar_vacuum", Vacuum: true}

	if err := sea.Validate(); err != nil {
		t.Fatalf("sea-level environment rejected: %v", err)
	}
	if err := vac.Validate(); err != nil {
		t.Fatalf("vacuum environment rejected: %v", err)
	}
	if got := sea.AbsorptionZeta(); got != 0.028 {
		t.Errorf("sea-level absorption = %g, want 0.028", got)
	}
	if got := vac.AbsorptionZeta(); got != 0 {
		t.Errorf("vacuum absorption = %g, want 0", got)
	}

	inconsistent := Environment{Name: "bad", Vacuum: true, AtmosphericZeta: 0.01}
	if err := inconsistent.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Error("vacuum with atmospheric damping accepted")
	}
}

func TestDampingIntrinsic(t *testing.T) {
	d := DefaultDamping()
	want := 0.015 + 0.020 + 0.005
	if math.Abs(d.Intrinsic()-want) > 1e-15 {
		t.Errorf("intrinsic = %g, want %g", d.Intrinsic(), want)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("default damping rejected: %v", err)
	}
	d.Feed = -0.1
	if err := d.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Error("negative feed damping accepted")
	}
}
