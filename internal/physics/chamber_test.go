package physics

import (
	"math"
	"testing"
)

func TestChamberModes(t *testing.T) {
	m := ChamberModes(merlinLike())
	// f_1T = 1.8412 * 1240 / (pi * 0.36) ~ 2018 Hz
	want1T := 1.8412 * 1240.0 / (math.Pi * 0.36)
	if math.Abs(m.FirstTangential-want1T) > 1e-9 {
		t.Errorf("f_1T = %g, want %g", m.FirstTangential, want1T)
	}
	if m.SecondTangential <= m.FirstTangential {
		t.Errorf("f_2T = %g should exceed f_1T = %g", m.SecondTangential, m.FirstTangential)
	}
	// f_1L = c/(2D) ~ 1722 Hz, below the first tangential for this geometry.
	want1L := 1240.0 / (2 * 0.36)
	if math.Abs(m.FirstLongitudinal-want1L) > 1e-9 {
		t.Errorf("f_1L = %g, want %g", m.FirstLongitudinal, want1L)
	}
}

func TestNaturalFrequency(t *testing.T) {
	e := merlinLike()
	got := NaturalFrequency(e)
	want := 2 * math.Pi * ChamberModes(e).FirstTangential
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("omega_0 = %g, want 2*pi*f_1T = %g", got, want)
	}
}

func TestEngineStiffness(t *testing.T) {
	e := merlinLike()
	omega := 1.8412 * e.SoundSpeed / e.ChamberDiameter
	want := e.Mass * omega * omega
	if got := EngineStiffness(e); math.Abs(got-want)/want > 1e-12 {
		t.Errorf("stiffness = %g, want %g", got, want)
	}
}

func TestNozzleAdmittance(t *testing.T) {
	e := merlinLike()
	got := NozzleAdmittance(e)
	if got <= 0 {
		t.Fatalf("admittance = %g, want positive", got)
	}
	rho := e.Gamma * e.ChamberPressure / (e.SoundSpeed * e.SoundSpeed)
	want := (e.Gamma + 1) / 2 * 0.4 / (rho * e.SoundSpeed)
	if math.Abs(got-want)/want > 1e-12 {
		t.Errorf("admittance = %g, want %g", got, want)
	}
	// Higher chamber pressure means denser gas and a smaller admittance.
	dense := NozzleAdmittance(e.WithChamberPressure(300e5))
	if dense >= got {
		t.Errorf("admittance did not fall with pressure: %g -> %g", got, dense)
	}
}
