package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// Preset registries, derived from published vehicle data. Read-only after
// init; parametric studies copy and substitute rather than mutate.

var engines = map[string]cluster.Engine{
	"merlin_1d": {
		Name:               "Merlin 1D",
		ThrustSL:           845e3,
		ThrustVac:          914e3,
		ChamberPressure:    97e5,
		ChamberDiameter:    0.36,
		ThroatDiameter:     0.23,
		NozzleExitDiameter: 0.92,
		ExpansionRatio:     16.0,
		Mass:               470.0,
		Gamma:              1.25,
		SoundSpeed:         1240.0, // RP-1/LOX at ~3400 K
		InjectorType:       "pintle",
		Cycle:              cluster.GasGenerator,
		Index:              1.75,
		Lag:                2.75e-3,
		IndexRng:           [2]float64{0.5, 3.0},
		LagRng:             [2]float64{0.5e-3, 5.0e-3},
	},
	"raptor_2": {
		Name:               "Raptor 2",
		ThrustSL:           2256e3,
		ChamberPressure:    300e5,
		ChamberDiameter:    0.42,
		ThroatDiameter:     0.23,
		NozzleExitDiameter: 1.3,
		ExpansionRatio:     33.0,
		Mass:               1630.0,
		Gamma:              1.25,
		SoundSpeed:         1310.0, // CH4/LOX at ~3600 K
		InjectorType:       "coaxial_swirl",
		Cycle:              cluster.FullFlow,
		Index:              1.15,
		Lag:                1.1e-3,
		IndexRng:           [2]float64{0.3, 2.0},
		LagRng:             [2]float64{0.2e-3, 2.0e-3},
	},
	"raptor_3": {
		Name:               "Raptor 3",
		ThrustSL:           2747e3,
		ChamberPressure:    350e5,
		ChamberDiameter:    0.42,
		ThroatDiameter:     0.22,
		NozzleExitDiameter: 1.3,
		ExpansionRatio:     36.0,
		Mass:               1525.0,
		Gamma:              1.25,
		SoundSpeed:         1310.0,
		InjectorType:       "coaxial_swirl",
		Cycle:              cluster.FullFlow,
		Index:              1.15,
		Lag:                1.1e-3,
		IndexRng:           [2]float64{0.3, 2.0},
		LagRng:             [2]float64{0.2e-3, 2.0e-3},
	},
	"rvac_2": {
		Name:               "RVac 2",
		ThrustVac:          2530e3,
		ChamberPressure:    300e5,
		ChamberDiameter:    0.42,
		ThroatDiameter:     0.26,
		NozzleExitDiameter: 2.4,
		ExpansionRatio:     85.0,
		Mass:               1700.0,
		Gamma:              1.25,
		SoundSpeed:         1310.0,
		InjectorType:       "coaxial_swirl",
		Cycle:              cluster.FullFlow,
		Index:              1.15,
		Lag:                1.1e-3,
		IndexRng:           [2]float64{0.3, 2.0},
		LagRng:             [2]float64{0.2e-3, 2.0e-3},
	},
}

// Base cavities. The recirculation-zone sound speed is calibrated so the
// first tangential mode lands on the published frequency: ~135 Hz for a
// Falcon-scale base, ~56 Hz for a Starship-scale base.
var (
	falconCavity   = cluster.Cavity{Radius: 1.83, SoundSpeed: 843.0, Q: 10}
	starshipCavity = cluster.Cavity{Radius: 4.5, SoundSpeed: 860.0, Q: 10}
)

var clusters = map[string]cluster.Cluster{
	"falcon_9": {
		Name:         "Falcon 9",
		EngineName:   "merlin_1d",
		TotalEngines: 9,
		BaseDiameter: 3.66,
		Rings: []cluster.Ring{
			{Engines: 1, Radius: 0.0, SymmetryGroup: "C1", Gimbaled: true, Cavity: falconCavity},
			{Engines: 8, Radius: 1.35, SymmetryGroup: "D8", Gimbaled: true, Cavity: falconCavity},
		},
	},
	// Three cores side by side, each a full 1+8 octaweb with its own base
	// cavity; the model has no cross-ring pathway, so the cores stay
	// independent.
	"falcon_heavy": {
		Name:         "Falcon Heavy",
		EngineName:   "merlin_1d",
		TotalEngines: 27,
		BaseDiameter: 12.2,
		Rings: []cluster.Ring{
			{Engines: 1, Radius: 0.0, SymmetryGroup: "C1", Gimbaled: true, Cavity: falconCavity},
			{Engines: 8, Radius: 1.35, SymmetryGroup: "D8", Gimbaled: true, Cavity: falconCavity},
			{Engines: 1, Radius: 0.0, SymmetryGroup: "C1", Gimbaled: true, Cavity: falconCavity},
			{Engines: 8, Radius: 1.35, SymmetryGroup: "D8", Gimbaled: true, Cavity: falconCavity},
			{Engines: 1, Radius: 0.0, SymmetryGroup: "C1", Gimbaled: true, Cavity: falconCavity},
			{Engines: 8, Radius: 1.35, SymmetryGroup: "D8", Gimbaled: true, Cavity: falconCavity},
		},
	},
	"super_heavy": {
		Name:         "Super Heavy",
		EngineName:   "raptor_2",
		TotalEngines: 33,
		BaseDiameter: 9.0,
		Rings: []cluster.Ring{
			{Engines: 3, Radius: 1.0, SymmetryGroup: "C3", Gimbaled: true, Cavity: starshipCavity},
			{Engines: 10, Radius: 2.8, SymmetryGroup: "C10", Gimbaled: true, Cavity: starshipCavity},
			{Engines: 20, Radius: 4.0, SymmetryGroup: "C20", Gimbaled: false, Cavity: starshipCavity},
		},
	},
	"starship": {
		Name:         "Starship",
		EngineName:   "raptor_2",
		TotalEngines: 6,
		BaseDiameter: 9.0,
		Rings: []cluster.Ring{
			{Engines: 3, Radius: 1.5, SymmetryGroup: "C3", Gimbaled: true, Cavity: starshipCavity},
			{Engines: 3, Radius: 3.5, SymmetryGroup: "C3", Gimbaled: false, Cavity: starshipCavity},
		},
	},
}

var environments = map[string]cluster.Environment{
	"earth_sl": {
		Name:              "earth_sl",
		AmbientPressure:   101325.0,
		Temperature:       288.15,
		AcousticImpedance: 420.0,
		AtmosphericZeta:   0.028,
	},
	"lunar_vacuum": {
		Name:        "lunar_vacuum",
		Temperature: 250.0, // daytime mean surface
		Vacuum:      true,
	},
}

// normalize folds a preset name for lookup: case-insensitive, spaces as
// underscores, so "Falcon 9" and "falcon_9" resolve the same entry.
func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EngineByName looks up a preset engine. Unknown names report the
// available keys.
func EngineByName(name string) (cluster.Engine, error) {
	e, ok := engines[normalize(name)]
	if !ok {
		return cluster.Engine{}, fmt.Errorf("%w: engine %q, available: %s",
			cluster.ErrUnknownPreset, name, strings.Join(ListEngines(), ", "))
	}
	return e, nil
}

// ClusterByName looks up a preset cluster geometry.
func ClusterByName(name string) (cluster.Cluster, error) {
	c, ok := clusters[normalize(name)]
	if !ok {
		return cluster.Cluster{}, fmt.Errorf("%w: cluster %q, available: %s",
			cluster.ErrUnknownPreset, name, strings.Join(ListClusters(), ", "))
	}
	return c, nil
}

// EnvironmentByName looks up a preset environment.
func EnvironmentByName(name string) (cluster.Environment, error) {
	env, ok := environments[normalize(name)]
	if !ok {
		return cluster.Environment{}, fmt.Errorf("%w: environment %q, available: %s",
			cluster.ErrUnknownPreset, name, strings.Join(ListEnvironments(), ", "))
	}
	return env, nil
}

func ListEngines() []string      { return sortedKeys(engines) }
func ListClusters() []string     { return sortedKeys(clusters) }
func ListEnvironments() []string { return sortedKeys(environments) }
