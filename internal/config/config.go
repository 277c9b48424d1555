package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

const (
	DefaultEngine      = "merlin_1d"
	DefaultCluster     = "falcon_9"
	DefaultEnvironment = "earth_sl"
	DefaultSamples     = 201
	DefaultAmplifyMin  = 1
	DefaultAmplifyMax  = 33
	DefaultAmplitude   = 1.0
	DefaultDataDir     = "runs"
)

// Config is the YAML analysis configuration. Zero or missing fields fall
// back to the defaults, so a partial file only overrides what it names.
type Config struct {
	Engine      string        `yaml:"engine"`
	Cluster     string        `yaml:"cluster"`
	Environment string        `yaml:"environment"`
	Frequency   float64       `yaml:"frequency"` // forcing frequency [Hz], 0 = engine 1T mode
	Sweep       SweepConfig   `yaml:"sweep"`
	Amplify     AmplifyConfig `yaml:"amplify"`
	Damping     DampingConfig `yaml:"damping"`
	DataDir     string        `yaml:"data_dir"`
}

// SweepConfig selects the control parameter and range for a stability
// boundary sweep. Zero From and To means the engine's published range.
type SweepConfig struct {
	Parameter string  `yaml:"parameter"`
	From      float64 `yaml:"from"`
	To        float64 `yaml:"to"`
	Samples   int     `yaml:"samples"`
}

// AmplifyConfig bounds the engine-count range for amplification studies.
type AmplifyConfig struct {
	Min       int     `yaml:"min"`
	Max       int     `yaml:"max"`
	Amplitude float64 `yaml:"amplitude"`
}

// DampingConfig overrides the per-engine damping budget. All-zero means
// the reference budget.
type DampingConfig struct {
	Internal    float64 `yaml:"internal"`
	Nozzle      float64 `yaml:"nozzle"`
	Feed        float64 `yaml:"feed"`
	CouplingMax float64 `yaml:"coupling_max"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine:      DefaultEngine,
		Cluster:     DefaultCluster,
		Environment: DefaultEnvironment,
		Sweep: SweepConfig{
			Parameter: "time_lag",
			Samples:   DefaultSamples,
		},
		Amplify: AmplifyConfig{
			Min:       DefaultAmplifyMin,
			Max:       DefaultAmplifyMax,
			Amplitude: DefaultAmplitude,
		},
		DataDir: DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetEngine resolves the configured engine preset.
func (c *Config) GetEngine() (cluster.Engine, error) {
	return EngineByName(c.Engine)
}

// GetCluster resolves the configured cluster preset.
func (c *Config) GetCluster() (cluster.Cluster, error) {
	return ClusterByName(c.Cluster)
}

// GetEnvironment resolves the configured environment preset.
func (c *Config) GetEnvironment() (cluster.Environment, error) {
	return EnvironmentByName(c.Environment)
}

// GetDamping returns the configured damping budget, or the reference
// budget when the override block is absent.
func (c *Config) GetDamping() cluster.Damping {
	if c.Damping == (DampingConfig{}) {
		return cluster.DefaultDamping()
	}
	return cluster.Damping{
		Internal:    c.Damping.Internal,
		Nozzle:      c.Damping.Nozzle,
		Feed:        c.Damping.Feed,
		CouplingMax: c.Damping.CouplingMax,
	}
}

// SweepRange returns the sweep bounds, substituting the engine's
// published parameter range when the config leaves them zero.
func (c *Config) SweepRange(e cluster.Engine) (from, to float64) {
	from, to = c.Sweep.From, c.Sweep.To
	if from == 0 && to == 0 {
		switch c.Sweep.Parameter {
		case "interaction_index":
			from, to = e.IndexRng[0], e.IndexRng[1]
		case "chamber_pressure":
			from, to = 0.5*e.ChamberPressure, 1.5*e.ChamberPressure
		default:
			from, to = e.LagRng[0], e.LagRng[1]
		}
	}
	return from, to
}
