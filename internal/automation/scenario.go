// Package automation runs scripted batches of analyses. A YAML scenario
// lists steps; each step runs one pipeline and produces a figure, a table,
// a stored run, or any combination of the three.
package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/afgany/rocket-clusters-dynamics/internal/analysis"
	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/config"
	"github.com/afgany/rocket-clusters-dynamics/internal/export"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
	"github.com/afgany/rocket-clusters-dynamics/internal/storage"
	"github.com/afgany/rocket-clusters-dynamics/internal/viz"
)

// Step is one analysis in a scenario. Kind selects the pipeline; the
// remaining fields parameterize it, and zero values take the same defaults
// as the corresponding CLI command.
type Step struct {
	Kind        string  `yaml:"kind"` // damping | stability | sweep | amplify
	Cluster     string  `yaml:"cluster"`
	Ring        int     `yaml:"ring"`
	Environment string  `yaml:"environment"`
	Frequency   float64 `yaml:"frequency"` // forcing frequency [Hz], 0 = engine first tangential

	// Parameter sweep (kind sweep)
	Parameter       string  `yaml:"parameter"`
	From            float64 `yaml:"from"` // both zero sweeps the published range
	To              float64 `yaml:"to"`
	Samples         int     `yaml:"samples"`
	RequireBoundary bool    `yaml:"require_boundary"` // fail the step when the sweep never crosses

	// Boundary map (kind stability)
	TauMin      float64   `yaml:"tau_min"`
	TauMax      float64   `yaml:"tau_max"`
	Frequencies []float64 `yaml:"frequencies"`
	AlphaEarth  float64   `yaml:"alpha_earth"`
	AlphaVacuum float64   `yaml:"alpha_vacuum"`
	Gain        float64   `yaml:"gain"`

	// Amplification range (kind amplify)
	NMin      int     `yaml:"n_min"`
	NMax      int     `yaml:"n_max"`
	Amplitude float64 `yaml:"amplitude"`

	ZetaCrit float64 `yaml:"zeta_crit"` // reference line on the damping figure

	Output string `yaml:"output"` // svg path, empty skips the figure
	CSV    string `yaml:"csv"`    // csv path, empty skips the table
	Save   bool   `yaml:"save"`   // store the run in the data directory
}

// Scenario defines a scripted analysis sequence.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scn Scenario
	if err := yaml.Unmarshal(data, &scn); err != nil {
		return nil, err
	}
	if len(scn.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", cluster.ErrInvalidConfig, scn.Name)
	}
	return &scn, nil
}

// StepResult records what one executed step produced.
type StepResult struct {
	Kind    string
	Output  string
	CSV     string
	RunID   string
	Summary map[string]float64
}

// Runner executes scenarios against the closed-form pipeline. Store is
// needed only when a step asks to be saved.
type Runner struct {
	Store *storage.Store
}

// Run executes every step in order. The first failing step aborts the
// scenario; results of completed steps are returned alongside the error.
func (r Runner) Run(ctx context.Context, scn *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scn.Steps))
	for i, step := range scn.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		step = step.withDefaults()
		res, err := r.runStep(ctx, step)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Kind, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r Runner) runStep(ctx context.Context, s Step) (StepResult, error) {
	switch s.Kind {
	case "damping":
		return r.dampingStep(ctx, s)
	case "stability":
		return r.stabilityStep(s)
	case "sweep":
		return r.sweepStep(s)
	case "amplify":
		return r.amplifyStep(s)
	}
	return StepResult{}, fmt.Errorf("%w: step kind %q, want damping, stability, sweep, or amplify",
		cluster.ErrInvalidConfig, s.Kind)
}

func (s Step) withDefaults() Step {
	switch s.Kind {
	case "damping":
		if s.Cluster == "" {
			// Reference case: the outer ring of the largest cluster.
			s.Cluster = "super_heavy"
			s.Ring = 2
		}
		if s.ZetaCrit == 0 {
			s.ZetaCrit = 0.035
		}
	case "sweep":
		if s.Cluster == "" {
			s.Cluster = config.DefaultCluster
			s.Ring = 1
		}
		if s.Parameter == "" {
			s.Parameter = string(physics.ParamLag)
		}
		if s.Samples == 0 {
			s.Samples = config.DefaultSamples
		}
	case "stability":
		if s.TauMin == 0 && s.TauMax == 0 {
			s.TauMin, s.TauMax = 0.1e-3, 5.0e-3
		}
		if len(s.Frequencies) == 0 {
			s.Frequencies = append([]float64(nil), physics.DefaultMapFrequencies...)
		}
		if s.AlphaEarth == 0 {
			s.AlphaEarth = physics.AlphaEarth
		}
		if s.AlphaVacuum == 0 {
			s.AlphaVacuum = physics.AlphaVacuum
		}
		if s.Gain == 0 {
			s.Gain = 1
		}
		if s.Samples == 0 {
			s.Samples = 500
		}
	case "amplify":
		if s.NMin == 0 {
			s.NMin = 1
		}
		if s.NMax == 0 {
			s.NMax = 40
		}
		if s.Amplitude == 0 {
			s.Amplitude = config.DefaultAmplitude
		}
	}
	if s.Environment == "" {
		s.Environment = config.DefaultEnvironment
	}
	return s
}

func (r Runner) dampingStep(ctx context.Context, s Step) (StepResult, error) {
	_, ring, e, err := resolveRing(s.Cluster, s.Ring)
	if err != nil {
		return StepResult{}, err
	}
	earth, err := config.EnvironmentByName("earth_sl")
	if err != nil {
		return StepResult{}, err
	}
	vacuum, err := config.EnvironmentByName("lunar_vacuum")
	if err != nil {
		return StepResult{}, err
	}

	omega := analysis.ForcingFrequency(e, s.Frequency)
	cmp, err := analysis.CompareEnvironments(ctx, e, ring, []cluster.Environment{earth, vacuum}, cluster.DefaultDamping(), omega)
	if err != nil {
		return StepResult{}, err
	}

	res := StepResult{Kind: s.Kind, Summary: make(map[string]float64, len(cmp.Environments))}
	for i, env := range cmp.Environments {
		res.Summary["min_zeta_"+env] = cmp.MinZeta[i]
	}
	if s.Output != "" {
		svg := export.DampingSpectrumSVG(cmp.Zeta, cmp.Environments, s.ZetaCrit, export.DefaultStyle())
		if err := os.WriteFile(s.Output, []byte(svg), 0644); err != nil {
			return StepResult{}, err
		}
		res.Output = s.Output
	}

	header, rows := export.SpectrumTable(cmp)
	meta := storage.RunMetadata{
		Kind:         "damping",
		Engine:       e.Name,
		Cluster:      s.Cluster,
		Environments: cmp.Environments,
		FrequencyHz:  cmp.Omega / (2 * math.Pi),
	}
	return r.finish(res, s, meta, header, rows)
}

func (r Runner) stabilityStep(s Step) (StepResult, error) {
	bm, err := physics.SweepBoundaryMap(s.TauMin, s.TauMax, s.Frequencies, s.AlphaEarth, s.AlphaVacuum, s.Samples, s.Gain)
	if err != nil {
		return StepResult{}, err
	}

	minN := bm.NCrit[0][0][0]
	for e := range bm.Environments {
		for f := range bm.Frequencies {
			for _, n := range bm.NCrit[e][f] {
				if n < minN {
					minN = n
				}
			}
		}
	}
	res := StepResult{Kind: s.Kind, Summary: map[string]float64{"min_n_crit": minN}}
	if s.Output != "" {
		svg := export.BoundaryMapSVG(bm, export.DefaultStyle())
		if err := os.WriteFile(s.Output, []byte(svg), 0644); err != nil {
			return StepResult{}, err
		}
		res.Output = s.Output
	}

	header, rows := export.BoundaryTable(bm)
	meta := storage.RunMetadata{
		Kind:         "stability",
		Environments: bm.Environments,
		Parameter:    string(physics.ParamLag),
	}
	return r.finish(res, s, meta, header, rows)
}

func (r Runner) sweepStep(s Step) (StepResult, error) {
	_, ring, e, err := resolveRing(s.Cluster, s.Ring)
	if err != nil {
		return StepResult{}, err
	}
	env, err := config.EnvironmentByName(s.Environment)
	if err != nil {
		return StepResult{}, err
	}

	rc := config.Config{Sweep: config.SweepConfig{Parameter: s.Parameter, From: s.From, To: s.To}}
	from, to := rc.SweepRange(e)
	spec := physics.SweepSpec{
		Parameter: physics.Parameter(s.Parameter),
		From:      from,
		To:        to,
		Samples:   s.Samples,
		Omega:     analysis.ForcingFrequency(e, s.Frequency),
	}
	sw, err := physics.SweepParameter(e, ring, env, cluster.DefaultDamping(), spec)
	if err != nil {
		return StepResult{}, err
	}
	if s.RequireBoundary {
		if _, err := sw.Boundary(); err != nil {
			return StepResult{}, err
		}
	}

	found := 0.0
	if sw.BoundaryFound {
		found = 1
	}
	res := StepResult{Kind: s.Kind, Summary: map[string]float64{
		"crossings":      float64(len(sw.Crossings)),
		"boundary_found": found,
	}}
	if s.Output != "" {
		values := make([]float64, len(sw.Points))
		margins := make([]float64, len(sw.Points))
		for i, p := range sw.Points {
			values[i] = p.Value
			margins[i] = p.Margin
		}
		canvas := viz.SeriesPlot([]viz.Series{{Label: s.Parameter, X: values, Y: margins}}, 70, 20)
		if err := os.WriteFile(s.Output, []byte(export.CanvasToSVG(canvas, 3)), 0644); err != nil {
			return StepResult{}, err
		}
		res.Output = s.Output
	}

	header, rows := export.SweepTable(sw)
	meta := storage.RunMetadata{
		Kind:         "sweep",
		Engine:       e.Name,
		Cluster:      s.Cluster,
		Environments: []string{env.Name},
		FrequencyHz:  spec.Omega / (2 * math.Pi),
		Parameter:    s.Parameter,
	}
	return r.finish(res, s, meta, header, rows)
}

func (r Runner) amplifyStep(s Step) (StepResult, error) {
	earth, err := config.EnvironmentByName("earth_sl")
	if err != nil {
		return StepResult{}, err
	}
	amp, err := physics.AmplificationSweep(s.NMin, s.NMax, s.Amplitude, cluster.DefaultDamping(), earth.AtmosphericZeta)
	if err != nil {
		return StepResult{}, err
	}

	last := len(amp.Counts) - 1
	res := StepResult{Kind: s.Kind, Summary: map[string]float64{
		"n_max":     float64(amp.Counts[last]),
		"ratio_max": amp.Ratio[last],
	}}
	if s.Output != "" {
		svg := export.AmplificationSVG(amp, export.DefaultStyle())
		if err := os.WriteFile(s.Output, []byte(svg), 0644); err != nil {
			return StepResult{}, err
		}
		res.Output = s.Output
	}

	header, rows := export.AmplificationTable(amp)
	meta := storage.RunMetadata{
		Kind:         "amplification",
		Environments: []string{earth.Name},
	}
	return r.finish(res, s, meta, header, rows)
}

// finish applies the table outputs shared by every step kind.
func (r Runner) finish(res StepResult, s Step, meta storage.RunMetadata, header []string, rows [][]float64) (StepResult, error) {
	if s.CSV != "" {
		if err := export.WriteCSV(s.CSV, header, rows); err != nil {
			return StepResult{}, err
		}
		res.CSV = s.CSV
	}
	if s.Save {
		if r.Store == nil {
			return StepResult{}, fmt.Errorf("%w: step asks to save but the runner has no store", cluster.ErrInvalidConfig)
		}
		if err := r.Store.Init(); err != nil {
			return StepResult{}, err
		}
		meta.Summary = res.Summary
		id, err := r.Store.Save(meta, header, rows)
		if err != nil {
			return StepResult{}, err
		}
		res.RunID = id
	}
	return res, nil
}

func resolveRing(name string, ringIndex int) (cluster.Cluster, cluster.Ring, cluster.Engine, error) {
	cl, err := config.ClusterByName(name)
	if err != nil {
		return cluster.Cluster{}, cluster.Ring{}, cluster.Engine{}, err
	}
	if ringIndex < 0 || ringIndex >= len(cl.Rings) {
		return cluster.Cluster{}, cluster.Ring{}, cluster.Engine{}, fmt.Errorf(
			"%w: ring index %d out of range, cluster %q has %d rings",
			cluster.ErrInvalidConfig, ringIndex, cl.Name, len(cl.Rings))
	}
	e, err := config.EngineByName(cl.EngineName)
	if err != nil {
		return cluster.Cluster{}, cluster.Ring{}, cluster.Engine{}, err
	}
	return cl, cl.Rings[ringIndex], e, nil
}
