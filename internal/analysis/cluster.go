package analysis

import (
	"context"
	"sync"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// ClusterReport aggregates the per-ring reports of one cluster analysis.
type ClusterReport struct {
	Cluster      string        `json:"cluster"`
	Engine       string        `json:"engine"`
	Environment  string        `json:"environment"`
	TotalEngines int           `json:"total_engines"`
	Omega        float64       `json:"omega"`
	Rings        []*RingReport `json:"rings"`
	MinZeta      float64       `json:"min_zeta"`
	Stable       bool          `json:"stable"`
	Disclaimer   string        `json:"disclaimer"`
}

// AnalyzeCluster fans the rings of a cluster out over goroutines. Rings in
// this model are acoustically independent, so the per-ring analyses share
// nothing; results land in an indexed slice and the first error wins.
func (a *Analyzer) AnalyzeCluster(ctx context.Context, cl cluster.Cluster, omega float64) (*ClusterReport, error) {
	if err := cl.Validate(); err != nil {
		return nil, err
	}

	reports := make([]*RingReport, len(cl.Rings))
	errs := make([]error, len(cl.Rings))

	var wg sync.WaitGroup
	for i := range cl.Rings {
		wg.Add(1)
		go func(idx int, ring cluster.Ring) {
			defer wg.Done()
			reports[idx], errs[idx] = a.AnalyzeRing(ctx, idx, ring, omega)
		}(i, cl.Rings[i])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	rep := &ClusterReport{
		Cluster:      cl.Name,
		Engine:       a.Engine.Name,
		Environment:  a.Env.Name,
		TotalEngines: cl.TotalEngines,
		Omega:        omega,
		Rings:        reports,
		MinZeta:      reports[0].MinZeta,
		Stable:       true,
		Disclaimer:   Disclaimer,
	}
	for _, r := range reports {
		if r.MinZeta < rep.MinZeta {
			rep.MinZeta = r.MinZeta
		}
		if !r.Stable {
			rep.Stable = false
		}
	}
	return rep, nil
}
