// Package analysis composes the physics pipeline into full cluster
// stability reports.
//
// The package orchestrates, it does not compute: every number in a report
// comes from internal/physics. Entry points:
//
//   - [Analyzer.AnalyzeRing]: one ring, one environment, full mode spectrum
//     with per-mode damping verdicts
//   - [Analyzer.AnalyzeCluster]: all rings of a cluster in parallel
//   - [CompareEnvironments]: the same ring analyzed across environments
//
// A report labels the ring stable when every coupled mode keeps a
// non-negative damping ratio, no mode falls below its critical damping
// threshold, and the combustion response is not driving:
//
//	rep, err := analyzer.AnalyzeRing(ctx, 0, ring, omega)
//	if err == nil && rep.Stable {
//	    // all modes damped at this operating point
//	}
package analysis
