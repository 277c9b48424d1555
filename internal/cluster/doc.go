// Package cluster defines the immutable value types the resonance analysis
// operates on:
//
//   - [Engine]: per-engine combustion-response parameters (Crocco n-tau)
//   - [Ring]: uniformly spaced engines around a common axis
//   - [Cluster]: ordered concentric rings of one vehicle stage
//   - [Environment]: ambient conditions (sea level, vacuum)
//   - [Damping]: per-engine damping budget
//
// Every type validates its structural invariants on entry to the pipeline;
// a non-physical value surfaces as [ErrInvalidConfig] naming the offending
// field and the violated constraint. Instances are never mutated after
// construction: parametric sweeps copy and substitute.
package cluster
