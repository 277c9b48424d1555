// Package physics implements the analytical resonance-coupling model for
// engine clusters.
//
// The pipeline runs leaf to root:
//
//   - [EngineResponse]: Crocco n-tau combustion response and nozzle admittance
//   - [Pathways]: the three inter-engine coupling pathways for one pair
//   - [RingOperator]: pairwise coupling folded into a circulant operator
//   - [SolveModes]: closed-form circulant diagonalization (DFT)
//   - [Spectrum]: per-mode damping ratios with the breathing-mode exception
//   - [SweepParameter]: stability boundary location along a control parameter
//   - [AmplificationSweep]: coherent vs. incoherent scaling laws
//
// Every function is pure: inputs are immutable records, outputs are freshly
// allocated result values, and independent calls may run concurrently without
// coordination.
//
// The model is analytical. It evaluates closed-form relations only and is not
// experimentally calibrated.
package physics
