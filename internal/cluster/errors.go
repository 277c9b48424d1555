package cluster

import "errors"

// Error kinds for the resonance analysis pipeline.
var (
	// ErrInvalidConfig indicates a non-physical input value (negative time
	// lag, zero engine count, non-positive chamber pressure, ...).
	// Validation fails before any computation runs.
	ErrInvalidConfig = errors.New("cluster: invalid configuration")

	// ErrDegenerate indicates a numerically degenerate operating point
	// (forcing frequency on a cavity eigenfrequency with no loss floor,
	// zero-length mode sequence). Limiting-case branches handle the known
	// degeneracies; this error covers the ones that cannot be regularized.
	ErrDegenerate = errors.New("cluster: numerically degenerate input")

	// ErrNoBoundary reports a stability sweep that never crossed the
	// boundary inside its range. A reportable outcome, not a failure.
	ErrNoBoundary = errors.New("cluster: no stability boundary in sweep range")

	// ErrUnknownPreset indicates a lookup for an engine, cluster, or
	// environment name that is not registered.
	ErrUnknownPreset = errors.New("cluster: unknown preset")
)
