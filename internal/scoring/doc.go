// Package scoring implements the Judge: the pure, deterministic computation
// from a day's immutable facts and its routed configuration to a derived
// score.
//
// Compute has no I/O and no clock access. Given identical facts, plan
// completion stats and rules, it always yields the same four domain scores,
// safety multiplier and final score. Persisting the result is the caller's
// concern; each computation appends a new derived row, so recomputation
// history is preserved.
package scoring
