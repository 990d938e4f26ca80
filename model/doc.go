// Package model provides the build-time data model for brick model files:
// part types, steps, placements, and the registry that owns them.
//
// A PartType is one named, reusable model unit. Its geometry is grouped into
// ordered Steps, the unit of instruction-style reveal order. A Placement is a
// positioned, colored reference to another PartType inside a Step.
//
// PartTypes and Steps are created during parsing and are not mutated after
// the registry is finalized, with one exception: a part's ReplacementID may
// be set when a "moved to" pragma is encountered.
//
// # Step merging
//
// AddStep enforces the step-merging invariants: a leading empty step is
// discarded, an empty step whose rotation matches the previous step's is
// elided, and an empty previous step with a matching rotation is replaced.
// This prevents pure metadata lines from introducing spurious step
// boundaries.
package model
