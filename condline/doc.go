// Package condline canonicalizes conditional lines into equivalence groups
// and recomputes their visibility per camera update.
//
// Two conditional lines belong to the same visibility group when, after
// canonicalizing point order, their segment and control-point directions
// match within a small tolerance. Grouping uses a bounded trailing window
// over the sorted canonical forms: two geometrically identical lines
// separated by more than the window after a sort tie are not merged. This
// trades exactness for near-linear scaling and is a documented
// approximation, not a correctness bug; widen the window with WithWindow if
// a pathological model shows seams.
//
// Visibility is evaluated in screen space: a group's representative line is
// visible when both control points project to the same side of its segment.
// The evaluator mutates shared per-frame state and must be driven from a
// single logical thread per camera.
package condline
