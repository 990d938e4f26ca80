// Package flatten resolves the part-type DAG into world-space geometry.
//
// The Walker recursively instantiates a named part type under a base color
// and transform, composing culling, winding, and color decisions at each
// placement, and side-effects all output through a GeometrySink.
//
// An unresolved sub-part reference is fatal: the walk aborts with an
// *UnresolvedReferenceError rather than silently skipping geometry, because
// partial geometry misrepresents the model. Valid input contains no cycles;
// a cycle introduced by an authoring error is detected by recursion depth
// and reported as a *CyclicReferenceError instead of overflowing the stack.
package flatten
