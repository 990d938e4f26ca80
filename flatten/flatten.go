package flatten

import (
	"fmt"

	"github.com/tsawler/brickmesh/geom"
	"github.com/tsawler/brickmesh/model"
)

// GeometrySink receives flattened world-space geometry. Colors may be raw
// IDs or edge-offset IDs (geom.EdgeOffset); the sink interprets the offset.
// Bake is notified once per completed leaf part whose parent is not itself
// a leaf, the boundary at which vertex deduplication should run.
type GeometrySink interface {
	AddLine(color int, p1, p2 geom.Vector3)
	AddTriangle(color int, p1, p2, p3 geom.Vector3)
	AddConditionalLine(color int, p1, p2, p3, p4 geom.Vector3)
	Bake()
}

// UnresolvedReferenceError reports a placement whose target identifier is
// absent from the registry. This aborts flattening.
type UnresolvedReferenceError struct {
	ID   string // the missing identifier
	From string // the part type that referenced it
}

func (e *UnresolvedReferenceError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("unresolved reference to %q", e.ID)
	}
	return fmt.Sprintf("unresolved reference to %q from %q", e.ID, e.From)
}

// CyclicReferenceError reports a part that transitively references itself.
type CyclicReferenceError struct {
	ID    string
	Depth int
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic reference detected at %q (recursion depth %d)", e.ID, e.Depth)
}

// DefaultMaxDepth bounds walker recursion. Real models nest a handful of
// levels; anything near this limit is an authoring cycle.
const DefaultMaxDepth = 512

// Walker flattens part types from a registry into a GeometrySink.
type Walker struct {
	reg *model.Registry

	// MaxDepth bounds recursion for cycle detection.
	MaxDepth int
}

// NewWalker creates a walker reading from the given registry.
func NewWalker(reg *model.Registry) *Walker {
	return &Walker{reg: reg, MaxDepth: DefaultMaxDepth}
}

// Flatten instantiates the named part type into world space. color is
// substituted for the main-color sentinel (and its edge variant for the
// edge sentinel), tf is the base transform, and cull/invert seed the
// accumulated culling and winding context. All geometry is emitted through
// sink; the first unresolved or cyclic reference aborts the walk.
func (w *Walker) Flatten(id string, color int, tf geom.Transform, cull, invert bool, sink GeometrySink) error {
	return w.flatten(id, "", color, tf, cull, invert, sink, 0, false)
}

// resolve looks up an identifier, following a replacement pragma when the
// part carries one. Both the identifier and its replacement must resolve.
func (w *Walker) resolve(id, from string) (*model.PartType, error) {
	pt, ok := w.reg.Get(id)
	if !ok {
		return nil, &UnresolvedReferenceError{ID: id, From: from}
	}
	if pt.ReplacementID != "" {
		repl, ok := w.reg.Get(pt.ReplacementID)
		if !ok {
			return nil, &UnresolvedReferenceError{ID: pt.ReplacementID, From: id}
		}
		pt = repl
	}
	return pt, nil
}

func (w *Walker) flatten(id, from string, color int, tf geom.Transform, cull, invert bool, sink GeometrySink, depth int, parentIsPart bool) error {
	if depth > w.MaxDepth {
		return &CyclicReferenceError{ID: id, Depth: depth}
	}
	pt, err := w.resolve(id, from)
	if err != nil {
		return err
	}

	// Own-inversion decides the winding this level emits: a mirroring
	// transform flips winding, and the accumulated invert context flips it
	// again.
	ownInvert := (tf.Rotation.Determinant() < 0) != invert

	for _, step := range pt.Steps {
		// The step's cull flag, once cleared by an uncertified line, turns
		// culling off for everything the step emits.
		stepCull := cull && step.Cull

		for _, l := range step.Lines {
			sink.AddLine(substColor(l.Color, color), tf.Apply(l.P1), tf.Apply(l.P2))
		}
		for _, t := range step.Triangles {
			c := substColor(t.Color, color)
			p1, p2, p3 := tf.Apply(t.P1), tf.Apply(t.P2), tf.Apply(t.P3)
			if !ownInvert || !stepCull {
				sink.AddTriangle(c, p1, p2, p3)
			}
			if ownInvert || !stepCull {
				sink.AddTriangle(c, p3, p2, p1)
			}
		}
		for _, cl := range step.CondLines {
			sink.AddConditionalLine(substColor(cl.Color, color),
				tf.Apply(cl.P1), tf.Apply(cl.P2), tf.Apply(cl.P3), tf.Apply(cl.P4))
		}

		// Deferred buckets first, in first-encountered order, then
		// immediate placements in source order.
		for _, g := range step.Deferred {
			for _, pl := range g.Placements {
				if err := w.flattenPlacement(pt, pl, color, tf, stepCull, invert, sink, depth); err != nil {
					return err
				}
			}
		}
		for _, pl := range step.Immediate {
			if err := w.flattenPlacement(pt, pl, color, tf, stepCull, invert, sink, depth); err != nil {
				return err
			}
		}
	}

	// One bake per completed leaf sub-assembly: a leaf part whose parent is
	// a composite model batches its own and its children's vertices.
	if pt.IsPart() && !parentIsPart {
		sink.Bake()
	}
	return nil
}

// flattenPlacement composes one placement with the parent context and
// recurses.
func (w *Walker) flattenPlacement(parent *model.PartType, pl model.Placement, color int, tf geom.Transform, stepCull, invert bool, sink GeometrySink, depth int) error {
	childColor := substColor(pl.Color, color)
	childCull := pl.Cull && stepCull
	childInvert := invert != pl.Invert
	childTf := tf.Compose(geom.Transform{Rotation: pl.Rotation, Position: pl.Position})
	return w.flatten(pl.ID, parent.ID, childColor, childTf, childCull, childInvert, sink, depth+1, parent.IsPart())
}

// substColor resolves the two sentinel color IDs against the inherited
// color context. Concrete IDs pass through unchanged.
func substColor(c, ctx int) int {
	switch c {
	case geom.MainColorID:
		return ctx
	case geom.EdgeColorID:
		return geom.EdgeOf(ctx)
	}
	return c
}
