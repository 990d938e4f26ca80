package bake

import (
	"sort"

	"github.com/tsawler/brickmesh/geom"
)

// Unresolved is the sentinel an index buffer entry holds before baking.
const Unresolved int32 = -1

// Kind tags which primitive's index buffer a point belongs to.
type Kind int

const (
	KindLine Kind = iota
	KindTriangle
	KindCondLine
)

// Point is one emitted vertex occurrence awaiting an index. Slot identifies
// the entry to patch in the index buffer selected by (Color, Kind).
type Point struct {
	Position geom.Vector3
	Slot     int
	Kind     Kind
	Color    int
}

// PatchFunc writes a resolved vertex index into the index buffer selected
// by (color, kind) at the given slot.
type PatchFunc func(color int, kind Kind, slot int, index int32)

// Bake deduplicates the points and returns the distinct coordinates in
// assigned-index order. Every point's slot is patched through patch with
// its assigned index. Indices start at zero; callers batching multiple
// bakes into one vertex buffer add their own base offset inside patch.
func Bake(points []Point, patch PatchFunc) []geom.Vector3 {
	if len(points) == 0 {
		return nil
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Position.Less(points[j].Position)
	})

	vertices := make([]geom.Vector3, 0, len(points))
	index := int32(-1)
	var prev geom.Vector3
	for i, pt := range points {
		if i == 0 || pt.Position != prev {
			vertices = append(vertices, pt.Position)
			index++
			prev = pt.Position
		}
		patch(pt.Color, pt.Kind, pt.Slot, index)
	}
	return vertices
}
