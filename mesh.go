package brickmesh

import (
	"github.com/tsawler/brickmesh/bake"
	"github.com/tsawler/brickmesh/colors"
	"github.com/tsawler/brickmesh/condline"
	"github.com/tsawler/brickmesh/flatten"
	"github.com/tsawler/brickmesh/geom"
	"github.com/tsawler/brickmesh/model"
)

// Model is a parsed registry of part types plus the color table it was
// validated against.
type Model struct {
	Registry *model.Registry
	Colors   colors.Table

	options LoadOptions
}

// Flatten instantiates the main model into the given sink under the given
// base color, with culling on and no initial winding inversion.
func (m *Model) Flatten(color int, sink flatten.GeometrySink) error {
	w := flatten.NewWalker(m.Registry)
	w.MaxDepth = m.options.maxDepth
	return w.Flatten(m.Registry.MainModelID(), color, geom.IdentityTransform(), true, false, sink)
}

// Mesh flattens and bakes the main model into renderable buffers.
func (m *Model) Mesh(color int) (*Mesh, error) {
	sink := NewMeshSink()
	if err := m.Flatten(color, sink); err != nil {
		return nil, err
	}
	sink.Bake() // flush geometry emitted outside any leaf boundary
	return sink.Mesh(), nil
}

// Mesh holds baked renderable data: one shared vertex buffer and per-color
// index buffers for each primitive kind. Conditional-line index buffers
// hold four indices per line (segment endpoints then control points).
type Mesh struct {
	Vertices  []geom.Vector3
	Lines     map[int][]int32
	Triangles map[int][]int32
	CondLines map[int][]int32

	condLines []geom.CondLine
}

// Bounds returns the axis-aligned bounding box of the vertex buffer.
func (m *Mesh) Bounds() geom.Box3 {
	box := geom.NewBox3()
	for _, v := range m.Vertices {
		box.Expand(v)
	}
	return box
}

// Evaluator builds a conditional-line evaluator over the mesh's world-space
// conditional lines.
func (m *Mesh) Evaluator(opts ...condline.Option) *condline.Evaluator {
	return condline.NewEvaluator(m.condLines, opts...)
}

// MeshSink is a flatten.GeometrySink accumulating geometry into a Mesh.
// Pending points are scratch state owned by the sink, cleared on every
// Bake.
type MeshSink struct {
	mesh   *Mesh
	points []bake.Point
}

// NewMeshSink creates an empty sink.
func NewMeshSink() *MeshSink {
	return &MeshSink{
		mesh: &Mesh{
			Lines:     make(map[int][]int32),
			Triangles: make(map[int][]int32),
			CondLines: make(map[int][]int32),
		},
	}
}

// Mesh returns the accumulated mesh.
func (s *MeshSink) Mesh() *Mesh {
	return s.mesh
}

func (s *MeshSink) push(buffers map[int][]int32, kind bake.Kind, color int, pts ...geom.Vector3) {
	buf := buffers[color]
	for _, p := range pts {
		s.points = append(s.points, bake.Point{Position: p, Slot: len(buf), Kind: kind, Color: color})
		buf = append(buf, bake.Unresolved)
	}
	buffers[color] = buf
}

// AddLine implements flatten.GeometrySink.
func (s *MeshSink) AddLine(color int, p1, p2 geom.Vector3) {
	s.push(s.mesh.Lines, bake.KindLine, color, p1, p2)
}

// AddTriangle implements flatten.GeometrySink.
func (s *MeshSink) AddTriangle(color int, p1, p2, p3 geom.Vector3) {
	s.push(s.mesh.Triangles, bake.KindTriangle, color, p1, p2, p3)
}

// AddConditionalLine implements flatten.GeometrySink.
func (s *MeshSink) AddConditionalLine(color int, p1, p2, p3, p4 geom.Vector3) {
	s.push(s.mesh.CondLines, bake.KindCondLine, color, p1, p2, p3, p4)
	s.mesh.condLines = append(s.mesh.condLines, geom.CondLine{
		Color: color, P1: p1, P2: p2, P3: p3, P4: p4,
	})
}

// Bake deduplicates the pending points into the shared vertex buffer and
// patches their index slots. Called by the walker once per completed leaf
// sub-assembly.
func (s *MeshSink) Bake() {
	if len(s.points) == 0 {
		return
	}
	base := int32(len(s.mesh.Vertices))
	verts := bake.Bake(s.points, func(color int, kind bake.Kind, slot int, index int32) {
		switch kind {
		case bake.KindLine:
			s.mesh.Lines[color][slot] = base + index
		case bake.KindTriangle:
			s.mesh.Triangles[color][slot] = base + index
		case bake.KindCondLine:
			s.mesh.CondLines[color][slot] = base + index
		}
	})
	s.mesh.Vertices = append(s.mesh.Vertices, verts...)
	s.points = s.points[:0]
}
