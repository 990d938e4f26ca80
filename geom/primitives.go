package geom

// Line represents a colored line segment.
type Line struct {
	Color  int
	P1, P2 Vector3
}

// Triangle represents a colored triangle. Point order encodes winding.
type Triangle struct {
	Color      int
	P1, P2, P3 Vector3
}

// CondLine represents a conditional line: a segment (P1, P2) drawn only when
// the control points P3 and P4 project to the same side of the segment from
// the current viewpoint.
type CondLine struct {
	Color          int
	P1, P2, P3, P4 Vector3
}

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min, Max Vector3
	empty    bool
}

// NewBox3 returns an empty bounding box.
func NewBox3() Box3 {
	return Box3{empty: true}
}

// IsEmpty reports whether the box has had no points expanded into it.
func (b Box3) IsEmpty() bool {
	return b.empty
}

// Expand grows the box to include p.
func (b *Box3) Expand(p Vector3) {
	if b.empty {
		b.Min, b.Max = p, p
		b.empty = false
		return
	}
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// Center returns the center point of the box.
func (b Box3) Center() Vector3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Box3) Size() Vector3 {
	return b.Max.Sub(b.Min)
}
