package condline

import (
	"sort"

	"github.com/tsawler/brickmesh/geom"
)

// DefaultWindow is the trailing-window size used when grouping sorted
// canonical forms.
// TODO: find proper window size
const DefaultWindow = 50

// Tolerance is the combined Manhattan-style offset under which two
// canonical forms are considered the same group.
const Tolerance = 1e-4

// ProjectFunc maps a world-space point to screen coordinates under the
// current camera.
type ProjectFunc func(geom.Vector3) (x, y float32)

// Group is one visibility equivalence class. All member lines share the
// representative's visibility.
type Group struct {
	Rep     geom.CondLine
	Lines   []geom.CondLine
	Visible bool
}

// abc is the canonical form of a conditional line: unit segment direction
// and unit re-based control directions.
type abc struct {
	a, b, c geom.Vector3
}

// firstNonzeroNegative reports whether the first nonzero component of v is
// negative, the deterministic sign rule used during canonicalization.
func firstNonzeroNegative(v geom.Vector3) bool {
	if v.X != 0 {
		return v.X < 0
	}
	if v.Y != 0 {
		return v.Y < 0
	}
	return v.Z < 0
}

// normalize computes the canonical (a, b, c) form of a conditional line.
// The segment endpoint closer to the third point becomes the base, removing
// the segment-order degree of freedom; the sign of a and the order of the
// control points are then fixed by a lexicographic rule.
func normalize(l geom.CondLine) abc {
	base, other := l.P1, l.P2
	if l.P2.DistanceSq(l.P3) < l.P1.DistanceSq(l.P3) {
		base, other = l.P2, l.P1
	}
	a := other.Sub(base)
	b := l.P3.Sub(base)
	c := l.P4.Sub(base)

	if firstNonzeroNegative(a) {
		a = a.Neg()
	}
	if firstNonzeroNegative(b.Sub(c)) {
		b, c = c, b
	}
	return abc{a: a.Normalize(), b: b.Normalize(), c: c.Normalize()}
}

// distance is the combined Manhattan-style offset between two canonical
// forms.
func (f abc) distance(o abc) float32 {
	return f.a.ManhattanDistance(o.a) + f.b.ManhattanDistance(o.b) + f.c.ManhattanDistance(o.c)
}

// less orders canonical forms by (a.x, a.y, a.z, b.x, b.y, b.z).
func (f abc) less(o abc) bool {
	if f.a != o.a {
		return f.a.Less(o.a)
	}
	return f.b.Less(o.b)
}

// Evaluator holds the grouped conditional lines of one scene.
type Evaluator struct {
	groups []*Group

	// window only affects NewEvaluator-time grouping, so it is fixed at
	// construction.
	window int
}

// Option configures the evaluator.
type Option func(*Evaluator)

// WithWindow overrides the trailing-window size used for grouping.
func WithWindow(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.window = n
		}
	}
}

// NewEvaluator canonicalizes and groups the given conditional lines.
func NewEvaluator(lines []geom.CondLine, opts ...Option) *Evaluator {
	e := &Evaluator{window: DefaultWindow}
	for _, opt := range opts {
		opt(e)
	}
	e.group(lines)
	return e
}

type tagged struct {
	line geom.CondLine
	form abc
}

// group sorts the canonical forms and assigns each line to the first group
// within the trailing window whose form matches under the tolerance.
func (e *Evaluator) group(lines []geom.CondLine) {
	tags := make([]tagged, len(lines))
	for i, l := range lines {
		tags[i] = tagged{line: l, form: normalize(l)}
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].form.less(tags[j].form)
	})

	// reps[i] is the canonical form of groups[i]; assigned tracks the group
	// of each of the most recent lines for the window scan.
	var reps []abc
	var assigned []int
	for _, t := range tags {
		found := -1
		lo := len(assigned) - e.window
		if lo < 0 {
			lo = 0
		}
		for j := len(assigned) - 1; j >= lo; j-- {
			g := assigned[j]
			if t.form.distance(reps[g]) < Tolerance {
				found = g
				break
			}
		}
		if found < 0 {
			found = len(e.groups)
			e.groups = append(e.groups, &Group{Rep: t.line})
			reps = append(reps, t.form)
		}
		e.groups[found].Lines = append(e.groups[found].Lines, t.line)
		assigned = append(assigned, found)
	}
}

// Groups returns the visibility groups. The slice is owned by the
// evaluator; callers read it between Update calls.
func (e *Evaluator) Groups() []*Group {
	return e.groups
}

// Update reprojects each group's representative line under the current
// camera and recomputes visibility: the segment is visible when both
// control points land on the same side of it in screen space. It returns
// true when any group's visibility changed, signalling the caller to
// rebuild the index buffers for affected colors.
func (e *Evaluator) Update(project ProjectFunc) bool {
	changed := false
	for _, g := range e.groups {
		x1, y1 := project(g.Rep.P1)
		x2, y2 := project(g.Rep.P2)
		x3, y3 := project(g.Rep.P3)
		x4, y4 := project(g.Rep.P4)

		dx, dy := x2-x1, y2-y1
		cross3 := dx*(y3-y1) - dy*(x3-x1)
		cross4 := dx*(y4-y1) - dy*(x4-x1)
		visible := (cross3 > 0) == (cross4 > 0)

		if visible != g.Visible {
			g.Visible = visible
			changed = true
		}
	}
	return changed
}
