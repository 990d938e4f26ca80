package model

import (
	"strings"

	"github.com/tsawler/brickmesh/geom"
)

// Rotation step types.
const (
	RotationRelative = "REL"
	RotationAbsolute = "ABS"
	RotationAdditive = "ADD"
)

// RotationStep is a rotation directive attached to a step, used to turn the
// model between building steps. A nil *RotationStep means no directive.
type RotationStep struct {
	X, Y, Z float32
	Type    string // RotationRelative, RotationAbsolute, or RotationAdditive
}

// SameRotation reports whether two rotation directives are equal, treating
// two nils as equal.
func SameRotation(a, b *RotationStep) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z && a.Type == b.Type
}

// Placement is a positioned reference to another part type inside a step.
// Placements are immutable once constructed; composing with a parent
// transform derives a new Placement rather than mutating.
type Placement struct {
	ID       string // normalized target identifier
	Color    int
	Position geom.Vector3
	Rotation geom.Matrix3
	Cull     bool
	Invert   bool
}

// DeferredGroup collects placements of the same top-level model file in the
// same color within one step. Repeated deferred references merge into one
// group so the target is instanced as a unit.
type DeferredGroup struct {
	ID         string
	Color      int
	Placements []Placement
}

type deferredKey struct {
	id    string
	color int
}

// Step is an ordered collection of geometry scoped to one instancing pass.
// Cull starts true and, once cleared by an uncertified geometry line, stays
// cleared for the whole step.
type Step struct {
	Deferred  []*DeferredGroup // buckets in first-encountered order
	Immediate []Placement
	Lines     []geom.Line
	Triangles []geom.Triangle
	CondLines []geom.CondLine
	Rotation  *RotationStep
	Cull      bool

	deferredIdx map[deferredKey]*DeferredGroup
}

// NewStep returns an empty step with culling enabled.
func NewStep() *Step {
	return &Step{Cull: true}
}

// IsEmpty reports whether the step carries no geometry and no placements.
func (s *Step) IsEmpty() bool {
	return len(s.Deferred) == 0 && len(s.Immediate) == 0 &&
		len(s.Lines) == 0 && len(s.Triangles) == 0 && len(s.CondLines) == 0
}

// AddDeferred adds a placement of a top-level model file, merging into the
// existing (color, target) bucket when one exists.
func (s *Step) AddDeferred(p Placement) {
	key := deferredKey{id: p.ID, color: p.Color}
	if s.deferredIdx == nil {
		s.deferredIdx = make(map[deferredKey]*DeferredGroup)
	}
	if g, ok := s.deferredIdx[key]; ok {
		g.Placements = append(g.Placements, p)
		return
	}
	g := &DeferredGroup{ID: p.ID, Color: p.Color, Placements: []Placement{p}}
	s.deferredIdx[key] = g
	s.Deferred = append(s.Deferred, g)
}

// AddImmediate adds a placement of a leaf part in source order.
func (s *Step) AddImmediate(p Placement) {
	s.Immediate = append(s.Immediate, p)
}

// PartType is a named, reusable model unit composed of ordered steps.
type PartType struct {
	ID          string // normalized lowercase identifier
	Description string
	Author      string
	License     string
	Steps       []*Step

	// ReplacementID is set when a "moved to" pragma indicates the part was
	// renamed; the flattening walker substitutes the replacement.
	ReplacementID string

	// Inlined marks a part whose geometry was pre-expanded by the authoring
	// tool.
	Inlined bool

	lastRotation *RotationStep
}

// NewPartType creates a part type with the given normalized identifier.
func NewPartType(id string) *PartType {
	return &PartType{ID: id}
}

// IsPart reports whether the identifier denotes a leaf part file (.dat), as
// opposed to a top-level model file.
func (p *PartType) IsPart() bool {
	return strings.HasSuffix(p.ID, ".dat")
}

// IsEmpty reports whether the part type has no steps.
func (p *PartType) IsEmpty() bool {
	return len(p.Steps) == 0
}

// AddStep appends a step, applying the merge rules: a leading empty step is
// discarded; an empty step whose rotation matches the last recorded rotation
// is elided; an empty previous step with a matching rotation is replaced by
// the new step. Otherwise the step is appended and its rotation becomes the
// new "last" rotation.
func (p *PartType) AddStep(s *Step) {
	empty := s.IsEmpty()
	if empty && len(p.Steps) == 0 {
		return
	}
	if empty && SameRotation(s.Rotation, p.lastRotation) {
		return
	}
	if n := len(p.Steps); n > 0 {
		prev := p.Steps[n-1]
		if prev.IsEmpty() && SameRotation(prev.Rotation, s.Rotation) {
			p.Steps[n-1] = s
			p.lastRotation = s.Rotation
			return
		}
	}
	p.Steps = append(p.Steps, s)
	p.lastRotation = s.Rotation
}
