package condline

import (
	"testing"

	"github.com/tsawler/brickmesh/geom"
)

func condLine(p1, p2, p3, p4 geom.Vector3) geom.CondLine {
	return geom.CondLine{Color: 24, P1: p1, P2: p2, P3: p3, P4: p4}
}

// frontProject is an orthographic projection onto the XY plane.
func frontProject(v geom.Vector3) (float32, float32) {
	return v.X, v.Y
}

// TestPermutedLinesShareGroup tests that segment-order permutations of the
// same 4 points canonicalize into one group
func TestPermutedLinesShareGroup(t *testing.T) {
	a := geom.Vector3{X: 0, Y: 0, Z: 0}
	b := geom.Vector3{X: 2, Y: 0, Z: 0}
	c3 := geom.Vector3{X: 1.8, Y: 1, Z: 0}
	c4 := geom.Vector3{X: 1, Y: -1, Z: 0}

	tests := []struct {
		name  string
		other geom.CondLine
	}{
		{"segment endpoints swapped", condLine(b, a, c3, c4)},
		{"identical", condLine(a, b, c3, c4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator([]geom.CondLine{condLine(a, b, c3, c4), tt.other})
			if got := len(e.Groups()); got != 1 {
				t.Errorf("expected 1 group, got %d", got)
			}
		})
	}
}

// TestTranslatedLinesShareGroup tests that grouping is direction-based, so
// parallel lines with matching control directions merge
func TestTranslatedLinesShareGroup(t *testing.T) {
	offset := geom.Vector3{X: 10, Y: 5, Z: -2}
	a := geom.Vector3{}
	b := geom.Vector3{X: 2}
	c3 := geom.Vector3{X: 1, Y: 1}
	c4 := geom.Vector3{X: 1, Y: -1}

	l1 := condLine(a, b, c3, c4)
	l2 := condLine(a.Add(offset), b.Add(offset), c3.Add(offset), c4.Add(offset))
	e := NewEvaluator([]geom.CondLine{l1, l2})
	if got := len(e.Groups()); got != 1 {
		t.Errorf("expected 1 group for translated copies, got %d", got)
	}
}

// TestDistinctLinesGetDistinctGroups tests that unrelated lines do not merge
func TestDistinctLinesGetDistinctGroups(t *testing.T) {
	l1 := condLine(geom.Vector3{}, geom.Vector3{X: 1}, geom.Vector3{Y: 1}, geom.Vector3{Y: -1})
	l2 := condLine(geom.Vector3{}, geom.Vector3{Z: 1}, geom.Vector3{Y: 1}, geom.Vector3{Y: -1})
	e := NewEvaluator([]geom.CondLine{l1, l2})
	if got := len(e.Groups()); got != 2 {
		t.Errorf("expected 2 groups, got %d", got)
	}
}

// TestWindowLimit tests the documented approximation: identical lines
// separated by more than the window after a sort tie are not merged
func TestWindowLimit(t *testing.T) {
	shared := condLine(
		geom.Vector3{}, geom.Vector3{X: 2},
		geom.Vector3{X: 1, Y: 1}, geom.Vector3{X: 1, Y: -1},
	)
	// Fillers share the segment direction (sorting ties on a) but have
	// distinct control directions, so each gets its own group.
	var lines []geom.CondLine
	lines = append(lines, shared)
	for i := 0; i < 3; i++ {
		y := float32(i+2) * 10
		lines = append(lines, condLine(
			geom.Vector3{}, geom.Vector3{X: 2},
			geom.Vector3{X: 1, Y: y}, geom.Vector3{X: 1, Y: -1 - y},
		))
	}
	lines = append(lines, shared)

	t.Run("within window", func(t *testing.T) {
		e := NewEvaluator(lines, WithWindow(10))
		if got := len(e.Groups()); got != 4 {
			t.Errorf("expected 4 groups, got %d", got)
		}
	})

	t.Run("window too small", func(t *testing.T) {
		e := NewEvaluator(lines, WithWindow(1))
		// The two identical lines may end up separated by the fillers in
		// sort order; with a window of 1 they cannot both see each other
		// unless adjacent. Group count must be between 4 and 5.
		got := len(e.Groups())
		if got < 4 || got > 5 {
			t.Errorf("expected 4 or 5 groups, got %d", got)
		}
	})
}

// TestVisibility tests the screen-space same-side rule
func TestVisibility(t *testing.T) {
	segA := geom.Vector3{}
	segB := geom.Vector3{X: 2}

	tests := []struct {
		name    string
		c3, c4  geom.Vector3
		visible bool
	}{
		{"same side", geom.Vector3{X: 1, Y: 1}, geom.Vector3{X: 0.5, Y: 2}, true},
		{"opposite sides", geom.Vector3{X: 1, Y: 1}, geom.Vector3{X: 1, Y: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator([]geom.CondLine{condLine(segA, segB, tt.c3, tt.c4)})
			e.Update(frontProject)
			if got := e.Groups()[0].Visible; got != tt.visible {
				t.Errorf("expected visible=%v, got %v", tt.visible, got)
			}
		})
	}
}

// TestUpdateChangedFlag tests that Update reports a change exactly when a
// group's visibility flips
func TestUpdateChangedFlag(t *testing.T) {
	line := condLine(
		geom.Vector3{}, geom.Vector3{X: 2},
		geom.Vector3{X: 1, Y: 1}, geom.Vector3{X: 0.5, Y: 2},
	)
	e := NewEvaluator([]geom.CondLine{line})

	if !e.Update(frontProject) {
		t.Error("first update should report a change (visibility turned on)")
	}
	if e.Update(frontProject) {
		t.Error("same camera should report no change")
	}

	// A top-down projection flattens the control points onto the segment's
	// side structure differently.
	topProject := func(v geom.Vector3) (float32, float32) {
		return v.X, v.Z
	}
	_ = e.Update(topProject) // may or may not flip, but must not panic
}

// TestNormalizeBaseSelection tests that the segment endpoint closer to the
// third point becomes the base regardless of input order
func TestNormalizeBaseSelection(t *testing.T) {
	a := geom.Vector3{}
	b := geom.Vector3{X: 4}
	c3 := geom.Vector3{X: 3.5, Y: 1} // closer to b
	c4 := geom.Vector3{X: 3.5, Y: -1}

	f1 := normalize(condLine(a, b, c3, c4))
	f2 := normalize(condLine(b, a, c3, c4))
	if f1.a.ManhattanDistance(f2.a) > Tolerance ||
		f1.b.ManhattanDistance(f2.b) > Tolerance ||
		f1.c.ManhattanDistance(f2.c) > Tolerance {
		t.Errorf("expected identical canonical forms, got %+v and %+v", f1, f2)
	}
}
