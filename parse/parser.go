package parse

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tsawler/brickmesh/colors"
	"github.com/tsawler/brickmesh/geom"
	"github.com/tsawler/brickmesh/model"
)

// Description pragmas recognized by the parser.
const (
	movedToPrefix     = "~Moved to "
	unknownPartPrefix = "~Unknown part "
)

// Warning is a structured report of a recoverable issue found during
// parsing. Error marks the non-recoverable-but-reported class (an "unknown
// part" pragma); the resulting part type is a placeholder.
type Warning struct {
	Message string
	Line    int
	PartID  string
	Error   bool
}

// String formats the warning for display.
func (w Warning) String() string {
	sev := "warning"
	if w.Error {
		sev = "error"
	}
	return fmt.Sprintf("%s: line %d (%s): %s", sev, w.Line, w.PartID, w.Message)
}

// state holds the per-file parser state threaded through every
// line-processing call. It is reset at the start of each Parse call and at
// FILE boundaries; each file section certifies its own winding and culling.
type state struct {
	ccw        bool // winding convention, initially counter-clockwise
	invertNext bool // one-shot, consumed by the next geometry line
	localCull  bool // whether the current context allows face culling

	pendingComment string
	hasPending     bool

	rotation *model.RotationStep
}

func newState() state {
	return state{ccw: true, localCull: true}
}

// Parser consumes the raw text of model files and populates a registry of
// part types.
type Parser struct {
	reg   *model.Registry
	table colors.Table

	part     *model.PartType
	step     *model.Step
	st       state
	line     int
	warnings []Warning
}

// NewParser creates a parser writing into the given registry, validating
// color IDs against the given table.
func NewParser(reg *model.Registry, table colors.Table) *Parser {
	return &Parser{reg: reg, table: table}
}

// Parse processes the complete text of one file. The id is the normalized
// identifier the file was requested under; FILE lines inside the text may
// correct or extend it (multi-part documents). Parse never aborts on bad
// input; all issues are returned as warnings.
func (p *Parser) Parse(id, text string) []Warning {
	p.part = model.NewPartType(model.NormalizeID(id))
	p.step = model.NewStep()
	p.st = newState()
	p.warnings = nil

	// The first file parsed names the main model; FILE lines may still
	// correct it while the part is empty.
	if p.reg.MainModelID() == "" && p.part.ID != "" {
		p.reg.SetMainModelID(p.part.ID)
	}

	for i, raw := range strings.Split(text, "\n") {
		p.line = i + 1
		p.processLine(raw)
	}
	p.closePart()
	return p.warnings
}

func (p *Parser) warnf(format string, args ...interface{}) {
	p.warnings = append(p.warnings, Warning{
		Message: fmt.Sprintf(format, args...),
		Line:    p.line,
		PartID:  p.part.ID,
	})
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.warnings = append(p.warnings, Warning{
		Message: fmt.Sprintf(format, args...),
		Line:    p.line,
		PartID:  p.part.ID,
		Error:   true,
	})
}

// processLine tokenizes and dispatches a single source line.
func (p *Parser) processLine(raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}
	tokens := strings.Fields(trimmed)

	// Remainder after the line-type token, preserved verbatim for comments.
	rawComment := strings.TrimSpace(strings.TrimPrefix(trimmed, tokens[0]))

	rec, err := parseRecord(tokens, rawComment)
	if err != nil {
		p.warnf("skipping malformed line: %v", err)
		return
	}

	switch r := rec.(type) {
	case metaRecord:
		p.processMeta(r)
	case placementRecord:
		p.addPlacement(r)
	case segmentRecord:
		p.step.Lines = append(p.step.Lines, geom.Line{
			Color: p.checkColor(r.Color), P1: r.Points[0], P2: r.Points[1],
		})
		p.st.invertNext = false
	case triangleRecord:
		p.addTriangle(p.checkColor(r.Color), r.Points[0], r.Points[1], r.Points[2])
		p.st.invertNext = false
	case quadRecord:
		p.addQuad(p.checkColor(r.Color), r.Points)
		p.st.invertNext = false
	case condLineRecord:
		p.step.CondLines = append(p.step.CondLines, geom.CondLine{
			Color: p.checkColor(r.Color),
			P1:    r.Points[0], P2: r.Points[1], P3: r.Points[2], P4: r.Points[3],
		})
		p.st.invertNext = false
	}
}

// checkColor validates a color ID against the table, substituting the
// default color with a warning when absent.
func (p *Parser) checkColor(c int) int {
	if _, ok := p.table.Get(c); !ok {
		p.warnf("unknown color %d, substituting default", c)
		return colors.DefaultID
	}
	return c
}

// processMeta handles a type 0 line.
func (p *Parser) processMeta(r metaRecord) {
	if len(r.Tokens) == 0 {
		return
	}
	switch r.Tokens[0] {
	case "FILE", "Name:":
		if len(r.Tokens) < 2 {
			p.warnf("FILE line missing identifier")
			return
		}
		p.handleFile(joinTokens(r.Tokens[1:]))

	case "Author:":
		p.part.Author = strings.TrimSpace(strings.TrimPrefix(r.Comment, "Author:"))
		p.setDescription()

	case "!LICENSE":
		p.part.License = strings.TrimSpace(strings.TrimPrefix(r.Comment, "!LICENSE"))

	case "BFC":
		p.handleBFC(r.Tokens[1:])

	case "STEP":
		p.closeStep()

	case "ROTSTEP":
		p.handleRotStep(r.Tokens[1:])
		p.closeStep()

	case "!INLINED":
		p.part.Inlined = true

	default:
		if strings.HasPrefix(r.Tokens[0], "!") {
			p.warnf("unrecognized meta command %s", r.Tokens[0])
			p.st.invertNext = false
			return
		}
		// Plain comment: candidate for the part description, consumed by
		// the next FILE or Author: line.
		p.st.pendingComment = r.Comment
		p.st.hasPending = true
	}
}

// handleBFC processes back-face-culling certification tokens, scanned left
// to right so combined directives all take effect.
func (p *Parser) handleBFC(tokens []string) {
	for _, tok := range tokens {
		switch tok {
		case "CERTIFY", "CLIP":
			p.st.localCull = true
		case "NOCERTIFY", "NOCLIP":
			p.st.localCull = false
		case "INVERTNEXT":
			p.st.invertNext = true
		case "CCW":
			p.st.ccw = true
		case "CW":
			p.st.ccw = false
		}
	}
}

// handleRotStep sets or clears the pending rotation directive.
func (p *Parser) handleRotStep(tokens []string) {
	if len(tokens) == 1 && tokens[0] == "END" {
		p.st.rotation = nil
		return
	}
	if len(tokens) < 3 {
		p.warnf("malformed ROTSTEP line")
		return
	}
	var nums [3]float32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			p.warnf("malformed ROTSTEP angle %q", tokens[i])
			return
		}
		nums[i] = float32(v)
	}
	rotType := model.RotationRelative
	if len(tokens) >= 4 {
		switch tokens[3] {
		case model.RotationRelative, model.RotationAbsolute, model.RotationAdditive:
			rotType = tokens[3]
		default:
			p.warnf("unknown ROTSTEP type %q", tokens[3])
		}
	}
	p.st.rotation = &model.RotationStep{X: nums[0], Y: nums[1], Z: nums[2], Type: rotType}
}

// handleFile implements the file-boundary rule for FILE / Name: lines.
func (p *Parser) handleFile(id string) {
	id = model.NormalizeID(id)
	switch {
	case p.part.ID == id:
		// Duplicate declaration: only assign the description.
		p.setDescription()

	case p.reg.MainModelID() == "":
		// First declaration names both the first part and the main model.
		p.part.ID = id
		p.reg.SetMainModelID(id)
		p.setDescription()

	case p.partIsEmpty() && p.part.ID == p.reg.MainModelID():
		// Identifier correction on the still-empty main model.
		p.part.ID = id
		p.reg.SetMainModelID(id)
		p.setDescription()

	default:
		// A new file begins: close the current part and start fresh.
		p.closePart()
		p.part = model.NewPartType(id)
		p.step = model.NewStep()
		p.st = newState()
	}
}

// partIsEmpty reports whether the current part has no completed steps and no
// in-progress step content.
func (p *Parser) partIsEmpty() bool {
	return p.part.IsEmpty() && p.step.IsEmpty()
}

// setDescription consumes the pending comment as the part description and
// interprets the "moved to" and "unknown part" pragmas.
func (p *Parser) setDescription() {
	if p.part.Description != "" || !p.st.hasPending {
		return
	}
	desc := p.st.pendingComment
	p.st.hasPending = false
	p.part.Description = desc

	if strings.HasPrefix(desc, movedToPrefix) {
		repl := model.NormalizeID(desc[len(movedToPrefix):])
		if path.Ext(repl) == "" {
			repl += ".dat"
		}
		p.part.ReplacementID = repl
		p.warnf("part was moved to %s", repl)
	} else if strings.HasPrefix(desc, unknownPartPrefix) {
		p.errorf("unknown part: %s", desc)
	}
}

// addPlacement handles a type 1 line. The one-shot invert flag is consumed
// whether the reference is deferred or immediate.
func (p *Parser) addPlacement(r placementRecord) {
	pl := model.Placement{
		ID:       r.Target,
		Color:    p.checkColor(r.Color),
		Position: r.Position,
		Rotation: r.Rotation,
		Cull:     p.st.localCull,
		Invert:   p.st.invertNext,
	}
	if model.IsModelID(r.Target) {
		p.step.AddDeferred(pl)
	} else {
		p.step.AddImmediate(pl)
	}
	p.st.invertNext = false
}

// addTriangle emits a triangle with the winding implied by the current
// convention and the one-shot invert flag. Source order is kept when exactly
// one of ccw/invertNext is set.
func (p *Parser) addTriangle(color int, p1, p2, p3 geom.Vector3) {
	if p.st.ccw != p.st.invertNext {
		p.step.Triangles = append(p.step.Triangles, geom.Triangle{Color: color, P1: p1, P2: p2, P3: p3})
	} else {
		p.step.Triangles = append(p.step.Triangles, geom.Triangle{Color: color, P1: p3, P2: p2, P3: p1})
	}
	if !p.st.localCull {
		p.step.Cull = false
	}
}

// addQuad splits a quad into two triangles sharing a diagonal, applying the
// same winding decision to both.
func (p *Parser) addQuad(color int, pts [4]geom.Vector3) {
	if p.st.ccw != p.st.invertNext {
		// Forward: diagonal p1-p3.
		p.step.Triangles = append(p.step.Triangles,
			geom.Triangle{Color: color, P1: pts[0], P2: pts[1], P3: pts[2]},
			geom.Triangle{Color: color, P1: pts[0], P2: pts[2], P3: pts[3]},
		)
	} else {
		// Reversed: diagonal p2-p4.
		p.step.Triangles = append(p.step.Triangles,
			geom.Triangle{Color: color, P1: pts[3], P2: pts[2], P3: pts[1]},
			geom.Triangle{Color: color, P1: pts[3], P2: pts[1], P3: pts[0]},
		)
	}
	if !p.st.localCull {
		p.step.Cull = false
	}
}

// closeStep flushes the in-progress step with the rotation currently in
// effect and starts a new one. Rotation carries forward across steps until
// a ROTSTEP END clears it.
func (p *Parser) closeStep() {
	p.step.Rotation = p.st.rotation
	p.part.AddStep(p.step)
	p.step = model.NewStep()
}

// closePart flushes the in-progress step and registers the current part.
func (p *Parser) closePart() {
	p.closeStep()
	if p.reg.MainModelID() == "" {
		p.reg.SetMainModelID(p.part.ID)
	}
	p.reg.Add(p.part)
}
