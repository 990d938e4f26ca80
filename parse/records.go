package parse

import (
	"fmt"
	"strconv"

	"github.com/tsawler/brickmesh/geom"
	"github.com/tsawler/brickmesh/model"
)

// record is the closed set of parsed line kinds. Every source line becomes
// exactly one record before dispatch.
type record interface {
	lineRecord()
}

// metaRecord is a type 0 line: tokens after the leading 0, plus the raw
// remainder of the line for comment text.
type metaRecord struct {
	Tokens  []string
	Comment string
}

// placementRecord is a type 1 line: a positioned reference to another part.
type placementRecord struct {
	Color    int
	Position geom.Vector3
	Rotation geom.Matrix3
	Target   string // normalized
}

// segmentRecord is a type 2 line.
type segmentRecord struct {
	Color  int
	Points [2]geom.Vector3
}

// triangleRecord is a type 3 line.
type triangleRecord struct {
	Color  int
	Points [3]geom.Vector3
}

// quadRecord is a type 4 line.
type quadRecord struct {
	Color  int
	Points [4]geom.Vector3
}

// condLineRecord is a type 5 line.
type condLineRecord struct {
	Color  int
	Points [4]geom.Vector3
}

func (metaRecord) lineRecord()     {}
func (placementRecord) lineRecord() {}
func (segmentRecord) lineRecord()  {}
func (triangleRecord) lineRecord() {}
func (quadRecord) lineRecord()     {}
func (condLineRecord) lineRecord() {}

// parseFloats parses n consecutive float tokens starting at tokens[0].
func parseFloats(tokens []string, n int) ([]float32, error) {
	if len(tokens) < n {
		return nil, fmt.Errorf("expected %d numeric fields, got %d", n, len(tokens))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad numeric field %q: %w", tokens[i], err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parsePoints parses n points (3 floats each) after the color token.
func parsePoints(tokens []string, n int) (int, []geom.Vector3, error) {
	if len(tokens) < 1 {
		return 0, nil, fmt.Errorf("missing color field")
	}
	color, err := strconv.Atoi(tokens[0])
	if err != nil {
		return 0, nil, fmt.Errorf("bad color field %q: %w", tokens[0], err)
	}
	nums, err := parseFloats(tokens[1:], n*3)
	if err != nil {
		return 0, nil, err
	}
	pts := make([]geom.Vector3, n)
	for i := range pts {
		pts[i] = geom.Vector3{X: nums[i*3], Y: nums[i*3+1], Z: nums[i*3+2]}
	}
	return color, pts, nil
}

// parseRecord converts one tokenized line into its typed record. rawComment
// is the line remainder after the leading line-type token, used verbatim for
// type 0 comments.
func parseRecord(tokens []string, rawComment string) (record, error) {
	switch tokens[0] {
	case "0":
		return metaRecord{Tokens: tokens[1:], Comment: rawComment}, nil

	case "1":
		// color, 3 position floats, 9 rotation/scale floats, identifier
		if len(tokens) < 15 {
			return nil, fmt.Errorf("placement line has %d fields, expected at least 15", len(tokens))
		}
		color, err := strconv.Atoi(tokens[1])
		if err != nil {
			return nil, fmt.Errorf("bad color field %q: %w", tokens[1], err)
		}
		nums, err := parseFloats(tokens[2:14], 12)
		if err != nil {
			return nil, err
		}
		target := model.NormalizeID(joinTokens(tokens[14:]))
		return placementRecord{
			Color:    color,
			Position: geom.Vector3{X: nums[0], Y: nums[1], Z: nums[2]},
			Rotation: geom.NewMatrix3(
				nums[3], nums[4], nums[5],
				nums[6], nums[7], nums[8],
				nums[9], nums[10], nums[11],
			),
			Target: target,
		}, nil

	case "2":
		color, pts, err := parsePoints(tokens[1:], 2)
		if err != nil {
			return nil, err
		}
		return segmentRecord{Color: color, Points: [2]geom.Vector3{pts[0], pts[1]}}, nil

	case "3":
		color, pts, err := parsePoints(tokens[1:], 3)
		if err != nil {
			return nil, err
		}
		return triangleRecord{Color: color, Points: [3]geom.Vector3{pts[0], pts[1], pts[2]}}, nil

	case "4":
		color, pts, err := parsePoints(tokens[1:], 4)
		if err != nil {
			return nil, err
		}
		return quadRecord{Color: color, Points: [4]geom.Vector3{pts[0], pts[1], pts[2], pts[3]}}, nil

	case "5":
		color, pts, err := parsePoints(tokens[1:], 4)
		if err != nil {
			return nil, err
		}
		return condLineRecord{Color: color, Points: [4]geom.Vector3{pts[0], pts[1], pts[2], pts[3]}}, nil
	}
	return nil, fmt.Errorf("unknown line type %q", tokens[0])
}

// joinTokens reassembles identifier tokens that contained spaces.
func joinTokens(tokens []string) string {
	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}
