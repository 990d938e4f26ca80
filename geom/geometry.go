package geom

import "github.com/chewxy/math32"

// Color ID conventions (LDraw numbering).
const (
	// MainColorID is the sentinel meaning "inherit the main color".
	MainColorID = 16

	// EdgeColorID is the sentinel meaning "inherit the edge color".
	EdgeColorID = 24

	// EdgeOffset is added to a concrete color ID to denote its edge variant.
	// The offset never appears in source files; it is a convention between
	// the flattening walker and the geometry sink.
	EdgeOffset = 10000
)

// EdgeOf returns the edge variant of a concrete color ID. IDs already in the
// edge range are returned unchanged.
func EdgeOf(color int) int {
	if color < EdgeOffset {
		return color + EdgeOffset
	}
	return color
}

// Vector3 represents a 3D point or direction.
type Vector3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// DistanceSq returns the squared distance between v and o.
func (v Vector3) DistanceSq(o Vector3) float32 {
	d := v.Sub(o)
	return d.Dot(d)
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// ManhattanDistance returns |dx| + |dy| + |dz| between v and o.
func (v Vector3) ManhattanDistance(o Vector3) float32 {
	return math32.Abs(v.X-o.X) + math32.Abs(v.Y-o.Y) + math32.Abs(v.Z-o.Z)
}

// Less orders vectors lexicographically by (X, Y, Z). The comparison is
// exact, not tolerance-based; it exists for deterministic sorting.
func (v Vector3) Less(o Vector3) bool {
	if v.X != o.X {
		return v.X < o.X
	}
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.Z < o.Z
}

// Matrix3 is a 3x3 rotation/scale matrix in row-major order.
type Matrix3 [9]float32

// Identity3 returns the 3x3 identity matrix.
func Identity3() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// NewMatrix3 builds a matrix from rows (a b c / d e f / g h i), the order
// the source format lists them in.
func NewMatrix3(a, b, c, d, e, f, g, h, i float32) Matrix3 {
	return Matrix3{a, b, c, d, e, f, g, h, i}
}

// Mul returns m * o.
func (m Matrix3) Mul(o Matrix3) Matrix3 {
	var r Matrix3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row*3]*o[col] + m[row*3+1]*o[3+col] + m[row*3+2]*o[6+col]
		}
	}
	return r
}

// Apply returns m * v.
func (m Matrix3) Apply(v Vector3) Vector3 {
	return Vector3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Determinant returns the determinant of m. A negative determinant means the
// transform mirrors geometry, which flips triangle winding.
func (m Matrix3) Determinant() float32 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// RotationY returns a rotation of deg degrees around the Y axis.
func RotationY(deg float32) Matrix3 {
	rad := deg * math32.Pi / 180
	s, c := math32.Sin(rad), math32.Cos(rad)
	return Matrix3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// Transform is an affine transform: rotation/scale plus translation.
type Transform struct {
	Rotation Matrix3
	Position Vector3
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{Rotation: Identity3()}
}

// Apply transforms a point: Rotation*v + Position.
func (t Transform) Apply(v Vector3) Vector3 {
	return t.Rotation.Apply(v).Add(t.Position)
}

// Compose returns the transform equivalent to applying child first, then t.
// The child's translation is carried through t's linear part.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Rotation: t.Rotation.Mul(child.Rotation),
		Position: t.Rotation.Apply(child.Position).Add(t.Position),
	}
}
