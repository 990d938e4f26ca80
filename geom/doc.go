// Package geom provides the geometric value types shared by the parser,
// the flattening walker, and the downstream baking stages.
//
// All coordinates are float32, matching the precision of the vertex buffers
// the flattened geometry ultimately feeds. A Transform is a 3x3 rotation/scale
// matrix paired with a translation vector; there is no projective component.
//
// # Color conventions
//
// Geometry records carry integer color IDs in LDraw convention:
//   - MainColorID (16) means "inherit the containing placement's color"
//   - EdgeColorID (24) means "inherit the edge variant of that color"
//   - the edge variant of a concrete color C is represented as C + EdgeOffset
//
// The EdgeOffset encoding is internal to the flattening stage; sinks receive
// either raw or offset IDs and interpret the offset themselves.
package geom
