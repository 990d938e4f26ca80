// Package snapshot renders flattened line geometry to an image for
// debugging and examples. It is a raster aid over the geometry sink's
// output, not a rendering backend: an orthographic front view, lines only.
package snapshot

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	"github.com/tsawler/brickmesh"
	"github.com/tsawler/brickmesh/colors"
	"github.com/tsawler/brickmesh/geom"
)

// lineHalfWidth is half the stroked width of a wireframe line in pixels.
const lineHalfWidth = 0.6

// margin is the fraction of the image left blank around the model.
const margin = 0.05

// Wireframe renders the mesh's line buffers into a white RGBA image of the
// given size, orthographically projected onto the XY plane. The source
// format's Y axis points down, matching the image raster. Line colors come
// from the table; edge-offset color IDs use the base material's edge color.
func Wireframe(mesh *brickmesh.Mesh, table colors.Table, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	box := mesh.Bounds()
	if box.IsEmpty() {
		return img
	}
	size := box.Size()
	center := box.Center()
	scale := fitScale(float32(width), float32(height), size)

	project := func(v geom.Vector3) (float32, float32) {
		return float32(width)/2 + (v.X-center.X)*scale,
			float32(height)/2 + (v.Y-center.Y)*scale
	}

	for colorID, indices := range mesh.Lines {
		ras := vector.NewRasterizer(width, height)
		for i := 0; i+1 < len(indices); i += 2 {
			x1, y1 := project(mesh.Vertices[indices[i]])
			x2, y2 := project(mesh.Vertices[indices[i+1]])
			strokeSegment(ras, x1, y1, x2, y2)
		}
		src := image.NewUniform(materialColor(table, colorID))
		ras.Draw(img, img.Bounds(), src, image.Point{})
	}
	return img
}

// fitScale returns the uniform scale that fits the model's XY extent inside
// the image with the configured margin.
func fitScale(w, h float32, size geom.Vector3) float32 {
	sx, sy := size.X, size.Y
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	scaleX := w * (1 - 2*margin) / sx
	scaleY := h * (1 - 2*margin) / sy
	if scaleX < scaleY {
		return scaleX
	}
	return scaleY
}

// strokeSegment adds a thin quad covering the segment to the rasterizer.
func strokeSegment(ras *vector.Rasterizer, x1, y1, x2, y2 float32) {
	dx, dy := x2-x1, y2-y1
	length := dx*dx + dy*dy
	if length == 0 {
		return
	}
	// Perpendicular half-width offset.
	inv := lineHalfWidth / math32.Sqrt(length)
	nx, ny := -dy*inv, dx*inv

	ras.MoveTo(x1+nx, y1+ny)
	ras.LineTo(x2+nx, y2+ny)
	ras.LineTo(x2-nx, y2-ny)
	ras.LineTo(x1-nx, y1-ny)
	ras.ClosePath()
}

// materialColor resolves a (possibly edge-offset) color ID to an RGBA
// color, falling back to black for unknown IDs or malformed hex values.
func materialColor(table colors.Table, id int) color.RGBA {
	edge := false
	if id >= geom.EdgeOffset {
		edge = true
		id -= geom.EdgeOffset
	}
	m, ok := table.Get(id)
	if !ok {
		return color.RGBA{A: 255}
	}
	hex := m.Value
	if edge && m.Edge != "" {
		hex = m.Edge
	}
	return parseHex(hex)
}

// parseHex converts "#RRGGBB" to an opaque RGBA color.
func parseHex(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{A: 255}
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
