// Package tessellate converts 2D shape descriptions into triangle
// geometry: flat vertex positions plus triangle indices.
//
// Fills produce a watertight triangulation of the shape's interior;
// strokes produce a ribbon of constant width centered on the shape's
// outline. Curved outlines (circles, ellipses, rounded corners) are
// flattened to line segments within a fixed tolerance before
// triangulation.
//
// Output windings are normalized so every emitted triangle has positive
// signed area (counter-clockwise in mathematical convention; note the
// renderer's Y axis points down on screen).
package tessellate

import (
	"errors"

	"github.com/chewxy/math32"
)

// flattenTolerance is the maximum allowed deviation between a curve and
// its polygonal approximation, in pixels. 0.25 gives sub-pixel accuracy.
const flattenTolerance = 0.25

// Arc subdivision bounds. Tiny radii still get enough segments to look
// round; giant radii are capped to keep vertex counts sane.
const (
	minArcSegments = 12
	maxArcSegments = 256
)

// Tessellation errors.
var (
	// ErrTooFewPoints is returned when a polygon has fewer than three
	// distinct points, or a polyline fewer than two.
	ErrTooFewPoints = errors.New("tessellate: not enough distinct points")

	// ErrInvalidStrokeWidth is returned for a zero or negative stroke
	// width.
	ErrInvalidStrokeWidth = errors.New("tessellate: stroke width must be positive")

	// ErrDegenerate is returned for geometry with no interior (zero size,
	// zero area) or an outline the tessellator cannot resolve
	// (self-intersecting polygon).
	ErrDegenerate = errors.New("tessellate: degenerate geometry")
)

// Point is a 2D position in screen co-ordinates.
type Point struct {
	X, Y float32
}

func (p Point) sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) scale(s float32) Point { return Point{p.X * s, p.Y * s} }
func (p Point) dot(q Point) float32   { return p.X*q.X + p.Y*q.Y }
func (p Point) cross(q Point) float32 { return p.X*q.Y - p.Y*q.X }
func (p Point) length() float32       { return math32.Hypot(p.X, p.Y) }
func (p Point) perp() Point           { return Point{-p.Y, p.X} }

func (p Point) normalize() Point {
	l := p.length()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Buffer accumulates tessellated geometry. Several shapes may be
// tessellated into the same buffer; indices always refer to positions in
// the same buffer.
type Buffer struct {
	Positions []Point
	Indices   []uint32
}

// vertex appends a position and returns its index.
func (b *Buffer) vertex(p Point) uint32 {
	b.Positions = append(b.Positions, p)
	return uint32(len(b.Positions) - 1)
}

func (b *Buffer) triangle(a, c, d uint32) {
	b.Indices = append(b.Indices, a, c, d)
}

// arcSegments returns the number of line segments a full circle of the
// given radius is flattened to, based on the package tolerance.
func arcSegments(radius float32) int {
	if radius <= flattenTolerance {
		return minArcSegments
	}
	theta := 2 * math32.Acos(1-flattenTolerance/radius)
	n := int(math32.Ceil(2 * math32.Pi / theta))
	if n < minArcSegments {
		return minArcSegments
	}
	if n > maxArcSegments {
		return maxArcSegments
	}
	return n
}

// dedup drops consecutive duplicate points, including a duplicated
// first/last pair, without modifying the input slice.
func dedup(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]Point, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// signedArea returns twice the signed area of a closed ring. Positive
// means counter-clockwise in mathematical convention.
func signedArea(points []Point) float32 {
	var area float32
	for i, p := range points {
		q := points[(i+1)%len(points)]
		area += p.cross(q)
	}
	return area
}

// reverse flips a ring's orientation in place.
func reverse(points []Point) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
