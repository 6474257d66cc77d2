package tessellate

import (
	"fmt"
)

// miterLimit bounds how far a miter join may extend, in multiples of the
// half stroke width. Sharper corners have their miter clamped instead of
// spiking off toward infinity.
const miterLimit = 4

// StrokePath tessellates a constant-width stroke along a path as a
// triangle strip of quads, two vertices per path point. Joins are
// mitered with the miter clamped at sharp corners. Open paths get butt
// caps; closed paths wrap the final quad back to the start.
func StrokePath(buf *Buffer, points []Point, width float32, closed bool) error {
	if width <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidStrokeWidth, width)
	}
	path := dedup(points)
	if len(path) < 2 {
		return fmt.Errorf("%w: path has %d distinct points", ErrTooFewPoints, len(path))
	}
	if closed && len(path) < 3 {
		return fmt.Errorf("%w: closed path has %d distinct points", ErrTooFewPoints, len(path))
	}

	half := width / 2
	base := uint32(len(buf.Positions))

	for i, p := range path {
		offset := strokeOffset(path, i, closed).scale(half)
		buf.vertex(p.add(offset))
		buf.vertex(p.sub(offset))
	}

	quads := len(path) - 1
	if closed {
		quads = len(path)
	}
	n := uint32(len(path))
	for i := 0; i < quads; i++ {
		a := base + 2*uint32(i)
		b := base + 2*(uint32(i+1)%n)
		buf.triangle(a, a+1, b+1)
		buf.triangle(b+1, b, a)
	}
	return nil
}

// strokeOffset returns the unit offset direction at path[i]: the segment
// normal at an endpoint of an open path, or the clamped miter vector at
// a join. The returned vector is scaled by the miter length, so it may
// be longer than a unit normal at corners.
func strokeOffset(path []Point, i int, closed bool) Point {
	n := len(path)

	var before, after Point
	hasBefore := closed || i > 0
	hasAfter := closed || i < n-1
	if hasBefore {
		before = path[(i+n-1)%n]
	}
	if hasAfter {
		after = path[(i+1)%n]
	}

	switch {
	case !hasBefore:
		return segmentNormal(path[i], after)
	case !hasAfter:
		return segmentNormal(before, path[i])
	}

	n0 := segmentNormal(before, path[i])
	n1 := segmentNormal(path[i], after)

	miter := n0.add(n1)
	length := miter.length()
	if length < 1e-6 {
		// The segments double back on themselves; fall back to the
		// incoming normal rather than dividing by zero.
		return n0
	}
	miter = miter.scale(1 / length)

	// The miter must be scaled so its projection onto either normal is
	// the half width. Clamp the scale at the miter limit.
	scale := 1 / miter.dot(n1)
	if scale > miterLimit {
		scale = miterLimit
	}
	return miter.scale(scale)
}

// segmentNormal returns the unit normal of the segment from a to b,
// pointing to its left.
func segmentNormal(a, b Point) Point {
	d := b.sub(a)
	length := d.length()
	if length == 0 {
		return Point{0, -1}
	}
	return Point{d.Y / length, -d.X / length}
}

// StrokeRectangle tessellates a rectangle outline of the given stroke
// width.
func StrokeRectangle(buf *Buffer, x, y, w, h, width float32) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: rectangle size %gx%g", ErrDegenerate, w, h)
	}
	return StrokePath(buf, []Point{
		{x, y},
		{x + w, y},
		{x + w, y + h},
		{x, y + h},
	}, width, true)
}

// StrokeEllipse tessellates an ellipse outline of the given stroke
// width.
func StrokeEllipse(buf *Buffer, cx, cy, rx, ry, width float32) error {
	if rx <= 0 || ry <= 0 {
		return fmt.Errorf("%w: ellipse radii %gx%g", ErrDegenerate, rx, ry)
	}
	return StrokePath(buf, ellipseRing(cx, cy, rx, ry), width, true)
}

// StrokeRoundedRectangle tessellates a rounded rectangle outline of the
// given stroke width.
func StrokeRoundedRectangle(buf *Buffer, x, y, w, h float32, radii [4]float32, width float32) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: rectangle size %gx%g", ErrDegenerate, w, h)
	}
	for _, r := range radii {
		if r < 0 {
			return fmt.Errorf("%w: negative corner radius %g", ErrDegenerate, r)
		}
	}
	return StrokePath(buf, roundedOutline(x, y, w, h, radii), width, true)
}
