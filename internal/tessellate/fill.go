package tessellate

import (
	"fmt"

	"github.com/chewxy/math32"
)

// FillRectangle tessellates a filled axis-aligned rectangle: four
// vertices and two triangles.
func FillRectangle(buf *Buffer, x, y, w, h float32) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: rectangle size %gx%g", ErrDegenerate, w, h)
	}
	tl := buf.vertex(Point{x, y})
	tr := buf.vertex(Point{x + w, y})
	br := buf.vertex(Point{x + w, y + h})
	bl := buf.vertex(Point{x, y + h})
	buf.triangle(tl, tr, br)
	buf.triangle(br, bl, tl)
	return nil
}

// FillEllipse tessellates a filled ellipse as a triangle fan around its
// center. The outline is flattened within the package tolerance.
func FillEllipse(buf *Buffer, cx, cy, rx, ry float32) error {
	if rx <= 0 || ry <= 0 {
		return fmt.Errorf("%w: ellipse radii %gx%g", ErrDegenerate, rx, ry)
	}
	ring := ellipseRing(cx, cy, rx, ry)

	center := buf.vertex(Point{cx, cy})
	first := buf.vertex(ring[0])
	prev := first
	for _, p := range ring[1:] {
		cur := buf.vertex(p)
		buf.triangle(center, prev, cur)
		prev = cur
	}
	buf.triangle(center, prev, first)
	return nil
}

// FillRoundedRectangle tessellates a filled rounded rectangle. Radii are
// clamped so neighboring corners never overlap; see ClampCornerRadii.
func FillRoundedRectangle(buf *Buffer, x, y, w, h float32, radii [4]float32) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: rectangle size %gx%g", ErrDegenerate, w, h)
	}
	for _, r := range radii {
		if r < 0 {
			return fmt.Errorf("%w: negative corner radius %g", ErrDegenerate, r)
		}
	}
	return fillConvex(buf, roundedOutline(x, y, w, h, radii))
}

// FillPolygon tessellates a filled simple polygon by ear clipping. The
// outline is implicitly closed. Winding of the input does not matter;
// output triangles are normalized to positive area.
//
// Polygons with fewer than three distinct points, zero area, or
// self-intersections the clipper cannot resolve are rejected.
func FillPolygon(buf *Buffer, points []Point) error {
	ring := dedup(points)
	if len(ring) < 3 {
		return fmt.Errorf("%w: polygon has %d distinct points", ErrTooFewPoints, len(ring))
	}

	area := signedArea(ring)
	if area == 0 {
		return fmt.Errorf("%w: polygon has zero area", ErrDegenerate)
	}
	if area < 0 {
		reverse(ring)
	}

	// Ear clipping on the index ring. O(n^2) overall, which is fine for
	// the polygon sizes interactive drawing produces.
	remaining := make([]int, len(ring))
	for i := range remaining {
		remaining[i] = i
	}

	posBase := uint32(len(buf.Positions))
	idxBase := len(buf.Indices)
	for _, p := range ring {
		buf.vertex(p)
	}

	for len(remaining) > 3 {
		clipped := false
		for i := 0; i < len(remaining); i++ {
			prev := remaining[(i+len(remaining)-1)%len(remaining)]
			cur := remaining[i]
			next := remaining[(i+1)%len(remaining)]

			if !isEar(ring, remaining, prev, cur, next) {
				continue
			}

			buf.triangle(posBase+uint32(prev), posBase+uint32(cur), posBase+uint32(next))
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// No ear exists: the outline self-intersects in a way ear
			// clipping cannot resolve. Roll back both slices so the buffer
			// stays consistent for whatever was tessellated before.
			buf.Positions = buf.Positions[:posBase]
			buf.Indices = buf.Indices[:idxBase]
			return fmt.Errorf("%w: polygon outline could not be triangulated", ErrDegenerate)
		}
	}
	a, b, c := ring[remaining[0]], ring[remaining[1]], ring[remaining[2]]
	if b.sub(a).cross(c.sub(b)) > 0 {
		// The final triple can be collinear when the ring carried collinear
		// vertices; the covered area is already complete, so it is dropped.
		buf.triangle(posBase+uint32(remaining[0]), posBase+uint32(remaining[1]), posBase+uint32(remaining[2]))
	}
	return nil
}

// isEar reports whether the triangle (prev, cur, next) is a valid ear of
// the ring: convex, and containing none of the other remaining vertices.
// Vertices on the ear's boundary block it; clipping such an ear would
// leave a triangle edge running through a ring vertex and flip winding
// in the remainder.
func isEar(ring []Point, remaining []int, prev, cur, next int) bool {
	a, b, c := ring[prev], ring[cur], ring[next]

	// Reflex and collinear corners cannot be ears. The ring is
	// counter-clockwise, so a convex corner turns left (positive cross).
	if b.sub(a).cross(c.sub(b)) <= 0 {
		return false
	}

	for _, idx := range remaining {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		p := ring[idx]
		if p == a || p == b || p == c {
			continue
		}
		if pointInTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

// pointInTriangle reports whether p lies inside triangle abc
// (counter-clockwise) or on its boundary.
func pointInTriangle(p, a, b, c Point) bool {
	d1 := b.sub(a).cross(p.sub(a))
	d2 := c.sub(b).cross(p.sub(b))
	d3 := a.sub(c).cross(p.sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

// fillConvex fans a convex ring from its first vertex. The ring is
// normalized to positive winding first.
func fillConvex(buf *Buffer, ring []Point) error {
	if len(ring) < 3 {
		return fmt.Errorf("%w: outline has %d points", ErrTooFewPoints, len(ring))
	}
	if signedArea(ring) < 0 {
		reverse(ring)
	}

	base := buf.vertex(ring[0])
	prev := buf.vertex(ring[1])
	for _, p := range ring[2:] {
		cur := buf.vertex(p)
		buf.triangle(base, prev, cur)
		prev = cur
	}
	return nil
}

// ellipseRing returns the flattened outline of an ellipse, ordered with
// positive winding.
func ellipseRing(cx, cy, rx, ry float32) []Point {
	n := arcSegments(math32.Max(rx, ry))
	ring := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(n)
		sin, cos := math32.Sincos(angle)
		ring = append(ring, Point{cx + rx*cos, cy + ry*sin})
	}
	if signedArea(ring) < 0 {
		reverse(ring)
	}
	return ring
}

// ClampCornerRadii limits per-corner radii (top-left, top-right,
// bottom-right, bottom-left) so that no radius exceeds half the shorter
// side and adjacent radii sharing a side never sum past the side's
// length. This is the CSS border-radius overlap rule and guarantees a
// non-self-intersecting outline.
func ClampCornerRadii(w, h float32, radii [4]float32) [4]float32 {
	half := math32.Min(w, h) / 2
	for i, r := range radii {
		if r > half {
			radii[i] = half
		}
	}

	scale := float32(1)
	sides := [4]struct {
		length float32
		a, b   int
	}{
		{w, 0, 1}, // top
		{h, 1, 2}, // right
		{w, 2, 3}, // bottom
		{h, 3, 0}, // left
	}
	for _, s := range sides {
		if sum := radii[s.a] + radii[s.b]; sum > s.length {
			scale = math32.Min(scale, s.length/sum)
		}
	}
	if scale < 1 {
		for i := range radii {
			radii[i] *= scale
		}
	}
	return radii
}

// roundedOutline flattens a rounded rectangle's outline to a closed ring.
// Corners with zero radius contribute a single point.
func roundedOutline(x, y, w, h float32, radii [4]float32) []Point {
	radii = ClampCornerRadii(w, h, radii)

	type corner struct {
		center     Point
		startAngle float32
		radius     float32
	}
	// Corner arcs in outline order, each spanning a quarter turn. Angles
	// are in the renderer's Y-down co-ordinates.
	corners := [4]corner{
		{Point{x + radii[0], y + radii[0]}, math32.Pi, radii[0]},             // top-left
		{Point{x + w - radii[1], y + radii[1]}, 3 * math32.Pi / 2, radii[1]}, // top-right
		{Point{x + w - radii[2], y + h - radii[2]}, 0, radii[2]},             // bottom-right
		{Point{x + radii[3], y + h - radii[3]}, math32.Pi / 2, radii[3]},     // bottom-left
	}

	var ring []Point
	for _, c := range corners {
		if c.radius == 0 {
			ring = append(ring, c.center)
			continue
		}
		segs := arcSegments(c.radius) / 4
		if segs < 1 {
			segs = 1
		}
		for i := 0; i <= segs; i++ {
			angle := c.startAngle + math32.Pi/2*float32(i)/float32(segs)
			sin, cos := math32.Sincos(angle)
			ring = append(ring, Point{c.center.X + c.radius*cos, c.center.Y + c.radius*sin})
		}
	}
	return dedup(ring)
}
