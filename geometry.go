package blit

import (
	"github.com/gogpu/blit/internal/tessellate"
)

// ShapeStyle selects between filling a shape's interior and stroking
// its outline at a constant width.
type ShapeStyle struct {
	stroke bool
	width  float32
}

// Fill returns a style that fills the shape's interior.
func Fill() ShapeStyle {
	return ShapeStyle{}
}

// Stroke returns a style that outlines the shape with a stroke of the
// given width. The width must be positive; shape methods report a
// tessellation error otherwise.
func Stroke(width float32) ShapeStyle {
	return ShapeStyle{stroke: true, width: width}
}

// CornerRadii holds the per-corner radii of a rounded rectangle.
type CornerRadii struct {
	TopLeft     float32
	TopRight    float32
	BottomRight float32
	BottomLeft  float32
}

// UniformCornerRadii returns radii using the same value for all four
// corners.
func UniformCornerRadii(radius float32) CornerRadii {
	return CornerRadii{radius, radius, radius, radius}
}

func (r CornerRadii) array() [4]float32 {
	return [4]float32{r.TopLeft, r.TopRight, r.BottomRight, r.BottomLeft}
}

// GeometryBuilder accumulates tessellated shapes into a single vertex
// and index list. Shape methods return the builder so calls chain; the
// first error any shape produces sticks and is reported by [GeometryBuilder.Err]
// and the Build methods. A failed shape leaves the geometry accumulated
// so far untouched.
//
// Tessellated vertices carry the builder's current color and zero UV
// co-ordinates, so built meshes sample the top-left corner of whatever
// texture is active when they are drawn.
type GeometryBuilder struct {
	vertices []Vertex
	indices  []uint32
	color    Color
	err      error
}

// NewGeometryBuilder returns an empty builder with the color set to
// white.
func NewGeometryBuilder() *GeometryBuilder {
	return &GeometryBuilder{color: White}
}

// SetColor sets the color applied to vertices of subsequent shapes.
func (g *GeometryBuilder) SetColor(color Color) *GeometryBuilder {
	g.color = color
	return g
}

// Rectangle adds a rectangle.
func (g *GeometryBuilder) Rectangle(style ShapeStyle, rect Rectangle) *GeometryBuilder {
	return g.shape("rectangle", func(buf *tessellate.Buffer) error {
		if style.stroke {
			return tessellate.StrokeRectangle(buf, rect.X, rect.Y, rect.Width, rect.Height, style.width)
		}
		return tessellate.FillRectangle(buf, rect.X, rect.Y, rect.Width, rect.Height)
	})
}

// RoundedRectangle adds a rectangle with rounded corners. Radii too
// large for the rectangle are scaled down so adjacent corners never
// overlap.
func (g *GeometryBuilder) RoundedRectangle(style ShapeStyle, rect Rectangle, radii CornerRadii) *GeometryBuilder {
	return g.shape("rounded rectangle", func(buf *tessellate.Buffer) error {
		if style.stroke {
			return tessellate.StrokeRoundedRectangle(buf, rect.X, rect.Y, rect.Width, rect.Height, radii.array(), style.width)
		}
		return tessellate.FillRoundedRectangle(buf, rect.X, rect.Y, rect.Width, rect.Height, radii.array())
	})
}

// Circle adds a circle.
func (g *GeometryBuilder) Circle(style ShapeStyle, center Vec2, radius float32) *GeometryBuilder {
	return g.Ellipse(style, center, V2(radius, radius))
}

// Ellipse adds an axis-aligned ellipse.
func (g *GeometryBuilder) Ellipse(style ShapeStyle, center, radii Vec2) *GeometryBuilder {
	return g.shape("ellipse", func(buf *tessellate.Buffer) error {
		if style.stroke {
			return tessellate.StrokeEllipse(buf, center.X, center.Y, radii.X, radii.Y, style.width)
		}
		return tessellate.FillEllipse(buf, center.X, center.Y, radii.X, radii.Y)
	})
}

// Polygon adds a simple polygon. The outline is implicitly closed and
// needs at least three distinct points.
func (g *GeometryBuilder) Polygon(style ShapeStyle, points []Vec2) *GeometryBuilder {
	return g.shape("polygon", func(buf *tessellate.Buffer) error {
		if style.stroke {
			return tessellate.StrokePath(buf, tessellatePoints(points), style.width, true)
		}
		return tessellate.FillPolygon(buf, tessellatePoints(points))
	})
}

// Polyline adds an open stroked path through the given points.
func (g *GeometryBuilder) Polyline(strokeWidth float32, points []Vec2) *GeometryBuilder {
	return g.shape("polyline", func(buf *tessellate.Buffer) error {
		return tessellate.StrokePath(buf, tessellatePoints(points), strokeWidth, false)
	})
}

// shape tessellates one shape into a scratch buffer and merges it into
// the accumulated geometry only on success, so a failing shape never
// leaves partial output behind.
func (g *GeometryBuilder) shape(name string, fn func(*tessellate.Buffer) error) *GeometryBuilder {
	if g.err != nil {
		return g
	}
	var buf tessellate.Buffer
	if err := fn(&buf); err != nil {
		g.err = tessellationErr(name, err)
		return g
	}

	base := uint32(len(g.vertices))
	for _, p := range buf.Positions {
		g.vertices = append(g.vertices, Vertex{
			Position: V2(p.X, p.Y),
			Color:    g.color,
		})
	}
	for _, idx := range buf.Indices {
		g.indices = append(g.indices, base+idx)
	}
	return g
}

// Err returns the first error a shape method produced, or nil.
func (g *GeometryBuilder) Err() error {
	return g.err
}

// Clear discards all accumulated geometry and any sticky error. The
// current color is kept and the builder can be reused.
func (g *GeometryBuilder) Clear() *GeometryBuilder {
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
	g.err = nil
	return g
}

// Vertices returns a copy of the accumulated vertices.
func (g *GeometryBuilder) Vertices() []Vertex {
	out := make([]Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Indices returns a copy of the accumulated indices.
func (g *GeometryBuilder) Indices() []uint32 {
	out := make([]uint32, len(g.indices))
	copy(out, g.indices)
	return out
}

// IntoData returns copies of the accumulated vertex and index data, or
// the sticky error if any shape failed.
func (g *GeometryBuilder) IntoData() ([]Vertex, []uint32, error) {
	if g.err != nil {
		return nil, nil, g.err
	}
	return g.Vertices(), g.Indices(), nil
}

// BuildBuffers uploads the accumulated geometry as a static vertex and
// index buffer pair.
func (g *GeometryBuilder) BuildBuffers(ctx *Context) (*VertexBuffer, *IndexBuffer, error) {
	if g.err != nil {
		return nil, nil, g.err
	}
	vertexBuffer, err := NewVertexBufferWithUsage(ctx, g.vertices, StaticUsage)
	if err != nil {
		return nil, nil, err
	}
	indexBuffer, err := NewIndexBufferWithUsage(ctx, g.indices, StaticUsage)
	if err != nil {
		vertexBuffer.Release()
		return nil, nil, err
	}
	return vertexBuffer, indexBuffer, nil
}

// BuildMesh uploads the accumulated geometry and wraps it in a mesh.
func (g *GeometryBuilder) BuildMesh(ctx *Context) (*Mesh, error) {
	vertexBuffer, indexBuffer, err := g.BuildBuffers(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndexedMesh(vertexBuffer, indexBuffer), nil
}

func tessellatePoints(points []Vec2) []tessellate.Point {
	out := make([]tessellate.Point, len(points))
	for i, p := range points {
		out[i] = tessellate.Point{X: p.X, Y: p.Y}
	}
	return out
}
