package blit

// DrawRange selects the contiguous sub-range of vertices (or indices, for
// an indexed mesh) submitted in one draw call.
type DrawRange struct {
	Start int
	Count int
}

// Mesh is a 2D triangle mesh that can be drawn to the screen.
//
// A Mesh wraps a [VertexBuffer] together with three optional modifiers:
// a [Texture] that vertices sample from, an [IndexBuffer] that controls
// the order/subset of vertices drawn, and a draw range that restricts the
// draw to a subsection of the data.
//
// Without a texture set, the mesh is drawn against a blank white texture;
// per-vertex colors and the DrawParams color control its appearance.
//
// Unlike quad rendering via [Texture], mesh rendering is not batched:
// every Draw issues its own draw call.
//
// Copying or cloning a Mesh copies the composition only: the copy points
// at the same shared buffers, but replacing a buffer on one mesh does not
// affect the other.
type Mesh struct {
	vertexBuffer *VertexBuffer
	indexBuffer  *IndexBuffer
	texture      *Texture
	drawRange    *DrawRange
}

// NewMesh creates a non-indexed mesh over the provided vertex buffer.
func NewMesh(vertexBuffer *VertexBuffer) *Mesh {
	return &Mesh{vertexBuffer: vertexBuffer}
}

// NewIndexedMesh creates an indexed mesh over the provided vertex and
// index buffers.
func NewIndexedMesh(vertexBuffer *VertexBuffer, indexBuffer *IndexBuffer) *Mesh {
	return &Mesh{vertexBuffer: vertexBuffer, indexBuffer: indexBuffer}
}

// NewRectangleMesh creates a mesh containing one rectangle. For several
// shapes in a single mesh, use [GeometryBuilder].
func NewRectangleMesh(ctx *Context, style ShapeStyle, rect Rectangle) (*Mesh, error) {
	return NewGeometryBuilder().Rectangle(style, rect).BuildMesh(ctx)
}

// NewRoundedRectangleMesh creates a mesh containing one rounded
// rectangle.
func NewRoundedRectangleMesh(ctx *Context, style ShapeStyle, rect Rectangle, radii CornerRadii) (*Mesh, error) {
	return NewGeometryBuilder().RoundedRectangle(style, rect, radii).BuildMesh(ctx)
}

// NewCircleMesh creates a mesh containing one circle.
func NewCircleMesh(ctx *Context, style ShapeStyle, center Vec2, radius float32) (*Mesh, error) {
	return NewGeometryBuilder().Circle(style, center, radius).BuildMesh(ctx)
}

// NewEllipseMesh creates a mesh containing one ellipse.
func NewEllipseMesh(ctx *Context, style ShapeStyle, center, radii Vec2) (*Mesh, error) {
	return NewGeometryBuilder().Ellipse(style, center, radii).BuildMesh(ctx)
}

// NewPolygonMesh creates a mesh containing one polygon. The outline is
// implicitly closed.
func NewPolygonMesh(ctx *Context, style ShapeStyle, points []Vec2) (*Mesh, error) {
	return NewGeometryBuilder().Polygon(style, points).BuildMesh(ctx)
}

// NewPolylineMesh creates a mesh containing one stroked open polyline.
func NewPolylineMesh(ctx *Context, strokeWidth float32, points []Vec2) (*Mesh, error) {
	return NewGeometryBuilder().Polyline(strokeWidth, points).BuildMesh(ctx)
}

// VertexBuffer returns the mesh's vertex buffer.
func (m *Mesh) VertexBuffer() *VertexBuffer {
	return m.vertexBuffer
}

// SetVertexBuffer replaces the vertex buffer used when drawing the mesh.
func (m *Mesh) SetVertexBuffer(vertexBuffer *VertexBuffer) {
	m.vertexBuffer = vertexBuffer
}

// IndexBuffer returns the mesh's index buffer, or nil if the mesh is not
// indexed.
func (m *Mesh) IndexBuffer() *IndexBuffer {
	return m.indexBuffer
}

// SetIndexBuffer attaches an index buffer, making the mesh indexed.
func (m *Mesh) SetIndexBuffer(indexBuffer *IndexBuffer) {
	m.indexBuffer = indexBuffer
}

// ResetIndexBuffer detaches the index buffer; drawing reverts to
// non-indexed.
func (m *Mesh) ResetIndexBuffer() {
	m.indexBuffer = nil
}

// Texture returns the mesh's texture, or nil if the mesh is untextured.
func (m *Mesh) Texture() *Texture {
	return m.texture
}

// SetTexture attaches a texture for vertices to sample from.
func (m *Mesh) SetTexture(texture *Texture) {
	m.texture = texture
}

// ResetTexture detaches the texture; the mesh draws untextured.
func (m *Mesh) ResetTexture() {
	m.texture = nil
}

// SetDrawRange restricts drawing to count vertices (or indices, if the
// mesh is indexed) starting at start. Useful for drawing a subsection of
// a large mesh, or a mesh in multiple stages.
func (m *Mesh) SetDrawRange(start, count int) {
	m.drawRange = &DrawRange{Start: start, Count: count}
}

// ResetDrawRange restores drawing of the mesh's full data.
func (m *Mesh) ResetDrawRange() {
	m.drawRange = nil
}

// Clone returns a copy of the mesh's composition. The clone references
// the same shared buffers and texture, but replacing a buffer on one mesh
// leaves the other unchanged.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	if m.drawRange != nil {
		r := *m.drawRange
		clone.drawRange = &r
	}
	return &clone
}

// Draw draws the mesh.
//
// Pending batched sprites are flushed first: the batcher and mesh
// rendering share device state and must not interleave out of order. The
// mesh then resolves its texture (its own, else the blank default) and
// the active shader, and issues exactly one draw call, indexed if an
// index buffer is attached, over the draw range if one is set.
//
// Failure to apply the default uniforms is logged and otherwise ignored;
// the draw proceeds with whatever uniform state the program already had.
func (m *Mesh) Draw(ctx *Context, params DrawParams) {
	ctx.Flush()

	texture := m.texture
	if texture == nil {
		texture = ctx.defaultTexture
	}
	shader := ctx.activeShader()

	transform := ctx.projection.Mul(ctx.view).Mul(modelTransform(params))
	if err := shader.setDefaultUniforms(ctx.device, transform, params.Color); err != nil {
		Logger().Warn("mesh uniforms not applied", "err", err)
	}

	if !params.Clip.IsZero() {
		ctx.device.SetScissor(params.Clip)
		defer ctx.device.ResetScissor()
	}

	if m.indexBuffer != nil {
		start, count := 0, m.indexBuffer.Count()
		if m.drawRange != nil {
			start, count = m.drawRange.Start, m.drawRange.Count
		}
		ctx.device.DrawElements(
			m.vertexBuffer.shared.handle,
			m.indexBuffer.shared.handle,
			texture.shared.handle,
			shader.handle(),
			start,
			count,
		)
		return
	}

	start, count := 0, m.vertexBuffer.Count()
	if m.drawRange != nil {
		start, count = m.drawRange.Start, m.drawRange.Count
	}
	ctx.device.DrawArrays(
		m.vertexBuffer.shared.handle,
		texture.shared.handle,
		shader.handle(),
		start,
		count,
	)
}
