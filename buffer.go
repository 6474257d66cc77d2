package blit

import "fmt"

// VertexStride is the number of float32 elements per vertex: two position,
// two texture co-ordinate, four color components. It is constant across
// every buffer the package creates.
const VertexStride = 8

// Vertex is an individual piece of vertex data.
type Vertex struct {
	// Position of the vertex, in screen co-ordinates. The draw transform
	// is applied to this value, followed by the projection from screen to
	// device co-ordinates.
	Position Vec2

	// UV is the texture co-ordinate sampled for this vertex. Both
	// components should be in [0, 1].
	UV Vec2

	// Color of the vertex. Multiplied by the DrawParams color when a mesh
	// is drawn.
	Color Color
}

// NewVertex creates a new vertex.
func NewVertex(position, uv Vec2, color Color) Vertex {
	return Vertex{Position: position, UV: uv, Color: color}
}

// flatten appends the vertex's float32 representation to dst.
func (v Vertex) flatten(dst []float32) []float32 {
	return append(dst,
		v.Position.X, v.Position.Y,
		v.UV.X, v.UV.Y,
		v.Color.R, v.Color.G, v.Color.B, v.Color.A,
	)
}

// flattenVertices converts vertex data to the packed float32 layout the
// device consumes.
func flattenVertices(vertices []Vertex) []float32 {
	data := make([]float32, 0, len(vertices)*VertexStride)
	for _, v := range vertices {
		data = v.flatten(data)
	}
	return data
}

// BufferUsage hints at how often a buffer's contents will change. The
// device may use it to optimize storage; it never affects correctness.
type BufferUsage int

const (
	// StaticUsage marks data not expected to change after creation.
	StaticUsage BufferUsage = iota

	// DynamicUsage marks data expected to change occasionally.
	DynamicUsage

	// StreamUsage marks data expected to change every frame.
	StreamUsage
)

// String returns the string representation of the usage hint.
func (u BufferUsage) String() string {
	switch u {
	case StaticUsage:
		return "Static"
	case DynamicUsage:
		return "Dynamic"
	case StreamUsage:
		return "Stream"
	default:
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
}

// VertexWinding is the rotational order of the vertices in a piece of
// geometry.
type VertexWinding int

const (
	// Clockwise vertex ordering.
	Clockwise VertexWinding = iota

	// CounterClockwise vertex ordering.
	CounterClockwise
)

// Flipped returns the opposite winding. It is an involution:
// w.Flipped().Flipped() == w.
func (w VertexWinding) Flipped() VertexWinding {
	if w == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

// String returns the string representation of the winding.
func (w VertexWinding) String() string {
	switch w {
	case Clockwise:
		return "Clockwise"
	case CounterClockwise:
		return "CounterClockwise"
	default:
		return fmt.Sprintf("Unknown(%d)", int(w))
	}
}

// sharedBuffer is the reference-counted resource behind buffer handles.
// The GPU resource is released when the last handle is released, keeping
// resource lifetime deterministic rather than tied to garbage collection.
type sharedBuffer[H any] struct {
	device  Device
	handle  H
	refs    int
	destroy func(Device, H)
}

func (s *sharedBuffer[H]) retain() { s.refs++ }

func (s *sharedBuffer[H]) release() {
	if s.refs <= 0 {
		return
	}
	s.refs--
	if s.refs == 0 {
		s.destroy(s.device, s.handle)
	}
}

// VertexBuffer is vertex data stored in GPU memory, drawable via a [Mesh].
//
// Cloning a VertexBuffer is O(1): the underlying GPU resource is shared
// between the original and the clone by reference counting, so updating
// one updates every clone. Release drops a reference; the GPU resource is
// freed when the last handle is released.
type VertexBuffer struct {
	shared *sharedBuffer[VertexBufferHandle]
}

// NewVertexBuffer creates a vertex buffer with the [DynamicUsage] hint and
// uploads the initial contents. Returns a platform error if the device
// cannot allocate or initialize the resource.
func NewVertexBuffer(ctx *Context, vertices []Vertex) (*VertexBuffer, error) {
	return NewVertexBufferWithUsage(ctx, vertices, DynamicUsage)
}

// NewVertexBufferWithUsage creates a vertex buffer with the given usage
// hint.
func NewVertexBufferWithUsage(ctx *Context, vertices []Vertex, usage BufferUsage) (*VertexBuffer, error) {
	handle, err := ctx.device.NewVertexBuffer(len(vertices), VertexStride, usage)
	if err != nil {
		return nil, platformErr("create vertex buffer", err)
	}
	ctx.device.SetVertexBufferData(handle, flattenVertices(vertices), 0)

	return &VertexBuffer{
		shared: &sharedBuffer[VertexBufferHandle]{
			device:  ctx.device,
			handle:  handle,
			refs:    1,
			destroy: Device.DestroyVertexBuffer,
		},
	}, nil
}

// Count returns the buffer's capacity in vertices.
func (b *VertexBuffer) Count() int {
	return b.shared.handle.Count()
}

// SetData uploads new vertex data starting offset vertices into the
// buffer. The upload is visible through every clone sharing the resource.
//
// Panics if offset+len(vertices) exceeds the buffer's capacity: an
// out-of-bounds write indicates misuse, not an environmental failure.
func (b *VertexBuffer) SetData(ctx *Context, vertices []Vertex, offset int) {
	if offset < 0 || offset+len(vertices) > b.Count() {
		panic(fmt.Sprintf("blit: vertex buffer write out of bounds: offset %d + %d vertices > capacity %d",
			offset, len(vertices), b.Count()))
	}
	ctx.device.SetVertexBufferData(b.shared.handle, flattenVertices(vertices), offset*VertexStride)
}

// Clone returns a new handle sharing the same GPU resource. The operation
// is O(1) and does not duplicate GPU memory.
func (b *VertexBuffer) Clone() *VertexBuffer {
	b.shared.retain()
	return &VertexBuffer{shared: b.shared}
}

// Release drops this handle's reference. The GPU resource is freed when
// the last handle sharing it has been released. Using the buffer after
// releasing the last reference is invalid.
func (b *VertexBuffer) Release() {
	b.shared.release()
}

// IntoMesh creates a non-indexed mesh using this buffer. This is a
// shortcut for NewMesh.
func (b *VertexBuffer) IntoMesh() *Mesh {
	return NewMesh(b)
}

// IndexBuffer is index data stored in GPU memory. As part of a [Mesh] it
// describes which vertices are drawn and in what order: each uint32 value
// is the zero-based index of a vertex.
//
// IndexBuffer has the same sharing semantics as [VertexBuffer]: clones
// share the GPU resource, and it is freed when the last handle is
// released.
type IndexBuffer struct {
	shared *sharedBuffer[IndexBufferHandle]
}

// NewIndexBuffer creates an index buffer with the [DynamicUsage] hint and
// uploads the initial contents. Returns a platform error if the device
// cannot allocate or initialize the resource.
func NewIndexBuffer(ctx *Context, indices []uint32) (*IndexBuffer, error) {
	return NewIndexBufferWithUsage(ctx, indices, DynamicUsage)
}

// NewIndexBufferWithUsage creates an index buffer with the given usage
// hint.
func NewIndexBufferWithUsage(ctx *Context, indices []uint32, usage BufferUsage) (*IndexBuffer, error) {
	handle, err := ctx.device.NewIndexBuffer(len(indices), usage)
	if err != nil {
		return nil, platformErr("create index buffer", err)
	}
	ctx.device.SetIndexBufferData(handle, indices, 0)

	return &IndexBuffer{
		shared: &sharedBuffer[IndexBufferHandle]{
			device:  ctx.device,
			handle:  handle,
			refs:    1,
			destroy: Device.DestroyIndexBuffer,
		},
	}, nil
}

// Count returns the buffer's capacity in indices.
func (b *IndexBuffer) Count() int {
	return b.shared.handle.Count()
}

// SetData uploads new index data starting offset elements into the
// buffer. The upload is visible through every clone sharing the resource.
//
// Panics if offset+len(indices) exceeds the buffer's capacity.
func (b *IndexBuffer) SetData(ctx *Context, indices []uint32, offset int) {
	if offset < 0 || offset+len(indices) > b.Count() {
		panic(fmt.Sprintf("blit: index buffer write out of bounds: offset %d + %d indices > capacity %d",
			offset, len(indices), b.Count()))
	}
	ctx.device.SetIndexBufferData(b.shared.handle, indices, offset)
}

// Clone returns a new handle sharing the same GPU resource.
func (b *IndexBuffer) Clone() *IndexBuffer {
	b.shared.retain()
	return &IndexBuffer{shared: b.shared}
}

// Release drops this handle's reference. The GPU resource is freed when
// the last handle sharing it has been released.
func (b *IndexBuffer) Release() {
	b.shared.release()
}
