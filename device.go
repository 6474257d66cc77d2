package blit

// Device is the graphics API abstraction the rendering pipeline drives.
// blit consumes a Device, it never creates one: the application picks an
// implementation (backend/wgpu for hardware rendering, backend/headless
// for tests) and hands it to NewContext.
//
// Methods that allocate or compile report failures as errors; callers wrap
// them into [ErrPlatform]. Data uploads with an out-of-bounds offset are
// contract violations and panic.
type Device interface {
	// NewVertexBuffer allocates a vertex buffer holding count vertices of
	// stride float32 elements each.
	NewVertexBuffer(count, stride int, usage BufferUsage) (VertexBufferHandle, error)

	// NewIndexBuffer allocates an index buffer holding count uint32 indices.
	NewIndexBuffer(count int, usage BufferUsage) (IndexBufferHandle, error)

	// SetVertexBufferData uploads data starting offset float32 elements
	// into the buffer. Panics if offset+len(data) exceeds capacity.
	SetVertexBufferData(handle VertexBufferHandle, data []float32, offset int)

	// SetIndexBufferData uploads data starting offset elements into the
	// buffer. Panics if offset+len(data) exceeds capacity.
	SetIndexBufferData(handle IndexBufferHandle, data []uint32, offset int)

	// DestroyVertexBuffer releases the GPU resource behind the handle.
	DestroyVertexBuffer(handle VertexBufferHandle)

	// DestroyIndexBuffer releases the GPU resource behind the handle.
	DestroyIndexBuffer(handle IndexBufferHandle)

	// NewTexture allocates a width x height RGBA8 texture.
	NewTexture(width, height int) (TextureHandle, error)

	// SetTextureData uploads tightly packed RGBA8 pixel data covering the
	// whole texture. Panics if len(data) != width*height*4.
	SetTextureData(handle TextureHandle, data []byte)

	// DestroyTexture releases the GPU resource behind the handle.
	DestroyTexture(handle TextureHandle)

	// CompileProgram compiles and links a shader program from vertex and
	// fragment source text. The source language is backend-defined (WGSL
	// for backend/wgpu).
	CompileProgram(vertexSrc, fragmentSrc string) (ProgramHandle, error)

	// DestroyProgram releases the program behind the handle.
	DestroyProgram(handle ProgramHandle)

	// SetUniform sets a named shader uniform on a program. Supported value
	// types are Mat4 and Color.
	SetUniform(handle ProgramHandle, name string, value any) error

	// DrawElements issues one indexed draw call over count indices
	// starting at index start.
	DrawElements(vertices VertexBufferHandle, indices IndexBufferHandle,
		texture TextureHandle, program ProgramHandle, start, count int)

	// DrawArrays issues one non-indexed draw call over count vertices
	// starting at vertex start.
	DrawArrays(vertices VertexBufferHandle, texture TextureHandle,
		program ProgramHandle, start, count int)

	// Clear fills the render target with a solid color.
	Clear(color Color)

	// SetScissor restricts subsequent draw calls to a screen-space
	// rectangle. ResetScissor removes the restriction.
	SetScissor(rect Rectangle)
	ResetScissor()
}

// VertexBufferHandle identifies one device-resident vertex buffer.
// Count reports the buffer's capacity in vertices.
type VertexBufferHandle interface {
	Count() int
}

// IndexBufferHandle identifies one device-resident index buffer.
// Count reports the buffer's capacity in indices.
type IndexBufferHandle interface {
	Count() int
}

// TextureHandle identifies one device-resident texture.
type TextureHandle interface {
	Width() int
	Height() int
}

// ProgramHandle identifies one compiled shader program. It is opaque to
// the core; only the owning Device interprets it.
type ProgramHandle interface{}
