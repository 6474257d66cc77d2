// Package headless provides a blit.Device that renders nothing and
// records everything. It backs the test suites of blit itself and is
// useful for applications that want to assert on draw call streams
// without a GPU.
package headless

import (
	"fmt"

	"github.com/gogpu/blit"
)

// Device implements blit.Device by keeping all resources in CPU memory
// and appending one record per draw call. The zero value is not usable;
// call New.
//
// The Fail* fields inject allocation and uniform failures, which lets
// tests exercise the error paths of the pipeline.
type Device struct {
	// Calls holds every draw call issued, in order.
	Calls []DrawCall

	// Clears holds the color of every clear, in order.
	Clears []blit.Color

	// FailAlloc, when non-nil, is returned from every buffer, texture
	// and program allocation.
	FailAlloc error

	// FailUniform, when non-nil, is returned from every SetUniform.
	FailUniform error

	scissor    *blit.Rectangle
	nextHandle int
}

// DrawCall records one DrawElements or DrawArrays invocation together
// with the scissor rectangle active at the time.
type DrawCall struct {
	Indexed  bool
	Vertices *VertexBuffer
	Indices  *IndexBuffer
	Texture  *Texture
	Program  *Program
	Start    int
	Count    int
	Scissor  *blit.Rectangle
}

// VertexBuffer is the headless vertex buffer handle. Data holds the
// uploaded contents, stride elements per vertex.
type VertexBuffer struct {
	ID        int
	Data      []float32
	Stride    int
	Usage     blit.BufferUsage
	Destroyed bool

	count int
}

// Count reports the buffer's capacity in vertices.
func (b *VertexBuffer) Count() int { return b.count }

// IndexBuffer is the headless index buffer handle.
type IndexBuffer struct {
	ID        int
	Data      []uint32
	Usage     blit.BufferUsage
	Destroyed bool
}

// Count reports the buffer's capacity in indices.
func (b *IndexBuffer) Count() int { return len(b.Data) }

// Texture is the headless texture handle. Data holds the last uploaded
// RGBA8 pixels.
type Texture struct {
	ID        int
	Data      []byte
	Destroyed bool

	width, height int
}

func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

// Program is the headless shader program handle. Uniforms holds the
// latest value set for each uniform name.
type Program struct {
	ID          int
	VertexSrc   string
	FragmentSrc string
	Uniforms    map[string]any
	Destroyed   bool
}

// New returns an empty recording device.
func New() *Device {
	return &Device{}
}

// Reset drops all recorded calls and clears, keeping live resources.
func (d *Device) Reset() {
	d.Calls = nil
	d.Clears = nil
}

func (d *Device) id() int {
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) NewVertexBuffer(count, stride int, usage blit.BufferUsage) (blit.VertexBufferHandle, error) {
	if d.FailAlloc != nil {
		return nil, d.FailAlloc
	}
	return &VertexBuffer{
		ID:     d.id(),
		Data:   make([]float32, count*stride),
		Stride: stride,
		Usage:  usage,
		count:  count,
	}, nil
}

func (d *Device) NewIndexBuffer(count int, usage blit.BufferUsage) (blit.IndexBufferHandle, error) {
	if d.FailAlloc != nil {
		return nil, d.FailAlloc
	}
	return &IndexBuffer{
		ID:    d.id(),
		Data:  make([]uint32, count),
		Usage: usage,
	}, nil
}

func (d *Device) SetVertexBufferData(handle blit.VertexBufferHandle, data []float32, offset int) {
	buf := handle.(*VertexBuffer)
	if offset < 0 || offset+len(data) > len(buf.Data) {
		panic(fmt.Sprintf("headless: vertex buffer write [%d, %d) out of range 0..%d",
			offset, offset+len(data), len(buf.Data)))
	}
	copy(buf.Data[offset:], data)
}

func (d *Device) SetIndexBufferData(handle blit.IndexBufferHandle, data []uint32, offset int) {
	buf := handle.(*IndexBuffer)
	if offset < 0 || offset+len(data) > len(buf.Data) {
		panic(fmt.Sprintf("headless: index buffer write [%d, %d) out of range 0..%d",
			offset, offset+len(data), len(buf.Data)))
	}
	copy(buf.Data[offset:], data)
}

func (d *Device) DestroyVertexBuffer(handle blit.VertexBufferHandle) {
	handle.(*VertexBuffer).Destroyed = true
}

func (d *Device) DestroyIndexBuffer(handle blit.IndexBufferHandle) {
	handle.(*IndexBuffer).Destroyed = true
}

func (d *Device) NewTexture(width, height int) (blit.TextureHandle, error) {
	if d.FailAlloc != nil {
		return nil, d.FailAlloc
	}
	return &Texture{
		ID:     d.id(),
		Data:   make([]byte, width*height*4),
		width:  width,
		height: height,
	}, nil
}

func (d *Device) SetTextureData(handle blit.TextureHandle, data []byte) {
	tex := handle.(*Texture)
	if len(data) != tex.width*tex.height*4 {
		panic(fmt.Sprintf("headless: texture upload of %d bytes, want %d",
			len(data), tex.width*tex.height*4))
	}
	copy(tex.Data, data)
}

func (d *Device) DestroyTexture(handle blit.TextureHandle) {
	handle.(*Texture).Destroyed = true
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (blit.ProgramHandle, error) {
	if d.FailAlloc != nil {
		return nil, d.FailAlloc
	}
	return &Program{
		ID:          d.id(),
		VertexSrc:   vertexSrc,
		FragmentSrc: fragmentSrc,
		Uniforms:    make(map[string]any),
	}, nil
}

func (d *Device) DestroyProgram(handle blit.ProgramHandle) {
	handle.(*Program).Destroyed = true
}

func (d *Device) SetUniform(handle blit.ProgramHandle, name string, value any) error {
	if d.FailUniform != nil {
		return d.FailUniform
	}
	handle.(*Program).Uniforms[name] = value
	return nil
}

func (d *Device) DrawElements(vertices blit.VertexBufferHandle, indices blit.IndexBufferHandle,
	texture blit.TextureHandle, program blit.ProgramHandle, start, count int) {
	d.Calls = append(d.Calls, DrawCall{
		Indexed:  true,
		Vertices: vertices.(*VertexBuffer),
		Indices:  indices.(*IndexBuffer),
		Texture:  texture.(*Texture),
		Program:  program.(*Program),
		Start:    start,
		Count:    count,
		Scissor:  d.scissorCopy(),
	})
}

func (d *Device) DrawArrays(vertices blit.VertexBufferHandle, texture blit.TextureHandle,
	program blit.ProgramHandle, start, count int) {
	d.Calls = append(d.Calls, DrawCall{
		Vertices: vertices.(*VertexBuffer),
		Texture:  texture.(*Texture),
		Program:  program.(*Program),
		Start:    start,
		Count:    count,
		Scissor:  d.scissorCopy(),
	})
}

func (d *Device) Clear(color blit.Color) {
	d.Clears = append(d.Clears, color)
}

func (d *Device) SetScissor(rect blit.Rectangle) {
	d.scissor = &rect
}

func (d *Device) ResetScissor() {
	d.scissor = nil
}

func (d *Device) scissorCopy() *blit.Rectangle {
	if d.scissor == nil {
		return nil
	}
	rect := *d.scissor
	return &rect
}
