package wgpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit"
)

// uniformSize is the byte size of the shader uniform block: a mat4x4
// transform followed by a vec4 color.
const uniformSize = 16*4 + 4*4

// vertexBuffer is the HAL-backed blit.VertexBufferHandle.
type vertexBuffer struct {
	buf    hal.Buffer
	count  int
	stride int
}

func (b *vertexBuffer) Count() int { return b.count }

// indexBuffer is the HAL-backed blit.IndexBufferHandle.
type indexBuffer struct {
	buf   hal.Buffer
	count int
}

func (b *indexBuffer) Count() int { return b.count }

// texture is the HAL-backed blit.TextureHandle.
type texture struct {
	tex  hal.Texture
	view hal.TextureView

	width, height int
}

func (t *texture) Width() int  { return t.width }
func (t *texture) Height() int { return t.height }

// program is the HAL-backed blit.ProgramHandle. Uniform values are
// staged CPU-side and uploaded to the uniform buffer before each draw.
type program struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
	uniformBuf hal.Buffer

	// transform (16 floats) then color (4 floats), std140-compatible.
	uniforms [20]float32
	dirty    bool
}

func (d *Device) NewVertexBuffer(count, stride int, usage blit.BufferUsage) (blit.VertexBufferHandle, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_vertices",
		Size:  uint64(count) * uint64(stride) * 4,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create vertex buffer: %w", err)
	}
	return &vertexBuffer{buf: buf, count: count, stride: stride}, nil
}

func (d *Device) NewIndexBuffer(count int, usage blit.BufferUsage) (blit.IndexBufferHandle, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_indices",
		Size:  uint64(count) * 4,
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create index buffer: %w", err)
	}
	return &indexBuffer{buf: buf, count: count}, nil
}

func (d *Device) SetVertexBufferData(handle blit.VertexBufferHandle, data []float32, offset int) {
	buf := handle.(*vertexBuffer)
	capacity := buf.count * buf.stride
	if offset < 0 || offset+len(data) > capacity {
		panic(fmt.Sprintf("wgpu: vertex buffer write [%d, %d) out of range 0..%d",
			offset, offset+len(data), capacity))
	}
	if len(data) == 0 {
		return
	}
	d.queue.WriteBuffer(buf.buf, uint64(offset)*4, floatBytes(data))
}

func (d *Device) SetIndexBufferData(handle blit.IndexBufferHandle, data []uint32, offset int) {
	buf := handle.(*indexBuffer)
	if offset < 0 || offset+len(data) > buf.count {
		panic(fmt.Sprintf("wgpu: index buffer write [%d, %d) out of range 0..%d",
			offset, offset+len(data), buf.count))
	}
	if len(data) == 0 {
		return
	}
	d.queue.WriteBuffer(buf.buf, uint64(offset)*4, uint32Bytes(data))
}

func (d *Device) DestroyVertexBuffer(handle blit.VertexBufferHandle) {
	d.device.DestroyBuffer(handle.(*vertexBuffer).buf)
}

func (d *Device) DestroyIndexBuffer(handle blit.IndexBufferHandle) {
	d.device.DestroyBuffer(handle.(*indexBuffer).buf)
}

func (d *Device) NewTexture(width, height int) (blit.TextureHandle, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blit_texture",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "blit_texture_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}
	return &texture{tex: tex, view: view, width: width, height: height}, nil
}

func (d *Device) SetTextureData(handle blit.TextureHandle, data []byte) {
	tex := handle.(*texture)
	if len(data) != tex.width*tex.height*4 {
		panic(fmt.Sprintf("wgpu: texture upload of %d bytes, want %d",
			len(data), tex.width*tex.height*4))
	}
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex.tex, MipLevel: 0},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(tex.width) * 4,
			RowsPerImage: uint32(tex.height),
		},
		&hal.Extent3D{Width: uint32(tex.width), Height: uint32(tex.height), DepthOrArrayLayers: 1},
	)
}

func (d *Device) DestroyTexture(handle blit.TextureHandle) {
	tex := handle.(*texture)
	d.device.DestroyTextureView(tex.view)
	d.device.DestroyTexture(tex.tex)
}

// CompileProgram builds a render pipeline from WGSL vertex and fragment
// source. The two sources are concatenated into a single module with
// vs_main and fs_main entry points.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (blit.ProgramHandle, error) {
	p := &program{}
	if err := d.buildProgram(p, vertexSrc+"\n"+fragmentSrc); err != nil {
		d.DestroyProgram(p)
		return nil, err
	}
	return p, nil
}

func (d *Device) buildProgram(p *program, source string) error {
	spirv, err := compileWGSL(source)
	if err != nil {
		return fmt.Errorf("wgpu: compile shader: %w", err)
	}
	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "blit_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create shader module: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: Uniforms (uniform buffer, vertex+fragment)
	//   Binding 1: color texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "blit_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}
	p.sampler = sampler

	uniformBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	p.uniformBuf = uniformBuf
	p.dirty = true

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    blitVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// blitVertexLayout describes one interleaved vertex: position vec2, uv
// vec2, color vec4.
func blitVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: blit.VertexStride * 4,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
			},
		},
	}
}

func (d *Device) DestroyProgram(handle blit.ProgramHandle) {
	p := handle.(*program)
	if p.pipeline != nil {
		d.device.DestroyRenderPipeline(p.pipeline)
	}
	if p.uniformBuf != nil {
		d.device.DestroyBuffer(p.uniformBuf)
	}
	if p.sampler != nil {
		d.device.DestroySampler(p.sampler)
	}
	if p.pipeLayout != nil {
		d.device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		d.device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.shader != nil {
		d.device.DestroyShaderModule(p.shader)
	}
}

// SetUniform stages a uniform value. Supported names are u_transform
// (blit.Mat4) and u_color (blit.Color); the staged block is uploaded
// before the next draw that uses the program.
func (d *Device) SetUniform(handle blit.ProgramHandle, name string, value any) error {
	p := handle.(*program)
	switch name {
	case "u_transform":
		m, ok := value.(blit.Mat4)
		if !ok {
			return fmt.Errorf("wgpu: uniform %q wants blit.Mat4, got %T", name, value)
		}
		copy(p.uniforms[:16], m[:])
	case "u_color":
		c, ok := value.(blit.Color)
		if !ok {
			return fmt.Errorf("wgpu: uniform %q wants blit.Color, got %T", name, value)
		}
		p.uniforms[16] = c.R
		p.uniforms[17] = c.G
		p.uniforms[18] = c.B
		p.uniforms[19] = c.A
	default:
		return fmt.Errorf("wgpu: unknown uniform %q", name)
	}
	p.dirty = true
	return nil
}

// flushUniforms uploads the staged uniform block if it changed.
func (d *Device) flushUniforms(p *program) {
	if !p.dirty {
		return
	}
	d.queue.WriteBuffer(p.uniformBuf, 0, floatBytes(p.uniforms[:]))
	p.dirty = false
}

// compileWGSL compiles WGSL source to SPIR-V words. SPIR-V is
// little-endian 32-bit words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

func floatBytes(data []float32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4) //nolint:gosec // raw upload of numeric data
}

func uint32Bytes(data []uint32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4) //nolint:gosec // raw upload of numeric data
}
