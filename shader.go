package blit

// Default shader sources, in WGSL. Backends that consume another shading
// language can translate or substitute their own equivalents; the uniform
// names (u_transform, u_color) are part of the contract between the core
// and the device.
const (
	// DefaultVertexShader transforms screen-space positions to device
	// co-ordinates and passes UV and color through.
	DefaultVertexShader = `
struct Uniforms {
    transform: mat4x4<f32>,
    color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> uniforms: Uniforms;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
};

@vertex
fn vs_main(
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) color: vec4<f32>,
) -> VertexOutput {
    var out: VertexOutput;
    out.position = uniforms.transform * vec4<f32>(position, 0.0, 1.0);
    out.uv = uv;
    out.color = color * uniforms.color;
    return out;
}
`

	// DefaultFragmentShader samples the bound texture and multiplies by
	// the interpolated vertex color.
	DefaultFragmentShader = `
@group(0) @binding(1) var t_diffuse: texture_2d<f32>;
@group(0) @binding(2) var s_diffuse: sampler;

@fragment
fn fs_main(
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
) -> @location(0) vec4<f32> {
    return textureSample(t_diffuse, s_diffuse, uv) * color;
}
`
)

// Uniform names set by the default draw path.
const (
	uniformTransform = "u_transform"
	uniformColor     = "u_color"
)

// Shader is a compiled shader program.
//
// Shaders share their program the same way buffers share their GPU
// resources: cloning is O(1), and the program is released with the last
// handle.
type Shader struct {
	shared *sharedBuffer[ProgramHandle]
}

// NewShader compiles a shader program from vertex and fragment source
// text. Returns a platform error if compilation fails.
func NewShader(ctx *Context, vertexSrc, fragmentSrc string) (*Shader, error) {
	return newShader(ctx.device, vertexSrc, fragmentSrc)
}

func newShader(device Device, vertexSrc, fragmentSrc string) (*Shader, error) {
	handle, err := device.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, platformErr("compile program", err)
	}
	return &Shader{
		shared: &sharedBuffer[ProgramHandle]{
			device:  device,
			handle:  handle,
			refs:    1,
			destroy: Device.DestroyProgram,
		},
	}, nil
}

// Clone returns a new handle sharing the same program.
func (s *Shader) Clone() *Shader {
	s.shared.retain()
	return &Shader{shared: s.shared}
}

// Release drops this handle's reference. The program is released when the
// last handle sharing it has been released.
func (s *Shader) Release() {
	s.shared.release()
}

// SetUniform sets a named uniform on the program. Supported value types
// are Mat4 and Color.
func (s *Shader) SetUniform(ctx *Context, name string, value any) error {
	if err := ctx.device.SetUniform(s.shared.handle, name, value); err != nil {
		return platformErr("set uniform "+name, err)
	}
	return nil
}

// setDefaultUniforms pushes the combined draw transform and tint color
// that the default shaders (and any compatible user shader) consume.
func (s *Shader) setDefaultUniforms(device Device, transform Mat4, color Color) error {
	if err := device.SetUniform(s.shared.handle, uniformTransform, transform); err != nil {
		return err
	}
	return device.SetUniform(s.shared.handle, uniformColor, color)
}

func (s *Shader) handle() ProgramHandle {
	return s.shared.handle
}
