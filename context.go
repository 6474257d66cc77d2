package blit

import (
	"fmt"
	"math"
)

const (
	verticesPerSprite = 4
	indicesPerSprite  = 6

	// defaultSpriteCapacity is the number of quads the shared sprite
	// buffer holds before a flush is forced.
	defaultSpriteCapacity = 1024

	// maxSpriteCapacity bounds the sprite capacity so that every vertex
	// index in the shared static index buffer fits in a uint32.
	maxSpriteCapacity = (math.MaxUint32 - 3) / verticesPerSprite
)

// quadIndices is the index pattern for one quad: two triangles over four
// vertices. Each subsequent quad repeats the pattern offset by four.
var quadIndices = [indicesPerSprite]uint32{0, 1, 2, 2, 3, 0}

// ContextOptions configures context creation. The zero value selects
// defaults.
type ContextOptions struct {
	// SpriteCapacity is the number of quads the sprite batcher can hold
	// between flushes. Defaults to 1024.
	//
	// NewContextWithOptions panics if the capacity is negative or larger
	// than the shared index buffer's index representation allows; an
	// impossible capacity is a configuration bug, not a runtime
	// condition.
	SpriteCapacity int
}

// Context owns all mutable rendering state: the device, the sprite
// batcher, projection and view transforms, and the default shader and
// texture. It is created once at renderer initialization and passed
// explicitly to every drawing operation.
//
// A Context is not safe for concurrent use.
type Context struct {
	device Device

	width  int
	height int

	projection Mat4
	view       Mat4

	defaultShader  *Shader
	defaultTexture *Texture
	shader         *Shader // active user shader, nil for default

	batch spriteBatch
}

// spriteBatch accumulates textured-quad vertex data between flushes.
// Invariant: spriteCount*verticesPerSprite never exceeds the shared
// vertex buffer's capacity, and texture is nil only when no sprite has
// been enqueued since the last flush.
type spriteBatch struct {
	vertices    VertexBufferHandle
	indices     IndexBufferHandle
	scratch     []float32
	spriteCount int
	capacity    int
	texture     *Texture
}

// NewContext creates a rendering context with default options. The width
// and height describe the render target in pixels and seed the screen
// projection.
//
// Returns a platform error if the device cannot allocate the shared
// sprite buffers, compile the default shader, or create the default
// blank texture.
func NewContext(device Device, width, height int) (*Context, error) {
	return NewContextWithOptions(device, width, height, ContextOptions{})
}

// NewContextWithOptions creates a rendering context with explicit options.
func NewContextWithOptions(device Device, width, height int, opts ContextOptions) (*Context, error) {
	capacity := opts.SpriteCapacity
	if capacity == 0 {
		capacity = defaultSpriteCapacity
	}
	if capacity < 0 || capacity > maxSpriteCapacity {
		panic(fmt.Sprintf("blit: sprite capacity %d outside valid range [1, %d]",
			capacity, maxSpriteCapacity))
	}

	vertices, err := device.NewVertexBuffer(capacity*verticesPerSprite, VertexStride, StreamUsage)
	if err != nil {
		return nil, platformErr("create sprite vertex buffer", err)
	}

	indices, err := device.NewIndexBuffer(capacity*indicesPerSprite, StaticUsage)
	if err != nil {
		device.DestroyVertexBuffer(vertices)
		return nil, platformErr("create sprite index buffer", err)
	}

	// The quad index pattern is static for the context's lifetime: quad i
	// uses vertices [4i, 4i+4).
	indexData := make([]uint32, 0, capacity*indicesPerSprite)
	for i := 0; i < capacity; i++ {
		base := uint32(i * verticesPerSprite)
		for _, idx := range quadIndices {
			indexData = append(indexData, base+idx)
		}
	}
	device.SetIndexBufferData(indices, indexData, 0)

	shader, err := newShader(device, DefaultVertexShader, DefaultFragmentShader)
	if err != nil {
		device.DestroyIndexBuffer(indices)
		device.DestroyVertexBuffer(vertices)
		return nil, err
	}

	ctx := &Context{
		device:        device,
		width:         width,
		height:        height,
		projection:    Orthographic(0, float32(width), float32(height), 0, -1, 1),
		view:          Identity(),
		defaultShader: shader,
		batch: spriteBatch{
			vertices: vertices,
			indices:  indices,
			scratch:  make([]float32, 0, capacity*verticesPerSprite*VertexStride),
			capacity: capacity,
		},
	}

	// Untextured draws sample a 1x1 white texture so a single shader
	// covers both cases.
	blank, err := NewTexture(ctx, 1, 1)
	if err != nil {
		shader.Release()
		device.DestroyIndexBuffer(indices)
		device.DestroyVertexBuffer(vertices)
		return nil, err
	}
	device.SetTextureData(blank.shared.handle, []byte{0xff, 0xff, 0xff, 0xff})
	ctx.defaultTexture = blank

	Logger().Debug("context created",
		"width", width, "height", height, "spriteCapacity", capacity)

	return ctx, nil
}

// Device returns the device the context draws through.
func (ctx *Context) Device() Device { return ctx.device }

// Width returns the render target width in pixels.
func (ctx *Context) Width() int { return ctx.width }

// Height returns the render target height in pixels.
func (ctx *Context) Height() int { return ctx.height }

// OnResize updates the screen projection after the render target changes
// size. Pending batched sprites are flushed first, under the old
// projection they were enqueued with.
func (ctx *Context) OnResize(width, height int) {
	ctx.Flush()
	ctx.width = width
	ctx.height = height
	ctx.projection = Orthographic(0, float32(width), float32(height), 0, -1, 1)
}

// SetViewMatrix replaces the view transform applied between the screen
// projection and per-draw transforms. Pending sprites are flushed first
// so they keep the transform they were enqueued under.
func (ctx *Context) SetViewMatrix(view Mat4) {
	ctx.Flush()
	ctx.view = view
}

// ViewMatrix returns the current view transform.
func (ctx *Context) ViewMatrix() Mat4 { return ctx.view }

// SetShader makes a user shader active for subsequent draws. Pending
// sprites are flushed first so they are drawn with the shader they were
// enqueued under.
func (ctx *Context) SetShader(shader *Shader) {
	if ctx.shader == shader {
		return
	}
	ctx.Flush()
	ctx.shader = shader
}

// ResetShader restores the built-in default shader.
func (ctx *Context) ResetShader() {
	ctx.SetShader(nil)
}

// activeShader resolves the shader draws use: the user shader if one is
// set, the built-in default otherwise.
func (ctx *Context) activeShader() *Shader {
	if ctx.shader != nil {
		return ctx.shader
	}
	return ctx.defaultShader
}

// SetTexture binds a texture for subsequent batched quads.
//
// Binding the already-bound texture is a no-op. Binding a different
// texture forces a flush first, so every quad in the scratch buffer
// belongs to exactly one texture when it is submitted.
func (ctx *Context) SetTexture(texture *Texture) {
	if ctx.batch.texture.Equal(texture) {
		return
	}
	if ctx.batch.texture != nil {
		ctx.Flush()
	}
	ctx.batch.texture = texture
}

// PushQuad appends one textured quad to the sprite batch. Corner order is
// top-left, top-right, bottom-right, bottom-left. If the batch is full it
// is flushed first.
//
// A texture must be bound with SetTexture before quads are pushed.
func (ctx *Context) PushQuad(positions, uvs [4]Vec2, color Color) {
	if ctx.batch.texture == nil {
		panic("blit: PushQuad called with no texture bound")
	}
	if ctx.batch.spriteCount == ctx.batch.capacity {
		ctx.Flush()
	}
	for i := 0; i < verticesPerSprite; i++ {
		ctx.batch.scratch = Vertex{
			Position: positions[i],
			UV:       uvs[i],
			Color:    color,
		}.flatten(ctx.batch.scratch)
	}
	ctx.batch.spriteCount++
}

// Flush submits all accumulated batched sprite data as one indexed draw
// call and resets the batch. If no sprites are pending, Flush is a no-op.
//
// Drawing a mesh or changing texture, shader, or view state flushes
// implicitly; call Flush directly at the end of a frame.
func (ctx *Context) Flush() {
	if ctx.batch.spriteCount == 0 || ctx.batch.texture == nil {
		return
	}

	shader := ctx.activeShader()
	if err := shader.setDefaultUniforms(ctx.device, ctx.projection.Mul(ctx.view), White); err != nil {
		Logger().Warn("sprite batch uniforms not applied", "err", err)
	}

	ctx.device.SetVertexBufferData(ctx.batch.vertices, ctx.batch.scratch, 0)
	ctx.device.DrawElements(
		ctx.batch.vertices,
		ctx.batch.indices,
		ctx.batch.texture.shared.handle,
		shader.handle(),
		0,
		ctx.batch.spriteCount*indicesPerSprite,
	)

	Logger().Debug("sprite batch flushed", "sprites", ctx.batch.spriteCount)

	ctx.batch.scratch = ctx.batch.scratch[:0]
	ctx.batch.spriteCount = 0
}

// Destroy flushes pending work and releases the context's own GPU
// resources: the shared sprite buffers, the default shader, and the
// default blank texture. Buffers, meshes, and textures created by the
// application are released by their own handles.
func (ctx *Context) Destroy() {
	ctx.Flush()
	ctx.defaultTexture.Release()
	ctx.defaultShader.Release()
	ctx.device.DestroyIndexBuffer(ctx.batch.indices)
	ctx.device.DestroyVertexBuffer(ctx.batch.vertices)
}

// Clear fills the render target with a solid color.
func Clear(ctx *Context, color Color) {
	ctx.device.Clear(color)
}
