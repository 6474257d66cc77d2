package blit

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Texture is image data stored in GPU memory.
//
// Textures have the same sharing semantics as buffers: cloning is O(1)
// and shares the GPU resource; the resource is freed when the last handle
// is released.
//
// Drawing a texture goes through the sprite batcher: consecutive draws of
// the same texture accumulate into a single draw call.
type Texture struct {
	shared *sharedBuffer[TextureHandle]
	width  int
	height int
}

// NewTexture creates an empty width x height texture. Returns a platform
// error if the device cannot allocate the resource.
func NewTexture(ctx *Context, width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("blit: invalid texture size %dx%d", width, height))
	}
	handle, err := ctx.device.NewTexture(width, height)
	if err != nil {
		return nil, platformErr("create texture", err)
	}
	return &Texture{
		shared: &sharedBuffer[TextureHandle]{
			device:  ctx.device,
			handle:  handle,
			refs:    1,
			destroy: Device.DestroyTexture,
		},
		width:  width,
		height: height,
	}, nil
}

// NewTextureFromImage creates a texture from decoded image data. Any
// image.Image is accepted; pixels are converted to premultiplied RGBA
// before upload.
func NewTextureFromImage(ctx *Context, img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	t, err := NewTexture(ctx, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	t.SetImage(ctx, img)
	return t, nil
}

// Width returns the texture's width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture's height in pixels.
func (t *Texture) Height() int { return t.height }

// Size returns the texture's size in pixels.
func (t *Texture) Size() Vec2 {
	return Vec2{X: float32(t.width), Y: float32(t.height)}
}

// SetImage replaces the texture's contents with decoded image data. The
// image must match the texture's size.
func (t *Texture) SetImage(ctx *Context, img image.Image) {
	bounds := img.Bounds()
	if bounds.Dx() != t.width || bounds.Dy() != t.height {
		panic(fmt.Sprintf("blit: image size %dx%d does not match texture size %dx%d",
			bounds.Dx(), bounds.Dy(), t.width, t.height))
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, t.width, t.height))
		xdraw.Copy(rgba, image.Point{}, img, bounds, xdraw.Src, nil)
	}
	ctx.device.SetTextureData(t.shared.handle, rgba.Pix)
}

// Clone returns a new handle sharing the same GPU resource.
func (t *Texture) Clone() *Texture {
	t.shared.retain()
	return &Texture{shared: t.shared, width: t.width, height: t.height}
}

// Release drops this handle's reference. The GPU resource is freed when
// the last handle sharing it has been released.
func (t *Texture) Release() {
	t.shared.release()
}

// Equal reports whether two textures reference the same GPU resource.
// The sprite batcher uses it to detect texture changes.
func (t *Texture) Equal(o *Texture) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.shared == o.shared
}

// Draw draws the whole texture as a quad through the sprite batcher.
func (t *Texture) Draw(ctx *Context, params DrawParams) {
	t.DrawRegion(ctx, Rect(0, 0, float32(t.width), float32(t.height)), params)
}

// DrawRegion draws a sub-rectangle of the texture through the sprite
// batcher. The region is given in pixels.
func (t *Texture) DrawRegion(ctx *Context, region Rectangle, params DrawParams) {
	w := float32(t.width)
	h := float32(t.height)

	u0 := region.X / w
	v0 := region.Y / h
	u1 := (region.X + region.Width) / w
	v1 := (region.Y + region.Height) / h

	transform := modelTransform(params)
	positions := [4]Vec2{
		transform.Apply(Vec2{}),
		transform.Apply(Vec2{X: region.Width}),
		transform.Apply(Vec2{X: region.Width, Y: region.Height}),
		transform.Apply(Vec2{Y: region.Height}),
	}
	uvs := [4]Vec2{
		{X: u0, Y: v0},
		{X: u1, Y: v0},
		{X: u1, Y: v1},
		{X: u0, Y: v1},
	}

	if !params.Clip.IsZero() {
		ctx.Flush()
		ctx.device.SetScissor(params.Clip)
		defer func() {
			ctx.Flush()
			ctx.device.ResetScissor()
		}()
	}

	ctx.SetTexture(t)
	ctx.PushQuad(positions, uvs, params.Color)
}
