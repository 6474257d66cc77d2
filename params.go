package blit

// DrawParams describes how a drawable is positioned and styled on screen.
//
// The zero value is not ready to use (it has a zero scale); construct
// params with NewDrawParams or AtPosition, or set every field explicitly.
type DrawParams struct {
	// Position the drawable is placed at. Defaults to the screen origin.
	Position Vec2

	// Scale applied to the drawable. Defaults to (1, 1).
	Scale Vec2

	// Origin is the pivot point of the drawable in object space. Scaling
	// and rotation happen around it. Defaults to (0, 0).
	Origin Vec2

	// Rotation around the origin, in radians. Defaults to 0.
	Rotation float32

	// Color multiplied against per-vertex colors. Defaults to opaque
	// white (no tint).
	Color Color

	// Clip optionally restricts the draw to a screen-space scissor
	// rectangle. The zero rectangle means no clipping.
	Clip Rectangle
}

// NewDrawParams returns draw parameters with default values: zero
// position and origin, unit scale, no rotation, white color, no clip.
func NewDrawParams() DrawParams {
	return DrawParams{
		Scale: Vec2{X: 1, Y: 1},
		Color: White,
	}
}

// AtPosition is shorthand for draw parameters with only the position set.
func AtPosition(position Vec2) DrawParams {
	p := NewDrawParams()
	p.Position = position
	return p
}

// WithPosition returns a copy of the params with the position replaced.
func (p DrawParams) WithPosition(position Vec2) DrawParams {
	p.Position = position
	return p
}

// WithScale returns a copy of the params with the scale replaced.
func (p DrawParams) WithScale(scale Vec2) DrawParams {
	p.Scale = scale
	return p
}

// WithOrigin returns a copy of the params with the origin replaced.
func (p DrawParams) WithOrigin(origin Vec2) DrawParams {
	p.Origin = origin
	return p
}

// WithRotation returns a copy of the params with the rotation replaced.
func (p DrawParams) WithRotation(rotation float32) DrawParams {
	p.Rotation = rotation
	return p
}

// WithColor returns a copy of the params with the color replaced.
func (p DrawParams) WithColor(color Color) DrawParams {
	p.Color = color
	return p
}

// WithClip returns a copy of the params with the clip rectangle replaced.
func (p DrawParams) WithClip(clip Rectangle) DrawParams {
	p.Clip = clip
	return p
}

// Drawable is anything that can be drawn to the screen through a Context.
type Drawable interface {
	Draw(ctx *Context, params DrawParams)
}

// Draw draws a drawable with the given parameters.
func Draw(ctx *Context, drawable Drawable, params DrawParams) {
	drawable.Draw(ctx, params)
}
