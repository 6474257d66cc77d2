package blit

import "github.com/chewxy/math32"

// Mat4 is a 4x4 transformation matrix stored in column-major order, the
// layout GPU uniform buffers expect. Element (row r, column c) lives at
// index c*4+r.
//
// Matrices multiply column vectors: Mul composes so that the right-hand
// operand applies first.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix translating by v in the XY plane.
func Translation(v Vec2) Mat4 {
	m := Identity()
	m[12] = v.X
	m[13] = v.Y
	return m
}

// Scaling returns a matrix scaling by v in the XY plane.
func Scaling(v Vec2) Mat4 {
	m := Identity()
	m[0] = v.X
	m[5] = v.Y
	return m
}

// RotationZ returns a matrix rotating by angle radians around the Z axis.
func RotationZ(angle float32) Mat4 {
	sin, cos := math32.Sincos(angle)
	m := Identity()
	m[0] = cos
	m[1] = sin
	m[4] = -sin
	m[5] = cos
	return m
}

// Orthographic returns an orthographic projection matrix mapping the given
// box to normalized device co-ordinates. Screen-space rendering uses
// Orthographic(0, width, height, 0, -1, 1) so that the origin sits at the
// top-left with Y increasing downward.
func Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left),
		-(top + bottom) / (top - bottom),
		-(far + near) / (far - near),
		1,
	}
}

// Mul returns m * n. Applied to a vector, n transforms first.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Apply transforms a 2D point by the matrix (z=0, w=1).
func (m Mat4) Apply(v Vec2) Vec2 {
	return Vec2{
		X: m[0]*v.X + m[4]*v.Y + m[12],
		Y: m[1]*v.X + m[5]*v.Y + m[13],
	}
}

// modelTransform builds the object-to-world transform for a draw:
// translate by -origin in object space, then scale, then rotate around Z,
// then translate into position. Subtracting the origin first gives it
// pivot semantics for both scaling and rotation.
func modelTransform(params DrawParams) Mat4 {
	m := Translation(params.Origin.Neg())
	m = Scaling(params.Scale).Mul(m)
	if params.Rotation != 0 {
		m = RotationZ(params.Rotation).Mul(m)
	}
	return Translation(params.Position).Mul(m)
}
