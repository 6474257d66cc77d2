package blit

// Rectangle is an axis-aligned rectangle defined by its top-left corner
// and size.
type Rectangle struct {
	X, Y          float32
	Width, Height float32
}

// Rect is a convenience function to create a Rectangle.
func Rect(x, y, width, height float32) Rectangle {
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

// IsZero returns true if the rectangle is the zero value.
func (r Rectangle) IsZero() bool {
	return r == Rectangle{}
}
