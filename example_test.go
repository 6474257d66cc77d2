package blit_test

import (
	"log"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend/headless"
)

// Example draws a sprite and a filled shape through a recording device.
// A real application would use backend/wgpu instead.
func Example() {
	device := headless.New()
	ctx, err := blit.NewContext(device, 640, 480)
	if err != nil {
		log.Fatal(err)
	}
	defer ctx.Destroy()

	tex, err := blit.NewTexture(ctx, 32, 32)
	if err != nil {
		log.Fatal(err)
	}
	defer tex.Release()

	blit.Clear(ctx, blit.Black)

	// Sprites with the same texture accumulate into one batch.
	tex.Draw(ctx, blit.AtPosition(blit.V2(100, 100)))
	tex.Draw(ctx, blit.AtPosition(blit.V2(200, 100)).WithRotation(0.5))

	circle, err := blit.NewCircleMesh(ctx, blit.Fill(), blit.V2(320, 240), 50)
	if err != nil {
		log.Fatal(err)
	}
	circle.Draw(ctx, blit.NewDrawParams())

	ctx.Flush()
}

// ExampleGeometryBuilder tessellates several shapes into one mesh.
func ExampleGeometryBuilder() {
	device := headless.New()
	ctx, err := blit.NewContext(device, 640, 480)
	if err != nil {
		log.Fatal(err)
	}
	defer ctx.Destroy()

	mesh, err := blit.NewGeometryBuilder().
		SetColor(blit.RGB(0.2, 0.6, 1)).
		Rectangle(blit.Fill(), blit.Rect(10, 10, 100, 60)).
		SetColor(blit.White).
		Circle(blit.Stroke(3), blit.V2(60, 40), 25).
		BuildMesh(ctx)
	if err != nil {
		log.Fatal(err)
	}

	mesh.Draw(ctx, blit.NewDrawParams())
	ctx.Flush()
}
