// Package blit provides a batched 2D rendering pipeline for interactive
// graphics applications.
//
// # Overview
//
// blit sits between an application and a GPU device abstraction. It offers
// two complementary drawing paths:
//
//   - A sprite batcher: repeated textured-quad draws are accumulated into a
//     single shared vertex buffer and submitted as one draw call per texture
//     change or explicit flush, minimizing draw-call overhead.
//   - Meshes: arbitrary triangle geometry stored in GPU buffers, composed
//     with an optional index buffer, texture, and draw sub-range, drawn one
//     call per mesh.
//
// A [GeometryBuilder] turns declarative shape descriptions (rectangles,
// rounded rectangles, circles, ellipses, polygons, polylines) into
// triangulated vertex/index data ready to upload into a [Mesh].
//
// # Quick Start
//
//	dev, err := wgpu.New(800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx, err := blit.NewContext(dev, 800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mesh, err := blit.NewGeometryBuilder().
//		Circle(blit.Fill(), blit.Vec2{X: 400, Y: 300}, 120).
//		BuildMesh(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	blit.Clear(ctx, blit.Black)
//	mesh.Draw(ctx, blit.NewDrawParams())
//	ctx.Flush()
//
// # Devices
//
// The core never talks to a graphics API directly; it drives a [Device].
// Two implementations ship with the module: backend/wgpu (hardware
// rendering through gogpu/wgpu) and backend/headless (an in-memory
// recording device for tests and CI).
//
// # Concurrency
//
// All rendering state belongs to a single [Context] and must be used from
// one goroutine. There is no internal locking; the order of calls is the
// only ordering guarantee.
package blit
