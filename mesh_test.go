package blit_test

import (
	"errors"
	"testing"

	"github.com/gogpu/blit"
)

func quadVertices() []blit.Vertex {
	return []blit.Vertex{
		blit.NewVertex(blit.V2(0, 0), blit.V2(0, 0), blit.White),
		blit.NewVertex(blit.V2(32, 0), blit.V2(1, 0), blit.White),
		blit.NewVertex(blit.V2(32, 32), blit.V2(1, 1), blit.White),
		blit.NewVertex(blit.V2(0, 32), blit.V2(0, 1), blit.White),
	}
}

func TestMesh_DrawArrays(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer vb.Release()
	device.Reset()

	vb.IntoMesh().Draw(ctx, blit.NewDrawParams())

	if len(device.Calls) != 1 {
		t.Fatalf("recorded %d draw calls, want 1", len(device.Calls))
	}
	call := device.Calls[0]
	if call.Indexed {
		t.Error("non-indexed mesh issued an indexed draw")
	}
	if call.Start != 0 || call.Count != 4 {
		t.Errorf("draw range = [%d, %d), want [0, 4)", call.Start, call.Start+call.Count)
	}

	// Untextured meshes sample the context's blank texture.
	if call.Texture.Width() != 1 || call.Texture.Height() != 1 {
		t.Errorf("default texture is %dx%d, want 1x1", call.Texture.Width(), call.Texture.Height())
	}
}

func TestMesh_DrawIndexed(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer vb.Release()
	ib, err := blit.NewIndexBuffer(ctx, []uint32{0, 1, 2, 2, 3, 0})
	if err != nil {
		t.Fatalf("NewIndexBuffer: %v", err)
	}
	defer ib.Release()
	device.Reset()

	mesh := blit.NewIndexedMesh(vb, ib)
	mesh.Draw(ctx, blit.NewDrawParams())

	if len(device.Calls) != 1 {
		t.Fatalf("recorded %d draw calls, want 1", len(device.Calls))
	}
	call := device.Calls[0]
	if !call.Indexed {
		t.Fatal("indexed mesh issued a non-indexed draw")
	}
	if call.Start != 0 || call.Count != 6 {
		t.Errorf("draw range = [%d, %d), want [0, 6)", call.Start, call.Start+call.Count)
	}
}

func TestMesh_DrawRange(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer vb.Release()
	ib, err := blit.NewIndexBuffer(ctx, make([]uint32, 10))
	if err != nil {
		t.Fatalf("NewIndexBuffer: %v", err)
	}
	defer ib.Release()
	device.Reset()

	mesh := blit.NewIndexedMesh(vb, ib)

	mesh.SetDrawRange(2, 3)
	mesh.Draw(ctx, blit.NewDrawParams())

	mesh.ResetDrawRange()
	mesh.Draw(ctx, blit.NewDrawParams())

	if len(device.Calls) != 2 {
		t.Fatalf("recorded %d draw calls, want 2", len(device.Calls))
	}
	if device.Calls[0].Start != 2 || device.Calls[0].Count != 3 {
		t.Errorf("ranged draw = [%d, %d), want [2, 5)",
			device.Calls[0].Start, device.Calls[0].Start+device.Calls[0].Count)
	}
	if device.Calls[1].Start != 0 || device.Calls[1].Count != 10 {
		t.Errorf("reset draw = [%d, %d), want [0, 10)",
			device.Calls[1].Start, device.Calls[1].Start+device.Calls[1].Count)
	}
}

func TestMesh_CloneIndependentComposition(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer vb.Release()
	other, err := blit.NewVertexBuffer(ctx, quadVertices()[:2])
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer other.Release()

	mesh := blit.NewMesh(vb)
	mesh.SetDrawRange(0, 3)
	clone := mesh.Clone()

	// Re-composing the clone leaves the original untouched.
	clone.SetVertexBuffer(other)
	clone.ResetDrawRange()
	tex := newTestTexture(t, ctx)
	clone.SetTexture(tex)

	if mesh.VertexBuffer() != vb {
		t.Error("original mesh lost its vertex buffer")
	}
	if mesh.Texture() != nil {
		t.Error("original mesh gained the clone's texture")
	}

	device.Reset()
	mesh.Draw(ctx, blit.NewDrawParams())
	if device.Calls[0].Count != 3 {
		t.Errorf("original draw count = %d, want 3", device.Calls[0].Count)
	}

	clone.Draw(ctx, blit.NewDrawParams())
	if device.Calls[1].Count != 2 {
		t.Errorf("clone draw count = %d, want 2", device.Calls[1].Count)
	}
}

func TestMesh_DrawFlushesSprites(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})
	tex := newTestTexture(t, ctx)

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer vb.Release()
	device.Reset()

	tex.Draw(ctx, blit.AtPosition(blit.V2(0, 0)))
	vb.IntoMesh().Draw(ctx, blit.NewDrawParams())

	// The pending sprite batch lands before the mesh.
	if len(device.Calls) != 2 {
		t.Fatalf("recorded %d draw calls, want 2", len(device.Calls))
	}
	if !device.Calls[0].Indexed || device.Calls[0].Count != 6 {
		t.Errorf("first call is not the sprite flush: %+v", device.Calls[0])
	}
	if device.Calls[1].Indexed {
		t.Errorf("second call is not the mesh draw: %+v", device.Calls[1])
	}
}

func TestMesh_DrawClip(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer vb.Release()
	device.Reset()

	clip := blit.Rect(10, 10, 50, 40)
	vb.IntoMesh().Draw(ctx, blit.NewDrawParams().WithClip(clip))
	vb.IntoMesh().Draw(ctx, blit.NewDrawParams())

	if len(device.Calls) != 2 {
		t.Fatalf("recorded %d draw calls, want 2", len(device.Calls))
	}
	if device.Calls[0].Scissor == nil || *device.Calls[0].Scissor != clip {
		t.Errorf("clipped draw scissor = %+v, want %+v", device.Calls[0].Scissor, clip)
	}
	if device.Calls[1].Scissor != nil {
		t.Errorf("unclipped draw kept scissor %+v", device.Calls[1].Scissor)
	}
}

func TestNewShapeMeshes(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	mesh, err := blit.NewRectangleMesh(ctx, blit.Fill(), blit.Rect(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("NewRectangleMesh: %v", err)
	}
	device.Reset()
	mesh.Draw(ctx, blit.NewDrawParams())

	if len(device.Calls) != 1 {
		t.Fatalf("recorded %d draw calls, want 1", len(device.Calls))
	}
	if !device.Calls[0].Indexed || device.Calls[0].Count != 6 {
		t.Errorf("rectangle mesh draw = %+v, want indexed count 6", device.Calls[0])
	}

	if _, err := blit.NewPolygonMesh(ctx, blit.Fill(), []blit.Vec2{{X: 0, Y: 0}}); !errors.Is(err, blit.ErrTessellation) {
		t.Fatalf("NewPolygonMesh error = %v, want ErrTessellation", err)
	}
}

func TestGeometryBuilder_BuildBuffersAllocFailure(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})
	device.FailAlloc = errors.New("out of memory")

	_, _, err := blit.NewGeometryBuilder().
		Rectangle(blit.Fill(), blit.Rect(0, 0, 10, 10)).
		BuildBuffers(ctx)
	if !errors.Is(err, blit.ErrPlatform) {
		t.Fatalf("BuildBuffers error = %v, want ErrPlatform", err)
	}
}
