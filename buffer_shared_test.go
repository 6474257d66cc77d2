package blit_test

import (
	"testing"

	"github.com/gogpu/blit"
)

func TestVertexBuffer_CloneSharesResource(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	clone := vb.Clone()

	if clone.Count() != vb.Count() {
		t.Fatalf("clone capacity %d != original %d", clone.Count(), vb.Count())
	}

	// An upload through the clone is visible when the original draws.
	moved := quadVertices()
	moved[0].Position = blit.V2(100, 100)
	clone.SetData(ctx, moved, 0)

	device.Reset()
	vb.IntoMesh().Draw(ctx, blit.NewDrawParams())

	data := device.Calls[0].Vertices.Data
	if data[0] != 100 || data[1] != 100 {
		t.Errorf("first vertex = (%g, %g), want (100, 100)", data[0], data[1])
	}

	// The resource survives until the last handle is released.
	vb.Release()
	if device.Calls[0].Vertices.Destroyed {
		t.Fatal("resource destroyed while a clone is alive")
	}
	clone.Release()
	if !device.Calls[0].Vertices.Destroyed {
		t.Fatal("resource not destroyed after the last release")
	}
}

func TestVertexBuffer_SetDataOutOfBoundsPanics(t *testing.T) {
	ctx, _ := newTestContext(t, blit.ContextOptions{})

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer vb.Release()

	tests := []struct {
		name   string
		data   []blit.Vertex
		offset int
	}{
		{"past the end", quadVertices(), 1},
		{"negative offset", quadVertices()[:1], -1},
		{"offset beyond capacity", quadVertices()[:1], 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			vb.SetData(ctx, tt.data, tt.offset)
		})
	}
}

func TestIndexBuffer_CloneAndBounds(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	ib, err := blit.NewIndexBuffer(ctx, []uint32{0, 1, 2, 2, 3, 0})
	if err != nil {
		t.Fatalf("NewIndexBuffer: %v", err)
	}
	clone := ib.Clone()

	clone.SetData(ctx, []uint32{3, 2, 1}, 3)

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	defer vb.Release()

	device.Reset()
	blit.NewIndexedMesh(vb, ib).Draw(ctx, blit.NewDrawParams())

	data := device.Calls[0].Indices.Data
	want := []uint32{0, 1, 2, 3, 2, 1}
	for i, w := range want {
		if data[i] != w {
			t.Errorf("index[%d] = %d, want %d", i, data[i], w)
		}
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic for out-of-bounds index write")
			}
		}()
		ib.SetData(ctx, []uint32{0, 0}, 5)
	}()

	ib.Release()
	clone.Release()
	if !device.Calls[0].Indices.Destroyed {
		t.Fatal("index resource not destroyed after the last release")
	}
}

func TestVertexBuffer_ReleaseIsIdempotent(t *testing.T) {
	ctx, device := newTestContext(t, blit.ContextOptions{})

	vb, err := blit.NewVertexBuffer(ctx, quadVertices())
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	device.Reset()
	vb.IntoMesh().Draw(ctx, blit.NewDrawParams())

	vb.Release()
	vb.Release() // extra release must not panic or double-free

	if !device.Calls[0].Vertices.Destroyed {
		t.Fatal("resource not destroyed")
	}
}
