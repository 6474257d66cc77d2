package blit

import "testing"

func TestVertexWinding_Flipped(t *testing.T) {
	if Clockwise.Flipped() != CounterClockwise {
		t.Error("Clockwise.Flipped() != CounterClockwise")
	}
	if CounterClockwise.Flipped() != Clockwise {
		t.Error("CounterClockwise.Flipped() != Clockwise")
	}

	// Flipping twice restores the original winding.
	for _, w := range []VertexWinding{Clockwise, CounterClockwise} {
		if w.Flipped().Flipped() != w {
			t.Errorf("%v.Flipped().Flipped() != %v", w, w)
		}
	}
}

func TestBufferUsage_String(t *testing.T) {
	tests := []struct {
		usage BufferUsage
		want  string
	}{
		{StaticUsage, "Static"},
		{DynamicUsage, "Dynamic"},
		{StreamUsage, "Stream"},
		{BufferUsage(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.usage.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFlattenVertices_Layout(t *testing.T) {
	v := NewVertex(V2(1, 2), V2(0.5, 0.25), Color{0.1, 0.2, 0.3, 0.4})
	data := flattenVertices([]Vertex{v, v})

	if len(data) != 2*VertexStride {
		t.Fatalf("flattened %d floats, want %d", len(data), 2*VertexStride)
	}

	want := []float32{1, 2, 0.5, 0.25, 0.1, 0.2, 0.3, 0.4}
	for i, w := range want {
		if data[i] != w {
			t.Errorf("data[%d] = %g, want %g", i, data[i], w)
		}
		if data[VertexStride+i] != w {
			t.Errorf("second vertex data[%d] = %g, want %g", i, data[VertexStride+i], w)
		}
	}
}
