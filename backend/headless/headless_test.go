package headless

import (
	"errors"
	"testing"

	"github.com/gogpu/blit"
)

var _ blit.Device = (*Device)(nil)

func TestRecordsDrawCalls(t *testing.T) {
	dev := New()

	vb, err := dev.NewVertexBuffer(4, blit.VertexStride, blit.DynamicUsage)
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	ib, err := dev.NewIndexBuffer(6, blit.StaticUsage)
	if err != nil {
		t.Fatalf("NewIndexBuffer: %v", err)
	}
	tex, err := dev.NewTexture(2, 2)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	prog, err := dev.CompileProgram("vs", "fs")
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}

	dev.SetVertexBufferData(vb, []float32{1, 2, 3}, 5)
	dev.SetIndexBufferData(ib, []uint32{0, 1, 2}, 3)

	dev.DrawElements(vb, ib, tex, prog, 0, 6)
	dev.DrawArrays(vb, tex, prog, 1, 3)

	if len(dev.Calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(dev.Calls))
	}

	first := dev.Calls[0]
	if !first.Indexed || first.Start != 0 || first.Count != 6 {
		t.Errorf("indexed call = %+v", first)
	}
	if first.Vertices.Data[5] != 1 || first.Vertices.Data[7] != 3 {
		t.Errorf("vertex upload not visible: %v", first.Vertices.Data[:8])
	}
	if first.Indices.Data[3] != 0 || first.Indices.Data[5] != 2 {
		t.Errorf("index upload not visible: %v", first.Indices.Data)
	}

	second := dev.Calls[1]
	if second.Indexed || second.Start != 1 || second.Count != 3 {
		t.Errorf("array call = %+v", second)
	}
	if second.Indices != nil {
		t.Error("array call carries an index buffer")
	}
}

func TestScissorCapturedPerCall(t *testing.T) {
	dev := New()

	vb, _ := dev.NewVertexBuffer(4, blit.VertexStride, blit.DynamicUsage)
	tex, _ := dev.NewTexture(1, 1)
	prog, _ := dev.CompileProgram("vs", "fs")

	dev.DrawArrays(vb, tex, prog, 0, 4)
	dev.SetScissor(blit.Rect(10, 20, 30, 40))
	dev.DrawArrays(vb, tex, prog, 0, 4)
	dev.ResetScissor()
	dev.DrawArrays(vb, tex, prog, 0, 4)

	if dev.Calls[0].Scissor != nil {
		t.Error("call before SetScissor has a scissor")
	}
	if got := dev.Calls[1].Scissor; got == nil || *got != blit.Rect(10, 20, 30, 40) {
		t.Errorf("scissored call recorded %v", got)
	}
	if dev.Calls[2].Scissor != nil {
		t.Error("call after ResetScissor has a scissor")
	}

	// The recorded rectangle is a snapshot, not an alias.
	dev.SetScissor(blit.Rect(0, 0, 1, 1))
	if *dev.Calls[1].Scissor != blit.Rect(10, 20, 30, 40) {
		t.Error("later SetScissor mutated an earlier record")
	}
}

func TestReset(t *testing.T) {
	dev := New()

	vb, _ := dev.NewVertexBuffer(4, blit.VertexStride, blit.DynamicUsage)
	tex, _ := dev.NewTexture(1, 1)
	prog, _ := dev.CompileProgram("vs", "fs")

	dev.Clear(blit.Black)
	dev.DrawArrays(vb, tex, prog, 0, 4)
	dev.Reset()

	if len(dev.Calls) != 0 || len(dev.Clears) != 0 {
		t.Error("Reset did not drop recorded calls")
	}

	// Resources survive a reset.
	dev.SetVertexBufferData(vb, []float32{7}, 0)
	if vb.(*VertexBuffer).Data[0] != 7 {
		t.Error("buffer unusable after Reset")
	}
}

func TestFailureInjection(t *testing.T) {
	dev := New()
	boom := errors.New("boom")
	dev.FailAlloc = boom
	dev.FailUniform = boom

	if _, err := dev.NewVertexBuffer(4, blit.VertexStride, blit.DynamicUsage); !errors.Is(err, boom) {
		t.Errorf("NewVertexBuffer error = %v", err)
	}
	if _, err := dev.NewIndexBuffer(6, blit.StaticUsage); !errors.Is(err, boom) {
		t.Errorf("NewIndexBuffer error = %v", err)
	}
	if _, err := dev.NewTexture(1, 1); !errors.Is(err, boom) {
		t.Errorf("NewTexture error = %v", err)
	}
	if _, err := dev.CompileProgram("vs", "fs"); !errors.Is(err, boom) {
		t.Errorf("CompileProgram error = %v", err)
	}

	dev.FailAlloc = nil
	prog, err := dev.CompileProgram("vs", "fs")
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if err := dev.SetUniform(prog, "u_color", blit.White); !errors.Is(err, boom) {
		t.Errorf("SetUniform error = %v", err)
	}

	dev.FailUniform = nil
	if err := dev.SetUniform(prog, "u_color", blit.White); err != nil {
		t.Fatalf("SetUniform: %v", err)
	}
	if prog.(*Program).Uniforms["u_color"] != blit.White {
		t.Error("uniform value not recorded")
	}
}

func TestUploadBoundsPanics(t *testing.T) {
	dev := New()
	vb, _ := dev.NewVertexBuffer(2, blit.VertexStride, blit.DynamicUsage)
	ib, _ := dev.NewIndexBuffer(3, blit.StaticUsage)
	tex, _ := dev.NewTexture(2, 2)

	tests := []struct {
		name string
		fn   func()
	}{
		{"vertex past end", func() { dev.SetVertexBufferData(vb, make([]float32, 17), 0) }},
		{"vertex negative offset", func() { dev.SetVertexBufferData(vb, []float32{1}, -1) }},
		{"index past end", func() { dev.SetIndexBufferData(ib, []uint32{0, 1}, 2) }},
		{"texture size mismatch", func() { dev.SetTextureData(tex, make([]byte, 8)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestDestroyMarksHandles(t *testing.T) {
	dev := New()

	vb, _ := dev.NewVertexBuffer(4, blit.VertexStride, blit.DynamicUsage)
	ib, _ := dev.NewIndexBuffer(6, blit.StaticUsage)
	tex, _ := dev.NewTexture(1, 1)
	prog, _ := dev.CompileProgram("vs", "fs")

	dev.DestroyVertexBuffer(vb)
	dev.DestroyIndexBuffer(ib)
	dev.DestroyTexture(tex)
	dev.DestroyProgram(prog)

	if !vb.(*VertexBuffer).Destroyed || !ib.(*IndexBuffer).Destroyed ||
		!tex.(*Texture).Destroyed || !prog.(*Program).Destroyed {
		t.Error("destroy did not mark all handles")
	}
}
