package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit"
)

// DrawElements renders count indices starting at start. The draw is
// encoded, submitted and waited on immediately; failures are logged
// since the pipeline treats draws as fire-and-forget.
func (d *Device) DrawElements(vertices blit.VertexBufferHandle, indices blit.IndexBufferHandle,
	tex blit.TextureHandle, prog blit.ProgramHandle, start, count int) {
	vb := vertices.(*vertexBuffer)
	ib := indices.(*indexBuffer)
	p := prog.(*program)

	err := d.draw(p, tex.(*texture), func(rp hal.RenderPassEncoder, bg hal.BindGroup) {
		rp.SetPipeline(p.pipeline)
		rp.SetBindGroup(0, bg, nil)
		rp.SetVertexBuffer(0, vb.buf, 0)
		rp.SetIndexBuffer(ib.buf, gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(uint32(count), 1, uint32(start), 0, 0)
	})
	if err != nil {
		blit.Logger().Error("indexed draw failed", "error", err)
	}
}

// DrawArrays renders count vertices starting at start.
func (d *Device) DrawArrays(vertices blit.VertexBufferHandle,
	tex blit.TextureHandle, prog blit.ProgramHandle, start, count int) {
	vb := vertices.(*vertexBuffer)
	p := prog.(*program)

	err := d.draw(p, tex.(*texture), func(rp hal.RenderPassEncoder, bg hal.BindGroup) {
		rp.SetPipeline(p.pipeline)
		rp.SetBindGroup(0, bg, nil)
		rp.SetVertexBuffer(0, vb.buf, 0)
		rp.Draw(uint32(count), 1, uint32(start), 0)
	})
	if err != nil {
		blit.Logger().Error("draw failed", "error", err)
	}
}

// draw uploads pending uniforms, binds the program's resources against
// the given texture and records one draw into a render pass.
func (d *Device) draw(p *program, tex *texture, record func(hal.RenderPassEncoder, hal.BindGroup)) error {
	d.flushUniforms(p)

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "blit_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: tex.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: p.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	return d.encodePass(func(rp hal.RenderPassEncoder) {
		record(rp, bindGroup)
	})
}
