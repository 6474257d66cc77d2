// Package wgpu provides the hardware blit.Device, rendering through
// gogpu/wgpu's HAL into an offscreen RGBA8 target that can be read back
// to CPU memory.
//
// The device renders immediately: every draw call encodes, submits and
// waits for one command buffer. That keeps resource lifetimes trivial
// at the cost of per-call overhead; blit's sprite batching exists
// precisely so that draw calls stay rare.
package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan backend via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/blit"
)

const fenceTimeout = 5 * time.Second

// Device implements blit.Device on top of gogpu/wgpu's HAL.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	width, height int
	target        hal.Texture
	targetView    hal.TextureView

	// cleared tracks whether the target holds defined contents. The
	// first pass after a clear request uses LoadOpClear, later passes
	// load the existing image.
	pendingClear *gputypes.Color

	// scissor, when set, restricts rasterization of subsequent passes.
	scissor *blit.Rectangle

	ownsDevice bool
}

// New opens the first usable GPU adapter and creates a width x height
// offscreen render target.
func New(width, height int) (*Device, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid target size %dx%d", width, height)
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	d := &Device{
		instance:   instance,
		device:     openDev.Device,
		queue:      openDev.Queue,
		ownsDevice: true,
	}
	if err := d.createTarget(width, height); err != nil {
		d.device.Destroy()
		return nil, err
	}
	blit.Logger().Info("wgpu device ready",
		"adapter", selected.Info.Name, "width", width, "height", height)
	return d, nil
}

// NewWithDevice wraps an already opened HAL device and queue. The caller
// keeps ownership of the device; Destroy releases only the resources
// this Device created. Tests use this with the noop HAL backend.
func NewWithDevice(device hal.Device, queue hal.Queue, width, height int) (*Device, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid target size %dx%d", width, height)
	}
	d := &Device{
		device: device,
		queue:  queue,
	}
	if err := d.createTarget(width, height); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) createTarget(width, height int) error {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blit_target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create render target: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "blit_target_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return fmt.Errorf("wgpu: create render target view: %w", err)
	}
	d.width = width
	d.height = height
	d.target = tex
	d.targetView = view
	return nil
}

// Size reports the render target dimensions in pixels.
func (d *Device) Size() (width, height int) {
	return d.width, d.height
}

// Clear schedules a clear of the render target. The clear is applied as
// the load operation of the next render pass, or by ReadPixels if
// nothing else is drawn.
func (d *Device) Clear(color blit.Color) {
	d.pendingClear = &gputypes.Color{
		R: float64(color.R), G: float64(color.G), B: float64(color.B), A: float64(color.A),
	}
}

// SetScissor restricts subsequent draws to rect, clamped to the render
// target bounds.
func (d *Device) SetScissor(rect blit.Rectangle) {
	d.scissor = &rect
}

// ResetScissor restores full-target rasterization.
func (d *Device) ResetScissor() {
	d.scissor = nil
}

// clampScissor converts rect to integer pixel bounds inside a width x
// height target. Rectangles extending past an edge are clipped; an
// empty intersection comes back as zero width and height.
func clampScissor(rect blit.Rectangle, width, height int) (x, y, w, h uint32) {
	x0 := clampInt(int(rect.X), 0, width)
	y0 := clampInt(int(rect.Y), 0, height)
	x1 := clampInt(int(rect.X+rect.Width), x0, width)
	y1 := clampInt(int(rect.Y+rect.Height), y0, height)
	return uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ReadPixels copies the render target back to CPU memory as tightly
// packed RGBA8 rows.
func (d *Device) ReadPixels() ([]byte, error) {
	// Flush a pending clear so the readback observes it.
	if d.pendingClear != nil {
		if err := d.encodePass(func(hal.RenderPassEncoder) {}); err != nil {
			return nil, err
		}
	}

	w, h := uint32(d.width), uint32(d.height)
	bytesPerRow := w * 4

	// Copy pitch must be 256-byte aligned on WebGPU and DX12.
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "blit_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blit_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(d.target, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: d.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	if err := d.submit(encoder); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("wgpu: readback: %w", err)
	}

	if alignedBytesPerRow == bytesPerRow {
		return readback[:uint64(bytesPerRow)*uint64(h)], nil
	}
	tight := make([]byte, uint64(bytesPerRow)*uint64(h))
	for row := uint32(0); row < h; row++ {
		src := uint64(row) * uint64(alignedBytesPerRow)
		dst := uint64(row) * uint64(bytesPerRow)
		copy(tight[dst:dst+uint64(bytesPerRow)], readback[src:src+uint64(bytesPerRow)])
	}
	return tight, nil
}

// Destroy releases the render target and, when this Device opened the
// adapter itself, the underlying HAL device.
func (d *Device) Destroy() {
	if d.targetView != nil {
		d.device.DestroyTextureView(d.targetView)
		d.targetView = nil
	}
	if d.target != nil {
		d.device.DestroyTexture(d.target)
		d.target = nil
	}
	if d.ownsDevice && d.device != nil {
		d.device.Destroy()
		d.device = nil
		d.queue = nil
	}
}

// submit finishes encoding, submits the command buffer and blocks until
// the GPU is done with it.
func (d *Device) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// encodePass runs one render pass against the target, honoring a
// pending clear as the pass load operation.
func (d *Device) encodePass(record func(hal.RenderPassEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "blit_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blit_pass"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	attachment := hal.RenderPassColorAttachment{
		View:    d.targetView,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if d.pendingClear != nil {
		attachment.LoadOp = gputypes.LoadOpClear
		attachment.ClearValue = *d.pendingClear
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{attachment},
	})
	if d.scissor != nil {
		rp.SetScissorRect(clampScissor(*d.scissor, d.width, d.height))
	}
	record(rp)
	rp.End()

	if err := d.submit(encoder); err != nil {
		return err
	}
	d.pendingClear = nil
	return nil
}
