// Package webgpu implements the device backend on WebGPU.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// Gather and scatter are encoded as compute passes over an index buffer and
// accumulated as command buffers; nothing is submitted until Flush, which is
// the eval barrier. WebGPU storage buffers are addressed in 32-bit words, so
// only element kinds whose size is a multiple of 4 bytes are supported here;
// sub-word kinds (int8, uint8, int16, float16, bool) stay on the reference
// backend.
package webgpu

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/lumen-ml/lumen/internal/device"
)

// Verify that Backend implements device.Backend.
var _ device.Backend = (*Backend)(nil)

// Backend implements the device backend on a WebGPU adapter.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	// Deferred work: command buffers accumulated since the last Flush, plus
	// the transient index/param buffers they reference.
	pending  []*wgpu.CommandBuffer
	retained []*wgpu.Buffer

	// fence is a persistent 4-byte buffer used to wait for queue drain.
	fence *wgpu.Buffer

	// sizes tracks allocation sizes for whole-buffer bindings.
	sizes map[*wgpu.Buffer]uint64

	gatherCalls  int
	scatterCalls int
}

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available or initialization fails.
func New() (backend *Backend, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, instanceErr := wgpu.CreateInstance(nil)
	if instanceErr != nil {
		return nil, fmt.Errorf("webgpu: failed to create instance: %w", instanceErr)
	}
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	dev, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := dev.GetQueue()
	if queue == nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	b := &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    dev,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		sizes:     make(map[*wgpu.Buffer]uint64),
	}
	b.fence = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
		Size:  4,
	})
	return b, nil
}

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() bool {
	b, err := New()
	if err != nil {
		return false
	}
	b.Release()
	return true
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "webgpu"
}

// Alloc obtains a zero-initialized storage buffer. Sizes are rounded up to
// the 4-byte granularity WebGPU requires.
func (b *Backend) Alloc(size int) (unsafe.Pointer, error) {
	if size < 0 {
		return nil, fmt.Errorf("webgpu: negative allocation size %d", size)
	}
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  align4(uint64(size)),
	})
	if buffer == nil {
		return nil, fmt.Errorf("webgpu: buffer allocation of %d bytes failed", size)
	}
	b.sizes[buffer] = align4(uint64(size))
	return unsafe.Pointer(buffer), nil
}

// Free releases a buffer previously returned by Alloc.
func (b *Backend) Free(ptr unsafe.Pointer) {
	buffer := (*wgpu.Buffer)(ptr)
	delete(b.sizes, buffer)
	buffer.Release()
}

// GatherCalls returns the number of bulk gather operations issued.
func (b *Backend) GatherCalls() int {
	return b.gatherCalls
}

// ScatterCalls returns the number of bulk scatter operations issued.
func (b *Backend) ScatterCalls() int {
	return b.scatterCalls
}

// Pending returns the number of deferred command buffers not yet submitted.
func (b *Backend) Pending() int {
	return len(b.pending)
}

// Release frees all GPU resources held by the backend. Deferred work that
// was never flushed is dropped.
func (b *Backend) Release() {
	for _, buf := range b.retained {
		buf.Release()
	}
	b.retained = nil
	b.pending = nil

	b.mu.Lock()
	for _, p := range b.pipelines {
		p.Release()
	}
	for _, s := range b.shaders {
		s.Release()
	}
	b.pipelines = nil
	b.shaders = nil
	b.mu.Unlock()

	if b.fence != nil {
		b.fence.Release()
	}
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
}

// align4 rounds up to the WebGPU copy granularity.
func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}
