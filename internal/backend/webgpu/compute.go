package webgpu

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// stagingUpload creates a mapped-at-creation buffer holding data, padded to
// copy granularity.
func (b *Backend) stagingUpload(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := align4(uint64(len(data)))
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()
	return buffer
}

// Upload copies host bytes into a device buffer at a byte offset.
// Uploads are issued immediately; they are not part of the deferred graph.
func (b *Backend) Upload(dst unsafe.Pointer, off int, src []byte) error {
	if off%4 != 0 {
		return fmt.Errorf("webgpu: upload offset %d is not 4-byte aligned", off)
	}
	staging := b.stagingUpload(src, wgpu.BufferUsageCopySrc)
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, (*wgpu.Buffer)(dst), uint64(off), align4(uint64(len(src))))
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)
	return nil
}

// Download reads bytes back from a device buffer through a staging buffer.
// Pending deferred work is submitted first so the read observes program
// order, and the map wait makes this a synchronization point.
func (b *Backend) Download(src unsafe.Pointer, off, size int) ([]byte, error) {
	if off%4 != 0 {
		return nil, fmt.Errorf("webgpu: download offset %d is not 4-byte aligned", off)
	}
	if err := b.Flush(); err != nil {
		return nil, err
	}

	copySize := align4(uint64(size))
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  copySize,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer((*wgpu.Buffer)(src), uint64(off), stagingBuffer, 0, copySize)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, copySize)
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, copySize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), copySize)
	result := make([]byte, size)
	copy(result, mappedSlice)
	stagingBuffer.Unmap()

	return result, nil
}

// Gather enqueues one bulk indexed read into a dense destination run.
func (b *Backend) Gather(dst unsafe.Pointer, dstOff int, src unsafe.Pointer, indices []int, elemSize int) error {
	b.gatherCalls++
	return b.enqueueIndexed("gather", gatherShader,
		(*wgpu.Buffer)(src), (*wgpu.Buffer)(dst), dstOff, indices, elemSize)
}

// Scatter enqueues one bulk write of a dense source run to indexed addresses.
func (b *Backend) Scatter(dst unsafe.Pointer, indices []int, src unsafe.Pointer, srcOff int, elemSize int) error {
	b.scatterCalls++
	return b.enqueueIndexed("scatter", scatterShader,
		(*wgpu.Buffer)(src), (*wgpu.Buffer)(dst), srcOff, indices, elemSize)
}

// enqueueIndexed encodes one indexed bulk copy as a compute pass and adds
// the command buffer to the deferred queue. base is the dense-side element
// offset (destination for gather, source for scatter).
func (b *Backend) enqueueIndexed(name, shaderCode string, src, dst *wgpu.Buffer, base int, indices []int, elemSize int) error {
	if elemSize%4 != 0 {
		return fmt.Errorf("webgpu: %d-byte elements not supported (storage buffers are word-addressed)", elemSize)
	}
	words := elemSize / 4
	count := len(indices)
	if count == 0 {
		return nil
	}

	shader := b.compileShader(name, shaderCode)
	pipeline := b.getOrCreatePipeline(name, shader)

	// Index buffer: element indices as u32.
	idxBytes := make([]byte, count*4)
	for i, e := range indices {
		if e < 0 {
			return fmt.Errorf("webgpu: negative element index %d", e)
		}
		//nolint:gosec // G115: indices validated non-negative above
		binary.LittleEndian.PutUint32(idxBytes[i*4:], uint32(e))
	}
	idxBuffer := b.stagingUpload(idxBytes, wgpu.BufferUsageStorage)

	// Uniform params: count, words per element, dense base offset in words.
	params := make([]byte, 16)
	//nolint:gosec // G115: counts and offsets are non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(count))
	//nolint:gosec // G115
	binary.LittleEndian.PutUint32(params[4:8], uint32(words))
	//nolint:gosec // G115
	binary.LittleEndian.PutUint32(params[8:12], uint32(base*words))
	paramsBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform,
		Size:             16,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := paramsBuffer.GetMappedRange(0, 16)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), 16), params)
	paramsBuffer.Unmap()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, src, 0, b.bufferSize(src)),
		wgpu.BufferBindingEntry(1, dst, 0, b.bufferSize(dst)),
		wgpu.BufferBindingEntry(2, idxBuffer, 0, align4(uint64(len(idxBytes)))),
		wgpu.BufferBindingEntry(3, paramsBuffer, 0, 16),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	threads := count * words
	//nolint:gosec // G115: thread count is non-negative
	workgroups := uint32((threads + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	b.pending = append(b.pending, encoder.Finish(nil))
	b.retained = append(b.retained, idxBuffer, paramsBuffer)
	return nil
}

// bufferSize returns the tracked allocation size for whole-buffer bindings.
func (b *Backend) bufferSize(buf *wgpu.Buffer) uint64 {
	return b.sizes[buf]
}

// Flush submits every deferred command buffer in program order and blocks
// until the queue has drained.
func (b *Backend) Flush() error {
	if len(b.pending) == 0 {
		return nil
	}
	for _, cmd := range b.pending {
		b.queue.Submit(cmd)
	}
	b.pending = nil

	// Round-trip a 4-byte fence through a mapped staging buffer; the map
	// completes only after all previously submitted work.
	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  4,
	})
	defer staging.Release()
	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(b.fence, 0, staging, 0, 4)
	b.queue.Submit(encoder.Finish(nil))
	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, 4); err != nil {
		return fmt.Errorf("webgpu: queue drain failed: %w", err)
	}
	staging.Unmap()

	for _, buf := range b.retained {
		buf.Release()
	}
	b.retained = nil
	return nil
}
