// Package cpu implements the reference device backend. "Device" memory is
// host memory, but the execution model is the real one: gather and scatter
// are recorded into a deferred work queue and run only at Flush, so lazy
// evaluation semantics can be exercised and tested without an accelerator.
package cpu

import (
	"fmt"
	"unsafe"

	"github.com/lumen-ml/lumen/internal/device"
)

// Verify that Backend implements device.Backend.
var _ device.Backend = (*Backend)(nil)

// hostBuffer is one simulated device allocation.
type hostBuffer struct {
	data []byte
}

// Backend is the reference backend. A single logical host thread issues
// operations; there is no internal locking.
type Backend struct {
	pending []func()
	live    map[*hostBuffer]struct{}

	// Allocation failure injection: when allocLimit > 0, allocations that
	// would push the outstanding total past the limit fail.
	allocLimit int
	allocated  int

	gatherCalls  int
	scatterCalls int
}

// New creates a new reference backend.
func New() *Backend {
	return &Backend{live: make(map[*hostBuffer]struct{})}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "cpu"
}

// SetAllocLimit caps the total outstanding allocation size in bytes.
// Zero means unlimited. Used to exercise allocation failure paths.
func (b *Backend) SetAllocLimit(limit int) {
	b.allocLimit = limit
}

// Alloc obtains a zero-initialized simulated device allocation.
func (b *Backend) Alloc(size int) (unsafe.Pointer, error) {
	if size < 0 {
		return nil, fmt.Errorf("cpu: negative allocation size %d", size)
	}
	if b.allocLimit > 0 && b.allocated+size > b.allocLimit {
		return nil, fmt.Errorf("cpu: out of device memory (%d bytes requested, %d available)",
			size, b.allocLimit-b.allocated)
	}
	hb := &hostBuffer{data: make([]byte, size)}
	b.live[hb] = struct{}{}
	b.allocated += size
	return unsafe.Pointer(hb), nil
}

// Free releases a simulated device allocation.
func (b *Backend) Free(ptr unsafe.Pointer) {
	hb := (*hostBuffer)(ptr)
	if _, ok := b.live[hb]; !ok {
		panic("cpu: Free of unknown or already freed buffer")
	}
	delete(b.live, hb)
	b.allocated -= len(hb.data)
	hb.data = nil
}

// Upload copies host bytes into the allocation at a byte offset.
func (b *Backend) Upload(dst unsafe.Pointer, off int, src []byte) error {
	hb := (*hostBuffer)(dst)
	if off < 0 || off+len(src) > len(hb.data) {
		return fmt.Errorf("cpu: upload of %d bytes at offset %d exceeds buffer size %d",
			len(src), off, len(hb.data))
	}
	copy(hb.data[off:], src)
	return nil
}

// Download copies bytes out of the allocation. It does not flush: deferred
// writes that have not executed yet are not visible.
func (b *Backend) Download(src unsafe.Pointer, off, size int) ([]byte, error) {
	hb := (*hostBuffer)(src)
	if off < 0 || off+size > len(hb.data) {
		return nil, fmt.Errorf("cpu: download of %d bytes at offset %d exceeds buffer size %d",
			size, off, len(hb.data))
	}
	out := make([]byte, size)
	copy(out, hb.data[off:off+size])
	return out, nil
}

// Gather enqueues one bulk strided read into a dense destination run.
func (b *Backend) Gather(dst unsafe.Pointer, dstOff int, src unsafe.Pointer, indices []int, elemSize int) error {
	dstBuf := (*hostBuffer)(dst)
	srcBuf := (*hostBuffer)(src)
	if err := checkDense(dstBuf, dstOff, len(indices), elemSize); err != nil {
		return fmt.Errorf("cpu: gather destination: %w", err)
	}
	if err := checkIndices(srcBuf, indices, elemSize); err != nil {
		return fmt.Errorf("cpu: gather source: %w", err)
	}

	idx := make([]int, len(indices))
	copy(idx, indices)
	b.gatherCalls++
	b.pending = append(b.pending, func() {
		for i, e := range idx {
			copy(dstBuf.data[(dstOff+i)*elemSize:(dstOff+i+1)*elemSize],
				srcBuf.data[e*elemSize:(e+1)*elemSize])
		}
	})
	return nil
}

// Scatter enqueues one bulk write of a dense source run to strided addresses.
func (b *Backend) Scatter(dst unsafe.Pointer, indices []int, src unsafe.Pointer, srcOff int, elemSize int) error {
	dstBuf := (*hostBuffer)(dst)
	srcBuf := (*hostBuffer)(src)
	if err := checkIndices(dstBuf, indices, elemSize); err != nil {
		return fmt.Errorf("cpu: scatter destination: %w", err)
	}
	if err := checkDense(srcBuf, srcOff, len(indices), elemSize); err != nil {
		return fmt.Errorf("cpu: scatter source: %w", err)
	}

	idx := make([]int, len(indices))
	copy(idx, indices)
	b.scatterCalls++
	b.pending = append(b.pending, func() {
		for i, e := range idx {
			copy(dstBuf.data[e*elemSize:(e+1)*elemSize],
				srcBuf.data[(srcOff+i)*elemSize:(srcOff+i+1)*elemSize])
		}
	})
	return nil
}

// Flush runs every deferred operation in program order.
func (b *Backend) Flush() error {
	ops := b.pending
	b.pending = nil
	for _, op := range ops {
		op()
	}
	return nil
}

// Pending returns the number of deferred operations not yet executed.
func (b *Backend) Pending() int {
	return len(b.pending)
}

// GatherCalls returns the number of bulk gather operations issued.
func (b *Backend) GatherCalls() int {
	return b.gatherCalls
}

// ScatterCalls returns the number of bulk scatter operations issued.
func (b *Backend) ScatterCalls() int {
	return b.scatterCalls
}

// ResetCounters zeroes the bulk-call counters.
func (b *Backend) ResetCounters() {
	b.gatherCalls = 0
	b.scatterCalls = 0
}

// ActiveBuffers returns the number of live allocations.
func (b *Backend) ActiveBuffers() int {
	return len(b.live)
}

// AllocatedBytes returns the outstanding allocation total.
func (b *Backend) AllocatedBytes() int {
	return b.allocated
}

// Peek reads current memory contents without flushing, for tests that need
// to observe staleness under deferred execution.
func (b *Backend) Peek(ptr unsafe.Pointer, off, size int) []byte {
	hb := (*hostBuffer)(ptr)
	out := make([]byte, size)
	copy(out, hb.data[off:off+size])
	return out
}

// checkDense validates a dense run of count elements starting at off.
func checkDense(hb *hostBuffer, off, count, elemSize int) error {
	if off < 0 || (off+count)*elemSize > len(hb.data) {
		return fmt.Errorf("dense run [%d, %d) of %d-byte elements exceeds buffer size %d",
			off, off+count, elemSize, len(hb.data))
	}
	return nil
}

// checkIndices validates every element index against the buffer bounds.
func checkIndices(hb *hostBuffer, indices []int, elemSize int) error {
	for _, e := range indices {
		if e < 0 || (e+1)*elemSize > len(hb.data) {
			return fmt.Errorf("element index %d out of range for buffer size %d", e, len(hb.data))
		}
	}
	return nil
}
