// Package device defines the accelerator memory and execution model for the
// Lumen engine: opaque device buffers, owned vs borrowed lifetime, typed
// vectors, and the deferred work queue behind the eval barrier.
package device

import "unsafe"

// Backend abstracts one accelerator and its asynchronous work queue.
//
// Gather and Scatter are deferred: they enqueue bulk device operations and
// return as soon as the work is recorded. Operations execute in program
// order relative to each other. Flush is the only synchronization barrier;
// host-visible reads of device memory are undefined until the queue has
// been flushed.
//
// A single logical host thread issues operations; implementations are not
// required to be safe for concurrent use.
type Backend interface {
	// Name identifies the device this backend drives (e.g. "cpu", "webgpu").
	Name() string

	// Alloc obtains size bytes of device-resident, zero-initialized memory.
	// Allocation failure is fatal for the requesting operation and is not
	// retried.
	Alloc(size int) (unsafe.Pointer, error)

	// Free releases memory previously returned by Alloc.
	Free(ptr unsafe.Pointer)

	// Upload copies host bytes into device memory at a byte offset.
	Upload(dst unsafe.Pointer, off int, src []byte) error

	// Download copies size device bytes at a byte offset back to the host.
	// It does not flush the queue: reading memory with outstanding deferred
	// writes observes stale data.
	Download(src unsafe.Pointer, off, size int) ([]byte, error)

	// Gather enqueues one bulk read: for each i, element indices[i] of src
	// is copied to the dense run dst[dstOff+i]. Offsets and indices are in
	// element units of elemSize bytes. Bounds are validated synchronously
	// before anything is enqueued.
	Gather(dst unsafe.Pointer, dstOff int, src unsafe.Pointer, indices []int, elemSize int) error

	// Scatter enqueues one bulk write: for each i, the dense element
	// src[srcOff+i] is copied to element indices[i] of dst. Offsets and
	// indices are in element units of elemSize bytes. Bounds are validated
	// synchronously before anything is enqueued.
	Scatter(dst unsafe.Pointer, indices []int, src unsafe.Pointer, srcOff int, elemSize int) error

	// Flush forces synchronous completion of every deferred operation
	// enqueued so far, in program order.
	Flush() error
}
