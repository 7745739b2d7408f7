package interop

import (
	"unsafe"

	"github.com/lumen-ml/lumen/internal/array"
	"github.com/lumen-ml/lumen/internal/device"
)

// Recursive strided marshalling between a flat, arbitrarily strided,
// row-major tensor layout and a depth-nested array.
//
// The walk is depth-first over the external axes, outer axis first,
// carrying a running linear element offset. Axis d iterates the children
// of nesting level d; the innermost axis is handled with exactly one bulk
// gather or scatter over the whole run, so the host issues
// prod(shape[0..depth-2]) bulk device calls in total, never a per-element
// loop. Strides are taken as given and may describe any non-contiguous
// (e.g. transposed) layout, as long as distinct index tuples map to
// distinct elements.
//
// The external and internal memory regions must not alias; overlap is a
// precondition violation, not detected at runtime.

// gatherWalk copies external -> internal: each innermost run of the strided
// source is gathered into the dense leaf vector of node.
func gatherWalk(b device.Backend, node *array.Array, src unsafe.Pointer, shape, strides []int, d, offset int) error {
	if d == len(shape)-1 {
		indices := innerRun(offset, shape[d], strides[d])
		return b.Gather(node.Leaf().Ptr(), 0, src, indices, node.DType().Size())
	}
	for i := 0; i < shape[d]; i++ {
		if err := gatherWalk(b, node.Child(i), src, shape, strides, d+1, offset+i*strides[d]); err != nil {
			return err
		}
	}
	return nil
}

// scatterWalk copies internal -> external: each dense leaf vector of node
// is scattered to the innermost run of the strided destination.
func scatterWalk(b device.Backend, node *array.Array, dst unsafe.Pointer, shape, strides []int, d, offset int) error {
	if d == len(shape)-1 {
		indices := innerRun(offset, shape[d], strides[d])
		return b.Scatter(dst, indices, node.Leaf().Ptr(), 0, node.DType().Size())
	}
	for i := 0; i < shape[d]; i++ {
		if err := scatterWalk(b, node.Child(i), dst, shape, strides, d+1, offset+i*strides[d]); err != nil {
			return err
		}
	}
	return nil
}

// innerRun builds the element index sequence offset + i*stride for the
// innermost axis.
func innerRun(offset, extent, stride int) []int {
	indices := make([]int, extent)
	for i := range indices {
		indices[i] = offset + i*stride
	}
	return indices
}
