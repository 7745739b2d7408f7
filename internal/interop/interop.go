// Package interop moves dense numeric data between an external strided
// tensor framework and the engine's nested device arrays.
//
// Three entry points cover the whole surface: Import, ExportToTensor (with
// the ExportInto variant for caller-supplied destinations), and
// ExportToManagedArray. Callers never deal with stride reversal, buffer
// ownership modes, or bulk-call counts.
//
// All operations run under the engine's deferred execution model: a call
// returns once its device work is enqueued, not completed. Export takes an
// eval flag as the only synchronization barrier; with eval=false the caller
// must synchronize before reading, and reading early observes stale or
// partially written data. This trade-off is always the caller's, never
// decided here.
package interop

import (
	"fmt"

	"github.com/lumen-ml/lumen/internal/array"
	"github.com/lumen-ml/lumen/internal/device"
)

// Import copies a foreign strided tensor into a freshly allocated nested
// array of exactly expectedDepth levels and the given element kind. Rank,
// dtype, and device must match exactly; nothing is ever coerced.
//
// The copy is enqueued, not completed: the source tensor's memory must stay
// alive and unmutated until the next flush of the backend queue.
func Import(b device.Backend, obj any, expectedDepth int, kind array.DataType) (*array.Array, error) {
	t, shape, strides, err := Describe(b, obj, expectedDepth, kind)
	if err != nil {
		return nil, err
	}

	arr, err := array.New(b, kind, shape)
	if err != nil {
		return nil, err
	}

	// Borrowed view into the foreign memory; retains the tensor object so
	// the memory outlives the enqueued gathers. Never freed here.
	src := device.MapExternal(b, t.Data(), spanElements(shape, strides)*kind.Size(), t)

	if err := gatherWalk(b, arr, src.Ptr(), shape, strides, 0, 0); err != nil {
		arr.Release()
		return nil, fmt.Errorf("interop: import: %w", err)
	}
	return arr, nil
}

// ExportToTensor copies a nested array into a freshly allocated external
// tensor with the array's extents in the external axis convention. The
// destination's actual strides are queried back and honored rather than
// assumed contiguous.
//
// With eval=true every deferred operation affecting the result completes
// before return; with eval=false the copy itself is one more deferred
// operation.
func ExportToTensor(b device.Backend, arr *array.Array, eval bool) (*DenseTensor, error) {
	tag, err := TagOf(arr.DType())
	if err != nil {
		return nil, err
	}

	dst, err := NewDense(b, tag, arr.Shape())
	if err != nil {
		return nil, err
	}

	if err := ExportInto(b, dst, arr, eval); err != nil {
		dst.Release()
		return nil, err
	}
	return dst, nil
}

// ExportInto copies a nested array into a caller-supplied destination
// tensor, which may have any positive strides (e.g. a transposed view).
// The destination memory is borrowed for the duration of the copy and
// never freed here; the caller keeps the destination alive until the copy
// has been synchronized.
func ExportInto(b device.Backend, obj any, arr *array.Array, eval bool) error {
	t, shape, strides, err := Describe(b, obj, arr.Depth(), arr.DType())
	if err != nil {
		return err
	}
	if !array.Shape(shape).Equal(arr.Shape()) {
		return fmt.Errorf("%w: destination shape %v, array shape %v", ErrShapeMismatch, shape, arr.Shape())
	}

	dst := device.MapExternal(b, t.Data(), spanElements(shape, strides)*arr.DType().Size(), t)
	if err := scatterWalk(b, arr, dst.Ptr(), shape, strides, 0, 0); err != nil {
		return fmt.Errorf("interop: export: %w", err)
	}

	if eval {
		return b.Flush()
	}
	return nil
}

// ExportToManagedArray copies a nested array into a fresh managed buffer
// (addressable from both host and device) and returns the owning handle
// together with a contiguous row-major tensor view over it. This is the
// only path where the interop layer itself owns the exported memory: the
// buffer is freed when, and only when, the returned handle is released.
func ExportToManagedArray(b device.Backend, arr *array.Array, eval bool) (*device.ManagedBuffer, *DenseTensor, error) {
	tag, err := TagOf(arr.DType())
	if err != nil {
		return nil, nil, err
	}

	shape := arr.Shape()
	m, err := device.NewManaged(b, shape.NumElements()*arr.DType().Size())
	if err != nil {
		return nil, nil, err
	}

	view := viewOver(b, m.Buffer(), tag, shape, shape.ComputeStrides())
	if err := scatterWalk(b, arr, m.Ptr(), view.shape, view.strides, 0, 0); err != nil {
		m.Release()
		return nil, nil, fmt.Errorf("interop: managed export: %w", err)
	}

	if eval {
		if err := b.Flush(); err != nil {
			return nil, nil, err
		}
	}
	return m, view, nil
}
