package array

import (
	"fmt"
	"unsafe"

	"github.com/lumen-ml/lumen/internal/device"
)

// Construction is always through explicit factories. There is no implicit
// scalar-to-array promotion; use Full to splat a scalar.

// Zeros allocates a zero-filled nested array.
func Zeros[T Scalar](b device.Backend, shape Shape) (*Array, error) {
	return New(b, KindOf[T](), shape)
}

// FromSlice creates a nested array from row-major host data.
// The slice is copied; the array owns its elements.
func FromSlice[T Scalar](b device.Backend, data []T, shape Shape) (*Array, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("array: shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}

	a, err := New(b, KindOf[T](), shape)
	if err != nil {
		return nil, err
	}

	raw := sliceBytes(data)
	leafBytes := shape[len(shape)-1] * a.dtype.Size()
	for k, leaf := range a.Leaves() {
		if err := b.Upload(leaf.Ptr(), 0, raw[k*leafBytes:(k+1)*leafBytes]); err != nil {
			a.Release()
			return nil, fmt.Errorf("array: upload: %w", err)
		}
	}
	return a, nil
}

// Full creates a nested array with every element set to value.
func Full[T Scalar](b device.Backend, shape Shape, value T) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("array: invalid shape: %w", err)
	}
	data := make([]T, shape.NumElements())
	for i := range data {
		data[i] = value
	}
	return FromSlice(b, data, shape)
}

// ToSlice forces completion of pending device work and returns a row-major
// host copy of the array elements. This is an eval point: the deferred
// queue is flushed before any leaf is read.
func ToSlice[T Scalar](a *Array) ([]T, error) {
	if KindOf[T]() != a.dtype {
		return nil, fmt.Errorf("array: element type %s does not match array kind %s",
			KindOf[T](), a.dtype)
	}
	if err := a.backend.Flush(); err != nil {
		return nil, err
	}

	out := make([]T, a.NumElements())
	raw := sliceBytes(out)
	off := 0
	for _, leaf := range a.Leaves() {
		chunk, err := a.backend.Download(leaf.Ptr(), 0, leaf.ByteSize())
		if err != nil {
			return nil, err
		}
		copy(raw[off:], chunk)
		off += len(chunk)
	}
	return out, nil
}

// sliceBytes reinterprets a typed slice as raw bytes without copying.
func sliceBytes[T Scalar](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var dummy T
	size := int(unsafe.Sizeof(dummy))
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length derived from len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*size)
}
