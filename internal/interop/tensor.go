package interop

import (
	"fmt"
	"unsafe"

	"github.com/lumen-ml/lumen/internal/array"
	"github.com/lumen-ml/lumen/internal/device"
)

// Tensor is the introspection surface a foreign tensor object must expose
// to participate in import/export. Strides are in element units and follow
// the row-major outer-axis-first convention.
type Tensor interface {
	// Rank returns the number of axes.
	Rank() int
	// Shape returns per-axis extents, outer axis first.
	Shape() []int
	// Strides returns per-axis element strides, same axis order as Shape.
	Strides() []int
	// Tag returns the external dtype tag.
	Tag() Tag
	// Device returns the name of the device the data resides on.
	Device() string
	// Data returns the device-resident base pointer of element (0, ..., 0).
	Data() unsafe.Pointer
}

// DenseTensor is a minimal external-framework tensor: a strided view over a
// single device buffer. Freshly constructed tensors are contiguous and own
// their buffer; views produced by Transpose share the buffer and do not.
type DenseTensor struct {
	backend device.Backend
	buf     *device.Buffer
	tag     Tag
	shape   []int
	strides []int
	owned   bool
}

// Verify that DenseTensor implements Tensor.
var _ Tensor = (*DenseTensor)(nil)

// NewDense allocates a contiguous row-major tensor on the backend, filled
// with zeros.
func NewDense(b device.Backend, tag Tag, shape []int) (*DenseTensor, error) {
	s := array.Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("interop: invalid tensor shape: %w", err)
	}
	buf, err := device.Allocate(b, s.NumElements()*tag.Size())
	if err != nil {
		return nil, err
	}
	return &DenseTensor{
		backend: b,
		buf:     buf,
		tag:     tag,
		shape:   s.Clone(),
		strides: s.ComputeStrides(),
		owned:   true,
	}, nil
}

// viewOver wraps an existing buffer without taking ownership.
func viewOver(b device.Backend, buf *device.Buffer, tag Tag, shape, strides []int) *DenseTensor {
	return &DenseTensor{backend: b, buf: buf, tag: tag, shape: shape, strides: strides}
}

// Rank returns the number of axes.
func (t *DenseTensor) Rank() int {
	return len(t.shape)
}

// Shape returns per-axis extents, outer axis first.
func (t *DenseTensor) Shape() []int {
	out := make([]int, len(t.shape))
	copy(out, t.shape)
	return out
}

// Strides returns per-axis element strides.
func (t *DenseTensor) Strides() []int {
	out := make([]int, len(t.strides))
	copy(out, t.strides)
	return out
}

// Tag returns the external dtype tag.
func (t *DenseTensor) Tag() Tag {
	return t.tag
}

// Device returns the device name.
func (t *DenseTensor) Device() string {
	return t.backend.Name()
}

// Data returns the device base pointer.
func (t *DenseTensor) Data() unsafe.Pointer {
	return t.buf.Ptr()
}

// NumElements returns the total element count.
func (t *DenseTensor) NumElements() int {
	return array.Shape(t.shape).NumElements()
}

// ByteSize returns the size of the addressable region in bytes, derived
// from shape and strides rather than assumed contiguous.
func (t *DenseTensor) ByteSize() int {
	return spanElements(t.shape, t.strides) * t.tag.Size()
}

// Transpose returns a view with the axis order permuted by axes. The view
// shares the underlying buffer; it stays valid only as long as the original
// tensor is alive, and releasing the view is a no-op.
func (t *DenseTensor) Transpose(axes ...int) (*DenseTensor, error) {
	if len(axes) != len(t.shape) {
		return nil, fmt.Errorf("interop: transpose needs %d axes, got %d", len(t.shape), len(axes))
	}
	seen := make([]bool, len(axes))
	shape := make([]int, len(axes))
	strides := make([]int, len(axes))
	for i, ax := range axes {
		if ax < 0 || ax >= len(t.shape) || seen[ax] {
			return nil, fmt.Errorf("interop: invalid axis permutation %v", axes)
		}
		seen[ax] = true
		shape[i] = t.shape[ax]
		strides[i] = t.strides[ax]
	}
	return viewOver(t.backend, t.buf, t.tag, shape, strides), nil
}

// SetBytes uploads raw bytes into the underlying buffer in memory order.
func (t *DenseTensor) SetBytes(data []byte) error {
	return t.backend.Upload(t.buf.Ptr(), 0, data)
}

// Bytes forces completion of pending device work and returns a host copy of
// the underlying buffer in memory order.
func (t *DenseTensor) Bytes() ([]byte, error) {
	if err := t.backend.Flush(); err != nil {
		return nil, err
	}
	return t.backend.Download(t.buf.Ptr(), 0, t.buf.Size())
}

// Release frees the underlying buffer if this tensor owns it. Views and
// managed-buffer exports are released through their owners instead.
func (t *DenseTensor) Release() {
	if t.owned {
		t.buf.Release()
	}
}

// spanElements returns the number of elements in the smallest dense region
// covering every (shape, strides) address, i.e. the maximum linear element
// index plus one.
func spanElements(shape, strides []int) int {
	span := 1
	for d := range shape {
		span += (shape[d] - 1) * strides[d]
	}
	return span
}
