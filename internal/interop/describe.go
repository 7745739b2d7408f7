package interop

import (
	"fmt"

	"github.com/lumen-ml/lumen/internal/array"
	"github.com/lumen-ml/lumen/internal/device"
)

// Describe introspects a foreign tensor-like object and validates it
// against the requested depth, element kind, and device. On success it
// returns the tensor surface plus its shape and stride vectors (element
// units, outer axis first). Read-only: no side effects, and a failure
// guarantees no data movement has started.
func Describe(b device.Backend, obj any, expectedDepth int, kind array.DataType) (Tensor, []int, []int, error) {
	t, ok := obj.(Tensor)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %T", ErrTypeMismatch, obj)
	}

	if t.Rank() != expectedDepth {
		return nil, nil, nil, fmt.Errorf("%w: rank %d, want %d", ErrShapeMismatch, t.Rank(), expectedDepth)
	}

	tag, err := TagOf(kind)
	if err != nil {
		return nil, nil, nil, err
	}
	if t.Tag() != tag {
		return nil, nil, nil, fmt.Errorf("%w: dtype %s, want %s", ErrDtypeMismatch, t.Tag(), tag)
	}

	if t.Device() != b.Name() {
		return nil, nil, nil, fmt.Errorf("%w: on %q, want %q", ErrDeviceMismatch, t.Device(), b.Name())
	}

	shape := t.Shape()
	strides := t.Strides()
	if err := array.Shape(shape).Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	if len(strides) != len(shape) {
		return nil, nil, nil, fmt.Errorf("%w: %d strides for %d axes", ErrShapeMismatch, len(strides), len(shape))
	}
	for d, s := range strides {
		if s <= 0 {
			return nil, nil, nil, fmt.Errorf("%w: non-positive stride %d at axis %d", ErrShapeMismatch, s, d)
		}
	}

	return t, shape, strides, nil
}
