package array

import "fmt"

// MaxDepth is the deepest supported nesting level.
const MaxDepth = 4

// Shape represents per-axis extents in the external row-major convention,
// ordered outer axis first.
type Shape []int

// NumElements returns the total number of elements covered by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that the shape has a supported depth and positive extents.
func (s Shape) Validate() error {
	if len(s) < 1 || len(s) > MaxDepth {
		return fmt.Errorf("depth %d out of range [1, %d]", len(s), MaxDepth)
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid extent at axis %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Reversed returns the shape with axis order flipped. Nested arrays store
// their extent vector leaf-first, so exactly one reversal separates the
// internal level order from the external axis order.
func (s Shape) Reversed() Shape {
	rev := make(Shape, len(s))
	for i, dim := range s {
		rev[len(s)-1-i] = dim
	}
	return rev
}

// ComputeStrides calculates contiguous row-major strides for the shape,
// in element units.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}
