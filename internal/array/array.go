package array

import (
	"fmt"

	"github.com/lumen-ml/lumen/internal/device"
)

// Array is a fixed-arity nested device array with 1 to 4 nesting levels.
// Levels above the innermost are host-side nesting nodes; the innermost
// level is a dense device-resident vector. Elements are owned by value:
// every leaf vector is backed by its own owned device buffer.
//
// Extents are stored leaf-first (extents[0] is the leaf vector length),
// the reverse of the external outer-axis-first shape convention. The
// Shape accessor performs that single reversal.
type Array struct {
	dtype    DataType
	extents  []int // leaf-first
	children []*Array
	leaf     *device.Vector
	backend  device.Backend
}

// New allocates a nested array for the given external shape with all
// elements zero. shape is outer axis first; its length is the depth.
func New(b device.Backend, dtype DataType, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("array: invalid shape: %w", err)
	}
	return newNode(b, dtype, shape)
}

// newNode builds the nesting level addressed by shape[0], recursing toward
// the leaf vectors.
func newNode(b device.Backend, dtype DataType, shape Shape) (*Array, error) {
	a := &Array{
		dtype:   dtype,
		extents: []int(shape.Reversed()),
		backend: b,
	}
	if len(shape) == 1 {
		leaf, err := device.NewVector(b, shape[0], dtype.Size())
		if err != nil {
			return nil, err
		}
		a.leaf = leaf
		return a, nil
	}

	a.children = make([]*Array, shape[0])
	for i := range a.children {
		child, err := newNode(b, dtype, shape[1:])
		if err != nil {
			for _, c := range a.children[:i] {
				c.Release()
			}
			return nil, err
		}
		a.children[i] = child
	}
	return a, nil
}

// DType returns the element kind.
func (a *Array) DType() DataType {
	return a.dtype
}

// Depth returns the number of nesting levels (1 to 4).
func (a *Array) Depth() int {
	return len(a.extents)
}

// Extents returns the per-level extents, leaf-first.
func (a *Array) Extents() []int {
	out := make([]int, len(a.extents))
	copy(out, a.extents)
	return out
}

// Shape returns the extents in the external outer-axis-first convention.
// This is the one reversal between internal level order and external axis
// order; callers must not reverse again.
func (a *Array) Shape() Shape {
	return Shape(a.extents).Reversed()
}

// NumElements returns the total element count.
func (a *Array) NumElements() int {
	return Shape(a.extents).NumElements()
}

// Backend returns the device backend holding the elements.
func (a *Array) Backend() device.Backend {
	return a.backend
}

// IsLeaf reports whether the array is a single device vector.
func (a *Array) IsLeaf() bool {
	return a.leaf != nil
}

// Child returns the i-th nested child. Panics if called on a leaf.
func (a *Array) Child(i int) *Array {
	if a.leaf != nil {
		panic("array: Child on leaf level")
	}
	return a.children[i]
}

// Leaf returns the device vector of a depth-1 node. Panics on nesting nodes.
func (a *Array) Leaf() *device.Vector {
	if a.leaf == nil {
		panic("array: Leaf on nesting level")
	}
	return a.leaf
}

// Leaves returns all leaf vectors in row-major order of the outer axes.
func (a *Array) Leaves() []*device.Vector {
	if a.leaf != nil {
		return []*device.Vector{a.leaf}
	}
	var out []*device.Vector
	for _, c := range a.children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Release releases every leaf buffer. The array must not be used afterward.
func (a *Array) Release() {
	if a.leaf != nil {
		a.leaf.Release()
		return
	}
	for _, c := range a.children {
		c.Release()
	}
}
