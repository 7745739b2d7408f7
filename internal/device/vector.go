package device

import "unsafe"

// Vector is a dense, fixed-length run of same-size elements in a device
// buffer. It is the leaf storage unit of a nested array: every bulk gather
// lands in one vector and every bulk scatter reads from one.
type Vector struct {
	buf      *Buffer
	length   int
	elemSize int
}

// NewVector allocates an owned device vector of length elements.
func NewVector(b Backend, length, elemSize int) (*Vector, error) {
	buf, err := Allocate(b, length*elemSize)
	if err != nil {
		return nil, err
	}
	return &Vector{buf: buf, length: length, elemSize: elemSize}, nil
}

// Ptr returns the device pointer of the backing buffer.
func (v *Vector) Ptr() unsafe.Pointer {
	return v.buf.Ptr()
}

// Len returns the element count.
func (v *Vector) Len() int {
	return v.length
}

// ElemSize returns the byte size of one element.
func (v *Vector) ElemSize() int {
	return v.elemSize
}

// ByteSize returns the total byte size.
func (v *Vector) ByteSize() int {
	return v.length * v.elemSize
}

// Buffer returns the backing buffer.
func (v *Vector) Buffer() *Buffer {
	return v.buf
}

// Release releases the backing buffer.
func (v *Vector) Release() {
	v.buf.Release()
}
