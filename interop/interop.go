// Copyright 2026 Lumen ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package interop provides the public API for exchanging tensors between an
// external strided tensor framework and Lumen's nested device arrays.
//
// Three entry points cover the whole surface:
//
//	arr, err := interop.Import(backend, tensor, 3, array.Float32)
//	out, err := interop.ExportToTensor(backend, arr, true)
//	handle, view, err := interop.ExportToManagedArray(backend, arr, true)
//
// Export takes an eval flag: true forces all deferred device work to
// complete before return, false leaves the copy enqueued and makes the
// caller responsible for synchronizing before reading.
package interop

import (
	"github.com/lumen-ml/lumen/internal/array"
	"github.com/lumen-ml/lumen/internal/device"
	"github.com/lumen-ml/lumen/internal/interop"
)

// Errors returned by validation; when one of these is returned, zero bytes
// were moved.
var (
	ErrShapeMismatch   = interop.ErrShapeMismatch
	ErrDtypeMismatch   = interop.ErrDtypeMismatch
	ErrDeviceMismatch  = interop.ErrDeviceMismatch
	ErrTypeMismatch    = interop.ErrTypeMismatch
	ErrUnsupportedType = interop.ErrUnsupportedType
	ErrAllocation      = interop.ErrAllocation
)

// Tensor is the introspection surface a foreign tensor object must expose.
type Tensor = interop.Tensor

// DenseTensor is a minimal strided tensor over a single device buffer.
type DenseTensor = interop.DenseTensor

// Tag is an external framework dtype tag.
type Tag = interop.Tag

// External dtype tags.
const (
	TagInt8    Tag = interop.TagInt8
	TagUint8   Tag = interop.TagUint8
	TagInt16   Tag = interop.TagInt16
	TagInt32   Tag = interop.TagInt32
	TagInt64   Tag = interop.TagInt64
	TagFloat16 Tag = interop.TagFloat16
	TagFloat32 Tag = interop.TagFloat32
	TagFloat64 Tag = interop.TagFloat64
	TagBool    Tag = interop.TagBool
)

// ManagedBuffer is a reference-counted handle owning exported memory.
type ManagedBuffer = device.ManagedBuffer

// NewDense allocates a contiguous row-major tensor on the backend.
func NewDense(b device.Backend, tag Tag, shape []int) (*DenseTensor, error) {
	return interop.NewDense(b, tag, shape)
}

// TagOf maps an internal element kind to its external dtype tag.
func TagOf(kind array.DataType) (Tag, error) {
	return interop.TagOf(kind)
}

// KindOf maps an external dtype tag to the internal element kind.
func KindOf(tag Tag) (array.DataType, error) {
	return interop.KindOf(tag)
}

// Describe introspects and validates a foreign tensor-like object,
// returning its shape and stride vectors on success. Read-only.
func Describe(b device.Backend, obj any, expectedDepth int, kind array.DataType) (Tensor, []int, []int, error) {
	return interop.Describe(b, obj, expectedDepth, kind)
}

// Import copies a foreign strided tensor into a fresh nested array.
func Import(b device.Backend, obj any, expectedDepth int, kind array.DataType) (*array.Array, error) {
	return interop.Import(b, obj, expectedDepth, kind)
}

// ExportToTensor copies a nested array into a freshly allocated tensor.
func ExportToTensor(b device.Backend, arr *array.Array, eval bool) (*DenseTensor, error) {
	return interop.ExportToTensor(b, arr, eval)
}

// ExportInto copies a nested array into a caller-supplied destination
// tensor, honoring arbitrary positive strides.
func ExportInto(b device.Backend, obj any, arr *array.Array, eval bool) error {
	return interop.ExportInto(b, obj, arr, eval)
}

// ExportToManagedArray copies a nested array into a fresh managed buffer
// and returns the owning handle plus a contiguous tensor view over it.
func ExportToManagedArray(b device.Backend, arr *array.Array, eval bool) (*ManagedBuffer, *DenseTensor, error) {
	return interop.ExportToManagedArray(b, arr, eval)
}
