// Copyright 2026 Lumen ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package array provides the public API for Lumen's nested device arrays.
//
// An Array is a fixed-arity nested array of a scalar kind with 1 to 4
// nesting levels, resident on a device backend and evaluated lazily.
// Construction is always through explicit factories; there is no implicit
// scalar-to-array promotion.
//
// Example:
//
//	backend := cpu.New()
//	a, err := array.FromSlice(backend, []float32{1, 2, 3, 4, 5, 6}, array.Shape{2, 3})
package array

import (
	"github.com/lumen-ml/lumen/internal/array"
	"github.com/lumen-ml/lumen/internal/device"
)

// Scalar is a constraint for supported array element types.
type Scalar = array.Scalar

// DataType represents runtime type information for array elements.
type DataType = array.DataType

// Element kind constants.
const (
	Int8    DataType = array.Int8
	Uint8   DataType = array.Uint8
	Int16   DataType = array.Int16
	Int32   DataType = array.Int32
	Int64   DataType = array.Int64
	Float16 DataType = array.Float16
	Float32 DataType = array.Float32
	Float64 DataType = array.Float64
	Bool    DataType = array.Bool
)

// Capability describes an operation group an array kind participates in.
type Capability = array.Capability

// Operation groups.
const (
	CapArithmetic     Capability = array.CapArithmetic
	CapComparison     Capability = array.CapComparison
	CapTranscendental Capability = array.CapTranscendental
	CapReduction      Capability = array.CapReduction
	CapLogical        Capability = array.CapLogical
	CapGradient       Capability = array.CapGradient
)

// Shape represents per-axis extents in the external row-major convention.
type Shape = array.Shape

// MaxDepth is the deepest supported nesting level.
const MaxDepth = array.MaxDepth

// Array is a fixed-arity nested device array.
type Array = array.Array

// Backend abstracts one accelerator and its asynchronous work queue.
type Backend = device.Backend

// New allocates a nested array for the given shape with all elements zero.
func New(b Backend, dtype DataType, shape Shape) (*Array, error) {
	return array.New(b, dtype, shape)
}

// Zeros allocates a zero-filled nested array of element type T.
func Zeros[T Scalar](b Backend, shape Shape) (*Array, error) {
	return array.Zeros[T](b, shape)
}

// FromSlice creates a nested array from row-major host data.
func FromSlice[T Scalar](b Backend, data []T, shape Shape) (*Array, error) {
	return array.FromSlice(b, data, shape)
}

// Full creates a nested array with every element set to value.
func Full[T Scalar](b Backend, shape Shape, value T) (*Array, error) {
	return array.Full(b, shape, value)
}

// ToSlice forces evaluation and returns a row-major host copy of the array.
func ToSlice[T Scalar](a *Array) ([]T, error) {
	return array.ToSlice[T](a)
}

// KindOf infers the DataType for a generic element type T.
func KindOf[T Scalar]() DataType {
	return array.KindOf[T]()
}
