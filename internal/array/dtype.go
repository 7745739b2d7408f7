// Package array provides the nested device-array value type for the Lumen engine.
package array

import "github.com/x448/float16"

// Scalar is a constraint for supported array element types.
// Float16 has no native Go representation and comes from x448/float16.
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64 | ~bool | float16.Float16
}

// DataType represents runtime type information for array elements.
type DataType int

// Supported element kinds.
const (
	Int8 DataType = iota
	Uint8
	Int16
	Int32
	Int64
	Float16
	Float32
	Float64
	Bool
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Int8, Uint8, Bool:
		return 1
	case Int16, Float16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Capability describes an operation group an array kind participates in.
// The generic binding surface iterates declared capabilities instead of
// branching on element type traits.
type Capability uint8

// Operation groups.
const (
	// CapArithmetic enables +, -, *, / and friends.
	CapArithmetic Capability = 1 << iota
	// CapComparison enables ordering and equality operations.
	CapComparison
	// CapTranscendental enables exp, log, trigonometric functions.
	CapTranscendental
	// CapReduction enables horizontal sum/prod/min/max.
	CapReduction
	// CapLogical enables and/or/xor/not on mask arrays.
	CapLogical
	// CapGradient marks kinds eligible for differentiable variants.
	CapGradient
)

// Has reports whether c includes all capabilities in want.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Capabilities returns the operation groups supported by the data type.
func (dt DataType) Capabilities() Capability {
	switch dt {
	case Float16, Float32, Float64:
		return CapArithmetic | CapComparison | CapTranscendental | CapReduction | CapGradient
	case Int8, Uint8, Int16, Int32, Int64:
		return CapArithmetic | CapComparison | CapReduction
	case Bool:
		return CapLogical | CapComparison
	default:
		return 0
	}
}

// KindOf infers the DataType for a generic element type T.
func KindOf[T Scalar]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case float16.Float16:
		return Float16
	case float32:
		return Float32
	case float64:
		return Float64
	case bool:
		return Bool
	default:
		panic("unsupported element type")
	}
}
