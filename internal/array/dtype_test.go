package array

import (
	"testing"

	"github.com/x448/float16"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Int8, 1},
		{Uint8, 1},
		{Int16, 2},
		{Int32, 4},
		{Int64, 8},
		{Float16, 2},
		{Float32, 4},
		{Float64, 8},
		{Bool, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		str   string
	}{
		{Int8, "int8"},
		{Uint8, "uint8"},
		{Int16, "int16"},
		{Int32, "int32"},
		{Int64, "int64"},
		{Float16, "float16"},
		{Float32, "float32"},
		{Float64, "float64"},
		{Bool, "bool"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("%s.String() = %q, want %q", tt.dtype, got, tt.str)
		}
	}
}

func TestKindOf(t *testing.T) {
	if dt := KindOf[int8](); dt != Int8 {
		t.Errorf("KindOf[int8]() = %v, want Int8", dt)
	}
	if dt := KindOf[float16.Float16](); dt != Float16 {
		t.Errorf("KindOf[float16.Float16]() = %v, want Float16", dt)
	}
	if dt := KindOf[float32](); dt != Float32 {
		t.Errorf("KindOf[float32]() = %v, want Float32", dt)
	}
	if dt := KindOf[float64](); dt != Float64 {
		t.Errorf("KindOf[float64]() = %v, want Float64", dt)
	}
	if dt := KindOf[bool](); dt != Bool {
		t.Errorf("KindOf[bool]() = %v, want Bool", dt)
	}
}

func TestCapabilities(t *testing.T) {
	if !Float32.Capabilities().Has(CapArithmetic | CapTranscendental | CapGradient) {
		t.Error("float32 should support arithmetic, transcendental, and gradient groups")
	}
	if Int32.Capabilities().Has(CapTranscendental) {
		t.Error("int32 should not support transcendental functions")
	}
	if Int32.Capabilities().Has(CapGradient) {
		t.Error("int32 should not be differentiable")
	}
	if !Bool.Capabilities().Has(CapLogical) {
		t.Error("bool should support logical operations")
	}
	if Bool.Capabilities().Has(CapArithmetic) {
		t.Error("bool should not support arithmetic")
	}
}
