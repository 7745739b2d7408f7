package array_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/lumen-ml/lumen/internal/array"
	"github.com/lumen-ml/lumen/internal/backend/cpu"
)

func TestShapeValidate(t *testing.T) {
	tests := []struct {
		name  string
		shape array.Shape
		ok    bool
	}{
		{"rank 1", array.Shape{4}, true},
		{"rank 4", array.Shape{2, 3, 4, 5}, true},
		{"rank 0", array.Shape{}, false},
		{"rank 5", array.Shape{1, 1, 1, 1, 1}, false},
		{"zero extent", array.Shape{2, 0, 3}, false},
		{"negative extent", array.Shape{2, -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestShapeReversed(t *testing.T) {
	s := array.Shape{2, 3, 4}
	assert.Equal(t, array.Shape{4, 3, 2}, s.Reversed())
	assert.Equal(t, s, s.Reversed().Reversed())
}

func TestShapeComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, array.Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, array.Shape{7}.ComputeStrides())
}

func TestNewStructure(t *testing.T) {
	backend := cpu.New()

	a, err := array.New(backend, array.Float32, array.Shape{2, 3, 4})
	require.NoError(t, err)
	defer a.Release()

	assert.Equal(t, 3, a.Depth())
	assert.Equal(t, array.Shape{2, 3, 4}, a.Shape())
	// Extents are stored leaf-first, the reverse of the external shape.
	assert.Equal(t, []int{4, 3, 2}, a.Extents())
	assert.Equal(t, 24, a.NumElements())

	// One leaf vector per outer index tuple, each over the last axis.
	leaves := a.Leaves()
	require.Len(t, leaves, 6)
	for _, leaf := range leaves {
		assert.Equal(t, 4, leaf.Len())
	}

	assert.False(t, a.IsLeaf())
	assert.True(t, a.Child(0).Child(0).IsLeaf())
}

func TestNewRejectsBadDepth(t *testing.T) {
	backend := cpu.New()

	_, err := array.New(backend, array.Float32, array.Shape{})
	assert.Error(t, err)

	_, err = array.New(backend, array.Float32, array.Shape{1, 2, 3, 4, 5})
	assert.Error(t, err)
}

func TestFromSliceRoundTrip(t *testing.T) {
	backend := cpu.New()

	data := []float32{1, 2, 3, 4, 5, 6}
	a, err := array.FromSlice(backend, data, array.Shape{2, 3})
	require.NoError(t, err)
	defer a.Release()

	out, err := array.ToSlice[float32](a)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestFromSliceLengthMismatch(t *testing.T) {
	backend := cpu.New()

	_, err := array.FromSlice(backend, []float32{1, 2, 3}, array.Shape{2, 3})
	assert.Error(t, err)
}

func TestFromSliceFloat16(t *testing.T) {
	backend := cpu.New()

	data := []float16.Float16{
		float16.Fromfloat32(0.5),
		float16.Fromfloat32(-1.25),
		float16.Fromfloat32(3),
		float16.Fromfloat32(42),
	}
	a, err := array.FromSlice(backend, data, array.Shape{2, 2})
	require.NoError(t, err)
	defer a.Release()

	assert.Equal(t, array.Float16, a.DType())

	out, err := array.ToSlice[float16.Float16](a)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestFull(t *testing.T) {
	backend := cpu.New()

	a, err := array.Full(backend, array.Shape{3, 2}, int32(-7))
	require.NoError(t, err)
	defer a.Release()

	out, err := array.ToSlice[int32](a)
	require.NoError(t, err)
	for _, v := range out {
		assert.Equal(t, int32(-7), v)
	}
}

func TestToSliceKindMismatch(t *testing.T) {
	backend := cpu.New()

	a, err := array.Zeros[float32](backend, array.Shape{4})
	require.NoError(t, err)
	defer a.Release()

	_, err = array.ToSlice[int64](a)
	assert.Error(t, err)
}

func TestReleaseFreesLeaves(t *testing.T) {
	backend := cpu.New()

	a, err := array.New(backend, array.Float64, array.Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.ActiveBuffers())

	a.Release()
	assert.Equal(t, 0, backend.ActiveBuffers())
}
