package device_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-ml/lumen/internal/backend/cpu"
	"github.com/lumen-ml/lumen/internal/device"
)

func TestAllocateAndRelease(t *testing.T) {
	backend := cpu.New()

	buf, err := device.Allocate(backend, 64)
	require.NoError(t, err)

	assert.True(t, buf.Owned())
	assert.Equal(t, 64, buf.Size())
	assert.False(t, buf.Released())
	assert.Equal(t, 1, backend.ActiveBuffers())

	buf.Release()
	assert.True(t, buf.Released())
	assert.Equal(t, 0, backend.ActiveBuffers())
}

func TestReleaseIsIdempotent(t *testing.T) {
	backend := cpu.New()

	buf, err := device.Allocate(backend, 16)
	require.NoError(t, err)

	buf.Release()
	// A second release must not reach Free again; the cpu backend panics
	// on a double free.
	buf.Release()
	assert.Equal(t, 0, backend.ActiveBuffers())
}

func TestAllocationFailure(t *testing.T) {
	backend := cpu.New()
	backend.SetAllocLimit(32)

	_, err := device.Allocate(backend, 64)
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrAllocation))
	assert.Equal(t, 0, backend.ActiveBuffers())
}

func TestMapExternalNeverFrees(t *testing.T) {
	backend := cpu.New()

	owned, err := device.Allocate(backend, 32)
	require.NoError(t, err)
	defer owned.Release()

	view := device.MapExternal(backend, owned.Ptr(), 32, owned)
	assert.False(t, view.Owned())

	view.Release()
	assert.True(t, view.Released())
	// Releasing the borrowed view must leave the owner's memory intact.
	assert.Equal(t, 1, backend.ActiveBuffers())
	assert.False(t, owned.Released())
}

func TestManagedBufferRefCount(t *testing.T) {
	backend := cpu.New()

	m, err := device.NewManaged(backend, 16)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Refs())
	assert.Equal(t, 1, backend.ActiveBuffers())

	m.Retain()
	assert.Equal(t, 2, m.Refs())

	m.Release()
	assert.Equal(t, 1, backend.ActiveBuffers())

	m.Release()
	assert.Equal(t, 0, backend.ActiveBuffers())
	assert.True(t, m.Buffer().Released())
}

func TestManagedBufferBytesFlushes(t *testing.T) {
	backend := cpu.New()

	m, err := device.NewManaged(backend, 8)
	require.NoError(t, err)
	defer m.Release()

	src, err := device.Allocate(backend, 8)
	require.NoError(t, err)
	defer src.Release()

	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, backend.Upload(src.Ptr(), 0, payload))
	require.NoError(t, backend.Scatter(m.Ptr(), []int{0, 1, 2, 3, 4, 5, 6, 7}, src.Ptr(), 0, 1))
	require.Equal(t, 1, backend.Pending())

	// Bytes is a host-visible read, so it forces the deferred scatter.
	got, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, 0, backend.Pending())
}

func TestMapExternalRetainsOwner(t *testing.T) {
	backend := cpu.New()

	owned, err := device.Allocate(backend, 4)
	require.NoError(t, err)
	defer owned.Release()

	view := device.MapExternal(backend, owned.Ptr(), 4, owned)
	assert.Equal(t, unsafe.Pointer(owned.Ptr()), view.Ptr())
	assert.Equal(t, backend, view.Backend())
}
