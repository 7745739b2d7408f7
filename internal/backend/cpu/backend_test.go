package cpu

import (
	"testing"
	"unsafe"
)

func ptrOf(hb *hostBuffer) unsafe.Pointer {
	return unsafe.Pointer(hb)
}

func allocBytes(t *testing.T, b *Backend, data []byte) *hostBuffer {
	t.Helper()
	ptr, err := b.Alloc(len(data))
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := b.Upload(ptr, 0, data); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	return (*hostBuffer)(ptr)
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	b := New()
	hb := allocBytes(t, b, []byte{10, 20, 30, 40})

	got, err := b.Download(ptrOf(hb), 1, 2)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if got[0] != 20 || got[1] != 30 {
		t.Errorf("Download returned %v, want [20 30]", got)
	}
}

func TestGatherIsDeferred(t *testing.T) {
	b := New()
	src := allocBytes(t, b, []byte{1, 2, 3, 4})
	dst := allocBytes(t, b, make([]byte, 4))

	if err := b.Gather(ptrOf(dst), 0, ptrOf(src), []int{3, 2, 1, 0}, 1); err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if b.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", b.Pending())
	}

	// Before the flush the destination still holds its old contents.
	stale := b.Peek(ptrOf(dst), 0, 4)
	for i, v := range stale {
		if v != 0 {
			t.Fatalf("destination byte %d is %d before flush, want 0", i, v)
		}
	}

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	got := b.Peek(ptrOf(dst), 0, 4)
	want := []byte{4, 3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("destination byte %d = %d after flush, want %d", i, got[i], want[i])
		}
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d after flush, want 0", b.Pending())
	}
}

func TestFlushRunsInProgramOrder(t *testing.T) {
	b := New()
	a := allocBytes(t, b, []byte{7})
	c := allocBytes(t, b, []byte{9})
	dst := allocBytes(t, b, make([]byte, 1))

	// Two scatters to the same element: the later one must win.
	if err := b.Scatter(ptrOf(dst), []int{0}, ptrOf(a), 0, 1); err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}
	if err := b.Scatter(ptrOf(dst), []int{0}, ptrOf(c), 0, 1); err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if got := b.Peek(ptrOf(dst), 0, 1)[0]; got != 9 {
		t.Errorf("destination = %d, want 9 (later write wins)", got)
	}
}

func TestGatherValidatesEagerly(t *testing.T) {
	b := New()
	src := allocBytes(t, b, make([]byte, 4))
	dst := allocBytes(t, b, make([]byte, 4))

	if err := b.Gather(ptrOf(dst), 0, ptrOf(src), []int{0, 4}, 1); err == nil {
		t.Fatal("Gather with out-of-range index should fail")
	}
	if b.Pending() != 0 {
		t.Errorf("failed gather was enqueued: Pending() = %d", b.Pending())
	}
	if b.GatherCalls() != 0 {
		t.Errorf("failed gather was counted: GatherCalls() = %d", b.GatherCalls())
	}
}

func TestScatterValidatesEagerly(t *testing.T) {
	b := New()
	src := allocBytes(t, b, make([]byte, 2))
	dst := allocBytes(t, b, make([]byte, 4))

	// Dense source run of 4 elements does not fit in a 2-byte buffer.
	if err := b.Scatter(ptrOf(dst), []int{0, 1, 2, 3}, ptrOf(src), 0, 1); err == nil {
		t.Fatal("Scatter with oversized dense run should fail")
	}
	if b.Pending() != 0 {
		t.Errorf("failed scatter was enqueued: Pending() = %d", b.Pending())
	}
}

func TestCallCounters(t *testing.T) {
	b := New()
	src := allocBytes(t, b, make([]byte, 8))
	dst := allocBytes(t, b, make([]byte, 8))

	for i := 0; i < 3; i++ {
		if err := b.Gather(ptrOf(dst), 0, ptrOf(src), []int{0, 1}, 1); err != nil {
			t.Fatalf("Gather failed: %v", err)
		}
	}
	if err := b.Scatter(ptrOf(dst), []int{0}, ptrOf(src), 0, 1); err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}

	if b.GatherCalls() != 3 || b.ScatterCalls() != 1 {
		t.Errorf("counters = (%d, %d), want (3, 1)", b.GatherCalls(), b.ScatterCalls())
	}
	b.ResetCounters()
	if b.GatherCalls() != 0 || b.ScatterCalls() != 0 {
		t.Error("ResetCounters did not zero the counters")
	}
}

func TestAllocLimit(t *testing.T) {
	b := New()
	b.SetAllocLimit(10)

	ptr, err := b.Alloc(8)
	if err != nil {
		t.Fatalf("Alloc within limit failed: %v", err)
	}
	if _, err := b.Alloc(8); err == nil {
		t.Fatal("Alloc past limit should fail")
	}
	b.Free(ptr)
	if _, err := b.Alloc(8); err != nil {
		t.Fatalf("Alloc after free failed: %v", err)
	}
	if b.AllocatedBytes() != 8 {
		t.Errorf("AllocatedBytes() = %d, want 8", b.AllocatedBytes())
	}
}
