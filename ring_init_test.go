// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/wordring/ring"
)

func TestMemSizeInvalidCapacity(t *testing.T) {
	cases := []int{0, -1, 3, 1000, (1 << 28) + 1}
	for _, c := range cases {
		if got := ring.MemSize(c); got != 0 {
			t.Errorf("MemSize(%d) = %d, want 0", c, got)
		}
	}
}

func TestMemSizeGrowsWithCapacity(t *testing.T) {
	small := ring.MemSize(8)
	large := ring.MemSize(64)
	if small == 0 || large == 0 {
		t.Fatalf("MemSize returned 0 for a valid capacity: small=%d large=%d", small, large)
	}
	if large <= small {
		t.Fatalf("MemSize(64) = %d, want more than MemSize(8) = %d", large, small)
	}
}

// alignedRegion returns a byte slice of at least n bytes whose start is
// cache-line aligned, by over-allocating and slicing forward.
func alignedRegion(n int) []byte {
	const cacheLine = 64
	buf := make([]byte, n+cacheLine)
	off := uintptr(unsafe.Pointer(&buf[0])) % cacheLine
	if off == 0 {
		return buf[:n]
	}
	return buf[cacheLine-off:][:n]
}

func TestInitAtRoundTrip(t *testing.T) {
	const capacity = 16
	size := ring.MemSize(capacity)
	region := alignedRegion(int(size))

	r, err := ring.InitAt(region, capacity, 0)
	if err != nil {
		t.Fatalf("InitAt: %v", err)
	}
	if r.Cap() != capacity {
		t.Fatalf("Cap: got %d, want %d", r.Cap(), capacity)
	}

	want := []ring.Handle{10, 20, 30}
	if n := r.Push(want, ring.Fixed); n != len(want) {
		t.Fatalf("Push: got %d, want %d", n, len(want))
	}
	out := make([]ring.Handle, len(want))
	if n := r.Pop(out, ring.Fixed); n != len(want) {
		t.Fatalf("Pop: got %d, want %d", n, len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestInitAtRegionTooSmall(t *testing.T) {
	const capacity = 16
	size := ring.MemSize(capacity)
	region := alignedRegion(int(size) - 1)

	if _, err := ring.InitAt(region, capacity, 0); !errors.Is(err, ring.ErrRegionTooSmall) {
		t.Fatalf("InitAt: got %v, want ErrRegionTooSmall", err)
	}
}

func TestInitAtRegionMisaligned(t *testing.T) {
	const capacity = 16
	size := ring.MemSize(capacity)
	region := alignedRegion(int(size) + 1)
	// Find an aligned start, then offset by one byte to misalign it.
	off := uintptr(unsafe.Pointer(&region[0])) % 64
	if off != 0 {
		t.Fatalf("test fixture is not aligned: off=%d", off)
	}
	misaligned := region[1:]

	if _, err := ring.InitAt(misaligned, capacity, 0); !errors.Is(err, ring.ErrRegionMisaligned) {
		t.Fatalf("InitAt: got %v, want ErrRegionMisaligned", err)
	}
}

func TestNewPanicsOnInvalidCapacity(t *testing.T) {
	cases := []int{0, -1, 3, 1000}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%d): expected panic", c)
				}
			}()
			ring.New(c, 0)
		}()
	}
}
