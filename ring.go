// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"github.com/wordring/ring/internal/batchcopy"
)

// cacheLine is the assumed cache line size. Producer metadata, consumer
// metadata, and the slot array each start on a cacheLine boundary so
// producers' and consumers' hot writes do not thrash each other's caches.
const cacheLine = 64

// maxCapacity is the largest capacity the 32-bit cursor domain supports.
// Cursors wrap at 2^32; capacity must stay small enough that head-tail
// cannot overflow into ambiguity. 2^28 leaves four reserved high bits.
const maxCapacity = 1 << 28

// Handle is an opaque, machine-word-sized value. The ring never
// dereferences, retains, or otherwise inspects the bits of a Handle; its
// meaning and lifetime belong entirely to the caller.
type Handle = uintptr

// Flags selects the producer and consumer access protocol for a Ring.
// The zero value is multi-producer/multi-consumer.
type Flags uint32

const (
	// SP restricts Push to a single producer goroutine. Calling Push
	// concurrently from two goroutines on an SP ring is undefined
	// behavior the ring does not detect.
	SP Flags = 1 << 0
	// SC restricts Pop to a single consumer goroutine, with the same
	// undefined-behavior contract as SP.
	SC Flags = 1 << 1
)

// Behavior selects the short-count policy for Push and Pop.
type Behavior uint8

const (
	// Fixed requests all-or-nothing behavior: either every requested
	// handle is transferred, or none are.
	Fixed Behavior = iota
	// Variable requests best-effort behavior: as many handles as fit
	// (at least one, against a ring that is not full/empty) are
	// transferred, and the short count is returned.
	Variable
)

// side holds one half of the cursor pair (reservation head, visibility
// tail) for either the producer or the consumer. Each side is padded to
// occupy a full cache line on its own so that producer and consumer
// metadata never share a line.
type side struct {
	head atomix.Uint32
	tail atomix.Uint32
	_    [cacheLine - 2*4]byte
}

// Ring is a bounded, lock-free, multi-producer/multi-consumer FIFO queue
// of opaque handles. See the package doc for construction and usage.
//
// A Ring must be constructed with New or InitAt; its zero value is not
// usable.
type Ring struct {
	capacity uint32
	mask     uint32
	flags    Flags
	_        [cacheLine - 4 - 4 - 4]byte
	prod     side
	cons     side
	slots    []Handle
}

// isPow2Capacity reports whether capacity is a positive power of two not
// exceeding maxCapacity.
func isPow2Capacity(capacity int) bool {
	if capacity <= 0 || capacity > maxCapacity {
		return false
	}
	c := uint32(capacity)
	return c&(c-1) == 0
}

// headerSize is the byte size of everything in a Ring except the slot
// array, rounded so the slot array begins on a cache line boundary.
const headerSize = cacheLine /* capacity/mask/flags block */ + cacheLine /* prod */ + cacheLine /* cons */

// MemSize returns the number of bytes a Ring of the given capacity needs:
// the header followed by capacity handle-sized slots. It returns 0 if
// capacity is not a positive power of two or exceeds 2^28 — the sizing
// half of the two error kinds this package reports as return values
// rather than exceptions.
func MemSize(capacity int) uintptr {
	if !isPow2Capacity(capacity) {
		return 0
	}
	return uintptr(headerSize) + uintptr(capacity)*unsafe.Sizeof(Handle(0))
}

// New creates a Ring of the given capacity with its own backing storage.
// capacity must be a positive power of two no larger than 2^28; New
// panics otherwise, matching this queue family's convention of treating
// a malformed capacity as a programmer bug rather than a runtime
// condition. flags selects the SP/MP and SC/MC protocols; the zero value
// is multi-producer/multi-consumer.
func New(capacity int, flags Flags) *Ring {
	if !isPow2Capacity(capacity) {
		panic("ring: capacity must be a power of two in [1, 1<<28]")
	}
	r := &Ring{
		capacity: uint32(capacity),
		mask:     uint32(capacity) - 1,
		flags:    flags,
		slots:    make([]Handle, capacity),
	}
	return r
}

// InitAt places a Ring of the given capacity inside a caller-supplied
// region, for callers that manage their own backing memory (a arena, a
// pinned allocation, eventually a shared-memory segment the caller
// mmaps). region must be at least MemSize(capacity) bytes, cache-line
// aligned, and must outlive the returned Ring.
//
// The cursor header itself remains an ordinary Go value allocated by
// InitAt — this package's atomics have no specified raw memory layout
// that would be safe to place inside caller-supplied bytes — but the
// slot array, which is the part of the contract a cross-process caller
// actually cares about, is carved directly out of region, matching the
// "header followed by capacity slots" layout MemSize describes.
//
// InitAt panics if capacity is invalid, the same programmer-bug
// contract as New. It returns an error, not a panic, if region is
// merely too small or misaligned for the requested capacity, since
// those are conditions that depend on data the caller computed at run
// time rather than a constant baked into the call site.
func InitAt(region []byte, capacity int, flags Flags) (*Ring, error) {
	if !isPow2Capacity(capacity) {
		panic("ring: capacity must be a power of two in [1, 1<<28]")
	}
	need := MemSize(capacity)
	if uintptr(len(region)) < need {
		return nil, ErrRegionTooSmall
	}
	if uintptr(unsafe.Pointer(&region[0]))%cacheLine != 0 {
		return nil, ErrRegionMisaligned
	}
	slotBytes := region[headerSize:need]
	slots := unsafe.Slice((*Handle)(unsafe.Pointer(&slotBytes[0])), capacity)
	r := &Ring{
		capacity: uint32(capacity),
		mask:     uint32(capacity) - 1,
		flags:    flags,
		slots:    slots,
	}
	return r, nil
}

// Cap returns the ring's capacity.
func (r *Ring) Cap() int {
	return int(r.capacity)
}

// Push enqueues handles into the ring. With Fixed, Push transfers all of
// handles or none; it returns len(handles) on full success and 0 if the
// ring lacks room. With Variable, Push transfers as many handles as fit,
// returning the short count (0 only if the ring is full).
//
// Push uses the single-producer protocol if the ring was created with
// SP, and the lock-free multi-producer protocol otherwise. Calling Push
// concurrently from two goroutines on an SP ring is undefined behavior.
func (r *Ring) Push(handles []Handle, behavior Behavior) int {
	if len(handles) == 0 {
		return 0
	}
	if r.flags&SP != 0 {
		return r.pushSP(handles, behavior)
	}
	return r.pushMP(handles, behavior)
}

func (r *Ring) pushSP(handles []Handle, behavior Behavior) int {
	head := r.prod.head.LoadRelaxed()
	tail := r.cons.tail.LoadAcquire()
	n := shortCount(uint32(len(handles)), r.mask+tail-head, behavior)
	if n == 0 {
		return 0
	}
	newHead := head + n
	r.prod.head.StoreRelaxed(newHead)
	r.copyIn(head, handles[:n])
	r.prod.tail.StoreRelease(newHead)
	return int(n)
}

func (r *Ring) pushMP(handles []Handle, behavior Behavior) int {
	var head, n uint32
	sw := spin.Wait{}
	for {
		head = r.prod.head.LoadAcquire()
		tail := r.cons.tail.LoadAcquire()
		n = shortCount(uint32(len(handles)), r.mask+tail-head, behavior)
		if n == 0 {
			return 0
		}
		if r.prod.head.CompareAndSwapAcqRel(head, head+n) {
			break
		}
		sw.Once()
	}
	newHead := head + n
	r.copyIn(head, handles[:n])

	// Handoff stall: earlier producers that reserved slots before us
	// must publish prod.tail first, so prod.tail advances contiguously
	// through every reserved range in reservation order.
	hs := spin.Wait{}
	for r.prod.tail.LoadAcquire() != head {
		hs.Once()
	}
	r.prod.tail.StoreRelease(newHead)
	return int(n)
}

// Pop dequeues up to len(out) handles from the ring into out. With
// Fixed, Pop transfers exactly len(out) handles or none. With Variable,
// Pop transfers as many as are available, returning the short count (0
// only if the ring is empty).
//
// Pop uses the single-consumer protocol if the ring was created with
// SC, and the lock-free multi-consumer protocol otherwise. Calling Pop
// concurrently from two goroutines on an SC ring is undefined behavior.
func (r *Ring) Pop(out []Handle, behavior Behavior) int {
	if len(out) == 0 {
		return 0
	}
	if r.flags&SC != 0 {
		return r.popSC(out, behavior)
	}
	return r.popMC(out, behavior)
}

func (r *Ring) popSC(out []Handle, behavior Behavior) int {
	head := r.cons.head.LoadRelaxed()
	tail := r.prod.tail.LoadAcquire()
	n := shortCount(uint32(len(out)), tail-head, behavior)
	if n == 0 {
		return 0
	}
	newHead := head + n
	r.cons.head.StoreRelaxed(newHead)
	r.copyOut(head, out[:n])
	r.cons.tail.StoreRelease(newHead)
	return int(n)
}

func (r *Ring) popMC(out []Handle, behavior Behavior) int {
	var head, n uint32
	sw := spin.Wait{}
	for {
		head = r.cons.head.LoadAcquire()
		tail := r.prod.tail.LoadAcquire()
		n = shortCount(uint32(len(out)), tail-head, behavior)
		if n == 0 {
			return 0
		}
		if r.cons.head.CompareAndSwapAcqRel(head, head+n) {
			break
		}
		sw.Once()
	}
	newHead := head + n
	r.copyOut(head, out[:n])

	hs := spin.Wait{}
	for r.cons.tail.LoadAcquire() != head {
		hs.Once()
	}
	r.cons.tail.StoreRelease(newHead)
	return int(n)
}

// shortCount applies the FIXED/VARIABLE rule given a requested count and
// the number of slots actually available (free slots for a push, ready
// items for a pop).
func shortCount(requested, available uint32, behavior Behavior) uint32 {
	if requested <= available {
		return requested
	}
	if behavior == Fixed {
		return 0
	}
	return available
}

// copyIn writes handles into slots starting at reservation index head,
// splitting the copy at the array boundary if the range wraps.
func (r *Ring) copyIn(head uint32, handles []Handle) {
	batchcopy.In(r.slots, r.mask, head, handles)
}

// copyOut reads handles out of slots starting at reservation index head,
// splitting the copy at the array boundary if the range wraps. Slots are
// not cleared afterward: Handle is an opaque machine word, not a
// pointer, so there is no referent for the ring to keep alive and
// nothing to zero.
func (r *Ring) copyOut(head uint32, out []Handle) {
	batchcopy.Out(out, r.slots, r.mask, head)
}

// Full reports whether the ring has no free slots, reading only the
// visibility cursors. One slot is always held back to distinguish full
// from empty; under concurrency the result may be stale by the time it
// is observed, which is the documented, intended behavior.
func (r *Ring) Full() bool {
	return (r.cons.tail.LoadAcquire()-r.prod.tail.LoadAcquire()-1)&r.mask == 0
}

// Empty reports whether the ring has no committed, undrained handles.
func (r *Ring) Empty() bool {
	return r.prod.tail.LoadAcquire() == r.cons.tail.LoadAcquire()
}

// Count returns the approximate number of committed handles currently
// in the ring.
func (r *Ring) Count() int {
	return int((r.prod.tail.LoadAcquire() - r.cons.tail.LoadAcquire()) & r.mask)
}

// Avail returns the approximate number of free slots currently in the
// ring.
func (r *Ring) Avail() int {
	return int((r.cons.tail.LoadAcquire() - r.prod.tail.LoadAcquire() - 1) & r.mask)
}
