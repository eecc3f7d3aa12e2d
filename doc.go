// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides a bounded, lock-free, multi-producer/
// multi-consumer FIFO queue of opaque, machine-word-sized handles.
//
// A Ring is a fixed-capacity circular buffer addressed by a pair of
// monotonically increasing 32-bit cursors on each side: head tracks
// reservation (claimed but not necessarily written yet), tail tracks
// visibility (safe for the other side to observe). Producers and
// consumers move handles in and out in batches; no operation blocks on
// a kernel primitive, and no operation fails with anything other than a
// short or zero count.
//
// # Quick Start
//
//	r := ring.New(1024, 0) // MPMC: no SP/SC flags set
//
//	handles := []ring.Handle{1, 2, 3}
//	n := r.Push(handles, ring.Fixed) // n == 3, or 0 if the ring is full
//
//	out := make([]ring.Handle, 3)
//	n = r.Pop(out, ring.Fixed) // n == 3, or 0 if the ring is empty
//
// The Builder gives a fluent alternative that rounds capacity up to the
// next power of two instead of requiring an exact one:
//
//	r := ring.NewBuilder(1000).SingleProducer().SingleConsumer().Build()
//
// # Producer/Consumer Protocols
//
// Flags select the algorithm used on each side independently:
//
//	ring.New(n, 0)             // MP + MC: any number of producers/consumers
//	ring.New(n, ring.SP)       // SP + MC
//	ring.New(n, ring.SC)       // MP + SC
//	ring.New(n, ring.SP|ring.SC) // SP + SC
//
// Calling Push concurrently from two goroutines against an SP ring, or
// Pop concurrently against an SC ring, is undefined behavior the ring
// does not detect — the same contract as mixing incompatible producer
// counts against any other lock-free ring in this vein.
//
// # Batch Behavior
//
// Fixed is all-or-nothing: Push/Pop either transfer every requested
// handle or none. Variable is best-effort: they transfer as many as fit
// (at least one, unless the ring is completely full/empty) and return
// the short count.
//
//	// Drain everything currently available, in one call if possible.
//	buf := make([]ring.Handle, r.Cap())
//	n := r.Pop(buf, ring.Variable)
//	buf = buf[:n]
//
// Within one Push call, handles keep their relative order: handles[0]
// will be popped no later than handles[len(handles)-1]. Across
// concurrent Push calls on an MP ring, order follows which goroutine
// wins the reservation CAS first, and the handoff stall (see below)
// guarantees consumers never observe tail advance past a range some
// other producer has not finished writing.
//
// # Retrying a Short Count
//
// Push and Pop never block and never return an error — a caller that
// wants to retry composes its own backoff, exactly the way this queue
// family's other primitives expect callers to. [code.hybscloud.com/iox]'s
// Backoff is a natural fit:
//
//	backoff := iox.Backoff{}
//	remaining := handles
//	for len(remaining) > 0 {
//	    n := r.Push(remaining, ring.Variable)
//	    if n == 0 {
//	        backoff.Wait()
//	        continue
//	    }
//	    remaining = remaining[n:]
//	    backoff.Reset()
//	}
//
// # Shared-Memory Construction
//
// New allocates its own backing storage. InitAt instead places a Ring
// inside a caller-supplied, cache-line-aligned region — the path meant
// for callers managing their own memory (an arena, a pinned allocation,
// eventually a region shared across processes, though this package
// implements none of the IPC machinery that would require):
//
//	region := make([]byte, ring.MemSize(1024))
//	r, err := ring.InitAt(region, 1024, 0)
//
// make gives no cache-line alignment guarantee; a caller that cannot
// tolerate [ErrRegionMisaligned] should over-allocate and slice forward
// to the next 64-byte boundary, or use an allocator that aligns directly.
//
// # Memory Ordering
//
// All four cursors are accessed with acquire loads / release stores via
// [code.hybscloud.com/atomix], and the multi-producer/multi-consumer
// reservation CAS and handoff-stall spin use
// [code.hybscloud.com/spin] for pause/yield backoff — the same two
// packages this queue family uses everywhere memory ordering or
// CPU-relaxed spinning is needed. There is no compiler-only-barrier
// fallback: acquire/release is mandatory on every architecture.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives (mutex,
// channel, WaitGroup) but not the happens-before edges established by
// acquire/release atomics on independent variables. The handoff stall
// in particular synchronizes prod.tail (or cons.tail) against a
// snapshot with no detector-visible link to the slot write it is
// actually guarding, so concurrent MP/MC stress tests check
// [RaceEnabled] and skip under -race rather than report a false
// positive.
package ring
