// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package batchcopy implements the wrap-aware batched copy the ring
// package uses to move handles into and out of its slot array.
//
// The split is a pure arithmetic consequence of a power-of-two capacity
// and a mask: a reservation range either stays within the array (one
// straight-line copy, unrolled by four) or crosses the boundary (a copy
// to the array end followed by a copy from index zero). Isolating this
// in its own package mirrors how this queue family keeps hot-path,
// layout-sensitive primitives out of the algorithm files that call them.
package batchcopy

// In copies src into dst starting at logical position start (dst index
// start&mask), wrapping at the array boundary when the range crosses it.
// len(src) must not exceed len(dst).
func In(dst []uintptr, mask, start uint32, src []uintptr) {
	n := uint32(len(src))
	if n == 0 {
		return
	}
	idx := start & mask
	size := mask + 1
	if idx+n <= size {
		copyUnrolled(dst[idx:idx+n], src)
		return
	}
	first := size - idx
	copyUnrolled(dst[idx:size], src[:first])
	copyUnrolled(dst[:n-first], src[first:])
}

// Out copies from src starting at logical position start (src index
// start&mask) into dst, wrapping at the array boundary when the range
// crosses it. len(dst) must not exceed len(src).
func Out(dst []uintptr, src []uintptr, mask, start uint32) {
	n := uint32(len(dst))
	if n == 0 {
		return
	}
	idx := start & mask
	size := mask + 1
	if idx+n <= size {
		copyUnrolled(dst, src[idx:idx+n])
		return
	}
	first := size - idx
	copyUnrolled(dst[:first], src[idx:size])
	copyUnrolled(dst[first:], src[:n-first])
}

// copyUnrolled copies src into dst four elements at a time, falling
// back to a plain loop for the remainder. len(dst) must equal len(src).
func copyUnrolled(dst, src []uintptr) {
	n := len(src)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = src[i]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+2]
		dst[i+3] = src[i+3]
	}
	for ; i < n; i++ {
		dst[i] = src[i]
	}
}
