// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "errors"

// This package reports exactly two kinds of error, both as distinguished
// return values rather than exceptions:
//
//  1. Invalid sizing — MemSize returns 0 if capacity is not a positive
//     power of two or exceeds 2^28.
//  2. Capacity pressure — Push/Pop return 0 (Fixed) or a short count
//     (Variable) when the ring lacks room or items.
//
// Neither kind needs a Go error value, so Push/Pop/MemSize do not return
// one. InitAt is the one exception: it accepts a caller-supplied region
// whose size and alignment are runtime values the caller computed, not
// constants baked into the call site, so a malformed region is reported
// with these errors instead of a panic.

// ErrRegionTooSmall is returned by InitAt when region is shorter than
// MemSize(capacity) bytes.
var ErrRegionTooSmall = errors.New("ring: region smaller than MemSize(capacity)")

// ErrRegionMisaligned is returned by InitAt when region does not begin
// on a cache line boundary.
var ErrRegionMisaligned = errors.New("ring: region is not cache-line aligned")
