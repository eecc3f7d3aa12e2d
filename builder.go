// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

// Builder configures and creates a Ring with a fluent API.
//
// Unlike New and InitAt, which require an exact power-of-two capacity
// and treat anything else as a programmer bug, Builder rounds a
// requested capacity up to the next power of two — the convenience this
// queue family's constructors give everywhere else, kept here rather
// than at the literal MemSize/InitAt entry points, whose contract
// requires an exact power-of-two capacity.
//
// Example:
//
//	r := ring.NewBuilder(8).SingleProducer().SingleConsumer().Build()
//	r := ring.NewBuilder(1000).Build() // capacity rounds up to 1024
type Builder struct {
	capacity int
	flags    Flags
}

// NewBuilder creates a Builder for a ring of at least the given
// capacity. Panics if capacity < 1.
func NewBuilder(capacity int) *Builder {
	if capacity < 1 {
		panic("ring: capacity must be >= 1")
	}
	return &Builder{capacity: capacity}
}

// SingleProducer declares that only one goroutine will call Push.
func (b *Builder) SingleProducer() *Builder {
	b.flags |= SP
	return b
}

// SingleConsumer declares that only one goroutine will call Pop.
func (b *Builder) SingleConsumer() *Builder {
	b.flags |= SC
	return b
}

// Build creates the configured Ring, rounding capacity up to the next
// power of two.
func (b *Builder) Build() *Ring {
	return New(roundToPow2(b.capacity), b.flags)
}

// BuildAt creates the configured Ring inside region, rounding capacity
// up to the next power of two. See InitAt for the region contract.
func (b *Builder) BuildAt(region []byte) (*Ring, error) {
	return InitAt(region, roundToPow2(b.capacity), b.flags)
}

// roundToPow2 rounds n up to the next power of two, clamped to
// maxCapacity.
func roundToPow2(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxCapacity {
		return maxCapacity
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}
