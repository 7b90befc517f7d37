// Package ring provides a fixed-capacity int16 circular buffer with
// wrapping-index helpers. It backs the echo line, the reverse tap and the
// recorder; all operations are O(1) and allocation-free after construction.
package ring

import "fmt"

// Buffer is a circular sample buffer with a single write cursor. Reads are
// expressed relative to the cursor (ReadBack) or as absolute wrapped
// positions (At), so callers never do modulo arithmetic themselves.
type Buffer struct {
	data  []int16
	write int
}

// New returns a zero-filled ring of the given capacity in samples.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}
	return &Buffer{data: make([]int16, capacity)}, nil
}

// Len returns the fixed capacity in samples.
func (b *Buffer) Len() int { return len(b.data) }

// WriteIndex returns the current write cursor.
func (b *Buffer) WriteIndex() int { return b.write }

// Write stores one sample at the cursor and advances it, wrapping at
// capacity.
func (b *Buffer) Write(sample int16) {
	b.data[b.write] = sample
	b.write++
	if b.write >= len(b.data) {
		b.write = 0
	}
}

// ReadBack returns the sample written offset ticks ago. An offset of 1 is
// the most recently written sample. Offsets outside [1, Len()] wrap.
func (b *Buffer) ReadBack(offset int) int16 {
	return b.data[b.wrap(b.write-offset)]
}

// At returns the sample at an absolute position, wrapped into range.
func (b *Buffer) At(pos int) int16 {
	return b.data[b.wrap(pos)]
}

// Put overwrites the sample at an absolute position, wrapped into range.
func (b *Buffer) Put(pos int, sample int16) {
	b.data[b.wrap(pos)] = sample
}

// Reset zeroes the buffer and rewinds the cursor.
func (b *Buffer) Reset() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.write = 0
}

func (b *Buffer) wrap(pos int) int {
	size := len(b.data)
	pos %= size
	if pos < 0 {
		pos += size
	}
	return pos
}

// Saturate clamps a 32-bit intermediate to the int16 range. Feedback writes
// into a ring go through this instead of relying on wrap-around truncation.
func Saturate(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
