// Package buffer implements the header accumulator: a bounded, reusable byte storage
// which keeps partially received header text between feeds.
package buffer

// Buffer hosts non-interrelated byte sequences (segments) in a single slice, so a header
// split into a key and a value doesn't need two allocations. Memory is reused after Clear,
// so all the previously finished segments must not be used past that.
type Buffer struct {
	memory  []byte
	begin   int
	maxSize int
}

func New(initialSize, maxSize int) *Buffer {
	return &Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data into the current segment, unless the total length would exceed
// the limit. In that case nothing is written and false is returned.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// SegmentLength returns a number of bytes written into the current segment.
func (b *Buffer) SegmentLength() int {
	return len(b.memory) - b.begin
}

// Len returns the number of bytes across all the segments.
func (b *Buffer) Len() int {
	return len(b.memory)
}

// Trunc removes the last n bytes of the current segment. Previous segments stay intact.
func (b *Buffer) Trunc(n int) {
	b.memory = b.memory[:len(b.memory)-min(n, b.SegmentLength())]
}

// Preview returns current segment without completing it.
func (b *Buffer) Preview() []byte {
	return b.memory[b.begin:]
}

// Finish completes current segment, returning its value.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:]
	b.begin = len(b.memory)

	return segment
}

// Clear drops all the segments, keeping the allocated memory.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
