package wire

// Indexbuf is a reusable slice of byte offsets, the analogue of the
// original library's ccn_indexbuf: used to record the end offset of
// each name component encountered while parsing a message, without
// allocating a fresh slice for every dispatch.
type Indexbuf struct {
	buf []int
}

// NewIndexbuf returns an empty Indexbuf.
func NewIndexbuf() *Indexbuf {
	return &Indexbuf{buf: make([]int, 0, 8)}
}

// Append records another offset.
func (b *Indexbuf) Append(offsets ...int) {
	b.buf = append(b.buf, offsets...)
}

// Reset empties the buffer for reuse without releasing its backing array.
func (b *Indexbuf) Reset() {
	b.buf = b.buf[:0]
}

// Len returns the number of offsets recorded.
func (b *Indexbuf) Len() int {
	return len(b.buf)
}

// At returns the i'th recorded offset.
func (b *Indexbuf) At(i int) int {
	return b.buf[i]
}

// Slice returns the recorded offsets. Owned by the Indexbuf.
func (b *Indexbuf) Slice() []int {
	return b.buf
}
