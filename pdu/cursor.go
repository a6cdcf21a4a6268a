package pdu

// Cursor is a value-type reading position over a Bits sequence. It never
// mutates the underlying Bits; advancing a Cursor produces a new Cursor
// value, so callers that pass a Cursor by value cannot observe a callee's
// reads. This replaces the source implementation's stateful, mutating PDU
// cursor (see DESIGN.md).
type Cursor struct {
	bits Bits
	pos  int
}

// NewCursor returns a Cursor positioned at the start of bits.
func NewCursor(bits Bits) Cursor {
	return Cursor{bits: bits}
}

// Pos returns the current bit offset.
func (c Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bits.
func (c Cursor) Remaining() int {
	return len(c.bits) - c.pos
}

// Bits returns the full underlying sequence backing this cursor.
func (c Cursor) Bits() Bits {
	return c.bits
}

// Read returns the next nbits as a value and a Cursor advanced past them.
func (c Cursor) Read(nbits int) (uint32, Cursor) {
	value := c.bits.GetValue(c.pos, nbits)
	return value, Cursor{bits: c.bits, pos: c.pos + nbits}
}

// Skip advances the cursor by nbits without returning a value.
func (c Cursor) Skip(nbits int) Cursor {
	return Cursor{bits: c.bits, pos: c.pos + nbits}
}

// Seek returns a Cursor repositioned to an absolute bit offset.
func (c Cursor) Seek(pos int) Cursor {
	return Cursor{bits: c.bits, pos: pos}
}

// Tail returns the unread remainder of the sequence.
func (c Cursor) Tail() Bits {
	return c.bits.Tail(c.pos)
}
