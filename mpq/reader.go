// This file contains the byte reader: a random-access cursor over an
// immutable byte slice.

package mpq

import "encoding/binary"

// reader is a random-access cursor over a byte slice. It never mutates the
// underlying slice and never retains it beyond the calls made on it.
type reader struct {
	// b is the byte slice being read from.
	b []byte

	// pos is the index of the next byte to read.
	pos int
}

// newReader creates a new reader over b, positioned at offset 0.
func newReader(b []byte) *reader {
	return &reader{b: b}
}

// length returns the total length of the underlying slice.
func (r *reader) length() int {
	return len(r.b)
}

// position returns the current read position.
func (r *reader) position() int {
	return r.pos
}

// seek sets the absolute read position. Returns an error if pos is out of range.
func (r *reader) seek(pos int) error {
	if pos < 0 || pos > len(r.b) {
		return newFormatErrorf(ErrInvalidFormat, "seek out of range: %d (length %d)", pos, len(r.b))
	}
	r.pos = pos
	return nil
}

// readU8 reads the next byte.
func (r *reader) readU8() (byte, error) {
	if r.pos+1 > len(r.b) {
		return 0, newFormatErrorf(ErrInvalidFormat, "truncated read at %d", r.pos)
	}
	v := r.b[r.pos]
	r.pos++
	return v, nil
}

// readU16LE reads the next 2 bytes as a little-endian uint16.
func (r *reader) readU16LE() (uint16, error) {
	if r.pos+2 > len(r.b) {
		return 0, newFormatErrorf(ErrInvalidFormat, "truncated read at %d", r.pos)
	}
	v := binary.LittleEndian.Uint16(r.b[r.pos:])
	r.pos += 2
	return v, nil
}

// readU32LE reads the next 4 bytes as a little-endian uint32.
func (r *reader) readU32LE() (uint32, error) {
	if r.pos+4 > len(r.b) {
		return 0, newFormatErrorf(ErrInvalidFormat, "truncated read at %d", r.pos)
	}
	v := binary.LittleEndian.Uint32(r.b[r.pos:])
	r.pos += 4
	return v, nil
}

// readU64LE reads the next 8 bytes as a little-endian uint64.
func (r *reader) readU64LE() (uint64, error) {
	if r.pos+8 > len(r.b) {
		return 0, newFormatErrorf(ErrInvalidFormat, "truncated read at %d", r.pos)
	}
	v := binary.LittleEndian.Uint64(r.b[r.pos:])
	r.pos += 8
	return v, nil
}

// readBytes reads and returns the next n bytes. The returned slice aliases
// the reader's backing array; callers must not mutate it.
func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.b) {
		return nil, newFormatErrorf(ErrInvalidFormat, "truncated read at %d, wanted %d bytes", r.pos, n)
	}
	v := r.b[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}
