package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// usedBits only ever grows as bits are consumed.
func TestCursorUsedBitsMonotonic(t *testing.T) {
	c := newCursor([]byte{0xAB, 0xCD, 0xEF}, BigEndian)

	prev := c.usedBits()
	for _, n := range []int{3, 5, 8, 4} {
		_, err := c.readBits(n)
		require.NoError(t, err)
		got := c.usedBits()
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

// byteAlign always leaves usedBits a multiple of 8.
func TestCursorByteAlignIsByteAligned(t *testing.T) {
	c := newCursor([]byte{0xAB, 0xCD, 0xEF, 0x01}, BigEndian)

	_, err := c.readBits(3)
	require.NoError(t, err)
	c.byteAlign()
	assert.Equal(t, 0, c.usedBits()%8)

	_, err = c.readBits(13)
	require.NoError(t, err)
	c.byteAlign()
	assert.Equal(t, 0, c.usedBits()%8)
}

// Reading past the end of the data is an error, not a zero value.
func TestCursorReadPastEndErrors(t *testing.T) {
	c := newCursor([]byte{0xFF}, BigEndian)

	_, err := c.readBits(8)
	require.NoError(t, err)

	_, err = c.readBits(1)
	assert.Error(t, err)
}

func TestCursorReadAlignedBytesPastEndErrors(t *testing.T) {
	c := newCursor([]byte{0x01, 0x02}, BigEndian)

	_, err := c.readAlignedBytes(3)
	assert.Error(t, err)
}

// BigEndian assembles bits most-significant-first regardless of how they
// straddle byte boundaries.
func TestCursorReadBitsBigEndianAssembly(t *testing.T) {
	// 0b10110100 0b11000000: reading 10 bits big-endian should yield the
	// top 10 bits of that 16-bit value: 1011010011.
	c := newCursor([]byte{0b10110100, 0b11000000}, BigEndian)
	got, err := c.readBits(10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b1011010011), got)
}

// LittleEndian fills the result starting at bit 0 of each chunk read, used
// by the attributes-event stream.
func TestCursorReadBitsLittleEndianAssembly(t *testing.T) {
	c := newCursor([]byte{0b00000001, 0b00000001}, LittleEndian)
	first, err := c.readBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), first)

	second, err := c.readBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), second)
}

func TestCursorDone(t *testing.T) {
	c := newCursor([]byte{0xFF}, BigEndian)
	assert.False(t, c.done())

	_, err := c.readBits(8)
	require.NoError(t, err)
	assert.True(t, c.done())
}
