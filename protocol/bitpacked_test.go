package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitPackedDecodeInt(t *testing.T) {
	types := Table{{Kind: KindInt, LengthBits: 8}}
	dec := NewBitPackedDecoder([]byte{0x2A}, types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	n, ok := Int(v)
	require.True(t, ok)
	assert.Equal(t, int64(42), n)
}

func TestBitPackedDecodeIntWithOffset(t *testing.T) {
	types := Table{{Kind: KindInt, LengthBits: 4, IntOffset: 10}}
	// Top 4 bits of 0x50 (01010000) are 0101 = 5; offset 10 + 5 = 15.
	dec := NewBitPackedDecoder([]byte{0x50}, types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	n, ok := Int(v)
	require.True(t, ok)
	assert.Equal(t, int64(15), n)
}

func TestBitPackedDecodeBool(t *testing.T) {
	types := Table{{Kind: KindBool}}
	dec := NewBitPackedDecoder([]byte{0x80}, types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	b, ok := Bool(v)
	require.True(t, ok)
	assert.True(t, b)
}

func TestBitPackedDecodeBlob(t *testing.T) {
	types := Table{{Kind: KindBlob, LengthBits: 8}}
	dec := NewBitPackedDecoder([]byte{0x03, 'A', 'B', 'C'}, types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	b, ok := Bytes(v)
	require.True(t, ok)
	assert.Equal(t, []byte("ABC"), b)
}

func TestBitPackedDecodeFourCC(t *testing.T) {
	types := Table{{Kind: KindFourCC}}
	dec := NewBitPackedDecoder([]byte("TEST"), types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	s, ok := Str(v)
	require.True(t, ok)
	assert.Equal(t, "TEST", s)
}

// The array's element count and each element are read positionally, with no
// byte alignment between them — unlike Blob, which aligns after its length.
func TestBitPackedDecodeArray(t *testing.T) {
	types := Table{
		{Kind: KindInt, LengthBits: 4},                // 0: element type
		{Kind: KindArray, LengthBits: 4, ElemType: 0}, // 1: array of 0
	}
	// Bit stream: count=0010(2), elem0=0101(5), elem1=0011(3), then padding.
	dec := NewBitPackedDecoder([]byte{0x25, 0x30}, types)

	v, err := dec.Decode(1)
	require.NoError(t, err)

	arr, ok := Array(v)
	require.True(t, ok)
	require.Len(t, arr, 2)
	n0, _ := Int(arr[0])
	n1, _ := Int(arr[1])
	assert.Equal(t, int64(5), n0)
	assert.Equal(t, int64(3), n1)
}

func TestBitPackedDecodeOptionalPresent(t *testing.T) {
	types := Table{
		{Kind: KindInt, LengthBits: 7},
		{Kind: KindOptional, ElemType: 0},
	}
	// 0xAA = 10101010: presence bit 1, then 7 bits 0101010 = 42.
	dec := NewBitPackedDecoder([]byte{0xAA}, types)

	v, err := dec.Decode(1)
	require.NoError(t, err)

	n, ok := Int(v)
	require.True(t, ok)
	assert.Equal(t, int64(42), n)
}

func TestBitPackedDecodeOptionalAbsent(t *testing.T) {
	types := Table{
		{Kind: KindInt, LengthBits: 7},
		{Kind: KindOptional, ElemType: 0},
	}
	dec := NewBitPackedDecoder([]byte{0x00}, types)

	v, err := dec.Decode(1)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestBitPackedDecodeChoice(t *testing.T) {
	types := Table{
		{Kind: KindInt, LengthBits: 8}, // 0: arm A payload
		{Kind: KindBool},               // 1: arm B payload
		{
			Kind:    KindChoice,
			TagBits: 2,
			Arms: map[int64]ChoiceArm{
				0: {Name: "A", Type: 0},
				1: {Name: "B", Type: 1},
			},
		},
	}
	// 10-bit stream "0010101010" padded to two bytes: 0x2A, 0x80.
	// tag = top 2 bits = 00 (arm A); payload = next 8 bits = 10101010 = 170.
	dec := NewBitPackedDecoder([]byte{0x2A, 0x80}, types)

	v, err := dec.Decode(2)
	require.NoError(t, err)

	c, ok := AsChoice(v)
	require.True(t, ok)
	assert.Equal(t, "A", c.Arm)
	n, _ := Int(c.Value)
	assert.Equal(t, int64(170), n)
}

// Struct fields are matched by position, not by a wire tag: there is no
// field count or per-field tag on the BitPacked wire at all.
func TestBitPackedDecodeStructPositional(t *testing.T) {
	types := Table{
		{Kind: KindInt, LengthBits: 8},
		{Kind: KindInt, LengthBits: 8},
		{Kind: KindStruct, Fields: []StructField{
			{Name: "a", Type: 0},
			{Name: "b", Type: 1},
		}},
	}
	dec := NewBitPackedDecoder([]byte{0x01, 0x02}, types)

	v, err := dec.Decode(2)
	require.NoError(t, err)

	s, ok := AsStruct(v)
	require.True(t, ok)
	assert.Equal(t, int64(1), s.Int64Field("a"))
	assert.Equal(t, int64(2), s.Int64Field("b"))
}

func TestBitPackedDecodeStructParentEmbedding(t *testing.T) {
	types := Table{
		{Kind: KindInt, LengthBits: 8},
		{Kind: KindStruct, Fields: []StructField{{Name: "__parent", Type: 0}}},
	}
	dec := NewBitPackedDecoder([]byte{0x05}, types)

	v, err := dec.Decode(1)
	require.NoError(t, err)

	n, ok := Int(v)
	require.True(t, ok, "expected the parent field's value to replace the struct")
	assert.Equal(t, int64(5), n)
}

// The BitPacked bitarray form carries its bits as a raw integer (*BitField),
// never the Versioned decoder's byte-backed *BitBlob — the two must stay
// distinct types even though both represent "a bitarray value".
func TestBitPackedDecodeBitArrayIsBitField(t *testing.T) {
	types := Table{{Kind: KindBitArray, LengthBits: 4}}
	// length field (4 bits) = 0011 (3), then 3 payload bits = 101, padded.
	dec := NewBitPackedDecoder([]byte{0x3A}, types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	bf, ok := v.(*BitField)
	require.True(t, ok, "expected *BitField, not *BitBlob")
	assert.Equal(t, 3, bf.Length)
	assert.Equal(t, uint64(0b101), bf.Bits)

	_, isBlob := v.(*BitBlob)
	assert.False(t, isBlob, "BitPacked bitarrays must never decode to *BitBlob")
}

// readWideBits accumulates more than one 32-bit cursor read for fields
// wider than the cursor's per-call limit.
func TestBitPackedReadWideBitsMultiChunk(t *testing.T) {
	types := Table{{Kind: KindInt, LengthBits: 40}}
	dec := NewBitPackedDecoder([]byte{0x01, 0x02, 0x03, 0x04, 0x05}, types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	n, ok := Int(v)
	require.True(t, ok)
	assert.Equal(t, int64(0x0102030405), n)
}
