package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Decoding a Versioned bool=true (the two bytes 06 01) yields true and
// consumes exactly 16 bits.
func TestVersionedDecodeBoolTrue(t *testing.T) {
	types := Table{{Kind: KindBool}}
	dec := NewVersionedDecoder([]byte{0x06, 0x01}, types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	b, ok := Bool(v)
	require.True(t, ok)
	assert.True(t, b)
	assert.Equal(t, 16, dec.UsedBits())
}

func TestVersionedDecodeBoolFalse(t *testing.T) {
	types := Table{{Kind: KindBool}}
	dec := NewVersionedDecoder([]byte{0x06, 0x00}, types)

	v, err := dec.Decode(0)
	require.NoError(t, err)

	b, ok := Bool(v)
	require.True(t, ok)
	assert.False(t, b)
}

// An unexpected skip tag is a structural decode error, not a silently
// wrong value.
func TestVersionedDecodeWrongTagErrors(t *testing.T) {
	types := Table{{Kind: KindBool}}
	dec := NewVersionedDecoder([]byte{0x07, 0x01}, types)

	_, err := dec.Decode(0)
	assert.Error(t, err)
}

// A struct field whose tag doesn't match any declared field is skipped
// (via its own self-describing skip tag) rather than aborting the decode.
func TestVersionedDecodeStructSkipsUnknownField(t *testing.T) {
	types := Table{
		{Kind: KindInt}, // 0: plain int
		{Kind: KindStruct, Fields: []StructField{ // 1: struct with one known field, tag 5
			{Name: "x", Type: 0, Tag: 5},
		}},
	}

	dec := NewVersionedDecoder([]byte{
		0x05, // vtagStruct
		0x04, // field count = 2
		0x06, // field tag = 3 (unknown)
		0x06, // vtagU8 (the unknown field's own wire tag)
		0xAA, // its u8 payload, to be skipped
		0x0A, // field tag = 5 (known: "x")
		0x09, // vtagVint
		0x0E, // vint value = 7
	}, types)

	v, err := dec.Decode(1)
	require.NoError(t, err)

	s, ok := AsStruct(v)
	require.True(t, ok)
	assert.Equal(t, int64(7), s.Int64Field("x"))
}

// Decoding a struct with exactly one field tagged "__parent" replaces the
// whole struct's value with that field's value instead of wrapping it.
func TestVersionedDecodeParentEmbeddingSingleField(t *testing.T) {
	types := Table{
		{Kind: KindInt, LengthBits: 8}, // 0: inner int
		{Kind: KindStruct, Fields: []StructField{ // 1: wrapper with a single __parent field
			{Name: "__parent", Type: 0, Tag: 0},
		}},
	}

	// vtagStruct, field_count=1 (vint 1 -> byte 0x02), field_tag=0 (vint 0 -> byte 0x00),
	// then the inner Int: vtagVint(9), vint value 5 (positive, mag=5 -> byte 0x0A).
	dec := NewVersionedDecoder([]byte{0x05, 0x02, 0x00, 0x09, 0x0A}, types)

	v, err := dec.Decode(1)
	require.NoError(t, err)

	n, ok := Int(v)
	require.True(t, ok, "expected the parent field's Int value to replace the struct")
	assert.Equal(t, int64(5), n)
}
