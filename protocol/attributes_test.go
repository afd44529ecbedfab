package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putU32LE(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func TestDecodeAttributesSingleEntry(t *testing.T) {
	var data []byte
	data = append(data, 1) // source
	data = putU32LE(data, 0x0000CAFE) // mapNamespace
	data = putU32LE(data, 1) // count (unused)

	data = putU32LE(data, 0x10) // namespace
	data = putU32LE(data, 0x3D) // attrid
	data = append(data, 2) // scope
	data = append(data, 'T', 'A', 'C', 0) // reversed and zero-stripped -> "CAT"

	attrs, err := DecodeAttributes(data, true)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), attrs.Source)
	assert.EqualValues(t, 0xCAFE, attrs.MapNamespace)

	scope, ok := attrs.Scopes[2]
	require.True(t, ok)
	entries, ok := scope[0x3D]
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "CAT", entries[0].Value)
}

func TestDecodeAttributesEmpty(t *testing.T) {
	attrs, err := DecodeAttributes(nil, true)
	require.NoError(t, err)
	assert.Empty(t, attrs.Scopes)
}
