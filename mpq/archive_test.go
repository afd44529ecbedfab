package mpq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1024 zero bytes yields InvalidFormat.
func TestOpenAllZeros(t *testing.T) {
	_, err := Open(make([]byte, 1024))
	require.Error(t, err)

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrInvalidFormat, fe.Kind)
}

// A minimal valid header with empty hash/block tables opens successfully
// and reports its format version; ListFiles is empty.
func TestOpenMinimalArchive(t *testing.T) {
	buf := buildMinimalArchive(t)

	a, err := Open(buf)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 0, a.FormatVersion())
	assert.Empty(t, a.ListFiles())
}

// buildMinimalArchive constructs a MPQ\x1A header at offset 0 with
// header_size=0x20, archive_size=0x400, format_version=0,
// hash_table_pos=0x100, block_table_pos=0x200, hash_table_size=1,
// block_table_size=1, whose single hash-table entry is the empty sentinel.
func buildMinimalArchive(t *testing.T) []byte {
	t.Helper()

	const archiveSize = 0x400
	buf := make([]byte, archiveSize)

	copy(buf[0:4], headerMagic[:])
	putU32(buf[4:8], 0x20)         // header size
	putU32(buf[8:12], archiveSize) // archive size
	putU16(buf[12:14], 0)          // format version
	putU16(buf[14:16], 0)          // block size shift
	putU32(buf[16:20], 0x100)      // hash table offset
	putU32(buf[20:24], 0x200)      // block table offset
	putU32(buf[24:28], 1)          // hash table entries
	putU32(buf[28:32], 1)          // block table entries

	// Single empty hash-table entry: name1=name2=blockIndex=0xFFFFFFFF,
	// locale=platform=0xFFFF.
	hashEntryBytes := make([]byte, 16)
	putU32(hashEntryBytes[0:4], 0xFFFFFFFF)
	putU32(hashEntryBytes[4:8], 0xFFFFFFFF)
	putU16(hashEntryBytes[8:10], 0xFFFF)
	putU16(hashEntryBytes[10:12], 0xFFFF)
	putU32(hashEntryBytes[12:16], 0xFFFFFFFF)
	encryptWords(hashEntryBytes, fileKey("(hash table)"))
	copy(buf[0x100:0x110], hashEntryBytes)

	// Single zeroed (unused) block-table entry.
	blockEntryBytes := make([]byte, 16)
	encryptWords(blockEntryBytes, fileKey("(block table)"))
	copy(buf[0x200:0x210], blockEntryBytes)

	return buf
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// A hash-table probe that wraps completely without a match terminates.
func TestProbeTerminatesWithoutMatch(t *testing.T) {
	// A 2-entry table where neither entry matches and neither is empty
	// (both use the "deleted" sentinel so probing must scan the whole
	// table instead of stopping early).
	table := []hashEntry{
		{name1: 1, name2: 2, blockIndex: hashEmptyOnce},
		{name1: 3, name2: 4, blockIndex: hashEmptyOnce},
	}

	_, ok := probe(table, "does-not-exist")
	assert.False(t, ok)
}

// bzip2 detection with and without the MPQ skip-byte prefix.
func TestBzip2PayloadSkipByte(t *testing.T) {
	plain := []byte{'B', 'Z', 'h', 0, 0, 0, 0}

	payload, ok := bzip2Payload(plain)
	require.True(t, ok)
	assert.Equal(t, plain, payload)

	withSkipByte := append([]byte{0x10}, plain...)
	payload, ok = bzip2Payload(withSkipByte)
	require.True(t, ok)
	assert.Equal(t, plain, payload)
}
