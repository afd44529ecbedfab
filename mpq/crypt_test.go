package mpq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crypt_table[0] is reproducible from the seed alone.
func TestCryptTableEntryZero(t *testing.T) {
	ct := getCryptTable()
	assert.Equal(t, uint32(0x55C636E2), ct[0])
}

// Filename hashing is case-insensitive and path-separator-insensitive.
func TestHashStringCaseAndSeparatorInsensitive(t *testing.T) {
	for _, ht := range []uint32{hashTypeTableIndex, hashTypeNameA, hashTypeNameB, hashTypeFileKey} {
		a := hashString("Foo/Bar", ht)
		b := hashString("foo\\bar", ht)
		assert.Equal(t, a, b, "hash type %d", ht)
	}
}

// "replay.details" hashes to the documented (name1, name2) pair.
func TestHashStringKnownValues(t *testing.T) {
	assert.Equal(t, uint32(0xD383C29C), hashString("replay.details", hashTypeNameA))
	assert.Equal(t, uint32(0xEF402E92), hashString("replay.details", hashTypeNameB))
}

// decrypt(encrypt(x, key)) == x bit-exactly, for any 4-byte-aligned buffer.
func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := fileKey("(hash table)")

	original := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	buf := append([]byte(nil), original...)

	encryptWords(buf, key)
	require.NotEqual(t, original, buf, "encryption should change the bytes")

	decryptWords(buf, key)
	assert.Equal(t, original, buf)
}
