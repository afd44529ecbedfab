// This file implements hash/block table loading (with decryption), filename
// probing, and the opportunistic (unused) HET/BET table read.

package mpq

const (
	hashEmptyNever  = 0xFFFFFFFF // entry has always been empty, terminates search
	hashEmptyOnce   = 0xFFFFFFFE // entry was deleted, does not terminate search
)

// hashEntry is one 16-byte entry of the (decrypted) hash table.
type hashEntry struct {
	name1      uint32
	name2      uint32
	locale     uint16
	platform   uint16
	blockIndex uint32
}

func (e hashEntry) empty() bool {
	return e.name1 == 0xFFFFFFFF && e.name2 == 0xFFFFFFFF &&
		e.locale == 0xFFFF && e.platform == 0xFFFF &&
		e.blockIndex == hashEmptyNever
}

// Block table entry flags.
const (
	blockFlagExists     = 0x80000000
	blockFlagCompressed = 0x00000200
	blockFlagEncrypted  = 0x00010000
	blockFlagSingleUnit = 0x01000000
)

// blockEntry is one 16-byte entry of the (decrypted) block table.
type blockEntry struct {
	filePosition   uint32
	compressedSize uint32
	fileSize       uint32
	flags          uint32
}

// parseHashTable reads, decrypts, and decodes count hash-table entries
// starting at the given absolute offset.
func parseHashTable(b []byte, offset int, count uint32) ([]hashEntry, error) {
	raw, err := readTableBytes(b, offset, count)
	if err != nil {
		return nil, err
	}

	decryptWords(raw, fileKey("(hash table)"))

	entries := make([]hashEntry, count)
	r := newReader(raw)
	for i := range entries {
		e := &entries[i]
		e.name1, _ = r.readU32LE()
		e.name2, _ = r.readU32LE()
		e.locale, _ = r.readU16LE()
		e.platform, _ = r.readU16LE()
		e.blockIndex, _ = r.readU32LE()
	}
	return entries, nil
}

// parseBlockTable reads, decrypts, and decodes count block-table entries
// starting at the given absolute offset.
func parseBlockTable(b []byte, offset int, count uint32) ([]blockEntry, error) {
	raw, err := readTableBytes(b, offset, count)
	if err != nil {
		return nil, err
	}

	decryptWords(raw, fileKey("(block table)"))

	entries := make([]blockEntry, count)
	r := newReader(raw)
	for i := range entries {
		e := &entries[i]
		e.filePosition, _ = r.readU32LE()
		e.compressedSize, _ = r.readU32LE()
		e.fileSize, _ = r.readU32LE()
		e.flags, _ = r.readU32LE()
	}
	return entries, nil
}

func readTableBytes(b []byte, offset int, count uint32) ([]byte, error) {
	size := int(count) * 16
	if offset < 0 || offset+size > len(b) {
		return nil, newFormatErrorf(ErrInvalidFormat, "table at %d (size %d) out of bounds", offset, size)
	}
	// Copy: decryptWords mutates in place and the source must stay immutable.
	raw := make([]byte, size)
	copy(raw, b[offset:offset+size])
	return raw, nil
}

// probe searches the hash table for name, returning the matching block
// index. ok is false if no entry was found; per B2, the probe always
// terminates (it never loops past a full pass over the table).
func probe(hashTable []hashEntry, name string) (blockIndex uint32, ok bool) {
	if len(hashTable) == 0 {
		return 0, false
	}

	hIdx := hashString(name, hashTypeTableIndex)
	hA := hashString(name, hashTypeNameA)
	hB := hashString(name, hashTypeNameB)

	size := uint32(len(hashTable))
	start := hIdx & (size - 1)

	for n := uint32(0); n < size; n++ {
		i := (start + n) % size
		e := hashTable[i]

		if e.empty() {
			return 0, false
		}
		if e.blockIndex == hashEmptyOnce {
			continue
		}
		if e.name1 == hA && e.name2 == hB {
			return e.blockIndex, true
		}
	}

	return 0, false
}

// hetHeader is the (unused beyond validation) HET table header, read
// opportunistically. Per spec's open question, BET/HET parsing reads only
// the header and does not use it; a partial implementation that produced
// incorrect lookups would be worse than not trying.
type hetHeader struct {
	valid bool
}

// tryReadHET validates the HET table signature at pos, if present. It never
// affects file lookup; it exists purely so callers can observe whether an
// archive carries a v3 HET table.
func tryReadHET(b []byte, pos int64) hetHeader {
	if pos <= 0 || int(pos)+4 > len(b) {
		return hetHeader{}
	}
	if !matchesMagic(b, int(pos), hetMagic) {
		return hetHeader{}
	}
	return hetHeader{valid: true}
}

// betHeader mirrors hetHeader for the BET table.
type betHeader struct {
	valid bool
}

func tryReadBET(b []byte, pos int64) betHeader {
	if pos <= 0 || int(pos)+4 > len(b) {
		return betHeader{}
	}
	if !matchesMagic(b, int(pos), betMagic) {
		return betHeader{}
	}
	return betHeader{valid: true}
}
