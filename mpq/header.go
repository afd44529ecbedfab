// This file contains the MPQ user-data header and MPQ header structures,
// and the scan that locates them within an input byte slice.

package mpq

// Magic byte sequences, little-endian as they appear in the file.
var (
	userDataMagic = [4]byte{'M', 'P', 'Q', 0x1B}
	headerMagic   = [4]byte{'M', 'P', 'Q', 0x1A}
	hetMagic      = [4]byte{'H', 'E', 'T', 0x1A}
	betMagic      = [4]byte{'B', 'E', 'T', 0x1A}
)

// userData models the optional MPQ User-Data Header.
type userData struct {
	// size is the max size allocated for user data.
	size uint32

	// headerOffset is the offset (relative to the user-data header's own
	// position) of the real MPQ header.
	headerOffset uint32

	// headerSize is the size of the header content, i.e. the replay header
	// payload that follows this structure.
	headerSize uint32

	// content is the headerSize bytes immediately following this header:
	// the SC2 replay header payload.
	content []byte
}

// header models the MPQ Header, including the version 2 and (partial,
// per spec's non-goal on fidelity) version 3 extensions.
type header struct {
	size              uint32
	archiveSize       uint32
	formatVersion     uint32
	blockSizeShift    uint32
	hashTableOffset   uint32
	blockTableOffset  uint32
	hashTableEntries  uint32
	blockTableEntries uint32

	// v2+ extensions
	extBlockTableOffset int64
	hashTableOffsetHigh uint16
	blockTableOffsetHigh uint16

	// v3+ extensions (read but, per spec's non-goal, not used as a primary
	// lookup path - see table.go's opportunistic HET/BET attempt).
	hetTablePos int64
	betTablePos int64

	// absOffset is the absolute offset of this header within the input
	// slice. Every table/file offset in the header is relative to it.
	absOffset int
}

// blockSize returns the sector size in bytes: 512 << blockSizeShift.
func (h *header) blockSize() uint32 {
	return 512 << h.blockSizeShift
}

// locateHeader scans b for a valid MPQ header, following the discovery
// rules: 4-byte aligned candidates, magic-gated, sanity-checked. Returns the
// parsed header, the optional user-data, and an error if no header qualifies.
func locateHeader(b []byte) (*header, *userData, error) {
	for off := 0; off+4 <= len(b); off += 4 {
		if matchesMagic(b, off, userDataMagic) {
			ud, headerOff, ok := tryUserData(b, off)
			if !ok {
				continue
			}
			h, err := parseHeaderAt(b, headerOff)
			if err != nil {
				continue
			}
			return h, ud, nil
		}
		if matchesMagic(b, off, headerMagic) {
			h, err := parseHeaderAt(b, off)
			if err != nil {
				continue
			}
			return h, nil, nil
		}
	}
	return nil, nil, newFormatErrorf(ErrInvalidFormat, "no valid MPQ header found")
}

func matchesMagic(b []byte, off int, magic [4]byte) bool {
	if off+4 > len(b) {
		return false
	}
	return b[off] == magic[0] && b[off+1] == magic[1] && b[off+2] == magic[2] && b[off+3] == magic[3]
}

// tryUserData validates a MPQ\x1B candidate at off and returns the parsed
// userData plus the absolute offset of the real header it points to.
func tryUserData(b []byte, off int) (*userData, int, bool) {
	r := newReader(b)
	if err := r.seek(off + 4); err != nil {
		return nil, 0, false
	}

	size, err1 := r.readU32LE()
	headerOffset, err2 := r.readU32LE()
	headerSize, err3 := r.readU32LE()
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, 0, false
	}

	if size < 16 || size > 0x100000 {
		return nil, 0, false
	}
	if headerOffset < 16 || int(headerOffset) >= len(b) {
		return nil, 0, false
	}
	if headerSize < 16 || headerSize > 1024 {
		return nil, 0, false
	}

	contentStart := off + 16
	contentEnd := contentStart + int(headerSize)
	var content []byte
	if contentEnd <= len(b) {
		content = b[contentStart:contentEnd]
	}

	ud := &userData{size: size, headerOffset: headerOffset, headerSize: headerSize, content: content}
	return ud, off + int(headerOffset), true
}

// parseHeaderAt parses a MPQ\x1A header candidate at absolute offset off.
func parseHeaderAt(b []byte, off int) (*header, error) {
	r := newReader(b)
	if err := r.seek(off + 4); err != nil {
		return nil, err
	}

	h := &header{absOffset: off}

	var err error
	read32 := func() uint32 {
		if err != nil {
			return 0
		}
		var v uint32
		v, err = r.readU32LE()
		return v
	}
	read16 := func() uint16 {
		if err != nil {
			return 0
		}
		var v uint16
		v, err = r.readU16LE()
		return v
	}

	h.size = read32()
	h.archiveSize = read32()

	// format version and block-size shift share a 4-byte region as two
	// u16 fields in the classic layout.
	formatVersion := read16()
	blockSizeShift := read16()
	h.formatVersion = uint32(formatVersion)
	h.blockSizeShift = uint32(blockSizeShift)

	h.hashTableOffset = read32()
	h.blockTableOffset = read32()
	h.hashTableEntries = read32()
	h.blockTableEntries = read32()

	if err != nil {
		return nil, err
	}

	if h.size < 32 || h.size > 1024 {
		return nil, newFormatErrorf(ErrInvalidFormat, "header size out of range: %d", h.size)
	}
	if h.archiveSize == 0 {
		return nil, newFormatErrorf(ErrInvalidFormat, "zero archive size")
	}
	if h.formatVersion > 4 {
		return nil, newFormatErrorf(ErrInvalidFormat, "unsupported format version: %d", h.formatVersion)
	}
	if h.hashTableOffset >= h.archiveSize || h.blockTableOffset >= h.archiveSize {
		return nil, newFormatErrorf(ErrInvalidFormat, "table offset out of archive bounds")
	}

	if h.formatVersion >= 1 {
		extBlockTableOffset := int64(0)
		if err == nil {
			var v uint64
			v, err = r.readU64LE()
			extBlockTableOffset = int64(v)
		}
		h.extBlockTableOffset = extBlockTableOffset
		h.hashTableOffsetHigh = read16()
		h.blockTableOffsetHigh = read16()
		if err != nil {
			return nil, err
		}
	}

	if h.formatVersion >= 2 && h.size >= 68 {
		// Opportunistic: HET/BET table positions and MD5s. Only the
		// positions are meaningful to us (spec's non-goal: HET/BET parsing
		// reads only the header and does not use it beyond that).
		if err == nil {
			var v uint64
			v, err = r.readU64LE()
			h.hetTablePos = int64(v)
		}
		if err == nil {
			var v uint64
			v, err = r.readU64LE()
			h.betTablePos = int64(v)
		}
		// Remaining v3 fields (compressed sizes, MD5s) are not used; ignore
		// any trailing parse error since they are beyond what we need.
		err = nil
	}

	return h, nil
}
