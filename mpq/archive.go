// Package mpq implements the MPQ container decoder: header/user-data
// discovery, encrypted hash/block table parsing, filename hashing, file
// location lookup, and sector-level decompression.
//
// The core is single-threaded and fully in-memory: an Archive is built once
// from a byte slice and its tables are kept for its lifetime; member-file
// bytes are loaded on first demand.
package mpq

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/sc2rep/screp2/log"
)

// fixedInventory is the list of member filenames the driver always tries
// when no (listfile) is present. Note: the upstream s2protocol source's
// list accidentally includes a trailing backtick on the tracker-events
// entry; this is a bug in that source, not reproduced here.
var fixedInventory = []string{
	"(attributes)",
	"(listfile)",
	"replay.attributes.events",
	"replay.details",
	"replay.game.events",
	"replay.initData",
	"replay.load.info",
	"replay.message.events",
	"replay.server.battlelobby",
	"replay.sync.events",
	"replay.tracker.events",
}

// Diagnostics counts non-fatal per-archive conditions. It is populated as
// the archive is used and can be inspected at any time; it is not itself an
// error surface.
type Diagnostics struct {
	// HETBETFallbacks counts how many times an opportunistic HET/BET read
	// failed validation and classic tables were used instead.
	HETBETFallbacks int

	// DecompressionFallbacks counts member files whose bytes were returned
	// raw because no known compression signature was detected or the
	// detected format failed to decompress.
	DecompressionFallbacks int
}

// Archive is a handle to an opened MPQ container's metadata and lookup
// tables. Member-file bytes are loaded on demand and are not cached by
// default; callers that need caching should do so at a higher layer.
type Archive struct {
	data []byte // the whole archive, including anything preceding the MPQ header
	file *os.File
	mm   mmap.MMap

	userData   *userData
	header     *header
	hashTable  []hashEntry
	blockTable []blockEntry

	Diagnostics Diagnostics
}

// Open parses an MPQ archive out of data. data is kept alive for the
// lifetime of the returned Archive and any bytes returned by FileByName may
// alias it.
func Open(data []byte) (*Archive, error) {
	h, ud, err := locateHeader(data)
	if err != nil {
		return nil, err
	}

	a := &Archive{data: data, header: h, userData: ud}

	if err := a.loadTables(); err != nil {
		return nil, err
	}

	return a, nil
}

// OpenFile memory-maps name and opens it as an Archive. The returned
// Archive must be closed with Close to release the mapping. This is an
// alternative byte source to reading the whole file into memory, useful
// for large archives.
func OpenFile(name string) (*Archive, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	a, err := Open([]byte(m))
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}

	a.file = f
	a.mm = m
	return a, nil
}

// Close releases any OS resources (file handle, memory mapping) held by the
// Archive. It is a no-op for archives opened with Open.
func (a *Archive) Close() error {
	var err error
	if a.mm != nil {
		err = a.mm.Unmap()
		a.mm = nil
	}
	if a.file != nil {
		if cerr := a.file.Close(); err == nil {
			err = cerr
		}
		a.file = nil
	}
	return err
}

// loadTables reads and decrypts the hash and block tables, and
// opportunistically attempts the v3 HET/BET tables without using the
// result for lookup.
func (a *Archive) loadTables() error {
	h := a.header

	hashPos := h.absOffset + int(h.hashTableOffset) + (int(h.hashTableOffsetHigh) << 32)
	blockPos := h.absOffset + int(h.blockTableOffset) + (int(h.blockTableOffsetHigh) << 32)

	hashTable, err := parseHashTable(a.data, hashPos, h.hashTableEntries)
	if err != nil {
		return err
	}
	blockTable, err := parseBlockTable(a.data, blockPos, h.blockTableEntries)
	if err != nil {
		return err
	}

	if h.formatVersion >= 2 {
		het := tryReadHET(a.data, int64(h.absOffset)+h.hetTablePos)
		bet := tryReadBET(a.data, int64(h.absOffset)+h.betTablePos)
		if !het.valid || !bet.valid {
			a.Diagnostics.HETBETFallbacks++
		}
	}

	a.hashTable = hashTable
	a.blockTable = blockTable
	return nil
}

// FormatVersion returns the MPQ format version (0..4) of the opened archive.
func (a *Archive) FormatVersion() int {
	return int(a.header.formatVersion)
}

// UserData returns the SC2 replay header payload, i.e. the bytes
// immediately following the optional user-data header. Returns nil if the
// archive had no user-data section.
func (a *Archive) UserData() []byte {
	if a.userData == nil {
		return nil
	}
	return a.userData.content
}

// ListFiles returns the names of member files this archive can serve. If a
// (listfile) member exists, its contents (one name per line) are used;
// otherwise the fixed inventory is filtered by lookup success.
func (a *Archive) ListFiles() []string {
	if data, err := a.FileByName("(listfile)"); err == nil && len(data) > 0 {
		return parseListfile(data)
	}

	var names []string
	for _, name := range fixedInventory {
		if _, ok := probe(a.hashTable, name); ok {
			names = append(names, name)
		}
	}
	return names
}

func parseListfile(data []byte) []string {
	var names []string
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' || data[i] == '\r' {
			if i > start {
				names = append(names, string(data[start:i]))
			}
			start = i + 1
		}
	}
	return names
}

// FileByName returns the decompressed bytes of the named member file.
// Returns a *FormatError with Kind ErrFileNotFound if no hash entry
// matches.
func (a *Archive) FileByName(name string) ([]byte, error) {
	blockIndex, ok := probe(a.hashTable, name)
	if !ok {
		return nil, newFormatErrorf(ErrFileNotFound, "member file not found: %s", name)
	}
	if blockIndex >= uint32(len(a.blockTable)) {
		return nil, newFormatErrorf(ErrInvalidFormat, "block index out of range: %d", blockIndex)
	}

	return a.readBlock(a.blockTable[blockIndex], name)
}

// readBlock extracts and decompresses the bytes described by be.
func (a *Archive) readBlock(be blockEntry, name string) ([]byte, error) {
	if be.flags&blockFlagExists == 0 {
		return nil, newFormatErrorf(ErrFileNotFound, "block is not a file: %s", name)
	}

	start := a.header.absOffset + int(be.filePosition)
	end := start + int(be.compressedSize)
	if start < 0 || end > len(a.data) || start > end {
		return nil, newFormatErrorf(ErrInvalidFormat, "file data out of bounds: %s", name)
	}

	raw := a.data[start:end]

	if be.flags&blockFlagEncrypted != 0 {
		return nil, newFormatErrorf(ErrInvalidFormat, "encrypted member files are not supported: %s", name)
	}

	if be.flags&blockFlagCompressed == 0 {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}

	out, detected := decompress(raw)
	if !detected {
		a.Diagnostics.DecompressionFallbacks++
		log.Warn("no known compression signature detected, returning raw bytes",
			log.F("file", name), log.F("size", len(raw)))
	}
	return out, nil
}
