// This file implements member-file decompression: bzip2/gzip/zlib
// detection and the single-unit decompression path.
//
// Sector-level multi-block decompression is out of scope: SC2 member files
// observed in practice fit the single-unit path.

package mpq

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/sc2rep/screp2/log"
)

// decompress attempts to identify and decompress data. detected reports
// whether a known compression signature was recognized and decompressed
// successfully; if false (no signature matched, or decompression of a
// matched signature failed), data is returned unchanged so the caller can
// log and fall back to raw bytes
// (downstream decoders will then most likely fail with InvalidFormat,
// which is an acceptable signal).
func decompress(data []byte) (out []byte, detected bool) {
	if out, ok := tryBzip2(data); ok {
		return out, true
	}
	if out, ok := tryGzip(data); ok {
		return out, true
	}
	if out, ok := tryZlib(data); ok {
		return out, true
	}
	return data, false
}

// bzip2Payload detects the bzip2 magic "BZh" either at byte 0, or at byte 1
// when byte 0 is the MPQ skip-byte 0x10, and returns the slice starting at
// the magic.
func bzip2Payload(data []byte) ([]byte, bool) {
	if len(data) >= 4 && data[0] == 0x10 && data[1] == 'B' && data[2] == 'Z' && data[3] == 'h' {
		return data[1:], true
	}
	if len(data) >= 3 && data[0] == 'B' && data[1] == 'Z' && data[2] == 'h' {
		return data, true
	}
	return nil, false
}

// tryBzip2 detects and decompresses a bzip2 stream (see bzip2Payload).
func tryBzip2(data []byte) ([]byte, bool) {
	payload, ok := bzip2Payload(data)
	if !ok {
		return nil, false
	}

	out, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(payload)))
	if err != nil {
		log.Warn("bzip2 decompression failed", log.F("error", err))
		return nil, false
	}
	return out, true
}

// tryGzip detects the gzip magic 1F 8B.
func tryGzip(data []byte) ([]byte, bool) {
	if len(data) < 2 || data[0] != 0x1F || data[1] != 0x8B {
		return nil, false
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		log.Warn("gzip reader creation failed", log.F("error", err))
		return nil, false
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		log.Warn("gzip decompression failed", log.F("error", err))
		return nil, false
	}
	return out, true
}

// tryZlib detects a valid zlib/deflate header: (first*256+second) mod 31 ==
// 0 and the compression method nibble equals 8 (deflate).
func tryZlib(data []byte) ([]byte, bool) {
	if len(data) < 2 {
		return nil, false
	}
	first, second := int(data[0]), int(data[1])
	if (first*256+second)%31 != 0 || first&0x0F != 8 {
		return nil, false
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		log.Warn("zlib reader creation failed", log.F("error", err))
		return nil, false
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		log.Warn("zlib decompression failed", log.F("error", err))
		return nil, false
	}
	return out, true
}
