// This file implements the Versioned decoder: every value is preceded by a
// one-byte skip tag declaring its wire form.
package protocol

import "math"

// Skip tag values.
const (
	vtagArray   = 0
	vtagBitBlob = 1
	vtagBlob    = 2
	vtagChoice  = 3
	vtagOptional = 4
	vtagStruct  = 5
	vtagU8      = 6
	vtagU32     = 7
	vtagU64     = 8
	vtagVint    = 9
)

// VersionedDecoder decodes values from a type-info table using the
// Versioned (tagged) wire format. It owns its own cursor; it does not
// share state with a BitPackedDecoder.
type VersionedDecoder struct {
	cur   *cursor
	types Table
}

// NewVersionedDecoder creates a decoder over data against types. The
// Versioned stream is big-endian at the bit level, though in practice this
// decoder never reads partial bits: every value is byte-aligned.
func NewVersionedDecoder(data []byte, types Table) *VersionedDecoder {
	return &VersionedDecoder{cur: newCursor(data, BigEndian), types: types}
}

// Done reports whether the underlying cursor is exhausted.
func (d *VersionedDecoder) Done() bool { return d.cur.done() }

// ByteAlign discards any partially-consumed byte (a no-op for this decoder
// in practice, since it never leaves the cursor mid-byte, but kept for
// symmetry with BitPackedDecoder and the event stream driver's contract).
func (d *VersionedDecoder) ByteAlign() { d.cur.byteAlign() }

// UsedBits returns the number of bits consumed so far.
func (d *VersionedDecoder) UsedBits() int { return d.cur.usedBits() }

// Decode decodes one value of the given type-id.
func (d *VersionedDecoder) Decode(typeID int) (Value, error) {
	if typeID < 0 || typeID >= len(d.types) {
		return nil, errCorrupted("type id out of range: %d", typeID)
	}
	return d.decodeType(d.types[typeID])
}

func (d *VersionedDecoder) expectTag(want byte) error {
	got, err := d.cur.readU8()
	if err != nil {
		return err
	}
	if got != want {
		return errCorrupted("expected skip tag %d, got %d", want, got)
	}
	return nil
}

func (d *VersionedDecoder) decodeType(ti TypeInfo) (Value, error) {
	switch ti.Kind {
	case KindNull:
		return nil, nil

	case KindInt:
		if err := d.expectTag(vtagVint); err != nil {
			return nil, err
		}
		n, err := d.vint()
		if err != nil {
			return nil, err
		}
		return ti.IntOffset + n, nil

	case KindBool:
		if err := d.expectTag(vtagU8); err != nil {
			return nil, err
		}
		b, err := d.cur.readU8()
		if err != nil {
			return nil, err
		}
		return b != 0, nil

	case KindBlob:
		if err := d.expectTag(vtagBlob); err != nil {
			return nil, err
		}
		n, err := d.vint()
		if err != nil {
			return nil, err
		}
		b, err := d.cur.readAlignedBytes(int(n))
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil

	case KindFourCC:
		if err := d.expectTag(vtagU32); err != nil {
			return nil, err
		}
		b, err := d.cur.readAlignedBytes(4)
		if err != nil {
			return nil, err
		}
		return string(b), nil

	case KindReal32:
		if err := d.expectTag(vtagU32); err != nil {
			return nil, err
		}
		b, err := d.cur.readAlignedBytes(4)
		if err != nil {
			return nil, err
		}
		bits := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
		return math.Float32frombits(bits), nil

	case KindReal64:
		if err := d.expectTag(vtagU64); err != nil {
			return nil, err
		}
		b, err := d.cur.readAlignedBytes(8)
		if err != nil {
			return nil, err
		}
		var bits uint64
		for _, c := range b {
			bits = bits<<8 | uint64(c)
		}
		return math.Float64frombits(bits), nil

	case KindArray:
		if err := d.expectTag(vtagArray); err != nil {
			return nil, err
		}
		n, err := d.vint()
		if err != nil {
			return nil, err
		}
		elemType := d.types[ti.ElemType]
		out := make([]Value, n)
		for i := range out {
			v, err := d.decodeType(elemType)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case KindOptional:
		if err := d.expectTag(vtagOptional); err != nil {
			return nil, err
		}
		present, err := d.cur.readU8()
		if err != nil {
			return nil, err
		}
		if present == 0 {
			return nil, nil
		}
		return d.decodeType(d.types[ti.ElemType])

	case KindChoice:
		if err := d.expectTag(vtagChoice); err != nil {
			return nil, err
		}
		tag, err := d.vint()
		if err != nil {
			return nil, err
		}
		arm, ok := ti.Arms[tag]
		if !ok {
			if err := d.skip(); err != nil {
				return nil, err
			}
			return &Choice{}, nil
		}
		v, err := d.decodeType(d.types[arm.Type])
		if err != nil {
			return nil, err
		}
		return &Choice{Arm: arm.Name, Value: v}, nil

	case KindStruct:
		return d.decodeStruct(ti)

	case KindBitArray:
		if err := d.expectTag(vtagBitBlob); err != nil {
			return nil, err
		}
		bitLen, err := d.vint()
		if err != nil {
			return nil, err
		}
		byteLen := (int(bitLen) + 7) / 8
		b, err := d.cur.readAlignedBytes(byteLen)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return &BitBlob{Length: int(bitLen), Data: out}, nil

	default:
		return nil, errCorrupted("unknown type kind: %d", ti.Kind)
	}
}

// decodeStruct implements the tag-matched field decode, including the
// "__parent" embedding rule.
func (d *VersionedDecoder) decodeStruct(ti TypeInfo) (Value, error) {
	if err := d.expectTag(vtagStruct); err != nil {
		return nil, err
	}
	n, err := d.vint()
	if err != nil {
		return nil, err
	}

	result := Struct{}

	for i := int64(0); i < n; i++ {
		fieldTag, err := d.vint()
		if err != nil {
			return nil, err
		}

		field, ok := findFieldByTag(ti.Fields, int32(fieldTag))
		if !ok {
			if err := d.skip(); err != nil {
				return nil, err
			}
			continue
		}

		v, err := d.decodeType(d.types[field.Type])
		if err != nil {
			return nil, err
		}

		if field.Name == "__parent" {
			if len(ti.Fields) == 1 {
				return v, nil
			}
			if sub, ok := AsStruct(v); ok {
				for k, sv := range sub {
					result[k] = sv
				}
				continue
			}
		}

		result[field.Name] = v
	}

	return result, nil
}

func findFieldByTag(fields []StructField, tag int32) (StructField, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return StructField{}, false
}

// vint decodes a signed ZigZag-like varint: the low bit of the first byte
// is the sign, the next six bits are the initial magnitude; while the high
// bit is set, another byte's low seven bits are OR'd into the magnitude.
func (d *VersionedDecoder) vint() (int64, error) {
	b, err := d.cur.readU8()
	if err != nil {
		return 0, err
	}

	negative := b&1 != 0
	mag := int64(b>>1) & 0x3F

	shift := uint(6)
	for b&0x80 != 0 {
		b, err = d.cur.readU8()
		if err != nil {
			return 0, err
		}
		mag |= int64(b&0x7F) << shift
		shift += 7
	}

	if negative {
		return -mag, nil
	}
	return mag, nil
}

// skip recursively consumes one value of unknown type by reading its tag
// byte and discarding its payload.
func (d *VersionedDecoder) skip() error {
	tag, err := d.cur.readU8()
	if err != nil {
		return err
	}

	switch tag {
	case vtagArray:
		n, err := d.vint()
		if err != nil {
			return err
		}
		for i := int64(0); i < n; i++ {
			if err := d.skip(); err != nil {
				return err
			}
		}
		return nil

	case vtagBitBlob:
		bitLen, err := d.vint()
		if err != nil {
			return err
		}
		_, err = d.cur.readAlignedBytes((int(bitLen) + 7) / 8)
		return err

	case vtagBlob:
		n, err := d.vint()
		if err != nil {
			return err
		}
		_, err = d.cur.readAlignedBytes(int(n))
		return err

	case vtagChoice:
		if _, err := d.vint(); err != nil {
			return err
		}
		return d.skip()

	case vtagOptional:
		present, err := d.cur.readU8()
		if err != nil {
			return err
		}
		if present == 0 {
			return nil
		}
		return d.skip()

	case vtagStruct:
		n, err := d.vint()
		if err != nil {
			return err
		}
		for i := int64(0); i < n; i++ {
			if _, err := d.vint(); err != nil {
				return err
			}
			if err := d.skip(); err != nil {
				return err
			}
		}
		return nil

	case vtagU8:
		_, err := d.cur.readAlignedBytes(1)
		return err

	case vtagU32:
		_, err := d.cur.readAlignedBytes(4)
		return err

	case vtagU64:
		_, err := d.cur.readAlignedBytes(8)
		return err

	case vtagVint:
		_, err := d.vint()
		return err

	default:
		return errCorrupted("skip: unknown tag %d", tag)
	}
}
