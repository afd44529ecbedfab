// This file implements the BitPacked decoder: a pure schema-driven reader
// with no skip tags on the wire at all.
package protocol

import "math"

// BitPackedDecoder decodes values purely by walking the type-info table;
// the wire carries no tags, lengths, or field markers of its own.
type BitPackedDecoder struct {
	cur   *cursor
	types Table
}

// NewBitPackedDecoder creates a decoder over data against types.
func NewBitPackedDecoder(data []byte, types Table) *BitPackedDecoder {
	return &BitPackedDecoder{cur: newCursor(data, BigEndian), types: types}
}

// Done reports whether the underlying cursor is exhausted.
func (d *BitPackedDecoder) Done() bool { return d.cur.done() }

// ByteAlign discards any partially-consumed byte.
func (d *BitPackedDecoder) ByteAlign() { d.cur.byteAlign() }

// UsedBits returns the number of bits consumed so far.
func (d *BitPackedDecoder) UsedBits() int { return d.cur.usedBits() }

// Decode decodes one value of the given type-id.
func (d *BitPackedDecoder) Decode(typeID int) (Value, error) {
	if typeID < 0 || typeID >= len(d.types) {
		return nil, errCorrupted("type id out of range: %d", typeID)
	}
	return d.decodeType(d.types[typeID])
}

func (d *BitPackedDecoder) decodeType(ti TypeInfo) (Value, error) {
	switch ti.Kind {
	case KindNull:
		return nil, nil

	case KindInt:
		n, err := d.readWideBits(int(ti.LengthBits))
		if err != nil {
			return nil, err
		}
		return ti.IntOffset + int64(n), nil

	case KindBool:
		n, err := d.cur.readBits(1)
		if err != nil {
			return nil, err
		}
		return n != 0, nil

	case KindBlob:
		n, err := d.readWideBits(int(ti.LengthBits))
		if err != nil {
			return nil, err
		}
		length := ti.IntOffset + int64(n)
		b, err := d.cur.readAlignedBytes(int(length))
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil

	case KindFourCC:
		b, err := d.cur.readAlignedBytes(4)
		if err != nil {
			return nil, err
		}
		return string(b), nil

	case KindReal32:
		b, err := d.cur.readAlignedBytes(4)
		if err != nil {
			return nil, err
		}
		bits := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
		return math.Float32frombits(bits), nil

	case KindReal64:
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
		n, err := d.readWideBits(int(ti.LengthBits))
		if err != nil {
			return nil, err
		}
		length := ti.IntOffset + int64(n)
		elemType := d.types[ti.ElemType]
		out := make([]Value, length)
		for i := range out {
			v, err := d.decodeType(elemType)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case KindOptional:
		present, err := d.cur.readBits(1)
		if err != nil {
			return nil, err
		}
		if present == 0 {
			return nil, nil
		}
		return d.decodeType(d.types[ti.ElemType])

	case KindChoice:
		tag, err := d.readWideBits(int(ti.TagBits))
		if err != nil {
			return nil, err
		}
		arm, ok := ti.Arms[int64(tag)]
		if !ok {
			return nil, errCorrupted("choice: unknown tag %d", tag)
		}
		v, err := d.decodeType(d.types[arm.Type])
		if err != nil {
			return nil, err
		}
		return &Choice{Arm: arm.Name, Value: v}, nil

	case KindStruct:
		return d.decodeStruct(ti)

	case KindBitArray:
		n, err := d.readWideBits(int(ti.LengthBits))
		if err != nil {
			return nil, err
		}
		length := int(ti.IntOffset + int64(n))
		bits, err := d.readWideBits(length)
		if err != nil {
			return nil, err
		}
		return &BitField{Length: length, Bits: bits}, nil

	default:
		return nil, errCorrupted("unknown type kind: %d", ti.Kind)
	}
}

// decodeStruct decodes every declared field positionally; there is no wire
// field count or per-field tag to match against, unlike the Versioned
// decoder. The "__parent" embedding rule still applies.
func (d *BitPackedDecoder) decodeStruct(ti TypeInfo) (Value, error) {
	result := Struct{}

	for _, field := range ti.Fields {
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

// readWideBits reads an n-bit unsigned value, n possibly exceeding the
// cursor's 32-bit-per-call limit, by accumulating 32-bit chunks in the
// cursor's configured bit order.
func (d *BitPackedDecoder) readWideBits(n int) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	var result uint64
	accumulated := 0
	for accumulated < n {
		chunk := n - accumulated
		if chunk > 32 {
			chunk = 32
		}
		piece, err := d.cur.readBits(chunk)
		if err != nil {
			return 0, err
		}
		switch d.cur.order {
		case BigEndian:
			result = result<<uint(chunk) | uint64(piece)
		default:
			result |= uint64(piece) << uint(accumulated)
		}
		accumulated += chunk
	}
	return result, nil
}
