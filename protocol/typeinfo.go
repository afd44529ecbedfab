// This file implements the Type-Info Table model: an ordered list of
// tagged type descriptors indexed by type-id.
//
// It is modeled as a tagged variant (sum type), not a class hierarchy:
// there are no per-variant behaviors beyond "how to read my bits", and the
// table itself is a static constant.
package protocol

// Kind discriminates the tag of a TypeInfo entry.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindBlob
	KindStruct
	KindArray
	KindOptional
	KindChoice
	KindFourCC
	KindNull
	KindBitArray
	KindReal32
	KindReal64
)

// StructField describes one field of a KindStruct entry. Tag is the
// on-the-wire field tag used by the Versioned decoder to match an incoming
// field to its destination; it plays no role in the BitPacked decoder,
// which reads fields positionally. Tag -1 marks the rare "__parent"
// embedding field.
type StructField struct {
	Name string
	Type int
	Tag  int32
}

// ChoiceArm describes one arm of a KindChoice entry: its name and the type
// of its payload. The wire tag value that selects it is its key in
// TypeInfo.Arms.
type ChoiceArm struct {
	Name string
	Type int
}

// TypeInfo is one entry of the type-info table. Only the fields relevant
// to its Kind are meaningful.
type TypeInfo struct {
	Kind Kind

	// KindInt / KindBlob / KindBitArray
	IntOffset  int64
	LengthBits uint8 // bit_count for int/blob/bitarray

	// KindStruct
	Fields []StructField

	// KindArray / KindOptional: element / inner type id.
	ElemType int

	// KindChoice
	TagBits uint8
	Arms    map[int64]ChoiceArm
}

// Table is an ordered, indexed type-info table: a closed graph where every
// type_id referenced by any entry is in range.
type Table []TypeInfo

// Validate checks the closed-graph invariant: every type_id referenced by
// any entry (struct field types, array/optional element types, choice arm
// types) is within [0, len(t)).
func (t Table) Validate() error {
	inRange := func(id int) bool { return id >= 0 && id < len(t) }

	for i, ti := range t {
		switch ti.Kind {
		case KindStruct:
			for _, f := range ti.Fields {
				if f.Tag == -1 {
					// "__parent" embedding: still must reference a valid type.
				}
				if !inRange(f.Type) {
					return errCorrupted("type %d: field %q references out-of-range type %d", i, f.Name, f.Type)
				}
			}
		case KindArray, KindOptional:
			if !inRange(ti.ElemType) {
				return errCorrupted("type %d: references out-of-range type %d", i, ti.ElemType)
			}
		case KindChoice:
			for tag, arm := range ti.Arms {
				if !inRange(arm.Type) {
					return errCorrupted("type %d: arm %d (%q) references out-of-range type %d", i, tag, arm.Name, arm.Type)
				}
			}
		}
	}
	return nil
}
