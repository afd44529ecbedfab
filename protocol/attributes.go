// This file implements attributes-event decoding: a fixed little-endian
// bit layout unrelated to the Type-Info Table.
package protocol

// Attribute is one decoded replay attribute entry.
type Attribute struct {
	Namespace uint32
	AttrID    uint32
	Scope     uint8
	Value     string
}

// Attributes is the result of decoding the "(attributes)" member file:
// entries grouped by scope, then by attribute id.
type Attributes struct {
	Source       uint8
	HasSource    bool
	MapNamespace uint32
	Scopes       map[uint8]map[uint32][]Attribute
}

// DecodeAttributes decodes the fixed little-endian attributes layout:
// an optional 8-bit source (present from build 17326 onward), a 32-bit map
// namespace, a 32-bit entry count (read and discarded — the loop runs
// until the cursor is exhausted rather than trusting the count), then
// per-entry {u32 namespace, u32 attrid, u8 scope, 4 aligned bytes reversed}.
func DecodeAttributes(data []byte, hasSource bool) (*Attributes, error) {
	a := &Attributes{HasSource: hasSource, Scopes: map[uint8]map[uint32][]Attribute{}}
	if len(data) == 0 {
		return a, nil
	}

	c := newCursor(data, LittleEndian)

	if hasSource {
		b, err := c.readBits(8)
		if err != nil {
			return nil, err
		}
		a.Source = uint8(b)
	}

	ns, err := c.readBits(32)
	if err != nil {
		return nil, err
	}
	a.MapNamespace = ns

	if _, err := c.readBits(32); err != nil { // entry count; unused, see doc comment
		return nil, err
	}

	for !c.done() {
		namespace, err := c.readBits(32)
		if err != nil {
			return nil, err
		}
		attrid, err := c.readBits(32)
		if err != nil {
			return nil, err
		}
		scope, err := c.readBits(8)
		if err != nil {
			return nil, err
		}
		raw, err := c.readAlignedBytes(4)
		if err != nil {
			return nil, err
		}

		value := reverseAndTrim(raw)

		attr := Attribute{Namespace: namespace, AttrID: attrid, Scope: uint8(scope), Value: value}
		m, ok := a.Scopes[attr.Scope]
		if !ok {
			m = map[uint32][]Attribute{}
			a.Scopes[attr.Scope] = m
		}
		m[attrid] = append(m[attrid], attr)
	}

	return a, nil
}

// reverseAndTrim byte-reverses a 4-byte value (attribute values are stored
// byte-reversed ASCII, zero-padded at what becomes, after reversal, the
// leading end) and strips that zero padding.
func reverseAndTrim(b []byte) string {
	rev := [4]byte{b[3], b[2], b[1], b[0]}
	for i := 3; i >= 0; i-- {
		if rev[i] == 0 {
			return string(rev[i+1:])
		}
	}
	return string(rev[:])
}
