package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc2rep/screp2/protocol"
	"github.com/sc2rep/screp2/protocol/build"
)

// testTable is a minimal schema used only to exercise the stream driver in
// isolation from the representative build/ schema: a gameloop delta, an
// event id, and a single known tracker event carrying one 8-bit field.
func testTable() protocol.Table {
	t := make(protocol.Table, 5)
	t[0] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 6} // uint6 arm
	t[1] = protocol.TypeInfo{
		Kind:    protocol.KindChoice,
		TagBits: 2,
		Arms:    map[int64]protocol.ChoiceArm{0: {Name: "u6", Type: 0}},
	}
	t[2] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 7} // event id
	t[3] = protocol.TypeInfo{
		Kind:   protocol.KindStruct,
		Fields: []protocol.StructField{{Name: "m_x", Type: 4, Tag: 0}},
	}
	t[4] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 8}
	return t
}

func testDescriptor() *build.Descriptor {
	return &build.Descriptor{
		Types:            testTable(),
		SVarUint32TypeID: 1,
		EventIDTypeID:    2,
		TrackerEvents: map[int64]build.EventDescriptor{
			0: {Name: "Foo", TypeID: 3},
		},
	}
}

// TestStreamUnknownEventIDContinues builds two back-to-back tracker
// events: the first with a known event id (decoded to a record), the
// second with an unknown one (byte-aligned over and not yielded).
func TestStreamUnknownEventIDContinues(t *testing.T) {
	data := []byte{0x00, 0x00, 0x54, 0x03, 0xC6}

	desc := testDescriptor()
	diag := &Diagnostics{}
	s := NewStream(data, desc, TrackerStream, diag)

	rec, err := s.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(0), rec.Gameloop)
	assert.Equal(t, int64(0), rec.EventID)
	assert.Equal(t, "Foo", rec.EventName)
	assert.Nil(t, rec.UserID)

	payload, ok := protocol.AsStruct(rec.Payload)
	require.True(t, ok)
	assert.Equal(t, int64(42), payload.Int64Field("m_x"))

	// The unknown-id event is skipped, not surfaced; the stream then ends.
	rec2, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec2)

	assert.Equal(t, 1, diag.UnknownEventIDs)
}

func TestStreamModeSelectsByFirstByte(t *testing.T) {
	bitPacked := []byte{0x00, 0x00, 0x54, 0x03, 0xC6}
	s := NewStream(bitPacked, testDescriptor(), TrackerStream, nil)
	_, ok := s.dec.(*protocol.BitPackedDecoder)
	assert.True(t, ok)

	versioned := []byte{0x01, 0x00}
	s2 := NewStream(versioned, testDescriptor(), TrackerStream, nil)
	_, ok = s2.dec.(*protocol.VersionedDecoder)
	assert.True(t, ok)
}

func TestStreamGameloopNonDecreasing(t *testing.T) {
	data := []byte{0x00, 0x00, 0x54, 0x03, 0xC6}
	s := NewStream(data, testDescriptor(), TrackerStream, &Diagnostics{})

	records, err := All(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, records, 1)

	last := int64(-1)
	for _, r := range records {
		assert.GreaterOrEqual(t, r.Gameloop, last)
		last = r.Gameloop
	}
}
