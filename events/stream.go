// Package events implements the lazy event-stream driver: gameloop delta
// accumulation, optional user-id framing, event-id dispatch, and resilient
// handling of unknown event ids.
package events

import (
	"context"
	"fmt"

	"github.com/sc2rep/screp2/protocol"
	"github.com/sc2rep/screp2/protocol/build"
)

// StreamKind selects which per-stream dispatch table and user-id framing
// rule applies.
type StreamKind int

const (
	GameStream StreamKind = iota
	MessageStream
	TrackerStream
)

func (k StreamKind) hasUserID() bool { return k != TrackerStream }

func (k StreamKind) dispatch(d *build.Descriptor) map[int64]build.EventDescriptor {
	switch k {
	case GameStream:
		return d.GameEvents
	case MessageStream:
		return d.MessageEvents
	default:
		return d.TrackerEvents
	}
}

// EventRecord is one decoded event: its accumulated gameloop, optional user
// id, event identity, decoded payload, and the bit cost of decoding it.
type EventRecord struct {
	Gameloop  int64
	UserID    *int64
	EventID   int64
	EventName string
	Payload   protocol.Value
	Bits      int
}

// Diagnostics accumulates non-fatal per-event issues encountered while
// driving a stream. An unknown event id is not an error: the
// driver byte-aligns and continues.
type Diagnostics struct {
	UnknownEventIDs int
}

// decoder is the surface both protocol.VersionedDecoder and
// protocol.BitPackedDecoder satisfy; the stream driver is agnostic to
// which one backs a given Stream.
type decoder interface {
	Decode(typeID int) (protocol.Value, error)
	Done() bool
	ByteAlign()
	UsedBits() int
}

// selectDecoder chooses Versioned or BitPacked mode from the stream's
// first byte: 0x00 selects BitPacked, anything else selects Versioned.
func selectDecoder(data []byte, types protocol.Table) decoder {
	if len(data) > 0 && data[0] == 0x00 {
		return protocol.NewBitPackedDecoder(data, types)
	}
	return protocol.NewVersionedDecoder(data, types)
}

// Stream drives a lazy sequence of EventRecords over one event stream
// (game, message, or tracker events).
type Stream struct {
	dec  decoder
	desc *build.Descriptor
	kind StreamKind
	diag *Diagnostics

	gameloop int64
}

// NewStream creates a Stream over data using desc's schema. diag may be
// nil if the caller doesn't care about unknown-event-id counts.
func NewStream(data []byte, desc *build.Descriptor, kind StreamKind, diag *Diagnostics) *Stream {
	return &Stream{
		dec:  selectDecoder(data, desc.Types),
		desc: desc,
		kind: kind,
		diag: diag,
	}
}

// Next decodes and returns the next event record, or (nil, nil) once the
// stream is exhausted. It may be called repeatedly until that happens; ctx
// is checked between events only — no partial event is ever yielded.
func (s *Stream) Next(ctx context.Context) (*EventRecord, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.dec.Done() {
			return nil, nil
		}

		startBits := s.dec.UsedBits()

		deltaVal, err := s.dec.Decode(s.desc.SVarUint32TypeID)
		if err != nil {
			return nil, err
		}
		delta, err := deltaIntValue(deltaVal)
		if err != nil {
			return nil, err
		}
		s.gameloop += delta

		var userID *int64
		if s.kind.hasUserID() {
			uVal, err := s.dec.Decode(s.desc.ReplayUserIDTypeID)
			if err != nil {
				return nil, err
			}
			if id, ok := extractUserID(uVal); ok {
				userID = &id
			}
		}

		eidVal, err := s.dec.Decode(s.desc.EventIDTypeID)
		if err != nil {
			return nil, err
		}
		eid, ok := protocol.Int(eidVal)
		if !ok {
			return nil, fmt.Errorf("events: event id decoded to a non-int value")
		}

		descEvt, known := s.kind.dispatch(s.desc)[eid]
		if !known {
			s.dec.ByteAlign()
			if s.diag != nil {
				s.diag.UnknownEventIDs++
			}
			continue
		}

		payload, err := s.dec.Decode(descEvt.TypeID)
		if err != nil {
			return nil, err
		}
		s.dec.ByteAlign()

		return &EventRecord{
			Gameloop:  s.gameloop,
			UserID:    userID,
			EventID:   eid,
			EventName: descEvt.Name,
			Payload:   payload,
			Bits:      s.dec.UsedBits() - startBits,
		}, nil
	}
}

// All drains a Stream into a slice, stopping at the first error. It exists
// for callers (and tests) that don't need the lazy/cancellable form.
func All(ctx context.Context, s *Stream) ([]EventRecord, error) {
	var out []EventRecord
	for {
		rec, err := s.Next(ctx)
		if err != nil {
			return out, err
		}
		if rec == nil {
			return out, nil
		}
		out = append(out, *rec)
	}
}

func deltaIntValue(v protocol.Value) (int64, error) {
	c, ok := protocol.AsChoice(v)
	if !ok {
		return 0, fmt.Errorf("events: gameloop delta decoded to a non-choice value")
	}
	n, ok := protocol.Int(c.Value)
	if !ok {
		return 0, fmt.Errorf("events: gameloop delta arm decoded to a non-int value")
	}
	return n, nil
}

func extractUserID(v protocol.Value) (int64, bool) {
	s, ok := protocol.AsStruct(v)
	if !ok {
		return 0, false
	}
	return protocol.Int(s["m_userId"])
}
