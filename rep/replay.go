// This file contains the Replay type and its components which model a
// complete SC2 replay.

package rep

import (
	"github.com/sc2rep/screp2/events"
	"github.com/sc2rep/screp2/protocol"
)

// Replay models an SC2 replay.
type Replay struct {
	// Header of the replay
	Header *Header

	// Details is the one-shot game details / player roster.
	Details *Details

	// InitData is the one-shot lobby state synced at game start.
	InitData *InitData

	// Attributes is the decoded "(attributes)" member file, grouped by
	// scope and attribute id.
	Attributes *protocol.Attributes

	// GameEvents, MessageEvents, TrackerEvents are the decoded event
	// streams, when requested.
	GameEvents    []events.EventRecord `json:",omitempty"`
	MessageEvents []events.EventRecord `json:",omitempty"`
	TrackerEvents []events.EventRecord `json:",omitempty"`

	// Computed contains data that is computed / derived from other parts
	// of the replay.
	Computed *Computed `json:",omitempty"`

	// Diagnostics carries non-fatal decode issues encountered while
	// parsing.
	Diagnostics Diagnostics
}

// Diagnostics aggregates non-fatal issues surfaced through a side channel
// rather than as errors.
type Diagnostics struct {
	HETBETFallbacks        int
	DecompressionFallbacks int
	UnknownGameEventIDs    int
	UnknownMessageEventIDs int
	UnknownTrackerEventIDs int
}
