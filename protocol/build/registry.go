package build

import "github.com/sc2rep/screp2/protocol"

// EventDescriptor names one entry of a per-stream event-id dispatch table,
// mirroring icza-s2prot's EvtType (Id, Name, typeid of the payload struct).
type EventDescriptor struct {
	Name   string
	TypeID int
}

// Descriptor is a fully resolved schema for one base-build family: the
// type-info table plus the per-stream event dispatch tables and the key
// type-ids the event stream driver and the one-shot decodes need.
type Descriptor struct {
	Types protocol.Table

	GameEvents    map[int64]EventDescriptor
	MessageEvents map[int64]EventDescriptor
	TrackerEvents map[int64]EventDescriptor

	SVarUint32TypeID  int
	ReplayUserIDTypeID int
	EventIDTypeID     int

	ReplayHeaderTypeID   int
	GameDetailsTypeID    int
	ReplayInitDataTypeID int
}

// representative is the single build family this package models, per the
// non-goal of exhaustive per-build fidelity. The base build number is
// nominal: it picks a plausible mid-life SC2 build rather than reproducing
// an exact shipped one.
const representativeBaseBuild = 80949

var representative = &Descriptor{
	Types: buildTypeTable(),

	GameEvents: map[int64]EventDescriptor{
		0: {Name: "CameraUpdate", TypeID: tCameraUpdatePayload},
		1: {Name: "SelectionDelta", TypeID: tSelectionDeltaPayload},
	},
	MessageEvents: map[int64]EventDescriptor{
		0: {Name: "Chat", TypeID: tChatPayload},
	},
	TrackerEvents: map[int64]EventDescriptor{
		0: {Name: "PlayerStats", TypeID: tPlayerStatsPayload},
		1: {Name: "UnitBorn", TypeID: tUnitBornPayload},
		2: {Name: "UnitDied", TypeID: tUnitDiedPayload},
	},

	SVarUint32TypeID:   tSVarUint32,
	ReplayUserIDTypeID: tReplayUserID,
	EventIDTypeID:      tEventID,

	ReplayHeaderTypeID:   tReplayHeader,
	GameDetailsTypeID:    tGameDetails,
	ReplayInitDataTypeID: tReplayInitData,
}

// Builds maps a base build number to its schema Descriptor, mirroring
// icza-s2prot's build.Builds map of base build to protocol source.
var Builds = map[int]*Descriptor{
	representativeBaseBuild: representative,
}

// Duplicates maps a base build number known to share an identical schema
// with another (already-registered) base build, mirroring icza-s2prot's
// build.Duplicates. Builds across a representative family's lifetime
// frequently change nothing about the wire schema.
var Duplicates = map[int]int{
	80958: representativeBaseBuild,
	81009: representativeBaseBuild,
}

// ForBuild resolves a base build number to its Descriptor, following one
// level of Duplicates aliasing. nil indicates an unknown/unsupported base
// build.
func ForBuild(baseBuild int) *Descriptor {
	if d, ok := Builds[baseBuild]; ok {
		return d
	}
	if orig, ok := Duplicates[baseBuild]; ok {
		return Builds[orig]
	}
	return nil
}

// Default returns the Descriptor most likely to decode a replay header
// whose exact base build isn't yet known, mirroring icza-s2prot's
// defBaseBuild (highest known base build).
func Default() *Descriptor {
	return representative
}
