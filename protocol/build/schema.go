// Package build holds the representative type-info table and event
// dispatch tables for one base-build family, plus the base-build-to-schema
// registry.
//
// A real deployment would carry one such table per shipped build; this
// package carries a single representative family, matching the explicit
// non-goal of exhaustive per-build, per-field fidelity.
package build

import "github.com/sc2rep/screp2/protocol"

// Type ids of the representative schema. These are purely internal indices
// into the Table this package builds; they carry no meaning outside it.
const (
	tUint6 = iota
	tUint14
	tUint22
	tUint32
	tSVarUint32
	tInt4Signed
	tReplayUserID
	tEventID
	tBlob
	tString
	tInt32
	tInt64
	tBool
	tVersion
	tReplayHeader
	tPlayerEntry
	tPlayerList
	tGameDetails
	tUserInitData
	tUserInitDataList
	tLobbyState
	tReplayInitData
	tPointF
	tMaskBits
	tCameraUpdatePayload
	tSelectionDeltaPayload
	tChatPayload
	tPlayerStatsPayload
	tUnitBornPayload
	tUnitDiedPayload

	numTypes
)

// buildTypeTable constructs the representative type-info table.
func buildTypeTable() protocol.Table {
	t := make(protocol.Table, numTypes)

	t[tUint6] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 6}
	t[tUint14] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 14}
	t[tUint22] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 22}
	t[tUint32] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 32}

	// svaruint32: a 4-arm choice selected by 2 bits (BitPacked) / vint tag
	// (Versioned), over progressively wider unsigned ints.
	t[tSVarUint32] = protocol.TypeInfo{
		Kind:    protocol.KindChoice,
		TagBits: 2,
		Arms: map[int64]protocol.ChoiceArm{
			0: {Name: "uint6", Type: tUint6},
			1: {Name: "uint14", Type: tUint14},
			2: {Name: "uint22", Type: tUint22},
			3: {Name: "uint32", Type: tUint32},
		},
	}

	// A signed nibble: offset -8, width 4 bits, giving range [-8, 7].
	t[tInt4Signed] = protocol.TypeInfo{Kind: protocol.KindInt, IntOffset: -8, LengthBits: 4}

	t[tReplayUserID] = protocol.TypeInfo{
		Kind:   protocol.KindStruct,
		Fields: []protocol.StructField{{Name: "m_userId", Type: tInt4Signed, Tag: 0}},
	}

	t[tEventID] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 7}

	t[tBlob] = protocol.TypeInfo{Kind: protocol.KindBlob, LengthBits: 7}
	t[tString] = protocol.TypeInfo{Kind: protocol.KindBlob, LengthBits: 11}

	t[tInt32] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 32}
	t[tInt64] = protocol.TypeInfo{Kind: protocol.KindInt, LengthBits: 64}
	t[tBool] = protocol.TypeInfo{Kind: protocol.KindBool}

	t[tVersion] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_major", Type: tInt32, Tag: 0},
			{Name: "m_minor", Type: tInt32, Tag: 1},
			{Name: "m_revision", Type: tInt32, Tag: 2},
			{Name: "m_build", Type: tInt32, Tag: 3},
			{Name: "m_baseBuild", Type: tInt32, Tag: 4},
		},
	}

	t[tReplayHeader] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_signature", Type: tBlob, Tag: 0},
			{Name: "m_version", Type: tVersion, Tag: 1},
			{Name: "m_elapsedGameLoops", Type: tInt32, Tag: 2},
		},
	}

	t[tPointF] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "x", Type: tInt32, Tag: 0},
			{Name: "y", Type: tInt32, Tag: 1},
		},
	}

	t[tPlayerEntry] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_name", Type: tString, Tag: 0},
			{Name: "m_race", Type: tString, Tag: 1},
			{Name: "m_teamId", Type: tInt32, Tag: 2},
			{Name: "m_result", Type: tInt32, Tag: 3},
		},
	}
	t[tPlayerList] = protocol.TypeInfo{Kind: protocol.KindArray, ElemType: tPlayerEntry, LengthBits: 5}

	t[tGameDetails] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_playerList", Type: tPlayerList, Tag: 0},
			{Name: "m_title", Type: tString, Tag: 1},
			{Name: "m_mapFileSyncChecksum", Type: tInt32, Tag: 2},
			{Name: "m_timeUTC", Type: tInt64, Tag: 3},
			{Name: "m_isBlizzardMap", Type: tBool, Tag: 4},
		},
	}

	t[tUserInitData] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_name", Type: tString, Tag: 0},
			{Name: "m_combinedRaceLevels", Type: tInt64, Tag: 1},
			{Name: "m_highestLeague", Type: tInt32, Tag: 2},
		},
	}
	t[tUserInitDataList] = protocol.TypeInfo{Kind: protocol.KindArray, ElemType: tUserInitData, LengthBits: 5}

	t[tLobbyState] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_userInitialData", Type: tUserInitDataList, Tag: 0},
			{Name: "m_maxUsers", Type: tInt32, Tag: 1},
		},
	}

	t[tReplayInitData] = protocol.TypeInfo{
		Kind:   protocol.KindStruct,
		Fields: []protocol.StructField{{Name: "m_syncLobbyState", Type: tLobbyState, Tag: 0}},
	}

	t[tCameraUpdatePayload] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_target", Type: tPointF, Tag: 0},
			{Name: "m_distance", Type: tInt32, Tag: 1},
		},
	}

	t[tMaskBits] = protocol.TypeInfo{Kind: protocol.KindBitArray, LengthBits: 6}

	t[tSelectionDeltaPayload] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_controlGroupId", Type: tInt32, Tag: 0},
			{Name: "m_mask", Type: tMaskBits, Tag: 1},
		},
	}

	t[tChatPayload] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_recipient", Type: tInt32, Tag: 0},
			{Name: "m_string", Type: tString, Tag: 1},
		},
	}

	t[tPlayerStatsPayload] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_playerId", Type: tInt32, Tag: 0},
			{Name: "m_minerals", Type: tInt32, Tag: 1},
			{Name: "m_vespene", Type: tInt32, Tag: 2},
		},
	}

	t[tUnitBornPayload] = protocol.TypeInfo{
		Kind: protocol.KindStruct,
		Fields: []protocol.StructField{
			{Name: "m_unitTagIndex", Type: tInt32, Tag: 0},
			{Name: "m_unitTypeName", Type: tString, Tag: 1},
			{Name: "m_controlPlayerId", Type: tInt32, Tag: 2},
		},
	}

	t[tUnitDiedPayload] = protocol.TypeInfo{
		Kind:   protocol.KindStruct,
		Fields: []protocol.StructField{{Name: "m_unitTagIndex", Type: tInt32, Tag: 0}},
	}

	return t
}
