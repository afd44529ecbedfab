// This file contains the algorithm implementation for EAPM classification
// and calculation, adapted from command-repetition heuristics to SC2's
// game event stream.

package rep

import (
	"github.com/sc2rep/screp2/events"
	"github.com/sc2rep/screp2/rep/repcore"
)

const (
	// EAPMVersion is a Semver2 compatible version of the EAPM algorithm.
	EAPMVersion = "v1.0.1"

	// repetitionWindowLoops is approximately one second at Faster speed.
	repetitionWindowLoops = 24

	// repetitionCountCap bounds how many repeats countSameEvents reports.
	repetitionCountCap = 6
)

// selectionChangers names the representative schema's event names that
// change the player's current selection. A real per-build schema would
// list every selection-changing event id; this is a representative
// subset, not exhaustive per-field fidelity.
var selectionChangers = map[string]bool{
	"SelectionDelta": true,
}

// IsEventEffective tells if a game event is considered effective so it can
// be included in EAPM calculation.
//
// evts must contain game events of the event's player only. It may be a
// partially filled slice, but must contain the player's events up to the
// event in question: len(evts) > i must hold.
func IsEventEffective(evts []events.EventRecord, i int) bool {
	return EventIneffKind(evts, i) == repcore.IneffKindEffective
}

// EventIneffKind classifies why a game event is ineffective, or returns
// repcore.IneffKindEffective if it counts toward EAPM. Same preconditions
// on evts and i as IsEventEffective.
func EventIneffKind(evts []events.EventRecord, i int) repcore.IneffKind {
	if i == 0 {
		return repcore.IneffKindEffective // First event is effective whatever it is
	}

	// Try to "prove" the event is ineffective. If we can't, it's effective.
	if countSameEvents(evts, i) >= repetitionCountCap {
		return repcore.IneffKindFastRepetition
	}

	return repcore.IneffKindEffective
}

// countSameEvents counts how many earlier events repeat evts[i]'s event
// name within about one second, stopping early if an intervening event
// changed the selection. Counting is capped at repetitionCountCap.
func countSameEvents(evts []events.EventRecord, i int) (count int) {
	evt := evts[i]
	loopLimit := evt.Gameloop - repetitionWindowLoops

	for i--; i >= 0; i-- {
		e2 := evts[i]
		if e2.Gameloop < loopLimit {
			break
		}

		if e2.EventName == evt.EventName {
			count++
			if count == repetitionCountCap {
				break
			}
		} else if selectionChangers[e2.EventName] {
			break
		}
	}

	return
}
