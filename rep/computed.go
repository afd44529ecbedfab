// This file contains the types describing the computed / derived data.

package rep

import (
	"github.com/sc2rep/screp2/events"
	"github.com/sc2rep/screp2/rep/repcore"
)

// Computed contains computed, derived data from other parts of the
// replay.
type Computed struct {
	// ChatEvents is a collection of the player chat, taken from the
	// message event stream.
	ChatEvents []events.EventRecord

	// WinnerTeam if it can be derived from the recorded player results.
	// It's 0 if unknown or ambiguous.
	WinnerTeam int

	// PlayerDescs contains computed per-player data, in Details.Players
	// order.
	PlayerDescs []*PlayerDesc
}

// PlayerDesc contains computed / derived data for a player.
type PlayerDesc struct {
	// UserID this PlayerDesc belongs to.
	UserID int64

	// ActionCount is the number of game events attributed to this user.
	ActionCount int

	// EffectiveActionCount is the number of those considered effective
	// by IsEventEffective.
	EffectiveActionCount int

	// IneffectiveByKind tallies the ineffective events by why
	// EventIneffKind disqualified them; IneffKindEffective is never a key.
	IneffectiveByKind map[repcore.IneffKind]int `json:",omitempty"`

	// EAPM is EffectiveActionCount scaled to actions-per-minute over the
	// replay's duration.
	EAPM float64
}
