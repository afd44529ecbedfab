// This file contains the types describing the replay header and the
// one-shot game details / player roster decoded from it.

package rep

import (
	"fmt"
	"strings"
	"time"

	"github.com/sc2rep/screp2/rep/repcore"
)

// Header models the replay header (decoded from the MPQ user-data
// content).
type Header struct {
	// Signature is the magic string the header content starts with,
	// e.g. "StarCraft II replay\x1b11".
	Signature string

	// Version is the game version in major.minor.revision.build form.
	Version string

	// BaseBuild is the build number used to select a decode schema; it may
	// differ from Build on patches that don't change the wire protocol.
	BaseBuild int

	// Build is the exact build number the replay was recorded with.
	Build int

	// ElapsedLoops is the replay's length in gameloops.
	ElapsedLoops repcore.Loop
}

// Duration returns the game duration.
func (h *Header) Duration() time.Duration {
	return h.ElapsedLoops.Duration()
}

// Player represents one player of the game, taken from the game details
// roster. It is not merged with the init-data lobby roster or the
// attributes events.
type Player struct {
	// UserID identifies the player within the event streams (the value
	// carried by each event's optional user id field).
	UserID int64

	// Name of the player.
	Name string

	// RawName is the undecoded Name data, kept distinct from Name in case
	// future normalization (e.g. clan-tag stripping) diverges from it.
	RawName string

	// Race of the player.
	Race *repcore.Race

	// RawRace is the undecoded race string as it appeared in the replay.
	RawRace string

	// Team of the player; 0 if unknown.
	Team int

	// Result of the player, if the replay records one.
	Result *repcore.Result

	// Observer tells if this entry is a spectator rather than a
	// participant; this is a derived property, not a stored one.
	Observer bool
}

// Details models the one-shot "replay.details" member file: overall game
// metadata and the player roster in replay order.
type Details struct {
	// Title is the game name / lobby title.
	Title string

	// RawTitle is the undecoded Title data.
	RawTitle string

	// MapFileSyncChecksum is the checksum consumers use to verify they
	// have the matching map file.
	MapFileSyncChecksum uint32

	// TimeUTC is the timestamp when the game was saved.
	TimeUTC time.Time

	// IsBlizzardMap tells if the map is an official Blizzard map.
	IsBlizzardMap bool

	// Players contains the players in the order recorded in the replay.
	Players []*Player
}

// Matchup returns the matchup, the race letters of players in recorded
// order, inserting 'v' between different teams, e.g. "PvT" or "PTZvZTP".
// Observers are excluded.
func (d *Details) Matchup() string {
	m := make([]rune, 0, 9)
	first, prevTeam := true, 0
	for _, p := range d.Players {
		if p.Observer {
			continue
		}
		if !first && p.Team != prevTeam {
			m = append(m, 'v')
		}
		m = append(m, p.Race.Letter)
		first, prevTeam = false, p.Team
	}
	return string(m)
}

// PlayerNames returns a comma separated list of player names in recorded
// order, inserting " VS " between different teams.
func (d *Details) PlayerNames() string {
	buf := &strings.Builder{}
	prevTeam := 0
	for i, p := range d.Players {
		if i > 0 {
			if p.Team != prevTeam {
				buf.WriteString(" VS ")
			} else {
				buf.WriteString(", ")
			}
		}
		buf.WriteString(p.Name)
		prevTeam = p.Team
	}
	return buf.String()
}

// MapSize is a placeholder formatter kept for parity with consumers that
// expect a human-readable map descriptor; SC2 replays don't carry map
// tile dimensions the way the older replay format did, so this reports
// the sync checksum instead.
func (d *Details) MapSize() string {
	return fmt.Sprintf("checksum=%08x", d.MapFileSyncChecksum)
}

// InitData models the one-shot "replay.initData" member file: the lobby
// state as synced at game start, before any player actions.
type InitData struct {
	LobbyState *LobbyState
}

// LobbyState is the synced lobby roster and configuration at game start.
type LobbyState struct {
	// Users are the lobby slots in join order; this predates and may
	// differ in count from Details.Players (observers join the lobby too).
	Users []*InitDataUser

	// MaxUsers is the lobby's configured player capacity.
	MaxUsers int
}

// InitDataUser is one lobby slot's data as synced at game start.
type InitDataUser struct {
	// Name of the user, as joined the lobby.
	Name string

	// CombinedRaceLevels is the user's packed per-race ladder level data.
	CombinedRaceLevels int64

	// HighestLeague is the user's highest ranked-ladder league.
	HighestLeague int
}
