// This file contains general enum types.

package repcore

import "fmt"

// Enum is the base / common part of enum types.
type Enum struct {
	// Name of the entity
	Name string
}

// String returns the string representation of the enum (the name).
// Defined with value receiver so this gets called even if a non-pointer is used.
func (e Enum) String() string {
	return e.Name
}

// UnknownEnum constructs a new Enum for an unknown entity with a name:
//
//	"Unknown 0xID"
//
// ID must be an integer number.
func UnknownEnum(ID any) Enum {
	return Enum{fmt.Sprintf("Unknown 0x%x", ID)}
}

// Race describes a player's race. SC2 replays store the race as a
// fourcc-like string (e.g. "Zerg", "Terr", "Prot", "Rand") rather than a
// small integer id, unlike the older StarCraft replay format.
type Race struct {
	Enum

	// RawName is the undecoded race string as it appears in the replay.
	RawName string

	// Letter is the single-letter abbreviation used in a Matchup string.
	Letter rune
}

// Races is an enumeration of the possible races.
var Races = []*Race{
	{Enum{"Zerg"}, "Zerg", 'Z'},
	{Enum{"Terran"}, "Terr", 'T'},
	{Enum{"Protoss"}, "Prot", 'P'},
	{Enum{"Random"}, "Rand", 'R'},
}

// Named races.
var (
	RaceZerg    = Races[0]
	RaceTerran  = Races[1]
	RaceProtoss = Races[2]
	RaceRandom  = Races[3]
)

// RaceByName returns the Race for a given raw race string. A new Race with
// an Unknown name is returned if one is not found, preserving the raw
// string.
func RaceByName(rawName string) *Race {
	for _, r := range Races {
		if r.RawName == rawName {
			return r
		}
	}
	return &Race{UnknownEnum(rawName), rawName, 'U'}
}

// Result describes a player's outcome, decoded from the details event's
// per-player result field.
type Result struct {
	Enum

	// ID as it appears in the details struct.
	ID int64
}

// Results is an enumeration of the possible player results.
var Results = []*Result{
	{Enum{"Unknown"}, 0},
	{Enum{"Victory"}, 1},
	{Enum{"Defeat"}, 2},
	{Enum{"Tie"}, 3},
}

// Named results.
var (
	ResultUnknown = Results[0]
	ResultVictory = Results[1]
	ResultDefeat  = Results[2]
	ResultTie     = Results[3]
)

// ResultByID returns the Result for a given id. A new Result with an
// Unknown name is returned if one is not found, preserving the id.
func ResultByID(id int64) *Result {
	for _, r := range Results {
		if r.ID == id {
			return r
		}
	}
	return &Result{UnknownEnum(id), id}
}
