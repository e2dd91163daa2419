// This file contains the enum types shared across the ddstats data model.

package ddmodel

import "fmt"

// Enum is the base / common part of enum types.
type Enum struct {
	// Name of the entity
	Name string
}

// String returns the string representation of the enum (the name).
// Defined with a value receiver so this gets called even if a non-pointer is used.
func (e Enum) String() string {
	return e.Name
}

// UnknownEnum constructs a new Enum for an unknown ID with a name:
//
//	"Unknown 0xID"
func UnknownEnum(id any) Enum {
	return Enum{fmt.Sprintf("Unknown 0x%x", id)}
}

// OperatingSystem identifies the platform a client is running on, as
// reported to the submission API.
type OperatingSystem struct {
	Enum

	// ID as it appears on the wire
	ID int32
}

// OperatingSystems is the enumeration of the possible operating systems.
var OperatingSystems = []*OperatingSystem{
	{Enum{"Windows"}, 0},
	{Enum{"Linux"}, 1},
}

// Named operating systems.
var (
	OSWindows = OperatingSystems[0]
	OSLinux   = OperatingSystems[1]
)

// OperatingSystemByID returns the OperatingSystem for a given ID.
func OperatingSystemByID(id int32) *OperatingSystem {
	for _, os := range OperatingSystems {
		if os.ID == id {
			return os
		}
	}
	return &OperatingSystem{UnknownEnum(id), id}
}

// GameMode is the run mode reported by the game.
// Added per original_source/src/models/mod.rs; spec.md's submission caveat
// (§4.T) implies this value without naming the enum explicitly.
type GameMode struct {
	Enum

	ID int32
}

// GameModes is the enumeration of possible game modes.
var GameModes = []*GameMode{
	{Enum{"Survival"}, 0},
	{Enum{"TimeAttack"}, 1},
	{Enum{"Race"}, 2},
}

// Named game modes.
var (
	GameModeSurvival   = GameModes[0]
	GameModeTimeAttack = GameModes[1]
	GameModeRace       = GameModes[2]
)

// GameModeByID returns the GameMode for a given ID.
func GameModeByID(id int32) *GameMode {
	for _, m := range GameModes {
		if m.ID == id {
			return m
		}
	}
	return &GameMode{UnknownEnum(id), id}
}

// Status is the game's coarse play-state, stored in StatsDataBlock.Status.
type Status struct {
	Enum

	ID int32
}

// Statuses is the enumeration of possible statuses, in declared order
// (spec.md §3: "status (i32, value space: Title, Menu, Lobby, Playing,
// Dead, OwnReplayFromLastRun, OwnReplayFromLeaderboard, OtherReplay,
// LocalReplay)").
var Statuses = []*Status{
	{Enum{"Title"}, 0},
	{Enum{"Menu"}, 1},
	{Enum{"Lobby"}, 2},
	{Enum{"Playing"}, 3},
	{Enum{"Dead"}, 4},
	{Enum{"OwnReplayFromLastRun"}, 5},
	{Enum{"OwnReplayFromLeaderboard"}, 6},
	{Enum{"OtherReplay"}, 7},
	{Enum{"LocalReplay"}, 8},
}

// Named statuses.
var (
	StatusTitle                    = Statuses[0]
	StatusMenu                     = Statuses[1]
	StatusLobby                    = Statuses[2]
	StatusPlaying                  = Statuses[3]
	StatusDead                     = Statuses[4]
	StatusOwnReplayFromLastRun     = Statuses[5]
	StatusOwnReplayFromLeaderboard = Statuses[6]
	StatusOtherReplay              = Statuses[7]
	StatusLocalReplay              = Statuses[8]
)

// StatusByID returns the Status for a given ID.
// A new Status with Unknown name is returned if one is not found
// (preserving the unknown ID).
func StatusByID(id int32) *Status {
	for _, s := range Statuses {
		if s.ID == id {
			return s
		}
	}
	return &Status{UnknownEnum(id), id}
}

// DeathType identifies the cause of death recorded in StatsDataBlock.
type DeathType struct {
	Enum

	ID byte
}

// DeathTypes is the enumeration of known death types. The taxonomy itself is
// determined by the game's enemy roster; unknown IDs still decode (see
// DeathTypeByID) so a newer game build never breaks parsing.
var DeathTypes = []*DeathType{
	{Enum{"Fallen"}, 0},
	{Enum{"Swarmed"}, 1},
	{Enum{"Impaled"}, 2},
	{Enum{"Gored"}, 3},
	{Enum{"Infested"}, 4},
	{Enum{"Electrocuted"}, 9},
	{Enum{"Overloaded"}, 10},
	{Enum{"Annihilated"}, 12},
	{Enum{"Intoxicated"}, 13},
}

// DeathTypeByID returns the DeathType for a given ID.
func DeathTypeByID(id byte) *DeathType {
	for _, d := range DeathTypes {
		if d.ID == id {
			return d
		}
	}
	return &DeathType{UnknownEnum(id), id}
}
