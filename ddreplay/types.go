// This file contains the replay domain model (spec.md §4.R), modeled after
// the teacher's rep/repcmd.Cmd interface-plus-concrete-struct idiom: Event
// is a small interface implemented by one concrete struct per opcode.

package ddreplay

import (
	"time"

	"github.com/ddstats/ddcore/ddmodel"
	"github.com/ddstats/ddcore/ddspawnset"
)

// EntityID identifies a replay entity. 0 is reserved ("no entity");
// assignment starts at 1 and increments on every Spawn event.
type EntityID = int32

// EntityType is the wire discriminant of a spawned entity
// (original_source/src/models/replay.rs EntityType).
type EntityType byte

const (
	EntityDagger    EntityType = 0x1
	EntitySquid1    EntityType = 0x3
	EntitySquid2    EntityType = 0x4
	EntitySquid3    EntityType = 0x5
	EntityBoid      EntityType = 0x6 // skulls and spiderlings
	EntityCentipede EntityType = 0x7
	EntitySpider1   EntityType = 0x8
	EntitySpider2   EntityType = 0x9
	EntityEgg       EntityType = 0xA
	EntityLeviathan EntityType = 0xB
	EntityGigapede  EntityType = 0xC
	EntityThorn     EntityType = 0xD
	EntityGhostpede EntityType = 0xF
)

func (t EntityType) String() string {
	switch t {
	case EntityDagger:
		return "Dagger"
	case EntitySquid1:
		return "Squid1"
	case EntitySquid2:
		return "Squid2"
	case EntitySquid3:
		return "Squid3"
	case EntityBoid:
		return "Boid"
	case EntityCentipede:
		return "Centipede"
	case EntitySpider1:
		return "Spider1"
	case EntitySpider2:
		return "Spider2"
	case EntityEgg:
		return "Egg"
	case EntityLeviathan:
		return "Leviathan"
	case EntityGigapede:
		return "Gigapede"
	case EntityThorn:
		return "Thorn"
	case EntityGhostpede:
		return "Ghostpede"
	default:
		return "Unknown"
	}
}

// DaggerLevel is the visual/power tier of a thrown dagger.
type DaggerLevel byte

const (
	DaggerLevel0 DaggerLevel = iota
	DaggerLevel1
	DaggerLevel2
	DaggerLevel3
	DaggerLevel4
	DaggerLevel5
	DaggerLevel6
	DaggerLevel7
)

// BoidType distinguishes skulls from spiderlings within the Boid entity.
type BoidType byte

const (
	BoidSkull1     BoidType = 1
	BoidSkull2     BoidType = 2
	BoidSkull3     BoidType = 3
	BoidSpiderling BoidType = 4
	BoidSkull4     BoidType = 5
)

// JumpButtonState mirrors the 3-value jump input tracked per frame.
type JumpButtonState byte

const (
	JumpNotPressed JumpButtonState = iota
	JumpHeld
	JumpJustPressed
)

// MouseButtonState mirrors the 3-value mouse input tracked per frame.
type MouseButtonState byte

const (
	MouseNotPressed MouseButtonState = iota
	MouseHeld
	MouseReleased
)

// Entity is one spawned object, assigned an ID in spawn order.
type Entity struct {
	ID   EntityID
	Type EntityType
}

// ReplayFrame groups the events that occurred between two EndFrame events.
type ReplayFrame struct {
	Events []Event
}

// ReplayData is the decoded, decompressed event stream common to both the
// legacy (ddrpl.) and modern (DF_RPL2) envelopes.
type ReplayData struct {
	Frames   []ReplayFrame
	Entities []Entity
}

// ExtraData is derived, not wire-read: a simulated homing-gem timeline
// reconstructed by replaying GemPickup/Spawn(Dagger) events against the
// hand-progression rules (spec.md §4.R "Extra-data derivation (ddrpl
// only)"; original_source/src/models/replay.rs:528 DdRpl::create_extra).
type ExtraData struct {
	Homing        []int32
	HomingUsed    []int32
	StartingGems  int32
	StartingHand  byte
	LookSpeed     float32
	Lvl2Time      float32
	Lvl3Time      float32
	Lvl4Time      float32
}

// LegacyHeader is the fixed-format header preceding a "ddrpl." envelope's
// compressed event stream (original_source/src/ddreplay.rs DdRplHeader).
type LegacyHeader struct {
	FileVersion       uint32
	RecordedAt        time.Time
	Time              float32
	StartingTime      float32
	DaggersFired      uint32
	DeathType         int32
	GemsCollected     uint32
	Kills             uint32
	DaggersHit        uint32
	PlayerName        string
	PlayerID          int32
	SpawnsetBin       []byte
	SpawnsetHash      string
	CompressedDataLen uint32
}

// LegacyEpoch is the Unix timestamp the recorded_at field's relative
// seconds count is added to (original_source/src/ddreplay.rs: 1455753600).
func LegacyEpoch() int64 { return 1455753600 }

// ModernHeader precedes a "DF_RPL2" envelope's compressed event stream.
type ModernHeader struct {
	PlayerName string
	FunnyBytes []byte
}

// LegacyReplay is a fully decoded ddrpl. replay.
type LegacyReplay struct {
	Header   LegacyHeader
	Data     *ReplayData
	Extra    *ExtraData
	Spawnset *ddspawnset.Spawnset[ddspawnset.V3]
}

// ModernReplay is a fully decoded DF_RPL2 replay.
type ModernReplay struct {
	Header ModernHeader
	Data   *ReplayData
}

// DeathTypeEnum resolves a LegacyHeader/PlayerDeath death_type discriminant
// against the shared ddmodel taxonomy (spec.md §3 DeathType).
func DeathTypeEnum(deathType int32) *ddmodel.DeathType {
	return ddmodel.DeathTypeByID(byte(deathType))
}
