// This file contains the fixed-layout records the game exports into its own
// address space, and the snapshot type assembled from them.
//
// Field order and widths mirror the game's in-memory layout exactly
// (spec.md §3); decode.go in this package reads these at explicit offsets rather than
// relying on Go struct layout, since Go does not guarantee C-compatible
// padding (see DESIGN.md).

package ddmodel

import (
	"time"

	"github.com/ddstats/ddcore/ddbyte"
)

const (
	// BlockMarker is the literal ASCII prefix of a live StatsDataBlock.
	BlockMarker = "__ddstats__"

	// EnemyCount is the number of tracked enemy kinds in the per-enemy
	// alive/kill arrays.
	EnemyCount = 17

	// ReplayFlagOffset and ReplayLenOffset are the fixed byte offsets of the
	// injection control fields from the start of a StatsDataBlock
	// (spec.md §3, §6: "the replay length field sits at offset 312 ... and
	// the replay flag byte at offset 316").
	ReplayLenOffset  = 312
	ReplayFlagOffset = 316

	// StatsDataBlockMinSize is the exact wire size of the StatsDataBlock
	// through replay_flag, derived field-by-field from spec.md §3 with the
	// game's natural C struct alignment rules applied (each scalar field
	// aligned to its own size, byte arrays aligned to 1): a single implicit
	// 1-byte alignment gap follows the 11-byte marker (to align the
	// following i32 to 4 bytes) in addition to the three explicit padding
	// groups the spec calls out. This reconciles with the two stated
	// anchors in spec.md §3 (replay length at +312, replay flag at +316) —
	// see DESIGN.md. Builds that also expose time_attack_or_race_finished
	// and game_mode (spec.md §4.T) extend the block to StatsDataBlockSize.
	StatsDataBlockMinSize = 317
	StatsDataBlockSize    = 324

	// StatsFrameSize is the exact wire size of StatsFrame: 11 i32 fields
	// (44 bytes) plus two [17]i16 arrays (34 bytes each).
	StatsFrameSize = 112
)

// StatsDataBlock is the fixed-layout binary record the game writes into its
// own address space. Field order matches spec.md §3 exactly.
type StatsDataBlock struct {
	Marker [11]byte // literal "__ddstats__"

	Version    int32
	PlayerID   int32
	PlayerName [32]byte
	Time       float32

	GemsCollected int32
	Kills         int32
	DaggersFired  int32
	DaggersHit    int32
	EnemiesAlive  int32
	LevelGems     int32
	Homing        int32
	GemsDespawned int32
	GemsEaten     int32
	GemsTotal     int32
	DaggersEaten  int32

	PerEnemyAliveCount [EnemyCount]int16
	PerEnemyKillCount  [EnemyCount]int16

	IsPlayerAlive bool
	IsReplay      bool
	DeathType     byte
	IsInGame      bool

	ReplayPlayerID   int32
	ReplayPlayerName [32]byte

	SurvivalMD5 [16]byte

	TimeLvl2     float32
	TimeLvl3     float32
	TimeLvl4     float32
	LeviDownTime float32
	OrbDownTime  float32

	Status int32

	MaxHoming          int32
	TimeMaxHoming      float32
	EnemiesAliveMax    int32
	TimeEnemiesAliveMax float32
	TimeMax            float32

	// 4 bytes padding follow in the wire format; not represented as a field.

	StatsBase uint64 // pointer to the StatsFrame array

	StatsFramesLoaded    int32
	StatsFinishedLoading bool
	// 3 bytes padding

	StartingHand     int32
	StartingHoming   int32
	StartingTime     float32
	ProhibitedMods   bool
	// 3 bytes padding

	ReplayBase          uint64 // pointer to the replay byte buffer
	ReplayBufferLength  int32
	ReplayFlag          bool

	// Supplemented from original_source/src/models/mod.rs: present in the
	// original block layout but only implied by spec.md's submission
	// caveat (§4.T). Carried as a model field so the Linux override has
	// something concrete to force false.
	TimeAttackOrRaceFinished bool
	GameMode                 int32
}

// PlayerNameString returns the null-terminated player name.
func (b *StatsDataBlock) PlayerNameString() string {
	return ddbyte.CString(b.PlayerName[:])
}

// ReplayPlayerNameString returns the null-terminated replay player name.
func (b *StatsDataBlock) ReplayPlayerNameString() string {
	return ddbyte.CString(b.ReplayPlayerName[:])
}

// LevelHash returns the survival MD5 as 32 upper-case hex characters
// (spec.md §8).
func (b *StatsDataBlock) LevelHash() string {
	return ddbyte.EncodeHexUpper(b.SurvivalMD5[:])
}

// StatsPointer returns StatsBase as a little-endian address
// (spec.md §8: "get_stats_pointer ... treat their 8-byte fields as
// little-endian integers").
func (b *StatsDataBlock) StatsPointer() uint64 {
	return b.StatsBase
}

// ReplayPointer returns ReplayBase as a little-endian address.
func (b *StatsDataBlock) ReplayPointer() uint64 {
	return b.ReplayBase
}

// StatusValue returns the decoded Status enum.
func (b *StatsDataBlock) StatusValue() *Status {
	return StatusByID(b.Status)
}

// DeathTypeValue returns the decoded DeathType enum.
func (b *StatsDataBlock) DeathTypeValue() *DeathType {
	return DeathTypeByID(b.DeathType)
}

// GameModeValue returns the decoded GameMode enum.
func (b *StatsDataBlock) GameModeValue() *GameMode {
	return GameModeByID(b.GameMode)
}

// StartTime returns the block's elapsed run time (Time, in seconds) as a
// time.Duration.
func (b *StatsDataBlock) StartTime() time.Duration {
	return time.Duration(b.Time * float32(time.Second))
}

// StatsFrame is one per-frame record from the game's live frame buffer.
// Field order matches spec.md §3 exactly.
type StatsFrame struct {
	GemsCollected int32
	Kills         int32
	DaggersFired  int32
	DaggersHit    int32
	EnemiesAlive  int32
	LevelGems     int32
	Homing        int32
	GemsDespawned int32
	GemsEaten     int32
	GemsTotal     int32
	DaggersEaten  int32

	PerEnemyAliveCount [EnemyCount]int16
	PerEnemyKillCount  [EnemyCount]int16
}

// StatsBlockWithFrames is the snapshot returned to callers of the memory
// engine: one StatsDataBlock plus its materialized frame vector.
//
// Invariant: len(Frames) == Block.StatsFramesLoaded (spec.md §8).
type StatsBlockWithFrames struct {
	Block  *StatsDataBlock
	Frames []StatsFrame
}
