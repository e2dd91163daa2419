// This file contains the spawnset record types (spec.md §3 "Spawnset<E>").

package ddspawnset

const (
	// ArenaSide is the heightmap's square side length.
	ArenaSide = 51

	// HeaderSize, SpawnsHeaderSize and SpawnSize are the exact wire sizes
	// of the fixed-layout sections, derived from original_source's
	// src/models/spawnset.rs struct definitions.
	HeaderSize       = 36
	ArenaSize        = ArenaSide * ArenaSide * 4
	SpawnsHeaderSize = 40
	SpawnSize        = 28
)

// Header is the fixed spawnset header.
type Header struct {
	SpawnVersion       int32
	WorldVersion       int32
	ShrinkEndRadius    float32
	ShrinkStartRadius  float32
	ShrinkRate         float32
	Brightness         float32
	GameMode           int32
	reserved1          uint32
	reserved2          uint32
}

// DefaultHeader returns the game's default header values
// (original_source/src/models/spawnset.rs Header::default).
func DefaultHeader() Header {
	return Header{
		SpawnVersion:      6,
		WorldVersion:      9,
		ShrinkEndRadius:   20,
		ShrinkStartRadius: 50,
		ShrinkRate:        0.025,
		Brightness:        60,
		GameMode:          0,
		reserved1:         51,
		reserved2:         1,
	}
}

// Arena is the 51x51 float heightmap.
type Arena struct {
	Data [ArenaSide * ArenaSide]float32
}

// Tile returns the heightmap value at (x, y).
func (a *Arena) Tile(x, y uint16) float32 {
	return a.Data[uint32(y)*ArenaSide+uint32(x)]
}

// SetTile sets the heightmap value at (x, y).
func (a *Arena) SetTile(x, y uint16, v float32) {
	a.Data[uint32(y)*ArenaSide+uint32(x)] = v
}

// DefaultArena returns an arena filled with -1000.0, the game's default
// (original_source/src/models/spawnset.rs Arena::default; also exercised by
// spec.md §8 scenario 2: "arena filled with -1000.0").
func DefaultArena() Arena {
	var a Arena
	for i := range a.Data {
		a.Data[i] = -1000.0
	}
	return a
}

// SpawnsHeader precedes the variable-length spawn table.
type SpawnsHeader struct {
	reserved1       uint32
	reserved2       uint32
	reserved3       uint32
	reserved4       uint32
	DevilDaggerTime int32
	GoldDaggerTime  int32
	SilverDaggerTime int32
	BronzeDaggerTime int32
	reserved5       uint32
	SpawnCount      int32
}

// DefaultSpawnsHeader returns the game's default spawns header values.
func DefaultSpawnsHeader() SpawnsHeader {
	return SpawnsHeader{
		DevilDaggerTime:  500,
		GoldDaggerTime:   250,
		SilverDaggerTime: 120,
		BronzeDaggerTime: 60,
		SpawnCount:       0,
		reserved4:        1,
	}
}

// Spawn is one entry of the spawn schedule.
// {enemy_type: i32, delay: f32, five reserved u32s} totaling 28 bytes
// (spec.md §4.S).
type Spawn[E EnemyTag] struct {
	EnemyType E
	Delay     float32
	reserved1 uint32
	reserved2 uint32
	reserved3 uint32
	reserved4 uint32
	reserved5 uint32
}

// Settings is present when header.spawn_version >= 5; its TimerStart
// subfield is present only when spawn_version >= 6 (spec.md §3, §8).
type Settings struct {
	InitialHand     byte
	AdditionalGems  int32
	TimerStart      *float32
}

// Spawnset is the full level definition (spec.md §3).
//
// Invariant: after mutation, SpawnsHeader.SpawnCount must equal
// len(Spawns); RecalculateSpawnCount restores it.
type Spawnset[E EnemyTag] struct {
	Header       Header
	Arena        Arena
	SpawnsHeader SpawnsHeader
	Spawns       []Spawn[E]
	Settings     *Settings
}

// RecalculateSpawnCount restores the SpawnsHeader.SpawnCount invariant.
func (s *Spawnset[E]) RecalculateSpawnCount() {
	s.SpawnsHeader.SpawnCount = int32(len(s.Spawns))
}
