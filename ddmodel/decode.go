// This file decodes StatsDataBlock and StatsFrame from raw bytes read out of
// the game's address space.
//
// Design Notes (spec.md §9) calls for "zero-copy struct reads" assuming
// 4-byte natural alignment and little-endian encoding. Go gives no
// guarantee that a struct overlaid with unsafe.Pointer reproduces the
// source's C-compatible field offsets (the game's own struct mixes 1-, 2-,
// 4- and 8-byte alignment groups, including one implicit alignment gap
// right after the 11-byte marker). Rather than rely on unsafe struct
// casting, this decoder walks the byte slice at the explicit offsets below,
// which is the offset table the 312/316 injection anchors in spec.md §3/§6
// were checked against (see DESIGN.md).

package ddmodel

import "github.com/ddstats/ddcore/ddbyte"

// Byte offsets of every StatsDataBlock field, in declared order.
const (
	offMarker       = 0
	offVersion      = 12 // 1-byte alignment gap after the 11-byte marker
	offPlayerID     = 16
	offPlayerName   = 20
	offTime         = 52

	offGemsCollected = 56
	offKills         = 60
	offDaggersFired  = 64
	offDaggersHit    = 68
	offEnemiesAlive  = 72
	offLevelGems     = 76
	offHoming        = 80
	offGemsDespawned = 84
	offGemsEaten     = 88
	offGemsTotal     = 92
	offDaggersEaten  = 96

	offPerEnemyAliveCount = 100
	offPerEnemyKillCount  = 134

	offIsPlayerAlive = 168
	offIsReplay      = 169
	offDeathType     = 170
	offIsInGame      = 171

	offReplayPlayerID   = 172
	offReplayPlayerName = 176

	offSurvivalMD5 = 208

	offTimeLvl2     = 224
	offTimeLvl3     = 228
	offTimeLvl4     = 232
	offLeviDownTime = 236
	offOrbDownTime  = 240

	offStatus = 244

	offMaxHoming           = 248
	offTimeMaxHoming       = 252
	offEnemiesAliveMax     = 256
	offTimeEnemiesAliveMax = 260
	offTimeMax             = 264

	// 4 bytes padding at 268..272

	offStatsBase = 272

	offStatsFramesLoaded    = 280
	offStatsFinishedLoading = 284
	// 3 bytes padding at 285..288

	offStartingHand   = 288
	offStartingHoming = 292
	offStartingTime   = 296
	offProhibitedMods = 300
	// 3 bytes padding at 301..304

	offReplayBase         = 304
	offReplayBufferLength = ReplayLenOffset  // 312
	offReplayFlag         = ReplayFlagOffset // 316

	// Fields appended beyond the game's originally-documented layout, per
	// the submission caveat in spec.md §4.T/§9 ("time_attack_or_race_finished
	// field"). Populated only when the block is long enough to carry them
	// (older client builds omit both) — see DecodeStatsDataBlock.
	offTimeAttackOrRaceFinished = 317
	offGameMode                 = 320 // i32, aligned; 2-byte gap after the bool at 317..320
)

// DecodeStatsDataBlock parses a raw StatsDataBlock read from the game's
// address space. Returns ErrMarkerMismatch if the first 11 bytes are not
// the literal ASCII "__ddstats__" (spec.md §8: "Block marker check: for all
// successful reads, the first 11 bytes equal ASCII __ddstats__").
func DecodeStatsDataBlock(b []byte) (*StatsDataBlock, error) {
	if len(b) < StatsDataBlockMinSize {
		return nil, ErrTruncatedBlock
	}

	var out StatsDataBlock
	copy(out.Marker[:], b[offMarker:offMarker+11])
	if string(out.Marker[:]) != BlockMarker {
		return nil, ErrMarkerMismatch
	}

	out.Version = ddbyte.ReadLEInt32(b, offVersion)
	out.PlayerID = ddbyte.ReadLEInt32(b, offPlayerID)
	copy(out.PlayerName[:], b[offPlayerName:offPlayerName+32])
	out.Time = ddbyte.ReadLEFloat32(b, offTime)

	out.GemsCollected = ddbyte.ReadLEInt32(b, offGemsCollected)
	out.Kills = ddbyte.ReadLEInt32(b, offKills)
	out.DaggersFired = ddbyte.ReadLEInt32(b, offDaggersFired)
	out.DaggersHit = ddbyte.ReadLEInt32(b, offDaggersHit)
	out.EnemiesAlive = ddbyte.ReadLEInt32(b, offEnemiesAlive)
	out.LevelGems = ddbyte.ReadLEInt32(b, offLevelGems)
	out.Homing = ddbyte.ReadLEInt32(b, offHoming)
	out.GemsDespawned = ddbyte.ReadLEInt32(b, offGemsDespawned)
	out.GemsEaten = ddbyte.ReadLEInt32(b, offGemsEaten)
	out.GemsTotal = ddbyte.ReadLEInt32(b, offGemsTotal)
	out.DaggersEaten = ddbyte.ReadLEInt32(b, offDaggersEaten)

	decodeEnemyCounts(&out.PerEnemyAliveCount, b, offPerEnemyAliveCount)
	decodeEnemyCounts(&out.PerEnemyKillCount, b, offPerEnemyKillCount)

	out.IsPlayerAlive = b[offIsPlayerAlive] != 0
	out.IsReplay = b[offIsReplay] != 0
	out.DeathType = b[offDeathType]
	out.IsInGame = b[offIsInGame] != 0

	out.ReplayPlayerID = ddbyte.ReadLEInt32(b, offReplayPlayerID)
	copy(out.ReplayPlayerName[:], b[offReplayPlayerName:offReplayPlayerName+32])

	copy(out.SurvivalMD5[:], b[offSurvivalMD5:offSurvivalMD5+16])

	out.TimeLvl2 = ddbyte.ReadLEFloat32(b, offTimeLvl2)
	out.TimeLvl3 = ddbyte.ReadLEFloat32(b, offTimeLvl3)
	out.TimeLvl4 = ddbyte.ReadLEFloat32(b, offTimeLvl4)
	out.LeviDownTime = ddbyte.ReadLEFloat32(b, offLeviDownTime)
	out.OrbDownTime = ddbyte.ReadLEFloat32(b, offOrbDownTime)

	out.Status = ddbyte.ReadLEInt32(b, offStatus)

	out.MaxHoming = ddbyte.ReadLEInt32(b, offMaxHoming)
	out.TimeMaxHoming = ddbyte.ReadLEFloat32(b, offTimeMaxHoming)
	out.EnemiesAliveMax = ddbyte.ReadLEInt32(b, offEnemiesAliveMax)
	out.TimeEnemiesAliveMax = ddbyte.ReadLEFloat32(b, offTimeEnemiesAliveMax)
	out.TimeMax = ddbyte.ReadLEFloat32(b, offTimeMax)

	out.StatsBase = ddbyte.ReadLEUint64(b, offStatsBase)

	out.StatsFramesLoaded = ddbyte.ReadLEInt32(b, offStatsFramesLoaded)
	out.StatsFinishedLoading = b[offStatsFinishedLoading] != 0

	out.StartingHand = ddbyte.ReadLEInt32(b, offStartingHand)
	out.StartingHoming = ddbyte.ReadLEInt32(b, offStartingHoming)
	out.StartingTime = ddbyte.ReadLEFloat32(b, offStartingTime)
	out.ProhibitedMods = b[offProhibitedMods] != 0

	out.ReplayBase = ddbyte.ReadLEUint64(b, offReplayBase)
	out.ReplayBufferLength = ddbyte.ReadLEInt32(b, offReplayBufferLength)
	out.ReplayFlag = b[offReplayFlag] != 0

	if len(b) >= offGameMode+4 {
		out.TimeAttackOrRaceFinished = b[offTimeAttackOrRaceFinished] != 0
		out.GameMode = ddbyte.ReadLEInt32(b, offGameMode)
	}

	return &out, nil
}

func decodeEnemyCounts(dst *[EnemyCount]int16, b []byte, off int) {
	for i := 0; i < EnemyCount; i++ {
		dst[i] = ddbyte.ReadLEInt16(b, off+i*2)
	}
}

// DecodeStatsFrame parses one StatsFrame record.
func DecodeStatsFrame(b []byte) (StatsFrame, error) {
	if len(b) < StatsFrameSize {
		return StatsFrame{}, ErrTruncatedFrame
	}

	var f StatsFrame
	f.GemsCollected = ddbyte.ReadLEInt32(b, 0)
	f.Kills = ddbyte.ReadLEInt32(b, 4)
	f.DaggersFired = ddbyte.ReadLEInt32(b, 8)
	f.DaggersHit = ddbyte.ReadLEInt32(b, 12)
	f.EnemiesAlive = ddbyte.ReadLEInt32(b, 16)
	f.LevelGems = ddbyte.ReadLEInt32(b, 20)
	f.Homing = ddbyte.ReadLEInt32(b, 24)
	f.GemsDespawned = ddbyte.ReadLEInt32(b, 28)
	f.GemsEaten = ddbyte.ReadLEInt32(b, 32)
	f.GemsTotal = ddbyte.ReadLEInt32(b, 36)
	f.DaggersEaten = ddbyte.ReadLEInt32(b, 40)
	decodeEnemyCounts(&f.PerEnemyAliveCount, b, 44)
	decodeEnemyCounts(&f.PerEnemyKillCount, b, 44+34)

	return f, nil
}
