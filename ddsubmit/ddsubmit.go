// Package ddsubmit assembles a custom-leaderboard submission record from a
// StatsBlockWithFrames snapshot (spec.md §4.T), including the canonical
// validation string and its ddcrypto envelope.
package ddsubmit

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ddstats/ddcore/ddbyte"
	"github.com/ddstats/ddcore/ddcrypto"
	"github.com/ddstats/ddcore/ddmodel"
)

// ErrMissingSecrets is returned when Build is called without a Secrets
// triple (spec.md §7 "MissingSecrets").
var ErrMissingSecrets = errors.New("ddsubmit: missing secrets")

// ErrEmptyReplayBuffer is returned when Build is called with an empty
// replay buffer (spec.md §7 "EmptyReplayBuffer").
var ErrEmptyReplayBuffer = errors.New("ddsubmit: empty replay buffer")

// Secrets is the shared-secret triple used to derive the validation token
// (spec.md §4.C, §4.T).
type Secrets struct {
	Password string
	Salt     string
	IV       string
}

// enemy slot order of PerEnemyAliveCount/PerEnemyKillCount, taken from the
// original submission payload field order (original_source/src/ddinfo/
// ddcl_submit.rs GameState), which spec.md's §4.T "17 enemy slots" assumes
// without naming.
var enemySlotNames = [ddmodel.EnemyCount]string{
	"skull1", "skull2", "skull3", "spiderling", "skull4",
	"squid1", "squid2", "squid3",
	"centipede", "gigapede",
	"spider1", "spider2",
	"leviathan", "orb", "thorn", "ghostpede", "spiderEgg",
}

// GameState is the per-frame series assembled across snapshot.Frames
// (spec.md §4.T step 1).
type GameState struct {
	GemsCollected []int32 `json:"gemsCollected"`
	EnemiesKilled []int32 `json:"enemiesKilled"`
	DaggersFired  []int32 `json:"daggersFired"`
	DaggersHit    []int32 `json:"daggersHit"`
	EnemiesAlive  []int32 `json:"enemiesAlive"`
	HomingDaggers []int32 `json:"homingDaggers"`
	HomingDaggersEaten []int32 `json:"homingDaggersEaten"`
	GemsDespawned []int32 `json:"gemsDespawned"`
	GemsEaten     []int32 `json:"gemsEaten"`
	GemsTotal     []int32 `json:"gemsTotal"`

	EnemiesAliveBySlot  [ddmodel.EnemyCount][]int32
	EnemiesKilledBySlot [ddmodel.EnemyCount][]int32
}

// MarshalJSON emits GameState's 10 aggregate series plus the 34
// individually-named per-slot fields (skull1sAlive...spiderEggsKilled) that
// original_source/src/ddinfo/ddcl_submit.rs's GameState puts on the wire.
// Field names are derived from EnemySlotName rather than hand-duplicated, so
// a slot rename in enemySlotNames can't drift out of sync with the JSON body
// submitted to api/custom-entries/submit.
func (gs GameState) MarshalJSON() ([]byte, error) {
	wire := map[string]interface{}{
		"gemsCollected":      gs.GemsCollected,
		"enemiesKilled":      gs.EnemiesKilled,
		"daggersFired":       gs.DaggersFired,
		"daggersHit":         gs.DaggersHit,
		"enemiesAlive":       gs.EnemiesAlive,
		"homingDaggers":      gs.HomingDaggers,
		"homingDaggersEaten": gs.HomingDaggersEaten,
		"gemsDespawned":      gs.GemsDespawned,
		"gemsEaten":          gs.GemsEaten,
		"gemsTotal":          gs.GemsTotal,
	}
	for slot := 0; slot < ddmodel.EnemyCount; slot++ {
		name := EnemySlotName(slot)
		if name == "" {
			continue
		}
		wire[name+"sAlive"] = gs.EnemiesAliveBySlot[slot]
		wire[name+"sKilled"] = gs.EnemiesKilledBySlot[slot]
	}
	return json.Marshal(wire)
}

// SubmitRunRequest is the JSON body posted to api/custom-entries/submit
// (spec.md §4.T step 5, §6).
type SubmitRunRequest struct {
	SurvivalHashMD5 string `json:"survivalHashMd5"`
	PlayerID        int32  `json:"playerId"`
	PlayerName      string `json:"playerName"`
	Time            int32  `json:"time"`

	GemsCollected      int32 `json:"gemsCollected"`
	EnemiesKilled      int32 `json:"enemiesKilled"`
	DaggersFired       int32 `json:"daggersFired"`
	DaggersHit         int32 `json:"daggersHit"`
	EnemiesAlive       int32 `json:"enemiesAlive"`
	HomingDaggers      int32 `json:"homingDaggers"`
	HomingDaggersEaten int32 `json:"homingDaggersEaten"`
	GemsDespawned      int32 `json:"gemsDespawned"`
	GemsEaten          int32 `json:"gemsEaten"`
	GemsTotal          int32 `json:"gemsTotal"`
	DeathType          byte  `json:"deathType"`

	LevelUpTime2 int32 `json:"levelUpTime2"`
	LevelUpTime3 int32 `json:"levelUpTime3"`
	LevelUpTime4 int32 `json:"levelUpTime4"`

	ClientVersion   string `json:"clientVersion"`
	OperatingSystem int32  `json:"operatingSystem"`
	BuildMode       string `json:"buildMode"`
	Client          string `json:"client"`
	Validation      string `json:"validation"`

	IsReplay       bool `json:"isReplay"`
	ProhibitedMods bool `json:"prohibitedMods"`

	GameData GameState `json:"gameData"`

	Status         int32  `json:"status"`
	ReplayData     string `json:"replayData"`
	ReplayPlayerID int32  `json:"replayPlayerId"`
	GameMode       int32  `json:"gameMode"`

	// Platform caveat (spec.md §4.T step 5): forced false on Linux targets
	// regardless of the in-block value. The field is kept under its game
	// name rather than removed; see DESIGN.md.
	TimeAttackOrRaceFinished bool `json:"timeAttackOrRaceFinished"`
}

// buildGameState assembles the per-frame series (spec.md §4.T step 1).
func buildGameState(frames []ddmodel.StatsFrame) GameState {
	gs := GameState{}
	for _, f := range frames {
		gs.GemsCollected = append(gs.GemsCollected, f.GemsCollected)
		gs.EnemiesKilled = append(gs.EnemiesKilled, f.Kills)
		gs.DaggersFired = append(gs.DaggersFired, f.DaggersFired)
		gs.DaggersHit = append(gs.DaggersHit, f.DaggersHit)
		gs.EnemiesAlive = append(gs.EnemiesAlive, f.EnemiesAlive)
		gs.HomingDaggers = append(gs.HomingDaggers, f.Homing)
		gs.HomingDaggersEaten = append(gs.HomingDaggersEaten, f.DaggersEaten)
		gs.GemsDespawned = append(gs.GemsDespawned, f.GemsDespawned)
		gs.GemsEaten = append(gs.GemsEaten, f.GemsEaten)
		gs.GemsTotal = append(gs.GemsTotal, f.GemsTotal)

		for slot := 0; slot < ddmodel.EnemyCount; slot++ {
			gs.EnemiesAliveBySlot[slot] = append(gs.EnemiesAliveBySlot[slot], int32(f.PerEnemyAliveCount[slot]))
			gs.EnemiesKilledBySlot[slot] = append(gs.EnemiesKilledBySlot[slot], int32(f.PerEnemyKillCount[slot]))
		}
	}
	return gs
}

// timeAsInt floors time*10000 (spec.md §4.T step 3, "floor").
func timeAsInt(t float32) int32 {
	return int32(t * 10000)
}

// validationString composes the canonical `;`-joined string
// (spec.md §4.T step 3, grounded on original_source/src/ddinfo/
// ddcl_submit.rs's `to_encrypt` vector, field-for-field).
func validationString(block *ddmodel.StatsDataBlock, last ddmodel.StatsFrame) string {
	isReplay := "0"
	if block.IsReplay {
		isReplay = "1"
	}

	parts := []string{
		strconv.Itoa(int(block.PlayerID)),
		strconv.Itoa(int(timeAsInt(block.Time))),
		strconv.Itoa(int(last.GemsCollected)),
		strconv.Itoa(int(last.GemsDespawned)),
		strconv.Itoa(int(last.GemsEaten)),
		strconv.Itoa(int(last.GemsTotal)),
		strconv.Itoa(int(last.Kills)),
		strconv.Itoa(int(block.DeathType)),
		strconv.Itoa(int(last.DaggersHit)),
		strconv.Itoa(int(last.DaggersFired)),
		strconv.Itoa(int(last.EnemiesAlive)),
		strconv.Itoa(int(last.Homing)),
		strconv.Itoa(int(last.DaggersEaten)),
		isReplay,
		ddbyte.EncodeHexUpper(block.SurvivalMD5[:]),
		strings.Join([]string{
			strconv.Itoa(int(timeAsInt(block.TimeLvl2))),
			strconv.Itoa(int(timeAsInt(block.TimeLvl3))),
			strconv.Itoa(int(timeAsInt(block.TimeLvl4))),
		}, ","),
	}

	return strings.Join(parts, ";")
}

// BuildValidationToken runs the full §4.C chain over the canonical string
// and strips `=` padding (spec.md §4.T step 4).
func BuildValidationToken(block *ddmodel.StatsDataBlock, last ddmodel.StatsFrame, secrets Secrets) (string, error) {
	key := ddcrypto.DeriveKey([]byte(secrets.Password), []byte(secrets.Salt))
	ciphertext, err := ddcrypto.EncryptCBC([]byte(validationString(block, last)), key[:], []byte(secrets.IV))
	if err != nil {
		return "", fmt.Errorf("ddsubmit: %w", err)
	}
	token := ddcrypto.EncodeToken(ciphertext)
	return strings.ReplaceAll(token, "=", ""), nil
}

// Platform distinguishes the Linux submission caveat (spec.md §4.T step 5)
// from every other target, without ddsubmit depending on ddmem.
type Platform int32

const (
	PlatformWindows Platform = 0
	PlatformLinux   Platform = 1
)

// Build assembles a complete SubmitRunRequest (spec.md §4.T).
func Build(
	snapshot *ddmodel.StatsBlockWithFrames,
	platform Platform,
	client, clientVersion string,
	replay []byte,
	secrets Secrets,
) (*SubmitRunRequest, error) {
	if len(replay) == 0 {
		return nil, ErrEmptyReplayBuffer
	}
	if secrets == (Secrets{}) {
		return nil, ErrMissingSecrets
	}
	if len(snapshot.Frames) == 0 {
		return nil, fmt.Errorf("ddsubmit: snapshot has no frames")
	}

	block := snapshot.Block
	last := snapshot.Frames[len(snapshot.Frames)-1]

	validation, err := BuildValidationToken(block, last, secrets)
	if err != nil {
		return nil, err
	}

	timeAttackOrRaceFinished := block.TimeAttackOrRaceFinished
	if platform == PlatformLinux {
		// spec.md §4.T step 5: "on Linux targets the
		// time_attack_or_race_finished field is forced to false
		// regardless of the in-block value".
		timeAttackOrRaceFinished = false
	}

	return &SubmitRunRequest{
		SurvivalHashMD5: base64.StdEncoding.EncodeToString(block.SurvivalMD5[:]),
		PlayerID:        block.PlayerID,
		PlayerName:      block.PlayerNameString(),
		Time:            timeAsInt(block.Time),

		GemsCollected:      last.GemsCollected,
		EnemiesKilled:      last.Kills,
		DaggersFired:       last.DaggersFired,
		DaggersHit:         last.DaggersHit,
		EnemiesAlive:       last.EnemiesAlive,
		HomingDaggers:      last.Homing,
		HomingDaggersEaten: last.DaggersEaten,
		GemsDespawned:      last.GemsDespawned,
		GemsEaten:          last.GemsEaten,
		GemsTotal:          last.GemsTotal,
		DeathType:          block.DeathType,

		LevelUpTime2: timeAsInt(block.TimeLvl2),
		LevelUpTime3: timeAsInt(block.TimeLvl3),
		LevelUpTime4: timeAsInt(block.TimeLvl4),

		ClientVersion:   clientVersion,
		OperatingSystem: int32(platform),
		BuildMode:       "Release",
		Client:          client,
		Validation:      validation,

		IsReplay:       block.IsReplay,
		ProhibitedMods: block.ProhibitedMods,

		GameData: buildGameState(snapshot.Frames),

		Status:         block.Status,
		ReplayData:     base64.StdEncoding.EncodeToString(replay),
		ReplayPlayerID: block.ReplayPlayerID,
		GameMode:       block.GameMode,

		TimeAttackOrRaceFinished: timeAttackOrRaceFinished,
	}, nil
}

// EnemySlotName returns the submission-payload name of per-enemy slot i,
// per original_source's GameState field ordering.
func EnemySlotName(i int) string {
	if i < 0 || i >= len(enemySlotNames) {
		return ""
	}
	return enemySlotNames[i]
}
