package ddsubmit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ddstats/ddcore/ddmodel"
)

func makeSnapshot(playerTime float32) *ddmodel.StatsBlockWithFrames {
	block := &ddmodel.StatsDataBlock{
		PlayerID: 42,
		Time:     playerTime,
		TimeLvl2: 1.0,
		TimeLvl3: 2.0,
		TimeLvl4: 3.0,
	}
	frame := ddmodel.StatsFrame{
		GemsCollected: 5,
		Kills:         6,
		DaggersFired:  7,
		DaggersHit:    8,
		EnemiesAlive:  9,
		Homing:        10,
		DaggersEaten:  11,
		GemsDespawned: 12,
		GemsEaten:     13,
		GemsTotal:     14,
	}
	return &ddmodel.StatsBlockWithFrames{Block: block, Frames: []ddmodel.StatsFrame{frame}}
}

func TestBuildTimeAsInt(t *testing.T) {
	snapshot := makeSnapshot(12.3456)
	req, err := Build(snapshot, PlatformWindows, "client", "1.0.0.0", []byte{0x01}, Secrets{Password: "p", Salt: "s", IV: "0123456789012345"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.Time != 123456 {
		t.Errorf("Time = %d, want 123456", req.Time)
	}
	if req.LevelUpTime2 != 10000 || req.LevelUpTime3 != 20000 || req.LevelUpTime4 != 30000 {
		t.Errorf("level up times = %d,%d,%d", req.LevelUpTime2, req.LevelUpTime3, req.LevelUpTime4)
	}
}

func TestBuildLinuxForcesTimeAttackFalse(t *testing.T) {
	snapshot := makeSnapshot(1.0)
	snapshot.Block.TimeAttackOrRaceFinished = true

	req, err := Build(snapshot, PlatformLinux, "client", "1.0.0.0", []byte{0x01}, Secrets{Password: "p", Salt: "s", IV: "0123456789012345"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.TimeAttackOrRaceFinished {
		t.Errorf("TimeAttackOrRaceFinished should be forced false on Linux")
	}
}

func TestBuildWindowsPreservesTimeAttackFlag(t *testing.T) {
	snapshot := makeSnapshot(1.0)
	snapshot.Block.TimeAttackOrRaceFinished = true

	req, err := Build(snapshot, PlatformWindows, "client", "1.0.0.0", []byte{0x01}, Secrets{Password: "p", Salt: "s", IV: "0123456789012345"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !req.TimeAttackOrRaceFinished {
		t.Errorf("TimeAttackOrRaceFinished should be preserved on Windows")
	}
}

func TestBuildRejectsEmptyReplay(t *testing.T) {
	snapshot := makeSnapshot(1.0)
	_, err := Build(snapshot, PlatformWindows, "client", "1.0.0.0", nil, Secrets{Password: "p", Salt: "s", IV: "0123456789012345"})
	if err != ErrEmptyReplayBuffer {
		t.Errorf("err = %v, want ErrEmptyReplayBuffer", err)
	}
}

func TestBuildRejectsMissingSecrets(t *testing.T) {
	snapshot := makeSnapshot(1.0)
	_, err := Build(snapshot, PlatformWindows, "client", "1.0.0.0", []byte{0x01}, Secrets{})
	if err != ErrMissingSecrets {
		t.Errorf("err = %v, want ErrMissingSecrets", err)
	}
}

func TestValidationStringFieldOrder(t *testing.T) {
	block := &ddmodel.StatsDataBlock{
		PlayerID:  7,
		Time:      1.0,
		DeathType: 3,
		IsReplay:  true,
	}
	last := ddmodel.StatsFrame{
		GemsCollected: 1, GemsDespawned: 2, GemsEaten: 3, GemsTotal: 4,
		Kills: 5, DaggersHit: 6, DaggersFired: 7, EnemiesAlive: 8,
		Homing: 9, DaggersEaten: 10,
	}
	got := validationString(block, last)
	fields := strings.Split(got, ";")
	if len(fields) != 16 {
		t.Fatalf("validationString has %d fields, want 16: %q", len(fields), got)
	}
	if fields[13] != "1" {
		t.Errorf("is_replay field = %q, want %q", fields[13], "1")
	}
}

func TestGameStateMarshalJSONIncludesPerSlotFields(t *testing.T) {
	snapshot := makeSnapshot(1.0)
	snapshot.Frames[0].PerEnemyAliveCount[0] = 3  // skull1
	snapshot.Frames[0].PerEnemyKillCount[16] = 2  // spiderEgg

	req, err := Build(snapshot, PlatformWindows, "client", "1.0.0.0", []byte{0x01}, Secrets{Password: "p", Salt: "s", IV: "0123456789012345"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	raw, err := json.Marshal(req.GameData)
	if err != nil {
		t.Fatalf("Marshal(GameData): %v", err)
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if _, ok := wire["skull1sAlive"]; !ok {
		t.Errorf("skull1sAlive missing from GameData JSON: %s", raw)
	}
	if _, ok := wire["spiderEggsKilled"]; !ok {
		t.Errorf("spiderEggsKilled missing from GameData JSON: %s", raw)
	}
	if got := string(wire["skull1sAlive"]); got != "[3]" {
		t.Errorf("skull1sAlive = %s, want [3]", got)
	}
	if got := string(wire["spiderEggsKilled"]); got != "[2]" {
		t.Errorf("spiderEggsKilled = %s, want [2]", got)
	}

	// 10 aggregate series + 17*2 per-slot fields.
	if len(wire) != 44 {
		t.Errorf("GameData has %d JSON fields, want 44", len(wire))
	}
}

func TestEnemySlotNameBoundsChecked(t *testing.T) {
	if got := EnemySlotName(-1); got != "" {
		t.Errorf("EnemySlotName(-1) = %q, want empty", got)
	}
	if got := EnemySlotName(ddmodel.EnemyCount); got != "" {
		t.Errorf("EnemySlotName(EnemyCount) = %q, want empty", got)
	}
	if got := EnemySlotName(16); got != "spiderEgg" {
		t.Errorf("EnemySlotName(16) = %q, want spiderEgg", got)
	}
}
