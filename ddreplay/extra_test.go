package ddreplay

import (
	"testing"

	"github.com/ddstats/ddcore/ddspawnset"
)

func gemPickupFrame() ReplayFrame {
	return ReplayFrame{Events: []Event{GemPickupEvent{}}}
}

func daggerLevel6SpawnFrame() ReplayFrame {
	return ReplayFrame{Events: []Event{
		SpawnEvent{
			EntityType: EntityDagger,
			Payload:    SpawnPayload{Dagger: &DaggerData{Level: DaggerLevel6}},
		},
	}}
}

func TestDeriveExtraDataNilSpawnsetStartsAtHandOne(t *testing.T) {
	data := &ReplayData{Frames: []ReplayFrame{gemPickupFrame()}}
	extra := DeriveExtraData(data, nil)

	if extra.StartingHand != 0 {
		t.Errorf("StartingHand = %d, want 0", extra.StartingHand)
	}
	if len(extra.Homing) != 1 {
		t.Fatalf("Homing history length = %d, want 1", len(extra.Homing))
	}
}

func TestDeriveExtraDataAdvancesToLevel2At10Gems(t *testing.T) {
	frames := make([]ReplayFrame, 0, handTierTwoGems)
	for i := 0; i < handTierTwoGems; i++ {
		frames = append(frames, gemPickupFrame())
	}
	data := &ReplayData{Frames: frames}

	extra := DeriveExtraData(data, nil)
	if extra.Lvl2Time == 0 {
		t.Error("expected Lvl2Time to be set once 10 gems are collected")
	}
	wantTime := float32(handTierTwoGems) / 60.0
	if extra.Lvl2Time != wantTime {
		t.Errorf("Lvl2Time = %v, want %v", extra.Lvl2Time, wantTime)
	}
}

func TestDeriveExtraDataHomingDecrementsOnLevel6DaggerSpawn(t *testing.T) {
	spawnset := &ddspawnset.Spawnset[ddspawnset.V3]{
		Settings: &ddspawnset.Settings{InitialHand: 3, AdditionalGems: 5},
	}

	frames := []ReplayFrame{
		gemPickupFrame(), // homing 5->6 at hand level 3
		daggerLevel6SpawnFrame(),
	}
	data := &ReplayData{Frames: frames}

	extra := DeriveExtraData(data, spawnset)
	if extra.StartingHand != 3 || extra.StartingGems != 5 {
		t.Fatalf("StartingHand/StartingGems = %d/%d, want 3/5", extra.StartingHand, extra.StartingGems)
	}
	if len(extra.Homing) != 2 {
		t.Fatalf("Homing history length = %d, want 2", len(extra.Homing))
	}
	if extra.Homing[0] != 6 {
		t.Errorf("Homing[0] = %d, want 6", extra.Homing[0])
	}
	if extra.Homing[1] != 5 {
		t.Errorf("Homing[1] = %d, want 5 (decremented by the level-6 dagger spawn)", extra.Homing[1])
	}
	if extra.HomingUsed[1] != 1 {
		t.Errorf("HomingUsed[1] = %d, want 1", extra.HomingUsed[1])
	}
}

func TestDeriveExtraDataLookSpeedCarriesFromEndFrame(t *testing.T) {
	speed := float32(42.5)
	data := &ReplayData{
		Frames: []ReplayFrame{
			{Events: []Event{EndFrameEvent{Mouse: MouseData{LookSpeed: &speed}}}},
		},
	}
	extra := DeriveExtraData(data, nil)
	if extra.LookSpeed != speed {
		t.Errorf("LookSpeed = %v, want %v", extra.LookSpeed, speed)
	}
}
