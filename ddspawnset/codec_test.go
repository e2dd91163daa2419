package ddspawnset

import (
	"bytes"
	"testing"
)

func v3Tag(id int32) V3 {
	var zero V3
	tag, _ := zero.TagByID(id).(V3)
	return tag
}

func makeV3Spawnset(spawnVersion int32) *Spawnset[V3] {
	header := DefaultHeader()
	header.SpawnVersion = spawnVersion
	arena := DefaultArena()
	spawnsHeader := DefaultSpawnsHeader()

	squid1 := v3Tag(0)
	thorn := v3Tag(7)

	s := &Spawnset[V3]{
		Header:       header,
		Arena:        arena,
		SpawnsHeader: spawnsHeader,
		Spawns: []Spawn[V3]{
			{EnemyType: squid1, Delay: 1.5},
			{EnemyType: thorn, Delay: 3.0},
		},
	}
	s.RecalculateSpawnCount()

	if spawnVersion >= 5 {
		ts := float32(2.0)
		s.Settings = &Settings{InitialHand: 1, AdditionalGems: 10}
		if spawnVersion >= 6 {
			s.Settings.TimerStart = &ts
		}
	}
	return s
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	for _, version := range []int32{4, 5, 6} {
		s := makeV3Spawnset(version)

		raw, err := SerializeBytes[V3](s)
		if err != nil {
			t.Fatalf("version %d: SerializeBytes: %v", version, err)
		}

		got, err := Deserialize[V3](bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("version %d: Deserialize: %v", version, err)
		}

		raw2, err := SerializeBytes[V3](got)
		if err != nil {
			t.Fatalf("version %d: re-SerializeBytes: %v", version, err)
		}

		if !bytes.Equal(raw, raw2) {
			t.Errorf("version %d: round-trip mismatch: serialize(deserialize(b)) != b", version)
		}

		if len(got.Spawns) != 2 {
			t.Fatalf("version %d: got %d spawns, want 2", version, len(got.Spawns))
		}
		if got.Spawns[0].EnemyType.ID() != 0 {
			t.Errorf("version %d: spawn[0] enemy id = %d, want 0", version, got.Spawns[0].EnemyType.ID())
		}
	}
}

func TestDeserializeTruncatedHeaderIsCorrupt(t *testing.T) {
	_, err := Deserialize[V3](bytes.NewReader(make([]byte, 4)))
	if err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestDefaultArenaFilledWithSentinel(t *testing.T) {
	a := DefaultArena()
	for i, v := range a.Data {
		if v != -1000.0 {
			t.Fatalf("tile %d = %v, want -1000.0", i, v)
		}
	}
	if err := ValidateArenaBounds(&a); err != nil {
		t.Errorf("ValidateArenaBounds: %v", err)
	}
}

func TestValidateArenaBoundsRejectsOutOfRange(t *testing.T) {
	a := DefaultArena()
	a.Data[0] = 5000
	if err := ValidateArenaBounds(&a); err == nil {
		t.Error("expected error for out-of-bounds tile")
	}
}

func TestSettingsOmittedBeforeVersion5(t *testing.T) {
	s := makeV3Spawnset(4)
	raw, err := SerializeBytes[V3](s)
	if err != nil {
		t.Fatalf("SerializeBytes: %v", err)
	}
	got, err := Deserialize[V3](bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Settings != nil {
		t.Errorf("expected nil Settings for spawn_version 4")
	}
}

func TestTimerStartOmittedBeforeVersion6(t *testing.T) {
	s := makeV3Spawnset(5)
	raw, err := SerializeBytes[V3](s)
	if err != nil {
		t.Fatalf("SerializeBytes: %v", err)
	}
	got, err := Deserialize[V3](bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Settings == nil {
		t.Fatal("expected non-nil Settings for spawn_version 5")
	}
	if got.Settings.TimerStart != nil {
		t.Errorf("expected nil TimerStart for spawn_version 5")
	}
}
