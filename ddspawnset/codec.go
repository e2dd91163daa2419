// This file implements spawnset deserialize/serialize (spec.md §4.S),
// mirroring the teacher's repdecoder sequential-section-read idiom: each
// section is read in turn from an io.Reader rather than sliced out of a
// single fully-buffered byte array, so spawnsets can stream from disk.

package ddspawnset

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ddstats/ddcore/ddbyte"
)

// ErrCorruptSpawnset indicates the input ended before a fixed-size section
// was fully read, or an otherwise-malformed spawnset.
var ErrCorruptSpawnset = errors.New("ddspawnset: corrupt or truncated spawnset")

// Deserialize reads a Spawnset[E] from r.
func Deserialize[E EnemyTag](r io.Reader) (*Spawnset[E], error) {
	headerBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorruptSpawnset, err)
	}
	header := decodeHeader(headerBuf)

	arenaBuf := make([]byte, ArenaSize)
	if _, err := io.ReadFull(r, arenaBuf); err != nil {
		return nil, fmt.Errorf("%w: arena: %v", ErrCorruptSpawnset, err)
	}
	arena := decodeArena(arenaBuf)

	spawnsHeaderBuf := make([]byte, SpawnsHeaderSize)
	if _, err := io.ReadFull(r, spawnsHeaderBuf); err != nil {
		return nil, fmt.Errorf("%w: spawns header: %v", ErrCorruptSpawnset, err)
	}
	spawnsHeader := decodeSpawnsHeader(spawnsHeaderBuf)

	if spawnsHeader.SpawnCount < 0 {
		return nil, fmt.Errorf("%w: negative spawn count %d", ErrCorruptSpawnset, spawnsHeader.SpawnCount)
	}

	spawns := make([]Spawn[E], spawnsHeader.SpawnCount)
	spawnBuf := make([]byte, SpawnSize)
	for i := range spawns {
		if _, err := io.ReadFull(r, spawnBuf); err != nil {
			return nil, fmt.Errorf("%w: spawn %d: %v", ErrCorruptSpawnset, i, err)
		}
		spawns[i] = decodeSpawn[E](spawnBuf)
	}

	var settings *Settings
	if header.SpawnVersion >= 5 {
		var b1 [1]byte
		var b2 [4]byte
		if _, err := io.ReadFull(r, b1[:]); err != nil {
			return nil, fmt.Errorf("%w: settings initial_hand: %v", ErrCorruptSpawnset, err)
		}
		if _, err := io.ReadFull(r, b2[:]); err != nil {
			return nil, fmt.Errorf("%w: settings additional_gems: %v", ErrCorruptSpawnset, err)
		}
		settings = &Settings{
			InitialHand:    b1[0],
			AdditionalGems: ddbyte.ReadLEInt32(b2[:], 0),
			TimerStart:     nil,
		}
	}
	if header.SpawnVersion >= 6 && settings != nil {
		var b2 [4]byte
		if _, err := io.ReadFull(r, b2[:]); err != nil {
			return nil, fmt.Errorf("%w: settings timer_start: %v", ErrCorruptSpawnset, err)
		}
		ts := ddbyte.ReadLEFloat32(b2[:], 0)
		settings.TimerStart = &ts
	}

	return &Spawnset[E]{
		Header:       header,
		Arena:        arena,
		SpawnsHeader: spawnsHeader,
		Spawns:       spawns,
		Settings:     settings,
	}, nil
}

// Serialize writes s to w in the exact wire format Deserialize expects.
// Round-trip law (spec.md §4.S, §8): Serialize(Deserialize(b)) == b for any
// well-formed b.
func Serialize[E EnemyTag](w io.Writer, s *Spawnset[E]) error {
	if _, err := w.Write(encodeHeader(s.Header)); err != nil {
		return err
	}
	if _, err := w.Write(encodeArena(s.Arena)); err != nil {
		return err
	}
	if _, err := w.Write(encodeSpawnsHeader(s.SpawnsHeader)); err != nil {
		return err
	}
	for _, sp := range s.Spawns {
		if _, err := w.Write(encodeSpawn(sp)); err != nil {
			return err
		}
	}

	if s.Settings != nil {
		if s.Header.SpawnVersion >= 5 {
			if _, err := w.Write([]byte{s.Settings.InitialHand}); err != nil {
				return err
			}
			var b2 [4]byte
			ddbyte.PutLEInt32(b2[:], 0, s.Settings.AdditionalGems)
			if _, err := w.Write(b2[:]); err != nil {
				return err
			}
		}
		if s.Header.SpawnVersion >= 6 && s.Settings.TimerStart != nil {
			var b2 [4]byte
			ddbyte.PutLEFloat32(b2[:], 0, *s.Settings.TimerStart)
			if _, err := w.Write(b2[:]); err != nil {
				return err
			}
		}
	}

	return nil
}

// SerializeBytes is a convenience wrapper returning the serialized bytes.
func SerializeBytes[E EnemyTag](s *Spawnset[E]) ([]byte, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeHeader(b []byte) Header {
	return Header{
		SpawnVersion:      ddbyte.ReadLEInt32(b, 0),
		WorldVersion:      ddbyte.ReadLEInt32(b, 4),
		ShrinkEndRadius:   ddbyte.ReadLEFloat32(b, 8),
		ShrinkStartRadius: ddbyte.ReadLEFloat32(b, 12),
		ShrinkRate:        ddbyte.ReadLEFloat32(b, 16),
		Brightness:        ddbyte.ReadLEFloat32(b, 20),
		GameMode:          ddbyte.ReadLEInt32(b, 24),
		reserved1:         ddbyte.ReadLEUint32(b, 28),
		reserved2:         ddbyte.ReadLEUint32(b, 32),
	}
}

func encodeHeader(h Header) []byte {
	b := make([]byte, HeaderSize)
	ddbyte.PutLEInt32(b, 0, h.SpawnVersion)
	ddbyte.PutLEInt32(b, 4, h.WorldVersion)
	ddbyte.PutLEFloat32(b, 8, h.ShrinkEndRadius)
	ddbyte.PutLEFloat32(b, 12, h.ShrinkStartRadius)
	ddbyte.PutLEFloat32(b, 16, h.ShrinkRate)
	ddbyte.PutLEFloat32(b, 20, h.Brightness)
	ddbyte.PutLEInt32(b, 24, h.GameMode)
	ddbyte.PutLEUint32(b, 28, h.reserved1)
	ddbyte.PutLEUint32(b, 32, h.reserved2)
	return b
}

func decodeArena(b []byte) Arena {
	var a Arena
	for i := range a.Data {
		a.Data[i] = ddbyte.ReadLEFloat32(b, i*4)
	}
	return a
}

func encodeArena(a Arena) []byte {
	b := make([]byte, ArenaSize)
	for i, v := range a.Data {
		ddbyte.PutLEFloat32(b, i*4, v)
	}
	return b
}

func decodeSpawnsHeader(b []byte) SpawnsHeader {
	return SpawnsHeader{
		reserved1:        ddbyte.ReadLEUint32(b, 0),
		reserved2:        ddbyte.ReadLEUint32(b, 4),
		reserved3:        ddbyte.ReadLEUint32(b, 8),
		reserved4:        ddbyte.ReadLEUint32(b, 12),
		DevilDaggerTime:  ddbyte.ReadLEInt32(b, 16),
		GoldDaggerTime:   ddbyte.ReadLEInt32(b, 20),
		SilverDaggerTime: ddbyte.ReadLEInt32(b, 24),
		BronzeDaggerTime: ddbyte.ReadLEInt32(b, 28),
		reserved5:        ddbyte.ReadLEUint32(b, 32),
		SpawnCount:       ddbyte.ReadLEInt32(b, 36),
	}
}

func encodeSpawnsHeader(h SpawnsHeader) []byte {
	b := make([]byte, SpawnsHeaderSize)
	ddbyte.PutLEUint32(b, 0, h.reserved1)
	ddbyte.PutLEUint32(b, 4, h.reserved2)
	ddbyte.PutLEUint32(b, 8, h.reserved3)
	ddbyte.PutLEUint32(b, 12, h.reserved4)
	ddbyte.PutLEInt32(b, 16, h.DevilDaggerTime)
	ddbyte.PutLEInt32(b, 20, h.GoldDaggerTime)
	ddbyte.PutLEInt32(b, 24, h.SilverDaggerTime)
	ddbyte.PutLEInt32(b, 28, h.BronzeDaggerTime)
	ddbyte.PutLEUint32(b, 32, h.reserved5)
	ddbyte.PutLEInt32(b, 36, h.SpawnCount)
	return b
}

func decodeSpawn[E EnemyTag](b []byte) Spawn[E] {
	var zero E
	enemyType, _ := zero.TagByID(ddbyte.ReadLEInt32(b, 0)).(E)
	return Spawn[E]{
		EnemyType: enemyType,
		Delay:     ddbyte.ReadLEFloat32(b, 4),
		reserved1: ddbyte.ReadLEUint32(b, 8),
		reserved2: ddbyte.ReadLEUint32(b, 12),
		reserved3: ddbyte.ReadLEUint32(b, 16),
		reserved4: ddbyte.ReadLEUint32(b, 20),
		reserved5: ddbyte.ReadLEUint32(b, 24),
	}
}

func encodeSpawn[E EnemyTag](s Spawn[E]) []byte {
	b := make([]byte, SpawnSize)
	ddbyte.PutLEInt32(b, 0, s.EnemyType.ID())
	ddbyte.PutLEFloat32(b, 4, s.Delay)
	ddbyte.PutLEUint32(b, 8, s.reserved1)
	ddbyte.PutLEUint32(b, 12, s.reserved2)
	ddbyte.PutLEUint32(b, 16, s.reserved3)
	ddbyte.PutLEUint32(b, 20, s.reserved4)
	ddbyte.PutLEUint32(b, 24, s.reserved5)
	return b
}

// ValidateArenaBounds checks the heightmap values lie within
// [-1000.0, 1000.0], the game's own sanity bound
// (original_source/src/models/spawnset.rs default arena value is -1000.0).
// This is an optional post-deserialize check, not enforced by Deserialize
// itself, since spec.md's only hard invariant is the round-trip law.
func ValidateArenaBounds(a *Arena) error {
	for i, v := range a.Data {
		if v < -1000.0 || v > 1000.0 {
			return fmt.Errorf("ddspawnset: arena tile %d out of bounds: %v", i, v)
		}
	}
	return nil
}
