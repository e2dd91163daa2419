// This file decodes the decompressed replay event stream shared by the
// legacy and modern envelopes (original_source/src/models/replay.rs
// ReplayData::from_reader), opcode by opcode.

package ddreplay

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrUnterminatedFrame is returned when an EndFrame event's trailing marker
// byte is present but is not 0x0A (original_source: "FUNNY BYTE!").
var ErrUnterminatedFrame = errors.New("ddreplay: unexpected end-of-frame marker byte")

// eventReader is a small cursor over the decompressed event stream,
// analogous to the teacher's repdecoder.decoder byte-slice cursor.
type eventReader struct {
	r *bytes.Reader
}

func (er *eventReader) u8() (byte, error) {
	return er.r.ReadByte()
}

func (er *eventReader) bool_() (bool, error) {
	b, err := er.r.ReadByte()
	return b != 0, err
}

func (er *eventReader) i16() (int16, error) {
	var v int16
	err := binary.Read(er.r, binary.LittleEndian, &v)
	return v, err
}

func (er *eventReader) i32() (int32, error) {
	var v int32
	err := binary.Read(er.r, binary.LittleEndian, &v)
	return v, err
}

func (er *eventReader) f32() (float32, error) {
	var v float32
	err := binary.Read(er.r, binary.LittleEndian, &v)
	return v, err
}

func (er *eventReader) vec3i16() (Vec3I16, error) {
	var v Vec3I16
	for i := range v {
		x, err := er.i16()
		if err != nil {
			return v, err
		}
		v[i] = x
	}
	return v, nil
}

func (er *eventReader) vec3f32() (Vec3F32, error) {
	var v Vec3F32
	for i := range v {
		x, err := er.f32()
		if err != nil {
			return v, err
		}
		v[i] = x
	}
	return v, nil
}

// DecodeReplayData decompresses and decodes the zlib-compressed event
// stream in zlibReader into frames grouped by EndFrame/EndReplay boundaries.
func DecodeReplayData(zlibReader io.Reader) (*ReplayData, error) {
	decompressed, err := decompressZlib(zlibReader)
	if err != nil {
		return nil, err
	}

	er := &eventReader{r: bytes.NewReader(decompressed)}

	var (
		nextEntityID EntityID = 1
		entities     []Entity
		frames       []ReplayFrame
		current      []Event
		firstFrame   = true
	)

	for {
		opcode, err := er.u8()
		if err != nil {
			// A stream that runs out without an explicit EndReplay opcode
			// is treated as implicitly terminated.
			if len(current) > 0 {
				frames = append(frames, ReplayFrame{Events: current})
			}
			break
		}

		var event Event
		switch opcode {
		case 0x0:
			entityType, err := er.u8()
			if err != nil {
				return nil, fmt.Errorf("ddreplay: spawn entity type: %w", err)
			}
			et := EntityType(entityType)
			entities = append(entities, Entity{ID: nextEntityID, Type: et})
			nextEntityID++

			payload, err := decodeSpawnPayload(er, et)
			if err != nil {
				return nil, fmt.Errorf("ddreplay: spawn payload for %s: %w", et, err)
			}
			event = SpawnEvent{EntityType: et, Payload: payload}

		case 0x1:
			id, err := er.i32()
			if err != nil {
				return nil, err
			}
			pos, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			event = UpdateEntityPositionEvent{Entity: id, Position: pos}

		case 0x2:
			id, err := er.i32()
			if err != nil {
				return nil, err
			}
			a, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			b, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			c, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			event = UpdateEntityOrientationEvent{Entity: id, Orientation: UpdateOrientationData{A: a, B: b, C: c}}

		case 0x4:
			id, err := er.i32()
			if err != nil {
				return nil, err
			}
			target, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			event = UpdateEntityTargetEvent{Entity: id, Target: target}

		case 0x5:
			a, err := er.i32()
			if err != nil {
				return nil, err
			}
			b, err := er.i32()
			if err != nil {
				return nil, err
			}
			c, err := er.i32()
			if err != nil {
				return nil, err
			}
			switch {
			case a == 0:
				event = PlayerDeathEvent{DeathType: b}
			case b == 0 && c == 0:
				event = DaggerDespawnEvent{Dagger: a}
			case a < 0:
				event = EnemyHitEvent{Enemy: -a, Dagger: b, Segment: c, Armor: true}
			default:
				event = EnemyHitEvent{Enemy: a, Dagger: b, Segment: c, Armor: false}
			}

		case 0x6:
			event = GemPickupEvent{}

		case 0x7:
			id, err := er.i32()
			if err != nil {
				return nil, err
			}
			a, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			b, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			c, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			d, err := er.vec3i16()
			if err != nil {
				return nil, err
			}
			event = TransmuteEvent{Entity: id, Data: TransmuteData{A: a, B: b, C: c, D: d}}

		case 0x9:
			buttons, err := decodeButtons(er)
			if err != nil {
				return nil, err
			}

			x, err := er.i16()
			if err != nil {
				return nil, err
			}
			y, err := er.i16()
			if err != nil {
				return nil, err
			}
			mouse := MouseData{X: x, Y: y}

			if firstFrame {
				raw, err := er.f32()
				if err != nil {
					return nil, err
				}
				speed := (500.0 / 3.0) * raw
				mouse.LookSpeed = &speed
				firstFrame = false
			}

			// Trailing terminator byte; tolerate EOF (final frame may omit it).
			if marker, err := er.u8(); err == nil && marker != 0x0A {
				return nil, ErrUnterminatedFrame
			}

			event = EndFrameEvent{Buttons: buttons, Mouse: mouse}

		default:
			event = EndReplayEvent{}
		}

		current = append(current, event)

		switch event.(type) {
		case EndReplayEvent:
			frames = append(frames, ReplayFrame{Events: current})
			return &ReplayData{Frames: frames, Entities: entities}, nil
		case EndFrameEvent:
			frames = append(frames, ReplayFrame{Events: current})
			current = nil
		}
	}

	return &ReplayData{Frames: frames, Entities: entities}, nil
}

func decodeButtons(er *eventReader) (ButtonData, error) {
	var b ButtonData
	var err error
	if b.Left, err = er.bool_(); err != nil {
		return b, err
	}
	if b.Right, err = er.bool_(); err != nil {
		return b, err
	}
	if b.Forward, err = er.bool_(); err != nil {
		return b, err
	}
	if b.Backwards, err = er.bool_(); err != nil {
		return b, err
	}
	jump, err := er.u8()
	if err != nil {
		return b, err
	}
	b.Jump = decodeJumpState(jump)
	shoot, err := er.u8()
	if err != nil {
		return b, err
	}
	b.Shoot = decodeMouseState(shoot)
	homing, err := er.u8()
	if err != nil {
		return b, err
	}
	b.Homing = decodeMouseState(homing)
	return b, nil
}

func decodeJumpState(v byte) JumpButtonState {
	switch v {
	case 0:
		return JumpNotPressed
	case 2:
		return JumpJustPressed
	default:
		return JumpHeld
	}
}

func decodeMouseState(v byte) MouseButtonState {
	switch v {
	case 0:
		return MouseNotPressed
	case 2:
		return MouseReleased
	default:
		return MouseHeld
	}
}

func decodeSpawnPayload(er *eventReader, t EntityType) (SpawnPayload, error) {
	var p SpawnPayload
	switch t {
	case EntityDagger:
		owner, err := er.i32()
		if err != nil {
			return p, err
		}
		pos, err := er.vec3i16()
		if err != nil {
			return p, err
		}
		oa, err := er.vec3i16()
		if err != nil {
			return p, err
		}
		ob, err := er.vec3i16()
		if err != nil {
			return p, err
		}
		oc, err := er.vec3i16()
		if err != nil {
			return p, err
		}
		unk, err := er.u8()
		if err != nil {
			return p, err
		}
		level, err := er.u8()
		if err != nil {
			return p, err
		}
		p.Dagger = &DaggerData{
			Owner: owner, Position: pos,
			OrientationA: oa, OrientationB: ob, OrientationC: oc,
			Unknown: unk, Level: DaggerLevel(level),
		}

	case EntitySquid1, EntitySquid2, EntitySquid3:
		owner, err := er.i32()
		if err != nil {
			return p, err
		}
		pos, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		unk, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		rot, err := er.f32()
		if err != nil {
			return p, err
		}
		p.Squid = &SquidData{Owner: owner, Position: pos, Unknown: unk, Rotation: rot}

	case EntityBoid:
		spawner, err := er.i32()
		if err != nil {
			return p, err
		}
		bt, err := er.u8()
		if err != nil {
			return p, err
		}
		pos, err := er.vec3i16()
		if err != nil {
			return p, err
		}
		u1, err := er.vec3i16()
		if err != nil {
			return p, err
		}
		u2, err := er.vec3i16()
		if err != nil {
			return p, err
		}
		u3, err := er.vec3i16()
		if err != nil {
			return p, err
		}
		u4, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		speed, err := er.f32()
		if err != nil {
			return p, err
		}
		p.Boid = &BoidData{
			Spawner: spawner, Type: BoidType(bt), Position: pos,
			Unknown1: u1, Unknown2: u2, Unknown3: u3, Unknown4: u4, Speed: speed,
		}

	case EntityCentipede, EntityGigapede, EntityGhostpede:
		owner, err := er.i32()
		if err != nil {
			return p, err
		}
		pos, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		u1, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		u2, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		u3, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		u4, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		p.Pede = &PedeData{Owner: owner, Position: pos, Unknown1: u1, Unknown2: u2, Unknown3: u3, Unknown4: u4}

	case EntitySpider1, EntitySpider2:
		owner, err := er.i32()
		if err != nil {
			return p, err
		}
		pos, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		p.Spider = &SpiderData{Owner: owner, Position: pos}

	case EntityEgg:
		spawner, err := er.i32()
		if err != nil {
			return p, err
		}
		u1, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		u2, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		p.Egg = &EggData{SpiderSpawner: spawner, Unknown1: u1, Unknown2: u2}

	case EntityThorn:
		owner, err := er.i32()
		if err != nil {
			return p, err
		}
		pos, err := er.vec3f32()
		if err != nil {
			return p, err
		}
		rot, err := er.f32()
		if err != nil {
			return p, err
		}
		p.Thorn = &ThornData{Owner: owner, Position: pos, Rotation: rot}

	case EntityLeviathan:
		owner, err := er.i32()
		if err != nil {
			return p, err
		}
		p.Leviathan = &owner

	default:
		return p, fmt.Errorf("ddreplay: unrecognized entity type 0x%x", byte(t))
	}

	return p, nil
}
