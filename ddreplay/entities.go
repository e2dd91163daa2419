// This file contains the per-entity-type spawn payloads
// (original_source/src/models/replay.rs EntityData and friends). Field
// names ending "Unknown*"/"B"/"Funny*" mark bytes whose purpose the client
// binary does not document; they round-trip without semantic decoding.

package ddreplay

// Vec3I16 is a little-endian [i16; 3], used for quantized position/
// orientation data.
type Vec3I16 [3]int16

// Vec3F32 is a little-endian [f32; 3], used for full-precision position
// data.
type Vec3F32 [3]float32

// DaggerData is the Spawn payload for EntityDagger.
type DaggerData struct {
	Owner         EntityID
	Position      Vec3I16
	OrientationA  Vec3I16
	OrientationB  Vec3I16
	OrientationC  Vec3I16
	Unknown       byte
	Level         DaggerLevel
}

// SquidData is the Spawn payload shared by EntitySquid1/Squid2/Squid3.
type SquidData struct {
	Owner    EntityID
	Position Vec3F32
	Unknown  Vec3F32
	Rotation float32 // radians
}

// PedeData is the Spawn payload shared by Centipede/Gigapede/Ghostpede.
type PedeData struct {
	Owner    EntityID
	Position Vec3F32
	Unknown1 Vec3F32
	Unknown2 Vec3F32
	Unknown3 Vec3F32
	Unknown4 Vec3F32
}

// SpiderData is the Spawn payload shared by Spider1/Spider2.
type SpiderData struct {
	Owner    EntityID
	Position Vec3F32
}

// EggData is the Spawn payload for EntityEgg.
type EggData struct {
	SpiderSpawner EntityID
	Unknown1      Vec3F32
	Unknown2      Vec3F32
}

// ThornData is the Spawn payload for EntityThorn.
type ThornData struct {
	Owner    EntityID
	Position Vec3F32
	Rotation float32
}

// BoidData is the Spawn payload for EntityBoid (skulls and spiderlings).
type BoidData struct {
	Spawner  EntityID
	Type     BoidType
	Position Vec3I16
	Unknown1 Vec3I16
	Unknown2 Vec3I16
	Unknown3 Vec3I16
	Unknown4 Vec3F32
	Speed    float32
}

// SpawnPayload is the decoded body of a Spawn event. Exactly one field is
// populated, matching the entity type also carried on the event
// (mirrors the teacher's one-concrete-struct-per-command idiom rather
// than a Rust-style sum type, since Go has no enum-with-data).
type SpawnPayload struct {
	Dagger    *DaggerData
	Squid     *SquidData // Squid1/Squid2/Squid3 share this shape
	Pede      *PedeData  // Centipede/Gigapede/Ghostpede share this shape
	Spider    *SpiderData
	Egg       *EggData
	Thorn     *ThornData
	Boid      *BoidData
	Leviathan *int32 // Leviathan's sole field is an owner/reference id
}

// UpdateOrientationData is the payload of UpdateEntityOrientation.
type UpdateOrientationData struct {
	A, B, C Vec3I16
}

// TransmuteData is the payload of the Transmute event.
type TransmuteData struct {
	A, B, C, D Vec3I16
}

// ButtonData is the input-button snapshot carried by EndFrame.
type ButtonData struct {
	Left      bool
	Right     bool
	Forward   bool
	Backwards bool
	Jump      JumpButtonState
	Shoot     MouseButtonState
	Homing    MouseButtonState
}

// MouseData is the mouse-axis snapshot carried by EndFrame. LookSpeed is
// populated only on the replay's first EndFrame event
// (original_source/src/models/replay.rs ReplayData::from_reader: "if
// first { mouse_data.look_speed = Some(...) }").
type MouseData struct {
	X, Y      int16
	LookSpeed *float32
}
