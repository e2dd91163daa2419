// This file contains little-endian read/write helpers used by ddspawnset,
// ddreplay and ddmem. Grounded on rep/header.go's encoding/binary +
// manual-offset idiom in the teacher repo.

package ddbyte

import (
	"encoding/binary"
	"math"
)

// ReadLEUint16 reads a little-endian uint16 at offset off.
func ReadLEUint16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off:])
}

// ReadLEInt16 reads a little-endian int16 at offset off.
func ReadLEInt16(b []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(b[off:]))
}

// ReadLEUint32 reads a little-endian uint32 at offset off.
func ReadLEUint32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

// ReadLEInt32 reads a little-endian int32 at offset off.
func ReadLEInt32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:]))
}

// ReadLEUint64 reads a little-endian uint64 at offset off.
// Used for the 8-byte native pointers embedded in StatsDataBlock
// (spec.md §8: "get_stats_pointer and get_replay_pointer treat their 8-byte
// fields as little-endian integers").
func ReadLEUint64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off:])
}

// ReadLEFloat32 reads a little-endian IEEE-754 float32 at offset off.
func ReadLEFloat32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

// PutLEUint32 writes v as little-endian into b at offset off.
func PutLEUint32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

// PutLEInt32 writes v as little-endian into b at offset off.
func PutLEInt32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

// PutLEUint64 writes v as little-endian into b at offset off.
func PutLEUint64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:], v)
}

// PutLEFloat32 writes v as a little-endian IEEE-754 float32 into b at offset off.
func PutLEFloat32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}
