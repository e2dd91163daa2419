/*
Package replaydecoder decodes the two on-disk replay envelopes into
ddreplay domain values: the legacy "ddrpl." format and the modern
"DF_RPL2" format (spec.md §4.R). Each envelope's fixed-format header
precedes a zlib-compressed event stream decoded by ddreplay.DecodeReplayData.

Mirrors the teacher's repparser/repdecoder split: detection reads a small
header peek, then dispatches to a format-specific reader.
*/
package replaydecoder

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ddstats/ddcore/ddbyte"
	"github.com/ddstats/ddcore/ddreplay"
	"github.com/ddstats/ddcore/ddspawnset"
)

// Format identifies the on-disk replay envelope.
type Format int

const (
	FormatUnknown Format = iota
	FormatLegacy         // "ddrpl."
	FormatModern         // "DF_RPL2"
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy (ddrpl.)"
	case FormatModern:
		return "modern (DF_RPL2)"
	default:
		return "unknown"
	}
}

var (
	legacyMagic = []byte("ddrpl.")
	modernMagic = []byte("DF_RPL2")

	// ErrNotReplayFile indicates the input carries neither recognized magic.
	ErrNotReplayFile = errors.New("replaydecoder: not a replay file")

	// ErrReplayTooLarge guards against a corrupt or adversarial length
	// prefix allocating unbounded memory (original_source/src/ddreplay.rs:
	// "Replay data is too big", bound 40_000_000).
	ErrReplayTooLarge = errors.New("replaydecoder: compressed replay data exceeds size limit")

	// ErrTrailingData indicates unexpected bytes after a legacy envelope's
	// declared payload.
	ErrTrailingData = errors.New("replaydecoder: unexpected trailing data")
)

const maxCompressedDataLen = 40_000_000

// DetectFormat identifies the replay format from a header peek of at least
// 7 bytes.
func DetectFormat(header []byte) Format {
	if bytes.HasPrefix(header, modernMagic) {
		return FormatModern
	}
	if len(header) >= len(legacyMagic) && bytes.HasPrefix(header, legacyMagic) {
		return FormatLegacy
	}
	return FormatUnknown
}

// DecodeFile detects and decodes a replay file, returning whichever of
// legacy/modern matches (the other return value is nil).
func DecodeFile(name string) (format Format, legacy *ddreplay.LegacyReplay, modern *ddreplay.ModernReplay, err error) {
	f, err := os.Open(name)
	if err != nil {
		return FormatUnknown, nil, nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	peek, err := br.Peek(7)
	if err != nil && err != io.EOF {
		return FormatUnknown, nil, nil, err
	}
	format = DetectFormat(peek)

	switch format {
	case FormatLegacy:
		legacy, err = DecodeLegacy(br)
	case FormatModern:
		modern, err = DecodeModern(br)
	default:
		err = ErrNotReplayFile
	}
	return format, legacy, modern, err
}

// DecodeLegacy decodes a "ddrpl." envelope from r
// (original_source/src/ddreplay.rs DdRpl::from_reader).
func DecodeLegacy(r io.Reader) (*ddreplay.LegacyReplay, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, 6)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReplayFile, err)
	}
	if !bytes.Equal(magic, legacyMagic) {
		return nil, ErrNotReplayFile
	}

	fileVersion, err := readU32(br)
	if err != nil {
		return nil, err
	}
	rawTimestamp, err := readU64(br)
	if err != nil {
		return nil, err
	}
	recordedAt := time.Unix(ddreplay.LegacyEpoch()+int64(rawTimestamp), 0).UTC()

	runTime, err := readF32(br)
	if err != nil {
		return nil, err
	}
	startingTime, err := readF32(br)
	if err != nil {
		return nil, err
	}
	daggersFired, err := readU32(br)
	if err != nil {
		return nil, err
	}
	deathType, err := readI32(br)
	if err != nil {
		return nil, err
	}
	gemsCollected, err := readU32(br)
	if err != nil {
		return nil, err
	}
	daggersHit, err := readU32(br)
	if err != nil {
		return nil, err
	}
	kills, err := readU32(br)
	if err != nil {
		return nil, err
	}
	playerID, err := readI32(br)
	if err != nil {
		return nil, err
	}

	usernameLen, err := readU32(br)
	if err != nil {
		return nil, err
	}
	username := make([]byte, usernameLen)
	if _, err := io.ReadFull(br, username); err != nil {
		return nil, err
	}

	if _, err := io.CopyN(io.Discard, br, 10); err != nil { // unknown reserved block
		return nil, err
	}

	spawnsetHash := make([]byte, 16)
	if _, err := io.ReadFull(br, spawnsetHash); err != nil {
		return nil, err
	}

	spawnsetLen, err := readU32(br)
	if err != nil {
		return nil, err
	}
	spawnsetBin := make([]byte, spawnsetLen)
	if _, err := io.ReadFull(br, spawnsetBin); err != nil {
		return nil, err
	}

	compressedLen, err := readU32(br)
	if err != nil {
		return nil, err
	}
	if compressedLen > maxCompressedDataLen {
		return nil, ErrReplayTooLarge
	}
	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(br, compressed); err != nil {
		return nil, err
	}

	// At most one trailing terminator byte may follow the payload; more is
	// treated as corruption.
	var trailing [2]byte
	if n, _ := io.ReadFull(br, trailing[:]); n > 1 {
		return nil, ErrTrailingData
	}

	data, err := ddreplay.DecodeReplayData(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("replaydecoder: event stream: %w", err)
	}

	var spawnset *ddspawnset.Spawnset[ddspawnset.V3]
	if len(spawnsetBin) > 0 {
		spawnset, err = ddspawnset.Deserialize[ddspawnset.V3](bytes.NewReader(spawnsetBin))
		if err != nil {
			return nil, fmt.Errorf("replaydecoder: embedded spawnset: %w", err)
		}
	}

	header := ddreplay.LegacyHeader{
		FileVersion:       fileVersion,
		RecordedAt:        recordedAt,
		Time:              runTime,
		StartingTime:      startingTime,
		DaggersFired:      daggersFired,
		DeathType:         deathType,
		GemsCollected:     gemsCollected,
		Kills:             kills,
		DaggersHit:        daggersHit,
		PlayerName:        string(username),
		PlayerID:          playerID,
		SpawnsetBin:       spawnsetBin,
		SpawnsetHash:      ddbyte.EncodeHexLower(spawnsetHash),
		CompressedDataLen: compressedLen,
	}

	replay := &ddreplay.LegacyReplay{
		Header:   header,
		Data:     data,
		Spawnset: spawnset,
	}
	replay.Extra = ddreplay.DeriveExtraData(data, spawnset)
	return replay, nil
}

// DecodeModern decodes a "DF_RPL2" envelope from r
// (original_source/src/models/replay.rs DfRpl2::from_reader).
func DecodeModern(r io.Reader) (*ddreplay.ModernReplay, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, 7)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReplayFile, err)
	}
	if !bytes.Equal(magic, modernMagic) {
		return nil, ErrNotReplayFile
	}

	usernameLen, err := readU16(br)
	if err != nil {
		return nil, err
	}
	username := make([]byte, usernameLen)
	if _, err := io.ReadFull(br, username); err != nil {
		return nil, err
	}

	funnyLen, err := readU16(br)
	if err != nil {
		return nil, err
	}
	funnyBytes := make([]byte, funnyLen)
	if _, err := io.ReadFull(br, funnyBytes); err != nil {
		return nil, err
	}

	data, err := ddreplay.DecodeReplayData(br)
	if err != nil {
		return nil, fmt.Errorf("replaydecoder: event stream: %w", err)
	}

	return &ddreplay.ModernReplay{
		Header: ddreplay.ModernHeader{PlayerName: string(username), FunnyBytes: funnyBytes},
		Data:   data,
	}, nil
}

func readU16(r io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readU64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readF32(r io.Reader) (float32, error) {
	var v float32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}
