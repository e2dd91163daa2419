package ddreplay

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// decompressZlib fully decompresses a zlib-framed stream. Both replay
// envelopes carry their event data this way
// (original_source/src/models/replay.rs: "libflate::zlib::Decoder").
// klauspost/compress/zlib is a drop-in for compress/zlib, matching the
// library the pack's DriftPursuit broker uses for its own stream framing.
func decompressZlib(r io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
