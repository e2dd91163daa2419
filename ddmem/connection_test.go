package ddmem

import (
	"errors"
	"testing"

	"github.com/ddstats/ddcore/ddbyte"
	"github.com/ddstats/ddcore/ddmodel"
)

// fakeRW is a byte-slice-backed spy standing in for a real OS memory
// handle, so the state machine and pointer-resolution algorithms in
// discovery.go/connection.go can be exercised without a live process.
type fakeRW struct {
	mem    []byte
	base   uint64 // address that mem[0] corresponds to
	closed bool

	failReadAt  uint64
	failWriteAt uint64
}

func newFakeRW(size int, base uint64) *fakeRW {
	return &fakeRW{mem: make([]byte, size), base: base}
}

func (f *fakeRW) ReadAt(b []byte, addr uint64) (int, error) {
	if f.failReadAt != 0 && addr == f.failReadAt {
		return 0, errors.New("fakeRW: injected read failure")
	}
	off := addr - f.base
	if off > uint64(len(f.mem)) || off+uint64(len(b)) > uint64(len(f.mem)) {
		return 0, errors.New("fakeRW: out of range read")
	}
	return copy(b, f.mem[off:off+uint64(len(b))]), nil
}

func (f *fakeRW) WriteAt(b []byte, addr uint64) (int, error) {
	if f.failWriteAt != 0 && addr == f.failWriteAt {
		return 0, errors.New("fakeRW: injected write failure")
	}
	off := addr - f.base
	if off > uint64(len(f.mem)) || off+uint64(len(b)) > uint64(len(f.mem)) {
		return 0, errors.New("fakeRW: out of range write")
	}
	return copy(f.mem[off:off+uint64(len(b))], b), nil
}

func (f *fakeRW) Close() error {
	f.closed = true
	return nil
}

// testDiscoverer stubs the OS-specific discovery step with a pre-built
// fakeRW, letting tests drive GameConnection through the rw interface
// alone.
type testDiscoverer struct {
	handle   *fakeRW
	baseAddr uint64
	err      error
}

func (d *testDiscoverer) discover(cfg Config) (rw, uint64, error) {
	if d.err != nil {
		return nil, 0, d.err
	}
	return d.handle, d.baseAddr, nil
}

// attachForTest builds a GameConnection already in StateAttached, wired to
// a fakeRW holding a valid block at blockAddr, bypassing newDiscoverer
// (which otherwise dispatches on build tags to real OS backends).
func attachForTest(t *testing.T, fr *fakeRW, baseAddr, blockAddr uint64, cfg Config) *GameConnection {
	t.Helper()
	c := New(cfg, nil)
	c.handle = fr
	c.baseAddr = baseAddr
	c.blockAddr = blockAddr
	c.state = StateAttached
	return c
}

func makeBlockAt(t *testing.T, fr *fakeRW, blockAddr uint64, statsBase uint64, framesLoaded int32, replayBase uint64, replayLen int32) {
	t.Helper()
	buf := make([]byte, ddmodel.StatsDataBlockSize)
	copy(buf, ddmodel.BlockMarker)
	ddbyte.PutLEUint64(buf, 272, statsBase) // offStatsBase
	ddbyte.PutLEInt32(buf, 280, framesLoaded)
	ddbyte.PutLEUint64(buf, 304, replayBase) // offReplayBase
	ddbyte.PutLEInt32(buf, int(ddmodel.ReplayLenOffset), replayLen)

	off := blockAddr - fr.base
	copy(fr.mem[off:off+uint64(len(buf))], buf)
}

func TestResolveByFixedPointer(t *testing.T) {
	fr := newFakeRW(4096, 0x1000)
	ddbyte.PutLEUint64(fr.mem, int(0x200), 0x2000) // pointer stored at base+0x200
	addr, err := resolveByFixedPointer(fr, 0x1000, 0x200)
	if err != nil {
		t.Fatalf("resolveByFixedPointer: %v", err)
	}
	if addr != 0x2000 {
		t.Errorf("addr = %#x, want 0x2000", addr)
	}
}

func TestLinearSearchBlockFindsMarker(t *testing.T) {
	fr := newFakeRW(protonSearchStride*3, protonSearchStart)
	markerAt := protonSearchStride + 50
	copy(fr.mem[markerAt:], ddmodel.BlockMarker)

	addr, err := linearSearchBlock(fr, protonSearchStart)
	if err != nil {
		t.Fatalf("linearSearchBlock: %v", err)
	}
	if addr != protonSearchStart+uint64(markerAt) {
		t.Errorf("addr = %#x, want %#x", addr, protonSearchStart+uint64(markerAt))
	}
}

func TestLinearSearchBlockNotFound(t *testing.T) {
	fr := newFakeRW(protonSearchStride*2, protonSearchStart)
	_, err := linearSearchBlock(fr, protonSearchStart)
	if err != ErrBaseAddressResolutionFailed {
		t.Errorf("err = %v, want ErrBaseAddressResolutionFailed", err)
	}
}

func TestReadStatsBlockRoundTrip(t *testing.T) {
	const blockAddr = 0x5000
	fr := newFakeRW(8192, 0x5000)
	makeBlockAt(t, fr, blockAddr, 0x6000, 2, 0x7000, 10)

	c := attachForTest(t, fr, 0x4000, blockAddr, Config{})
	block, err := c.ReadStatsBlock()
	if err != nil {
		t.Fatalf("ReadStatsBlock: %v", err)
	}
	if block.StatsBase != 0x6000 {
		t.Errorf("StatsBase = %#x, want 0x6000", block.StatsBase)
	}
	if block.StatsFramesLoaded != 2 {
		t.Errorf("StatsFramesLoaded = %d, want 2", block.StatsFramesLoaded)
	}
}

func TestReadStatsBlockNotAttached(t *testing.T) {
	c := New(Config{}, nil)
	_, err := c.ReadStatsBlock()
	if err != ErrProcessNotFound {
		t.Errorf("err = %v, want ErrProcessNotFound", err)
	}
}

func TestReadStatsBlockMarksBrokenOnDecodeFailure(t *testing.T) {
	const blockAddr = 0x5000
	fr := newFakeRW(8192, 0x5000)
	// Leave the marker bytes zeroed: DecodeStatsDataBlock must reject it.
	c := attachForTest(t, fr, 0x4000, blockAddr, Config{})

	_, err := c.ReadStatsBlock()
	if err == nil {
		t.Fatal("expected error for marker mismatch")
	}
	if c.State() != StateBroken {
		t.Errorf("State = %v, want StateBroken", c.State())
	}
}

func TestReadFramesSequentialRead(t *testing.T) {
	const blockAddr = 0x5000
	const statsBase = 0x6000
	fr := newFakeRW(1<<20, 0x4000)
	makeBlockAt(t, fr, blockAddr, statsBase, 2, 0x7000, 0)

	frameBuf := make([]byte, ddmodel.StatsFrameSize)
	ddbyte.PutLEFloat32(frameBuf, 0, 1.5)
	copy(fr.mem[statsBase-fr.base:], frameBuf)

	ddbyte.PutLEFloat32(frameBuf, 0, 2.5)
	copy(fr.mem[statsBase-fr.base+uint64(ddmodel.StatsFrameSize):], frameBuf)

	c := attachForTest(t, fr, 0x4000, blockAddr, Config{})
	block, err := c.ReadStatsBlock()
	if err != nil {
		t.Fatalf("ReadStatsBlock: %v", err)
	}

	frames, err := c.ReadFrames(block)
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
}

func TestReadReplayBufferEmptyLength(t *testing.T) {
	const blockAddr = 0x5000
	fr := newFakeRW(8192, 0x4000)
	makeBlockAt(t, fr, blockAddr, 0x6000, 0, 0x7000, 0)

	c := attachForTest(t, fr, 0x4000, blockAddr, Config{})
	block, err := c.ReadStatsBlock()
	if err != nil {
		t.Fatalf("ReadStatsBlock: %v", err)
	}
	buf, err := c.ReadReplayBuffer(block)
	if err != nil {
		t.Fatalf("ReadReplayBuffer: %v", err)
	}
	if len(buf) != 0 {
		t.Errorf("len(buf) = %d, want 0", len(buf))
	}
}

func TestInjectReplayRejectsEmptyBuffer(t *testing.T) {
	const blockAddr = 0x5000
	fr := newFakeRW(8192, 0x4000)
	makeBlockAt(t, fr, blockAddr, 0x6000, 0, 0x7000, 0)
	c := attachForTest(t, fr, 0x4000, blockAddr, Config{})
	if _, err := c.ReadStatsBlockWithFrames(); err != nil {
		t.Fatalf("ReadStatsBlockWithFrames: %v", err)
	}

	if err := c.InjectReplay(nil); err != ErrEmptyReplayBuffer {
		t.Errorf("err = %v, want ErrEmptyReplayBuffer", err)
	}
}

func TestInjectReplayRequiresPriorSnapshot(t *testing.T) {
	const blockAddr = 0x5000
	fr := newFakeRW(8192, 0x4000)
	makeBlockAt(t, fr, blockAddr, 0x6000, 0, 0x7000, 0)
	c := attachForTest(t, fr, 0x4000, blockAddr, Config{})

	if err := c.InjectReplay([]byte{1, 2, 3}); err != ErrNoSnapshotAvailable {
		t.Errorf("err = %v, want ErrNoSnapshotAvailable", err)
	}
}

func TestInjectReplayWriteOrderingBufferLengthFlag(t *testing.T) {
	const blockAddr = 0x5000
	const replayBase = 0x6000
	fr := newFakeRW(1<<20, 0x4000)
	makeBlockAt(t, fr, blockAddr, 0x7000, 0, replayBase, 0)

	c := attachForTest(t, fr, 0x4000, blockAddr, Config{})
	if _, err := c.ReadStatsBlockWithFrames(); err != nil {
		t.Fatalf("ReadStatsBlockWithFrames: %v", err)
	}

	replay := []byte{0xAA, 0xBB, 0xCC}
	if err := c.InjectReplay(replay); err != nil {
		t.Fatalf("InjectReplay: %v", err)
	}

	gotBuf := fr.mem[replayBase-fr.base : replayBase-fr.base+3]
	for i, b := range replay {
		if gotBuf[i] != b {
			t.Errorf("replay byte %d = %#x, want %#x", i, gotBuf[i], b)
		}
	}

	lenOff := blockAddr - fr.base + ddmodel.ReplayLenOffset
	if got := ddbyte.ReadLEInt32(fr.mem, int(lenOff)); got != int32(len(replay)) {
		t.Errorf("length field = %d, want %d", got, len(replay))
	}

	flagOff := blockAddr - fr.base + ddmodel.ReplayFlagOffset
	if fr.mem[flagOff] != 0x01 {
		t.Errorf("flag byte = %#x, want 0x01", fr.mem[flagOff])
	}
}

func TestCloseReleasesHandle(t *testing.T) {
	fr := newFakeRW(16, 0)
	c := attachForTest(t, fr, 0, 0, Config{})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fr.closed {
		t.Error("expected underlying handle to be closed")
	}
	if c.State() != StateDead {
		t.Errorf("State after Close = %v, want StateDead", c.State())
	}
}

func TestConfigBlockMarkerOverride(t *testing.T) {
	cfg := Config{Variant: VariantLinuxNative, BlockMarkerOverride: 0xABCD}
	if got := cfg.blockMarker(); got != 0xABCD {
		t.Errorf("blockMarker() = %#x, want 0xabcd", got)
	}
}

func TestConfigProcessNameDefaults(t *testing.T) {
	if got := (Config{Variant: VariantWindowsNative}).processName(); got != DefaultProcessNameWindows {
		t.Errorf("processName() = %q, want %q", got, DefaultProcessNameWindows)
	}
	if got := (Config{Variant: VariantLinuxProton}).processName(); got != ProtonPreloaderName {
		t.Errorf("processName() = %q, want %q", got, ProtonPreloaderName)
	}
	if got := (Config{Variant: VariantLinuxNative}).processName(); got != DefaultProcessNameLinux {
		t.Errorf("processName() = %q, want %q", got, DefaultProcessNameLinux)
	}
}
