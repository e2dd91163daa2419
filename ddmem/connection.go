// This file implements the GameConnection state machine and its read/write
// operations (spec.md §4.M), shared across all three OS variants behind the
// rw/discoverer abstractions. Mirrors the teacher's pattern of keeping one
// algorithmic core (repparser.parseProtected) over swappable decoders.

package ddmem

import (
	"fmt"
	"log/slog"

	"github.com/ddstats/ddcore/ddbyte"
	"github.com/ddstats/ddcore/ddmodel"
)

// State is one of the three GameConnection states (spec.md §4.M
// "State machine").
type State int

const (
	StateDead State = iota
	StateAttached
	StateBroken
)

func (s State) String() string {
	switch s {
	case StateAttached:
		return "attached"
	case StateBroken:
		return "broken"
	default:
		return "dead"
	}
}

// GameConnection is a single-threaded handle to a live game process
// (spec.md §5: "single-threaded per GameConnection"). The zero value is a
// valid Dead connection.
type GameConnection struct {
	cfg    Config
	log    *slog.Logger
	state  State
	handle rw

	baseAddr  uint64
	blockAddr uint64 // cached ddstats block pointer, 0 if unresolved

	lastFetch *ddmodel.StatsBlockWithFrames

	blockBuf [ddmodel.StatsDataBlockSize]byte
	frameBuf [ddmodel.StatsFrameSize]byte
}

// New constructs a Dead GameConnection for the given configuration.
func New(cfg Config, log *slog.Logger) *GameConnection {
	if log == nil {
		log = slog.Default()
	}
	return &GameConnection{cfg: cfg, log: log, state: StateDead}
}

// State returns the connection's current state.
func (c *GameConnection) State() State { return c.state }

// TryCreate attempts Dead/Broken → Attached: discover the process, resolve
// the base address, and re-derive the ddstats block pointer. A prior
// attached handle is closed before a new discovery attempt.
func (c *GameConnection) TryCreate() error {
	if c.handle != nil {
		c.handle.Close()
		c.handle = nil
	}

	disc, err := newDiscoverer(c.cfg.Variant)
	if err != nil {
		c.state = StateBroken
		return err
	}

	handle, baseAddr, err := disc.discover(c.cfg)
	if err != nil {
		c.state = StateBroken
		c.log.Debug("ddmem: discovery failed", "variant", c.cfg.Variant, "err", err)
		return err
	}

	c.handle = handle
	c.baseAddr = baseAddr
	c.blockAddr = 0

	blockAddr, err := resolveBlockAddress(c.handle, c.baseAddr, c.cfg)
	if err != nil {
		c.state = StateBroken
		return err
	}

	if err := c.verifyMarker(blockAddr); err != nil {
		c.state = StateBroken
		return err
	}

	c.blockAddr = blockAddr
	c.state = StateAttached
	c.log.Info("ddmem: attached", "variant", c.cfg.Variant, "base", fmt.Sprintf("0x%x", baseAddr), "block", fmt.Sprintf("0x%x", blockAddr))
	return nil
}

func (c *GameConnection) verifyMarker(blockAddr uint64) error {
	var marker [11]byte
	if _, err := c.handle.ReadAt(marker[:], blockAddr); err != nil {
		return fmt.Errorf("%w: %v", ErrReadMemoryFailed, err)
	}
	if string(marker[:]) != ddmodel.BlockMarker {
		return ErrMarkerMismatch
	}
	return nil
}

func (c *GameConnection) markBroken(err error) error {
	c.state = StateBroken
	return err
}

// ReadStatsBlock performs a single sizeof(StatsDataBlock) read at the
// cached block pointer (spec.md §4.M "read_stats_block").
func (c *GameConnection) ReadStatsBlock() (*ddmodel.StatsDataBlock, error) {
	if c.state != StateAttached || c.blockAddr == 0 {
		return nil, ErrProcessNotFound
	}

	if _, err := c.handle.ReadAt(c.blockBuf[:], c.blockAddr); err != nil {
		return nil, c.markBroken(fmt.Errorf("%w: %v", ErrReadMemoryFailed, err))
	}

	block, err := ddmodel.DecodeStatsDataBlock(c.blockBuf[:])
	if err != nil {
		return nil, c.markBroken(err)
	}
	return block, nil
}

// ReadFrames reads block.StatsFramesLoaded StatsFrame records sequentially
// from block.StatsBase (spec.md §4.M "read_frames").
func (c *GameConnection) ReadFrames(block *ddmodel.StatsDataBlock) ([]ddmodel.StatsFrame, error) {
	if c.state != StateAttached {
		return nil, ErrProcessNotFound
	}

	n := int(block.StatsFramesLoaded)
	frames := make([]ddmodel.StatsFrame, 0, n)
	addr := block.StatsBase

	for i := 0; i < n; i++ {
		if _, err := c.handle.ReadAt(c.frameBuf[:], addr); err != nil {
			return nil, c.markBroken(fmt.Errorf("%w: frame %d: %v", ErrReadMemoryFailed, i, err))
		}
		frame, err := ddmodel.DecodeStatsFrame(c.frameBuf[:])
		if err != nil {
			return nil, c.markBroken(err)
		}
		frames = append(frames, frame)
		addr += ddmodel.StatsFrameSize
	}

	return frames, nil
}

// ReadReplayBuffer reads block.ReplayBufferLength bytes from
// block.ReplayBase (spec.md §4.M "read_replay_buffer").
func (c *GameConnection) ReadReplayBuffer(block *ddmodel.StatsDataBlock) ([]byte, error) {
	if c.state != StateAttached {
		return nil, ErrProcessNotFound
	}

	buf := make([]byte, block.ReplayBufferLength)
	if len(buf) == 0 {
		return buf, nil
	}
	if _, err := c.handle.ReadAt(buf, block.ReplayBase); err != nil {
		return nil, c.markBroken(fmt.Errorf("%w: %v", ErrReadMemoryFailed, err))
	}
	return buf, nil
}

// ReadStatsBlockWithFrames is the composed read that also updates the
// last-fetch cache used by InjectReplay (spec.md §4.M
// "read_stats_block_with_frames").
func (c *GameConnection) ReadStatsBlockWithFrames() (*ddmodel.StatsBlockWithFrames, error) {
	block, err := c.ReadStatsBlock()
	if err != nil {
		return nil, err
	}
	frames, err := c.ReadFrames(block)
	if err != nil {
		return nil, err
	}

	snapshot := &ddmodel.StatsBlockWithFrames{Block: block, Frames: frames}
	c.lastFetch = snapshot
	return snapshot, nil
}

// InjectReplay writes replay into the game's replay buffer and publishes it
// via the length and flag control fields, in the fixed order spec.md §4.M
// requires: buffer, then length, then flag.
func (c *GameConnection) InjectReplay(replay []byte) error {
	if c.state != StateAttached {
		return ErrProcessNotFound
	}
	if len(replay) == 0 {
		return ErrEmptyReplayBuffer
	}
	if c.lastFetch == nil {
		return ErrNoSnapshotAvailable
	}

	block := c.lastFetch.Block

	if _, err := c.handle.WriteAt(replay, block.ReplayBase); err != nil {
		return c.markBroken(fmt.Errorf("%w: buffer: %v", ErrWriteMemoryFailed, err))
	}

	var lenBuf [4]byte
	ddbyte.PutLEInt32(lenBuf[:], 0, int32(len(replay)))
	if _, err := c.handle.WriteAt(lenBuf[:], c.blockAddr+ddmodel.ReplayLenOffset); err != nil {
		return c.markBroken(fmt.Errorf("%w: length: %v", ErrWriteMemoryFailed, err))
	}

	if _, err := c.handle.WriteAt([]byte{0x01}, c.blockAddr+ddmodel.ReplayFlagOffset); err != nil {
		return c.markBroken(fmt.Errorf("%w: flag: %v", ErrWriteMemoryFailed, err))
	}

	return nil
}

// Close releases the underlying OS handle, if any.
func (c *GameConnection) Close() error {
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	c.state = StateDead
	return err
}
