// This file defines the error kinds listed in spec.md §7, as sentinel
// errors tested with errors.Is, matching the teacher's
// ErrNotReplayFile/ErrParsing/ErrMismatchedSection style.

package ddmem

import "errors"

var (
	// ErrProcessNotFound indicates no matching process exists for the
	// configured target (process name, or wine-preloader + dd.exe cmdline
	// for Proton).
	ErrProcessNotFound = errors.New("ddmem: process not found")

	// ErrHandleOpenFailed indicates the OS-level handle/file descriptor
	// could not be opened against a process that was otherwise found.
	ErrHandleOpenFailed = errors.New("ddmem: failed to open process handle")

	// ErrBaseAddressResolutionFailed indicates the executable's base
	// address could not be determined by any of the per-variant algorithms.
	ErrBaseAddressResolutionFailed = errors.New("ddmem: base address resolution failed")

	// ErrMarkerMismatch indicates a candidate ddstats block's first 11
	// bytes did not read back as the literal ASCII "__ddstats__".
	ErrMarkerMismatch = errors.New("ddmem: block marker mismatch")

	// ErrReadMemoryFailed indicates a cross-process memory read failed.
	ErrReadMemoryFailed = errors.New("ddmem: read memory failed")

	// ErrWriteMemoryFailed indicates a cross-process memory write failed.
	ErrWriteMemoryFailed = errors.New("ddmem: write memory failed")

	// ErrNoSnapshotAvailable indicates InjectReplay was called before any
	// successful ReadStatsBlockWithFrames populated the connection's
	// last-fetch cache.
	ErrNoSnapshotAvailable = errors.New("ddmem: no snapshot available")

	// ErrEmptyReplayBuffer indicates an injection was attempted with a
	// zero-length replay buffer.
	ErrEmptyReplayBuffer = errors.New("ddmem: empty replay buffer")
)
