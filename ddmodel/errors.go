package ddmodel

import "errors"

var (
	// ErrMarkerMismatch indicates the first 11 bytes of a block read were
	// not the literal ASCII "__ddstats__" (spec.md §7).
	ErrMarkerMismatch = errors.New("ddmodel: block marker mismatch")

	// ErrTruncatedBlock indicates fewer bytes were supplied than
	// StatsDataBlockMinSize requires.
	ErrTruncatedBlock = errors.New("ddmodel: truncated stats data block")

	// ErrTruncatedFrame indicates fewer bytes were supplied than
	// StatsFrameSize requires.
	ErrTruncatedFrame = errors.New("ddmodel: truncated stats frame")
)
