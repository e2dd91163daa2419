// This file defines the read/write abstraction the three OS-variant
// backends share, per spec.md §9 ("Factor the handle behind a read/write
// abstraction so the three OS variants share one algorithmic layer").

package ddmem

import "io"

// rw is implemented by each platform backend: a cross-process memory
// handle addressed by absolute virtual address.
type rw interface {
	// ReadAt reads len(b) bytes starting at addr into b.
	ReadAt(b []byte, addr uint64) (int, error)

	// WriteAt writes b starting at addr.
	WriteAt(b []byte, addr uint64) (int, error)

	io.Closer
}

// discoverer is implemented by each platform's process-discovery algorithm.
// It returns an open rw handle and the resolved base address of the game's
// main executable image.
type discoverer interface {
	discover(cfg Config) (handle rw, baseAddr uint64, err error)
}
