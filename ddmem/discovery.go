// This file implements the block-address resolution algorithms shared by
// all three OS variants (spec.md §4.M "Pointer resolution algorithm"),
// operating purely against the rw abstraction so it needs no build tags.

package ddmem

import (
	"bytes"
	"fmt"

	"github.com/ddstats/ddcore/ddbyte"
	"github.com/ddstats/ddcore/ddmodel"
)

// resolveBlockAddress resolves the ddstats block's absolute address for the
// given variant.
func resolveBlockAddress(h rw, baseAddr uint64, cfg Config) (uint64, error) {
	if cfg.Variant == VariantLinuxProton {
		return linearSearchBlock(h, protonSearchStart)
	}
	return resolveByFixedPointer(h, baseAddr, cfg.blockMarker())
}

// resolveByFixedPointer reads the 8-byte little-endian pointer stored at
// baseAddr+marker and returns its value as the block address
// (spec.md §4.M: "the ddstats block is ... resolved as the 8-byte
// little-endian pointer stored at base_address + block_marker").
func resolveByFixedPointer(h rw, baseAddr, marker uint64) (uint64, error) {
	var ptrBuf [8]byte
	if _, err := h.ReadAt(ptrBuf[:], baseAddr+marker); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBaseAddressResolutionFailed, err)
	}
	return ddbyte.ReadLEUint64(ptrBuf[:], 0), nil
}

// linearSearchBlock scans forward from start in protonSearchStride chunks
// until it finds the literal marker (spec.md §4.M "Linux-Proton": "locate
// the block by linear memory search ... reading in 100 KiB strides; the
// first match is the block's address").
func linearSearchBlock(h rw, start uint64) (uint64, error) {
	markerLen := len(ddmodel.BlockMarker)
	// A chunk overlap of markerLen-1 bytes prevents missing a marker that
	// straddles a stride boundary.
	buf := make([]byte, protonSearchStride+markerLen-1)
	marker := []byte(ddmodel.BlockMarker)

	addr := start
	// Bound the search to a reasonable span of the address space; a
	// 64 MiB scan covers any plausible image without running unbounded
	// against an unresponsive process.
	const maxScanBytes = 64 * 1024 * 1024

	for scanned := 0; scanned < maxScanBytes; scanned += protonSearchStride {
		n, err := h.ReadAt(buf, addr)
		if err != nil || n == 0 {
			addr += protonSearchStride
			continue
		}
		if idx := bytes.Index(buf[:n], marker); idx >= 0 {
			return addr + uint64(idx), nil
		}
		addr += protonSearchStride
	}

	return 0, ErrBaseAddressResolutionFailed
}
