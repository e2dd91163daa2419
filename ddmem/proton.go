//go:build linux

// This file implements the Linux-Proton discoverer (spec.md §4.M
// "Linux-Proton"): the game runs as dd.exe under a wine-preloader process;
// locate the dd.exe mapping by MZ magic, same rw as linuxNativeDiscoverer.

package ddmem

import (
	"bytes"
	"fmt"
	"strings"
)

var mzMagic = []byte{'M', 'Z'}

type protonDiscoverer struct{}

func (protonDiscoverer) discover(cfg Config) (rw, uint64, error) {
	pid, err := findPIDByName(ProtonPreloaderName)
	if err != nil {
		return nil, 0, err
	}

	cmdline, err := readCmdline(pid)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrProcessNotFound, err)
	}
	if !strings.Contains(cmdline, ProtonCmdlineNeedle) {
		return nil, 0, ErrProcessNotFound
	}

	maps, err := readMaps(pid)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBaseAddressResolutionFailed, err)
	}

	handle, err := openProcMem(pid)
	if err != nil {
		return nil, 0, err
	}

	for _, m := range maps {
		if !strings.Contains(m.path, ProtonCmdlineNeedle) {
			continue
		}
		if !strings.Contains(m.perms, "x") {
			continue
		}
		var magic [2]byte
		if _, err := handle.ReadAt(magic[:], m.start); err != nil {
			continue
		}
		if bytes.Equal(magic[:], mzMagic) {
			return handle, m.start, nil
		}
	}

	handle.Close()
	return nil, 0, ErrBaseAddressResolutionFailed
}
