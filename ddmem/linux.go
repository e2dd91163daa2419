//go:build linux

// This file implements the Linux-native discoverer (spec.md §4.M
// "Linux-native"): scan /proc/<pid>/maps for an executable mapping whose
// path contains the process name and whose first 4 bytes are the ELF
// magic, then read/write cross-process memory via /proc/<pid>/mem.

package ddmem

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var elfMagic = []byte{0x7F, 'E', 'L', 'F'}

func newDiscoverer(variant Variant) (discoverer, error) {
	switch variant {
	case VariantLinuxNative:
		return linuxNativeDiscoverer{}, nil
	case VariantLinuxProton:
		return protonDiscoverer{}, nil
	default:
		return nil, fmt.Errorf("ddmem: %s requires building for that platform: %w", variant, ErrProcessNotFound)
	}
}

// procMemRW is an rw backed by /proc/<pid>/mem, which supports pread/pwrite
// at arbitrary virtual addresses via ReadAt/WriteAt.
type procMemRW struct {
	f *os.File
}

func openProcMem(pid int) (*procMemRW, error) {
	f, err := os.OpenFile(fmt.Sprintf("/proc/%d/mem", pid), os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHandleOpenFailed, err)
	}
	return &procMemRW{f: f}, nil
}

func (m *procMemRW) ReadAt(b []byte, addr uint64) (int, error) {
	return m.f.ReadAt(b, int64(addr))
}

func (m *procMemRW) WriteAt(b []byte, addr uint64) (int, error) {
	return m.f.WriteAt(b, int64(addr))
}

func (m *procMemRW) Close() error { return m.f.Close() }

// mapsEntry is one parsed line of /proc/<pid>/maps.
type mapsEntry struct {
	start uint64
	perms string
	path  string
}

func readMaps(pid int) ([]mapsEntry, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []mapsEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		addrRange := strings.SplitN(fields[0], "-", 2)
		if len(addrRange) != 2 {
			continue
		}
		start, err := strconv.ParseUint(addrRange[0], 16, 64)
		if err != nil {
			continue
		}
		path := ""
		if len(fields) >= 6 {
			path = fields[len(fields)-1]
		}
		entries = append(entries, mapsEntry{start: start, perms: fields[1], path: path})
	}
	return entries, sc.Err()
}

// findPIDByName scans /proc for a process whose comm matches name.
func findPIDByName(name string) (int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProcessNotFound, err)
	}
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(comm)) == name {
			return pid, nil
		}
	}
	return 0, ErrProcessNotFound
}

// readCmdline reads the NUL-joined argv of a process as a single string.
func readCmdline(pid int) (string, error) {
	b, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return "", err
	}
	return string(bytes.ReplaceAll(b, []byte{0}, []byte{' '})), nil
}

type linuxNativeDiscoverer struct{}

func (linuxNativeDiscoverer) discover(cfg Config) (rw, uint64, error) {
	pid, err := findPIDByName(cfg.processName())
	if err != nil {
		return nil, 0, err
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
		if !strings.Contains(m.path, cfg.processName()) {
			continue
		}
		if !strings.Contains(m.perms, "x") {
			continue
		}
		var magic [4]byte
		if _, err := handle.ReadAt(magic[:], m.start); err != nil {
			continue
		}
		if bytes.Equal(magic[:], elfMagic) {
			return handle, m.start, nil
		}
	}

	handle.Close()
	return nil, 0, ErrBaseAddressResolutionFailed
}
