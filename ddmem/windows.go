//go:build windows

// This file implements the Windows-native discoverer (spec.md §4.M
// "Windows-native"): a Toolhelp32 module snapshot gives the first module's
// base address; cross-process reads/writes go through
// ReadProcessMemory/WriteProcessMemory.

package ddmem

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

func newDiscoverer(variant Variant) (discoverer, error) {
	switch variant {
	case VariantWindowsNative:
		return windowsNativeDiscoverer{}, nil
	default:
		return nil, fmt.Errorf("ddmem: %s requires building for that platform: %w", variant, ErrProcessNotFound)
	}
}

// processHandleRW is an rw backed by a Win32 process handle.
type processHandleRW struct {
	h windows.Handle
}

func (p *processHandleRW) ReadAt(b []byte, addr uint64) (int, error) {
	var n uintptr
	err := windows.ReadProcessMemory(p.h, uintptr(addr), &b[0], uintptr(len(b)), &n)
	if err != nil {
		return int(n), fmt.Errorf("%w: %v", ErrReadMemoryFailed, err)
	}
	return int(n), nil
}

func (p *processHandleRW) WriteAt(b []byte, addr uint64) (int, error) {
	var n uintptr
	err := windows.WriteProcessMemory(p.h, uintptr(addr), &b[0], uintptr(len(b)), &n)
	if err != nil {
		return int(n), fmt.Errorf("%w: %v", ErrWriteMemoryFailed, err)
	}
	return int(n), nil
}

func (p *processHandleRW) Close() error {
	return windows.CloseHandle(p.h)
}

type windowsNativeDiscoverer struct{}

func (windowsNativeDiscoverer) discover(cfg Config) (rw, uint64, error) {
	pid, baseAddr, err := findModuleByName(cfg.processName())
	if err != nil {
		return nil, 0, err
	}

	h, err := windows.OpenProcess(windows.PROCESS_ALL_ACCESS, false, pid)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrHandleOpenFailed, err)
	}

	return &processHandleRW{h: h}, baseAddr, nil
}

// findModuleByName takes a process snapshot, finds the PID whose first
// module matches name, and returns that module's base address
// (spec.md §4.M: "take a module snapshot, read the first module entry,
// return its base address").
func findModuleByName(name string) (pid uint32, baseAddr uint64, err error) {
	procSnap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrProcessNotFound, err)
	}
	defer windows.CloseHandle(procSnap)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	if err := windows.Process32First(procSnap, &pe); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrProcessNotFound, err)
	}

	for {
		exeName := windows.UTF16ToString(pe.ExeFile[:])
		if strings.EqualFold(exeName, name) {
			modSnap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE, pe.ProcessID)
			if err != nil {
				return 0, 0, fmt.Errorf("%w: %v", ErrBaseAddressResolutionFailed, err)
			}
			defer windows.CloseHandle(modSnap)

			var me windows.ModuleEntry32
			me.Size = uint32(unsafe.Sizeof(me))
			if err := windows.Module32First(modSnap, &me); err != nil {
				return 0, 0, fmt.Errorf("%w: %v", ErrBaseAddressResolutionFailed, err)
			}
			return pe.ProcessID, uint64(uintptr(unsafe.Pointer(me.ModBaseAddr))), nil
		}

		if err := windows.Process32Next(procSnap, &pe); err != nil {
			return 0, 0, ErrProcessNotFound
		}
	}
}
