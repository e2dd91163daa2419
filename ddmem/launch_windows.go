//go:build windows

// This file implements the best-effort launch and window-maximize helpers
// (spec.md §4.M "Launch helpers"). Windows is the only platform this spec
// scopes the helper to, so it lives behind its own build tag rather than in
// the shared connection.go.

package ddmem

import (
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// LaunchGame starts the game via its installed id, the way a Windows shell
// "open" verb would (spec.md: "invoke the platform shell to start the game
// via its installed id").
func LaunchGame(shellID string) error {
	cmd := exec.Command("cmd", "/C", "start", "", shellID)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ddmem: launch %q: %w", shellID, err)
	}
	return nil
}

// MaximizeGameWindow enumerates top-level windows, finds the first whose
// title matches windowTitle, and shows it maximized (spec.md: "window
// enumeration and show-window to maximize the game"). It is best-effort: a
// window that hasn't appeared yet is not an error.
func MaximizeGameWindow(windowTitle string) error {
	user32 := windows.NewLazySystemDLL("user32.dll")
	procEnumWindows := user32.NewProc("EnumWindows")
	procGetWindowText := user32.NewProc("GetWindowTextW")
	procShowWindow := user32.NewProc("ShowWindow")

	const swMaximize = 3
	var found windows.HWND

	cb := syscall.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		buf := make([]uint16, 256)
		n, _, _ := procGetWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if n == 0 {
			return 1
		}
		title := windows.UTF16ToString(buf[:n])
		if title == windowTitle {
			found = hwnd
			return 0 // stop enumeration
		}
		return 1
	})

	procEnumWindows.Call(cb, 0)
	if found == 0 {
		return nil
	}

	procShowWindow.Call(uintptr(found), swMaximize)
	return nil
}
