package platform

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"element-inspector/src/inspect"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procWindowFromPoint     = user32.NewProc("WindowFromPoint")
	procGetClassNameW       = user32.NewProc("GetClassNameW")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procGetAncestor         = user32.NewProc("GetAncestor")
	procGetDesktopWindow    = user32.NewProc("GetDesktopWindow")
	procGetWindow           = user32.NewProc("GetWindow")
	procIsWindow            = user32.NewProc("IsWindow")
)

const (
	gaParent = 1
	gaRoot   = 2

	gwHwndNext = 2
	gwChild    = 5

	wmGetText       = 0x000D
	wmGetTextLength = 0x000E
	smtoAbortIfHung = 0x0002
	textTimeoutMs   = 200

	maxClassName = 256
	maxChildren  = 4096
)

type rect32 struct {
	Left, Top, Right, Bottom int32
}

func (r rect32) toRect() inspect.Rect {
	return inspect.Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)}
}

// user32Windows reads the native window hierarchy.
type user32Windows struct{}

func (user32Windows) WindowFromPoint(p inspect.Point) (inspect.Handle, error) {
	h, _, _ := procWindowFromPoint.Call(packPoint(p.X, p.Y))
	return inspect.Handle(h), nil
}

func (user32Windows) ClassName(h inspect.Handle) (string, error) {
	buf := make([]uint16, maxClassName)
	n, _, err := procGetClassNameW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return "", fmt.Errorf("GetClassName %s: %w", h, err)
	}
	return syscall.UTF16ToString(buf[:n]), nil
}

// Text asks the window itself via WM_GETTEXT, which also works for controls
// owned by other processes, falling back to GetWindowText.
func (user32Windows) Text(h inspect.Handle) (string, error) {
	var length uintptr
	ok, _, _ := procSendMessageTimeoutW.Call(uintptr(h), wmGetTextLength, 0, 0,
		smtoAbortIfHung, textTimeoutMs, uintptr(unsafe.Pointer(&length)))
	if ok != 0 && length > 0 {
		buf := make([]uint16, length+1)
		var copied uintptr
		ok, _, _ = procSendMessageTimeoutW.Call(uintptr(h), wmGetText, uintptr(len(buf)),
			uintptr(unsafe.Pointer(&buf[0])), smtoAbortIfHung, textTimeoutMs, uintptr(unsafe.Pointer(&copied)))
		if ok != 0 {
			return syscall.UTF16ToString(buf), nil
		}
	}

	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return syscall.UTF16ToString(buf[:n]), nil
}

func (user32Windows) Rect(h inspect.Handle) (inspect.Rect, error) {
	var r rect32
	ok, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return inspect.Rect{}, fmt.Errorf("GetWindowRect %s: %w", h, err)
	}
	return r.toRect(), nil
}

func (user32Windows) Parent(h inspect.Handle) (inspect.Handle, error) {
	if ok, _, _ := procIsWindow.Call(uintptr(h)); ok == 0 {
		return 0, fmt.Errorf("%s is not a window", h)
	}
	parent, _, _ := procGetAncestor.Call(uintptr(h), gaParent)
	desktop, _, _ := procGetDesktopWindow.Call()
	if parent == desktop {
		return 0, nil
	}
	return inspect.Handle(parent), nil
}

func (user32Windows) Root(h inspect.Handle) (inspect.Handle, error) {
	root, _, _ := procGetAncestor.Call(uintptr(h), gaRoot)
	if root == 0 {
		return 0, fmt.Errorf("no root ancestor for %s", h)
	}
	return inspect.Handle(root), nil
}

func (user32Windows) Children(h inspect.Handle) ([]inspect.Handle, error) {
	var out []inspect.Handle
	child, _, _ := procGetWindow.Call(uintptr(h), gwChild)
	for child != 0 && len(out) < maxChildren {
		out = append(out, inspect.Handle(child))
		child, _, _ = procGetWindow.Call(child, gwHwndNext)
	}
	return out, nil
}
