package platform

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"

	"element-inspector/src/inspect"
)

var (
	clsidCUIAutomation = ole.NewGUID("{FF48DBA4-60EF-4201-AA87-54103EEF594E}")
	iidIUIAutomation   = ole.NewGUID("{30CBE57D-D9D0-452A-AB13-7AC5AC4825EE}")
)

// IUIAutomation
const (
	uiaElementFromPoint     = 7
	uiaGetControlViewWalker = 14
)

// IUIAutomationElement
const (
	uiaCurrentControlType        = 21
	uiaCurrentName               = 23
	uiaCurrentAutomationID       = 29
	uiaCurrentClassName          = 30
	uiaCurrentHelpText           = 31
	uiaCurrentNativeWindowHandle = 36
	uiaCurrentBoundingRectangle  = 43
)

// IUIAutomationTreeWalker
const (
	walkerFirstChild  = 4
	walkerNextSibling = 6
)

const maxElementChildren = 512

// uiaClient is the UI Automation tree, seen through the control view.
type uiaClient struct {
	com    *comThread
	auto   *comObject
	walker *comObject
}

func newUIAClient(com *comThread) (*uiaClient, error) {
	c := &uiaClient{com: com}
	err := com.do(func() error {
		unk, err := ole.CreateInstance(clsidCUIAutomation, iidIUIAutomation)
		if err != nil {
			return fmt.Errorf("create CUIAutomation: %w", err)
		}
		c.auto = newCOMObject(com, unk)

		var walker *ole.IUnknown
		hr, _, _ := syscall.SyscallN(method(unk, uiaGetControlViewWalker),
			uintptr(unsafe.Pointer(unk)), uintptr(unsafe.Pointer(&walker)))
		if err := hresult(hr); err != nil {
			return fmt.Errorf("control view walker: %w", err)
		}
		c.walker = newCOMObject(com, walker)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *uiaClient) elementFromPoint(p inspect.Point) (*uiaElement, error) {
	var el *ole.IUnknown
	err := c.com.do(func() error {
		auto := c.auto.unk
		hr, _, _ := syscall.SyscallN(method(auto, uiaElementFromPoint),
			uintptr(unsafe.Pointer(auto)), packPoint(p.X, p.Y), uintptr(unsafe.Pointer(&el)))
		runtime.KeepAlive(c.auto)
		return hresult(hr)
	})
	if err != nil {
		return nil, fmt.Errorf("ElementFromPoint %s: %w", p, err)
	}
	if el == nil {
		return nil, inspect.ErrElementNotFound
	}
	return &uiaElement{c: c, obj: newCOMObject(c.com, el)}, nil
}

type uiaElement struct {
	c   *uiaClient
	obj *comObject
}

func (e *uiaElement) Properties() (inspect.Properties, error) {
	var props inspect.Properties
	err := e.c.com.do(func() error {
		el := e.obj.unk
		defer runtime.KeepAlive(e.obj)

		var r rect32
		hr, _, _ := syscall.SyscallN(method(el, uiaCurrentBoundingRectangle),
			uintptr(unsafe.Pointer(el)), uintptr(unsafe.Pointer(&r)))
		if err := hresult(hr); err != nil {
			return fmt.Errorf("bounding rectangle: %w", err)
		}
		props.Rect = r.toRect()

		var ct int32
		hr, _, _ = syscall.SyscallN(method(el, uiaCurrentControlType),
			uintptr(unsafe.Pointer(el)), uintptr(unsafe.Pointer(&ct)))
		if hresult(hr) == nil {
			props.ControlType = controlTypeName(ct)
		}

		var hwnd uintptr
		hr, _, _ = syscall.SyscallN(method(el, uiaCurrentNativeWindowHandle),
			uintptr(unsafe.Pointer(el)), uintptr(unsafe.Pointer(&hwnd)))
		if hresult(hr) == nil {
			props.Handle = inspect.Handle(hwnd)
		}

		props.Text = uiaString(el, uiaCurrentName)
		props.AutomationID = uiaString(el, uiaCurrentAutomationID)
		props.ClassName = uiaString(el, uiaCurrentClassName)
		props.HelpText = uiaString(el, uiaCurrentHelpText)
		return nil
	})
	return props, err
}

// uiaString reads a BSTR property; failures read as empty.
func uiaString(el *ole.IUnknown, index int) string {
	var b *uint16
	hr, _, _ := syscall.SyscallN(method(el, index), uintptr(unsafe.Pointer(el)), uintptr(unsafe.Pointer(&b)))
	if hresult(hr) != nil {
		return ""
	}
	return takeBSTR(b)
}

func (e *uiaElement) Children() ([]inspect.Element, error) {
	var children []*ole.IUnknown
	err := e.c.com.do(func() error {
		walker, el := e.c.walker.unk, e.obj.unk
		defer runtime.KeepAlive(e.obj)
		defer runtime.KeepAlive(e.c.walker)

		var child *ole.IUnknown
		hr, _, _ := syscall.SyscallN(method(walker, walkerFirstChild),
			uintptr(unsafe.Pointer(walker)), uintptr(unsafe.Pointer(el)), uintptr(unsafe.Pointer(&child)))
		if err := hresult(hr); err != nil {
			return err
		}
		for child != nil && len(children) < maxElementChildren {
			children = append(children, child)
			var next *ole.IUnknown
			hr, _, _ = syscall.SyscallN(method(walker, walkerNextSibling),
				uintptr(unsafe.Pointer(walker)), uintptr(unsafe.Pointer(child)), uintptr(unsafe.Pointer(&next)))
			if err := hresult(hr); err != nil {
				break
			}
			child = next
		}
		return nil
	})
	out := make([]inspect.Element, 0, len(children))
	for _, c := range children {
		out = append(out, &uiaElement{c: e.c, obj: newCOMObject(e.c.com, c)})
	}
	if err != nil {
		return out, fmt.Errorf("children: %w", err)
	}
	return out, nil
}

// uiaDirect probes UI Automation directly. A bare window or pane that only
// restates the native window carries nothing the later strategies can't
// find, so it reads as empty.
type uiaDirect struct {
	c *uiaClient
}

func (d uiaDirect) Probe(p inspect.Point) (inspect.Properties, error) {
	el, err := d.c.elementFromPoint(p)
	if err != nil {
		return inspect.Properties{}, err
	}
	props, err := el.Properties()
	if err != nil {
		return inspect.Properties{}, err
	}
	if (props.ControlType == "Window" || props.ControlType == "Pane") &&
		props.Text == "" && props.AutomationID == "" {
		return inspect.Properties{}, nil
	}
	return props, nil
}

// automation selects the tree for the requested backend.
type automation struct {
	win32 inspect.Win32Automation
	uia   *uiaClient
}

func (a automation) ElementFromPoint(b inspect.Backend, p inspect.Point) (inspect.Element, error) {
	switch b {
	case inspect.BackendWin32:
		return a.win32.ElementFromPoint(b, p)
	case inspect.BackendUIA:
		if a.uia == nil {
			return nil, inspect.ErrStrategyUnavailable
		}
		el, err := a.uia.elementFromPoint(p)
		if err != nil {
			return nil, err
		}
		return el, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", b)
	}
}
