package platform

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"element-inspector/src/inspect"
)

var (
	oleacc                         = windows.NewLazySystemDLL("oleacc.dll")
	procAccessibleObjectFromPoint  = oleacc.NewProc("AccessibleObjectFromPoint")
	procAccessibleObjectFromWindow = oleacc.NewProc("AccessibleObjectFromWindow")
	procAccessibleChildren         = oleacc.NewProc("AccessibleChildren")
	procWindowFromAccessibleObject = oleacc.NewProc("WindowFromAccessibleObject")

	iidIAccessible = ole.NewGUID("{618736E0-3C3D-11CF-810C-00AA00389B71}")
)

const objidClient = 0xFFFFFFFC

// IAccessible
const (
	accChildCount = 8
	accName       = 10
	accRole       = 13
	accHelp       = 15
	accLocation   = 22
)

const childIDSelf = 0

// msaa is the legacy accessible-object model.
type msaa struct {
	com *comThread
}

func (m msaa) ObjectFromPoint(p inspect.Point) (inspect.Element, error) {
	var acc *ole.IUnknown
	var child ole.VARIANT
	err := m.com.do(func() error {
		hr, _, _ := procAccessibleObjectFromPoint.Call(packPoint(p.X, p.Y),
			uintptr(unsafe.Pointer(&acc)), uintptr(unsafe.Pointer(&child)))
		return hresult(hr)
	})
	if err != nil {
		return nil, fmt.Errorf("AccessibleObjectFromPoint %s: %w", p, err)
	}
	if acc == nil {
		return nil, inspect.ErrElementNotFound
	}
	id := int32(childIDSelf)
	if child.VT == ole.VT_I4 {
		id = int32(child.Val)
	}
	return &accElement{com: m.com, acc: newCOMObject(m.com, acc), child: id}, nil
}

func (m msaa) ObjectFromWindow(h inspect.Handle) (inspect.Element, error) {
	var acc *ole.IUnknown
	err := m.com.do(func() error {
		hr, _, _ := procAccessibleObjectFromWindow.Call(uintptr(h), objidClient,
			uintptr(unsafe.Pointer(iidIAccessible)), uintptr(unsafe.Pointer(&acc)))
		return hresult(hr)
	})
	if err != nil {
		return nil, fmt.Errorf("AccessibleObjectFromWindow %s: %w", h, err)
	}
	if acc == nil {
		return nil, inspect.ErrElementNotFound
	}
	return &accElement{com: m.com, acc: newCOMObject(m.com, acc), child: childIDSelf}, nil
}

// accElement is an IAccessible plus a child id; simple children share their
// parent's object.
type accElement struct {
	com   *comThread
	acc   *comObject
	child int32
}

func (e *accElement) self() *ole.VARIANT {
	return &ole.VARIANT{VT: ole.VT_I4, Val: int64(e.child)}
}

func (e *accElement) Properties() (inspect.Properties, error) {
	var props inspect.Properties
	err := e.com.do(func() error {
		acc := e.acc.unk
		defer runtime.KeepAlive(e.acc)
		self := e.self()

		var left, top, width, height int32
		hr, _, _ := syscall.SyscallN(method(acc, accLocation), uintptr(unsafe.Pointer(acc)),
			uintptr(unsafe.Pointer(&left)), uintptr(unsafe.Pointer(&top)),
			uintptr(unsafe.Pointer(&width)), uintptr(unsafe.Pointer(&height)),
			uintptr(unsafe.Pointer(self)))
		if err := hresult(hr); err != nil {
			return fmt.Errorf("accLocation: %w", err)
		}
		props.Rect = inspect.Rect{
			Left:   int(left),
			Top:    int(top),
			Right:  int(left + width),
			Bottom: int(top + height),
		}

		var role ole.VARIANT
		hr, _, _ = syscall.SyscallN(method(acc, accRole), uintptr(unsafe.Pointer(acc)),
			uintptr(unsafe.Pointer(self)), uintptr(unsafe.Pointer(&role)))
		if hresult(hr) == nil {
			if role.VT == ole.VT_I4 {
				props.ControlType = roleName(int32(role.Val))
			}
			ole.VariantClear(&role)
		}

		props.Text = accString(acc, accName, self)
		props.HelpText = accString(acc, accHelp, self)

		var hwnd uintptr
		hr, _, _ = procWindowFromAccessibleObject.Call(uintptr(unsafe.Pointer(acc)), uintptr(unsafe.Pointer(&hwnd)))
		if hresult(hr) == nil {
			props.Handle = inspect.Handle(hwnd)
		}
		return nil
	})
	return props, err
}

func accString(acc *ole.IUnknown, index int, self *ole.VARIANT) string {
	var b *uint16
	hr, _, _ := syscall.SyscallN(method(acc, index), uintptr(unsafe.Pointer(acc)),
		uintptr(unsafe.Pointer(self)), uintptr(unsafe.Pointer(&b)))
	if hresult(hr) != nil {
		return ""
	}
	return takeBSTR(b)
}

func (e *accElement) Children() ([]inspect.Element, error) {
	if e.child != childIDSelf {
		return nil, nil
	}
	var out []inspect.Element
	err := e.com.do(func() error {
		acc := e.acc.unk
		defer runtime.KeepAlive(e.acc)

		var count int32
		hr, _, _ := syscall.SyscallN(method(acc, accChildCount),
			uintptr(unsafe.Pointer(acc)), uintptr(unsafe.Pointer(&count)))
		if err := hresult(hr); err != nil {
			return fmt.Errorf("accChildCount: %w", err)
		}
		if count <= 0 {
			return nil
		}
		if count > maxElementChildren {
			count = maxElementChildren
		}

		vars := make([]ole.VARIANT, count)
		var obtained int32
		hr, _, _ = procAccessibleChildren.Call(uintptr(unsafe.Pointer(acc)), 0, uintptr(count),
			uintptr(unsafe.Pointer(&vars[0])), uintptr(unsafe.Pointer(&obtained)))
		if err := hresult(hr); err != nil {
			return fmt.Errorf("AccessibleChildren: %w", err)
		}

		for i := 0; i < int(obtained); i++ {
			v := &vars[i]
			switch v.VT {
			case ole.VT_DISPATCH:
				disp := v.ToIDispatch()
				if disp == nil {
					continue
				}
				child, err := disp.QueryInterface(iidIAccessible)
				disp.Release()
				if err != nil {
					continue
				}
				out = append(out, &accElement{com: e.com, acc: newCOMObject(e.com, &child.IUnknown), child: childIDSelf})
			case ole.VT_I4:
				acc.AddRef()
				out = append(out, &accElement{com: e.com, acc: newCOMObject(e.com, acc), child: int32(v.Val)})
			default:
				ole.VariantClear(v)
			}
		}
		return nil
	})
	return out, err
}
