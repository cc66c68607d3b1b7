package inspect

import "strings"

// Win32Automation serves the win32 backend from the native window tree.
// Each element is a window handle and its children are its child windows.
type Win32Automation struct {
	Windows Windows
}

func (a Win32Automation) ElementFromPoint(b Backend, p Point) (Element, error) {
	if a.Windows == nil || b != BackendWin32 {
		return nil, ErrStrategyUnavailable
	}
	h, err := a.Windows.WindowFromPoint(p)
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, ErrElementNotFound
	}
	return NewWindowElement(a.Windows, h), nil
}

type windowElement struct {
	win Windows
	h   Handle
}

// NewWindowElement wraps a native handle as an Element.
func NewWindowElement(win Windows, h Handle) Element {
	return windowElement{win: win, h: h}
}

func (e windowElement) Properties() (Properties, error) {
	return WindowProperties(e.win, e.h)
}

func (e windowElement) Children() ([]Element, error) {
	handles, err := e.win.Children(e.h)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, windowElement{win: e.win, h: h})
	}
	return out, nil
}

// win32ClassTypes maps common window classes to friendly control names.
var win32ClassTypes = map[string]string{
	"button":             "Button",
	"edit":               "Edit",
	"static":             "Text",
	"combobox":           "ComboBox",
	"comboboxex32":       "ComboBox",
	"listbox":            "List",
	"syslistview32":      "List",
	"systreeview32":      "Tree",
	"systabcontrol32":    "Tab",
	"msctls_progress32":  "ProgressBar",
	"msctls_trackbar32":  "Slider",
	"msctls_statusbar32": "StatusBar",
	"toolbarwindow32":    "ToolBar",
	"scrollbar":          "ScrollBar",
	"richedit20w":        "Edit",
	"richedit50w":        "Edit",
	"#32770":             "Dialog",
	"#32768":             "Menu",
}

func win32ControlType(class string) string {
	if class == "" {
		return ""
	}
	if t, ok := win32ClassTypes[strings.ToLower(class)]; ok {
		return t
	}
	if strings.HasPrefix(class, "Tk") {
		return "Pane"
	}
	return "Window"
}
