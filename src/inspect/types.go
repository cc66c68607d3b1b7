package inspect

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Point is a position in global screen coordinates.
type Point struct {
	X int
	Y int
}

func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Rect is a screen rectangle. Left/Top are inclusive, Right/Bottom exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Area returns width*height, or 0 for an empty rect.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width()/2, Y: r.Top + r.Height()/2}
}

func (r Rect) String() string {
	return fmt.Sprintf("(L%d, T%d, R%d, B%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Handle is a native window handle. Zero means no window.
type Handle uintptr

func (h Handle) String() string { return fmt.Sprintf("0x%X", uintptr(h)) }

// Backend selects the accessibility API family used for resolution.
type Backend string

const (
	BackendWin32 Backend = "win32"
	BackendUIA   Backend = "uia"
)

// ParseBackend normalizes s into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case BackendWin32:
		return BackendWin32, nil
	case BackendUIA:
		return BackendUIA, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want %q or %q)", s, BackendWin32, BackendUIA)
	}
}

// Other returns the opposite backend.
func (b Backend) Other() Backend {
	if b == BackendWin32 {
		return BackendUIA
	}
	return BackendWin32
}

// BackendFlag holds the operator's backend preference. It is the only state
// shared between resolutions; readers take a snapshot at call start.
type BackendFlag struct {
	v atomic.Value
}

func NewBackendFlag(b Backend) *BackendFlag {
	f := &BackendFlag{}
	f.Store(b)
	return f
}

func (f *BackendFlag) Load() Backend {
	if b, ok := f.v.Load().(Backend); ok {
		return b
	}
	return BackendUIA
}

func (f *BackendFlag) Store(b Backend) { f.v.Store(b) }

// Toggle flips the preference and returns the new value.
func (f *BackendFlag) Toggle() Backend {
	for {
		old := f.v.Load()
		cur, _ := old.(Backend)
		if cur == "" {
			cur = BackendUIA
		}
		next := cur.Other()
		if old == nil {
			f.v.Store(next)
			return next
		}
		if f.v.CompareAndSwap(old, next) {
			return next
		}
	}
}

// Kind tags which strategy family produced a Descriptor.
type Kind int

const (
	KindNotFound Kind = iota
	KindTkinter
	KindChrome
	KindAccessibility
	KindDirectAutomation
	KindGenericAutomation
)

func (k Kind) String() string {
	switch k {
	case KindTkinter:
		return "TkinterSpecific"
	case KindChrome:
		return "ChromeSpecific"
	case KindAccessibility:
		return "Accessibility"
	case KindDirectAutomation:
		return "DirectAutomation"
	case KindGenericAutomation:
		return "GenericAutomation"
	default:
		return "NotFound"
	}
}

// Properties is whatever a strategy could read about an element.
type Properties struct {
	Handle       Handle `json:"handle,omitempty"`
	ClassName    string `json:"class_name,omitempty"`
	Text         string `json:"text,omitempty"`
	Rect         Rect   `json:"rect"`
	AutomationID string `json:"automation_id,omitempty"`
	ControlType  string `json:"control_type,omitempty"`
	HelpText     string `json:"help_text,omitempty"`
}

// IsZero reports whether nothing at all was read.
func (p Properties) IsZero() bool {
	return p == Properties{}
}

// Descriptor is the resolver's best guess for the element under a point.
type Descriptor struct {
	Kind       Kind
	Strategy   string
	Properties Properties
	Diagnostic string
	Point      Point
	Backend    Backend
}

// Found reports whether d describes an element.
func (d Descriptor) Found() bool { return d.Kind != KindNotFound }
