package inspect

import (
	"errors"
	"fmt"
)

var (
	// ErrStrategyUnavailable means a strategy's API could not service the point.
	ErrStrategyUnavailable = errors.New("strategy unavailable")
	// ErrElementNotFound means every strategy was exhausted.
	ErrElementNotFound = errors.New("element not found")
)

// OrchestrationError is a failure of the resolver itself rather than of a
// strategy. It is only ever rendered as display text.
type OrchestrationError struct {
	Op  string
	Err error
}

func (e *OrchestrationError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *OrchestrationError) Unwrap() error { return e.Err }

// Windows reads the native window hierarchy.
type Windows interface {
	WindowFromPoint(p Point) (Handle, error)
	ClassName(h Handle) (string, error)
	Text(h Handle) (string, error)
	Rect(h Handle) (Rect, error)
	// Parent returns 0 once h is a top-level window.
	Parent(h Handle) (Handle, error)
	// Root returns the top-level ancestor of h.
	Root(h Handle) (Handle, error)
	// Children returns the direct child windows of h in z-order.
	Children(h Handle) ([]Handle, error)
}

// Element is a node in an accessibility or automation tree.
type Element interface {
	Properties() (Properties, error)
	Children() ([]Element, error)
}

// Accessibility is the legacy accessible-object model.
type Accessibility interface {
	ObjectFromPoint(p Point) (Element, error)
	ObjectFromWindow(h Handle) (Element, error)
}

// Automation hit-tests the tree of the selected backend.
type Automation interface {
	ElementFromPoint(b Backend, p Point) (Element, error)
}

// DirectAutomation queries the platform automation interface without the
// backend wrapper.
type DirectAutomation interface {
	Probe(p Point) (Properties, error)
}

// Services bundles the collaborators the resolver reads from. Any field may
// be nil on platforms that lack the API.
type Services struct {
	Windows       Windows
	Accessibility Accessibility
	Automation    Automation
	Direct        DirectAutomation
}

// maxDescendants bounds descendant enumeration of a single root.
const maxDescendants = 4096

// Descendants lists every window below root in pre-order, the order
// EnumChildWindows reports them.
func Descendants(win Windows, root Handle) ([]Handle, error) {
	if win == nil {
		return nil, ErrStrategyUnavailable
	}
	seen := map[Handle]bool{root: true}
	var out []Handle
	var walk func(h Handle) error
	walk = func(h Handle) error {
		children, err := win.Children(h)
		if err != nil {
			return err
		}
		for _, c := range children {
			if c == 0 || seen[c] {
				continue
			}
			if len(out) >= maxDescendants {
				return nil
			}
			seen[c] = true
			out = append(out, c)
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return out, fmt.Errorf("enumerate children of %s: %w", root, err)
	}
	return out, nil
}

// WindowProperties reads the native properties of h. Failures on individual
// fields leave them empty; only a failed Rect is reported.
func WindowProperties(win Windows, h Handle) (Properties, error) {
	rect, err := win.Rect(h)
	if err != nil {
		return Properties{}, fmt.Errorf("rect of %s: %w", h, err)
	}
	class, _ := win.ClassName(h)
	text, _ := win.Text(h)
	return Properties{
		Handle:      h,
		ClassName:   class,
		Text:        text,
		Rect:        rect,
		ControlType: win32ControlType(class),
	}, nil
}
