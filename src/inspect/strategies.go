package inspect

import (
	"fmt"
	"strings"
)

// Strategy is one step of the resolution chain. A nil descriptor or an
// error hands the point to the next strategy.
type Strategy interface {
	Name() string
	Attempt(p Point, b Backend) (*Descriptor, error)
}

const (
	// tkMinArea is the smallest Tk descendant area considered specific.
	tkMinArea = 100
	// narrowingDepth bounds the accessibility narrowing descent.
	narrowingDepth = 3
	// descentDepth bounds the automation tree descent.
	descentDepth = 10
)

// CoordinateAdvice is attached to results where no element tree is usable.
const CoordinateAdvice = "browser content is not exposed as native windows or accessible objects; " +
	"click by screen coordinates instead"

var browserClassPrefixes = []string{
	"Chrome_",
	"MozillaWindowClass",
	"MozillaDialogClass",
	"CefBrowserWindow",
	"ApplicationFrameWindow",
}

// IsTkClass reports whether a window class belongs to a Tk application.
func IsTkClass(class string) bool {
	return strings.HasPrefix(class, "Tk")
}

// IsBrowserClass reports whether a window class belongs to a browser.
func IsBrowserClass(class string) bool {
	for _, prefix := range browserClassPrefixes {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}

func isGenericControl(controlType string) bool {
	return controlType == "Window" || controlType == "Pane"
}

// windowUnderPoint returns the window at p and its class.
func windowUnderPoint(win Windows, p Point) (Handle, string, error) {
	if win == nil {
		return 0, "", ErrStrategyUnavailable
	}
	h, err := win.WindowFromPoint(p)
	if err != nil {
		return 0, "", err
	}
	if h == 0 {
		return 0, "", ErrElementNotFound
	}
	class, err := win.ClassName(h)
	if err != nil {
		return 0, "", err
	}
	return h, class, nil
}

// containingDescendants returns the descendants of h's root whose rect
// contains p, in enumeration order.
func containingDescendants(win Windows, h Handle, p Point) ([]Properties, error) {
	root, err := win.Root(h)
	if err != nil {
		return nil, err
	}
	if root == 0 {
		root = h
	}
	handles, err := Descendants(win, root)
	if err != nil && len(handles) == 0 {
		return nil, err
	}
	var out []Properties
	for _, d := range handles {
		props, err := WindowProperties(win, d)
		if err != nil {
			continue
		}
		if props.Rect.Contains(p) {
			out = append(out, props)
		}
	}
	return out, nil
}

// TkStrategy picks the smallest Tk descendant window under the point.
type TkStrategy struct {
	Windows Windows
}

func (TkStrategy) Name() string { return "tk-descendants" }

func (s TkStrategy) Attempt(p Point, b Backend) (*Descriptor, error) {
	h, class, err := windowUnderPoint(s.Windows, p)
	if err != nil {
		return nil, err
	}
	if !IsTkClass(class) {
		return nil, nil
	}
	candidates, err := containingDescendants(s.Windows, h, p)
	if err != nil {
		return nil, err
	}
	best := -1
	for i, c := range candidates {
		area := c.Rect.Area()
		if area <= tkMinArea {
			continue
		}
		if best < 0 || area < candidates[best].Rect.Area() {
			best = i
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%d Tk windows contain %s, none larger than %d px²", len(candidates), p, tkMinArea)
	}
	return &Descriptor{Kind: KindTkinter, Properties: candidates[best]}, nil
}

// BrowserStrategy approximates elements inside browser windows. It claims
// every browser window, returning NotFound with advice when it cannot help.
type BrowserStrategy struct {
	Windows       Windows
	Accessibility Accessibility
}

func (BrowserStrategy) Name() string { return "browser-child-window" }

func (s BrowserStrategy) Attempt(p Point, b Backend) (*Descriptor, error) {
	h, class, err := windowUnderPoint(s.Windows, p)
	if err != nil {
		return nil, err
	}
	if !IsBrowserClass(class) {
		return nil, nil
	}

	var reasons []string
	candidates, err := containingDescendants(s.Windows, h, p)
	switch {
	case err != nil:
		reasons = append(reasons, fmt.Sprintf("child windows: %v", err))
	case len(candidates) == 0:
		reasons = append(reasons, "child windows: none contain the point")
	default:
		best := 0
		for i, c := range candidates {
			if distance2(c.Rect.Center(), p) < distance2(candidates[best].Rect.Center(), p) {
				best = i
			}
		}
		return &Descriptor{
			Kind:       KindChrome,
			Properties: candidates[best],
			Diagnostic: "approximated by the nearest native child window; " + CoordinateAdvice,
		}, nil
	}

	if props, err := accessibleObjectOf(s.Accessibility, h); err != nil {
		reasons = append(reasons, fmt.Sprintf("accessible object: %v", err))
	} else {
		if props.Handle == 0 {
			props.Handle = h
		}
		return &Descriptor{
			Kind:       KindAccessibility,
			Strategy:   "browser-accessible-object",
			Properties: props,
			Diagnostic: CoordinateAdvice,
		}, nil
	}

	return &Descriptor{
		Kind:       KindNotFound,
		Properties: Properties{Handle: h, ClassName: class},
		Diagnostic: strings.Join(reasons, "; ") + ". " + CoordinateAdvice,
	}, nil
}

func accessibleObjectOf(acc Accessibility, h Handle) (Properties, error) {
	if acc == nil {
		return Properties{}, ErrStrategyUnavailable
	}
	el, err := acc.ObjectFromWindow(h)
	if err != nil {
		return Properties{}, err
	}
	if el == nil {
		return Properties{}, ErrElementNotFound
	}
	props, err := el.Properties()
	if err != nil {
		return Properties{}, err
	}
	if props.IsZero() {
		return Properties{}, ErrElementNotFound
	}
	return props, nil
}

func distance2(a, b Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// NarrowingStrategy descends the accessible-object tree by coordinates and
// keeps the most specific meaningful candidate.
type NarrowingStrategy struct {
	Accessibility Accessibility
}

func (NarrowingStrategy) Name() string { return "accessible-narrowing" }

func (s NarrowingStrategy) Attempt(p Point, b Backend) (*Descriptor, error) {
	if s.Accessibility == nil {
		return nil, ErrStrategyUnavailable
	}
	start, err := s.Accessibility.ObjectFromPoint(p)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return nil, ErrElementNotFound
	}

	var candidates []Properties
	if props, err := start.Properties(); err == nil && props.Rect.Contains(p) {
		candidates = append(candidates, props)
	}
	cur := start
	for level := 0; level < narrowingDepth; level++ {
		next, props, ok := childContaining(cur, p, nil)
		if !ok {
			break
		}
		candidates = append(candidates, props)
		cur = next
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no accessible object contains %s", p)
	}
	return &Descriptor{Kind: KindAccessibility, Properties: mostSpecific(candidates)}, nil
}

// mostSpecific prefers the smallest candidate that carries a name, an
// automation id or a non-generic control type; failing that the smallest.
func mostSpecific(candidates []Properties) Properties {
	best, bestMeaningful := -1, -1
	for i, c := range candidates {
		area := c.Rect.Area()
		if best < 0 || area < candidates[best].Rect.Area() {
			best = i
		}
		meaningful := c.Text != "" || c.AutomationID != "" ||
			(c.ControlType != "" && !isGenericControl(c.ControlType))
		if meaningful && (bestMeaningful < 0 || area < candidates[bestMeaningful].Rect.Area()) {
			bestMeaningful = i
		}
	}
	if bestMeaningful >= 0 {
		return candidates[bestMeaningful]
	}
	return candidates[best]
}

// childContaining returns the first child of e whose rect contains p and
// which passes accept (nil accepts all).
func childContaining(e Element, p Point, accept func(Properties) bool) (Element, Properties, bool) {
	children, err := e.Children()
	if err != nil {
		return nil, Properties{}, false
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		props, err := c.Properties()
		if err != nil || !props.Rect.Contains(p) {
			continue
		}
		if accept != nil && !accept(props) {
			continue
		}
		return c, props, true
	}
	return nil, Properties{}, false
}

// DirectStrategy asks the platform automation interface directly.
type DirectStrategy struct {
	Direct DirectAutomation
}

func (DirectStrategy) Name() string { return "direct-automation" }

func (s DirectStrategy) Attempt(p Point, b Backend) (*Descriptor, error) {
	if s.Direct == nil {
		return nil, ErrStrategyUnavailable
	}
	props, err := s.Direct.Probe(p)
	if err != nil {
		return nil, err
	}
	if props.IsZero() {
		return nil, nil
	}
	return &Descriptor{Kind: KindDirectAutomation, Properties: props}, nil
}

// DescentStrategy walks the backend's tree from the element at the point,
// preferring non-generic children that contain it.
type DescentStrategy struct {
	Automation Automation
}

func (DescentStrategy) Name() string { return "automation-descent" }

func (s DescentStrategy) Attempt(p Point, b Backend) (*Descriptor, error) {
	cur, props, err := elementAt(s.Automation, b, p)
	if err != nil {
		return nil, err
	}
	specific := func(c Properties) bool { return !isGenericControl(c.ControlType) }
	for level := 0; level < descentDepth; level++ {
		next, nextProps, ok := childContaining(cur, p, specific)
		if !ok {
			break
		}
		cur, props = next, nextProps
	}
	return &Descriptor{Kind: KindGenericAutomation, Properties: props}, nil
}

// HitTestStrategy is a single point hit-test against the backend.
type HitTestStrategy struct {
	Automation Automation
}

func (HitTestStrategy) Name() string { return "hit-test" }

func (s HitTestStrategy) Attempt(p Point, b Backend) (*Descriptor, error) {
	_, props, err := elementAt(s.Automation, b, p)
	if err != nil {
		return nil, err
	}
	return &Descriptor{Kind: KindGenericAutomation, Properties: props}, nil
}

func elementAt(a Automation, b Backend, p Point) (Element, Properties, error) {
	if a == nil {
		return nil, Properties{}, ErrStrategyUnavailable
	}
	el, err := a.ElementFromPoint(b, p)
	if err != nil {
		return nil, Properties{}, err
	}
	if el == nil {
		return nil, Properties{}, ErrElementNotFound
	}
	props, err := el.Properties()
	if err != nil {
		return nil, Properties{}, err
	}
	return el, props, nil
}
