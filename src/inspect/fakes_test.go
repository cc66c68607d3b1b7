package inspect

import "errors"

var errFake = errors.New("fake failure")

type fakeWindow struct {
	class    string
	text     string
	rect     Rect
	parent   Handle
	children []Handle
}

type fakeWindows struct {
	at          Handle
	atErr       error
	windows     map[Handle]*fakeWindow
	parentCalls int
}

func (f *fakeWindows) WindowFromPoint(p Point) (Handle, error) {
	return f.at, f.atErr
}

func (f *fakeWindows) get(h Handle) (*fakeWindow, error) {
	w, ok := f.windows[h]
	if !ok {
		return nil, errFake
	}
	return w, nil
}

func (f *fakeWindows) ClassName(h Handle) (string, error) {
	w, err := f.get(h)
	if err != nil {
		return "", err
	}
	return w.class, nil
}

func (f *fakeWindows) Text(h Handle) (string, error) {
	w, err := f.get(h)
	if err != nil {
		return "", err
	}
	return w.text, nil
}

func (f *fakeWindows) Rect(h Handle) (Rect, error) {
	w, err := f.get(h)
	if err != nil {
		return Rect{}, err
	}
	return w.rect, nil
}

func (f *fakeWindows) Parent(h Handle) (Handle, error) {
	f.parentCalls++
	w, err := f.get(h)
	if err != nil {
		return 0, err
	}
	return w.parent, nil
}

func (f *fakeWindows) Root(h Handle) (Handle, error) {
	for {
		w, err := f.get(h)
		if err != nil {
			return 0, err
		}
		if w.parent == 0 {
			return h, nil
		}
		h = w.parent
	}
}

func (f *fakeWindows) Children(h Handle) ([]Handle, error) {
	w, err := f.get(h)
	if err != nil {
		return nil, err
	}
	return w.children, nil
}

// fakeElement is a node of a hand-built accessibility tree.
type fakeElement struct {
	props       Properties
	propsErr    error
	children    []*fakeElement
	childrenErr error
	visits      *int
}

func (e *fakeElement) Properties() (Properties, error) {
	return e.props, e.propsErr
}

func (e *fakeElement) Children() ([]Element, error) {
	if e.visits != nil {
		*e.visits++
	}
	if e.childrenErr != nil {
		return nil, e.childrenErr
	}
	out := make([]Element, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out, nil
}

type fakeAccessibility struct {
	atPoint   *fakeElement
	pointErr  error
	atWindow  *fakeElement
	windowErr error
}

func (f *fakeAccessibility) ObjectFromPoint(p Point) (Element, error) {
	if f.pointErr != nil {
		return nil, f.pointErr
	}
	if f.atPoint == nil {
		return nil, nil
	}
	return f.atPoint, nil
}

func (f *fakeAccessibility) ObjectFromWindow(h Handle) (Element, error) {
	if f.windowErr != nil {
		return nil, f.windowErr
	}
	if f.atWindow == nil {
		return nil, nil
	}
	return f.atWindow, nil
}

type fakeAutomation struct {
	roots map[Backend]*fakeElement
	err   error
}

func (f *fakeAutomation) ElementFromPoint(b Backend, p Point) (Element, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.roots[b]
	if !ok {
		return nil, ErrStrategyUnavailable
	}
	return e, nil
}

type fakeDirect struct {
	props Properties
	err   error
}

func (f fakeDirect) Probe(p Point) (Properties, error) {
	return f.props, f.err
}

// rectAround returns a w×h rect whose top-left corner makes it contain p.
func rectAround(p Point, w, h int) Rect {
	return Rect{Left: p.X - w/2, Top: p.Y - h/2, Right: p.X - w/2 + w, Bottom: p.Y - h/2 + h}
}

// chain builds a linear tree of depth n below root, every node containing p.
func chain(p Point, n int, controlType string, visits *int) *fakeElement {
	root := &fakeElement{props: Properties{Rect: rectAround(p, 1000, 1000), ControlType: controlType}, visits: visits}
	cur := root
	for i := 1; i <= n; i++ {
		size := 1000 - i*50
		child := &fakeElement{
			props:  Properties{Rect: rectAround(p, size, size), ControlType: controlType},
			visits: visits,
		}
		cur.children = []*fakeElement{child}
		cur = child
	}
	return root
}
