package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/kbinani/screenshot"

	"element-inspector/src/inspect"
)

var ErrNoDisplay = errors.New("no active displays found")

// Padding is the margin captured around the element.
const Padding = 8

var outlineColor = color.RGBA{R: 0xE8, G: 0x11, B: 0x23, A: 0xFF}

// VirtualScreen returns the union of all active display bounds.
func VirtualScreen() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

// Element captures the element rectangle plus Padding, outlines the element
// and returns PNG bytes.
func Element(r inspect.Rect) ([]byte, error) {
	if r.Empty() {
		return nil, fmt.Errorf("invalid element rectangle %s", r)
	}
	screen, err := VirtualScreen()
	if err != nil {
		return nil, err
	}
	target := toImageRect(r)
	bounds := target.Inset(-Padding).Intersect(screen)
	if bounds.Empty() {
		return nil, fmt.Errorf("element %s is off screen", r)
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture element: %w", err)
	}
	Outline(img, target.Sub(bounds.Min))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Outline draws a 1px border along r, clipped to img.
func Outline(img *image.RGBA, r image.Rectangle) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, outlineColor)
		img.SetRGBA(x, r.Max.Y-1, outlineColor)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, outlineColor)
		img.SetRGBA(r.Max.X-1, y, outlineColor)
	}
}

func toImageRect(r inspect.Rect) image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}
