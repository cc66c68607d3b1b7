package platform

import (
	"github.com/go-vgo/robotgo"

	"element-inspector/src/inspect"
)

// CursorPosition returns the mouse position in screen coordinates.
func CursorPosition() inspect.Point {
	x, y := robotgo.Location()
	return inspect.Point{X: x, Y: y}
}
