package display

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"element-inspector/src/inspect"
)

// Actions are invoked on the UI goroutine in response to keys.
type Actions struct {
	Inspect       func()
	ToggleBackend func() inspect.Backend
	Copy          func(text string) error
	Quit          func()
}

type reportMsg string
type statusMsg string
type backendMsg inspect.Backend
type quitMsg struct{}

var (
	textStyle   = tcell.StyleDefault
	headStyle   = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorTeal)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// View is a read-only scrolling text surface with a status line. Only the
// goroutine running Run touches its fields; everyone else posts events.
type View struct {
	screen  tcell.Screen
	actions Actions
	hotkey  string
	backend inspect.Backend
	report  string
	lines   []string
	offset  int
	status  string
}

func New(screen tcell.Screen, hotkey string, backend inspect.Backend, actions Actions) *View {
	v := &View{screen: screen, actions: actions, hotkey: hotkey, backend: backend}
	v.setText(fmt.Sprintf("Hover over an element and press %s to inspect it.", hotkey))
	v.status = "Ready"
	return v
}

// Show replaces the displayed report. Safe from any goroutine.
func (v *View) Show(text string) { v.post(reportMsg(text)) }

// Status replaces the status message. Safe from any goroutine.
func (v *View) Status(msg string) { v.post(statusMsg(msg)) }

// SetBackend refreshes the backend shown in the status line. Safe from any goroutine.
func (v *View) SetBackend(b inspect.Backend) { v.post(backendMsg(b)) }

// Close asks Run to return. Safe from any goroutine.
func (v *View) Close() { v.post(quitMsg{}) }

func (v *View) post(data interface{}) {
	if err := v.screen.PostEvent(tcell.NewEventInterrupt(data)); err != nil {
		log.Printf("display: dropped %T: %v", data, err)
	}
}

// Run initialises the screen and processes events until q/Esc, Close or ctx
// cancellation.
func (v *View) Run(ctx context.Context) error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer v.screen.Fini()

	stop := context.AfterFunc(ctx, v.Close)
	defer stop()

	v.draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if quit := v.handleEvent(ev); quit {
			return nil
		}
		v.draw()
	}
}

// handleEvent applies ev and reports whether the view should close.
func (v *View) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.clampOffset()
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case reportMsg:
			v.setText(string(data))
		case statusMsg:
			v.status = string(data)
		case backendMsg:
			v.backend = inspect.Backend(data)
		case quitMsg:
			return true
		}
	case *tcell.EventKey:
		return v.handleKey(ev)
	}
	return false
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return v.quit()
	case tcell.KeyUp:
		v.scroll(-1)
	case tcell.KeyDown:
		v.scroll(1)
	case tcell.KeyPgUp:
		v.scroll(-v.pageHeight())
	case tcell.KeyPgDn:
		v.scroll(v.pageHeight())
	case tcell.KeyHome:
		v.offset = 0
	case tcell.KeyEnd:
		v.offset = len(v.lines)
		v.clampOffset()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return v.quit()
		case 'b', 'B':
			if v.actions.ToggleBackend != nil {
				v.backend = v.actions.ToggleBackend()
				v.status = "Backend switched to " + string(v.backend)
			}
		case 'c', 'C':
			v.copyReport()
		case 'i', 'I':
			if v.actions.Inspect != nil {
				v.actions.Inspect()
			}
		}
	}
	return false
}

func (v *View) quit() bool {
	if v.actions.Quit != nil {
		v.actions.Quit()
	}
	return true
}

func (v *View) copyReport() {
	if v.actions.Copy == nil {
		return
	}
	if err := v.actions.Copy(v.report); err != nil {
		v.status = "Copy failed: " + err.Error()
		return
	}
	v.status = "Report copied to clipboard"
}

func (v *View) setText(text string) {
	v.report = text
	v.lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	v.offset = 0
}

func (v *View) pageHeight() int {
	_, h := v.screen.Size()
	if h <= 1 {
		return 1
	}
	return h - 1
}

func (v *View) scroll(n int) {
	v.offset += n
	v.clampOffset()
}

func (v *View) clampOffset() {
	max := len(v.lines) - v.pageHeight()
	if v.offset > max {
		v.offset = max
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

func (v *View) statusLine() string {
	return fmt.Sprintf(" [%s] %s | b backend  c copy  i inspect  q quit | %s", v.backend, v.hotkey, v.status)
}

func (v *View) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	for row := 0; row < h-1; row++ {
		i := v.offset + row
		if i >= len(v.lines) {
			break
		}
		style := textStyle
		if strings.HasPrefix(v.lines[i], "#") {
			style = headStyle
		}
		drawText(v.screen, 0, row, w, v.lines[i], style)
	}
	if h > 0 {
		line := runewidth.FillRight(runewidth.Truncate(v.statusLine(), w, "..."), w)
		drawText(v.screen, 0, h-1, w, line, statusStyle)
	}
	v.screen.Show()
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > maxWidth {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
}
