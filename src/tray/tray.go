package tray

import (
	"log"
	"runtime"
	"sync"

	"github.com/getlantern/systray"

	"element-inspector/src/inspect"
)

const defaultTooltip = "Element Inspector"

// Actions are the callbacks behind the menu items.
type Actions struct {
	Inspect       func()
	ToggleBackend func() inspect.Backend
	Quit          func()
}

var (
	mu       sync.Mutex
	running  bool
	mBackend *systray.MenuItem
)

// Run shows the tray icon and blocks until Quit. It owns its OS thread.
func Run(actions Actions, backend inspect.Backend) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	systray.Run(func() { onReady(actions, backend) }, onExit)
}

func onReady(actions Actions, backend inspect.Backend) {
	mu.Lock()
	running = true
	mu.Unlock()

	systray.SetIcon(Icon())
	systray.SetTitle(defaultTooltip)
	systray.SetTooltip(defaultTooltip)

	mInspect := systray.AddMenuItem("Inspect now", "Inspect the element under the cursor")
	backendItem := systray.AddMenuItem(backendLabel(backend), "Switch between win32 and uia")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	mu.Lock()
	mBackend = backendItem
	mu.Unlock()

	go func() {
		for {
			select {
			case <-mInspect.ClickedCh:
				if actions.Inspect != nil {
					actions.Inspect()
				}
			case <-backendItem.ClickedCh:
				if actions.ToggleBackend != nil {
					SetBackend(actions.ToggleBackend())
				}
			case <-mQuit.ClickedCh:
				log.Printf("Tray: quit requested")
				if actions.Quit != nil {
					actions.Quit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func onExit() {
	mu.Lock()
	running = false
	mBackend = nil
	mu.Unlock()
}

func backendLabel(b inspect.Backend) string {
	return "Backend: " + string(b)
}

// SetBackend refreshes the backend menu item.
func SetBackend(b inspect.Backend) {
	mu.Lock()
	defer mu.Unlock()
	if mBackend != nil {
		mBackend.SetTitle(backendLabel(b))
	}
}

// UpdateTooltip sets the tray tooltip; empty restores the default.
func UpdateTooltip(text string) {
	mu.Lock()
	defer mu.Unlock()
	if !running {
		return
	}
	if text == "" {
		text = defaultTooltip
	}
	systray.SetTooltip(text)
}

// Quit removes the tray icon if it is showing.
func Quit() {
	mu.Lock()
	r := running
	mu.Unlock()
	if r {
		systray.Quit()
	}
}
