package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var ErrEmpty = errors.New("nothing to copy")

var (
	writeMu sync.Mutex
	ready   bool
)

func Init() error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := clipboard.Init(); err != nil {
		return err
	}
	ready = true
	return nil
}

// Write performs a mutex-guarded clipboard write so a copy from the view and
// one from the tray can't interleave.
func Write(text string) error {
	if text == "" {
		return ErrEmpty
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	if !ready {
		if err := clipboard.Init(); err != nil {
			return err
		}
		ready = true
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
