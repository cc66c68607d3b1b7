package hotkey

import (
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listener feeds global keyboard events into a Chord.
type Listener struct {
	combo    string
	chord    *Chord
	callback func()
	stopOnce sync.Once
	done     chan struct{}
}

// Listen registers combo as a global hotkey. The callback runs on the hook
// goroutine, so it must hand work off rather than block.
func Listen(combo string, callback func()) (*Listener, error) {
	chord, err := NewChord(combo)
	if err != nil {
		return nil, err
	}
	l := &Listener{
		combo:    combo,
		chord:    chord,
		callback: callback,
		done:     make(chan struct{}),
	}
	log.Printf("Hotkey listener configured for: %s (%s)", combo, strings.Join(chord.Keys(), "+"))

	evChan := gohook.Start()
	if evChan == nil {
		log.Printf("ERROR: gohook.Start() returned nil channel")
		close(l.done)
		return l, nil
	}
	go l.run(evChan)
	return l, nil
}

func (l *Listener) run(evChan chan gohook.Event) {
	defer close(l.done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hotkey goroutine: %v", r)
		}
	}()

	for ev := range evChan {
		l.handle(ev.Kind, ev.Rawcode)
	}
	log.Printf("Hotkey event channel closed")
}

func (l *Listener) handle(kind uint8, rawcode uint16) {
	switch kind {
	case gohook.KeyDown, gohook.KeyHold:
		if l.chord.Press(rawcode) {
			log.Printf("Hotkey %s detected", l.combo)
			if l.callback != nil {
				l.callback()
			}
		}
	case gohook.KeyUp:
		l.chord.Release(rawcode)
	}
}

// Stop ends the global hook, waits for the event goroutine to exit and
// forgets any keys still held.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		gohook.End()
		<-l.done
		l.chord.Reset()
	})
}
