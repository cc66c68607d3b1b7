package hotkey

import (
	"fmt"
	"sync"
)

// Chord detects a key combination from a stream of key-down/key-up codes.
//
// Each chord key owns one bit. A key-down sets its bit and the chord fires
// once when every bit is set. Any release of a chord key clears all bits and
// re-arms, so auto-repeat while the combination is held never fires twice.
type Chord struct {
	mu      sync.Mutex
	names   []string
	bits    map[uint16]uint64
	want    uint64
	pressed uint64
	fired   bool
}

// NewChord builds a detector for combo, e.g. "Ctrl+Alt+I".
func NewChord(combo string) (*Chord, error) {
	keys, err := ParseCombo(combo)
	if err != nil {
		return nil, err
	}
	if len(keys) > 64 {
		return nil, fmt.Errorf("hotkey %q has too many keys", combo)
	}
	c := &Chord{names: keys, bits: make(map[uint16]uint64)}
	for i, k := range keys {
		codes, _ := keyCodes(k)
		bit := uint64(1) << uint(i)
		for _, code := range codes {
			c.bits[code] |= bit
		}
		c.want |= bit
	}
	return c, nil
}

// Keys returns the normalized key names of the chord.
func (c *Chord) Keys() []string {
	return append([]string(nil), c.names...)
}

// Press records a key-down and reports whether the chord fired.
func (c *Chord) Press(code uint16) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	bit, ok := c.bits[code]
	if !ok {
		return false
	}
	c.pressed |= bit
	if c.pressed&c.want != c.want || c.fired {
		return false
	}
	c.fired = true
	return true
}

// Release records a key-up. Releasing a chord key resets the state.
func (c *Chord) Release(code uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.bits[code]; !ok {
		return
	}
	c.pressed = 0
	c.fired = false
}

// Reset clears all pressed bits.
func (c *Chord) Reset() {
	c.mu.Lock()
	c.pressed = 0
	c.fired = false
	c.mu.Unlock()
}
