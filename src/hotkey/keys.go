package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// modifierCodes holds the left/right virtual-key pair of each modifier.
var modifierCodes = map[string][]uint16{
	"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":   {164, 165}, // VK_LMENU, VK_RMENU
	"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":   {91, 92},   // VK_LWIN, VK_RWIN
}

var namedCodes = map[string]uint16{
	"space":     32,
	"enter":     13,
	"esc":       27,
	"tab":       9,
	"backspace": 8,
	"delete":    46,
	"insert":    45,
	"home":      36,
	"end":       35,
	"pageup":    33,
	"pagedown":  34,
	"left":      37,
	"up":        38,
	"right":     39,
	"down":      40,
}

var aliases = map[string]string{
	"control": "ctrl",
	"win":     "cmd",
	"super":   "cmd",
	"meta":    "cmd",
	"option":  "alt",
	"return":  "enter",
	"escape":  "esc",
	"del":     "delete",
	"ins":     "insert",
	"pgup":    "pageup",
	"pgdn":    "pagedown",
}

// normalizeKey lowercases a key name and resolves aliases.
func normalizeKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// keyCodes maps a normalized key name to the raw codes gohook reports for it.
func keyCodes(name string) ([]uint16, error) {
	if codes, ok := modifierCodes[name]; ok {
		return codes, nil
	}
	if code, ok := namedCodes[name]; ok {
		return []uint16{code}, nil
	}
	if len(name) == 1 {
		switch c := name[0]; {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16('A' + c - 'a')}, nil
		case c >= '0' && c <= '9':
			return []uint16{uint16(c)}, nil
		}
	}
	if strings.HasPrefix(name, "f") {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)}, nil // VK_F1 = 112
		}
	}
	return nil, fmt.Errorf("unknown key %q", name)
}

// ParseCombo splits a chord like "Ctrl+Alt+I" into normalized key names.
func ParseCombo(combo string) ([]string, error) {
	if strings.TrimSpace(combo) == "" {
		return nil, fmt.Errorf("empty hotkey")
	}
	var keys []string
	seen := map[string]bool{}
	for _, part := range strings.Split(combo, "+") {
		key := normalizeKey(part)
		if key == "" {
			return nil, fmt.Errorf("hotkey %q has an empty key", combo)
		}
		if _, err := keyCodes(key); err != nil {
			return nil, fmt.Errorf("hotkey %q: %w", combo, err)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys, nil
}
