package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49560
	defaultPortEnd   = 49570
)

// getPortRange returns the configured TCP port range from
// INSPECTOR_PORT_START and INSPECTOR_PORT_END (inclusive), clamped to
// [1024, 65535].
func getPortRange() (int, int) {
	start := envInt("INSPECTOR_PORT_START", defaultPortStart)
	end := envInt("INSPECTOR_PORT_END", defaultPortEnd)
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	if end < start {
		start, end = end, start
	}
	return start, end
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
