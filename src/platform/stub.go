//go:build !windows || !amd64

package platform

import (
	"log"

	"element-inspector/src/inspect"
)

// New returns empty services; every strategy reports itself unavailable and
// resolution ends in NotFound.
func New() (inspect.Services, func(), error) {
	log.Printf("platform: no window or accessibility backends on this platform")
	return inspect.Services{}, func() {}, nil
}

func EnableDPIAwareness() {}
