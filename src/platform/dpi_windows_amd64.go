package platform

import (
	"log"

	"golang.org/x/sys/windows"
)

// EnableDPIAwareness sets per-monitor DPI awareness so cursor coordinates and
// window rectangles share one physical pixel space.
func EnableDPIAwareness() {
	setProcessDpiAwareness := windows.NewLazySystemDLL("Shcore.dll").NewProc("SetProcessDpiAwareness")
	const processPerMonitorDPIAware = 2
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Printf("DPI: per-monitor awareness set")
		} else {
			log.Printf("DPI: SetProcessDpiAwareness failed: 0x%X", ret)
		}
		return
	}

	log.Printf("DPI: Shcore.SetProcessDpiAwareness not available, trying fallback")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err != nil {
		log.Printf("DPI: SetProcessDPIAware not available, no DPI awareness set")
		return
	}
	if ret, _, _ := setProcessDPIAware.Call(); ret == 0 {
		log.Printf("DPI: failed to set system DPI awareness (fallback)")
	}
}
