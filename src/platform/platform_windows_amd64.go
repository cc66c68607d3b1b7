package platform

import (
	"log"

	"element-inspector/src/inspect"
)

// New wires the native services. UI Automation or MSAA failing to start is
// logged and leaves that collaborator nil; the resolver then skips it.
func New() (inspect.Services, func(), error) {
	win := user32Windows{}
	svc := inspect.Services{Windows: win}
	auto := automation{win32: inspect.Win32Automation{Windows: win}}

	com, err := startCOMThread()
	if err != nil {
		log.Printf("platform: COM unavailable: %v", err)
		svc.Automation = auto
		return svc, func() {}, nil
	}

	svc.Accessibility = msaa{com: com}
	if uia, err := newUIAClient(com); err != nil {
		log.Printf("platform: UI Automation unavailable: %v", err)
	} else {
		auto.uia = uia
		svc.Direct = uiaDirect{c: uia}
	}
	svc.Automation = auto
	return svc, com.close, nil
}
