package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"element-inspector/src/clipboard"
	"element-inspector/src/config"
	"element-inspector/src/display"
	"element-inspector/src/eventloop"
	"element-inspector/src/hotkey"
	"element-inspector/src/inspect"
	"element-inspector/src/logutil"
	"element-inspector/src/platform"
	"element-inspector/src/singleinstance"
	"element-inspector/src/tray"
)

type mainOptions struct {
	hotkey  string
	backend string
	noTray  bool
}

func main() {
	// Ensure DPI awareness before querying any coordinates
	platform.EnableDPIAwareness()

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(normalizeLegacyArgs(os.Args)[1:])
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "element-inspector",
		Short:         "Inspect the UI element under the cursor with a global hotkey",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResident(*opts)
		},
	}
	cmd.Flags().StringVar(&opts.hotkey, "hotkey", "", "Hotkey chord, e.g. Ctrl+Alt+I (default from HOTKEY)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Initial backend: win32 or uia (default from BACKEND)")
	cmd.Flags().BoolVar(&opts.noTray, "no-tray", false, "Do not show the tray icon")
	return cmd
}

func runResident(opts mainOptions) error {
	if opts.backend != "" {
		if _, err := inspect.ParseBackend(opts.backend); err != nil {
			return err
		}
	}
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		BackendOverride: opts.backend,
		HotkeyOverride:  opts.hotkey,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if _, err := hotkey.ParseCombo(cfg.Hotkey); err != nil {
		return err
	}

	logutil.Setup(cfg.EnableFileLogging, cfg.LogFile)

	if delegateToResident() {
		fmt.Println("Element Inspector is already running; asked it to inspect now.")
		return nil
	}
	log.Printf("Element Inspector starting: hotkey=%s backend=%s env=%q", cfg.Hotkey, cfg.Backend, cfg.EnvPath)

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
	}

	svc, closeSvc, err := platform.New()
	if err != nil {
		return fmt.Errorf("failed to start platform services: %w", err)
	}
	defer closeSvc()

	backend, _ := inspect.ParseBackend(cfg.Backend)
	flag := inspect.NewBackendFlag(backend)
	inspector := inspect.NewInspector(svc)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var loop *eventloop.Loop
	view := display.New(screen, cfg.Hotkey, backend, display.Actions{
		Inspect:       func() { loop.Trigger() },
		ToggleBackend: func() inspect.Backend { return toggleBackend(flag, tray.SetBackend) },
		Copy:          clipboard.Write,
		Quit:          cancel,
	})
	loop = eventloop.New(eventloop.Options{
		Cursor:    platform.CursorPosition,
		Backend:   flag,
		Describer: inspector,
		Sink:      view,
		OnBusy: func(busy bool) {
			if busy {
				tray.UpdateTooltip("Element Inspector: inspecting...")
			} else {
				tray.UpdateTooltip("")
			}
		},
	})

	owner := singleinstance.NewServer()
	if err := owner.Start(ctx, loop.Trigger); err != nil {
		log.Printf("Single-instance endpoint unavailable: %v", err)
	}
	defer owner.Close()

	if cfg.EnableTray && !opts.noTray {
		go tray.Run(tray.Actions{
			Inspect:       loop.Trigger,
			ToggleBackend: func() inspect.Backend { return toggleBackend(flag, view.SetBackend) },
			Quit:          cancel,
		}, backend)
		defer tray.Quit()
	}

	listener, err := loop.StartHotkey(cfg.Hotkey)
	if err != nil {
		return fmt.Errorf("failed to register hotkey: %w", err)
	}
	if listener != nil {
		defer listener.Stop()
	}

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("event loop stopped: %v", err)
		}
	}()

	return view.Run(ctx)
}

func delegateToResident() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	err := singleinstance.Delegate(ctx)
	if err != nil && !errors.Is(err, singleinstance.ErrNotRunning) {
		log.Printf("Resident check failed: %v", err)
	}
	return err == nil
}

// toggleBackend flips the shared flag and tells the other surface.
func toggleBackend(flag *inspect.BackendFlag, notify func(inspect.Backend)) inspect.Backend {
	b := flag.Toggle()
	log.Printf("Backend switched to %s", b)
	if notify != nil {
		notify(b)
	}
	return b
}

// normalizeLegacyArgs maps Go-style single-dash flags to cobra's long form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"element-inspector"}
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"hotkey", "backend", "no-tray"} {
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}

	return normalized
}
