package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"element-inspector/src/capture"
	"element-inspector/src/config"
	"element-inspector/src/inspect"
	"element-inspector/src/platform"
)

type cliOptions struct {
	x, y        int
	backend     string
	jsonOutput  bool
	capturePath string
	delay       time.Duration
	verbose     bool
}

// deps are the side effects of a run, swapped out in tests.
type deps struct {
	stdout    io.Writer
	stderr    io.Writer
	services  func() (inspect.Services, func(), error)
	cursor    func() inspect.Point
	capture   func(inspect.Rect) ([]byte, error)
	writeFile func(name string, data []byte, perm os.FileMode) error
	sleep     func(time.Duration)
}

func defaultDeps() deps {
	return deps{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		services:  platform.New,
		cursor:    platform.CursorPosition,
		capture:   capture.Element,
		writeFile: os.WriteFile,
		sleep:     time.Sleep,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	platform.EnableDPIAwareness()
	return runWithArgs(normalizeLegacyArgs(os.Args), defaultDeps())
}

func runWithArgs(args []string, d deps) error {
	if len(args) == 0 {
		args = []string{"inspect"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts, d)
	cmd.SetArgs(args[1:])
	cmd.SetOut(d.stdout)
	cmd.SetErr(d.stderr)
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "inspect",
		Short:         "Resolve the UI element at a screen point and print locators",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			usePoint := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
			return runWithOptions(*opts, usePoint, d)
		},
	}

	cmd.Flags().IntVar(&opts.x, "x", 0, "Screen X coordinate (default: cursor position)")
	cmd.Flags().IntVar(&opts.y, "y", 0, "Screen Y coordinate (default: cursor position)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Automation backend: win32 or uia (default from BACKEND)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().StringVar(&opts.capturePath, "capture", "", "Write a PNG of the resolved element to this path")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "Wait before reading the cursor, e.g. 3s")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")

	return cmd
}

func runWithOptions(opts cliOptions, usePoint bool, d deps) error {
	// Configure logging BEFORE any other operations.
	if opts.verbose {
		log.SetOutput(d.stderr)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{BackendOverride: opts.backend})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.backend != "" {
		if _, err := inspect.ParseBackend(opts.backend); err != nil {
			return err
		}
	}
	backend, err := inspect.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	svc, closeSvc, err := d.services()
	if err != nil {
		return fmt.Errorf("failed to start platform services: %w", err)
	}
	defer closeSvc()

	p := inspect.Point{X: opts.x, Y: opts.y}
	if !usePoint {
		if opts.delay > 0 {
			log.Printf("waiting %v before reading the cursor", opts.delay)
			d.sleep(opts.delay)
		}
		p = d.cursor()
	}
	log.Printf("inspecting %s with backend %s", p, backend)

	report := inspect.NewInspector(svc).Inspect(p, backend)

	if opts.capturePath != "" {
		if err := writeCapture(opts.capturePath, report, d); err != nil {
			return err
		}
		log.Printf("capture written to %s", opts.capturePath)
	}

	return outputReport(d.stdout, report, opts.jsonOutput)
}

func writeCapture(path string, r inspect.Report, d deps) error {
	if !r.Descriptor.Found() || r.Properties.Rect.Empty() {
		return fmt.Errorf("nothing to capture: result is %s", r.Kind)
	}
	png, err := d.capture(r.Properties.Rect)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	if err := d.writeFile(path, png, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func outputReport(w io.Writer, r inspect.Report, jsonOutput bool) error {
	if !jsonOutput {
		_, err := io.WriteString(w, inspect.FormatReport(r))
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

var legacyFlags = []string{"x", "y", "backend", "json", "capture", "delay", "verbose"}

// normalizeLegacyArgs maps Go-style single-dash flags to cobra's long form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range legacyFlags {
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
