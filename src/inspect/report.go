package inspect

import (
	"fmt"
	"log"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column is one backend's view of the point.
type Column struct {
	Backend    Backend    `json:"backend"`
	Properties Properties `json:"properties"`
	// Resolved marks the column holding the element the resolver chose
	// rather than a plain hit-test.
	Resolved bool   `json:"resolved,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Report is everything rendered for one inspection.
type Report struct {
	Point      Point      `json:"point"`
	Backend    Backend    `json:"backend"`
	Title      string     `json:"window_title"`
	Kind       string     `json:"kind"`
	Descriptor Descriptor `json:"-"`
	Strategy   string     `json:"strategy"`
	Diagnostic string     `json:"diagnostic,omitempty"`
	Properties Properties `json:"properties"`
	Columns    [2]Column  `json:"columns"`
	Connect    string     `json:"connect"`
	Locators   []Snippet  `json:"locators"`
}

// Inspector resolves points and assembles reports.
type Inspector struct {
	svc      Services
	resolver *Resolver
}

func NewInspector(svc Services) *Inspector {
	return &Inspector{svc: svc, resolver: NewResolver(svc)}
}

// NewInspectorWithResolver is used when the strategy chain is customised.
func NewInspectorWithResolver(svc Services, r *Resolver) *Inspector {
	return &Inspector{svc: svc, resolver: r}
}

// Inspect resolves p with backend b and collects both backend columns.
func (in *Inspector) Inspect(p Point, b Backend) Report {
	d := in.resolver.Resolve(p, b)
	r := Report{
		Point:      p,
		Backend:    b,
		Title:      in.titleFor(d),
		Kind:       d.Kind.String(),
		Descriptor: d,
		Strategy:   d.Strategy,
		Diagnostic: d.Diagnostic,
		Properties: d.Properties,
		Locators:   Locators(d),
	}
	r.Connect = ConnectSnippet(r.Title, b)
	for i, cb := range []Backend{BackendWin32, BackendUIA} {
		if cb == b && d.Found() {
			r.Columns[i] = Column{Backend: cb, Properties: d.Properties, Resolved: true}
			continue
		}
		r.Columns[i] = in.column(cb, p)
	}
	return r
}

func (in *Inspector) titleFor(d Descriptor) string {
	h := d.Properties.Handle
	if h == 0 && in.svc.Windows != nil {
		h, _ = in.svc.Windows.WindowFromPoint(d.Point)
	}
	if h == 0 || in.svc.Windows == nil {
		return d.Properties.Text
	}
	if root, err := in.svc.Windows.Root(h); err == nil && root != 0 {
		if title := WindowTitle(in.svc.Windows, root); title != "" {
			return title
		}
	}
	return WindowTitle(in.svc.Windows, h)
}

func (in *Inspector) column(b Backend, p Point) Column {
	c := Column{Backend: b}
	_, props, err := elementAt(in.svc.Automation, b, p)
	if err != nil {
		c.Err = err.Error()
		return c
	}
	c.Properties = props
	return c
}

// Describe inspects p and renders the report. Orchestration failures come
// back as display text rather than as an error.
func (in *Inspector) Describe(p Point, backend string) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			err := &OrchestrationError{Op: "inspect " + p.String(), Err: fmt.Errorf("panic: %v", rec)}
			log.Printf("Describe: %v", err)
			text = "Error: " + err.Error()
		}
	}()
	b, err := ParseBackend(backend)
	if err != nil {
		err = &OrchestrationError{Op: "inspect " + p.String(), Err: err}
		log.Printf("Describe: %v", err)
		return "Error: " + err.Error()
	}
	return FormatReport(in.Inspect(p, b))
}

const columnWidth = 38

// FormatReport renders r as the text block shown to the operator.
func FormatReport(r Report) string {
	var b strings.Builder

	b.WriteString("# Connect\n")
	b.WriteString(r.Connect)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Window:   %s\n", orNone(r.Title))
	fmt.Fprintf(&b, "Point:    %s  backend=%s\n", r.Point, r.Backend)
	fmt.Fprintf(&b, "Result:   %s via %s\n", r.Kind, orNone(r.Strategy))
	if r.Diagnostic != "" {
		fmt.Fprintf(&b, "Note:     %s\n", r.Diagnostic)
	}
	b.WriteString("\n")

	left := columnLines(r.Columns[0])
	right := columnLines(r.Columns[1])
	for len(left) < len(right) {
		left = append(left, "")
	}
	for len(right) < len(left) {
		right = append(right, "")
	}
	for i := range left {
		cell := runewidth.Truncate(left[i], columnWidth, "...")
		b.WriteString(runewidth.FillRight(cell, columnWidth))
		b.WriteString(" | ")
		b.WriteString(right[i])
		b.WriteString("\n")
	}

	b.WriteString("\n# Locators\n")
	for _, s := range r.Locators {
		fmt.Fprintf(&b, "## %s\n%s\n", s.Label, s.Code)
	}

	b.WriteString("\n# Actions\n")
	for _, m := range PatternMethods(r.Backend) {
		b.WriteString(runewidth.FillRight(m.Call, 17))
		b.WriteString("# ")
		b.WriteString(m.Purpose)
		b.WriteString("\n")
	}
	return b.String()
}

func columnLines(c Column) []string {
	head := "[" + string(c.Backend) + "]"
	if c.Resolved {
		head += " resolved"
	}
	lines := []string{head}
	if c.Err != "" {
		return append(lines, "unavailable: "+c.Err)
	}
	p := c.Properties
	lines = append(lines,
		"text:    "+orNone(p.Text),
		"class:   "+orNone(p.ClassName),
		"type:    "+orNone(p.ControlType),
		"auto_id: "+orNone(p.AutomationID),
		"rect:    "+p.Rect.String(),
	)
	if p.Handle != 0 {
		lines = append(lines, "handle:  "+p.Handle.String())
	}
	if p.HelpText != "" {
		lines = append(lines, "help:    "+p.HelpText)
	}
	return lines
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
