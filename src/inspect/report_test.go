package inspect

import (
	"strings"
	"testing"
)

func TestPyQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OK", `"OK"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\temp`, `"C:\\temp"`},
		{"a\nb", `"a\nb"`},
		{"Сохранить", `"Сохранить"`},
	}
	for _, tt := range tests {
		if got := pyQuote(tt.in); got != tt.want {
			t.Errorf("pyQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLocatorsForFoundElement(t *testing.T) {
	d := Descriptor{
		Kind:    KindGenericAutomation,
		Backend: BackendUIA,
		Point:   Point{X: 15, Y: 15},
		Properties: Properties{
			Handle:       0x1A2B,
			Text:         "Save",
			ClassName:    "Button",
			AutomationID: "saveBtn",
			ControlType:  "Button",
			Rect:         Rect{Left: 10, Top: 10, Right: 30, Bottom: 20},
		},
	}

	got := Locators(d)

	want := []string{
		`dlg.child_window(title="Save", control_type="Button", auto_id="saveBtn").click_input()`,
		`dlg.child_window(title="Save", control_type="Button")`,
		`dlg.child_window(auto_id="saveBtn")`,
		`dlg.child_window(class_name="Button")`,
		`app.window(handle=0x1A2B)`,
		`pywinauto.mouse.click(coords=(20, 15))`,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d snippets, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Code != want[i] {
			t.Errorf("snippet %d = %s, want %s", i, got[i].Code, want[i])
		}
	}
}

func TestLocatorsWin32OmitsControlType(t *testing.T) {
	d := Descriptor{Kind: KindTkinter, Backend: BackendWin32, Properties: Properties{Text: "Go", ControlType: "Pane"}}
	if got := Locators(d)[1].Code; got != `dlg.child_window(title="Go")` {
		t.Errorf("got %s", got)
	}
}

func TestCombinedLocator(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			name: "win32 chains title class and handle",
			d: Descriptor{Kind: KindGenericAutomation, Backend: BackendWin32, Properties: Properties{
				Handle: 0x42, Text: "Apply", ClassName: "Button", AutomationID: "ignored", ControlType: "Button",
			}},
			want: `dlg.child_window(title="Apply", class_name="Button", handle=0x42).click()`,
		},
		{
			name: "uia with automation id only",
			d:    Descriptor{Kind: KindDirectAutomation, Backend: BackendUIA, Properties: Properties{AutomationID: "txtName"}},
			want: `dlg.child_window(auto_id="txtName").click_input()`,
		},
		{
			name: "nothing to identify",
			d:    Descriptor{Kind: KindAccessibility, Backend: BackendUIA, Properties: Properties{Rect: Rect{0, 0, 5, 5}}},
			want: InsufficientInfo,
		},
		{
			name: "not found",
			d:    Descriptor{Kind: KindNotFound, Backend: BackendWin32, Point: Point{X: 3, Y: 4}},
			want: InsufficientInfo,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locs := Locators(tt.d)
			if locs[0].Label != "combined" || locs[0].Code != tt.want {
				t.Errorf("first snippet = %+v, want combined %s", locs[0], tt.want)
			}
			if last := locs[len(locs)-1]; last.Label != "by coordinates" {
				t.Errorf("last snippet = %+v, want the coordinate click", last)
			}
		})
	}
}

func TestPatternMethodsInReport(t *testing.T) {
	tests := []struct {
		backend Backend
		want    []string
		absent  string
	}{
		{BackendUIA, []string{".click_input()", ".set_focus()", ".get_value()", ".window_text()"}, ".is_visible()"},
		{BackendWin32, []string{".click()", ".set_focus()", ".window_text()", ".is_visible()"}, ".get_value()"},
	}
	for _, tt := range tests {
		text := FormatReport(Report{Backend: tt.backend})
		_, actions, ok := strings.Cut(text, "# Actions\n")
		if !ok {
			t.Fatalf("%s report has no actions section:\n%s", tt.backend, text)
		}
		for _, m := range tt.want {
			if !strings.Contains(actions, m) {
				t.Errorf("%s actions missing %s:\n%s", tt.backend, m, actions)
			}
		}
		if strings.Contains(actions, tt.absent) {
			t.Errorf("%s actions should not list %s", tt.backend, tt.absent)
		}
	}
}

func TestReportShowsResolvedTkElement(t *testing.T) {
	p := Point{X: 500, Y: 300}
	fw := tkWindows(p, [2]int{5, 10}, [2]int{10, 15}, [2]int{50, 100})
	svc := Services{Windows: fw, Automation: Win32Automation{Windows: fw}}

	r := NewInspector(svc).Inspect(p, BackendWin32)
	if r.Kind != KindTkinter.String() {
		t.Fatalf("Kind = %s, want TkinterSpecific", r.Kind)
	}
	resolved := rectAround(p, 10, 15)
	if !r.Columns[0].Resolved || r.Columns[0].Properties.Rect != resolved {
		t.Errorf("win32 column = %+v, want the resolved Tk window", r.Columns[0])
	}
	if r.Columns[1].Resolved {
		t.Errorf("uia column marked resolved: %+v", r.Columns[1])
	}

	text := FormatReport(r)
	for _, want := range []string{"[win32] resolved", "rect:    " + resolved.String(), "handle:  0x3"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestReportShowsDirectHelpText(t *testing.T) {
	p := Point{X: 40, Y: 12}
	svc := Services{Direct: fakeDirect{props: Properties{
		Text: "Save", ControlType: "Button", HelpText: "Saves the file", Rect: rectAround(p, 24, 24),
	}}}

	text := FormatReport(NewInspector(svc).Inspect(p, BackendUIA))

	for _, want := range []string{
		"Result:   DirectAutomation via direct-automation",
		"[uia] resolved",
		"help:    Saves the file",
		"rect:    " + rectAround(p, 24, 24).String(),
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestConnectSnippet(t *testing.T) {
	got := ConnectSnippet("Untitled - Notepad", BackendWin32)
	if !strings.Contains(got, `Application(backend="win32").connect(title="Untitled - Notepad")`) {
		t.Errorf("unexpected snippet:\n%s", got)
	}
	if got := ConnectSnippet("", BackendUIA); !strings.Contains(got, "<window title>") {
		t.Errorf("empty title not templated:\n%s", got)
	}
}

func TestInspectBuildsBothColumns(t *testing.T) {
	p := Point{X: 50, Y: 50}
	fw := &fakeWindows{at: 2, windows: map[Handle]*fakeWindow{
		1: {class: "Notepad", text: "Untitled - Notepad", rect: Rect{0, 0, 500, 500}, children: []Handle{2}},
		2: {class: "Edit", rect: Rect{0, 20, 500, 500}, parent: 1},
	}}
	svc := Services{
		Windows: fw,
		Automation: &fakeAutomation{roots: map[Backend]*fakeElement{
			BackendUIA: {props: Properties{Text: "Text Editor", ControlType: "Document", Rect: Rect{0, 20, 500, 500}}},
		}},
	}

	r := NewInspector(svc).Inspect(p, BackendUIA)

	if r.Title != "Untitled - Notepad" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Columns[0].Backend != BackendWin32 || r.Columns[0].Err == "" {
		t.Errorf("win32 column = %+v, want an unavailable column", r.Columns[0])
	}
	if r.Columns[1].Properties.Text != "Text Editor" {
		t.Errorf("uia column = %+v", r.Columns[1])
	}

	text := FormatReport(r)
	for _, want := range []string{
		`connect(title="Untitled - Notepad")`,
		"Window:   Untitled - Notepad",
		"Result:   GenericAutomation via automation-descent",
		"[win32]",
		"[uia]",
		"text:    Text Editor",
		"# Locators",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestInspectWithWin32Automation(t *testing.T) {
	p := Point{X: 50, Y: 50}
	fw := &fakeWindows{at: 2, windows: map[Handle]*fakeWindow{
		1: {class: "#32770", text: "Options", rect: Rect{0, 0, 300, 300}, children: []Handle{2}},
		2: {class: "Button", text: "Apply", rect: Rect{40, 40, 90, 60}, parent: 1},
	}}
	svc := Services{Windows: fw, Automation: Win32Automation{Windows: fw}}

	r := NewInspector(svc).Inspect(p, BackendWin32)

	if r.Kind != KindGenericAutomation.String() {
		t.Fatalf("Kind = %s", r.Kind)
	}
	if r.Properties.ControlType != "Button" || r.Properties.Handle != 2 {
		t.Errorf("properties = %+v", r.Properties)
	}
	if r.Columns[0].Properties.Text != "Apply" {
		t.Errorf("win32 column = %+v", r.Columns[0])
	}
	if r.Columns[1].Err == "" {
		t.Errorf("uia column should be unavailable: %+v", r.Columns[1])
	}
}

func TestDescribeInvalidBackend(t *testing.T) {
	in := NewInspector(Services{})
	got := in.Describe(Point{X: 1, Y: 2}, "java")
	if !strings.HasPrefix(got, "Error: ") || !strings.Contains(got, "java") {
		t.Errorf("Describe = %q", got)
	}
}

func TestDescribeRecoversOrchestrationPanic(t *testing.T) {
	in := NewInspectorWithResolver(Services{}, nil)
	got := in.Describe(Point{}, "uia")
	if !strings.HasPrefix(got, "Error: ") {
		t.Errorf("Describe = %q", got)
	}
}

func TestDescribeNotFound(t *testing.T) {
	got := NewInspector(Services{}).Describe(Point{X: 9, Y: 9}, "win32")
	if !strings.Contains(got, "Result:   NotFound") || !strings.Contains(got, "coords=(9, 9)") {
		t.Errorf("Describe:\n%s", got)
	}
}

func TestBackendFlagToggle(t *testing.T) {
	f := NewBackendFlag(BackendWin32)
	if got := f.Toggle(); got != BackendUIA {
		t.Errorf("Toggle = %s", got)
	}
	if got := f.Load(); got != BackendUIA {
		t.Errorf("Load = %s", got)
	}
	var zero BackendFlag
	if got := zero.Load(); got != BackendUIA {
		t.Errorf("zero Load = %s", got)
	}
	if got := zero.Toggle(); got != BackendWin32 {
		t.Errorf("zero Toggle = %s", got)
	}
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{"win32": BackendWin32, " UIA ": BackendUIA} {
		got, err := ParseBackend(in)
		if err != nil || got != want {
			t.Errorf("ParseBackend(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseBackend(""); err == nil {
		t.Error("ParseBackend(\"\") succeeded")
	}
}
