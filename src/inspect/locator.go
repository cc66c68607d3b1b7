package inspect

import (
	"fmt"
	"strings"
)

// Snippet is a copy-paste suggestion for re-targeting an element.
type Snippet struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// pyQuote renders s as a double-quoted Python string literal.
func pyQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// ConnectSnippet is the template for attaching to a window by title.
func ConnectSnippet(title string, b Backend) string {
	if title == "" {
		title = "<window title>"
	}
	return fmt.Sprintf("from pywinauto import Application\n"+
		"app = Application(backend=%s).connect(title=%s)\n"+
		"dlg = app.window(title=%s)",
		pyQuote(string(b)), pyQuote(title), pyQuote(title))
}

// Method is a wrapper method commonly chained onto a located element.
type Method struct {
	Call    string
	Purpose string
}

var (
	uiaMethods = []Method{
		{".click_input()", "click"},
		{".set_focus()", "move focus"},
		{".get_value()", "read value"},
		{".window_text()", "read text"},
	}
	win32Methods = []Method{
		{".click()", "click"},
		{".set_focus()", "move focus"},
		{".window_text()", "read text"},
		{".is_visible()", "check visibility"},
	}
)

// PatternMethods lists the usual actions for elements of backend b.
func PatternMethods(b Backend) []Method {
	if b == BackendWin32 {
		return win32Methods
	}
	return uiaMethods
}

// InsufficientInfo is emitted in place of a combined locator when the
// element carries nothing to identify it by.
const InsufficientInfo = "# not enough information to identify the element; use the coordinate click"

// combinedLocator chains every available criterion into one locator and
// ends it with the backend's click.
func combinedLocator(p Properties, b Backend) Snippet {
	var args []string
	if p.Text != "" {
		args = append(args, "title="+pyQuote(p.Text))
	}
	if b == BackendWin32 {
		if p.ClassName != "" {
			args = append(args, "class_name="+pyQuote(p.ClassName))
		}
		if p.Handle != 0 {
			args = append(args, fmt.Sprintf("handle=%s", p.Handle))
		}
	} else {
		if p.ControlType != "" {
			args = append(args, "control_type="+pyQuote(p.ControlType))
		}
		if p.AutomationID != "" {
			args = append(args, "auto_id="+pyQuote(p.AutomationID))
		}
	}
	if len(args) == 0 {
		return Snippet{Label: "combined", Code: InsufficientInfo}
	}
	action := ".click_input()"
	if b == BackendWin32 {
		action = ".click()"
	}
	return Snippet{
		Label: "combined",
		Code:  "dlg.child_window(" + strings.Join(args, ", ") + ")" + action,
	}
}

// Locators derives locator snippets for d. A combined locator with an
// action comes first; the coordinate click is always last so there is a
// usable fallback for every result.
func Locators(d Descriptor) []Snippet {
	p := d.Properties
	var out []Snippet

	if !d.Found() {
		out = append(out, Snippet{Label: "combined", Code: InsufficientInfo})
	} else {
		out = append(out, combinedLocator(p, d.Backend))
		if p.Text != "" {
			args := "title=" + pyQuote(p.Text)
			if p.ControlType != "" && d.Backend == BackendUIA {
				args += ", control_type=" + pyQuote(p.ControlType)
			}
			out = append(out, Snippet{Label: "by title", Code: "dlg.child_window(" + args + ")"})
		}
		if p.AutomationID != "" {
			out = append(out, Snippet{
				Label: "by automation id",
				Code:  "dlg.child_window(auto_id=" + pyQuote(p.AutomationID) + ")",
			})
		}
		if p.ClassName != "" {
			out = append(out, Snippet{
				Label: "by class name",
				Code:  "dlg.child_window(class_name=" + pyQuote(p.ClassName) + ")",
			})
		}
		if p.Handle != 0 {
			out = append(out, Snippet{
				Label: "by handle",
				Code:  fmt.Sprintf("app.window(handle=%s)", p.Handle),
			})
		}
	}

	click := d.Point
	if d.Found() && !p.Rect.Empty() {
		click = p.Rect.Center()
	}
	out = append(out, Snippet{
		Label: "by coordinates",
		Code:  fmt.Sprintf("pywinauto.mouse.click(coords=(%d, %d))", click.X, click.Y),
	})
	return out
}
